// Package report assembles scan results into text, CSV, and JSON reports.
package report

import (
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/shopspring/decimal"

	"github.com/relicscan/relic/analyzer"
	"github.com/relicscan/relic/cost"
	"github.com/relicscan/relic/pkg/inventory"
)

// Supported output formats.
const (
	FormatText = "txt"
	FormatCSV  = "csv"
	FormatJSON = "json"
)

// Formats lists the supported output formats.
func Formats() []string {
	return []string{FormatText, FormatCSV, FormatJSON}
}

// ValidFormat reports whether the given format is supported.
func ValidFormat(format string) bool {
	for _, f := range Formats() {
		if f == format {
			return true
		}
	}
	return false
}

// Report is the assembled output of one scan run: the session collections,
// the cost summary, and the waste classification.
type Report struct {
	GeneratedAt time.Time
	Version     string
	Session     *inventory.Session
	Costs       cost.Summary
	Waste       analyzer.Waste
}

// New assembles a report.
func New(session *inventory.Session, costs cost.Summary, waste analyzer.Waste, version string) *Report {
	return &Report{
		GeneratedAt: time.Now(),
		Version:     version,
		Session:     session,
		Costs:       costs,
		Waste:       waste,
	}
}

// Render writes the report in the given format.
func (r *Report) Render(format string, w io.Writer) error {
	switch format {
	case FormatCSV:
		return r.renderCSV(w)
	case FormatJSON:
		return r.renderJSON(w)
	case FormatText:
		return r.renderText(w)
	}
	return fmt.Errorf("unknown report format %q", format)
}

// WriteFile renders the report to path, or to a timestamped default name
// when path is empty, and returns the name written. The format's extension
// is appended when missing.
func (r *Report) WriteFile(format, path string) (string, error) {
	if path == "" {
		path = fmt.Sprintf("relic_report_%s", r.GeneratedAt.Format("20060102_150405"))
	}
	ext := "." + format
	if !strings.HasSuffix(path, ext) {
		path += ext
	}

	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("create report file: %w", err)
	}
	defer func() { _ = f.Close() }()

	if err := r.Render(format, f); err != nil {
		return "", fmt.Errorf("render report: %w", err)
	}
	return path, nil
}

func money(d decimal.Decimal) string {
	return "$" + d.StringFixed(2)
}

func (r *Report) renderText(w io.Writer) error {
	rule := strings.Repeat("=", 78)
	section := strings.Repeat("-", 20)

	fmt.Fprintln(w, rule)
	fmt.Fprintln(w, "RELIC RESOURCE REPORT")
	fmt.Fprintln(w, rule)
	fmt.Fprintf(w, "Generated on: %s\n\n", r.GeneratedAt.Format("2006-01-02 15:04:05"))

	fmt.Fprintln(w, "SUMMARY")
	fmt.Fprintln(w, section)
	fmt.Fprintf(w, "  Compute instances: %d\n", len(r.Session.Collection(inventory.KindCompute)))
	fmt.Fprintf(w, "  Block volumes:     %d\n", len(r.Session.Collection(inventory.KindBlockVolume)))
	fmt.Fprintf(w, "  Storage buckets:   %d\n", len(r.Session.Collection(inventory.KindObjectStore)))
	fmt.Fprintf(w, "  Floating IPs:      %d\n", len(r.Session.Collection(inventory.KindFloatingIP)))
	fmt.Fprintf(w, "  Snapshots:         %d\n\n", len(r.Session.Collection(inventory.KindSnapshot)))

	fmt.Fprintln(w, "COST SUMMARY (estimated monthly)")
	fmt.Fprintln(w, section)
	fmt.Fprintf(w, "  Compute:   %s\n", money(r.Costs.PerKind[inventory.KindCompute]))
	fmt.Fprintf(w, "  Volumes:   %s\n", money(r.Costs.PerKind[inventory.KindBlockVolume]))
	fmt.Fprintf(w, "  Buckets:   %s (sizes approximate, first listing page only)\n", money(r.Costs.PerKind[inventory.KindObjectStore]))
	fmt.Fprintf(w, "  IPs:       %s\n", money(r.Costs.PerKind[inventory.KindFloatingIP]))
	fmt.Fprintf(w, "  Snapshots: %s\n", money(r.Costs.PerKind[inventory.KindSnapshot]))
	fmt.Fprintf(w, "  TOTAL:     %s\n\n", money(r.Costs.Total))

	r.writeComputeTable(w, section)
	r.writeVolumeTable(w, section)
	r.writeBucketTable(w, section)
	r.writeAddressTable(w, section)
	r.writeSnapshotTable(w, section)
	r.writeRecommendations(w, section)
	r.writeFailures(w, section)

	fmt.Fprintln(w, rule)
	fmt.Fprintln(w, "END OF REPORT")
	fmt.Fprintln(w, rule)
	return nil
}

func (r *Report) writeComputeTable(w io.Writer, section string) {
	resources := r.Session.Collection(inventory.KindCompute)
	if len(resources) == 0 {
		return
	}
	fmt.Fprintln(w, "COMPUTE INSTANCES")
	fmt.Fprintln(w, section)
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tTYPE\tSTATE\tREGION\tMONTHLY\tNAME")
	for _, res := range resources {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\n",
			res.ID, res.Compute.InstanceType, res.Compute.State, res.Region, money(res.MonthlyCost), res.Name)
	}
	_ = tw.Flush()
	fmt.Fprintln(w)
}

func (r *Report) writeVolumeTable(w io.Writer, section string) {
	resources := r.Session.Collection(inventory.KindBlockVolume)
	if len(resources) == 0 {
		return
	}
	fmt.Fprintln(w, "BLOCK VOLUMES")
	fmt.Fprintln(w, section)
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tTYPE\tSIZE (GiB)\tSTATE\tREGION\tMONTHLY\tNAME")
	for _, res := range resources {
		fmt.Fprintf(tw, "%s\t%s\t%d\t%s\t%s\t%s\t%s\n",
			res.ID, res.Volume.Type, res.Volume.SizeGiB, res.Volume.State, res.Region, money(res.MonthlyCost), res.Name)
	}
	_ = tw.Flush()
	fmt.Fprintln(w)
}

func (r *Report) writeBucketTable(w io.Writer, section string) {
	resources := r.Session.Collection(inventory.KindObjectStore)
	if len(resources) == 0 {
		return
	}
	fmt.Fprintln(w, "STORAGE BUCKETS (sizes approximate)")
	fmt.Fprintln(w, section)
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "NAME\tREGION\tSIZE (GiB)\tMONTHLY")
	for _, res := range resources {
		fmt.Fprintf(tw, "%s\t%s\t%.2f\t%s\n", res.ID, res.Region, res.Bucket.SizeGiB, money(res.MonthlyCost))
	}
	_ = tw.Flush()
	fmt.Fprintln(w)
}

func (r *Report) writeAddressTable(w io.Writer, section string) {
	resources := r.Session.Collection(inventory.KindFloatingIP)
	if len(resources) == 0 {
		return
	}
	fmt.Fprintln(w, "FLOATING IPS")
	fmt.Fprintln(w, section)
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "PUBLIC IP\tREGION\tASSOCIATED\tMONTHLY")
	for _, res := range resources {
		associated := "No"
		if res.Address.Associated {
			associated = "Yes"
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", res.Address.PublicIP, res.Region, associated, money(res.MonthlyCost))
	}
	_ = tw.Flush()
	fmt.Fprintln(w)
}

func (r *Report) writeSnapshotTable(w io.Writer, section string) {
	resources := r.Session.Collection(inventory.KindSnapshot)
	if len(resources) == 0 {
		return
	}
	fmt.Fprintln(w, "SNAPSHOTS")
	fmt.Fprintln(w, section)
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tVOLUME\tSTATE\tSIZE (GiB)\tREGION\tMONTHLY\tNAME")
	for _, res := range resources {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%d\t%s\t%s\t%s\n",
			res.ID, res.Snapshot.VolumeID, res.Snapshot.State, res.Snapshot.SizeGiB, res.Region, money(res.MonthlyCost), res.Name)
	}
	_ = tw.Flush()
	fmt.Fprintln(w)
}

func (r *Report) writeRecommendations(w io.Writer, section string) {
	fmt.Fprintln(w, "RECOMMENDATIONS")
	fmt.Fprintln(w, section)

	if r.Waste.Empty() {
		fmt.Fprintln(w, "No obviously unused resources found")
		fmt.Fprintln(w)
		return
	}
	if n := len(r.Waste.StoppedCompute); n > 0 {
		fmt.Fprintf(w, "Found %d stopped compute instances that may be costing money\n", n)
	}
	if n := len(r.Waste.DetachedVolumes); n > 0 {
		fmt.Fprintf(w, "Found %d unattached volumes that may be costing money\n", n)
	}
	if n := len(r.Waste.UnassociatedIPs); n > 0 {
		fmt.Fprintf(w, "Found %d unassociated floating IPs that are incurring charges\n", n)
	}
	fmt.Fprintln(w)
}

func (r *Report) writeFailures(w io.Writer, section string) {
	failures := r.Session.Failures()
	if len(failures) == 0 {
		return
	}
	fmt.Fprintln(w, "SCAN FAILURES (results incomplete)")
	fmt.Fprintln(w, section)
	for _, f := range failures {
		fmt.Fprintf(w, "  %s\n", f.Error())
	}
	fmt.Fprintln(w)
}
