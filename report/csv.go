package report

import (
	"encoding/csv"
	"fmt"
	"io"

	"github.com/relicscan/relic/pkg/inventory"
)

var csvHeader = []string{
	"kind", "id", "region", "name", "variant", "state", "size_gib", "associated", "monthly_cost",
}

// renderCSV writes one flat row per resource. Kind-specific columns that do
// not apply to a resource are left empty.
func (r *Report) renderCSV(w io.Writer) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}

	for _, kind := range inventory.AllKinds() {
		for _, res := range r.Session.Collection(kind) {
			if err := cw.Write(csvRow(res)); err != nil {
				return fmt.Errorf("write csv row: %w", err)
			}
		}
	}

	cw.Flush()
	return cw.Error()
}

func csvRow(res inventory.Resource) []string {
	var variant, state, size, associated string

	switch res.Kind {
	case inventory.KindCompute:
		variant = res.Compute.InstanceType
		state = res.Compute.State
	case inventory.KindBlockVolume:
		variant = res.Volume.Type
		state = res.Volume.State
		size = fmt.Sprintf("%d", res.Volume.SizeGiB)
	case inventory.KindObjectStore:
		size = fmt.Sprintf("%.2f", res.Bucket.SizeGiB)
	case inventory.KindFloatingIP:
		associated = "false"
		if res.Address.Associated {
			associated = "true"
		}
	case inventory.KindSnapshot:
		variant = res.Snapshot.VolumeID
		state = res.Snapshot.State
		size = fmt.Sprintf("%d", res.Snapshot.SizeGiB)
	}

	return []string{
		string(res.Kind), res.ID, res.Region, res.Name,
		variant, state, size, associated, res.MonthlyCost.StringFixed(2),
	}
}
