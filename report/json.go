package report

import (
	"fmt"
	"io"
	"time"

	json "github.com/goccy/go-json"

	"github.com/relicscan/relic/pkg/inventory"
)

type jsonDocument struct {
	Metadata        jsonMetadata                    `json:"metadata"`
	Summary         map[string]int                  `json:"summary"`
	CostSummary     jsonCostSummary                 `json:"cost_summary"`
	Resources       map[string][]inventory.Resource `json:"resources"`
	Recommendations jsonRecommendations             `json:"recommendations"`
	Failures        []jsonFailure                   `json:"failures,omitempty"`
}

type jsonMetadata struct {
	GeneratedAt time.Time `json:"generated_at"`
	Version     string    `json:"version"`
}

type jsonCostSummary struct {
	PerKind map[string]string `json:"per_kind"`
	Total   string            `json:"total"`
}

type jsonRecommendations struct {
	StoppedCompute  []string `json:"stopped_compute"`
	DetachedVolumes []string `json:"detached_volumes"`
	UnassociatedIPs []string `json:"unassociated_ips"`
}

type jsonFailure struct {
	Region string `json:"region"`
	Kind   string `json:"kind"`
	Error  string `json:"error"`
}

func (r *Report) renderJSON(w io.Writer) error {
	doc := jsonDocument{
		Metadata: jsonMetadata{GeneratedAt: r.GeneratedAt.UTC(), Version: r.Version},
		Summary:  map[string]int{},
		CostSummary: jsonCostSummary{
			PerKind: map[string]string{},
			Total:   r.Costs.Total.StringFixed(2),
		},
		Resources: map[string][]inventory.Resource{},
		Recommendations: jsonRecommendations{
			StoppedCompute:  ids(r.Waste.StoppedCompute),
			DetachedVolumes: ids(r.Waste.DetachedVolumes),
			UnassociatedIPs: ids(r.Waste.UnassociatedIPs),
		},
	}

	for _, kind := range inventory.AllKinds() {
		collection := r.Session.Collection(kind)
		doc.Summary[string(kind)] = len(collection)
		doc.CostSummary.PerKind[string(kind)] = r.Costs.PerKind[kind].StringFixed(2)
		doc.Resources[string(kind)] = collection
	}

	for _, f := range r.Session.Failures() {
		doc.Failures = append(doc.Failures, jsonFailure{
			Region: f.Region,
			Kind:   string(f.Kind),
			Error:  f.Err.Error(),
		})
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("encode report: %w", err)
	}
	return nil
}

func ids(resources []inventory.Resource) []string {
	out := make([]string, 0, len(resources))
	for _, res := range resources {
		out = append(out, res.ID)
	}
	return out
}
