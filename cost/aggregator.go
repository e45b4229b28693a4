// Package cost aggregates estimated monthly cost over a scan session.
package cost

import (
	"github.com/shopspring/decimal"

	"github.com/relicscan/relic/pkg/inventory"
)

// Summary holds monthly cost totals per kind plus the overall total.
// All values are exact decimal sums; display rounding happens at the
// report layer.
type Summary struct {
	PerKind map[inventory.Kind]decimal.Decimal
	Total   decimal.Decimal
}

// Aggregate sums per-resource monthly costs for every kind in the session.
// Pure and order-independent: any partition of resources across regions
// yields the same totals.
func Aggregate(session *inventory.Session) Summary {
	summary := Summary{PerKind: make(map[inventory.Kind]decimal.Decimal, len(inventory.AllKinds()))}

	for _, kind := range inventory.AllKinds() {
		sum := decimal.Zero
		for _, r := range session.Collection(kind) {
			sum = sum.Add(r.MonthlyCost)
		}
		summary.PerKind[kind] = sum
		summary.Total = summary.Total.Add(sum)
	}

	return summary
}
