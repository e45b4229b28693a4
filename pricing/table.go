// Package pricing provides the static price table used for cost estimates.
// Prices are order-of-magnitude estimates, not billing data.
package pricing

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/relicscan/relic/pkg/inventory"
)

// HoursPerMonth is the billable hour count for time-rate resources.
const HoursPerMonth = 730

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

// Table maps (kind, variant) to a unit price. Time-rate kinds (compute,
// floating IP) are priced per hour; size-rate kinds per GiB-month.
// Tables are immutable once built.
type Table struct {
	compute  map[string]decimal.Decimal
	volume   map[string]decimal.Decimal
	object   map[string]decimal.Decimal
	address  decimal.Decimal
	snapshot decimal.Decimal

	computeFallback decimal.Decimal
	volumeFallback  decimal.Decimal
	objectFallback  decimal.Decimal
}

// Default returns the built-in price table.
func Default() Table {
	return Table{
		compute: map[string]decimal.Decimal{
			"t2.micro":  dec("0.0116"),
			"t2.small":  dec("0.023"),
			"t2.medium": dec("0.0467"),
			"t2.large":  dec("0.093"),
			"t3.micro":  dec("0.0104"),
			"t3.small":  dec("0.0208"),
			"t3.medium": dec("0.0416"),
			"t3.large":  dec("0.0832"),
		},
		volume: map[string]decimal.Decimal{
			"gp2": dec("0.10"),
			"gp3": dec("0.08"),
			"io1": dec("0.125"),
			"io2": dec("0.125"),
			"st1": dec("0.045"),
			"sc1": dec("0.015"),
		},
		object: map[string]decimal.Decimal{
			"standard":            dec("0.023"),
			"intelligent_tiering": dec("0.0125"),
			"standard_ia":         dec("0.0125"),
			"onezone_ia":          dec("0.01"),
			"glacier":             dec("0.004"),
			"glacier_ir":          dec("0.0036"),
		},
		address:         dec("0.005"),
		snapshot:        dec("0.05"),
		computeFallback: dec("0.05"),
		volumeFallback:  dec("0.10"),
		objectFallback:  dec("0.023"),
	}
}

// Zero returns an all-zero table. Substituting it turns the whole run into
// a no-cost inventory without touching any other component.
func Zero() Table {
	return Table{}
}

// UnitPrice looks up the unit price for a kind and variant. Unknown
// variants return the kind's fallback price rather than failing.
func (t Table) UnitPrice(kind inventory.Kind, variant string) decimal.Decimal {
	switch kind {
	case inventory.KindCompute:
		if p, ok := t.compute[variant]; ok {
			return p
		}
		return t.computeFallback
	case inventory.KindBlockVolume:
		if p, ok := t.volume[variant]; ok {
			return p
		}
		return t.volumeFallback
	case inventory.KindObjectStore:
		if p, ok := t.object[variant]; ok {
			return p
		}
		return t.objectFallback
	case inventory.KindFloatingIP:
		return t.address
	case inventory.KindSnapshot:
		return t.snapshot
	}
	return decimal.Zero
}

// Overrides carries per-variant price replacements, keyed by service name
// as it appears in config files. Values are decimal strings.
type Overrides struct {
	Compute  map[string]string `yaml:"compute"`
	Volume   map[string]string `yaml:"volume"`
	Object   map[string]string `yaml:"object"`
	Address  string            `yaml:"address"`
	Snapshot string            `yaml:"snapshot"`
}

// WithOverrides returns a copy of the table with the given prices replaced.
func (t Table) WithOverrides(ov Overrides) (Table, error) {
	out := t
	var err error
	if out.compute, err = overrideMap(t.compute, ov.Compute); err != nil {
		return Table{}, fmt.Errorf("pricing: compute: %w", err)
	}
	if out.volume, err = overrideMap(t.volume, ov.Volume); err != nil {
		return Table{}, fmt.Errorf("pricing: volume: %w", err)
	}
	if out.object, err = overrideMap(t.object, ov.Object); err != nil {
		return Table{}, fmt.Errorf("pricing: object: %w", err)
	}
	if ov.Address != "" {
		if out.address, err = decimal.NewFromString(ov.Address); err != nil {
			return Table{}, fmt.Errorf("pricing: address: %w", err)
		}
	}
	if ov.Snapshot != "" {
		if out.snapshot, err = decimal.NewFromString(ov.Snapshot); err != nil {
			return Table{}, fmt.Errorf("pricing: snapshot: %w", err)
		}
	}
	return out, nil
}

func overrideMap(base map[string]decimal.Decimal, ov map[string]string) (map[string]decimal.Decimal, error) {
	if len(ov) == 0 {
		return base, nil
	}
	out := make(map[string]decimal.Decimal, len(base)+len(ov))
	for k, v := range base {
		out[k] = v
	}
	for variant, raw := range ov {
		p, err := decimal.NewFromString(raw)
		if err != nil {
			return nil, fmt.Errorf("variant %s: %w", variant, err)
		}
		if p.IsNegative() {
			return nil, fmt.Errorf("variant %s: price must not be negative", variant)
		}
		out[variant] = p
	}
	return out, nil
}
