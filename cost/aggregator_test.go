package cost

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/relicscan/relic/pkg/inventory"
)

func res(kind inventory.Kind, id, region, cost string) inventory.Resource {
	return inventory.Resource{
		Kind:        kind,
		ID:          id,
		Region:      region,
		MonthlyCost: decimal.RequireFromString(cost),
	}
}

func TestAggregateSumsPerKindAndOverall(t *testing.T) {
	session := inventory.NewSession()
	session.Append(inventory.KindCompute, []inventory.Resource{
		res(inventory.KindCompute, "i-1", "r1", "7.592"),
		res(inventory.KindCompute, "i-2", "r2", "36.5"),
	})
	session.Append(inventory.KindBlockVolume, []inventory.Resource{
		res(inventory.KindBlockVolume, "vol-1", "r1", "10.00"),
	})
	session.Append(inventory.KindFloatingIP, []inventory.Resource{
		res(inventory.KindFloatingIP, "eip-1", "r2", "3.65"),
	})

	summary := Aggregate(session)

	assert.True(t, summary.PerKind[inventory.KindCompute].Equal(decimal.RequireFromString("44.092")))
	assert.True(t, summary.PerKind[inventory.KindBlockVolume].Equal(decimal.RequireFromString("10.00")))
	assert.True(t, summary.PerKind[inventory.KindObjectStore].IsZero())
	assert.True(t, summary.Total.Equal(decimal.RequireFromString("57.742")))
}

func TestAggregateOrderIndependent(t *testing.T) {
	forward := inventory.NewSession()
	forward.Append(inventory.KindCompute, []inventory.Resource{
		res(inventory.KindCompute, "a", "r1", "0.1"),
		res(inventory.KindCompute, "b", "r2", "0.2"),
		res(inventory.KindCompute, "c", "r3", "0.3"),
	})

	reversed := inventory.NewSession()
	reversed.Append(inventory.KindCompute, []inventory.Resource{
		res(inventory.KindCompute, "c", "r3", "0.3"),
		res(inventory.KindCompute, "b", "r2", "0.2"),
		res(inventory.KindCompute, "a", "r1", "0.1"),
	})

	assert.True(t, Aggregate(forward).Total.Equal(Aggregate(reversed).Total))
}

func TestAggregateEmptySession(t *testing.T) {
	summary := Aggregate(inventory.NewSession())

	assert.True(t, summary.Total.IsZero())
	for _, kind := range inventory.AllKinds() {
		assert.True(t, summary.PerKind[kind].IsZero())
	}
}

func TestAggregateAccumulatesExactly(t *testing.T) {
	// 0.1 added a thousand times is exactly 100 in decimal, which binary
	// floating point cannot do.
	session := inventory.NewSession()
	many := make([]inventory.Resource, 1000)
	for i := range many {
		many[i] = res(inventory.KindSnapshot, "snap", "r1", "0.1")
	}
	session.Append(inventory.KindSnapshot, many)

	summary := Aggregate(session)
	assert.True(t, summary.Total.Equal(decimal.NewFromInt(100)))
}
