package emitter

import (
	"errors"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/relicscan/relic/analyzer"
	"github.com/relicscan/relic/cost"
	"github.com/relicscan/relic/pkg/inventory"
)

func TestRecordPublishesGauges(t *testing.T) {
	session := inventory.NewSession()
	session.Append(inventory.KindCompute, []inventory.Resource{
		{
			Kind: inventory.KindCompute, ID: "i-1", Region: "r1",
			MonthlyCost: decimal.RequireFromString("7.592"),
			Compute:     &inventory.ComputeDetail{State: "stopped"},
		},
	})
	session.AddFailure(inventory.ScanFailure{Region: "r2", Kind: inventory.KindCompute, Err: errors.New("boom")})

	e := New()
	e.Record(session, cost.Aggregate(session), analyzer.Classify(session))

	assert.Equal(t, 1.0, testutil.ToFloat64(e.resourceCount.WithLabelValues("compute")))
	assert.Equal(t, 0.0, testutil.ToFloat64(e.resourceCount.WithLabelValues("volume")))
	assert.InDelta(t, 7.592, testutil.ToFloat64(e.totalCost), 0.0001)
	assert.Equal(t, 1.0, testutil.ToFloat64(e.wasteCount.WithLabelValues("stopped_compute")))
	assert.Equal(t, 1.0, testutil.ToFloat64(e.failureCount))
	assert.Equal(t, 1.0, testutil.ToFloat64(e.scansTotal))
}

func TestRecordReplacesPreviousCycle(t *testing.T) {
	session := inventory.NewSession()
	session.Append(inventory.KindFloatingIP, []inventory.Resource{
		{
			Kind: inventory.KindFloatingIP, ID: "eip-1", Region: "r1",
			MonthlyCost: decimal.RequireFromString("3.65"),
			Address:     &inventory.AddressDetail{Associated: false},
		},
	})

	e := New()
	e.Record(session, cost.Aggregate(session), analyzer.Classify(session))
	require.Equal(t, 1.0, testutil.ToFloat64(e.wasteCount.WithLabelValues("unassociated_ips")))

	empty := inventory.NewSession()
	e.Record(empty, cost.Aggregate(empty), analyzer.Classify(empty))

	assert.Equal(t, 0.0, testutil.ToFloat64(e.wasteCount.WithLabelValues("unassociated_ips")))
	assert.Equal(t, 0.0, testutil.ToFloat64(e.totalCost))
	assert.Equal(t, 2.0, testutil.ToFloat64(e.scansTotal))
}

func TestHandlerServesRegistry(t *testing.T) {
	e := New()
	require.NotNil(t, e.Handler())
}
