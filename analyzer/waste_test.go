package analyzer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/relicscan/relic/pkg/inventory"
)

func TestClassifyStoppedCompute(t *testing.T) {
	session := inventory.NewSession()
	session.Append(inventory.KindCompute, []inventory.Resource{
		{Kind: inventory.KindCompute, ID: "i-stopped", Compute: &inventory.ComputeDetail{State: "stopped"}},
		{Kind: inventory.KindCompute, ID: "i-running", Compute: &inventory.ComputeDetail{State: "running"}},
	})

	waste := Classify(session)

	require.Len(t, waste.StoppedCompute, 1)
	assert.Equal(t, "i-stopped", waste.StoppedCompute[0].ID)
	assert.Empty(t, waste.DetachedVolumes)
	assert.Empty(t, waste.UnassociatedIPs)
}

func TestClassifyDetachedVolumes(t *testing.T) {
	session := inventory.NewSession()
	session.Append(inventory.KindBlockVolume, []inventory.Resource{
		{Kind: inventory.KindBlockVolume, ID: "vol-in-use", Volume: &inventory.VolumeDetail{State: "in-use"}},
		{Kind: inventory.KindBlockVolume, ID: "vol-loose", Volume: &inventory.VolumeDetail{State: "available"}},
	})

	waste := Classify(session)

	require.Len(t, waste.DetachedVolumes, 1)
	assert.Equal(t, "vol-loose", waste.DetachedVolumes[0].ID)
}

func TestClassifyUnassociatedIPs(t *testing.T) {
	session := inventory.NewSession()
	session.Append(inventory.KindFloatingIP, []inventory.Resource{
		{Kind: inventory.KindFloatingIP, ID: "eip-bound", Address: &inventory.AddressDetail{Associated: true}},
		{Kind: inventory.KindFloatingIP, ID: "eip-loose", Address: &inventory.AddressDetail{Associated: false}},
	})

	waste := Classify(session)

	require.Len(t, waste.UnassociatedIPs, 1)
	assert.Equal(t, "eip-loose", waste.UnassociatedIPs[0].ID)
}

func TestClassifyEmptySession(t *testing.T) {
	waste := Classify(inventory.NewSession())
	assert.True(t, waste.Empty())
}
