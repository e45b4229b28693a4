package aws

import (
	"testing"
	"time"

	awssdk "github.com/aws/aws-sdk-go-v2/aws"
	ec2types "github.com/aws/aws-sdk-go-v2/service/ec2/types"
	s3types "github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/relicscan/relic/pkg/inventory"
	"github.com/relicscan/relic/pricing"
)

func testNormalizer(at time.Time) *Normalizer {
	n := NewNormalizer(pricing.Default())
	n.now = func() time.Time { return at }
	return n
}

func assertCost(t *testing.T, want string, got decimal.Decimal) {
	t.Helper()
	assert.True(t, got.Equal(decimal.RequireFromString(want)), "cost: got %s want %s", got, want)
}

func TestNormalizeInstance(t *testing.T) {
	now := time.Date(2026, 8, 25, 12, 0, 0, 0, time.UTC)
	launched := now.Add(-10 * time.Hour)

	r := testNormalizer(now).Instance(ec2types.Instance{
		InstanceId:       awssdk.String("i-0abc"),
		InstanceType:     ec2types.InstanceTypeT3Micro,
		State:            &ec2types.InstanceState{Name: ec2types.InstanceStateNameRunning},
		PublicIpAddress:  awssdk.String("54.1.2.3"),
		PrivateIpAddress: awssdk.String("10.0.0.4"),
		LaunchTime:       &launched,
		VpcId:            awssdk.String("vpc-1"),
		SubnetId:         awssdk.String("subnet-1"),
		Tags:             []ec2types.Tag{{Key: awssdk.String("Name"), Value: awssdk.String("web-1")}},
	}, "us-east-1")

	assert.Equal(t, inventory.KindCompute, r.Kind)
	assert.Equal(t, "i-0abc", r.ID)
	assert.Equal(t, "us-east-1", r.Region)
	assert.Equal(t, "web-1", r.Name)
	assertCost(t, "7.592", r.MonthlyCost) // 0.0104 * 730

	require.NotNil(t, r.Compute)
	assert.Equal(t, "t3.micro", r.Compute.InstanceType)
	assert.Equal(t, "running", r.Compute.State)
	assert.Equal(t, "54.1.2.3", r.Compute.PublicIP)
	assert.InDelta(t, 10.0, r.Compute.RunningHours, 0.001)
}

func TestNormalizeInstanceUnknownTypeUsesFallback(t *testing.T) {
	r := testNormalizer(time.Now()).Instance(ec2types.Instance{
		InstanceId:   awssdk.String("i-1"),
		InstanceType: ec2types.InstanceType("m7g.16xlarge"),
	}, "eu-west-1")

	assertCost(t, "36.5", r.MonthlyCost) // 0.05 * 730
}

func TestNormalizeInstanceMissingFields(t *testing.T) {
	r := testNormalizer(time.Now()).Instance(ec2types.Instance{
		InstanceId: awssdk.String("i-bare"),
	}, "us-west-2")

	require.NotNil(t, r.Compute)
	assert.Equal(t, "N/A", r.Name)
	assert.Equal(t, "N/A", r.Compute.PublicIP)
	assert.Equal(t, "N/A", r.Compute.PrivateIP)
	assert.Equal(t, "N/A", r.Compute.VPCID)
	assert.Equal(t, "N/A", r.Compute.State)
	assert.Zero(t, r.Compute.RunningHours)
	assert.False(t, r.MonthlyCost.IsNegative())
}

func TestNormalizeInstanceFutureLaunchClampsHours(t *testing.T) {
	now := time.Now()
	future := now.Add(2 * time.Hour)

	r := testNormalizer(now).Instance(ec2types.Instance{
		InstanceId: awssdk.String("i-clock-skew"),
		LaunchTime: &future,
	}, "us-east-1")

	assert.Zero(t, r.Compute.RunningHours)
}

func TestNormalizeVolume(t *testing.T) {
	r := testNormalizer(time.Now()).Volume(ec2types.Volume{
		VolumeId:   awssdk.String("vol-1"),
		VolumeType: ec2types.VolumeTypeGp2,
		Size:       awssdk.Int32(100),
		State:      ec2types.VolumeStateAvailable,
		Encrypted:  awssdk.Bool(true),
		Iops:       awssdk.Int32(300),
	}, "us-east-1")

	assert.Equal(t, inventory.KindBlockVolume, r.Kind)
	assertCost(t, "10.00", r.MonthlyCost) // 0.10 * 100

	require.NotNil(t, r.Volume)
	assert.Equal(t, "gp2", r.Volume.Type)
	assert.Equal(t, int32(100), r.Volume.SizeGiB)
	assert.Equal(t, "available", r.Volume.State)
	assert.True(t, r.Volume.Encrypted)
}

func TestNormalizeVolumeMissingSize(t *testing.T) {
	r := testNormalizer(time.Now()).Volume(ec2types.Volume{
		VolumeId: awssdk.String("vol-empty"),
	}, "us-east-1")

	assert.Zero(t, r.Volume.SizeGiB)
	assert.True(t, r.MonthlyCost.IsZero())
}

func TestNormalizeBucket(t *testing.T) {
	created := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	r := testNormalizer(time.Now()).Bucket(s3types.Bucket{
		Name:         awssdk.String("assets"),
		CreationDate: &created,
	}, "eu-central-1", 100)

	assert.Equal(t, inventory.KindObjectStore, r.Kind)
	assert.Equal(t, "assets", r.ID)
	assert.Equal(t, "eu-central-1", r.Region)
	assertCost(t, "2.3", r.MonthlyCost) // 0.023 * 100
	require.NotNil(t, r.Bucket)
	assert.Equal(t, 100.0, r.Bucket.SizeGiB)
}

func TestNormalizeAddressAssociation(t *testing.T) {
	tests := []struct {
		name       string
		address    ec2types.Address
		associated bool
		cost       string
	}{
		{
			name:       "fully detached",
			address:    ec2types.Address{PublicIp: awssdk.String("3.3.3.3")},
			associated: false,
			cost:       "3.65", // 0.005 * 730
		},
		{
			name:       "bound to instance",
			address:    ec2types.Address{PublicIp: awssdk.String("3.3.3.4"), InstanceId: awssdk.String("i-1")},
			associated: true,
			cost:       "0",
		},
		{
			name:       "bound to network interface",
			address:    ec2types.Address{PublicIp: awssdk.String("3.3.3.5"), NetworkInterfaceId: awssdk.String("eni-1")},
			associated: true,
			cost:       "0",
		},
		{
			name:       "association id only",
			address:    ec2types.Address{PublicIp: awssdk.String("3.3.3.6"), AssociationId: awssdk.String("eipassoc-1")},
			associated: true,
			cost:       "0",
		},
	}

	norm := testNormalizer(time.Now())
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := norm.Address(tt.address, "us-east-1")
			require.NotNil(t, r.Address)
			assert.Equal(t, tt.associated, r.Address.Associated)
			assertCost(t, tt.cost, r.MonthlyCost)
		})
	}
}

func TestNormalizeSnapshot(t *testing.T) {
	started := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)

	r := testNormalizer(time.Now()).Snapshot(ec2types.Snapshot{
		SnapshotId: awssdk.String("snap-1"),
		VolumeId:   awssdk.String("vol-1"),
		State:      ec2types.SnapshotStateCompleted,
		StartTime:  &started,
		VolumeSize: awssdk.Int32(50),
	}, "us-east-1")

	assert.Equal(t, inventory.KindSnapshot, r.Kind)
	assertCost(t, "2.5", r.MonthlyCost) // 0.05 * 50

	require.NotNil(t, r.Snapshot)
	assert.Equal(t, "vol-1", r.Snapshot.VolumeID)
	assert.Equal(t, "completed", r.Snapshot.State)
	assert.Equal(t, "N/A", r.Snapshot.Description)
}

func TestZeroTableZeroesAllCosts(t *testing.T) {
	n := NewNormalizer(pricing.Zero())

	instance := n.Instance(ec2types.Instance{InstanceId: awssdk.String("i-1"), InstanceType: ec2types.InstanceTypeT2Large}, "r1")
	volume := n.Volume(ec2types.Volume{VolumeId: awssdk.String("vol-1"), Size: awssdk.Int32(500)}, "r1")
	address := n.Address(ec2types.Address{PublicIp: awssdk.String("1.1.1.1")}, "r1")

	assert.True(t, instance.MonthlyCost.IsZero())
	assert.True(t, volume.MonthlyCost.IsZero())
	assert.True(t, address.MonthlyCost.IsZero())
}
