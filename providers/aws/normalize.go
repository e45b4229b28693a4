package aws

import (
	"math"
	"time"

	awssdk "github.com/aws/aws-sdk-go-v2/aws"
	ec2types "github.com/aws/aws-sdk-go-v2/service/ec2/types"
	s3types "github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/shopspring/decimal"

	"github.com/relicscan/relic/pkg/inventory"
	"github.com/relicscan/relic/pricing"
)

var hoursPerMonth = decimal.NewFromInt(pricing.HoursPerMonth)

// Normalizer converts raw AWS records into canonical resources and attaches
// the estimated monthly cost. Normalization never fails: missing optional
// fields become sentinel values before they reach cost or waste computation.
type Normalizer struct {
	prices pricing.Table
	now    func() time.Time
}

// NewNormalizer creates a normalizer over the given price table.
func NewNormalizer(prices pricing.Table) *Normalizer {
	return &Normalizer{prices: prices, now: time.Now}
}

// Instance normalizes an EC2 instance.
func (n *Normalizer) Instance(instance ec2types.Instance, region string) inventory.Resource {
	state := inventory.NotAvailable
	if instance.State != nil {
		state = string(instance.State.Name)
	}

	detail := &inventory.ComputeDetail{
		InstanceType: orNA(string(instance.InstanceType)),
		State:        state,
		PublicIP:     orNA(awssdk.ToString(instance.PublicIpAddress)),
		PrivateIP:    orNA(awssdk.ToString(instance.PrivateIpAddress)),
		LaunchTime:   instance.LaunchTime,
		VPCID:        orNA(awssdk.ToString(instance.VpcId)),
		SubnetID:     orNA(awssdk.ToString(instance.SubnetId)),
	}
	if instance.LaunchTime != nil {
		hours := n.now().Sub(*instance.LaunchTime).Hours()
		if hours < 0 {
			hours = 0
		}
		detail.RunningHours = math.Round(hours*100) / 100
	}

	price := n.prices.UnitPrice(inventory.KindCompute, string(instance.InstanceType))

	return inventory.Resource{
		Kind:        inventory.KindCompute,
		ID:          awssdk.ToString(instance.InstanceId),
		Region:      region,
		Name:        nameTag(instance.Tags),
		MonthlyCost: price.Mul(hoursPerMonth),
		Compute:     detail,
	}
}

// Volume normalizes an EBS volume.
func (n *Normalizer) Volume(volume ec2types.Volume, region string) inventory.Resource {
	size := awssdk.ToInt32(volume.Size)
	if size < 0 {
		size = 0
	}
	price := n.prices.UnitPrice(inventory.KindBlockVolume, string(volume.VolumeType))

	return inventory.Resource{
		Kind:        inventory.KindBlockVolume,
		ID:          awssdk.ToString(volume.VolumeId),
		Region:      region,
		Name:        nameTag(volume.Tags),
		MonthlyCost: price.Mul(decimal.NewFromInt32(size)),
		Volume: &inventory.VolumeDetail{
			Type:       orNA(string(volume.VolumeType)),
			SizeGiB:    size,
			State:      orNA(string(volume.State)),
			Encrypted:  awssdk.ToBool(volume.Encrypted),
			IOPS:       awssdk.ToInt32(volume.Iops),
			Throughput: awssdk.ToInt32(volume.Throughput),
			CreatedAt:  volume.CreateTime,
		},
	}
}

// Bucket normalizes an S3 bucket. The size is computed by the scanner from
// the first page of object listings and may be zero when enumeration fails.
func (n *Normalizer) Bucket(bucket s3types.Bucket, region string, sizeGiB float64) inventory.Resource {
	if sizeGiB < 0 {
		sizeGiB = 0
	}
	price := n.prices.UnitPrice(inventory.KindObjectStore, "standard")

	return inventory.Resource{
		Kind:        inventory.KindObjectStore,
		ID:          awssdk.ToString(bucket.Name),
		Region:      region,
		Name:        orNA(awssdk.ToString(bucket.Name)),
		MonthlyCost: price.Mul(decimal.NewFromFloat(sizeGiB)),
		Bucket: &inventory.BucketDetail{
			SizeGiB:   sizeGiB,
			CreatedAt: bucket.CreationDate,
		},
	}
}

// Address normalizes an Elastic IP. Unassociated addresses bill hourly;
// associated ones are free.
func (n *Normalizer) Address(address ec2types.Address, region string) inventory.Resource {
	associated := address.InstanceId != nil ||
		address.NetworkInterfaceId != nil ||
		address.AssociationId != nil

	cost := decimal.Zero
	if !associated {
		cost = n.prices.UnitPrice(inventory.KindFloatingIP, "").Mul(hoursPerMonth)
	}

	id := awssdk.ToString(address.AllocationId)
	if id == "" {
		id = awssdk.ToString(address.PublicIp)
	}

	return inventory.Resource{
		Kind:        inventory.KindFloatingIP,
		ID:          id,
		Region:      region,
		Name:        orNA(awssdk.ToString(address.PublicIp)),
		MonthlyCost: cost,
		Address: &inventory.AddressDetail{
			PublicIP:           orNA(awssdk.ToString(address.PublicIp)),
			AllocationID:       orNA(awssdk.ToString(address.AllocationId)),
			Domain:             orNA(string(address.Domain)),
			InstanceID:         orNA(awssdk.ToString(address.InstanceId)),
			NetworkInterfaceID: orNA(awssdk.ToString(address.NetworkInterfaceId)),
			Associated:         associated,
		},
	}
}

// Snapshot normalizes an EBS snapshot.
func (n *Normalizer) Snapshot(snapshot ec2types.Snapshot, region string) inventory.Resource {
	size := awssdk.ToInt32(snapshot.VolumeSize)
	if size < 0 {
		size = 0
	}
	price := n.prices.UnitPrice(inventory.KindSnapshot, "")

	return inventory.Resource{
		Kind:        inventory.KindSnapshot,
		ID:          awssdk.ToString(snapshot.SnapshotId),
		Region:      region,
		Name:        nameTag(snapshot.Tags),
		MonthlyCost: price.Mul(decimal.NewFromInt32(size)),
		Snapshot: &inventory.SnapshotDetail{
			VolumeID:    orNA(awssdk.ToString(snapshot.VolumeId)),
			SizeGiB:     size,
			State:       orNA(string(snapshot.State)),
			StartTime:   snapshot.StartTime,
			Description: orNA(awssdk.ToString(snapshot.Description)),
		},
	}
}

// nameTag extracts the Name tag, falling back to the N/A sentinel.
func nameTag(tags []ec2types.Tag) string {
	for _, tag := range tags {
		if awssdk.ToString(tag.Key) == "Name" {
			return orNA(awssdk.ToString(tag.Value))
		}
	}
	return inventory.NotAvailable
}

func orNA(s string) string {
	if s == "" {
		return inventory.NotAvailable
	}
	return s
}
