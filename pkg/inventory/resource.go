// Package inventory defines the canonical resource model for Relic.
package inventory

import (
	"time"

	"github.com/shopspring/decimal"
)

// Kind identifies one of the inventoried resource categories.
type Kind string

const (
	KindCompute     Kind = "compute"
	KindBlockVolume Kind = "volume"
	KindObjectStore Kind = "bucket"
	KindFloatingIP  Kind = "floating_ip"
	KindSnapshot    Kind = "snapshot"
)

// NotAvailable is the sentinel for missing display strings.
const NotAvailable = "N/A"

// AllKinds returns every kind in canonical scan order.
func AllKinds() []Kind {
	return []Kind{KindCompute, KindBlockVolume, KindObjectStore, KindFloatingIP, KindSnapshot}
}

// serviceNames maps the CLI service names to kinds.
var serviceNames = map[string]Kind{
	"ec2":       KindCompute,
	"ebs":       KindBlockVolume,
	"s3":        KindObjectStore,
	"eip":       KindFloatingIP,
	"snapshots": KindSnapshot,
}

// KindForService resolves a CLI service name (ec2, ebs, s3, eip, snapshots).
func KindForService(name string) (Kind, bool) {
	k, ok := serviceNames[name]
	return k, ok
}

// ServiceName returns the CLI name for a kind.
func (k Kind) ServiceName() string {
	for name, kind := range serviceNames {
		if kind == k {
			return name
		}
	}
	return string(k)
}

// Regional reports whether listing this kind is scoped to a region.
// Object storage has a single global listing call.
func (k Kind) Regional() bool {
	return k != KindObjectStore
}

// Resource is a normalized cloud resource. Exactly one of the kind-specific
// detail structs is set, matching Kind.
type Resource struct {
	Kind        Kind            `json:"kind"`
	ID          string          `json:"id"`
	Region      string          `json:"region"`
	Name        string          `json:"name"`
	MonthlyCost decimal.Decimal `json:"monthly_cost"`

	Compute  *ComputeDetail  `json:"compute,omitempty"`
	Volume   *VolumeDetail   `json:"volume,omitempty"`
	Bucket   *BucketDetail   `json:"bucket,omitempty"`
	Address  *AddressDetail  `json:"address,omitempty"`
	Snapshot *SnapshotDetail `json:"snapshot,omitempty"`
}

// ComputeDetail holds compute instance fields.
type ComputeDetail struct {
	InstanceType string     `json:"instance_type"`
	State        string     `json:"state"`
	PublicIP     string     `json:"public_ip"`
	PrivateIP    string     `json:"private_ip"`
	LaunchTime   *time.Time `json:"launch_time,omitempty"`
	RunningHours float64    `json:"running_hours"`
	VPCID        string     `json:"vpc_id"`
	SubnetID     string     `json:"subnet_id"`
}

// VolumeDetail holds block volume fields.
type VolumeDetail struct {
	Type       string     `json:"type"`
	SizeGiB    int32      `json:"size_gib"`
	State      string     `json:"state"`
	Encrypted  bool       `json:"encrypted"`
	IOPS       int32      `json:"iops,omitempty"`
	Throughput int32      `json:"throughput,omitempty"`
	CreatedAt  *time.Time `json:"created_at,omitempty"`
}

// BucketDetail holds object store fields. SizeGiB is approximate: it sums
// only the first page of object listings.
type BucketDetail struct {
	SizeGiB   float64    `json:"size_gib"`
	CreatedAt *time.Time `json:"created_at,omitempty"`
}

// AddressDetail holds floating IP fields.
type AddressDetail struct {
	PublicIP           string `json:"public_ip"`
	AllocationID       string `json:"allocation_id"`
	Domain             string `json:"domain"`
	InstanceID         string `json:"instance_id"`
	NetworkInterfaceID string `json:"network_interface_id"`
	Associated         bool   `json:"associated"`
}

// SnapshotDetail holds snapshot fields.
type SnapshotDetail struct {
	VolumeID    string     `json:"volume_id"`
	SizeGiB     int32      `json:"size_gib"`
	State       string     `json:"state"`
	StartTime   *time.Time `json:"start_time,omitempty"`
	Description string     `json:"description"`
}
