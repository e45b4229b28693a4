package aws

import (
	"context"
	"fmt"

	awssdk "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ec2"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/rs/zerolog"

	"github.com/relicscan/relic/pkg/inventory"
)

const (
	// defaultBucketRegion is reported for buckets where the provider
	// returns no explicit location constraint.
	defaultBucketRegion = "us-east-1"

	// unknownRegion marks buckets whose location lookup failed.
	unknownRegion = "unknown"

	bytesPerGiB = 1024 * 1024 * 1024
)

// Scanner lists resources of one kind within one region, consuming all
// pages. A provider error for the region is returned to the caller and
// isolated there; a lookup failure for a single resource is substituted
// with sentinels so the rest of the region still scans.
type Scanner struct {
	ec2For func(region string) EC2API
	s3     S3API
	norm   *Normalizer
	log    zerolog.Logger
}

// NewScanner creates a scanner over the given client set.
func NewScanner(client *Client, norm *Normalizer, log zerolog.Logger) *Scanner {
	return &Scanner{
		ec2For: client.EC2,
		s3:     client.S3(),
		norm:   norm,
		log:    log,
	}
}

// ListRegions returns the enabled region names in provider order.
func (s *Scanner) ListRegions(ctx context.Context) ([]string, error) {
	output, err := s.ec2For("").DescribeRegions(ctx, &ec2.DescribeRegionsInput{})
	if err != nil {
		return nil, fmt.Errorf("describe regions: %w", err)
	}

	regions := make([]string, 0, len(output.Regions))
	for _, r := range output.Regions {
		regions = append(regions, awssdk.ToString(r.RegionName))
	}
	return regions, nil
}

// Scan lists all resources of one kind. Region is ignored for the object
// store kind, which has a single global listing call.
func (s *Scanner) Scan(ctx context.Context, region string, kind inventory.Kind) ([]inventory.Resource, error) {
	switch kind {
	case inventory.KindCompute:
		return s.scanInstances(ctx, region)
	case inventory.KindBlockVolume:
		return s.scanVolumes(ctx, region)
	case inventory.KindObjectStore:
		return s.scanBuckets(ctx)
	case inventory.KindFloatingIP:
		return s.scanAddresses(ctx, region)
	case inventory.KindSnapshot:
		return s.scanSnapshots(ctx, region)
	}
	return nil, fmt.Errorf("unknown resource kind %q", kind)
}

func (s *Scanner) scanInstances(ctx context.Context, region string) ([]inventory.Resource, error) {
	client := s.ec2For(region)

	var resources []inventory.Resource
	var nextToken *string
	for {
		output, err := client.DescribeInstances(ctx, &ec2.DescribeInstancesInput{NextToken: nextToken})
		if err != nil {
			return nil, fmt.Errorf("describe instances: %w", err)
		}

		for _, reservation := range output.Reservations {
			for _, instance := range reservation.Instances {
				resources = append(resources, s.norm.Instance(instance, region))
			}
		}

		if output.NextToken == nil {
			break
		}
		nextToken = output.NextToken
	}
	return resources, nil
}

func (s *Scanner) scanVolumes(ctx context.Context, region string) ([]inventory.Resource, error) {
	client := s.ec2For(region)

	var resources []inventory.Resource
	var nextToken *string
	for {
		output, err := client.DescribeVolumes(ctx, &ec2.DescribeVolumesInput{NextToken: nextToken})
		if err != nil {
			return nil, fmt.Errorf("describe volumes: %w", err)
		}

		for _, volume := range output.Volumes {
			resources = append(resources, s.norm.Volume(volume, region))
		}

		if output.NextToken == nil {
			break
		}
		nextToken = output.NextToken
	}
	return resources, nil
}

func (s *Scanner) scanAddresses(ctx context.Context, region string) ([]inventory.Resource, error) {
	output, err := s.ec2For(region).DescribeAddresses(ctx, &ec2.DescribeAddressesInput{})
	if err != nil {
		return nil, fmt.Errorf("describe addresses: %w", err)
	}

	var resources []inventory.Resource
	for _, address := range output.Addresses {
		resources = append(resources, s.norm.Address(address, region))
	}
	return resources, nil
}

func (s *Scanner) scanSnapshots(ctx context.Context, region string) ([]inventory.Resource, error) {
	client := s.ec2For(region)

	var resources []inventory.Resource
	var nextToken *string
	for {
		output, err := client.DescribeSnapshots(ctx, &ec2.DescribeSnapshotsInput{
			OwnerIds:  []string{"self"},
			NextToken: nextToken,
		})
		if err != nil {
			return nil, fmt.Errorf("describe snapshots: %w", err)
		}

		for _, snapshot := range output.Snapshots {
			resources = append(resources, s.norm.Snapshot(snapshot, region))
		}

		if output.NextToken == nil {
			break
		}
		nextToken = output.NextToken
	}
	return resources, nil
}

// scanBuckets lists all buckets, then resolves each bucket's region and
// approximate size. A failed per-bucket lookup keeps the bucket with
// sentinel values instead of dropping it.
func (s *Scanner) scanBuckets(ctx context.Context) ([]inventory.Resource, error) {
	output, err := s.s3.ListBuckets(ctx, &s3.ListBucketsInput{})
	if err != nil {
		return nil, fmt.Errorf("list buckets: %w", err)
	}

	var resources []inventory.Resource
	for _, bucket := range output.Buckets {
		region := s.bucketRegion(ctx, bucket.Name)
		size := s.bucketSizeGiB(ctx, bucket.Name)
		resources = append(resources, s.norm.Bucket(bucket, region, size))
	}
	return resources, nil
}

func (s *Scanner) bucketRegion(ctx context.Context, name *string) string {
	output, err := s.s3.GetBucketLocation(ctx, &s3.GetBucketLocationInput{Bucket: name})
	if err != nil {
		s.log.Warn().Err(err).Str("bucket", awssdk.ToString(name)).Msg("bucket region lookup failed")
		return unknownRegion
	}
	if output.LocationConstraint == "" {
		return defaultBucketRegion
	}
	return string(output.LocationConstraint)
}

// bucketSizeGiB sums object sizes from a single listing call. Buckets with
// more objects than one page are understated; the report labels bucket
// sizes as approximate.
func (s *Scanner) bucketSizeGiB(ctx context.Context, name *string) float64 {
	output, err := s.s3.ListObjectsV2(ctx, &s3.ListObjectsV2Input{Bucket: name})
	if err != nil {
		s.log.Warn().Err(err).Str("bucket", awssdk.ToString(name)).Msg("bucket size lookup failed")
		return 0
	}

	var bytes int64
	for _, object := range output.Contents {
		bytes += awssdk.ToInt64(object.Size)
	}
	return float64(bytes) / bytesPerGiB
}
