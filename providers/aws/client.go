// Package aws implements resource discovery against the AWS APIs.
package aws

import (
	"context"
	"fmt"
	"sync"

	awssdk "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/ec2"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// Client holds region-scoped EC2 clients and the global S3 client.
// EC2 clients are created lazily per region and cached; the cache is safe
// for concurrent scans.
type Client struct {
	cfg awssdk.Config

	mu  sync.Mutex
	ec2 map[string]EC2API
	s3  S3API
}

// NewClient loads AWS credentials from the default chain (env, shared
// config, instance role). An empty profile uses the default profile.
func NewClient(ctx context.Context, profile string) (*Client, error) {
	opts := []func(*config.LoadOptions) error{}
	if profile != "" {
		opts = append(opts, config.WithSharedConfigProfile(profile))
	}

	cfg, err := config.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	return &Client{
		cfg: cfg,
		ec2: make(map[string]EC2API),
		s3:  s3.NewFromConfig(cfg),
	}, nil
}

// EC2 returns an EC2 client scoped to the given region. An empty region
// uses the config's default region (used for the region listing call).
func (c *Client) EC2(region string) EC2API {
	c.mu.Lock()
	defer c.mu.Unlock()

	if client, ok := c.ec2[region]; ok {
		return client
	}
	client := ec2.NewFromConfig(c.cfg, func(o *ec2.Options) {
		if region != "" {
			o.Region = region
		}
	})
	c.ec2[region] = client
	return client
}

// S3 returns the global S3 client. Bucket listing is not region-scoped.
func (c *Client) S3() S3API {
	return c.s3
}
