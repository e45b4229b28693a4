package main

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/relicscan/relic/analyzer"
	"github.com/relicscan/relic/cost"
	"github.com/relicscan/relic/discovery"
	"github.com/relicscan/relic/internal/config"
	"github.com/relicscan/relic/pricing"
	"github.com/relicscan/relic/providers/aws"
	"github.com/relicscan/relic/report"
)

// buildOrchestrator wires the price table, cloud client, and scanner into
// a discovery orchestrator from the effective config.
func buildOrchestrator(ctx context.Context, cfg *config.Config, log zerolog.Logger) (*discovery.Orchestrator, error) {
	prices := pricing.Default()
	if cfg.NoCost {
		prices = pricing.Zero()
	}
	prices, err := prices.WithOverrides(cfg.Pricing)
	if err != nil {
		return nil, err
	}

	client, err := aws.NewClient(ctx, cfg.Profile)
	if err != nil {
		return nil, fmt.Errorf("init cloud client: %w", err)
	}

	scanner := aws.NewScanner(client, aws.NewNormalizer(prices), log)
	return discovery.New(scanner, discovery.Options{
		Regions: cfg.Regions,
		Kinds:   cfg.Kinds(),
		Workers: cfg.Workers,
	}, log), nil
}

// runOnce performs a full discovery cycle and assembles the report.
func runOnce(ctx context.Context, orch *discovery.Orchestrator) *report.Report {
	session := orch.Discover(ctx)
	return report.New(session, cost.Aggregate(session), analyzer.Classify(session), version)
}

// expandAll treats the literal "all" (or an empty list) as "everything".
func expandAll(values, everything []string) []string {
	if len(values) == 0 {
		return everything
	}
	for _, v := range values {
		if v == "all" {
			return everything
		}
	}
	return values
}
