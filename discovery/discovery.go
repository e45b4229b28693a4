// Package discovery orchestrates multi-region resource scans.
package discovery

import (
	"context"
	"errors"
	"sync"

	"github.com/rs/zerolog"

	"github.com/relicscan/relic/pkg/inventory"
)

const defaultWorkers = 4

// Scanner lists resources for one (region, kind) pair. Implementations
// must keep provider failures region-scoped: an error return covers the
// whole pair and nothing else.
type Scanner interface {
	ListRegions(ctx context.Context) ([]string, error)
	Scan(ctx context.Context, region string, kind inventory.Kind) ([]inventory.Resource, error)
}

// Options configures a discovery run.
type Options struct {
	// Regions to scan. Empty means ask the provider for all enabled regions.
	Regions []string
	// Kinds to scan. Empty means all kinds.
	Kinds []inventory.Kind
	// Workers bounds the number of concurrent (region, kind) scans.
	Workers int
}

// Orchestrator fans (region, kind) tasks over a bounded worker pool and
// merges the results into a session. Regions and kinds are independent, so
// tasks run concurrently; results are buffered per task and merged in task
// order after the pool drains, which keeps collection order identical to a
// sequential scan.
type Orchestrator struct {
	scanner Scanner
	opts    Options
	log     zerolog.Logger
}

// New creates an orchestrator.
func New(scanner Scanner, opts Options, log zerolog.Logger) *Orchestrator {
	if opts.Workers <= 0 {
		opts.Workers = defaultWorkers
	}
	if len(opts.Kinds) == 0 {
		opts.Kinds = inventory.AllKinds()
	}
	return &Orchestrator{scanner: scanner, opts: opts, log: log}
}

type task struct {
	region string
	kind   inventory.Kind
}

type taskResult struct {
	resources []inventory.Resource
	err       error
	ran       bool
}

// Discover runs the scan and returns the populated session. Recoverable
// failures are recorded on the session, never escalated. Cancelling the
// context stops dispatching new scans; whatever was collected so far is
// still merged and returned.
func (o *Orchestrator) Discover(ctx context.Context) *inventory.Session {
	session := inventory.NewSession()

	kinds := orderedKinds(o.opts.Kinds)
	regions := o.resolveRegions(ctx, session, kinds)
	tasks := buildTasks(kinds, regions)

	results := o.runTasks(ctx, tasks)

	for i, tk := range tasks {
		res := results[i]
		switch {
		case !res.ran:
			// interrupted before dispatch
		case res.err != nil:
			if errors.Is(res.err, context.Canceled) || errors.Is(res.err, context.DeadlineExceeded) {
				continue
			}
			session.AddFailure(inventory.ScanFailure{Region: tk.region, Kind: tk.kind, Err: res.err})
			o.log.Warn().Err(res.err).Str("region", tk.region).Str("kind", string(tk.kind)).Msg("scan failed")
		default:
			session.Append(tk.kind, res.resources)
			o.log.Debug().Str("region", tk.region).Str("kind", string(tk.kind)).
				Int("count", len(res.resources)).Msg("scan complete")
		}
	}

	return session
}

// resolveRegions returns the region set for region-scoped kinds. When the
// provider cannot enumerate regions and no explicit list was given, the
// run degrades to empty regional collections instead of aborting.
func (o *Orchestrator) resolveRegions(ctx context.Context, session *inventory.Session, kinds []inventory.Kind) []string {
	if !anyRegional(kinds) {
		return nil
	}
	if len(o.opts.Regions) > 0 {
		return o.opts.Regions
	}

	regions, err := o.scanner.ListRegions(ctx)
	if err != nil {
		session.AddFailure(inventory.ScanFailure{Region: "*", Err: err})
		o.log.Error().Err(err).Msg("cannot list regions, skipping region-scoped kinds")
		return nil
	}
	return regions
}

// buildTasks lays out tasks kinds-outer, regions-inner. The object store
// kind gets exactly one global task regardless of the region set.
func buildTasks(kinds []inventory.Kind, regions []string) []task {
	var tasks []task
	for _, kind := range kinds {
		if !kind.Regional() {
			tasks = append(tasks, task{kind: kind})
			continue
		}
		for _, region := range regions {
			tasks = append(tasks, task{region: region, kind: kind})
		}
	}
	return tasks
}

func (o *Orchestrator) runTasks(ctx context.Context, tasks []task) []taskResult {
	results := make([]taskResult, len(tasks))
	if len(tasks) == 0 {
		return results
	}

	workers := o.opts.Workers
	if workers > len(tasks) {
		workers = len(tasks)
	}

	taskCh := make(chan int)
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for idx := range taskCh {
				resources, err := o.scanner.Scan(ctx, tasks[idx].region, tasks[idx].kind)
				results[idx] = taskResult{resources: resources, err: err, ran: true}
			}
		}()
	}

dispatch:
	for i := range tasks {
		select {
		case <-ctx.Done():
			break dispatch
		case taskCh <- i:
		}
	}
	close(taskCh)
	wg.Wait()

	return results
}

// orderedKinds filters the canonical kind order down to the requested set,
// so task layout does not depend on caller ordering.
func orderedKinds(requested []inventory.Kind) []inventory.Kind {
	want := make(map[inventory.Kind]bool, len(requested))
	for _, k := range requested {
		want[k] = true
	}

	var kinds []inventory.Kind
	for _, k := range inventory.AllKinds() {
		if want[k] {
			kinds = append(kinds, k)
		}
	}
	return kinds
}

func anyRegional(kinds []inventory.Kind) bool {
	for _, k := range kinds {
		if k.Regional() {
			return true
		}
	}
	return false
}
