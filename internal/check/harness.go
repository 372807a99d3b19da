package check

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/convergehq/statecheck/internal/agent"
	"github.com/convergehq/statecheck/internal/check/testdef"
)

// HarnessConfig contains configuration for the check harness.
type HarnessConfig struct {
	Logger logrus.FieldLogger
	Agent  agent.Caller

	// Concurrency bounds how many units run in parallel during RunAll.
	// Zero or negative means sequential.
	Concurrency int
}

// Harness coordinates discovery, loading and execution of declared tests.
// Tests within a unit always run sequentially in declaration order; only
// whole units fan out, since their collections are independent.
type Harness struct {
	log         logrus.FieldLogger
	agent       agent.Caller
	loader      testdef.Loader
	runner      *Runner
	concurrency int
}

// NewHarness creates a harness from its configuration.
func NewHarness(cfg *HarnessConfig) *Harness {
	concurrency := cfg.Concurrency
	if concurrency <= 0 {
		concurrency = 1
	}

	return &Harness{
		log:         cfg.Logger.WithField("component", "check_harness"),
		agent:       cfg.Agent,
		loader:      testdef.NewLoader(cfg.Logger),
		runner:      NewRunner(cfg.Logger, cfg.Agent),
		concurrency: concurrency,
	}
}

// RunUnit executes every test declared for one unit. A unit with no test
// directory yields an empty report. Unparseable files are skipped and
// recorded as warnings while the rest of the unit still runs.
func (h *Harness) RunUnit(ctx context.Context, unit string) *UnitReport {
	start := time.Now()
	report := &UnitReport{
		Unit:    unit,
		Results: []*Result{},
	}

	discovery := NewDiscovery(h.log, h.agent.SearchRoots())

	dir, ok := discovery.FindUnitDir(unit)
	if !ok {
		h.log.WithField("unit", unit).Warn("no test directory found for unit")
		report.Duration = time.Since(start)

		return report
	}

	files, err := discovery.GatherTestFiles(dir)
	if err != nil {
		report.Error = err.Error()
		report.Duration = time.Since(start)

		return report
	}

	collection := testdef.NewCollection()
	for _, file := range files {
		loaded, loadErr := h.loader.LoadFile(file)
		if loadErr != nil {
			h.log.WithError(loadErr).WithFields(logrus.Fields{
				"unit": unit,
				"file": file,
			}).Warn("failed to load test file, skipping")

			report.Warnings = append(report.Warnings, fmt.Sprintf("skipped %s: %v", file, loadErr))

			continue
		}

		collection.Merge(loaded)
	}

	for _, decl := range collection.All() {
		if ctx.Err() != nil {
			report.Error = ctx.Err().Error()
			break
		}

		report.Results = append(report.Results, h.runner.Run(ctx, decl))
	}

	report.Duration = time.Since(start)

	passed, failed := report.Counts()
	h.log.WithFields(logrus.Fields{
		"unit":     unit,
		"tests":    len(report.Results),
		"passed":   passed,
		"failed":   failed,
		"duration": report.Duration,
	}).Info("unit tests complete")

	return report
}

// RunUnits executes several named units, optionally in parallel. Result
// order matches the given unit order regardless of completion order, and
// one unit's failures never abort its siblings.
func (h *Harness) RunUnits(ctx context.Context, units []string) (*Report, error) {
	start := time.Now()

	reports := make([]*UnitReport, len(units))
	g, gCtx := errgroup.WithContext(ctx)

	sem := make(chan struct{}, h.concurrency)
	for i, unit := range units {
		i, unit := i, unit
		g.Go(func() error {
			select {
			case sem <- struct{}{}:
				defer func() { <-sem }()
			case <-gCtx.Done():
				return gCtx.Err()
			}

			reports[i] = h.RunUnit(gCtx, unit)

			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	report := &Report{
		Units:    reports,
		Duration: time.Since(start),
	}

	summary := report.Summary()
	h.log.WithFields(logrus.Fields{
		"units":    summary.Units,
		"tests":    summary.Tests,
		"passed":   summary.Passed,
		"failed":   summary.Failed,
		"duration": summary.Duration,
	}).Info("run complete")

	return report, nil
}

// RunAll resolves the active units from the agent's top file and runs
// them. Compound dotted names collapse to their top-level unit, once each.
func (h *Harness) RunAll(ctx context.Context) (*Report, error) {
	units, err := h.agent.TopUnits(ctx)
	if err != nil {
		return nil, fmt.Errorf("resolving active units: %w", err)
	}

	names := NormalizeUnits(units)
	if len(names) == 0 {
		h.log.Warn("no active units to test")
		return &Report{Units: []*UnitReport{}}, nil
	}

	h.log.WithFields(logrus.Fields{
		"units":       names,
		"concurrency": h.concurrency,
	}).Debug("running tests for active units")

	return h.RunUnits(ctx, names)
}

// RunSingle executes one ad-hoc declaration under the given name.
func (h *Harness) RunSingle(ctx context.Context, name string, decl *testdef.Declaration) *Result {
	if name == "" {
		name = "cli"
	}
	decl.Name = name

	return h.runner.Run(ctx, decl)
}

// Refresh re-syncs the agent's file cache so subsequent discovery sees the
// latest test tree.
func (h *Harness) Refresh(ctx context.Context) error {
	if err := h.agent.RefreshCache(ctx); err != nil {
		return fmt.Errorf("refreshing agent cache: %w", err)
	}
	return nil
}
