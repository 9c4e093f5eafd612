package runtime

import (
	"context"

	"github.com/obsforge-io/obsforge/log"
	"github.com/obsforge-io/obsforge/scanner"
	"github.com/obsforge-io/obsforge/types"
)

// skipReasonNoJobCard explains an execution skipped because no job card
// was generated for the cycle.
const skipReasonNoJobCard = "No job card generated (no observations found)"

// Coordinator drives cycle processing across a catalog: discovery,
// artifact generation, optional execution, and summary aggregation.
// The per-cycle failure boundary lives here: one broken cycle is
// counted and logged, never allowed to abort the rest of the run.
type Coordinator struct {
	scanner *scanner.Scanner
	builder *CycleBuilder
	logger  *log.Logger
}

// NewCoordinator creates a Coordinator.
func NewCoordinator(sc *scanner.Scanner, builder *CycleBuilder, logger *log.Logger) *Coordinator {
	if logger == nil {
		logger = log.NewLogger()
	}
	return &Coordinator{scanner: sc, builder: builder, logger: logger}
}

// ProcessAll discovers cycles matching opts and builds artifacts for
// each. Every discovered cycle appears in the summary exactly once: a
// cycle whose build failed is counted in FailedCycles and carried with
// its build error so reports can distinguish it from an empty cycle.
func (c *Coordinator) ProcessAll(opts scanner.FindOptions) (*types.RunSummary, error) {
	cycles, skipped, err := c.scanner.FindCycles(opts)
	if err != nil {
		return nil, err
	}
	c.logger.Info("discovered cycles", map[string]any{
		"count":   len(cycles),
		"skipped": skipped,
	})

	summary := &types.RunSummary{TotalCycles: len(cycles)}
	for _, key := range cycles {
		result, err := c.builder.BuildCycle(key)
		if err != nil {
			c.logger.WithCycle(key).Error("cycle processing failed", map[string]any{
				"error": err.Error(),
			})
			summary.FailedCycles++
			summary.Cycles = append(summary.Cycles, types.CycleResult{
				Cycle: key.Name(),
				Error: err.Error(),
			})
			continue
		}
		summary.ProcessedCycles++
		summary.Cycles = append(summary.Cycles, *result)
	}
	return summary, nil
}

// ProcessAndExecute is ProcessAll followed by execution of every
// generated job card. Built cycles without a job card receive a
// synthetic skipped record so the execution report accounts for them;
// cycles whose build failed carry only their build error, since there
// was never anything to execute or skip.
func (c *Coordinator) ProcessAndExecute(ctx context.Context, opts scanner.FindOptions, executor Executor) (*types.RunSummary, error) {
	cycles, skipped, err := c.scanner.FindCycles(opts)
	if err != nil {
		return nil, err
	}
	c.logger.Info("discovered cycles", map[string]any{
		"count":   len(cycles),
		"skipped": skipped,
	})

	summary := &types.RunSummary{TotalCycles: len(cycles)}
	for _, key := range cycles {
		result, err := c.builder.BuildCycle(key)
		if err != nil {
			c.logger.WithCycle(key).Error("cycle processing failed", map[string]any{
				"error": err.Error(),
			})
			summary.FailedCycles++
			summary.Cycles = append(summary.Cycles, types.CycleResult{
				Cycle: key.Name(),
				Error: err.Error(),
			})
			continue
		}

		if result.JobCard != nil {
			result.Execution = executor.Execute(ctx, key, *result.JobCard)
		} else {
			result.Execution = &types.ExecutionRecord{
				Cycle:  key.Name(),
				Status: types.ExecutionSkipped,
				Reason: skipReasonNoJobCard,
			}
		}
		summary.ProcessedCycles++
		summary.Cycles = append(summary.Cycles, *result)
	}
	return summary, nil
}
