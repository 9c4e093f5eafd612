package runtime

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/obsforge-io/obsforge/types"
)

// CycleStatus classifies a cycle result for reporting.
type CycleStatus string

const (
	// StatusNoObservations means the catalog held no files for the cycle.
	StatusNoObservations CycleStatus = "no_observations"
	// StatusAnomaly means observations existed but no job card was
	// generated. Artifact generation never half-succeeds, so this
	// indicates a failed build or a corrupted summary.
	StatusAnomaly CycleStatus = "anomaly"
	// StatusGenerated means artifacts exist but execution was not requested.
	StatusGenerated CycleStatus = "generated"
	// StatusSubmitted means the job card was accepted by the scheduler.
	StatusSubmitted CycleStatus = "submitted"
	// StatusCompleted means direct execution finished successfully.
	StatusCompleted CycleStatus = "completed"
	// StatusExecutionFailed means submission or direct execution failed.
	StatusExecutionFailed CycleStatus = "execution_failed"
	// StatusExecutionSkipped means execution was requested but there was
	// nothing to execute.
	StatusExecutionSkipped CycleStatus = "execution_skipped"
	// StatusBuildFailed means artifact generation itself failed; the
	// cycle carries its build error and nothing else.
	StatusBuildFailed CycleStatus = "build_failed"
)

// ClassifyCycle derives the reporting status of one cycle result.
func ClassifyCycle(result *types.CycleResult) CycleStatus {
	if result.Error != "" {
		return StatusBuildFailed
	}
	if result.Execution != nil {
		switch result.Execution.Status {
		case types.ExecutionSubmitted:
			return StatusSubmitted
		case types.ExecutionCompleted:
			return StatusCompleted
		case types.ExecutionFailed:
			return StatusExecutionFailed
		case types.ExecutionSkipped:
			return StatusExecutionSkipped
		}
	}
	if !result.HasObservations() {
		return StatusNoObservations
	}
	if result.JobCard == nil {
		return StatusAnomaly
	}
	return StatusGenerated
}

// Reporter renders run summaries as terminal text and markdown files.
type Reporter struct {
	// NoColor disables terminal styling; markers render as plain text.
	NoColor bool

	okStyle   lipgloss.Style
	warnStyle lipgloss.Style
	failStyle lipgloss.Style
	dimStyle  lipgloss.Style
}

// NewReporter creates a Reporter.
func NewReporter(noColor bool) *Reporter {
	return &Reporter{
		NoColor:   noColor,
		okStyle:   lipgloss.NewStyle().Foreground(lipgloss.Color("10")),
		warnStyle: lipgloss.NewStyle().Foreground(lipgloss.Color("11")),
		failStyle: lipgloss.NewStyle().Foreground(lipgloss.Color("9")),
		dimStyle:  lipgloss.NewStyle().Foreground(lipgloss.Color("8")),
	}
}

// marker returns the one-character status icon, styled unless NoColor.
func (r *Reporter) marker(status CycleStatus) string {
	icon, style := "?", r.dimStyle
	switch status {
	case StatusSubmitted, StatusCompleted, StatusGenerated:
		icon, style = "+", r.okStyle
	case StatusExecutionFailed, StatusAnomaly, StatusBuildFailed:
		icon, style = "x", r.failStyle
	case StatusNoObservations, StatusExecutionSkipped:
		icon, style = "-", r.warnStyle
	}
	if r.NoColor {
		return icon
	}
	return style.Render(icon)
}

// statusDetail returns the human-readable detail line for one cycle.
func statusDetail(result *types.CycleResult, status CycleStatus) string {
	switch status {
	case StatusNoObservations:
		return "no observations"
	case StatusAnomaly:
		return "observations present but no artifacts"
	case StatusGenerated:
		return fmt.Sprintf("artifacts generated (%d obs types)", len(result.ObsTypes))
	case StatusSubmitted:
		if result.Execution.JobID != nil {
			return fmt.Sprintf("submitted as job %d", *result.Execution.JobID)
		}
		return "submitted"
	case StatusCompleted:
		return "completed"
	case StatusExecutionFailed:
		if result.Execution.Error != "" {
			return "failed: " + result.Execution.Error
		}
		return "failed"
	case StatusExecutionSkipped:
		if result.Execution.Reason != "" {
			return "skipped: " + result.Execution.Reason
		}
		return "skipped"
	case StatusBuildFailed:
		return "processing failed: " + result.Error
	}
	return string(status)
}

// StatusReport renders the plain-text status report: one line per cycle
// plus the aggregate counters.
func (r *Reporter) StatusReport(summary *types.RunSummary) string {
	var sb strings.Builder
	sb.WriteString("Cycle Processing Status\n")
	sb.WriteString("=======================\n\n")

	for i := range summary.Cycles {
		result := &summary.Cycles[i]
		status := ClassifyCycle(result)
		fmt.Fprintf(&sb, "%s %-22s %s\n", r.marker(status), result.Cycle, statusDetail(result, status))
	}

	fmt.Fprintf(&sb, "\nTotal cycles:     %d\n", summary.TotalCycles)
	fmt.Fprintf(&sb, "Processed cycles: %d\n", summary.ProcessedCycles)
	fmt.Fprintf(&sb, "Failed cycles:    %d\n", summary.FailedCycles)
	return sb.String()
}

// ExecutionSummary renders per-status execution counts and the
// scheduler job ids of submitted cycles. Empty when no cycle carries an
// execution record.
func (r *Reporter) ExecutionSummary(summary *types.RunSummary) string {
	records := summary.ExecutionRecords()
	if len(records) == 0 {
		return ""
	}

	counts := make(map[types.ExecutionStatus]int)
	var jobIDs []int
	for _, rec := range records {
		counts[rec.Status]++
		if rec.JobID != nil {
			jobIDs = append(jobIDs, *rec.JobID)
		}
	}

	var sb strings.Builder
	sb.WriteString("Execution Summary\n")
	sb.WriteString("=================\n")
	for _, status := range []types.ExecutionStatus{
		types.ExecutionSubmitted, types.ExecutionCompleted,
		types.ExecutionFailed, types.ExecutionSkipped,
	} {
		if counts[status] > 0 {
			fmt.Fprintf(&sb, "%-10s %d\n", string(status)+":", counts[status])
		}
	}
	if len(jobIDs) > 0 {
		sort.Ints(jobIDs)
		parts := make([]string, len(jobIDs))
		for i, id := range jobIDs {
			parts[i] = fmt.Sprintf("%d", id)
		}
		fmt.Fprintf(&sb, "SLURM jobs: %s\n", strings.Join(parts, ", "))
	}
	return sb.String()
}

// ProductReports renders one markdown report per product, keyed by file
// name ("gdas_status_report.md"). Cycles are sorted by name within each
// product. Every known product gets a report even when the run touched
// none of its cycles, so consumers can rely on both files existing.
func (r *Reporter) ProductReports(summary *types.RunSummary) map[string]string {
	byProduct := make(map[string][]*types.CycleResult)
	for _, p := range types.Products() {
		byProduct[string(p)] = nil
	}
	for i := range summary.Cycles {
		result := &summary.Cycles[i]
		product, _, _ := strings.Cut(result.Cycle, ".")
		byProduct[product] = append(byProduct[product], result)
	}

	reports := make(map[string]string, len(byProduct))
	for product, results := range byProduct {
		sort.Slice(results, func(i, j int) bool { return results[i].Cycle < results[j].Cycle })

		var sb strings.Builder
		fmt.Fprintf(&sb, "# %s cycle status\n\n", product)
		if len(results) == 0 {
			sb.WriteString("No cycles processed.\n")
			reports[product+"_status_report.md"] = sb.String()
			continue
		}
		sb.WriteString("| Cycle | Status | Obs Types | Detail |\n")
		sb.WriteString("|-------|--------|-----------|--------|\n")
		for _, result := range results {
			status := ClassifyCycle(result)
			fmt.Fprintf(&sb, "| %s | %s | %d | %s |\n",
				result.Cycle, status, len(result.ObsTypes), statusDetail(result, status))
		}
		reports[product+"_status_report.md"] = sb.String()
	}
	return reports
}

// WriteReports writes the plain-text status report and the per-product
// markdown reports under dir.
func (r *Reporter) WriteReports(summary *types.RunSummary, dir string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("cannot create report directory %s: %w", dir, err)
	}

	text := r.StatusReport(summary)
	if exec := r.ExecutionSummary(summary); exec != "" {
		text += "\n" + exec
	}
	path := filepath.Join(dir, "status_report.txt")
	if err := os.WriteFile(path, []byte(text), 0o644); err != nil {
		return fmt.Errorf("cannot write status report %s: %w", path, err)
	}

	for name, content := range r.ProductReports(summary) {
		path := filepath.Join(dir, name)
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			return fmt.Errorf("cannot write product report %s: %w", path, err)
		}
	}
	return nil
}
