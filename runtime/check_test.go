package runtime

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/obsforge-io/obsforge/log"
	"github.com/obsforge-io/obsforge/types"
)

func writeJobOutput(t *testing.T, dir, cycle, text string) {
	t.Helper()
	key, err := types.ParseCycleName(cycle)
	if err != nil {
		t.Fatalf("ParseCycleName: %v", err)
	}
	cycleDir := filepath.Join(dir, key.DirName(), key.HourString())
	if err := os.MkdirAll(cycleDir, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(filepath.Join(cycleDir, cycle+".out"), []byte(text), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
}

func submittedSummary(cycles ...string) *types.RunSummary {
	summary := &types.RunSummary{TotalCycles: len(cycles), ProcessedCycles: len(cycles)}
	for i, cycle := range cycles {
		jobID := 900100 + i
		summary.Cycles = append(summary.Cycles, types.CycleResult{
			Cycle: cycle,
			Execution: &types.ExecutionRecord{
				Cycle: cycle, Mode: types.ExecutionModeSbatch,
				Status: types.ExecutionSubmitted, JobID: &jobID,
			},
		})
	}
	return summary
}

func TestCheckJobs(t *testing.T) {
	dir := t.TempDir()
	writeJobOutput(t, dir, "gdas.20210831.06", "run starting\nOOPS Ending   2021-08-31\n")
	writeJobOutput(t, dir, "gdas.20210831.12", "run starting\nsrun: error: node failure\n")
	// gdas.20210831.18 has no output file yet.

	summary := submittedSummary("gdas.20210831.06", "gdas.20210831.12", "gdas.20210831.18")
	checks := CheckJobs(summary, dir, log.NewNopLogger())

	if len(checks) != 3 {
		t.Fatalf("checks = %d, want 3", len(checks))
	}
	want := []JobOutcome{JobSucceeded, JobFailed, JobPending}
	for i, check := range checks {
		if check.Outcome != want[i] {
			t.Errorf("%s outcome = %s, want %s (%s)", check.Cycle, check.Outcome, want[i], check.Detail)
		}
	}
}

func TestCheckJobs_FailureMarkerWins(t *testing.T) {
	dir := t.TempDir()
	writeJobOutput(t, dir, "gdas.20210831.06", "OOPS Ending\nslurmstepd: error: out of memory\n")

	checks := CheckJobs(submittedSummary("gdas.20210831.06"), dir, log.NewNopLogger())
	if len(checks) != 1 || checks[0].Outcome != JobFailed {
		t.Errorf("checks = %+v, want single failed", checks)
	}
}

func TestCheckJobs_OnlySubmittedCyclesChecked(t *testing.T) {
	rc := 0
	summary := &types.RunSummary{Cycles: []types.CycleResult{
		{Cycle: "gdas.20210831.00"},
		{
			Cycle: "gdas.20210831.06",
			Execution: &types.ExecutionRecord{
				Cycle: "gdas.20210831.06", Status: types.ExecutionCompleted, ReturnCode: &rc,
			},
		},
	}}
	if checks := CheckJobs(summary, t.TempDir(), log.NewNopLogger()); len(checks) != 0 {
		t.Errorf("checks = %+v, want none", checks)
	}
}

func TestCompletionReport(t *testing.T) {
	dir := t.TempDir()
	writeJobOutput(t, dir, "gdas.20210831.06", "OOPS Ending\n")
	checks := CheckJobs(submittedSummary("gdas.20210831.06", "gdas.20210831.12"), dir, log.NewNopLogger())

	r := NewReporter(true)
	report := r.CompletionReport(checks)

	for _, want := range []string{
		"# Job completion",
		"| gdas.20210831.06 | 900100 | succeeded |",
		"| gdas.20210831.12 | 900101 | pending |",
		"1 succeeded, 0 failed, 1 pending",
	} {
		if !strings.Contains(report, want) {
			t.Errorf("completion report missing %q:\n%s", want, report)
		}
	}
}

func TestCompletionReport_NoJobs(t *testing.T) {
	r := NewReporter(true)
	if report := r.CompletionReport(nil); !strings.Contains(report, "No submitted jobs to check.") {
		t.Errorf("empty report = %q", report)
	}
}
