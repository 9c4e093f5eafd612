package runtime

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/obsforge-io/obsforge/log"
	"github.com/obsforge-io/obsforge/types"
)

func writeScript(t *testing.T, dir, name, body string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte("#!/bin/sh\n"+body+"\n"), 0o755); err != nil {
		t.Fatalf("write script: %v", err)
	}
	return path
}

func testKey(t *testing.T) types.CycleKey {
	t.Helper()
	key, err := types.NewCycleKey(types.ProductGDAS, "20210831", 18)
	if err != nil {
		t.Fatalf("NewCycleKey: %v", err)
	}
	return key
}

func TestSlurmExecutor_Submitted(t *testing.T) {
	dir := t.TempDir()
	sbatch := writeScript(t, dir, "fake-sbatch", `echo "Submitted batch job 424242"`)
	jobCard := writeScript(t, dir, "job_gdas.20210831.18.sh", "exit 0")

	e := NewSlurmExecutor(log.NewNopLogger())
	e.Sbatch = sbatch

	record := e.Execute(context.Background(), testKey(t), jobCard)
	if record.Status != types.ExecutionSubmitted {
		t.Fatalf("status = %s, want submitted (stderr: %s, error: %s)", record.Status, record.Stderr, record.Error)
	}
	if record.JobID == nil || *record.JobID != 424242 {
		t.Errorf("JobID = %v, want 424242", record.JobID)
	}
	if record.Mode != types.ExecutionModeSbatch {
		t.Errorf("Mode = %s, want sbatch", record.Mode)
	}
	if record.Cycle != "gdas.20210831.18" {
		t.Errorf("Cycle = %s", record.Cycle)
	}
}

func TestSlurmExecutor_UnparseableOutput(t *testing.T) {
	dir := t.TempDir()
	sbatch := writeScript(t, dir, "fake-sbatch", `echo "queue is on fire"`)
	jobCard := writeScript(t, dir, "job.sh", "exit 0")

	e := NewSlurmExecutor(log.NewNopLogger())
	e.Sbatch = sbatch

	record := e.Execute(context.Background(), testKey(t), jobCard)
	if record.Status != types.ExecutionFailed {
		t.Errorf("status = %s, want failed", record.Status)
	}
	if record.Error == "" {
		t.Error("Error is empty, want parse failure detail")
	}
}

func TestSlurmExecutor_SubmissionCommandFails(t *testing.T) {
	dir := t.TempDir()
	sbatch := writeScript(t, dir, "fake-sbatch", `echo "rejected" >&2; exit 1`)
	jobCard := writeScript(t, dir, "job.sh", "exit 0")

	e := NewSlurmExecutor(log.NewNopLogger())
	e.Sbatch = sbatch

	record := e.Execute(context.Background(), testKey(t), jobCard)
	if record.Status != types.ExecutionFailed {
		t.Errorf("status = %s, want failed", record.Status)
	}
}

func TestDirectExecutor_Completed(t *testing.T) {
	dir := t.TempDir()
	jobCard := writeScript(t, dir, "job.sh", `echo "done"`)

	e := NewDirectExecutor(log.NewNopLogger())
	record := e.Execute(context.Background(), testKey(t), jobCard)

	if record.Status != types.ExecutionCompleted {
		t.Fatalf("status = %s, want completed (stderr: %s)", record.Status, record.Stderr)
	}
	if record.ReturnCode == nil || *record.ReturnCode != 0 {
		t.Errorf("ReturnCode = %v, want 0", record.ReturnCode)
	}
	if record.Mode != types.ExecutionModeBash {
		t.Errorf("Mode = %s, want bash", record.Mode)
	}
}

func TestDirectExecutor_NonZeroExit(t *testing.T) {
	dir := t.TempDir()
	jobCard := writeScript(t, dir, "job.sh", `echo "broke" >&2; exit 3`)

	e := NewDirectExecutor(log.NewNopLogger())
	record := e.Execute(context.Background(), testKey(t), jobCard)

	if record.Status != types.ExecutionFailed {
		t.Errorf("status = %s, want failed", record.Status)
	}
	if record.ReturnCode == nil || *record.ReturnCode != 3 {
		t.Errorf("ReturnCode = %v, want 3", record.ReturnCode)
	}
	if record.Stderr == "" {
		t.Error("Stderr not captured")
	}
}

func TestDirectExecutor_RunsFromJobCardDir(t *testing.T) {
	dir := t.TempDir()
	jobCard := writeScript(t, dir, "job.sh", `pwd`)

	e := NewDirectExecutor(log.NewNopLogger())
	record := e.Execute(context.Background(), testKey(t), jobCard)

	// Relative paths in the job card resolve against its own directory,
	// so generated configs sit next to the card.
	got, err := filepath.EvalSymlinks(strings.TrimSpace(record.Stdout))
	if err != nil {
		t.Fatalf("EvalSymlinks: %v", err)
	}
	want, err := filepath.EvalSymlinks(dir)
	if err != nil {
		t.Fatalf("EvalSymlinks: %v", err)
	}
	if got != want {
		t.Errorf("working dir = %s, want %s", got, want)
	}
}
