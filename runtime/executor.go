package runtime

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	"github.com/obsforge-io/obsforge/log"
	"github.com/obsforge-io/obsforge/types"
)

// Executor launches a generated job card and reports the outcome as an
// ExecutionRecord. Execution failures are absorbed into the record's
// Status and Error fields, never returned as Go errors: a cycle whose
// job fails to launch is a recorded outcome, not a pipeline fault.
type Executor interface {
	Execute(ctx context.Context, cycle types.CycleKey, jobCard string) *types.ExecutionRecord
}

// sbatchJobIDPattern extracts the job identifier from the scheduler's
// acceptance line, e.g. "Submitted batch job 12345678".
var sbatchJobIDPattern = regexp.MustCompile(`Submitted batch job (\d+)`)

// SlurmExecutor submits job cards to SLURM via sbatch.
type SlurmExecutor struct {
	// Sbatch is the submission binary, "sbatch" when empty.
	Sbatch string
	logger *log.Logger
}

// NewSlurmExecutor creates a SlurmExecutor.
func NewSlurmExecutor(logger *log.Logger) *SlurmExecutor {
	if logger == nil {
		logger = log.NewLogger()
	}
	return &SlurmExecutor{logger: logger}
}

// Execute submits the job card. A parseable acceptance line yields
// status "submitted" with the scheduler job id; anything else
// (submission command failure, unparseable output) yields "failed".
func (e *SlurmExecutor) Execute(ctx context.Context, cycle types.CycleKey, jobCard string) *types.ExecutionRecord {
	record := &types.ExecutionRecord{
		Cycle: cycle.Name(),
		Mode:  types.ExecutionModeSbatch,
	}

	bin := e.Sbatch
	if bin == "" {
		bin = "sbatch"
	}
	stdout, stderr, _, err := runCommand(ctx, filepath.Dir(jobCard), bin, filepath.Base(jobCard))
	record.Stdout = stdout
	record.Stderr = stderr
	if err != nil {
		record.Status = types.ExecutionFailed
		record.Error = fmt.Sprintf("sbatch submission failed: %v", err)
		e.logger.WithCycle(cycle).Error("job submission failed", map[string]any{
			"job_card": jobCard,
			"error":    err.Error(),
			"stderr":   stderr,
		})
		return record
	}

	m := sbatchJobIDPattern.FindStringSubmatch(stdout)
	if m == nil {
		record.Status = types.ExecutionFailed
		record.Error = "sbatch output did not contain a job id"
		e.logger.WithCycle(cycle).Error("unparseable sbatch output", map[string]any{
			"stdout": stdout,
		})
		return record
	}
	jobID, err := strconv.Atoi(m[1])
	if err != nil {
		record.Status = types.ExecutionFailed
		record.Error = fmt.Sprintf("invalid sbatch job id %q", m[1])
		return record
	}

	record.Status = types.ExecutionSubmitted
	record.JobID = &jobID
	e.logger.WithCycle(cycle).Info("job submitted", map[string]any{
		"job_id": jobID,
	})
	return record
}

// DirectExecutor runs job cards synchronously with bash.
type DirectExecutor struct {
	// Shell is the interpreter, "bash" when empty.
	Shell  string
	logger *log.Logger
}

// NewDirectExecutor creates a DirectExecutor.
func NewDirectExecutor(logger *log.Logger) *DirectExecutor {
	if logger == nil {
		logger = log.NewLogger()
	}
	return &DirectExecutor{logger: logger}
}

// Execute runs the job card to completion. Exit code zero yields
// "completed", anything else "failed"; the exit code is always recorded.
func (e *DirectExecutor) Execute(ctx context.Context, cycle types.CycleKey, jobCard string) *types.ExecutionRecord {
	record := &types.ExecutionRecord{
		Cycle: cycle.Name(),
		Mode:  types.ExecutionModeBash,
	}

	shell := e.Shell
	if shell == "" {
		shell = "bash"
	}
	stdout, stderr, exitCode, err := runCommand(ctx, filepath.Dir(jobCard), shell, filepath.Base(jobCard))
	record.Stdout = stdout
	record.Stderr = stderr
	record.ReturnCode = &exitCode

	if err != nil && exitCode < 0 {
		// Process never ran (binary missing, context canceled).
		record.Status = types.ExecutionFailed
		record.Error = fmt.Sprintf("direct execution failed: %v", err)
		e.logger.WithCycle(cycle).Error("direct execution failed to start", map[string]any{
			"job_card": jobCard,
			"error":    err.Error(),
		})
		return record
	}

	if exitCode == 0 {
		record.Status = types.ExecutionCompleted
		e.logger.WithCycle(cycle).Info("job completed", nil)
	} else {
		record.Status = types.ExecutionFailed
		record.Error = fmt.Sprintf("job exited with code %d", exitCode)
		e.logger.WithCycle(cycle).Error("job failed", map[string]any{
			"return_code": exitCode,
			"stderr":      stderr,
		})
	}
	return record
}

// runCommand runs one command from dir, capturing stdout and stderr
// separately. The returned exit code is -1 when the process never ran.
func runCommand(ctx context.Context, dir, bin string, args ...string) (stdout, stderr string, exitCode int, err error) {
	cmd := exec.CommandContext(ctx, bin, args...)
	cmd.Dir = dir

	var outBuf, errBuf strings.Builder
	cmd.Stdout = &outBuf
	cmd.Stderr = &errBuf

	err = cmd.Run()
	stdout = outBuf.String()
	stderr = errBuf.String()

	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return stdout, stderr, exitErr.ExitCode(), nil
		}
		return stdout, stderr, -1, err
	}
	return stdout, stderr, 0, nil
}

// StubExecutor returns canned records. For tests.
type StubExecutor struct {
	// Record is copied for every call, with Cycle filled in.
	Record types.ExecutionRecord
	// Calls lists the job card paths Execute was invoked with.
	Calls []string
}

// Execute records the call and returns the configured record.
func (e *StubExecutor) Execute(_ context.Context, cycle types.CycleKey, jobCard string) *types.ExecutionRecord {
	e.Calls = append(e.Calls, jobCard)
	record := e.Record
	record.Cycle = cycle.Name()
	return &record
}
