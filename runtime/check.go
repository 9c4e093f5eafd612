package runtime

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/obsforge-io/obsforge/log"
	"github.com/obsforge-io/obsforge/types"
)

// CompletionReportName is the markdown completion report file name.
const CompletionReportName = "job_completion_report.md"

// JobOutcome is the completion state read back from a job's output file.
type JobOutcome string

const (
	// JobSucceeded means the output file carries a success marker.
	JobSucceeded JobOutcome = "succeeded"
	// JobFailed means the output file carries a failure marker.
	JobFailed JobOutcome = "failed"
	// JobPending means no output file or no completion marker yet:
	// the job is still queued or running.
	JobPending JobOutcome = "pending"
)

// Completion markers scanned in job output. Failure markers win when
// both appear: a job that aborted after partial progress failed.
var (
	jobSuccessMarkers = []string{"OOPS Ending", "Run: Finished"}
	jobFailureMarkers = []string{"srun: error", "slurmstepd: error", "ABORT", "CANCELLED AT"}
)

// JobCheck is the completion status of one submitted cycle job.
type JobCheck struct {
	Cycle   string     `yaml:"cycle" json:"cycle"`
	JobID   *int       `yaml:"job_id,omitempty" json:"job_id,omitempty"`
	OutFile string     `yaml:"out_file" json:"out_file"`
	Outcome JobOutcome `yaml:"outcome" json:"outcome"`
	Detail  string     `yaml:"detail,omitempty" json:"detail,omitempty"`
}

// CheckJobs inspects the output file of every submitted cycle in the
// summary. Job cards direct scheduler output to "<cycle>.out" in the
// cycle's artifact directory; a missing file means the job has not
// produced output yet and is reported as pending, never as an error.
func CheckJobs(summary *types.RunSummary, outputDir string, logger *log.Logger) []JobCheck {
	if logger == nil {
		logger = log.NewLogger()
	}

	var checks []JobCheck
	for i := range summary.Cycles {
		result := &summary.Cycles[i]
		exec := result.Execution
		if exec == nil || exec.Status != types.ExecutionSubmitted {
			continue
		}

		check := JobCheck{Cycle: result.Cycle, JobID: exec.JobID}
		key, err := types.ParseCycleName(result.Cycle)
		if err != nil {
			check.Outcome = JobPending
			check.Detail = fmt.Sprintf("unrecognized cycle name: %v", err)
			checks = append(checks, check)
			continue
		}

		check.OutFile = filepath.Join(outputDir, key.DirName(), key.HourString(), result.Cycle+".out")
		data, err := os.ReadFile(check.OutFile)
		if err != nil {
			check.Outcome = JobPending
			check.Detail = "no output file yet"
			checks = append(checks, check)
			continue
		}

		check.Outcome, check.Detail = classifyJobOutput(string(data))
		logger.WithCycle(key).Info("checked job output", map[string]any{
			"outcome": string(check.Outcome),
			"file":    check.OutFile,
		})
		checks = append(checks, check)
	}
	return checks
}

// classifyJobOutput scans job output text for completion markers.
func classifyJobOutput(text string) (JobOutcome, string) {
	for _, marker := range jobFailureMarkers {
		if strings.Contains(text, marker) {
			return JobFailed, fmt.Sprintf("failure marker %q found", marker)
		}
	}
	for _, marker := range jobSuccessMarkers {
		if strings.Contains(text, marker) {
			return JobSucceeded, fmt.Sprintf("success marker %q found", marker)
		}
	}
	return JobPending, "no completion marker yet"
}

// CompletionReport renders the job completion checks as markdown.
func (r *Reporter) CompletionReport(checks []JobCheck) string {
	var sb strings.Builder
	sb.WriteString("# Job completion\n\n")
	if len(checks) == 0 {
		sb.WriteString("No submitted jobs to check.\n")
		return sb.String()
	}

	counts := make(map[JobOutcome]int)
	sb.WriteString("| Cycle | Job | Outcome | Detail |\n")
	sb.WriteString("|-------|-----|---------|--------|\n")
	for _, check := range checks {
		counts[check.Outcome]++
		jobID := "-"
		if check.JobID != nil {
			jobID = fmt.Sprintf("%d", *check.JobID)
		}
		fmt.Fprintf(&sb, "| %s | %s | %s | %s |\n", check.Cycle, jobID, check.Outcome, check.Detail)
	}
	fmt.Fprintf(&sb, "\n%d succeeded, %d failed, %d pending\n",
		counts[JobSucceeded], counts[JobFailed], counts[JobPending])
	return sb.String()
}
