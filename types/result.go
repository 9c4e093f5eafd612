package types

// ExecutionMode selects how a generated job card is executed.
type ExecutionMode string

const (
	// ExecutionModeSbatch submits the job card to SLURM via sbatch.
	ExecutionModeSbatch ExecutionMode = "sbatch"
	// ExecutionModeBash runs the job card directly with bash.
	ExecutionModeBash ExecutionMode = "bash"
)

// ExecutionStatus is the outcome of handing a job card to the execution
// collaborator.
type ExecutionStatus string

const (
	// ExecutionSubmitted means the job was accepted by the scheduler.
	ExecutionSubmitted ExecutionStatus = "submitted"
	// ExecutionCompleted means direct execution finished with code 0.
	ExecutionCompleted ExecutionStatus = "completed"
	// ExecutionFailed means submission or direct execution failed.
	ExecutionFailed ExecutionStatus = "failed"
	// ExecutionSkipped means no job card existed, so nothing was executed.
	ExecutionSkipped ExecutionStatus = "skipped"
)

// ExecutionRecord captures the outcome of executing one cycle's job card.
// Collaborator failures are absorbed into Status/Error, never raised.
type ExecutionRecord struct {
	Cycle  string          `yaml:"cycle" json:"cycle" msgpack:"cycle"`
	Mode   ExecutionMode   `yaml:"execution_mode,omitempty" json:"execution_mode,omitempty" msgpack:"execution_mode,omitempty"`
	Status ExecutionStatus `yaml:"status" json:"status" msgpack:"status"`
	// JobID is the scheduler job identifier, set on successful submission.
	JobID *int `yaml:"job_id,omitempty" json:"job_id,omitempty" msgpack:"job_id,omitempty"`
	// ReturnCode is the process exit code, set for direct execution.
	ReturnCode *int   `yaml:"return_code,omitempty" json:"return_code,omitempty" msgpack:"return_code,omitempty"`
	Stdout     string `yaml:"stdout,omitempty" json:"stdout,omitempty" msgpack:"stdout,omitempty"`
	Stderr     string `yaml:"stderr,omitempty" json:"stderr,omitempty" msgpack:"stderr,omitempty"`
	Error      string `yaml:"error,omitempty" json:"error,omitempty" msgpack:"error,omitempty"`
	// Reason explains a skipped execution in human-readable form.
	Reason string `yaml:"reason,omitempty" json:"reason,omitempty" msgpack:"reason,omitempty"`
}

// CycleResult is the per-cycle processing record. Each stage fills in
// its own fields and never rewrites earlier ones: the builder sets
// everything up to ConfigFile, the coordinator attaches Execution later.
type CycleResult struct {
	// Cycle is the cycle identity string, e.g. "gdas.20210831.18".
	Cycle string `yaml:"cycle" json:"cycle" msgpack:"cycle"`
	// Observations is the catalog found for this cycle (may be empty).
	Observations ObservationCatalog `yaml:"observations" json:"observations" msgpack:"observations"`
	// ObsTypes is the deduplicated, first-seen-ordered list of canonical
	// observation types classified from the catalog.
	ObsTypes []string `yaml:"obs_types" json:"obs_types" msgpack:"obs_types"`
	// JobCard is the generated job card path, nil when no observations
	// were found (empty files are never written).
	JobCard *string `yaml:"job_card" json:"job_card" msgpack:"job_card"`
	// ConfigFile is the generated configuration document path, nil when
	// no observations were found.
	ConfigFile *string `yaml:"config_file" json:"config_file" msgpack:"config_file"`
	// Execution is attached by the coordinator when execution was
	// requested; nil otherwise.
	Execution *ExecutionRecord `yaml:"execution,omitempty" json:"execution,omitempty" msgpack:"execution,omitempty"`
	// Error is the build failure message. Set only by the coordinator
	// when artifact generation failed; such a cycle never carries
	// artifact paths or an execution record.
	Error string `yaml:"error,omitempty" json:"error,omitempty" msgpack:"error,omitempty"`
}

// HasObservations reports whether any observation files were found.
func (r *CycleResult) HasObservations() bool {
	return len(r.Observations) > 0
}

// RunSummary aggregates the results of one coordinator pass. It is
// built incrementally by the single control goroutine and immutable
// once returned.
type RunSummary struct {
	TotalCycles     int           `yaml:"total_cycles" json:"total_cycles" msgpack:"total_cycles"`
	ProcessedCycles int           `yaml:"processed_cycles" json:"processed_cycles" msgpack:"processed_cycles"`
	FailedCycles    int           `yaml:"failed_cycles" json:"failed_cycles" msgpack:"failed_cycles"`
	Cycles          []CycleResult `yaml:"cycles" json:"cycles" msgpack:"cycles"`
}

// ExecutionRecords returns the execution sub-records of all cycles that
// have one, in summary order.
func (s *RunSummary) ExecutionRecords() []ExecutionRecord {
	var out []ExecutionRecord
	for i := range s.Cycles {
		if s.Cycles[i].Execution != nil {
			out = append(out, *s.Cycles[i].Execution)
		}
	}
	return out
}
