package runtime

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/vmihailenco/msgpack/v5"
	"gopkg.in/yaml.v3"

	"github.com/obsforge-io/obsforge/types"
)

// Summary persistence file names. The YAML document is the
// human-readable record of a run; the msgpack snapshot is the compact
// form read back by the report command and the interactive browser.
const (
	SummaryYAMLName     = "processing_summary.yaml"
	SummarySnapshotName = ".obsforge_summary.msgpack"
)

// SaveSummary writes both persisted forms of a run summary under dir.
func SaveSummary(summary *types.RunSummary, dir string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("cannot create summary directory %s: %w", dir, err)
	}

	data, err := yaml.Marshal(summary)
	if err != nil {
		return fmt.Errorf("cannot marshal summary: %w", err)
	}
	yamlPath := filepath.Join(dir, SummaryYAMLName)
	if err := os.WriteFile(yamlPath, data, 0o644); err != nil {
		return fmt.Errorf("cannot write %s: %w", yamlPath, err)
	}

	snap, err := msgpack.Marshal(summary)
	if err != nil {
		return fmt.Errorf("cannot encode summary snapshot: %w", err)
	}
	snapPath := filepath.Join(dir, SummarySnapshotName)
	if err := os.WriteFile(snapPath, snap, 0o644); err != nil {
		return fmt.Errorf("cannot write %s: %w", snapPath, err)
	}
	return nil
}

// LoadSummary reads a previously saved run summary from dir, preferring
// the msgpack snapshot and falling back to the YAML document.
func LoadSummary(dir string) (*types.RunSummary, error) {
	snapPath := filepath.Join(dir, SummarySnapshotName)
	if data, err := os.ReadFile(snapPath); err == nil {
		var summary types.RunSummary
		if err := msgpack.Unmarshal(data, &summary); err != nil {
			return nil, fmt.Errorf("cannot decode summary snapshot %s: %w", snapPath, err)
		}
		return &summary, nil
	}

	yamlPath := filepath.Join(dir, SummaryYAMLName)
	data, err := os.ReadFile(yamlPath)
	if err != nil {
		return nil, fmt.Errorf("no run summary found in %s: %w", dir, err)
	}
	var summary types.RunSummary
	if err := yaml.Unmarshal(data, &summary); err != nil {
		return nil, fmt.Errorf("cannot parse %s: %w", yamlPath, err)
	}
	return &summary, nil
}
