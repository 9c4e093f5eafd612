// Package runtime orchestrates cycle processing: artifact generation,
// job execution, summary aggregation, and status reporting.
package runtime

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/obsforge-io/obsforge/classify"
	"github.com/obsforge-io/obsforge/log"
	"github.com/obsforge-io/obsforge/scanner"
	"github.com/obsforge-io/obsforge/tmpl"
	"github.com/obsforge-io/obsforge/types"
)

// Assimilation window geometry: the window is centered on the cycle
// time and spans six hours.
const (
	windowHalfWidth = 3 * time.Hour
	windowLength    = "PT6H"
	timeLayout      = "2006-01-02T15:04:05Z"
)

// CycleBuilder generates the per-cycle artifacts: a batch job card and
// a data-assimilation configuration document.
type CycleBuilder struct {
	scanner    *scanner.Scanner
	classifier *classify.Classifier
	composer   *tmpl.Composer
	resolver   *tmpl.Resolver
	outputDir  string
	logger     *log.Logger
}

// NewCycleBuilder creates a CycleBuilder writing artifacts under outputDir.
func NewCycleBuilder(sc *scanner.Scanner, resolver *tmpl.Resolver, outputDir string, logger *log.Logger) *CycleBuilder {
	if logger == nil {
		logger = log.NewLogger()
	}
	return &CycleBuilder{
		scanner:    sc,
		classifier: classify.New(logger),
		composer:   tmpl.NewComposer(resolver, logger),
		resolver:   resolver,
		outputDir:  outputDir,
		logger:     logger,
	}
}

// CycleOutputDir returns the artifact directory for one cycle:
// <output>/<product>.<date>/<hour>.
func (b *CycleBuilder) CycleOutputDir(key types.CycleKey) string {
	return filepath.Join(b.outputDir, key.DirName(), key.HourString())
}

// BuildCycle scans one cycle, classifies its observations, and writes
// the job card and configuration document. A cycle with no observation
// files yields a result with nil artifact paths and no error: empty
// artifacts are never written. Template and filesystem failures
// propagate; the caller decides the failure boundary.
func (b *CycleBuilder) BuildCycle(key types.CycleKey) (*types.CycleResult, error) {
	logger := b.logger.WithCycle(key)

	result := &types.CycleResult{
		Cycle:        key.Name(),
		Observations: b.scanner.ScanCycleObservations(key),
	}
	if !result.HasObservations() {
		logger.Info("no observations found, skipping artifact generation", nil)
		return result, nil
	}

	result.ObsTypes = b.classifyCatalog(result.Observations)

	cycleDir := b.CycleOutputDir(key)
	if err := os.MkdirAll(cycleDir, 0o755); err != nil {
		return nil, fmt.Errorf("cannot create cycle output directory %s: %w", cycleDir, err)
	}

	jobCard, err := b.writeJobCard(key, cycleDir, result)
	if err != nil {
		return nil, err
	}
	result.JobCard = &jobCard

	configFile, err := b.writeConfigDocument(key, cycleDir, result)
	if err != nil {
		return nil, err
	}
	result.ConfigFile = &configFile

	logger.Info("cycle artifacts generated", map[string]any{
		"job_card":    jobCard,
		"config_file": configFile,
		"obs_types":   result.ObsTypes,
	})
	return result, nil
}

// classifyCatalog maps every category's files to canonical observation
// types, deduplicated globally in first-seen order. Categories are
// visited in the fixed KnownCategories order so the result is stable
// regardless of map iteration.
func (b *CycleBuilder) classifyCatalog(catalog types.ObservationCatalog) []string {
	var obsTypes []string
	seen := make(map[string]bool)
	for _, category := range catalog.Categories() {
		for _, obsType := range b.classifier.MapCategoryToTypes(category, catalog[category]) {
			if !seen[obsType] {
				seen[obsType] = true
				obsTypes = append(obsTypes, obsType)
			}
		}
	}
	return obsTypes
}

// window computes the assimilation window for a cycle: centered on the
// cycle time, half a window either side.
func window(key types.CycleKey) (begin, center, end string) {
	t := time.Date(
		atoi(key.Date[0:4]), time.Month(atoi(key.Date[4:6])), atoi(key.Date[6:8]),
		key.Hour, 0, 0, 0, time.UTC,
	)
	return t.Add(-windowHalfWidth).Format(timeLayout),
		t.Format(timeLayout),
		t.Add(windowHalfWidth).Format(timeLayout)
}

// atoi converts digit-only input already validated by NewCycleKey.
func atoi(s string) int {
	n := 0
	for _, r := range s {
		n = n*10 + int(r-'0')
	}
	return n
}

func (b *CycleBuilder) writeJobCard(key types.CycleKey, cycleDir string, result *types.CycleResult) (string, error) {
	text, err := b.resolver.Lookup(tmpl.JobCardTemplateName)
	if err != nil {
		return "", err
	}

	ctx := tmpl.Context{
		"cycle_name":     key.Name(),
		"cycle_dir":      cycleDir,
		"cycle_hour":     key.HourString(),
		"catalog_root":   filepath.Dir(b.scanner.CycleDomainPath(key)),
		"obs_categories": result.Observations.Categories(),
		"obs_types":      result.ObsTypes,
	}
	rendered, err := tmpl.Render(tmpl.JobCardTemplateName, text, ctx)
	if err != nil {
		return "", err
	}

	path := filepath.Join(cycleDir, fmt.Sprintf("job_%s.sh", key.Name()))
	if err := os.WriteFile(path, []byte(rendered), 0o755); err != nil {
		return "", fmt.Errorf("cannot write job card %s: %w", path, err)
	}
	return path, nil
}

func (b *CycleBuilder) writeConfigDocument(key types.CycleKey, cycleDir string, result *types.CycleResult) (string, error) {
	doc, err := ConfigDocument(b.composer, key, result.ObsTypes, cycleDir)
	if err != nil {
		return "", err
	}

	path := filepath.Join(cycleDir, fmt.Sprintf("config_%s.yaml", key.Name()))
	if err := os.WriteFile(path, []byte(doc), 0o644); err != nil {
		return "", fmt.Errorf("cannot write configuration document %s: %w", path, err)
	}
	return path, nil
}

// ConfigDocument renders the data-assimilation configuration document
// for one cycle and an explicit observation type list. BuildCycle uses
// it with classified types; the config command uses it directly for
// ad-hoc documents outside a catalog run.
func ConfigDocument(composer *tmpl.Composer, key types.CycleKey, obsTypes []string, outputDir string) (string, error) {
	begin, center, end := window(key)

	doc, err := composer.RenderDocument(tmpl.DocumentSpec{
		Observations: obsTypes,
		Shared: tmpl.Context{
			"cycle_name":        key.Name(),
			"cycle_hour":        key.HourString(),
			"window_begin":      begin,
			"window_end":        end,
			"window_length":     windowLength,
			"background_date":   center,
			"output_dir":        outputDir,
			"obsdatain_path":    "obs",
			"obsdatain_prefix":  fmt.Sprintf("%s.t%sz.", key.Product, key.HourString()),
			"obsdatain_suffix":  scanner.DataExtension,
			"obsdataout_path":   "diags",
			"obsdataout_suffix": ".out" + scanner.DataExtension,
		},
	})
	if err != nil {
		return "", err
	}
	if !strings.HasSuffix(doc, "\n") {
		doc += "\n"
	}
	return doc, nil
}
