// Package scanner discovers forecast cycles and their observation files
// in an obsforge catalog tree.
//
// Catalog layout:
//
//	<root>/<product>.<YYYYMMDD>/<HH>/ocean/<category>/*.nc
//
// Top-level entries that do not match the <product>.<date> convention are
// skipped silently: the catalog root routinely contains unrelated files.
// Only a missing catalog root is fatal.
package scanner

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"github.com/obsforge-io/obsforge/log"
	"github.com/obsforge-io/obsforge/types"
)

// DataExtension is the observation data file suffix.
const DataExtension = ".nc"

// domainDir is the per-cycle subtree holding category directories.
const domainDir = "ocean"

var cycleDirPattern = regexp.MustCompile(`^(gdas|gfs)\.(\d{8})$`)

// Scanner walks an obsforge catalog root.
type Scanner struct {
	root   string
	logger *log.Logger
}

// New creates a Scanner for the given catalog root. The root must exist;
// this is the only fatal precondition in the scanning layer.
func New(root string, logger *log.Logger) (*Scanner, error) {
	info, err := os.Stat(root)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("obsforge catalog root not found: %s", root)
		}
		return nil, fmt.Errorf("cannot stat catalog root %s: %w", root, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("obsforge catalog root is not a directory: %s", root)
	}
	if logger == nil {
		logger = log.NewLogger()
	}
	return &Scanner{root: root, logger: logger}, nil
}

// Root returns the catalog root path.
func (s *Scanner) Root() string { return s.root }

// FindOptions filters cycle discovery.
type FindOptions struct {
	// Products restricts discovery to the given product types.
	// Empty means all known products.
	Products []types.Product
	// StartDate is the inclusive lower date bound (YYYYMMDD), empty for none.
	StartDate string
	// EndDate is the inclusive upper date bound (YYYYMMDD), empty for none.
	EndDate string
}

// FindCycles enumerates available cycles under the catalog root, sorted
// ascending by (product, date, zero-padded hour). The second return value
// counts top-level entries that existed but did not match the cycle
// directory convention; those are skipped, never errors, and the count
// lets callers (and tests) observe the skips without parsing log output.
func (s *Scanner) FindCycles(opts FindOptions) ([]types.CycleKey, int, error) {
	allowed := make(map[types.Product]bool)
	if len(opts.Products) == 0 {
		for _, p := range types.Products() {
			allowed[p] = true
		}
	} else {
		for _, p := range opts.Products {
			allowed[p] = true
		}
	}

	entries, err := os.ReadDir(s.root)
	if err != nil {
		return nil, 0, fmt.Errorf("cannot read catalog root %s: %w", s.root, err)
	}

	var cycles []types.CycleKey
	seen := make(map[types.CycleKey]bool)
	skipped := 0
	for _, entry := range entries {
		if !entry.IsDir() {
			skipped++
			continue
		}
		m := cycleDirPattern.FindStringSubmatch(entry.Name())
		if m == nil {
			skipped++
			continue
		}
		product, date := types.Product(m[1]), m[2]
		if !allowed[product] {
			continue
		}
		if opts.StartDate != "" && date < opts.StartDate {
			continue
		}
		if opts.EndDate != "" && date > opts.EndDate {
			continue
		}

		hourEntries, err := os.ReadDir(filepath.Join(s.root, entry.Name()))
		if err != nil {
			s.logger.Warn("cannot read cycle directory", map[string]any{
				"dir":   entry.Name(),
				"error": err.Error(),
			})
			continue
		}
		for _, hourEntry := range hourEntries {
			if !hourEntry.IsDir() {
				continue
			}
			hour, ok := types.ParseHourDir(hourEntry.Name())
			if !ok {
				continue
			}
			// Padded and unpadded hour directories ("06" and "6") name
			// the same cycle; emit it once.
			key := types.CycleKey{Product: product, Date: date, Hour: hour}
			if seen[key] {
				continue
			}
			seen[key] = true
			cycles = append(cycles, key)
		}
	}

	sort.Slice(cycles, func(i, j int) bool { return cycles[i].Less(cycles[j]) })
	return cycles, skipped, nil
}

// ScanCycleObservations lists the observation files present for one
// cycle, keyed by category. A missing ocean/ directory, a missing
// category directory, or a category with no data files all result in
// omission, never an error: sparse coverage is the common case.
func (s *Scanner) ScanCycleObservations(key types.CycleKey) types.ObservationCatalog {
	cyclePath := s.CycleDomainPath(key)

	if _, err := os.Stat(cyclePath); err != nil {
		s.logger.WithCycle(key).Warn("ocean directory not found", map[string]any{
			"path": cyclePath,
		})
		return types.ObservationCatalog{}
	}

	catalog := types.ObservationCatalog{}
	for _, category := range types.KnownCategories {
		files := s.listDataFiles(filepath.Join(cyclePath, category))
		if len(files) == 0 {
			continue
		}
		catalog[category] = files
		s.logger.WithCycle(key).Info("found observation files", map[string]any{
			"category": category,
			"count":    len(files),
		})
	}
	return catalog
}

// CycleDomainPath returns the ocean/ directory for a cycle, where
// category directories live. Job cards link observation data from here.
// Hour directories may be unpadded on disk ("6" rather than "06"); the
// padded form wins when both exist.
func (s *Scanner) CycleDomainPath(key types.CycleKey) string {
	padded := filepath.Join(s.root, key.DirName(), key.HourString(), domainDir)
	if _, err := os.Stat(padded); err == nil {
		return padded
	}
	unpadded := filepath.Join(s.root, key.DirName(), fmt.Sprintf("%d", key.Hour), domainDir)
	if _, err := os.Stat(unpadded); err == nil {
		return unpadded
	}
	return padded
}

// listDataFiles returns the sorted data file names directly under dir.
// A missing or unreadable directory yields nil.
func (s *Scanner) listDataFiles(dir string) []string {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil
	}
	var files []string
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), DataExtension) {
			continue
		}
		files = append(files, entry.Name())
	}
	sort.Strings(files)
	return files
}
