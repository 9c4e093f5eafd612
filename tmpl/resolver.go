package tmpl

import (
	"embed"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// Template file naming. Fragment templates are named
// "<canonical_type>.yaml.tmpl"; the two reserved names below are the
// outer document and the job card.
const (
	// FragmentSuffix is the fragment template file suffix.
	FragmentSuffix = ".yaml.tmpl"
	// DocumentTemplateName is the outer 3DVAR document template.
	DocumentTemplateName = "jedi_3dvar.yaml.tmpl"
	// JobCardTemplateName is the batch job card template.
	JobCardTemplateName = "job_card.sh.tmpl"
)

//go:embed templates
var vendorFS embed.FS

// NotFoundError reports a template absent from every source.
type NotFoundError struct {
	Template string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("template not found in any source: %s", e.Template)
}

// source supplies template text by file name.
type source interface {
	// read returns the template text, or ok=false when this source
	// does not hold the template.
	read(filename string) (text string, ok bool, err error)
	// fragments lists the fragment template file names held by this
	// source.
	fragments() ([]string, error)
}

// dirSource reads templates from a flat user directory. Fragments and
// document/job-card overrides live side by side.
type dirSource struct {
	dir string
}

func (s dirSource) read(filename string) (string, bool, error) {
	data, err := os.ReadFile(filepath.Join(s.dir, filename))
	if err != nil {
		if os.IsNotExist(err) {
			return "", false, nil
		}
		return "", false, fmt.Errorf("cannot read template %s: %w", filename, err)
	}
	return string(data), true, nil
}

func (s dirSource) fragments() ([]string, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, fmt.Errorf("cannot list template directory %s: %w", s.dir, err)
	}
	var names []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		names = append(names, entry.Name())
	}
	return names, nil
}

// vendorSource reads the embedded defaults. Fragments live under
// templates/marine/, the document and job card under templates/.
type vendorSource struct{}

func (vendorSource) read(filename string) (string, bool, error) {
	for _, dir := range []string{"templates", "templates/marine"} {
		data, err := vendorFS.ReadFile(dir + "/" + filename)
		if err == nil {
			return string(data), true, nil
		}
	}
	return "", false, nil
}

func (vendorSource) fragments() ([]string, error) {
	entries, err := fs.ReadDir(vendorFS, "templates/marine")
	if err != nil {
		return nil, fmt.Errorf("cannot list embedded templates: %w", err)
	}
	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		names = append(names, entry.Name())
	}
	return names, nil
}

// Resolver resolves template names through an ordered source list,
// first hit wins.
type Resolver struct {
	sources []source
}

// NewResolver creates a Resolver. overrideDir, when non-empty, is a
// user template directory consulted before the embedded defaults; it
// must exist (fatal precondition, checked once at construction).
func NewResolver(overrideDir string) (*Resolver, error) {
	var sources []source
	if overrideDir != "" {
		info, err := os.Stat(overrideDir)
		if err != nil {
			if os.IsNotExist(err) {
				return nil, fmt.Errorf("template directory not found: %s", overrideDir)
			}
			return nil, fmt.Errorf("cannot stat template directory %s: %w", overrideDir, err)
		}
		if !info.IsDir() {
			return nil, fmt.Errorf("template path is not a directory: %s", overrideDir)
		}
		sources = append(sources, dirSource{dir: overrideDir})
	}
	sources = append(sources, vendorSource{})
	return &Resolver{sources: sources}, nil
}

// Lookup returns the text of a template by file name, trying each
// source in order. Returns *NotFoundError when absent everywhere.
func (r *Resolver) Lookup(filename string) (string, error) {
	for _, src := range r.sources {
		text, ok, err := src.read(filename)
		if err != nil {
			return "", err
		}
		if ok {
			return text, nil
		}
	}
	return "", &NotFoundError{Template: filename}
}

// FragmentVocabulary returns the sorted set of canonical observation
// type names for which a fragment template exists in any source. The
// reserved document and job card names are not part of the vocabulary.
func (r *Resolver) FragmentVocabulary() ([]string, error) {
	seen := make(map[string]bool)
	for _, src := range r.sources {
		names, err := src.fragments()
		if err != nil {
			return nil, err
		}
		for _, name := range names {
			if name == DocumentTemplateName || name == JobCardTemplateName {
				continue
			}
			if !strings.HasSuffix(name, FragmentSuffix) {
				continue
			}
			seen[strings.TrimSuffix(name, FragmentSuffix)] = true
		}
	}
	vocab := make([]string, 0, len(seen))
	for name := range seen {
		vocab = append(vocab, name)
	}
	sort.Strings(vocab)
	return vocab, nil
}
