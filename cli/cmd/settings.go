package cmd

import (
	"errors"
	"os"

	"github.com/urfave/cli/v2"

	"github.com/obsforge-io/obsforge/cli/config"
	"github.com/obsforge-io/obsforge/types"
)

// Settings is the effective command configuration: config file values
// with CLI flag overrides applied. Flags always win.
type Settings struct {
	Root        string
	OutputDir   string
	TemplateDir string
	Products    []types.Product
	StartDate   string
	EndDate     string
	// ExecutionMode is "", "sbatch", or "bash". Empty means generate only.
	ExecutionMode string
	Sbatch        string
	Publish       config.PublishConfig
}

// ResolveSettings merges the config file (explicit --config path, or
// obsforge.yaml in the working directory when present) with CLI flags.
func ResolveSettings(c *cli.Context) (*Settings, error) {
	cfg := &config.Config{}
	if path := c.String("config"); path != "" {
		loaded, err := config.Load(path)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	} else if _, err := os.Stat(config.DefaultPath); err == nil {
		loaded, err := config.Load(config.DefaultPath)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	if err := cfg.Execution.ValidateExecutionMode(); err != nil {
		return nil, err
	}

	s := &Settings{
		Root:          cfg.Catalog.Root,
		OutputDir:     cfg.Output.Dir,
		TemplateDir:   cfg.Templates.Dir,
		StartDate:     cfg.Catalog.StartDate,
		EndDate:       cfg.Catalog.EndDate,
		ExecutionMode: cfg.Execution.Mode,
		Sbatch:        cfg.Execution.Sbatch,
		Publish:       cfg.Publish,
	}

	products, err := cfg.Catalog.ParseProducts()
	if err != nil {
		return nil, err
	}
	s.Products = products

	if v := c.String("root"); v != "" {
		s.Root = v
	}
	if v := c.String("output"); v != "" {
		s.OutputDir = v
	}
	if v := c.String("templates"); v != "" {
		s.TemplateDir = v
	}
	if v := c.String("start-date"); v != "" {
		s.StartDate = v
	}
	if v := c.String("end-date"); v != "" {
		s.EndDate = v
	}
	if names := c.StringSlice("product"); len(names) > 0 {
		s.Products = s.Products[:0]
		for _, name := range names {
			p, err := types.ParseProduct(name)
			if err != nil {
				return nil, err
			}
			s.Products = append(s.Products, p)
		}
	}

	if s.Root == "" {
		return nil, errors.New("catalog root is required (--root or catalog.root in obsforge.yaml)")
	}
	if s.OutputDir == "" {
		s.OutputDir = "obsforge_output"
	}
	return s, nil
}
