package config

import (
	"fmt"

	"github.com/obsforge-io/obsforge/types"
)

// Config represents an obsforge.yaml configuration file.
// All values are optional and act as defaults for obsforge run flags.
// CLI flags always override config values.
type Config struct {
	Catalog   CatalogConfig   `yaml:"catalog"`
	Output    OutputConfig    `yaml:"output"`
	Templates TemplateConfig  `yaml:"templates"`
	Execution ExecutionConfig `yaml:"execution"`
	Publish   PublishConfig   `yaml:"publish"`
}

// CatalogConfig holds catalog discovery defaults from the config file.
type CatalogConfig struct {
	// Root is the obsforge catalog root directory.
	Root string `yaml:"root"`
	// Products restricts processing to the named products ("gdas", "gfs").
	// Empty means all.
	Products []string `yaml:"products"`
	// StartDate is the inclusive lower date bound (YYYYMMDD).
	StartDate string `yaml:"start_date"`
	// EndDate is the inclusive upper date bound (YYYYMMDD).
	EndDate string `yaml:"end_date"`
}

// OutputConfig holds artifact output defaults from the config file.
type OutputConfig struct {
	// Dir is where job cards, configuration documents, the run summary,
	// and status reports are written.
	Dir string `yaml:"dir"`
}

// TemplateConfig holds template resolution defaults from the config file.
type TemplateConfig struct {
	// Dir is a user template directory consulted before the bundled
	// defaults. Empty uses only the bundled templates.
	Dir string `yaml:"dir"`
}

// ExecutionConfig holds job execution defaults from the config file.
type ExecutionConfig struct {
	// Mode selects execution: "sbatch", "bash", or "" (generate only).
	Mode string `yaml:"mode"`
	// Sbatch overrides the submission binary. Empty uses "sbatch".
	Sbatch string `yaml:"sbatch"`
}

// PublishConfig holds report publishing defaults from the config file.
type PublishConfig struct {
	Bucket      string `yaml:"bucket"`
	Prefix      string `yaml:"prefix"`
	Region      string `yaml:"region"`
	Endpoint    string `yaml:"endpoint"`
	S3PathStyle bool   `yaml:"s3_path_style"`
}

// ParseProducts converts the configured product names into validated
// product types. Empty input means all known products.
func (c *CatalogConfig) ParseProducts() ([]types.Product, error) {
	products := make([]types.Product, 0, len(c.Products))
	for _, name := range c.Products {
		p, err := types.ParseProduct(name)
		if err != nil {
			return nil, err
		}
		products = append(products, p)
	}
	return products, nil
}

// ValidateExecutionMode checks the configured mode against the known set.
func (c *ExecutionConfig) ValidateExecutionMode() error {
	switch c.Mode {
	case "", string(types.ExecutionModeSbatch), string(types.ExecutionModeBash):
		return nil
	default:
		return fmt.Errorf("unknown execution mode: %q (must be sbatch or bash)", c.Mode)
	}
}
