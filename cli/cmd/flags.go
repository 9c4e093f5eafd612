// Package cmd provides CLI commands for the obsforge binary.
package cmd

import "github.com/urfave/cli/v2"

// Shared flags.
var (
	// ConfigFlag points at the obsforge.yaml config file.
	ConfigFlag = &cli.StringFlag{
		Name:    "config",
		Aliases: []string{"c"},
		Usage:   "Path to obsforge.yaml config file",
	}

	// RootFlag is the catalog root directory.
	RootFlag = &cli.StringFlag{
		Name:    "root",
		Aliases: []string{"r"},
		Usage:   "Obsforge catalog root directory",
	}

	// OutputFlag is the artifact output directory.
	OutputFlag = &cli.StringFlag{
		Name:    "output",
		Aliases: []string{"o"},
		Usage:   "Directory for job cards, configs, and reports",
	}

	// TemplatesFlag is the user template override directory.
	TemplatesFlag = &cli.StringFlag{
		Name:  "templates",
		Usage: "Template directory consulted before the bundled defaults",
	}

	// ProductFlag restricts processing to named products.
	ProductFlag = &cli.StringSliceFlag{
		Name:    "product",
		Aliases: []string{"p"},
		Usage:   "Product to process (gdas, gfs); repeatable, default all",
	}

	// StartDateFlag is the inclusive lower date bound.
	StartDateFlag = &cli.StringFlag{
		Name:  "start-date",
		Usage: "Inclusive lower cycle date bound (YYYYMMDD)",
	}

	// EndDateFlag is the inclusive upper date bound.
	EndDateFlag = &cli.StringFlag{
		Name:  "end-date",
		Usage: "Inclusive upper cycle date bound (YYYYMMDD)",
	}

	// FormatFlag selects output format: json, table, yaml.
	FormatFlag = &cli.StringFlag{
		Name:    "format",
		Aliases: []string{"f"},
		Usage:   "Output format: json, table, yaml",
	}

	// NoColorFlag disables colored output.
	NoColorFlag = &cli.BoolFlag{
		Name:  "no-color",
		Usage: "Disable colored output",
	}

	// TUIFlag enables Bubble Tea interactive mode.
	// Only valid for the report command.
	TUIFlag = &cli.BoolFlag{
		Name:  "tui",
		Usage: "Enable interactive TUI mode (report only)",
	}
)

// CatalogFlags returns the flags shared by commands that read the catalog.
func CatalogFlags() []cli.Flag {
	return []cli.Flag{
		ConfigFlag,
		RootFlag,
		ProductFlag,
		StartDateFlag,
		EndDateFlag,
	}
}

// ReadOnlyFlags returns the shared flags for all read-only commands.
// Includes --tui so that unsupported commands can provide explicit error
// messages instead of generic "flag not defined" errors.
func ReadOnlyFlags() []cli.Flag {
	return []cli.Flag{
		FormatFlag,
		NoColorFlag,
		TUIFlag,
	}
}
