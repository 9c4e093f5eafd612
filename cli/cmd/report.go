package cmd

import (
	"fmt"

	"github.com/urfave/cli/v2"

	"github.com/obsforge-io/obsforge/cli/render"
	"github.com/obsforge-io/obsforge/cli/tui"
	"github.com/obsforge-io/obsforge/runtime"
)

// ReportCommand returns the report command: render the saved summary of
// a previous run. With --tui it opens the interactive summary browser.
func ReportCommand() *cli.Command {
	flags := []cli.Flag{OutputFlag, ConfigFlag}
	flags = append(flags, ReadOnlyFlags()...)

	return &cli.Command{
		Name:   "report",
		Usage:  "Show the status report of a previous run",
		Flags:  flags,
		Action: reportAction,
	}
}

func reportAction(c *cli.Context) error {
	dir := c.String("output")
	if dir == "" {
		settings, err := ResolveSettings(c)
		if err == nil {
			dir = settings.OutputDir
		} else {
			dir = "obsforge_output"
		}
	}

	summary, err := runtime.LoadSummary(dir)
	if err != nil {
		return cli.Exit(err.Error(), 1)
	}

	if c.Bool("tui") {
		return tui.RunSummaryBrowser(summary)
	}

	format, err := render.ParseFormat(c.String("format"))
	if err != nil {
		return err
	}
	if format == "" {
		// Default report view is the human-readable status text.
		reporter := runtime.NewReporter(c.Bool("no-color"))
		fmt.Fprint(c.App.Writer, reporter.StatusReport(summary))
		if exec := reporter.ExecutionSummary(summary); exec != "" {
			fmt.Fprint(c.App.Writer, "\n"+exec)
		}
		return nil
	}

	r, err := render.NewRenderer(c)
	if err != nil {
		return err
	}
	return r.Render(summary)
}
