package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/urfave/cli/v2"

	"github.com/obsforge-io/obsforge/cli/render"
	"github.com/obsforge-io/obsforge/log"
	"github.com/obsforge-io/obsforge/runtime"
)

// CheckCommand returns the check command: inspect the output files of
// jobs submitted by a previous run and report their completion status.
func CheckCommand() *cli.Command {
	flags := []cli.Flag{OutputFlag, ConfigFlag}
	flags = append(flags, ReadOnlyFlags()...)

	return &cli.Command{
		Name:   "check",
		Usage:  "Check completion of jobs submitted by a previous run",
		Flags:  flags,
		Action: checkAction,
	}
}

func checkAction(c *cli.Context) error {
	if c.Bool("tui") {
		return cli.Exit("--tui is not supported for check command", 1)
	}

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

	checks := runtime.CheckJobs(summary, dir, log.NewLogger())
	reporter := runtime.NewReporter(c.Bool("no-color"))
	report := reporter.CompletionReport(checks)

	path := filepath.Join(dir, runtime.CompletionReportName)
	if err := os.WriteFile(path, []byte(report), 0o644); err != nil {
		return cli.Exit(fmt.Sprintf("cannot write %s: %v", path, err), 1)
	}

	format, err := render.ParseFormat(c.String("format"))
	if err != nil {
		return err
	}
	if format != "" {
		r, err := render.NewRenderer(c)
		if err != nil {
			return err
		}
		return r.Render(checks)
	}

	fmt.Fprint(c.App.Writer, report)
	return nil
}
