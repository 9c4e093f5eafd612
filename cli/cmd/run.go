package cmd

import (
	"fmt"

	"github.com/urfave/cli/v2"

	"github.com/obsforge-io/obsforge/log"
	"github.com/obsforge-io/obsforge/publish"
	"github.com/obsforge-io/obsforge/runtime"
	"github.com/obsforge-io/obsforge/scanner"
	"github.com/obsforge-io/obsforge/tmpl"
	"github.com/obsforge-io/obsforge/types"
)

// RunCommand returns the run command: process every matching cycle,
// optionally execute the generated job cards, and write the summary and
// status reports.
func RunCommand() *cli.Command {
	flags := CatalogFlags()
	flags = append(flags,
		OutputFlag,
		TemplatesFlag,
		&cli.StringFlag{
			Name:  "execute",
			Usage: "Execute generated job cards: sbatch or bash",
		},
		&cli.BoolFlag{
			Name:  "publish",
			Usage: "Upload the summary and reports to the configured S3 bucket",
		},
		NoColorFlag,
	)

	return &cli.Command{
		Name:   "run",
		Usage:  "Process forecast cycles: generate job cards and 3DVAR configs",
		Flags:  flags,
		Action: runAction,
	}
}

func runAction(c *cli.Context) error {
	settings, err := ResolveSettings(c)
	if err != nil {
		return cli.Exit(err.Error(), 1)
	}
	if mode := c.String("execute"); mode != "" {
		if mode != string(types.ExecutionModeSbatch) && mode != string(types.ExecutionModeBash) {
			return cli.Exit(fmt.Sprintf("unknown execution mode: %q (must be sbatch or bash)", mode), 1)
		}
		settings.ExecutionMode = mode
	}

	logger := log.NewLogger()

	sc, err := scanner.New(settings.Root, logger)
	if err != nil {
		return cli.Exit(err.Error(), 1)
	}
	resolver, err := tmpl.NewResolver(settings.TemplateDir)
	if err != nil {
		return cli.Exit(err.Error(), 1)
	}

	builder := runtime.NewCycleBuilder(sc, resolver, settings.OutputDir, logger)
	coordinator := runtime.NewCoordinator(sc, builder, logger)
	opts := scanner.FindOptions{
		Products:  settings.Products,
		StartDate: settings.StartDate,
		EndDate:   settings.EndDate,
	}

	var summary *types.RunSummary
	switch settings.ExecutionMode {
	case string(types.ExecutionModeSbatch):
		executor := runtime.NewSlurmExecutor(logger)
		executor.Sbatch = settings.Sbatch
		summary, err = coordinator.ProcessAndExecute(c.Context, opts, executor)
	case string(types.ExecutionModeBash):
		summary, err = coordinator.ProcessAndExecute(c.Context, opts, runtime.NewDirectExecutor(logger))
	default:
		summary, err = coordinator.ProcessAll(opts)
	}
	if err != nil {
		return cli.Exit(err.Error(), 1)
	}

	if err := runtime.SaveSummary(summary, settings.OutputDir); err != nil {
		return cli.Exit(err.Error(), 1)
	}

	reporter := runtime.NewReporter(c.Bool("no-color"))
	if err := reporter.WriteReports(summary, settings.OutputDir); err != nil {
		return cli.Exit(err.Error(), 1)
	}

	fmt.Fprint(c.App.Writer, reporter.StatusReport(summary))
	if exec := reporter.ExecutionSummary(summary); exec != "" {
		fmt.Fprint(c.App.Writer, "\n"+exec)
	}

	if c.Bool("publish") {
		if err := publishReports(c, settings); err != nil {
			return cli.Exit(err.Error(), 1)
		}
	}

	if summary.FailedCycles > 0 {
		return cli.Exit(fmt.Sprintf("%d of %d cycles failed", summary.FailedCycles, summary.TotalCycles), 1)
	}
	return nil
}

func publishReports(c *cli.Context, settings *Settings) error {
	logger := log.NewLogger()
	publisher, err := publish.New(c.Context, publish.S3Config{
		Bucket:       settings.Publish.Bucket,
		Prefix:       settings.Publish.Prefix,
		Region:       settings.Publish.Region,
		Endpoint:     settings.Publish.Endpoint,
		UsePathStyle: settings.Publish.S3PathStyle,
	}, logger)
	if err != nil {
		return err
	}
	return publisher.PublishDir(c.Context, settings.OutputDir)
}
