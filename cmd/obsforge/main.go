// Package main provides the obsforge CLI entrypoint.
//
// Usage:
//
//	obsforge <command> [options]
//
// Commands:
//   - run: process forecast cycles, generate job cards and configs,
//     optionally submit or execute them
//   - cycles: list discovered cycles (read-only)
//   - config: render a 3DVAR config for an explicit observation list
//   - check: check completion of submitted jobs (read-only)
//   - report: show the status report of a previous run (read-only)
//   - version: show version information
package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/urfave/cli/v2"

	"github.com/obsforge-io/obsforge/cli/cmd"
	"github.com/obsforge-io/obsforge/types"
)

// Commit is set via ldflags at build time.
var commit = "unknown"

func main() {
	app := &cli.App{
		Name:           "obsforge",
		Usage:          "Marine observation cycle processor",
		Version:        fmt.Sprintf("%s (commit: %s)", types.Version, commit),
		ExitErrHandler: exitErrHandler,
		Commands: []*cli.Command{
			cmd.RunCommand(),
			cmd.CyclesCommand(),
			cmd.ConfigCommand(),
			cmd.CheckCommand(),
			cmd.ReportCommand(),
			cmd.VersionCommand(commit),
		},
	}

	if err := app.Run(os.Args); err != nil {
		// ExitErrHandler already handled the exit for cli.ExitCoder errors.
		// This branch handles unexpected errors that weren't wrapped.
		os.Exit(1)
	}
}

// exitErrHandler handles errors from the CLI, preserving exit codes
// from cli.Exit().
func exitErrHandler(_ *cli.Context, err error) {
	if err == nil {
		return
	}

	var exitCoder cli.ExitCoder
	if errors.As(err, &exitCoder) {
		code := exitCoder.ExitCode()
		msg := exitCoder.Error()

		// cli.Exit("", N).Error() returns "exit status N"; skip those.
		if msg != "" && msg != fmt.Sprintf("exit status %d", code) {
			fmt.Fprintln(os.Stderr, msg)
		}
		os.Exit(code)
	}

	fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	os.Exit(1)
}
