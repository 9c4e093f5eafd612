package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/urfave/cli/v2"

	"github.com/obsforge-io/obsforge/classify"
	"github.com/obsforge-io/obsforge/log"
	"github.com/obsforge-io/obsforge/runtime"
	"github.com/obsforge-io/obsforge/tmpl"
	"github.com/obsforge-io/obsforge/types"
)

// ConfigCommand returns the config command: render a 3DVAR
// configuration document for an explicit observation type list, without
// scanning a catalog. Each --obs value is resolved against the fragment
// template vocabulary, so legacy names and loose keywords work too.
func ConfigCommand() *cli.Command {
	return &cli.Command{
		Name:  "config",
		Usage: "Render a 3DVAR config for an explicit observation list",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "cycle",
				Usage:    "Cycle identity, e.g. gdas.20210831.18",
				Required: true,
			},
			&cli.StringSliceFlag{
				Name:  "obs",
				Usage: "Observation type to include; repeatable",
			},
			TemplatesFlag,
			&cli.StringFlag{
				Name:  "write",
				Usage: "Write the document to this file instead of stdout",
			},
		},
		Action: configAction,
	}
}

func configAction(c *cli.Context) error {
	key, err := types.ParseCycleName(c.String("cycle"))
	if err != nil {
		return cli.Exit(err.Error(), 1)
	}
	rawTypes := c.StringSlice("obs")
	if len(rawTypes) == 0 {
		return cli.Exit("at least one --obs observation type is required", 1)
	}

	logger := log.NewLogger()
	resolver, err := tmpl.NewResolver(c.String("templates"))
	if err != nil {
		return cli.Exit(err.Error(), 1)
	}
	vocab, err := resolver.FragmentVocabulary()
	if err != nil {
		return cli.Exit(err.Error(), 1)
	}

	// Resolve each requested type against the vocabulary; unresolvable
	// inputs are logged and dropped, matching fragment skip semantics.
	classifier := classify.New(logger)
	var obsTypes []string
	seen := make(map[string]bool)
	for _, raw := range rawTypes {
		canonical, ok := classifier.MatchSingleType(raw, vocab)
		if !ok {
			continue
		}
		if !seen[canonical] {
			seen[canonical] = true
			obsTypes = append(obsTypes, canonical)
		}
	}
	if len(obsTypes) == 0 {
		return cli.Exit("no observation type resolved against the template vocabulary", 1)
	}

	outPath := c.String("write")
	outputDir := "."
	if outPath != "" {
		outputDir = filepath.Dir(outPath)
	}

	doc, err := runtime.ConfigDocument(tmpl.NewComposer(resolver, logger), key, obsTypes, outputDir)
	if err != nil {
		return cli.Exit(err.Error(), 1)
	}

	if outPath == "" {
		fmt.Fprint(c.App.Writer, doc)
		return nil
	}
	if err := os.WriteFile(outPath, []byte(doc), 0o644); err != nil {
		return cli.Exit(fmt.Sprintf("cannot write %s: %v", outPath, err), 1)
	}
	return nil
}
