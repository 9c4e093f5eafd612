package cmd

import (
	"github.com/urfave/cli/v2"

	"github.com/obsforge-io/obsforge/cli/render"
	"github.com/obsforge-io/obsforge/log"
	"github.com/obsforge-io/obsforge/scanner"
)

// CycleListing is one row of the cycles command output.
type CycleListing struct {
	Cycle      string `json:"cycle" yaml:"cycle"`
	Product    string `json:"product" yaml:"product"`
	Date       string `json:"date" yaml:"date"`
	Hour       string `json:"hour" yaml:"hour"`
	Categories int    `json:"categories" yaml:"categories"`
	Files      int    `json:"files" yaml:"files"`
}

// CyclesCommand returns the cycles command: list discovered cycles and
// their observation counts without generating anything.
func CyclesCommand() *cli.Command {
	return &cli.Command{
		Name:   "cycles",
		Usage:  "List forecast cycles discovered in the catalog",
		Flags:  append(CatalogFlags(), ReadOnlyFlags()...),
		Action: cyclesAction,
	}
}

func cyclesAction(c *cli.Context) error {
	r, err := render.NewRenderer(c)
	if err != nil {
		return err
	}
	if c.Bool("tui") {
		return cli.Exit("--tui is not supported for cycles command", 1)
	}

	settings, err := ResolveSettings(c)
	if err != nil {
		return cli.Exit(err.Error(), 1)
	}

	logger := log.NewLogger()
	sc, err := scanner.New(settings.Root, logger)
	if err != nil {
		return cli.Exit(err.Error(), 1)
	}

	keys, _, err := sc.FindCycles(scanner.FindOptions{
		Products:  settings.Products,
		StartDate: settings.StartDate,
		EndDate:   settings.EndDate,
	})
	if err != nil {
		return cli.Exit(err.Error(), 1)
	}

	listings := make([]CycleListing, 0, len(keys))
	for _, key := range keys {
		catalog := sc.ScanCycleObservations(key)
		listings = append(listings, CycleListing{
			Cycle:      key.Name(),
			Product:    string(key.Product),
			Date:       key.Date,
			Hour:       key.HourString(),
			Categories: len(catalog),
			Files:      catalog.FileCount(),
		})
	}
	return r.Render(listings)
}
