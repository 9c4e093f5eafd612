package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/urfave/cli/v2"

	"github.com/obsforge-io/obsforge/runtime"
	"github.com/obsforge-io/obsforge/types"
)

// newTestApp builds an app wired like the production binary, with
// output captured. The no-op ExitErrHandler keeps cli.Exit errors as
// return values instead of terminating the test process.
func newTestApp(buf *bytes.Buffer) *cli.App {
	return &cli.App{
		Name:           "obsforge",
		Writer:         buf,
		ExitErrHandler: func(*cli.Context, error) {},
		Commands: []*cli.Command{
			RunCommand(),
			CyclesCommand(),
			ConfigCommand(),
			CheckCommand(),
			ReportCommand(),
			VersionCommand("deadbeef"),
		},
	}
}

// seedCatalog builds a small two-cycle catalog.
func seedCatalog(t *testing.T) string {
	t.Helper()
	root := t.TempDir()
	for _, f := range []string{
		"gdas.20210831/18/ocean/adt/gdas.t18z.adt_3a.nc",
		"gdas.20210831/18/ocean/adt/gdas.t18z.adt_j3.nc",
		"gdas.20210831/18/ocean/sst/gdas.t18z.sst_viirs.nc",
		"gfs.20210831/12/ocean/icec/gfs.t12z.icec.nc",
	} {
		path := filepath.Join(root, f)
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			t.Fatalf("mkdir: %v", err)
		}
		if err := os.WriteFile(path, []byte("x"), 0o644); err != nil {
			t.Fatalf("write: %v", err)
		}
	}
	return root
}

func TestRunCommand_GenerateOnly(t *testing.T) {
	root := seedCatalog(t)
	out := t.TempDir()

	var buf bytes.Buffer
	app := newTestApp(&buf)
	err := app.Run([]string{"obsforge", "run", "--root", root, "--output", out, "--no-color"})
	if err != nil {
		t.Fatalf("run: %v", err)
	}

	got := buf.String()
	for _, want := range []string{
		"gdas.20210831.18",
		"gfs.20210831.12",
		"Total cycles:     2",
		"Processed cycles: 2",
		"Failed cycles:    0",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("run output missing %q:\n%s", want, got)
		}
	}

	// Artifacts, summary, and reports land in the output directory.
	for _, f := range []string{
		"gdas.20210831/18/job_gdas.20210831.18.sh",
		"gdas.20210831/18/config_gdas.20210831.18.yaml",
		"gfs.20210831/12/job_gfs.20210831.12.sh",
		runtime.SummaryYAMLName,
		"status_report.txt",
		"gdas_status_report.md",
		"gfs_status_report.md",
	} {
		if _, err := os.Stat(filepath.Join(out, f)); err != nil {
			t.Errorf("missing output file %s: %v", f, err)
		}
	}
}

func TestRunCommand_ProductFilter(t *testing.T) {
	root := seedCatalog(t)
	out := t.TempDir()

	var buf bytes.Buffer
	app := newTestApp(&buf)
	err := app.Run([]string{"obsforge", "run", "--root", root, "--output", out, "--product", "gfs", "--no-color"})
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	got := buf.String()
	if strings.Contains(got, "gdas.20210831.18") {
		t.Errorf("gdas cycle processed despite --product gfs:\n%s", got)
	}
	if !strings.Contains(got, "Total cycles:     1") {
		t.Errorf("unexpected cycle count:\n%s", got)
	}
}

func TestRunCommand_InvalidExecuteMode(t *testing.T) {
	root := seedCatalog(t)

	var buf bytes.Buffer
	app := newTestApp(&buf)
	err := app.Run([]string{"obsforge", "run", "--root", root, "--execute", "qsub"})
	if err == nil {
		t.Fatal("expected error for unknown execution mode")
	}
}

func TestRunCommand_MissingRoot(t *testing.T) {
	var buf bytes.Buffer
	app := newTestApp(&buf)
	err := app.Run([]string{"obsforge", "run", "--root", "/nonexistent/catalog"})
	if err == nil {
		t.Fatal("expected error for missing catalog root")
	}
}

func TestReportCommand_AfterRun(t *testing.T) {
	root := seedCatalog(t)
	out := t.TempDir()

	var buf bytes.Buffer
	app := newTestApp(&buf)
	if err := app.Run([]string{"obsforge", "run", "--root", root, "--output", out, "--no-color"}); err != nil {
		t.Fatalf("run: %v", err)
	}

	buf.Reset()
	if err := app.Run([]string{"obsforge", "report", "--output", out, "--no-color"}); err != nil {
		t.Fatalf("report: %v", err)
	}
	got := buf.String()
	if !strings.Contains(got, "Cycle Processing Status") {
		t.Errorf("report output missing header:\n%s", got)
	}
	if !strings.Contains(got, "gdas.20210831.18") {
		t.Errorf("report output missing cycle:\n%s", got)
	}
}

func TestConfigCommand_ResolvesAndRenders(t *testing.T) {
	var buf bytes.Buffer
	app := newTestApp(&buf)
	err := app.Run([]string{"obsforge", "config",
		"--cycle", "gdas.20210831.18",
		"--obs", "sea_surface_temperature",
		"--obs", "rads_adt_3a",
	})
	if err != nil {
		t.Fatalf("config: %v", err)
	}

	got := buf.String()
	// Legacy name resolves through the alias table, canonical name
	// resolves to itself.
	for _, want := range []string{"name: sst_generic", "name: rads_adt_3a", "begin: 2021-08-31T15:00:00Z"} {
		if !strings.Contains(got, want) {
			t.Errorf("config output missing %q:\n%s", want, got)
		}
	}
}

func TestConfigCommand_WriteToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "adhoc.yaml")

	var buf bytes.Buffer
	app := newTestApp(&buf)
	err := app.Run([]string{"obsforge", "config",
		"--cycle", "gfs.20210901.00",
		"--obs", "icec_generic",
		"--write", path,
	})
	if err != nil {
		t.Fatalf("config: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("document not written: %v", err)
	}
	if !strings.Contains(string(data), "name: icec_generic") {
		t.Errorf("document missing observer:\n%s", data)
	}
}

func TestConfigCommand_NothingResolves(t *testing.T) {
	var buf bytes.Buffer
	app := newTestApp(&buf)
	err := app.Run([]string{"obsforge", "config",
		"--cycle", "gdas.20210831.18",
		"--obs", "chlorophyll",
	})
	if err == nil {
		t.Fatal("expected error when no observation type resolves")
	}
}

func TestCheckCommand(t *testing.T) {
	out := t.TempDir()
	jobID := 900100
	summary := &types.RunSummary{
		TotalCycles:     1,
		ProcessedCycles: 1,
		Cycles: []types.CycleResult{{
			Cycle: "gdas.20210831.18",
			Execution: &types.ExecutionRecord{
				Cycle: "gdas.20210831.18", Mode: types.ExecutionModeSbatch,
				Status: types.ExecutionSubmitted, JobID: &jobID,
			},
		}},
	}
	if err := runtime.SaveSummary(summary, out); err != nil {
		t.Fatalf("SaveSummary: %v", err)
	}
	cycleDir := filepath.Join(out, "gdas.20210831", "18")
	if err := os.MkdirAll(cycleDir, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(filepath.Join(cycleDir, "gdas.20210831.18.out"), []byte("OOPS Ending\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	var buf bytes.Buffer
	app := newTestApp(&buf)
	if err := app.Run([]string{"obsforge", "check", "--output", out}); err != nil {
		t.Fatalf("check: %v", err)
	}

	got := buf.String()
	if !strings.Contains(got, "| gdas.20210831.18 | 900100 | succeeded |") {
		t.Errorf("check output missing succeeded row:\n%s", got)
	}
	if _, err := os.Stat(filepath.Join(out, runtime.CompletionReportName)); err != nil {
		t.Errorf("completion report not written: %v", err)
	}
}

func TestReportCommand_NoSummary(t *testing.T) {
	var buf bytes.Buffer
	app := newTestApp(&buf)
	err := app.Run([]string{"obsforge", "report", "--output", t.TempDir()})
	if err == nil {
		t.Fatal("expected error when no summary exists")
	}
}

func TestResolveSettings_FlagsOverrideConfig(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "obsforge.yaml")
	cfgYAML := `catalog:
  root: /from/config
  start_date: "20210801"
output:
  dir: /config/out
execution:
  mode: sbatch
`
	if err := os.WriteFile(cfgPath, []byte(cfgYAML), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	var got *Settings
	app := &cli.App{
		Commands: []*cli.Command{{
			Name:  "settings",
			Flags: append(CatalogFlags(), OutputFlag, TemplatesFlag),
			Action: func(c *cli.Context) error {
				s, err := ResolveSettings(c)
				if err != nil {
					return err
				}
				got = s
				return nil
			},
		}},
	}

	err := app.Run([]string{"obsforge", "settings",
		"--config", cfgPath,
		"--root", "/from/flag",
		"--product", "gdas",
	})
	if err != nil {
		t.Fatalf("settings: %v", err)
	}

	if got.Root != "/from/flag" {
		t.Errorf("Root = %q, want flag override", got.Root)
	}
	if got.OutputDir != "/config/out" {
		t.Errorf("OutputDir = %q, want config value", got.OutputDir)
	}
	if got.StartDate != "20210801" {
		t.Errorf("StartDate = %q, want config value", got.StartDate)
	}
	if got.ExecutionMode != "sbatch" {
		t.Errorf("ExecutionMode = %q, want config value", got.ExecutionMode)
	}
	if len(got.Products) != 1 || got.Products[0] != types.ProductGDAS {
		t.Errorf("Products = %v, want [gdas]", got.Products)
	}
}

func TestResolveSettings_RootRequired(t *testing.T) {
	app := &cli.App{
		Commands: []*cli.Command{{
			Name:  "settings",
			Flags: CatalogFlags(),
			Action: func(c *cli.Context) error {
				_, err := ResolveSettings(c)
				return err
			},
		}},
	}
	if err := app.Run([]string{"obsforge", "settings"}); err == nil {
		t.Fatal("expected error when no root configured")
	}
}
