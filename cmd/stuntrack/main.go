// Package main provides the CLI entrypoint for stuntrack.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/verte-zerg/stuntrack/internal/config"
	"github.com/verte-zerg/stuntrack/internal/logging"
	"github.com/verte-zerg/stuntrack/internal/model"
	"github.com/verte-zerg/stuntrack/internal/rekap"
	"github.com/verte-zerg/stuntrack/internal/report"
	"github.com/verte-zerg/stuntrack/internal/screening"
	"github.com/verte-zerg/stuntrack/internal/store"
	"github.com/verte-zerg/stuntrack/internal/tui"
)

const (
	defaultBackend      = store.BackendCSV
	defaultReportFormat = report.FormatPDF
	defaultLogLevel     = "warn"
	noDataMessage       = "Belum ada data."
)

// settings holds flag values after config merging.
type settings struct {
	backend      string
	storePath    string
	reportDir    string
	reportFormat string
	noReport     bool
	logLevel     string
	configPath   string
}

var globalSettings = settings{
	backend:      defaultBackend,
	reportFormat: defaultReportFormat,
	logLevel:     defaultLogLevel,
}

var (
	checkName   string
	checkBirth  string
	checkSex    string
	checkHeight float64
	checkWeight float64
	checkClass  string

	rekapChartOnly bool
	rekapWidth     int
	rekapColor     bool
)

func main() {
	rootCmd := newRootCmd()
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "stuntrack",
		Short:         "Child stunting screening",
		SilenceUsage:  true,
		SilenceErrors: false,
		RunE:          runFormCmd,
	}

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&globalSettings.backend, "store", defaultBackend, "record store backend (csv, sqlite)")
	pf.StringVar(&globalSettings.storePath, "store-path", "", "record store file (default: XDG data dir)")
	pf.StringVar(&globalSettings.reportDir, "report-dir", "", "report output directory (default: XDG data dir)")
	pf.StringVar(&globalSettings.reportFormat, "report-format", defaultReportFormat, "report format (pdf, txt)")
	pf.BoolVar(&globalSettings.noReport, "no-report", false, "skip writing report files")
	pf.StringVar(&globalSettings.logLevel, "log-level", defaultLogLevel, "log level (debug, info, warn, error)")
	pf.StringVar(&globalSettings.configPath, "config", "", "config file (default: XDG config dir)")

	rootCmd.AddCommand(newCheckCmd())
	rootCmd.AddCommand(newRekapCmd())
	rootCmd.AddCommand(newConfigCmd())

	return rootCmd
}

// app bundles the resources a command needs.
type app struct {
	settings settings
	logger   *zap.Logger
	store    store.RecordStore
	reports  *report.Renderer
}

func newApp(cmd *cobra.Command, withReports bool) (*app, error) {
	s := globalSettings
	if s.configPath == "" {
		s.configPath = config.DefaultConfigPath()
	}
	fileCfg, err := config.LoadConfig(s.configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	applyStringConfig(cmd, "store", &s.backend, fileCfg.Storage.Backend)
	applyStringConfig(cmd, "store-path", &s.storePath, fileCfg.Storage.Path)
	applyStringConfig(cmd, "report-dir", &s.reportDir, fileCfg.Report.Dir)
	applyStringConfig(cmd, "report-format", &s.reportFormat, fileCfg.Report.Format)
	applyStringConfig(cmd, "log-level", &s.logLevel, fileCfg.Log.Level)
	if fileCfg.Report.Enabled != nil && !cmd.Flags().Changed("no-report") {
		s.noReport = !*fileCfg.Report.Enabled
	}
	if s.storePath == "" {
		s.storePath = config.DefaultStorePath(s.backend)
	}
	if s.reportDir == "" {
		s.reportDir = config.DefaultReportDir()
	}

	logger, err := logging.New(s.logLevel, os.Stderr)
	if err != nil {
		return nil, err
	}

	st, err := store.Open(s.backend, s.storePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open store: %w", err)
	}
	a := &app{settings: s, logger: logger, store: st}
	if withReports && !s.noReport {
		a.reports, err = report.NewRenderer(s.reportDir, s.reportFormat)
		if err != nil {
			a.close()
			return nil, err
		}
	}
	logger.Debug("store opened", zap.String("backend", s.backend), zap.String("path", s.storePath))
	return a, nil
}

func (a *app) service() *screening.Service {
	var reports screening.ReportRenderer
	if a.reports != nil {
		reports = a.reports
	}
	return screening.NewService(a.store, reports, a.logger)
}

func (a *app) close() {
	if err := a.store.Close(); err != nil {
		a.logger.Warn("failed to close store", zap.Error(err))
	}
	_ = a.logger.Sync()
}

func runFormCmd(cmd *cobra.Command, _ []string) error {
	a, err := newApp(cmd, true)
	if err != nil {
		return err
	}
	defer a.close()

	program := tea.NewProgram(tui.NewModel(a.service()), tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("failed to run form: %w", err)
	}
	return nil
}

func newCheckCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "check",
		Short: "Screen one child without the form",
		Args:  cobra.NoArgs,
		RunE:  runCheckCmd,
	}
	cmd.Flags().StringVar(&checkName, "name", "", "child's name")
	cmd.Flags().StringVar(&checkBirth, "birth", "", "birth date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&checkSex, "sex", "", "sex (L or P)")
	cmd.Flags().Float64Var(&checkHeight, "height", 0, "height in cm (50-180)")
	cmd.Flags().Float64Var(&checkWeight, "weight", 0, "weight in kg (10-80)")
	cmd.Flags().StringVar(&checkClass, "class", "", "school class (1-6)")
	for _, name := range []string{"name", "birth", "sex", "height", "weight", "class"} {
		_ = cmd.MarkFlagRequired(name)
	}
	return cmd
}

func runCheckCmd(cmd *cobra.Command, _ []string) error {
	birth, err := time.ParseInLocation("2006-01-02", checkBirth, time.UTC)
	if err != nil {
		return fmt.Errorf("invalid --birth value: %w", err)
	}
	sex, err := model.ParseSex(checkSex)
	if err != nil {
		return fmt.Errorf("invalid --sex value: %w", err)
	}

	a, err := newApp(cmd, true)
	if err != nil {
		return err
	}
	defer a.close()

	sub := model.ChildSubmission{
		Name:      checkName,
		BirthDate: birth,
		Sex:       sex,
		HeightCm:  checkHeight,
		WeightKg:  checkWeight,
		Class:     strings.TrimSpace(checkClass),
	}
	return printScreening(cmd.OutOrStdout(), a.service(), sub)
}

func printScreening(w io.Writer, svc *screening.Service, sub model.ChildSubmission) error {
	res, err := svc.Run(context.Background(), sub)
	if errors.Is(err, screening.ErrAgeOutOfRange) {
		if _, werr := fmt.Fprintf(w, "Umur saat ini: %s (%.2f tahun)\n%s\n", res.AgeText, res.Age.DecimalYears, screening.OutOfRangeMessage); werr != nil {
			return werr
		}
		return err
	}
	if err != nil {
		return err
	}
	if err := report.WriteText(w, report.FromScreening(res)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	if res.ReportPath != "" {
		if _, err := fmt.Fprintf(w, "\nLaporan: %s\n", res.ReportPath); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
	}
	return nil
}

func newRekapCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "rekap",
		Short: "Show all records and stunting per class",
		Args:  cobra.NoArgs,
		RunE:  runRekapCmd,
	}
	cmd.Flags().BoolVar(&rekapChartOnly, "chart-only", false, "only print the chart")
	cmd.Flags().IntVar(&rekapWidth, "width", 0, "chart width (default: terminal width)")
	cmd.Flags().BoolVar(&rekapColor, "color", false, "force colored chart output")
	return cmd
}

func runRekapCmd(cmd *cobra.Command, _ []string) error {
	a, err := newApp(cmd, false)
	if err != nil {
		return err
	}
	defer a.close()
	return printRekap(cmd.OutOrStdout(), a.store)
}

func printRekap(w io.Writer, st store.RecordStore) error {
	rep, err := rekap.BuildReport(context.Background(), st)
	if errors.Is(err, store.ErrNoData) {
		_, werr := fmt.Fprintln(w, noDataMessage)
		return werr
	}
	if err != nil {
		return fmt.Errorf("failed to load records: %w", err)
	}
	if !rekapChartOnly {
		if err := rekap.RenderRecords(w, rep.Records); err != nil {
			return err
		}
		if _, err := fmt.Fprintln(w); err != nil {
			return err
		}
		if err := rekap.RenderSummary(w, rep.Totals); err != nil {
			return err
		}
		if _, err := fmt.Fprintln(w); err != nil {
			return err
		}
	}
	return rekap.RenderBarChart(w, rep.ByClass, rekapWidth, rekapColor)
}

func newConfigCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Create/open config file",
		Args:  cobra.NoArgs,
		RunE:  runConfigCmd,
	}
}

func runConfigCmd(_ *cobra.Command, _ []string) error {
	path := globalSettings.configPath
	if path == "" {
		path = config.DefaultConfigPath()
	}
	if err := writeDefaultConfig(path); err != nil {
		return err
	}

	editor := strings.TrimSpace(os.Getenv("EDITOR"))
	if editor == "" {
		editor = "vi"
	}
	parts := strings.Fields(editor)
	if len(parts) == 0 {
		return fmt.Errorf("editor command is empty")
	}
	cmd := exec.Command(parts[0], append(parts[1:], path)...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("failed to open editor: %w", err)
	}
	return nil
}

// writeDefaultConfig creates the config template unless a file already exists.
func writeDefaultConfig(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if _, err := os.Stat(path); err != nil {
		if !os.IsNotExist(err) {
			return fmt.Errorf("failed to stat config: %w", err)
		}
		if err := os.WriteFile(path, []byte(defaultConfigTemplate()), 0o644); err != nil {
			return fmt.Errorf("failed to write config: %w", err)
		}
	}
	return nil
}

func applyStringConfig(cmd *cobra.Command, name string, target, value *string) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func defaultConfigTemplate() string {
	return fmt.Sprintf(`# stuntrack configuration
# Uncomment a value to enable it. CLI flags override config values.

[storage]
# backend = %q          # csv or sqlite
# path = ""              # Record file (default: %s)

[report]
# enabled = true         # Write a report file per screening
# dir = ""               # Report directory (default: %s)
# format = %q           # pdf or txt

[log]
# level = %q            # debug, info, warn or error
`,
		defaultBackend,
		config.DefaultStorePath(defaultBackend),
		config.DefaultReportDir(),
		defaultReportFormat,
		defaultLogLevel,
	)
}
