// Package main provides the CLI entrypoint for watchlog.
package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/goccy/go-json"
	"github.com/spf13/cobra"

	"github.com/verte-zerg/watchlog/internal/config"
	"github.com/verte-zerg/watchlog/internal/export"
	"github.com/verte-zerg/watchlog/internal/history"
	"github.com/verte-zerg/watchlog/internal/logging"
	"github.com/verte-zerg/watchlog/internal/model"
	"github.com/verte-zerg/watchlog/internal/stats"
	"github.com/verte-zerg/watchlog/internal/statsui"
	"github.com/verte-zerg/watchlog/internal/store"
	"github.com/verte-zerg/watchlog/internal/validation"
)

const (
	defaultDateOrder = "month-first"
	defaultScore     = "episodes"
	defaultFormat    = "text"
	defaultHeight    = 10
	defaultLogLevel  = "warn"
	defaultLogFormat = logging.FormatConsole
	defaultKind      = string(export.KindAll)
	defaultOut       = "chart.html"
)

var (
	historyFile string
	dateOrder   string
	logLevel    string
	logFormat   string

	queryMonth int
	queryYear  int

	outputFormat string
	plotHeight   int

	topScore string
	topN     int

	exportOut  string
	exportKind string
)

// globalOptions are the persistent flags after config values are applied.
type globalOptions struct {
	File      string `flag:"file" validate:"required"`
	DateOrder string `flag:"date-order" validate:"dateorder"`
	LogLevel  string `flag:"log-level" validate:"loglevel"`
	LogFormat string `flag:"log-format" validate:"oneof=console json"`
}

type dailyOptions struct {
	Format string `flag:"format" validate:"oneof=text json"`
	Height int    `flag:"height" validate:"min=1,max=100"`
}

// Top of zero selects the configured default for the score mode.
type topOptions struct {
	Format string `flag:"format" validate:"oneof=text json"`
	Score  string `flag:"score" validate:"scoremode"`
	Top    int    `flag:"top" validate:"gte=0"`
}

type exportOptions struct {
	Out  string `flag:"out" validate:"required"`
	Kind string `flag:"kind" validate:"oneof=daily pie bar all"`
	Top  int    `flag:"top" validate:"gte=0"`
}

func main() {
	rootCmd := newRootCmd()
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "watchlog",
		Short:         "Monthly charts for a streaming viewing history",
		SilenceUsage:  true,
		SilenceErrors: false,
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&historyFile, "file", "", "viewing history CSV (default: config or XDG data dir)")
	flags.StringVar(&dateOrder, "date-order", defaultDateOrder, "ambiguous date order: month-first or day-first")
	flags.StringVar(&logLevel, "log-level", defaultLogLevel, "log level: debug, info, warn, error")
	flags.StringVar(&logFormat, "log-format", defaultLogFormat, "log format: console or json")

	rootCmd.AddCommand(newDailyCmd())
	rootCmd.AddCommand(newTopCmd())
	rootCmd.AddCommand(newReportCmd())
	rootCmd.AddCommand(newBrowseCmd())
	rootCmd.AddCommand(newExportCmd())
	rootCmd.AddCommand(newConfigCmd())

	return rootCmd
}

func addPeriodFlags(cmd *cobra.Command) {
	cmd.Flags().IntVar(&queryMonth, "month", 0, "month 1-12 (default: latest month in the log)")
	cmd.Flags().IntVar(&queryYear, "year", 0, "year (default: latest month in the log)")
}

func newDailyCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "daily",
		Short: "Show unique titles watched per day",
		Args:  cobra.NoArgs,
		RunE:  runDailyCmd,
	}
	addPeriodFlags(cmd)
	cmd.Flags().StringVar(&outputFormat, "format", defaultFormat, "output format: text or json")
	cmd.Flags().IntVar(&plotHeight, "height", defaultHeight, "plot height in rows")
	return cmd
}

func runDailyCmd(cmd *cobra.Command, _ []string) error {
	if err := validation.ValidateStruct(dailyOptions{Format: outputFormat, Height: plotHeight}); err != nil {
		return err
	}
	st, _, err := loadHistory(cmd)
	if err != nil {
		return err
	}
	period, err := resolvePeriod(cmd, st)
	if err != nil {
		return err
	}
	// The daily view never prints the ranking, so it does not follow [top].
	report, err := stats.BuildReport(st, model.QueryConfig{
		Period: period,
		Mode:   model.ScoreDistinctEpisodes,
		TopN:   stats.DefaultPieTop,
	})
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	if outputFormat == "json" {
		return writeJSON(out, report)
	}
	return stats.RenderDailyWithSize(out, report, 0, plotHeight, false)
}

func newTopCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "top",
		Short: "Rank the most watched titles",
		Args:  cobra.NoArgs,
		RunE:  runTopCmd,
	}
	addPeriodFlags(cmd)
	cmd.Flags().StringVar(&outputFormat, "format", defaultFormat, "output format: text or json")
	cmd.Flags().StringVar(&topScore, "score", defaultScore, "ranking score: episodes or views")
	cmd.Flags().IntVar(&topN, "top", 0, "number of titles (default: 5 for episodes, 20 for views)")
	return cmd
}

func runTopCmd(cmd *cobra.Command, _ []string) error {
	if err := validation.ValidateStruct(topOptions{Format: outputFormat, Score: topScore, Top: topN}); err != nil {
		return err
	}
	st, fileCfg, err := loadHistory(cmd)
	if err != nil {
		return err
	}
	applyStringConfig(cmd, "score", &topScore, fileCfg.Top.Score)
	mode, err := model.ParseScoreMode(topScore)
	if err != nil {
		return err
	}
	if topN == 0 {
		topN = defaultTopFor(mode, fileCfg)
	}
	period, err := resolvePeriod(cmd, st)
	if err != nil {
		return err
	}
	report, err := stats.BuildReport(st, model.QueryConfig{Period: period, Mode: mode, TopN: topN})
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	if outputFormat == "json" {
		return writeJSON(out, report)
	}
	return stats.RenderRanking(out, report)
}

func newReportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "report",
		Short: "Show the summary, daily titles and both rankings",
		Args:  cobra.NoArgs,
		RunE:  runReportCmd,
	}
	addPeriodFlags(cmd)
	cmd.Flags().StringVar(&outputFormat, "format", defaultFormat, "output format: text or json")
	cmd.Flags().IntVar(&plotHeight, "height", defaultHeight, "plot height in rows")
	return cmd
}

func runReportCmd(cmd *cobra.Command, _ []string) error {
	if err := validation.ValidateStruct(dailyOptions{Format: outputFormat, Height: plotHeight}); err != nil {
		return err
	}
	st, fileCfg, err := loadHistory(cmd)
	if err != nil {
		return err
	}
	period, err := resolvePeriod(cmd, st)
	if err != nil {
		return err
	}
	reports, err := buildReports(st, period, fileCfg, 0)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if outputFormat == "json" {
		return writeJSON(out, reports)
	}
	if err := stats.RenderSummary(out, reports.Episodes); err != nil {
		return err
	}
	if reports.Episodes.Empty() {
		return nil
	}
	steps := []func() error{
		func() error { return stats.RenderDailyWithSize(out, reports.Episodes, 0, plotHeight, false) },
		func() error { return stats.RenderRanking(out, reports.Episodes) },
		func() error { return stats.RenderRanking(out, reports.Views) },
	}
	for _, step := range steps {
		if _, err := fmt.Fprintln(out); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
		if err := step(); err != nil {
			return err
		}
	}
	return nil
}

func newBrowseCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "browse",
		Short: "Browse months interactively",
		Args:  cobra.NoArgs,
		RunE:  runBrowseCmd,
	}
	addPeriodFlags(cmd)
	return cmd
}

func runBrowseCmd(cmd *cobra.Command, _ []string) error {
	st, fileCfg, err := loadHistory(cmd)
	if err != nil {
		return err
	}
	period, err := resolvePeriod(cmd, st)
	if err != nil {
		return err
	}
	ui := statsui.NewModel(st, statsui.Options{
		Period: period,
		PieTop: intOr(fileCfg.Top.Pie, stats.DefaultPieTop),
		BarTop: intOr(fileCfg.Top.Bar, stats.DefaultBarTop),
	})
	program := tea.NewProgram(ui, tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("failed to run browser: %w", err)
	}
	return nil
}

func newExportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write the charts to an HTML page",
		Args:  cobra.NoArgs,
		RunE:  runExportCmd,
	}
	addPeriodFlags(cmd)
	cmd.Flags().StringVar(&exportOut, "out", defaultOut, "output HTML file")
	cmd.Flags().StringVar(&exportKind, "kind", defaultKind, "charts to include: daily, pie, bar or all")
	cmd.Flags().IntVar(&topN, "top", 0, "number of titles for pie and bar (default: config or 5 and 20)")
	return cmd
}

func runExportCmd(cmd *cobra.Command, _ []string) error {
	opts := exportOptions{Out: exportOut, Kind: strings.ToLower(exportKind), Top: topN}
	if err := validation.ValidateStruct(opts); err != nil {
		return err
	}
	kind, err := export.ParseKind(opts.Kind)
	if err != nil {
		return err
	}
	st, fileCfg, err := loadHistory(cmd)
	if err != nil {
		return err
	}
	period, err := resolvePeriod(cmd, st)
	if err != nil {
		return err
	}
	reports, err := buildReports(st, period, fileCfg, opts.Top)
	if err != nil {
		return err
	}
	path := config.ExpandHome(exportOut)
	if err := export.WriteFile(path, reports, kind); err != nil {
		return err
	}
	logging.Info().Str("file", path).Str("kind", string(kind)).Stringer("period", period).Msg("charts written")
	if _, err := fmt.Fprintln(cmd.OutOrStdout(), path); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
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
	path := config.DefaultConfigPath()
	if err := ensureConfigFile(path); err != nil {
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

func ensureConfigFile(path string) error {
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

// loadHistory resolves global flags against the config file, configures
// logging and loads the viewing log into a store.
func loadHistory(cmd *cobra.Command) (*store.Store, config.FileConfig, error) {
	fileCfg, err := config.LoadConfig(config.DefaultConfigPath())
	if err != nil {
		return nil, config.FileConfig{}, fmt.Errorf("failed to load config: %w", err)
	}
	applyStringConfig(cmd, "file", &historyFile, fileCfg.History.Path)
	applyStringConfig(cmd, "date-order", &dateOrder, fileCfg.History.DateOrder)
	applyStringConfig(cmd, "log-level", &logLevel, fileCfg.Log.Level)
	applyStringConfig(cmd, "log-format", &logFormat, fileCfg.Log.Format)
	if historyFile == "" {
		historyFile = config.DefaultHistoryPath()
	}

	opts := globalOptions{
		File:      config.ExpandHome(historyFile),
		DateOrder: dateOrder,
		LogLevel:  logLevel,
		LogFormat: strings.ToLower(logFormat),
	}
	if err := validation.ValidateStruct(opts); err != nil {
		return nil, fileCfg, err
	}
	logging.Init(logging.Config{
		Level:  opts.LogLevel,
		Format: opts.LogFormat,
		Output: cmd.ErrOrStderr(),
	})

	order, err := store.ParseDateOrder(opts.DateOrder)
	if err != nil {
		return nil, fileCfg, err
	}
	rows, err := history.LoadFile(opts.File)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fileCfg, fmt.Errorf("viewing history not found at %s (use --file or set [history] path via: watchlog config)", opts.File)
		}
		return nil, fileCfg, fmt.Errorf("failed to load history: %w", err)
	}

	st := store.Load(rows, store.WithDateOrder(order))
	logLoad(opts.File, st)
	return st, fileCfg, nil
}

func logLoad(path string, st *store.Store) {
	logging.Info().Str("file", path).Int("records", st.Len()).Msg("history loaded")
	if st.Skipped() == 0 {
		return
	}
	logging.Warn().Str("file", path).Int("skipped", st.Skipped()).Msgf("skipped %d malformed rows", st.Skipped())
	for _, perr := range st.Errors() {
		logging.Debug().
			Int("line", perr.Line).
			Str("field", perr.Field).
			Str("value", perr.Value).
			Err(perr.Err).
			Msg("skipped row")
	}
}

// resolvePeriod reads --month/--year, falling back to the latest month in the log.
func resolvePeriod(cmd *cobra.Command, st *store.Store) (model.Period, error) {
	monthSet := cmd.Flags().Changed("month")
	yearSet := cmd.Flags().Changed("year")
	if monthSet != yearSet {
		return model.Period{}, fmt.Errorf("--month and --year must be given together")
	}
	if monthSet {
		p := model.Period{Year: queryYear, Month: queryMonth}
		return p, stats.ValidatePeriod(p)
	}
	latest, ok := st.LatestPeriod()
	if !ok {
		return model.Period{}, fmt.Errorf("no valid records in history; pass --month and --year")
	}
	logging.Debug().Stringer("period", latest).Msg("using latest period")
	return latest, nil
}

func buildReports(st *store.Store, period model.Period, fileCfg config.FileConfig, override int) (export.Reports, error) {
	pieTop := intOr(fileCfg.Top.Pie, stats.DefaultPieTop)
	barTop := intOr(fileCfg.Top.Bar, stats.DefaultBarTop)
	if override > 0 {
		pieTop, barTop = override, override
	}
	episodes, err := stats.BuildReport(st, model.QueryConfig{Period: period, Mode: model.ScoreDistinctEpisodes, TopN: pieTop})
	if err != nil {
		return export.Reports{}, err
	}
	views, err := stats.BuildReport(st, model.QueryConfig{Period: period, Mode: model.ScoreOccurrences, TopN: barTop})
	if err != nil {
		return export.Reports{}, err
	}
	return export.Reports{Episodes: episodes, Views: views}, nil
}

func defaultTopFor(mode model.ScoreMode, fileCfg config.FileConfig) int {
	if mode == model.ScoreOccurrences {
		return intOr(fileCfg.Top.Bar, stats.DefaultBarTop)
	}
	return intOr(fileCfg.Top.Pie, stats.DefaultPieTop)
}

func intOr(value *int, fallback int) int {
	if value == nil {
		return fallback
	}
	return *value
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("failed to encode json: %w", err)
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
	return fmt.Sprintf(`# watchlog configuration
# Uncomment a value to enable it. CLI flags override config values.

[history]
# path = %q       # Viewing history CSV
# date-order = %q               # Ambiguous dates: month-first or day-first

[top]
# pie = %d              # Titles in the episode share view
# bar = %d             # Titles in the most viewed bars
# score = %q     # Default ranking for: watchlog top

[log]
# level = %q         # debug, info, warn, error
# format = %q     # console or json
`,
		config.DefaultHistoryPath(),
		defaultDateOrder,
		stats.DefaultPieTop,
		stats.DefaultBarTop,
		defaultScore,
		defaultLogLevel,
		defaultLogFormat,
	)
}
