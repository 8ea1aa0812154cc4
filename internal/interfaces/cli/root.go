// Package cli is the caseflow command-line host: it loads configuration,
// wires the engine components together and exposes them as subcommands.
// The engine itself stays pure; everything stateful (files, clocks, output)
// lives here.
package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/veritas-suite/caseflow/internal/application/bulk"
	appsettlement "github.com/veritas-suite/caseflow/internal/application/settlement"
	"github.com/veritas-suite/caseflow/internal/application/timeline"
	apptreatment "github.com/veritas-suite/caseflow/internal/application/treatment"
	"github.com/veritas-suite/caseflow/internal/application/workflow"
	"github.com/veritas-suite/caseflow/internal/config"
	"github.com/veritas-suite/caseflow/internal/domain/deadline"
	"github.com/veritas-suite/caseflow/internal/domain/task"
	"github.com/veritas-suite/caseflow/internal/infrastructure/monitoring/logging"
	"github.com/veritas-suite/caseflow/internal/infrastructure/monitoring/metrics"
	"github.com/veritas-suite/caseflow/pkg/errors"
)

// Build-time variables injected via ldflags.
var (
	Version   = "dev"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

// cliContextKey is the context key for CLIContext.
type cliContextKey struct{}

// RootOptions holds global CLI flags.
type RootOptions struct {
	ConfigPath   string
	LogLevel     string
	OutputFormat string
	Verbose      bool
}

// CLIContext carries the initialized engine through the command tree.
type CLIContext struct {
	Config       *config.Config
	Logger       logging.Logger
	Recorder     metrics.Recorder
	Calculator   *timeline.Calculator
	Generator    *workflow.Generator
	Detector     *apptreatment.Detector
	Settlement   *appsettlement.Calculator
	Evaluator    *bulk.Evaluator
	OutputFormat string
	Verbose      bool
}

// NewRootCommand creates the root cobra command with all global flags and
// subcommands.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:     "caseflow",
		Short:   "caseflow is a deadline and workflow rules engine for personal-injury practices",
		Long:    "caseflow computes statutory deadline timelines from case anchor dates,\ngenerates workflow tasks with priority escalation, detects treatment gaps,\nand calculates net settlement proceeds.",
		Version: fmt.Sprintf("%s (commit: %s, built: %s)", Version, GitCommit, BuildDate),
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return persistentPreRun(cmd, opts)
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	pf := cmd.PersistentFlags()
	pf.StringVarP(&opts.ConfigPath, "config", "c", "", "config file path (default: ./caseflow.yaml)")
	pf.StringVar(&opts.LogLevel, "log-level", "", "log level override (debug, info, warn, error)")
	pf.StringVarP(&opts.OutputFormat, "output", "o", "table", "output format (table, json, text)")
	pf.BoolVarP(&opts.Verbose, "verbose", "v", false, "enable verbose output")

	cmd.AddCommand(
		newTimelineCmd(),
		newTasksCmd(),
		newOverdueCmd(),
		newRemindersCmd(),
		newGapsCmd(),
		newSettlementCmd(),
		newBulkCmd(),
	)

	return cmd
}

// persistentPreRun loads configuration and builds the full engine, then
// stores the CLIContext for subcommands.
func persistentPreRun(cmd *cobra.Command, opts *RootOptions) error {
	cfg, err := initConfig(opts)
	if err != nil {
		return fmt.Errorf("config initialization failed: %w", err)
	}

	logger, err := initLogger(cfg, opts)
	if err != nil {
		return fmt.Errorf("logger initialization failed: %w", err)
	}

	recorder := metrics.NewNopRecorder()
	if cfg.Metrics.Enabled {
		recorder, err = metrics.NewRecorder(prometheus.NewRegistry())
		if err != nil {
			return fmt.Errorf("metrics initialization failed: %w", err)
		}
	}

	cliCtx, err := buildEngine(cfg, logger, recorder)
	if err != nil {
		return fmt.Errorf("engine initialization failed: %w", err)
	}
	cliCtx.OutputFormat = opts.OutputFormat
	cliCtx.Verbose = opts.Verbose

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	cmd.SetContext(context.WithValue(ctx, cliContextKey{}, cliCtx))
	return nil
}

// buildEngine constructs every engine component from configuration.
func buildEngine(cfg *config.Config, logger logging.Logger, recorder metrics.Recorder) (*CLIContext, error) {
	rules, err := loadRuleTable(cfg)
	if err != nil {
		return nil, err
	}
	catalog, err := loadTemplateCatalog(cfg)
	if err != nil {
		return nil, err
	}

	calc, err := timeline.NewCalculator(rules, cfg.Engine.MinorAgeYears, logger, recorder)
	if err != nil {
		return nil, err
	}
	gen, err := workflow.NewGenerator(catalog, calc, logger, recorder)
	if err != nil {
		return nil, err
	}
	det, err := apptreatment.NewDetector(cfg.Engine.GapThresholdDays, logger, recorder)
	if err != nil {
		return nil, err
	}
	ev, err := bulk.NewEvaluator(calc, gen, cfg.Bulk, logger, recorder)
	if err != nil {
		return nil, err
	}

	return &CLIContext{
		Config:     cfg,
		Logger:     logger,
		Recorder:   recorder,
		Calculator: calc,
		Generator:  gen,
		Detector:   det,
		Settlement: appsettlement.NewCalculator(logger, recorder),
		Evaluator:  ev,
	}, nil
}

// loadRuleTable returns the catalog from engine.rules_file when set, the
// built-in table otherwise.
func loadRuleTable(cfg *config.Config) (*deadline.RuleTable, error) {
	if cfg.Engine.RulesFile == "" {
		return deadline.DefaultRuleTable(), nil
	}
	data, err := os.ReadFile(cfg.Engine.RulesFile)
	if err != nil {
		return nil, fmt.Errorf("reading rules file: %w", err)
	}
	return deadline.ParseRuleTableYAML(data)
}

// loadTemplateCatalog returns the catalog from engine.templates_file when
// set, the built-in catalog otherwise.
func loadTemplateCatalog(cfg *config.Config) (*task.TemplateCatalog, error) {
	if cfg.Engine.TemplatesFile == "" {
		return task.DefaultTemplateCatalog(), nil
	}
	data, err := os.ReadFile(cfg.Engine.TemplatesFile)
	if err != nil {
		return nil, fmt.Errorf("reading templates file: %w", err)
	}
	return task.ParseTemplateCatalogYAML(data)
}

// initConfig loads configuration with priority: flags > env > file > defaults.
func initConfig(opts *RootOptions) (*config.Config, error) {
	if opts.ConfigPath != "" {
		return config.Load(opts.ConfigPath)
	}
	if _, err := os.Stat("./caseflow.yaml"); err == nil {
		return config.Load("./caseflow.yaml")
	}
	return config.LoadFromEnv()
}

// initLogger creates a logger for CLI usage: console encoding on stderr so
// command output on stdout stays parseable.
func initLogger(cfg *config.Config, opts *RootOptions) (logging.Logger, error) {
	level := cfg.Log.Level
	if opts.LogLevel != "" {
		level = opts.LogLevel
	}
	if opts.Verbose {
		level = "debug"
	}

	return logging.NewLogger(logging.Config{
		Level:       level,
		Format:      "console",
		OutputPaths: []string{"stderr"},
	})
}

// GetCLIContext extracts CLIContext from a cobra command's context.
func GetCLIContext(cmd *cobra.Command) (*CLIContext, error) {
	ctx := cmd.Context()
	if ctx == nil {
		return nil, errors.Internal("command context is nil")
	}
	cliCtx, ok := ctx.Value(cliContextKey{}).(*CLIContext)
	if !ok || cliCtx == nil {
		return nil, errors.Internal("CLI context not initialized")
	}
	return cliCtx, nil
}

// Execute is the main entry point for the CLI application.
func Execute() error {
	rootCmd := NewRootCommand()
	if err := rootCmd.Execute(); err != nil {
		PrintError(rootCmd, err)
		return err
	}
	return nil
}

// ---------------------------------------------------------------------------
// Output helpers
// ---------------------------------------------------------------------------

// tableProvider is implemented by result wrappers that render as a table.
type tableProvider interface {
	TableHeaders() []string
	TableRows() [][]string
}

// PrintResult outputs data in the format selected by the global flag.
func PrintResult(cmd *cobra.Command, data interface{}) error {
	cliCtx, err := GetCLIContext(cmd)
	if err != nil {
		return printJSON(cmd, data)
	}

	switch strings.ToLower(cliCtx.OutputFormat) {
	case "json":
		return printJSON(cmd, data)
	case "table":
		return printTable(cmd, data)
	default:
		return printText(cmd, data)
	}
}

func printJSON(cmd *cobra.Command, data interface{}) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(data)
}

func printText(cmd *cobra.Command, data interface{}) error {
	switch v := data.(type) {
	case string:
		fmt.Fprintln(cmd.OutOrStdout(), v)
	case fmt.Stringer:
		fmt.Fprintln(cmd.OutOrStdout(), v.String())
	default:
		fmt.Fprintf(cmd.OutOrStdout(), "%+v\n", v)
	}
	return nil
}

func printTable(cmd *cobra.Command, data interface{}) error {
	if tp, ok := data.(tableProvider); ok {
		fmt.Fprint(cmd.OutOrStdout(), FormatTable(tp.TableHeaders(), tp.TableRows()))
		return nil
	}
	return printText(cmd, data)
}

// PrintError writes a formatted error message to stderr.
func PrintError(cmd *cobra.Command, err error) {
	if err == nil {
		return
	}
	fmt.Fprintf(cmd.ErrOrStderr(), "Error: %s\n", err.Error())
}

// FormatTable renders headers and rows as an aligned ASCII table.
func FormatTable(headers []string, rows [][]string) string {
	if len(headers) == 0 {
		return ""
	}

	colWidths := make([]int, len(headers))
	for i, h := range headers {
		colWidths[i] = len(h)
	}
	for _, row := range rows {
		for i := 0; i < len(row) && i < len(colWidths); i++ {
			if len(row[i]) > colWidths[i] {
				colWidths[i] = len(row[i])
			}
		}
	}

	var sb strings.Builder
	for i, h := range headers {
		if i > 0 {
			sb.WriteString("  ")
		}
		sb.WriteString(padRight(h, colWidths[i]))
	}
	sb.WriteString("\n")
	for i, w := range colWidths {
		if i > 0 {
			sb.WriteString("  ")
		}
		sb.WriteString(strings.Repeat("-", w))
	}
	sb.WriteString("\n")
	for _, row := range rows {
		for i := 0; i < len(headers); i++ {
			if i > 0 {
				sb.WriteString("  ")
			}
			val := ""
			if i < len(row) {
				val = row[i]
			}
			sb.WriteString(padRight(val, colWidths[i]))
		}
		sb.WriteString("\n")
	}
	return sb.String()
}

func padRight(s string, width int) string {
	if len(s) >= width {
		return s
	}
	return s + strings.Repeat(" ", width-len(s))
}

// parseDate accepts either a plain date or a full RFC 3339 timestamp.
func parseDate(s string) (time.Time, error) {
	if t, err := time.Parse("2006-01-02", s); err == nil {
		return t, nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("date %q must be YYYY-MM-DD or RFC 3339", s)
	}
	return t, nil
}

// resolveAsOf turns the --as-of flag into the evaluation instant; empty
// means the wall clock.
func resolveAsOf(asOf string) (time.Time, error) {
	if asOf == "" {
		return time.Now(), nil
	}
	return parseDate(asOf)
}
