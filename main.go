package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/schollz/progressbar/v3"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"gitgraphs/internal/config"
	"gitgraphs/internal/git"
	"gitgraphs/internal/history"
	"gitgraphs/internal/leaderboard"
	"gitgraphs/internal/types"
)

const VERSION = "1.0.0"
const PROJECT_NAME = "git-graphs"

const GRAPH_ART = `
   ▁▂▄▆█ git-graphs █▆▄▂▁
`

const MINI_GRAPH = `▊`

type cliOptions struct {
	configFile     string
	verbose        bool
	quiet          bool
	period         string
	sort           string
	height         int
	limit          int
	format         string
	author         string
	exportDir      string
	noColor        bool
	generateConfig bool
	showConfig     bool
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "%s %v\n", color.RedString("Error:"), err)
		stop()
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	opts := &cliOptions{}
	var logger *logrus.Logger

	cmd := &cobra.Command{
		Use:   "gitgraphs [path]",
		Short: "Contribution statistics and text charts for a git repository",
		Long: color.New(color.Bold).Sprint(PROJECT_NAME) + ` reads the non-merge history of a repository,
groups commits into calendar weeks per contributor and draws the result as
terminal bar charts.`,
		Example: `  gitgraphs                          # current directory, all time
  gitgraphs ~/src/project --period month --sort additions
  gitgraphs --format table --limit 10
  gitgraphs --author alice --period year
  gitgraphs --export reports          # also write CSV files`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if opts.verbose && opts.quiet {
				return fmt.Errorf("--verbose and --quiet are mutually exclusive")
			}
			logger = newLogger(cmd.ErrOrStderr(), opts)
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			repoPath := "."
			if len(args) == 1 {
				repoPath = args[0]
			}
			return run(cmd, repoPath, opts, logger)
		},
	}

	pf := cmd.PersistentFlags()
	pf.StringVar(&opts.configFile, "config", "", "config file (default: .gitgraphs.yaml in the repository or $HOME)")
	pf.BoolVarP(&opts.verbose, "verbose", "v", false, "debug logging")
	pf.BoolVarP(&opts.quiet, "quiet", "q", false, "only print the report and errors")

	f := cmd.Flags()
	f.StringVarP(&opts.period, "period", "p", config.DefaultPeriod, "time window: all, year, month, week")
	f.StringVarP(&opts.sort, "sort", "s", config.DefaultSort, "contributor order: commits, additions, deletions")
	f.IntVar(&opts.height, "height", config.DefaultChartHeight, "rows of the commits chart")
	f.IntVarP(&opts.limit, "limit", "n", 0, "maximum number of contributors shown (0 = all)")
	f.StringVarP(&opts.format, "format", "f", leaderboard.FormatReport, "output format: "+strings.Join(leaderboard.Formats, ", "))
	f.StringVarP(&opts.author, "author", "a", "", "show a single contributor (name, email or key)")
	f.StringVar(&opts.exportDir, "export", "", "write contributors and weekly CSV files to this directory")
	f.BoolVar(&opts.noColor, "no-color", false, "disable colors")
	f.BoolVar(&opts.generateConfig, "generate-config", false, "write a sample .gitgraphs.yaml and exit")
	f.BoolVar(&opts.showConfig, "show-config", false, "print the effective configuration and exit")

	cmd.AddCommand(newVersionCmd())
	return cmd
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			showVersion(cmd.OutOrStdout())
		},
	}
}

func newLogger(w io.Writer, opts *cliOptions) *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(w)
	logger.SetFormatter(&logrus.TextFormatter{DisableTimestamp: true})
	switch {
	case opts.verbose:
		logger.SetLevel(logrus.DebugLevel)
	case opts.quiet:
		logger.SetLevel(logrus.WarnLevel)
	default:
		logger.SetLevel(logrus.InfoLevel)
	}
	return logger
}

func run(cmd *cobra.Command, repoPath string, opts *cliOptions, logger *logrus.Logger) error {
	out := cmd.OutOrStdout()

	if opts.noColor {
		color.NoColor = true
	}

	if opts.generateConfig {
		filename := opts.configFile
		if filename == "" {
			filename = filepath.Join(repoPath, config.DefaultConfigFile)
		}
		if err := config.GenerateConfigFile(filename); err != nil {
			return fmt.Errorf("failed to generate config file: %w", err)
		}
		fmt.Fprintf(out, "%s Generated configuration file: %s\n", color.GreenString("✓"), filename)
		return nil
	}

	cfg, err := config.LoadConfig(opts.configFile, repoPath)
	if err != nil {
		if opts.configFile != "" {
			return fmt.Errorf("failed to load config file %s: %w", opts.configFile, err)
		}
		logger.WithError(err).Warn("Failed to load config, using defaults")
		cfg = config.NewConfig()
	}
	if err := applyFlags(cmd, cfg, opts); err != nil {
		return err
	}
	if !opts.verbose && !opts.quiet {
		if level, err := logrus.ParseLevel(cfg.Log.Level); err == nil {
			logger.SetLevel(level)
		}
	}

	if opts.showConfig {
		cfg.PrintSummary(out)
		return nil
	}

	if !leaderboard.ValidFormat(opts.format) {
		return fmt.Errorf("unknown output format %q (expected one of %s)", opts.format, strings.Join(leaderboard.Formats, ", "))
	}

	absPath, err := filepath.Abs(repoPath)
	if err != nil {
		return fmt.Errorf("failed to resolve path %s: %w", repoPath, err)
	}
	if info, err := os.Stat(absPath); err != nil || !info.IsDir() {
		return fmt.Errorf("directory does not exist: %s", absPath)
	}

	report := opts.format == leaderboard.FormatReport
	if report && !opts.quiet {
		fmt.Fprint(out, color.CyanString(GRAPH_ART))
	}
	logger.WithField("path", absPath).Debug("loading history")

	stopSpinner := startSpinner(opts.quiet)
	stats, err := git.LoadStats(cmd.Context(), absPath, git.Options{
		Timeout:  cfg.Git.Timeout,
		Ignore:   cfg.IgnoreCommit,
		Location: time.Local,
		Logger:   logger,
	})
	stopSpinner()
	if err != nil {
		return err
	}

	if stats.TotalCommits == 0 {
		fmt.Fprintln(out, color.HiBlackString("No commits found in this repository"))
		return nil
	}

	now := time.Now()
	views := leaderboard.NewViews(stats, now)
	p, by := cfg.PeriodValue(), cfg.SortValue()

	err = leaderboard.Print(out, opts.format, repoPath, views, p, by, leaderboard.Options{
		Width:          leaderboard.TerminalWidth(int(os.Stdout.Fd())),
		ChartHeight:    cfg.Chart.Height,
		Color:          cfg.Chart.Color,
		SparklineWidth: cfg.Cards.SparklineWidth,
		Limit:          cfg.Cards.Limit,
		Author:         opts.author,
		NoColor:        color.NoColor,
	})
	if err != nil {
		return err
	}

	exportDir := cfg.Export.Dir
	if opts.exportDir != "" {
		exportDir = opts.exportDir
	}
	if exportDir != "" {
		exportView(views, p, by, exportDir, now, logger)
	}
	return nil
}

// applyFlags lays explicitly set flags over the loaded configuration.
func applyFlags(cmd *cobra.Command, cfg *config.Config, opts *cliOptions) error {
	flags := cmd.Flags()
	if flags.Changed("period") {
		cfg.Period = opts.period
	}
	if flags.Changed("sort") {
		cfg.Sort = opts.sort
	}
	if flags.Changed("height") {
		cfg.Chart.Height = opts.height
	}
	if flags.Changed("limit") {
		cfg.Cards.Limit = opts.limit
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid options: %w", err)
	}
	return nil
}

// exportView failures are logged, not fatal: the report has already been printed.
func exportView(views *leaderboard.Views, p types.Period, by types.SortBy, dir string, now time.Time, logger *logrus.Logger) {
	paths, err := history.Export(dir, views.Get(p, by), now)
	if err != nil {
		logger.WithError(err).WithField("dir", dir).Warn("Failed to export CSV files")
		return
	}
	logger.WithField("files", paths).Info("Exported CSV files")
}

// startSpinner shows progress on stderr while git runs; the returned func stops it.
func startSpinner(quiet bool) func() {
	if quiet || !term.IsTerminal(int(os.Stderr.Fd())) {
		return func() {}
	}

	bar := progressbar.NewOptions(-1,
		progressbar.OptionSetWriter(os.Stderr),
		progressbar.OptionSetDescription(MINI_GRAPH+" Reading git history"),
		progressbar.OptionSpinnerType(14),
		progressbar.OptionClearOnFinish(),
	)

	done := make(chan struct{})
	finished := make(chan struct{})
	go func() {
		defer close(finished)
		ticker := time.NewTicker(100 * time.Millisecond)
		defer ticker.Stop()
		for {
			select {
			case <-done:
				return
			case <-ticker.C:
				_ = bar.Add(1)
			}
		}
	}()

	return func() {
		close(done)
		<-finished
		_ = bar.Finish()
	}
}

func showVersion(w io.Writer) {
	fmt.Fprintf(w, "%s %s v%s\n", MINI_GRAPH, PROJECT_NAME, VERSION)
	fmt.Fprintf(w, "Weekly contribution statistics for git repositories\n")
	fmt.Fprintf(w, "Built with Go\n")
}
