// Package main provides the deadlinks CLI entrypoint.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/mattn/go-isatty"

	"github.com/lukemcguire/deadlinks/checker"
	"github.com/lukemcguire/deadlinks/config"
	"github.com/lukemcguire/deadlinks/logger"
	"github.com/lukemcguire/deadlinks/result"
	"github.com/lukemcguire/deadlinks/tui"
)

// Process exit codes.
const (
	exitOK    = 0 // No dead links, or list/dry mode
	exitDead  = 1 // At least one dead link, or the run was interrupted
	exitUsage = 2 // Bad flags or config
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

// stringList is a repeatable string flag.
type stringList []string

func (s *stringList) String() string { return strings.Join(*s, ",") }

func (s *stringList) Set(v string) error {
	*s = append(*s, v)
	return nil
}

// cliArgs holds the parsed command line. Only flags in set override the
// config file.
type cliArgs struct {
	configPath string
	paths      []string
	set        map[string]bool

	globs, exclude, ignore stringList

	hidden, list, dry, robots, noTUI bool

	concurrency int
	rateLimit   float64
	timeout     time.Duration
	userAgent   string
	format      string
	logLevel    string
}

func parseArgs(args []string, stderr io.Writer) (cliArgs, error) {
	var cli cliArgs
	defaults := config.Default()

	fs := flag.NewFlagSet("deadlinks", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Usage = func() {
		_, _ = fmt.Fprintln(stderr, "Usage: deadlinks [flags] [path ...]")
		_, _ = fmt.Fprintln(stderr, "Flags:")
		fs.PrintDefaults()
	}

	fs.Var(&cli.globs, "g", "include glob, repeatable (default \"**\")")
	fs.Var(&cli.globs, "glob", "include glob, repeatable (default \"**\")")
	fs.Var(&cli.exclude, "e", "exclude glob, repeatable")
	fs.Var(&cli.exclude, "exclude", "exclude glob, repeatable")
	fs.Var(&cli.ignore, "i", "link to ignore, repeatable")
	fs.Var(&cli.ignore, "ignore", "link to ignore, repeatable")
	fs.BoolVar(&cli.hidden, "hidden", false, "include hidden files and directories")
	fs.BoolVar(&cli.list, "list", false, "list files that would be searched and exit")
	fs.BoolVar(&cli.dry, "dry", false, "list links that would be checked and exit (wins over -list)")
	fs.StringVar(&cli.configPath, "config", "", "YAML config file (default $DEADLINKS_CONFIG, then "+config.DefaultFile+")")
	fs.IntVar(&cli.concurrency, "concurrency", defaults.Concurrency, "files checked in parallel")
	fs.Float64Var(&cli.rateLimit, "rate-limit", defaults.RateLimit, "max probes per second, 0 = unlimited")
	fs.DurationVar(&cli.timeout, "timeout", defaults.RequestTimeout, "per-request timeout")
	fs.StringVar(&cli.userAgent, "user-agent", defaults.UserAgent, "user agent string")
	fs.BoolVar(&cli.robots, "robots", false, "honor robots.txt")
	fs.StringVar(&cli.format, "format", defaults.Format, "check output format: text, json, or csv")
	fs.BoolVar(&cli.noTUI, "no-tui", false, "disable the interactive progress view")
	fs.StringVar(&cli.logLevel, "log-level", defaults.LogLevel, "log level: debug, info, warn, error (default $DEADLINKS_LOG_LEVEL or warn)")

	if err := fs.Parse(args); err != nil {
		return cli, err
	}

	cli.paths = fs.Args()
	cli.set = make(map[string]bool)
	fs.Visit(func(f *flag.Flag) { cli.set[f.Name] = true })
	return cli, nil
}

// buildConfig layers defaults, the config file, the environment, and the
// flags that were set, in that order, then validates the result.
func buildConfig(cli cliArgs) (config.Config, error) {
	cfg := config.Default()
	if path := config.Resolve(cli.configPath); path != "" {
		loaded, err := config.Load(path)
		if err != nil {
			return cfg, err
		}
		cfg = loaded
	}

	if lvl := os.Getenv("DEADLINKS_LOG_LEVEL"); lvl != "" {
		cfg.LogLevel = lvl
	}

	isSet := func(names ...string) bool {
		for _, n := range names {
			if cli.set[n] {
				return true
			}
		}
		return false
	}

	if len(cli.paths) > 0 {
		cfg.Paths = cli.paths
	}
	if isSet("g", "glob") {
		cfg.Globs = cli.globs
	}
	if isSet("e", "exclude") {
		cfg.Exclude = cli.exclude
	}
	if isSet("i", "ignore") {
		cfg.Ignore = cli.ignore
	}
	if isSet("hidden") {
		cfg.Hidden = cli.hidden
	}
	if isSet("concurrency") {
		cfg.Concurrency = cli.concurrency
	}
	if isSet("rate-limit") {
		cfg.RateLimit = cli.rateLimit
	}
	if isSet("timeout") {
		cfg.RequestTimeout = cli.timeout
	}
	if isSet("user-agent") {
		cfg.UserAgent = cli.userAgent
	}
	if isSet("robots") {
		cfg.RespectRobots = cli.robots
	}
	if isSet("format") {
		cfg.Format = cli.format
	}
	if isSet("no-tui") {
		cfg.NoTUI = cli.noTUI
	}
	if isSet("log-level") {
		cfg.LogLevel = cli.logLevel
	}
	cfg.LogLevel = strings.ToLower(cfg.LogLevel)

	switch {
	case cli.dry:
		cfg.Mode = config.ModeDry
	case cli.list:
		cfg.Mode = config.ModeList
	default:
		cfg.Mode = config.ModeCheck
	}

	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func run(args []string, stdout, stderr io.Writer) int {
	// A missing .env file is not an error.
	_ = godotenv.Load()

	cli, err := parseArgs(args, stderr)
	if errors.Is(err, flag.ErrHelp) {
		return exitOK
	}
	if err != nil {
		return exitUsage
	}

	cfg, err := buildConfig(cli)
	if err != nil {
		_, _ = fmt.Fprintf(stderr, "deadlinks: %v\n", err)
		return exitUsage
	}

	log, err := logger.New(cfg.LogLevel, isTerminal(stderr))
	if err != nil {
		_, _ = fmt.Fprintf(stderr, "deadlinks: %v\n", err)
		return exitUsage
	}
	log = log.With(logger.String("run_id", uuid.NewString()))
	defer func() { _ = log.Sync() }()

	walkOpts, err := cfg.WalkOptions()
	if err != nil {
		log.Error("invalid globs", logger.Error(err))
		return exitUsage
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	c := checker.New(checker.Options{
		Client:         &http.Client{},
		RequestTimeout: cfg.RequestTimeout,
		RateLimit:      cfg.RateLimit,
		UserAgent:      cfg.UserAgent,
		RespectRobots:  cfg.RespectRobots,
		Logger:         log,
	})
	opts := checker.FilesOptions{
		Walk:        walkOpts,
		Ignore:      cfg.IgnoreLinks(),
		Concurrency: cfg.Concurrency,
		Out:         stdout,
		Logger:      log,
	}

	log.Debug("starting run",
		logger.String("mode", string(cfg.Mode)),
		logger.String("paths", strings.Join(cfg.Paths, ",")),
		logger.String("globs", walkOpts.Include.String()),
		logger.String("exclude", walkOpts.Exclude.String()),
	)

	switch cfg.Mode {
	case config.ModeList:
		return finish(log, checker.NewFiles(opts, c).List(ctx))
	case config.ModeDry:
		return finish(log, checker.NewFiles(opts, c).Dry(ctx))
	}

	if cfg.Format == "text" && !cfg.NoTUI && isTerminal(stdout) {
		return runTUI(ctx, log, opts, c)
	}

	if cfg.Format != "text" {
		opts.Out = nil
	}
	report, err := checker.NewFiles(opts, c).Check(ctx)
	if code := finish(log, err); code != exitOK {
		return code
	}

	switch cfg.Format {
	case "json":
		err = result.WriteJSON(stdout, report.Records)
	case "csv":
		err = result.WriteCSV(stdout, report.Records)
	default:
		result.PrintSummary(stdout, report)
	}
	if err != nil {
		log.Error("write output", logger.Error(err))
		return exitUsage
	}

	if report.DeadLinks() > 0 {
		return exitDead
	}
	return exitOK
}

func runTUI(ctx context.Context, log logger.Logger, opts checker.FilesOptions, c *checker.Checker) int {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	progressCh := make(chan checker.FileChecked, 64)
	opts.Out = nil
	opts.Events = progressCh

	model := tui.NewModel(ctx, cancel, checker.NewFiles(opts, c), progressCh)
	finalModel, err := tea.NewProgram(model).Run()
	if err != nil {
		log.Error("terminal UI failed", logger.Error(err))
		return exitUsage
	}

	final := finalModel.(tui.Model)
	if final.Interrupted() {
		return exitDead
	}
	if code := finish(log, final.Err()); code != exitOK {
		return code
	}
	if final.HasDeadLinks() {
		return exitDead
	}
	return exitOK
}

// finish maps a run error to an exit code.
func finish(log logger.Logger, err error) int {
	switch {
	case err == nil:
		return exitOK
	case errors.Is(err, context.Canceled):
		log.Warn("interrupted")
		return exitDead
	default:
		log.Error("run failed", logger.Error(err))
		return exitUsage
	}
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
