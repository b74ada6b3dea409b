// Package cmd provides the CLI commands for cjkfts.
package cmd

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/Aman-CERP/cjkfts/internal/config"
	cerrors "github.com/Aman-CERP/cjkfts/internal/errors"
	"github.com/Aman-CERP/cjkfts/internal/logging"
	"github.com/Aman-CERP/cjkfts/internal/output"
	"github.com/Aman-CERP/cjkfts/internal/profiling"
	"github.com/Aman-CERP/cjkfts/pkg/engine"
	"github.com/Aman-CERP/cjkfts/pkg/version"
)

// configOptional marks commands that still run, on defaults, when the
// configuration cannot be loaded.
const configOptional = "config_optional"

// app is the state shared by one invocation of the root command.
type app struct {
	configPath string
	indexPath  string
	profile    string
	debug      bool
	prof       profiling.Options

	cfg       *config.Config
	logger    *slog.Logger
	logToFile bool
	session   *profiling.Session
	cleanups  []func()
}

// NewRootCmd creates the root command for the cjkfts CLI.
func NewRootCmd() *cobra.Command {
	cmd, _ := newRoot()
	return cmd
}

func newRoot() (*cobra.Command, *app) {
	a := &app{}

	cmd := &cobra.Command{
		Use:   "cjkfts",
		Short: "Full-text search for Korean, Japanese and Chinese documents",
		Long: `cjkfts indexes documents with a morphological analyzer for one language
profile plus a character n-gram analyzer, so both whole words and arbitrary
substrings are searchable.

The index lives in a directory (--index, index.path in the config file, or
~/.local/share/cjkfts/index). Its language profile is fixed when it is created.

Exit status is 2 for invalid input, 3 when the index cannot be used as asked
(corrupt, other profile, missing dictionary) and 75 when another process holds
the index.`,
		Version:       version.Version,
		SilenceErrors: true,
		SilenceUsage:  true,
	}

	cmd.SetVersionTemplate("cjkfts version {{.Version}}\n")

	cmd.PersistentFlags().StringVarP(&a.configPath, "config", "c", "", "Config file (default $XDG_CONFIG_HOME/cjkfts/config.yaml)")
	cmd.PersistentFlags().StringVarP(&a.indexPath, "index", "i", "", "Index directory")
	cmd.PersistentFlags().StringVarP(&a.profile, "profile", "p", "", "Language profile: korean, japanese-ipadic, japanese-unidic, chinese")
	cmd.PersistentFlags().BoolVar(&a.debug, "debug", false, "Enable debug logging to ~/.cjkfts/logs/")

	cmd.PersistentFlags().StringVar(&a.prof.CPU, "cpuprofile", "", "Write CPU profile to file")
	cmd.PersistentFlags().StringVar(&a.prof.Heap, "memprofile", "", "Write memory profile to file")
	cmd.PersistentFlags().StringVar(&a.prof.Trace, "trace", "", "Write execution trace to file")

	cmd.PersistentPreRunE = a.start
	cmd.PersistentPostRunE = func(*cobra.Command, []string) error { return a.stop() }

	cmd.AddCommand(newSeedCmd(a))
	cmd.AddCommand(newSearchCmd(a))
	cmd.AddCommand(newAddCmd(a))
	cmd.AddCommand(newAddBatchCmd(a))
	cmd.AddCommand(newUpdateCmd(a))
	cmd.AddCommand(newDeleteCmd(a))
	cmd.AddCommand(newClearCmd(a))
	cmd.AddCommand(newCountCmd(a))
	cmd.AddCommand(newInfoCmd(a))
	cmd.AddCommand(newDictsCmd(a))
	cmd.AddCommand(newConfigCmd(a))
	cmd.AddCommand(newLogsCmd(a))
	cmd.AddCommand(newVersionCmd())

	return cmd, a
}

// Exit statuses reported by ExitCode.
const (
	ExitError     = 1
	ExitInvalid   = 2  // bad configuration, profile, query or input
	ExitUnusable  = 3  // corrupt index, profile mismatch, missing dictionary
	ExitTransient = 75 // index locked by another process; retry later
)

// Execute runs the root command and prints any error. Profiles and log
// files are flushed even when the command fails.
func Execute() error {
	root, a := newRoot()
	return execute(root, a, os.Stderr)
}

func execute(root *cobra.Command, a *app, stderr io.Writer) error {
	cmd, err := root.ExecuteC()
	if err != nil && a.logToFile && a.logger != nil {
		attrs := append([]slog.Attr{slog.String("command", cmd.CommandPath())}, cerrors.LogAttrs(err)...)
		a.logger.LogAttrs(context.Background(), slog.LevelError, "command_failed", attrs...)
	}
	if serr := a.stop(); err == nil {
		err = serr
	}
	if err != nil {
		reportError(stderr, cmd, err)
	}
	return err
}

// reportError prints err as JSON when the command was asked for JSON output.
func reportError(w io.Writer, cmd *cobra.Command, err error) {
	if cmd != nil {
		if f := cmd.Flags().Lookup("format"); f != nil && f.Value.String() == string(output.FormatJSON) {
			if data, jerr := cerrors.FormatJSON(err); jerr == nil {
				_, _ = fmt.Fprintln(w, string(data))
				return
			}
		}
	}
	_, _ = fmt.Fprint(w, cerrors.FormatForCLI(err))
}

// ExitCode maps a command error to the process exit status.
func ExitCode(err error) int {
	switch {
	case err == nil:
		return 0
	case cerrors.IsRetryable(err):
		return ExitTransient
	case cerrors.IsFatal(err):
		return ExitUnusable
	}
	switch cerrors.GetCategory(err) {
	case cerrors.CategoryConfig, cerrors.CategoryValidation:
		return ExitInvalid
	}
	return ExitError
}

// start loads configuration, applies flag overrides and starts logging and
// profiling.
func (a *app) start(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load(a.configPath)
	if err != nil {
		if cmd.Annotations[configOptional] == "" {
			return err
		}
		cfg = config.NewConfig()
	}
	a.cfg = cfg

	if a.indexPath != "" {
		cfg.Index.Path = a.indexPath
	}
	if a.profile != "" {
		p, err := engine.ParseProfile(a.profile)
		if err != nil {
			return err
		}
		cfg.Index.Profile = p
	}

	if err := a.setupLogging(cmd); err != nil {
		return err
	}

	if a.prof.Enabled() {
		s, err := profiling.Start(a.prof)
		if err != nil {
			return err
		}
		a.session = s
	}

	a.logger.Debug("command_started",
		slog.String("command", cmd.CommandPath()),
		slog.String("version", version.Version))
	return nil
}

// setupLogging writes JSON logs to a rotating file with --debug or when
// logging.file is set. Otherwise only warnings and errors reach stderr.
func (a *app) setupLogging(cmd *cobra.Command) error {
	if !a.debug && a.cfg.Logging.File == "" {
		a.logger = logging.NewLogger(cmd.ErrOrStderr(), "warn")
		return nil
	}

	logCfg := logging.DefaultConfig()
	logCfg.Level = a.cfg.Logging.Level
	if a.debug {
		logCfg = logging.DebugConfig()
	}
	if a.cfg.Logging.File != "" {
		logCfg.FilePath = a.cfg.Logging.File
	}

	logger, cleanup, err := logging.Setup(logCfg)
	if err != nil {
		return fmt.Errorf("failed to setup logging: %w", err)
	}
	a.logger = logger
	a.logToFile = true
	a.cleanups = append(a.cleanups, cleanup)
	return nil
}

func (a *app) stop() error {
	var err error
	if a.session != nil {
		err = a.session.Stop()
		a.session = nil
	}
	for i := len(a.cleanups) - 1; i >= 0; i-- {
		a.cleanups[i]()
	}
	a.cleanups = nil
	return err
}

// resolvedIndexPath is --index, then index.path, then the per-user default.
func (a *app) resolvedIndexPath() string {
	if a.cfg.Index.Path != "" {
		return a.cfg.Index.Path
	}
	return config.GetDefaultIndexPath()
}

func (a *app) newEngine() *engine.Engine {
	return engine.New(
		engine.WithLogger(a.logger),
		engine.WithCacheSize(a.cfg.Search.CacheSize),
		engine.WithWriterBudget(a.cfg.WriterBudgetBytes()),
	)
}

// openEngine opens the configured index directory. Callers must Close the
// returned engine.
func (a *app) openEngine(ctx context.Context) (*engine.Engine, error) {
	e := a.newEngine()
	if err := e.InitializeAt(ctx, a.cfg.Index.Profile, a.resolvedIndexPath()); err != nil {
		return nil, err
	}
	return e, nil
}

// withEngine runs fn against the configured index and closes it afterwards.
func (a *app) withEngine(ctx context.Context, fn func(*engine.Engine) error) error {
	e, err := a.openEngine(ctx)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := e.Close(); cerr != nil {
			a.logger.Warn("index_close_failed", slog.String("error", cerr.Error()))
		}
	}()
	return fn(e)
}
