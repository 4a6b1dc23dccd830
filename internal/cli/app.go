package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/roach88/streaks/internal/config"
	"github.com/roach88/streaks/internal/engine"
	"github.com/roach88/streaks/internal/habit"
	"github.com/roach88/streaks/internal/store"
)

// App is one CLI invocation's engine together with the storage and
// telemetry it was built from.
type App struct {
	Engine *engine.Engine
	Repo   *store.HabitRepository
	Config *config.Config
	Logger *zap.Logger
	Clock  engine.Clock

	kv        store.KV
	debounced *store.DebouncedRepository
	registry  *prometheus.Registry

	mu       sync.Mutex
	notices  []string
	warnings []error
}

// loadConfig reads the config file and applies the global flag overrides.
func loadConfig(opts *RootOptions) (*config.Config, error) {
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return nil, err
	}
	if opts.Backend != "" {
		cfg.Backend = opts.Backend
	}
	if opts.Database != "" {
		cfg.Database = opts.Database
	}
	if opts.MetricsFile != "" {
		cfg.MetricsFile = opts.MetricsFile
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// newLogger writes human-readable logs to w. --verbose forces debug level.
func newLogger(w io.Writer, level string, verbose bool) (*zap.Logger, error) {
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", level, err)
	}
	if verbose {
		lvl = zapcore.DebugLevel
	}
	encCfg := zap.NewDevelopmentEncoderConfig()
	encCfg.TimeKey = ""
	core := zapcore.NewCore(zapcore.NewConsoleEncoder(encCfg), zapcore.AddSync(w), lvl)
	return zap.New(core), nil
}

// openKV opens the configured backend.
func openKV(ctx context.Context, cfg *config.Config) (store.KV, error) {
	switch cfg.Backend {
	case config.BackendSQLite:
		if dir := filepath.Dir(cfg.Database); dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return nil, fmt.Errorf("failed to create database directory: %w", err)
			}
		}
		return store.Open(cfg.Database)
	case config.BackendRedis:
		return store.OpenRedis(ctx, store.RedisOptions{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
			Prefix:   cfg.Redis.Prefix,
		})
	case config.BackendMemory:
		return store.NewMemoryKV(), nil
	default:
		return nil, fmt.Errorf("unknown backend %q", cfg.Backend)
	}
}

// openApp builds the engine for one command. The caller must Close it.
func openApp(ctx context.Context, opts *RootOptions, errOut io.Writer) (*App, error) {
	cfg, err := loadConfig(opts)
	if err != nil {
		return nil, WrapExitError(ExitCommandError, ErrCodeConfig, err)
	}

	logger, err := newLogger(errOut, cfg.LogLevel, opts.Verbose)
	if err != nil {
		return nil, WrapExitError(ExitCommandError, ErrCodeConfig, err)
	}

	kv, err := openKV(ctx, cfg)
	if err != nil {
		return nil, WrapExitError(ExitCommandError, ErrCodeStore, err)
	}
	fields := []zap.Field{zap.String("backend", cfg.Backend)}
	if st, ok := kv.(*store.Store); ok {
		if rev, err := st.Revision(ctx, store.KeyHabits); err == nil {
			fields = append(fields, zap.Int64("habits_revision", rev))
		}
	}
	logger.Debug("store opened", fields...)

	app := &App{
		Config:   cfg,
		Logger:   logger,
		Clock:    opts.Clock,
		kv:       kv,
		registry: prometheus.NewRegistry(),
	}
	if app.Clock == nil {
		app.Clock = engine.SystemClock{}
	}
	app.Repo = store.NewHabitRepository(kv, logger)

	var repo engine.Repository = app.Repo
	if d := cfg.Debounce(); d > 0 {
		app.debounced = store.NewDebouncedRepository(app.Repo, d, logger, app.addWarning)
		repo = app.debounced
	}

	engOpts := []engine.Option{
		engine.WithClock(app.Clock),
		engine.WithLogger(logger),
		engine.WithMetrics(engine.NewMetrics(app.registry)),
		engine.WithMilestoneLedger(app.Repo),
		engine.WithMilestoneHandler(app.addNotice),
		engine.WithWarningHandler(app.addWarning),
		engine.WithResetClearsCongratulated(cfg.ResetClearsCongratulated),
	}
	if opts.IDGenerator != nil {
		engOpts = append(engOpts, engine.WithIDGenerator(opts.IDGenerator))
	}

	app.Engine, err = engine.New(ctx, repo, engOpts...)
	if err != nil {
		kv.Close()
		return nil, WrapExitError(ExitCommandError, ErrCodeStore, err)
	}

	if dark, err := app.Repo.DarkMode(ctx); err == nil {
		applyTheme(dark)
	}

	if opts.Week != "" {
		date, err := parseDate(opts.Week, app.Clock.Now().Location())
		if err != nil {
			app.Close(ctx)
			return nil, WrapExitError(ExitCommandError, ErrCodeUsage, err)
		}
		app.Engine.SelectWeek(ctx, date)
	}
	return app, nil
}

func (a *App) addNotice(msg string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.notices = append(a.notices, msg)
}

func (a *App) addWarning(err error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.warnings = append(a.warnings, err)
}

// Milestone returns the most recent milestone notice, or "".
func (a *App) Milestone() string {
	a.mu.Lock()
	defer a.mu.Unlock()
	if len(a.notices) == 0 {
		return ""
	}
	return a.notices[len(a.notices)-1]
}

// Warnings returns the persistence warnings collected so far.
func (a *App) Warnings() []error {
	a.mu.Lock()
	defer a.mu.Unlock()
	return append([]error(nil), a.warnings...)
}

// Close flushes pending writes, writes the metrics file and closes the
// store. Flush failures are recorded as warnings.
func (a *App) Close(ctx context.Context) error {
	if a.debounced != nil {
		if err := a.debounced.Flush(ctx); err != nil {
			a.Logger.Warn("final flush failed", zap.Error(err))
			a.addWarning(&engine.PersistenceWarning{Op: "flush", Err: err})
		}
	}

	var firstErr error
	if path := a.Config.MetricsFile; path != "" {
		if err := prometheus.WriteToTextfile(path, a.registry); err != nil {
			firstErr = fmt.Errorf("failed to write metrics: %w", err)
		}
	}
	if err := a.kv.Close(); err != nil && firstErr == nil {
		firstErr = fmt.Errorf("failed to close store: %w", err)
	}
	_ = a.Logger.Sync()
	return firstErr
}

// parseDate accepts YYYY-MM-DD and returns noon of that day in loc.
func parseDate(v string, loc *time.Location) (time.Time, error) {
	d, err := time.ParseInLocation(habit.WeekKeyLayout, v, loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: want YYYY-MM-DD", v)
	}
	return d.Add(12 * time.Hour), nil
}

func newFormatter(cmd *cobra.Command, opts *RootOptions) *OutputFormatter {
	return &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}
}

// withApp opens the app, runs fn, closes the app and then prints the
// milestone notice (text mode) and any persistence warnings.
func withApp(cmd *cobra.Command, opts *RootOptions, fn func(ctx context.Context, app *App, f *OutputFormatter) error) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	f := newFormatter(cmd, opts)

	app, err := openApp(ctx, opts, cmd.ErrOrStderr())
	if err != nil {
		var ee *ExitError
		if errors.As(err, &ee) && ee.Err != nil {
			return f.Fail(ee.Code, ee.Message, ee.Err)
		}
		return f.Fail(ExitCommandError, ErrCodeGeneric, err)
	}

	runErr := fn(ctx, app, f)
	closeErr := app.Close(ctx)

	if f.Format != "json" {
		if msg := app.Milestone(); msg != "" && runErr == nil {
			fmt.Fprintln(f.Writer)
			fmt.Fprintln(f.Writer, renderMilestone(msg))
		}
	}
	for _, w := range app.Warnings() {
		fmt.Fprintf(f.GetErrWriter(), "warning: %v\n", w)
	}

	if runErr != nil {
		return runErr
	}
	if closeErr != nil {
		return f.Fail(ExitCommandError, ErrCodeStore, closeErr)
	}
	return nil
}
