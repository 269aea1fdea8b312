package app

import (
	"context"
	"errors"
	"io"
	"os"
	"sync/atomic"
	"time"

	"github.com/kumar10248/keyreplacer/internal/config"
	"github.com/kumar10248/keyreplacer/internal/event"
	"github.com/kumar10248/keyreplacer/internal/expand"
	"github.com/kumar10248/keyreplacer/internal/listener"
	"github.com/kumar10248/keyreplacer/internal/logging"
	"github.com/kumar10248/keyreplacer/internal/mapping"
	"github.com/kumar10248/keyreplacer/internal/platform"
)

// Application coordinates every component of the expander.
type Application struct {
	configDir string
	settings  config.Settings
	logger    *logging.Logger
	logFile   *os.File

	bus      *event.Bus
	store    *mapping.Store
	hook     platform.Hook
	synth    platform.Synthesizer
	executor *expand.Executor
	listener *listener.Listener
	watcher  *config.Watcher

	running atomic.Bool
	done    chan struct{}

	opts Options
}

// Options configures the application.
type Options struct {
	// ConfigDir overrides the per-user configuration directory.
	ConfigDir string

	// LogLevel overrides the configured log level when non-empty.
	LogLevel string

	// DisableFileLog keeps logs off disk regardless of settings.
	DisableFileLog bool

	// LogOutput overrides the console log writer. Defaults to stderr.
	LogOutput io.Writer

	// Hook overrides the platform hook. Used by tests.
	Hook platform.Hook

	// Synthesizer overrides the platform synthesizer. Used by tests.
	Synthesizer platform.Synthesizer

	// ShutdownTimeout bounds how long teardown waits for components
	// to stop. Defaults to 5 seconds.
	ShutdownTimeout time.Duration
}

// New builds an Application and initializes every component. Nothing
// listens until Run is called.
func New(opts Options) (*Application, error) {
	app := &Application{
		opts: opts,
		done: make(chan struct{}),
	}
	if err := app.bootstrap(); err != nil {
		app.closeLogFile()
		return nil, err
	}
	return app, nil
}

// bootstrap initializes components in dependency order.
func (app *Application) bootstrap() error {
	var err error

	// 1. Configuration directory and settings.
	app.configDir = app.opts.ConfigDir
	if app.configDir == "" {
		app.configDir, err = config.DefaultDir()
		if err != nil {
			return &InitError{Component: "config dir", Err: err}
		}
	}

	settingsPath := config.SettingsPath(app.configDir)
	app.settings, err = config.Load(settingsPath)
	if err != nil {
		return &InitError{Component: "settings", Err: err}
	}
	if _, statErr := os.Stat(settingsPath); os.IsNotExist(statErr) {
		if err := config.Save(settingsPath, app.settings); err != nil {
			return &InitError{Component: "settings", Err: err}
		}
	}

	// 2. Logger.
	if err := app.initLogger(); err != nil {
		return &InitError{Component: "logger", Err: err}
	}

	// 3. Event bus.
	app.bus = event.NewBus(event.DefaultConfig())
	if err := app.bus.Start(); err != nil {
		return &InitError{Component: "event bus", Err: err}
	}

	// 4. Mapping store.
	storeCfg := mapping.Config{
		Path:            config.MappingsPath(app.configDir),
		CaseSensitive:   app.settings.CaseSensitive,
		MaxShortcutLen:  app.settings.MaxKeyLength,
		MaxExpansionLen: app.settings.MaxValueLength,
		AutoBackup:      app.settings.AutoBackup,
		MaxBackups:      app.settings.MaxBackupFiles,
	}
	app.store = mapping.NewStore(storeCfg)
	if err := app.store.Load(); err != nil {
		return &InitError{Component: "mapping store", Err: err}
	}

	// 5. Platform hook and synthesizer.
	app.hook = app.opts.Hook
	if app.hook == nil {
		app.hook = platform.NewHook()
	}
	app.synth = app.opts.Synthesizer
	if app.synth == nil {
		app.synth, err = platform.NewSynthesizer(platform.Options{
			Injector: platform.Injector(app.settings.Injector),
			KeyDelay: time.Duration(app.settings.TypingDelayMS) * time.Millisecond,
		})
		if err != nil {
			return &InitError{Component: "synthesizer", Err: err}
		}
	}

	// 6. Expansion executor.
	app.executor, err = expand.NewExecutor(app.synth, nil, expand.Options{
		BackspaceDelay: time.Duration(app.settings.BackspaceDelayMS) * time.Millisecond,
		SettleDelay:    time.Duration(app.settings.ExpansionDelayMS) * time.Millisecond,
	})
	if err != nil {
		return &InitError{Component: "executor", Err: err}
	}

	// 7. Listener.
	app.listener, err = listener.New(listener.Config{
		Hook:     app.hook,
		Store:    app.store,
		Executor: app.executor,
		Bus:      app.bus,
		Logger:   app.logger,
	})
	if err != nil {
		return &InitError{Component: "listener", Err: err}
	}

	// 8. Config watcher. Failure here degrades to manual reloads.
	app.watcher, err = config.NewWatcher(app.configDir, config.WatcherConfig{
		OnSettings: app.reloadSettings,
		OnMappings: app.reloadMappings,
		Logger:     app.logger,
	})
	if err != nil {
		app.logger.Warn("config watching unavailable: %v", err)
		app.watcher = nil
	}

	return nil
}

func (app *Application) initLogger() error {
	level := app.settings.LogLevel
	if app.opts.LogLevel != "" {
		level = app.opts.LogLevel
	}

	console := app.opts.LogOutput
	if console == nil {
		console = os.Stderr
	}

	out := console
	if app.settings.FileLogging && !app.opts.DisableFileLog {
		path, err := config.DefaultLogPath()
		if err == nil {
			var f *os.File
			out, f, err = logging.OpenFile(path, console)
			if err == nil {
				app.logFile = f
			} else {
				out = console
			}
		}
	}

	app.logger = logging.New(logging.Config{
		Level:  logging.ParseLevel(level),
		Output: out,
		Prefix: "keyreplacer",
	})
	return nil
}

// Run installs the hook and blocks until ctx is done or Shutdown is
// called.
func (app *Application) Run(ctx context.Context) error {
	if !app.running.CompareAndSwap(false, true) {
		return ErrAlreadyRunning
	}

	if err := app.listener.Start(); err != nil {
		app.running.Store(false)
		return err
	}
	app.logger.Info("running, config dir %s", app.configDir)

	select {
	case <-ctx.Done():
	case <-app.done:
	}

	return app.teardown()
}

// Shutdown stops a running application. Safe to call from signal
// handlers.
func (app *Application) Shutdown() {
	if app.running.Load() {
		select {
		case <-app.done:
		default:
			close(app.done)
		}
	}
}

func (app *Application) teardown() error {
	defer app.running.Store(false)
	defer app.closeLogFile()

	if app.watcher != nil {
		_ = app.watcher.Close()
	}

	timeout := app.opts.ShutdownTimeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	err := app.listener.Stop(ctx)
	if stopErr := app.bus.Stop(ctx); err == nil {
		err = stopErr
	}
	if errors.Is(err, context.DeadlineExceeded) {
		err = ErrShutdownTimeout
	}
	app.logger.Info("shut down")
	return err
}

func (app *Application) closeLogFile() {
	if app.logFile != nil {
		_ = app.logFile.Close()
		app.logFile = nil
	}
}

// reloadSettings applies settings changes that can take effect live.
// Delays and injector changes need a restart.
func (app *Application) reloadSettings() {
	s, err := config.Load(config.SettingsPath(app.configDir))
	if err != nil {
		app.logger.Warn("settings reload failed: %v", err)
		return
	}
	if s.LogLevel != app.settings.LogLevel {
		app.logger.SetLevel(logging.ParseLevel(s.LogLevel))
	}
	app.settings = s
	app.logger.Info("settings reloaded")
}

func (app *Application) reloadMappings() {
	if err := app.store.Load(); err != nil {
		app.logger.Warn("mappings reload failed: %v", err)
		return
	}
	app.logger.Info("mappings reloaded, %d shortcuts", app.store.Current().Len())
}

// Settings returns the active settings.
func (app *Application) Settings() config.Settings {
	return app.settings
}

// Store returns the mapping store.
func (app *Application) Store() *mapping.Store {
	return app.store
}

// Listener returns the keystroke listener.
func (app *Application) Listener() *listener.Listener {
	return app.listener
}

// Bus returns the event bus.
func (app *Application) Bus() *event.Bus {
	return app.bus
}

// Logger returns the application logger.
func (app *Application) Logger() *logging.Logger {
	return app.logger
}

// ConfigDir returns the directory holding settings and mappings.
func (app *Application) ConfigDir() string {
	return app.configDir
}
