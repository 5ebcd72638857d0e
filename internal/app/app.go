package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/osfs"
	"github.com/google/uuid"

	"github.com/mantisos/aios/internal/config"
	"github.com/mantisos/aios/internal/ctxlog"
	"github.com/mantisos/aios/internal/hal"
	"github.com/mantisos/aios/internal/ledger"
	"github.com/mantisos/aios/internal/shell"
)

// App encapsulates the application's dependencies, configuration, and lifecycle.
type App struct {
	outW      io.Writer
	logger    *slog.Logger
	sessionID string
	config    *Config
	fsys      billy.Filesystem
	registry  *ledger.Registry
	hal       *hal.Locator
	shell     *shell.Shell

	// confirm answers destructive-operation prompts. The interactive loop
	// swaps in a readline-backed prompt; until then every prompt is denied.
	confirm func(prompt string) bool
}

// NewApp is the constructor for the main application, working against the
// host filesystem. It returns a fully initialized App instance, including
// its own isolated logger, ledger registry, and HAL locator.
func NewApp(outW, logW io.Writer, appConfig *Config) *App {
	cwd, err := os.Getwd()
	if err != nil {
		// Without a working directory the shell cannot resolve paths.
		panic(fmt.Errorf("failed to determine working directory: %w", err))
	}
	return newApp(outW, logW, appConfig, osfs.New("/"), cwd)
}

func newApp(outW, logW io.Writer, appConfig *Config, fsys billy.Filesystem, workDir string) *App {
	// The config file may supply the log level and format, so it loads first,
	// under the bootstrap default logger; the real logger is built from the
	// resolved values.
	fileCfg, err := config.Load(context.Background(), appConfig.ConfigPath)
	if err != nil {
		// A failure to parse an existing config file is a fatal startup error.
		panic(fmt.Errorf("failed to load configuration: %w", err))
	}
	resolvePaths(appConfig, fileCfg)

	logger := newLogger(appConfig.LogLevel, appConfig.LogFormat, logW)
	ctx := ctxlog.WithLogger(context.Background(), logger)
	logger.Debug("Logger configured successfully.")
	logger.Debug("Configuration resolved.",
		"modules_path", appConfig.ModulesPath,
		"ledger_path", appConfig.LedgerPath)

	if err := fsys.MkdirAll(appConfig.ModulesPath, 0o755); err != nil {
		panic(fmt.Errorf("failed to create modules directory: %w", err))
	}

	// A ledger that exists but cannot be parsed means the integrity state is
	// unknown; refusing to start is the only safe response.
	reg, err := ledger.NewRegistry(fsys, appConfig.LedgerPath, appConfig.ModulesPath)
	if err != nil {
		panic(fmt.Errorf("failed to open integrity ledger: %w", err))
	}
	logger.Debug("Integrity ledger opened.", "path", appConfig.LedgerPath)

	locator, err := hal.New(ctx, fileCfg.Devices)
	if err != nil {
		panic(fmt.Errorf("failed to initialize HAL: %w", err))
	}
	logger.Debug("HAL services wired.")

	a := &App{
		outW:      outW,
		logger:    logger,
		sessionID: uuid.NewString(),
		config:    appConfig,
		fsys:      fsys,
		registry:  reg,
		hal:       locator,
		confirm:   func(string) bool { return false },
	}
	a.shell = shell.New(shell.Options{
		FS:       fsys,
		Out:      outW,
		WorkDir:  workDir,
		Registry: reg,
		HAL:      locator,
		Confirm:  func(prompt string) bool { return a.confirm(prompt) },
	})
	logger.Debug("Shell ready.", "session_id", a.sessionID)
	return a
}

// resolvePaths fills empty app config fields from the config file. Flags win
// over the file; the file wins over built-in defaults.
func resolvePaths(appConfig *Config, fileCfg *config.File) {
	if appConfig.ModulesPath == "" {
		appConfig.ModulesPath = fileCfg.ModulesPath
	}
	if appConfig.LedgerPath == "" {
		appConfig.LedgerPath = fileCfg.LedgerPath
	}
	if appConfig.HistoryFile == "" {
		appConfig.HistoryFile = fileCfg.HistoryFile
	}
	if fileCfg.Log != nil {
		if appConfig.LogLevel == "" {
			appConfig.LogLevel = fileCfg.Log.Level
		}
		if appConfig.LogFormat == "" {
			appConfig.LogFormat = fileCfg.Log.Format
		}
	}
}

// SessionID returns the unique identifier of this shell session.
func (a *App) SessionID() string {
	return a.sessionID
}

// Registry returns the application's ledger registry. This is primarily for
// testing.
func (a *App) Registry() *ledger.Registry {
	return a.registry
}
