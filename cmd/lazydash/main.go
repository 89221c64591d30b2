package main

import (
	"fmt"
	"log"
	"os"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/lazydash/lazydash/internal/api"
	"github.com/lazydash/lazydash/internal/app"
	"github.com/lazydash/lazydash/internal/config"
	"github.com/lazydash/lazydash/internal/history"
	"github.com/lazydash/lazydash/internal/savedfilters"
	"github.com/lazydash/lazydash/internal/session"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Printf("Warning: Could not load config: %v (using defaults)\n", err)
		cfg = config.GetDefaults()
	}

	logger := newLogger(cfg)
	defer func() { _ = logger.Sync() }()

	configDir, err := config.GetConfigPath()
	if err != nil {
		logger.Warn("user config directory unavailable", zap.Error(err))
		configDir = ""
	} else {
		_ = os.MkdirAll(configDir, 0755)
	}
	if cfg.Data.ExportDir == "" && configDir != "" {
		cfg.Data.ExportDir = filepath.Join(configDir, "exports")
	}

	var sessionManager *session.Manager
	if configDir != "" {
		sessionManager, err = session.NewManager(configDir, cfg.Scope.Tenant, cfg.Scope.Product)
		if err != nil {
			logger.Warn("session persistence unavailable", zap.Error(err))
			sessionManager = nil
		}
	}

	var historyStore *history.Store
	if cfg.History.Enabled && configDir != "" {
		dbPath := filepath.Join(configDir, "history.db")
		if !cfg.History.Persist {
			dbPath = ":memory:"
		}
		historyStore, err = history.NewStore(dbPath)
		if err != nil {
			logger.Warn("visit history unavailable", zap.Error(err))
			historyStore = nil
		} else {
			defer func() { _ = historyStore.Close() }()
		}
	}

	var saved *savedfilters.Manager
	if configDir != "" {
		saved, err = savedfilters.NewManager(configDir)
		if err != nil {
			logger.Warn("saved filters unavailable", zap.Error(err))
			saved = nil
		}
	}

	clientOpts := []api.Option{api.WithLogger(logger)}
	if sessionManager != nil {
		clientOpts = append(clientOpts, api.WithToken(sessionManager.Token))
	}
	client := api.NewClient(cfg.Backend.BaseURL, clientOpts...)

	application := app.New(app.Deps{
		Config:  cfg,
		Client:  client,
		Session: sessionManager,
		History: historyStore,
		Saved:   saved,
		Logger:  logger,
	})

	opts := []tea.ProgramOption{tea.WithAltScreen()}
	if cfg.UI.MouseEnabled {
		opts = append(opts, tea.WithMouseCellMotion())
	}

	p := tea.NewProgram(application, opts...)
	if _, err := p.Run(); err != nil {
		fmt.Printf("Error running program: %v\n", err)
		os.Exit(1)
	}
}

// newLogger writes diagnostics to the configured log file. The terminal is
// owned by the TUI, so stderr is not an option.
func newLogger(cfg *config.Config) *zap.Logger {
	if !cfg.Logging.Enabled {
		return zap.NewNop()
	}
	path, err := cfg.LogFilePath()
	if err != nil {
		return zap.NewNop()
	}
	_ = os.MkdirAll(filepath.Dir(path), 0755)

	level := zapcore.InfoLevel
	if err := level.Set(cfg.Logging.Level); err != nil {
		level = zapcore.InfoLevel
	}

	zcfg := zap.NewProductionConfig()
	zcfg.Level = zap.NewAtomicLevelAt(level)
	zcfg.OutputPaths = []string{path}
	zcfg.ErrorOutputPaths = []string{path}

	logger, err := zcfg.Build()
	if err != nil {
		return zap.NewNop()
	}
	return logger
}
