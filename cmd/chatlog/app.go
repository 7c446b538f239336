package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/Zuo-Peng/chatlog-export/internal/config"
	"github.com/Zuo-Peng/chatlog-export/internal/logging"
	"github.com/Zuo-Peng/chatlog-export/internal/store"
)

type globalFlags struct {
	configPath string
	logLevel   string
}

// app is what every command needs: validated config, the zone log days are
// read in, and the logger.
type app struct {
	cfg      *config.Config
	loc      *time.Location
	logger   *slog.Logger
	closeLog func() error
}

func setup(gf *globalFlags) (*app, error) {
	cfg, err := config.Load(gf.configPath)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if gf.logLevel != "" {
		cfg.LogLevel = gf.logLevel
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	loc, err := cfg.Location()
	if err != nil {
		return nil, err
	}

	logger, closeLog, err := logging.New(os.Stderr, cfg.LogLevel, cfg.LogFile)
	if err != nil {
		return nil, err
	}
	slog.SetDefault(logger)

	return &app{cfg: cfg, loc: loc, logger: logger, closeLog: closeLog}, nil
}

func (a *app) close() {
	if err := a.closeLog(); err != nil {
		fmt.Fprintf(os.Stderr, "close log file: %v\n", err)
	}
}

func (a *app) openStore(ctx context.Context) (*store.DB, error) {
	opts := a.cfg.StoreOptions(a.loc)
	db, err := store.Open(ctx, opts)
	if err != nil {
		a.logger.Error("failed to connect to database", "driver", opts.Driver, "dsn", opts.Redacted(), "error", err)
		return nil, err
	}
	a.logger.Debug("database connected", "driver", db.Driver(), "dsn", opts.Redacted())
	return db, nil
}
