package main

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"github.com/noah-isme/idea-observation-api/pkg/config"
	"github.com/noah-isme/idea-observation-api/pkg/database"
	"github.com/noah-isme/idea-observation-api/pkg/logger"
)

// app holds the process-wide resources shared by every subcommand.
type app struct {
	cfg    *config.Config
	logger *zap.Logger
	db     *sqlx.DB
}

func bootstrap(ctx context.Context) (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	logr, err := logger.New(cfg)
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}

	db, err := database.NewPostgres(ctx, cfg.Database)
	if err != nil {
		_ = logr.Sync()
		return nil, fmt.Errorf("connect database: %w", err)
	}

	return &app{cfg: cfg, logger: logr, db: db}, nil
}

func (a *app) close() {
	if err := a.db.Close(); err != nil {
		a.logger.Warn("close database", zap.Error(err))
	}
	_ = a.logger.Sync()
}
