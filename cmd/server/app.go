package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"shiptrack/config"
	"shiptrack/database"
	"shiptrack/pkg/logger"
	"shiptrack/pkg/project/repository"
	"shiptrack/pkg/project/repositoryImp"
	svc "shiptrack/pkg/project/service"
	"shiptrack/pkg/project/serviceImp"
)

// app is everything a command needs after config, logging and the store
// are up.
type app struct {
	cfg  config.AppConfig
	log  *zap.Logger
	db   *gorm.DB
	repo repository.Repository
	svc  svc.Service
}

func bootstrap(cmd *cobra.Command) (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	if p, _ := cmd.Flags().GetString("db"); p != "" {
		cfg.DBPath = p
	}
	log, err := logger.Init(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		return nil, err
	}
	db, err := database.OpenSQLite(cfg.DBPath, log.Named("gorm"))
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", cfg.DBPath, err)
	}

	loc := cfg.Location()
	now := func() time.Time { return time.Now().In(loc) }
	repo := repositoryImp.New(db)
	return &app{
		cfg:  cfg,
		log:  log,
		db:   db,
		repo: repo,
		svc:  serviceImp.New(repo, now, log.Named("project")),
	}, nil
}

func (a *app) close() {
	if sqlDB, err := a.db.DB(); err == nil {
		_ = sqlDB.Close()
	}
}
