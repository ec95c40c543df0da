package main

import (
	"context"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/cartshield/cartshield/internal/config"
	"github.com/cartshield/cartshield/internal/database"
	"github.com/cartshield/cartshield/internal/logger"
	"github.com/cartshield/cartshield/internal/server"
	"github.com/cartshield/cartshield/internal/services"
	"github.com/cartshield/cartshield/internal/version"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logger.Log().WithError(err).Fatal("load config")
	}

	logDir := filepath.Join(filepath.Dir(cfg.DatabasePath), "logs")
	_ = os.MkdirAll(logDir, 0o755)
	rotator := &lumberjack.Logger{
		Filename:   filepath.Join(logDir, "cartshield.log"),
		MaxSize:    10, // megabytes
		MaxBackups: 3,
		MaxAge:     28, // days
		Compress:   true,
	}
	logger.Init(cfg.Environment == "development", io.MultiWriter(os.Stdout, rotator))

	logger.WithFields(logrus.Fields{"version": version.Full()}).
		Infof("starting %s", version.Name)

	db, err := database.Open(cfg.DatabasePath)
	if err != nil {
		logger.Log().WithError(err).Fatal("open database")
	}

	srv, err := server.New(db, cfg)
	if err != nil {
		logger.Log().WithError(err).Fatal("build server")
	}

	// Nightly sweep of aged fraud decisions.
	decisionService := services.NewDecisionService(db)
	scheduler := cron.New()
	_, err = scheduler.AddFunc("0 3 * * *", func() {
		deleted, err := decisionService.PurgeOlderThan(cfg.DecisionRetentionDays)
		if err != nil {
			logger.Log().WithError(err).Error("fraud decision retention sweep failed")
			return
		}
		logger.WithFields(logrus.Fields{"deleted": deleted}).
			Info("fraud decision retention sweep completed")
	})
	if err != nil {
		logger.Log().WithError(err).Fatal("schedule retention sweep")
	}
	scheduler.Start()
	defer scheduler.Stop()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger.WithFields(logrus.Fields{"port": cfg.HTTPPort}).Info("listening")
	if err := srv.Run(ctx); err != nil {
		logger.Log().WithError(err).Fatal("server error")
	}
}
