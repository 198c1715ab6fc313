package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"tokoikan/pkg/imgstore"
	"tokoikan/pkg/logging"
	"tokoikan/repository"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

func main() {
	// .env never overrides variables that are already set
	_ = godotenv.Load()

	cfg, err := LoadConfig()
	if err != nil {
		logrus.Fatalf("config: %s", err)
	}
	log := logging.New(logging.Params{
		Level:       cfg.LogLevel,
		FormatJSON:  cfg.LogJSON,
		FileName:    cfg.LogFile,
		LogToStdout: cfg.LogToStdout,
	})
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := openDB(cfg, log)
	if err != nil {
		log.Fatal(err)
	}

	// `tokoikan migrate` runs migrations and seeding, then exits.
	if len(os.Args) > 1 && os.Args[1] == "migrate" {
		cfg.AutoMigrate = true
		if err := initDB(ctx, db, cfg, log); err != nil {
			log.Fatal(err)
		}
		fmt.Println("migration and seeding completed")
		return
	}
	if err := initDB(ctx, db, cfg, log); err != nil {
		log.Fatal(err)
	}

	images, err := imgstore.New(cfg.UploadBase, cfg.MaxImageWidth, log)
	if err != nil {
		log.Fatal(err)
	}

	s := &server{
		cfg:      cfg,
		log:      log,
		admins:   repository.NewAdminRepo(db),
		ikan:     repository.NewIkanRepo(db),
		settings: repository.NewSettingRepo(db),
		images:   images,
		tokens:   NewTokenIssuer(cfg.JWTSecret, cfg.TokenTTL),
		metrics:  NewMetrics("tokoikan"),
	}

	if watcher, err := images.NewWatcher(); err != nil {
		log.Warnf("upload watcher disabled: %s", err)
	} else {
		go func() {
			_ = watcher.Run(ctx, func(publicPath string) {
				s.metrics.CounterExternalRemove.Inc()
				log.WithField("path", publicPath).Warn("uploaded file removed outside the api")
			})
		}()
	}

	httpServer := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           newRouter(s),
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		log.Infof("listening on %s (env=%s)", httpServer.Addr, cfg.Env)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("http server: %s", err)
		}
	}()

	<-ctx.Done()
	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Errorf("http shutdown: %s", err)
	}
	if sqlDB, err := db.DB(); err == nil {
		_ = sqlDB.Close()
	}
}
