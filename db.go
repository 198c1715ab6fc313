package main

import (
	"context"
	"errors"
	"fmt"
	"time"

	"tokoikan/models"
	"tokoikan/pkg/password"
	"tokoikan/repository"

	"github.com/sirupsen/logrus"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// openDB connects to postgres with SQL logging routed through log.
func openDB(cfg Config, log logrus.FieldLogger) (*gorm.DB, error) {
	gormLog := logger.New(log, logger.Config{
		SlowThreshold:             200 * time.Millisecond,
		LogLevel:                  logger.Warn,
		IgnoreRecordNotFoundError: true,
	})
	db, err := gorm.Open(postgres.Open(cfg.DSN), &gorm.Config{Logger: gormLog})
	if err != nil {
		return nil, fmt.Errorf("connect postgres: %w", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("get sql.DB: %w", err)
	}
	sqlDB.SetMaxOpenConns(10)
	sqlDB.SetMaxIdleConns(5)
	sqlDB.SetConnMaxLifetime(30 * time.Minute)
	return db, nil
}

// initDB migrates (unless DB_AUTO_MIGRATE is off) and seeds the default
// admin and website settings. Seeding never overwrites existing rows.
func initDB(ctx context.Context, db *gorm.DB, cfg Config, log logrus.FieldLogger) error {
	if cfg.AutoMigrate {
		if err := repository.Migrate(db); err != nil {
			return err
		}
	}
	if err := seedAdmin(ctx, repository.NewAdminRepo(db), cfg, log); err != nil {
		return fmt.Errorf("seed admin: %w", err)
	}
	added, err := repository.NewSettingRepo(db).SeedDefaults(ctx, models.DefaultWebsiteSettings)
	if err != nil {
		return fmt.Errorf("seed settings: %w", err)
	}
	if added > 0 {
		log.Infof("seeded %d default website settings", added)
	}
	return nil
}

func seedAdmin(ctx context.Context, admins *repository.AdminRepo, cfg Config, log logrus.FieldLogger) error {
	_, err := admins.FindByEmail(ctx, cfg.SeedAdminEmail)
	if err == nil {
		return nil
	}
	if !errors.Is(err, repository.ErrAdminNotFound) {
		return err
	}
	if cfg.SeedAdminPassword == "" {
		log.Warnf("no admin %s and SEED_ADMIN_PASSWORD is empty, skipping admin seed", cfg.SeedAdminEmail)
		return nil
	}
	hash, err := password.Hash(cfg.SeedAdminPassword)
	if err != nil {
		return err
	}
	admin := &models.Admin{
		Email:          cfg.SeedAdminEmail,
		HashedPassword: hash,
		Nama:           "Administrator",
		Status:         models.AdminStatusAktif,
	}
	if err := admins.Create(ctx, admin); err != nil && !errors.Is(err, repository.ErrAdminExists) {
		return err
	}
	log.Infof("seeded admin user: email=%s", admin.Email)
	return nil
}
