package main

import (
	"context"
	"mime/multipart"

	"tokoikan/models"

	"github.com/sirupsen/logrus"
)

type adminStore interface {
	FindActiveByEmail(ctx context.Context, email string) (*models.Admin, error)
	FindByID(ctx context.Context, id uint) (*models.Admin, error)
}

type ikanStore interface {
	List(ctx context.Context) ([]models.Ikan, error)
	ListByStatus(ctx context.Context, status string) ([]models.Ikan, error)
	Search(ctx context.Context, term string) ([]models.Ikan, error)
	Get(ctx context.Context, id uint) (*models.Ikan, error)
	Create(ctx context.Context, ikan *models.Ikan) error
	Update(ctx context.Context, ikan *models.Ikan) error
	Delete(ctx context.Context, id uint) error
}

type settingStore interface {
	List(ctx context.Context) ([]models.Setting, error)
	Get(ctx context.Context, key string) (*models.Setting, error)
	Set(ctx context.Context, key, value string, description *string) (*models.Setting, bool, error)
	Delete(ctx context.Context, key string) error
	WebsiteSettings(ctx context.Context) (map[string]string, error)
	UpdateMultiple(ctx context.Context, fields map[string]string, logoPath string) error
	Reset(ctx context.Context, defaults []models.DefaultSetting) error
}

type imageStore interface {
	Save(fh *multipart.FileHeader, field string) (string, error)
	Remove(publicPath string) error
}

// server holds the dependencies shared by all handlers.
type server struct {
	cfg      Config
	log      logrus.FieldLogger
	admins   adminStore
	ikan     ikanStore
	settings settingStore
	images   imageStore
	tokens   *TokenIssuer
	metrics  *Metrics
}

// removeImage deletes an old image best-effort; failures are only logged.
func (s *server) removeImage(publicPath string) {
	if publicPath == "" {
		return
	}
	if err := s.images.Remove(publicPath); err != nil {
		s.log.WithField("path", publicPath).Warnf("failed to delete image: %s", err)
	}
}
