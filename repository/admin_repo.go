package repository

import (
	"context"
	"errors"
	"strings"

	"tokoikan/models"

	"gorm.io/gorm"
)

type AdminRepo struct {
	db *gorm.DB
}

func NewAdminRepo(db *gorm.DB) *AdminRepo {
	return &AdminRepo{db: db}
}

// FindActiveByEmail only returns aktif accounts; an inactive account is
// reported as ErrAdminNotFound.
func (r *AdminRepo) FindActiveByEmail(ctx context.Context, email string) (*models.Admin, error) {
	var admin models.Admin
	err := r.db.WithContext(ctx).
		Where("email = ? AND status = ?", normalizeEmail(email), models.AdminStatusAktif).
		First(&admin).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrAdminNotFound
	}
	if err != nil {
		return nil, err
	}
	return &admin, nil
}

func (r *AdminRepo) FindByID(ctx context.Context, id uint) (*models.Admin, error) {
	var admin models.Admin
	err := r.db.WithContext(ctx).First(&admin, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrAdminNotFound
	}
	if err != nil {
		return nil, err
	}
	return &admin, nil
}

func (r *AdminRepo) FindByEmail(ctx context.Context, email string) (*models.Admin, error) {
	var admin models.Admin
	err := r.db.WithContext(ctx).Where("email = ?", normalizeEmail(email)).First(&admin).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrAdminNotFound
	}
	if err != nil {
		return nil, err
	}
	return &admin, nil
}

func (r *AdminRepo) Create(ctx context.Context, admin *models.Admin) error {
	admin.Email = normalizeEmail(admin.Email)
	if admin.Status == "" {
		admin.Status = models.AdminStatusAktif
	}
	if err := r.db.WithContext(ctx).Create(admin).Error; err != nil {
		if isUniqueViolation(err) {
			return ErrAdminExists
		}
		return err
	}
	return nil
}

func (r *AdminRepo) UpdatePassword(ctx context.Context, id uint, hash []byte) error {
	tx := r.db.WithContext(ctx).Model(&models.Admin{}).Where("id = ?", id).Update("password", hash)
	if tx.Error != nil {
		return tx.Error
	}
	if tx.RowsAffected == 0 {
		return ErrAdminNotFound
	}
	return nil
}

func (r *AdminRepo) UpdateStatus(ctx context.Context, id uint, status string) error {
	tx := r.db.WithContext(ctx).Model(&models.Admin{}).Where("id = ?", id).Update("status", status)
	if tx.Error != nil {
		return tx.Error
	}
	if tx.RowsAffected == 0 {
		return ErrAdminNotFound
	}
	return nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
