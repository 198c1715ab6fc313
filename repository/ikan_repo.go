package repository

import (
	"context"
	"errors"
	"strings"
	"time"

	"tokoikan/models"

	"gorm.io/gorm"
)

const newestFirst = "created_at DESC, id DESC"

type IkanRepo struct {
	db *gorm.DB
}

func NewIkanRepo(db *gorm.DB) *IkanRepo {
	return &IkanRepo{db: db}
}

func (r *IkanRepo) List(ctx context.Context) ([]models.Ikan, error) {
	var items []models.Ikan
	if err := r.db.WithContext(ctx).Order(newestFirst).Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (r *IkanRepo) ListByStatus(ctx context.Context, status string) ([]models.Ikan, error) {
	var items []models.Ikan
	err := r.db.WithContext(ctx).Where("status = ?", status).Order(newestFirst).Find(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}

// Search matches term as a case-insensitive substring of nama, deskripsi or
// the textual form of harga.
func (r *IkanRepo) Search(ctx context.Context, term string) ([]models.Ikan, error) {
	term = strings.TrimSpace(term)
	if term == "" {
		return nil, ErrEmptySearchTerm
	}
	pattern := "%" + escapeLike(term) + "%"
	var items []models.Ikan
	err := r.db.WithContext(ctx).
		Where("nama ILIKE ? OR deskripsi ILIKE ? OR CAST(harga AS TEXT) ILIKE ?", pattern, pattern, pattern).
		Order(newestFirst).
		Find(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}

func (r *IkanRepo) Get(ctx context.Context, id uint) (*models.Ikan, error) {
	var ikan models.Ikan
	err := r.db.WithContext(ctx).First(&ikan, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrIkanNotFound
	}
	if err != nil {
		return nil, err
	}
	return &ikan, nil
}

func (r *IkanRepo) Create(ctx context.Context, ikan *models.Ikan) error {
	return r.db.WithContext(ctx).Create(ikan).Error
}

// Update writes every mutable column of ikan, including a nil gambar.
func (r *IkanRepo) Update(ctx context.Context, ikan *models.Ikan) error {
	ikan.UpdatedAt = time.Now()
	tx := r.db.WithContext(ctx).
		Model(&models.Ikan{ID: ikan.ID}).
		Select("nama", "harga", "satuan_harga", "stok", "status", "deskripsi", "gambar", "updated_at").
		Updates(ikan)
	if tx.Error != nil {
		return tx.Error
	}
	if tx.RowsAffected == 0 {
		return ErrIkanNotFound
	}
	return nil
}

func (r *IkanRepo) Delete(ctx context.Context, id uint) error {
	tx := r.db.WithContext(ctx).Delete(&models.Ikan{}, id)
	if tx.Error != nil {
		return tx.Error
	}
	if tx.RowsAffected == 0 {
		return ErrIkanNotFound
	}
	return nil
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}
