package repository

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"tokoikan/models"

	"gorm.io/gorm"
)

type SettingRepo struct {
	db *gorm.DB
}

func NewSettingRepo(db *gorm.DB) *SettingRepo {
	return &SettingRepo{db: db}
}

func (r *SettingRepo) List(ctx context.Context) ([]models.Setting, error) {
	var rows []models.Setting
	if err := r.db.WithContext(ctx).Order("setting_key ASC").Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *SettingRepo) Get(ctx context.Context, key string) (*models.Setting, error) {
	var s models.Setting
	err := r.db.WithContext(ctx).Where("setting_key = ?", key).First(&s).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrSettingNotFound
	}
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// Set upserts key. The returned flag is true when an existing row was updated
// and false when a new row was inserted. A nil description leaves the stored
// description unchanged on update. An insert that loses a race with another
// writer of the same key falls back to updating the winner's row.
func (r *SettingRepo) Set(ctx context.Context, key, value string, description *string) (*models.Setting, bool, error) {
	existing, err := r.Get(ctx, key)
	switch {
	case err == nil:
		return r.update(ctx, existing, value, description)
	case !errors.Is(err, ErrSettingNotFound):
		return nil, false, err
	}

	s := &models.Setting{SettingKey: key, SettingValue: value, Description: description}
	err = r.db.WithContext(ctx).Create(s).Error
	if err == nil {
		return s, false, nil
	}
	if !isUniqueViolation(err) {
		return nil, false, fmt.Errorf("insert setting %s: %w", key, err)
	}
	existing, err = r.Get(ctx, key)
	if err != nil {
		return nil, false, err
	}
	return r.update(ctx, existing, value, description)
}

func (r *SettingRepo) update(ctx context.Context, existing *models.Setting, value string, description *string) (*models.Setting, bool, error) {
	existing.SettingValue = value
	existing.UpdatedAt = time.Now()
	if description != nil {
		existing.Description = description
	}
	err := r.db.WithContext(ctx).
		Model(existing).
		Select("setting_value", "description", "updated_at").
		Updates(existing).Error
	if err != nil {
		return nil, false, fmt.Errorf("update setting %s: %w", existing.SettingKey, err)
	}
	return existing, true, nil
}

func (r *SettingRepo) Delete(ctx context.Context, key string) error {
	tx := r.db.WithContext(ctx).Where("setting_key = ?", key).Delete(&models.Setting{})
	if tx.Error != nil {
		return tx.Error
	}
	if tx.RowsAffected == 0 {
		return ErrSettingNotFound
	}
	return nil
}

// WebsiteSettings folds every row into one map keyed by setting_key. Missing
// keys are not defaulted here.
func (r *SettingRepo) WebsiteSettings(ctx context.Context) (map[string]string, error) {
	rows, err := r.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make(map[string]string, len(rows))
	for _, s := range rows {
		out[s.SettingKey] = s.SettingValue
	}
	return out, nil
}

// UpdateMultiple upserts each field one by one, then the logo key when
// logoPath is set. It is not transactional: a failure part way leaves the
// earlier keys written.
func (r *SettingRepo) UpdateMultiple(ctx context.Context, fields map[string]string, logoPath string) error {
	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		if _, _, err := r.Set(ctx, k, fields[k], nil); err != nil {
			return err
		}
	}
	if logoPath != "" {
		if _, _, err := r.Set(ctx, models.SettingKeyLogo, logoPath, nil); err != nil {
			return err
		}
	}
	return nil
}

// Reset writes every default back, descriptions included. Keys outside the
// defaults are kept.
func (r *SettingRepo) Reset(ctx context.Context, defaults []models.DefaultSetting) error {
	for _, d := range defaults {
		desc := d.Description
		if _, _, err := r.Set(ctx, d.Key, d.Value, &desc); err != nil {
			return err
		}
	}
	return nil
}

// SeedDefaults inserts defaults whose key does not exist yet and returns how
// many rows were added.
func (r *SettingRepo) SeedDefaults(ctx context.Context, defaults []models.DefaultSetting) (int, error) {
	added := 0
	for _, d := range defaults {
		_, err := r.Get(ctx, d.Key)
		if err == nil {
			continue
		}
		if !errors.Is(err, ErrSettingNotFound) {
			return added, err
		}
		desc := d.Description
		if _, _, err := r.Set(ctx, d.Key, d.Value, &desc); err != nil {
			return added, err
		}
		added++
	}
	return added, nil
}
