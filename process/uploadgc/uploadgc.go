// Package uploadgc finds uploaded files that no product or setting points
// at any more and removes them.
package uploadgc

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"tokoikan/models"
	"tokoikan/pkg/imgstore"

	"gorm.io/gorm"
)

// Referenced returns the file names (relative to the upload dir) still used
// by ikan.gambar or the site_logo setting.
func Referenced(ctx context.Context, db *gorm.DB) (map[string]bool, error) {
	var paths []string
	if err := db.WithContext(ctx).Model(&models.Ikan{}).
		Where("gambar IS NOT NULL AND gambar <> ''").
		Pluck("gambar", &paths).Error; err != nil {
		return nil, fmt.Errorf("load product images: %w", err)
	}
	var logos []string
	if err := db.WithContext(ctx).Model(&models.Setting{}).
		Where("setting_key = ?", models.SettingKeyLogo).
		Pluck("setting_value", &logos).Error; err != nil {
		return nil, fmt.Errorf("load logo setting: %w", err)
	}

	refs := make(map[string]bool, len(paths)+len(logos))
	for _, p := range append(paths, logos...) {
		if name, ok := strings.CutPrefix(p, imgstore.PublicPrefix+"/"); ok && name != "" {
			refs[name] = true
		}
	}
	return refs, nil
}

// Orphans lists regular files in baseDir that are not referenced and are
// older than minAge, so uploads still being attached to a record are kept.
func Orphans(baseDir string, refs map[string]bool, minAge time.Duration, now time.Time) ([]string, error) {
	entries, err := os.ReadDir(baseDir)
	if err != nil {
		return nil, fmt.Errorf("read upload dir: %w", err)
	}
	var out []string
	for _, e := range entries {
		if !e.Type().IsRegular() || refs[e.Name()] {
			continue
		}
		info, err := e.Info()
		if err != nil {
			return nil, err
		}
		if now.Sub(info.ModTime()) < minAge {
			continue
		}
		out = append(out, e.Name())
	}
	sort.Strings(out)
	return out, nil
}

// Remove deletes the named files through the store and returns how many
// were removed.
func Remove(store *imgstore.Store, names []string) (int, error) {
	removed := 0
	for _, name := range names {
		if err := store.Remove(imgstore.PublicPrefix + "/" + name); err != nil {
			return removed, fmt.Errorf("remove %s: %w", filepath.Join(store.BaseDir(), name), err)
		}
		removed++
	}
	return removed, nil
}
