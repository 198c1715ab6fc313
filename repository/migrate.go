package repository

import (
	"fmt"

	"tokoikan/models"

	"gorm.io/gorm"
)

// Migrate creates or updates the admin, ikan and settings tables. Each model
// is migrated on its own so a failure names the table it happened on.
func Migrate(db *gorm.DB) error {
	for _, m := range []any{&models.Admin{}, &models.Ikan{}, &models.Setting{}} {
		if err := db.AutoMigrate(m); err != nil {
			return fmt.Errorf("migrate %T: %w", m, err)
		}
	}
	return nil
}
