package models

import "time"

const (
	AdminStatusAktif    = "aktif"
	AdminStatusNonaktif = "nonaktif"
)

// Admin is a back-office account. Accounts are created out-of-band (seed or
// cmd/create_admin) and are never deleted, only switched to nonaktif.
type Admin struct {
	ID             uint      `gorm:"primaryKey" json:"id"`
	Email          string    `gorm:"size:255;not null;uniqueIndex" json:"email"`
	HashedPassword []byte    `gorm:"column:password;not null" json:"-"`
	Nama           string    `gorm:"size:255;not null" json:"nama"`
	Status         string    `gorm:"size:16;not null;default:aktif;index" json:"status"`
	CreatedAt      time.Time `json:"created_at"`
}

func (Admin) TableName() string { return "admin" }

func (a *Admin) IsActive() bool {
	return a != nil && a.Status == AdminStatusAktif
}

func ValidAdminStatus(s string) bool {
	return s == AdminStatusAktif || s == AdminStatusNonaktif
}
