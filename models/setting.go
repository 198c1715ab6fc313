package models

import "time"

// SettingKeyLogo holds the public path of the site logo.
const SettingKeyLogo = "site_logo"

// Setting is one key/value row; the storefront reads all rows folded into a
// single object keyed by SettingKey.
type Setting struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	SettingKey   string    `gorm:"column:setting_key;size:100;not null;uniqueIndex" json:"setting_key"`
	SettingValue string    `gorm:"column:setting_value;type:text;not null" json:"setting_value"`
	Description  *string   `gorm:"type:text" json:"description"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

func (Setting) TableName() string { return "settings" }

type DefaultSetting struct {
	Key         string
	Value       string
	Description string
}

// DefaultWebsiteSettings are seeded on first start and restored by the reset endpoint.
var DefaultWebsiteSettings = []DefaultSetting{
	{Key: "site_name", Value: "Toko Ikan Segar", Description: "Nama website"},
	{Key: "site_description", Value: "Ikan segar langsung dari nelayan ke meja Anda", Description: "Deskripsi singkat website"},
	{Key: "primary_color", Value: "#0ea5e9", Description: "Warna utama"},
	{Key: "secondary_color", Value: "#0369a1", Description: "Warna sekunder"},
	{Key: "whatsapp_number", Value: "6281234567890", Description: "Nomor WhatsApp untuk pemesanan"},
	{Key: "contact_email", Value: "info@tokoikan.local", Description: "Email kontak"},
	{Key: "address", Value: "Pasar Ikan, Jakarta", Description: "Alamat toko"},
	{Key: SettingKeyLogo, Value: "", Description: "Path logo website"},
}

// WithDefaults returns a copy of values where every missing default key is filled in.
func WithDefaults(values map[string]string) map[string]string {
	out := make(map[string]string, len(values)+len(DefaultWebsiteSettings))
	for _, d := range DefaultWebsiteSettings {
		out[d.Key] = d.Value
	}
	for k, v := range values {
		out[k] = v
	}
	return out
}
