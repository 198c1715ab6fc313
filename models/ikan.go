package models

import "time"

const (
	SatuanKg   = "kg"
	SatuanGram = "gram"

	StatusTersedia = "tersedia"
	StatusHabis    = "habis"
	StatusPreOrder = "pre-order"
)

// IkanStatuses lists the accepted availability values in display order.
var IkanStatuses = []string{StatusTersedia, StatusHabis, StatusPreOrder}

// SatuanHargaValues lists the accepted price units.
var SatuanHargaValues = []string{SatuanKg, SatuanGram}

// Ikan is a catalog product. Gambar holds the public path of the uploaded
// image (e.g. /uploads/gambar-1700000000000-1a2b3c4d.jpg) or nil.
type Ikan struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Nama        string    `gorm:"size:255;not null" json:"nama"`
	Harga       float64   `gorm:"type:numeric(12,2);not null" json:"harga"`
	SatuanHarga string    `gorm:"column:satuan_harga;size:8;not null;default:kg" json:"satuanHarga"`
	Stok        int       `gorm:"not null;default:0" json:"stok"`
	Status      string    `gorm:"size:16;not null;default:tersedia;index" json:"status"`
	Deskripsi   string    `gorm:"type:text;not null" json:"deskripsi"`
	Gambar      *string   `gorm:"size:512" json:"gambar"`
	CreatedAt   time.Time `gorm:"index" json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func (Ikan) TableName() string { return "ikan" }

// IkanInput is a product payload that already passed validation.
type IkanInput struct {
	Nama        string
	Harga       float64
	SatuanHarga string
	Stok        int
	Status      string
	Deskripsi   string
}

// Apply copies the validated input onto the record, leaving id, image and
// timestamps untouched.
func (in IkanInput) Apply(ikan *Ikan) {
	ikan.Nama = in.Nama
	ikan.Harga = in.Harga
	ikan.SatuanHarga = in.SatuanHarga
	ikan.Stok = in.Stok
	ikan.Status = in.Status
	ikan.Deskripsi = in.Deskripsi
}

func ValidIkanStatus(s string) bool {
	for _, v := range IkanStatuses {
		if v == s {
			return true
		}
	}
	return false
}

func ValidSatuanHarga(s string) bool {
	return s == SatuanKg || s == SatuanGram
}
