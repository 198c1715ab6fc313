package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"net/http"
	"strconv"
	"strings"

	"tokoikan/models"

	"github.com/gin-gonic/gin"
)

type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

func invalid(field, format string, args ...any) *ValidationError {
	return &ValidationError{Field: field, Message: fmt.Sprintf(format, args...)}
}

// formValue accepts a JSON string, number or bool; null and absent keys both
// leave it unset.
type formValue struct {
	set   bool
	value string
}

func (v *formValue) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if string(b) == "null" {
		*v = formValue{}
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*v = formValue{set: true, value: s}
		return nil
	}
	if len(b) > 0 && (b[0] == '{' || b[0] == '[') {
		return errors.New("expected a string or number")
	}
	*v = formValue{set: true, value: string(b)}
	return nil
}

func (v formValue) trimmed() string { return strings.TrimSpace(v.value) }

func (v formValue) empty() bool { return !v.set || v.trimmed() == "" }

// ikanForm is the raw product payload from either a JSON or a multipart body.
type ikanForm struct {
	Nama        formValue `json:"nama"`
	Harga       formValue `json:"harga"`
	SatuanHarga formValue `json:"satuanHarga"`
	Stok        formValue `json:"stok"`
	Status      formValue `json:"status"`
	Deskripsi   formValue `json:"deskripsi"`
}

func bindIkanForm(c *gin.Context) (ikanForm, error) {
	var f ikanForm
	if isFormRequest(c) {
		f.Nama = postForm(c, "nama")
		f.Harga = postForm(c, "harga")
		f.SatuanHarga = postForm(c, "satuanHarga")
		f.Stok = postForm(c, "stok")
		f.Status = postForm(c, "status")
		f.Deskripsi = postForm(c, "deskripsi")
		return f, nil
	}
	if err := decodeJSONBody(c, &f); err != nil {
		return ikanForm{}, err
	}
	return f, nil
}

// harga is stored as numeric(12,2).
const (
	hargaScale = 2
	maxHarga   = 1e10
)

// decimalPlaces counts the fractional digits of the shortest decimal form of f.
func decimalPlaces(f float64) int {
	s := strconv.FormatFloat(f, 'f', -1, 64)
	if i := strings.IndexByte(s, '.'); i >= 0 {
		return len(s) - i - 1
	}
	return 0
}

// parseIkanInput turns a raw form into a validated IkanInput. Missing
// required fields are reported first, then each field check on its own.
func parseIkanInput(f ikanForm) (models.IkanInput, error) {
	var missing []string
	for _, r := range []struct {
		name string
		v    formValue
	}{{"nama", f.Nama}, {"harga", f.Harga}, {"stok", f.Stok}, {"deskripsi", f.Deskripsi}} {
		if r.v.empty() {
			missing = append(missing, r.name)
		}
	}
	if len(missing) > 0 {
		return models.IkanInput{}, invalid(missing[0], "missing required field: %s (nama, harga, stok and deskripsi are required)", strings.Join(missing, ", "))
	}

	harga, err := strconv.ParseFloat(f.Harga.trimmed(), 64)
	if err != nil || math.IsNaN(harga) || math.IsInf(harga, 0) {
		return models.IkanInput{}, invalid("harga", "price (harga) must be a number")
	}
	if harga <= 0 {
		return models.IkanInput{}, invalid("harga", "price (harga) must be a positive number")
	}
	if harga >= maxHarga {
		return models.IkanInput{}, invalid("harga", "price (harga) is too large")
	}
	if decimalPlaces(harga) > hargaScale {
		return models.IkanInput{}, invalid("harga", "price (harga) can have at most %d decimal places", hargaScale)
	}

	stok, err := strconv.ParseFloat(f.Stok.trimmed(), 64)
	if err != nil || math.IsNaN(stok) || math.IsInf(stok, 0) {
		return models.IkanInput{}, invalid("stok", "stock (stok) must be a number")
	}
	if stok < 0 {
		return models.IkanInput{}, invalid("stok", "stock (stok) cannot be negative")
	}
	if stok != math.Trunc(stok) || stok > math.MaxInt32 {
		return models.IkanInput{}, invalid("stok", "stock (stok) must be a whole number")
	}

	status := models.StatusTersedia
	if !f.Status.empty() {
		status = f.Status.trimmed()
	}
	if !models.ValidIkanStatus(status) {
		return models.IkanInput{}, invalid("status", "status must be one of: %s", strings.Join(models.IkanStatuses, ", "))
	}

	satuan := models.SatuanKg
	if !f.SatuanHarga.empty() {
		satuan = f.SatuanHarga.trimmed()
	}
	if !models.ValidSatuanHarga(satuan) {
		return models.IkanInput{}, invalid("satuanHarga", "price unit (satuanHarga) must be one of: %s", strings.Join(models.SatuanHargaValues, ", "))
	}

	return models.IkanInput{
		Nama:        f.Nama.trimmed(),
		Harga:       harga,
		SatuanHarga: satuan,
		Stok:        int(stok),
		Status:      status,
		Deskripsi:   f.Deskripsi.trimmed(),
	}, nil
}

// settingForm is the body of PUT /api/settings/:key. setting_value is
// accepted as an alias of value.
type settingForm struct {
	Value        formValue `json:"value"`
	SettingValue formValue `json:"setting_value"`
	Description  formValue `json:"description"`
}

type settingInput struct {
	Value       string
	Description *string
}

func bindSettingInput(c *gin.Context) (settingInput, error) {
	var f settingForm
	if isFormRequest(c) {
		f.Value = postForm(c, "value")
		f.SettingValue = postForm(c, "setting_value")
		f.Description = postForm(c, "description")
	} else if err := decodeJSONBody(c, &f); err != nil {
		return settingInput{}, err
	}

	value := f.Value
	if !value.set {
		value = f.SettingValue
	}
	if !value.set {
		return settingInput{}, invalid("value", "value is required")
	}
	in := settingInput{Value: value.value}
	if f.Description.set {
		d := f.Description.value
		in.Description = &d
	}
	return in, nil
}

// bindSettingFields collects the flat key/value map of a bulk settings update.
func bindSettingFields(c *gin.Context) (map[string]string, error) {
	fields := map[string]string{}
	if isFormRequest(c) {
		if err := c.Request.ParseMultipartForm(32 << 20); err != nil && !errors.Is(err, http.ErrNotMultipart) {
			return nil, invalid("body", "invalid form body")
		}
		for k, vs := range c.Request.PostForm {
			if len(vs) > 0 {
				fields[k] = vs[0]
			}
		}
		return fields, nil
	}

	raw := map[string]formValue{}
	if err := decodeJSONBody(c, &raw); err != nil {
		return nil, err
	}
	for k, v := range raw {
		if v.set {
			fields[k] = v.value
		}
	}
	return fields, nil
}

func isFormRequest(c *gin.Context) bool {
	ct := c.ContentType()
	return ct == gin.MIMEMultipartPOSTForm || ct == gin.MIMEPOSTForm
}

func postForm(c *gin.Context, key string) formValue {
	v, ok := c.GetPostForm(key)
	return formValue{set: ok, value: v}
}

// decodeJSONBody treats an empty body as an empty object.
func decodeJSONBody(c *gin.Context, dst any) error {
	if c.Request.Body == nil {
		return nil
	}
	dec := json.NewDecoder(c.Request.Body)
	if err := dec.Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return nil
		}
		return invalid("body", "invalid JSON body")
	}
	return nil
}
