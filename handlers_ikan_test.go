package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"tokoikan/models"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ikanBody() map[string]any {
	return map[string]any{
		"nama":        "Ikan Test",
		"harga":       25000,
		"satuanHarga": "kg",
		"stok":        10,
		"status":      "tersedia",
		"deskripsi":   "desc",
	}
}

func (e *testEnv) createIkan(body map[string]any) models.Ikan {
	e.t.Helper()
	rec := e.do(http.MethodPost, "/api/ikan", body, "")
	require.Equal(e.t, http.StatusCreated, rec.Code, rec.Body.String())
	var ikan models.Ikan
	decodeEnvelope(e.t, rec, &ikan)
	return ikan
}

func (e *testEnv) uploadedFile(publicPath string) string {
	return filepath.Join(e.images.BaseDir(), strings.TrimPrefix(publicPath, "/uploads/"))
}

func TestCreateIkan_ThenGet(t *testing.T) {
	env := newTestEnv(t)

	created := env.createIkan(ikanBody())
	assert.NotZero(t, created.ID)
	assert.Equal(t, "Ikan Test", created.Nama)
	assert.Equal(t, 25000.0, created.Harga)
	assert.Equal(t, "kg", created.SatuanHarga)
	assert.Equal(t, 10, created.Stok)
	assert.Equal(t, "tersedia", created.Status)
	assert.Equal(t, "desc", created.Deskripsi)
	assert.Nil(t, created.Gambar)

	rec := env.do(http.MethodGet, fmt.Sprintf("/api/ikan/%d", created.ID), nil, "")
	require.Equal(t, http.StatusOK, rec.Code)
	var got models.Ikan
	decodeEnvelope(t, rec, &got)
	assert.Equal(t, created.Nama, got.Nama)
	assert.Equal(t, created.Harga, got.Harga)
	assert.Equal(t, created.SatuanHarga, got.SatuanHarga)
	assert.Equal(t, created.Stok, got.Stok)
	assert.Equal(t, created.Status, got.Status)
	assert.Equal(t, created.Deskripsi, got.Deskripsi)

	assert.Equal(t, float64(1), testutil.ToFloat64(env.srv.metrics.CounterIkanMutations.WithLabelValues("create")))
}

func TestCreateIkan_Defaults(t *testing.T) {
	env := newTestEnv(t)

	body := ikanBody()
	delete(body, "status")
	delete(body, "satuanHarga")
	body["harga"] = "12500.50"
	body["stok"] = "0"

	created := env.createIkan(body)
	assert.Equal(t, models.StatusTersedia, created.Status)
	assert.Equal(t, models.SatuanKg, created.SatuanHarga)
	assert.Equal(t, 12500.5, created.Harga)
	assert.Equal(t, 0, created.Stok)
}

func TestCreateIkan_Validation(t *testing.T) {
	cases := []struct {
		name    string
		mutate  func(map[string]any)
		message string
	}{
		{"negative price", func(b map[string]any) { b["harga"] = -5 }, "price (harga) must be a positive number"},
		{"zero price", func(b map[string]any) { b["harga"] = 0 }, "price (harga) must be a positive number"},
		{"price below column scale", func(b map[string]any) { b["harga"] = 0.001 }, "price (harga) can have at most 2 decimal places"},
		{"price overflows column", func(b map[string]any) { b["harga"] = 1e12 }, "price (harga) is too large"},
		{"price not a number", func(b map[string]any) { b["harga"] = "mahal" }, "price (harga) must be a number"},
		{"missing nama", func(b map[string]any) { delete(b, "nama") }, "missing required field: nama"},
		{"blank deskripsi", func(b map[string]any) { b["deskripsi"] = "   " }, "missing required field: deskripsi"},
		{"null stok", func(b map[string]any) { b["stok"] = nil }, "missing required field: stok"},
		{"negative stok", func(b map[string]any) { b["stok"] = -1 }, "stock (stok) cannot be negative"},
		{"fractional stok", func(b map[string]any) { b["stok"] = 1.5 }, "stock (stok) must be a whole number"},
		{"stok not a number", func(b map[string]any) { b["stok"] = "banyak" }, "stock (stok) must be a number"},
		{"bad status", func(b map[string]any) { b["status"] = "segar" }, "status must be one of"},
		{"bad unit", func(b map[string]any) { b["satuanHarga"] = "ton" }, "price unit (satuanHarga) must be one of"},
		{"object field", func(b map[string]any) { b["nama"] = map[string]string{"x": "y"} }, "invalid JSON body"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			env := newTestEnv(t)
			body := ikanBody()
			tc.mutate(body)

			rec := env.do(http.MethodPost, "/api/ikan", body, "")
			require.Equal(t, http.StatusBadRequest, rec.Code, rec.Body.String())
			resp := decodeEnvelope(t, rec, nil)
			assert.False(t, resp.Success)
			assert.Contains(t, resp.Message, tc.message)
			assert.Zero(t, env.ikan.creates)
		})
	}
}

func TestCreateIkan_MultipartWithImage(t *testing.T) {
	env := newTestEnv(t)

	rec := env.doMultipart(http.MethodPost, "/api/ikan", map[string]string{
		"nama":      "Kakap Merah",
		"harga":     "85000",
		"stok":      "4",
		"deskripsi": "Tangkapan pagi",
		"status":    "pre-order",
	}, pngUpload(t, "gambar"))
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var created models.Ikan
	decodeEnvelope(t, rec, &created)
	require.NotNil(t, created.Gambar)
	assert.True(t, strings.HasPrefix(*created.Gambar, "/uploads/gambar-"), *created.Gambar)
	assert.True(t, strings.HasSuffix(*created.Gambar, ".png"), *created.Gambar)
	assert.FileExists(t, env.uploadedFile(*created.Gambar))
	assert.Equal(t, "pre-order", created.Status)

	rec = env.do(http.MethodGet, *created.Gambar, nil, "")
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestCreateIkan_RejectsNonImage(t *testing.T) {
	env := newTestEnv(t)

	rec := env.doMultipart(http.MethodPost, "/api/ikan", map[string]string{
		"nama": "Tongkol", "harga": "30000", "stok": "3", "deskripsi": "x",
	}, &upload{field: "gambar", filename: "notes.txt", contentType: "text/plain", content: []byte("halo")})
	require.Equal(t, http.StatusBadRequest, rec.Code, rec.Body.String())
	assert.Zero(t, env.ikan.creates)

	entries, err := os.ReadDir(env.images.BaseDir())
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestCreateIkan_ValidationBeforeUpload(t *testing.T) {
	env := newTestEnv(t)

	rec := env.doMultipart(http.MethodPost, "/api/ikan", map[string]string{
		"nama": "Tongkol", "harga": "-1", "stok": "3", "deskripsi": "x",
	}, pngUpload(t, "gambar"))
	require.Equal(t, http.StatusBadRequest, rec.Code)

	entries, err := os.ReadDir(env.images.BaseDir())
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestUpdateIkan_ReplacesImage(t *testing.T) {
	env := newTestEnv(t)

	fields := map[string]string{"nama": "Bandeng", "harga": "40000", "stok": "8", "deskripsi": "Tanpa duri"}
	rec := env.doMultipart(http.MethodPost, "/api/ikan", fields, pngUpload(t, "gambar"))
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var created models.Ikan
	decodeEnvelope(t, rec, &created)
	require.NotNil(t, created.Gambar)
	oldPath := *created.Gambar

	fields["harga"] = "42000"
	rec = env.doMultipart(http.MethodPut, fmt.Sprintf("/api/ikan/%d", created.ID), fields, pngUpload(t, "gambar"))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var updated models.Ikan
	decodeEnvelope(t, rec, &updated)
	require.NotNil(t, updated.Gambar)
	assert.NotEqual(t, oldPath, *updated.Gambar)
	assert.Equal(t, 42000.0, updated.Harga)

	assert.NoFileExists(t, env.uploadedFile(oldPath))
	assert.FileExists(t, env.uploadedFile(*updated.Gambar))
	assert.Equal(t, []string{oldPath}, env.images.removals())

	stored, err := env.ikan.Get(context.Background(), created.ID)
	require.NoError(t, err)
	assert.Equal(t, *updated.Gambar, *stored.Gambar)
}

func TestUpdateIkan_KeepsImageWithoutUpload(t *testing.T) {
	env := newTestEnv(t)

	fields := map[string]string{"nama": "Bandeng", "harga": "40000", "stok": "8", "deskripsi": "Tanpa duri"}
	rec := env.doMultipart(http.MethodPost, "/api/ikan", fields, pngUpload(t, "gambar"))
	require.Equal(t, http.StatusCreated, rec.Code)
	var created models.Ikan
	decodeEnvelope(t, rec, &created)

	body := ikanBody()
	body["status"] = "habis"
	body["stok"] = 0
	rec = env.do(http.MethodPut, fmt.Sprintf("/api/ikan/%d", created.ID), body, "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var updated models.Ikan
	decodeEnvelope(t, rec, &updated)
	assert.Equal(t, "habis", updated.Status)
	assert.Equal(t, "Ikan Test", updated.Nama)
	require.NotNil(t, updated.Gambar)
	assert.Equal(t, *created.Gambar, *updated.Gambar)
	assert.Empty(t, env.images.removals())
}

func TestUpdateIkan_NotFoundAndBadID(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(http.MethodPut, "/api/ikan/404", ikanBody(), "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "product not found", decodeEnvelope(t, rec, nil).Message)

	rec = env.do(http.MethodPut, "/api/ikan/abc", ikanBody(), "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "invalid id", decodeEnvelope(t, rec, nil).Message)
}

func TestDeleteIkan(t *testing.T) {
	env := newTestEnv(t)

	rec := env.doMultipart(http.MethodPost, "/api/ikan", map[string]string{
		"nama": "Gurame", "harga": "60000", "stok": "2", "deskripsi": "Hidup",
	}, pngUpload(t, "gambar"))
	require.Equal(t, http.StatusCreated, rec.Code)
	var created models.Ikan
	decodeEnvelope(t, rec, &created)

	rec = env.do(http.MethodDelete, fmt.Sprintf("/api/ikan/%d", created.ID), nil, "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.NoFileExists(t, env.uploadedFile(*created.Gambar))
	assert.Equal(t, []string{*created.Gambar}, env.images.removals())

	rec = env.do(http.MethodGet, fmt.Sprintf("/api/ikan/%d", created.ID), nil, "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestDeleteIkan_MissingTouchesNoFiles(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(http.MethodDelete, "/api/ikan/12345", nil, "")
	require.Equal(t, http.StatusNotFound, rec.Code)
	resp := decodeEnvelope(t, rec, nil)
	assert.False(t, resp.Success)
	assert.Empty(t, env.images.removals())
}

func TestListIkan_NewestFirst(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(http.MethodGet, "/api/ikan", nil, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, "[]", string(decodeEnvelope(t, rec, nil).Data))

	for _, nama := range []string{"Lele", "Nila", "Patin"} {
		body := ikanBody()
		body["nama"] = nama
		env.createIkan(body)
	}

	rec = env.do(http.MethodGet, "/api/ikan", nil, "")
	require.Equal(t, http.StatusOK, rec.Code)
	var items []models.Ikan
	decodeEnvelope(t, rec, &items)
	require.Len(t, items, 3)
	assert.Equal(t, []string{"Patin", "Nila", "Lele"}, []string{items[0].Nama, items[1].Nama, items[2].Nama})
}

func TestSearchIkan(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(http.MethodGet, "/api/ikan/search", nil, "")
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "search term (q) is required", decodeEnvelope(t, rec, nil).Message)

	rec = env.do(http.MethodGet, "/api/ikan/search?q=%20%20", nil, "")
	require.Equal(t, http.StatusBadRequest, rec.Code)

	seed := []map[string]any{
		{"nama": "Salmon Norwegia", "harga": 250000, "stok": 5, "deskripsi": "Fillet impor"},
		{"nama": "Tuna Sirip Kuning", "harga": 120000, "stok": 3, "deskripsi": "Segar dari Bitung"},
		{"nama": "Kembung", "harga": 35000, "stok": 20, "deskripsi": "Cocok untuk salmon-style grill"},
	}
	for _, b := range seed {
		env.createIkan(b)
	}

	search := func(q string) []string {
		rec := env.do(http.MethodGet, "/api/ikan/search?q="+q, nil, "")
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		var items []models.Ikan
		decodeEnvelope(t, rec, &items)
		names := make([]string, 0, len(items))
		for _, it := range items {
			names = append(names, it.Nama)
		}
		return names
	}

	assert.Equal(t, []string{"Kembung", "Salmon Norwegia"}, search("SALMON"))
	assert.Equal(t, []string{"Tuna Sirip Kuning"}, search("bitung"))
	assert.Equal(t, []string{"Tuna Sirip Kuning"}, search("120000"))
	assert.Empty(t, search("hiu"))
}

func TestIkanByStatus(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(http.MethodGet, "/api/ikan/status/segar", nil, "")
	require.Equal(t, http.StatusBadRequest, rec.Code)

	habis := ikanBody()
	habis["nama"] = "Bawal"
	habis["status"] = "habis"
	env.createIkan(habis)
	env.createIkan(ikanBody())

	rec = env.do(http.MethodGet, "/api/ikan/status/habis", nil, "")
	require.Equal(t, http.StatusOK, rec.Code)
	var items []models.Ikan
	decodeEnvelope(t, rec, &items)
	require.Len(t, items, 1)
	assert.Equal(t, "Bawal", items[0].Nama)
}
