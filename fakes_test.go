package main

import (
	"context"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"tokoikan/models"
	"tokoikan/pkg/imgstore"
	"tokoikan/repository"
)

type fakeAdminStore struct {
	mu     sync.Mutex
	admins map[uint]models.Admin
}

func newFakeAdminStore(admins ...models.Admin) *fakeAdminStore {
	s := &fakeAdminStore{admins: map[uint]models.Admin{}}
	for _, a := range admins {
		s.admins[a.ID] = a
	}
	return s
}

func (s *fakeAdminStore) FindActiveByEmail(_ context.Context, email string) (*models.Admin, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, a := range s.admins {
		if strings.EqualFold(a.Email, strings.TrimSpace(email)) && a.Status == models.AdminStatusAktif {
			return &a, nil
		}
	}
	return nil, repository.ErrAdminNotFound
}

func (s *fakeAdminStore) FindByID(_ context.Context, id uint) (*models.Admin, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	a, ok := s.admins[id]
	if !ok {
		return nil, repository.ErrAdminNotFound
	}
	return &a, nil
}

func (s *fakeAdminStore) setStatus(id uint, status string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	a := s.admins[id]
	a.Status = status
	s.admins[id] = a
}

// fakeIkanStore keeps products in memory. CreatedAt grows with every insert
// so newest-first ordering is deterministic.
type fakeIkanStore struct {
	mu      sync.Mutex
	items   map[uint]models.Ikan
	nextID  uint
	clock   time.Time
	creates int
}

func newFakeIkanStore() *fakeIkanStore {
	return &fakeIkanStore{
		items: map[uint]models.Ikan{},
		clock: time.Date(2024, 1, 1, 8, 0, 0, 0, time.UTC),
	}
}

func (s *fakeIkanStore) sorted(keep func(models.Ikan) bool) []models.Ikan {
	out := []models.Ikan{}
	for _, it := range s.items {
		if keep(it) {
			out = append(out, it)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID > out[j].ID
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out
}

func (s *fakeIkanStore) List(_ context.Context) ([]models.Ikan, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sorted(func(models.Ikan) bool { return true }), nil
}

func (s *fakeIkanStore) ListByStatus(_ context.Context, status string) ([]models.Ikan, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sorted(func(it models.Ikan) bool { return it.Status == status }), nil
}

func (s *fakeIkanStore) Search(_ context.Context, term string) ([]models.Ikan, error) {
	term = strings.ToLower(strings.TrimSpace(term))
	if term == "" {
		return nil, repository.ErrEmptySearchTerm
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sorted(func(it models.Ikan) bool {
		return strings.Contains(strings.ToLower(it.Nama), term) ||
			strings.Contains(strings.ToLower(it.Deskripsi), term) ||
			strings.Contains(strconv.FormatFloat(it.Harga, 'f', 2, 64), term)
	}), nil
}

func (s *fakeIkanStore) Get(_ context.Context, id uint) (*models.Ikan, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	it, ok := s.items[id]
	if !ok {
		return nil, repository.ErrIkanNotFound
	}
	return &it, nil
}

func (s *fakeIkanStore) Create(_ context.Context, ikan *models.Ikan) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextID++
	s.creates++
	s.clock = s.clock.Add(time.Minute)
	ikan.ID = s.nextID
	ikan.CreatedAt = s.clock
	ikan.UpdatedAt = s.clock
	s.items[ikan.ID] = *ikan
	return nil
}

func (s *fakeIkanStore) Update(_ context.Context, ikan *models.Ikan) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.items[ikan.ID]; !ok {
		return repository.ErrIkanNotFound
	}
	ikan.UpdatedAt = time.Now()
	s.items[ikan.ID] = *ikan
	return nil
}

func (s *fakeIkanStore) Delete(_ context.Context, id uint) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.items[id]; !ok {
		return repository.ErrIkanNotFound
	}
	delete(s.items, id)
	return nil
}

// fakeSettingStore mirrors the upsert semantics of repository.SettingRepo.
type fakeSettingStore struct {
	mu     sync.Mutex
	rows   map[string]models.Setting
	nextID uint
	// bulkErr, when set, fails UpdateMultiple before anything is written.
	bulkErr error
}

func newFakeSettingStore() *fakeSettingStore {
	return &fakeSettingStore{rows: map[string]models.Setting{}}
}

func (s *fakeSettingStore) List(_ context.Context) ([]models.Setting, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.Setting, 0, len(s.rows))
	for _, r := range s.rows {
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].SettingKey < out[j].SettingKey })
	return out, nil
}

func (s *fakeSettingStore) Get(_ context.Context, key string) (*models.Setting, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.rows[key]
	if !ok {
		return nil, repository.ErrSettingNotFound
	}
	return &r, nil
}

func (s *fakeSettingStore) Set(_ context.Context, key, value string, description *string) (*models.Setting, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := time.Now()
	if r, ok := s.rows[key]; ok {
		r.SettingValue = value
		if description != nil {
			r.Description = description
		}
		r.UpdatedAt = now
		s.rows[key] = r
		return &r, true, nil
	}
	s.nextID++
	r := models.Setting{ID: s.nextID, SettingKey: key, SettingValue: value, Description: description, CreatedAt: now, UpdatedAt: now}
	s.rows[key] = r
	return &r, false, nil
}

func (s *fakeSettingStore) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.rows[key]; !ok {
		return repository.ErrSettingNotFound
	}
	delete(s.rows, key)
	return nil
}

func (s *fakeSettingStore) WebsiteSettings(_ context.Context) (map[string]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make(map[string]string, len(s.rows))
	for k, r := range s.rows {
		out[k] = r.SettingValue
	}
	return out, nil
}

func (s *fakeSettingStore) UpdateMultiple(ctx context.Context, fields map[string]string, logoPath string) error {
	if s.bulkErr != nil {
		return s.bulkErr
	}
	for k, v := range fields {
		if _, _, err := s.Set(ctx, k, v, nil); err != nil {
			return err
		}
	}
	if logoPath != "" {
		if _, _, err := s.Set(ctx, models.SettingKeyLogo, logoPath, nil); err != nil {
			return err
		}
	}
	return nil
}

func (s *fakeSettingStore) Reset(ctx context.Context, defaults []models.DefaultSetting) error {
	for _, d := range defaults {
		desc := d.Description
		if _, _, err := s.Set(ctx, d.Key, d.Value, &desc); err != nil {
			return err
		}
	}
	return nil
}

// recordingImages wraps the real disk store and remembers every Remove call.
type recordingImages struct {
	*imgstore.Store
	mu      sync.Mutex
	removed []string
}

func (r *recordingImages) Remove(publicPath string) error {
	r.mu.Lock()
	r.removed = append(r.removed, publicPath)
	r.mu.Unlock()
	return r.Store.Remove(publicPath)
}

func (r *recordingImages) removals() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.removed...)
}
