package http

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"profile-listing-go/internal/models"
	"profile-listing-go/internal/store"
)

// memoryProfiles is an in-memory ProfileRepository with the same filter and
// validation semantics as the postgres store.
type memoryProfiles struct {
	mu       sync.Mutex
	rows     map[uuid.UUID]models.Profile
	clock    time.Time
	findErr  error
	updateFn func(*models.Profile) error
}

var _ store.ProfileRepository = (*memoryProfiles)(nil)

func newMemoryProfiles() *memoryProfiles {
	return &memoryProfiles{
		rows:  map[uuid.UUID]models.Profile{},
		clock: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
	}
}

func (m *memoryProfiles) Find(_ context.Context, f store.Filter) ([]models.Profile, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.findErr != nil {
		return nil, m.findErr
	}

	out := []models.Profile{}
	for _, p := range m.rows {
		if f.Featured != nil && p.IsFeatured != *f.Featured {
			continue
		}
		if f.Complexion != "" && string(p.Complexion) != f.Complexion {
			continue
		}
		if f.Location != "" && !containsFold(p.Location, f.Location) {
			continue
		}
		if f.Name != "" && !containsFold(p.Name, f.Name) {
			continue
		}
		if f.AgeMin != nil && p.Age < *f.AgeMin {
			continue
		}
		if f.AgeMax != nil && p.Age > *f.AgeMax {
			continue
		}
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (m *memoryProfiles) FindByID(_ context.Context, id string) (*models.Profile, error) {
	uid, err := store.ParseID(id)
	if err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.rows[uid]
	if !ok {
		return nil, store.ErrNotFound
	}
	return &p, nil
}

func (m *memoryProfiles) Create(_ context.Context, p *models.Profile) error {
	p.Normalize()
	if err := p.Validate(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	p.ID = uuid.New()
	m.clock = m.clock.Add(time.Minute)
	p.CreatedAt = m.clock
	m.rows[p.ID] = *p
	return nil
}

func (m *memoryProfiles) Update(_ context.Context, p *models.Profile) error {
	p.Normalize()
	if err := p.Validate(); err != nil {
		return err
	}
	if m.updateFn != nil {
		if err := m.updateFn(p); err != nil {
			return err
		}
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rows[p.ID] = *p
	return nil
}

func (m *memoryProfiles) Delete(_ context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.rows, id)
	return nil
}

func (m *memoryProfiles) IncrementContactClicks(_ context.Context, id string) (int, error) {
	uid, err := store.ParseID(id)
	if err != nil {
		return 0, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.rows[uid]
	if !ok {
		return 0, store.ErrNotFound
	}
	p.ContactClicks++
	m.rows[uid] = p
	return p.ContactClicks, nil
}

func (m *memoryProfiles) seed(p models.Profile) models.Profile {
	if p.GalleryImages == nil {
		p.GalleryImages = models.StringArray{}
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	p.ID = uuid.New()
	m.clock = m.clock.Add(time.Minute)
	p.CreatedAt = m.clock
	m.rows[p.ID] = p
	return p
}

func (m *memoryProfiles) get(id uuid.UUID) models.Profile {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.rows[id]
}

func containsFold(s, sub string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(sub))
}
