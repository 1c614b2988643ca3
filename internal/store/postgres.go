package store

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"gorm.io/gorm"

	"profile-listing-go/internal/models"
)

type profileStore struct {
	db *gorm.DB
}

var _ ProfileRepository = (*profileStore)(nil)

// NewProfileStore returns a gorm-backed ProfileRepository.
func NewProfileStore(db *gorm.DB) ProfileRepository {
	return &profileStore{db: db}
}

func (s *profileStore) Find(ctx context.Context, f Filter) ([]models.Profile, error) {
	query := s.db.WithContext(ctx).Model(&models.Profile{})

	if f.Featured != nil {
		query = query.Where("is_featured = ?", *f.Featured)
	}
	if c := strings.TrimSpace(f.Complexion); c != "" {
		query = query.Where("complexion = ?", c)
	}
	if loc := strings.TrimSpace(f.Location); loc != "" {
		query = query.Where("location ILIKE ? ESCAPE '\\'", containsPattern(loc))
	}
	if name := strings.TrimSpace(f.Name); name != "" {
		query = query.Where("name ILIKE ? ESCAPE '\\'", containsPattern(name))
	}
	if f.AgeMin != nil {
		query = query.Where("age >= ?", *f.AgeMin)
	}
	if f.AgeMax != nil {
		query = query.Where("age <= ?", *f.AgeMax)
	}

	profiles := []models.Profile{}
	if err := query.Order(SortClause(f.SortBy, f.Order)).Find(&profiles).Error; err != nil {
		return nil, errors.Wrap(err, "find profiles")
	}
	return profiles, nil
}

func (s *profileStore) FindByID(ctx context.Context, id string) (*models.Profile, error) {
	uid, err := ParseID(id)
	if err != nil {
		return nil, err
	}

	var p models.Profile
	if err := s.db.WithContext(ctx).First(&p, "id = ?", uid).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, errors.Wrap(err, "find profile")
	}
	return &p, nil
}

func (s *profileStore) Create(ctx context.Context, p *models.Profile) error {
	p.Normalize()
	if err := p.Validate(); err != nil {
		return err
	}
	return errors.Wrap(s.db.WithContext(ctx).Create(p).Error, "create profile")
}

// Update saves the whole record; concurrent saves are last-write-wins.
func (s *profileStore) Update(ctx context.Context, p *models.Profile) error {
	p.Normalize()
	if err := p.Validate(); err != nil {
		return err
	}
	return errors.Wrap(s.db.WithContext(ctx).Save(p).Error, "update profile")
}

func (s *profileStore) Delete(ctx context.Context, id uuid.UUID) error {
	return errors.Wrap(s.db.WithContext(ctx).Delete(&models.Profile{}, "id = ?", id).Error, "delete profile")
}

func (s *profileStore) IncrementContactClicks(ctx context.Context, id string) (int, error) {
	uid, err := ParseID(id)
	if err != nil {
		return 0, err
	}

	var clicks int
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.Profile{}).
			Where("id = ?", uid).
			UpdateColumn("contact_clicks", gorm.Expr("contact_clicks + ?", 1))
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrNotFound
		}
		return tx.Model(&models.Profile{}).Select("contact_clicks").Where("id = ?", uid).Row().Scan(&clicks)
	})
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return 0, err
		}
		return 0, errors.Wrap(err, "increment contact clicks")
	}
	return clicks, nil
}

// containsPattern escapes LIKE metacharacters so input matches as a literal substring.
func containsPattern(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return "%" + r.Replace(s) + "%"
}
