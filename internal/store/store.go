package store

import (
	"context"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"profile-listing-go/internal/models"
)

var (
	// ErrNotFound is returned when no profile has the requested id.
	ErrNotFound = errors.New("profile not found")
	// ErrInvalidID is returned when the id is not a well-formed identifier.
	ErrInvalidID = errors.New("invalid profile id")
)

// Filter narrows and orders a profile query. Zero values mean "no constraint".
type Filter struct {
	Featured   *bool
	Complexion string
	Location   string
	Name       string
	AgeMin     *int
	AgeMax     *int
	SortBy     string
	Order      string
}

// ProfileRepository is the persistence contract used by the HTTP layer.
type ProfileRepository interface {
	Find(ctx context.Context, f Filter) ([]models.Profile, error)
	FindByID(ctx context.Context, id string) (*models.Profile, error)
	Create(ctx context.Context, p *models.Profile) error
	Update(ctx context.Context, p *models.Profile) error
	Delete(ctx context.Context, id uuid.UUID) error
	IncrementContactClicks(ctx context.Context, id string) (int, error)
}

// ParseID converts a path id into a uuid, mapping malformed input to ErrInvalidID.
func ParseID(id string) (uuid.UUID, error) {
	u, err := uuid.Parse(id)
	if err != nil {
		return uuid.Nil, ErrInvalidID
	}
	return u, nil
}

var sortColumns = map[string]string{
	"createdAt":     "created_at",
	"name":          "name",
	"age":           "age",
	"location":      "location",
	"complexion":    "complexion",
	"contactClicks": "contact_clicks",
	"isFeatured":    "is_featured",
}

// SortClause resolves a client sort key and direction into an ORDER BY clause.
// Unknown keys fall back to createdAt; any order other than "desc" (or empty) is ascending.
func SortClause(sortBy, order string) string {
	col, ok := sortColumns[sortBy]
	if !ok {
		col = "created_at"
	}
	dir := "DESC"
	if order != "" && order != "desc" {
		dir = "ASC"
	}
	return col + " " + dir
}
