package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// MaxGalleryImages is the upper bound on secondary images per profile.
const MaxGalleryImages = 5

type Complexion string

const (
	ComplexionFair     Complexion = "Fair"
	ComplexionMedium   Complexion = "Medium"
	ComplexionWheatish Complexion = "Wheatish"
	ComplexionOlive    Complexion = "Olive"
	ComplexionDark     Complexion = "Dark"
)

// Complexions lists the accepted values in display order.
var Complexions = []Complexion{
	ComplexionFair,
	ComplexionMedium,
	ComplexionWheatish,
	ComplexionOlive,
	ComplexionDark,
}

func (c Complexion) Valid() bool {
	for _, v := range Complexions {
		if c == v {
			return true
		}
	}
	return false
}

// Profile is the single listing record served by the directory.
type Profile struct {
	ID            uuid.UUID   `gorm:"type:uuid;primaryKey" json:"id"`
	Name          string      `gorm:"size:100;not null" json:"name"`
	Age           int         `gorm:"not null;index" json:"age"`
	Height        string      `gorm:"not null" json:"height"`
	Complexion    Complexion  `gorm:"size:16;not null;index" json:"complexion"`
	Location      string      `gorm:"not null;index" json:"location"`
	ImageURL      string      `gorm:"not null" json:"imageUrl"`
	GalleryImages StringArray `gorm:"type:jsonb" json:"galleryImages"`
	Description   string      `gorm:"size:1000;not null" json:"description"`
	ContactInfo   string      `gorm:"not null" json:"contactInfo"`
	IsFeatured    bool        `gorm:"default:false;index" json:"isFeatured"`
	ContactClicks int         `gorm:"default:0" json:"contactClicks"`
	CreatedAt     time.Time   `gorm:"index" json:"createdAt"`
}

func (p *Profile) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	if p.GalleryImages == nil {
		p.GalleryImages = StringArray{}
	}
	return nil
}

// ImageURLs returns the main image followed by the gallery.
func (p *Profile) ImageURLs() []string {
	urls := make([]string, 0, 1+len(p.GalleryImages))
	if p.ImageURL != "" {
		urls = append(urls, p.ImageURL)
	}
	return append(urls, p.GalleryImages...)
}

type StringArray []string

func (sa StringArray) Value() (driver.Value, error) {
	if len(sa) == 0 {
		return []byte("[]"), nil
	}
	return json.Marshal(sa)
}

func (sa *StringArray) Scan(value interface{}) error {
	if value == nil {
		*sa = nil
		return nil
	}
	var data []byte
	switch v := value.(type) {
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		return fmt.Errorf("unsupported type for StringArray: %T", value)
	}
	if len(data) == 0 {
		*sa = nil
		return nil
	}
	return json.Unmarshal(data, sa)
}

// MarshalJSON keeps an empty gallery as [] rather than null.
func (sa StringArray) MarshalJSON() ([]byte, error) {
	if sa == nil {
		return []byte("[]"), nil
	}
	return json.Marshal([]string(sa))
}
