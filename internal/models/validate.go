package models

import (
	_ "embed"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

//go:embed schema/profile.schema.json
var profileSchemaJSON []byte

var profileSchema *gojsonschema.Schema

func init() {
	s, err := gojsonschema.NewSchema(gojsonschema.NewBytesLoader(profileSchemaJSON))
	if err != nil {
		panic(err)
	}
	profileSchema = s
}

// ValidationError carries one message per violated field.
type ValidationError struct {
	Fields   []string
	Messages []string
}

func (e *ValidationError) Error() string {
	return "validation failed: " + strings.Join(e.Messages, "; ")
}

// NewValidationError builds a ValidationError for a single field.
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Fields: []string{field}, Messages: []string{message}}
}

// fieldOrder fixes the order messages are reported in.
var fieldOrder = []string{
	"name", "age", "height", "complexion", "location",
	"imageUrl", "galleryImages", "description", "contactInfo",
}

var requiredMessages = map[string]string{
	"name":        "Name is required",
	"age":         "Age is required",
	"height":      "Height is required",
	"complexion":  "Complexion is required",
	"location":    "Location is required",
	"imageUrl":    "Main image is required",
	"description": "Description is required",
	"contactInfo": "Contact information is required",
}

var constraintMessages = map[string]map[string]string{
	"name": {
		"string_gte": "Name must be at least 2 characters",
		"string_lte": "Name cannot exceed 100 characters",
	},
	"age": {
		"number_gte":   "Age must be at least 18",
		"number_lte":   "Age cannot exceed 100",
		"invalid_type": "Age must be a whole number",
	},
	"complexion": {
		"enum": "Complexion must be one of: Fair, Medium, Wheatish, Olive, Dark",
	},
	"galleryImages": {
		"array_max_items": "Cannot upload more than 5 gallery images",
	},
	"description": {
		"string_gte": "Description must be at least 10 characters",
		"string_lte": "Description cannot exceed 1000 characters",
	},
}

// Normalize applies the storage-time transforms (trimming) to p.
func (p *Profile) Normalize() {
	p.Name = strings.TrimSpace(p.Name)
	if p.GalleryImages == nil {
		p.GalleryImages = StringArray{}
	}
}

// Validate checks p against the profile schema and reports every violated field.
func (p *Profile) Validate() error {
	res, err := profileSchema.Validate(gojsonschema.NewGoLoader(p.schemaDocument()))
	if err != nil {
		return err
	}
	if res.Valid() {
		return nil
	}

	found := map[string]string{}
	for _, e := range res.Errors() {
		field := e.Field()
		if e.Type() == "required" {
			if prop, ok := e.Details()["property"].(string); ok {
				field = prop
			}
		}
		if i := strings.Index(field, "."); i >= 0 {
			field = field[:i]
		}
		if _, seen := found[field]; seen {
			continue
		}
		found[field] = messageFor(field, e)
	}

	verr := &ValidationError{}
	for _, f := range fieldOrder {
		if msg, ok := found[f]; ok {
			verr.Fields = append(verr.Fields, f)
			verr.Messages = append(verr.Messages, msg)
		}
	}
	return verr
}

func messageFor(field string, e gojsonschema.ResultError) string {
	if e.Type() == "required" {
		if msg, ok := requiredMessages[field]; ok {
			return msg
		}
	}
	if msg, ok := constraintMessages[field][e.Type()]; ok {
		return msg
	}
	return field + ": " + e.Description()
}

// schemaDocument omits blank strings so they surface as "required" violations.
func (p *Profile) schemaDocument() map[string]interface{} {
	gallery := []string(p.GalleryImages)
	if gallery == nil {
		gallery = []string{}
	}
	doc := map[string]interface{}{
		"age":           p.Age,
		"galleryImages": gallery,
	}
	put := func(key, v string) {
		if strings.TrimSpace(v) != "" {
			doc[key] = v
		}
	}
	put("name", strings.TrimSpace(p.Name))
	put("height", p.Height)
	put("complexion", string(p.Complexion))
	put("location", p.Location)
	put("imageUrl", p.ImageURL)
	put("description", p.Description)
	put("contactInfo", p.ContactInfo)
	return doc
}
