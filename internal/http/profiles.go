package http

import (
	"fmt"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"

	"profile-listing-go/internal/images"
	"profile-listing-go/internal/models"
	"profile-listing-go/internal/store"
)

const (
	fieldMainImage     = "mainImage"
	fieldGalleryImages = "galleryImages"
)

// requiredFields must all be non-empty on create.
var requiredFields = []string{"name", "age", "height", "complexion", "location", "description", "contactInfo"}

// GET /profiles
func (s *Server) listProfiles(c *gin.Context) {
	f := store.Filter{
		Complexion: strings.TrimSpace(c.Query("complexion")),
		Location:   strings.TrimSpace(c.Query("location")),
		SortBy:     c.DefaultQuery("sortBy", "createdAt"),
		Order:      c.DefaultQuery("order", "desc"),
	}
	switch c.Query("featured") {
	case "true":
		f.Featured = boolPtr(true)
	case "false":
		f.Featured = boolPtr(false)
	}

	profiles, err := s.profiles.Find(c.Request.Context(), f)
	if err != nil {
		s.respondError(c, err, "Server error while fetching profiles")
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "count": len(profiles), "data": profiles})
}

// GET /profiles/search
func (s *Server) searchProfiles(c *gin.Context) {
	location := strings.TrimSpace(c.Query("location"))
	if location == "" {
		fail(c, http.StatusBadRequest, "Location is required for search")
		return
	}

	f := store.Filter{
		Location:   location,
		Name:       strings.TrimSpace(c.Query("name")),
		Complexion: strings.TrimSpace(c.Query("complexion")),
	}
	var err error
	if f.AgeMin, err = queryInt(c, "ageMin"); err != nil {
		s.respondError(c, err, "Search failed")
		return
	}
	if f.AgeMax, err = queryInt(c, "ageMax"); err != nil {
		s.respondError(c, err, "Search failed")
		return
	}

	profiles, err := s.profiles.Find(c.Request.Context(), f)
	if err != nil {
		s.respondError(c, err, "Search failed")
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "count": len(profiles), "data": profiles})
}

// GET /profiles/:id
func (s *Server) getProfile(c *gin.Context) {
	p, err := s.profiles.FindByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		s.respondError(c, err, "Server error while fetching profile")
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": p})
}

// PATCH /profiles/:id/click
func (s *Server) recordClick(c *gin.Context) {
	clicks, err := s.profiles.IncrementContactClicks(c.Request.Context(), c.Param("id"))
	if err != nil {
		s.respondError(c, err, "Failed to record click")
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success":       true,
		"message":       "Contact click recorded",
		"contactClicks": clicks,
	})
}

// POST /profiles
func (s *Server) createProfile(c *gin.Context) {
	ctx := c.Request.Context()

	if err := readForm(c); err != nil {
		s.respondError(c, err, "Failed to create profile")
		return
	}
	for _, field := range requiredFields {
		if strings.TrimSpace(c.PostForm(field)) == "" {
			fail(c, http.StatusBadRequest, "All fields are required")
			return
		}
	}

	mains, gallery := s.uploadedFiles(c)
	if len(mains) == 0 {
		fail(c, http.StatusBadRequest, "Main image is required")
		return
	}
	if err := s.checkUploads(mains, gallery); err != nil {
		s.respondError(c, err, "Failed to create profile")
		return
	}

	age, err := parseAge(c.PostForm("age"))
	if err != nil {
		s.respondError(c, err, "Failed to create profile")
		return
	}

	p := &models.Profile{
		Name:        c.PostForm("name"),
		Age:         age,
		Height:      c.PostForm("height"),
		Complexion:  models.Complexion(c.PostForm("complexion")),
		Location:    c.PostForm("location"),
		Description: c.PostForm("description"),
		ContactInfo: c.PostForm("contactInfo"),
		IsFeatured:  c.PostForm("isFeatured") == "true",
	}

	delta := images.NewDelta(s.images, s.log)
	base := baseURL(c)
	mainName, err := delta.Save(ctx, mains[0])
	if err != nil {
		delta.Rollback(ctx)
		s.respondError(c, err, "Failed to create profile")
		return
	}
	galleryNames, err := delta.SaveAll(ctx, gallery)
	if err != nil {
		delta.Rollback(ctx)
		s.respondError(c, err, "Failed to create profile")
		return
	}
	p.ImageURL = s.images.URL(base, mainName)
	p.GalleryImages = s.urls(base, galleryNames)

	if err := s.profiles.Create(ctx, p); err != nil {
		delta.Rollback(ctx)
		s.respondError(c, err, "Failed to create profile")
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"message": "Profile created successfully",
		"data":    p,
	})
}

// PUT /profiles/:id
func (s *Server) updateProfile(c *gin.Context) {
	ctx := c.Request.Context()

	if err := readForm(c); err != nil {
		s.respondError(c, err, "Failed to update profile")
		return
	}
	p, err := s.profiles.FindByID(ctx, c.Param("id"))
	if err != nil {
		s.respondError(c, err, "Failed to update profile")
		return
	}

	fields, err := s.updateFields(c)
	if err != nil {
		s.respondError(c, err, "Failed to update profile")
		return
	}
	if err := applyFields(p, fields); err != nil {
		s.respondError(c, err, "Failed to update profile")
		return
	}

	mains, gallery := s.uploadedFiles(c)
	if err := s.checkUploads(mains, gallery); err != nil {
		s.respondError(c, err, "Failed to update profile")
		return
	}

	delta := images.NewDelta(s.images, s.log)
	base := baseURL(c)
	if len(mains) > 0 {
		name, err := delta.Save(ctx, mains[0])
		if err != nil {
			delta.Rollback(ctx)
			s.respondError(c, err, "Failed to update profile")
			return
		}
		delta.Replace(p.ImageURL)
		p.ImageURL = s.images.URL(base, name)
	}
	if len(gallery) > 0 {
		names, err := delta.SaveAll(ctx, gallery)
		if err != nil {
			delta.Rollback(ctx)
			s.respondError(c, err, "Failed to update profile")
			return
		}
		delta.Replace(p.GalleryImages...)
		p.GalleryImages = s.urls(base, names)
	}

	if err := s.profiles.Update(ctx, p); err != nil {
		delta.Rollback(ctx)
		s.respondError(c, err, "Failed to update profile")
		return
	}
	delta.Commit(ctx)

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Profile updated successfully",
		"data":    p,
	})
}

// DELETE /profiles/:id
func (s *Server) deleteProfile(c *gin.Context) {
	ctx := c.Request.Context()

	p, err := s.profiles.FindByID(ctx, c.Param("id"))
	if err != nil {
		s.respondError(c, err, "Failed to delete profile")
		return
	}
	if err := s.profiles.Delete(ctx, p.ID); err != nil {
		s.respondError(c, err, "Failed to delete profile")
		return
	}

	delta := images.NewDelta(s.images, s.log)
	delta.Replace(p.ImageURLs()...)
	delta.Commit(ctx)

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Profile and images deleted successfully"})
}

// readForm parses a multipart body before any field is read, so a body cut
// short by the size limit is reported rather than seen as missing fields.
func readForm(c *gin.Context) error {
	if c.ContentType() != gin.MIMEMultipartPOSTForm {
		return nil
	}
	if _, err := c.MultipartForm(); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return errBodyTooLarge
		}
		return badRequest("Malformed multipart body")
	}
	return nil
}

// uploadedFiles returns the main and gallery parts of a multipart request.
// Non-multipart requests have neither.
func (s *Server) uploadedFiles(c *gin.Context) (mains, gallery []*multipart.FileHeader) {
	form, err := c.MultipartForm()
	if err != nil || form == nil {
		return nil, nil
	}
	return form.File[fieldMainImage], form.File[fieldGalleryImages]
}

// checkUploads rejects a request before any file is written.
func (s *Server) checkUploads(mains, gallery []*multipart.FileHeader) error {
	if len(mains) > 1 {
		return badRequest("Only one main image is allowed")
	}
	limit := s.cfg.MaxUploadMB << 20
	for _, fh := range append(append([]*multipart.FileHeader{}, mains...), gallery...) {
		if !images.Allowed(fh.Filename) {
			return images.ErrUnsupportedType
		}
		if fh.Size > limit {
			return badRequest(fmt.Sprintf("Image %s exceeds %d MB", fh.Filename, s.cfg.MaxUploadMB))
		}
	}
	return nil
}

func (s *Server) urls(base string, names []string) models.StringArray {
	urls := make(models.StringArray, 0, len(names))
	for _, n := range names {
		urls = append(urls, s.images.URL(base, n))
	}
	return urls
}

// updateFields collects the mutable fields present in a form or JSON body.
// JSON scalars are rendered to their form representation.
func (s *Server) updateFields(c *gin.Context) (map[string]string, error) {
	fields := map[string]string{}
	if c.ContentType() == gin.MIMEJSON {
		var body map[string]any
		if err := c.ShouldBindJSON(&body); err != nil {
			return nil, badRequest("Malformed JSON body")
		}
		for _, k := range mutableFields {
			if v, ok := body[k]; ok && v != nil {
				fields[k] = fmt.Sprint(v)
			}
		}
		return fields, nil
	}

	for _, k := range mutableFields {
		if v, ok := c.GetPostForm(k); ok {
			fields[k] = v
		}
	}
	return fields, nil
}

var mutableFields = []string{"name", "age", "height", "complexion", "location", "description", "contactInfo", "isFeatured"}

func applyFields(p *models.Profile, fields map[string]string) error {
	for k, v := range fields {
		switch k {
		case "name":
			p.Name = v
		case "age":
			age, err := parseAge(v)
			if err != nil {
				return err
			}
			p.Age = age
		case "height":
			p.Height = v
		case "complexion":
			p.Complexion = models.Complexion(v)
		case "location":
			p.Location = v
		case "description":
			p.Description = v
		case "contactInfo":
			p.ContactInfo = v
		case "isFeatured":
			p.IsFeatured = v == "true"
		}
	}
	return nil
}

func parseAge(v string) (int, error) {
	age, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil {
		return 0, models.NewValidationError("age", "Age must be a whole number")
	}
	return age, nil
}

func queryInt(c *gin.Context, key string) (*int, error) {
	raw := strings.TrimSpace(c.Query(key))
	if raw == "" {
		return nil, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return nil, badRequest(key + " must be a whole number")
	}
	return &n, nil
}

// baseURL is the scheme and host the request arrived on. A forwarded scheme
// other than http or https is ignored.
func baseURL(c *gin.Context) string {
	scheme := "http"
	if c.Request.TLS != nil {
		scheme = "https"
	}
	if proto := c.GetHeader("X-Forwarded-Proto"); proto != "" {
		switch p := strings.ToLower(strings.TrimSpace(strings.Split(proto, ",")[0])); p {
		case "http", "https":
			scheme = p
		}
	}
	return scheme + "://" + c.Request.Host
}

func boolPtr(b bool) *bool { return &b }
