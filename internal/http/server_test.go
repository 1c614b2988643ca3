package http

import (
	"bytes"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"profile-listing-go/internal/auth"
	"profile-listing-go/internal/config"
	"profile-listing-go/internal/images"
	"profile-listing-go/internal/models"
)

const testSecret = "test-secret"

func init() {
	gin.SetMode(gin.TestMode)
}

type testEnv struct {
	router   *gin.Engine
	profiles *memoryProfiles
	images   *images.LocalStore
	token    string
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	creds, err := auth.NewCredentials([]auth.Pair{{Username: "admin", Password: "correct-horse"}}, bcrypt.MinCost)
	require.NoError(t, err)
	tokens := auth.NewTokens(testSecret, 0)
	local, err := images.NewLocalStore(t.TempDir())
	require.NoError(t, err)

	profiles := newMemoryProfiles()
	cfg := &config.Config{ClientURL: "*", MaxUploadMB: 1}
	router := NewServer(cfg, Deps{
		Profiles:    profiles,
		Images:      local,
		Credentials: creds,
		Tokens:      tokens,
	})

	token, _, err := tokens.Issue(&auth.User{Username: "admin", Role: auth.RoleAdmin})
	require.NoError(t, err)
	return &testEnv{router: router, profiles: profiles, images: local, token: token}
}

type envelope struct {
	Success       bool            `json:"success"`
	Message       string          `json:"message"`
	Count         int             `json:"count"`
	Errors        []string        `json:"errors"`
	ContactClicks int             `json:"contactClicks"`
	Token         string          `json:"token"`
	User          *auth.User      `json:"user"`
	Data          json.RawMessage `json:"data"`
}

func (e *testEnv) do(t *testing.T, req *http.Request) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	var body envelope
	if strings.HasPrefix(w.Header().Get("Content-Type"), "application/json") {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	}
	return w, body
}

func (e *testEnv) authed(req *http.Request) *http.Request {
	req.Header.Set("Authorization", "Bearer "+e.token)
	return req
}

type upload struct {
	field, name string
}

func multipartRequest(t *testing.T, method, target string, fields map[string]string, files ...upload) *http.Request {
	t.Helper()
	body := &bytes.Buffer{}
	w := multipart.NewWriter(body)
	for k, v := range fields {
		require.NoError(t, w.WriteField(k, v))
	}
	for _, f := range files {
		part, err := w.CreateFormFile(f.field, f.name)
		require.NoError(t, err)
		_, err = io.WriteString(part, "image-bytes")
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())

	req := httptest.NewRequest(method, target, body)
	req.Header.Set("Content-Type", w.FormDataContentType())
	return req
}

func validFields() map[string]string {
	return map[string]string{
		"name":        "  Meera  ",
		"age":         "27",
		"height":      "5'6\"",
		"complexion":  "Wheatish",
		"location":    "Pune",
		"description": "Warm, curious and easy to talk to.",
		"contactInfo": "+91 98765 43210",
		"isFeatured":  "true",
	}
}

func (e *testEnv) files(t *testing.T) []string {
	t.Helper()
	entries, err := os.ReadDir(e.images.Dir())
	require.NoError(t, err)
	names := make([]string, 0, len(entries))
	for _, de := range entries {
		names = append(names, de.Name())
	}
	return names
}

// storeFile writes a file into the upload dir and returns its public URL.
func (e *testEnv) storeFile(t *testing.T, name string) string {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(e.images.Dir(), name), []byte("x"), 0o644))
	return "http://example.com/uploads/" + name
}

func decodeProfile(t *testing.T, raw json.RawMessage) models.Profile {
	t.Helper()
	var p models.Profile
	require.NoError(t, json.Unmarshal(raw, &p))
	return p
}

func TestCreateProfile(t *testing.T) {
	env := newTestEnv(t)
	req := env.authed(multipartRequest(t, http.MethodPost, "/profiles", validFields(),
		upload{"mainImage", "main.jpg"},
		upload{"galleryImages", "g1.png"},
		upload{"galleryImages", "g2.webp"},
	))

	w, body := env.do(t, req)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	assert.True(t, body.Success)
	assert.Equal(t, "Profile created successfully", body.Message)

	p := decodeProfile(t, body.Data)
	assert.Equal(t, "Meera", p.Name)
	assert.Equal(t, 27, p.Age)
	assert.True(t, p.IsFeatured)
	assert.Zero(t, p.ContactClicks)
	assert.True(t, strings.HasPrefix(p.ImageURL, "http://example.com/uploads/"))
	assert.Len(t, p.GalleryImages, 2)
	assert.Len(t, env.files(t), 3)
	assert.ElementsMatch(t, env.files(t), []string{
		images.NameFromURL(p.ImageURL),
		images.NameFromURL(p.GalleryImages[0]),
		images.NameFromURL(p.GalleryImages[1]),
	})
}

func TestCreateProfileHonoursForwardedProto(t *testing.T) {
	env := newTestEnv(t)
	req := env.authed(multipartRequest(t, http.MethodPost, "/profiles", validFields(), upload{"mainImage", "main.jpg"}))
	req.Header.Set("X-Forwarded-Proto", "https")

	w, body := env.do(t, req)
	require.Equal(t, http.StatusCreated, w.Code)
	assert.True(t, strings.HasPrefix(decodeProfile(t, body.Data).ImageURL, "https://example.com/uploads/"))
}

func TestCreateProfileIgnoresUnknownForwardedProto(t *testing.T) {
	env := newTestEnv(t)
	for _, proto := range []string{"javascript:alert(1)//", "ftp", "https://evil"} {
		req := env.authed(multipartRequest(t, http.MethodPost, "/profiles", validFields(), upload{"mainImage", "main.jpg"}))
		req.Header.Set("X-Forwarded-Proto", proto)

		w, body := env.do(t, req)
		require.Equal(t, http.StatusCreated, w.Code, proto)
		assert.True(t, strings.HasPrefix(decodeProfile(t, body.Data).ImageURL, "http://example.com/uploads/"), proto)
	}
}

func TestCreateProfileRejectsOversizedBody(t *testing.T) {
	env := newTestEnv(t)
	big := strings.Repeat("x", int(uploadLimit(1))+1)

	t.Run("declared length", func(t *testing.T) {
		req := env.authed(multipartRequest(t, http.MethodPost, "/profiles", map[string]string{"description": big}))
		w, body := env.do(t, req)
		assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
		assert.Equal(t, "Upload is too large", body.Message)
	})

	t.Run("streamed", func(t *testing.T) {
		req := env.authed(multipartRequest(t, http.MethodPost, "/profiles", map[string]string{"description": big}))
		req.Body = io.NopCloser(io.MultiReader(req.Body))
		req.ContentLength = -1
		w, body := env.do(t, req)
		assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
		assert.Equal(t, "Upload is too large", body.Message)
	})

	assert.Empty(t, env.profiles.rows)
	assert.Empty(t, env.files(t))
}

func TestCreateProfileRequiresMainImage(t *testing.T) {
	env := newTestEnv(t)
	req := env.authed(multipartRequest(t, http.MethodPost, "/profiles", validFields(), upload{"galleryImages", "g.jpg"}))

	w, body := env.do(t, req)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Main image is required", body.Message)
	assert.Empty(t, env.files(t))
}

func TestCreateProfileRequiresAllFields(t *testing.T) {
	env := newTestEnv(t)
	fields := validFields()
	delete(fields, "height")
	req := env.authed(multipartRequest(t, http.MethodPost, "/profiles", fields, upload{"mainImage", "main.jpg"}))

	w, body := env.do(t, req)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "All fields are required", body.Message)
	assert.Empty(t, env.files(t))
}

func TestCreateProfileValidationRollsBackFiles(t *testing.T) {
	env := newTestEnv(t)
	fields := validFields()
	fields["age"] = "17"
	fields["complexion"] = "Green"
	req := env.authed(multipartRequest(t, http.MethodPost, "/profiles", fields,
		upload{"mainImage", "main.jpg"},
		upload{"galleryImages", "g1.jpg"},
	))

	w, body := env.do(t, req)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, []string{
		"Age must be at least 18",
		"Complexion must be one of: Fair, Medium, Wheatish, Olive, Dark",
	}, body.Errors)
	assert.Empty(t, env.files(t))
}

func TestCreateProfileTooManyGalleryImages(t *testing.T) {
	env := newTestEnv(t)
	files := []upload{{"mainImage", "main.jpg"}}
	for i := 0; i < 6; i++ {
		files = append(files, upload{"galleryImages", "g.jpg"})
	}
	req := env.authed(multipartRequest(t, http.MethodPost, "/profiles", validFields(), files...))

	w, body := env.do(t, req)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, []string{"Cannot upload more than 5 gallery images"}, body.Errors)
	assert.Empty(t, env.files(t))
}

func TestCreateProfileRejectsNonImages(t *testing.T) {
	env := newTestEnv(t)
	req := env.authed(multipartRequest(t, http.MethodPost, "/profiles", validFields(), upload{"mainImage", "cv.pdf"}))

	w, body := env.do(t, req)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Only image files are allowed", body.Message)
	assert.Empty(t, env.files(t))
}

func TestCreateProfileNonNumericAge(t *testing.T) {
	env := newTestEnv(t)
	fields := validFields()
	fields["age"] = "twenty"
	req := env.authed(multipartRequest(t, http.MethodPost, "/profiles", fields, upload{"mainImage", "main.jpg"}))

	w, body := env.do(t, req)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, []string{"Age must be a whole number"}, body.Errors)
}

func TestAdminRoutesRejectBadTokens(t *testing.T) {
	env := newTestEnv(t)

	sign := func(role string, issued time.Time) string {
		claims := &auth.Claims{
			Username: "admin",
			Role:     role,
			RegisteredClaims: jwt.RegisteredClaims{
				Issuer:    "profile-listing",
				IssuedAt:  jwt.NewNumericDate(issued),
				ExpiresAt: jwt.NewNumericDate(issued.Add(24 * time.Hour)),
			},
		}
		s, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
		require.NoError(t, err)
		return s
	}

	p := env.profiles.seed(models.Profile{Name: "Kept", Age: 30, Location: "Pune"})
	target := "/profiles/" + p.ID.String()

	cases := map[string]string{
		"missing":    "",
		"not bearer": "Token " + env.token,
		"garbage":    "Bearer abc.def.ghi",
		"expired":    "Bearer " + sign(auth.RoleAdmin, time.Now().Add(-25*time.Hour)),
		"wrong role": "Bearer " + sign("viewer", time.Now()),
		"tampered":   "Bearer " + env.token + "x",
	}
	routes := []struct{ method, target string }{
		{http.MethodPost, "/profiles"},
		{http.MethodPut, target},
		{http.MethodDelete, target},
		{http.MethodGet, "/profiles/stats"},
	}
	for name, header := range cases {
		for _, rt := range routes {
			t.Run(name+" "+rt.method+" "+rt.target, func(t *testing.T) {
				req := multipartRequest(t, rt.method, rt.target, validFields(), upload{"mainImage", "main.jpg"})
				if header != "" {
					req.Header.Set("Authorization", header)
				}
				w, body := env.do(t, req)
				assert.Equal(t, http.StatusUnauthorized, w.Code)
				assert.Equal(t, "Not authorized", body.Message)
			})
		}
	}
	assert.Equal(t, "Kept", env.profiles.get(p.ID).Name)
	assert.Len(t, env.profiles.rows, 1)
	assert.Empty(t, env.files(t))

	req := httptest.NewRequest(http.MethodGet, "/profiles/stats", nil)
	req.Header.Set("Authorization", "Bearer "+sign(auth.RoleAdmin, time.Now()))
	w, _ := env.do(t, req)
	assert.Equal(t, http.StatusOK, w.Code, "a fresh admin token is accepted")
}

func TestListProfilesFeatured(t *testing.T) {
	env := newTestEnv(t)
	env.profiles.seed(models.Profile{Name: "A", Age: 25, Location: "Pune", IsFeatured: true})
	env.profiles.seed(models.Profile{Name: "B", Age: 26, Location: "Delhi"})
	env.profiles.seed(models.Profile{Name: "C", Age: 27, Location: "Goa", IsFeatured: true})

	w, body := env.do(t, httptest.NewRequest(http.MethodGet, "/profiles?featured=true", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 2, body.Count)

	var got []models.Profile
	require.NoError(t, json.Unmarshal(body.Data, &got))
	require.Len(t, got, 2)
	for _, p := range got {
		assert.True(t, p.IsFeatured)
	}
	assert.Equal(t, "C", got[0].Name, "newest first")

	w, body = env.do(t, httptest.NewRequest(http.MethodGet, "/profiles", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 3, body.Count)
}

func TestListProfilesStoreFailure(t *testing.T) {
	env := newTestEnv(t)
	env.profiles.findErr = errors.New("connection refused")

	w, body := env.do(t, httptest.NewRequest(http.MethodGet, "/profiles", nil))
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, "Server error while fetching profiles", body.Message)
	assert.NotContains(t, w.Body.String(), "connection refused")
}

func TestSearchProfiles(t *testing.T) {
	env := newTestEnv(t)
	env.profiles.seed(models.Profile{Name: "Asha", Age: 22, Location: "Navi Mumbai"})
	env.profiles.seed(models.Profile{Name: "Bina", Age: 35, Location: "mumbai"})
	env.profiles.seed(models.Profile{Name: "Chitra", Age: 29, Location: "Pune"})

	w, body := env.do(t, httptest.NewRequest(http.MethodGet, "/profiles/search", nil))
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Location is required for search", body.Message)

	w, body = env.do(t, httptest.NewRequest(http.MethodGet, "/profiles/search?location=MUMBAI", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 2, body.Count)

	w, body = env.do(t, httptest.NewRequest(http.MethodGet, "/profiles/search?location=mumbai&ageMin=30&ageMax=40", nil))
	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, 1, body.Count)
	var got []models.Profile
	require.NoError(t, json.Unmarshal(body.Data, &got))
	assert.Equal(t, "Bina", got[0].Name)

	w, _ = env.do(t, httptest.NewRequest(http.MethodGet, "/profiles/search?location=mumbai&ageMin=old", nil))
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGetProfile(t *testing.T) {
	env := newTestEnv(t)
	p := env.profiles.seed(models.Profile{Name: "A", Age: 25, Location: "Pune"})

	w, body := env.do(t, httptest.NewRequest(http.MethodGet, "/profiles/"+p.ID.String(), nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, p.ID, decodeProfile(t, body.Data).ID)

	w, body = env.do(t, httptest.NewRequest(http.MethodGet, "/profiles/not-an-id", nil))
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Invalid profile ID format", body.Message)

	w, body = env.do(t, httptest.NewRequest(http.MethodGet, "/profiles/"+models.Profile{}.ID.String(), nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "Profile not found", body.Message)
}

func TestRecordClickTwice(t *testing.T) {
	env := newTestEnv(t)
	p := env.profiles.seed(models.Profile{Name: "A", Age: 25, Location: "Pune", ContactClicks: 4})
	target := "/profiles/" + p.ID.String() + "/click"

	w, body := env.do(t, httptest.NewRequest(http.MethodPatch, target, nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 5, body.ContactClicks)
	assert.Equal(t, "Contact click recorded", body.Message)

	_, body = env.do(t, httptest.NewRequest(http.MethodPatch, target, nil))
	assert.Equal(t, 6, body.ContactClicks)

	w, _ = env.do(t, httptest.NewRequest(http.MethodPatch, "/profiles/"+models.Profile{}.ID.String()+"/click", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func seedWithImages(t *testing.T, env *testEnv, gallery int) models.Profile {
	t.Helper()
	p := models.Profile{
		Name:        "Existing",
		Age:         30,
		Height:      "5'4\"",
		Complexion:  models.ComplexionFair,
		Location:    "Pune",
		Description: "A description long enough.",
		ContactInfo: "12345",
		ImageURL:    env.storeFile(t, "old-main.jpg"),
	}
	for i := 0; i < gallery; i++ {
		p.GalleryImages = append(p.GalleryImages, env.storeFile(t, "old-g"+string(rune('a'+i))+".jpg"))
	}
	return env.profiles.seed(p)
}

func TestUpdateProfileReplacesImages(t *testing.T) {
	env := newTestEnv(t)
	p := seedWithImages(t, env, 2)

	req := env.authed(multipartRequest(t, http.MethodPut, "/profiles/"+p.ID.String(),
		map[string]string{"name": "Renamed", "age": "31", "isFeatured": "true"},
		upload{"mainImage", "new.png"},
		upload{"galleryImages", "n1.png"},
	))
	w, body := env.do(t, req)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, "Profile updated successfully", body.Message)

	got := env.profiles.get(p.ID)
	assert.Equal(t, "Renamed", got.Name)
	assert.Equal(t, 31, got.Age)
	assert.True(t, got.IsFeatured)
	assert.Equal(t, p.Location, got.Location)
	require.Len(t, got.GalleryImages, 1)
	assert.ElementsMatch(t, []string{
		images.NameFromURL(got.ImageURL),
		images.NameFromURL(got.GalleryImages[0]),
	}, env.files(t))
}

func TestUpdateProfileFailureKeepsOldImages(t *testing.T) {
	env := newTestEnv(t)
	p := seedWithImages(t, env, 1)
	before := env.files(t)

	req := env.authed(multipartRequest(t, http.MethodPut, "/profiles/"+p.ID.String(),
		map[string]string{"age": "10"},
		upload{"mainImage", "new.png"},
	))
	w, body := env.do(t, req)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, []string{"Age must be at least 18"}, body.Errors)
	assert.ElementsMatch(t, before, env.files(t))
	assert.Equal(t, p.ImageURL, env.profiles.get(p.ID).ImageURL)
}

func TestUpdateProfileStoreFailureRollsBack(t *testing.T) {
	env := newTestEnv(t)
	p := seedWithImages(t, env, 0)
	env.profiles.updateFn = func(*models.Profile) error { return errors.New("disk full") }

	req := env.authed(multipartRequest(t, http.MethodPut, "/profiles/"+p.ID.String(), nil,
		upload{"galleryImages", "n1.png"},
	))
	w, body := env.do(t, req)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, "Failed to update profile", body.Message)
	assert.Equal(t, []string{"old-main.jpg"}, env.files(t))
}

func TestUpdateProfileJSONBody(t *testing.T) {
	env := newTestEnv(t)
	p := seedWithImages(t, env, 0)

	req := env.authed(httptest.NewRequest(http.MethodPut, "/profiles/"+p.ID.String(),
		strings.NewReader(`{"location":"Goa","age":40,"isFeatured":true}`)))
	req.Header.Set("Content-Type", "application/json")

	w, _ := env.do(t, req)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	got := env.profiles.get(p.ID)
	assert.Equal(t, "Goa", got.Location)
	assert.Equal(t, 40, got.Age)
	assert.True(t, got.IsFeatured)
	assert.Equal(t, []string{"old-main.jpg"}, env.files(t))
}

func TestUpdateProfileURLEncoded(t *testing.T) {
	env := newTestEnv(t)
	p := seedWithImages(t, env, 0)

	form := url.Values{"height": {"6'0\""}, "isFeatured": {"yes"}}
	req := env.authed(httptest.NewRequest(http.MethodPut, "/profiles/"+p.ID.String(), strings.NewReader(form.Encode())))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	w, _ := env.do(t, req)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	got := env.profiles.get(p.ID)
	assert.Equal(t, "6'0\"", got.Height)
	assert.False(t, got.IsFeatured)
}

func TestUpdateMissingProfile(t *testing.T) {
	env := newTestEnv(t)
	req := env.authed(multipartRequest(t, http.MethodPut, "/profiles/"+models.Profile{}.ID.String(),
		map[string]string{"name": "Nobody"}, upload{"mainImage", "new.png"}))

	w, _ := env.do(t, req)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Empty(t, env.files(t))
}

func TestDeleteProfileRemovesAllImages(t *testing.T) {
	env := newTestEnv(t)
	p := seedWithImages(t, env, 3)
	require.Len(t, env.files(t), 4)

	w, body := env.do(t, env.authed(httptest.NewRequest(http.MethodDelete, "/profiles/"+p.ID.String(), nil)))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Profile and images deleted successfully", body.Message)
	assert.Empty(t, env.files(t))

	w, _ = env.do(t, httptest.NewRequest(http.MethodGet, "/profiles/"+p.ID.String(), nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestDeleteProfileWithMissingFiles(t *testing.T) {
	env := newTestEnv(t)
	p := seedWithImages(t, env, 2)
	for _, n := range env.files(t) {
		require.NoError(t, os.Remove(filepath.Join(env.images.Dir(), n)))
	}

	w, _ := env.do(t, env.authed(httptest.NewRequest(http.MethodDelete, "/profiles/"+p.ID.String(), nil)))
	assert.Equal(t, http.StatusOK, w.Code)

	w, _ = env.do(t, env.authed(httptest.NewRequest(http.MethodDelete, "/profiles/"+p.ID.String(), nil)))
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func newLoginRequest(body string) *http.Request {
	req := httptest.NewRequest(http.MethodPost, "/auth/login", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	return req
}

func TestLogin(t *testing.T) {
	env := newTestEnv(t)

	w, body := env.do(t, newLoginRequest(`{"username":" admin ","password":"correct-horse"}`))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Login successful", body.Message)
	assert.Equal(t, &auth.User{Username: "admin", Role: auth.RoleAdmin}, body.User)

	req := httptest.NewRequest(http.MethodGet, "/profiles/stats", nil)
	req.Header.Set("Authorization", "Bearer "+body.Token)
	w, _ = env.do(t, req)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestLoginFailuresLookAlike(t *testing.T) {
	env := newTestEnv(t)

	unknownW, unknown := env.do(t, newLoginRequest(`{"username":"ghost","password":"correct-horse"}`))
	wrongW, wrong := env.do(t, newLoginRequest(`{"username":"admin","password":"nope"}`))

	assert.Equal(t, http.StatusUnauthorized, unknownW.Code)
	assert.Equal(t, unknownW.Code, wrongW.Code)
	assert.Equal(t, "Invalid username or password", unknown.Message)
	assert.Equal(t, unknown, wrong)
}

func TestLoginMissingFields(t *testing.T) {
	env := newTestEnv(t)
	for _, b := range []string{`{}`, `{"username":"admin"}`, `{"password":"x"}`, `not json`} {
		w, body := env.do(t, newLoginRequest(b))
		assert.Equal(t, http.StatusBadRequest, w.Code, b)
		assert.Equal(t, "Username and password are required", body.Message)
	}
}

func TestProfileStats(t *testing.T) {
	env := newTestEnv(t)
	env.profiles.seed(models.Profile{Name: "A", Age: 25, Location: "Pune", IsFeatured: true, ContactClicks: 2})
	env.profiles.seed(models.Profile{Name: "B", Age: 26, Location: "Pune", ContactClicks: 3})
	env.profiles.seed(models.Profile{Name: "C", Age: 27, Location: "Goa"})

	w, body := env.do(t, env.authed(httptest.NewRequest(http.MethodGet, "/profiles/stats?top=1", nil)))
	require.Equal(t, http.StatusOK, w.Code)

	var stats struct {
		TotalProfiles      int            `json:"totalProfiles"`
		FeaturedCount      int            `json:"featuredCount"`
		TotalContactClicks int            `json:"totalContactClicks"`
		LocationCounts     map[string]int `json:"locationCounts"`
		TopLocations       []struct {
			Location string `json:"location"`
			Count    int    `json:"count"`
		} `json:"topLocations"`
		MostContacted []models.Profile `json:"mostContacted"`
	}
	require.NoError(t, json.Unmarshal(body.Data, &stats))
	assert.Equal(t, 3, stats.TotalProfiles)
	assert.Equal(t, 1, stats.FeaturedCount)
	assert.Equal(t, 5, stats.TotalContactClicks)
	assert.Equal(t, map[string]int{"Pune": 2, "Goa": 1}, stats.LocationCounts)
	require.Len(t, stats.TopLocations, 1)
	assert.Equal(t, "Pune", stats.TopLocations[0].Location)
	require.Len(t, stats.MostContacted, 1)
	assert.Equal(t, "B", stats.MostContacted[0].Name)
}

func TestHealthAndUploads(t *testing.T) {
	env := newTestEnv(t)

	w := httptest.NewRecorder()
	env.router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"ok":true}`, w.Body.String())

	env.storeFile(t, "served.jpg")
	w = httptest.NewRecorder()
	env.router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/uploads/served.jpg", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "x", w.Body.String())
}

func TestAPIPrefix(t *testing.T) {
	local, err := images.NewLocalStore(t.TempDir())
	require.NoError(t, err)
	router := NewServer(&config.Config{APIPrefix: "/api", MaxUploadMB: 1}, Deps{
		Profiles: newMemoryProfiles(),
		Images:   local,
		Tokens:   auth.NewTokens(testSecret, 0),
	})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/profiles", nil))
	assert.Equal(t, http.StatusOK, w.Code)

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/profiles", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
}
