// Package client is a typed HTTP client for the profile directory API.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/pkg/errors"

	"profile-listing-go/internal/auth"
	"profile-listing-go/internal/dashboard"
	"profile-listing-go/internal/models"
)

// ErrUnauthorized matches any APIError with status 401.
var ErrUnauthorized = errors.New("unauthorized")

// APIError is a non-2xx response from the service.
type APIError struct {
	Status  int
	Message string
	Errors  []string
}

func (e *APIError) Error() string {
	msg := e.Message
	if msg == "" {
		msg = http.StatusText(e.Status)
	}
	if len(e.Errors) > 0 {
		msg += ": " + strings.Join(e.Errors, "; ")
	}
	return "api error " + strconv.Itoa(e.Status) + ": " + msg
}

func (e *APIError) Is(target error) bool {
	return target == ErrUnauthorized && e.Status == http.StatusUnauthorized
}

type Client struct {
	baseURL string
	http    *http.Client
	token   string
}

// New returns a client for the API rooted at baseURL, e.g. http://localhost:5000/api.
func New(baseURL string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	}
	return &Client{baseURL: strings.TrimRight(baseURL, "/"), http: httpClient}
}

// SetToken sets the bearer token attached to every request. Empty clears it.
func (c *Client) SetToken(token string) { c.token = token }

type LoginResult struct {
	Token string     `json:"token"`
	User  *auth.User `json:"user"`
}

func (c *Client) Login(ctx context.Context, username, password string) (*LoginResult, error) {
	body, _ := json.Marshal(map[string]string{"username": username, "password": password})
	var out LoginResult
	if err := c.do(ctx, http.MethodPost, "/auth/login", nil, "application/json", bytes.NewReader(body), &out); err != nil {
		return nil, err
	}
	return &out, nil
}

type ListOptions struct {
	Featured   *bool
	Complexion string
	Location   string
	SortBy     string
	Order      string
}

func (o ListOptions) query() url.Values {
	q := url.Values{}
	if o.Featured != nil {
		q.Set("featured", strconv.FormatBool(*o.Featured))
	}
	setIf(q, "complexion", o.Complexion)
	setIf(q, "location", o.Location)
	setIf(q, "sortBy", o.SortBy)
	setIf(q, "order", o.Order)
	return q
}

func (c *Client) List(ctx context.Context, opts ListOptions) ([]models.Profile, error) {
	var out struct {
		Data []models.Profile `json:"data"`
	}
	if err := c.do(ctx, http.MethodGet, "/profiles", opts.query(), "", nil, &out); err != nil {
		return nil, err
	}
	return out.Data, nil
}

type SearchOptions struct {
	Location   string
	Name       string
	Complexion string
	AgeMin     *int
	AgeMax     *int
}

func (c *Client) Search(ctx context.Context, opts SearchOptions) ([]models.Profile, error) {
	q := url.Values{}
	q.Set("location", opts.Location)
	setIf(q, "name", opts.Name)
	setIf(q, "complexion", opts.Complexion)
	if opts.AgeMin != nil {
		q.Set("ageMin", strconv.Itoa(*opts.AgeMin))
	}
	if opts.AgeMax != nil {
		q.Set("ageMax", strconv.Itoa(*opts.AgeMax))
	}

	var out struct {
		Data []models.Profile `json:"data"`
	}
	if err := c.do(ctx, http.MethodGet, "/profiles/search", q, "", nil, &out); err != nil {
		return nil, err
	}
	return out.Data, nil
}

func (c *Client) Get(ctx context.Context, id string) (*models.Profile, error) {
	var out struct {
		Data models.Profile `json:"data"`
	}
	if err := c.do(ctx, http.MethodGet, "/profiles/"+url.PathEscape(id), nil, "", nil, &out); err != nil {
		return nil, err
	}
	return &out.Data, nil
}

// Click records a contact reveal and returns the new count.
func (c *Client) Click(ctx context.Context, id string) (int, error) {
	var out struct {
		ContactClicks int `json:"contactClicks"`
	}
	if err := c.do(ctx, http.MethodPatch, "/profiles/"+url.PathEscape(id)+"/click", nil, "", nil, &out); err != nil {
		return 0, err
	}
	return out.ContactClicks, nil
}

// File is an image to upload.
type File struct {
	Name    string
	Content io.Reader
}

// ProfileForm is a create or update submission. On update only the fields
// present are changed; a non-empty Gallery replaces the whole gallery.
type ProfileForm struct {
	Fields    map[string]string
	MainImage *File
	Gallery   []File
}

func (f ProfileForm) encode() (string, *bytes.Buffer, error) {
	buf := &bytes.Buffer{}
	mw := multipart.NewWriter(buf)
	for k, v := range f.Fields {
		if err := mw.WriteField(k, v); err != nil {
			return "", nil, err
		}
	}
	write := func(field string, file File) error {
		fw, err := mw.CreateFormFile(field, file.Name)
		if err != nil {
			return err
		}
		_, err = io.Copy(fw, file.Content)
		return errors.Wrapf(err, "read %s", file.Name)
	}
	if f.MainImage != nil {
		if err := write("mainImage", *f.MainImage); err != nil {
			return "", nil, err
		}
	}
	for _, g := range f.Gallery {
		if err := write("galleryImages", g); err != nil {
			return "", nil, err
		}
	}
	if err := mw.Close(); err != nil {
		return "", nil, err
	}
	return mw.FormDataContentType(), buf, nil
}

func (c *Client) Create(ctx context.Context, form ProfileForm) (*models.Profile, error) {
	return c.submit(ctx, http.MethodPost, "/profiles", form)
}

func (c *Client) Update(ctx context.Context, id string, form ProfileForm) (*models.Profile, error) {
	return c.submit(ctx, http.MethodPut, "/profiles/"+url.PathEscape(id), form)
}

func (c *Client) submit(ctx context.Context, method, path string, form ProfileForm) (*models.Profile, error) {
	contentType, body, err := form.encode()
	if err != nil {
		return nil, errors.Wrap(err, "encode form")
	}
	var out struct {
		Data models.Profile `json:"data"`
	}
	if err := c.do(ctx, method, path, nil, contentType, body, &out); err != nil {
		return nil, err
	}
	return &out.Data, nil
}

func (c *Client) Delete(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/profiles/"+url.PathEscape(id), nil, "", nil, nil)
}

type Stats struct {
	dashboard.Stats
	TopLocations  []dashboard.LocationCount `json:"topLocations"`
	MostContacted []models.Profile          `json:"mostContacted"`
}

// Stats fetches the server-side dashboard aggregate.
func (c *Client) Stats(ctx context.Context, top int) (*Stats, error) {
	q := url.Values{}
	if top > 0 {
		q.Set("top", strconv.Itoa(top))
	}
	var out struct {
		Data Stats `json:"data"`
	}
	if err := c.do(ctx, http.MethodGet, "/profiles/stats", q, "", nil, &out); err != nil {
		return nil, err
	}
	return &out.Data, nil
}

func (c *Client) do(ctx context.Context, method, path string, q url.Values, contentType string, body io.Reader, out any) error {
	target := c.baseURL + path
	if len(q) > 0 {
		target += "?" + q.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, method, target, body)
	if err != nil {
		return errors.Wrap(err, "build request")
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	req.Header.Set("Accept", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return errors.Wrapf(err, "%s %s", method, path)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		apiErr := &APIError{Status: resp.StatusCode}
		var env struct {
			Message string   `json:"message"`
			Errors  []string `json:"errors"`
		}
		if b, _ := io.ReadAll(resp.Body); json.Unmarshal(b, &env) == nil {
			apiErr.Message = env.Message
			apiErr.Errors = env.Errors
		}
		return apiErr
	}

	if out == nil {
		return nil
	}
	return errors.Wrap(json.NewDecoder(resp.Body).Decode(out), "decode response")
}

func setIf(q url.Values, key, v string) {
	if v != "" {
		q.Set(key, v)
	}
}
