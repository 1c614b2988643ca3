// Package session persists the command-line client's local state: the admin
// session, favorites and the disclaimer flag. Nothing here is authoritative;
// the server re-validates the token on every admin call.
package session

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/pkg/errors"

	"profile-listing-go/internal/auth"
)

type State struct {
	Token              string     `json:"token,omitempty"`
	User               *auth.User `json:"user,omitempty"`
	Favorites          []string   `json:"favorites"`
	DisclaimerAccepted bool       `json:"disclaimerAccepted"`

	path string
}

// DefaultPath is profilectl/state.json under the user config directory.
func DefaultPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", errors.Wrap(err, "locate config dir")
	}
	return filepath.Join(dir, "profilectl", "state.json"), nil
}

// Load reads the state at path. A missing file yields empty state.
func Load(path string) (*State, error) {
	s := &State{path: path, Favorites: []string{}}
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return s, nil
	}
	if err != nil {
		return nil, errors.Wrap(err, "read state")
	}
	if err := json.Unmarshal(data, s); err != nil {
		return nil, errors.Wrapf(err, "parse state %s", path)
	}
	if s.Favorites == nil {
		s.Favorites = []string{}
	}
	return s, nil
}

// Save writes the state atomically with owner-only permissions.
func (s *State) Save() error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return errors.Wrap(err, "create state dir")
	}
	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return errors.Wrap(err, "encode state")
	}
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return errors.Wrap(err, "write state")
	}
	return errors.Wrap(os.Rename(tmp, s.path), "replace state")
}

func (s *State) Path() string { return s.path }

func (s *State) LoggedIn() bool { return s.Token != "" }

func (s *State) SetSession(token string, u *auth.User) {
	s.Token = token
	s.User = u
}

func (s *State) ClearSession() {
	s.Token = ""
	s.User = nil
}

func (s *State) IsFavorite(id string) bool {
	for _, f := range s.Favorites {
		if f == id {
			return true
		}
	}
	return false
}

// ToggleFavorite adds or removes id and reports whether it is now a favorite.
func (s *State) ToggleFavorite(id string) bool {
	for i, f := range s.Favorites {
		if f == id {
			s.Favorites = append(s.Favorites[:i], s.Favorites[i+1:]...)
			return false
		}
	}
	s.Favorites = append(s.Favorites, id)
	return true
}
