package auth

import (
	"strings"

	"github.com/pkg/errors"
	"golang.org/x/crypto/bcrypt"
)

// RoleAdmin is the only role issued by this service.
const RoleAdmin = "admin"

var (
	// ErrInvalidCredentials covers both unknown users and wrong passwords.
	ErrInvalidCredentials = errors.New("invalid username or password")
	// ErrNoAdmins is returned when the credential table would be empty.
	ErrNoAdmins = errors.New("no admin credentials configured")
)

// User is the public view of an authenticated admin.
type User struct {
	Username string `json:"username"`
	Role     string `json:"role"`
}

type credential struct {
	username     string
	passwordHash []byte
	role         string
}

// Credentials is the read-only admin allowlist, built once at startup.
type Credentials struct {
	admins    []credential
	dummyHash []byte
}

// Pair is a plaintext username/password taken from configuration.
type Pair struct {
	Username string
	Password string
}

// NewCredentials hashes every pair with bcrypt. Plaintext passwords are not retained.
func NewCredentials(pairs []Pair, cost int) (*Credentials, error) {
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	c := &Credentials{}
	for _, p := range pairs {
		username, password := strings.TrimSpace(p.Username), strings.TrimSpace(p.Password)
		if username == "" || password == "" {
			continue
		}
		hash, err := bcrypt.GenerateFromPassword([]byte(password), cost)
		if err != nil {
			return nil, errors.Wrapf(err, "hash password for %q", username)
		}
		c.admins = append(c.admins, credential{username: username, passwordHash: hash, role: RoleAdmin})
	}
	if len(c.admins) == 0 {
		return nil, ErrNoAdmins
	}

	dummy, err := bcrypt.GenerateFromPassword([]byte("not-a-real-password"), cost)
	if err != nil {
		return nil, errors.Wrap(err, "hash dummy password")
	}
	c.dummyHash = dummy
	return c, nil
}

// Len reports how many admins are configured.
func (c *Credentials) Len() int { return len(c.admins) }

// Authenticate checks a username/password pair against the allowlist.
func (c *Credentials) Authenticate(username, password string) (*User, error) {
	username = strings.TrimSpace(username)

	var found *credential
	for i := range c.admins {
		if c.admins[i].username == username {
			found = &c.admins[i]
			break
		}
	}

	if found == nil {
		// keep the bcrypt cost on the unknown-user path
		_ = bcrypt.CompareHashAndPassword(c.dummyHash, []byte(password))
		return nil, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword(found.passwordHash, []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}
	return &User{Username: found.username, Role: found.role}, nil
}
