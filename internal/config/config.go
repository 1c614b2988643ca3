package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
	"github.com/pkg/errors"

	"profile-listing-go/internal/auth"
)

type Config struct {
	Port        string        `envconfig:"PORT" default:"5000"`
	DatabaseURL string        `envconfig:"DATABASE_URL" required:"true"`
	JWTSecret   string        `envconfig:"JWT_SECRET" required:"true"`
	TokenTTL    time.Duration `envconfig:"TOKEN_TTL" default:"24h"`
	ClientURL   string        `envconfig:"CLIENT_URL" default:"*"`
	APIPrefix   string        `envconfig:"API_PREFIX" default:"/api"`
	UploadDir   string        `envconfig:"UPLOAD_DIR" default:"uploads"`
	MaxUploadMB int64         `envconfig:"MAX_UPLOAD_MB" default:"15"`
	LogLevel    string        `envconfig:"LOG_LEVEL" default:"info"`
	LogFormat   string        `envconfig:"LOG_FORMAT" default:"json"`

	ImageStore string `envconfig:"IMAGE_STORE" default:"local"`
	S3         S3

	// Admins is filled from ADMIN_USERNAME_<n>/ADMIN_PASSWORD_<n>, not by envconfig.
	Admins []auth.Pair `ignored:"true"`
}

type S3 struct {
	Bucket    string `envconfig:"S3_BUCKET_NAME"`
	Region    string `envconfig:"AWS_REGION" default:"us-east-1"`
	Endpoint  string `envconfig:"S3_ENDPOINT"`
	Prefix    string `envconfig:"S3_PREFIX" default:"profile-pics/"`
	PublicURL string `envconfig:"S3_PUBLIC_URL"`
	AccessKey string `envconfig:"AWS_ACCESS_KEY_ID"`
	SecretKey string `envconfig:"AWS_SECRET_ACCESS_KEY"`
}

// Load reads the process environment.
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, errors.Wrap(err, "load config")
	}

	// envconfig accepts a present but empty variable as set.
	if strings.TrimSpace(cfg.DatabaseURL) == "" {
		return nil, errors.New("DATABASE_URL is required")
	}
	if strings.TrimSpace(cfg.JWTSecret) == "" {
		return nil, errors.New("JWT_SECRET is required")
	}

	switch cfg.ImageStore {
	case "local", "s3":
	default:
		return nil, errors.Errorf("IMAGE_STORE must be local or s3, got %q", cfg.ImageStore)
	}
	if cfg.ImageStore == "s3" && cfg.S3.Bucket == "" {
		return nil, errors.New("S3_BUCKET_NAME is required when IMAGE_STORE=s3")
	}
	if cfg.MaxUploadMB <= 0 {
		return nil, errors.New("MAX_UPLOAD_MB must be positive")
	}
	cfg.APIPrefix = normalizePrefix(cfg.APIPrefix)
	cfg.Admins = AdminPairs(os.LookupEnv)
	return &cfg, nil
}

// AdminPairs scans ADMIN_USERNAME_1/ADMIN_PASSWORD_1, _2, ... and stops at the
// first index where neither variable is set. Values are trimmed; pairs with a
// blank half are skipped.
func AdminPairs(lookup func(string) (string, bool)) []auth.Pair {
	var pairs []auth.Pair
	for i := 1; ; i++ {
		user, hasUser := lookup(fmt.Sprintf("ADMIN_USERNAME_%d", i))
		pass, hasPass := lookup(fmt.Sprintf("ADMIN_PASSWORD_%d", i))
		if !hasUser && !hasPass {
			break
		}
		user, pass = strings.TrimSpace(user), strings.TrimSpace(pass)
		if user == "" || pass == "" {
			continue
		}
		pairs = append(pairs, auth.Pair{Username: user, Password: pass})
	}
	return pairs
}

// normalizePrefix turns "api", "/api/" and "/api" into "/api"; "/" becomes "".
func normalizePrefix(p string) string {
	p = strings.Trim(strings.TrimSpace(p), "/")
	if p == "" {
		return ""
	}
	return "/" + p
}
