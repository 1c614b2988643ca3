package main

import (
	"context"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"profile-listing-go/internal/auth"
	"profile-listing-go/internal/config"
	"profile-listing-go/internal/database"
	httpserver "profile-listing-go/internal/http"
	"profile-listing-go/internal/images"
	"profile-listing-go/internal/logging"
	"profile-listing-go/internal/store"
)

func main() {
	_ = godotenv.Load(".env")

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, "config:", err)
		os.Exit(1)
	}

	log, err := logging.New(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		fmt.Fprintln(os.Stderr, "logger:", err)
		os.Exit(1)
	}
	defer log.Sync()

	creds, err := auth.NewCredentials(cfg.Admins, bcrypt.DefaultCost)
	if err != nil {
		log.Fatal("no admin credentials configured; set ADMIN_USERNAME_1 and ADMIN_PASSWORD_1",
			zap.Error(err))
	}
	log.Info("admin credentials loaded", zap.Int("admins", creds.Len()))

	db, err := database.Connect(cfg.DatabaseURL, log)
	if err != nil {
		log.Fatal("database connection failed", zap.Error(err))
	}
	if err := database.Migrate(db); err != nil {
		log.Fatal("database migration failed", zap.Error(err))
	}

	imgs, err := newImageStore(cfg)
	if err != nil {
		log.Fatal("image store init failed", zap.Error(err))
	}

	r := httpserver.NewServer(cfg, httpserver.Deps{
		Profiles:    store.NewProfileStore(db),
		Images:      imgs,
		Credentials: creds,
		Tokens:      auth.NewTokens(cfg.JWTSecret, cfg.TokenTTL),
		Log:         log,
	})

	log.Info("listening",
		zap.String("port", cfg.Port),
		zap.String("prefix", cfg.APIPrefix),
		zap.String("images", cfg.ImageStore),
	)
	if err := r.Run(":" + cfg.Port); err != nil {
		log.Fatal("server stopped", zap.Error(err))
	}
}

func newImageStore(cfg *config.Config) (images.Store, error) {
	if cfg.ImageStore == "s3" {
		return images.NewS3Store(context.Background(), images.S3Config{
			Bucket:    cfg.S3.Bucket,
			Region:    cfg.S3.Region,
			Endpoint:  cfg.S3.Endpoint,
			Prefix:    cfg.S3.Prefix,
			PublicURL: cfg.S3.PublicURL,
			AccessKey: cfg.S3.AccessKey,
			SecretKey: cfg.S3.SecretKey,
		})
	}
	return images.NewLocalStore(cfg.UploadDir)
}
