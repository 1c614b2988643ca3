package http

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"profile-listing-go/internal/auth"
	"profile-listing-go/internal/config"
	"profile-listing-go/internal/images"
	"profile-listing-go/internal/models"
	"profile-listing-go/internal/store"
)

// Deps are the collaborators the handlers run against.
type Deps struct {
	Profiles    store.ProfileRepository
	Images      images.Store
	Credentials *auth.Credentials
	Tokens      *auth.Tokens
	Log         *zap.Logger
}

type Server struct {
	cfg         *config.Config
	profiles    store.ProfileRepository
	images      images.Store
	credentials *auth.Credentials
	tokens      *auth.Tokens
	log         *zap.Logger
}

func NewServer(cfg *config.Config, d Deps) *gin.Engine {
	log := d.Log
	if log == nil {
		log = zap.NewNop()
	}
	s := &Server{
		cfg:         cfg,
		profiles:    d.Profiles,
		images:      d.Images,
		credentials: d.Credentials,
		tokens:      d.Tokens,
		log:         log,
	}

	r := gin.New()
	r.MaxMultipartMemory = cfg.MaxUploadMB << 20
	r.Use(gin.Recovery())
	r.Use(corsMiddleware(cfg.ClientURL))
	r.Use(logging(log))

	api := r.Group(cfg.APIPrefix)
	api.POST("/auth/login", s.login)

	profiles := api.Group("/profiles")
	profiles.GET("", s.listProfiles)
	profiles.GET("/search", s.searchProfiles)
	profiles.GET("/:id", s.getProfile)
	profiles.PATCH("/:id/click", s.recordClick)

	admin := profiles.Group("")
	admin.Use(AdminOnly(s.tokens), limitBody(uploadLimit(cfg.MaxUploadMB)))
	{
		admin.GET("/stats", s.profileStats)
		admin.POST("", s.createProfile)
		admin.PUT("/:id", s.updateProfile)
		admin.DELETE("/:id", s.deleteProfile)
	}

	if local, ok := d.Images.(*images.LocalStore); ok {
		r.Static("/uploads", local.Dir())
	}
	r.GET("/health", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"ok": true}) })
	r.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "Profile listing API is running"})
	})
	return r
}

// uploadLimit bounds a whole request: a main image, a full gallery and a
// megabyte for the text fields.
func uploadLimit(maxUploadMB int64) int64 {
	return (models.MaxGalleryImages+1)*(maxUploadMB<<20) + 1<<20
}

// limitBody rejects bodies longer than limit. Declared lengths are refused up
// front; undeclared ones fail while being read.
func limitBody(limit int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.ContentLength > limit {
			c.AbortWithStatusJSON(http.StatusRequestEntityTooLarge, gin.H{"success": false, "message": "Upload is too large"})
			return
		}
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, limit)
		c.Next()
	}
}

func corsMiddleware(clientURL string) gin.HandlerFunc {
	cfg := cors.Config{
		AllowMethods: []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders: []string{"Origin", "Authorization", "Content-Type"},
		MaxAge:       12 * time.Hour,
	}
	if clientURL == "" || clientURL == "*" {
		cfg.AllowAllOrigins = true
	} else {
		cfg.AllowOrigins = []string{clientURL}
		cfg.AllowCredentials = true
	}
	return cors.New(cfg)
}

func logging(log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		log.Info("request",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)),
		)
	}
}
