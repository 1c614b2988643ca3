package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"profile-listing-go/internal/images"
	"profile-listing-go/internal/models"
	"profile-listing-go/internal/store"
)

// requestError is a client mistake reported verbatim with a 400.
type requestError struct {
	msg string
}

func (e *requestError) Error() string { return e.msg }

func badRequest(msg string) error { return &requestError{msg: msg} }

var errBodyTooLarge = errors.New("request body too large")

func fail(c *gin.Context, status int, msg string) {
	c.JSON(status, gin.H{"success": false, "message": msg})
}

// respondError maps err onto the response taxonomy. fallback is the message
// used for unexpected failures, which are logged but never echoed.
func (s *Server) respondError(c *gin.Context, err error, fallback string) {
	var verr *models.ValidationError
	var rerr *requestError
	switch {
	case errors.As(err, &verr):
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"message": "Validation failed",
			"errors":  verr.Messages,
		})
	case errors.Is(err, errBodyTooLarge):
		fail(c, http.StatusRequestEntityTooLarge, "Upload is too large")
	case errors.As(err, &rerr):
		fail(c, http.StatusBadRequest, rerr.msg)
	case errors.Is(err, store.ErrInvalidID):
		fail(c, http.StatusBadRequest, "Invalid profile ID format")
	case errors.Is(err, store.ErrNotFound):
		fail(c, http.StatusNotFound, "Profile not found")
	case errors.Is(err, images.ErrUnsupportedType):
		fail(c, http.StatusBadRequest, "Only image files are allowed")
	default:
		s.log.Error(fallback,
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Error(err),
		)
		fail(c, http.StatusInternalServerError, fallback)
	}
}
