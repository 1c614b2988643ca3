package http

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"profile-listing-go/internal/auth"
)

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// POST /auth/login
func (s *Server) login(c *gin.Context) {
	var input loginRequest
	if err := c.ShouldBindJSON(&input); err != nil || strings.TrimSpace(input.Username) == "" || input.Password == "" {
		fail(c, http.StatusBadRequest, "Username and password are required")
		return
	}

	user, err := s.credentials.Authenticate(input.Username, input.Password)
	if err != nil {
		if errors.Is(err, auth.ErrInvalidCredentials) {
			fail(c, http.StatusUnauthorized, "Invalid username or password")
			return
		}
		s.respondError(c, err, "Server error during login")
		return
	}

	token, _, err := s.tokens.Issue(user)
	if err != nil {
		s.respondError(c, err, "Server error during login")
		return
	}

	s.log.Info("admin login", zap.String("username", user.Username))
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Login successful",
		"token":   token,
		"user":    user,
	})
}
