package http

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"profile-listing-go/internal/dashboard"
	"profile-listing-go/internal/models"
	"profile-listing-go/internal/store"
)

type statsResponse struct {
	dashboard.Stats
	TopLocations  []dashboard.LocationCount `json:"topLocations"`
	MostContacted []models.Profile          `json:"mostContacted"`
}

// GET /profiles/stats
func (s *Server) profileStats(c *gin.Context) {
	profiles, err := s.profiles.Find(c.Request.Context(), store.Filter{})
	if err != nil {
		s.respondError(c, err, "Server error while computing stats")
		return
	}

	top := 5
	if v, err := strconv.Atoi(c.Query("top")); err == nil && v > 0 {
		top = v
	}
	stats := dashboard.Summarize(profiles)
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data": statsResponse{
			Stats:         stats,
			TopLocations:  stats.TopLocations(top),
			MostContacted: dashboard.TopClicked(profiles, top),
		},
	})
}
