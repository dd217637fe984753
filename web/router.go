package web

import (
	"github.com/gin-gonic/gin"
)

// RouterOptions tunes the router
type RouterOptions struct {
	SubmitRatePerMinute int
}

// NewRouter wires the routes. Every /api route goes through the session gate
// and /api/admin additionally requires the admin role.
func NewRouter(h *Handlers, opts RouterOptions) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), RequestLogger())

	r.GET("/health", h.Health)

	api := r.Group("/api", RequireAuthenticated(h.sessions))
	{
		api.GET("/home", h.Home)
		api.POST("/logout", h.Logout)
		api.GET("/submit", h.OpenRound)
		api.POST("/submit", RateLimitPerIdentity(opts.SubmitRatePerMinute), h.Submit)
		api.GET("/results", h.Results)
		api.GET("/leaderboard", h.Leaderboard)
		api.GET("/profile", h.Profile)
	}

	admin := r.Group("/api/admin", RequireAdmin(h.sessions))
	{
		admin.GET("/games", h.ListMatches)
		admin.POST("/games", h.CreateMatch)
		admin.GET("/games/:id", h.GetMatch)
		admin.PUT("/games/:id/result", h.RecordResult)
	}

	return r
}
