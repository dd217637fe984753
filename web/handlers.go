package web

import (
	"net/http"
	"strconv"

	"tipster/domain/entities"
	"tipster/domain/interfaces"
	"tipster/infrastructure/observability"

	"github.com/gin-gonic/gin"
)

// Handlers serves the JSON API on top of the domain services
type Handlers struct {
	predictions interfaces.PredictionService
	admin       interfaces.MatchAdminService
	sessions    interfaces.SessionGate
	leaderboard interfaces.LeaderboardService
}

// NewHandlers creates the API handlers
func NewHandlers(
	predictions interfaces.PredictionService,
	admin interfaces.MatchAdminService,
	sessions interfaces.SessionGate,
	leaderboard interfaces.LeaderboardService,
) *Handlers {
	return &Handlers{
		predictions: predictions,
		admin:       admin,
		sessions:    sessions,
		leaderboard: leaderboard,
	}
}

func (h *Handlers) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// Home returns the signed-in email and admin flag
func (h *Handlers) Home(c *gin.Context) {
	identity := currentIdentity(c)
	c.JSON(http.StatusOK, homeResponse{
		Email:   identity.Email,
		IsAdmin: identity.IsAdmin(),
	})
}

// Logout ends the session and clears the cookie
func (h *Handlers) Logout(c *gin.Context) {
	if err := h.sessions.SignOut(c.Request.Context(), c.GetString(tokenKey)); err != nil {
		respondError(c, err)
		return
	}
	c.SetCookie(sessionCookie, "", -1, "/", "", false, true)
	c.Status(http.StatusNoContent)
}

// OpenRound returns the next round with the caller's predictions
func (h *Handlers) OpenRound(c *gin.Context) {
	round, err := h.predictions.LoadOpenRound(c.Request.Context(), currentIdentity(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toRoundResponse(round))
}

// Submit stores the caller's predictions and returns the per-entry report
func (h *Handlers) Submit(c *gin.Context) {
	var req submitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request body: "+err.Error())
		return
	}

	report, err := h.predictions.SubmitPredictions(c.Request.Context(), currentIdentity(c), req.toScores())
	if err != nil {
		respondError(c, err)
		return
	}

	rejectedByReason := make(map[string]int)
	for _, r := range report.Rejected {
		rejectedByReason[string(r.Reason)]++
	}
	observability.GetMetrics().RecordSubmission(len(report.Accepted), rejectedByReason)

	c.JSON(http.StatusOK, submitResponse{
		Submitted: report.Submitted(),
		Accepted:  report.Accepted,
		Rejected:  report.Rejected,
		Round:     toRoundResponse(report.Round),
	})
}

// Results returns played matches with the caller's predictions
func (h *Handlers) Results(c *gin.Context) {
	rows, err := h.predictions.LoadResults(c.Request.Context(), currentIdentity(c))
	if err != nil {
		respondError(c, err)
		return
	}

	out := make([]resultRowResponse, 0, len(rows))
	for _, row := range rows {
		out = append(out, resultRowResponse{
			matchResponse: toMatchResponse(&row.Match),
			Prediction:    row.Prediction,
		})
	}
	c.JSON(http.StatusOK, gin.H{"results": out})
}

func (h *Handlers) Leaderboard(c *gin.Context) {
	entries, err := h.leaderboard.Leaderboard(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	if entries == nil {
		entries = []*entities.ScoreboardEntry{}
	}
	c.JSON(http.StatusOK, gin.H{"entries": entries})
}

// Profile returns the caller and their prediction history
func (h *Handlers) Profile(c *gin.Context) {
	identity := currentIdentity(c)
	history, err := h.predictions.LoadHistory(c.Request.Context(), identity)
	if err != nil {
		respondError(c, err)
		return
	}

	resp := profileResponse{
		UserID:      identity.ID,
		Email:       identity.Email,
		IsAdmin:     identity.IsAdmin(),
		Predictions: make([]historyEntryResponse, 0, len(history)),
	}
	for _, entry := range history {
		resp.Predictions = append(resp.Predictions, historyEntryResponse{
			Prediction: entry.Score(),
			UpdatedAt:  entry.UpdatedAt,
			Match:      toMatchResponse(&entry.Match),
		})
	}
	c.JSON(http.StatusOK, resp)
}

// ListMatches returns every match for the admin screen
func (h *Handlers) ListMatches(c *gin.Context) {
	matches, err := h.admin.ListAllMatches(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"matches": toMatchResponses(matches)})
}

// GetMatch returns one match for the admin edit form
func (h *Handlers) GetMatch(c *gin.Context) {
	matchID, ok := matchIDParam(c)
	if !ok {
		return
	}

	match, err := h.admin.GetMatch(c.Request.Context(), matchID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toMatchResponse(match))
}

// CreateMatch adds a fixture
func (h *Handlers) CreateMatch(c *gin.Context) {
	var req createMatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request body: "+err.Error())
		return
	}

	match, err := h.admin.CreateMatch(c.Request.Context(), entities.NewMatch{
		HomeTeam:  req.HomeTeam,
		AwayTeam:  req.AwayTeam,
		MatchDate: req.MatchDate,
		Matchday:  req.Matchday,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, toMatchResponse(match))
}

// RecordResult stores the actual score of a match
func (h *Handlers) RecordResult(c *gin.Context) {
	matchID, ok := matchIDParam(c)
	if !ok {
		return
	}

	var req recordResultRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request body: "+err.Error())
		return
	}
	if req.HomeScore == nil || req.AwayScore == nil {
		badRequest(c, "home_score and away_score are required")
		return
	}

	match, err := h.admin.RecordResult(c.Request.Context(), matchID, *req.HomeScore, *req.AwayScore)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toMatchResponse(match))
}

func matchIDParam(c *gin.Context) (int64, bool) {
	matchID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || matchID <= 0 {
		badRequest(c, "match id must be a positive integer")
		return 0, false
	}
	return matchID, true
}
