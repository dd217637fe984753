package web

import (
	"time"

	"tipster/domain/entities"
)

// matchResponse is the JSON shape of a match
type matchResponse struct {
	ID              int64     `json:"id"`
	Matchday        int       `json:"matchday"`
	MatchDate       time.Time `json:"match_date"`
	HomeTeam        string    `json:"home_team"`
	AwayTeam        string    `json:"away_team"`
	ActualHomeScore *int      `json:"actual_home_score"`
	ActualAwayScore *int      `json:"actual_away_score"`
}

func toMatchResponse(m *entities.Match) matchResponse {
	return matchResponse{
		ID:              m.ID,
		Matchday:        m.Matchday,
		MatchDate:       m.MatchDate,
		HomeTeam:        m.HomeTeam,
		AwayTeam:        m.AwayTeam,
		ActualHomeScore: m.ActualHomeScore,
		ActualAwayScore: m.ActualAwayScore,
	}
}

func toMatchResponses(matches []*entities.Match) []matchResponse {
	out := make([]matchResponse, 0, len(matches))
	for _, m := range matches {
		out = append(out, toMatchResponse(m))
	}
	return out
}

type roundMatchResponse struct {
	matchResponse
	Locked     bool            `json:"locked"`
	Prediction *entities.Score `json:"prediction"`
}

type roundResponse struct {
	Matchday int                  `json:"matchday"`
	Matches  []roundMatchResponse `json:"matches"`
	LoadedAt time.Time            `json:"loaded_at"`
}

func toRoundResponse(round *entities.OpenRound) *roundResponse {
	if round == nil {
		return nil
	}
	out := &roundResponse{
		Matchday: round.Matchday,
		Matches:  make([]roundMatchResponse, 0, len(round.Matches)),
		LoadedAt: round.LoadedAt,
	}
	for i := range round.Matches {
		rm := round.Matches[i]
		out.Matches = append(out.Matches, roundMatchResponse{
			matchResponse: toMatchResponse(&rm.Match),
			Locked:        rm.Locked,
			Prediction:    rm.Prediction,
		})
	}
	return out
}

// scoreInput allows either side to be omitted so it can be reported per entry
type scoreInput struct {
	Home *int `json:"home"`
	Away *int `json:"away"`
}

// submitRequest maps match id to predicted score, e.g. {"predictions":{"12":{"home":2,"away":1}}}
type submitRequest struct {
	Predictions map[int64]scoreInput `json:"predictions" binding:"required"`
}

// toScores converts the request; a missing side becomes -1 and is rejected as an invalid score
func (r submitRequest) toScores() map[int64]entities.Score {
	scores := make(map[int64]entities.Score, len(r.Predictions))
	for id, in := range r.Predictions {
		score := entities.Score{Home: -1, Away: -1}
		if in.Home != nil {
			score.Home = *in.Home
		}
		if in.Away != nil {
			score.Away = *in.Away
		}
		scores[id] = score
	}
	return scores
}

type submitResponse struct {
	Submitted bool                 `json:"submitted"`
	Accepted  []int64              `json:"accepted"`
	Rejected  []entities.Rejection `json:"rejected"`
	Round     *roundResponse       `json:"round"`
}

type createMatchRequest struct {
	HomeTeam  string    `json:"home_team"`
	AwayTeam  string    `json:"away_team"`
	MatchDate time.Time `json:"match_date"`
	Matchday  int       `json:"matchday"`
}

type recordResultRequest struct {
	HomeScore *int `json:"home_score"`
	AwayScore *int `json:"away_score"`
}

type resultRowResponse struct {
	matchResponse
	Prediction *entities.Score `json:"prediction"`
}

type historyEntryResponse struct {
	Prediction entities.Score `json:"prediction"`
	UpdatedAt  time.Time      `json:"updated_at"`
	Match      matchResponse  `json:"match"`
}

type homeResponse struct {
	Email   string `json:"email"`
	IsAdmin bool   `json:"is_admin"`
}

type profileResponse struct {
	UserID      string                 `json:"user_id"`
	Email       string                 `json:"email"`
	IsAdmin     bool                   `json:"is_admin"`
	Predictions []historyEntryResponse `json:"predictions"`
}
