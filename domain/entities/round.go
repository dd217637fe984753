package entities

import (
	"sort"
	"time"
)

// RoundMatch is a match of the open round as presented to one user
type RoundMatch struct {
	Match      Match
	Locked     bool
	Prediction *Score // nil when the user has not predicted this match
}

// OpenRound is an immutable snapshot of the next round open for predictions
type OpenRound struct {
	Matchday int // 0 when there is no open round
	Matches  []RoundMatch
	LoadedAt time.Time
}

// IsEmpty reports whether no matches are open
func (r *OpenRound) IsEmpty() bool {
	return r == nil || len(r.Matches) == 0
}

// Find returns the round entry for matchID
func (r *OpenRound) Find(matchID int64) (RoundMatch, bool) {
	if r == nil {
		return RoundMatch{}, false
	}
	for _, rm := range r.Matches {
		if rm.Match.ID == matchID {
			return rm, true
		}
	}
	return RoundMatch{}, false
}

// NextMatchday returns the lowest matchday among upcoming and the matches belonging to it,
// in kickoff order. Later rounds are dropped even if they are also in the future.
func NextMatchday(upcoming []*Match) (int, []*Match) {
	if len(upcoming) == 0 {
		return 0, nil
	}

	next := upcoming[0].Matchday
	for _, m := range upcoming[1:] {
		if m.Matchday < next {
			next = m.Matchday
		}
	}

	round := make([]*Match, 0, len(upcoming))
	for _, m := range upcoming {
		if m.Matchday == next {
			round = append(round, m)
		}
	}

	sort.SliceStable(round, func(i, j int) bool {
		return round[i].MatchDate.Before(round[j].MatchDate)
	})

	return next, round
}

// RejectionReason explains why a submitted prediction was not stored
type RejectionReason string

const (
	RejectNotInOpenRound RejectionReason = "not_in_open_round"
	RejectLocked         RejectionReason = "locked"
	RejectInvalidScore   RejectionReason = "invalid_score"
)

// Rejection is one refused entry of a submission
type Rejection struct {
	MatchID int64           `json:"match_id"`
	Reason  RejectionReason `json:"reason"`
}

// SubmissionReport is the outcome of a prediction submission
type SubmissionReport struct {
	Accepted []int64
	Rejected []Rejection
	Round    *OpenRound // Re-fetched after the write
}

// Submitted reports whether at least one prediction was stored
func (r *SubmissionReport) Submitted() bool {
	return r != nil && len(r.Accepted) > 0
}
