package services

import (
	"context"

	"tipster/domain"
	"tipster/domain/entities"
	"tipster/domain/interfaces"
)

type leaderboardService struct {
	userScoreRepo interfaces.UserScoreRepository
}

// NewLeaderboardService creates a new leaderboard service
func NewLeaderboardService(userScoreRepo interfaces.UserScoreRepository) interfaces.LeaderboardService {
	return &leaderboardService{userScoreRepo: userScoreRepo}
}

func (s *leaderboardService) Leaderboard(ctx context.Context) ([]*entities.ScoreboardEntry, error) {
	entries, err := s.userScoreRepo.GetAll(ctx)
	if err != nil {
		return nil, domain.NewPersistenceFailure(err, "failed to load leaderboard")
	}
	return entries, nil
}
