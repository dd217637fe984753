package repository

import (
	"context"
	"testing"
	"time"

	"tipster/domain/entities"
	"tipster/repository/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMatchRepository_CreateAndGet(t *testing.T) {
	t.Parallel()
	testDB := testutil.SetupTestDatabase(t)
	repo := NewMatchRepository(testDB.DB)
	ctx := context.Background()

	match := testutil.CreateTestMatch(2, 48*time.Hour)
	require.NoError(t, repo.Create(ctx, match))
	assert.NotZero(t, match.ID)
	assert.False(t, match.CreatedAt.IsZero())

	got, err := repo.GetByID(ctx, match.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, 2, got.Matchday)
	assert.True(t, got.MatchDate.Equal(match.MatchDate))
	assert.False(t, got.HasResult())

	missing, err := repo.GetByID(ctx, match.ID+1000)
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestMatchRepository_GetUpcoming(t *testing.T) {
	t.Parallel()
	testDB := testutil.SetupTestDatabase(t)
	repo := NewMatchRepository(testDB.DB)
	ctx := context.Background()

	now := time.Now().UTC()
	past := testutil.CreateTestMatch(1, -24*time.Hour)
	laterRound := testutil.CreateTestMatch(3, 2*time.Hour)
	nextRoundLate := testutil.CreateTestMatch(2, 5*time.Hour)
	nextRoundEarly := testutil.CreateTestMatch(2, 3*time.Hour)
	for _, m := range []*entities.Match{past, laterRound, nextRoundLate, nextRoundEarly} {
		testutil.InsertMatch(t, testDB.DB, m)
	}

	upcoming, err := repo.GetUpcoming(ctx, now)
	require.NoError(t, err)
	require.Len(t, upcoming, 3)
	assert.Equal(t, nextRoundEarly.ID, upcoming[0].ID)
	assert.Equal(t, nextRoundLate.ID, upcoming[1].ID)
	assert.Equal(t, laterRound.ID, upcoming[2].ID)

	all, err := repo.GetAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 4)
	assert.Equal(t, past.ID, all[0].ID)
}

func TestMatchRepository_UpdateResult(t *testing.T) {
	t.Parallel()
	testDB := testutil.SetupTestDatabase(t)
	repo := NewMatchRepository(testDB.DB)
	ctx := context.Background()

	id := testutil.InsertMatch(t, testDB.DB, testutil.CreateTestMatch(1, -3*time.Hour))

	updated, err := repo.UpdateResult(ctx, id, 2, 0)
	require.NoError(t, err)
	require.NotNil(t, updated)
	score, ok := updated.Result()
	require.True(t, ok)
	assert.Equal(t, entities.Score{Home: 2, Away: 0}, score)

	withResults, err := repo.GetWithResults(ctx)
	require.NoError(t, err)
	require.Len(t, withResults, 1)
	assert.Equal(t, id, withResults[0].ID)

	missing, err := repo.UpdateResult(ctx, id+999, 1, 1)
	require.NoError(t, err)
	assert.Nil(t, missing)
	assert.Equal(t, 1, testutil.CountRows(t, testDB.DB, "matches"))
}

func TestMatchRepository_GetKickingOffBetween(t *testing.T) {
	t.Parallel()
	testDB := testutil.SetupTestDatabase(t)
	repo := NewMatchRepository(testDB.DB)
	ctx := context.Background()

	inside := testutil.CreateTestMatch(1, 61*time.Minute)
	outside := testutil.CreateTestMatch(1, 3*time.Hour)
	testutil.InsertMatch(t, testDB.DB, inside)
	testutil.InsertMatch(t, testDB.DB, outside)

	now := time.Now().UTC()
	matches, err := repo.GetKickingOffBetween(ctx, now, now.Add(90*time.Minute))
	require.NoError(t, err)
	require.Len(t, matches, 1)
	assert.Equal(t, inside.ID, matches[0].ID)
}
