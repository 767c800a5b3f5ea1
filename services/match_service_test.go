package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Dosada05/house-tournament/brackets"
	"github.com/Dosada05/house-tournament/models"
)

type scheduledPair struct {
	env   *testEnv
	blue  *models.House
	red   *models.House
	team1 *models.Team
	team2 *models.Team
}

func newScheduledPair(t *testing.T) scheduledPair {
	t.Helper()
	env := newTestEnv(t)
	blue := env.mustHouse(t, "Rumah Biru")
	red := env.mustHouse(t, "Rumah Merah")
	bm, bmen := fullPairs("Biru")
	rm, rmen := fullPairs("Merah")
	team1 := env.mustTeam(t, blue.ID, bm, bmen)
	team2 := env.mustTeam(t, red.ID, rm, rmen)
	_, err := env.fixtures.GenerateFixtures(context.Background())
	require.NoError(t, err)
	return scheduledPair{env: env, blue: blue, red: red, team1: team1, team2: team2}
}

func TestRecordGameScore_CompletesOnThirdWin(t *testing.T) {
	p := newScheduledPair(t)
	ctx := context.Background()
	m := p.env.matchBetween(t, p.team1.ID, p.team2.ID, models.CategoryMixedDoubles)

	scores := []RecordScoreInput{
		{GameNumber: 1, Team1Score: 11, Team2Score: 9},
		{GameNumber: 2, Team1Score: 9, Team2Score: 11},
		{GameNumber: 3, Team1Score: 12, Team2Score: 10},
	}
	for _, in := range scores {
		res, err := p.env.matches.RecordGameScore(ctx, m.ID, in)
		require.NoError(t, err)
		assert.True(t, res.GameComplete)
		assert.False(t, res.MatchComplete)
	}

	res, err := p.env.matches.RecordGameScore(ctx, m.ID, RecordScoreInput{GameNumber: 4, Team1Score: 11, Team2Score: 7})
	require.NoError(t, err)
	assert.True(t, res.MatchComplete)
	assert.Equal(t, 3, res.Team1Wins)
	assert.Equal(t, 1, res.Team2Wins)
	assert.Equal(t, "Match complete: team 1 wins 3-1", res.Message)

	stored, err := p.env.matches.GetMatch(ctx, m.ID)
	require.NoError(t, err)
	assert.Equal(t, models.MatchStatusCompleted, stored.Status)
	require.NotNil(t, stored.CompletedAt)
	assert.Equal(t, p.env.now, *stored.CompletedAt)
	assert.True(t, stored.IsComplete)
	require.NotNil(t, stored.Team1House)
	assert.Equal(t, "Rumah Biru", stored.Team1House.Name)

	points, err := p.env.housePoints.GetHousePoints(ctx, testDate, false)
	require.NoError(t, err)
	require.Len(t, points, 2)
	assert.Equal(t, p.blue.ID, points[0].HouseID)
	assert.Equal(t, 1, points[0].MatchWinPoints)

	assert.Contains(t, p.env.publisher.types(), brackets.EventHousePointsUpdated)
	assert.Contains(t, p.env.publisher.types(), brackets.EventMatchUpdated)
}

func TestRecordGameScore_TwoPointLeadPending(t *testing.T) {
	p := newScheduledPair(t)
	m := p.env.matchBetween(t, p.team1.ID, p.team2.ID, models.CategoryMensDoubles)

	res, err := p.env.matches.RecordGameScore(context.Background(), m.ID, RecordScoreInput{GameNumber: 1, Team1Score: 11, Team2Score: 10})
	require.NoError(t, err)
	assert.False(t, res.GameComplete)
	assert.True(t, res.NeedsTwoPointLead)
	assert.False(t, res.MatchComplete)
	assert.Equal(t, 1, res.CurrentGame)
	assert.Equal(t, models.MatchStatusPending, res.Match.Status, "recording a score does not start the match")
}

func TestRecordGameScore_Rejections(t *testing.T) {
	p := newScheduledPair(t)
	ctx := context.Background()
	m := p.env.matchBetween(t, p.team1.ID, p.team2.ID, models.CategoryMixedDoubles)

	_, err := p.env.matches.RecordGameScore(ctx, m.ID, RecordScoreInput{GameNumber: 1, Team1Score: 31, Team2Score: 29})
	assert.ErrorIs(t, err, ErrValidationFailed)

	_, err = p.env.matches.RecordGameScore(ctx, m.ID, RecordScoreInput{GameNumber: 6, Team1Score: 11, Team2Score: 0})
	assert.ErrorIs(t, err, ErrValidationFailed)

	_, err = p.env.matches.RecordGameScore(ctx, 9999, RecordScoreInput{GameNumber: 1, Team1Score: 11, Team2Score: 0})
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, err, ErrMatchNotFound)

	_, err = p.env.matches.FinalizeMatch(ctx, m.ID)
	require.NoError(t, err)

	_, err = p.env.matches.RecordGameScore(ctx, m.ID, RecordScoreInput{GameNumber: 1, Team1Score: 11, Team2Score: 5})
	assert.ErrorIs(t, err, ErrIllegalTransition)
	assert.ErrorIs(t, err, ErrMatchAlreadyCompleted)

	stored, err := p.env.matches.GetMatch(ctx, m.ID)
	require.NoError(t, err)
	assert.Equal(t, models.GameScore{}, stored.Games[0])
}

func TestStartMatch_Idempotent(t *testing.T) {
	p := newScheduledPair(t)
	ctx := context.Background()
	m := p.env.matchBetween(t, p.team1.ID, p.team2.ID, models.CategoryMixedDoubles)

	started, err := p.env.matches.StartMatch(ctx, m.ID)
	require.NoError(t, err)
	assert.Equal(t, models.MatchStatusPlaying, started.Status)
	require.NotNil(t, started.StartedAt)

	again, err := p.env.matches.StartMatch(ctx, m.ID)
	require.NoError(t, err)
	assert.Equal(t, models.MatchStatusPlaying, again.Status)
	assert.Equal(t, started.Version, again.Version, "second start does not write")
}

func TestStartMatch_CompletedIsIllegal(t *testing.T) {
	p := newScheduledPair(t)
	ctx := context.Background()
	m := p.env.matchBetween(t, p.team1.ID, p.team2.ID, models.CategoryMixedDoubles)

	_, err := p.env.matches.FinalizeMatch(ctx, m.ID)
	require.NoError(t, err)

	_, err = p.env.matches.StartMatch(ctx, m.ID)
	assert.ErrorIs(t, err, ErrIllegalTransition)
}

func TestFinalizeMatch_ManualCompletionCounts(t *testing.T) {
	p := newScheduledPair(t)
	ctx := context.Background()
	m := p.env.matchBetween(t, p.team1.ID, p.team2.ID, models.CategoryMensDoubles)

	_, err := p.env.matches.RecordGameScore(ctx, m.ID, RecordScoreInput{GameNumber: 1, Team1Score: 4, Team2Score: 11})
	require.NoError(t, err)

	done, err := p.env.matches.FinalizeMatch(ctx, m.ID)
	require.NoError(t, err)
	assert.Equal(t, models.MatchStatusCompleted, done.Status)
	assert.False(t, done.IsComplete, "manual completion does not need three wins")

	again, err := p.env.matches.FinalizeMatch(ctx, m.ID)
	require.NoError(t, err)
	assert.Equal(t, done.CompletedAt, again.CompletedAt)

	summary, err := p.env.standings.GetStandings(ctx)
	require.NoError(t, err)
	require.Len(t, summary.Overall, 2)
	assert.Equal(t, p.red.ID, summary.Overall[0].HouseID)
	assert.Equal(t, 1, summary.Overall[0].Wins)
}

func TestAssignTable(t *testing.T) {
	p := newScheduledPair(t)
	ctx := context.Background()
	mens := p.env.mustTable(t, "Table 1", models.TableAssignment(models.CategoryMensDoubles))
	m := p.env.matchBetween(t, p.team1.ID, p.team2.ID, models.CategoryMixedDoubles)

	_, err := p.env.matches.AssignTable(ctx, m.ID, &mens.ID)
	assert.ErrorIs(t, err, ErrValidationFailed)

	missing := 4242
	_, err = p.env.matches.AssignTable(ctx, m.ID, &missing)
	assert.ErrorIs(t, err, ErrTableNotFound)

	both := p.env.mustTable(t, "Table 2", models.TableAssignmentBoth)
	updated, err := p.env.matches.AssignTable(ctx, m.ID, &both.ID)
	require.NoError(t, err)
	require.NotNil(t, updated.TableID)
	assert.Equal(t, both.ID, *updated.TableID)

	cleared, err := p.env.matches.AssignTable(ctx, m.ID, nil)
	require.NoError(t, err)
	assert.Nil(t, cleared.TableID)
}

func TestAutoAssignTables(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	for _, name := range []string{"Rumah Biru", "Rumah Merah", "Rumah Kuning"} {
		h := env.mustHouse(t, name)
		mixed, mens := fullPairs(name)
		env.mustTeam(t, h.ID, mixed, mens)
	}
	mixedTable := env.mustTable(t, "Table 1", models.TableAssignment(models.CategoryMixedDoubles))
	mensTable := env.mustTable(t, "Table 2", models.TableAssignment(models.CategoryMensDoubles))

	_, err := env.fixtures.GenerateFixtures(ctx)
	require.NoError(t, err)

	allocations, err := env.matches.AutoAssignTables(ctx)
	require.NoError(t, err)
	assert.Len(t, allocations, 6)

	matches, err := env.matches.ListMatches(ctx, repositoriesFilterAll())
	require.NoError(t, err)
	for _, m := range matches {
		require.NotNil(t, m.TableID, "match %d", m.MatchNumber)
		if m.Category == models.CategoryMixedDoubles {
			assert.Equal(t, mixedTable.ID, *m.TableID)
		} else {
			assert.Equal(t, mensTable.ID, *m.TableID)
		}
		require.NotNil(t, m.Table)
	}
}

func TestRecordGameScore_ConcurrentWriteIsConflict(t *testing.T) {
	p := newScheduledPair(t)
	ctx := context.Background()
	m := p.env.matchBetween(t, p.team1.ID, p.team2.ID, models.CategoryMixedDoubles)

	// Другая запись успевает обновить матч между чтением и сохранением.
	store := p.env.store
	store.afterMatchLocked = func(id int) {
		store.mu.Lock()
		defer store.mu.Unlock()
		store.matches[id].Version++
	}

	_, err := p.env.matches.RecordGameScore(ctx, m.ID, RecordScoreInput{GameNumber: 1, Team1Score: 11, Team2Score: 5})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrConflict))
	assert.False(t, errors.Is(err, ErrNotFound))

	store.afterMatchLocked = nil
	stored, err := p.env.matches.GetMatch(ctx, m.ID)
	require.NoError(t, err)
	assert.Equal(t, m.Games, stored.Games)
	assert.Equal(t, models.MatchStatusPending, stored.Status)
}

func TestStartMatch_UnknownMatch(t *testing.T) {
	p := newScheduledPair(t)

	_, err := p.env.matches.StartMatch(context.Background(), 9999)
	assert.ErrorIs(t, err, ErrMatchNotFound)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestFinalizeMatch_UnknownMatch(t *testing.T) {
	p := newScheduledPair(t)

	_, err := p.env.matches.FinalizeMatch(context.Background(), 9999)
	assert.ErrorIs(t, err, ErrMatchNotFound)
	assert.ErrorIs(t, err, ErrNotFound)
}
