package handlers

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Dosada05/house-tournament/models"
	"github.com/Dosada05/house-tournament/repositories"
	"github.com/Dosada05/house-tournament/services"
)

func stringsReader(s string) io.Reader {
	return strings.NewReader(s)
}

// fakeMatchService реализует только нужные тестам методы; остальные паникуют через nil-интерфейс.
type fakeMatchService struct {
	services.MatchService

	gotMatchID int
	gotInput   services.RecordScoreInput
	gotFilter  repositories.MatchFilter
	result     *services.ScoreResult
	match      *models.Match
	err        error
}

func (f *fakeMatchService) RecordGameScore(_ context.Context, matchID int, input services.RecordScoreInput) (*services.ScoreResult, error) {
	f.gotMatchID = matchID
	f.gotInput = input
	return f.result, f.err
}

func (f *fakeMatchService) StartMatch(_ context.Context, matchID int) (*models.Match, error) {
	f.gotMatchID = matchID
	return f.match, f.err
}

func (f *fakeMatchService) FinalizeMatch(_ context.Context, matchID int) (*models.Match, error) {
	f.gotMatchID = matchID
	return f.match, f.err
}

func (f *fakeMatchService) ListMatches(_ context.Context, filter repositories.MatchFilter) ([]*models.Match, error) {
	f.gotFilter = filter
	return []*models.Match{}, f.err
}

type fakeFixtureService struct {
	result *services.FixtureResult
	err    error
}

func (f *fakeFixtureService) GenerateFixtures(context.Context) (*services.FixtureResult, error) {
	return f.result, f.err
}

func matchRouter(ms services.MatchService, fs services.FixtureService) http.Handler {
	h := NewMatchHandler(ms, fs)
	r := chi.NewRouter()
	r.Get("/matches", h.ListMatches)
	r.Post("/matches/generate", h.GenerateFixtures)
	r.Put("/matches/{matchID}/games/{gameNumber}", h.RecordGameScore)
	r.Post("/matches/{matchID}/start", h.StartMatch)
	r.Post("/matches/{matchID}/finalize", h.FinalizeMatch)
	return r
}

func TestRecordGameScore_PassesPathAndBody(t *testing.T) {
	ms := &fakeMatchService{result: &services.ScoreResult{
		GameComplete: true, Team1Wins: 1, CurrentGame: 2, Message: "Game 1 won by team 1",
	}}
	router := matchRouter(ms, &fakeFixtureService{})

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPut, "/matches/12/games/1", stringsReader(`{"team1_score": 11, "team2_score": 5}`))
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, 12, ms.gotMatchID)
	assert.Equal(t, services.RecordScoreInput{GameNumber: 1, Team1Score: 11, Team2Score: 5}, ms.gotInput)

	var body services.ScoreResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.True(t, body.GameComplete)
	assert.Equal(t, 2, body.CurrentGame)
}

func TestRecordGameScore_CompletedMatchIsConflict(t *testing.T) {
	ms := &fakeMatchService{err: services.ErrMatchAlreadyCompleted}
	router := matchRouter(ms, &fakeFixtureService{})

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPut, "/matches/3/games/5", stringsReader(`{"team1_score": 11, "team2_score": 0}`))
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestRecordGameScore_BadPathOrBody(t *testing.T) {
	router := matchRouter(&fakeMatchService{}, &fakeFixtureService{})

	for _, tc := range []struct{ path, body string }{
		{"/matches/abc/games/1", `{"team1_score": 1, "team2_score": 0}`},
		{"/matches/1/games/0", `{"team1_score": 1, "team2_score": 0}`},
		{"/matches/1/games/1", `{"team1_score": "eleven"}`},
		{"/matches/1/games/1", ``},
	} {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodPut, tc.path, stringsReader(tc.body)))
		assert.Equal(t, http.StatusBadRequest, rec.Code, tc.path+" "+tc.body)
	}
}

func TestLifecycleEndpoints(t *testing.T) {
	ms := &fakeMatchService{match: &models.Match{ID: 4, Status: models.MatchStatusPlaying}}
	router := matchRouter(ms, &fakeFixtureService{})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/matches/4/start", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 4, ms.gotMatchID)

	ms.err = services.ErrMatchNotFound
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/matches/99/finalize", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, 99, ms.gotMatchID)
}

func TestListMatches_Filters(t *testing.T) {
	ms := &fakeMatchService{}
	router := matchRouter(ms, &fakeFixtureService{})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/matches?status=pending&category=mens&team_id=3", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, ms.gotFilter.Status)
	assert.Equal(t, models.MatchStatusPending, *ms.gotFilter.Status)
	require.NotNil(t, ms.gotFilter.Category)
	assert.Equal(t, models.CategoryMensDoubles, *ms.gotFilter.Category)
	require.NotNil(t, ms.gotFilter.TeamID)
	assert.Equal(t, 3, *ms.gotFilter.TeamID)

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/matches?status=finished", nil))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGenerateFixtures_ReturnsCreated(t *testing.T) {
	fs := &fakeFixtureService{result: &services.FixtureResult{Matches: []*models.Match{{ID: 1}, {ID: 2}}}}
	router := matchRouter(&fakeMatchService{}, fs)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/matches/generate", nil))

	require.Equal(t, http.StatusCreated, rec.Code)
	var body struct {
		Matches []json.RawMessage `json:"matches"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Len(t, body.Matches, 2)
}
