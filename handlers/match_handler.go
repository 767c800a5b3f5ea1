package handlers

import (
	"context"
	"fmt"
	"net/http"
	"strconv"

	"github.com/Dosada05/house-tournament/models"
	"github.com/Dosada05/house-tournament/repositories"
	"github.com/Dosada05/house-tournament/services"
)

type MatchHandler struct {
	matchService   services.MatchService
	fixtureService services.FixtureService
}

func NewMatchHandler(ms services.MatchService, fs services.FixtureService) *MatchHandler {
	return &MatchHandler{matchService: ms, fixtureService: fs}
}

type gameScoreRequest struct {
	Team1Score int `json:"team1_score"`
	Team2Score int `json:"team2_score"`
}

type assignTableRequest struct {
	TableID *int `json:"table_id"`
}

// GenerateFixtures godoc
// @Summary Сгенерировать круговое расписание
// @Tags matches
// @Description Удаляет все матчи и создает новое расписание по текущим командам.
// @Produce json
// @Success 201 {object} services.FixtureResult "Матчи и предупреждения о неполных парах"
// @Failure 409 {object} map[string]string "Одновременная генерация"
// @Router /matches/generate [post]
func (h *MatchHandler) GenerateFixtures(w http.ResponseWriter, r *http.Request) {
	result, err := h.fixtureService.GenerateFixtures(r.Context())
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	if err := writeJSON(w, http.StatusCreated, result, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// ListMatches godoc
// @Summary Получить матчи
// @Tags matches
// @Produce json
// @Param status query string false "pending | playing | completed"
// @Param category query string false "mixed | mens"
// @Param team_id query int false "Team ID"
// @Success 200 {object} map[string]interface{} "Матчи по номеру"
// @Failure 400 {object} map[string]string "Некорректный фильтр"
// @Router /matches [get]
func (h *MatchHandler) ListMatches(w http.ResponseWriter, r *http.Request) {
	filter, err := matchFilterFromQuery(r)
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	matches, err := h.matchService.ListMatches(r.Context(), filter)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	if err := writeJSON(w, http.StatusOK, jsonResponse{"matches": matches}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func matchFilterFromQuery(r *http.Request) (repositories.MatchFilter, error) {
	var filter repositories.MatchFilter
	q := r.URL.Query()
	if v := q.Get("status"); v != "" {
		status := models.MatchStatus(v)
		switch status {
		case models.MatchStatusPending, models.MatchStatusPlaying, models.MatchStatusCompleted:
			filter.Status = &status
		default:
			return filter, fmt.Errorf("unknown status %q", v)
		}
	}
	if v := q.Get("category"); v != "" {
		category, err := parseCategory(v)
		if err != nil {
			return filter, err
		}
		filter.Category = &category
	}
	if v := q.Get("team_id"); v != "" {
		id, err := strconv.Atoi(v)
		if err != nil || id <= 0 {
			return filter, fmt.Errorf("invalid team_id %q", v)
		}
		filter.TeamID = &id
	}
	return filter, nil
}

// GetMatch godoc
// @Summary Получить матч по ID
// @Tags matches
// @Produce json
// @Param matchID path int true "Match ID"
// @Success 200 {object} map[string]interface{} "Матч с производными полями"
// @Failure 404 {object} map[string]string "Матч не найден"
// @Router /matches/{matchID} [get]
func (h *MatchHandler) GetMatch(w http.ResponseWriter, r *http.Request) {
	matchID, err := getIDFromURL(r, "matchID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	match, err := h.matchService.GetMatch(r.Context(), matchID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	if err := writeJSON(w, http.StatusOK, jsonResponse{"match": match}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// RecordGameScore godoc
// @Summary Записать счет партии
// @Tags matches
// @Description Третья выигранная партия автоматически завершает матч.
// @Accept json
// @Produce json
// @Param matchID path int true "Match ID"
// @Param gameNumber path int true "Номер партии 1..5"
// @Param body body gameScoreRequest true "Счет команд"
// @Success 200 {object} services.ScoreResult "Состояние партии и матча"
// @Failure 400 {object} map[string]string "Счет вне 0..30 или номер партии вне 1..5"
// @Failure 404 {object} map[string]string "Матч не найден"
// @Failure 409 {object} map[string]string "Матч уже завершен"
// @Router /matches/{matchID}/games/{gameNumber} [put]
func (h *MatchHandler) RecordGameScore(w http.ResponseWriter, r *http.Request) {
	matchID, err := getIDFromURL(r, "matchID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}
	gameNumber, err := getIDFromURL(r, "gameNumber")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}
	var req gameScoreRequest
	if err := readJSON(w, r, &req); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	result, err := h.matchService.RecordGameScore(r.Context(), matchID, services.RecordScoreInput{
		GameNumber: gameNumber,
		Team1Score: req.Team1Score,
		Team2Score: req.Team2Score,
	})
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	if err := writeJSON(w, http.StatusOK, result, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// StartMatch godoc
// @Summary Начать матч
// @Tags matches
// @Produce json
// @Param matchID path int true "Match ID"
// @Success 200 {object} map[string]interface{} "Матч в статусе playing"
// @Failure 404 {object} map[string]string "Матч не найден"
// @Failure 409 {object} map[string]string "Матч уже завершен"
// @Router /matches/{matchID}/start [post]
func (h *MatchHandler) StartMatch(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, h.matchService.StartMatch)
}

// FinalizeMatch godoc
// @Summary Завершить матч вручную
// @Tags matches
// @Produce json
// @Param matchID path int true "Match ID"
// @Success 200 {object} map[string]interface{} "Матч в статусе completed"
// @Failure 404 {object} map[string]string "Матч не найден"
// @Router /matches/{matchID}/finalize [post]
func (h *MatchHandler) FinalizeMatch(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, h.matchService.FinalizeMatch)
}

func (h *MatchHandler) transition(w http.ResponseWriter, r *http.Request, apply func(ctx context.Context, matchID int) (*models.Match, error)) {
	matchID, err := getIDFromURL(r, "matchID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	match, err := apply(r.Context(), matchID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	if err := writeJSON(w, http.StatusOK, jsonResponse{"match": match}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// AssignTable godoc
// @Summary Поставить матч на стол
// @Tags matches
// @Accept json
// @Produce json
// @Param matchID path int true "Match ID"
// @Param body body assignTableRequest true "table_id или null"
// @Success 200 {object} map[string]interface{} "Матч обновлен"
// @Failure 400 {object} map[string]string "Стол не принимает категорию матча"
// @Failure 404 {object} map[string]string "Матч или стол не найдены"
// @Router /matches/{matchID}/table [put]
func (h *MatchHandler) AssignTable(w http.ResponseWriter, r *http.Request) {
	matchID, err := getIDFromURL(r, "matchID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}
	var req assignTableRequest
	if err := readJSON(w, r, &req); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	match, err := h.matchService.AssignTable(r.Context(), matchID, req.TableID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	if err := writeJSON(w, http.StatusOK, jsonResponse{"match": match}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// AutoAssignTables godoc
// @Summary Расставить ожидающие матчи по столам
// @Tags matches
// @Produce json
// @Success 200 {object} map[string]interface{} "Назначения match_id -> table_id"
// @Router /matches/auto-assign-tables [post]
func (h *MatchHandler) AutoAssignTables(w http.ResponseWriter, r *http.Request) {
	allocations, err := h.matchService.AutoAssignTables(r.Context())
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	if err := writeJSON(w, http.StatusOK, jsonResponse{"assignments": allocations}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}
