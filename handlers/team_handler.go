package handlers

import (
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/Dosada05/house-tournament/models"
	"github.com/Dosada05/house-tournament/services"
)

type TeamHandler struct {
	teamService services.TeamService
}

func NewTeamHandler(ts services.TeamService) *TeamHandler {
	return &TeamHandler{teamService: ts}
}

// ListTeams godoc
// @Summary Получить все команды
// @Tags teams
// @Produce json
// @Success 200 {object} map[string]interface{} "Команды в порядке регистрации"
// @Router /teams [get]
func (h *TeamHandler) ListTeams(w http.ResponseWriter, r *http.Request) {
	teams, err := h.teamService.ListTeams(r.Context())
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	if err := writeJSON(w, http.StatusOK, jsonResponse{"teams": teams}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// CreateTeam godoc
// @Summary Зарегистрировать команду дома
// @Tags teams
// @Accept json
// @Produce json
// @Param body body services.TeamInput true "Дом, пары и состав"
// @Success 201 {object} map[string]interface{} "Команда создана"
// @Failure 404 {object} map[string]string "Дом не найден"
// @Failure 422 {object} map[string]string "Ошибка валидации"
// @Router /teams [post]
func (h *TeamHandler) CreateTeam(w http.ResponseWriter, r *http.Request) {
	var input services.TeamInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	team, err := h.teamService.CreateTeam(r.Context(), input)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	if err := writeJSON(w, http.StatusCreated, jsonResponse{"team": team}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// GetTeam godoc
// @Summary Получить команду по ID
// @Tags teams
// @Produce json
// @Param teamID path int true "Team ID"
// @Success 200 {object} map[string]interface{} "Команда"
// @Failure 404 {object} map[string]string "Команда не найдена"
// @Router /teams/{teamID} [get]
func (h *TeamHandler) GetTeam(w http.ResponseWriter, r *http.Request) {
	teamID, err := getIDFromURL(r, "teamID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	team, err := h.teamService.GetTeam(r.Context(), teamID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	if err := writeJSON(w, http.StatusOK, jsonResponse{"team": team}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// UpdateTeam godoc
// @Summary Обновить состав команды
// @Tags teams
// @Description Уже созданные матчи сохраняют прежние пары до новой генерации расписания.
// @Accept json
// @Produce json
// @Param teamID path int true "Team ID"
// @Param body body services.TeamInput true "Дом, пары и состав"
// @Success 200 {object} map[string]interface{} "Команда обновлена"
// @Failure 404 {object} map[string]string "Команда или дом не найдены"
// @Failure 422 {object} map[string]string "Ошибка валидации"
// @Router /teams/{teamID} [put]
func (h *TeamHandler) UpdateTeam(w http.ResponseWriter, r *http.Request) {
	teamID, err := getIDFromURL(r, "teamID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}
	var input services.TeamInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	team, err := h.teamService.UpdateTeam(r.Context(), teamID, input)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	if err := writeJSON(w, http.StatusOK, jsonResponse{"team": team}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// DeleteTeam godoc
// @Summary Удалить команду
// @Tags teams
// @Param teamID path int true "Team ID"
// @Success 204 "Команда удалена"
// @Failure 404 {object} map[string]string "Команда не найдена"
// @Router /teams/{teamID} [delete]
func (h *TeamHandler) DeleteTeam(w http.ResponseWriter, r *http.Request) {
	teamID, err := getIDFromURL(r, "teamID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}
	if err := h.teamService.DeleteTeam(r.Context(), teamID); err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// SetTablePreference godoc
// @Summary Назначить команде предпочтительный стол в категории
// @Tags teams
// @Accept json
// @Produce json
// @Param teamID path int true "Team ID"
// @Param category path string true "mixed | mens | Mixed Doubles | Men's Doubles"
// @Param body body services.TablePreferenceInput true "Стол"
// @Success 200 {object} map[string]interface{} "Предпочтение сохранено"
// @Failure 400 {object} map[string]string "Стол не принимает эту категорию"
// @Failure 404 {object} map[string]string "Команда или стол не найдены"
// @Router /teams/{teamID}/tables/{category} [put]
func (h *TeamHandler) SetTablePreference(w http.ResponseWriter, r *http.Request) {
	teamID, err := getIDFromURL(r, "teamID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}
	category, err := getCategoryFromURL(r)
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}
	var input services.TablePreferenceInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	pref, err := h.teamService.SetTablePreference(r.Context(), teamID, category, input)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	if err := writeJSON(w, http.StatusOK, jsonResponse{"table_preference": pref}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// DeleteTablePreference godoc
// @Summary Снять предпочтительный стол команды
// @Tags teams
// @Param teamID path int true "Team ID"
// @Param category path string true "mixed | mens | Mixed Doubles | Men's Doubles"
// @Success 204 "Предпочтение удалено"
// @Failure 404 {object} map[string]string "Предпочтение не найдено"
// @Router /teams/{teamID}/tables/{category} [delete]
func (h *TeamHandler) DeleteTablePreference(w http.ResponseWriter, r *http.Request) {
	teamID, err := getIDFromURL(r, "teamID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}
	category, err := getCategoryFromURL(r)
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}
	if err := h.teamService.DeleteTablePreference(r.Context(), teamID, category); err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

var categorySlugs = map[string]models.Category{
	"mixed":         models.CategoryMixedDoubles,
	"mixed-doubles": models.CategoryMixedDoubles,
	"mens":          models.CategoryMensDoubles,
	"mens-doubles":  models.CategoryMensDoubles,
}

// parseCategory принимает полное название категории или короткий slug.
func parseCategory(raw string) (models.Category, error) {
	if c := models.Category(raw); c.Valid() {
		return c, nil
	}
	if c, ok := categorySlugs[strings.ToLower(raw)]; ok {
		return c, nil
	}
	return "", fmt.Errorf("unknown category %q", raw)
}

func getCategoryFromURL(r *http.Request) (models.Category, error) {
	raw, err := url.PathUnescape(chi.URLParam(r, "category"))
	if err != nil {
		return "", fmt.Errorf("invalid category in URL path: %w", err)
	}
	return parseCategory(raw)
}
