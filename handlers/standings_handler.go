package handlers

import (
	"net/http"

	"github.com/Dosada05/house-tournament/services"
)

type StandingsHandler struct {
	standingsService services.StandingsService
}

func NewStandingsHandler(ss services.StandingsService) *StandingsHandler {
	return &StandingsHandler{standingsService: ss}
}

// GetStandings godoc
// @Summary Турнирная таблица домов
// @Tags standings
// @Description Общая таблица, таблицы по категориям и число выигранных категорий.
// @Produce json
// @Success 200 {object} models.StandingsSummary
// @Router /standings [get]
func (h *StandingsHandler) GetStandings(w http.ResponseWriter, r *http.Request) {
	summary, err := h.standingsService.GetStandings(r.Context())
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	if err := writeJSON(w, http.StatusOK, summary, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}
