package handlers

import (
	"net/http"
	"strconv"

	"github.com/Dosada05/house-tournament/services"
)

type HousePointsHandler struct {
	housePointsService services.HousePointsService
	defaultDate        string
}

// NewHousePointsHandler: defaultDate используется, если в запросе нет ?date=.
func NewHousePointsHandler(hps services.HousePointsService, defaultDate string) *HousePointsHandler {
	return &HousePointsHandler{housePointsService: hps, defaultDate: defaultDate}
}

func (h *HousePointsHandler) dateFromQuery(r *http.Request) string {
	if d := r.URL.Query().Get("date"); d != "" {
		return d
	}
	return h.defaultDate
}

// GetHousePoints godoc
// @Summary Очки домов за день
// @Tags house-points
// @Produce json
// @Param date query string false "YYYY-MM-DD, по умолчанию день турнира"
// @Param fresh query bool false "Пересчитать перед ответом"
// @Success 200 {object} map[string]interface{} "Очки домов по итоговому месту"
// @Failure 400 {object} map[string]string "Некорректная дата"
// @Router /house-points [get]
func (h *HousePointsHandler) GetHousePoints(w http.ResponseWriter, r *http.Request) {
	fresh, _ := strconv.ParseBool(r.URL.Query().Get("fresh"))
	date := h.dateFromQuery(r)

	points, err := h.housePointsService.GetHousePoints(r.Context(), date, fresh)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	if err := writeJSON(w, http.StatusOK, jsonResponse{"date": date, "house_points": points}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// RecalculateHousePoints godoc
// @Summary Пересчитать очки домов
// @Tags house-points
// @Produce json
// @Param date query string false "YYYY-MM-DD, по умолчанию день турнира"
// @Success 200 {object} map[string]interface{} "Пересчитанные очки"
// @Failure 400 {object} map[string]string "Некорректная дата"
// @Router /house-points/recalculate [post]
func (h *HousePointsHandler) RecalculateHousePoints(w http.ResponseWriter, r *http.Request) {
	date := h.dateFromQuery(r)
	points, err := h.housePointsService.RecalculateHousePoints(r.Context(), date)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	if err := writeJSON(w, http.StatusOK, jsonResponse{"date": date, "house_points": points}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// ListSpiritMarks godoc
// @Summary Оценки духа за день
// @Tags house-points
// @Produce json
// @Param date query string false "YYYY-MM-DD, по умолчанию день турнира"
// @Success 200 {object} map[string]interface{} "Оценки по домам"
// @Router /spirit-marks [get]
func (h *HousePointsHandler) ListSpiritMarks(w http.ResponseWriter, r *http.Request) {
	date := h.dateFromQuery(r)
	marks, err := h.housePointsService.ListSpiritAssessments(r.Context(), date)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	if err := writeJSON(w, http.StatusOK, jsonResponse{"date": date, "spirit_marks": marks}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// AssessSpirit godoc
// @Summary Сохранить оценку духа дома
// @Tags house-points
// @Description Повторная оценка за ту же дату заменяет предыдущую. Очки домов пересчитываются.
// @Accept json
// @Produce json
// @Param houseID path int true "House ID"
// @Param date query string false "YYYY-MM-DD, по умолчанию день турнира"
// @Param body body services.SpiritInput true "Оценки 0..10 по трем критериям"
// @Success 200 {object} map[string]interface{} "Оценка сохранена"
// @Failure 404 {object} map[string]string "Дом не найден"
// @Failure 422 {object} map[string]string "Ошибка валидации"
// @Router /spirit-marks/{houseID} [put]
func (h *HousePointsHandler) AssessSpirit(w http.ResponseWriter, r *http.Request) {
	houseID, err := getIDFromURL(r, "houseID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}
	var input services.SpiritInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	assessment, err := h.housePointsService.AssessSpirit(r.Context(), houseID, h.dateFromQuery(r), input)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	if err := writeJSON(w, http.StatusOK, jsonResponse{"spirit_mark": assessment}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}
