package handlers

import (
	"net/http"

	"github.com/Dosada05/house-tournament/services"
)

type HouseHandler struct {
	houseService services.HouseService
}

func NewHouseHandler(hs services.HouseService) *HouseHandler {
	return &HouseHandler{houseService: hs}
}

// ListHouses godoc
// @Summary Получить список домов
// @Tags houses
// @Produce json
// @Success 200 {object} map[string]interface{} "Список домов"
// @Failure 500 {object} map[string]string "Внутренняя ошибка сервера"
// @Router /houses [get]
func (h *HouseHandler) ListHouses(w http.ResponseWriter, r *http.Request) {
	houses, err := h.houseService.ListHouses(r.Context())
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	if err := writeJSON(w, http.StatusOK, jsonResponse{"houses": houses}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// CreateHouse godoc
// @Summary Создать дом
// @Tags houses
// @Accept json
// @Produce json
// @Param body body services.HouseInput true "Название и цвет дома"
// @Success 201 {object} map[string]interface{} "Дом создан"
// @Failure 400 {object} map[string]string "Некорректный запрос"
// @Failure 409 {object} map[string]string "Дом с таким названием уже есть"
// @Failure 422 {object} map[string]string "Ошибка валидации"
// @Router /houses [post]
func (h *HouseHandler) CreateHouse(w http.ResponseWriter, r *http.Request) {
	var input services.HouseInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	house, err := h.houseService.CreateHouse(r.Context(), input)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	if err := writeJSON(w, http.StatusCreated, jsonResponse{"house": house}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}
