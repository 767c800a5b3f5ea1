package handlers

import (
	"net/http"

	"github.com/Dosada05/house-tournament/services"
)

type TableHandler struct {
	tableService services.TableService
}

func NewTableHandler(ts services.TableService) *TableHandler {
	return &TableHandler{tableService: ts}
}

// ListTables godoc
// @Summary Получить игровые столы
// @Tags tables
// @Produce json
// @Success 200 {object} map[string]interface{} "Столы по sort_order"
// @Router /tables [get]
func (h *TableHandler) ListTables(w http.ResponseWriter, r *http.Request) {
	tables, err := h.tableService.ListTables(r.Context())
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	if err := writeJSON(w, http.StatusOK, jsonResponse{"tables": tables}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// CreateTable godoc
// @Summary Добавить игровой стол
// @Tags tables
// @Accept json
// @Produce json
// @Param body body services.TableInput true "Название и категория стола"
// @Success 201 {object} map[string]interface{} "Стол создан"
// @Failure 409 {object} map[string]string "Стол с таким названием уже есть"
// @Failure 422 {object} map[string]string "Ошибка валидации"
// @Router /tables [post]
func (h *TableHandler) CreateTable(w http.ResponseWriter, r *http.Request) {
	var input services.TableInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	table, err := h.tableService.CreateTable(r.Context(), input)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	if err := writeJSON(w, http.StatusCreated, jsonResponse{"table": table}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// UpdateTable godoc
// @Summary Изменить стол (назначение, приоритет, заметки)
// @Tags tables
// @Accept json
// @Produce json
// @Param tableID path int true "Table ID"
// @Param body body services.TableUpdateInput true "Изменяемые поля"
// @Success 200 {object} map[string]interface{} "Стол обновлен"
// @Failure 404 {object} map[string]string "Стол не найден"
// @Failure 422 {object} map[string]string "Ошибка валидации"
// @Router /tables/{tableID} [patch]
func (h *TableHandler) UpdateTable(w http.ResponseWriter, r *http.Request) {
	tableID, err := getIDFromURL(r, "tableID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}
	var input services.TableUpdateInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	table, err := h.tableService.UpdateTable(r.Context(), tableID, input)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	if err := writeJSON(w, http.StatusOK, jsonResponse{"table": table}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}
