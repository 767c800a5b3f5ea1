package handlers

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/Dosada05/house-tournament/reports"
	"github.com/Dosada05/house-tournament/services"
)

type ReportHandler struct {
	reportService  services.ReportService
	tournamentDate string
}

func NewReportHandler(rs services.ReportService, tournamentDate string) *ReportHandler {
	return &ReportHandler{reportService: rs, tournamentDate: tournamentDate}
}

// DownloadReport godoc
// @Summary Скачать отчет турнира (xlsx)
// @Tags reports
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Success 200 {file} binary "Книга Excel"
// @Router /reports/tournament.xlsx [get]
func (h *ReportHandler) DownloadReport(w http.ResponseWriter, r *http.Request) {
	buf, err := h.reportService.BuildTournamentReport(r.Context())
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	w.Header().Set("Content-Type", reports.ContentTypeXLSX)
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="house-tournament-%s.xlsx"`, h.tournamentDate))
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
	w.WriteHeader(http.StatusOK)
	_, _ = buf.WriteTo(w)
}

// ArchiveReport godoc
// @Summary Сохранить отчет в хранилище
// @Tags reports
// @Produce json
// @Success 201 {object} storage.UploadResult
// @Failure 503 {object} map[string]string "Хранилище не настроено"
// @Router /reports/archive [post]
func (h *ReportHandler) ArchiveReport(w http.ResponseWriter, r *http.Request) {
	result, err := h.reportService.ArchiveTournamentReport(r.Context())
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	if err := writeJSON(w, http.StatusCreated, result, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}
