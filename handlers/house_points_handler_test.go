package handlers

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Dosada05/house-tournament/models"
	"github.com/Dosada05/house-tournament/services"
	"github.com/Dosada05/house-tournament/storage"
)

type fakeHousePointsService struct {
	services.HousePointsService

	gotDate    string
	gotFresh   bool
	gotHouseID int
	gotInput   services.SpiritInput
	err        error
}

func (f *fakeHousePointsService) GetHousePoints(_ context.Context, date string, fresh bool) ([]models.HousePoints, error) {
	f.gotDate, f.gotFresh = date, fresh
	return []models.HousePoints{{HouseID: 1, HouseName: "Rumah Merah", TotalPoints: 10}}, f.err
}

func (f *fakeHousePointsService) AssessSpirit(_ context.Context, houseID int, date string, input services.SpiritInput) (*models.SpiritAssessment, error) {
	f.gotHouseID, f.gotDate, f.gotInput = houseID, date, input
	if f.err != nil {
		return nil, f.err
	}
	return &models.SpiritAssessment{HouseID: houseID}, nil
}

func housePointsRouter(s services.HousePointsService) http.Handler {
	h := NewHousePointsHandler(s, "2025-07-12")
	r := chi.NewRouter()
	r.Get("/house-points", h.GetHousePoints)
	r.Put("/spirit-marks/{houseID}", h.AssessSpirit)
	return r
}

func TestGetHousePoints_DefaultsToTournamentDate(t *testing.T) {
	svc := &fakeHousePointsService{}
	router := housePointsRouter(svc)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/house-points", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "2025-07-12", svc.gotDate)
	assert.False(t, svc.gotFresh)

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/house-points?date=2025-07-13&fresh=true", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "2025-07-13", svc.gotDate)
	assert.True(t, svc.gotFresh)
}

func TestAssessSpirit_Handler(t *testing.T) {
	svc := &fakeHousePointsService{}
	router := housePointsRouter(svc)

	body := `{"assessor_name": "Cikgu Lim", "sportsmanship": 9, "teamwork": 8, "seat_arrangement": 7}`
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPut, "/spirit-marks/2", stringsReader(body)))

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, 2, svc.gotHouseID)
	assert.Equal(t, "2025-07-12", svc.gotDate)
	assert.Equal(t, 9.0, svc.gotInput.Sportsmanship)

	svc.err = services.ErrHouseNotFound
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPut, "/spirit-marks/77", stringsReader(body)))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

type fakeReportService struct {
	err error
}

func (f *fakeReportService) BuildTournamentReport(context.Context) (*bytes.Buffer, error) {
	return bytes.NewBufferString("PK-fake-xlsx"), f.err
}

func (f *fakeReportService) ArchiveTournamentReport(context.Context) (*storage.UploadResult, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &storage.UploadResult{Key: "reports/2025-07-12/tournament.xlsx"}, nil
}

func TestReportHandler(t *testing.T) {
	h := NewReportHandler(&fakeReportService{}, "2025-07-12")

	rec := httptest.NewRecorder()
	h.DownloadReport(rec, httptest.NewRequest(http.MethodGet, "/reports/tournament.xlsx", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "house-tournament-2025-07-12.xlsx")
	assert.Equal(t, "PK-fake-xlsx", rec.Body.String())

	disabled := NewReportHandler(&fakeReportService{err: services.ErrArchiveNotConfigured}, "2025-07-12")
	rec = httptest.NewRecorder()
	disabled.ArchiveReport(rec, httptest.NewRequest(http.MethodPost, "/reports/archive", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestWebSocketHandler_CheckOrigin(t *testing.T) {
	h := NewWebSocketHandler(nil, []string{"http://localhost:3000"}, nil)

	req := httptest.NewRequest(http.MethodGet, "/ws/tournament", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	assert.True(t, h.upgrader.CheckOrigin(req))

	req.Header.Set("Origin", "http://evil.example")
	assert.False(t, h.upgrader.CheckOrigin(req))

	req.Header.Del("Origin")
	assert.True(t, h.upgrader.CheckOrigin(req))
}
