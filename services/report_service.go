package services

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/Dosada05/house-tournament/models"
	"github.com/Dosada05/house-tournament/reports"
	"github.com/Dosada05/house-tournament/repositories"
	"github.com/Dosada05/house-tournament/storage"
)

type ReportService interface {
	// BuildTournamentReport собирает xlsx-отчет за день турнира.
	BuildTournamentReport(ctx context.Context) (*bytes.Buffer, error)
	// ArchiveTournamentReport загружает отчет в объектное хранилище.
	ArchiveTournamentReport(ctx context.Context) (*storage.UploadResult, error)
}

type reportService struct {
	housePoints    HousePointsService
	standings      StandingsService
	matches        MatchService
	tableRepo      repositories.TableRepository
	uploader       storage.FileUploader
	logger         *slog.Logger
	tournamentDate string
}

// NewReportService: uploader может быть nil, тогда архивирование недоступно.
func NewReportService(
	housePoints HousePointsService,
	standings StandingsService,
	matches MatchService,
	tableRepo repositories.TableRepository,
	uploader storage.FileUploader,
	logger *slog.Logger,
	tournamentDate string,
) ReportService {
	return &reportService{
		housePoints:    housePoints,
		standings:      standings,
		matches:        matches,
		tableRepo:      tableRepo,
		uploader:       uploader,
		logger:         logger,
		tournamentDate: tournamentDate,
	}
}

func (s *reportService) BuildTournamentReport(ctx context.Context) (*bytes.Buffer, error) {
	report := reports.TournamentReport{
		TournamentDate: s.tournamentDate,
		TeamHouseNames: make(map[int]string),
		TableNames:     make(map[int]string),
	}

	var tables []*models.PlayTable
	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		report.HousePoints, err = s.housePoints.GetHousePoints(gCtx, s.tournamentDate, false)
		return err
	})
	g.Go(func() (err error) {
		report.Standings, err = s.standings.GetStandings(gCtx)
		return err
	})
	g.Go(func() (err error) {
		report.Matches, err = s.matches.ListMatches(gCtx, repositories.MatchFilter{})
		return err
	})
	g.Go(func() (err error) {
		tables, err = s.tableRepo.List(gCtx, nil)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("failed to collect report data: %w", err)
	}

	for _, t := range tables {
		report.TableNames[t.ID] = t.Name
	}
	for _, m := range report.Matches {
		if m.Team1ID != nil && m.Team1House != nil {
			report.TeamHouseNames[*m.Team1ID] = m.Team1House.Name
		}
		if m.Team2ID != nil && m.Team2House != nil {
			report.TeamHouseNames[*m.Team2ID] = m.Team2House.Name
		}
	}

	buf, err := reports.BuildWorkbook(report)
	if err != nil {
		return nil, fmt.Errorf("failed to build tournament report: %w", err)
	}
	return buf, nil
}

func (s *reportService) ArchiveTournamentReport(ctx context.Context) (*storage.UploadResult, error) {
	if s.uploader == nil {
		return nil, ErrArchiveNotConfigured
	}
	buf, err := s.BuildTournamentReport(ctx)
	if err != nil {
		return nil, err
	}

	key := fmt.Sprintf("reports/%s/tournament-%s.xlsx", s.tournamentDate, uuid.NewString())
	result, err := s.uploader.Upload(ctx, key, reports.ContentTypeXLSX, buf)
	if err != nil {
		return nil, fmt.Errorf("failed to archive tournament report: %w", err)
	}
	s.logger.InfoContext(ctx, "tournament report archived", slog.String("key", result.Key), slog.String("location", result.Location))
	return result, nil
}
