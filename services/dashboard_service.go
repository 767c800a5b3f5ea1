package services

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/Dosada05/house-tournament/models"
	"github.com/Dosada05/house-tournament/repositories"
)

type DashboardService interface {
	GetStats(ctx context.Context) (models.DashboardStats, error)
}

type dashboardService struct {
	houseRepo      repositories.HouseRepository
	teamRepo       repositories.TeamRepository
	tableRepo      repositories.TableRepository
	matchRepo      repositories.MatchRepository
	spiritRepo     repositories.SpiritRepository
	tournamentDate string
}

func NewDashboardService(
	houseRepo repositories.HouseRepository,
	teamRepo repositories.TeamRepository,
	tableRepo repositories.TableRepository,
	matchRepo repositories.MatchRepository,
	spiritRepo repositories.SpiritRepository,
	tournamentDate string,
) DashboardService {
	return &dashboardService{
		houseRepo:      houseRepo,
		teamRepo:       teamRepo,
		tableRepo:      tableRepo,
		matchRepo:      matchRepo,
		spiritRepo:     spiritRepo,
		tournamentDate: tournamentDate,
	}
}

func (s *dashboardService) GetStats(ctx context.Context) (models.DashboardStats, error) {
	stats := models.DashboardStats{TournamentDate: s.tournamentDate}

	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		stats.HousesTotal, err = s.houseRepo.Count(gCtx, nil)
		return err
	})
	g.Go(func() (err error) {
		stats.TeamsTotal, err = s.teamRepo.Count(gCtx, nil)
		return err
	})
	g.Go(func() (err error) {
		stats.TablesTotal, err = s.tableRepo.Count(gCtx, nil)
		return err
	})
	g.Go(func() (err error) {
		stats.Matches, err = s.matchRepo.CountByStatus(gCtx, nil)
		return err
	})
	g.Go(func() error {
		marks, err := s.spiritRepo.ListByDate(gCtx, nil, s.tournamentDate)
		stats.SpiritSubmitted = len(marks)
		return err
	})
	if err := g.Wait(); err != nil {
		return models.DashboardStats{}, fmt.Errorf("failed to collect dashboard stats: %w", err)
	}
	return stats, nil
}
