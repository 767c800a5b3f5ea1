package services

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/Dosada05/house-tournament/models"
	"github.com/Dosada05/house-tournament/repositories"
	"github.com/Dosada05/house-tournament/standings"
)

type StandingsService interface {
	// GetStandings считает таблицу по завершенным матчам. Результат не кэшируется.
	GetStandings(ctx context.Context) (*models.StandingsSummary, error)
}

type standingsService struct {
	houseRepo repositories.HouseRepository
	teamRepo  repositories.TeamRepository
	matchRepo repositories.MatchRepository
}

func NewStandingsService(
	houseRepo repositories.HouseRepository,
	teamRepo repositories.TeamRepository,
	matchRepo repositories.MatchRepository,
) StandingsService {
	return &standingsService{houseRepo: houseRepo, teamRepo: teamRepo, matchRepo: matchRepo}
}

func (s *standingsService) GetStandings(ctx context.Context) (*models.StandingsSummary, error) {
	var (
		houses  []*models.House
		teams   []*models.Team
		matches []*models.Match
	)
	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		if houses, err = s.houseRepo.List(gCtx, nil); err != nil {
			return fmt.Errorf("failed to list houses: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		if teams, err = s.teamRepo.List(gCtx, nil); err != nil {
			return fmt.Errorf("failed to list teams: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		completed := models.MatchStatusCompleted
		var err error
		if matches, err = s.matchRepo.List(gCtx, nil, repositories.MatchFilter{Status: &completed}); err != nil {
			return fmt.Errorf("failed to list completed matches: %w", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	results := standings.ResultsFromMatches(matches, teamHouses(teams))
	byCategory, titles := standings.ResolveByCategory(houses, results)
	return &models.StandingsSummary{
		Overall:        standings.Resolve(houses, results),
		ByCategory:     byCategory,
		CategoryTitles: titles,
	}, nil
}
