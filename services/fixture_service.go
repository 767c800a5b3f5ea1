package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/Dosada05/house-tournament/brackets"
	"github.com/Dosada05/house-tournament/metrics"
	"github.com/Dosada05/house-tournament/models"
	"github.com/Dosada05/house-tournament/repositories"
)

type FixtureResult struct {
	Matches  []*models.Match           `json:"matches"`
	Warnings []brackets.FixtureWarning `json:"warnings"`
	// Сколько матчей прежнего расписания было удалено.
	Replaced int64 `json:"replaced"`
}

type FixtureService interface {
	// GenerateFixtures заменяет всё расписание новым круговым расписанием
	// по текущему составу команд. Выполняется одной транзакцией.
	GenerateFixtures(ctx context.Context) (*FixtureResult, error)
}

type fixtureService struct {
	tx             repositories.TxManager
	teamRepo       repositories.TeamRepository
	teamTableRepo  repositories.TeamTableRepository
	matchRepo      repositories.MatchRepository
	generator      brackets.FixtureGenerator
	housePoints    HousePointsService
	publisher      EventPublisher
	metrics        *metrics.Metrics
	logger         *slog.Logger
	tournamentDate string
}

func NewFixtureService(
	tx repositories.TxManager,
	teamRepo repositories.TeamRepository,
	teamTableRepo repositories.TeamTableRepository,
	matchRepo repositories.MatchRepository,
	generator brackets.FixtureGenerator,
	housePoints HousePointsService,
	publisher EventPublisher,
	m *metrics.Metrics,
	logger *slog.Logger,
	tournamentDate string,
) FixtureService {
	if generator == nil {
		generator = brackets.NewRoundRobinGenerator()
	}
	return &fixtureService{
		tx:             tx,
		teamRepo:       teamRepo,
		teamTableRepo:  teamTableRepo,
		matchRepo:      matchRepo,
		generator:      generator,
		housePoints:    housePoints,
		publisher:      publisherOrNoop(publisher),
		metrics:        m,
		logger:         logger,
		tournamentDate: tournamentDate,
	}
}

func (s *fixtureService) GenerateFixtures(ctx context.Context) (*FixtureResult, error) {
	result := &FixtureResult{}

	err := s.tx.WithinTx(ctx, func(ctx context.Context, exec repositories.SQLExecutor) error {
		if err := s.matchRepo.LockForRegeneration(ctx, exec); err != nil {
			return err
		}
		teams, err := s.teamRepo.List(ctx, exec)
		if err != nil {
			return fmt.Errorf("failed to list teams: %w", err)
		}
		prefs, err := s.teamTableRepo.List(ctx, exec)
		if err != nil {
			return fmt.Errorf("failed to list team table preferences: %w", err)
		}
		attachTablePreferences(teams, prefs)

		schedule, err := s.generator.Generate(ctx, brackets.GenerateFixturesParams{Teams: teams})
		if err != nil {
			return fmt.Errorf("%s failed to build schedule: %w", s.generator.GetName(), err)
		}

		result.Replaced, err = s.matchRepo.DeleteAll(ctx, exec)
		if err != nil {
			return fmt.Errorf("failed to clear previous fixtures: %w", err)
		}

		matches := make([]*models.Match, 0, len(schedule.Fixtures))
		for _, f := range schedule.Fixtures {
			team1, team2 := f.Team1ID, f.Team2ID
			matches = append(matches, &models.Match{
				MatchNumber: f.MatchNumber,
				Category:    f.Category,
				Team1ID:     &team1,
				Team2ID:     &team2,
				Pair1:       f.Pair1,
				Pair2:       f.Pair2,
				TableID:     f.TableID,
				Status:      models.MatchStatusPending,
			})
		}
		if err := s.matchRepo.CreateBatch(ctx, exec, matches); err != nil {
			return err
		}
		for _, m := range matches {
			annotateMatch(m)
		}
		result.Matches = matches
		result.Warnings = schedule.Warnings
		return nil
	})
	if err != nil {
		return nil, mapRepoError(err)
	}

	for _, w := range result.Warnings {
		s.logger.WarnContext(ctx, "fixture generated with incomplete pair",
			slog.Int("team_id", w.TeamID), slog.Int("house_id", w.HouseID), slog.String("category", string(w.Category)))
	}
	s.logger.InfoContext(ctx, "fixtures generated",
		slog.Int("matches", len(result.Matches)), slog.Int64("replaced", result.Replaced), slog.Int("warnings", len(result.Warnings)))
	s.metrics.FixturesGenerated(len(result.Matches))
	s.publisher.Publish(brackets.EventFixturesGenerated, result.Matches)

	if _, err := s.housePoints.RecalculateHousePoints(ctx, s.tournamentDate); err != nil {
		s.logger.ErrorContext(ctx, "house points recalculation after fixture generation failed", slog.Any("error", err))
	}
	return result, nil
}
