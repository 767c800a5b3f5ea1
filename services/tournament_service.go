package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/Dosada05/house-tournament/brackets"
	"github.com/Dosada05/house-tournament/config"
	"github.com/Dosada05/house-tournament/models"
	"github.com/Dosada05/house-tournament/repositories"
)

type SeedResult struct {
	Houses []*models.House     `json:"houses"`
	Tables []*models.PlayTable `json:"tables"`
}

type ResetResult struct {
	MatchesDeleted int64 `json:"matches_deleted"`
}

// TournamentService - обслуживание дня турнира: справочники и сброс результатов.
type TournamentService interface {
	Seed(ctx context.Context, seed *config.Seed) (*SeedResult, error)
	// Reset удаляет матчи, оценки духа и кэш очков, сохраняя дома, столы и команды.
	Reset(ctx context.Context) (*ResetResult, error)
}

type tournamentService struct {
	tx         repositories.TxManager
	houseRepo  repositories.HouseRepository
	tableRepo  repositories.TableRepository
	matchRepo  repositories.MatchRepository
	spiritRepo repositories.SpiritRepository
	pointsRepo repositories.HousePointsRepository
	publisher  EventPublisher
	logger     *slog.Logger
}

func NewTournamentService(
	tx repositories.TxManager,
	houseRepo repositories.HouseRepository,
	tableRepo repositories.TableRepository,
	matchRepo repositories.MatchRepository,
	spiritRepo repositories.SpiritRepository,
	pointsRepo repositories.HousePointsRepository,
	publisher EventPublisher,
	logger *slog.Logger,
) TournamentService {
	return &tournamentService{
		tx:         tx,
		houseRepo:  houseRepo,
		tableRepo:  tableRepo,
		matchRepo:  matchRepo,
		spiritRepo: spiritRepo,
		pointsRepo: pointsRepo,
		publisher:  publisherOrNoop(publisher),
		logger:     logger,
	}
}

func (s *tournamentService) Seed(ctx context.Context, seed *config.Seed) (*SeedResult, error) {
	if seed == nil {
		return nil, fmt.Errorf("%w: seed is empty", ErrValidationFailed)
	}
	result := &SeedResult{}
	err := s.tx.WithinTx(ctx, func(ctx context.Context, exec repositories.SQLExecutor) error {
		for _, h := range seed.Houses {
			house := &models.House{Name: h.Name, Color: h.Color, ColorHex: h.ColorHex}
			if err := s.houseRepo.UpsertByName(ctx, exec, house); err != nil {
				return fmt.Errorf("failed to seed house %q: %w", h.Name, err)
			}
			result.Houses = append(result.Houses, house)
		}
		for _, t := range seed.Tables {
			assignment := models.TableAssignment(t.AssignedCategory)
			table := &models.PlayTable{
				Name:              t.Name,
				AssignedCategory:  assignment,
				CurrentAssignment: assignment,
				SortOrder:         t.SortOrder,
			}
			if err := s.tableRepo.UpsertByName(ctx, exec, table); err != nil {
				return fmt.Errorf("failed to seed table %q: %w", t.Name, err)
			}
			result.Tables = append(result.Tables, table)
		}
		return nil
	})
	if err != nil {
		return nil, mapRepoError(err)
	}
	s.logger.InfoContext(ctx, "reference data seeded", slog.Int("houses", len(result.Houses)), slog.Int("tables", len(result.Tables)))
	return result, nil
}

func (s *tournamentService) Reset(ctx context.Context) (*ResetResult, error) {
	result := &ResetResult{}
	err := s.tx.WithinTx(ctx, func(ctx context.Context, exec repositories.SQLExecutor) error {
		if err := s.matchRepo.LockForRegeneration(ctx, exec); err != nil {
			return err
		}
		var err error
		if result.MatchesDeleted, err = s.matchRepo.DeleteAll(ctx, exec); err != nil {
			return fmt.Errorf("failed to delete matches: %w", err)
		}
		if err := s.spiritRepo.DeleteAll(ctx, exec); err != nil {
			return fmt.Errorf("failed to delete spirit assessments: %w", err)
		}
		if err := s.pointsRepo.DeleteAll(ctx, exec); err != nil {
			return fmt.Errorf("failed to delete house points: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, mapRepoError(err)
	}
	s.logger.WarnContext(ctx, "tournament results reset", slog.Int64("matches_deleted", result.MatchesDeleted))
	s.publisher.Publish(brackets.EventFixturesGenerated, []*models.Match{})
	s.publisher.Publish(brackets.EventHousePointsUpdated, []models.HousePoints{})
	return result, nil
}
