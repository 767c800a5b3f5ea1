package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/Dosada05/house-tournament/brackets"
	"github.com/Dosada05/house-tournament/metrics"
	"github.com/Dosada05/house-tournament/models"
	"github.com/Dosada05/house-tournament/repositories"
	"github.com/Dosada05/house-tournament/standings"
)

// Максимум по каждому критерию оценки духа.
const MaxSpiritCriterion = 10.0

type SpiritInput struct {
	AssessorName    string  `json:"assessor_name"`
	Sportsmanship   float64 `json:"sportsmanship"`
	Teamwork        float64 `json:"teamwork"`
	SeatArrangement float64 `json:"seat_arrangement"`
	Notes           *string `json:"notes,omitempty"`
}

type HousePointsService interface {
	// GetHousePoints читает кэш за дату. Пустой кэш или fresh=true запускают пересчёт.
	GetHousePoints(ctx context.Context, date string, fresh bool) ([]models.HousePoints, error)
	RecalculateHousePoints(ctx context.Context, date string) ([]models.HousePoints, error)
	AssessSpirit(ctx context.Context, houseID int, date string, input SpiritInput) (*models.SpiritAssessment, error)
	ListSpiritAssessments(ctx context.Context, date string) ([]*models.SpiritAssessment, error)
}

type housePointsService struct {
	tx         repositories.TxManager
	houseRepo  repositories.HouseRepository
	teamRepo   repositories.TeamRepository
	matchRepo  repositories.MatchRepository
	spiritRepo repositories.SpiritRepository
	pointsRepo repositories.HousePointsRepository
	publisher  EventPublisher
	metrics    *metrics.Metrics
	logger     *slog.Logger
}

func NewHousePointsService(
	tx repositories.TxManager,
	houseRepo repositories.HouseRepository,
	teamRepo repositories.TeamRepository,
	matchRepo repositories.MatchRepository,
	spiritRepo repositories.SpiritRepository,
	pointsRepo repositories.HousePointsRepository,
	publisher EventPublisher,
	m *metrics.Metrics,
	logger *slog.Logger,
) HousePointsService {
	return &housePointsService{
		tx:         tx,
		houseRepo:  houseRepo,
		teamRepo:   teamRepo,
		matchRepo:  matchRepo,
		spiritRepo: spiritRepo,
		pointsRepo: pointsRepo,
		publisher:  publisherOrNoop(publisher),
		metrics:    m,
		logger:     logger,
	}
}

func (s *housePointsService) GetHousePoints(ctx context.Context, date string, fresh bool) ([]models.HousePoints, error) {
	if err := validateDate(date); err != nil {
		return nil, err
	}
	if !fresh {
		cached, err := s.pointsRepo.ListByDate(ctx, nil, date)
		if err != nil {
			return nil, fmt.Errorf("failed to read house points for %s: %w", date, err)
		}
		if len(cached) > 0 {
			return cached, nil
		}
	}
	return s.RecalculateHousePoints(ctx, date)
}

// RecalculateHousePoints пересчитывает очки домов за дату и перезаписывает кэш.
// Пересчёты сериализуются, поэтому каждый видит все закоммиченные результаты.
func (s *housePointsService) RecalculateHousePoints(ctx context.Context, date string) ([]models.HousePoints, error) {
	if err := validateDate(date); err != nil {
		return nil, err
	}

	var rows []models.HousePoints
	err := s.tx.WithinTx(ctx, func(ctx context.Context, exec repositories.SQLExecutor) error {
		if err := s.pointsRepo.LockRecalculation(ctx, exec); err != nil {
			return err
		}
		houses, err := s.houseRepo.List(ctx, exec)
		if err != nil {
			return fmt.Errorf("failed to list houses: %w", err)
		}
		teams, err := s.teamRepo.List(ctx, exec)
		if err != nil {
			return fmt.Errorf("failed to list teams: %w", err)
		}
		completed := models.MatchStatusCompleted
		matches, err := s.matchRepo.List(ctx, exec, repositories.MatchFilter{Status: &completed})
		if err != nil {
			return fmt.Errorf("failed to list completed matches: %w", err)
		}
		assessments, err := s.spiritRepo.ListByDate(ctx, exec, date)
		if err != nil {
			return fmt.Errorf("failed to list spirit assessments: %w", err)
		}

		spirit := make(map[int]float64, len(assessments))
		for _, a := range assessments {
			spirit[a.HouseID] = a.Total
		}
		overall := standings.Resolve(houses, standings.ResultsFromMatches(matches, teamHouses(teams)))
		rows = standings.ComputeHousePoints(standings.HousePointsInput{
			Date:      date,
			Houses:    houses,
			Standings: overall,
			Teams:     teams,
			Spirit:    spirit,
		})
		return s.pointsRepo.Upsert(ctx, exec, rows)
	})
	if err != nil {
		return nil, mapRepoError(err)
	}

	s.metrics.HousePointsRecalculated()
	s.publisher.Publish(brackets.EventHousePointsUpdated, rows)
	s.logger.InfoContext(ctx, "house points recalculated", slog.String("date", date), slog.Int("houses", len(rows)))
	return rows, nil
}

func (s *housePointsService) AssessSpirit(ctx context.Context, houseID int, date string, input SpiritInput) (*models.SpiritAssessment, error) {
	if err := validateDate(date); err != nil {
		return nil, err
	}
	if err := validateSpiritInput(input); err != nil {
		return nil, err
	}
	if _, err := s.houseRepo.GetByID(ctx, nil, houseID); err != nil {
		return nil, mapRepoError(err)
	}

	assessment := &models.SpiritAssessment{
		HouseID:         houseID,
		TournamentDate:  date,
		AssessorName:    strings.TrimSpace(input.AssessorName),
		Sportsmanship:   input.Sportsmanship,
		Teamwork:        input.Teamwork,
		SeatArrangement: input.SeatArrangement,
		Total:           input.Sportsmanship + input.Teamwork + input.SeatArrangement,
		Notes:           input.Notes,
	}
	if err := s.spiritRepo.Upsert(ctx, nil, assessment); err != nil {
		return nil, mapRepoError(err)
	}
	s.logger.InfoContext(ctx, "spirit assessed",
		slog.Int("house_id", houseID), slog.String("date", date), slog.Float64("total", assessment.Total))

	if _, err := s.RecalculateHousePoints(ctx, date); err != nil {
		s.logger.ErrorContext(ctx, "house points recalculation after spirit assessment failed",
			slog.Int("house_id", houseID), slog.String("date", date), slog.Any("error", err))
	}
	return assessment, nil
}

func (s *housePointsService) ListSpiritAssessments(ctx context.Context, date string) ([]*models.SpiritAssessment, error) {
	if err := validateDate(date); err != nil {
		return nil, err
	}
	list, err := s.spiritRepo.ListByDate(ctx, nil, date)
	if err != nil {
		return nil, fmt.Errorf("failed to list spirit assessments for %s: %w", date, err)
	}
	return list, nil
}

func validateSpiritInput(in SpiritInput) error {
	verr := &ValidationError{}
	if strings.TrimSpace(in.AssessorName) == "" {
		verr.add("assessor_name", "is required")
	}
	check := func(field string, v float64) {
		if v < 0 || v > MaxSpiritCriterion {
			verr.add(field, fmt.Sprintf("must be between 0 and %.0f", MaxSpiritCriterion))
		}
	}
	check("sportsmanship", in.Sportsmanship)
	check("teamwork", in.Teamwork)
	check("seat_arrangement", in.SeatArrangement)
	return verr.errOrNil()
}
