package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/Dosada05/house-tournament/brackets"
	"github.com/Dosada05/house-tournament/metrics"
	"github.com/Dosada05/house-tournament/models"
	"github.com/Dosada05/house-tournament/repositories"
	"github.com/Dosada05/house-tournament/scoring"
)

type RecordScoreInput struct {
	GameNumber int `json:"game_number"`
	Team1Score int `json:"team1_score"`
	Team2Score int `json:"team2_score"`
}

// ScoreResult - ответ на запись счета партии.
type ScoreResult struct {
	Match             *models.Match `json:"match"`
	GameComplete      bool          `json:"game_complete"`
	NeedsTwoPointLead bool          `json:"needs_two_point_lead"`
	MatchComplete     bool          `json:"match_complete"`
	Team1Wins         int           `json:"team1_wins"`
	Team2Wins         int           `json:"team2_wins"`
	CurrentGame       int           `json:"current_game"`
	Message           string        `json:"message"`
}

type MatchService interface {
	ListMatches(ctx context.Context, filter repositories.MatchFilter) ([]*models.Match, error)
	GetMatch(ctx context.Context, matchID int) (*models.Match, error)
	RecordGameScore(ctx context.Context, matchID int, input RecordScoreInput) (*ScoreResult, error)
	StartMatch(ctx context.Context, matchID int) (*models.Match, error)
	FinalizeMatch(ctx context.Context, matchID int) (*models.Match, error)
	// AssignTable ставит матч на стол; nil снимает матч со стола.
	AssignTable(ctx context.Context, matchID int, tableID *int) (*models.Match, error)
	// AutoAssignTables раскладывает ожидающие матчи без стола по подходящим столам.
	AutoAssignTables(ctx context.Context) ([]brackets.TableAllocation, error)
}

type matchService struct {
	tx             repositories.TxManager
	matchRepo      repositories.MatchRepository
	teamRepo       repositories.TeamRepository
	houseRepo      repositories.HouseRepository
	tableRepo      repositories.TableRepository
	housePoints    HousePointsService
	publisher      EventPublisher
	metrics        *metrics.Metrics
	logger         *slog.Logger
	now            Clock
	tournamentDate string
}

func NewMatchService(
	tx repositories.TxManager,
	matchRepo repositories.MatchRepository,
	teamRepo repositories.TeamRepository,
	houseRepo repositories.HouseRepository,
	tableRepo repositories.TableRepository,
	housePoints HousePointsService,
	publisher EventPublisher,
	m *metrics.Metrics,
	logger *slog.Logger,
	clock Clock,
	tournamentDate string,
) MatchService {
	return &matchService{
		tx:             tx,
		matchRepo:      matchRepo,
		teamRepo:       teamRepo,
		houseRepo:      houseRepo,
		tableRepo:      tableRepo,
		housePoints:    housePoints,
		publisher:      publisherOrNoop(publisher),
		metrics:        m,
		logger:         logger,
		now:            clockOrNow(clock),
		tournamentDate: tournamentDate,
	}
}

func annotateMatch(m *models.Match) {
	if m != nil {
		scoring.Annotate(m)
	}
}

func (s *matchService) ListMatches(ctx context.Context, filter repositories.MatchFilter) ([]*models.Match, error) {
	if filter.Category != nil {
		if err := validateCategory(*filter.Category); err != nil {
			return nil, err
		}
	}
	matches, err := s.matchRepo.List(ctx, nil, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list matches: %w", err)
	}
	if err := s.enrich(ctx, matches...); err != nil {
		return nil, err
	}
	return matches, nil
}

func (s *matchService) GetMatch(ctx context.Context, matchID int) (*models.Match, error) {
	m, err := s.matchRepo.GetByID(ctx, nil, matchID)
	if err != nil {
		return nil, mapRepoError(err)
	}
	if err := s.enrich(ctx, m); err != nil {
		return nil, err
	}
	return m, nil
}

// enrich заполняет производные поля, дома команд и стол.
func (s *matchService) enrich(ctx context.Context, matches ...*models.Match) error {
	for _, m := range matches {
		annotateMatch(m)
	}
	if len(matches) == 0 {
		return nil
	}

	var (
		teams  []*models.Team
		houses []*models.House
		tables []*models.PlayTable
	)
	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		teams, err = s.teamRepo.List(gCtx, nil)
		return err
	})
	g.Go(func() error {
		var err error
		houses, err = s.houseRepo.List(gCtx, nil)
		return err
	})
	g.Go(func() error {
		var err error
		tables, err = s.tableRepo.List(gCtx, nil)
		return err
	})
	if err := g.Wait(); err != nil {
		return fmt.Errorf("failed to load match details: %w", err)
	}

	houseByID := houseNames(houses)
	houseOfTeam := teamHouses(teams)
	tableByID := make(map[int]*models.PlayTable, len(tables))
	for _, t := range tables {
		tableByID[t.ID] = t
	}
	houseFor := func(teamID *int) *models.House {
		if teamID == nil {
			return nil
		}
		if hid, ok := houseOfTeam[*teamID]; ok {
			return houseByID[hid]
		}
		return nil
	}
	for _, m := range matches {
		m.Team1House = houseFor(m.Team1ID)
		m.Team2House = houseFor(m.Team2ID)
		if m.TableID != nil {
			m.Table = tableByID[*m.TableID]
		}
	}
	return nil
}

// RecordGameScore записывает счет одной партии под блокировкой строки матча.
// На третьей выигранной партии матч завершается автоматически.
func (s *matchService) RecordGameScore(ctx context.Context, matchID int, input RecordScoreInput) (*ScoreResult, error) {
	if err := scoring.ValidateGameNumber(input.GameNumber); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrValidationFailed, err)
	}
	if err := scoring.ValidateGameScore(input.Team1Score, input.Team2Score); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrValidationFailed, err)
	}

	var (
		match  *models.Match
		update scoring.ScoreUpdate
	)
	err := s.tx.WithinTx(ctx, func(ctx context.Context, exec repositories.SQLExecutor) error {
		m, err := s.matchRepo.GetByIDForUpdate(ctx, exec, matchID)
		if err != nil {
			return err
		}
		update, err = scoring.ApplyGameScore(m, input.GameNumber, input.Team1Score, input.Team2Score, s.now())
		if err != nil {
			return err
		}
		if err := s.matchRepo.Update(ctx, exec, m); err != nil {
			return err
		}
		match = m
		return nil
	})
	if err != nil {
		if errors.Is(err, ErrIllegalTransition) {
			return nil, err
		}
		return nil, mapRepoError(err)
	}

	s.metrics.ScoreRecorded(string(match.Category))
	s.logger.InfoContext(ctx, "game score recorded",
		slog.Int("match_id", match.ID),
		slog.Int("game", input.GameNumber),
		slog.Int("team1", input.Team1Score),
		slog.Int("team2", input.Team2Score),
		slog.Bool("match_complete", update.AutoCompleted),
	)
	if update.AutoCompleted {
		s.metrics.MatchCompleted(metrics.CompletionAuto)
	}
	s.afterMatchWrite(ctx, match, update.AutoCompleted)

	return &ScoreResult{
		Match:             match,
		GameComplete:      update.Game.Complete,
		NeedsTwoPointLead: update.Game.NeedsTwoPointLead,
		MatchComplete:     update.Summary.Complete,
		Team1Wins:         update.Summary.Team1Wins,
		Team2Wins:         update.Summary.Team2Wins,
		CurrentGame:       update.Summary.CurrentGame,
		Message:           scoreMessage(input.GameNumber, update),
	}, nil
}

func scoreMessage(gameNumber int, u scoring.ScoreUpdate) string {
	switch {
	case u.Summary.Complete:
		winner := 1
		if u.Summary.Team2Wins > u.Summary.Team1Wins {
			winner = 2
		}
		return fmt.Sprintf("Match complete: team %d wins %d-%d", winner, max(u.Summary.Team1Wins, u.Summary.Team2Wins), min(u.Summary.Team1Wins, u.Summary.Team2Wins))
	case u.Game.NeedsTwoPointLead:
		return fmt.Sprintf("Game %d saved, a two-point lead is required to finish it", gameNumber)
	case u.Game.Complete:
		return fmt.Sprintf("Game %d complete", gameNumber)
	default:
		return fmt.Sprintf("Game %d score saved", gameNumber)
	}
}

func (s *matchService) StartMatch(ctx context.Context, matchID int) (*models.Match, error) {
	return s.transition(ctx, matchID, "started", scoring.Start)
}

// FinalizeMatch завершает матч вручную при любом счете.
func (s *matchService) FinalizeMatch(ctx context.Context, matchID int) (*models.Match, error) {
	return s.transition(ctx, matchID, "finalized", scoring.Finalize)
}

func (s *matchService) transition(ctx context.Context, matchID int, action string, apply func(*models.Match, time.Time) (bool, error)) (*models.Match, error) {
	var (
		match   *models.Match
		changed bool
	)
	err := s.tx.WithinTx(ctx, func(ctx context.Context, exec repositories.SQLExecutor) error {
		m, err := s.matchRepo.GetByIDForUpdate(ctx, exec, matchID)
		if err != nil {
			return err
		}
		changed, err = apply(m, s.now())
		if err != nil {
			return err
		}
		if changed {
			if err := s.matchRepo.Update(ctx, exec, m); err != nil {
				return err
			}
		}
		match = m
		return nil
	})
	if err != nil {
		if errors.Is(err, ErrIllegalTransition) {
			return nil, err
		}
		return nil, mapRepoError(err)
	}

	annotateMatch(match)
	if !changed {
		return match, nil
	}
	s.logger.InfoContext(ctx, "match "+action, slog.Int("match_id", match.ID), slog.String("status", string(match.Status)))
	completed := match.Status == models.MatchStatusCompleted
	if completed {
		s.metrics.MatchCompleted(metrics.CompletionManual)
	}
	s.afterMatchWrite(ctx, match, completed)
	return match, nil
}

// afterMatchWrite рассылает обновление матча и, если матч завершен,
// пересчитывает очки домов.
func (s *matchService) afterMatchWrite(ctx context.Context, m *models.Match, completed bool) {
	annotateMatch(m)
	s.publisher.Publish(brackets.EventMatchUpdated, m)
	if !completed {
		return
	}
	if _, err := s.housePoints.RecalculateHousePoints(ctx, s.tournamentDate); err != nil {
		s.logger.ErrorContext(ctx, "house points recalculation after match completion failed",
			slog.Int("match_id", m.ID), slog.Any("error", err))
	}
}

func (s *matchService) AssignTable(ctx context.Context, matchID int, tableID *int) (*models.Match, error) {
	var match *models.Match
	err := s.tx.WithinTx(ctx, func(ctx context.Context, exec repositories.SQLExecutor) error {
		m, err := s.matchRepo.GetByIDForUpdate(ctx, exec, matchID)
		if err != nil {
			return err
		}
		if tableID != nil {
			table, err := s.tableRepo.GetByID(ctx, exec, *tableID)
			if err != nil {
				return err
			}
			if !table.EffectiveAssignment().Accepts(m.Category) {
				return fmt.Errorf("%w: table %q is assigned to %s", ErrTableCategoryMismatch, table.Name, table.EffectiveAssignment())
			}
			m.Table = table
		}
		m.TableID = tableID
		if err := s.matchRepo.Update(ctx, exec, m); err != nil {
			return err
		}
		match = m
		return nil
	})
	if err != nil {
		return nil, mapRepoError(err)
	}
	annotateMatch(match)
	s.publisher.Publish(brackets.EventMatchUpdated, match)
	return match, nil
}

func (s *matchService) AutoAssignTables(ctx context.Context) ([]brackets.TableAllocation, error) {
	allocations := make([]brackets.TableAllocation, 0)
	err := s.tx.WithinTx(ctx, func(ctx context.Context, exec repositories.SQLExecutor) error {
		pending := models.MatchStatusPending
		matches, err := s.matchRepo.List(ctx, exec, repositories.MatchFilter{Status: &pending})
		if err != nil {
			return fmt.Errorf("failed to list pending matches: %w", err)
		}
		tables, err := s.tableRepo.List(ctx, exec)
		if err != nil {
			return fmt.Errorf("failed to list tables: %w", err)
		}
		byID := make(map[int]*models.Match, len(matches))
		for _, m := range matches {
			byID[m.ID] = m
		}
		for _, category := range models.Categories {
			for _, a := range brackets.DistributeTables(matches, tables, category) {
				m := byID[a.MatchID]
				tableID := a.TableID
				m.TableID = &tableID
				if err := s.matchRepo.Update(ctx, exec, m); err != nil {
					return err
				}
				allocations = append(allocations, a)
			}
		}
		return nil
	})
	if err != nil {
		return nil, mapRepoError(err)
	}
	s.logger.InfoContext(ctx, "tables auto-assigned", slog.Int("matches", len(allocations)))
	s.publisher.Publish(brackets.EventTablesUpdated, allocations)
	return allocations, nil
}
