package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/Dosada05/house-tournament/models"
	"github.com/Dosada05/house-tournament/repositories"
)

type PlayerInput struct {
	Name   string        `json:"name"`
	Gender models.Gender `json:"gender"`
}

// TeamInput - регистрация команды дома. Players необязателен; если он задан,
// имена в парах должны быть из этого списка.
type TeamInput struct {
	HouseID   int           `json:"house_id"`
	MixedPair models.Pair   `json:"mixed_pair"`
	MensPair  models.Pair   `json:"mens_pair"`
	Players   []PlayerInput `json:"players,omitempty"`
}

type TablePreferenceInput struct {
	TableID int     `json:"table_id"`
	Notes   *string `json:"notes,omitempty"`
}

type TeamService interface {
	CreateTeam(ctx context.Context, input TeamInput) (*models.Team, error)
	UpdateTeam(ctx context.Context, teamID int, input TeamInput) (*models.Team, error)
	DeleteTeam(ctx context.Context, teamID int) error
	GetTeam(ctx context.Context, teamID int) (*models.Team, error)
	ListTeams(ctx context.Context) ([]*models.Team, error)
	SetTablePreference(ctx context.Context, teamID int, category models.Category, input TablePreferenceInput) (*models.TeamTableAssignment, error)
	DeleteTablePreference(ctx context.Context, teamID int, category models.Category) error
}

type teamService struct {
	tx            repositories.TxManager
	teamRepo      repositories.TeamRepository
	houseRepo     repositories.HouseRepository
	tableRepo     repositories.TableRepository
	teamTableRepo repositories.TeamTableRepository
	logger        *slog.Logger
}

func NewTeamService(
	tx repositories.TxManager,
	teamRepo repositories.TeamRepository,
	houseRepo repositories.HouseRepository,
	tableRepo repositories.TableRepository,
	teamTableRepo repositories.TeamTableRepository,
	logger *slog.Logger,
) TeamService {
	return &teamService{
		tx:            tx,
		teamRepo:      teamRepo,
		houseRepo:     houseRepo,
		tableRepo:     tableRepo,
		teamTableRepo: teamTableRepo,
		logger:        logger,
	}
}

func (s *teamService) CreateTeam(ctx context.Context, input TeamInput) (*models.Team, error) {
	input = normalizeTeamInput(input)
	if err := validateTeamInput(input); err != nil {
		return nil, err
	}

	team := &models.Team{HouseID: input.HouseID, MixedPair: input.MixedPair, MensPair: input.MensPair}
	err := s.tx.WithinTx(ctx, func(ctx context.Context, exec repositories.SQLExecutor) error {
		house, err := s.houseRepo.GetByID(ctx, exec, input.HouseID)
		if err != nil {
			return err
		}
		if err := s.teamRepo.Create(ctx, exec, team); err != nil {
			return err
		}
		team.Players, err = s.teamRepo.ReplacePlayers(ctx, exec, team.ID, team.HouseID, toPlayers(input.Players))
		team.House = house
		return err
	})
	if err != nil {
		return nil, mapRepoError(err)
	}
	s.logger.InfoContext(ctx, "team registered", slog.Int("team_id", team.ID), slog.Int("house_id", team.HouseID))
	return team, nil
}

// UpdateTeam меняет состав команды. Уже созданные матчи хранят свой снимок пар
// и не меняются до следующей генерации расписания.
func (s *teamService) UpdateTeam(ctx context.Context, teamID int, input TeamInput) (*models.Team, error) {
	input = normalizeTeamInput(input)
	if err := validateTeamInput(input); err != nil {
		return nil, err
	}

	var team *models.Team
	err := s.tx.WithinTx(ctx, func(ctx context.Context, exec repositories.SQLExecutor) error {
		t, err := s.teamRepo.GetByID(ctx, exec, teamID)
		if err != nil {
			return err
		}
		house, err := s.houseRepo.GetByID(ctx, exec, input.HouseID)
		if err != nil {
			return err
		}
		t.HouseID = input.HouseID
		t.MixedPair = input.MixedPair
		t.MensPair = input.MensPair
		if err := s.teamRepo.Update(ctx, exec, t); err != nil {
			return err
		}
		t.Players, err = s.teamRepo.ReplacePlayers(ctx, exec, t.ID, t.HouseID, toPlayers(input.Players))
		t.House = house
		team = t
		return err
	})
	if err != nil {
		return nil, mapRepoError(err)
	}
	s.logger.InfoContext(ctx, "team updated", slog.Int("team_id", team.ID))
	return team, nil
}

func (s *teamService) DeleteTeam(ctx context.Context, teamID int) error {
	if err := s.teamRepo.Delete(ctx, nil, teamID); err != nil {
		return mapRepoError(err)
	}
	s.logger.InfoContext(ctx, "team deleted", slog.Int("team_id", teamID))
	return nil
}

func (s *teamService) GetTeam(ctx context.Context, teamID int) (*models.Team, error) {
	team, err := s.teamRepo.GetByID(ctx, nil, teamID)
	if err != nil {
		return nil, mapRepoError(err)
	}
	teams := []*models.Team{team}
	if err := s.populate(ctx, teams); err != nil {
		return nil, err
	}
	return team, nil
}

func (s *teamService) ListTeams(ctx context.Context) ([]*models.Team, error) {
	teams, err := s.teamRepo.List(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to list teams: %w", err)
	}
	if err := s.populate(ctx, teams); err != nil {
		return nil, err
	}
	return teams, nil
}

// populate подгружает дома, составы и предпочтения столов параллельно.
func (s *teamService) populate(ctx context.Context, teams []*models.Team) error {
	if len(teams) == 0 {
		return nil
	}
	var (
		houses  []*models.House
		players map[int][]models.Player
		prefs   []*models.TeamTableAssignment
	)
	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		houses, err = s.houseRepo.List(gCtx, nil)
		return err
	})
	g.Go(func() error {
		var err error
		players, err = s.teamRepo.ListPlayersByTeam(gCtx, nil)
		return err
	})
	g.Go(func() error {
		var err error
		prefs, err = s.teamTableRepo.List(gCtx, nil)
		return err
	})
	if err := g.Wait(); err != nil {
		return fmt.Errorf("failed to load team details: %w", err)
	}

	byID := houseNames(houses)
	for _, t := range teams {
		t.House = byID[t.HouseID]
		t.Players = players[t.ID]
	}
	attachTablePreferences(teams, prefs)
	return nil
}

func (s *teamService) SetTablePreference(ctx context.Context, teamID int, category models.Category, input TablePreferenceInput) (*models.TeamTableAssignment, error) {
	if err := validateCategory(category); err != nil {
		return nil, err
	}
	assignment := &models.TeamTableAssignment{TeamID: teamID, Category: category, TableID: input.TableID, Notes: input.Notes}
	err := s.tx.WithinTx(ctx, func(ctx context.Context, exec repositories.SQLExecutor) error {
		if _, err := s.teamRepo.GetByID(ctx, exec, teamID); err != nil {
			return err
		}
		table, err := s.tableRepo.GetByID(ctx, exec, input.TableID)
		if err != nil {
			return err
		}
		if !table.EffectiveAssignment().Accepts(category) {
			return fmt.Errorf("%w: table %q is assigned to %s", ErrTableCategoryMismatch, table.Name, table.EffectiveAssignment())
		}
		return s.teamTableRepo.Upsert(ctx, exec, assignment)
	})
	if err != nil {
		return nil, mapRepoError(err)
	}
	s.logger.InfoContext(ctx, "team table preference saved",
		slog.Int("team_id", teamID), slog.String("category", string(category)), slog.Int("table_id", input.TableID))
	return assignment, nil
}

func (s *teamService) DeleteTablePreference(ctx context.Context, teamID int, category models.Category) error {
	if err := validateCategory(category); err != nil {
		return err
	}
	if err := s.teamTableRepo.Delete(ctx, nil, teamID, category); err != nil {
		return mapRepoError(err)
	}
	return nil
}

func normalizeTeamInput(in TeamInput) TeamInput {
	trimPair := func(p models.Pair) models.Pair {
		return models.Pair{Player1: strings.TrimSpace(p.Player1), Player2: strings.TrimSpace(p.Player2)}
	}
	in.MixedPair = trimPair(in.MixedPair)
	in.MensPair = trimPair(in.MensPair)
	players := make([]PlayerInput, 0, len(in.Players))
	for _, p := range in.Players {
		p.Name = strings.TrimSpace(p.Name)
		p.Gender = models.Gender(strings.ToUpper(strings.TrimSpace(string(p.Gender))))
		players = append(players, p)
	}
	in.Players = players
	return in
}

// validateTeamInput проверяет дом, состав и пары. Незаполненные места в парах
// допустимы: такие команды получают предупреждение при генерации расписания.
func validateTeamInput(in TeamInput) error {
	verr := &ValidationError{}
	if in.HouseID <= 0 {
		verr.add("house_id", "is required")
	}

	genders := make(map[string]models.Gender, len(in.Players))
	for i, p := range in.Players {
		field := fmt.Sprintf("players[%d]", i)
		switch {
		case p.Name == "":
			verr.add(field, "name is required")
		case p.Gender != models.GenderMale && p.Gender != models.GenderFemale:
			verr.add(field, "gender must be M or F")
		}
		if _, dup := genders[p.Name]; dup && p.Name != "" {
			verr.add(field, fmt.Sprintf("player %q is listed twice", p.Name))
		}
		genders[p.Name] = p.Gender
	}

	checkPair := func(field string, pair models.Pair) {
		if pair.Player1 != "" && pair.Player1 == pair.Player2 {
			verr.add(field, "the same player cannot fill both places")
		}
		if len(in.Players) == 0 {
			return
		}
		for _, name := range []string{pair.Player1, pair.Player2} {
			if _, ok := genders[name]; name != "" && !ok {
				verr.add(field, fmt.Sprintf("player %q is not in the team roster", name))
			}
		}
	}
	checkPair("mixed_pair", in.MixedPair)
	checkPair("mens_pair", in.MensPair)

	if len(in.Players) > 0 {
		if in.MensPair.Complete() &&
			(genders[in.MensPair.Player1] != models.GenderMale || genders[in.MensPair.Player2] != models.GenderMale) {
			verr.add("mens_pair", "both players must be male")
		}
		if in.MixedPair.Complete() && genders[in.MixedPair.Player1] == genders[in.MixedPair.Player2] {
			verr.add("mixed_pair", "must be one male and one female player")
		}
	}
	return verr.errOrNil()
}

func toPlayers(in []PlayerInput) []models.Player {
	players := make([]models.Player, 0, len(in))
	for _, p := range in {
		players = append(players, models.Player{Name: p.Name, Gender: p.Gender})
	}
	return players
}
