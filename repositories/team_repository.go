package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Dosada05/house-tournament/models"
)

var (
	ErrTeamNotFound     = errors.New("team not found")
	ErrTeamHouseInvalid = errors.New("team house does not exist")
)

type TeamRepository interface {
	Create(ctx context.Context, exec SQLExecutor, team *models.Team) error
	Update(ctx context.Context, exec SQLExecutor, team *models.Team) error
	Delete(ctx context.Context, exec SQLExecutor, id int) error
	GetByID(ctx context.Context, exec SQLExecutor, id int) (*models.Team, error)
	// List возвращает команды в порядке регистрации.
	List(ctx context.Context, exec SQLExecutor) ([]*models.Team, error)
	Count(ctx context.Context, exec SQLExecutor) (int, error)

	ReplacePlayers(ctx context.Context, exec SQLExecutor, teamID, houseID int, players []models.Player) ([]models.Player, error)
	ListPlayersByTeam(ctx context.Context, exec SQLExecutor) (map[int][]models.Player, error)
}

type postgresTeamRepository struct {
	db *sql.DB
}

func NewPostgresTeamRepository(db *sql.DB) TeamRepository {
	return &postgresTeamRepository{db: db}
}

func (r *postgresTeamRepository) getExecutor(exec SQLExecutor) SQLExecutor {
	if exec != nil {
		return exec
	}
	return r.db
}

const teamColumns = `id, house_id, mixed_player1, mixed_player2, mens_player1, mens_player2, created_at, updated_at`

func (r *postgresTeamRepository) Create(ctx context.Context, exec SQLExecutor, team *models.Team) error {
	query := `
		INSERT INTO teams (house_id, mixed_player1, mixed_player2, mens_player1, mens_player2)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at, updated_at`
	err := r.getExecutor(exec).QueryRowContext(ctx, query,
		team.HouseID,
		team.MixedPair.Player1, team.MixedPair.Player2,
		team.MensPair.Player1, team.MensPair.Player2,
	).Scan(&team.ID, &team.CreatedAt, &team.UpdatedAt)
	return r.handleTeamError(err)
}

func (r *postgresTeamRepository) Update(ctx context.Context, exec SQLExecutor, team *models.Team) error {
	query := `
		UPDATE teams
		SET house_id = $1, mixed_player1 = $2, mixed_player2 = $3, mens_player1 = $4, mens_player2 = $5, updated_at = NOW()
		WHERE id = $6
		RETURNING updated_at`
	err := r.getExecutor(exec).QueryRowContext(ctx, query,
		team.HouseID,
		team.MixedPair.Player1, team.MixedPair.Player2,
		team.MensPair.Player1, team.MensPair.Player2,
		team.ID,
	).Scan(&team.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrTeamNotFound
	}
	return r.handleTeamError(err)
}

func (r *postgresTeamRepository) Delete(ctx context.Context, exec SQLExecutor, id int) error {
	result, err := r.getExecutor(exec).ExecContext(ctx, `DELETE FROM teams WHERE id = $1`, id)
	if err != nil {
		return r.handleTeamError(err)
	}
	return checkAffectedRows(result, ErrTeamNotFound)
}

func (r *postgresTeamRepository) GetByID(ctx context.Context, exec SQLExecutor, id int) (*models.Team, error) {
	query := `SELECT ` + teamColumns + ` FROM teams WHERE id = $1`
	team, err := scanTeam(r.getExecutor(exec).QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrTeamNotFound
		}
		return nil, err
	}
	return team, nil
}

func (r *postgresTeamRepository) List(ctx context.Context, exec SQLExecutor) ([]*models.Team, error) {
	query := `SELECT ` + teamColumns + ` FROM teams ORDER BY id ASC`
	rows, err := r.getExecutor(exec).QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	teams := make([]*models.Team, 0)
	for rows.Next() {
		team, err := scanTeam(rows)
		if err != nil {
			return nil, err
		}
		teams = append(teams, team)
	}
	return teams, rows.Err()
}

func (r *postgresTeamRepository) Count(ctx context.Context, exec SQLExecutor) (int, error) {
	var n int
	err := r.getExecutor(exec).QueryRowContext(ctx, `SELECT COUNT(*) FROM teams`).Scan(&n)
	return n, err
}

// ReplacePlayers заменяет состав команды. Игроки одного дома с одинаковым именем
// считаются одним человеком и переиспользуются.
func (r *postgresTeamRepository) ReplacePlayers(ctx context.Context, exec SQLExecutor, teamID, houseID int, players []models.Player) ([]models.Player, error) {
	executor := r.getExecutor(exec)

	if _, err := executor.ExecContext(ctx, `DELETE FROM team_players WHERE team_id = $1`, teamID); err != nil {
		return nil, fmt.Errorf("failed to clear team %d roster: %w", teamID, err)
	}

	upsert := `
		INSERT INTO players (house_id, name, gender)
		VALUES ($1, $2, $3)
		ON CONFLICT (house_id, name) DO UPDATE SET gender = EXCLUDED.gender
		RETURNING id, created_at`
	link := `INSERT INTO team_players (team_id, player_id, position) VALUES ($1, $2, $3)`

	saved := make([]models.Player, 0, len(players))
	for i, p := range players {
		p.HouseID = houseID
		if err := executor.QueryRowContext(ctx, upsert, houseID, p.Name, p.Gender).Scan(&p.ID, &p.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to save player %q: %w", p.Name, translatePQError(err))
		}
		if _, err := executor.ExecContext(ctx, link, teamID, p.ID, i+1); err != nil {
			return nil, fmt.Errorf("failed to link player %q to team %d: %w", p.Name, teamID, translatePQError(err))
		}
		saved = append(saved, p)
	}
	return saved, nil
}

func (r *postgresTeamRepository) ListPlayersByTeam(ctx context.Context, exec SQLExecutor) (map[int][]models.Player, error) {
	query := `
		SELECT tp.team_id, p.id, p.name, p.gender, p.house_id, p.created_at
		FROM team_players tp
		JOIN players p ON p.id = tp.player_id
		ORDER BY tp.team_id ASC, tp.position ASC`
	rows, err := r.getExecutor(exec).QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := make(map[int][]models.Player)
	for rows.Next() {
		var teamID int
		var p models.Player
		if err := rows.Scan(&teamID, &p.ID, &p.Name, &p.Gender, &p.HouseID, &p.CreatedAt); err != nil {
			return nil, err
		}
		result[teamID] = append(result[teamID], p)
	}
	return result, rows.Err()
}

func (r *postgresTeamRepository) handleTeamError(err error) error {
	err = translatePQError(err)
	if errors.Is(err, ErrReferenceInvalid) {
		return fmt.Errorf("%w: %w", ErrTeamHouseInvalid, err)
	}
	return err
}

func scanTeam(s rowScanner) (*models.Team, error) {
	var t models.Team
	err := s.Scan(
		&t.ID, &t.HouseID,
		&t.MixedPair.Player1, &t.MixedPair.Player2,
		&t.MensPair.Player1, &t.MensPair.Player2,
		&t.CreatedAt, &t.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &t, nil
}
