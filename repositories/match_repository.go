package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/Dosada05/house-tournament/models"
)

var (
	ErrMatchNotFound        = errors.New("match not found")
	ErrMatchVersionConflict = errors.New("match was modified concurrently")
	ErrMatchTableInvalid    = errors.New("match table does not exist")
)

type MatchFilter struct {
	Status   *models.MatchStatus
	Category *models.Category
	TeamID   *int
}

type MatchRepository interface {
	CreateBatch(ctx context.Context, exec SQLExecutor, matches []*models.Match) error
	DeleteAll(ctx context.Context, exec SQLExecutor) (int64, error)
	GetByID(ctx context.Context, exec SQLExecutor, id int) (*models.Match, error)
	// GetByIDForUpdate блокирует строку матча до конца транзакции.
	GetByIDForUpdate(ctx context.Context, exec SQLExecutor, id int) (*models.Match, error)
	List(ctx context.Context, exec SQLExecutor, filter MatchFilter) ([]*models.Match, error)
	// Update сохраняет статус, партии, стол и метки времени, увеличивая version.
	Update(ctx context.Context, exec SQLExecutor, match *models.Match) error
	CountByStatus(ctx context.Context, exec SQLExecutor) (models.MatchCounts, error)
	// LockForRegeneration блокирует таблицу матчей от записей до конца транзакции.
	LockForRegeneration(ctx context.Context, exec SQLExecutor) error
}

type postgresMatchRepository struct {
	db *sql.DB
}

func NewPostgresMatchRepository(db *sql.DB) MatchRepository {
	return &postgresMatchRepository{db: db}
}

func (r *postgresMatchRepository) getExecutor(exec SQLExecutor) SQLExecutor {
	if exec != nil {
		return exec
	}
	return r.db
}

const matchColumns = `
	id, match_number, category, team1_id, team2_id,
	pair1_player1, pair1_player2, pair2_player1, pair2_player2,
	table_id, status,
	game1_team1, game1_team2, game2_team1, game2_team2, game3_team1, game3_team2,
	game4_team1, game4_team2, game5_team1, game5_team2,
	started_at, completed_at, version, created_at, updated_at`

func (r *postgresMatchRepository) CreateBatch(ctx context.Context, exec SQLExecutor, matches []*models.Match) error {
	if len(matches) == 0 {
		return nil
	}
	executor := r.getExecutor(exec)
	query := `
		INSERT INTO matches
			(match_number, category, team1_id, team2_id,
			 pair1_player1, pair1_player2, pair2_player1, pair2_player2,
			 table_id, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id, version, created_at, updated_at`

	for _, m := range matches {
		if m.Status == "" {
			m.Status = models.MatchStatusPending
		}
		err := executor.QueryRowContext(ctx, query,
			m.MatchNumber, m.Category, m.Team1ID, m.Team2ID,
			m.Pair1.Player1, m.Pair1.Player2, m.Pair2.Player1, m.Pair2.Player2,
			m.TableID, m.Status,
		).Scan(&m.ID, &m.Version, &m.CreatedAt, &m.UpdatedAt)
		if err != nil {
			return fmt.Errorf("failed to insert match %d: %w", m.MatchNumber, r.handleMatchError(err))
		}
	}
	return nil
}

func (r *postgresMatchRepository) DeleteAll(ctx context.Context, exec SQLExecutor) (int64, error) {
	result, err := r.getExecutor(exec).ExecContext(ctx, `DELETE FROM matches`)
	if err != nil {
		return 0, translatePQError(err)
	}
	return result.RowsAffected()
}

func (r *postgresMatchRepository) LockForRegeneration(ctx context.Context, exec SQLExecutor) error {
	_, err := r.getExecutor(exec).ExecContext(ctx, `LOCK TABLE matches IN SHARE ROW EXCLUSIVE MODE`)
	return translatePQError(err)
}

func (r *postgresMatchRepository) GetByID(ctx context.Context, exec SQLExecutor, id int) (*models.Match, error) {
	return r.getOne(ctx, exec, `SELECT `+matchColumns+` FROM matches WHERE id = $1`, id)
}

func (r *postgresMatchRepository) GetByIDForUpdate(ctx context.Context, exec SQLExecutor, id int) (*models.Match, error) {
	return r.getOne(ctx, exec, `SELECT `+matchColumns+` FROM matches WHERE id = $1 FOR UPDATE`, id)
}

func (r *postgresMatchRepository) getOne(ctx context.Context, exec SQLExecutor, query string, id int) (*models.Match, error) {
	m, err := scanMatch(r.getExecutor(exec).QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrMatchNotFound
		}
		return nil, translatePQError(err)
	}
	return m, nil
}

func (r *postgresMatchRepository) List(ctx context.Context, exec SQLExecutor, filter MatchFilter) ([]*models.Match, error) {
	var queryBuilder strings.Builder
	queryBuilder.WriteString(`SELECT ` + matchColumns + ` FROM matches WHERE 1=1`)

	args := []interface{}{}
	placeholderIndex := 1

	if filter.Status != nil {
		queryBuilder.WriteString(" AND status = $" + strconv.Itoa(placeholderIndex))
		args = append(args, *filter.Status)
		placeholderIndex++
	}
	if filter.Category != nil {
		queryBuilder.WriteString(" AND category = $" + strconv.Itoa(placeholderIndex))
		args = append(args, *filter.Category)
		placeholderIndex++
	}
	if filter.TeamID != nil {
		p := strconv.Itoa(placeholderIndex)
		queryBuilder.WriteString(" AND (team1_id = $" + p + " OR team2_id = $" + p + ")")
		args = append(args, *filter.TeamID)
	}
	queryBuilder.WriteString(" ORDER BY match_number ASC")

	rows, err := r.getExecutor(exec).QueryContext(ctx, queryBuilder.String(), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	matches := make([]*models.Match, 0)
	for rows.Next() {
		m, err := scanMatch(rows)
		if err != nil {
			return nil, err
		}
		matches = append(matches, m)
	}
	return matches, rows.Err()
}

func (r *postgresMatchRepository) Update(ctx context.Context, exec SQLExecutor, m *models.Match) error {
	query := `
		UPDATE matches SET
			status = $1, table_id = $2,
			game1_team1 = $3, game1_team2 = $4, game2_team1 = $5, game2_team2 = $6,
			game3_team1 = $7, game3_team2 = $8, game4_team1 = $9, game4_team2 = $10,
			game5_team1 = $11, game5_team2 = $12,
			started_at = $13, completed_at = $14,
			version = version + 1, updated_at = NOW()
		WHERE id = $15 AND version = $16
		RETURNING version, updated_at`

	g := m.Games
	err := r.getExecutor(exec).QueryRowContext(ctx, query,
		m.Status, m.TableID,
		g[0].Team1, g[0].Team2, g[1].Team1, g[1].Team2,
		g[2].Team1, g[2].Team2, g[3].Team1, g[3].Team2,
		g[4].Team1, g[4].Team2,
		m.StartedAt, m.CompletedAt,
		m.ID, m.Version,
	).Scan(&m.Version, &m.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			var exists bool
			if existsErr := r.getExecutor(exec).QueryRowContext(ctx, `SELECT EXISTS(SELECT 1 FROM matches WHERE id = $1)`, m.ID).Scan(&exists); existsErr != nil {
				return existsErr
			}
			if !exists {
				return ErrMatchNotFound
			}
			return ErrMatchVersionConflict
		}
		return r.handleMatchError(err)
	}
	return nil
}

func (r *postgresMatchRepository) CountByStatus(ctx context.Context, exec SQLExecutor) (models.MatchCounts, error) {
	var counts models.MatchCounts
	rows, err := r.getExecutor(exec).QueryContext(ctx, `SELECT status, COUNT(*) FROM matches GROUP BY status`)
	if err != nil {
		return counts, err
	}
	defer rows.Close()

	for rows.Next() {
		var status models.MatchStatus
		var n int
		if err := rows.Scan(&status, &n); err != nil {
			return counts, err
		}
		counts.Total += n
		switch status {
		case models.MatchStatusPending:
			counts.Pending = n
		case models.MatchStatusPlaying:
			counts.Playing = n
		case models.MatchStatusCompleted:
			counts.Completed = n
		}
	}
	return counts, rows.Err()
}

func (r *postgresMatchRepository) handleMatchError(err error) error {
	err = translatePQError(err)
	if errors.Is(err, ErrReferenceInvalid) && strings.Contains(err.Error(), "table_id") {
		return fmt.Errorf("%w: %w", ErrMatchTableInvalid, err)
	}
	return err
}

func scanMatch(s rowScanner) (*models.Match, error) {
	var (
		m                   models.Match
		team1, team2, table sql.NullInt64
		started, completed  sql.NullTime
	)
	g := &m.Games
	err := s.Scan(
		&m.ID, &m.MatchNumber, &m.Category, &team1, &team2,
		&m.Pair1.Player1, &m.Pair1.Player2, &m.Pair2.Player1, &m.Pair2.Player2,
		&table, &m.Status,
		&g[0].Team1, &g[0].Team2, &g[1].Team1, &g[1].Team2, &g[2].Team1, &g[2].Team2,
		&g[3].Team1, &g[3].Team2, &g[4].Team1, &g[4].Team2,
		&started, &completed, &m.Version, &m.CreatedAt, &m.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	m.Team1ID = nullIntPtr(team1)
	m.Team2ID = nullIntPtr(team2)
	m.TableID = nullIntPtr(table)
	m.StartedAt = nullTimePtr(started)
	m.CompletedAt = nullTimePtr(completed)
	return &m, nil
}
