package scoring

import (
	"errors"
	"fmt"
	"time"

	"github.com/Dosada05/house-tournament/models"
)

var (
	ErrIllegalTransition    = errors.New("illegal match status transition")
	ErrMatchAlreadyComplete = fmt.Errorf("%w: match is already completed", ErrIllegalTransition)
)

// Start переводит матч pending -> playing. Повторный старт играющего матча ничего не меняет.
// Возвращает true, если матч был изменен.
func Start(m *models.Match, now time.Time) (bool, error) {
	switch m.Status {
	case models.MatchStatusPlaying:
		return false, nil
	case models.MatchStatusCompleted:
		return false, fmt.Errorf("%w: cannot start completed match %d", ErrIllegalTransition, m.ID)
	case models.MatchStatusPending, "":
		m.Status = models.MatchStatusPlaying
		if m.StartedAt == nil {
			m.StartedAt = &now
		}
		return true, nil
	default:
		return false, fmt.Errorf("%w: unknown status %q", ErrIllegalTransition, m.Status)
	}
}

// Finalize завершает матч вручную, независимо от счета. Идемпотентна.
func Finalize(m *models.Match, now time.Time) (bool, error) {
	switch m.Status {
	case models.MatchStatusCompleted:
		return false, nil
	case models.MatchStatusPending, models.MatchStatusPlaying, "":
		complete(m, now)
		return true, nil
	default:
		return false, fmt.Errorf("%w: unknown status %q", ErrIllegalTransition, m.Status)
	}
}

// CanRecordScore - запись счета разрешена только для незавершенных матчей.
func CanRecordScore(m *models.Match) error {
	if m.Status == models.MatchStatusCompleted {
		return ErrMatchAlreadyComplete
	}
	return nil
}

// ScoreUpdate - итог записи счета одной партии.
type ScoreUpdate struct {
	Game          GameOutcome
	Summary       Summary
	AutoCompleted bool
}

// ApplyGameScore записывает счет партии gameNumber (1..5) и, если матч
// выигран, переводит его в completed. При ошибке матч не изменяется.
func ApplyGameScore(m *models.Match, gameNumber, team1, team2 int, now time.Time) (ScoreUpdate, error) {
	if err := CanRecordScore(m); err != nil {
		return ScoreUpdate{}, err
	}
	if err := ValidateGameNumber(gameNumber); err != nil {
		return ScoreUpdate{}, err
	}
	if err := ValidateGameScore(team1, team2); err != nil {
		return ScoreUpdate{}, err
	}

	m.Games[gameNumber-1] = models.GameScore{Team1: team1, Team2: team2}
	update := ScoreUpdate{
		Game:    EvaluateGame(team1, team2),
		Summary: Annotate(m),
	}
	if update.Summary.Complete {
		complete(m, now)
		update.AutoCompleted = true
	}
	return update, nil
}

func complete(m *models.Match, now time.Time) {
	m.Status = models.MatchStatusCompleted
	if m.CompletedAt == nil {
		m.CompletedAt = &now
	}
}
