// Package scoring содержит правила подсчета очков настольного тенниса:
// исход одной партии, сводку матча из пяти партий и переходы статуса матча.
package scoring

import (
	"errors"
	"fmt"

	"github.com/Dosada05/house-tournament/models"
)

const (
	PointsToWin  = 11
	WinningLead  = 2
	MaxGameScore = 30
	GamesToWin   = 3
)

var (
	ErrScoreOutOfRange      = errors.New("game score must be between 0 and 30")
	ErrGameNumberOutOfRange = errors.New("game number must be between 1 and 5")
)

type Side int

const (
	SideNone Side = iota
	SideTeam1
	SideTeam2
)

// GameOutcome - результат оценки одной партии.
type GameOutcome struct {
	Complete bool
	Winner   Side
	// Кто-то набрал 11+, но отрыв меньше двух: партия продолжается.
	NeedsTwoPointLead bool
}

// EvaluateGame определяет, завершена ли партия при счете a:b.
func EvaluateGame(a, b int) GameOutcome {
	high, diff := a, a-b
	if b > a {
		high, diff = b, b-a
	}
	if high < PointsToWin {
		return GameOutcome{}
	}
	if diff < WinningLead {
		return GameOutcome{NeedsTwoPointLead: true}
	}
	if a > b {
		return GameOutcome{Complete: true, Winner: SideTeam1}
	}
	return GameOutcome{Complete: true, Winner: SideTeam2}
}

func ValidateGameScore(a, b int) error {
	if a < 0 || a > MaxGameScore || b < 0 || b > MaxGameScore {
		return fmt.Errorf("%w: got %d-%d", ErrScoreOutOfRange, a, b)
	}
	return nil
}

func ValidateGameNumber(n int) error {
	if n < 1 || n > models.GamesPerMatch {
		return fmt.Errorf("%w: got %d", ErrGameNumberOutOfRange, n)
	}
	return nil
}
