package scoring

import "github.com/Dosada05/house-tournament/models"

// Summary - производное состояние матча, вычисленное из пяти слотов партий.
type Summary struct {
	Team1Wins   int  `json:"team1_wins"`
	Team2Wins   int  `json:"team2_wins"`
	CurrentGame int  `json:"current_game"`
	Complete    bool `json:"complete"`
}

// Aggregate сворачивает пять слотов в сводку матча. Слоты после того, как одна
// из сторон взяла третью партию, не учитываются.
func Aggregate(games [models.GamesPerMatch]models.GameScore) Summary {
	var s Summary
	completed := 0
	for i, g := range games {
		outcome := EvaluateGame(g.Team1, g.Team2)
		if !outcome.Complete {
			if s.CurrentGame == 0 {
				s.CurrentGame = i + 1
			}
			continue
		}
		completed++
		if outcome.Winner == SideTeam1 {
			s.Team1Wins++
		} else {
			s.Team2Wins++
		}
		if s.Team1Wins >= GamesToWin || s.Team2Wins >= GamesToWin {
			s.Complete = true
			break
		}
	}
	if s.CurrentGame == 0 {
		s.CurrentGame = min(completed+1, models.GamesPerMatch)
	}
	return s
}

// Annotate заполняет производные поля матча.
func Annotate(m *models.Match) Summary {
	s := Aggregate(m.Games)
	m.Team1Wins = s.Team1Wins
	m.Team2Wins = s.Team2Wins
	m.CurrentGame = s.CurrentGame
	m.IsComplete = s.Complete
	return s
}
