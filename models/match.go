package models

import "time"

type Category string

const (
	CategoryMixedDoubles Category = "Mixed Doubles"
	CategoryMensDoubles  Category = "Men's Doubles"
)

// Categories - порядок категорий внутри одной пары команд при генерации расписания.
var Categories = []Category{CategoryMixedDoubles, CategoryMensDoubles}

func (c Category) Valid() bool {
	return c == CategoryMixedDoubles || c == CategoryMensDoubles
}

type MatchStatus string

const (
	MatchStatusPending   MatchStatus = "pending"
	MatchStatusPlaying   MatchStatus = "playing"
	MatchStatusCompleted MatchStatus = "completed"
)

const GamesPerMatch = 5

type GameScore struct {
	Team1 int `json:"team1"`
	Team2 int `json:"team2"`
}

type Match struct {
	ID          int                      `json:"id" db:"id"`
	MatchNumber int                      `json:"match_number" db:"match_number"`
	Category    Category                 `json:"category" db:"category"`
	Team1ID     *int                     `json:"team1_id" db:"team1_id"`
	Team2ID     *int                     `json:"team2_id" db:"team2_id"`
	Pair1       Pair                     `json:"pair1" db:"-"`
	Pair2       Pair                     `json:"pair2" db:"-"`
	TableID     *int                     `json:"table_id" db:"table_id"`
	Status      MatchStatus              `json:"status" db:"status"`
	Games       [GamesPerMatch]GameScore `json:"games" db:"-"`
	StartedAt   *time.Time               `json:"started_at,omitempty" db:"started_at"`
	CompletedAt *time.Time               `json:"completed_at,omitempty" db:"completed_at"`
	Version     int                      `json:"version" db:"version"`
	CreatedAt   time.Time                `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time                `json:"updated_at" db:"updated_at"`

	// Производные поля, пересчитываются из games при каждом чтении и в БД не хранятся.
	Team1Wins   int  `json:"team1_wins" db:"-"`
	Team2Wins   int  `json:"team2_wins" db:"-"`
	CurrentGame int  `json:"current_game" db:"-"`
	IsComplete  bool `json:"is_complete" db:"-"`

	Team1House *House     `json:"team1_house,omitempty" db:"-"`
	Team2House *House     `json:"team2_house,omitempty" db:"-"`
	Table      *PlayTable `json:"table,omitempty" db:"-"`
}

// MatchCounts - количество матчей по статусам.
type MatchCounts struct {
	Total     int `json:"total"`
	Pending   int `json:"pending"`
	Playing   int `json:"playing"`
	Completed int `json:"completed"`
}
