package brackets

import (
	"context"

	"github.com/Dosada05/house-tournament/models"
)

type GenerateFixturesParams struct {
	// Команды в порядке регистрации.
	Teams []*models.Team
}

// Fixture - заготовка матча до записи в БД.
type Fixture struct {
	MatchNumber int
	Category    models.Category
	Team1ID     int
	Team2ID     int
	Pair1       models.Pair
	Pair2       models.Pair
	TableID     *int
}

// FixtureWarning - расписание построено, но у команды не заполнена пара.
type FixtureWarning struct {
	TeamID   int             `json:"team_id"`
	HouseID  int             `json:"house_id"`
	Category models.Category `json:"category"`
	Message  string          `json:"message"`
}

type Schedule struct {
	Fixtures []*Fixture
	Warnings []FixtureWarning
}

type FixtureGenerator interface {
	Generate(ctx context.Context, params GenerateFixturesParams) (*Schedule, error)

	GetName() string
}
