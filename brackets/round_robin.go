package brackets

import (
	"context"
	"fmt"

	"github.com/Dosada05/house-tournament/models"
)

type RoundRobinGenerator struct{}

func NewRoundRobinGenerator() FixtureGenerator {
	return &RoundRobinGenerator{}
}

func (g *RoundRobinGenerator) GetName() string {
	return "RoundRobin"
}

// Generate строит однокруговое расписание: каждая пара команд (i < j) играет
// по одному матчу в каждой категории, сначала Mixed Doubles, затем Men's Doubles.
// Номера матчей сквозные, начиная с 1. Меньше двух команд - пустое расписание.
func (g *RoundRobinGenerator) Generate(ctx context.Context, params GenerateFixturesParams) (*Schedule, error) {
	teams := params.Teams
	schedule := &Schedule{
		Fixtures: make([]*Fixture, 0),
		Warnings: make([]FixtureWarning, 0),
	}
	if len(teams) < 2 {
		return schedule, nil
	}

	for _, t := range teams {
		if t == nil {
			return nil, fmt.Errorf("RoundRobinGenerator: nil team in input")
		}
		for _, category := range models.Categories {
			if !t.PairFor(category).Complete() {
				schedule.Warnings = append(schedule.Warnings, FixtureWarning{
					TeamID:   t.ID,
					HouseID:  t.HouseID,
					Category: category,
					Message:  fmt.Sprintf("team %d has an incomplete %s pair", t.ID, category),
				})
			}
		}
	}

	matchNumber := 0
	for i := 0; i < len(teams); i++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		for j := i + 1; j < len(teams); j++ {
			t1, t2 := teams[i], teams[j]
			for _, category := range models.Categories {
				matchNumber++
				schedule.Fixtures = append(schedule.Fixtures, &Fixture{
					MatchNumber: matchNumber,
					Category:    category,
					Team1ID:     t1.ID,
					Team2ID:     t2.ID,
					Pair1:       t1.PairFor(category),
					Pair2:       t2.PairFor(category),
					TableID:     resolveTable(t1.PreferredTable(category), t2.PreferredTable(category)),
				})
			}
		}
	}

	return schedule, nil
}

// resolveTable: общий стол, если предпочтения совпадают, иначе стол первой
// команды, иначе второй.
func resolveTable(first, second *int) *int {
	switch {
	case first != nil && second != nil && *first == *second:
		id := *first
		return &id
	case first != nil:
		id := *first
		return &id
	case second != nil:
		id := *second
		return &id
	default:
		return nil
	}
}
