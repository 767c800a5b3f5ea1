package brackets

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Dosada05/house-tournament/models"
)

func team(id, house int, prefs map[models.Category]int) *models.Team {
	return &models.Team{
		ID:               id,
		HouseID:          house,
		MixedPair:        models.Pair{Player1: "mixA", Player2: "mixB"},
		MensPair:         models.Pair{Player1: "menA", Player2: "menB"},
		TablePreferences: prefs,
	}
}

func TestRoundRobin_FixtureCountAndNumbering(t *testing.T) {
	gen := NewRoundRobinGenerator()
	for n := 0; n <= 7; n++ {
		teams := make([]*models.Team, 0, n)
		for i := 1; i <= n; i++ {
			teams = append(teams, team(i, i, nil))
		}

		schedule, err := gen.Generate(context.Background(), GenerateFixturesParams{Teams: teams})
		require.NoError(t, err)

		want := 0
		if n >= 2 {
			want = n * (n - 1)
		}
		require.Len(t, schedule.Fixtures, want, "teams=%d", n)
		for i, f := range schedule.Fixtures {
			assert.Equal(t, i+1, f.MatchNumber)
		}
	}
}

func TestRoundRobin_PairOrderAndCategories(t *testing.T) {
	teams := []*models.Team{team(10, 1, nil), team(20, 2, nil), team(30, 3, nil)}

	schedule, err := NewRoundRobinGenerator().Generate(context.Background(), GenerateFixturesParams{Teams: teams})
	require.NoError(t, err)

	type key struct {
		t1, t2 int
		cat    models.Category
	}
	want := []key{
		{10, 20, models.CategoryMixedDoubles}, {10, 20, models.CategoryMensDoubles},
		{10, 30, models.CategoryMixedDoubles}, {10, 30, models.CategoryMensDoubles},
		{20, 30, models.CategoryMixedDoubles}, {20, 30, models.CategoryMensDoubles},
	}
	got := make([]key, 0, len(schedule.Fixtures))
	for _, f := range schedule.Fixtures {
		got = append(got, key{f.Team1ID, f.Team2ID, f.Category})
	}
	assert.Equal(t, want, got)
	assert.Empty(t, schedule.Warnings)
}

func TestRoundRobin_TablePreference(t *testing.T) {
	mixed := models.CategoryMixedDoubles
	mens := models.CategoryMensDoubles
	tests := []struct {
		name   string
		p1, p2 map[models.Category]int
		want   *int
	}{
		{"same table", map[models.Category]int{mixed: 3}, map[models.Category]int{mixed: 3}, intPtr(3)},
		{"first team wins", map[models.Category]int{mixed: 1}, map[models.Category]int{mixed: 2}, intPtr(1)},
		{"only second", nil, map[models.Category]int{mixed: 4}, intPtr(4)},
		{"other category only", map[models.Category]int{mens: 5}, nil, nil},
		{"none", nil, nil, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			teams := []*models.Team{team(1, 1, tt.p1), team(2, 2, tt.p2)}
			schedule, err := NewRoundRobinGenerator().Generate(context.Background(), GenerateFixturesParams{Teams: teams})
			require.NoError(t, err)
			require.Len(t, schedule.Fixtures, 2)
			assert.Equal(t, tt.want, schedule.Fixtures[0].TableID)
		})
	}
}

func TestRoundRobin_SnapshotsPairsAndWarns(t *testing.T) {
	t1 := team(1, 1, nil)
	t2 := team(2, 2, nil)
	t2.MensPair = models.Pair{Player1: "Ali"}

	schedule, err := NewRoundRobinGenerator().Generate(context.Background(), GenerateFixturesParams{Teams: []*models.Team{t1, t2}})
	require.NoError(t, err)
	require.Len(t, schedule.Fixtures, 2)

	mens := schedule.Fixtures[1]
	assert.Equal(t, models.Pair{Player1: "Ali"}, mens.Pair2)

	require.Len(t, schedule.Warnings, 1)
	assert.Equal(t, 2, schedule.Warnings[0].TeamID)
	assert.Equal(t, models.CategoryMensDoubles, schedule.Warnings[0].Category)

	t1.MixedPair.Player1 = "changed"
	assert.Equal(t, "mixA", schedule.Fixtures[0].Pair1.Player1)
}

func intPtr(v int) *int { return &v }
