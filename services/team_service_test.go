package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Dosada05/house-tournament/models"
)

func TestValidateTeamInput(t *testing.T) {
	roster := []PlayerInput{
		{Name: "Aina", Gender: models.GenderFemale},
		{Name: "Amir", Gender: models.GenderMale},
		{Name: "Hafiz", Gender: models.GenderMale},
		{Name: "Iqbal", Gender: models.GenderMale},
	}
	valid := TeamInput{
		HouseID:   1,
		MixedPair: models.Pair{Player1: "Aina", Player2: "Amir"},
		MensPair:  models.Pair{Player1: "Hafiz", Player2: "Iqbal"},
		Players:   roster,
	}

	tests := []struct {
		name   string
		mutate func(*TeamInput)
		field  string
	}{
		{name: "valid", mutate: func(*TeamInput) {}},
		{name: "missing house", mutate: func(in *TeamInput) { in.HouseID = 0 }, field: "house_id"},
		{name: "female in mens pair", mutate: func(in *TeamInput) { in.MensPair.Player1 = "Aina" }, field: "mens_pair"},
		{name: "mixed pair same gender", mutate: func(in *TeamInput) { in.MixedPair.Player1 = "Hafiz" }, field: "mixed_pair"},
		{name: "player outside roster", mutate: func(in *TeamInput) { in.MensPair.Player2 = "Zul" }, field: "mens_pair"},
		{name: "same player twice", mutate: func(in *TeamInput) { in.MensPair.Player2 = "Hafiz" }, field: "mens_pair"},
		{name: "bad gender", mutate: func(in *TeamInput) {
			in.Players = append([]PlayerInput(nil), roster...)
			in.Players[0].Gender = "X"
		}, field: "players[0]"},
		{name: "incomplete pair allowed", mutate: func(in *TeamInput) { in.MensPair.Player2 = "" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := valid
			in.Players = append([]PlayerInput(nil), roster...)
			tt.mutate(&in)
			err := validateTeamInput(normalizeTeamInput(in))
			if tt.field == "" {
				assert.NoError(t, err)
				return
			}
			require.ErrorIs(t, err, ErrValidationFailed)
			var verr *ValidationError
			require.True(t, errors.As(err, &verr))
			assert.Contains(t, verr.Fields, tt.field)
		})
	}
}

func TestCreateTeam(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	_, err := env.teams.CreateTeam(ctx, TeamInput{HouseID: 77})
	assert.ErrorIs(t, err, ErrHouseNotFound)

	h := env.mustHouse(t, "Rumah Kuning")
	team, err := env.teams.CreateTeam(ctx, TeamInput{
		HouseID:   h.ID,
		MixedPair: models.Pair{Player1: " Aina ", Player2: "Amir"},
		MensPair:  models.Pair{Player1: "Hafiz", Player2: "Iqbal"},
		Players: []PlayerInput{
			{Name: "Aina", Gender: "f"},
			{Name: "Amir", Gender: "M"},
			{Name: "Hafiz", Gender: "M"},
			{Name: "Iqbal", Gender: "M"},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, "Aina", team.MixedPair.Player1)
	assert.Len(t, team.Players, 4)
	assert.Equal(t, models.GenderFemale, team.Players[0].Gender)
	assert.True(t, team.HasFullRoster())

	got, err := env.teams.GetTeam(ctx, team.ID)
	require.NoError(t, err)
	require.NotNil(t, got.House)
	assert.Equal(t, "Rumah Kuning", got.House.Name)
	assert.Len(t, got.Players, 4)
}

func TestUpdateTeam_DoesNotRewriteMatches(t *testing.T) {
	p := newScheduledPair(t)
	ctx := context.Background()
	before := p.env.matchBetween(t, p.team1.ID, p.team2.ID, models.CategoryMixedDoubles)

	_, err := p.env.teams.UpdateTeam(ctx, p.team1.ID, TeamInput{
		HouseID:   p.blue.ID,
		MixedPair: models.Pair{Player1: "Siti", Player2: "Zul"},
		MensPair:  p.team1.MensPair,
	})
	require.NoError(t, err)

	after := p.env.matchBetween(t, p.team1.ID, p.team2.ID, models.CategoryMixedDoubles)
	assert.Equal(t, before.Pair1, after.Pair1)

	_, err = p.env.teams.UpdateTeam(ctx, 9999, TeamInput{HouseID: p.blue.ID})
	assert.ErrorIs(t, err, ErrTeamNotFound)
}

func TestDeleteTeam_KeepsMatchesOutOfStandings(t *testing.T) {
	p := newScheduledPair(t)
	ctx := context.Background()
	m := p.env.matchBetween(t, p.team1.ID, p.team2.ID, models.CategoryMixedDoubles)
	_, err := p.env.matches.FinalizeMatch(ctx, m.ID)
	require.NoError(t, err)

	require.NoError(t, p.env.teams.DeleteTeam(ctx, p.team2.ID))
	assert.ErrorIs(t, p.env.teams.DeleteTeam(ctx, p.team2.ID), ErrTeamNotFound)

	summary, err := p.env.standings.GetStandings(ctx)
	require.NoError(t, err)
	for _, row := range summary.Overall {
		assert.Zero(t, row.Played, row.HouseName)
	}
}

func TestTablePreference(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	h := env.mustHouse(t, "Rumah Hijau")
	mixed, mens := fullPairs("Hijau")
	team := env.mustTeam(t, h.ID, mixed, mens)
	mensOnly := env.mustTable(t, "Table 4", models.TableAssignment(models.CategoryMensDoubles))

	_, err := env.teams.SetTablePreference(ctx, team.ID, "Singles", TablePreferenceInput{TableID: mensOnly.ID})
	assert.ErrorIs(t, err, ErrValidationFailed)

	_, err = env.teams.SetTablePreference(ctx, team.ID, models.CategoryMixedDoubles, TablePreferenceInput{TableID: mensOnly.ID})
	assert.ErrorIs(t, err, ErrValidationFailed)

	pref, err := env.teams.SetTablePreference(ctx, team.ID, models.CategoryMensDoubles, TablePreferenceInput{TableID: mensOnly.ID})
	require.NoError(t, err)
	assert.Equal(t, mensOnly.ID, pref.TableID)

	listed, err := env.teams.ListTeams(ctx)
	require.NoError(t, err)
	require.Len(t, listed, 1)
	assert.Equal(t, mensOnly.ID, *listed[0].PreferredTable(models.CategoryMensDoubles))

	require.NoError(t, env.teams.DeleteTablePreference(ctx, team.ID, models.CategoryMensDoubles))
	assert.ErrorIs(t, env.teams.DeleteTablePreference(ctx, team.ID, models.CategoryMensDoubles), ErrNotFound)
}
