// Package reports формирует итоговый отчет турнира в формате XLSX.
package reports

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/Dosada05/house-tournament/models"
)

const (
	ContentTypeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

	sheetHousePoints = "House Points"
	sheetStandings   = "Standings"
	sheetCategories  = "Categories"
	sheetMatches     = "Matches"
)

type TournamentReport struct {
	TournamentDate string
	HousePoints    []models.HousePoints
	Standings      *models.StandingsSummary
	Matches        []*models.Match
	// Имя дома по id команды, для листа матчей.
	TeamHouseNames map[int]string
	TableNames     map[int]string
}

// BuildWorkbook собирает книгу: очки домов с диаграммой, общая таблица,
// таблицы по категориям и протокол матчей.
func BuildWorkbook(r TournamentReport) (*bytes.Buffer, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", sheetHousePoints); err != nil {
		return nil, fmt.Errorf("failed to rename default sheet: %w", err)
	}
	for _, name := range []string{sheetStandings, sheetCategories, sheetMatches} {
		if _, err := f.NewSheet(name); err != nil {
			return nil, fmt.Errorf("failed to create sheet %s: %w", name, err)
		}
	}

	writers := []func(*excelize.File, TournamentReport) error{
		writeHousePoints, writeStandings, writeCategories, writeMatches,
	}
	for _, write := range writers {
		if err := write(f, r); err != nil {
			return nil, err
		}
	}

	if len(r.HousePoints) > 0 {
		png, err := RenderHousePointsChart(r.HousePoints)
		if err != nil {
			return nil, err
		}
		err = f.AddPictureFromBytes(sheetHousePoints, "L2", &excelize.Picture{
			Extension: ".png",
			File:      png,
			Format:    &excelize.GraphicOptions{AltText: "House points", ScaleX: 0.8, ScaleY: 0.8},
		})
		if err != nil {
			return nil, fmt.Errorf("failed to embed house points chart: %w", err)
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to serialize workbook: %w", err)
	}
	return buf, nil
}

func writeRows(f *excelize.File, sheet string, startRow int, rows [][]interface{}) error {
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, startRow+i)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return fmt.Errorf("failed to write %s row %d: %w", sheet, startRow+i, err)
		}
	}
	return nil
}

func writeHousePoints(f *excelize.File, r TournamentReport) error {
	rows := [][]interface{}{
		{"Tournament date", r.TournamentDate},
		{},
		{"Place", "House", "Placement", "Participation", "Match wins", "Spirit", "Total", "Notes"},
	}
	for _, hp := range r.HousePoints {
		notes := ""
		if hp.TieBreakerNotes != nil {
			notes = *hp.TieBreakerNotes
		}
		rows = append(rows, []interface{}{
			hp.FinalPlacement, hp.HouseName, hp.PlacementPoints, hp.ParticipationPoints,
			hp.MatchWinPoints, hp.SpiritPoints, hp.TotalPoints, notes,
		})
	}
	return writeRows(f, sheetHousePoints, 1, rows)
}

var standingsHeader = []interface{}{
	"Rank", "House", "Played", "Won", "Lost", "Drawn", "Games won", "Games lost", "Game diff",
	"Points for", "Points against", "Points diff", "League points",
}

func standingsRows(rows []models.StandingsRow) [][]interface{} {
	out := make([][]interface{}, 0, len(rows))
	for _, s := range rows {
		out = append(out, []interface{}{
			s.Rank, s.HouseName, s.Played, s.Wins, s.Losses, s.Draws, s.GamesWon, s.GamesLost,
			s.GameDifferential, s.PointsFor, s.PointsAgainst, s.PointsDiff, s.LeaguePoints,
		})
	}
	return out
}

func writeStandings(f *excelize.File, r TournamentReport) error {
	rows := [][]interface{}{standingsHeader}
	if r.Standings != nil {
		rows = append(rows, standingsRows(r.Standings.Overall)...)
	}
	return writeRows(f, sheetStandings, 1, rows)
}

func writeCategories(f *excelize.File, r TournamentReport) error {
	if r.Standings == nil {
		return nil
	}
	row := 1
	for _, cs := range r.Standings.ByCategory {
		block := [][]interface{}{{string(cs.Category)}, standingsHeader}
		block = append(block, standingsRows(cs.Rows)...)
		block = append(block, []interface{}{})
		if err := writeRows(f, sheetCategories, row, block); err != nil {
			return err
		}
		row += len(block)
	}
	return nil
}

func writeMatches(f *excelize.File, r TournamentReport) error {
	rows := [][]interface{}{{
		"No.", "Category", "Table", "House 1", "Pair 1", "House 2", "Pair 2", "Status",
		"Game 1", "Game 2", "Game 3", "Game 4", "Game 5", "Result",
	}}
	for _, m := range r.Matches {
		row := []interface{}{
			m.MatchNumber, string(m.Category), lookup(r.TableNames, m.TableID),
			lookup(r.TeamHouseNames, m.Team1ID), pairLabel(m.Pair1),
			lookup(r.TeamHouseNames, m.Team2ID), pairLabel(m.Pair2),
			string(m.Status),
		}
		for _, g := range m.Games {
			if g.Team1 == 0 && g.Team2 == 0 {
				row = append(row, "")
				continue
			}
			row = append(row, fmt.Sprintf("%d-%d", g.Team1, g.Team2))
		}
		row = append(row, fmt.Sprintf("%d-%d", m.Team1Wins, m.Team2Wins))
		rows = append(rows, row)
	}
	return writeRows(f, sheetMatches, 1, rows)
}

func lookup(names map[int]string, id *int) string {
	if id == nil {
		return ""
	}
	return names[*id]
}

func pairLabel(p models.Pair) string {
	parts := make([]string, 0, 2)
	for _, n := range []string{p.Player1, p.Player2} {
		if n != "" {
			parts = append(parts, n)
		}
	}
	return strings.Join(parts, " / ")
}
