// Package standings строит турнирную таблицу домов по завершенным матчам и
// начисляет итоговые очки домов.
package standings

import (
	"fmt"
	"sort"

	"github.com/Dosada05/house-tournament/models"
	"github.com/Dosada05/house-tournament/scoring"
)

// MatchResult - завершенный матч, сведенный к домам.
type MatchResult struct {
	Category models.Category
	House1ID int
	House2ID int
	Games1   int
	Games2   int
	// Сумма розыгрышей. Если не заданы, берутся выигранные партии.
	Points1 *int
	Points2 *int
}

func (r MatchResult) points() (int, int) {
	if r.Points1 == nil || r.Points2 == nil {
		return r.Games1, r.Games2
	}
	return *r.Points1, *r.Points2
}

// ResultsFromMatches отбирает завершенные матчи и определяет дома по командам.
// Матчи, у которых команда удалена или дом неизвестен, пропускаются.
func ResultsFromMatches(matches []*models.Match, teamHouse map[int]int) []MatchResult {
	results := make([]MatchResult, 0, len(matches))
	for _, m := range matches {
		if m == nil || m.Status != models.MatchStatusCompleted || m.Team1ID == nil || m.Team2ID == nil {
			continue
		}
		h1, ok1 := teamHouse[*m.Team1ID]
		h2, ok2 := teamHouse[*m.Team2ID]
		if !ok1 || !ok2 {
			continue
		}
		s := scoring.Aggregate(m.Games)
		// Разница очков (шаг после разницы партий) считается по сумме розыгрышей
		// всех партий, а не по числу выигранных партий.
		p1, p2 := 0, 0
		for _, g := range m.Games {
			p1 += g.Team1
			p2 += g.Team2
		}
		results = append(results, MatchResult{
			Category: m.Category,
			House1ID: h1,
			House2ID: h2,
			Games1:   s.Team1Wins,
			Games2:   s.Team2Wins,
			Points1:  &p1,
			Points2:  &p2,
		})
	}
	return results
}

// Resolve считает таблицу по всем результатам. В таблице присутствует каждый
// известный дом, даже без сыгранных матчей.
func Resolve(houses []*models.House, results []MatchResult) []models.StandingsRow {
	rows := make(map[int]*models.StandingsRow, len(houses))
	for _, h := range houses {
		if h == nil {
			continue
		}
		rows[h.ID] = newRow(h.ID, h.Name, h.Color, h.ColorHex)
	}
	row := func(id int) *models.StandingsRow {
		r, ok := rows[id]
		if !ok {
			r = newRow(id, fmt.Sprintf("House %d", id), "", "")
			rows[id] = r
		}
		return r
	}

	for _, res := range results {
		p1, p2 := res.points()
		apply(row(res.House1ID), res.House2ID, res.Games1, res.Games2, p1, p2)
		apply(row(res.House2ID), res.House1ID, res.Games2, res.Games1, p2, p1)
	}

	list := make([]*models.StandingsRow, 0, len(rows))
	for _, r := range rows {
		r.GameDifferential = r.GamesWon - r.GamesLost
		r.PointsDiff = r.PointsFor - r.PointsAgainst
		list = append(list, r)
	}
	rank(list)

	out := make([]models.StandingsRow, len(list))
	for i, r := range list {
		r.Rank = i + 1
		out[i] = *r
	}
	return out
}

// ResolveByCategory строит отдельную таблицу по каждой категории и считает,
// сколько категорий выиграл каждый дом.
func ResolveByCategory(houses []*models.House, results []MatchResult) ([]models.CategoryStandings, map[int]int) {
	titles := make(map[int]int)
	out := make([]models.CategoryStandings, 0, len(models.Categories))
	for _, category := range models.Categories {
		filtered := make([]MatchResult, 0, len(results))
		for _, r := range results {
			if r.Category == category {
				filtered = append(filtered, r)
			}
		}
		table := Resolve(houses, filtered)
		if len(table) > 0 && table[0].Played > 0 {
			titles[table[0].HouseID]++
		}
		out = append(out, models.CategoryStandings{Category: category, Rows: table})
	}
	return out, titles
}

func newRow(id int, name, color, hex string) *models.StandingsRow {
	return &models.StandingsRow{
		HouseID:       id,
		HouseName:     name,
		HouseColor:    color,
		HouseColorHex: hex,
		HeadToHead:    make(map[int]*models.HeadToHead),
	}
}

func apply(r *models.StandingsRow, opponent, gamesFor, gamesAgainst, pointsFor, pointsAgainst int) {
	r.Played++
	r.GamesWon += gamesFor
	r.GamesLost += gamesAgainst
	r.PointsFor += pointsFor
	r.PointsAgainst += pointsAgainst

	h2h, ok := r.HeadToHead[opponent]
	if !ok {
		h2h = &models.HeadToHead{}
		r.HeadToHead[opponent] = h2h
	}
	h2h.Matches++
	h2h.GamesFor += gamesFor
	h2h.GamesAgainst += gamesAgainst

	switch {
	case gamesFor > gamesAgainst:
		r.Wins++
		r.LeaguePoints++
		h2h.Wins++
	case gamesFor < gamesAgainst:
		r.Losses++
		h2h.Losses++
	default:
		r.Draws++
	}
}

// rank упорядочивает строки: по очкам лиги, а внутри группы с равными очками -
// по победам в личных встречах внутри группы, разнице партий, разнице очков, имени.
func rank(list []*models.StandingsRow) {
	sort.Slice(list, func(i, j int) bool {
		if list[i].LeaguePoints != list[j].LeaguePoints {
			return list[i].LeaguePoints > list[j].LeaguePoints
		}
		return list[i].HouseID < list[j].HouseID
	})

	for start := 0; start < len(list); {
		end := start + 1
		for end < len(list) && list[end].LeaguePoints == list[start].LeaguePoints {
			end++
		}
		if end-start > 1 {
			sortTiedGroup(list[start:end])
		}
		start = end
	}
}

func sortTiedGroup(group []*models.StandingsRow) {
	members := make(map[int]struct{}, len(group))
	for _, r := range group {
		members[r.HouseID] = struct{}{}
	}
	h2hWins := make(map[int]int, len(group))
	for _, r := range group {
		for opp, rec := range r.HeadToHead {
			if _, ok := members[opp]; ok && opp != r.HouseID {
				h2hWins[r.HouseID] += rec.Wins
			}
		}
	}

	sort.SliceStable(group, func(i, j int) bool {
		a, b := group[i], group[j]
		if h2hWins[a.HouseID] != h2hWins[b.HouseID] {
			return h2hWins[a.HouseID] > h2hWins[b.HouseID]
		}
		if a.GameDifferential != b.GameDifferential {
			return a.GameDifferential > b.GameDifferential
		}
		if a.PointsDiff != b.PointsDiff {
			return a.PointsDiff > b.PointsDiff
		}
		if a.HouseName != b.HouseName {
			return a.HouseName < b.HouseName
		}
		return a.HouseID < b.HouseID
	})
}
