package standings

import (
	"fmt"
	"sort"

	"github.com/Dosada05/house-tournament/models"
)

// Очки за итоговое место: 1-е, 2-е, 3-е. Остальные получают 0.
var placementPoints = []int{3, 2, 1}

type HousePointsInput struct {
	Date      string
	Houses    []*models.House
	Standings []models.StandingsRow
	Teams     []*models.Team
	// Итог оценки духа по дому за дату.
	Spirit map[int]float64
}

// ComputeHousePoints начисляет очки домов:
// placement + participation + match wins + spirit.
// Место определяется по сумме без placement, затем по spirit, победам,
// разнице партий и имени. Результат отсортирован по итоговому месту.
func ComputeHousePoints(in HousePointsInput) []models.HousePoints {
	byHouse := make(map[int]*models.HousePoints, len(in.Houses))
	order := make([]int, 0, len(in.Houses))
	add := func(id int, name, hex string) *models.HousePoints {
		if hp, ok := byHouse[id]; ok {
			return hp
		}
		hp := &models.HousePoints{HouseID: id, HouseName: name, HouseColorHex: hex, TournamentDate: in.Date}
		byHouse[id] = hp
		order = append(order, id)
		return hp
	}

	for _, h := range in.Houses {
		if h != nil {
			add(h.ID, h.Name, h.ColorHex)
		}
	}
	for _, row := range in.Standings {
		hp := add(row.HouseID, row.HouseName, row.HouseColorHex)
		hp.MatchWinPoints = row.Wins
		hp.GameDifferential = row.GameDifferential
	}
	for _, t := range in.Teams {
		if t == nil {
			continue
		}
		hp := add(t.HouseID, fmt.Sprintf("House %d", t.HouseID), "")
		if t.HasFullRoster() {
			hp.ParticipationPoints = 1
		}
	}
	for id, spirit := range in.Spirit {
		if hp, ok := byHouse[id]; ok {
			hp.SpiritPoints = spirit
		}
	}

	list := make([]*models.HousePoints, 0, len(order))
	for _, id := range order {
		hp := byHouse[id]
		hp.TotalPoints = baseTotal(hp)
		list = append(list, hp)
	}

	sort.SliceStable(list, func(i, j int) bool { return compareHousePoints(list[i], list[j]) < 0 })

	out := make([]models.HousePoints, len(list))
	for i, hp := range list {
		hp.FinalPlacement = i + 1
		if i < len(placementPoints) {
			hp.PlacementPoints = placementPoints[i]
		}
		hp.TotalPoints += float64(hp.PlacementPoints)
		if i > 0 && baseTotal(list[i-1]) == baseTotal(hp) {
			note := fmt.Sprintf("tied with %s on %.1f points, separated by %s", list[i-1].HouseName, baseTotal(hp), tieBreaker(list[i-1], hp))
			hp.TieBreakerNotes = &note
		}
		out[i] = *hp
	}
	return out
}

func baseTotal(hp *models.HousePoints) float64 {
	return float64(hp.ParticipationPoints+hp.MatchWinPoints) + hp.SpiritPoints
}

// compareHousePoints < 0, если a стоит выше b.
func compareHousePoints(a, b *models.HousePoints) int {
	switch {
	case baseTotal(a) != baseTotal(b):
		return descFloat(baseTotal(a), baseTotal(b))
	case a.SpiritPoints != b.SpiritPoints:
		return descFloat(a.SpiritPoints, b.SpiritPoints)
	case a.MatchWinPoints != b.MatchWinPoints:
		return b.MatchWinPoints - a.MatchWinPoints
	case a.GameDifferential != b.GameDifferential:
		return b.GameDifferential - a.GameDifferential
	case a.HouseName != b.HouseName:
		if a.HouseName < b.HouseName {
			return -1
		}
		return 1
	default:
		return a.HouseID - b.HouseID
	}
}

func tieBreaker(a, b *models.HousePoints) string {
	switch {
	case a.SpiritPoints != b.SpiritPoints:
		return "spirit points"
	case a.MatchWinPoints != b.MatchWinPoints:
		return "match wins"
	case a.GameDifferential != b.GameDifferential:
		return "game differential"
	default:
		return "name"
	}
}

func descFloat(a, b float64) int {
	if a > b {
		return -1
	}
	return 1
}
