package brackets

import (
	"sort"

	"github.com/Dosada05/house-tournament/models"
)

// TableAllocation - стол, выбранный для матча при автоматической расстановке.
type TableAllocation struct {
	MatchID int `json:"match_id"`
	TableID int `json:"table_id"`
}

// EligibleTables отбирает столы, принимающие матчи категории. Столы с приоритетом
// на эту категорию идут первыми, дальше по sort_order и id.
func EligibleTables(tables []*models.PlayTable, category models.Category) []*models.PlayTable {
	eligible := make([]*models.PlayTable, 0, len(tables))
	for _, t := range tables {
		if t != nil && t.EffectiveAssignment().Accepts(category) {
			eligible = append(eligible, t)
		}
	}
	sort.SliceStable(eligible, func(i, j int) bool {
		pi := string(eligible[i].PriorityAssignment) == string(category)
		pj := string(eligible[j].PriorityAssignment) == string(category)
		if pi != pj {
			return pi
		}
		if eligible[i].SortOrder != eligible[j].SortOrder {
			return eligible[i].SortOrder < eligible[j].SortOrder
		}
		return eligible[i].ID < eligible[j].ID
	})
	return eligible
}

// DistributeTables раскладывает ожидающие матчи без стола по кругу на подходящие
// столы. Порядок матчей - по номеру матча.
func DistributeTables(matches []*models.Match, tables []*models.PlayTable, category models.Category) []TableAllocation {
	eligible := EligibleTables(tables, category)
	if len(eligible) == 0 {
		return nil
	}

	pending := make([]*models.Match, 0, len(matches))
	for _, m := range matches {
		if m == nil || m.Category != category || m.Status != models.MatchStatusPending || m.TableID != nil {
			continue
		}
		pending = append(pending, m)
	}
	sort.Slice(pending, func(i, j int) bool { return pending[i].MatchNumber < pending[j].MatchNumber })

	allocations := make([]TableAllocation, 0, len(pending))
	for i, m := range pending {
		allocations = append(allocations, TableAllocation{MatchID: m.ID, TableID: eligible[i%len(eligible)].ID})
	}
	return allocations
}
