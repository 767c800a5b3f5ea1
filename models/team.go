package models

import "time"

type Gender string

const (
	GenderMale   Gender = "M"
	GenderFemale Gender = "F"
)

type Player struct {
	ID        int       `json:"id" db:"id"`
	Name      string    `json:"name" db:"name"`
	Gender    Gender    `json:"gender" db:"gender"`
	HouseID   int       `json:"house_id" db:"house_id"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// Pair - два имени игроков, выступающих вместе в одной категории.
type Pair struct {
	Player1 string `json:"player1"`
	Player2 string `json:"player2"`
}

// Complete сообщает, заполнены ли оба места в паре.
func (p Pair) Complete() bool {
	return p.Player1 != "" && p.Player2 != ""
}

type Team struct {
	ID        int       `json:"id" db:"id"`
	HouseID   int       `json:"house_id" db:"house_id"`
	MixedPair Pair      `json:"mixed_pair" db:"-"`
	MensPair  Pair      `json:"mens_pair" db:"-"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`

	House   *House   `json:"house,omitempty" db:"-"`
	Players []Player `json:"players,omitempty" db:"-"`
	// Предпочтительный стол по категории, заполняется из team_table_assignments.
	TablePreferences map[Category]int `json:"table_preferences,omitempty" db:"-"`
}

// PairFor возвращает пару команды для указанной категории.
func (t *Team) PairFor(category Category) Pair {
	if category == CategoryMensDoubles {
		return t.MensPair
	}
	return t.MixedPair
}

// PreferredTable возвращает предпочтительный стол команды для категории, если он задан.
func (t *Team) PreferredTable(category Category) *int {
	if t.TablePreferences == nil {
		return nil
	}
	id, ok := t.TablePreferences[category]
	if !ok || id <= 0 {
		return nil
	}
	return &id
}

// HasFullRoster - все четыре места в обеих парах заняты разными игроками.
func (t *Team) HasFullRoster() bool {
	if !t.MixedPair.Complete() || !t.MensPair.Complete() {
		return false
	}
	seen := make(map[string]struct{}, 4)
	for _, name := range []string{t.MixedPair.Player1, t.MixedPair.Player2, t.MensPair.Player1, t.MensPair.Player2} {
		if _, dup := seen[name]; dup {
			return false
		}
		seen[name] = struct{}{}
	}
	return true
}

type TeamTableAssignment struct {
	ID        int       `json:"id" db:"id"`
	TeamID    int       `json:"team_id" db:"team_id"`
	Category  Category  `json:"category" db:"category"`
	TableID   int       `json:"table_id" db:"table_id"`
	Notes     *string   `json:"notes,omitempty" db:"notes"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}
