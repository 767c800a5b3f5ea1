package models

import "time"

type SpiritAssessment struct {
	ID              int       `json:"id" db:"id"`
	HouseID         int       `json:"house_id" db:"house_id"`
	TournamentDate  string    `json:"tournament_date" db:"tournament_date"`
	AssessorName    string    `json:"assessor_name" db:"assessor_name"`
	Sportsmanship   float64   `json:"sportsmanship" db:"sportsmanship"`
	Teamwork        float64   `json:"teamwork" db:"teamwork"`
	SeatArrangement float64   `json:"seat_arrangement" db:"seat_arrangement"`
	Total           float64   `json:"total" db:"total"`
	Notes           *string   `json:"notes,omitempty" db:"notes"`
	CreatedAt       time.Time `json:"created_at" db:"created_at"`
	UpdatedAt       time.Time `json:"updated_at" db:"updated_at"`
}

// HousePoints - строка кэша house_points, ключ (house_id, tournament_date).
type HousePoints struct {
	ID                  int       `json:"id" db:"id"`
	HouseID             int       `json:"house_id" db:"house_id"`
	HouseName           string    `json:"house_name" db:"-"`
	HouseColorHex       string    `json:"house_color_hex,omitempty" db:"-"`
	TournamentDate      string    `json:"tournament_date" db:"tournament_date"`
	PlacementPoints     int       `json:"placement_points" db:"placement_points"`
	ParticipationPoints int       `json:"participation_points" db:"participation_points"`
	MatchWinPoints      int       `json:"match_win_points" db:"match_win_points"`
	SpiritPoints        float64   `json:"spirit_points" db:"spirit_points"`
	TotalPoints         float64   `json:"total_points" db:"total_points"`
	FinalPlacement      int       `json:"final_placement" db:"final_placement"`
	GameDifferential    int       `json:"game_differential" db:"-"`
	TieBreakerNotes     *string   `json:"tie_breaker_notes,omitempty" db:"tie_breaker_notes"`
	CreatedAt           time.Time `json:"created_at" db:"created_at"`
	UpdatedAt           time.Time `json:"updated_at" db:"updated_at"`
}
