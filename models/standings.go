package models

// HeadToHead - итог личных встреч дома против одного соперника.
type HeadToHead struct {
	Matches      int `json:"matches"`
	Wins         int `json:"wins"`
	Losses       int `json:"losses"`
	GamesFor     int `json:"games_for"`
	GamesAgainst int `json:"games_against"`
}

type StandingsRow struct {
	Rank             int                 `json:"rank"`
	HouseID          int                 `json:"house_id"`
	HouseName        string              `json:"house_name"`
	HouseColor       string              `json:"house_color,omitempty"`
	HouseColorHex    string              `json:"house_color_hex,omitempty"`
	Played           int                 `json:"played"`
	Wins             int                 `json:"wins"`
	Losses           int                 `json:"losses"`
	Draws            int                 `json:"draws"`
	GamesWon         int                 `json:"games_won"`
	GamesLost        int                 `json:"games_lost"`
	GameDifferential int                 `json:"game_differential"`
	PointsFor        int                 `json:"points_for"`
	PointsAgainst    int                 `json:"points_against"`
	PointsDiff       int                 `json:"points_differential"`
	LeaguePoints     int                 `json:"league_points"`
	HeadToHead       map[int]*HeadToHead `json:"head_to_head"`
}

type CategoryStandings struct {
	Category Category       `json:"category"`
	Rows     []StandingsRow `json:"rows"`
}

// StandingsSummary - общая таблица, таблицы по категориям и количество
// выигранных категорий для каждого дома.
type StandingsSummary struct {
	Overall        []StandingsRow      `json:"overall"`
	ByCategory     []CategoryStandings `json:"by_category"`
	CategoryTitles map[int]int         `json:"category_titles"`
}
