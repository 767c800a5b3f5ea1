package models

type DashboardStats struct {
	HousesTotal     int         `json:"houses_total"`
	TeamsTotal      int         `json:"teams_total"`
	TablesTotal     int         `json:"tables_total"`
	Matches         MatchCounts `json:"matches"`
	TournamentDate  string      `json:"tournament_date"`
	SpiritSubmitted int         `json:"spirit_submitted"`
}
