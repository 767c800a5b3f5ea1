package reports

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"github.com/Dosada05/house-tournament/models"
)

var defaultBarColor = drawing.ColorFromHex("64748b")

// RenderHousePointsChart рисует столбчатую диаграмму итоговых очков домов в PNG.
func RenderHousePointsChart(rows []models.HousePoints) ([]byte, error) {
	if len(rows) == 0 {
		return nil, fmt.Errorf("no house points to chart")
	}

	maxTotal := 1.0
	bars := make([]chart.Value, 0, len(rows))
	for _, hp := range rows {
		color := defaultBarColor
		if hex := strings.TrimPrefix(hp.HouseColorHex, "#"); hex != "" {
			color = drawing.ColorFromHex(hex)
		}
		bars = append(bars, chart.Value{
			Label: hp.HouseName,
			Value: hp.TotalPoints,
			Style: chart.Style{FillColor: color, StrokeColor: color},
		})
		maxTotal = max(maxTotal, hp.TotalPoints)
	}

	graph := chart.BarChart{
		Title:      "House Points",
		Background: chart.Style{Padding: chart.Box{Top: 40}},
		Height:     480,
		Width:      720,
		BarWidth:   80,
		YAxis: chart.YAxis{
			Range: &chart.ContinuousRange{Min: 0, Max: maxTotal + 1},
		},
		Bars: bars,
	}

	var buf bytes.Buffer
	if err := graph.Render(chart.PNG, &buf); err != nil {
		return nil, fmt.Errorf("failed to render house points chart: %w", err)
	}
	return buf.Bytes(), nil
}
