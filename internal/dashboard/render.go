package dashboard

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/iTrooz/cryo-dash/internal/decision"
)

const (
	sparklineWidth = 56
	chartWidth     = 56
	chartHeight    = 10
	statsPerRow    = 3
)

// RenderCoin draws the coin panel as of now
func RenderCoin(v CoinView, now time.Time, interval time.Duration) string {
	switch {
	case v.Loading:
		return panelStyle.Render(mutedStyle.Render("Loading " + v.Label + "..."))
	case v.Unavailable:
		return panelStyle.Render(lipgloss.JoinVertical(lipgloss.Center,
			destructiveStyle.Bold(true).Render(v.Message),
			mutedStyle.Render(v.Hint),
		))
	}

	var sections []string
	if v.Degraded {
		sections = append(sections, lipgloss.NewStyle().
			Border(lipgloss.NormalBorder()).
			BorderForeground(Warning).
			Padding(0, 1).
			Render(warningStyle.Bold(true).Render("⚠ "+v.Message)+"\n"+mutedStyle.Render(v.Hint)))
	}

	coin := v.Coin
	name := lipgloss.JoinVertical(lipgloss.Left,
		titleStyle.Render(coin.Name),
		mutedStyle.Render(strings.ToUpper(coin.Symbol)),
	)
	price := lipgloss.JoinVertical(lipgloss.Right,
		titleStyle.Render(v.Price),
		changeStyle(v.Up24h).Render(arrow(v.Up24h)+" "+v.Change24h)+" "+mutedStyle.Render("24h"),
	)
	gap := strings.Repeat(" ", max(2, sparklineWidth-lipgloss.Width(name)-lipgloss.Width(price)))
	sections = append(sections, lipgloss.JoinHorizontal(lipgloss.Top, name, gap, price))

	if len(v.Sparkline) > 0 {
		sections = append(sections,
			changeStyle(v.Up7d).Render(Sparkline(v.Sparkline, sparklineWidth)),
			changeStyle(v.Up7d).Render(v.Change7d+" (7d)"),
		)
	}

	sections = append(sections, renderStats(v.Stats))

	footer := fmt.Sprintf("Live data powered by CoinGecko • Updates every %s", FormatInterval(interval))
	if updated := v.LastUpdated(now); updated != "" {
		footer += " • Last updated: " + updated
	}
	sections = append(sections, mutedStyle.Render(footer))

	return panelStyle.Render(lipgloss.JoinVertical(lipgloss.Left, sections...))
}

// FormatInterval renders a refresh interval: 60 seconds, 5 minutes
func FormatInterval(d time.Duration) string {
	if d >= 2*time.Minute && d%time.Minute == 0 {
		return fmt.Sprintf("%d minutes", int(d/time.Minute))
	}
	return fmt.Sprintf("%d seconds", int(d/time.Second))
}

func arrow(up bool) string {
	if up {
		return "▲"
	}
	return "▼"
}

func renderStats(stats []Stat) string {
	var rows []string
	for start := 0; start < len(stats); start += statsPerRow {
		end := min(start+statsPerRow, len(stats))
		cells := make([]string, 0, statsPerRow)
		for _, s := range stats[start:end] {
			body := mutedStyle.Render(s.Label) + "\n" + titleStyle.Inherit(toneStyle(s.Tone)).Render(s.Value)
			if s.Note != "" {
				body += "\n" + toneStyle(s.Tone).Faint(true).Render(s.Note)
			}
			cells = append(cells, cellStyle.Render(body))
		}
		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, cells...))
	}
	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}

// RenderDecision draws the signal box
func RenderDecision(v DecisionView) string {
	color, icon := signalStyle(v.Signal)
	signal := lipgloss.NewStyle().
		Background(color).
		Foreground(lipgloss.Color("#FFFFFF")).
		Bold(true).
		Padding(1, 6).
		Render(icon + " " + string(v.Signal) + "   " + v.Confidence)

	meta := strings.Join([]string{v.Symbol, v.Horizon, v.Time}, " • ")
	return panelStyle.Render(lipgloss.JoinVertical(lipgloss.Center,
		signal,
		"",
		lipgloss.NewStyle().Width(sparklineWidth).Align(lipgloss.Center).Render(v.Summary),
		"",
		mutedStyle.Render(meta),
	))
}

func signalStyle(s decision.Signal) (lipgloss.TerminalColor, string) {
	switch s {
	case decision.SignalBuy:
		return Success, "▲"
	case decision.SignalSell:
		return Destructive, "▼"
	default:
		return Warning, "■"
	}
}

// RenderForecast draws the forecast chart and its metrics
func RenderForecast(v ForecastView) string {
	lines := LineChart(v.Points, v.BoundaryTime, chartWidth, chartHeight)
	colored := make([]string, len(lines))
	for i, line := range lines {
		var b strings.Builder
		for _, r := range line {
			switch r {
			case historicalMark:
				b.WriteString(lipgloss.NewStyle().Foreground(Historical).Render(string(r)))
			case forecastMark:
				b.WriteString(lipgloss.NewStyle().Foreground(Forecast).Render(string(r)))
			case boundaryMark:
				b.WriteString(mutedStyle.Render(string(r)))
			default:
				b.WriteRune(r)
			}
		}
		colored[i] = b.String()
	}

	legend := lipgloss.NewStyle().Foreground(Historical).Render(string(historicalMark)+" Historical") + "   " +
		lipgloss.NewStyle().Foreground(Forecast).Render(string(forecastMark)+" Forecast") + "   " +
		mutedStyle.Render(string(boundaryMark)+" Now")

	metrics := []Stat{
		{Label: "Current Price", Value: v.CurrentPrice},
		{Label: "Predicted Price", Value: v.PredictedPrice},
		{Label: "Predicted Change", Value: v.PredictedChange, Tone: tone(v.Up)},
		{Label: "Confidence", Value: v.Confidence},
	}
	if v.Support != "" {
		metrics = append(metrics, Stat{Label: "Support", Value: v.Support})
	}
	if v.Resistance != "" {
		metrics = append(metrics, Stat{Label: "Resistance", Value: v.Resistance})
	}

	sections := []string{titleStyle.Render("Price Forecast Model")}
	if len(colored) > 0 {
		sections = append(sections, strings.Join(colored, "\n"), legend)
	} else {
		sections = append(sections, mutedStyle.Render("No price data"))
	}
	sections = append(sections, renderStats(metrics))
	return panelStyle.Render(lipgloss.JoinVertical(lipgloss.Left, sections...))
}

const gaugeWidth = 41

// RenderSentiment draws the mood gauge, headlines and article statistics
func RenderSentiment(v SentimentView) string {
	color := lipgloss.Color(v.Color)
	needle := int((v.Rotation + 90) / 180 * float64(gaugeWidth-1))
	needle = max(0, min(gaugeWidth-1, needle))
	gauge := []rune(strings.Repeat("━", gaugeWidth))
	gauge[needle] = '▼'

	mood := lipgloss.JoinVertical(lipgloss.Center,
		lipgloss.NewStyle().Foreground(color).Render(string(gauge)),
		lipgloss.NewStyle().Foreground(color).Bold(true).Render(v.Score),
		lipgloss.NewStyle().Foreground(color).Render(v.Label),
	)

	news := []string{mutedStyle.Bold(true).Render("Recent News")}
	for _, h := range v.Headlines {
		meta := []string{}
		if h.Source != "" {
			meta = append(meta, h.Source)
		}
		if h.Ago != "" {
			meta = append(meta, h.Ago)
		}
		news = append(news, sentimentIcon(h.Sentiment)+" "+h.Title)
		if len(meta) > 0 {
			news = append(news, "  "+mutedStyle.Render(strings.Join(meta, " • ")))
		}
	}

	stats := table.New().
		Rows(
			[]string{"Total Articles", fmt.Sprint(v.Total), "Trend", trendIcon(v.Trend) + " " + v.Trend},
			[]string{"Positive", successStyle.Render(fmt.Sprint(v.Positive)), "Negative", destructiveStyle.Render(fmt.Sprint(v.Negative))},
		).
		BorderTop(false).
		BorderBottom(false).
		BorderLeft(false).
		BorderRight(false).
		BorderHeader(false).
		BorderColumn(false).
		BorderRow(false).
		StyleFunc(func(row, col int) lipgloss.Style {
			if col%2 == 0 {
				return mutedStyle.PaddingRight(2)
			}
			return lipgloss.NewStyle().Bold(true).PaddingRight(4)
		})

	return panelStyle.Render(lipgloss.JoinVertical(lipgloss.Left,
		titleStyle.Render("Live Market Sentiment"),
		"",
		mood,
		"",
		strings.Join(news, "\n"),
		"",
		stats.String(),
	))
}

func sentimentIcon(sentiment string) string {
	switch sentiment {
	case "positive":
		return successStyle.Render("✔")
	case "negative":
		return destructiveStyle.Render("✘")
	default:
		return mutedStyle.Render("○")
	}
}

func trendIcon(trend string) string {
	switch trend {
	case "improving":
		return successStyle.Render("▲")
	case "declining":
		return destructiveStyle.Render("▼")
	default:
		return mutedStyle.Render("–")
	}
}

// RenderAnalysis draws all the panels of an analysis, top to bottom
func RenderAnalysis(v *AnalysisView) string {
	return lipgloss.JoinVertical(lipgloss.Left,
		RenderDecision(v.Decision),
		RenderForecast(v.Forecast),
		RenderSentiment(v.Sentiment),
	)
}
