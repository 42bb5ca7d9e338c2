package dashboard

import (
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	"github.com/iTrooz/cryo-dash/internal/decision"
	"github.com/iTrooz/cryo-dash/internal/freshcache"
	"github.com/iTrooz/cryo-dash/internal/market"
)

const (
	unavailableMessage = "Unable to load coin data"
	degradedMessage    = "Showing cached data"
	rateLimitHint      = "This is likely due to CoinGecko API rate limits. Please wait a moment and try selecting a different coin."
	autoRefreshHint    = "Data will auto-refresh when available."
)

// Stat is one cell of the coin stats grid
type Stat struct {
	Label string `json:"label"`
	Value string `json:"value"`
	Note  string `json:"note,omitempty"`
	// Tone is "success", "destructive" or empty
	Tone string `json:"tone,omitempty"`
}

// CoinView is everything the coin panel shows for one cache result
type CoinView struct {
	Symbol      string            `json:"symbol"`
	Label       string            `json:"label"`
	Status      freshcache.Status `json:"status"`
	Loading     bool              `json:"loading,omitempty"`
	Degraded    bool              `json:"degraded"`
	Unavailable bool              `json:"unavailable"`
	RateLimited bool              `json:"rateLimited,omitempty"`
	Message     string            `json:"message,omitempty"`
	Hint        string            `json:"hint,omitempty"`
	FetchedAt   time.Time         `json:"fetchedAt,omitempty"`

	Coin      *market.CoinData `json:"coin,omitempty"`
	Price     string           `json:"price,omitempty"`
	Change24h string           `json:"change24h,omitempty"`
	Up24h     bool             `json:"up24h"`
	Change7d  string           `json:"change7d,omitempty"`
	Up7d      bool             `json:"up7d"`
	Sparkline []float64        `json:"sparkline,omitempty"`
	Stats     []Stat           `json:"stats,omitempty"`
}

// LoadingCoinView is shown before the first result for symbol arrives
func LoadingCoinView(symbol string) CoinView {
	return CoinView{Symbol: symbol, Label: label(symbol), Loading: true}
}

// NewCoinView builds the panel model from a cache result
func NewCoinView(symbol string, res freshcache.Result[market.CoinData]) CoinView {
	view := CoinView{
		Symbol:      symbol,
		Label:       label(symbol),
		Status:      res.Status,
		Degraded:    res.Degraded(),
		Unavailable: !res.HasValue(),
		RateLimited: market.IsRateLimited(res.Err),
	}

	if view.Unavailable {
		view.Message = unavailableMessage
		view.Hint = unavailableHint(res.Err)
		return view
	}

	if view.Degraded {
		view.Message = degradedMessage
		view.Hint = degradedHint(res.Err)
	}

	coin := res.Value
	view.FetchedAt = res.FetchedAt
	view.Coin = &coin
	view.Price = FormatPrice(coin.CurrentPrice)
	view.Change24h = FormatChange(coin.Change24h())
	view.Up24h = coin.Change24h() >= 0
	view.Change7d = FormatChange(coin.Change7d())
	view.Up7d = coin.Change7d() >= 0
	view.Sparkline = coin.SparklinePrices()
	view.Stats = coinStats(&coin)
	return view
}

// LastUpdated renders the age of the shown data, empty when nothing is shown
func (v CoinView) LastUpdated(now time.Time) string {
	if v.FetchedAt.IsZero() {
		return ""
	}
	return FormatAge(v.FetchedAt, now)
}

func label(symbol string) string {
	if coin, ok := market.Lookup(symbol); ok {
		return coin.Label()
	}
	return symbol
}

func unavailableHint(err error) string {
	if market.IsRateLimited(err) {
		return rateLimitHint
	}
	kind, ok := market.Kind(err)
	if !ok {
		return rateLimitHint
	}
	switch kind {
	case market.KindMalformed:
		return "CoinGecko returned an unexpected response. Please try again later."
	case market.KindRejected:
		return "CoinGecko rejected the request. Please try again later."
	default:
		return "CoinGecko could not be reached. Check your connection."
	}
}

func degradedHint(err error) string {
	if market.IsRateLimited(err) {
		return "CoinGecko API rate limit reached. " + autoRefreshHint
	}
	if kind, ok := market.Kind(err); ok {
		return fmt.Sprintf("CoinGecko refresh failed (%s). %s", kind, autoRefreshHint)
	}
	return "CoinGecko refresh failed. " + autoRefreshHint
}

func tone(positive bool) string {
	if positive {
		return "success"
	}
	return "destructive"
}

func coinStats(coin *market.CoinData) []Stat {
	supply := Stat{Label: "Circulating Supply", Value: FormatSupply(coin.CirculatingSupply)}
	if coin.TotalSupply != nil && *coin.TotalSupply != 0 {
		supply.Note = "of " + FormatSupply(*coin.TotalSupply)
	}

	change := valueOrZero(coin.PriceChange24h)
	changeValue := FormatPrice(change)
	if change >= 0 {
		changeValue = "+" + changeValue
	}

	return []Stat{
		{Label: "Market Cap", Value: FormatLargeNumber(coin.MarketCap), Note: fmt.Sprintf("Rank #%d", coin.MarketCapRank)},
		{Label: "24h Volume", Value: FormatLargeNumber(coin.TotalVolume)},
		supply,
		{Label: "All-Time High", Value: FormatPrice(coin.ATH), Note: fmt.Sprintf("%.2f%% from ATH", valueOrZero(coin.ATHChangePercentage)), Tone: "destructive"},
		{Label: "All-Time Low", Value: FormatPrice(coin.ATL), Note: fmt.Sprintf("+%.2f%% from ATL", valueOrZero(coin.ATLChangePercentage)), Tone: "success"},
		{Label: "Price Change", Value: changeValue, Note: "24h", Tone: tone(change >= 0)},
	}
}

func valueOrZero(v *float64) float64 {
	if v == nil {
		return 0
	}
	return *v
}

// DecisionView is the headline recommendation
type DecisionView struct {
	Signal     decision.Signal `json:"signal"`
	Confidence string          `json:"confidence"`
	Summary    string          `json:"summary"`
	Symbol     string          `json:"symbol"`
	Horizon    string          `json:"horizon"`
	Time       string          `json:"time"`
}

// NewDecisionView extracts the recommendation from a result
func NewDecisionView(res *decision.AnalysisResult) DecisionView {
	return DecisionView{
		Signal:     res.Signal,
		Confidence: res.Confidence + " CONFIDENCE",
		Summary:    res.Summary,
		Symbol:     res.Parameters.Symbol,
		Horizon:    FormatHorizon(res.Parameters.Minutes) + " forecast",
		Time:       FormatTimestamp(res.Timestamp),
	}
}

// ChartPoint is one merged point of the forecast chart.
// Exactly one of Historical and Forecast is set.
type ChartPoint struct {
	Time       int64    `json:"time"`
	Historical *float64 `json:"historical,omitempty"`
	Forecast   *float64 `json:"forecast,omitempty"`
}

// ForecastView is the price forecast panel
type ForecastView struct {
	Points []ChartPoint `json:"points"`
	// BoundaryTime is the last historical point, the chart's "Now" marker
	BoundaryTime    int64  `json:"boundaryTime"`
	CurrentPrice    string `json:"currentPrice"`
	PredictedPrice  string `json:"predictedPrice"`
	PredictedChange string `json:"predictedChange"`
	Up              bool   `json:"up"`
	Confidence      string `json:"confidence"`
	Support         string `json:"support,omitempty"`
	Resistance      string `json:"resistance,omitempty"`
}

// NewForecastView merges the historical and forecast series
func NewForecastView(res *decision.AnalysisResult) ForecastView {
	qa := res.QuantitativeAnalysis
	points := make([]ChartPoint, 0, len(qa.HistoricalData)+len(qa.ForecastData))
	for _, p := range qa.HistoricalData {
		price := p.Price
		points = append(points, ChartPoint{Time: p.Time, Historical: &price})
	}
	for _, p := range qa.ForecastData {
		price := p.Price
		points = append(points, ChartPoint{Time: p.Time, Forecast: &price})
	}

	// historical points first on equal times
	sort.SliceStable(points, func(i, j int) bool { return points[i].Time < points[j].Time })

	var boundary int64
	for i, p := range qa.HistoricalData {
		if i == 0 || p.Time > boundary {
			boundary = p.Time
		}
	}

	view := ForecastView{
		Points:          points,
		BoundaryTime:    boundary,
		CurrentPrice:    twoDecimalPrice(qa.Metrics.CurrentPrice),
		PredictedPrice:  twoDecimalPrice(qa.Metrics.PredictedPrice),
		PredictedChange: FormatChange(qa.Metrics.PredictedChange),
		Up:              qa.Metrics.PredictedChange >= 0,
		Confidence:      res.Confidence,
	}
	if qa.Metrics.SupportLevel != nil {
		view.Support = twoDecimalPrice(*qa.Metrics.SupportLevel)
	}
	if qa.Metrics.ResistanceLevel != nil {
		view.Resistance = twoDecimalPrice(*qa.Metrics.ResistanceLevel)
	}
	return view
}

// forecast prices always show exactly two decimals
func twoDecimalPrice(price float64) string {
	s := "$" + decimal(math.Abs(price), 2, 2)
	if price < 0 {
		return "-" + s
	}
	return s
}

// HeadlineView is one news line of the sentiment panel
type HeadlineView struct {
	Title     string `json:"title"`
	Source    string `json:"source,omitempty"`
	Ago       string `json:"ago"`
	Sentiment string `json:"sentiment"`
}

// SentimentView is the market mood gauge and its evidence
type SentimentView struct {
	Score     string         `json:"score"`
	Label     string         `json:"label"`
	Color     string         `json:"color"`
	Rotation  float64        `json:"rotation"`
	Headlines []HeadlineView `json:"headlines"`
	Total     int            `json:"total"`
	Positive  int            `json:"positive"`
	Negative  int            `json:"negative"`
	Neutral   int            `json:"neutral"`
	Trend     string         `json:"trend"`
}

// NewSentimentView builds the sentiment panel, headline ages relative to now
func NewSentimentView(res *decision.AnalysisResult, now time.Time) SentimentView {
	sa := res.SentimentAnalysis
	headlines := make([]HeadlineView, 0, len(sa.TopHeadlines))
	for _, h := range sa.TopHeadlines {
		headlines = append(headlines, HeadlineView{
			Title:     h.Title,
			Source:    h.Source,
			Ago:       FormatTimeAgo(h.Timestamp, now),
			Sentiment: strings.ToLower(h.Sentiment),
		})
	}

	return SentimentView{
		Score:     fmt.Sprintf("%.1f", sa.MarketMoodScore),
		Label:     sa.SentimentLabel,
		Color:     SentimentColor(sa.MarketMoodScore),
		Rotation:  GaugeRotation(sa.MarketMoodScore),
		Headlines: headlines,
		Total:     sa.Statistics.TotalArticles,
		Positive:  sa.Statistics.PositiveCount,
		Negative:  sa.Statistics.NegativeCount,
		Neutral:   sa.Statistics.NeutralCount,
		Trend:     strings.ToLower(sa.Statistics.SentimentTrend),
	}
}

// AnalysisView bundles the three panels shown after an analysis
type AnalysisView struct {
	Result    *decision.AnalysisResult `json:"result"`
	Decision  DecisionView             `json:"decision"`
	Forecast  ForecastView             `json:"forecast"`
	Sentiment SentimentView            `json:"sentiment"`
}

// NewAnalysisView builds every panel of an analysis result
func NewAnalysisView(res *decision.AnalysisResult, now time.Time) *AnalysisView {
	return &AnalysisView{
		Result:    res,
		Decision:  NewDecisionView(res),
		Forecast:  NewForecastView(res),
		Sentiment: NewSentimentView(res, now),
	}
}
