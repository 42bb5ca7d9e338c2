// Package decision calls the backend analysis endpoint and validates its inputs
package decision

import "time"

// Signal is the trading recommendation
type Signal string

const (
	SignalBuy  Signal = "BUY"
	SignalSell Signal = "SELL"
	SignalHold Signal = "HOLD"
)

// AnalysisResult is the body of GET /api/v1/decision
type AnalysisResult struct {
	Signal               Signal               `json:"signal"`
	Confidence           string               `json:"confidence"`
	Summary              string               `json:"summary"`
	Timestamp            string               `json:"timestamp"`
	Parameters           Parameters           `json:"parameters"`
	QuantitativeAnalysis QuantitativeAnalysis `json:"quantitativeAnalysis"`
	SentimentAnalysis    SentimentAnalysis    `json:"sentimentAnalysis"`
}

type Parameters struct {
	Symbol       string `json:"symbol"`
	Minutes      int    `json:"minutes"`
	AnalysisTime string `json:"analysisTime"`
}

type QuantitativeAnalysis struct {
	ModelVersion   string          `json:"modelVersion"`
	HistoricalData []HistoricPoint `json:"historicalData"`
	ForecastData   []ForecastPoint `json:"forecastData"`
	Metrics        Metrics         `json:"metrics"`
}

// HistoricPoint and ForecastPoint times are Unix seconds
type HistoricPoint struct {
	Time   int64   `json:"time"`
	Price  float64 `json:"price"`
	Volume float64 `json:"volume"`
}

type ForecastPoint struct {
	Time            int64    `json:"time"`
	Price           float64  `json:"price"`
	ConfidenceLower *float64 `json:"confidenceLower,omitempty"`
	ConfidenceUpper *float64 `json:"confidenceUpper,omitempty"`
}

type Metrics struct {
	PredictedChange float64  `json:"predictedChange"`
	PredictedPrice  float64  `json:"predictedPrice"`
	CurrentPrice    float64  `json:"currentPrice"`
	SupportLevel    *float64 `json:"supportLevel,omitempty"`
	ResistanceLevel *float64 `json:"resistanceLevel,omitempty"`
}

type SentimentAnalysis struct {
	MarketMoodScore float64    `json:"marketMoodScore"`
	SentimentLabel  string     `json:"sentimentLabel"`
	TopHeadlines    []Headline `json:"topHeadlines"`
	Statistics      Statistics `json:"statistics"`
}

type Headline struct {
	Title          string   `json:"title"`
	Source         string   `json:"source,omitempty"`
	Timestamp      string   `json:"timestamp"`
	Sentiment      string   `json:"sentiment"`
	RelevanceScore *float64 `json:"relevanceScore,omitempty"`
}

type Statistics struct {
	TotalArticles  int    `json:"totalArticles"`
	PositiveCount  int    `json:"positiveCount"`
	NegativeCount  int    `json:"negativeCount"`
	NeutralCount   int    `json:"neutralCount"`
	SentimentTrend string `json:"sentimentTrend"`
}

// AnalyzedAt parses Timestamp as RFC 3339
func (r *AnalysisResult) AnalyzedAt() (time.Time, bool) {
	t, err := time.Parse(time.RFC3339, r.Timestamp)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}
