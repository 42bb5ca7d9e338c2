package market

// CoinData is one element of the /coins/markets response
type CoinData struct {
	ID                       string     `json:"id"`
	Symbol                   string     `json:"symbol"`
	Name                     string     `json:"name"`
	Image                    string     `json:"image"`
	CurrentPrice             float64    `json:"current_price"`
	MarketCap                float64    `json:"market_cap"`
	MarketCapRank            int        `json:"market_cap_rank"`
	TotalVolume              float64    `json:"total_volume"`
	PriceChange24h           *float64   `json:"price_change_24h,omitempty"`
	PriceChangePercentage24h *float64   `json:"price_change_percentage_24h,omitempty"`
	PriceChangePercentage7d  *float64   `json:"price_change_percentage_7d_in_currency,omitempty"`
	CirculatingSupply        float64    `json:"circulating_supply"`
	TotalSupply              *float64   `json:"total_supply,omitempty"`
	ATH                      float64    `json:"ath"`
	ATHChangePercentage      *float64   `json:"ath_change_percentage,omitempty"`
	ATL                      float64    `json:"atl"`
	ATLChangePercentage      *float64   `json:"atl_change_percentage,omitempty"`
	Sparkline7d              *Sparkline `json:"sparkline_in_7d,omitempty"`
	LastUpdated              string     `json:"last_updated,omitempty"`
}

// Sparkline holds the hourly prices of the last 7 days
type Sparkline struct {
	Price []float64 `json:"price"`
}

// SparklinePrices returns the 7 day prices, nil when absent
func (c *CoinData) SparklinePrices() []float64 {
	if c.Sparkline7d == nil {
		return nil
	}
	return c.Sparkline7d.Price
}

// ChartData is the /coins/{id}/market_chart response.
// Every point is [unix milliseconds, value].
type ChartData struct {
	Prices       [][2]float64 `json:"prices"`
	MarketCaps   [][2]float64 `json:"market_caps"`
	TotalVolumes [][2]float64 `json:"total_volumes"`
}

// valueOr dereferences optional numeric fields
func valueOr(v *float64, fallback float64) float64 {
	if v == nil {
		return fallback
	}
	return *v
}

// Change24h returns the 24h percentage change, 0 when unknown
func (c *CoinData) Change24h() float64 { return valueOr(c.PriceChangePercentage24h, 0) }

// Change7d returns the 7d percentage change, 0 when unknown
func (c *CoinData) Change7d() float64 { return valueOr(c.PriceChangePercentage7d, 0) }
