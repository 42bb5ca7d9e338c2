package market

import (
	"fmt"
	"strings"

	"github.com/sahilm/fuzzy"
)

// Coin is a supported trading pair and its CoinGecko identity
type Coin struct {
	Symbol string `json:"symbol"`
	ID     string `json:"id"`
	Name   string `json:"name"`
}

// Label is the human readable pair name, e.g. "Bitcoin (BTC/USDT)"
func (c Coin) Label() string {
	return fmt.Sprintf("%s (%s)", c.Name, c.Symbol)
}

// DefaultSymbol is selected when nothing else is
const DefaultSymbol = "BTC/USDT"

var coins = []Coin{
	{Symbol: "BTC/USDT", ID: "bitcoin", Name: "Bitcoin"},
	{Symbol: "ETH/USDT", ID: "ethereum", Name: "Ethereum"},
	{Symbol: "SOL/USDT", ID: "solana", Name: "Solana"},
	{Symbol: "XRP/USDT", ID: "ripple", Name: "Ripple"},
	{Symbol: "ADA/USDT", ID: "cardano", Name: "Cardano"},
	{Symbol: "DOGE/USDT", ID: "dogecoin", Name: "Dogecoin"},
}

// Coins returns the supported pairs in display order
func Coins() []Coin {
	return append([]Coin(nil), coins...)
}

// Symbols returns the supported pair symbols in display order
func Symbols() []string {
	out := make([]string, len(coins))
	for i, c := range coins {
		out[i] = c.Symbol
	}
	return out
}

// Lookup finds a supported pair by exact symbol
func Lookup(symbol string) (Coin, bool) {
	for _, c := range coins {
		if c.Symbol == symbol {
			return c, true
		}
	}
	return Coin{}, false
}

// CoinGeckoID maps a pair symbol to its CoinGecko id
func CoinGeckoID(symbol string) (string, bool) {
	c, ok := Lookup(symbol)
	return c.ID, ok
}

// Normalize turns user input such as "btc-usdt" or "ETHUSDT" into "BTC/USDT" form
func Normalize(input string) string {
	s := strings.ToUpper(strings.TrimSpace(input))
	s = strings.NewReplacer("-", "/", "_", "/", " ", "").Replace(s)
	if !strings.Contains(s, "/") && strings.HasSuffix(s, "USDT") && len(s) > len("USDT") {
		s = strings.TrimSuffix(s, "USDT") + "/USDT"
	}
	return s
}

// Resolve validates user input and returns the canonical symbol
func Resolve(input string) (string, error) {
	symbol := Normalize(input)
	if _, ok := Lookup(symbol); ok {
		return symbol, nil
	}
	if suggestions := Suggest(input); len(suggestions) > 0 {
		return "", fmt.Errorf("%w %q, did you mean %s?", ErrUnsupportedSymbol, input, strings.Join(suggestions, " or "))
	}
	return "", fmt.Errorf("%w %q, supported: %s", ErrUnsupportedSymbol, input, strings.Join(Symbols(), ", "))
}

type coinSource []Coin

func (s coinSource) String(i int) string {
	return strings.ToLower(s[i].Symbol + " " + s[i].Name)
}

func (s coinSource) Len() int { return len(s) }

// Suggest returns supported symbols that fuzzily match input, best first
func Suggest(input string) []string {
	pattern := strings.ToLower(strings.TrimSpace(input))
	if pattern == "" {
		return nil
	}

	matches := fuzzy.FindFrom(pattern, coinSource(coins))
	out := make([]string, 0, len(matches))
	for _, m := range matches {
		out = append(out, coins[m.Index].Symbol)
	}
	return out
}
