package dashboard

import (
	"fmt"
	"math"
	"strings"
	"time"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var printer = message.NewPrinter(language.English)

// decimal formats v with thousands separators and between minDigits and
// maxDigits fraction digits, trailing zeros beyond minDigits dropped
func decimal(v float64, minDigits, maxDigits int) string {
	s := printer.Sprintf(fmt.Sprintf("%%.%df", maxDigits), v)
	dot := strings.LastIndexByte(s, '.')
	if dot < 0 || maxDigits <= minDigits {
		return s
	}

	keep := len(s)
	for keep > dot+1+minDigits && s[keep-1] == '0' {
		keep--
	}
	if keep == dot+1 {
		keep = dot
	}
	return s[:keep]
}

// FormatPrice renders a USD amount, with up to 6 decimals below one dollar.
// Negative amounts, such as a 24h price change, are all below one dollar.
func FormatPrice(price float64) string {
	digits := 2
	if price < 1 {
		digits = 6
	}
	s := "$" + decimal(math.Abs(price), 2, digits)
	if price < 0 {
		return "-" + s
	}
	return s
}

// FormatLargeNumber renders market caps and volumes: $1.23T, $4.56B, $7.89M
func FormatLargeNumber(n float64) string {
	switch {
	case n >= 1e12:
		return fmt.Sprintf("$%.2fT", n/1e12)
	case n >= 1e9:
		return fmt.Sprintf("$%.2fB", n/1e9)
	case n >= 1e6:
		return fmt.Sprintf("$%.2fM", n/1e6)
	default:
		return "$" + decimal(n, 0, 3)
	}
}

// FormatSupply renders coin supplies: 1.23B, 4.56M
func FormatSupply(n float64) string {
	switch {
	case n >= 1e9:
		return fmt.Sprintf("%.2fB", n/1e9)
	case n >= 1e6:
		return fmt.Sprintf("%.2fM", n/1e6)
	default:
		return decimal(n, 0, 3)
	}
}

// FormatChange renders a signed percentage: +1.23%, -4.56%
func FormatChange(pct float64) string {
	sign := ""
	if pct >= 0 {
		sign = "+"
	}
	return fmt.Sprintf("%s%.2f%%", sign, pct)
}

// FormatAge renders how long ago t was: 42s ago, 3m ago
func FormatAge(t, now time.Time) string {
	seconds := int(now.Sub(t) / time.Second)
	if seconds < 0 {
		seconds = 0
	}
	if seconds < 60 {
		return fmt.Sprintf("%ds ago", seconds)
	}
	return fmt.Sprintf("%dm ago", seconds/60)
}

// FormatHorizon renders a forecast length: 30 minutes, 1 hour, 4 hours, 90 minutes
func FormatHorizon(minutes int) string {
	switch {
	case minutes < 60:
		return fmt.Sprintf("%d minutes", minutes)
	case minutes == 60:
		return "1 hour"
	case minutes%60 == 0:
		return fmt.Sprintf("%d hours", minutes/60)
	default:
		return fmt.Sprintf("%d minutes", minutes)
	}
}

// FormatTimestamp renders an RFC 3339 timestamp as "May 1, 12:00 PM" in its own offset.
// Unparseable input is returned unchanged.
func FormatTimestamp(ts string) string {
	t, err := time.Parse(time.RFC3339, ts)
	if err != nil {
		return ts
	}
	return t.Format("Jan 2, 03:04 PM")
}

// FormatTimeAgo renders a headline age in hours or days
func FormatTimeAgo(ts string, now time.Time) string {
	t, err := time.Parse(time.RFC3339, ts)
	if err != nil {
		return ""
	}

	hours := int(now.Sub(t).Hours())
	switch {
	case hours < 1:
		return "Just now"
	case hours == 1:
		return "1 hour ago"
	case hours < 24:
		return fmt.Sprintf("%d hours ago", hours)
	default:
		return fmt.Sprintf("%d days ago", hours/24)
	}
}

// SentimentColor maps a market mood score (0 to 4) to its gauge colour
func SentimentColor(score float64) string {
	switch {
	case score <= 1.0:
		return "#F44336"
	case score <= 2.0:
		return "#FB8C00"
	case score <= 2.5:
		return "#FDD835"
	case score <= 3.5:
		return "#66BB6A"
	default:
		return "#4CAF50"
	}
}

// GaugeRotation maps a mood score to a needle angle between -90 and 90 degrees
func GaugeRotation(score float64) float64 {
	return score/4*180 - 90
}
