package dashboard

import (
	"math"
	"strings"
)

var sparkBlocks = []rune("▁▂▃▄▅▆▇█")

// Sparkline draws values as one row of block characters, averaged down to width
func Sparkline(values []float64, width int) string {
	if len(values) == 0 || width <= 0 {
		return ""
	}
	values = downsample(values, width)

	lo, hi := bounds(values)
	var b strings.Builder
	for _, v := range values {
		level := len(sparkBlocks) / 2
		if hi > lo {
			level = int(math.Round((v - lo) / (hi - lo) * float64(len(sparkBlocks)-1)))
		}
		b.WriteRune(sparkBlocks[level])
	}
	return b.String()
}

// downsample averages values into at most width buckets
func downsample(values []float64, width int) []float64 {
	if len(values) <= width {
		return values
	}
	out := make([]float64, width)
	for i := range out {
		start := i * len(values) / width
		end := (i + 1) * len(values) / width
		sum := 0.0
		for _, v := range values[start:end] {
			sum += v
		}
		out[i] = sum / float64(end-start)
	}
	return out
}

func bounds(values []float64) (lo, hi float64) {
	lo, hi = math.Inf(1), math.Inf(-1)
	for _, v := range values {
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
	}
	return lo, hi
}

const (
	historicalMark = '•'
	forecastMark   = '◦'
	boundaryMark   = '┊'
)

// LineChart plots the merged forecast series on a width x height grid of runes.
// Historical points use one mark and forecast points another, and the column
// of the boundary time is drawn as a dashed vertical line.
func LineChart(points []ChartPoint, boundary int64, width, height int) []string {
	if len(points) == 0 || width <= 1 || height <= 1 {
		return nil
	}

	prices := make([]float64, 0, len(points))
	for _, p := range points {
		prices = append(prices, pointPrice(p))
	}
	lo, hi := bounds(prices)

	first, last := timeBounds(points)
	column := func(t int64) int {
		if last == first {
			return 0
		}
		x := int(math.Round(float64(t-first) / float64(last-first) * float64(width-1)))
		return max(0, min(width-1, x))
	}
	row := func(price float64) int {
		if hi == lo {
			return height / 2
		}
		y := int(math.Round((hi - price) / (hi - lo) * float64(height-1)))
		return max(0, min(height-1, y))
	}

	grid := make([][]rune, height)
	for y := range grid {
		grid[y] = []rune(strings.Repeat(" ", width))
	}
	if boundary >= first && boundary <= last {
		x := column(boundary)
		for y := range grid {
			grid[y][x] = boundaryMark
		}
	}
	for i, p := range points {
		mark := historicalMark
		if p.Forecast != nil {
			mark = forecastMark
		}
		grid[row(prices[i])][column(p.Time)] = mark
	}

	lines := make([]string, height)
	for y, r := range grid {
		lines[y] = string(r)
	}
	return lines
}

// timeBounds returns the earliest and latest point times, in any input order
func timeBounds(points []ChartPoint) (first, last int64) {
	first, last = points[0].Time, points[0].Time
	for _, p := range points[1:] {
		first = min(first, p.Time)
		last = max(last, p.Time)
	}
	return first, last
}

func pointPrice(p ChartPoint) float64 {
	if p.Historical != nil {
		return *p.Historical
	}
	if p.Forecast != nil {
		return *p.Forecast
	}
	return 0
}
