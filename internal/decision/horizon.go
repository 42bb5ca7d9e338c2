package decision

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

const (
	MinMinutes     = 30
	MaxMinutes     = 2880
	DefaultMinutes = 240
)

// ErrHorizonOutOfRange is returned for custom horizons outside [MinMinutes, MaxMinutes]
var ErrHorizonOutOfRange = fmt.Errorf("horizon must be between %d and %d minutes", MinMinutes, MaxMinutes)

// ErrNoHorizon is returned when no horizon was given at all
var ErrNoHorizon = errors.New("no horizon given")

// HorizonMessage returns the text shown to the user for a horizon error,
// or "" when err is not one
func HorizonMessage(err error) string {
	switch {
	case errors.Is(err, ErrHorizonOutOfRange):
		return fmt.Sprintf("Please enter between %d and %d minutes", MinMinutes, MaxMinutes)
	case errors.Is(err, ErrNoHorizon):
		return "Please select a time horizon"
	default:
		return ""
	}
}

// Horizon is a selectable forecast length
type Horizon struct {
	Minutes int    `json:"minutes"`
	Label   string `json:"label"`
}

var presets = []Horizon{
	{Minutes: 60, Label: "1 Hour"},
	{Minutes: 120, Label: "2 Hours"},
	{Minutes: 240, Label: "4 Hours"},
	{Minutes: 360, Label: "6 Hours"},
	{Minutes: 720, Label: "12 Hours"},
	{Minutes: 1440, Label: "24 Hours"},
}

// Presets returns the preset horizons, shortest first
func Presets() []Horizon {
	return append([]Horizon(nil), presets...)
}

// IsPreset reports whether minutes is one of the presets
func IsPreset(minutes int) bool {
	for _, h := range presets {
		if h.Minutes == minutes {
			return true
		}
	}
	return false
}

// ValidMinutes reports whether minutes is within the custom bounds.
// Every preset is.
func ValidMinutes(minutes int) bool {
	return minutes >= MinMinutes && minutes <= MaxMinutes
}

// Label returns the preset label for minutes, or a formatted duration
func Label(minutes int) string {
	for _, h := range presets {
		if h.Minutes == minutes {
			return h.Label
		}
	}
	return fmt.Sprintf("%d Minutes", minutes)
}

// ParseHorizon accepts a number of minutes ("90"), a Go duration ("4h", "90m")
// or a preset label ("4 Hours").
func ParseHorizon(input string) (int, error) {
	s := strings.TrimSpace(input)
	if s == "" {
		return 0, ErrNoHorizon
	}

	for _, h := range presets {
		if strings.EqualFold(s, h.Label) {
			return h.Minutes, nil
		}
	}

	minutes, err := strconv.Atoi(s)
	if err != nil {
		d, durErr := time.ParseDuration(s)
		if durErr != nil || d%time.Minute != 0 {
			return 0, fmt.Errorf("invalid horizon %q: %w", input, ErrHorizonOutOfRange)
		}
		minutes = int(d / time.Minute)
	}

	if !ValidMinutes(minutes) {
		return 0, ErrHorizonOutOfRange
	}
	return minutes, nil
}
