// Package extraction turns resume and job description text into structured
// records with the help of an LLM.
package extraction

import (
	"errors"
	"strings"
)

// ErrEmptyText is returned when there is no text to extract from.
var ErrEmptyText = errors.New("no text to extract from")

const (
	parseTemperature = 0.1
	parseMaxTokens   = 1500
	// Longer inputs are cut before prompting.
	maxInputRunes = 12000
	maxLogLength  = 200
)

func truncateRunes(s string, limit int) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit])
}

func render(template, placeholder, value string) string {
	return strings.ReplaceAll(template, placeholder, value)
}
