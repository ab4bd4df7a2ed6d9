package tui

import (
	"fmt"
	"math"
	"strings"

	"github.com/dustin/go-humanize"
)

// formatCalories renders a calorie figure as a grouped whole number
func formatCalories(v float64) string {
	if math.IsNaN(v) {
		return "-"
	}
	return humanize.Comma(int64(math.Round(v)))
}

// formatNumber renders v with the given decimals and thousands separators
func formatNumber(v float64, decimals int) string {
	if math.IsNaN(v) {
		return "-"
	}
	return humanize.FormatFloat("#,###."+strings.Repeat("#", decimals), v)
}

// formatOptional renders a nullable score
func formatOptional(v *float64, decimals int) string {
	if v == nil {
		return "-"
	}
	return fmt.Sprintf("%.*f", decimals, *v)
}

// truncateName truncates a string to maxLen, adding "..." if truncated
func truncateName(s string, maxLen int) string {
	r := []rune(s)
	if len(r) <= maxLen {
		return s
	}
	return string(r[:maxLen-3]) + "..."
}
