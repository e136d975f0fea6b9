package gdp

import (
	"strconv"
	"strings"

	"github.com/dustin/go-humanize"
)

// FormatAmount renders v as currency text with two decimals and comma
// thousands separators, e.g. 1234.5 -> "$1,234.50" and -42 -> "$-42.00".
func FormatAmount(v float64) string {
	return "$" + humanize.FormatFloat("#,###.##", v)
}

// parseAmount reverses FormatAmount for text mined from a transcript.
func parseAmount(raw string) (float64, bool) {
	cleaned := strings.ReplaceAll(strings.TrimPrefix(strings.TrimSpace(raw), "$"), ",", "")
	v, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}
