package gdp

import (
	"fmt"
	"strconv"
	"strings"
)

// DefaultHorizon is the number of forecast years used when the caller does
// not supply a usable horizon.
const DefaultHorizon = 5

func splitArgs(raw string) []string {
	parts := strings.Split(raw, ",")
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	return parts
}

// ParseLookupQuery parses "Country, Year".
func ParseLookupQuery(raw string) (string, int, error) {
	parts := splitArgs(raw)
	if len(parts) != 2 || parts[0] == "" {
		return "", 0, fmt.Errorf("%w: expected 'country, year', got %q", ErrQueryFormat, raw)
	}
	year, err := strconv.Atoi(parts[1])
	if err != nil {
		return "", 0, fmt.Errorf("%w: year %q is not an integer", ErrQueryFormat, parts[1])
	}
	return parts[0], year, nil
}

// ParseCompareQuery parses "Country, Country, ..., Year".
func ParseCompareQuery(raw string) ([]string, int, error) {
	parts := splitArgs(raw)
	if len(parts) < 2 {
		return nil, 0, fmt.Errorf("%w: expected 'country, ..., year', got %q", ErrQueryFormat, raw)
	}
	last := len(parts) - 1
	year, err := strconv.Atoi(parts[last])
	if err != nil {
		return nil, 0, fmt.Errorf("%w: year %q is not an integer", ErrQueryFormat, parts[last])
	}
	countries := make([]string, 0, last)
	for _, c := range parts[:last] {
		if c != "" {
			countries = append(countries, c)
		}
	}
	if len(countries) == 0 {
		return nil, 0, fmt.Errorf("%w: no country given", ErrQueryFormat)
	}
	return countries, year, nil
}

// ParseForecastQuery parses "Country[, Horizon]". A missing, non-numeric or
// non-positive horizon falls back to DefaultHorizon.
func ParseForecastQuery(raw string) (string, int) {
	parts := splitArgs(raw)
	horizon := DefaultHorizon
	if len(parts) > 1 {
		if n, err := strconv.Atoi(parts[1]); err == nil && n > 0 {
			horizon = n
		}
	}
	return parts[0], horizon
}

// ParseRangeQuery parses "Country[, StartYear[, EndYear]]". Bounds that are
// empty or not integers are left open.
func ParseRangeQuery(raw string) (string, *int, *int) {
	parts := splitArgs(raw)
	bound := func(i int) *int {
		if i >= len(parts) {
			return nil
		}
		y, err := strconv.Atoi(parts[i])
		if err != nil {
			return nil
		}
		return &y
	}
	return parts[0], bound(1), bound(2)
}
