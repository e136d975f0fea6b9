package gdp

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// QueryService answers point lookups and comparisons over a Table.
type QueryService struct {
	table *Table
}

func NewQueryService(table *Table) *QueryService {
	return &QueryService{table: table}
}

// GetGDPQuery parses a raw "Country, Year" argument and answers it.
func (s *QueryService) GetGDPQuery(raw string) string {
	country, year, err := ParseLookupQuery(raw)
	if err != nil {
		return "Invalid query format. Please provide a country and year like 'Germany, 2010'."
	}
	return s.GetGDP(country, year)
}

// GetGDP reports the GDP of country in year.
func (s *QueryService) GetGDP(country string, year int) string {
	country = strings.TrimSpace(country)
	v, err := s.table.Value(country, year)
	switch {
	case err == nil:
		name, _ := s.table.Resolve(country)
		return fmt.Sprintf("The GDP of %s in %d was %s.", name, year, FormatAmount(v))
	case errors.Is(err, ErrUnavailable):
		name, _ := s.table.Resolve(country)
		return fmt.Sprintf("GDP data for %s in %d is not available.", name, year)
	case errors.Is(err, ErrNotFound):
		return fmt.Sprintf("Sorry, I couldn't find GDP data for %s in %d.", country, year)
	default:
		return fmt.Sprintf("Error retrieving GDP data: %v", err)
	}
}

// CompareGDPQuery parses a raw "Country, ..., Year" argument and answers it.
func (s *QueryService) CompareGDPQuery(raw string) string {
	countries, year, err := ParseCompareQuery(raw)
	if err != nil {
		return "Invalid query format. Please provide countries and year like 'Germany, France, UK, 2010'."
	}
	return s.CompareGDP(countries, year)
}

type comparedValue struct {
	country string
	value   float64
}

// CompareGDP lists the resolvable countries by GDP descending. Countries that
// are unknown or have no value for year are listed in a trailing note.
func (s *QueryService) CompareGDP(countries []string, year int) string {
	var (
		found   []comparedValue
		missing []string
		seen    = make(map[string]struct{}, len(countries))
	)
	for _, c := range countries {
		c = strings.TrimSpace(c)
		v, err := s.table.Value(c, year)
		if err != nil {
			missing = append(missing, c)
			continue
		}
		name, _ := s.table.Resolve(c)
		if _, dup := seen[name]; dup {
			continue
		}
		seen[name] = struct{}{}
		found = append(found, comparedValue{country: name, value: v})
	}

	if len(found) == 0 {
		return fmt.Sprintf("Could not find GDP data for any of the specified countries in %d.", year)
	}

	sort.SliceStable(found, func(i, j int) bool { return found[i].value > found[j].value })

	lines := make([]string, 0, len(found))
	for _, f := range found {
		lines = append(lines, fmt.Sprintf("%s: %s", f.country, FormatAmount(f.value)))
	}
	result := strings.Join(lines, "\n")
	if len(missing) > 0 {
		result += "\n\nNote: GDP data not available for: " + strings.Join(missing, ", ")
	}
	return result
}
