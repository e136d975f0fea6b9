package gdp

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// Tier is a qualitative GDP magnitude band.
type Tier int

const (
	TierVeryLow Tier = iota
	TierLow
	TierModerate
	TierVeryHigh
)

var tierFloors = []struct {
	tier  Tier
	floor float64
}{
	{TierVeryHigh, 2e12},
	{TierModerate, 5e11},
	{TierLow, 1e11},
}

// Classify returns the first tier whose floor v strictly exceeds.
func Classify(v float64) Tier {
	for _, tf := range tierFloors {
		if v > tf.floor {
			return tf.tier
		}
	}
	return TierVeryLow
}

func (t Tier) String() string {
	switch t {
	case TierVeryHigh:
		return "very high"
	case TierModerate:
		return "moderate"
	case TierLow:
		return "low"
	default:
		return "very low"
	}
}

func (t Tier) describe() string {
	switch t {
	case TierVeryHigh:
		return "very high, indicating a strong and developed economy"
	case TierModerate:
		return "moderate, suggesting a stable economy with potential"
	case TierLow:
		return "low, indicating a developing economy or economic challenges"
	default:
		return "very low, suggesting a small or struggling economy"
	}
}

var (
	opinionCountryPattern = regexp.MustCompile(`[A-Za-z\s]+`)
	opinionYearPattern    = regexp.MustCompile(`\d{4}`)
)

// OpinionService comments on the magnitude of a country's GDP.
type OpinionService struct {
	table *Table
}

func NewOpinionService(table *Table) *OpinionService {
	return &OpinionService{table: table}
}

// Opinion reads a country and an optional year out of free text. Without a
// year it uses the latest year of the whole table, which may be later than
// the country's own last observation.
func (s *OpinionService) Opinion(text string) string {
	country := strings.TrimSpace(opinionCountryPattern.FindString(text))
	if country == "" {
		return "Sorry, I couldn't understand the country name."
	}

	var year int
	if m := opinionYearPattern.FindString(text); m != "" {
		year, _ = strconv.Atoi(m)
	} else if y, ok := s.table.MaxYear(); ok {
		year = y
	} else {
		return fmt.Sprintf("No GDP data available for %s.", country)
	}

	v, err := s.table.Value(country, year)
	if err != nil {
		if errors.Is(err, ErrNotFound) || errors.Is(err, ErrUnavailable) {
			return fmt.Sprintf("No GDP data available for %s in %d.", country, year)
		}
		return fmt.Sprintf("Error retrieving GDP data: %v", err)
	}
	name, _ := s.table.Resolve(country)
	return fmt.Sprintf("In %d, the GDP of %s is %s.", year, name, Classify(v).describe())
}
