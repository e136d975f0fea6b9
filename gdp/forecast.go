package gdp

import (
	"errors"
	"fmt"
	"strings"

	"gonum.org/v1/gonum/stat"
)

// DefaultMaxHorizon caps forecast horizons when no limit is configured.
const DefaultMaxHorizon = 100

// ForecastResult is a linear-trend projection of a country's GDP.
type ForecastResult struct {
	Country string
	Horizon int
	// Requested is the horizon asked for when it exceeded the service limit.
	Requested int
	Points    []Point
}

// ForecastService extrapolates a least-squares trend over a Table.
type ForecastService struct {
	table      *Table
	maxHorizon int
}

type ForecastOption func(*ForecastService)

// WithMaxHorizon clamps requested horizons to n. Non-positive n is ignored.
func WithMaxHorizon(n int) ForecastOption {
	return func(s *ForecastService) {
		if n > 0 {
			s.maxHorizon = n
		}
	}
}

func NewForecastService(table *Table, opts ...ForecastOption) *ForecastService {
	s := &ForecastService{table: table, maxHorizon: DefaultMaxHorizon}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s
}

// Predict fits value = a*year + b over every present observation of country
// and projects horizon consecutive years after its last observed year.
// Predictions are not clamped; a falling trend may go negative.
func (s *ForecastService) Predict(country string, horizon int) (ForecastResult, error) {
	if horizon <= 0 {
		horizon = DefaultHorizon
	}
	requested := 0
	if horizon > s.maxHorizon {
		requested, horizon = horizon, s.maxHorizon
	}

	series, err := s.table.Series(country)
	if err != nil {
		return ForecastResult{}, err
	}
	name, _ := s.table.Resolve(country)
	if len(series) < 2 {
		return ForecastResult{}, fmt.Errorf("%w: country=%q has %d points", ErrInsufficientData, name, len(series))
	}

	xs := make([]float64, len(series))
	ys := make([]float64, len(series))
	for i, p := range series {
		xs[i] = float64(p.Year)
		ys[i] = p.Value
	}
	intercept, slope := stat.LinearRegression(xs, ys, nil, false)

	last := series[len(series)-1].Year
	points := make([]Point, horizon)
	for i := range points {
		year := last + i + 1
		points[i] = Point{Year: year, Value: intercept + slope*float64(year)}
	}

	return ForecastResult{Country: name, Horizon: horizon, Requested: requested, Points: points}, nil
}

// ForecastQuery parses a raw "Country[, Horizon]" argument and answers it.
func (s *ForecastService) ForecastQuery(raw string) string {
	country, horizon := ParseForecastQuery(raw)
	return s.Forecast(country, horizon)
}

// Forecast renders Predict as text. It never fails; errors become messages.
func (s *ForecastService) Forecast(country string, horizon int) string {
	country = strings.TrimSpace(country)
	res, err := s.Predict(country, horizon)
	switch {
	case err == nil:
		return res.String()
	case errors.Is(err, ErrNotFound):
		return fmt.Sprintf("Country '%s' not found in the dataset.", country)
	case errors.Is(err, ErrInsufficientData):
		return fmt.Sprintf("Not enough data points to forecast GDP for %s.", country)
	default:
		return fmt.Sprintf("Forecasting failed: %v", err)
	}
}

func (r ForecastResult) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "GDP Forecast for %s (next %d years):", r.Country, r.Horizon)
	for _, p := range r.Points {
		fmt.Fprintf(&b, "\n%d: %s", p.Year, FormatAmount(p.Value))
	}
	if r.Requested > r.Horizon {
		fmt.Fprintf(&b, "\nHorizon limited to %d years (requested %d).", r.Horizon, r.Requested)
	}
	return b.String()
}
