package gdp

import (
	"errors"
	"fmt"
	"strings"
)

// ChartKind distinguishes charts drawn from the live table and charts drawn
// from facts recovered out of a conversation.
type ChartKind string

const (
	ChartKindTable        ChartKind = "gdp_plot"
	ChartKindConversation ChartKind = "conversation_gdp"
)

// ChartRequest is everything a renderer needs: NaN-free points ordered by
// year, a title and axis labels.
type ChartRequest struct {
	Country string
	Kind    ChartKind
	Title   string
	XLabel  string
	YLabel  string
	Points  []Point
}

// FirstYear and LastYear assume Points is non-empty and ordered.
func (r ChartRequest) FirstYear() int { return r.Points[0].Year }
func (r ChartRequest) LastYear() int  { return r.Points[len(r.Points)-1].Year }

// FileName is the deterministic artifact name for the request.
func (r ChartRequest) FileName() string {
	return fmt.Sprintf("%s_%s_%d-%d.png", r.Country, r.Kind, r.FirstYear(), r.LastYear())
}

// ChartRenderer draws a ChartRequest and returns the artifact path.
type ChartRenderer interface {
	Render(req ChartRequest) (string, error)
}

func newChartRequest(country string, kind ChartKind, points []Point) ChartRequest {
	span := fmt.Sprintf("(%d-%d)", points[0].Year, points[len(points)-1].Year)
	title := fmt.Sprintf("GDP of %s %s", country, span)
	if kind == ChartKindConversation {
		title = fmt.Sprintf("GDP of %s based on conversation %s", country, span)
	}
	return ChartRequest{
		Country: country,
		Kind:    kind,
		Title:   title,
		XLabel:  "Year",
		YLabel:  "GDP (USD)",
		Points:  points,
	}
}

func inRange(year int, start, end *int) bool {
	if start != nil && year < *start {
		return false
	}
	if end != nil && year > *end {
		return false
	}
	return true
}

// PlotService turns table series and recovered conversation facts into
// chart artifacts.
type PlotService struct {
	table    *Table
	renderer ChartRenderer
}

func NewPlotService(table *Table, renderer ChartRenderer) *PlotService {
	return &PlotService{table: table, renderer: renderer}
}

// PlotRequest builds a chart of country's present values within the
// inclusive [start, end] range. At least two points are required.
func (s *PlotService) PlotRequest(country string, start, end *int) (ChartRequest, error) {
	series, err := s.table.Series(country)
	if err != nil {
		return ChartRequest{}, err
	}
	name, _ := s.table.Resolve(country)

	points := make([]Point, 0, len(series))
	for _, p := range series {
		if inRange(p.Year, start, end) {
			points = append(points, p)
		}
	}
	if len(points) < 2 {
		return ChartRequest{}, fmt.Errorf("%w: country=%q has %d points in range", ErrInsufficientData, name, len(points))
	}
	return newChartRequest(name, ChartKindTable, points), nil
}

// PlotQuery parses "Country[, Start[, End]]" and plots from the table.
func (s *PlotService) PlotQuery(raw string) string {
	country, start, end := ParseRangeQuery(raw)
	return s.Plot(country, start, end)
}

func (s *PlotService) Plot(country string, start, end *int) string {
	country = strings.TrimSpace(country)
	req, err := s.PlotRequest(country, start, end)
	switch {
	case errors.Is(err, ErrNotFound):
		return fmt.Sprintf("Country '%s' not found in the dataset.", country)
	case errors.Is(err, ErrInsufficientData):
		return fmt.Sprintf("Not enough data points to plot GDP for %s.", country)
	case err != nil:
		return fmt.Sprintf("Could not generate plot: %v", err)
	}

	path, err := s.renderer.Render(req)
	if err != nil {
		return fmt.Sprintf("Could not generate plot: %v", err)
	}
	return fmt.Sprintf("Plot saved to %s", path)
}

// PlotPreviousQuery parses "Country[, Start[, End]]" and plots the facts
// previously stated in turns.
func (s *PlotService) PlotPreviousQuery(turns []Turn, raw string) string {
	country, start, end := ParseRangeQuery(raw)
	return s.PlotPrevious(turns, country, start, end)
}

func (s *PlotService) PlotPrevious(turns []Turn, country string, start, end *int) string {
	country = strings.TrimSpace(country)
	req, err := PlotFromExtracted(Extract(turns), country, start, end)
	if err != nil {
		if errors.Is(err, ErrInsufficientData) {
			return fmt.Sprintf("No previously mentioned GDP data for %s in the specified time period.", country)
		}
		return fmt.Sprintf("No previously mentioned GDP data found for %s.", country)
	}

	path, err := s.renderer.Render(req)
	if err != nil {
		return fmt.Sprintf("Could not generate plot from conversation history: %v", err)
	}
	return fmt.Sprintf("Plot of previously mentioned GDP data saved to %s", path)
}
