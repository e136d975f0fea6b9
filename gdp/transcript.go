package gdp

import (
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"
)

const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Turn is one utterance of a conversation transcript.
type Turn struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// IsAssistant reports whether the turn was spoken by the agent.
func (t Turn) IsAssistant() bool {
	return strings.EqualFold(strings.TrimSpace(t.Role), RoleAssistant)
}

const (
	countryExpr = `(\p{L}[\p{L} '’()-]*?)`
	amountExpr  = `\$(-?[0-9,]+\.\d{2})`
)

var (
	statedLookupPattern   = regexp.MustCompile(`The GDP of ` + countryExpr + ` in (\d{4}) was ` + amountExpr)
	forecastHeaderPattern = regexp.MustCompile(`GDP Forecast for ` + countryExpr + ` \(next`)
	forecastLinePattern   = regexp.MustCompile(`(\d{4}): ` + amountExpr)
)

// ExtractedTable holds the GDP facts an assistant stated in a conversation.
type ExtractedTable struct {
	values map[string]map[int]float64
}

func newExtractedTable() *ExtractedTable {
	return &ExtractedTable{values: make(map[string]map[int]float64)}
}

func (t *ExtractedTable) set(country string, year int, v float64) {
	country = strings.TrimSpace(country)
	if country == "" {
		return
	}
	series, ok := t.values[country]
	if !ok {
		series = make(map[int]float64)
		t.values[country] = series
	}
	series[year] = v
}

// Countries returns the mined country names, sorted.
func (t *ExtractedTable) Countries() []string {
	out := make([]string, 0, len(t.values))
	for c := range t.values {
		out = append(out, c)
	}
	sort.Strings(out)
	return out
}

func (t *ExtractedTable) resolve(country string) (string, bool) {
	name := strings.TrimSpace(country)
	if _, ok := t.values[name]; ok {
		return name, true
	}
	var match string
	for c := range t.values {
		if strings.EqualFold(c, name) {
			if match != "" {
				return "", false
			}
			match = c
		}
	}
	return match, match != ""
}

// Series returns the mined points of country ordered by year.
func (t *ExtractedTable) Series(country string) ([]Point, bool) {
	name, ok := t.resolve(country)
	if !ok {
		return nil, false
	}
	points := make([]Point, 0, len(t.values[name]))
	for y, v := range t.values[name] {
		points = append(points, Point{Year: y, Value: v})
	}
	sort.Slice(points, func(i, j int) bool { return points[i].Year < points[j].Year })
	return points, true
}

// Extract mines assistant turns for stated lookups ("The GDP of X in Y was
// $Z") and forecast blocks ("GDP Forecast for X (next ..." followed by
// "Y: $Z" lines). User turns are ignored. Later statements overwrite
// earlier ones. turns is only read.
func Extract(turns []Turn) *ExtractedTable {
	table := newExtractedTable()
	for _, turn := range turns {
		if !turn.IsAssistant() {
			continue
		}
		extractLookups(table, turn.Content)
		extractForecasts(table, turn.Content)
	}
	return table
}

func extractLookups(table *ExtractedTable, content string) {
	for _, m := range statedLookupPattern.FindAllStringSubmatch(content, -1) {
		year, err := strconv.Atoi(m[2])
		if err != nil {
			continue
		}
		v, ok := parseAmount(m[3])
		if !ok {
			continue
		}
		table.set(m[1], year, v)
	}
}

func extractForecasts(table *ExtractedTable, content string) {
	headers := forecastHeaderPattern.FindAllStringSubmatchIndex(content, -1)
	if len(headers) == 0 {
		return
	}
	for _, line := range forecastLinePattern.FindAllStringSubmatchIndex(content, -1) {
		country := ""
		for _, h := range headers {
			if h[1] > line[0] {
				break
			}
			country = content[h[2]:h[3]]
		}
		if country == "" {
			continue
		}
		year, err := strconv.Atoi(content[line[2]:line[3]])
		if err != nil {
			continue
		}
		v, ok := parseAmount(content[line[4]:line[5]])
		if !ok {
			continue
		}
		table.set(country, year, v)
	}
}

// PlotFromExtracted builds a chart of the facts mined for country within the
// inclusive [start, end] range; nil bounds are open. A single remembered
// point is enough.
func PlotFromExtracted(table *ExtractedTable, country string, start, end *int) (ChartRequest, error) {
	country = strings.TrimSpace(country)
	series, ok := table.Series(country)
	if !ok {
		return ChartRequest{}, fmt.Errorf("%w: country=%q", ErrNoPreviousData, country)
	}
	name, _ := table.resolve(country)

	points := make([]Point, 0, len(series))
	for _, p := range series {
		if inRange(p.Year, start, end) {
			points = append(points, p)
		}
	}
	if len(points) == 0 {
		return ChartRequest{}, fmt.Errorf("%w: %w: country=%q has no points in range", ErrNoPreviousData, ErrInsufficientData, name)
	}
	return newChartRequest(name, ChartKindConversation, points), nil
}
