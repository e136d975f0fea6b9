package gdp

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/rs/zerolog/log"
)

// YearColumn is the header label that marks the year column of the source.
const YearColumn = "Year"

// Point is one (year, value) observation of a country series.
type Point struct {
	Year  int
	Value float64
}

// Table is the normalized GDP dataset: country -> year -> value.
// A Table is immutable after Load and safe for concurrent readers.
type Table struct {
	countries []string
	years     []int
	yearSet   map[int]struct{}
	values    map[string]map[int]float64
	folded    map[string]string
}

// LoadFile opens path and loads it with Load.
func LoadFile(path string) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open gdp dataset: %w", err)
	}
	defer f.Close()

	t, err := Load(f)
	if err != nil {
		return nil, err
	}
	log.Info().
		Str("path", path).
		Int("countries", len(t.countries)).
		Int("years", len(t.years)).
		Msg("gdp table loaded")
	return t, nil
}

// Load parses a wide CSV whose rows are years and whose columns are
// countries, and transposes it into a Table. Cells that are empty, "n/a",
// ".." or otherwise non-numeric are stored as absent.
func Load(r io.Reader) (*Table, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("%w: dataset is empty", ErrDataFormat)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: read header: %v", ErrDataFormat, err)
	}

	yearIdx := -1
	for i, h := range header {
		if strings.EqualFold(strings.TrimSpace(h), YearColumn) {
			yearIdx = i
			break
		}
	}
	if yearIdx < 0 {
		return nil, fmt.Errorf("%w: no %q column in header", ErrDataFormat, YearColumn)
	}

	t := &Table{
		yearSet: make(map[int]struct{}),
		values:  make(map[string]map[int]float64),
		folded:  make(map[string]string),
	}

	// column index -> country name; the year column maps to "".
	columns := make([]string, len(header))
	for i, h := range header {
		if i == yearIdx {
			continue
		}
		name := strings.TrimSpace(h)
		if name == "" {
			return nil, fmt.Errorf("%w: empty country label in column %d", ErrDataFormat, i+1)
		}
		if _, dup := t.values[name]; dup {
			return nil, fmt.Errorf("%w: duplicate country %q", ErrDataFormat, name)
		}
		columns[i] = name
		t.countries = append(t.countries, name)
		t.values[name] = make(map[int]float64)
	}

	for {
		row, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrDataFormat, err)
		}
		if len(row) > len(header) {
			line, _ := reader.FieldPos(0)
			return nil, fmt.Errorf("%w: line %d has %d fields, header has %d", ErrDataFormat, line, len(row), len(header))
		}
		if yearIdx >= len(row) {
			continue
		}

		year, ok := ParseYear(row[yearIdx])
		if !ok {
			log.Debug().Str("label", row[yearIdx]).Msg("skipping non-year row")
			continue
		}
		if _, dup := t.yearSet[year]; dup {
			return nil, fmt.Errorf("%w: duplicate year %d", ErrDataFormat, year)
		}
		t.yearSet[year] = struct{}{}
		t.years = append(t.years, year)

		for i, cell := range row {
			country := columns[i]
			if country == "" {
				continue
			}
			if v, ok := coerceCell(cell); ok {
				t.values[country][year] = v
			}
		}
	}

	sort.Ints(t.years)

	folds := make(map[string]int, len(t.countries))
	for _, c := range t.countries {
		key := strings.ToLower(c)
		folds[key]++
		t.folded[key] = c
	}
	for key, n := range folds {
		if n > 1 {
			delete(t.folded, key)
		}
	}

	return t, nil
}

// ParseYear normalizes a year label such as " 2020 " or "2020.0".
func ParseYear(raw string) (int, bool) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return 0, false
	}
	if y, err := strconv.Atoi(s); err == nil {
		return y, true
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsInf(f, 0) || math.IsNaN(f) || f != math.Trunc(f) {
		return 0, false
	}
	return int(f), true
}

func coerceCell(raw string) (float64, bool) {
	s := strings.TrimSpace(raw)
	switch strings.ToLower(s) {
	case "", "n/a", "..":
		return 0, false
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}

// Countries returns the country names in source column order.
func (t *Table) Countries() []string {
	return append([]string(nil), t.countries...)
}

// Years returns every year of the source, ascending.
func (t *Table) Years() []int {
	return append([]int(nil), t.years...)
}

// HasYear reports whether year is a row of the source.
func (t *Table) HasYear(year int) bool {
	_, ok := t.yearSet[year]
	return ok
}

// MaxYear returns the latest year of the whole table, regardless of which
// countries have a value for it.
func (t *Table) MaxYear() (int, bool) {
	if len(t.years) == 0 {
		return 0, false
	}
	return t.years[len(t.years)-1], true
}

// Resolve maps a user-supplied country name to its canonical form. An exact
// match on the trimmed name wins; otherwise a unique case-insensitive match
// is accepted.
func (t *Table) Resolve(country string) (string, bool) {
	name := strings.TrimSpace(country)
	if _, ok := t.values[name]; ok {
		return name, true
	}
	canonical, ok := t.folded[strings.ToLower(name)]
	return canonical, ok
}

// Value looks up a single cell. It returns ErrNotFound when the country or
// the year is not part of the table and ErrUnavailable when both exist but
// the cell is absent.
func (t *Table) Value(country string, year int) (float64, error) {
	name, ok := t.Resolve(country)
	if !ok {
		return 0, fmt.Errorf("%w: country=%q", ErrNotFound, strings.TrimSpace(country))
	}
	if !t.HasYear(year) {
		return 0, fmt.Errorf("%w: year=%d", ErrNotFound, year)
	}
	v, ok := t.values[name][year]
	if !ok {
		return 0, fmt.Errorf("%w: country=%q year=%d", ErrUnavailable, name, year)
	}
	return v, nil
}

// Series returns the present observations of country ordered by year.
func (t *Table) Series(country string) ([]Point, error) {
	name, ok := t.Resolve(country)
	if !ok {
		return nil, fmt.Errorf("%w: country=%q", ErrNotFound, strings.TrimSpace(country))
	}
	points := make([]Point, 0, len(t.values[name]))
	for _, y := range t.years {
		if v, ok := t.values[name][y]; ok {
			points = append(points, Point{Year: y, Value: v})
		}
	}
	return points, nil
}
