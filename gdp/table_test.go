package gdp

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestLoadTransposesAndTrims(t *testing.T) {
	t.Parallel()

	table := mustLoad(t, sampleCSV)

	want := []string{"Germany", "France", "Italy", "Atlantis", "Tinyland", "Shrinkland", "Solo"}
	if diff := cmp.Diff(want, table.Countries()); diff != "" {
		t.Fatalf("unexpected countries (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]int{2018, 2019, 2020}, table.Years()); diff != "" {
		t.Fatalf("unexpected years (-want +got):\n%s", diff)
	}

	v, err := table.Value("Germany", 2019)
	if err != nil {
		t.Fatalf("Value() error = %v", err)
	}
	if v != 4e12 {
		t.Fatalf("unexpected value: %v", v)
	}
}

func TestValueDistinguishesAbsentFromUnknown(t *testing.T) {
	t.Parallel()

	table := mustLoad(t, sampleCSV)

	for _, year := range []int{2018, 2019, 2020} {
		if _, err := table.Value("Atlantis", year); !errors.Is(err, ErrUnavailable) {
			t.Fatalf("year %d: expected ErrUnavailable, got %v", year, err)
		}
	}
	if _, err := table.Value("France", 2019); !errors.Is(err, ErrUnavailable) {
		t.Fatalf("expected ErrUnavailable for n/a cell, got %v", err)
	}
	if _, err := table.Value("Solo", 2019); !errors.Is(err, ErrUnavailable) {
		t.Fatalf("expected ErrUnavailable for short row, got %v", err)
	}
	if _, err := table.Value("Unknownland", 2020); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound for unknown country, got %v", err)
	}
	if _, err := table.Value("Germany", 1800); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound for unknown year, got %v", err)
	}
}

func TestResolveNormalizesCaseAndWhitespace(t *testing.T) {
	t.Parallel()

	table := mustLoad(t, sampleCSV)

	name, ok := table.Resolve("  germany ")
	if !ok || name != "Germany" {
		t.Fatalf("unexpected resolve result: %q %v", name, ok)
	}

	ambiguous := mustLoad(t, "Year,Chad,CHAD\n2020,1,2\n")
	if _, ok := ambiguous.Resolve("chad"); ok {
		t.Fatal("expected ambiguous case-insensitive match to fail")
	}
	if name, ok := ambiguous.Resolve("CHAD"); !ok || name != "CHAD" {
		t.Fatalf("expected exact match to win, got %q %v", name, ok)
	}
}

func TestLoadCoercesCells(t *testing.T) {
	t.Parallel()

	table := mustLoad(t, "Year,A,B,C,D\n 2020.0 ,1.5e3,abc,NaN,\" 7 \"\nTotal,1,2,3,4\n")

	if !table.HasYear(2020) {
		t.Fatalf("expected 2020.0 to normalize to 2020, years=%v", table.Years())
	}
	if len(table.Years()) != 1 {
		t.Fatalf("expected non-year row to be skipped, years=%v", table.Years())
	}
	if v, err := table.Value("A", 2020); err != nil || v != 1500 {
		t.Fatalf("unexpected A value: %v %v", v, err)
	}
	if v, err := table.Value("D", 2020); err != nil || v != 7 {
		t.Fatalf("unexpected D value: %v %v", v, err)
	}
	for _, c := range []string{"B", "C"} {
		if _, err := table.Value(c, 2020); !errors.Is(err, ErrUnavailable) {
			t.Fatalf("expected %s to be absent, got %v", c, err)
		}
	}
}

func TestLoadRejectsMalformedSources(t *testing.T) {
	t.Parallel()

	cases := map[string]string{
		"empty":           "",
		"no year column":  "Country,Germany\n2020,1\n",
		"duplicate label": "Year,Germany, Germany\n2020,1,2\n",
		"empty label":     "Year,Germany,\n2020,1,2\n",
		"duplicate year":  "Year,Germany\n2020,1\n2020,2\n",
		"too many fields": "Year,Germany\n2020,1,2\n",
		"bad quoting":     "Year,Germany\n2020,\"1\n",
	}
	for name, data := range cases {
		if _, err := Load(strings.NewReader(data)); !errors.Is(err, ErrDataFormat) {
			t.Fatalf("%s: expected ErrDataFormat, got %v", name, err)
		}
	}
}

func TestLoadIsIdempotent(t *testing.T) {
	t.Parallel()

	a := mustLoad(t, sampleCSV)
	b := mustLoad(t, sampleCSV)

	for _, c := range a.Countries() {
		for _, y := range a.Years() {
			va, errA := a.Value(c, y)
			vb, errB := b.Value(c, y)
			if va != vb || (errA == nil) != (errB == nil) {
				t.Fatalf("mismatch for %s/%d: %v,%v vs %v,%v", c, y, va, errA, vb, errB)
			}
		}
	}
}

func TestLoadFile(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "gdp_data.csv")
	if err := os.WriteFile(path, []byte(sampleCSV), 0o600); err != nil {
		t.Fatal(err)
	}

	table, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile() error = %v", err)
	}
	if y, ok := table.MaxYear(); !ok || y != 2020 {
		t.Fatalf("unexpected max year: %d %v", y, ok)
	}

	if _, err := LoadFile(filepath.Join(t.TempDir(), "missing.csv")); err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestSeriesSkipsAbsentCells(t *testing.T) {
	t.Parallel()

	table := mustLoad(t, sampleCSV)

	series, err := table.Series("France")
	if err != nil {
		t.Fatalf("Series() error = %v", err)
	}
	want := []Point{{Year: 2018, Value: 2.8e12}, {Year: 2020, Value: 2.7e12}}
	if diff := cmp.Diff(want, series); diff != "" {
		t.Fatalf("unexpected series (-want +got):\n%s", diff)
	}
}
