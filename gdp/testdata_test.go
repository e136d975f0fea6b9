package gdp

import (
	"strings"
	"testing"
)

const sampleCSV = `Year, Germany ,"France",Italy,Atlantis,Tinyland,Shrinkland,Solo
2018,3900000000000,2800000000000,2100000000000,,10,30,5
2019,4000000000000,n/a,2000000000000,..,20,20,
2020,4100000000000,2700000000000,1900000000000,n/a,30,10,n/a
`

func mustLoad(t *testing.T, data string) *Table {
	t.Helper()
	table, err := Load(strings.NewReader(data))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	return table
}

type fakeRenderer struct {
	requests []ChartRequest
	err      error
}

func (f *fakeRenderer) Render(req ChartRequest) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	f.requests = append(f.requests, req)
	return "charts/" + req.FileName(), nil
}
