package tool

import (
	"strings"

	"github.com/cloudwego/eino/schema"
)

const (
	ToolGetGDP           = "GetGDP"
	ToolCompareGDP       = "CompareGDP"
	ToolForecastGDP      = "ForecastGDP"
	ToolPlotGDP          = "PlotGDP"
	ToolEconomicOpinion  = "EconomicOpinion"
	ToolPlotPreviousData = "PlotPreviousData"

	argQuery = "query"
)

var catalog = []struct {
	name string
	desc string
	hint string
}{
	{ToolGetGDP, "Get the GDP of a country in a specific year.", "Country and year, e.g. 'Germany, 2020'"},
	{ToolCompareGDP, "Compare the GDPs of multiple countries in a given year.", "Countries followed by the year, e.g. 'Germany, France, Italy, 2020'"},
	{ToolForecastGDP, "Forecast the GDP of a country with a linear trend.", "Country and number of years to forecast, e.g. 'Germany, 5'"},
	{ToolPlotGDP, "Plot the GDP of a country over years.", "Country with optional start and end year, e.g. 'Germany, 2000, 2020'"},
	{ToolEconomicOpinion, "Provide an economic opinion on a country's GDP.", "A sentence naming the country and optionally a year"},
	{ToolPlotPreviousData, "Plot GDP data that was mentioned earlier in this conversation.", "Country with optional start and end year, e.g. 'Germany, 2021, 2025'"},
}

// Infos describes every GDP tool for model binding.
func Infos() []*schema.ToolInfo {
	infos := make([]*schema.ToolInfo, 0, len(catalog))
	for _, c := range catalog {
		infos = append(infos, &schema.ToolInfo{
			Name: c.name,
			Desc: c.desc,
			ParamsOneOf: schema.NewParamsOneOfByParams(map[string]*schema.ParameterInfo{
				argQuery: {Type: schema.String, Desc: c.hint, Required: true},
			}),
		})
	}
	return infos
}

// Names lists the tool names in catalog order.
func Names() []string {
	names := make([]string, 0, len(catalog))
	for _, c := range catalog {
		names = append(names, c.name)
	}
	return names
}

// Canonical maps a case-insensitive tool name to its catalog spelling.
func Canonical(name string) (string, bool) {
	name = strings.TrimSpace(name)
	for _, c := range catalog {
		if strings.EqualFold(c.name, name) {
			return c.name, true
		}
	}
	return "", false
}
