package tool

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"

	contractx "github.com/tanpawarit/gdp-insight-agent/agent/contract"
	"github.com/tanpawarit/gdp-insight-agent/gdp"
)

var _ contractx.ToolGateway = (*Gateway)(nil)

// Services bundles the GDP operations the tools dispatch to.
type Services struct {
	Query    *gdp.QueryService
	Forecast *gdp.ForecastService
	Opinion  *gdp.OpinionService
	Plot     *gdp.PlotService
}

func NewServices(table *gdp.Table, renderer gdp.ChartRenderer, opts ...gdp.ForecastOption) Services {
	return Services{
		Query:    gdp.NewQueryService(table),
		Forecast: gdp.NewForecastService(table, opts...),
		Opinion:  gdp.NewOpinionService(table),
		Plot:     gdp.NewPlotService(table, renderer),
	}
}

// Gateway executes tool requests against the GDP services. Tool failures are
// reported in ToolResult.Error, only transcript failures abort a batch.
type Gateway struct {
	services    Services
	transcripts contractx.TranscriptStore
}

func NewGateway(services Services, transcripts contractx.TranscriptStore) *Gateway {
	return &Gateway{services: services, transcripts: transcripts}
}

func (g *Gateway) Execute(ctx context.Context, sessionID string, reqs []contractx.ToolRequest) ([]contractx.ToolResult, error) {
	results := make([]contractx.ToolResult, 0, len(reqs))
	for _, req := range reqs {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		out, err := g.execute(ctx, sessionID, req.Tool, req.Args)
		if err != nil {
			return nil, err
		}
		out.CallID = req.CallID
		log.Debug().
			Str("session_id", sessionID).
			Str("tool", out.Tool).
			Bool("failed", out.Error != "").
			Msg("tool executed")
		results = append(results, out)
	}
	return results, nil
}

func (g *Gateway) execute(ctx context.Context, sessionID, tool string, args map[string]any) (contractx.ToolResult, error) {
	name, ok := Canonical(tool)
	if !ok {
		return contractx.ToolResult{
			Tool:  tool,
			Error: fmt.Sprintf("tool=%s is unavailable", tool),
		}, nil
	}

	query, errMsg := queryArg(args)
	if errMsg != "" {
		return contractx.ToolResult{Tool: name, Error: errMsg}, nil
	}

	var out string
	switch name {
	case ToolGetGDP:
		out = g.services.Query.GetGDPQuery(query)
	case ToolCompareGDP:
		out = g.services.Query.CompareGDPQuery(query)
	case ToolForecastGDP:
		out = g.services.Forecast.ForecastQuery(query)
	case ToolPlotGDP:
		out = g.services.Plot.PlotQuery(query)
	case ToolEconomicOpinion:
		out = g.services.Opinion.Opinion(query)
	case ToolPlotPreviousData:
		turns, err := g.loadTranscript(ctx, sessionID)
		if err != nil {
			return contractx.ToolResult{}, err
		}
		out = g.services.Plot.PlotPreviousQuery(turns, query)
	}

	return contractx.ToolResult{Tool: name, Result: out}, nil
}

func (g *Gateway) loadTranscript(ctx context.Context, sessionID string) ([]gdp.Turn, error) {
	if g.transcripts == nil {
		return nil, nil
	}
	turns, err := g.transcripts.Load(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("load transcript: %w", err)
	}
	return turns, nil
}

func queryArg(args map[string]any) (string, string) {
	raw, ok := args[argQuery]
	if !ok {
		return "", "query is required"
	}
	query, ok := raw.(string)
	if !ok {
		return "", "query must be a string"
	}
	query = strings.TrimSpace(query)
	if query == "" {
		return "", "query is required"
	}
	return query, ""
}

// Call runs one tool outside the model loop. Successful calls are recorded in
// the session transcript so that PlotPreviousData can find their figures.
func (g *Gateway) Call(ctx context.Context, sessionID, tool, query string) (contractx.ToolResult, error) {
	results, err := g.Execute(ctx, sessionID, []contractx.ToolRequest{
		{Tool: tool, Args: map[string]any{argQuery: query}},
	})
	if err != nil {
		return contractx.ToolResult{}, err
	}
	res := results[0]
	if res.Error != "" || g.transcripts == nil {
		return res, nil
	}

	if err := g.transcripts.Append(ctx, sessionID,
		gdp.Turn{Role: gdp.RoleUser, Content: strings.TrimSpace(res.Tool + " " + query)},
		gdp.Turn{Role: gdp.RoleAssistant, Content: res.Result},
	); err != nil {
		return res, fmt.Errorf("record tool call: %w", err)
	}
	return res, nil
}
