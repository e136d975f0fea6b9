package contract

import (
	"context"

	"github.com/tanpawarit/gdp-insight-agent/gdp"
)

type Analyst interface {
	Run(ctx context.Context, req AnalystRequest) (AnalystResponse, error)
}

type ToolGateway interface {
	Execute(ctx context.Context, sessionID string, reqs []ToolRequest) ([]ToolResult, error)
}

// TranscriptStore keeps the turns of each session in arrival order.
type TranscriptStore interface {
	Append(ctx context.Context, sessionID string, turns ...gdp.Turn) error
	Load(ctx context.Context, sessionID string) ([]gdp.Turn, error)
	Reset(ctx context.Context, sessionID string) error
}
