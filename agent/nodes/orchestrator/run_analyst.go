package orchestratornode

import (
	"context"
	"fmt"

	contractx "github.com/tanpawarit/gdp-insight-agent/agent/contract"
)

func RunAnalyst(
	ctx context.Context,
	in *GraphState,
	analyst contractx.Analyst,
) (*GraphState, error) {
	if in == nil {
		return nil, fmt.Errorf("%w: graph state is nil", contractx.ErrValidation)
	}

	resp, err := analyst.Run(ctx, contractx.AnalystRequest{
		SessionID:   in.SessionID,
		UserMessage: in.Text,
		History:     in.History,
	})
	if err != nil {
		return nil, err
	}

	in.Message = resp.Message
	in.ToolResults = resp.ToolResults
	return in, nil
}
