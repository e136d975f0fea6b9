package orchestratornode

import (
	"context"
	"fmt"

	contractx "github.com/tanpawarit/gdp-insight-agent/agent/contract"
	"github.com/tanpawarit/gdp-insight-agent/gdp"
)

func ReadTranscript(
	ctx context.Context,
	in *GraphState,
	transcripts contractx.TranscriptStore,
) (*GraphState, error) {
	if in == nil {
		return nil, fmt.Errorf("%w: graph state is nil", contractx.ErrValidation)
	}

	history, err := transcripts.Load(ctx, in.SessionID)
	if err != nil {
		return nil, fmt.Errorf("read transcript: %w", err)
	}
	in.History = history
	return in, nil
}

// WriteTranscript appends the user message and the final reply. Intermediate
// tool traffic is not recorded.
func WriteTranscript(
	ctx context.Context,
	in *GraphState,
	transcripts contractx.TranscriptStore,
) (*GraphState, error) {
	if in == nil {
		return nil, fmt.Errorf("%w: graph state is nil", contractx.ErrValidation)
	}

	if err := transcripts.Append(ctx, in.SessionID,
		gdp.Turn{Role: gdp.RoleUser, Content: in.Text},
		gdp.Turn{Role: gdp.RoleAssistant, Content: in.Message},
	); err != nil {
		return nil, fmt.Errorf("write transcript: %w", err)
	}
	return in, nil
}
