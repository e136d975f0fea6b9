package orchestrator

import (
	"context"
	"errors"
	"time"

	"github.com/cloudwego/eino/compose"
	"github.com/rs/zerolog/log"

	contractx "github.com/tanpawarit/gdp-insight-agent/agent/contract"
	nodex "github.com/tanpawarit/gdp-insight-agent/agent/nodes/orchestrator"
)

var (
	ErrInvalidMessage = nodex.ErrInvalidMessage
	ErrInvalidSession = nodex.ErrInvalidSession
)

type Orchestrator struct {
	analyst     contractx.Analyst
	transcripts contractx.TranscriptStore

	graphRunner compose.Runnable[nodex.GraphInput, nodex.GraphOutput]

	now func() time.Time
}

func New(
	analyst contractx.Analyst,
	transcripts contractx.TranscriptStore,
) (*Orchestrator, error) {
	if analyst == nil {
		return nil, errors.New("analyst is required")
	}
	if transcripts == nil {
		return nil, errors.New("transcript store is required")
	}

	o := &Orchestrator{
		analyst:     analyst,
		transcripts: transcripts,
		now:         time.Now,
	}

	graphRunner, err := o.compileHandleMessageGraph(context.Background())
	if err != nil {
		return nil, err
	}
	o.graphRunner = graphRunner

	return o, nil
}

func (o *Orchestrator) HandleMessage(ctx context.Context, sessionID string, text string) (string, error) {
	out, err := o.graphRunner.Invoke(ctx, nodex.GraphInput{
		SessionID: sessionID,
		Text:      text,
	})
	if err != nil {
		return "", err
	}
	log.Debug().
		Str("session_id", sessionID).
		Bool("on_topic", out.OnTopic).
		Int("tool_results", len(out.ToolResults)).
		Msg("message handled")
	return out.Reply, nil
}
