package orchestratornode

import (
	"errors"
	"strings"
	"time"

	contractx "github.com/tanpawarit/gdp-insight-agent/agent/contract"
	"github.com/tanpawarit/gdp-insight-agent/gdp"
)

var (
	ErrInvalidMessage = errors.New("message is empty")
	ErrInvalidSession = errors.New("session id is empty")
)

type GraphInput struct {
	SessionID string
	Text      string
}

type GraphOutput struct {
	Reply       string
	OnTopic     bool
	ToolResults []contractx.ToolResult
}

type GraphState struct {
	SessionID string
	Text      string
	Now       time.Time

	OnTopic bool
	History []gdp.Turn

	Message     string
	ToolResults []contractx.ToolResult
}

func ValidateRequest(in GraphInput, nowFn func() time.Time) (*GraphState, error) {
	sessionID := strings.TrimSpace(in.SessionID)
	if sessionID == "" {
		return nil, ErrInvalidSession
	}

	text := strings.TrimSpace(in.Text)
	if text == "" {
		return nil, ErrInvalidMessage
	}

	return &GraphState{
		SessionID: sessionID,
		Text:      text,
		Now:       nowFn().UTC(),
	}, nil
}
