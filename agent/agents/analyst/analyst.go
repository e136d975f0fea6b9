package analyst

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	einomodel "github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/compose"
	"github.com/cloudwego/eino/schema"
	"github.com/rs/zerolog/log"

	contractx "github.com/tanpawarit/gdp-insight-agent/agent/contract"
	toolx "github.com/tanpawarit/gdp-insight-agent/agent/tool"
	"github.com/tanpawarit/gdp-insight-agent/gdp"
)

const DefaultMaxToolRounds = 6

type Option func(*analystImpl)

// WithMaxToolRounds bounds how many times the model may request tools
// before answering.
func WithMaxToolRounds(n int) Option {
	return func(a *analystImpl) {
		if n > 0 {
			a.maxToolRounds = n
		}
	}
}

type analystImpl struct {
	runner        compose.Runnable[[]*schema.Message, *schema.Message]
	gateway       contractx.ToolGateway
	systemPrompt  string
	maxToolRounds int
}

func New(
	ctx context.Context,
	chatModel einomodel.ToolCallingChatModel,
	gateway contractx.ToolGateway,
	systemPrompt string,
	opts ...Option,
) (contractx.Analyst, error) {
	if strings.TrimSpace(systemPrompt) == "" {
		return nil, fmt.Errorf("%w: analyst system prompt", contractx.ErrPromptMissing)
	}
	if chatModel == nil || gateway == nil {
		return nil, fmt.Errorf("%w: analyst requires a chat model and a tool gateway", contractx.ErrValidation)
	}

	toolModel, err := chatModel.WithTools(toolx.Infos())
	if err != nil {
		return nil, fmt.Errorf("%w: bind tools for analyst: %v", contractx.ErrModelInvoke, err)
	}
	runner, err := compileAnalystModelGraph(ctx, toolModel)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", contractx.ErrModelInvoke, err)
	}

	a := &analystImpl{
		runner:        runner,
		gateway:       gateway,
		systemPrompt:  strings.TrimSpace(systemPrompt),
		maxToolRounds: DefaultMaxToolRounds,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(a)
		}
	}
	return a, nil
}

// Run feeds the conversation to the model and executes the tools it asks for
// until it answers in plain text.
func (a *analystImpl) Run(ctx context.Context, req contractx.AnalystRequest) (contractx.AnalystResponse, error) {
	userMessage := strings.TrimSpace(req.UserMessage)
	if userMessage == "" {
		return contractx.AnalystResponse{}, fmt.Errorf("%w: user message is required", contractx.ErrValidation)
	}

	messages := buildMessages(a.systemPrompt, req.History, userMessage)
	var results []contractx.ToolResult

	for round := 0; ; round++ {
		out, err := a.runner.Invoke(ctx, messages)
		if err != nil {
			return contractx.AnalystResponse{}, fmt.Errorf("%w: analyst invoke: %v", contractx.ErrModelInvoke, err)
		}
		if out == nil {
			return contractx.AnalystResponse{}, fmt.Errorf("%w: empty analyst response", contractx.ErrSchemaViolation)
		}

		toolRequests, err := toToolRequests(out, round)
		if err != nil {
			return contractx.AnalystResponse{}, err
		}
		if len(toolRequests) == 0 {
			content := strings.TrimSpace(out.Content)
			if content == "" {
				return contractx.AnalystResponse{}, fmt.Errorf("%w: analyst reply is empty", contractx.ErrSchemaViolation)
			}
			return contractx.AnalystResponse{
				Message:     content,
				ToolResults: results,
				Rounds:      round,
			}, nil
		}

		if round >= a.maxToolRounds {
			return contractx.AnalystResponse{}, fmt.Errorf("%w: limit=%d", contractx.ErrToolRoundsExceeded, a.maxToolRounds)
		}

		batch, err := a.gateway.Execute(ctx, req.SessionID, toolRequests)
		if err != nil {
			return contractx.AnalystResponse{}, fmt.Errorf("execute tools: %w", err)
		}
		log.Debug().
			Str("session_id", req.SessionID).
			Int("round", round+1).
			Int("tools", len(batch)).
			Msg("analyst tool round")

		messages = append(messages, out)
		for _, r := range batch {
			messages = append(messages, schema.ToolMessage(r.Content(), r.CallID))
		}
		results = append(results, batch...)
	}
}

func buildMessages(systemPrompt string, history []gdp.Turn, userMessage string) []*schema.Message {
	messages := make([]*schema.Message, 0, len(history)+2)
	messages = append(messages, schema.SystemMessage(systemPrompt))
	for _, turn := range history {
		content := strings.TrimSpace(turn.Content)
		if content == "" {
			continue
		}
		if turn.IsAssistant() {
			messages = append(messages, schema.AssistantMessage(content, nil))
			continue
		}
		messages = append(messages, schema.UserMessage(content))
	}
	return append(messages, schema.UserMessage(userMessage))
}

// toToolRequests also fills in missing call ids on msg so that tool messages
// can refer back to them.
func toToolRequests(msg *schema.Message, round int) ([]contractx.ToolRequest, error) {
	if len(msg.ToolCalls) == 0 {
		return nil, nil
	}
	reqs := make([]contractx.ToolRequest, 0, len(msg.ToolCalls))
	for i := range msg.ToolCalls {
		call := &msg.ToolCalls[i]
		tool := strings.TrimSpace(call.Function.Name)
		if tool == "" {
			return nil, fmt.Errorf("%w: tool call name is empty", contractx.ErrSchemaViolation)
		}
		if strings.TrimSpace(call.ID) == "" {
			call.ID = fmt.Sprintf("call_%d_%d", round, i)
		}

		args := map[string]any{}
		rawArgs := strings.TrimSpace(call.Function.Arguments)
		if rawArgs != "" {
			if err := json.Unmarshal([]byte(rawArgs), &args); err != nil {
				return nil, fmt.Errorf("%w: invalid tool args for tool=%s: %v", contractx.ErrSchemaViolation, tool, err)
			}
		}

		reqs = append(reqs, contractx.ToolRequest{
			CallID: call.ID,
			Tool:   tool,
			Args:   args,
		})
	}
	return reqs, nil
}
