package contract

import "github.com/tanpawarit/gdp-insight-agent/gdp"

type AnalystRequest struct {
	SessionID   string     `json:"session_id"`
	UserMessage string     `json:"user_message"`
	History     []gdp.Turn `json:"history,omitempty"`
}

type AnalystResponse struct {
	Message     string       `json:"message"`
	ToolResults []ToolResult `json:"tool_results,omitempty"`
	Rounds      int          `json:"rounds"`
}

type ToolRequest struct {
	CallID string         `json:"call_id,omitempty"`
	Tool   string         `json:"tool"`
	Args   map[string]any `json:"args,omitempty"`
}

type ToolResult struct {
	CallID string `json:"call_id,omitempty"`
	Tool   string `json:"tool"`
	Result string `json:"result,omitempty"`
	Error  string `json:"error,omitempty"`
}

// Content is what the model sees for this result.
func (r ToolResult) Content() string {
	if r.Error != "" {
		return "error: " + r.Error
	}
	return r.Result
}
