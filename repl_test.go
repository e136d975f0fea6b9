package main

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/tanpawarit/gdp-insight-agent/agent/memory"
	nodex "github.com/tanpawarit/gdp-insight-agent/agent/nodes/orchestrator"
	toolx "github.com/tanpawarit/gdp-insight-agent/agent/tool"
	"github.com/tanpawarit/gdp-insight-agent/gdp"
)

const replCSV = `Year,Germany
2019,4000000000000
2020,4100000000000
`

type stubRenderer struct{}

func (stubRenderer) Render(req gdp.ChartRequest) (string, error) {
	return req.FileName(), nil
}

type echoChat struct {
	calls int
}

func (e *echoChat) HandleMessage(ctx context.Context, sessionID string, text string) (string, error) {
	e.calls++
	return "echo: " + text, nil
}

func newTestREPL(t *testing.T, input string) (*repl, *bytes.Buffer) {
	t.Helper()
	table, err := gdp.Load(strings.NewReader(replCSV))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	store := memory.NewStore()
	out := &bytes.Buffer{}
	return &repl{
		in:          strings.NewReader(input),
		out:         out,
		sessionID:   "test",
		gateway:     toolx.NewGateway(toolx.NewServices(table, stubRenderer{}), store),
		transcripts: store,
	}, out
}

func TestREPLDirectToolCallsFeedTranscript(t *testing.T) {
	t.Parallel()

	r, out := newTestREPL(t, "/GetGDP Germany, 2020\n/PlotPreviousData Germany\nexit\n")
	if err := r.Run(context.Background()); err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	got := out.String()
	if !strings.Contains(got, "The GDP of Germany in 2020 was $4,100,000,000,000.00.") {
		t.Fatalf("missing lookup output: %q", got)
	}
	if !strings.Contains(got, "Plot of previously mentioned GDP data saved to Germany_conversation_gdp_2020-2020.png") {
		t.Fatalf("missing plot output: %q", got)
	}
	if !strings.Contains(got, "Goodbye!") {
		t.Fatalf("missing goodbye: %q", got)
	}
}

func TestREPLWithoutModel(t *testing.T) {
	t.Parallel()

	r, out := newTestREPL(t, "hello\nGDP of Germany?\n/Unknown x\n/help\n")
	if err := r.Run(context.Background()); err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	got := out.String()
	if !strings.Contains(got, nodex.OffTopicReply) {
		t.Fatalf("missing off-topic reply: %q", got)
	}
	if !strings.Contains(got, "No language model is configured.") {
		t.Fatalf("missing model hint: %q", got)
	}
	if !strings.Contains(got, "Error: tool=Unknown is unavailable") {
		t.Fatalf("missing tool error: %q", got)
	}
	if !strings.Contains(got, "Tools: GetGDP, CompareGDP") {
		t.Fatalf("missing help: %q", got)
	}
}

func TestREPLRoutesQuestionsToChat(t *testing.T) {
	t.Parallel()

	r, out := newTestREPL(t, "GDP of Germany in 2020?\nquit\n")
	chat := &echoChat{}
	r.chat = chat

	if err := r.Run(context.Background()); err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if chat.calls != 1 {
		t.Fatalf("expected one chat call, got %d", chat.calls)
	}
	if !strings.Contains(out.String(), "echo: GDP of Germany in 2020?") {
		t.Fatalf("unexpected output: %q", out.String())
	}
}

func TestREPLReset(t *testing.T) {
	t.Parallel()

	r, _ := newTestREPL(t, "/GetGDP Germany, 2020\n/reset\n")
	if err := r.Run(context.Background()); err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	turns, _ := r.transcripts.Load(context.Background(), "test")
	if len(turns) != 0 {
		t.Fatalf("expected empty transcript after reset, got %#v", turns)
	}
}

func TestSplitCommand(t *testing.T) {
	t.Parallel()

	name, args := splitCommand("  /CompareGDP  Germany, France, 2020 ")
	if name != "CompareGDP" || args != "Germany, France, 2020" {
		t.Fatalf("unexpected split: %q %q", name, args)
	}
	name, args = splitCommand("/help")
	if name != "help" || args != "" {
		t.Fatalf("unexpected split: %q %q", name, args)
	}
}

func TestREPLPrintsBannerOnce(t *testing.T) {
	t.Parallel()

	r, out := newTestREPL(t, "quit\n")
	if err := r.Run(context.Background()); err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	want := banner + "\nAsk a GDP question: Goodbye!\n"
	if got := out.String(); got != want {
		t.Fatalf("unexpected output:\n%q\nwant:\n%q", got, want)
	}
}
