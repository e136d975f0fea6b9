package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	contractx "github.com/tanpawarit/gdp-insight-agent/agent/contract"
	"github.com/tanpawarit/gdp-insight-agent/agent/memory"
	nodex "github.com/tanpawarit/gdp-insight-agent/agent/nodes/orchestrator"
	"github.com/tanpawarit/gdp-insight-agent/gdp"
)

type fakeAnalyst struct {
	responses []contractx.AnalystResponse
	err       error
	calls     int
	lastReqs  []contractx.AnalystRequest
}

func (f *fakeAnalyst) Run(ctx context.Context, req contractx.AnalystRequest) (contractx.AnalystResponse, error) {
	f.calls++
	f.lastReqs = append(f.lastReqs, req)
	if f.err != nil {
		return contractx.AnalystResponse{}, f.err
	}
	idx := f.calls - 1
	if idx >= len(f.responses) {
		return contractx.AnalystResponse{}, fmt.Errorf("no analyst response left at call=%d", f.calls)
	}
	return f.responses[idx], nil
}

type failingStore struct {
	*memory.Store
	appendErr error
}

func (f *failingStore) Append(ctx context.Context, sessionID string, turns ...gdp.Turn) error {
	return f.appendErr
}

func newTestOrchestrator(t *testing.T, analyst contractx.Analyst, transcripts contractx.TranscriptStore) *Orchestrator {
	t.Helper()

	o, err := New(analyst, transcripts)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	o.now = func() time.Time {
		return time.Date(2026, 2, 1, 10, 0, 0, 0, time.UTC)
	}
	return o
}

func TestNewRequiresDependencies(t *testing.T) {
	t.Parallel()

	if _, err := New(nil, memory.NewStore()); err == nil {
		t.Fatal("expected error for nil analyst")
	}
	if _, err := New(&fakeAnalyst{}, nil); err == nil {
		t.Fatal("expected error for nil transcript store")
	}
}

func TestHandleMessageInvalidInput(t *testing.T) {
	t.Parallel()

	o := newTestOrchestrator(t, &fakeAnalyst{}, memory.NewStore())

	_, err := o.HandleMessage(context.Background(), "   ", "gdp of germany")
	if !errors.Is(err, ErrInvalidSession) {
		t.Fatalf("expected ErrInvalidSession, got %v", err)
	}

	_, err = o.HandleMessage(context.Background(), "s1", "    ")
	if !errors.Is(err, ErrInvalidMessage) {
		t.Fatalf("expected ErrInvalidMessage, got %v", err)
	}
}

func TestHandleMessageOffTopicSkipsAnalyst(t *testing.T) {
	t.Parallel()

	analyst := &fakeAnalyst{}
	store := memory.NewStore()
	o := newTestOrchestrator(t, analyst, store)

	reply, err := o.HandleMessage(context.Background(), "s1", "What's the weather in Rome?")
	if err != nil {
		t.Fatalf("HandleMessage() error = %v", err)
	}
	if reply != nodex.OffTopicReply {
		t.Fatalf("unexpected reply: %q", reply)
	}
	if analyst.calls != 0 {
		t.Fatalf("expected analyst not called, got %d", analyst.calls)
	}
	turns, _ := store.Load(context.Background(), "s1")
	if len(turns) != 0 {
		t.Fatalf("off-topic exchange must not be recorded, got %#v", turns)
	}
}

func TestHandleMessageRecordsTranscript(t *testing.T) {
	t.Parallel()

	analyst := &fakeAnalyst{
		responses: []contractx.AnalystResponse{
			{Message: "The GDP of Germany in 2020 was $3.00.", Rounds: 1},
			{Message: "Plot of previously mentioned GDP data saved to Germany_conversation_gdp_2020-2020.png"},
		},
	}
	store := memory.NewStore()
	o := newTestOrchestrator(t, analyst, store)
	ctx := context.Background()

	reply, err := o.HandleMessage(ctx, "s1", "GDP of Germany in 2020?")
	if err != nil {
		t.Fatalf("HandleMessage() error = %v", err)
	}
	if reply != "The GDP of Germany in 2020 was $3.00." {
		t.Fatalf("unexpected reply: %q", reply)
	}

	if _, err := o.HandleMessage(ctx, "s1", "plot the gdp we discussed"); err != nil {
		t.Fatalf("HandleMessage() error = %v", err)
	}

	if analyst.calls != 2 {
		t.Fatalf("expected analyst called twice, got %d", analyst.calls)
	}
	if len(analyst.lastReqs[0].History) != 0 {
		t.Fatalf("first request must have empty history, got %#v", analyst.lastReqs[0].History)
	}
	history := analyst.lastReqs[1].History
	if len(history) != 2 || history[0].Role != gdp.RoleUser || !history[1].IsAssistant() {
		t.Fatalf("unexpected history: %#v", history)
	}
	if analyst.lastReqs[1].SessionID != "s1" {
		t.Fatalf("unexpected session id: %q", analyst.lastReqs[1].SessionID)
	}

	turns, _ := store.Load(ctx, "s1")
	if len(turns) != 4 {
		t.Fatalf("expected 4 turns, got %d", len(turns))
	}
}

func TestHandleMessageAnalystError(t *testing.T) {
	t.Parallel()

	store := memory.NewStore()
	o := newTestOrchestrator(t, &fakeAnalyst{err: contractx.ErrToolRoundsExceeded}, store)

	_, err := o.HandleMessage(context.Background(), "s1", "forecast gdp of france")
	if !errors.Is(err, contractx.ErrToolRoundsExceeded) {
		t.Fatalf("expected ErrToolRoundsExceeded, got %v", err)
	}
	turns, _ := store.Load(context.Background(), "s1")
	if len(turns) != 0 {
		t.Fatalf("failed exchange must not be recorded, got %#v", turns)
	}
}

func TestHandleMessageTranscriptWriteError(t *testing.T) {
	t.Parallel()

	writeErr := errors.New("disk full")
	o := newTestOrchestrator(t,
		&fakeAnalyst{responses: []contractx.AnalystResponse{{Message: "ok"}}},
		&failingStore{Store: memory.NewStore(), appendErr: writeErr},
	)

	_, err := o.HandleMessage(context.Background(), "s1", "gdp of italy")
	if !errors.Is(err, writeErr) {
		t.Fatalf("expected write error, got %v", err)
	}
}
