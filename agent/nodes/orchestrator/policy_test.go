package orchestratornode

import (
	"errors"
	"testing"
	"time"
)

func TestIsGDPQuestion(t *testing.T) {
	t.Parallel()

	cases := map[string]bool{
		"What was Germany's GDP in 2020?":          true,
		"Wie hoch war das BIP von Italien?":        true,
		"Bruttoinlandsprodukt Frankreich 2019":     true,
		"economic output of Japan":                 true,
		"Gross Domestic Product of Spain":          true,
		"What's the weather like in Berlin?":       false,
		"Germany, 2020":                            false,
		"tell me about the economy of Switzerland": false,
	}
	for text, want := range cases {
		if got := IsGDPQuestion(text); got != want {
			t.Fatalf("IsGDPQuestion(%q) = %v, want %v", text, got, want)
		}
	}
}

func TestCheckPolicyOffTopicSetsReply(t *testing.T) {
	t.Parallel()

	st, err := CheckPolicy(&GraphState{SessionID: "s", Text: "hello there"})
	if err != nil {
		t.Fatalf("CheckPolicy() error = %v", err)
	}
	if st.OnTopic || st.Message != OffTopicReply {
		t.Fatalf("unexpected state: %#v", st)
	}

	st, err = CheckPolicy(&GraphState{SessionID: "s", Text: "gdp of france"})
	if err != nil {
		t.Fatalf("CheckPolicy() error = %v", err)
	}
	if !st.OnTopic || st.Message != "" {
		t.Fatalf("unexpected state: %#v", st)
	}
}

func TestValidateRequest(t *testing.T) {
	t.Parallel()

	now := func() time.Time { return time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC) }

	if _, err := ValidateRequest(GraphInput{SessionID: " ", Text: "gdp"}, now); !errors.Is(err, ErrInvalidSession) {
		t.Fatalf("expected ErrInvalidSession, got %v", err)
	}
	if _, err := ValidateRequest(GraphInput{SessionID: "s", Text: "  "}, now); !errors.Is(err, ErrInvalidMessage) {
		t.Fatalf("expected ErrInvalidMessage, got %v", err)
	}

	st, err := ValidateRequest(GraphInput{SessionID: " s ", Text: " gdp "}, now)
	if err != nil {
		t.Fatalf("ValidateRequest() error = %v", err)
	}
	if st.SessionID != "s" || st.Text != "gdp" || !st.Now.Equal(now()) {
		t.Fatalf("unexpected state: %#v", st)
	}
}
