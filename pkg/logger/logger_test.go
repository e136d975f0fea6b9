package logx

import (
	"bytes"
	"strings"
	"testing"
)

func TestNewRespectsLevel(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := New(&buf, Config{Debug: false})
	logger.Debug().Msg("hidden")
	logger.Info().Str("country", "Germany").Msg("shown")

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Fatalf("debug line leaked at info level: %s", out)
	}
	if !strings.Contains(out, `"country":"Germany"`) {
		t.Fatalf("unexpected output: %s", out)
	}
}

func TestNewDebug(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := New(&buf, Config{Debug: true, Caller: true})
	logger.Debug().Msg("visible")

	out := buf.String()
	if !strings.Contains(out, "visible") || !strings.Contains(out, `"caller"`) {
		t.Fatalf("unexpected output: %s", out)
	}
}
