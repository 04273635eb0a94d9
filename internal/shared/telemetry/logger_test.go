package telemetry

import (
	"bytes"
	"encoding/json"
	"os"
	"testing"
)

func TestLogLinesAreStructuredJSON(t *testing.T) {
	buf := &bytes.Buffer{}
	SetOutput(buf)
	t.Cleanup(func() { SetOutput(os.Stdout) })

	Info("request.complete", map[string]any{
		"request_id": "abc123",
		"status":     200,
	})

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("log line is not JSON: %v\n%s", err, buf.String())
	}
	if entry["level"] != "info" {
		t.Fatalf("expected level info, got %v", entry["level"])
	}
	if entry["msg"] != "request.complete" {
		t.Fatalf("expected msg request.complete, got %v", entry["msg"])
	}
	if entry["request_id"] != "abc123" {
		t.Fatalf("expected request_id field, got %v", entry["request_id"])
	}
	if _, ok := entry["ts"]; !ok {
		t.Fatalf("expected ts field")
	}
}

func TestWarnAndErrorLevels(t *testing.T) {
	buf := &bytes.Buffer{}
	SetOutput(buf)
	t.Cleanup(func() { SetOutput(os.Stdout) })

	Warn("llm.retry", nil)
	Error("panic", nil)

	lines := bytes.Split(bytes.TrimSpace(buf.Bytes()), []byte("\n"))
	if len(lines) != 2 {
		t.Fatalf("expected 2 log lines, got %d", len(lines))
	}
	for i, want := range []string{"warn", "error"} {
		var entry map[string]any
		if err := json.Unmarshal(lines[i], &entry); err != nil {
			t.Fatalf("line %d not JSON: %v", i, err)
		}
		if entry["level"] != want {
			t.Fatalf("line %d: expected level %s, got %v", i, want, entry["level"])
		}
	}
}
