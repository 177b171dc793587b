package log

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"
)

func captureLogs(t *testing.T, format string) *bytes.Buffer {
	t.Helper()
	buf := new(bytes.Buffer)
	original := Logger()
	ReplaceLogger(slog.New(newHandler(buf, format)))
	t.Cleanup(func() {
		ReplaceLogger(original)
		levelVar.Set(slog.LevelInfo)
	})
	return buf
}

func TestInfoProducesLogfmtWithTimestamp(t *testing.T) {
	buf := captureLogs(t, FormatText)

	Info(context.Background(), "recomputed", "recipes", 4)

	line := strings.TrimSpace(buf.String())
	for _, want := range []string{"ts=", "level=info", "msg=recomputed", "recipes=4"} {
		if !strings.Contains(line, want) {
			t.Fatalf("expected %q in log line, got %q", want, line)
		}
	}
}

func TestJSONFormatUsesRenamedKeys(t *testing.T) {
	buf := captureLogs(t, FormatJSON)

	Warn(context.Background(), "missing sku", "sku", "Brioche bun")

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("decode json log line: %v", err)
	}
	if entry["level"] != "warn" {
		t.Fatalf("expected level warn, got %v", entry["level"])
	}
	if entry["msg"] != "missing sku" {
		t.Fatalf("expected msg field, got %v", entry["msg"])
	}
	if _, ok := entry["ts"]; !ok {
		t.Fatal("expected ts field")
	}
}

func TestSetLevelFiltersDebug(t *testing.T) {
	buf := captureLogs(t, FormatText)

	Debug(context.Background(), "hidden")
	if buf.Len() != 0 {
		t.Fatalf("expected debug to be filtered at info level, got %q", buf.String())
	}

	if err := SetLevel("DEBUG"); err != nil {
		t.Fatalf("SetLevel returned error: %v", err)
	}
	Debug(context.Background(), "shown")
	if !strings.Contains(buf.String(), "msg=shown") {
		t.Fatalf("expected debug output, got %q", buf.String())
	}
}

func TestSetLevelRejectsUnknown(t *testing.T) {
	if err := SetLevel("verbose"); err == nil {
		t.Fatal("expected error for unknown level")
	}
}

func TestSetFormatRejectsUnknown(t *testing.T) {
	original := Logger()
	t.Cleanup(func() { ReplaceLogger(original) })

	if err := SetFormat("xml"); err == nil {
		t.Fatal("expected error for unknown format")
	}
	if err := SetFormat("json"); err != nil {
		t.Fatalf("SetFormat(json) returned error: %v", err)
	}
}

func TestWithAddsAttributes(t *testing.T) {
	buf := captureLogs(t, FormatText)

	With("component", "costing").Info("done")

	if !strings.Contains(buf.String(), "component=costing") {
		t.Fatalf("expected bound attribute, got %q", buf.String())
	}
}
