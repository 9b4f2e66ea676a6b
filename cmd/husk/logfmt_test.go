package main

import (
	"strings"
	"testing"
)

func TestLogFormatterPlain(t *testing.T) {
	f := &logFormatter{}
	line := `{"time":"2026-08-25T10:00:00.123Z","level":"INFO","msg":"Client.BuildImage","cmd":"docker build --tag husk-dev:latest ."}`

	out, err := f.Format(line)
	if err != nil {
		t.Fatalf("Format: %v", err)
	}
	if !strings.Contains(out, "INFO:") {
		t.Errorf("expected level marker in %q", out)
	}
	if !strings.Contains(out, "Client.BuildImage") {
		t.Errorf("expected message in %q", out)
	}
	if !strings.Contains(out, `"cmd":"docker build --tag husk-dev:latest ."`) {
		t.Errorf("expected remaining attrs as JSON in %q", out)
	}
	if strings.Contains(out, `"level"`) || strings.Contains(out, `"msg"`) || strings.Contains(out, `"time"`) {
		t.Errorf("built-in keys must not repeat in the attrs: %q", out)
	}
	if strings.Contains(out, "\033[") {
		t.Errorf("plain formatter must not emit escape codes: %q", out)
	}
}

func TestLogFormatterColor(t *testing.T) {
	f := &logFormatter{colorize: true}

	for _, level := range []string{"DEBUG", "INFO", "WARN", "ERROR"} {
		out, err := f.Format(`{"time":"2026-08-25T10:00:00Z","level":"` + level + `","msg":"x"}`)
		if err != nil {
			t.Fatalf("Format(%s): %v", level, err)
		}
		if !strings.Contains(out, "\033[") {
			t.Errorf("expected escape codes for %s in %q", level, out)
		}
	}

	if _, err := f.Format(`{"level":"SHOUT","msg":"x"}`); err == nil {
		t.Error("expected an error for an unknown level")
	}
}

func TestLogFormatterRejectsNonRecords(t *testing.T) {
	f := &logFormatter{}
	for _, line := range []string{"not json", `{"msg":"no level"}`, `{"level":42}`} {
		if _, err := f.Format(line); err == nil {
			t.Errorf("expected an error for %q", line)
		}
	}
}
