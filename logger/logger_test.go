package logger

import (
	"errors"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want *zapcore.Level
	}{
		{"debug", levelPtr(zapcore.DebugLevel)},
		{"info", levelPtr(zapcore.InfoLevel)},
		{"warn", levelPtr(zapcore.WarnLevel)},
		{"error", levelPtr(zapcore.ErrorLevel)},
		{"verbose", nil},
		{"", nil},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got := parseLevel(tt.in)
			switch {
			case tt.want == nil && got != nil:
				t.Errorf("parseLevel(%q) = %v, want nil", tt.in, *got)
			case tt.want != nil && (got == nil || *got != *tt.want):
				t.Errorf("parseLevel(%q) = %v, want %v", tt.in, got, *tt.want)
			}
			if ValidLevel(tt.in) != (tt.want != nil) {
				t.Errorf("ValidLevel(%q) = %v", tt.in, ValidLevel(tt.in))
			}
		})
	}
}

func TestNew(t *testing.T) {
	for _, pretty := range []bool{true, false} {
		log, err := New("debug", pretty)
		if err != nil {
			t.Fatalf("New(debug, %v) error: %v", pretty, err)
		}
		if log == nil {
			t.Fatalf("New(debug, %v) returned nil logger", pretty)
		}
	}
}

func TestWithAddsFields(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	log := FromZap(zap.New(core)).With(String("run_id", "abc"))

	log.Debug("file unreadable", String("file", "a.md"), Error(errors.New("denied")))
	log.Info("run complete", Int("files", 3))

	entries := logs.All()
	if len(entries) != 2 {
		t.Fatalf("expected 2 log entries, got %d", len(entries))
	}
	ctx := entries[0].ContextMap()
	if ctx["run_id"] != "abc" || ctx["file"] != "a.md" || ctx["error"] != "denied" {
		t.Errorf("unexpected fields: %v", ctx)
	}
	if entries[1].Message != "run complete" || entries[1].ContextMap()["files"] != int64(3) {
		t.Errorf("unexpected entry: %q %v", entries[1].Message, entries[1].ContextMap())
	}
}

func levelPtr(l zapcore.Level) *zapcore.Level { return &l }
