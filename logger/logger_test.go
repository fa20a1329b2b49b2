package logger

import (
	"context"
	"testing"
)

func TestExtractFields(t *testing.T) {
	l := NewNop().(*ZapLogger)
	ctx := WithSlNo(WithSessionID(context.Background(), "abc"), "20240115-001")
	fields := l.extractFields(ctx)
	if len(fields) != 2 {
		t.Fatalf("expected 2 fields, got %d", len(fields))
	}
	if fields[0].Key != "session_id" || fields[0].String != "abc" {
		t.Fatalf("unexpected session field: %+v", fields[0])
	}
	if fields[1].Key != "sl_no" || fields[1].String != "20240115-001" {
		t.Fatalf("unexpected sl_no field: %+v", fields[1])
	}
	if got := l.extractFields(context.Background()); len(got) != 0 {
		t.Fatalf("expected no fields, got %d", len(got))
	}
}

func TestNewZapLoggerLevels(t *testing.T) {
	for _, level := range []string{"debug", "info", "warn", "error", "bogus"} {
		if _, err := NewZapLogger(level); err != nil {
			t.Fatalf("NewZapLogger(%q): %v", level, err)
		}
	}
}
