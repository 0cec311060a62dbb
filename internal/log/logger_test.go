package log

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"strings"
	"testing"
)

func TestParseLevel(t *testing.T) {
	cases := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		"INFO":    slog.LevelInfo,
		"warning": slog.LevelWarn,
		"error":   slog.LevelError,
		"bogus":   slog.LevelInfo,
	}
	for in, want := range cases {
		if got := ParseLevel(in); got != want {
			t.Errorf("ParseLevel(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestLoggerTagsComponent(t *testing.T) {
	var buf bytes.Buffer
	l := New(Config{Level: slog.LevelDebug, Format: "json", Output: &buf, Component: ComponentStore})

	l.Info("persisted", FieldBytes, 42)
	out := buf.String()
	if !strings.Contains(out, `"component":"store"`) || !strings.Contains(out, `"bytes":42`) {
		t.Fatalf("unexpected output %s", out)
	}

	buf.Reset()
	l.WithComponent(ComponentLedger).Warn("x")
	if !strings.Contains(buf.String(), `"component":"ledger"`) {
		t.Fatalf("component not replaced: %s", buf.String())
	}
}

func TestFromContext(t *testing.T) {
	if got := FromContext(context.Background()); got.Component() != "unknown" {
		t.Fatalf("expected fallback logger, got %q", got.Component())
	}
	l := Discard()
	if got := FromContext(WithLogger(context.Background(), l)); got != l {
		t.Fatal("expected stored logger")
	}
}

func TestLogFields(t *testing.T) {
	f := NewFields().WithOperation(OpPersist).WithError(nil).WithEntity("expense", "")
	if _, ok := f[FieldError]; ok {
		t.Fatal("nil error must not be recorded")
	}
	if _, ok := f[FieldEntityID]; ok {
		t.Fatal("empty id must not be recorded")
	}
	f.WithError(errors.New("boom"))
	if f[FieldError] != "boom" || len(f.ToSlice()) != 2*len(f) {
		t.Fatalf("unexpected fields %v", f)
	}
}
