package logging

import (
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestNew_Modes(t *testing.T) {
	for _, mode := range []string{"dev", "prod", "production", ""} {
		l, err := New(mode, "debug")
		if err != nil {
			t.Fatalf("New(%q): %v", mode, err)
		}
		l.Debug("hello", "mode", mode)
	}
}

func TestNew_InvalidLevel(t *testing.T) {
	if _, err := New("dev", "loud"); err == nil {
		t.Error("expected error for invalid level")
	}
}

func TestWith_AddsFields(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	l := FromZap(zap.New(core)).With("concept_id", "c-1")

	l.Info("concept evaluated", "status", "well-defined")

	entries := logs.All()
	if len(entries) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(entries))
	}
	fields := entries[0].ContextMap()
	if fields["concept_id"] != "c-1" || fields["status"] != "well-defined" {
		t.Errorf("unexpected fields: %v", fields)
	}
}

func TestNewNop(t *testing.T) {
	l := NewNop()
	l.Error("ignored", "k", "v")
	l.Sync()
}
