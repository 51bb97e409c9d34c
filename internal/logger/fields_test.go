package logger

import (
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestStringFieldsDropsBlankEntries(t *testing.T) {
	fields := StringFields(
		StringField{Key: "  provider  ", Value: "  groq  "},
		StringField{Key: "ignored", Value: "   "},
		StringField{Key: "   ", Value: "empty key"},
	)

	if len(fields) != 1 {
		t.Fatalf("expected 1 field, got %d", len(fields))
	}

	if fields[0].Key != "provider" || fields[0].String != "groq" {
		t.Fatalf("unexpected field: %+v", fields[0])
	}

	if got := StringFields(); len(got) != 0 {
		t.Fatalf("expected no fields, got %d", len(got))
	}
}

func TestWithCommonFieldsAttachesProviderAndModel(t *testing.T) {
	core, observed := observer.New(zapcore.InfoLevel)

	WithCommonFields(zap.New(core), "gemini", "gemini-2.5-flash").Info("completion")

	entries := observed.All()
	if len(entries) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(entries))
	}

	ctx := entries[0].ContextMap()
	if ctx[FieldProvider] != "gemini" {
		t.Fatalf("unexpected provider: %v", ctx[FieldProvider])
	}
	if ctx[FieldModel] != "gemini-2.5-flash" {
		t.Fatalf("unexpected model: %v", ctx[FieldModel])
	}
}

func TestWithFieldsNilLogger(t *testing.T) {
	l := WithFields(nil, zap.String("k", "v"))
	if l == nil {
		t.Fatal("expected a logger")
	}
	l.Info("no panic")

	if WithCommonFields(nil, "", "") == nil {
		t.Fatal("expected a logger")
	}
}

func TestCandidateFields(t *testing.T) {
	fields := CandidateFields("c-1", "")
	if len(fields) != 1 || fields[0].Key != FieldCandidate || fields[0].String != "c-1" {
		t.Fatalf("unexpected fields: %+v", fields)
	}

	fields = CandidateFields("c-2", "jane.pdf")
	if len(fields) != 2 || fields[1].Key != FieldFile {
		t.Fatalf("unexpected fields: %+v", fields)
	}
}

func TestNewLevels(t *testing.T) {
	l, err := New(true, false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if l.Core().Enabled(zapcore.DebugLevel) {
		t.Fatal("debug must be disabled without the debug flag")
	}

	l, err = New(false, true)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !l.Core().Enabled(zapcore.DebugLevel) {
		t.Fatal("debug must be enabled with the debug flag")
	}
}
