package logger

import (
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestStringFields(t *testing.T) {
	fields := StringFields(
		StringField{Key: "  provider  ", Value: "  Gemini  "},
		StringField{Key: "ignored", Value: "   "},
		StringField{Key: "   ", Value: "empty key"},
	)

	if len(fields) != 1 {
		t.Fatalf("expected 1 field, got %d", len(fields))
	}

	if fields[0].Key != "provider" || fields[0].String != "Gemini" {
		t.Fatalf("unexpected provider field: %+v", fields[0])
	}

	if empty := StringFields(); len(empty) != 0 {
		t.Fatalf("expected empty fields, got %d", len(empty))
	}
}

func TestWithFields(t *testing.T) {
	core, observed := observer.New(zapcore.InfoLevel)
	logger := zap.New(core)

	enriched := WithFields(logger, zap.String("foo", "bar"))
	enriched.Info("test log")

	entries := observed.All()
	if len(entries) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(entries))
	}

	if ctx := entries[0].ContextMap(); ctx["foo"] != "bar" {
		t.Fatalf("expected field to be bar, got %q", ctx["foo"])
	}

	enriched = WithFields(nil, zap.String("baz", "qux"))
	if enriched == nil {
		t.Fatalf("expected fallback logger when nil provided")
	}
	enriched.Info("another log")
}

func TestWithGeneratorFields(t *testing.T) {
	core, observed := observer.New(zapcore.InfoLevel)

	WithGeneratorFields(zap.New(core), " gemini ", "gemini-2.5-flash").Info("test log")

	entries := observed.All()
	if len(entries) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(entries))
	}

	ctx := entries[0].ContextMap()
	if ctx[FieldProvider] != "gemini" {
		t.Fatalf("expected provider field to be gemini, got %q", ctx[FieldProvider])
	}
	if ctx[FieldModel] != "gemini-2.5-flash" {
		t.Fatalf("unexpected model field: %q", ctx[FieldModel])
	}

	if fields := GeneratorFields("extractive", ""); len(fields) != 1 {
		t.Fatalf("expected empty model to be omitted, got %d fields", len(fields))
	}
}

func TestWithRequestIDAndCandidateFields(t *testing.T) {
	core, observed := observer.New(zapcore.InfoLevel)

	WithRequestID(zap.New(core), "req-1").Info("candidate", CandidateFields(1, " Jane Doe ", 0.5)...)

	entries := observed.All()
	if len(entries) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(entries))
	}

	ctx := entries[0].ContextMap()
	if ctx[FieldRequestID] != "req-1" {
		t.Fatalf("unexpected request id: %v", ctx[FieldRequestID])
	}
	if ctx[FieldRank] != int64(1) {
		t.Fatalf("unexpected rank: %v", ctx[FieldRank])
	}
	if ctx[FieldCandidate] != "Jane Doe" {
		t.Fatalf("unexpected candidate: %v", ctx[FieldCandidate])
	}
	if ctx[FieldScore] != 0.5 {
		t.Fatalf("unexpected score: %v", ctx[FieldScore])
	}
}
