package logger

import (
	"strings"

	"go.uber.org/zap"
)

const (
	// FieldProvider is the structured log field key for the text generation provider.
	FieldProvider = "generator_provider"
	// FieldModel is the structured log field key for the generation model identifier.
	FieldModel = "generator_model"
	// FieldRequestID identifies a single ranking pass.
	FieldRequestID = "request_id"

	FieldRank      = "rank"
	FieldCandidate = "candidate"
	FieldScore     = "score"
)

// StringField describes a string-valued structured logging field.
type StringField struct {
	Key   string
	Value string
}

// StringFields converts the provided key/value pairs into zap fields, trimming
// whitespace and omitting entries with empty keys or values.
func StringFields(fields ...StringField) []zap.Field {
	result := make([]zap.Field, 0, len(fields))
	for _, field := range fields {
		key := strings.TrimSpace(field.Key)
		if key == "" {
			continue
		}

		value := strings.TrimSpace(field.Value)
		if value == "" {
			continue
		}

		result = append(result, zap.String(key, value))
	}

	return result
}

// WithFields attaches the provided fields to the logger, falling back to a
// no-op logger when nil.
func WithFields(logger *zap.Logger, fields ...zap.Field) *zap.Logger {
	if logger == nil {
		logger = zap.NewNop()
	}

	if len(fields) == 0 {
		return logger
	}

	return logger.With(fields...)
}

// GeneratorFields describes the text generator backing the fit explanations.
func GeneratorFields(provider, model string) []zap.Field {
	return StringFields(
		StringField{Key: FieldProvider, Value: provider},
		StringField{Key: FieldModel, Value: model},
	)
}

func WithGeneratorFields(logger *zap.Logger, provider, model string) *zap.Logger {
	return WithFields(logger, GeneratorFields(provider, model)...)
}

// WithRequestID tags every entry of a ranking pass with its id.
func WithRequestID(logger *zap.Logger, id string) *zap.Logger {
	return WithFields(logger, StringFields(StringField{Key: FieldRequestID, Value: id})...)
}

// CandidateFields describes a ranked candidate.
func CandidateFields(rank int, name string, score float64) []zap.Field {
	return []zap.Field{
		zap.Int(FieldRank, rank),
		zap.String(FieldCandidate, strings.TrimSpace(name)),
		zap.Float64(FieldScore, score),
	}
}
