package logger

import (
	"strings"

	"go.uber.org/zap"
)

const (
	// FieldProvider is the structured log field key for the AI provider name.
	FieldProvider = "ai_provider"
	// FieldModel is the structured log field key for the AI model identifier.
	FieldModel = "ai_model"
	// FieldOperation names the advisor operation a log entry belongs to.
	FieldOperation = "operation"
	// FieldErrorKind carries the classified upstream error kind.
	FieldErrorKind = "error_kind"
	// FieldUserID identifies the authenticated caller.
	FieldUserID = "user_id"
)

// StringField is a string-valued structured field.
type StringField struct {
	Key   string
	Value string
}

// StringFields converts pairs into zap fields. Blank keys and values are dropped.
func StringFields(fields ...StringField) []zap.Field {
	result := make([]zap.Field, 0, len(fields))
	for _, field := range fields {
		key := strings.TrimSpace(field.Key)
		value := strings.TrimSpace(field.Value)
		if key == "" || value == "" {
			continue
		}

		result = append(result, zap.String(key, value))
	}

	return result
}

// WithFields attaches fields to log, falling back to a no-op logger when log is nil.
func WithFields(log *zap.Logger, fields ...zap.Field) *zap.Logger {
	if log == nil {
		log = zap.NewNop()
	}

	if len(fields) == 0 {
		return log
	}

	return log.With(fields...)
}

// CommonFields describes the AI provider and model behind a generator.
func CommonFields(provider, model string) []zap.Field {
	return StringFields(
		StringField{Key: FieldProvider, Value: provider},
		StringField{Key: FieldModel, Value: model},
	)
}

// WithCommonFields attaches the provider and model fields to log.
func WithCommonFields(log *zap.Logger, provider, model string) *zap.Logger {
	return WithFields(log, CommonFields(provider, model)...)
}

// WithOperation scopes log to a single advisor operation.
func WithOperation(log *zap.Logger, operation string) *zap.Logger {
	return WithFields(log, StringFields(StringField{Key: FieldOperation, Value: operation})...)
}
