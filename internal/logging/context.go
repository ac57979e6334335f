package logging

import (
	"context"
	"log/slog"

	"beacon/internal/services"
)

const (
	// FieldComponent is the standardized structured logging key for component names.
	FieldComponent = "component"
	// FieldIndividualID is the standardized structured logging key for roster individual identifiers.
	FieldIndividualID = "individual_id"
	// FieldResolutionID is the standardized structured logging key for resolution pass correlation identifiers.
	FieldResolutionID = "resolution_id"
	// FieldStage is the standardized structured logging key for resolution stage names.
	FieldStage = "stage"
	// FieldConfidence is the standardized structured logging key for match confidence values.
	FieldConfidence = "confidence"
	// FieldTier is the standardized structured logging key for match tier names.
	FieldTier = "tier"
)

// ContextFields extracts standardized slog attributes from the provided context.
func ContextFields(ctx context.Context) []slog.Attr {
	if ctx == nil {
		return nil
	}
	fields := make([]slog.Attr, 0, 3)
	if id, ok := services.ResolutionIDFromContext(ctx); ok {
		fields = append(fields, slog.String(FieldResolutionID, id))
	}
	if id, ok := services.IndividualIDFromContext(ctx); ok {
		fields = append(fields, slog.String(FieldIndividualID, id))
	}
	if stage, ok := services.StageFromContext(ctx); ok {
		fields = append(fields, slog.String(FieldStage, stage))
	}
	return fields
}

// WithContext returns a logger augmented with structured fields derived from the supplied context.
func WithContext(ctx context.Context, logger *slog.Logger) *slog.Logger {
	if logger == nil {
		logger = NewNop()
	}
	fields := ContextFields(ctx)
	if len(fields) == 0 {
		return logger
	}
	args := make([]any, 0, len(fields))
	for _, field := range fields {
		args = append(args, field)
	}
	return logger.With(args...)
}
