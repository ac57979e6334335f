package services

import "context"

type contextKey string

const (
	individualIDKey contextKey = "individual_id"
	resolutionIDKey contextKey = "resolution_id"
	stageKey        contextKey = "stage"
)

// WithIndividualID annotates context with the roster individual identifier.
func WithIndividualID(ctx context.Context, id string) context.Context {
	if id == "" {
		return ctx
	}
	return context.WithValue(ctx, individualIDKey, id)
}

// IndividualIDFromContext extracts the individual identifier if present.
func IndividualIDFromContext(ctx context.Context) (string, bool) {
	if str, ok := ctx.Value(individualIDKey).(string); ok && str != "" {
		return str, true
	}
	return "", false
}

// WithResolutionID annotates context with the resolution pass correlation identifier.
func WithResolutionID(ctx context.Context, id string) context.Context {
	if id == "" {
		return ctx
	}
	return context.WithValue(ctx, resolutionIDKey, id)
}

// ResolutionIDFromContext extracts the resolution correlation identifier if present.
func ResolutionIDFromContext(ctx context.Context) (string, bool) {
	if str, ok := ctx.Value(resolutionIDKey).(string); ok && str != "" {
		return str, true
	}
	return "", false
}

// WithStage annotates context with the resolution stage name.
func WithStage(ctx context.Context, stage string) context.Context {
	if stage == "" {
		return ctx
	}
	return context.WithValue(ctx, stageKey, stage)
}

// StageFromContext returns the stage name if present.
func StageFromContext(ctx context.Context) (string, bool) {
	if str, ok := ctx.Value(stageKey).(string); ok && str != "" {
		return str, true
	}
	return "", false
}
