package llm

import (
	"context"
	"strings"
)

type modelContextKey struct{}

// WithModel overrides the model used for a single completion call.
func WithModel(ctx context.Context, model string) context.Context {
	clean := strings.TrimSpace(model)
	if clean == "" {
		return ctx
	}
	return context.WithValue(ctx, modelContextKey{}, clean)
}

func modelFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	if model, ok := ctx.Value(modelContextKey{}).(string); ok {
		return model
	}
	return ""
}
