package ctxutil

import "context"

// Default guards call sites that may receive a nil context, substituting
// context.Background() so downstream requests never panic.
func Default(ctx context.Context) context.Context {
	if ctx == nil {
		return context.Background()
	}
	return ctx
}
