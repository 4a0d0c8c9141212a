package session

import (
	"context"

	"github.com/google/uuid"
)

type keyContext struct{}

const DefaultKey = "default"

// WithKey routes the controllers looked up with ctx to the session key.
func WithKey(ctx context.Context, key string) context.Context {
	return context.WithValue(ctx, keyContext{}, key)
}

func KeyFromContext(ctx context.Context) (string, bool) {
	value := ctx.Value(keyContext{})
	if value == nil {
		return "", false
	}
	key, ok := value.(string)
	return key, ok
}

func keyOrDefault(ctx context.Context) string {
	key, ok := KeyFromContext(ctx)
	if ok && key != "" {
		return key
	}
	return DefaultKey
}

func NewKey() string {
	return uuid.NewString()
}
