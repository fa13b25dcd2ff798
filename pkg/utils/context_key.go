package utils

import (
	"context"
	"errors"
)

type ContextKey string

// OwnerIDFromContext pulls the authenticated caller's owner id out of
// the request context. JWT numeric claims decode as float64.
func OwnerIDFromContext(ctx context.Context) (int64, error) {
	switch v := ctx.Value(ContextKey("userId")).(type) {
	case float64:
		return int64(v), nil
	case int64:
		return v, nil
	default:
		return 0, errors.New("no authenticated user in context")
	}
}
