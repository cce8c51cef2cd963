package web

import (
	"context"
	"net/http"
)

type ContextKey string

func AddValueToContext(r *http.Request, key ContextKey, value any) *http.Request {
	ctx := context.WithValue(r.Context(), key, value)
	return r.WithContext(ctx)
}

func GetValueFromContext[T any](r *http.Request, key ContextKey) (T, bool) {
	var zero T
	val := r.Context().Value(key)
	if val == nil {
		return zero, false
	}

	tVal, ok := val.(T)
	if !ok {
		return zero, false
	}

	return tVal, true
}
