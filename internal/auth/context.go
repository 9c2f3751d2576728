package auth

import (
	"context"
	"net/http"
)

type ctxKey string

const registerIDKey ctxKey = "register_id"

// DefaultRegisterID is used when the client does not identify its register.
// The app is a single-operator point of sale, so an anonymous session is fine.
const DefaultRegisterID = "default"

// RegisterIDMiddleware reads the register session id from the X-Register-ID
// header and stores it on the request context.
func RegisterIDMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get("X-Register-ID")
		if id == "" {
			id = DefaultRegisterID
		}
		ctx := context.WithValue(r.Context(), registerIDKey, id)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// GetRegisterID returns the register session id carried by the context.
func GetRegisterID(ctx context.Context) string {
	if val, ok := ctx.Value(registerIDKey).(string); ok {
		return val
	}
	return DefaultRegisterID
}
