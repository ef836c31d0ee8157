package api

import (
	"net/http"

	"github.com/klauspost/compress/gzhttp"
	"golang.org/x/time/rate"

	apperrors "size-convert/internal/errors"
)

// Middleware wraps a handler
type Middleware func(http.Handler) http.Handler

// Chain applies middlewares so the first one is outermost
func Chain(h http.Handler, mws ...Middleware) http.Handler {
	for i := len(mws) - 1; i >= 0; i-- {
		h = mws[i](h)
	}
	return h
}

// RateLimit rejects requests with 429 once the limiter is exhausted.
// A nil limiter disables limiting.
func RateLimit(l *rate.Limiter) Middleware {
	return func(next http.Handler) http.Handler {
		if l == nil {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !l.Allow() {
				w.Header().Set("Retry-After", "1")
				writeErrorBody(w, "RATE_LIMITED", "too many requests", http.StatusTooManyRequests)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// Compress gzips responses of at least minSize bytes for clients that accept it
func Compress(minSize int) (Middleware, error) {
	wrapper, err := gzhttp.NewWrapper(gzhttp.MinSize(minSize))
	if err != nil {
		return nil, apperrors.Config("compression", err)
	}
	return func(next http.Handler) http.Handler {
		return wrapper(next)
	}, nil
}
