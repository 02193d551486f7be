package auth

import (
	"context"
	"net/http"
	"strconv"

	"github.com/quickeats/fulfillment/internal/service/models/actor"
)

type contextKey struct{}

var actorKey contextKey

// NewAuthMiddleware resolves the acting identity from the headers set by the
// upstream identity gateway. The gateway has already authenticated the
// caller; this service trusts the resolution completely.
func NewAuthMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		role, err := actor.ParseRole(r.Header.Get("X-Actor-Role"))
		if err != nil {
			http.Error(w, "unauthenticated", http.StatusUnauthorized)

			return
		}

		id, err := strconv.ParseInt(r.Header.Get("X-Actor-Id"), 10, 64)
		if err != nil {
			http.Error(w, "unauthenticated", http.StatusUnauthorized)

			return
		}

		act := actor.Actor{
			ID:           id,
			Role:         role,
			RestaurantID: parseOptionalID(r.Header.Get("X-Restaurant-Id")),
			DriverID:     parseOptionalID(r.Header.Get("X-Driver-Id")),
		}

		ctx := context.WithValue(r.Context(), actorKey, act)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// NewOptionalAuthMiddleware resolves the acting identity when the gateway
// headers are present and passes the request through anonymously otherwise.
// Used on endpoints that also serve guests.
func NewOptionalAuthMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		role, err := actor.ParseRole(r.Header.Get("X-Actor-Role"))
		if err != nil {
			next.ServeHTTP(w, r)

			return
		}

		id, err := strconv.ParseInt(r.Header.Get("X-Actor-Id"), 10, 64)
		if err != nil {
			next.ServeHTTP(w, r)

			return
		}

		act := actor.Actor{
			ID:           id,
			Role:         role,
			RestaurantID: parseOptionalID(r.Header.Get("X-Restaurant-Id")),
			DriverID:     parseOptionalID(r.Header.Get("X-Driver-Id")),
		}

		ctx := context.WithValue(r.Context(), actorKey, act)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// FromContext returns the actor resolved by the middleware.
func FromContext(ctx context.Context) (actor.Actor, bool) {
	act, ok := ctx.Value(actorKey).(actor.Actor)

	return act, ok
}

func parseOptionalID(s string) int64 {
	if s == "" {
		return 0
	}
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0
	}

	return id
}
