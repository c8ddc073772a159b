package transport

import (
	"context"
	"net/http"
	"strings"

	"github.com/rpggio/feeuplift/internal/domain/audit"
)

// ActorHeader names the acting user. Requests without it act as the system.
const ActorHeader = "X-Actor-Id"

type actorKey struct{}

// ActorFromContext returns the request actor, defaulting to the system actor.
func ActorFromContext(ctx context.Context) audit.Actor {
	actor, ok := ctx.Value(actorKey{}).(audit.Actor)
	if !ok {
		return audit.System()
	}
	return actor
}

// ActorMiddleware extracts X-Actor-Id and stores the actor in context.
func ActorMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := strings.TrimSpace(r.Header.Get(ActorHeader))
		if id != "" {
			ctx := context.WithValue(r.Context(), actorKey{}, audit.User(id))
			next.ServeHTTP(w, r.WithContext(ctx))
			return
		}
		next.ServeHTTP(w, r)
	})
}
