package mcp

import (
	"context"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/rpggio/feeuplift/internal/domain/audit"
)

// ActorHeader carries the acting user's id on HTTP requests.
const ActorHeader = "X-Actor-Id"

type contextKey int

const actorIDKey contextKey = iota

// getActorID extracts the request actor from context.
func getActorID(ctx context.Context) string {
	v, _ := ctx.Value(actorIDKey).(string)
	return v
}

// resolveActor prefers an explicit tool argument over the request actor.
func resolveActor(ctx context.Context, explicit string) audit.Actor {
	if explicit != "" {
		return audit.User(explicit)
	}
	return audit.User(getActorID(ctx))
}

// actorMiddleware reads the actor from the X-Actor-Id header (HTTP) or
// _meta.actor_id (stdio).
func actorMiddleware() sdkmcp.Middleware {
	return func(next sdkmcp.MethodHandler) sdkmcp.MethodHandler {
		return func(ctx context.Context, method string, req sdkmcp.Request) (sdkmcp.Result, error) {
			var actorID string

			extra := req.GetExtra()
			if extra != nil && extra.Header != nil {
				actorID = extra.Header.Get(ActorHeader)
			}

			// Some notifications carry nil params behind a non-nil interface.
			if actorID == "" {
				if params := req.GetParams(); params != nil {
					func() {
						defer func() { recover() }()
						if meta := params.GetMeta(); meta != nil {
							if id, ok := meta["actor_id"].(string); ok {
								actorID = id
							}
						}
					}()
				}
			}

			if actorID != "" {
				ctx = context.WithValue(ctx, actorIDKey, actorID)
			}

			return next(ctx, method, req)
		}
	}
}
