package middleware

import (
	"context"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/kabulqd1101/kanban/repository"
)

// ActingUser resolves the acting-user identity for each request. There
// is no login flow: requests may name a seeded user via X-User-ID, and
// anything else falls back to the configured current user. Handlers
// downstream can rely on the header always carrying a known id.
func ActingUser(users repository.UserRepository, defaultUserID string, logger *zap.Logger) func(fasthttp.RequestHandler) fasthttp.RequestHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return func(next fasthttp.RequestHandler) fasthttp.RequestHandler {
		return func(ctx *fasthttp.RequestCtx) {
			userID := string(ctx.Request.Header.Peek("X-User-ID"))
			if userID != "" && userID != defaultUserID {
				if _, err := users.GetByID(context.Background(), userID); err != nil {
					logger.Warn("unknown acting user, falling back to default",
						zap.String("user_id", userID))
					userID = ""
				}
			}
			if userID == "" {
				userID = defaultUserID
			}
			ctx.Request.Header.Set("X-User-ID", userID)

			next(ctx)
		}
	}
}
