package middleware

import (
	"context"
	"strings"

	"github.com/cryptojackpot/lottery/pkg/errorx"
	"github.com/cryptojackpot/lottery/pkg/router"
	"github.com/cryptojackpot/lottery/pkg/xcontext"
)

// AuthVerifier resolves the bearer token into a user id on the context.
// Handlers behind it can rely on xcontext.RequestUserID being set.
func AuthVerifier() router.MiddlewareFunc {
	return func(ctx context.Context) (context.Context, error) {
		token := bearerToken(ctx)
		if token == "" {
			return nil, errorx.New(errorx.Unauthenticated, "You need to authenticate before")
		}

		userID, err := xcontext.TokenEngine(ctx).Verify(token)
		if err != nil {
			xcontext.Logger(ctx).Debugf("Cannot verify access token: %v", err)
			return nil, errorx.New(errorx.Unauthenticated, "Invalid access token")
		}

		return xcontext.WithRequestUserID(ctx, userID), nil
	}
}

func bearerToken(ctx context.Context) string {
	req := router.HTTPRequest(ctx)
	if req == nil {
		return ""
	}

	authorization := req.Header.Get("Authorization")
	if token, ok := strings.CutPrefix(authorization, "Bearer "); ok {
		return token
	}

	// Websocket clients cannot set headers from a browser, allow the token
	// as a query value there.
	return req.URL.Query().Get("token")
}
