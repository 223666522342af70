package router

import (
	"context"
	"net/http"

	"github.com/cryptojackpot/lottery/pkg/ws"
	"github.com/cryptojackpot/lottery/pkg/xcontext"
	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

type WsHandlerFunc[Request any] func(ctx context.Context, req *Request) error

// Websocket registers a handler that upgrades the connection and exposes it
// through xcontext.WsClient. The request is bound from query values since
// the upgrade happens on a GET.
func Websocket[Request any](r *Router, pattern string, handler WsHandlerFunc[Request]) {
	r.Inner.GET(pattern, func(gctx *gin.Context) {
		ctx, err := r.setupContext(gctx)
		if err != nil {
			writeError(gctx, err)
			return
		}

		var req Request
		if err := gctx.ShouldBindQuery(&req); err != nil {
			r.logger.Debugf("Cannot bind websocket request: %v", err)
			gctx.Status(http.StatusBadRequest)
			return
		}

		conn, err := upgrader.Upgrade(gctx.Writer, gctx.Request, nil)
		if err != nil {
			r.logger.Warnf("Cannot upgrade connection: %v", err)
			return
		}

		client := ws.NewClient(conn)
		defer client.Close()

		ctx = xcontext.WithWsClient(ctx, client)
		if err := handler(ctx, &req); err != nil {
			r.logger.Debugf("Websocket handler stopped: %v", err)
		}
	})
}
