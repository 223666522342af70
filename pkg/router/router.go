package router

import (
	"context"
	"net/http"

	"github.com/cryptojackpot/lottery/config"
	"github.com/cryptojackpot/lottery/pkg/authenticator"
	"github.com/cryptojackpot/lottery/pkg/errorx"
	"github.com/cryptojackpot/lottery/pkg/logger"
	"github.com/cryptojackpot/lottery/pkg/xcontext"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type HandlerFunc[Request, Response any] func(ctx context.Context, req *Request) (*Response, error)
type MiddlewareFunc func(ctx context.Context) (context.Context, error)

type Router struct {
	Inner gin.IRouter

	cfg         config.Configs
	logger      logger.Logger
	db          *gorm.DB
	tokenEngine authenticator.TokenEngine
	befores     []MiddlewareFunc
}

func New(db *gorm.DB, cfg config.Configs, l logger.Logger) *Router {
	return &Router{
		Inner:       gin.New(),
		cfg:         cfg,
		logger:      l,
		db:          db,
		tokenEngine: authenticator.NewTokenEngine(cfg.Auth.TokenSecret),
	}
}

// Branch returns a router sharing the same gin engine but with an
// independent middleware chain.
func (r *Router) Branch() *Router {
	branch := *r
	branch.befores = append([]MiddlewareFunc{}, r.befores...)
	return &branch
}

func (r *Router) Before(middleware MiddlewareFunc) {
	r.befores = append(r.befores, middleware)
}

func (r *Router) Handler() http.Handler {
	return r.Inner.(*gin.Engine)
}

func GET[Request, Response any](r *Router, pattern string, handler HandlerFunc[Request, Response]) {
	r.Inner.GET(pattern, wrapHandler(r, http.MethodGet, handler))
}

func POST[Request, Response any](r *Router, pattern string, handler HandlerFunc[Request, Response]) {
	r.Inner.POST(pattern, wrapHandler(r, http.MethodPost, handler))
}

func wrapHandler[Request, Response any](
	r *Router, method string, handler HandlerFunc[Request, Response],
) gin.HandlerFunc {
	return func(gctx *gin.Context) {
		ctx, err := r.setupContext(gctx)
		if err != nil {
			writeError(gctx, err)
			return
		}

		var req Request
		if method == http.MethodGet {
			err = gctx.ShouldBindQuery(&req)
		} else {
			err = gctx.ShouldBindJSON(&req)
		}

		if err != nil {
			r.logger.Debugf("Cannot bind request: %v", err)
			writeError(gctx, errorx.New(errorx.BadRequest, "Invalid request"))
			return
		}

		resp, err := handler(ctx, &req)
		if err != nil {
			writeError(gctx, err)
			return
		}

		gctx.JSON(http.StatusOK, response{Code: 0, Data: resp})
	}
}

func (r *Router) setupContext(gctx *gin.Context) (context.Context, error) {
	ctx := gctx.Request.Context()
	ctx = xcontext.WithDB(ctx, r.db)
	ctx = xcontext.WithConfigs(ctx, r.cfg)
	ctx = xcontext.WithLogger(ctx, r.logger)
	ctx = xcontext.WithTokenEngine(ctx, r.tokenEngine)
	ctx = withHTTPRequest(ctx, gctx.Request)

	var err error
	for _, middleware := range r.befores {
		ctx, err = middleware(ctx)
		if err != nil {
			return nil, err
		}
	}

	return ctx, nil
}
