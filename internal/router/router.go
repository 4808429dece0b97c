package router

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/parselyze/parselyze-go/internal/handler"
	"github.com/parselyze/parselyze-go/internal/middleware"
	"github.com/parselyze/parselyze-go/internal/webhook"
)

// Options holds what the webhook receiver routes need.
type Options struct {
	WebhookPath string
	Verifier    *webhook.Verifier
	Observer    middleware.VerificationObserver
	Metrics     http.Handler
	Log         zerolog.Logger
}

// Setup configures the Gin engine with all routes and middleware.
func Setup(opts Options, webhookH *handler.WebhookHandler, healthH *handler.HealthHandler) *gin.Engine {
	r := gin.New()

	// Global middleware
	r.Use(middleware.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(opts.Log))

	// Health checks
	r.GET("/healthz", healthH.Liveness)
	r.GET("/readyz", healthH.Readiness)

	if opts.Metrics != nil {
		r.GET("/metrics", gin.WrapH(opts.Metrics))
	}

	r.POST(opts.WebhookPath, middleware.WebhookSignature(opts.Verifier, opts.Observer), webhookH.Receive)

	return r
}
