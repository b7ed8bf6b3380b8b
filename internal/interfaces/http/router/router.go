package router

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/stocksync/backend/internal/domain/syncing"
	"github.com/stocksync/backend/internal/infrastructure/logger"
	"github.com/stocksync/backend/internal/interfaces/http/middleware"
)

// RouteRegistrar defines the interface for registering routes
type RouteRegistrar interface {
	RegisterRoutes(rg *gin.RouterGroup)
}

// WebhookRegistrar registers routes behind the webhook auth middleware
type WebhookRegistrar interface {
	RegisterRoutes(rg *gin.RouterGroup, auth gin.HandlerFunc)
}

// Router manages HTTP route registration
type Router struct {
	engine     *gin.Engine
	apiVersion string
	registrars []RouteRegistrar
	webhooks   WebhookRegistrar
	secret     middleware.SecretProvider
	events     syncing.EventRecorder
}

// RouterOption is a functional option for Router configuration
type RouterOption func(*Router)

// WithAPIVersion sets the API version prefix (e.g., "v1", "v2")
func WithAPIVersion(version string) RouterOption {
	return func(r *Router) {
		r.apiVersion = version
	}
}

// WithWebhooks mounts a webhook registrar behind shared-secret auth
func WithWebhooks(registrar WebhookRegistrar, secret middleware.SecretProvider, events syncing.EventRecorder) RouterOption {
	return func(r *Router) {
		r.webhooks = registrar
		r.secret = secret
		r.events = events
	}
}

// NewRouter creates a new Router instance
func NewRouter(engine *gin.Engine, opts ...RouterOption) *Router {
	r := &Router{
		engine:     engine,
		apiVersion: "v1",
		registrars: make([]RouteRegistrar, 0),
	}

	for _, opt := range opts {
		opt(r)
	}

	return r
}

// Register adds a RouteRegistrar to be registered later
func (r *Router) Register(registrar RouteRegistrar) *Router {
	r.registrars = append(r.registrars, registrar)
	return r
}

// Setup registers all routes with the engine
func (r *Router) Setup() {
	api := r.engine.Group("/api/" + r.apiVersion)

	for _, registrar := range r.registrars {
		registrar.RegisterRoutes(api)
	}

	if r.webhooks != nil {
		r.webhooks.RegisterRoutes(api, middleware.WebhookAuth(r.secret, r.events))
	}
}

// NewEngine builds a gin engine with the standard middleware chain
func NewEngine(log *zap.Logger) *gin.Engine {
	engine := gin.New()
	engine.Use(
		middleware.RequestID(),
		logger.RequestLogger(log),
		logger.Recovery(log),
	)
	return engine
}
