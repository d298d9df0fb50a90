// Package httpapi exposes labels, history, commands and the live event stream over HTTP.
package httpapi

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/thenoetrevino/relabel/internal/auth"
	"github.com/thenoetrevino/relabel/internal/hub"
	"github.com/thenoetrevino/relabel/internal/services/history"
	"github.com/thenoetrevino/relabel/internal/services/label"
	"github.com/thenoetrevino/relabel/internal/services/mutation"
)

// Deps are the collaborators the API serves
type Deps struct {
	Store     *label.Store
	Ledger    *history.Ledger
	Mutations *mutation.Service
	Hub       *hub.Hub
	Issuer    *auth.Issuer
}

// Options tune transport behavior
type Options struct {
	AllowedOrigins []string
	PingInterval   time.Duration
}

// Server holds the gin engine and its dependencies
type Server struct {
	deps   Deps
	opts   Options
	router *gin.Engine
}

// New creates the API server and registers its routes
func New(deps Deps, opts Options) *Server {
	if opts.PingInterval <= 0 {
		opts.PingInterval = 30 * time.Second
	}

	s := &Server{
		deps:   deps,
		opts:   opts,
		router: gin.New(),
	}
	s.routes()
	return s
}

// Handler returns the root http.Handler
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) routes() {
	r := s.router
	r.Use(gin.Recovery(), requestLogger(), cors(s.opts.AllowedOrigins))

	r.GET("/health", s.health)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := r.Group("/api")

	labels := api.Group("/labels")
	labels.GET("", s.listLabels)

	admin := api.Group("", authRequired(s.deps.Issuer), adminOnly())
	admin.GET("/labels/history", s.labelHistory)
	admin.GET("/labels/search", s.searchLabels)
	admin.PUT("/labels/:key", s.updateLabel)
	admin.POST("/chatbot/process", s.processCommand)
	admin.GET("/events", s.streamEvents)

	r.NoRoute(func(c *gin.Context) {
		sendError(c, http.StatusNotFound, fmt.Sprintf("Route %s not found", c.Request.URL.Path))
	})
}
