// Package web serves the site over HTTP. Handlers stay thin: they ask the
// guard, call the store or the feed composer, and render a template.
package web

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"yatube/internal/auth"
	"yatube/internal/cache"
	"yatube/internal/clock"
	"yatube/internal/feed"
	"yatube/internal/guard"
	"yatube/internal/media"
	"yatube/internal/messaging"
	"yatube/internal/store"
)

type Options struct {
	Store    *store.Store
	Composer *feed.Composer
	Guard    *guard.Guard
	Cache    cache.PageCache
	Media    media.Store
	Events   messaging.Publisher
	Tokens   *auth.Tokens
	Logger   *slog.Logger
	Clock    clock.Clock
	// CORSOrigins enables cross-origin requests from these origins when
	// non-empty.
	CORSOrigins []string
}

type Server struct {
	store    *store.Store
	composer *feed.Composer
	guard    *guard.Guard
	pages    *cache.Loader
	media    media.Store
	events   messaging.Publisher
	tokens   *auth.Tokens
	views    *Renderer
	log      *slog.Logger
	clock    clock.Clock
	router   *gin.Engine
}

func New(opts Options) (*Server, error) {
	views, err := NewRenderer()
	if err != nil {
		return nil, err
	}
	events := opts.Events
	if events == nil {
		events = messaging.Nop{}
	}
	clk := opts.Clock
	if clk == nil {
		clk = clock.Real()
	}
	s := &Server{
		store:    opts.Store,
		composer: opts.Composer,
		guard:    opts.Guard,
		pages:    cache.NewLoader(opts.Cache),
		media:    opts.Media,
		events:   messaging.Logged{Next: events, Logger: opts.Logger},
		tokens:   opts.Tokens,
		views:    views,
		log:      opts.Logger,
		clock:    clk,
	}
	s.router = s.routes(opts.CORSOrigins)
	return s, nil
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// ClearCache drops every cached page.
func (s *Server) ClearCache(ctx context.Context) error {
	return s.pages.Clear(ctx)
}

func (s *Server) routes(corsOrigins []string) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery(), s.requestLogger)
	if len(corsOrigins) > 0 {
		router.Use(cors.New(cors.Config{
			AllowOrigins:     corsOrigins,
			AllowMethods:     []string{"GET", "POST", "OPTIONS"},
			AllowHeaders:     []string{"Content-Type", "Authorization"},
			AllowCredentials: true,
		}))
	}
	router.Use(s.authenticate)

	router.GET("/", s.index)
	router.GET("/group/:slug/", s.groupPosts)
	router.GET("/profile/:username/", s.profile)
	router.GET("/posts/:id/", s.postDetail)
	router.GET("/create/", s.postCreate)
	router.POST("/create/", s.postCreate)
	router.GET("/posts/:id/edit/", s.postEdit)
	router.POST("/posts/:id/edit/", s.postEdit)
	router.GET("/posts/:id/comment/", s.addComment)
	router.POST("/posts/:id/comment/", s.addComment)
	router.GET("/follow/", s.followIndex)
	router.GET("/profile/:username/follow/", s.profileFollow)
	router.GET("/profile/:username/unfollow/", s.profileUnfollow)
	router.GET("/media/:ref", s.mediaFile)
	router.GET("/health", s.health)

	router.NoRoute(s.notFound)
	return router
}

func (s *Server) requestLogger(c *gin.Context) {
	start := time.Now()
	c.Next()
	s.log.Info("request",
		"method", c.Request.Method,
		"path", c.Request.URL.Path,
		"status", c.Writer.Status(),
		"duration", time.Since(start),
	)
}

func (s *Server) health(c *gin.Context) {
	status, code := "healthy", http.StatusOK
	database := "connected"
	if err := s.store.Ping(c.Request.Context()); err != nil {
		status, code, database = "unhealthy", http.StatusServiceUnavailable, err.Error()
	}
	c.JSON(code, gin.H{
		"status":    status,
		"timestamp": s.clock.Now().Format(time.RFC3339),
		"service":   "yatube",
		"database":  database,
	})
}
