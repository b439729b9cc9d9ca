// Package server exposes the document QA service over an HTTP JSON API.
package server

import (
	"net/http"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/docuchat-ai/docuchat/internal/metrics"
	"github.com/docuchat-ai/docuchat/internal/session"
	"github.com/docuchat-ai/docuchat/internal/source"
	"github.com/docuchat-ai/docuchat/pkg/logger"
)

// Server wires the session manager and document sources into HTTP handlers.
type Server struct {
	manager     *session.Manager
	local       source.Source
	dropbox     source.Source // nil when no token is configured
	transcripts *session.Transcripts
	metrics     *metrics.Metrics
	log         *logger.Logger

	progress sync.Map // session ID -> *loadProgress
}

type loadProgress struct {
	mu    sync.Mutex
	done  int
	total int
}

// New creates a Server. dropbox may be nil when the Dropbox source is not
// configured.
func New(
	manager *session.Manager,
	local source.Source,
	dropbox source.Source,
	transcripts *session.Transcripts,
	m *metrics.Metrics,
	log *logger.Logger,
) *Server {
	return &Server{
		manager:     manager,
		local:       local,
		dropbox:     dropbox,
		transcripts: transcripts,
		metrics:     m,
		log:         log,
	}
}

// Router builds the gin engine with all routes registered.
func (s *Server) Router() *gin.Engine {
	r := gin.Default()

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := r.Group("/api/v1")
	{
		api.POST("/sessions", s.createSession)
		api.DELETE("/sessions/:id", s.destroySession)
		api.GET("/sessions/:id", s.sessionStatus)
		api.GET("/sessions/:id/files", s.listFiles)
		api.POST("/sessions/:id/upload", s.upload)
		api.POST("/sessions/:id/load", s.load)
		api.POST("/sessions/:id/query", s.query)
		api.POST("/sessions/:id/refresh", s.refresh)
		api.GET("/artifacts/:name", s.downloadArtifact)
	}

	return r
}

// sourceFor resolves an origin name to the session's source for it.
func (s *Server) sourceFor(sess *session.Session, origin string) (source.Source, bool) {
	switch source.Origin(origin) {
	case source.OriginLocal:
		return s.local, true
	case source.OriginUpload:
		return sess.Upload(), true
	case source.OriginDropbox:
		if s.dropbox == nil {
			return nil, false
		}
		return s.dropbox, true
	default:
		return nil, false
	}
}
