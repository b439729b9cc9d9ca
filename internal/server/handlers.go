package server

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/docuchat-ai/docuchat/internal/rag/loaders"
	"github.com/docuchat-ai/docuchat/internal/rag/pipeline"
	"github.com/docuchat-ai/docuchat/internal/session"
	"github.com/docuchat-ai/docuchat/internal/source"
)

func (s *Server) createSession(c *gin.Context) {
	sess := s.manager.Create()
	s.metrics.SessionsActive.Inc()
	c.JSON(http.StatusCreated, gin.H{"session_id": sess.ID})
}

func (s *Server) destroySession(c *gin.Context) {
	// Only a removal that actually happened moves the gauge, so repeated
	// deletes of the same id cannot drive it negative.
	if s.manager.Destroy(c.Param("id")) {
		s.metrics.SessionsActive.Dec()
	}
	c.Status(http.StatusNoContent)
}

func (s *Server) sessionStatus(c *gin.Context) {
	sess, err := s.manager.Get(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}

	status := gin.H{
		"state":     sess.State().String(),
		"last_load": sess.LastLoad(),
	}
	if p, ok := s.progress.Load(sess.ID); ok {
		lp := p.(*loadProgress)
		lp.mu.Lock()
		status["progress"] = gin.H{"done": lp.done, "total": lp.total}
		lp.mu.Unlock()
	}
	c.JSON(http.StatusOK, status)
}

func (s *Server) listFiles(c *gin.Context) {
	sess, err := s.manager.Get(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}

	origin := c.DefaultQuery("origin", string(source.OriginLocal))
	src, ok := s.sourceFor(sess, origin)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("unknown or unconfigured origin %q", origin)})
		return
	}

	files, err := src.List(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		return
	}
	if files == nil {
		files = []source.FileDescriptor{}
	}
	c.JSON(http.StatusOK, gin.H{"origin": origin, "files": files})
}

// upload receives a multipart batch under the "files" field. Files that don't
// sniff as documents are reported per-file, not rejected wholesale.
func (s *Server) upload(c *gin.Context) {
	sess, err := s.manager.Get(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}

	form, err := c.MultipartForm()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	headers := form.File["files"]
	if len(headers) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "no files in upload"})
		return
	}

	var accepted []string
	var rejected []gin.H
	for _, header := range headers {
		f, err := header.Open()
		if err != nil {
			rejected = append(rejected, gin.H{"name": header.Filename, "reason": err.Error()})
			continue
		}
		data, err := io.ReadAll(f)
		f.Close()
		if err != nil {
			rejected = append(rejected, gin.H{"name": header.Filename, "reason": err.Error()})
			continue
		}

		if err := sess.Upload().Put(header.Filename, data); err != nil {
			rejected = append(rejected, gin.H{"name": header.Filename, "reason": err.Error()})
			continue
		}
		accepted = append(accepted, header.Filename)
	}

	c.JSON(http.StatusOK, gin.H{"accepted": accepted, "rejected": rejected})
}

type loadRequest struct {
	Origin string   `json:"origin" binding:"required"`
	Files  []string `json:"files"` // empty selects every discovered file
}

// load runs the full ingestion pipeline. An empty selection defaults to all
// discovered files, matching the UI's "all selected" default.
func (s *Server) load(c *gin.Context) {
	sess, err := s.manager.Get(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}

	var req loadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	src, ok := s.sourceFor(sess, req.Origin)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("unknown or unconfigured origin %q", req.Origin)})
		return
	}

	available, err := src.List(c.Request.Context())
	if err != nil {
		s.metrics.LoadsTotal.WithLabelValues(req.Origin, "error").Inc()
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		return
	}

	selected := selectFiles(available, req.Files)
	if len(selected) == 0 {
		s.metrics.LoadsTotal.WithLabelValues(req.Origin, "empty").Inc()
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"warning": "no documents to load",
			"state":   sess.State().String(),
		})
		return
	}

	lp := &loadProgress{total: len(selected)}
	s.progress.Store(sess.ID, lp)
	defer s.progress.Delete(sess.ID)

	result, err := sess.Load(c.Request.Context(), src, selected, func(done, total int) {
		lp.mu.Lock()
		lp.done, lp.total = done, total
		lp.mu.Unlock()
	})

	if errors.Is(err, pipeline.ErrEmptyCorpus) {
		s.metrics.LoadsTotal.WithLabelValues(req.Origin, "empty").Inc()
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"warning": "no usable content in the selected files",
			"outcome": result.Outcome,
			"state":   sess.State().String(),
		})
		return
	}
	if err != nil {
		s.metrics.LoadsTotal.WithLabelValues(req.Origin, "error").Inc()
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	s.metrics.LoadsTotal.WithLabelValues(req.Origin, "ok").Inc()
	s.metrics.ChunksIndexed.Add(float64(result.Chunks))
	s.metrics.FilesSkippedTotal.Add(float64(len(result.Outcome.Skipped)))

	c.JSON(http.StatusOK, gin.H{
		"outcome": result.Outcome,
		"chunks":  result.Chunks,
		"state":   sess.State().String(),
	})
}

type queryRequest struct {
	Query string `json:"query" binding:"required"`
}

func (s *Server) query(c *gin.Context) {
	sess, err := s.manager.Get(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}

	var req queryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	start := time.Now()
	result, err := sess.Query(c.Request.Context(), req.Query)
	s.metrics.QueryDuration.Observe(time.Since(start).Seconds())

	if errors.Is(err, session.ErrNotLoaded) {
		s.metrics.QueriesTotal.WithLabelValues("not_loaded").Inc()
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		return
	}
	if err != nil {
		s.metrics.QueriesTotal.WithLabelValues("error").Inc()
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		return
	}

	s.metrics.QueriesTotal.WithLabelValues("ok").Inc()
	c.JSON(http.StatusOK, result)
}

func (s *Server) refresh(c *gin.Context) {
	sess, err := s.manager.Get(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}

	sess.Refresh(func() {
		if s.dropbox != nil {
			source.InvalidateAll(s.dropbox)
		}
	})

	c.JSON(http.StatusOK, gin.H{"state": sess.State().String()})
}

func (s *Server) downloadArtifact(c *gin.Context) {
	name := c.Param("name")
	path, err := s.transcripts.Path(name)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}
	c.FileAttachment(path, name)
}

// selectFiles filters the available descriptors down to the requested names.
// An empty request selects everything; names not present in the listing are
// ignored. Unsupported names never appear here because sources filter them,
// but an explicit request for one is kept so the load outcome reports it.
func selectFiles(available []source.FileDescriptor, requested []string) []source.FileDescriptor {
	if len(requested) == 0 {
		return available
	}

	byName := make(map[string]source.FileDescriptor, len(available))
	for _, desc := range available {
		byName[desc.Name] = desc
	}

	var selected []source.FileDescriptor
	for _, name := range requested {
		if desc, ok := byName[name]; ok {
			selected = append(selected, desc)
			continue
		}
		// Allow explicitly requested unsupported files through so the
		// outcome records the skip instead of silently dropping them.
		if !loaders.Supported(name) {
			selected = append(selected, source.FileDescriptor{Name: name, Path: name})
		}
	}
	return selected
}
