// Package daemon exposes the journey pipeline over a local HTTP service.
// A browser extension (or the CLI) pushes extracted page content and
// queries the daily summary through a single action-message endpoint.
package daemon

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/sirupsen/logrus"

	"github.com/runnerr0/journey/internal/aggregate"
	"github.com/runnerr0/journey/internal/extract"
	"github.com/runnerr0/journey/internal/journal"
)

// Message is the request envelope: an action name plus action-specific
// payload.
type Message struct {
	Action string          `json:"action"`
	Data   json.RawMessage `json:"data,omitempty"`
}

// extractRequest is the payload of the extractPageContent action: raw
// HTML to run through the extractor before recording.
type extractRequest struct {
	URL  string `json:"url"`
	HTML string `json:"html"`
}

// Server is the journey ingest daemon.
type Server struct {
	echo       *echo.Echo
	aggregator *aggregate.Aggregator
	store      *journal.Store
	extractor  *extract.Extractor
	log        *logrus.Logger
	addr       string
}

// New creates a Server listening on host:port.
func New(host string, port int, maxRequestSize int, aggregator *aggregate.Aggregator, store *journal.Store, log *logrus.Logger) *Server {
	if log == nil {
		log = logrus.New()
	}

	s := &Server{
		aggregator: aggregator,
		store:      store,
		extractor:  extract.New(),
		log:        log,
		addr:       fmt.Sprintf("%s:%d", host, port),
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Use(middleware.Recover())
	if maxRequestSize > 0 {
		e.Use(middleware.BodyLimit(fmt.Sprintf("%d", maxRequestSize)))
	}
	e.Use(s.requestLogger)

	e.POST("/message", s.handleMessage)
	e.GET("/status", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	})

	s.echo = e
	return s
}

// requestLogger logs each completed request through logrus.
func (s *Server) requestLogger(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		err := next(c)
		s.log.WithFields(logrus.Fields{
			"method": c.Request().Method,
			"path":   c.Request().URL.Path,
			"status": c.Response().Status,
		}).Debug("request completed")
		return err
	}
}

// Start runs the server until Shutdown. It returns nil on a clean
// shutdown.
func (s *Server) Start() error {
	s.log.WithField("addr", s.addr).Info("daemon listening")
	err := s.echo.Start(s.addr)
	if err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("daemon: %w", err)
	}
	return nil
}

// Shutdown stops the server gracefully.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.echo.Shutdown(ctx)
}

// handleMessage dispatches the action envelope.
func (s *Server) handleMessage(c echo.Context) error {
	var msg Message
	if err := c.Bind(&msg); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid message"})
	}

	ctx := c.Request().Context()

	switch msg.Action {
	case "ping":
		return c.JSON(http.StatusOK, map[string]string{"status": "alive"})

	case "pageContentExtracted":
		return s.handlePageContent(c, ctx, msg.Data)

	case "extractPageContent":
		return s.handleExtract(c, ctx, msg.Data)

	case "getDailySummary":
		summary, err := s.aggregator.DailySummary(ctx)
		if err != nil {
			return c.JSON(http.StatusInternalServerError, map[string]string{"error": "summary unavailable"})
		}
		return c.JSON(http.StatusOK, map[string]any{"summary": summary})

	case "clearData":
		if err := s.store.Clear(ctx); err != nil {
			s.log.WithError(err).Error("clear failed")
			return c.JSON(http.StatusInternalServerError, map[string]any{"success": false})
		}
		return c.JSON(http.StatusOK, map[string]any{"success": true})

	default:
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "unknown action: " + msg.Action})
	}
}

// handlePageContent records already-extracted content pushed by the
// extension.
func (s *Server) handlePageContent(c echo.Context, ctx context.Context, data json.RawMessage) error {
	var content extract.Content
	if err := json.Unmarshal(data, &content); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid page content"})
	}
	if content.Metadata.URL == "" {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "missing url"})
	}

	if err := s.aggregator.RecordVisit(ctx, content); err != nil {
		s.log.WithError(err).WithField("url", content.Metadata.URL).Error("record visit failed")
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "record failed"})
	}
	return c.JSON(http.StatusOK, map[string]any{"ok": true})
}

// handleExtract runs the extractor over raw HTML, records the visit, and
// echoes the extracted content back.
func (s *Server) handleExtract(c echo.Context, ctx context.Context, data json.RawMessage) error {
	var req extractRequest
	if err := json.Unmarshal(data, &req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid extract request"})
	}
	if req.URL == "" {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "missing url"})
	}

	doc, err := extract.ParseHTML(strings.NewReader(req.HTML))
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "unparseable html"})
	}

	content := s.extractor.Extract(doc, req.URL)
	if err := s.aggregator.RecordVisit(ctx, content); err != nil {
		s.log.WithError(err).WithField("url", req.URL).Error("record visit failed")
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "record failed"})
	}
	return c.JSON(http.StatusOK, map[string]any{"ok": true, "content": content})
}
