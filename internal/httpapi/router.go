// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package httpapi exposes the query façade over HTTP: one REST endpoint per
// operation, a health check, and MCP JSON-RPC messages on POST /mcp.
package httpapi

import (
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/pdiddy/regulation-server/internal/mcp"
	"github.com/pdiddy/regulation-server/internal/query"
)

// RequestIDHeader carries the request id on requests and responses.
const RequestIDHeader = "X-Request-ID"

// maxMCPBody bounds the size of a POST /mcp body.
const maxMCPBody = 4 << 20

// Handler serves the HTTP endpoints.
type Handler struct {
	app    *query.App
	rpc    *mcp.Server
	logger *zap.Logger
}

// NewHandler returns a Handler backed by app and rpc.
func NewHandler(app *query.App, rpc *mcp.Server, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{app: app, rpc: rpc, logger: logger}
}

// Router builds the gin engine with all routes and middleware.
func (h *Handler) Router() *gin.Engine {
	r := gin.New()
	r.Use(requestID(), accessLog(h.logger), gin.Recovery())

	r.GET("/health", h.Health)

	r.GET("/regulations", h.ListRegulations)
	r.GET("/regulations/:id", h.GetRegulation)
	r.GET("/regions", h.ListRegions)
	r.GET("/regions/:id", h.GetRegion)
	r.GET("/search", h.SearchRegulations)

	r.POST("/mcp", h.MCP)

	return r
}

// Health handles GET /health.
func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":      "ok",
		"regulations": h.app.Regulations.Len(),
		"regions":     h.app.Regions.Len(),
	})
}

// ListRegulations handles GET /regulations.
func (h *Handler) ListRegulations(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"regulations": h.app.ListRegulations()})
}

// ListRegions handles GET /regions.
func (h *Handler) ListRegions(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"regions": h.app.ListRegions()})
}

// GetRegulation handles GET /regulations/:id.
func (h *Handler) GetRegulation(c *gin.Context) {
	respond(c, h.app.GetRegulation(c.Param("id")))
}

// GetRegion handles GET /regions/:id.
func (h *Handler) GetRegion(c *gin.Context) {
	respond(c, h.app.GetRegion(c.Param("id")))
}

// SearchRegulations handles GET /search?keywords=... ("q" is accepted too).
// An empty result is the façade's one-element message list with status 200.
func (h *Handler) SearchRegulations(c *gin.Context) {
	keywords, ok := c.GetQuery("keywords")
	if !ok {
		keywords, ok = c.GetQuery("q")
	}
	if !ok {
		c.JSON(http.StatusBadRequest, query.ErrorResponse{Error: "missing required query parameter 'keywords'"})
		return
	}
	c.JSON(http.StatusOK, h.app.SearchRegulations(keywords))
}

// MCP handles POST /mcp: one JSON-RPC message per request. Notifications
// are acknowledged with 202 and no body.
func (h *Handler) MCP(c *gin.Context) {
	body, err := io.ReadAll(io.LimitReader(c.Request.Body, maxMCPBody))
	if err != nil {
		c.JSON(http.StatusBadRequest, query.ErrorResponse{Error: "reading request body: " + err.Error()})
		return
	}
	resp, ok := h.rpc.Handle(c.Request.Context(), body)
	if !ok {
		c.Status(http.StatusAccepted)
		return
	}
	c.Data(http.StatusOK, "application/json", resp)
}

func respond(c *gin.Context, v any) {
	status := http.StatusOK
	if query.IsNotFound(v) {
		status = http.StatusNotFound
	}
	c.JSON(status, v)
}

// requestID propagates the caller's X-Request-ID or assigns a new one.
func requestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(RequestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		c.Set("request_id", id)
		c.Header(RequestIDHeader, id)
		c.Next()
	}
}

// accessLog writes one structured log line per request.
func accessLog(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		logger.Info("request",
			zap.String("request_id", c.GetString("request_id")),
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)))
	}
}
