// Package ui exposes the analysis service over HTTP with gin.
package ui

import (
	"log"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"

	"shotlens/app"
	"shotlens/internal/config"
	"shotlens/internal/metrics"
)

// Server owns the single active analysis session behind an RW mutex. Reads
// (aggregation, analysis, shot listings) share the lock; initialize and
// recompute take it exclusively.
type Server struct {
	svc      *app.Service
	defaults config.GridConfig

	mu   sync.RWMutex
	sess *app.Session
}

// NewServer creates the HTTP boundary around the analysis service.
func NewServer(svc *app.Service, defaults config.GridConfig) *Server {
	return &Server{svc: svc, defaults: defaults}
}

// Router builds the gin engine with all routes attached.
func (s *Server) Router() *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery(), requestMetrics())

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	router.GET("/metrics", gin.WrapH(metrics.Handler()))

	router.GET("/players", s.handlePlayers)
	router.POST("/initialize", s.handleInitialize)
	router.POST("/recompute", s.handleRecompute)
	router.POST("/aggregate-cluster", s.handleAggregateCluster)
	router.POST("/analyze-clusters", s.handleAnalyzeClusters)
	router.POST("/cluster-shots", s.handleClusterShots)

	return router
}

// Run serves until the listener fails.
func (s *Server) Run(addr string) error {
	log.Printf("[Server] listening on %s", addr)
	return s.Router().Run(addr)
}

// requestMetrics observes handler latency per route and status.
func requestMetrics() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		metrics.RequestDuration.
			WithLabelValues(route, strconv.Itoa(c.Writer.Status())).
			Observe(time.Since(start).Seconds())
	}
}
