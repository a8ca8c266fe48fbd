package server

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/smoodsie/beatsync-codex/config"
	"github.com/smoodsie/beatsync-codex/internal/domain"
	"github.com/smoodsie/beatsync-codex/internal/job"
	"github.com/smoodsie/beatsync-codex/internal/progress"
	"github.com/smoodsie/beatsync-codex/internal/storage"
)

// PlaylistExtractor turns pages into playlists.
type PlaylistExtractor interface {
	Extract(ctx context.Context, url string, tracker *progress.ProgressTracker) (*domain.Playlist, error)
	ExtractHTML(markup, sourceURL string) *domain.Playlist
}

// Server handles HTTP requests for the playlist extractor
type Server struct {
	cfg        *config.Config
	router     *gin.Engine
	jobManager *job.Manager
	service    PlaylistExtractor
	store      storage.Storage
}

// New creates a new HTTP server instance
func New(cfg *config.Config, service PlaylistExtractor, store storage.Storage) *Server {
	router := gin.Default()

	server := &Server{
		cfg:        cfg,
		router:     router,
		jobManager: job.NewManager(),
		service:    service,
		store:      store,
	}

	server.setupRoutes()
	return server
}

// setupRoutes configures the HTTP routes
func (s *Server) setupRoutes() {
	// Add CORS middleware
	s.router.Use(func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, POST, DELETE, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Content-Type")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	})

	// Health check endpoint
	s.router.GET("/health", s.health)

	// API endpoints
	api := s.router.Group("/api/v1")
	{
		api.POST("/extract", s.extract)
		api.POST("/jobs", s.createJob)
		api.GET("/jobs/:id", s.getJobStatus)
		api.DELETE("/jobs/:id", s.cancelJob)
		api.GET("/jobs", s.listJobs)
		api.GET("/playlists", s.listPlaylists)
		api.GET("/playlists/*name", s.downloadPlaylist)
	}
}

// Handler exposes the router, mainly for tests and custom listeners
func (s *Server) Handler() http.Handler {
	return s.router
}

// Start starts the HTTP server
func (s *Server) Start(port string) error {
	return s.router.Run(":" + port)
}
