package server

import (
	"fmt"
	"net/http"
	"time"

	_ "github.com/joho/godotenv/autoload"
	"github.com/rs/zerolog/log"

	"telelink-go/internal/config"
	"telelink-go/internal/database"
	"telelink-go/internal/files"
	"telelink-go/internal/registry"
	"telelink-go/internal/telegram"
)

// Server represents the HTTP server and its dependencies
type Server struct {
	config      *config.Config
	db          *database.DB
	store       registry.Store
	fileHandler *files.Handler
}

// NewServer creates a new server instance. db may be nil when the registry
// runs on a non-postgres provider.
func NewServer(cfg *config.Config, db *database.DB) (*Server, error) {
	store, err := registry.New(cfg.Registry, db)
	if err != nil {
		return nil, fmt.Errorf("creating registry store: %w", err)
	}

	botClient := telegram.New(cfg.Telegram.BotToken, cfg.Telegram.APIURL, nil)

	fileService := files.NewService(store, botClient, cfg)
	fileHandler := files.NewHandler(fileService)

	return &Server{
		config:      cfg,
		db:          db,
		store:       store,
		fileHandler: fileHandler,
	}, nil
}

// Start initializes the HTTP server
func (s *Server) Start() (*http.Server, error) {
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", s.config.Port),
		Handler:      s.RegisterRoutes(),
		IdleTimeout:  time.Minute,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 5 * time.Minute, // large media streams through this server
	}

	log.Info().
		Int("port", s.config.Port).
		Str("env", s.config.Env).
		Msg("starting server")

	return srv, nil
}

// healthHandler reports process and registry backend health.
func (s *Server) healthHandler(w http.ResponseWriter, r *http.Request) {
	health := map[string]string{"status": "up"}
	if s.db != nil {
		health = s.db.Health(r.Context())
	}

	status := http.StatusOK
	if health["status"] != "up" {
		status = http.StatusServiceUnavailable
	}
	s.sendJSON(w, status, health["status"] == "up", "Health check", health)
}
