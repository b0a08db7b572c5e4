package server

import (
	"context"
	"net/http"
	"os"
	"strconv"
	"time"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"gorm.io/gorm"

	"github.com/gatehouse-sec/gatehouse/pkg/authenticator"
	"github.com/gatehouse-sec/gatehouse/pkg/config"
	"github.com/gatehouse-sec/gatehouse/pkg/directory"
)

// Server is the Gatehouse HTTP server. It holds the shared collaborators
// that endpoint registration needs: the router, the principal directory,
// the strategy registry, and the loaded configuration.
type Server struct {
	Router    *mux.Router
	Directory directory.Directory
	Registry  *authenticator.Registry
	Config    *config.Config
	DB        *gorm.DB // nil when running on the memory directory

	srv *http.Server
}

// NewServer creates a server bound to the configured address.
func NewServer(
	dir directory.Directory,
	registry *authenticator.Registry,
	cfg *config.Config,
	db *gorm.DB,
) *Server {
	router := mux.NewRouter().UseEncodedPath()
	srv := &http.Server{
		Handler: handlers.LoggingHandler(os.Stdout, router),
		Addr:    cfg.BindAddress + ":" + strconv.Itoa(cfg.Port),
		// Good practice: enforce timeouts for servers you create!
		WriteTimeout: 15 * time.Second,
		ReadTimeout:  15 * time.Second,
	}

	return &Server{
		Router:    router,
		Directory: dir,
		Registry:  registry,
		Config:    cfg,
		DB:        db,
		srv:       srv,
	}
}

// Start begins serving and blocks until the server stops.
func (s *Server) Start() error {
	return s.srv.ListenAndServe()
}

// Shutdown gracefully stops the server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.srv.Shutdown(ctx)
}

// Addr returns the configured listen address.
func (s *Server) Addr() string {
	return s.srv.Addr
}
