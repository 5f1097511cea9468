package app

import (
	"fmt"
	"net/http"

	"github.com/riskibarqy/jugadores-api/internal/config"
	"github.com/riskibarqy/jugadores-api/internal/infrastructure/repository/postgres"
	"github.com/riskibarqy/jugadores-api/internal/interfaces/httpapi"
	"github.com/riskibarqy/jugadores-api/internal/platform/database"
	"github.com/riskibarqy/jugadores-api/internal/platform/logging"
	"github.com/riskibarqy/jugadores-api/internal/usecase"
)

// App holds the long-lived process resources.
type App struct {
	Server *http.Server
	Pool   *database.Pool
}

func New(cfg config.Config, logger *logging.Logger) (*App, error) {
	if logger == nil {
		logger = logging.Default()
	}

	pool, err := database.Open(database.Options{
		DSN:          cfg.DatabaseURL,
		SSLMode:      cfg.DBSSLMode,
		QueryTimeout: cfg.DBQueryTimeout,
	}, logger)
	if err != nil {
		return nil, fmt.Errorf("open database pool: %w", err)
	}

	server, err := NewHTTPServer(cfg, pool, logger)
	if err != nil {
		_ = pool.Close()
		return nil, err
	}

	return &App{Server: server, Pool: pool}, nil
}

func NewHTTPServer(cfg config.Config, pool *database.Pool, logger *logging.Logger) (*http.Server, error) {
	playerRepo := postgres.NewPlayerRepository(pool)
	playerSvc := usecase.NewPlayerService(playerRepo)

	handler := httpapi.NewHandler(playerSvc, logger, cfg.ExposeErrorDetail)
	router := httpapi.NewRouter(handler, logger, cfg.CORSAllowedOrigins)

	server := &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}

	if server.Addr == "" {
		return nil, fmt.Errorf("http server addr cannot be empty")
	}

	return server, nil
}
