// Package app wires configuration into stores, clients and services.
package app

import (
	"context"
	"fmt"

	"juspatria-backend/config"
	"juspatria-backend/gemini"
	"juspatria-backend/handlers"
	"juspatria-backend/logger"
	"juspatria-backend/repository"
	"juspatria-backend/service"
	"juspatria-backend/storage"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
)

// App holds the wired services of one process
type App struct {
	Cfg             config.Config
	Log             *logger.Logger
	Interpretations *service.InterpretationService
	History         *service.HistoryService
	Files           *service.FileService

	closers []func()
}

// Options selects the optional services of an App
type Options struct {
	// Files wires uploads and their object storage
	Files bool
	// Generation wires the Gemini client and the interpretation service.
	// Without it Interpretations stays nil and no API key is needed.
	Generation bool
}

// New connects every backing store selected by cfg and builds the services
// opts asks for.
func New(ctx context.Context, cfg config.Config, log *logger.Logger, opts Options) (*App, error) {
	a := &App{Cfg: cfg, Log: log}

	var pool *pgxpool.Pool
	if cfg.HistoryBackend == config.HistoryBackendPostgres {
		p, err := initPostgres(ctx, cfg.DatabaseURL)
		if err != nil {
			a.Close()
			return nil, fmt.Errorf("init postgres: %w", err)
		}
		pool = p
		a.closers = append(a.closers, pool.Close)
		log.Info("Postgres connection established")
	}

	store, err := a.historyStore(ctx, pool)
	if err != nil {
		a.Close()
		return nil, err
	}
	a.History = service.NewHistoryService(store,
		service.WithHistoryNamespace(cfg.HistoryNamespace),
		service.WithHistoryLimit(cfg.HistoryLimit),
	)

	if opts.Files {
		fileStorage, err := storage.NewStorageFromEnv(ctx)
		if err != nil {
			a.Close()
			return nil, fmt.Errorf("init storage: %w", err)
		}
		var records service.FileRecords = repository.NewMemoryFileRepository()
		if pool != nil {
			records = repository.NewFileRepository(pool)
		}
		a.Files = service.NewFileService(records, fileStorage, cfg.MaxUploadBytes)
		log.Info("Storage initialized")
	}

	model := "none"
	if opts.Generation {
		model, err = a.initInterpretations(ctx)
		if err != nil {
			a.Close()
			return nil, err
		}
	}

	log.Info("Services initialized",
		"model", model,
		"history_backend", cfg.HistoryBackend,
		"history_namespace", cfg.HistoryNamespace,
	)
	return a, nil
}

// initInterpretations builds the Gemini-backed service and returns the model in use
func (a *App) initInterpretations(ctx context.Context) (string, error) {
	client, err := gemini.New(ctx, a.Cfg.GeminiAPIKey,
		gemini.WithModel(a.Cfg.GeminiModel),
		gemini.WithMaxRetries(a.Cfg.GenerationMaxRetries),
		gemini.WithLogger(a.Log.With("component", "gemini")),
	)
	if err != nil {
		return "", fmt.Errorf("init gemini: %w", err)
	}
	a.closers = append(a.closers, func() { _ = client.Close() })

	opts := []service.InterpretationServiceOption{
		service.InterpretWithGenerator(client),
		service.InterpretWithHistory(a.History),
		service.InterpretWithLogger(a.Log.With("component", "interpretation")),
		service.InterpretWithTemperatures(a.Cfg.InterpretTemperature, a.Cfg.ExampleTemperature),
		service.InterpretWithExampleCacheSize(a.Cfg.ExampleCacheSize),
	}
	if a.Files != nil {
		opts = append(opts, service.InterpretWithAttachments(a.Files))
	}
	a.Interpretations, err = service.NewInterpretationService(opts...)
	if err != nil {
		return "", err
	}
	return client.Model(), nil
}

// Router builds the HTTP surface over the wired services
func (a *App) Router() *gin.Engine {
	var files *handlers.FileHandler
	if a.Files != nil {
		files = handlers.NewFileHandler(a.Files)
	}
	return handlers.NewRouter(handlers.RouterConfig{
		Interpretations: handlers.NewInterpretationHandler(a.Interpretations, a.History, a.Cfg.MaxUploadBytes, a.Log),
		Files:           files,
		CORSOrigins:     a.Cfg.CORSOrigins,
		Logger:          a.Log,
	})
}

// Close releases connections in reverse order of creation
func (a *App) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i]()
	}
	a.closers = nil
}

func (a *App) historyStore(ctx context.Context, pool *pgxpool.Pool) (service.HistoryStore, error) {
	switch a.Cfg.HistoryBackend {
	case config.HistoryBackendPostgres:
		return repository.NewHistoryRepository(pool), nil
	case config.HistoryBackendRedis:
		rdb, err := repository.NewRedisClient(ctx, a.Cfg.RedisAddr)
		if err != nil {
			return nil, fmt.Errorf("init redis: %w", err)
		}
		a.closers = append(a.closers, func() { _ = rdb.Close() })
		a.Log.Info("Redis connection established", "addr", a.Cfg.RedisAddr)
		return repository.NewRedisHistoryStore(rdb, ""), nil
	default:
		return repository.NewMemoryHistoryStore(), nil
	}
}

func initPostgres(ctx context.Context, connString string) (*pgxpool.Pool, error) {
	pool, err := pgxpool.New(ctx, connString)
	if err != nil {
		return nil, err
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, err
	}
	return pool, nil
}
