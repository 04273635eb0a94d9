// Package server wires middleware, dependencies, and routes into a gin engine.
package server

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"resume-insight/internal/documents"
	"resume-insight/internal/llm"
	"resume-insight/internal/llm/gemini"
	"resume-insight/internal/llm/openai"
	"resume-insight/internal/pipeline"
	"resume-insight/internal/shared/config"
	"resume-insight/internal/shared/metrics"
	"resume-insight/internal/shared/server/middleware"
	"resume-insight/internal/shared/server/respond"
	"resume-insight/internal/shared/storage/db"
	"resume-insight/internal/shared/storage/object"
	localstore "resume-insight/internal/shared/storage/object/local"
	s3store "resume-insight/internal/shared/storage/object/s3"
)

const defaultOpenAIModel = "gpt-4o-mini"

// NewRouter constructs the gin engine with middleware and routes registered.
func NewRouter(cfg config.Config) (*gin.Engine, error) {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()

	r.Use(
		middleware.RequestID(),
		middleware.Logging(),
		middleware.Recovery(),
		middleware.CORS(cfg.CORSAllowOrigin),
	)

	client, err := buildLLMClient(cfg)
	if err != nil {
		return nil, err
	}

	store, err := buildStore(cfg)
	if err != nil {
		return nil, err
	}

	sqlDB := buildDB(cfg)

	var docRepo documents.DocumentsRepo
	if sqlDB != nil {
		docRepo = &documents.PGRepo{DB: sqlDB}
	} else {
		docRepo = documents.NewMemoryRepo()
	}

	gate := pipeline.NewGate(cfg.MaxInflightAI, cfg.GateWaitTimeout)
	svc := pipeline.NewService(client, gate, pipeline.ServiceOptions{
		AITimeout:              cfg.AITimeout,
		MaxUploadBytes:         cfg.MaxUploadBytes,
		MaxJobDescriptionChars: cfg.MaxJobDescriptionChars,
		Store:                  store,
		Repo:                   docRepo,
	})
	handler := pipeline.NewHandler(svc)

	api := r.Group("/api/v1")
	api.GET("/health", func(c *gin.Context) {
		respond.JSON(c, http.StatusOK, gin.H{"ok": true})
	})
	api.GET("/metrics", metrics.Handler())
	handler.RegisterRoutes(api)
	documents.NewHandler(docRepo).RegisterRoutes(api)

	return r, nil
}

func buildLLMClient(cfg config.Config) (llm.Client, error) {
	switch cfg.LLMProvider {
	case "gemini":
		client, err := gemini.NewClient(context.Background(), cfg.GeminiKey, cfg.LLMModel)
		if err != nil {
			return nil, fmt.Errorf("build gemini client: %w", err)
		}
		return client, nil
	default:
		model := cfg.LLMModel
		if model == "" {
			model = defaultOpenAIModel
		}
		client, err := openai.NewClient(cfg.OpenAIKey, model)
		if err != nil {
			return nil, fmt.Errorf("build openai client: %w", err)
		}
		return client, nil
	}
}

func buildStore(cfg config.Config) (object.ObjectStore, error) {
	switch cfg.ObjectStoreType {
	case "none":
		return nil, nil
	case "s3":
		store, err := s3store.New(context.Background(), cfg.AWSRegion, cfg.S3Bucket, cfg.S3Prefix, cfg.SSEKMSKeyID)
		if err != nil {
			return nil, fmt.Errorf("build s3 store: %w", err)
		}
		return store, nil
	default:
		return localstore.New(cfg.LocalStoreDir), nil
	}
}

// buildDB connects and migrates when DATABASE_URL is set, falling back to
// in-memory repositories on any failure.
func buildDB(cfg config.Config) *sql.DB {
	if cfg.DatabaseURL == "" {
		return nil
	}
	opts := db.OptionsFromEnv(db.DefaultServerOptions())
	conn, err := db.Connect(context.Background(), cfg.DatabaseURL, opts)
	if err != nil {
		log.Printf("failed to connect database, falling back to memory: %v", err)
		return nil
	}
	if err := db.RunMigrations(context.Background(), conn); err != nil {
		log.Printf("failed to run migrations, falling back to memory: %v", err)
		conn.Close()
		return nil
	}
	return conn
}

// Addr normalizes the listen address.
func Addr(port string) string {
	if port == "" {
		return ":8080"
	}
	if port[0] == ':' {
		return port
	}
	return ":" + port
}
