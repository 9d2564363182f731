package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"time"

	"cloud.google.com/go/storage"
	"github.com/labstack/echo/v4"
	"google.golang.org/api/option"

	"github.com/tvonment/tarot-backend/internal/adapters/blob"
	httpadapter "github.com/tvonment/tarot-backend/internal/adapters/http"
	"github.com/tvonment/tarot-backend/internal/adapters/llm"
	firestorestore "github.com/tvonment/tarot-backend/internal/adapters/storage/firestore"
	memstore "github.com/tvonment/tarot-backend/internal/adapters/storage/memory"
	"github.com/tvonment/tarot-backend/internal/adapters/ws"
	"github.com/tvonment/tarot-backend/internal/app/oracle"
	"github.com/tvonment/tarot-backend/internal/app/session"
	"github.com/tvonment/tarot-backend/internal/config"
	"github.com/tvonment/tarot-backend/internal/domain"
	"github.com/tvonment/tarot-backend/internal/observability"
)

func main() {
	ctx := context.Background()

	cfg, err := config.Load()
	if err != nil {
		observability.Logger().Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := observability.Configure(cfg.LogLevel)

	// Inference: canned or Azure OpenAI.
	var inference domain.InferenceClient
	if cfg.UseMockLLM {
		logger.Info("using mock inference client")
		inference = llm.NewMock()
	} else {
		logger.Info("using azure openai inference client", "deployment", cfg.AzureOpenAIDeployment)
		inference, err = llm.NewAzureClient(
			cfg.AzureOpenAIEndpoint,
			cfg.AzureOpenAIAPIVersion,
			cfg.AzureOpenAIKey,
			cfg.AzureOpenAIDeployment,
		)
		if err != nil {
			logger.Error("failed to init inference client", "error", err)
			os.Exit(1)
		}
	}

	// Sessions: Firestore or memory.
	var store domain.SessionStore
	switch cfg.StorageBackend {
	case "firestore":
		logger.Info("using firestore session store", "project", cfg.GCPProjectID)
		store, err = firestorestore.NewStore(ctx, cfg.GCPProjectID)
		if err != nil {
			logger.Error("failed to init firestore store", "error", err)
			os.Exit(1)
		}
	default:
		logger.Info("using in-memory session store")
		store = memstore.NewSessionStore()
	}

	// Card imagery. URL lookups are computed locally, so local mode runs
	// without credentials; uploads need real ones.
	var gcsOpts []option.ClientOption
	if cfg.Mode == config.ModeLocal {
		gcsOpts = append(gcsOpts, option.WithoutAuthentication())
	}
	gcsClient, err := storage.NewClient(ctx, gcsOpts...)
	if err != nil {
		logger.Error("failed to init storage client", "error", err)
		os.Exit(1)
	}
	blobs := blob.NewGCSStore(gcsClient, cfg.CardsBucket, cfg.BlueprintsBucket)

	svc := session.NewService(store, blobs, oracle.NewTranslator(inference))

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Use(httpadapter.RequestIDMiddleware())
	e.Use(httpadapter.LoggingMiddleware(logger))

	httpadapter.NewHandler(svc).Register(e)

	gateway := ws.NewGateway(svc, logger)
	e.GET("/furhat", gateway.Handle)

	// Graceful shutdown.
	runCtx, stop := signal.NotifyContext(ctx, os.Interrupt)
	defer stop()

	go func() {
		addr := ":" + cfg.Port
		logger.Info("tarot backend listening", "addr", addr)
		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	<-runCtx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown error", "error", err)
	}
}
