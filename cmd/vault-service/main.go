package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"github.com/tokenweave/platform/pkg/auth"
	"github.com/tokenweave/platform/pkg/common/config"
	"github.com/tokenweave/platform/pkg/common/database"
	"github.com/tokenweave/platform/pkg/common/kafka"
	"github.com/tokenweave/platform/pkg/common/logger"
	"github.com/tokenweave/platform/pkg/common/models"
	"github.com/tokenweave/platform/pkg/observability/metrics"
	"github.com/tokenweave/platform/pkg/tokenize"
	"github.com/tokenweave/platform/pkg/vault"
)

type VaultApp struct {
	cfg      *config.Config
	service  *vault.Service
	producer *kafka.Producer
	consumer *kafka.Consumer
}

func main() {
	logger.Init()
	metrics.Init()
	cfg := config.Load()

	db, err := database.GetPostgres()
	if err != nil {
		logger.Log.WithError(err).Fatal("failed to connect to postgres")
	}

	repo := vault.NewRepository(db)
	if err := repo.AutoMigrate(); err != nil {
		logger.Log.WithError(err).Fatal("failed to migrate vault tables")
	}

	cache := database.GetRedis()
	service := vault.NewService(repo, cache, cfg.CacheTTL, logger.Log)

	var oidcAuth *auth.OIDCAuthenticator
	if cfg.OIDCIssuer != "" {
		oidcAuth, err = auth.NewOIDCAuthenticator(cfg.OIDCIssuer, cfg.OIDCClientID, cfg.OIDCClientSecret)
		if err != nil {
			logger.Log.WithError(err).Fatal("failed to configure OIDC")
		}
	} else {
		logger.Log.Warn("OIDC issuer not configured, detokenize endpoint is unauthenticated")
	}

	app := &VaultApp{cfg: cfg, service: service}
	app.producer = kafka.NewProducer("tokenized-events")
	defer app.producer.Close()

	app.consumer = kafka.NewConsumer("record-events", "vault-service")
	defer app.consumer.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		if err := app.consumer.Consume(ctx, app.processEvent); err != nil && !errors.Is(err, context.Canceled) {
			logger.Log.WithError(err).Fatal("consumer error")
		}
	}()

	router := mux.NewRouter()
	router.Use(auth.Recovery, auth.Logging)

	router.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"healthy"}`))
	}).Methods(http.MethodGet)

	router.HandleFunc("/ready", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ready"}`))
	}).Methods(http.MethodGet)

	router.HandleFunc("/api/v1/tokenize", app.handleTokenize).Methods(http.MethodPost)
	router.Handle("/api/v1/detokenize",
		auth.Authenticate(oidcAuth)(http.HandlerFunc(app.handleDetokenize))).Methods(http.MethodPost)

	router.HandleFunc("/metrics", app.handleMetrics).Methods(http.MethodGet)

	server := &http.Server{
		Addr:         fmt.Sprintf("%s:%s", cfg.ServerHost, cfg.ServerPort),
		Handler:      router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}

	go func() {
		logger.Log.WithFields(map[string]interface{}{
			"host": cfg.ServerHost,
			"port": cfg.ServerPort,
		}).Info("Vault Service started")

		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Log.WithError(err).Fatal("failed to start server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Log.Info("Shutting down Vault Service...")
	cancel()

	ctxShutdown, cancelShutdown := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancelShutdown()

	if err := server.Shutdown(ctxShutdown); err != nil {
		logger.Log.WithError(err).Error("server forced to shutdown")
	}

	database.CloseRedis()
	database.ClosePostgres()

	logger.Log.Info("Vault Service stopped")
}

func (a *VaultApp) processEvent(ctx context.Context, event models.Event) error {
	tokenized, minted, err := a.service.TokenizeFields(ctx, event.Data, a.cfg.StreamColumns, tokenize.Strategy(a.cfg.TokenStrategy), event.Source)
	if err != nil {
		logger.Log.WithError(err).WithField("event_id", event.ID).Error("failed to tokenize event")
		return err
	}

	metrics.AddStreamEvent(minted)

	return a.producer.PublishEvent(ctx, "tokenized", "vault-service", tokenized)
}

func (a *VaultApp) handleTokenize(w http.ResponseWriter, r *http.Request) {
	var req models.TokenizeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request", http.StatusBadRequest)
		return
	}
	if len(req.Columns) == 0 {
		http.Error(w, "at least one column is required", http.StatusBadRequest)
		return
	}

	strategy := tokenize.Strategy(req.Strategy)
	if req.Strategy == "" {
		strategy = tokenize.StrategyUUID
	}

	data, minted, err := a.service.TokenizeFields(r.Context(), req.Data, req.Columns, strategy, "api")
	if err != nil {
		var confErr *tokenize.ConfigurationError
		if errors.As(err, &confErr) {
			http.Error(w, confErr.Error(), http.StatusBadRequest)
			return
		}
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	metrics.AddTokenizeRequest(minted)

	resp := models.TokenizeResponse{Data: data, NewTokens: minted}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(resp)
}

func (a *VaultApp) handleDetokenize(w http.ResponseWriter, r *http.Request) {
	var req models.DetokenizeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request", http.StatusBadRequest)
		return
	}

	data, restored, err := a.service.DetokenizeFields(r.Context(), req.Data)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	metrics.AddDetokenizeRequest(restored)

	resp := models.DetokenizeResponse{Data: data, Restored: restored}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(resp)
}

func (a *VaultApp) handleMetrics(w http.ResponseWriter, r *http.Request) {
	size, err := a.service.VaultSize(r.Context())
	if err != nil {
		logger.Log.WithError(err).Error("failed to count vault tokens")
	} else {
		metrics.ObserveVaultSize(size)
	}

	metrics.WritePrometheus(w)
}
