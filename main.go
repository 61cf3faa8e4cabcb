package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/hussleai/chatd/internal/assistant"
	"github.com/hussleai/chatd/internal/config"
	"github.com/hussleai/chatd/internal/i18n"
	"github.com/hussleai/chatd/internal/policy"
	"github.com/hussleai/chatd/internal/service"
	"github.com/hussleai/chatd/internal/store"
	httptransport "github.com/hussleai/chatd/internal/transport/http"
	"github.com/hussleai/chatd/internal/tracker"
)

func main() {
	// Load configuration
	cfg := config.Load()

	log.Printf("Starting chatd...")
	log.Printf("HTTP Port: %d", cfg.HTTPPort)
	log.Printf("Session store: %s", cfg.SessionStore)
	log.Printf("Default locale: %s", cfg.DefaultLocale)

	if cfg.OpenAIAPIKey == "" && os.Getenv(assistant.EnvChatdMode) != assistant.ModeMock {
		log.Fatal("OPENAI_API_KEY is not set (set CHATD_MODE=MOCK to run without it)")
	}

	// Initialize session store
	db, err := newStore(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize session store: %v", err)
	}
	defer db.Close()

	// Initialize assistant client
	converser := assistant.NewConverser(cfg.OpenAIBaseURL, cfg.OpenAIAPIKey, cfg.AssistantID, cfg.PollInterval, cfg.PollTimeout)

	// Initialize interaction tracker
	var tr tracker.Tracker = tracker.Noop{}
	if cfg.SupabaseURL != "" && cfg.SupabaseAnonKey != "" {
		sb, err := tracker.NewSupabase(cfg.SupabaseURL, cfg.SupabaseAnonKey)
		if err != nil {
			log.Fatalf("Failed to initialize interaction tracker: %v", err)
		}
		tr = sb
	}
	defer func() {
		if err := tr.Close(); err != nil {
			log.Printf("Failed to close interaction tracker: %v", err)
		}
	}()

	// Initialize policy engine
	ctx := context.Background()
	policyEngine, err := policy.NewEngineFromFile(ctx, cfg.PolicyPath)
	if err != nil {
		log.Fatalf("Failed to initialize policy engine: %v", err)
	}

	// Load locale catalog
	catalog, err := i18n.Load(cfg.DefaultLocale)
	if err != nil {
		log.Fatalf("Failed to load locale catalog: %v", err)
	}

	// Initialize service
	svc := service.New(db, converser, tr, policyEngine, catalog, cfg)

	// Create HTTP server
	server := httptransport.NewServer(svc, catalog)

	go func() {
		addr := fmt.Sprintf(":%d", cfg.HTTPPort)
		if err := server.Start(addr); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	log.Printf("Chat API started on port %d", cfg.HTTPPort)

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down chatd...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("Failed to shutdown server gracefully: %v", err)
	}

	log.Println("Chatd stopped")
}

func newStore(cfg *config.Config) (store.Store, error) {
	switch store.Driver(cfg.SessionStore) {
	case store.DriverSQLite:
		return store.New(store.DriverSQLite, store.WithSQLiteDSN(cfg.DatabaseURL))
	case store.DriverRedis:
		client := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		return store.New(store.DriverRedis, store.WithRedisClient(client), store.WithRedisTTL(cfg.RedisTTL))
	case store.DriverMemory:
		return store.New(store.DriverMemory)
	default:
		return nil, fmt.Errorf("%w: %s", store.ErrInvalidDriver, cfg.SessionStore)
	}
}
