package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/explainr/explainr/internal/completion"
	"github.com/explainr/explainr/internal/config"
	"github.com/explainr/explainr/internal/conversation"
	"github.com/explainr/explainr/internal/explainer"
	"github.com/explainr/explainr/internal/history"
	"github.com/explainr/explainr/internal/httpapi"
	"github.com/explainr/explainr/internal/observability"
	"github.com/explainr/explainr/internal/ratelimit"
	"github.com/explainr/explainr/internal/session"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config error: %v", err)
	}

	metrics := observability.NewMetrics(cfg.MetricsNamespace)
	perf := observability.NewLatencyWindow(512)

	ctx := context.Background()
	conversations, err := conversation.NewStore(ctx, cfg.RedisURL)
	if err != nil {
		log.Fatalf("conversation store init failed: %v", err)
	}
	defer conversations.Close()

	historyStore, err := history.NewStore(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("history store init failed: %v", err)
	}
	defer historyStore.Close()

	var completions completion.Client
	if cfg.ForceMockClient {
		completions = completion.NewMockClient()
		log.Printf("completion client: mock (OPENAI_MOCK set)")
	} else {
		completions = completion.NewClient(completion.OpenAIConfig{
			APIKey:  cfg.OpenAIAPIKey,
			BaseURL: cfg.OpenAIBaseURL,
			Model:   cfg.OpenAIModel,
			Timeout: cfg.CompletionTimeout,
		})
		if cfg.OpenAIAPIKey == "" {
			log.Printf("completion client: mock (OPENAI_API_KEY not set)")
		} else {
			log.Printf("completion client: openai (%s)", cfg.OpenAIModel)
		}
	}
	retrier := completion.NewRetrier(completions, cfg.MaxRetries)

	sessions := session.NewManager(cfg.SessionInactivityTimeout)
	sessions.SetExpireHook(func(s *session.Session) {
		// Expired sessions take their follow-up conversations with them.
		if err := conversations.ClearAll(context.Background(), s.ID); err != nil {
			log.Printf("conversation cleanup for expired session %s failed: %v", s.ID, err)
		}
		metrics.ActiveSessions.Set(float64(sessions.ActiveCount()))
	})

	orchestrator := explainer.New(retrier, conversations, metrics, perf)
	limiter := ratelimit.NewSlidingWindow(cfg.RateLimitRequests, cfg.RateLimitWindow)

	api := httpapi.New(cfg, sessions, orchestrator, historyStore, limiter, metrics, perf)
	httpServer := &http.Server{
		Addr:    cfg.BindAddr,
		Handler: api.Router(),
	}

	runCtx, runCancel := context.WithCancel(context.Background())
	defer runCancel()
	sessions.StartJanitor(runCtx, 5*time.Second)
	go sweepLimiter(runCtx, limiter, cfg.RateLimitWindow)

	go func() {
		log.Printf("server listening on %s", cfg.BindAddr)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("listen error: %v", err)
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh
	log.Printf("shutdown signal received")

	runCancel()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Printf("graceful shutdown failed: %v", err)
		_ = httpServer.Close()
	}

	log.Printf("shutdown complete")
}

func sweepLimiter(ctx context.Context, limiter *ratelimit.SlidingWindow, window time.Duration) {
	ticker := time.NewTicker(window)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			limiter.Sweep()
		}
	}
}
