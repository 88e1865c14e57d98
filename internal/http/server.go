// Package http exposes the ledger over a JSON API. Every read endpoint is
// a pure function of the current ledger plus filter parameters; the only
// state lives in the service layer behind it.
package http

import (
	"context"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"carteira/internal/assistant"
	"carteira/internal/cache"
	"carteira/internal/services"
)

type Server struct {
	http.Server
	svc         *services.LedgerService
	generator   assistant.Generator // may be nil when the assistant is disabled
	chatTimeout time.Duration
	rateLimiter *rateLimiter

	// Chart payloads are cached per URL and dropped on every mutation.
	chartCache   *cache.LRUCache[[]byte]
	cacheManager *cache.Manager

	shutdownOnce sync.Once
}

// Simple in-memory rate limiter
type rateLimiter struct {
	mu           sync.Mutex
	clients      map[string]*clientInfo
	stopCleanup  chan struct{}
	shutdownOnce sync.Once
}

type clientInfo struct {
	lastRequest time.Time
	requests    int
}

func newRateLimiter() *rateLimiter {
	rl := &rateLimiter{
		clients:     make(map[string]*clientInfo),
		stopCleanup: make(chan struct{}),
	}
	go rl.startCleanup()
	return rl
}

// startCleanup runs periodic cleanup to remove stale client entries
func (rl *rateLimiter) startCleanup() {
	ticker := time.NewTicker(5 * time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			rl.cleanupStaleEntries()
		case <-rl.stopCleanup:
			return
		}
	}
}

// cleanupStaleEntries removes client entries older than 10 minutes
func (rl *rateLimiter) cleanupStaleEntries() {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	cutoff := time.Now().Add(-10 * time.Minute)
	for ip, client := range rl.clients {
		if client.lastRequest.Before(cutoff) {
			delete(rl.clients, ip)
		}
	}
}

func (rl *rateLimiter) stop() {
	rl.shutdownOnce.Do(func() {
		if rl.stopCleanup != nil {
			close(rl.stopCleanup)
		}
	})
}

func (rl *rateLimiter) allow(clientIP string) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := time.Now()
	client, exists := rl.clients[clientIP]

	if !exists {
		rl.clients[clientIP] = &clientInfo{
			lastRequest: now,
			requests:    1,
		}
		return true
	}

	// Reset counter if more than 1 minute has passed
	if now.Sub(client.lastRequest) > time.Minute {
		client.requests = 1
		client.lastRequest = now
		return true
	}

	// Allow up to 60 requests per minute
	client.requests++
	client.lastRequest = now

	return client.requests <= 60
}

// NewServer configures routes, returning a ready-to-run server.
func NewServer(addr string, svc *services.LedgerService, gen assistant.Generator, chatTimeout time.Duration) *Server {
	mux := http.NewServeMux()

	s := &Server{
		Server: http.Server{
			Addr:           addr,
			ReadTimeout:    10 * time.Second,
			WriteTimeout:   10 * time.Second,
			IdleTimeout:    60 * time.Second,
			MaxHeaderBytes: 1 << 16, // 64KB
		},
		svc:          svc,
		generator:    gen,
		chatTimeout:  chatTimeout,
		rateLimiter:  newRateLimiter(),
		chartCache:   cache.NewLRUCache[[]byte](64, 5*time.Minute),
		cacheManager: cache.NewManager(),
	}
	if s.chatTimeout <= 0 {
		s.chatTimeout = 2 * time.Minute
	}

	s.cacheManager.Register(s.chartCache)
	s.cacheManager.StartCleanup(10 * time.Minute)

	mux.HandleFunc("GET /healthz", s.handleHealth)

	mux.HandleFunc("GET /api/transactions", s.handleListTransactions)
	mux.HandleFunc("POST /api/transactions", s.handleCreateTransaction)
	mux.HandleFunc("DELETE /api/transactions/{id}", s.handleDeleteTransaction)

	mux.HandleFunc("GET /api/categories", s.handleCategories)
	mux.HandleFunc("GET /api/filters", s.handleFilterDefaults)
	mux.HandleFunc("GET /api/summary", s.handleSummary)

	mux.HandleFunc("GET /api/charts/categories", s.chart(s.chartCategories))
	mux.HandleFunc("GET /api/charts/kinds", s.chart(s.chartKinds))
	mux.HandleFunc("GET /api/charts/balance-history", s.chart(s.chartBalanceHistory))
	mux.HandleFunc("GET /api/charts/monthly", s.chart(s.chartMonthly))
	mux.HandleFunc("GET /api/charts/top", s.chart(s.chartTop))
	mux.HandleFunc("GET /api/charts/weekdays", s.chart(s.chartWeekdays))

	mux.HandleFunc("POST /api/chat", s.handleChat)

	s.Handler = s.withMiddleware(mux)
	return s
}

// withMiddleware wraps the mux with request ID tagging, rate limiting and
// request logging.
func (s *Server) withMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		reqID := generateRequestID()
		w.Header().Set("X-Request-ID", reqID)

		if !s.rateLimiter.allow(clientIP(r)) {
			apiError(w, http.StatusTooManyRequests, "Muitas requisições, tente novamente em instantes.")
			return
		}

		start := time.Now()
		next.ServeHTTP(w, r)
		slog.Info("Request handled",
			"request_id", reqID,
			"method", r.Method,
			"path", r.URL.Path,
			"duration", time.Since(start))
	})
}

// invalidateDerived drops cached chart payloads after a mutation.
func (s *Server) invalidateDerived() {
	s.chartCache.Clear()
}

// Shutdown gracefully shuts down the server and its cleanup routines.
func (s *Server) Shutdown(ctx context.Context) error {
	var shutdownErr error

	s.shutdownOnce.Do(func() {
		if s.cacheManager != nil {
			s.cacheManager.Stop()
		}
		if s.rateLimiter != nil {
			s.rateLimiter.stop()
		}
		shutdownErr = s.Server.Shutdown(ctx)
	})

	return shutdownErr
}
