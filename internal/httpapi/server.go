package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"net"
	"net/http"
	"net/url"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"

	"github.com/explainr/explainr/internal/config"
	"github.com/explainr/explainr/internal/conversation"
	"github.com/explainr/explainr/internal/explainer"
	"github.com/explainr/explainr/internal/history"
	"github.com/explainr/explainr/internal/observability"
	"github.com/explainr/explainr/internal/prompt"
	"github.com/explainr/explainr/internal/ratelimit"
	"github.com/explainr/explainr/internal/session"
)

const sessionCookieName = "explainr_session"

// Explainer is the orchestration surface the HTTP layer drives.
type Explainer interface {
	Explain(ctx context.Context, sessionID, topic string, style prompt.Style) (explainer.Result, error)
	AskFollowup(ctx context.Context, sessionID, topic, question string, style prompt.Style) (explainer.Result, error)
	ClearConversation(ctx context.Context, sessionID, topic string) error
	Conversation(ctx context.Context, sessionID, topic string) ([]conversation.Exchange, error)
}

type Server struct {
	cfg       config.Config
	sessions  *session.Manager
	explainer Explainer
	history   history.Store
	limiter   ratelimit.Limiter
	metrics   *observability.Metrics
	perf      *observability.LatencyWindow
	upgrader  websocket.Upgrader
}

func New(cfg config.Config, sessions *session.Manager, ex Explainer, hist history.Store, limiter ratelimit.Limiter, metrics *observability.Metrics, perf *observability.LatencyWindow) *Server {
	return &Server{
		cfg:       cfg,
		sessions:  sessions,
		explainer: ex,
		history:   hist,
		limiter:   limiter,
		metrics:   metrics,
		perf:      perf,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  4096,
			WriteBufferSize: 4096,
			CheckOrigin: func(r *http.Request) bool {
				// Only allow browser websocket connections from the same origin
				// so other sites cannot drive a visitor's conversation.
				origin := strings.TrimSpace(r.Header.Get("Origin"))
				if origin == "" {
					// Non-browser clients often omit Origin. Allow them.
					return true
				}
				u, err := url.Parse(origin)
				if err != nil {
					return false
				}
				if u.Scheme != "http" && u.Scheme != "https" {
					return false
				}
				return strings.EqualFold(u.Host, r.Host)
			},
		},
	}
}

func (s *Server) Router() http.Handler {
	r := chi.NewRouter()

	r.Get("/", s.handleIndex)
	r.Post("/", s.withRateLimit(s.handleExplainForm))
	r.Post("/followup", s.withRateLimit(s.handleFollowupForm))
	r.Post("/export-pdf", s.handleExportPDF)

	r.Get("/healthz", s.handleHealth)
	r.Get("/readyz", s.handleReady)
	r.Get("/metrics", func(w http.ResponseWriter, r *http.Request) {
		observability.MetricsHandler().ServeHTTP(w, r)
	})

	r.Post("/v1/explain", s.withRateLimit(s.handleExplainJSON))
	r.Post("/v1/followup", s.withRateLimit(s.handleFollowupJSON))
	r.Post("/v1/conversation/clear", s.handleClearConversation)
	r.Get("/v1/conversation", s.handleGetConversation)
	r.Get("/v1/conversation/ws", s.handleConversationWS)
	r.Get("/v1/history", s.handleHistory)
	r.Get("/v1/perf/latency", s.handlePerfLatency)

	return r
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	respondJSON(w, http.StatusOK, map[string]any{
		"status": "ok",
	})
}

func (s *Server) handleReady(w http.ResponseWriter, _ *http.Request) {
	respondJSON(w, http.StatusOK, map[string]any{
		"status":          "ready",
		"active_sessions": s.sessions.ActiveCount(),
	})
}

func (s *Server) handlePerfLatency(w http.ResponseWriter, _ *http.Request) {
	if s.perf == nil {
		respondJSON(w, http.StatusOK, observability.LatencySnapshot{})
		return
	}
	respondJSON(w, http.StatusOK, s.perf.Snapshot())
}

// ensureSession resolves the visitor's session from the cookie, minting a
// fresh one (and setting the cookie) when absent or stale.
func (s *Server) ensureSession(w http.ResponseWriter, r *http.Request) *session.Session {
	var cookieID string
	if c, err := r.Cookie(sessionCookieName); err == nil {
		cookieID = c.Value
	}

	sess, created := s.sessions.Ensure(cookieID)
	if created {
		http.SetCookie(w, &http.Cookie{
			Name:     sessionCookieName,
			Value:    sess.ID,
			Path:     "/",
			HttpOnly: true,
			SameSite: http.SameSiteLaxMode,
		})
		if s.metrics != nil {
			s.metrics.ActiveSessions.Set(float64(s.sessions.ActiveCount()))
		}
	}
	return sess
}

// withRateLimit rejects requests over the per-client budget before any
// completion work happens. Clients are keyed by session, falling back to the
// remote address for cookie-less callers.
func (s *Server) withRateLimit(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		key := ""
		if c, err := r.Cookie(sessionCookieName); err == nil {
			key = c.Value
		}
		if key == "" {
			if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
				key = host
			} else {
				key = r.RemoteAddr
			}
		}
		if s.limiter != nil && !s.limiter.Allow(key) {
			if s.metrics != nil {
				s.metrics.RateLimited.Inc()
			}
			respondError(w, http.StatusTooManyRequests, "rate_limited", "Rate limit exceeded. Please try again later.")
			return
		}
		next(w, r)
	}
}

type errorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

var errEmptyBody = errors.New("empty body")

func decodeJSON(r *http.Request, out any) error {
	if r.Body == nil {
		return errEmptyBody
	}
	defer r.Body.Close()
	dec := json.NewDecoder(r.Body)
	if err := dec.Decode(out); err != nil {
		if strings.Contains(strings.ToLower(err.Error()), "eof") {
			return errEmptyBody
		}
		return err
	}
	return nil
}

func respondJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func respondError(w http.ResponseWriter, status int, code, message string) {
	respondJSON(w, status, errorResponse{Error: message, Code: code})
}
