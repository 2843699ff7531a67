package httpserver

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	chat "creatorhub/contexts/community-experience/chat-service"
	catalog "creatorhub/contexts/community-experience/catalog-service"
	customrequest "creatorhub/contexts/community-experience/custom-request-service"
	media "creatorhub/contexts/community-experience/media-service"
	billing "creatorhub/contexts/finance-core/billing-service"
	account "creatorhub/contexts/identity-access/account-service"
	creatordashboard "creatorhub/contexts/internal-ops/creator-dashboard-service"
	moderationservice "creatorhub/contexts/moderation-safety/moderation-service"
	"creatorhub/internal/platform/auth"
	_ "creatorhub/internal/platform/httpserver/docs"
	"creatorhub/internal/platform/observability"

	httpSwagger "github.com/swaggo/http-swagger"
)

const maxJSONBody = 1 << 20

// Modules are the context surfaces the API exposes.
type Modules struct {
	Accounts   account.Module
	Catalog    catalog.Module
	Billing    billing.Module
	Requests   customrequest.Module
	Chat       chat.Module
	Moderation moderationservice.Module
	Dashboard  creatordashboard.Module
	Media      media.Module
}

// TokenVerifier resolves bearer tokens into caller claims.
type TokenVerifier interface {
	Verify(raw string) (auth.Claims, error)
}

type Options struct {
	Addr           string
	AllowedOrigins []string
	TrustProxy     bool
	UploadDir      string
	APILimiter     Limiter
	AuthLimiter    Limiter
	Metrics        *observability.Metrics
	Logger         *slog.Logger
}

type Server struct {
	mux        *http.ServeMux
	handler    http.Handler
	logger     *slog.Logger
	addr       string
	modules    Modules
	tokens     TokenVerifier
	metrics    *observability.Metrics
	origins    map[string]struct{}
	trustProxy bool
	uploadDir  string
	apiLimit   Limiter
	authLimit  Limiter
}

func New(modules Modules, tokens TokenVerifier, opts Options) *Server {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	addr := opts.Addr
	if addr == "" {
		addr = ":8080"
	}
	origins := make(map[string]struct{}, len(opts.AllowedOrigins))
	for _, origin := range opts.AllowedOrigins {
		origins[strings.TrimRight(origin, "/")] = struct{}{}
	}

	s := &Server{
		mux:        http.NewServeMux(),
		logger:     logger,
		addr:       addr,
		modules:    modules,
		tokens:     tokens,
		metrics:    opts.Metrics,
		origins:    origins,
		trustProxy: opts.TrustProxy,
		uploadDir:  opts.UploadDir,
		apiLimit:   opts.APILimiter,
		authLimit:  opts.AuthLimiter,
	}
	s.registerRoutes()
	s.handler = s.securityHeaders(s.cors(s.rateLimit(s.mux)))
	return s
}

// Handler is the fully wrapped API handler.
func (s *Server) Handler() http.Handler {
	return s.handler
}

// Start serves until ctx is cancelled, then drains in-flight requests.
func (s *Server) Start(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.addr,
		Handler:           s.handler,
		ReadHeaderTimeout: 10 * time.Second,
	}
	s.logger.Info("http server starting",
		"event", "http_server_starting",
		"module", "internal/platform/httpserver",
		"layer", "platform",
		"addr", s.addr,
	)

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		s.logger.Info("http server stopping",
			"event", "http_server_stopping",
			"module", "internal/platform/httpserver",
			"layer", "platform",
		)
		return srv.Shutdown(shutdownCtx)
	}
}

func (s *Server) registerRoutes() {
	s.mux.Handle("/swagger/", httpSwagger.Handler(
		httpSwagger.URL("/swagger/doc.json"),
	))
	s.mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	if s.metrics != nil {
		s.mux.Handle("GET /metrics", s.metrics.Handler())
	}
	if s.uploadDir != "" {
		s.mux.Handle("GET /uploads/", http.StripPrefix("/uploads/", noDirectoryListing(http.FileServer(http.Dir(s.uploadDir)))))
	}

	s.route("POST /api/auth/register/creator", s.handleRegisterCreator)
	s.route("POST /api/auth/register/consumer", s.handleRegisterConsumer)
	s.route("POST /api/auth/register", s.handleRegisterHint)
	s.route("POST /api/auth/login", s.handleLogin)
	s.route("GET /api/users/me", s.requireAuth(s.handleGetProfile))
	s.route("PUT /api/users/me", s.requireAuth(s.handleUpdateProfile))

	s.route("GET /api/content", s.optionalAuth(s.handleListContent))
	s.route("POST /api/content", s.requireAuth(s.handleCreateContent))
	s.route("GET /api/content/{id}", s.optionalAuth(s.handleGetContent))
	s.route("GET /api/creators", s.handleListCreators)
	s.route("GET /api/creators/{id}", s.optionalAuth(s.handleGetCreatorProfile))

	s.route("GET /api/billing/status", s.requireAuth(s.handleBillingStatus))
	s.route("POST /api/billing/pass", s.requireAuth(s.handleActivatePass))
	s.route("POST /api/billing/subscribe", s.requireAuth(s.handleSubscribe))
	s.route("POST /api/billing/purchase", s.requireAuth(s.handlePurchase))
	s.route("POST /api/stripe/checkout/pass", s.requireAuth(s.handleCheckoutPass))
	s.route("POST /api/stripe/checkout/subscription", s.requireAuth(s.handleCheckoutSubscription))
	s.route("POST /api/stripe/checkout/content", s.requireAuth(s.handleCheckoutContent))
	s.route("POST /api/stripe/checkout/request", s.requireAuth(s.handleCheckoutRequest))
	s.route("POST /api/stripe/webhook", s.handleStripeWebhook)

	s.route("GET /api/requests", s.requireAuth(s.handleListRequests))
	s.route("POST /api/requests", s.requireAuth(s.handleCreateRequestHint))
	s.route("POST /api/requests/{id}/accept", s.requireAuth(s.handleAcceptRequest))
	s.route("POST /api/requests/{id}/decline", s.requireAuth(s.handleDeclineRequest))
	s.route("POST /api/requests/{id}/deliver", s.requireAuth(s.handleDeliverRequest))

	s.route("GET /api/chats", s.requireAuth(s.handleListChats))
	s.route("POST /api/chats/{creator_id}", s.requireAuth(s.handleOpenChat))
	s.route("GET /api/chats/{chat_id}/messages", s.requireAuth(s.handleListMessages))
	s.route("POST /api/chats/{chat_id}/messages", s.requireAuth(s.handleSendMessage))
	s.route("GET /api/chats/{chat_id}/ws", s.requireAuth(s.handleChatWebsocket))

	s.route("POST /api/reports", s.requireAuth(s.handleCreateReport))
	s.route("GET /api/reports", s.requireAuth(s.handleListReports))
	s.route("POST /api/reports/{id}/status", s.requireAuth(s.handleUpdateReportStatus))

	s.route("GET /api/dashboard/creator", s.requireAuth(s.handleCreatorDashboard))

	s.route("POST /api/uploads", s.requireAuth(s.handleUploadContentFile))
	s.route("POST /api/uploads/avatar", s.requireAuth(s.handleUploadAvatar))
}

// route registers pattern and records request metrics under it.
func (s *Server) route(pattern string, handler http.HandlerFunc) {
	method, path, _ := strings.Cut(pattern, " ")
	s.mux.HandleFunc(pattern, func(w http.ResponseWriter, r *http.Request) {
		started := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		handler(rec, r)
		s.metrics.ObserveHTTP(method, path, rec.status, time.Since(started))
	})
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeError(w http.ResponseWriter, status int, code string, message string) {
	writeJSON(w, status, errorResponse{
		Code:    code,
		Message: message,
	})
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

// decodeJSON reads a bounded JSON body into dst. An empty body leaves dst untouched.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxJSONBody)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil && !errors.Is(err, io.EOF) {
		writeError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return false
	}
	return true
}

func noDirectoryListing(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "" || strings.HasSuffix(r.URL.Path, "/") {
			http.NotFound(w, r)
			return
		}
		next.ServeHTTP(w, r)
	})
}
