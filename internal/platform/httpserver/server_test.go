package httpserver

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	catalog "creatorhub/contexts/community-experience/catalog-service"
	catalogmemory "creatorhub/contexts/community-experience/catalog-service/adapters/memory"
	chat "creatorhub/contexts/community-experience/chat-service"
	customrequest "creatorhub/contexts/community-experience/custom-request-service"
	requestmemory "creatorhub/contexts/community-experience/custom-request-service/adapters/memory"
	media "creatorhub/contexts/community-experience/media-service"
	mediadisk "creatorhub/contexts/community-experience/media-service/adapters/disk"
	billing "creatorhub/contexts/finance-core/billing-service"
	account "creatorhub/contexts/identity-access/account-service"
	creatordashboard "creatorhub/contexts/internal-ops/creator-dashboard-service"
	moderationservice "creatorhub/contexts/moderation-safety/moderation-service"
	"creatorhub/contexts/moderation-safety/moderation-service/domain/services"
	"creatorhub/internal/platform/auth"
	"creatorhub/internal/platform/messaging"
	"creatorhub/internal/platform/observability"
	"creatorhub/internal/platform/payments"
	"creatorhub/internal/platform/textpolicy"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

const testOrigin = "http://localhost:5173"

// newTestServer wires every context against in-memory stores with payments
// in mock mode and uploads written under a temp dir.
func newTestServer(t *testing.T, opts Options) *Server {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	metrics := observability.NewMetrics(nil)
	tokens := auth.NewJWTIssuer("test-secret", time.Hour)
	policy := textpolicy.New([]string{"nazi"}, []string{"pied"})
	gateway := payments.NewStripeGateway(payments.StripeConfig{MockMode: true}, metrics, logger)

	accounts := account.NewInMemoryModule(auth.BcryptHasher{Cost: bcrypt.MinCost}, tokens, logger)
	requestStore := requestmemory.NewStore()
	catalogStore := catalogmemory.NewStore()

	moderation := moderationservice.NewInMemoryModule(moderationservice.Dependencies{
		Accounts:   accounts.Store,
		Deliveries: requestStore,
		Policy:     policy,
		Thresholds: services.DefaultThresholds(),
		Logger:     logger,
	})
	requests := customrequest.NewInMemoryModule(requestStore, customrequest.Dependencies{
		Accounts:        accounts.Store,
		Policy:          policy,
		Gateway:         gateway,
		Moderation:      moderation.Service,
		PlatformFeeRate: 0.2,
		Expiry:          48 * time.Hour,
		FrontendURL:     testOrigin,
		Logger:          logger,
	})
	billingModule := billing.NewInMemoryModule(nil, billing.Dependencies{
		Accounts:               accounts.Store,
		Catalog:                catalogStore,
		Requests:               requests.Payments,
		Gateway:                gateway,
		Webhooks:               metrics,
		Logger:                 logger,
		FrontendURL:            testOrigin,
		PassPriceCents:         599,
		SubscriptionPriceCents: 1199,
		PlatformFeeRate:        0.2,
		AccessPeriod:           30 * 24 * time.Hour,
		IdempotencyTTL:         time.Hour,
		EventDedupTTL:          time.Hour,
	})
	catalogModule := catalog.NewModule(catalog.Dependencies{
		Repository:   catalogStore,
		Summaries:    catalogStore,
		Accounts:     accounts.Store,
		Purchases:    billingModule.Store,
		Clock:        catalogStore,
		IDGenerator:  catalogStore,
		PreviewCount: 3,
		Logger:       logger,
	})
	chatModule := chat.NewInMemoryModule(chat.Dependencies{
		Accounts:       accounts.Store,
		Policy:         policy,
		Publisher:      messaging.NewBus(logger),
		AllowedOrigins: []string{testOrigin},
		Logger:         logger,
	})
	dashboard := creatordashboard.NewModule(creatordashboard.Dependencies{
		Accounts:  accounts.Store,
		Content:   catalogStore,
		Purchases: billingModule.Store,
		Requests:  requests.Reports,
		Logger:    logger,
	})
	uploads, err := mediadisk.NewStore(t.TempDir(), "http://api.test", logger)
	require.NoError(t, err)
	mediaModule := media.NewModule(media.Dependencies{
		Store:    uploads,
		Accounts: accounts.Store,
		IDGen:    mediadisk.UUIDGenerator{},
		Logger:   logger,
	})

	if opts.AllowedOrigins == nil {
		opts.AllowedOrigins = []string{testOrigin}
	}
	opts.UploadDir = uploads.Dir()
	opts.Metrics = metrics
	opts.Logger = logger
	return New(Modules{
		Accounts:   accounts,
		Catalog:    catalogModule,
		Billing:    billingModule,
		Requests:   requests,
		Chat:       chatModule,
		Moderation: moderation,
		Dashboard:  dashboard,
		Media:      mediaModule,
	}, tokens, opts)
}

func doJSON(t *testing.T, server *Server, method string, path string, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rr := httptest.NewRecorder()
	server.Handler().ServeHTTP(rr, req)
	return rr
}

type session struct {
	Token string `json:"token"`
	User  struct {
		ID   string `json:"id"`
		Role string `json:"role"`
	} `json:"user"`
}

func register(t *testing.T, server *Server, role string, username string) session {
	t.Helper()
	rr := doJSON(t, server, http.MethodPost, "/api/auth/register/"+role, "", map[string]string{
		"username":    username,
		"email":       username + "@example.com",
		"password":    "hunter22",
		"displayName": username,
		"birthDate":   "1990-04-01",
	})
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())
	var out session
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &out))
	require.NotEmpty(t, out.Token)
	return out
}

func decodeError(t *testing.T, rr *httptest.ResponseRecorder) errorResponse {
	t.Helper()
	var out errorResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &out), rr.Body.String())
	return out
}

func TestHealthzSetsSecurityHeaders(t *testing.T) {
	server := newTestServer(t, Options{})
	rr := doJSON(t, server, http.MethodGet, "/healthz", "", nil)

	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "nosniff", rr.Header().Get("X-Content-Type-Options"))
	assert.Equal(t, "cross-origin", rr.Header().Get("Cross-Origin-Resource-Policy"))
}

func TestRegisterLoginAndProfile(t *testing.T) {
	server := newTestServer(t, Options{})
	created := register(t, server, "consumer", "alice")
	assert.Equal(t, "consumer", created.User.Role)

	rr := doJSON(t, server, http.MethodPost, "/api/auth/login", "", map[string]string{
		"identifier": "ALICE@example.com",
		"password":   "hunter22",
	})
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())

	rr = doJSON(t, server, http.MethodGet, "/api/users/me", created.Token, nil)
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	var profile map[string]any
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &profile))
	assert.Equal(t, created.User.ID, profile["id"])
}

func TestRegisterRejectsDuplicateAndUnderage(t *testing.T) {
	server := newTestServer(t, Options{})
	register(t, server, "creator", "bob")

	rr := doJSON(t, server, http.MethodPost, "/api/auth/register/creator", "", map[string]string{
		"username":    "bob",
		"email":       "other@example.com",
		"password":    "hunter22",
		"displayName": "Bob",
		"birthDate":   "1990-04-01",
	})
	assert.Equal(t, http.StatusConflict, rr.Code, rr.Body.String())

	rr = doJSON(t, server, http.MethodPost, "/api/auth/register/consumer", "", map[string]string{
		"username":    "kid",
		"email":       "kid@example.com",
		"password":    "hunter22",
		"displayName": "Kid",
		"birthDate":   time.Now().UTC().AddDate(-10, 0, 0).Format("2006-01-02"),
	})
	assert.Equal(t, http.StatusForbidden, rr.Code, rr.Body.String())
}

func TestRegisterWithoutRoleReturnsHint(t *testing.T) {
	server := newTestServer(t, Options{})
	rr := doJSON(t, server, http.MethodPost, "/api/auth/register", "", map[string]string{"username": "x"})

	require.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Equal(t, "use_role_endpoint", decodeError(t, rr).Code)
}

func TestLoginRejectsWrongPassword(t *testing.T) {
	server := newTestServer(t, Options{})
	register(t, server, "consumer", "carol")

	rr := doJSON(t, server, http.MethodPost, "/api/auth/login", "", map[string]string{
		"identifier": "carol",
		"password":   "nope",
	})
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}

func TestProtectedRouteRequiresToken(t *testing.T) {
	server := newTestServer(t, Options{})

	rr := doJSON(t, server, http.MethodGet, "/api/users/me", "", nil)
	assert.Equal(t, http.StatusUnauthorized, rr.Code)

	rr = doJSON(t, server, http.MethodGet, "/api/users/me", "not-a-jwt", nil)
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
	assert.Equal(t, "invalid_token", decodeError(t, rr).Code)
}

func TestOptionalAuthTreatsInvalidTokenAsAnonymous(t *testing.T) {
	server := newTestServer(t, Options{})
	rr := doJSON(t, server, http.MethodGet, "/api/content", "garbage", nil)
	assert.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
}

func TestMalformedJSONIsRejected(t *testing.T) {
	server := newTestServer(t, Options{})
	req := httptest.NewRequest(http.MethodPost, "/api/auth/login", bytes.NewReader([]byte(`{"identifier":`)))
	rr := httptest.NewRecorder()
	server.Handler().ServeHTTP(rr, req)

	require.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Equal(t, "invalid_json", decodeError(t, rr).Code)
}

func TestCORSRejectsUnknownOrigin(t *testing.T) {
	server := newTestServer(t, Options{})
	req := httptest.NewRequest(http.MethodGet, "/api/creators", nil)
	req.Header.Set("Origin", "https://evil.example")
	rr := httptest.NewRecorder()
	server.Handler().ServeHTTP(rr, req)

	assert.Equal(t, http.StatusForbidden, rr.Code)
}

func TestCORSPreflightForAllowedOrigin(t *testing.T) {
	server := newTestServer(t, Options{})
	req := httptest.NewRequest(http.MethodOptions, "/api/content", nil)
	req.Header.Set("Origin", testOrigin+"/")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	rr := httptest.NewRecorder()
	server.Handler().ServeHTTP(rr, req)

	require.Equal(t, http.StatusNoContent, rr.Code)
	assert.Equal(t, testOrigin, rr.Header().Get("Access-Control-Allow-Origin"))
	assert.Contains(t, rr.Header().Get("Access-Control-Allow-Headers"), "Idempotency-Key")
}

func TestStripeWebhookWithoutSecretIsRejected(t *testing.T) {
	server := newTestServer(t, Options{})
	req := httptest.NewRequest(http.MethodPost, "/api/stripe/webhook", bytes.NewReader([]byte(`{"id":"evt_1"}`)))
	req.Header.Set("Stripe-Signature", "t=1,v1=abc")
	rr := httptest.NewRecorder()
	server.Handler().ServeHTTP(rr, req)

	require.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Equal(t, "webhook_error", decodeError(t, rr).Code)
}
