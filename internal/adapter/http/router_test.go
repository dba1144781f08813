package http

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	redislib "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iho/gotransfer/internal/adapter/http/handler"
	apimiddleware "github.com/iho/gotransfer/internal/adapter/http/middleware"
	"github.com/iho/gotransfer/internal/adapter/idgen"
	"github.com/iho/gotransfer/internal/adapter/repository/memory"
	redisrepo "github.com/iho/gotransfer/internal/adapter/repository/redis"
	"github.com/iho/gotransfer/internal/domain"
	"github.com/iho/gotransfer/internal/infrastructure/metrics"
	"github.com/iho/gotransfer/internal/usecase"
)

type recordingNotifier struct {
	mu       sync.Mutex
	messages map[string][]string
}

func (n *recordingNotifier) Notify(_ context.Context, account *domain.Account, message string) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.messages == nil {
		n.messages = make(map[string][]string)
	}
	n.messages[account.ID] = append(n.messages[account.ID], message)
	return nil
}

type testServer struct {
	router   http.Handler
	accounts *usecase.AccountUseCase
	notifier *recordingNotifier
}

func newTestServer(t *testing.T, opts ...func(*RouterConfig)) *testServer {
	t.Helper()

	repo := memory.NewAccountRepository()
	reg := prometheus.NewRegistry()
	m := metrics.New(reg)
	notifier := &recordingNotifier{}

	transferUC := usecase.NewTransferUseCase(repo, notifier, idgen.NewULIDGenerator(), m, zerolog.Nop())
	accountUC := usecase.NewAccountUseCase(repo, transferUC.Locker(), m, zerolog.Nop())
	ledgerUC := usecase.NewLedgerUseCase(transferUC)

	cfg := RouterConfig{
		AccountHandler:  handler.NewAccountHandler(accountUC),
		TransferHandler: handler.NewTransferHandler(transferUC),
		LedgerHandler:   handler.NewLedgerHandler(ledgerUC),
		HealthHandler:   handler.NewHealthHandler(nil),
		Logger:          zerolog.Nop(),
		Metrics:         m,
		MetricsHandler:  promhttp.HandlerFor(reg, promhttp.HandlerOpts{}),
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	return &testServer{
		router:   NewRouter(cfg),
		accounts: accountUC,
		notifier: notifier,
	}
}

func (s *testServer) do(method, path, body string, headers ...string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
	}
	req.Header.Set("Content-Type", "application/json")
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}

	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	return rec
}

func (s *testServer) seed(t *testing.T, id, balance string) {
	t.Helper()
	_, err := s.accounts.CreateAccount(context.Background(), usecase.CreateAccountInput{
		ID:      id,
		Balance: decimal.RequireFromString(balance),
	})
	require.NoError(t, err)
}

func (s *testServer) balance(t *testing.T, id string) decimal.Decimal {
	t.Helper()
	account, err := s.accounts.GetAccount(context.Background(), id)
	require.NoError(t, err)
	return account.Balance
}

func TestRouter_CreateAccount(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(http.MethodPost, "/v1/accounts", `{"accountId":"Id-123","balance":1000}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	assert.True(t, decimal.NewFromInt(1000).Equal(s.balance(t, "Id-123")))
}

func TestRouter_CreateAccountRejections(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"no account id", `{"balance":1000}`},
		{"no balance", `{"accountId":"Id-123"}`},
		{"no body", ""},
		{"negative balance", `{"accountId":"Id-123","balance":-1000}`},
		{"empty account id", `{"accountId":"","balance":1000}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestServer(t)
			rec := s.do(http.MethodPost, "/v1/accounts", tt.body)
			assert.Equal(t, http.StatusBadRequest, rec.Code, rec.Body.String())
		})
	}
}

func TestRouter_CreateDuplicateAccount(t *testing.T) {
	s := newTestServer(t)

	require.Equal(t, http.StatusCreated, s.do(http.MethodPost, "/v1/accounts", `{"accountId":"Id-123","balance":1000}`).Code)

	rec := s.do(http.MethodPost, "/v1/accounts", `{"accountId":"Id-123","balance":1000}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "Account id Id-123 already exists!")
}

func TestRouter_GetAccount(t *testing.T) {
	s := newTestServer(t)
	s.seed(t, "Id-42", "123.45")

	rec := s.do(http.MethodGet, "/v1/accounts/Id-42", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"accountId":"Id-42","balance":123.45}`, rec.Body.String())

	assert.Equal(t, http.StatusNotFound, s.do(http.MethodGet, "/v1/accounts/missing", "").Code)
}

func TestRouter_TransferFundsSuccess(t *testing.T) {
	for _, method := range []string{http.MethodPatch, http.MethodPost} {
		t.Run(method, func(t *testing.T) {
			s := newTestServer(t)
			s.seed(t, "2", "1000")
			s.seed(t, "1", "500")

			rec := s.do(method, "/v1/accounts/transference", `{"accountFrom":"1","accountTo":"2","value":100}`)
			require.Equal(t, http.StatusAccepted, rec.Code, rec.Body.String())

			assert.True(t, decimal.NewFromInt(1100).Equal(s.balance(t, "2")))
			assert.True(t, decimal.NewFromInt(400).Equal(s.balance(t, "1")))

			assert.Equal(t, []string{"You received 100 in your account"}, s.notifier.messages["2"])
			assert.Equal(t, []string{"You transferred 100 from your account to the account 2"}, s.notifier.messages["1"])
		})
	}
}

func TestRouter_TransferRejections(t *testing.T) {
	tests := []struct {
		name string
		body string
		want int
	}{
		{"no funds available", `{"accountFrom":"1","accountTo":"2","value":100}`, http.StatusBadRequest},
		{"zero amount", `{"accountFrom":"1","accountTo":"2","value":0}`, http.StatusBadRequest},
		{"negative amount", `{"accountFrom":"1","accountTo":"2","value":-10}`, http.StatusBadRequest},
		{"unknown destination", `{"accountFrom":"1","accountTo":"9","value":10}`, http.StatusNotFound},
		{"unknown source", `{"accountFrom":"9","accountTo":"2","value":10}`, http.StatusNotFound},
		{"missing value", `{"accountFrom":"1","accountTo":"2"}`, http.StatusBadRequest},
		{"malformed", `{"accountFrom":`, http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestServer(t)
			s.seed(t, "2", "1000")
			s.seed(t, "1", "50")

			rec := s.do(http.MethodPatch, "/v1/accounts/transference", tt.body)
			assert.Equal(t, tt.want, rec.Code, rec.Body.String())

			assert.True(t, decimal.NewFromInt(1000).Equal(s.balance(t, "2")))
			assert.True(t, decimal.NewFromInt(50).Equal(s.balance(t, "1")))
			assert.Empty(t, s.notifier.messages)
		})
	}
}

func TestRouter_ClearAndConsistency(t *testing.T) {
	s := newTestServer(t)
	s.seed(t, "1", "100")
	s.seed(t, "2", "200")

	rec := s.do(http.MethodGet, "/v1/ledger/consistency", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"consistent":true,"accounts":2,"totalBalance":300}`, rec.Body.String())

	assert.Equal(t, http.StatusNoContent, s.do(http.MethodDelete, "/v1/accounts", "").Code)
	assert.Equal(t, http.StatusNotFound, s.do(http.MethodGet, "/v1/accounts/1", "").Code)
}

func TestRouter_HealthAndMetrics(t *testing.T) {
	s := newTestServer(t)

	assert.Equal(t, http.StatusOK, s.do(http.MethodGet, "/health", "").Code)
	assert.Equal(t, http.StatusOK, s.do(http.MethodGet, "/ready", "").Code)

	s.do(http.MethodPost, "/v1/accounts", `{"accountId":"m","balance":1}`)

	rec := s.do(http.MethodGet, "/metrics", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "gotransfer_accounts_created_total 1")
	assert.Contains(t, rec.Body.String(), "gotransfer_http_requests_total")
}

func TestRouter_RateLimiterBlocksExcessRequests(t *testing.T) {
	s := newTestServer(t, func(cfg *RouterConfig) {
		cfg.RateLimiter = apimiddleware.NewRateLimiter(0.001, 1, nil)
	})

	assert.Equal(t, http.StatusOK, s.do(http.MethodGet, "/health", "", "X-Real-IP", "1.2.3.4").Code)
	assert.Equal(t, http.StatusTooManyRequests, s.do(http.MethodGet, "/health", "", "X-Real-IP", "1.2.3.4").Code)
}

func TestRouter_IdempotentTransfer(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redislib.NewClient(&redislib.Options{Addr: mr.Addr()})
	defer client.Close()

	s := newTestServer(t, func(cfg *RouterConfig) {
		cfg.IdempotencyStore = redisrepo.NewIdempotencyStore(client)
	})
	s.seed(t, "1", "500")
	s.seed(t, "2", "0")

	body := `{"accountFrom":"1","accountTo":"2","value":100}`
	first := s.do(http.MethodPost, "/v1/accounts/transference", body, apimiddleware.IdempotencyKeyHeader, "tx-key")
	second := s.do(http.MethodPost, "/v1/accounts/transference", body, apimiddleware.IdempotencyKeyHeader, "tx-key")

	require.Equal(t, http.StatusAccepted, first.Code)
	require.Equal(t, http.StatusAccepted, second.Code)
	assert.Equal(t, "true", second.Header().Get(apimiddleware.IdempotencyReplayHeader))
	assert.JSONEq(t, first.Body.String(), second.Body.String())

	// Funds moved once.
	assert.True(t, decimal.NewFromInt(400).Equal(s.balance(t, "1")))
	assert.True(t, decimal.NewFromInt(100).Equal(s.balance(t, "2")))
}
