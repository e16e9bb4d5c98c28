package integration

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"

	adaptershttp "github.com/iho/pointswallet/internal/adapter/http"
	"github.com/iho/pointswallet/internal/adapter/http/dto"
	"github.com/iho/pointswallet/internal/adapter/http/handler"
	"github.com/iho/pointswallet/internal/adapter/repository/postgres"
	redisrepo "github.com/iho/pointswallet/internal/adapter/repository/redis"
	"github.com/iho/pointswallet/internal/infrastructure/auth"
	"github.com/iho/pointswallet/internal/infrastructure/metrics"
	infraredis "github.com/iho/pointswallet/internal/infrastructure/redis"
	"github.com/iho/pointswallet/internal/usecase"
	"github.com/iho/pointswallet/tests/testutil"
)

// testStack wires the full application the way cmd/server does, backed
// by the test database and redis.
type testStack struct {
	Router      http.Handler
	JWTManager  *auth.JWTManager
	UserUC      *usecase.UserUseCase
	WalletUC    *usecase.WalletUseCase
	TransferUC  *usecase.TransferUseCase
	RedisClient *redis.Client
}

func newTestStack(t *testing.T, testDB *testutil.TestDB) *testStack {
	t.Helper()

	ctx := context.Background()
	pool := testDB.Pool

	txManager := postgres.NewTxManager(pool)
	accountRepo := postgres.NewAccountRepository(pool)
	walletRepo := postgres.NewWalletRepository(pool)
	transactionRepo := postgres.NewTransactionRepository(pool)
	idGen := postgres.NewULIDGenerator()
	retrier := postgres.NewRetrier()

	redisURL := os.Getenv("REDIS_URL")
	if redisURL == "" {
		redisURL = "redis://localhost:6379"
	}

	redisClient, err := infraredis.NewClient(ctx, redisURL)
	if err != nil {
		t.Fatalf("failed to connect to redis: %v", err)
	}
	t.Cleanup(func() { redisClient.Close() })

	cache := redisrepo.NewCache(redisClient)
	idempotencyStore := redisrepo.NewIdempotencyStore(redisClient)

	userUC := usecase.NewUserUseCase(accountRepo, idGen)
	walletUC := usecase.NewWalletUseCase(txManager, walletRepo, transactionRepo, idGen, cache, retrier)
	transferUC := usecase.NewTransferUseCase(txManager, accountRepo, walletRepo, transactionRepo, idGen, cache, retrier)
	historyUC := usecase.NewHistoryUseCase(transactionRepo)

	jwtManager := auth.NewJWTManager("integration-test-secret", time.Hour)
	appMetrics := metrics.New(prometheus.NewRegistry())

	router := adaptershttp.NewRouter(adaptershttp.RouterConfig{
		AuthHandler:        handler.NewAuthHandler(userUC, jwtManager, appMetrics),
		WalletHandler:      handler.NewWalletHandler(walletUC, appMetrics),
		TransferHandler:    handler.NewTransferHandler(transferUC, walletUC, appMetrics),
		TransactionHandler: handler.NewTransactionHandler(historyUC),
		HealthHandler:      handler.NewHealthHandler(pool, redisClient),
		JWTManager:         jwtManager,
		IdempotencyStore:   idempotencyStore,
		IdempotencyTTL:     time.Minute,
		Metrics:            appMetrics,
	})

	return &testStack{
		Router:      router,
		JWTManager:  jwtManager,
		UserUC:      userUC,
		WalletUC:    walletUC,
		TransferUC:  transferUC,
		RedisClient: redisClient,
	}
}

// flushRedis clears cached balances and idempotency records between
// subtests so truncated database state is not resurrected from cache.
func (s *testStack) flushRedis(ctx context.Context, t *testing.T) {
	t.Helper()

	if err := s.RedisClient.FlushAll(ctx).Err(); err != nil {
		t.Fatalf("failed to flush redis: %v", err)
	}
}

// signup registers an account over HTTP and returns its session token
// and account ID.
func (s *testStack) signup(t *testing.T, email, name, password string) (string, string) {
	t.Helper()

	body, _ := json.Marshal(dto.SignupRequest{Email: email, Name: name, Password: password})

	r := httptest.NewRequest(http.MethodPost, "/api/v1/auth/signup", bytes.NewReader(body))
	r.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	s.Router.ServeHTTP(w, r)

	if w.Code != http.StatusCreated {
		t.Fatalf("signup failed: %d %s", w.Code, w.Body.String())
	}

	var resp dto.AuthResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to parse signup response: %v", err)
	}

	return resp.Token, resp.Account.ID
}

// do issues an authenticated JSON request against the router.
func (s *testStack) do(t *testing.T, method, path, token string, payload any) *httptest.ResponseRecorder {
	t.Helper()

	var body *bytes.Reader
	if payload != nil {
		b, err := json.Marshal(payload)
		if err != nil {
			t.Fatalf("failed to marshal request: %v", err)
		}
		body = bytes.NewReader(b)
	} else {
		body = bytes.NewReader(nil)
	}

	r := httptest.NewRequest(method, path, body)
	r.Header.Set("Content-Type", "application/json")
	if token != "" {
		r.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	s.Router.ServeHTTP(w, r)

	return w
}

// doWithIdempotencyKey posts a transfer with an Idempotency-Key header.
func (s *testStack) doWithIdempotencyKey(t *testing.T, token string, payload any, key string) *httptest.ResponseRecorder {
	t.Helper()

	b, err := json.Marshal(payload)
	if err != nil {
		t.Fatalf("failed to marshal request: %v", err)
	}

	r := httptest.NewRequest(http.MethodPost, "/api/v1/points/transfer", bytes.NewReader(b))
	r.Header.Set("Content-Type", "application/json")
	r.Header.Set("Authorization", "Bearer "+token)
	r.Header.Set("Idempotency-Key", key)

	w := httptest.NewRecorder()
	s.Router.ServeHTTP(w, r)

	return w
}

func decodeWallet(t *testing.T, w *httptest.ResponseRecorder) dto.WalletResponse {
	t.Helper()

	var resp dto.WalletResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to parse wallet response: %v (%s)", err, w.Body.String())
	}

	return resp
}

func decodeTransactions(t *testing.T, w *httptest.ResponseRecorder) []dto.TransactionResponse {
	t.Helper()

	var resp []dto.TransactionResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to parse transactions response: %v (%s)", err, w.Body.String())
	}

	return resp
}
