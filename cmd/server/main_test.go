package main

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/prometheus/client_golang/prometheus"
	goredis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	httpAdapter "github.com/iho/exchangeledger/internal/adapter/http"
	"github.com/iho/exchangeledger/internal/adapter/http/handler"
	"github.com/iho/exchangeledger/internal/adapter/http/middleware"
	redisRepo "github.com/iho/exchangeledger/internal/adapter/repository/redis"
	"github.com/iho/exchangeledger/internal/infrastructure/config"
	"github.com/iho/exchangeledger/internal/infrastructure/eventpublisher"
	"github.com/iho/exchangeledger/internal/infrastructure/metrics"
	"github.com/iho/exchangeledger/internal/usecase/mocks"
)

func TestNewPublisher(t *testing.T) {
	cfg := &config.Config{EventsPublisher: config.PublisherLog}
	if _, ok := newPublisher(cfg, nil, zerolog.Nop()).(*eventpublisher.LogPublisher); !ok {
		t.Fatalf("expected log publisher")
	}

	mr := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	defer client.Close()

	cfg = &config.Config{EventsPublisher: config.PublisherRedis, EventsStream: "events"}
	if _, ok := newPublisher(cfg, client, zerolog.Nop()).(*redisRepo.StreamPublisher); !ok {
		t.Fatalf("expected stream publisher")
	}

	// No client available: fall back to logging.
	if _, ok := newPublisher(cfg, nil, zerolog.Nop()).(*eventpublisher.LogPublisher); !ok {
		t.Fatalf("expected log publisher without a redis client")
	}
}

func TestNewRateLimiter(t *testing.T) {
	if rl := newRateLimiter(&config.Config{RateLimitRPS: 0}, nil); rl != nil {
		t.Fatalf("expected limiter disabled")
	}
	if rl := newRateLimiter(&config.Config{RateLimitRPS: 5, RateLimitBurst: 5}, nil); rl == nil {
		t.Fatalf("expected limiter")
	}
}

func TestSweepLimitersStopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		sweepLimiters(ctx, middleware.NewRateLimiter(1, 1), time.Millisecond, zerolog.Nop())
		close(done)
	}()

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("sweeper did not stop")
	}
}

func newTestRouter(t *testing.T, cfg *config.Config) (http.Handler, *mocks.Ledger) {
	t.Helper()

	l := mocks.NewLedger()
	st := stores{
		txManager:    l,
		snapshots:    l,
		transactions: l.Transactions,
		balances:     l.Balances,
		earnings:     l.Earnings,
		outbox:       l.Outbox,
		currencies:   l.Currencies,
		customers:    l.Customers,
		idGen:        mocks.NewMockIDGenerator(),
		cache:        mocks.NewMemoryCache(),
	}
	m := metrics.NewWithRegistry(prometheus.NewRegistry())
	ok := handler.PingFunc(func(context.Context) error { return nil })

	svc := newServices(cfg, st, m, zerolog.Nop())
	rc := newRouterConfig(svc, handler.NewHealthHandler(ok, ok), zerolog.Nop())
	rc.Metrics = m
	return httpAdapter.NewRouter(rc), l
}

func postTransaction(t *testing.T, h http.Handler, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/transactions", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestWiring_DefaultPolicyAllowsOverdraft(t *testing.T) {
	cfg := &config.Config{AllowNegativeCompanyCash: true, AllowNegativeCompanyCheck: true, ReportCacheTTL: time.Minute}
	h, l := newTestRouter(t, cfg)

	rec := postTransaction(t, h, `{"amount":"100","movement":"sell-cash","customer_id":"C1","currency_id":"USD"}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	if l.TransactionCount() != 1 {
		t.Fatalf("expected one stored transaction, got %d", l.TransactionCount())
	}
}

func TestWiring_StrictPolicyRejectsOverdraft(t *testing.T) {
	cfg := &config.Config{AllowNegativeCompanyCash: false, AllowNegativeCompanyCheck: true}
	h, l := newTestRouter(t, cfg)

	rec := postTransaction(t, h, `{"amount":"100","movement":"sell-cash","customer_id":"C1","currency_id":"USD"}`)
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %d: %s", rec.Code, rec.Body.String())
	}
	if l.TransactionCount() != 0 {
		t.Fatalf("rejected transaction was stored")
	}

	var resp map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp["error"] == nil {
		t.Fatalf("expected error body, got %v", resp)
	}
}

func TestServe_ShutsDownOnCancel(t *testing.T) {
	server := &http.Server{Addr: "127.0.0.1:0", Handler: http.NotFoundHandler()}

	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error, 1)
	go func() { errCh <- serve(ctx, server, time.Second, zerolog.Nop()) }()

	cancel()
	select {
	case err := <-errCh:
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("serve did not return")
	}
}
