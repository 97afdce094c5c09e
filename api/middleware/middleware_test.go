package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	pkgerrors "github.com/giftwheel/giftwheel-backend/pkg/errors"
	"github.com/giftwheel/giftwheel-backend/pkg/idp"
)

type fakeIntrospector struct {
	result *idp.Introspection
	err    error
}

func (f *fakeIntrospector) Introspect(context.Context, string) (*idp.Introspection, error) {
	return f.result, f.err
}

type fakeResolver struct {
	userID string
	err    error
}

func (f *fakeResolver) ResolveOrCreateUser(context.Context, string, string) (string, error) {
	return f.userID, f.err
}

type fakeHouseholdResolver struct {
	householdID string
	err         error
}

func (f *fakeHouseholdResolver) ActiveHousehold(context.Context, string) (string, error) {
	return f.householdID, f.err
}

type fakeRateStore struct {
	mu     sync.Mutex
	counts map[string]int64
}

func newFakeRateStore() *fakeRateStore {
	return &fakeRateStore{counts: map[string]int64{}}
}

func (f *fakeRateStore) FixedWindowAllow(_ context.Context, scope string, limit int64, _ time.Duration) (bool, int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.counts[scope]++
	return f.counts[scope] <= limit, f.counts[scope], nil
}

func decodeErrorMessage(t *testing.T, body []byte) string {
	t.Helper()
	var payload struct {
		Status  string `json:"status"`
		Message string `json:"message"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		t.Fatalf("decode error envelope: %v", err)
	}
	if payload.Status != "error" {
		t.Fatalf("expected error status, got %q", payload.Status)
	}
	return payload.Message
}

func TestAuthRejectsMissingCredentials(t *testing.T) {
	handler := Auth(&fakeIntrospector{}, &fakeResolver{}, nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler should not run without credentials")
	}))

	req := httptest.NewRequest(http.MethodGet, "/households", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}

func TestAuthSeedsUserContext(t *testing.T) {
	introspector := &fakeIntrospector{result: &idp.Introspection{Active: true, Subject: "sub-1", Email: "a@b.com"}}
	resolver := &fakeResolver{userID: "01hqv3tzj8r9k2w5x7m1n4p6qa"}

	var seen string
	handler := Auth(introspector, resolver, nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = UserIDFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/households", nil)
	req.Header.Set("Authorization", "Bearer token-123")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if seen != resolver.userID {
		t.Fatalf("expected user id in context, got %q", seen)
	}
}

func TestAuthPropagatesIntrospectionFailure(t *testing.T) {
	introspector := &fakeIntrospector{err: pkgerrors.New(pkgerrors.CodeUnauthorized, "token inactive")}
	handler := Auth(introspector, &fakeResolver{}, nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler should not run with an inactive token")
	}))

	req := httptest.NewRequest(http.MethodGet, "/households", nil)
	req.Header.Set("Authorization", "Bearer dead")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
	if msg := decodeErrorMessage(t, rec.Body.Bytes()); msg != "token inactive" {
		t.Fatalf("unexpected message %q", msg)
	}
}

func TestHouseholdContextRejectsUserWithoutMembership(t *testing.T) {
	resolver := &fakeHouseholdResolver{err: pkgerrors.New(pkgerrors.CodeForbidden, "no active household")}
	handler := HouseholdContext(resolver, nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler should not run without a household")
	}))

	req := httptest.NewRequest(http.MethodGet, "/events", nil)
	req = req.WithContext(WithUserID(req.Context(), "u1"))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", rec.Code)
	}
}

func TestHouseholdContextSeedsHouseholdID(t *testing.T) {
	resolver := &fakeHouseholdResolver{householdID: "hh1"}

	var seen string
	handler := HouseholdContext(resolver, nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = HouseholdIDFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/events", nil)
	req = req.WithContext(WithUserID(req.Context(), "u1"))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if seen != "hh1" {
		t.Fatalf("expected household id in context, got %q", seen)
	}
}

func TestRequestIDEchoesOrMintsID(t *testing.T) {
	handler := RequestID(nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	req.Header.Set("X-Request-Id", "  trace-42  ")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if got := rec.Header().Get("X-Request-Id"); got != "trace-42" {
		t.Fatalf("expected trimmed caller id echoed, got %q", got)
	}

	req = httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Header().Get("X-Request-Id") == "" {
		t.Fatal("expected a generated id when none is supplied")
	}

	oversized := strings.Repeat("x", 200)
	req = httptest.NewRequest(http.MethodGet, "/healthz", nil)
	req.Header.Set("X-Request-Id", oversized)
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if got := rec.Header().Get("X-Request-Id"); got == oversized || got == "" {
		t.Fatalf("oversized caller id should be replaced, got %q", got)
	}
}

func TestAuthRateLimitBlocksOverLimit(t *testing.T) {
	store := newFakeRateStore()
	policy := NewAuthRateLimitPolicy("token", time.Minute, 2)
	handler := AuthRateLimit(policy, store, nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	for i := 0; i < 3; i++ {
		req := httptest.NewRequest(http.MethodPost, "/auth/token", nil)
		req.RemoteAddr = "1.2.3.4:5678"
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		if i < 2 && rec.Code != http.StatusOK {
			t.Fatalf("expected success before limit, got %d", rec.Code)
		}
		if i >= 2 && rec.Code != http.StatusTooManyRequests {
			t.Fatalf("expected 429 after limit, got %d", rec.Code)
		}
	}
}

func TestAuthRateLimitDisabledPolicyPassesThrough(t *testing.T) {
	policy := NewAuthRateLimitPolicy("token", 0, 0)
	handler := AuthRateLimit(policy, newFakeRateStore(), nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	for i := 0; i < 5; i++ {
		req := httptest.NewRequest(http.MethodPost, "/auth/token", nil)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Fatalf("expected pass-through, got %d", rec.Code)
		}
	}
}
