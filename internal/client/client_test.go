package client

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
)

// authServer is a fake API that accepts one access token and can mint a
// replacement through the refresh endpoint
type authServer struct {
	mu           sync.Mutex
	validAccess  string
	validRefresh string
	newAccess    string
	refreshCalls int
	dataCalls    int
}

func (s *authServer) handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("/api/auth/refresh/", func(w http.ResponseWriter, r *http.Request) {
		s.mu.Lock()
		defer s.mu.Unlock()
		s.refreshCalls++

		var body struct {
			Refresh string `json:"refresh"`
		}
		_ = json.NewDecoder(r.Body).Decode(&body)

		if body.Refresh != s.validRefresh {
			w.WriteHeader(http.StatusUnauthorized)
			_ = json.NewEncoder(w).Encode(map[string]string{"detail": "Token is invalid or expired"})
			return
		}
		s.validAccess = s.newAccess
		_ = json.NewEncoder(w).Encode(map[string]string{"access": s.newAccess})
	})

	mux.HandleFunc("/api/auth/me/", func(w http.ResponseWriter, r *http.Request) {
		s.mu.Lock()
		defer s.mu.Unlock()
		s.dataCalls++

		if r.Header.Get("Authorization") != "Bearer "+s.validAccess {
			w.WriteHeader(http.StatusUnauthorized)
			_ = json.NewEncoder(w).Encode(map[string]string{"detail": "Given token not valid for any token type"})
			return
		}
		_ = json.NewEncoder(w).Encode(User{ID: 7, Username: "anna", Role: "staff"})
	})

	return mux
}

func TestExpiredAccessTokenIsRefreshedOnce(t *testing.T) {
	srv := &authServer{
		validAccess:  "good-access",
		validRefresh: "good-refresh",
		newAccess:    "minted-access",
	}
	ts := httptest.NewServer(srv.handler())
	defer ts.Close()

	store := NewMemoryTokenStore()
	_ = store.SetPair("stale-access", "good-refresh")

	c, err := New(ts.URL, store)
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	user, err := c.Me(context.Background())
	if err != nil {
		t.Fatalf("Me: %v", err)
	}
	if user.Username != "anna" {
		t.Errorf("username = %q, want anna", user.Username)
	}
	if srv.refreshCalls != 1 {
		t.Errorf("refresh calls = %d, want 1", srv.refreshCalls)
	}
	if srv.dataCalls != 2 {
		t.Errorf("data calls = %d, want 2 (401 then replay)", srv.dataCalls)
	}
	if got := store.Access(); got != "minted-access" {
		t.Errorf("stored access = %q, want minted-access", got)
	}
	if got := store.Refresh(); got != "good-refresh" {
		t.Errorf("stored refresh = %q, want it untouched", got)
	}
}

func TestValidAccessTokenSkipsRefresh(t *testing.T) {
	srv := &authServer{
		validAccess:  "good-access",
		validRefresh: "good-refresh",
		newAccess:    "minted-access",
	}
	ts := httptest.NewServer(srv.handler())
	defer ts.Close()

	store := NewMemoryTokenStore()
	_ = store.SetPair("good-access", "good-refresh")

	c, _ := New(ts.URL, store)
	if _, err := c.Me(context.Background()); err != nil {
		t.Fatalf("Me: %v", err)
	}
	if srv.refreshCalls != 0 {
		t.Errorf("refresh calls = %d, want 0", srv.refreshCalls)
	}
}

func TestRejectedRefreshEndsSession(t *testing.T) {
	srv := &authServer{
		validAccess:  "good-access",
		validRefresh: "good-refresh",
		newAccess:    "minted-access",
	}
	ts := httptest.NewServer(srv.handler())
	defer ts.Close()

	store := NewMemoryTokenStore()
	_ = store.SetPair("stale-access", "revoked-refresh")

	signals := 0
	c, _ := New(ts.URL, store, WithOnUnauthenticated(func() { signals++ }))

	_, err := c.Me(context.Background())
	if !errors.Is(err, ErrUnauthenticated) {
		t.Fatalf("err = %v, want ErrUnauthenticated", err)
	}
	if signals != 1 {
		t.Errorf("unauthenticated signals = %d, want 1", signals)
	}
	if store.Access() != "" || store.Refresh() != "" {
		t.Errorf("tokens not cleared: access=%q refresh=%q", store.Access(), store.Refresh())
	}
}

func TestMissingRefreshTokenEndsSessionWithoutCall(t *testing.T) {
	srv := &authServer{
		validAccess:  "good-access",
		validRefresh: "good-refresh",
		newAccess:    "minted-access",
	}
	ts := httptest.NewServer(srv.handler())
	defer ts.Close()

	store := NewMemoryTokenStore()
	_ = store.SetAccess("stale-access")

	signals := 0
	c, _ := New(ts.URL, store, WithOnUnauthenticated(func() { signals++ }))

	_, err := c.Me(context.Background())
	if !errors.Is(err, ErrUnauthenticated) {
		t.Fatalf("err = %v, want ErrUnauthenticated", err)
	}
	if signals != 1 {
		t.Errorf("unauthenticated signals = %d, want 1", signals)
	}
	if srv.refreshCalls != 0 {
		t.Errorf("refresh calls = %d, want 0", srv.refreshCalls)
	}
}

func TestRejectedReplayEndsSessionWithoutSecondRefresh(t *testing.T) {
	// The refresh succeeds but the server keeps rejecting the data call
	mux := http.NewServeMux()
	refreshCalls := 0
	dataCalls := 0
	mux.HandleFunc("/api/auth/refresh/", func(w http.ResponseWriter, r *http.Request) {
		refreshCalls++
		_ = json.NewEncoder(w).Encode(map[string]string{"access": "minted-access"})
	})
	mux.HandleFunc("/api/auth/me/", func(w http.ResponseWriter, r *http.Request) {
		dataCalls++
		w.WriteHeader(http.StatusUnauthorized)
		_ = json.NewEncoder(w).Encode(map[string]string{"detail": "nope"})
	})
	ts := httptest.NewServer(mux)
	defer ts.Close()

	store := NewMemoryTokenStore()
	_ = store.SetPair("stale-access", "good-refresh")

	signals := 0
	c, _ := New(ts.URL, store, WithOnUnauthenticated(func() { signals++ }))

	_, err := c.Me(context.Background())
	if !errors.Is(err, ErrUnauthenticated) {
		t.Fatalf("err = %v, want ErrUnauthenticated", err)
	}
	if refreshCalls != 1 {
		t.Errorf("refresh calls = %d, want 1", refreshCalls)
	}
	if dataCalls != 2 {
		t.Errorf("data calls = %d, want 2 (401 then rejected replay)", dataCalls)
	}
	if signals != 1 {
		t.Errorf("unauthenticated signals = %d, want 1", signals)
	}
	if store.Access() != "" || store.Refresh() != "" {
		t.Errorf("tokens not cleared: access=%q refresh=%q", store.Access(), store.Refresh())
	}
}

func TestRefreshServerErrorEndsSession(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/auth/refresh/", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_ = json.NewEncoder(w).Encode(map[string]string{"detail": "database is down"})
	})
	mux.HandleFunc("/api/auth/me/", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_ = json.NewEncoder(w).Encode(map[string]string{"detail": "expired"})
	})
	ts := httptest.NewServer(mux)
	defer ts.Close()

	store := NewMemoryTokenStore()
	_ = store.SetPair("stale-access", "good-refresh")

	signals := 0
	c, _ := New(ts.URL, store, WithOnUnauthenticated(func() { signals++ }))

	_, err := c.Me(context.Background())
	if !errors.Is(err, ErrUnauthenticated) {
		t.Fatalf("err = %v, want ErrUnauthenticated", err)
	}
	if signals != 1 {
		t.Errorf("unauthenticated signals = %d, want 1", signals)
	}
	if store.Access() != "" || store.Refresh() != "" {
		t.Errorf("tokens not cleared: access=%q refresh=%q", store.Access(), store.Refresh())
	}
}

func TestServerErrorDoesNotTriggerRefresh(t *testing.T) {
	refreshCalls := 0
	mux := http.NewServeMux()
	mux.HandleFunc("/api/auth/refresh/", func(w http.ResponseWriter, r *http.Request) {
		refreshCalls++
	})
	mux.HandleFunc("/api/auth/me/", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_ = json.NewEncoder(w).Encode(map[string]string{"detail": "database is down"})
	})
	ts := httptest.NewServer(mux)
	defer ts.Close()

	store := NewMemoryTokenStore()
	_ = store.SetPair("stale-access", "good-refresh")

	c, _ := New(ts.URL, store)
	_, err := c.Me(context.Background())

	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("err = %v, want APIError", err)
	}
	if apiErr.StatusCode != http.StatusInternalServerError {
		t.Errorf("status = %d, want 500", apiErr.StatusCode)
	}
	if apiErr.Detail != "database is down" {
		t.Errorf("detail = %q", apiErr.Detail)
	}
	if refreshCalls != 0 {
		t.Errorf("refresh calls = %d, want 0", refreshCalls)
	}
}

func TestLoginFailureIsNotASessionLoss(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/auth/login/", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_ = json.NewEncoder(w).Encode(map[string]string{"detail": "No active account found with the given credentials"})
	})
	ts := httptest.NewServer(mux)
	defer ts.Close()

	signals := 0
	c, _ := New(ts.URL, NewMemoryTokenStore(), WithOnUnauthenticated(func() { signals++ }))

	_, err := c.Login(context.Background(), "anna", "wrong")
	var apiErr *APIError
	if !errors.As(err, &apiErr) || apiErr.StatusCode != http.StatusUnauthorized {
		t.Fatalf("err = %v, want 401 APIError", err)
	}
	if signals != 0 {
		t.Errorf("unauthenticated signals = %d, want 0", signals)
	}
}

func TestConcurrentRequestsShareOneRefresh(t *testing.T) {
	srv := &authServer{
		validAccess:  "good-access",
		validRefresh: "good-refresh",
		newAccess:    "minted-access",
	}
	ts := httptest.NewServer(srv.handler())
	defer ts.Close()

	store := NewMemoryTokenStore()
	_ = store.SetPair("stale-access", "good-refresh")

	c, _ := New(ts.URL, store)

	var wg sync.WaitGroup
	errs := make([]error, 4)
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = c.Me(context.Background())
		}(i)
	}
	wg.Wait()

	for i, err := range errs {
		if err != nil {
			t.Errorf("request %d: %v", i, err)
		}
	}
	if srv.refreshCalls != 1 {
		t.Errorf("refresh calls = %d, want 1", srv.refreshCalls)
	}
}

func TestNewRequiresBaseURL(t *testing.T) {
	if _, err := New("   ", NewMemoryTokenStore()); !errors.Is(err, ErrNoBaseURL) {
		t.Fatalf("err = %v, want ErrNoBaseURL", err)
	}
}
