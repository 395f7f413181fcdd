package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"

	"github.com/foliotrack/folio/internal/client/credentials"
)

var signingKey = []byte("test-signing-key")

// mintToken issues a short JWT the way the real backend does, so the fake
// backend can validate bearer headers instead of string-comparing.
func mintToken(t *testing.T, subject string, generation int64) string {
	t.Helper()
	claims := jwt.MapClaims{
		"sub": subject,
		"gen": generation,
		"exp": time.Now().Add(time.Hour).Unix(),
	}
	s, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(signingKey)
	require.NoError(t, err)
	return s
}

func tokenGeneration(t *testing.T, tokenString string) int64 {
	t.Helper()
	tok, err := jwt.Parse(tokenString, func(*jwt.Token) (any, error) { return signingKey, nil })
	if err != nil || !tok.Valid {
		return -1
	}
	claims := tok.Claims.(jwt.MapClaims)
	gen, _ := claims["gen"].(float64)
	return int64(gen)
}

// fakeBackend serves /data behind bearer auth and /auth/refresh for token
// rotation. Tokens carry a generation counter; only the latest generation
// is accepted.
type fakeBackend struct {
	t *testing.T

	mu         sync.Mutex
	generation int64
	refreshTok string

	refreshCalls atomic.Int64
	dataCalls    atomic.Int64
	server       *httptest.Server
}

func newFakeBackend(t *testing.T) *fakeBackend {
	t.Helper()
	b := &fakeBackend{t: t, refreshTok: "refresh-0"}

	mux := http.NewServeMux()
	mux.HandleFunc("/auth/refresh", b.handleRefresh)
	mux.HandleFunc("/data", b.handleData)

	b.server = httptest.NewServer(mux)
	t.Cleanup(b.server.Close)
	return b
}

// seed returns a credential pair valid for the backend's current generation.
func (b *fakeBackend) seed() credentials.Credential {
	b.mu.Lock()
	defer b.mu.Unlock()
	return credentials.Credential{
		AccessToken:  mintToken(b.t, "user", b.generation),
		RefreshToken: b.refreshTok,
	}
}

// expire invalidates all outstanding access tokens.
func (b *fakeBackend) expire() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.generation++
}

func (b *fakeBackend) handleRefresh(w http.ResponseWriter, r *http.Request) {
	b.refreshCalls.Add(1)

	var body struct {
		RefreshToken string `json:"refresh_token"`
	}
	_ = json.NewDecoder(r.Body).Decode(&body)

	b.mu.Lock()
	defer b.mu.Unlock()
	if body.RefreshToken != b.refreshTok {
		w.WriteHeader(http.StatusUnauthorized)
		_ = json.NewEncoder(w).Encode(map[string]string{"detail": "invalid refresh token"})
		return
	}
	b.refreshTok = fmt.Sprintf("refresh-%d", b.generation+100)
	_ = json.NewEncoder(w).Encode(map[string]string{
		"access_token":  mintToken(b.t, "user", b.generation),
		"refresh_token": b.refreshTok,
		"token_type":    "bearer",
	})
}

func (b *fakeBackend) handleData(w http.ResponseWriter, r *http.Request) {
	b.dataCalls.Add(1)

	auth := strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer ")
	b.mu.Lock()
	current := b.generation
	b.mu.Unlock()

	if tokenGeneration(b.t, auth) != current {
		w.WriteHeader(http.StatusUnauthorized)
		_ = json.NewEncoder(w).Encode(map[string]string{"detail": "token expired"})
		return
	}
	_ = json.NewEncoder(w).Encode(map[string]string{"ok": "true"})
}

func newTestClient(t *testing.T, b *fakeBackend) (*Client, *credentials.MemoryStore) {
	t.Helper()
	store := credentials.NewMemoryStore()
	return New(b.server.URL, store), store
}

func TestClient_AttachesBearerAndRequestID(t *testing.T) {
	var gotAuth, gotRequestID string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotRequestID = r.Header.Get("X-Request-ID")
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	store := credentials.NewMemoryStore()
	require.NoError(t, store.Save(context.Background(),
		credentials.Credential{AccessToken: "a1", RefreshToken: "r1"}))

	c := New(srv.URL, store)
	_, err := c.Do(context.Background(), http.MethodGet, "/anything", nil, nil)
	require.NoError(t, err)
	require.Equal(t, "Bearer a1", gotAuth)
	require.NotEmpty(t, gotRequestID)
}

func TestClient_NoTokenMeansNoAuthorizationHeader(t *testing.T) {
	var sawAuthHeader bool
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, sawAuthHeader = r.Header["Authorization"]
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	c := New(srv.URL, credentials.NewMemoryStore())
	_, err := c.Do(context.Background(), http.MethodGet, "/anything", nil, nil)
	require.NoError(t, err)
	require.False(t, sawAuthHeader)
}

func TestClient_RefreshAndRetryOn401(t *testing.T) {
	ctx := context.Background()
	backend := newFakeBackend(t)
	c, store := newTestClient(t, backend)

	require.NoError(t, store.Save(ctx, backend.seed()))
	backend.expire()

	resp, err := c.Do(ctx, http.MethodGet, "/data", nil, nil)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.Status)

	require.Equal(t, int64(1), backend.refreshCalls.Load())
	// One 401 round trip plus exactly one retry.
	require.Equal(t, int64(2), backend.dataCalls.Load())

	// The rotated pair was persisted atomically.
	cred, err := store.Load(ctx)
	require.NoError(t, err)
	require.NotNil(t, cred)
	require.Equal(t, int64(1), tokenGeneration(t, cred.AccessToken))
	require.Equal(t, backend.refreshTok, cred.RefreshToken)
}

func TestClient_RetryThatYields401IsSurfacedWithoutSecondRefresh(t *testing.T) {
	ctx := context.Background()

	var refreshCalls, dataCalls atomic.Int64
	mux := http.NewServeMux()
	mux.HandleFunc("/auth/refresh", func(w http.ResponseWriter, r *http.Request) {
		refreshCalls.Add(1)
		_ = json.NewEncoder(w).Encode(map[string]string{
			"access_token":  "fresh",
			"refresh_token": "fresh-refresh",
		})
	})
	mux.HandleFunc("/data", func(w http.ResponseWriter, r *http.Request) {
		dataCalls.Add(1)
		// Always unauthorized, even after a successful refresh.
		w.WriteHeader(http.StatusUnauthorized)
		_ = json.NewEncoder(w).Encode(map[string]string{"detail": "nope"})
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	store := credentials.NewMemoryStore()
	require.NoError(t, store.Save(ctx, credentials.Credential{AccessToken: "stale", RefreshToken: "r1"}))

	c := New(srv.URL, store)
	_, err := c.Do(ctx, http.MethodGet, "/data", nil, nil)

	require.True(t, IsUnauthorized(err), "got: %v", err)
	require.Equal(t, int64(1), refreshCalls.Load())
	require.Equal(t, int64(2), dataCalls.Load())
}

func TestClient_RefreshFailureClearsStoreAndSurfacesOriginal401(t *testing.T) {
	ctx := context.Background()

	mux := http.NewServeMux()
	mux.HandleFunc("/auth/refresh", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_ = json.NewEncoder(w).Encode(map[string]string{"detail": "refresh token revoked"})
	})
	mux.HandleFunc("/data", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_ = json.NewEncoder(w).Encode(map[string]string{"detail": "token expired"})
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	store := credentials.NewMemoryStore()
	require.NoError(t, store.Save(ctx, credentials.Credential{AccessToken: "stale", RefreshToken: "r1"}))

	c := New(srv.URL, store)
	_, err := c.Do(ctx, http.MethodGet, "/data", nil, nil)

	var apiErr *Error
	require.ErrorAs(t, err, &apiErr)
	require.Equal(t, http.StatusUnauthorized, apiErr.Status)
	// The surfaced message is the original request's, not the refresh call's.
	require.Equal(t, "token expired", apiErr.Message)

	cred, loadErr := store.Load(ctx)
	require.NoError(t, loadErr)
	require.Nil(t, cred, "forced logout must clear the credential store")
}

func TestClient_401WithoutRefreshTokenSkipsRefreshCall(t *testing.T) {
	ctx := context.Background()

	var refreshCalls atomic.Int64
	mux := http.NewServeMux()
	mux.HandleFunc("/auth/refresh", func(w http.ResponseWriter, r *http.Request) {
		refreshCalls.Add(1)
	})
	mux.HandleFunc("/data", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	c := New(srv.URL, credentials.NewMemoryStore())
	_, err := c.Do(ctx, http.MethodGet, "/data", nil, nil)

	require.True(t, IsUnauthorized(err))
	require.Equal(t, int64(0), refreshCalls.Load())
}

func TestClient_ConcurrentRequestsShareOneRefresh(t *testing.T) {
	ctx := context.Background()
	backend := newFakeBackend(t)
	c, store := newTestClient(t, backend)

	require.NoError(t, store.Save(ctx, backend.seed()))
	backend.expire()

	const n = 8
	var wg sync.WaitGroup
	errs := make([]error, n)
	start := make(chan struct{})

	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			<-start
			_, errs[i] = c.Do(ctx, http.MethodGet, "/data", nil, nil)
		}(i)
	}
	close(start)
	wg.Wait()

	for i, err := range errs {
		require.NoError(t, err, "request %d", i)
	}
	require.Equal(t, int64(1), backend.refreshCalls.Load(),
		"concurrent 401s must share a single refresh call")

	cred, err := store.Load(ctx)
	require.NoError(t, err)
	require.Equal(t, int64(1), tokenGeneration(t, cred.AccessToken))
}

func TestClient_MapsErrorBodies(t *testing.T) {
	tests := []struct {
		name     string
		status   int
		body     string
		wantMsg  string
		wantKind Kind
	}{
		{
			name:    "detail string",
			status:  http.StatusNotFound,
			body:    `{"detail": "Portfolio not found"}`,
			wantMsg: "Portfolio not found",
		},
		{
			name:    "message field",
			status:  http.StatusBadRequest,
			body:    `{"message": "name must not be empty"}`,
			wantMsg: "name must not be empty",
		},
		{
			name:    "structured detail falls back to status text",
			status:  http.StatusUnprocessableEntity,
			body:    `{"detail": [{"loc": ["body", "name"]}]}`,
			wantMsg: http.StatusText(http.StatusUnprocessableEntity),
		},
		{
			name:    "empty body falls back to status text",
			status:  http.StatusInternalServerError,
			body:    "",
			wantMsg: http.StatusText(http.StatusInternalServerError),
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tc.status)
				_, _ = w.Write([]byte(tc.body))
			}))
			defer srv.Close()

			c := New(srv.URL, credentials.NewMemoryStore())
			_, err := c.Do(context.Background(), http.MethodGet, "/x", nil, nil)

			var apiErr *Error
			require.ErrorAs(t, err, &apiErr)
			require.Equal(t, KindBadResponse, apiErr.Kind)
			require.Equal(t, tc.status, apiErr.Status)
			require.Equal(t, tc.wantMsg, apiErr.Message)
		})
	}
}

func TestClient_TimeoutKind(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(500 * time.Millisecond)
	}))
	defer srv.Close()

	c := New(srv.URL, credentials.NewMemoryStore(),
		WithHTTPClient(&http.Client{Timeout: 50 * time.Millisecond}))

	_, err := c.Do(context.Background(), http.MethodGet, "/slow", nil, nil)

	var apiErr *Error
	require.ErrorAs(t, err, &apiErr)
	require.Equal(t, KindTimeout, apiErr.Kind)
}

func TestClient_CancelledKind(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(500 * time.Millisecond)
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(20 * time.Millisecond)
		cancel()
	}()

	c := New(srv.URL, credentials.NewMemoryStore())
	_, err := c.Do(ctx, http.MethodGet, "/slow", nil, nil)

	var apiErr *Error
	require.ErrorAs(t, err, &apiErr)
	require.Equal(t, KindCancelled, apiErr.Kind)
}

func TestClient_ConnectionKind(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	srv.Close() // nothing is listening anymore

	c := New(srv.URL, credentials.NewMemoryStore())
	_, err := c.Do(context.Background(), http.MethodGet, "/x", nil, nil)

	var apiErr *Error
	require.ErrorAs(t, err, &apiErr)
	require.Equal(t, KindConnection, apiErr.Kind)
}

func TestClient_BadCertificateKind(t *testing.T) {
	srv := httptest.NewTLSServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	// Default client does not trust the test server's self-signed cert.
	c := New(srv.URL, credentials.NewMemoryStore())
	_, err := c.Do(context.Background(), http.MethodGet, "/x", nil, nil)

	var apiErr *Error
	require.ErrorAs(t, err, &apiErr)
	require.Equal(t, KindBadCertificate, apiErr.Kind)
}

func TestClient_QueryParameters(t *testing.T) {
	var gotQuery url.Values
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query()
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	c := New(srv.URL, credentials.NewMemoryStore())
	q := url.Values{}
	q.Set("limit", "5")
	_, err := c.Do(context.Background(), http.MethodGet, "/x", nil, q)
	require.NoError(t, err)
	require.Equal(t, "5", gotQuery.Get("limit"))
}

func TestClient_DoJSONDecodes(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{"id": 42, "name": "X"})
	}))
	defer srv.Close()

	c := New(srv.URL, credentials.NewMemoryStore())
	var out struct {
		ID   int64  `json:"id"`
		Name string `json:"name"`
	}
	require.NoError(t, c.Get(context.Background(), "/x", nil, &out))
	require.Equal(t, int64(42), out.ID)
	require.Equal(t, "X", out.Name)
}
