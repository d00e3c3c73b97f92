package httphandler_test

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	httphandler "github.com/ericfisherdev/loginform/internal/adapter/driving/http"
	"github.com/ericfisherdev/loginform/internal/application"
	"github.com/ericfisherdev/loginform/internal/domain/model"
)

// --- Mock implementations ---

type mockUserStore struct {
	users   map[string]string
	err     error
	lookups int
}

func (m *mockUserStore) CountMatching(_ context.Context, cred model.Credential) (int, error) {
	m.lookups++
	if m.err != nil {
		return 0, m.err
	}
	if pw, ok := m.users[cred.Username]; ok && pw == cred.Password {
		return 1, nil
	}
	return 0, nil
}
func (m *mockUserStore) Add(_ context.Context, _ model.Credential) error      { return nil }
func (m *mockUserStore) Import(_ context.Context, _ []model.Credential) error { return nil }
func (m *mockUserStore) Remove(_ context.Context, _ string) error             { return nil }
func (m *mockUserStore) List(_ context.Context) ([]model.User, error)         { return nil, nil }

type mockPinger struct{ err error }

func (m *mockPinger) Ping(_ context.Context) error { return m.err }

// --- Test helpers ---

func setupMux(store *mockUserStore, pinger httphandler.Pinger) http.Handler {
	svc := application.NewLoginService(store, 0, slog.Default())
	h := httphandler.NewHandler(svc, pinger, slog.Default())
	return httphandler.NewServeMux(h, slog.Default())
}

func decodeJSON(t *testing.T, rec *httptest.ResponseRecorder, v any) {
	t.Helper()
	require.Equal(t, "application/json; charset=utf-8", rec.Header().Get("Content-Type"))
	err := json.NewDecoder(rec.Body).Decode(v)
	require.NoError(t, err)
}

func postLogin(t *testing.T, mux http.Handler, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/login", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)
	return rec
}

// --- Tests ---

func TestLogin(t *testing.T) {
	tests := []struct {
		name        string
		body        string
		wantOutcome model.Outcome
		wantSuccess bool
		wantLookups int
	}{
		{
			name:        "empty username",
			body:        `{"username":"","password":"123456"}`,
			wantOutcome: model.OutcomeUsernameRequired,
		},
		{
			name:        "empty password",
			body:        `{"username":"admin","password":"  "}`,
			wantOutcome: model.OutcomePasswordRequired,
		},
		{
			name:        "valid credentials",
			body:        `{"username":"admin","password":"123456"}`,
			wantOutcome: model.OutcomeSucceeded,
			wantSuccess: true,
			wantLookups: 1,
		},
		{
			name:        "invalid credentials",
			body:        `{"username":"admin","password":"' OR '1'='1"}`,
			wantOutcome: model.OutcomeInvalidCredentials,
			wantLookups: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := &mockUserStore{users: map[string]string{"admin": "123456"}}
			rec := postLogin(t, setupMux(store, nil), tt.body)

			assert.Equal(t, http.StatusOK, rec.Code)
			var resp httphandler.LoginResponse
			decodeJSON(t, rec, &resp)
			assert.Equal(t, string(tt.wantOutcome), resp.Outcome)
			assert.Equal(t, tt.wantOutcome.Message(), resp.Message)
			assert.Equal(t, tt.wantSuccess, resp.Success)
			assert.Equal(t, tt.wantLookups, store.lookups)
		})
	}
}

func TestLogin_MalformedBody(t *testing.T) {
	store := &mockUserStore{}
	rec := postLogin(t, setupMux(store, nil), `{"username":`)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	var resp map[string]string
	decodeJSON(t, rec, &resp)
	assert.Equal(t, "invalid request body", resp["error"])
	assert.Equal(t, 0, store.lookups)
}

func TestLogin_StoreError(t *testing.T) {
	store := &mockUserStore{err: errors.New("disk I/O error")}
	rec := postLogin(t, setupMux(store, nil), `{"username":"admin","password":"123456"}`)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	var resp map[string]string
	decodeJSON(t, rec, &resp)
	assert.Equal(t, "internal server error", resp["error"])
	assert.NotContains(t, rec.Body.String(), "disk I/O")
}

func TestLogin_MethodNotAllowed(t *testing.T) {
	mux := setupMux(&mockUserStore{}, nil)
	req := httptest.NewRequest(http.MethodGet, "/api/v1/login", nil)
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestHealth(t *testing.T) {
	tests := []struct {
		name       string
		pinger     httphandler.Pinger
		wantStatus int
		wantBody   string
	}{
		{name: "no pinger", pinger: nil, wantStatus: http.StatusOK, wantBody: "ok"},
		{name: "db reachable", pinger: &mockPinger{}, wantStatus: http.StatusOK, wantBody: "ok"},
		{name: "db down", pinger: &mockPinger{err: errors.New("closed")}, wantStatus: http.StatusServiceUnavailable, wantBody: "unavailable"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mux := setupMux(&mockUserStore{}, tt.pinger)
			req := httptest.NewRequest(http.MethodGet, "/api/v1/health", nil)
			rec := httptest.NewRecorder()
			mux.ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatus, rec.Code)
			var resp httphandler.HealthResponse
			decodeJSON(t, rec, &resp)
			assert.Equal(t, tt.wantBody, resp.Status)
			assert.NotEmpty(t, resp.Time)
		})
	}
}

func TestRequestID(t *testing.T) {
	mux := setupMux(&mockUserStore{}, nil)

	t.Run("generated when absent", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/health", nil)
		rec := httptest.NewRecorder()
		mux.ServeHTTP(rec, req)

		_, err := uuid.Parse(rec.Header().Get(httphandler.RequestIDHeader))
		assert.NoError(t, err)
	})

	t.Run("propagated when valid", func(t *testing.T) {
		id := uuid.NewString()
		req := httptest.NewRequest(http.MethodGet, "/api/v1/health", nil)
		req.Header.Set(httphandler.RequestIDHeader, id)
		rec := httptest.NewRecorder()
		mux.ServeHTTP(rec, req)

		assert.Equal(t, id, rec.Header().Get(httphandler.RequestIDHeader))
	})

	t.Run("replaced when malformed", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/health", nil)
		req.Header.Set(httphandler.RequestIDHeader, "<script>")
		rec := httptest.NewRecorder()
		mux.ServeHTTP(rec, req)

		assert.NotEqual(t, "<script>", rec.Header().Get(httphandler.RequestIDHeader))
	})
}

func TestRecoveryMiddleware(t *testing.T) {
	panicking := http.HandlerFunc(func(http.ResponseWriter, *http.Request) { panic("boom") })
	h := httphandler.ApplyMiddleware(panicking, slog.Default())

	req := httptest.NewRequest(http.MethodGet, "/anything", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}
