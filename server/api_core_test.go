package main

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestAPI(store *Store) *api {
	cfg := Config{CookieName: "session", SessionTTL: time.Hour, CookieSameSite: http.SameSiteLaxMode, LoginLimit: 3}
	return newAPI(store, cfg, slog.New(slog.DiscardHandler))
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) errorBody {
	t.Helper()
	var body errorBody
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body), rec.Body.String())
	return body
}

func TestWriteErrorShape(t *testing.T) {
	rec := httptest.NewRecorder()
	writeError(rec, http.StatusConflict, "Linha já existe com esse nome")

	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "application/json; charset=utf-8", rec.Header().Get("Content-Type"))
	assert.JSONEq(t, `{"ok":false,"code":"conflict","message":"Linha já existe com esse nome"}`, rec.Body.String())
}

func TestFailMapsErrors(t *testing.T) {
	a := newTestAPI(nil)
	tests := []struct {
		name   string
		err    error
		status int
		code   string
		msg    string
	}{
		{"not found", ErrNotFound, 404, "not_found", "Pessoa não encontrada"},
		{"conflict", &pgconn.PgError{Code: pgUniqueViolation, ConstraintName: "systems_name_key"}, 409, "conflict", "Sistema já existe com esse nome"},
		{"internal", errors.New("connection reset"), 500, "internal_error", "Erro interno inesperado"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodGet, "/api/people/1", nil)
			a.fail(rec, req, "op", tt.err, "Pessoa não encontrada")

			assert.Equal(t, tt.status, rec.Code)
			body := decodeError(t, rec)
			assert.Equal(t, tt.code, body.Code)
			assert.Equal(t, tt.msg, body.Message)
			if tt.status == 500 {
				details, ok := body.Details.(map[string]any)
				require.True(t, ok)
				assert.NotEmpty(t, details["request_id"])
			}
		})
	}
}

func TestRoutesRequireSession(t *testing.T) {
	a := newTestAPI(nil)
	mux := http.NewServeMux()
	a.routes(mux)

	for _, tc := range []struct{ method, path string }{
		{http.MethodPost, "/api/people"},
		{http.MethodPatch, "/api/media/1"},
		{http.MethodDelete, "/api/lines/1"},
		{http.MethodGet, "/api/auth/ping"},
		{http.MethodGet, "/api/auth/me"},
		{http.MethodGet, "/api/users"},
		{http.MethodGet, "/api/events"},
	} {
		rec := httptest.NewRecorder()
		mux.ServeHTTP(rec, httptest.NewRequest(tc.method, tc.path, strings.NewReader(`{}`)))
		assert.Equal(t, http.StatusUnauthorized, rec.Code, "%s %s", tc.method, tc.path)
		assert.Equal(t, "unauthorized", decodeError(t, rec).Code)
	}
}

func TestUnknownAPIRoute(t *testing.T) {
	mux := http.NewServeMux()
	newTestAPI(nil).routes(mux)
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/nope", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "not_found", decodeError(t, rec).Code)
}

func TestValidationRunsBeforeStore(t *testing.T) {
	a := newTestAPI(nil)
	mux := http.NewServeMux()
	a.routes(mux)

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/media?platform=tiktok&line_id=x", nil))
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	body := decodeError(t, rec)
	assert.Equal(t, "validation_error", body.Code)
	assert.Equal(t, "Plataforma inválida.", body.Message)
	assert.Len(t, body.Details, 2)

	rec = httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/reports/by-person", nil))
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Equal(t, "Informe a pessoa.", decodeError(t, rec).Message)

	rec = httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/people/abc", nil))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "invalid_request", decodeError(t, rec).Code)
}

func TestLoginValidationAndRateLimit(t *testing.T) {
	a := newTestAPI(nil)
	mux := http.NewServeMux()
	a.routes(mux)

	post := func(body string) *httptest.ResponseRecorder {
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/api/auth/login", strings.NewReader(body))
		req.RemoteAddr = "10.0.0.7:5555"
		mux.ServeHTTP(rec, req)
		return rec
	}

	rec := post(`{"username":" ","token":"x"}`)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Equal(t, "Informe o usuário.", decodeError(t, rec).Message)

	rec = post(`{"username":"ana","token":"x","extra":1}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = post(`not json`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = post(`{}`)
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Equal(t, "too_many_requests", decodeError(t, rec).Code)
	assert.Equal(t, "60", rec.Header().Get("Retry-After"))
}

func TestRateLimitWindow(t *testing.T) {
	a := newTestAPI(nil)
	assert.True(t, a.allow("1.2.3.4", "k", 1, time.Hour))
	assert.False(t, a.allow("1.2.3.4", "k", 1, time.Hour))
	assert.True(t, a.allow("5.6.7.8", "k", 1, time.Hour))

	a.sweepRateLimits(time.Now().Add(2 * time.Hour))
	assert.Empty(t, a.rl)
	assert.True(t, a.allow("1.2.3.4", "k", 1, time.Hour))
}

func TestWithLoggingRequestID(t *testing.T) {
	var seen string
	h := withLogging(slog.New(slog.DiscardHandler), http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = requestID(r.Context())
		w.WriteHeader(http.StatusTeapot)
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusTeapot, rec.Code)
	assert.NotEmpty(t, seen)
	assert.Equal(t, seen, rec.Header().Get("X-Request-ID"))

	rec = httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Request-ID", "6f1c2b7e-3d4a-4e5f-9a8b-7c6d5e4f3a2b")
	h.ServeHTTP(rec, req)
	assert.Equal(t, "6f1c2b7e-3d4a-4e5f-9a8b-7c6d5e4f3a2b", seen)

	for _, bad := range []string{"abc-123", strings.Repeat("x", 4096), "id\nforged=1"} {
		rec = httptest.NewRecorder()
		req = httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("X-Request-ID", bad)
		h.ServeHTTP(rec, req)
		assert.NotEqual(t, bad, seen)
		_, err := uuid.Parse(seen)
		assert.NoError(t, err, "replaced with a fresh id")
		assert.Equal(t, seen, rec.Header().Get("X-Request-ID"))
	}
}

func TestWithCORS(t *testing.T) {
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(200) })
	h := withCORS([]string{"http://localhost:5173"}, next)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodOptions, "/api/people", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	req.Header.Set("Access-Control-Request-Method", "POST")
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "http://localhost:5173", rec.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "true", rec.Header().Get("Access-Control-Allow-Credentials"))

	rec = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodGet, "/api/people", nil)
	req.Header.Set("Origin", "http://evil.example")
	h.ServeHTTP(rec, req)
	assert.Equal(t, 200, rec.Code)
	assert.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))
}
