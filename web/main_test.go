package web

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"smartiedev/baseline"
	"smartiedev/logger"
	"smartiedev/router"
	"smartiedev/session"
	"smartiedev/tracker"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()
	log := logger.Connect(logger.LoggerConnectProps{Production: false})
	goals := tracker.NewMemoryStore()
	flow := baseline.Connect(baseline.FlowConnectProps{
		Logger:   log,
		Sessions: session.NewMemoryStore(),
		Tracker:  goals,
	})
	messageRouter := router.Connect(router.RouterConnectProps{
		Logger:   log,
		Baseline: flow,
		Tracker:  goals,
	})
	return Connect(ServerConnectProps{Logger: log, Router: messageRouter})
}

func TestHealthz(t *testing.T) {
	srv := newTestServer(t)
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", rec.Body.String())
}

func TestSmartieEndpoint(t *testing.T) {
	srv := newTestServer(t)
	body := strings.NewReader(`{"user_id":"u1","message":"baseline"}`)
	req := httptest.NewRequest(http.MethodPost, "/smartie", body)
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var resp smartieResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Contains(t, resp.Reply, "bringing you here today")
}

func TestSmartieEndpointBadJSON(t *testing.T) {
	srv := newTestServer(t)
	req := httptest.NewRequest(http.MethodPost, "/smartie", strings.NewReader("{not json"))
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestSmartieEndpointDerivesAnonymousID(t *testing.T) {
	srv := newTestServer(t)

	send := func(message string) smartieResponse {
		req := httptest.NewRequest(http.MethodPost, "/smartie",
			strings.NewReader(`{"message":"`+message+`"}`))
		req.RemoteAddr = "203.0.113.7:1234"
		req.Header.Set("User-Agent", "test-agent")
		rec := httptest.NewRecorder()
		srv.Handler().ServeHTTP(rec, req)
		require.Equal(t, http.StatusOK, rec.Code)
		var resp smartieResponse
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
		return resp
	}

	// Same client address keeps the same derived id, so the flow continues
	// across requests.
	send("baseline")
	resp := send("my sleep is off")
	assert.Contains(t, resp.Reply, "Rate 1–10")
}

func TestDeriveUserIDStable(t *testing.T) {
	req1 := httptest.NewRequest(http.MethodGet, "/", nil)
	req1.RemoteAddr = "198.51.100.1:9999"
	req1.Header.Set("User-Agent", "a")
	req2 := httptest.NewRequest(http.MethodGet, "/", nil)
	req2.RemoteAddr = "198.51.100.1:9999"
	req2.Header.Set("User-Agent", "a")
	req3 := httptest.NewRequest(http.MethodGet, "/", nil)
	req3.RemoteAddr = "198.51.100.2:9999"
	req3.Header.Set("User-Agent", "a")

	assert.Equal(t, deriveUserID(req1), deriveUserID(req2))
	assert.NotEqual(t, deriveUserID(req1), deriveUserID(req3))
	assert.Len(t, deriveUserID(req1), 16)
}
