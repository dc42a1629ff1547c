package server

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/bobmcallan/papertrade/internal/app"
	"github.com/bobmcallan/papertrade/internal/common"
	"github.com/bobmcallan/papertrade/internal/services/education"
	"github.com/bobmcallan/papertrade/internal/services/market"
	"github.com/bobmcallan/papertrade/internal/services/prediction"
	"github.com/bobmcallan/papertrade/internal/services/risk"
	"github.com/bobmcallan/papertrade/internal/storage"
	"github.com/bobmcallan/papertrade/internal/synth"
)

// newTestServer creates a test server backed by real storage on a temp dir.
// The market service has no remote sources, so all prices are synthetic.
func newTestServer(t *testing.T) *Server {
	t.Helper()
	logger := common.NewSilentLogger()
	cfg := common.NewDefaultConfig()
	cfg.Storage.Path = filepath.Join(t.TempDir(), "store")
	cfg.Auth.JWTSecret = "test-secret-key"

	mgr, err := storage.NewManager(logger, cfg.Storage.Path)
	if err != nil {
		t.Fatalf("NewManager failed: %v", err)
	}
	t.Cleanup(func() { mgr.Close() })

	a := &app.App{
		Config:            cfg,
		Logger:            logger,
		Storage:           mgr,
		MarketService:     market.NewService(nil, nil, synth.NewGenerator(), logger),
		EducationService:  education.NewService(mgr, logger),
		PredictionService: prediction.NewService(logger),
		RiskService:       risk.NewService(logger),
		StartupTime:       time.Now(),
	}
	return NewServer(a)
}

func jsonBody(t *testing.T, v interface{}) *bytes.Buffer {
	t.Helper()
	data, err := json.Marshal(v)
	if err != nil {
		t.Fatalf("failed to marshal JSON: %v", err)
	}
	return bytes.NewBuffer(data)
}

// registerTestUser registers a user through the full handler chain and
// returns the bearer token.
func registerTestUser(t *testing.T, srv *Server, username string) string {
	t.Helper()
	body := jsonBody(t, map[string]string{
		"username": username,
		"email":    username + "@example.com",
		"password": "secretpass",
	})
	req := httptest.NewRequest(http.MethodPost, "/api/auth/register", body)
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)
	if rec.Code != http.StatusCreated {
		t.Fatalf("registerTestUser: expected 201, got %d: %s", rec.Code, rec.Body.String())
	}

	var resp tokenResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode token response: %v", err)
	}
	if resp.AccessToken == "" {
		t.Fatal("expected non-empty access token")
	}
	return resp.AccessToken
}

// doAuthed sends a request through the full middleware chain with a bearer token.
func doAuthed(t *testing.T, srv *Server, method, path, token string, body *bytes.Buffer) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body != nil {
		req = httptest.NewRequest(method, path, body)
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)
	return rec
}
