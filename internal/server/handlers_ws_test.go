package server

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"github.com/bobmcallan/papertrade/internal/models"
)

func TestHandlePortfolioWS_StreamsSnapshot(t *testing.T) {
	srv := newTestServer(t)
	token := registerTestUser(t, srv, "alice")

	ts := httptest.NewServer(srv.Handler())
	defer ts.Close()

	wsURL := "ws" + strings.TrimPrefix(ts.URL, "http") + "/api/ws/portfolio?token=" + token
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		t.Fatalf("WebSocket dial failed: %v", err)
	}
	defer conn.Close()

	// The first snapshot is pushed immediately on connect
	conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	var snapshot models.PortfolioSnapshot
	if err := conn.ReadJSON(&snapshot); err != nil {
		t.Fatalf("failed to read snapshot: %v", err)
	}
	if snapshot.Portfolio.VirtualCash != 10000.00 {
		t.Errorf("expected starting cash 10000, got %v", snapshot.Portfolio.VirtualCash)
	}
	if len(snapshot.Holdings) != 2 {
		t.Errorf("expected 2 demo holdings, got %d", len(snapshot.Holdings))
	}
}

func TestHandlePortfolioWS_RejectsBadToken(t *testing.T) {
	srv := newTestServer(t)

	ts := httptest.NewServer(srv.Handler())
	defer ts.Close()

	wsURL := "ws" + strings.TrimPrefix(ts.URL, "http") + "/api/ws/portfolio?token=bogus"
	_, resp, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err == nil {
		t.Fatal("expected dial to fail for a bad token")
	}
	if resp == nil || resp.StatusCode != http.StatusUnauthorized {
		t.Errorf("expected 401 handshake response, got %+v", resp)
	}
}
