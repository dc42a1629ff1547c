package server

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/bobmcallan/papertrade/internal/models"
)

func getPortfolio(t *testing.T, srv *Server, token string) *models.PortfolioSnapshot {
	t.Helper()
	rec := doAuthed(t, srv, http.MethodGet, "/api/simulation/portfolio", token, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	var snapshot models.PortfolioSnapshot
	if err := json.NewDecoder(rec.Body).Decode(&snapshot); err != nil {
		t.Fatalf("failed to decode snapshot: %v", err)
	}
	return &snapshot
}

func TestHandleSimulationPortfolio_SeedsOnFirstAccess(t *testing.T) {
	srv := newTestServer(t)
	token := registerTestUser(t, srv, "alice")

	snapshot := getPortfolio(t, srv, token)

	if snapshot.Portfolio.VirtualCash != 10000.00 {
		t.Errorf("expected starting cash 10000, got %v", snapshot.Portfolio.VirtualCash)
	}
	if len(snapshot.Holdings) != 2 {
		t.Fatalf("expected 2 demo holdings, got %d", len(snapshot.Holdings))
	}
	bySymbol := map[string]models.Holding{}
	for _, h := range snapshot.Holdings {
		bySymbol[h.Symbol] = h
	}
	if bySymbol["AAPL"].Quantity != 10 || bySymbol["AAPL"].AvgPrice != 150.00 {
		t.Errorf("unexpected AAPL holding: %+v", bySymbol["AAPL"])
	}
	if bySymbol["TSLA"].Quantity != 5 || bySymbol["TSLA"].AvgPrice != 200.00 {
		t.Errorf("unexpected TSLA holding: %+v", bySymbol["TSLA"])
	}

	// Holdings are revalued at current quotes
	for _, h := range snapshot.Holdings {
		if h.CurrentPrice <= 0 {
			t.Errorf("expected revalued price for %s, got %v", h.Symbol, h.CurrentPrice)
		}
		if h.CurrentValue <= 0 {
			t.Errorf("expected current value for %s, got %v", h.Symbol, h.CurrentValue)
		}
	}
	if snapshot.Portfolio.TotalValue <= snapshot.Portfolio.VirtualCash {
		t.Errorf("expected total value above cash, got %v", snapshot.Portfolio.TotalValue)
	}
	if len(snapshot.RecentTransactions) != 0 {
		t.Errorf("expected no transactions on a fresh portfolio, got %d", len(snapshot.RecentTransactions))
	}
}

func TestHandleSimulationPortfolio_RequiresAuth(t *testing.T) {
	srv := newTestServer(t)

	rec := doAuthed(t, srv, http.MethodGet, "/api/simulation/portfolio", "", nil)
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("expected 401 without token, got %d", rec.Code)
	}
}

func TestHandleSimulationTrade_Buy(t *testing.T) {
	srv := newTestServer(t)
	token := registerTestUser(t, srv, "alice")

	body := jsonBody(t, map[string]interface{}{
		"symbol":   "MSFT",
		"action":   "BUY",
		"quantity": 2,
	})
	rec := doAuthed(t, srv, http.MethodPost, "/api/simulation/trade", token, body)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var resp tradeResponse
	json.NewDecoder(rec.Body).Decode(&resp)
	if !resp.Success {
		t.Error("expected success=true")
	}
	if resp.Symbol != "MSFT" || resp.Action != "BUY" || resp.Quantity != 2 {
		t.Errorf("unexpected trade echo: %+v", resp)
	}
	if resp.Price <= 0 {
		t.Errorf("expected positive price, got %v", resp.Price)
	}
	if resp.RemainingCash >= 10000.00 {
		t.Errorf("expected cash below 10000 after buy, got %v", resp.RemainingCash)
	}

	// The trade shows up in the portfolio
	snapshot := getPortfolio(t, srv, token)
	found := false
	for _, h := range snapshot.Holdings {
		if h.Symbol == "MSFT" && h.Quantity == 2 {
			found = true
		}
	}
	if !found {
		t.Errorf("expected MSFT holding after buy, got %+v", snapshot.Holdings)
	}
	if len(snapshot.RecentTransactions) != 1 {
		t.Fatalf("expected 1 transaction, got %d", len(snapshot.RecentTransactions))
	}
	if snapshot.RecentTransactions[0].Action != models.TradeActionBuy {
		t.Errorf("expected BUY transaction, got %v", snapshot.RecentTransactions[0].Action)
	}
}

func TestHandleSimulationTrade_SellDemoHolding(t *testing.T) {
	srv := newTestServer(t)
	token := registerTestUser(t, srv, "alice")

	// Seeds the portfolio (AAPL 10 among demo holdings)
	getPortfolio(t, srv, token)

	body := jsonBody(t, map[string]interface{}{
		"symbol":   "AAPL",
		"action":   "SELL",
		"quantity": 4,
	})
	rec := doAuthed(t, srv, http.MethodPost, "/api/simulation/trade", token, body)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var resp tradeResponse
	json.NewDecoder(rec.Body).Decode(&resp)
	if resp.RemainingCash <= 10000.00 {
		t.Errorf("expected cash above 10000 after sell, got %v", resp.RemainingCash)
	}

	snapshot := getPortfolio(t, srv, token)
	for _, h := range snapshot.Holdings {
		if h.Symbol == "AAPL" && h.Quantity != 6 {
			t.Errorf("expected 6 AAPL shares after selling 4 of 10, got %d", h.Quantity)
		}
	}
}

func TestHandleSimulationTrade_InsufficientFunds(t *testing.T) {
	srv := newTestServer(t)
	token := registerTestUser(t, srv, "alice")

	body := jsonBody(t, map[string]interface{}{
		"symbol":   "AAPL",
		"action":   "BUY",
		"quantity": 100000,
	})
	rec := doAuthed(t, srv, http.MethodPost, "/api/simulation/trade", token, body)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d: %s", rec.Code, rec.Body.String())
	}

	var resp ErrorResponse
	json.NewDecoder(rec.Body).Decode(&resp)
	if resp.Code != models.CodeInsufficientFunds {
		t.Errorf("expected code %s, got %q", models.CodeInsufficientFunds, resp.Code)
	}
}

func TestHandleSimulationTrade_InsufficientShares(t *testing.T) {
	srv := newTestServer(t)
	token := registerTestUser(t, srv, "alice")

	body := jsonBody(t, map[string]interface{}{
		"symbol":   "GOOGL",
		"action":   "SELL",
		"quantity": 1,
	})
	rec := doAuthed(t, srv, http.MethodPost, "/api/simulation/trade", token, body)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d: %s", rec.Code, rec.Body.String())
	}

	var resp ErrorResponse
	json.NewDecoder(rec.Body).Decode(&resp)
	if resp.Code != models.CodeInsufficientShares {
		t.Errorf("expected code %s, got %q", models.CodeInsufficientShares, resp.Code)
	}
}

func TestHandleSimulationTrade_InvalidAction(t *testing.T) {
	srv := newTestServer(t)
	token := registerTestUser(t, srv, "alice")

	body := jsonBody(t, map[string]interface{}{
		"symbol":   "AAPL",
		"action":   "HOLD",
		"quantity": 1,
	})
	rec := doAuthed(t, srv, http.MethodPost, "/api/simulation/trade", token, body)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400 for invalid action, got %d", rec.Code)
	}
}

func TestHandleSimulationTrade_MissingSymbol(t *testing.T) {
	srv := newTestServer(t)
	token := registerTestUser(t, srv, "alice")

	body := jsonBody(t, map[string]interface{}{
		"action":   "BUY",
		"quantity": 1,
	})
	rec := doAuthed(t, srv, http.MethodPost, "/api/simulation/trade", token, body)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400 for missing symbol, got %d", rec.Code)
	}
}

func TestHandleSimulationTrade_ZeroQuantity(t *testing.T) {
	srv := newTestServer(t)
	token := registerTestUser(t, srv, "alice")

	body := jsonBody(t, map[string]interface{}{
		"symbol":   "AAPL",
		"action":   "BUY",
		"quantity": 0,
	})
	rec := doAuthed(t, srv, http.MethodPost, "/api/simulation/trade", token, body)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d: %s", rec.Code, rec.Body.String())
	}

	var resp ErrorResponse
	json.NewDecoder(rec.Body).Decode(&resp)
	if resp.Code != models.CodeInvalidQuantity {
		t.Errorf("expected code %s, got %q", models.CodeInvalidQuantity, resp.Code)
	}
}

func TestHandleSimulationPortfolio_PersistsAcrossRequests(t *testing.T) {
	srv := newTestServer(t)
	token := registerTestUser(t, srv, "alice")

	first := getPortfolio(t, srv, token)
	second := getPortfolio(t, srv, token)

	if first.Portfolio.ID != second.Portfolio.ID {
		t.Errorf("expected the same portfolio across requests, got %q and %q",
			first.Portfolio.ID, second.Portfolio.ID)
	}
}
