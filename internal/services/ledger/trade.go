package ledger

import (
	"time"

	"github.com/google/uuid"

	"github.com/bobmcallan/papertrade/internal/models"
)

// ExecuteTrade applies a buy or sell against the given cash balance and
// holdings and returns the next cash balance, the next holdings slice, and
// the recorded transaction. The inputs are not mutated on validation failure.
// The same rules run in the in-memory ledger and in the server-side trade
// endpoint so the two can never disagree.
func ExecuteTrade(cash float64, holdings []models.Holding, action models.TradeAction, symbol string, quantity int64, price float64, at time.Time) (float64, []models.Holding, *models.Transaction, error) {
	if quantity <= 0 {
		return cash, holdings, nil, models.ErrInvalidQuantity
	}

	total := float64(quantity) * price

	switch action {
	case models.TradeActionBuy:
		if cash < total {
			return cash, holdings, nil, models.ErrInsufficientFunds
		}
		cash -= total
		holdings = applyBuy(holdings, symbol, quantity, price)

	case models.TradeActionSell:
		idx := findHolding(holdings, symbol)
		if idx < 0 || holdings[idx].Quantity < quantity {
			return cash, holdings, nil, models.ErrInsufficientShares
		}
		cash += total
		holdings = applySell(holdings, idx, quantity, price)

	default:
		return cash, holdings, nil, models.ErrInvalidQuantity
	}

	tx := &models.Transaction{
		ID:        uuid.New().String(),
		Symbol:    symbol,
		Action:    action,
		Quantity:  quantity,
		Price:     price,
		Total:     total,
		Timestamp: at,
	}

	return cash, holdings, tx, nil
}

// applyBuy creates or extends the holding for symbol. Repeated buys average
// into the existing position with a quantity-weighted average price.
func applyBuy(holdings []models.Holding, symbol string, quantity int64, price float64) []models.Holding {
	idx := findHolding(holdings, symbol)
	if idx < 0 {
		h := models.Holding{
			Symbol:   symbol,
			Quantity: quantity,
			AvgPrice: price,
		}
		RevalueHolding(&h, price)
		return append(holdings, h)
	}

	h := &holdings[idx]
	totalShares := h.Quantity + quantity
	totalCost := h.AvgPrice*float64(h.Quantity) + price*float64(quantity)
	h.AvgPrice = totalCost / float64(totalShares)
	h.Quantity = totalShares
	RevalueHolding(h, price)
	return holdings
}

// applySell reduces the holding at idx, removing it entirely at quantity
// zero. AvgPrice is unchanged for any remainder.
func applySell(holdings []models.Holding, idx int, quantity int64, price float64) []models.Holding {
	h := &holdings[idx]
	h.Quantity -= quantity
	if h.Quantity == 0 {
		return append(holdings[:idx], holdings[idx+1:]...)
	}
	RevalueHolding(h, price)
	return holdings
}

// RevalueHolding recomputes a holding's derived fields for a new price:
// CurrentValue = Quantity * CurrentPrice, ProfitLoss against the cost basis,
// and the corresponding percentage.
func RevalueHolding(h *models.Holding, price float64) {
	h.CurrentPrice = price
	h.CurrentValue = float64(h.Quantity) * price

	costBasis := h.CostBasis()
	h.ProfitLoss = h.CurrentValue - costBasis
	if costBasis > 0 {
		h.ProfitLossPercent = h.ProfitLoss / costBasis * 100
	} else {
		h.ProfitLossPercent = 0
	}
}

func findHolding(holdings []models.Holding, symbol string) int {
	for i, h := range holdings {
		if h.Symbol == symbol {
			return i
		}
	}
	return -1
}
