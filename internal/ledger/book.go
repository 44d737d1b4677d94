package ledger

import (
	"fmt"
	"log"
	"sync"
	"time"

	"BhavSentinel/internal/model"

	"github.com/google/uuid"
)

// Book is the paper trade ledger. One trade per symbol may be OPEN at a
// time; closed trades are kept for the record. The book persists to a CSV
// file after every mutation (single writer, guarded by the mutex).
type Book struct {
	mu     sync.Mutex
	path   string
	trades []model.Trade
}

// Open loads the trade book from disk, creating an empty book if the file
// does not exist.
func Open(path string) (*Book, error) {
	trades, err := loadTrades(path)
	if err != nil {
		return nil, err
	}
	b := &Book{path: path, trades: trades}
	if err := b.save(); err != nil {
		return nil, err
	}
	return b, nil
}

// Trades returns a copy of all trades, open and closed.
func (b *Book) Trades() []model.Trade {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]model.Trade, len(b.trades))
	copy(out, b.trades)
	return out
}

// OpenSymbols returns the set of symbols with an OPEN trade.
func (b *Book) OpenSymbols() map[string]bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	open := make(map[string]bool)
	for _, t := range b.trades {
		if t.Status == model.TradeOpen {
			open[t.Symbol] = true
		}
	}
	return open
}

// OpenTrade opens a paper position for a signal. Returns nil without error
// when the symbol already has an open trade.
func (b *Book) OpenTrade(sig model.StrategySignal, allocation, stopLossPct float64) (*model.Trade, error) {
	if sig.Close <= 0 {
		return nil, fmt.Errorf("open trade %s: non-positive price %.2f", sig.Symbol, sig.Close)
	}
	if allocation <= 0 {
		return nil, fmt.Errorf("open trade %s: non-positive allocation", sig.Symbol)
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	for _, t := range b.trades {
		if t.Symbol == sig.Symbol && t.Status == model.TradeOpen {
			log.Printf("[INFO] %s already OPEN, signal %s skipped", sig.Symbol, sig.Strategy)
			return nil, nil
		}
	}

	qty := allocation / sig.Close
	trade := model.Trade{
		ID:           uuid.NewString(),
		Date:         sig.Date,
		Symbol:       sig.Symbol,
		Strategy:     sig.Strategy,
		Status:       model.TradeOpen,
		EntryPrice:   sig.Close,
		Quantity:     qty,
		Investment:   allocation,
		StopLoss:     sig.Close * (1 - stopLossPct),
		CurrentPrice: sig.Close,
		UpdatedAt:    time.Now(),
	}
	b.trades = append(b.trades, trade)
	if err := b.save(); err != nil {
		return nil, err
	}
	return &trade, nil
}

// MarkToMarket updates every open trade with the latest close, closing
// positions that hit the stop-loss or the target. Symbols without a price
// this run are left untouched. Returns the trades closed by this pass.
func (b *Book) MarkToMarket(prices map[string]float64, targetPct float64) ([]model.Trade, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	var closed []model.Trade
	changed := false
	for i := range b.trades {
		t := &b.trades[i]
		if t.Status != model.TradeOpen {
			continue
		}
		price, ok := prices[t.Symbol]
		if !ok || price <= 0 {
			continue
		}

		t.CurrentPrice = price
		t.UnrealizedPnL = (price - t.EntryPrice) * t.Quantity
		t.UpdatedAt = time.Now()
		changed = true

		switch {
		case price <= t.StopLoss:
			closeTrade(t, price, "STOP_LOSS")
			closed = append(closed, *t)
		case price >= t.EntryPrice*(1+targetPct):
			closeTrade(t, price, "TARGET")
			closed = append(closed, *t)
		}
	}
	if changed {
		if err := b.save(); err != nil {
			return closed, err
		}
	}
	return closed, nil
}

func closeTrade(t *model.Trade, price float64, reason string) {
	t.Status = model.TradeClosed
	t.ExitPrice = price
	t.ExitReason = reason
	t.RealizedPnL = (price - t.EntryPrice) * t.Quantity
	t.UnrealizedPnL = 0
	log.Printf("[INFO] %s closed (%s): entry %.2f exit %.2f pnl %.2f",
		t.Symbol, reason, t.EntryPrice, price, t.RealizedPnL)
}

func (b *Book) save() error {
	return saveTrades(b.path, b.trades)
}
