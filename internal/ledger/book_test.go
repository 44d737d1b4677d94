package ledger

import (
	"math"
	"path/filepath"
	"testing"
	"time"

	"BhavSentinel/internal/model"
)

func sig(symbol string, close float64) model.StrategySignal {
	return model.StrategySignal{
		Symbol:   symbol,
		Strategy: "GFS",
		Date:     time.Date(2024, 6, 14, 0, 0, 0, 0, time.UTC),
		Close:    close,
	}
}

func TestOpenTrade(t *testing.T) {
	book, err := Open(filepath.Join(t.TempDir(), "book.csv"))
	if err != nil {
		t.Fatalf("open book: %v", err)
	}

	trade, err := book.OpenTrade(sig("RELIANCE", 2000), 10000, 0.05)
	if err != nil {
		t.Fatalf("open trade: %v", err)
	}
	if trade == nil {
		t.Fatal("expected a trade")
	}
	if trade.Quantity != 5 {
		t.Errorf("expected quantity 5, got %.4f", trade.Quantity)
	}
	if trade.StopLoss != 1900 {
		t.Errorf("expected stop loss 1900, got %.2f", trade.StopLoss)
	}
	if trade.Status != model.TradeOpen {
		t.Errorf("expected OPEN, got %s", trade.Status)
	}
	if trade.ID == "" {
		t.Error("expected a generated trade ID")
	}
}

func TestOpenTrade_DuplicateSymbolSkipped(t *testing.T) {
	book, err := Open(filepath.Join(t.TempDir(), "book.csv"))
	if err != nil {
		t.Fatalf("open book: %v", err)
	}

	if _, err := book.OpenTrade(sig("TCS", 3800), 10000, 0.05); err != nil {
		t.Fatalf("first open: %v", err)
	}
	dup, err := book.OpenTrade(sig("TCS", 3900), 10000, 0.05)
	if err != nil {
		t.Fatalf("second open: %v", err)
	}
	if dup != nil {
		t.Errorf("expected duplicate signal to be skipped, got %+v", dup)
	}
	if n := len(book.Trades()); n != 1 {
		t.Errorf("expected 1 trade, got %d", n)
	}
}

func TestOpenTrade_BadInputs(t *testing.T) {
	book, err := Open(filepath.Join(t.TempDir(), "book.csv"))
	if err != nil {
		t.Fatalf("open book: %v", err)
	}
	if _, err := book.OpenTrade(sig("X", 0), 10000, 0.05); err == nil {
		t.Error("expected error for non-positive price")
	}
	if _, err := book.OpenTrade(sig("X", 100), 0, 0.05); err == nil {
		t.Error("expected error for non-positive allocation")
	}
}

func TestMarkToMarket_StopLoss(t *testing.T) {
	book, err := Open(filepath.Join(t.TempDir(), "book.csv"))
	if err != nil {
		t.Fatalf("open book: %v", err)
	}
	if _, err := book.OpenTrade(sig("INFY", 1500), 15000, 0.05); err != nil {
		t.Fatalf("open trade: %v", err)
	}

	// Above the stop: position stays open, unrealized P&L tracks the price.
	closed, err := book.MarkToMarket(map[string]float64{"INFY": 1450}, 0.10)
	if err != nil {
		t.Fatalf("mark to market: %v", err)
	}
	if len(closed) != 0 {
		t.Fatalf("expected no closes at 1450, got %+v", closed)
	}
	open := book.Trades()[0]
	if math.Abs(open.UnrealizedPnL-(-500)) > 1e-6 {
		t.Errorf("expected unrealized -500, got %.2f", open.UnrealizedPnL)
	}

	// At the stop: closed with STOP_LOSS.
	closed, err = book.MarkToMarket(map[string]float64{"INFY": 1425}, 0.10)
	if err != nil {
		t.Fatalf("mark to market: %v", err)
	}
	if len(closed) != 1 {
		t.Fatalf("expected 1 close, got %d", len(closed))
	}
	ct := closed[0]
	if ct.Status != model.TradeClosed || ct.ExitReason != "STOP_LOSS" {
		t.Errorf("unexpected close: %+v", ct)
	}
	if math.Abs(ct.RealizedPnL-(-750)) > 1e-6 {
		t.Errorf("expected realized -750, got %.2f", ct.RealizedPnL)
	}
	if ct.UnrealizedPnL != 0 {
		t.Errorf("closed trade should carry no unrealized P&L, got %.2f", ct.UnrealizedPnL)
	}
}

func TestMarkToMarket_Target(t *testing.T) {
	book, err := Open(filepath.Join(t.TempDir(), "book.csv"))
	if err != nil {
		t.Fatalf("open book: %v", err)
	}
	if _, err := book.OpenTrade(sig("WIPRO", 500), 10000, 0.05); err != nil {
		t.Fatalf("open trade: %v", err)
	}

	closed, err := book.MarkToMarket(map[string]float64{"WIPRO": 550}, 0.10)
	if err != nil {
		t.Fatalf("mark to market: %v", err)
	}
	if len(closed) != 1 || closed[0].ExitReason != "TARGET" {
		t.Fatalf("expected TARGET close, got %+v", closed)
	}
	if math.Abs(closed[0].RealizedPnL-1000) > 1e-6 {
		t.Errorf("expected realized +1000, got %.2f", closed[0].RealizedPnL)
	}
}

func TestMarkToMarket_MissingPriceLeftAlone(t *testing.T) {
	book, err := Open(filepath.Join(t.TempDir(), "book.csv"))
	if err != nil {
		t.Fatalf("open book: %v", err)
	}
	if _, err := book.OpenTrade(sig("HDFCBANK", 1600), 10000, 0.05); err != nil {
		t.Fatalf("open trade: %v", err)
	}

	closed, err := book.MarkToMarket(map[string]float64{"OTHERSYM": 10}, 0.10)
	if err != nil {
		t.Fatalf("mark to market: %v", err)
	}
	if len(closed) != 0 {
		t.Fatalf("expected no closes, got %+v", closed)
	}
	tr := book.Trades()[0]
	if tr.CurrentPrice != 1600 || tr.UnrealizedPnL != 0 {
		t.Errorf("trade mutated without a price: %+v", tr)
	}
}

func TestBook_PersistenceRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "book.csv")

	book, err := Open(path)
	if err != nil {
		t.Fatalf("open book: %v", err)
	}
	if _, err := book.OpenTrade(sig("RELIANCE", 2000), 10000, 0.05); err != nil {
		t.Fatalf("open trade: %v", err)
	}
	if _, err := book.MarkToMarket(map[string]float64{"RELIANCE": 2200}, 0.10); err != nil {
		t.Fatalf("mark to market: %v", err)
	}

	reloaded, err := Open(path)
	if err != nil {
		t.Fatalf("reopen book: %v", err)
	}
	trades := reloaded.Trades()
	if len(trades) != 1 {
		t.Fatalf("expected 1 trade after reload, got %d", len(trades))
	}
	tr := trades[0]
	if tr.Status != model.TradeClosed || tr.ExitReason != "TARGET" {
		t.Errorf("closed state lost across reload: %+v", tr)
	}
	if tr.ExitPrice != 2200 || math.Abs(tr.RealizedPnL-1000) > 1e-6 {
		t.Errorf("exit figures lost across reload: %+v", tr)
	}
	if reloaded.OpenSymbols()["RELIANCE"] {
		t.Errorf("closed symbol reported open")
	}
}
