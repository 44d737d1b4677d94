package ledger

import (
	"encoding/csv"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"BhavSentinel/internal/model"
)

/*
Trade book CSV layout:

id,date,symbol,strategy,status,entry_price,quantity,investment,stop_loss,
current_price,exit_price,exit_reason,realized_pnl,unrealized_pnl,updated_at

- date = "2006-01-02", updated_at = RFC3339
- the whole file is rewritten atomically after each mutation
*/

const bookDateLayout = "2006-01-02"

var bookHeader = []string{
	"id", "date", "symbol", "strategy", "status",
	"entry_price", "quantity", "investment", "stop_loss",
	"current_price", "exit_price", "exit_reason",
	"realized_pnl", "unrealized_pnl", "updated_at",
}

func loadTrades(path string) ([]model.Trade, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("open trade book: %w", err)
	}
	defer f.Close()

	cr := csv.NewReader(f)
	cr.FieldsPerRecord = -1

	if _, err := cr.Read(); err != nil { // header
		if err == io.EOF {
			return nil, nil
		}
		return nil, fmt.Errorf("read trade book header: %w", err)
	}

	var trades []model.Trade
	skipped := 0
	for {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil || len(rec) < len(bookHeader) {
			skipped++
			continue
		}
		t, perr := parseTradeRow(rec)
		if perr != nil {
			skipped++
			continue
		}
		trades = append(trades, t)
	}
	if skipped > 0 {
		log.Printf("[WARN] trade book: skipped %d malformed rows", skipped)
	}
	return trades, nil
}

func parseTradeRow(rec []string) (model.Trade, error) {
	date, err := time.Parse(bookDateLayout, rec[1])
	if err != nil {
		return model.Trade{}, err
	}
	t := model.Trade{
		ID:         rec[0],
		Date:       date,
		Symbol:     rec[2],
		Strategy:   rec[3],
		Status:     model.TradeStatus(rec[4]),
		ExitReason: rec[11],
	}
	if t.Status != model.TradeOpen && t.Status != model.TradeClosed {
		return model.Trade{}, fmt.Errorf("bad status %q", rec[4])
	}
	for i, dst := range []*float64{
		&t.EntryPrice, &t.Quantity, &t.Investment, &t.StopLoss,
		&t.CurrentPrice, &t.ExitPrice,
	} {
		v, err := strconv.ParseFloat(rec[i+5], 64)
		if err != nil {
			return model.Trade{}, err
		}
		*dst = v
	}
	for i, dst := range []*float64{&t.RealizedPnL, &t.UnrealizedPnL} {
		v, err := strconv.ParseFloat(rec[i+12], 64)
		if err != nil {
			return model.Trade{}, err
		}
		*dst = v
	}
	if ts, err := time.Parse(time.RFC3339, rec[14]); err == nil {
		t.UpdatedAt = ts
	}
	return t, nil
}

func saveTrades(path string, trades []model.Trade) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create trade book dir: %w", err)
	}
	tmp, err := os.CreateTemp(dir, "tradebook.tmp-*")
	if err != nil {
		return fmt.Errorf("create temp: %w", err)
	}
	defer os.Remove(tmp.Name())

	w := csv.NewWriter(tmp)
	if err := w.Write(bookHeader); err != nil {
		tmp.Close()
		return err
	}
	for _, t := range trades {
		rec := []string{
			t.ID,
			t.Date.Format(bookDateLayout),
			t.Symbol,
			t.Strategy,
			string(t.Status),
			num(t.EntryPrice), num(t.Quantity), num(t.Investment), num(t.StopLoss),
			num(t.CurrentPrice), num(t.ExitPrice),
			t.ExitReason,
			num(t.RealizedPnL), num(t.UnrealizedPnL),
			t.UpdatedAt.Format(time.RFC3339),
		}
		if err := w.Write(rec); err != nil {
			tmp.Close()
			return err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}

func num(v float64) string {
	return strconv.FormatFloat(v, 'f', 4, 64)
}
