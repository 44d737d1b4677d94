package recorder

import "BhavSentinel/internal/model"

// NoopRecorder is a no-op implementation used when SQLite is not configured.
type NoopRecorder struct{}

func NewNoopRecorder() *NoopRecorder { return &NoopRecorder{} }

func (n *NoopRecorder) RecordRun(_ *RunRecord) error               { return nil }
func (n *NoopRecorder) RecordSignal(_ *model.StrategySignal) error { return nil }
func (n *NoopRecorder) RecordBacktest(_ *BacktestRecord) error     { return nil }
func (n *NoopRecorder) RecordTradeEvent(_ *TradeEvent) error       { return nil }
func (n *NoopRecorder) Close() error                               { return nil }
