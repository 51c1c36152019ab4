// Package journal persists backtest runs, their closed trades, and
// signal snapshots to a local sqlite database. The engine works without
// it; wiring a journal in is purely additive.
package journal

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"stratsweep/backtest"
	"stratsweep/pkg/id"
	"stratsweep/strategies"
)

// RunMeta describes one backtest run stored in the runs table.
type RunMeta struct {
	Symbol    string
	Timeframe string
	Strategy  string
	Config    any // marshaled to JSON in the config column
	Start     time.Time
	End       time.Time
}

// SQLite is a trade journal backed by a single database file. It
// implements backtest.TradeSink for the run opened with StartRun.
type SQLite struct {
	db    *sql.DB
	runID string
}

func Open(path string) (*SQLite, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("open journal %s: %w", path, err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("apply journal schema: %w", err)
	}
	return &SQLite{db: db}, nil
}

// StartRun inserts a runs row and makes it the target of subsequent
// RecordTrade/RecordSignal calls. Returns the generated run id.
func (j *SQLite) StartRun(meta RunMeta) (string, error) {
	cfg, err := json.Marshal(meta.Config)
	if err != nil {
		return "", fmt.Errorf("encode run config: %w", err)
	}
	runID := id.WithPrefix("run")
	_, err = j.db.Exec(`
		INSERT INTO runs (run_id, created, symbol, timeframe, strategy, config, start_time, end_time)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		runID, time.Now().UTC(), meta.Symbol, meta.Timeframe, meta.Strategy,
		string(cfg), meta.Start, meta.End,
	)
	if err != nil {
		return "", fmt.Errorf("insert run: %w", err)
	}
	j.runID = runID
	return runID, nil
}

// RecordTrade appends one closed trade to the active run.
func (j *SQLite) RecordTrade(t backtest.Trade) error {
	if j.runID == "" {
		return fmt.Errorf("journal has no active run")
	}
	_, err := j.db.Exec(`
		INSERT INTO trades
		(trade_id, run_id, symbol, side, quantity, entry_price, entry_time, exit_price, exit_time, pnl, exit_reason)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		id.WithPrefix("trd"), j.runID, t.Symbol, t.Side.String(), t.Quantity,
		t.EntryPrice, t.EntryTime, t.ExitPrice, t.ExitTime, t.PnL, string(t.ExitReason),
	)
	if err != nil {
		return fmt.Errorf("insert trade: %w", err)
	}
	return nil
}

// RecordSignal stores one signal snapshot for the active run. Zero stop
// and take levels are stored as NULL.
func (j *SQLite) RecordSignal(at time.Time, sig strategies.Signal, close float64) error {
	if j.runID == "" {
		return fmt.Errorf("journal has no active run")
	}
	_, err := j.db.Exec(`
		INSERT INTO signals (run_id, time, action, close, stop_loss, take_profit)
		VALUES (?, ?, ?, ?, ?, ?)`,
		j.runID, at, sig.Action.String(), close,
		nullFloat(sig.StopLoss), nullFloat(sig.TakeProfit),
	)
	if err != nil {
		return fmt.Errorf("insert signal: %w", err)
	}
	return nil
}

// TradesByRun loads the closed trades of one run in entry order.
func (j *SQLite) TradesByRun(runID string) ([]backtest.Trade, error) {
	rows, err := j.db.Query(`
		SELECT symbol, side, quantity, entry_price, entry_time, exit_price, exit_time, pnl, exit_reason
		FROM trades WHERE run_id = ? ORDER BY entry_time`, runID)
	if err != nil {
		return nil, fmt.Errorf("query trades: %w", err)
	}
	defer rows.Close()

	var trades []backtest.Trade
	for rows.Next() {
		var (
			t      backtest.Trade
			side   string
			reason string
		)
		if err := rows.Scan(&t.Symbol, &side, &t.Quantity, &t.EntryPrice, &t.EntryTime,
			&t.ExitPrice, &t.ExitTime, &t.PnL, &reason); err != nil {
			return nil, fmt.Errorf("scan trade: %w", err)
		}
		if side == "short" {
			t.Side = backtest.Short
		} else {
			t.Side = backtest.Long
		}
		t.ExitReason = backtest.ExitReason(reason)
		trades = append(trades, t)
	}
	return trades, rows.Err()
}

func (j *SQLite) Close() error {
	return j.db.Close()
}

func nullFloat(v float64) sql.NullFloat64 {
	return sql.NullFloat64{Float64: v, Valid: v > 0}
}
