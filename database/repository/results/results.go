package results

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/eventdriven/gobacktester/backtester/eventhandlers/statistics"
	"github.com/eventdriven/gobacktester/database"
	"github.com/eventdriven/gobacktester/log"
	"github.com/gofrs/uuid"
)

const strategySeparator = ","

// Insert stores a calculated statistic along with its equity curve and fills
// and returns the generated run id
func Insert(ctx context.Context, db *database.Instance, s *statistics.Statistic) (string, error) {
	if !db.IsConnected() {
		return "", database.ErrDatabaseNotConnected
	}
	if s == nil {
		return "", errNilStatistic
	}
	id, err := uuid.NewV4()
	if err != nil {
		return "", err
	}
	tx, err := db.SQL.BeginTx(ctx, nil)
	if err != nil {
		return "", err
	}
	defer func() {
		if err != nil {
			if rollbackErr := tx.Rollback(); rollbackErr != nil {
				log.Errorf(log.Database, "rollback of run %v failed: %v", id, rollbackErr)
			}
		}
	}()

	_, err = tx.ExecContext(ctx, `INSERT INTO runs (id, nickname, strategies, initial_value, final_value,
		return_percent, max_drawdown_percent, market_events, signal_events, order_events, fill_events,
		rejected_signals, expired_orders, total_commission, inserted_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		id.String(),
		s.Nickname,
		strings.Join(s.StrategyNames, strategySeparator),
		s.InitialValue,
		s.FinalValue,
		s.StrategyReturn,
		s.MaxDrawdown.DrawdownPercent,
		s.MarketEvents,
		s.SignalEvents,
		s.OrderEvents,
		s.FillEvents,
		s.RejectedSignals,
		s.ExpiredOrders,
		s.TotalCommission,
		time.Now().UTC())
	if err != nil {
		return "", err
	}
	for i := range s.EquityCurve {
		_, err = tx.ExecContext(ctx, `INSERT INTO equity (run_id, event_offset, timestamp, value) VALUES (?, ?, ?, ?)`,
			id.String(),
			s.EquityCurve[i].Offset,
			s.EquityCurve[i].Timestamp,
			s.EquityCurve[i].Value)
		if err != nil {
			return "", err
		}
	}
	for i := range s.Fills {
		f := &s.Fills[i]
		_, err = tx.ExecContext(ctx, `INSERT INTO fills (run_id, event_offset, timestamp, order_id, symbol, direction,
			order_type, quantity, price, commission, final) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			id.String(), f.Offset, f.Timestamp, f.OrderID, f.Symbol, f.Direction, f.OrderType, f.Quantity, f.Price, f.Commission, f.Final)
		if err != nil {
			return "", err
		}
	}
	if err = tx.Commit(); err != nil {
		return "", err
	}
	log.Debugf(log.Database, "stored run %v with %v equity points and %v fills", id, len(s.EquityCurve), len(s.Fills))
	return id.String(), nil
}

const selectRun = `SELECT id, nickname, strategies, initial_value, final_value, return_percent,
	max_drawdown_percent, market_events, signal_events, order_events, fill_events,
	rejected_signals, expired_orders, total_commission, inserted_at FROM runs`

type scanner interface {
	Scan(...any) error
}

func scanRun(row scanner) (Run, error) {
	var r Run
	var names string
	err := row.Scan(&r.ID,
		&r.Nickname,
		&names,
		&r.InitialValue,
		&r.FinalValue,
		&r.ReturnPercent,
		&r.MaxDrawdownPercent,
		&r.MarketEvents,
		&r.SignalEvents,
		&r.OrderEvents,
		&r.FillEvents,
		&r.RejectedSignals,
		&r.ExpiredOrders,
		&r.TotalCommission,
		&r.InsertedAt)
	if err != nil {
		return r, err
	}
	if names != "" {
		r.Strategies = strings.Split(names, strategySeparator)
	}
	return r, nil
}

// GetRun returns the stored summary of a run
func GetRun(ctx context.Context, db *database.Instance, id string) (Run, error) {
	if !db.IsConnected() {
		return Run{}, database.ErrDatabaseNotConnected
	}
	r, err := scanRun(db.SQL.QueryRowContext(ctx, selectRun+` WHERE id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return Run{}, fmt.Errorf("%w: %v", errRunNotFound, id)
	}
	return r, err
}

// ListRuns returns every stored run, oldest first
func ListRuns(ctx context.Context, db *database.Instance) ([]Run, error) {
	if !db.IsConnected() {
		return nil, database.ErrDatabaseNotConnected
	}
	rows, err := db.SQL.QueryContext(ctx, selectRun+` ORDER BY inserted_at, id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var resp []Run
	for rows.Next() {
		var r Run
		if r, err = scanRun(rows); err != nil {
			return nil, err
		}
		resp = append(resp, r)
	}
	return resp, rows.Err()
}

// GetEquityCurve returns the stored equity curve of a run in offset order
func GetEquityCurve(ctx context.Context, db *database.Instance, id string) ([]statistics.ValueAtTime, error) {
	if !db.IsConnected() {
		return nil, database.ErrDatabaseNotConnected
	}
	rows, err := db.SQL.QueryContext(ctx, `SELECT event_offset, timestamp, value FROM equity WHERE run_id = ? ORDER BY event_offset`, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var resp []statistics.ValueAtTime
	for rows.Next() {
		var v statistics.ValueAtTime
		if err = rows.Scan(&v.Offset, &v.Timestamp, &v.Value); err != nil {
			return nil, err
		}
		resp = append(resp, v)
	}
	return resp, rows.Err()
}

// GetFills returns the stored fills of a run in offset order
func GetFills(ctx context.Context, db *database.Instance, id string) ([]statistics.FillRecord, error) {
	if !db.IsConnected() {
		return nil, database.ErrDatabaseNotConnected
	}
	rows, err := db.SQL.QueryContext(ctx, `SELECT event_offset, timestamp, order_id, symbol, direction, order_type,
		quantity, price, commission, final FROM fills WHERE run_id = ? ORDER BY event_offset`, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var resp []statistics.FillRecord
	for rows.Next() {
		var f statistics.FillRecord
		err = rows.Scan(&f.Offset, &f.Timestamp, &f.OrderID, &f.Symbol, &f.Direction, &f.OrderType,
			&f.Quantity, &f.Price, &f.Commission, &f.Final)
		if err != nil {
			return nil, err
		}
		resp = append(resp, f)
	}
	return resp, rows.Err()
}
