package database

var schema = []string{
	`CREATE TABLE IF NOT EXISTS runs (
		id text NOT NULL PRIMARY KEY,
		nickname text NOT NULL,
		strategies text NOT NULL,
		initial_value text NOT NULL,
		final_value text NOT NULL,
		return_percent text NOT NULL,
		max_drawdown_percent text NOT NULL,
		market_events integer NOT NULL,
		signal_events integer NOT NULL,
		order_events integer NOT NULL,
		fill_events integer NOT NULL,
		rejected_signals integer NOT NULL,
		expired_orders integer NOT NULL,
		total_commission text NOT NULL,
		inserted_at DATETIME NOT NULL
	);`,
	`CREATE TABLE IF NOT EXISTS equity (
		id integer NOT NULL PRIMARY KEY AUTOINCREMENT,
		run_id text NOT NULL,
		event_offset integer NOT NULL,
		timestamp integer NOT NULL,
		value text NOT NULL,
		FOREIGN KEY(run_id) REFERENCES runs(id) ON DELETE CASCADE
	);`,
	`CREATE TABLE IF NOT EXISTS fills (
		id integer NOT NULL PRIMARY KEY AUTOINCREMENT,
		run_id text NOT NULL,
		event_offset integer NOT NULL,
		timestamp integer NOT NULL,
		order_id text NOT NULL,
		symbol text NOT NULL,
		direction text NOT NULL,
		order_type text NOT NULL,
		quantity integer NOT NULL,
		price text NOT NULL,
		commission text NOT NULL,
		final boolean NOT NULL,
		FOREIGN KEY(run_id) REFERENCES runs(id) ON DELETE CASCADE
	);`,
	`CREATE INDEX IF NOT EXISTS equity_run_id ON equity(run_id);`,
	`CREATE INDEX IF NOT EXISTS fills_run_id ON fills(run_id);`,
}
