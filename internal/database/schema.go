package database

// schemaStatements defines the analytics tables. Scoring, simulation,
// spending and state tables are append-only logs: rows are inserted, never
// updated, and "current" is always the most recent row by timestamp.
var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS return_observations (
		user_id      TEXT NOT NULL,
		date         TEXT NOT NULL,
		daily_return REAL NOT NULL,
		PRIMARY KEY (user_id, date)
	)`,

	`CREATE TABLE IF NOT EXISTS holdings (
		user_id      TEXT NOT NULL,
		ticker       TEXT NOT NULL,
		quantity     REAL NOT NULL,
		avg_cost     REAL,
		last_updated TEXT NOT NULL,
		PRIMARY KEY (user_id, ticker)
	)`,

	`CREATE TABLE IF NOT EXISTS trade_actions (
		id           TEXT PRIMARY KEY,
		user_id      TEXT NOT NULL,
		executed_at  TEXT NOT NULL,
		trigger_type TEXT NOT NULL,
		reason       TEXT
	)`,
	`CREATE INDEX IF NOT EXISTS idx_trade_actions_user_time
		ON trade_actions (user_id, executed_at DESC)`,

	`CREATE TABLE IF NOT EXISTS cash_flows (
		id          TEXT PRIMARY KEY,
		user_id     TEXT NOT NULL,
		occurred_at TEXT NOT NULL,
		amount      TEXT NOT NULL,
		flow_type   TEXT NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_cash_flows_user_time
		ON cash_flows (user_id, occurred_at DESC)`,

	`CREATE TABLE IF NOT EXISTS spending_metrics (
		id                 TEXT PRIMARY KEY,
		user_id            TEXT NOT NULL,
		monthly_burn_rate  TEXT NOT NULL,
		savings_rate       TEXT NOT NULL,
		expense_volatility TEXT NOT NULL,
		calculated_at      TEXT NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_spending_metrics_user_time
		ON spending_metrics (user_id, calculated_at DESC)`,

	`CREATE TABLE IF NOT EXISTS behavioral_scores (
		id                    TEXT PRIMARY KEY,
		user_id               TEXT NOT NULL,
		panic_sell_score      REAL NOT NULL,
		recency_bias_score    REAL NOT NULL,
		risk_chasing_score    REAL NOT NULL,
		liquidity_stress_score REAL NOT NULL,
		adaptive_risk_score   REAL NOT NULL,
		loss_aversion_ratio   REAL,
		feature_snapshot      TEXT NOT NULL,
		model_weights         TEXT NOT NULL,
		insights              TEXT NOT NULL,
		calculated_at         TEXT NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_behavioral_scores_user_time
		ON behavioral_scores (user_id, calculated_at DESC)`,

	`CREATE TABLE IF NOT EXISTS risk_metrics (
		user_id       TEXT NOT NULL,
		volatility    REAL NOT NULL,
		sharpe_ratio  REAL NOT NULL,
		sortino_ratio REAL,
		max_drawdown  REAL,
		var_95        REAL,
		calculated_at TEXT NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_risk_metrics_user_time
		ON risk_metrics (user_id, calculated_at DESC)`,

	`CREATE TABLE IF NOT EXISTS goals (
		id            TEXT PRIMARY KEY,
		user_id       TEXT NOT NULL,
		name          TEXT,
		target_amount REAL NOT NULL,
		target_date   TEXT NOT NULL,
		priority      INTEGER NOT NULL DEFAULT 0
	)`,

	`CREATE TABLE IF NOT EXISTS simulation_results (
		id                    TEXT PRIMARY KEY,
		goal_id               TEXT NOT NULL,
		user_id               TEXT NOT NULL,
		num_simulations       INTEGER NOT NULL,
		goal_probability      REAL NOT NULL,
		median_projection     REAL NOT NULL,
		worst_case_projection REAL NOT NULL,
		best_case_projection  REAL NOT NULL,
		drift_assumption      REAL NOT NULL,
		volatility_assumption REAL NOT NULL,
		created_at            TEXT NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_simulation_results_goal_time
		ON simulation_results (goal_id, created_at DESC)`,

	`CREATE TABLE IF NOT EXISTS portfolio_snapshots (
		user_id     TEXT NOT NULL,
		date        TEXT NOT NULL,
		total_value REAL NOT NULL,
		cash_balance REAL NOT NULL DEFAULT 0,
		PRIMARY KEY (user_id, date)
	)`,

	`CREATE TABLE IF NOT EXISTS portfolio_states (
		id           TEXT PRIMARY KEY,
		user_id      TEXT NOT NULL,
		state        TEXT NOT NULL,
		health_index REAL,
		updated_at   TEXT NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_portfolio_states_user_time
		ON portfolio_states (user_id, updated_at DESC)`,

	`CREATE TABLE IF NOT EXISTS optimization_runs (
		id             TEXT PRIMARY KEY,
		user_id        TEXT NOT NULL,
		risk_tolerance REAL NOT NULL,
		created_at     TEXT NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_optimization_runs_user_time
		ON optimization_runs (user_id, created_at DESC)`,
}
