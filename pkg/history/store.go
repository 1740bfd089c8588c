// Package history persists successful estimates in SQLite so they can be
// searched and summarized later.
package history

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/robfig/cron/v3"
	_ "modernc.org/sqlite"

	"github.com/pario-ai/premiumcalc/pkg/models"
)

// Store writes and queries estimate records in a dedicated SQLite database.
type Store struct {
	db   *sql.DB
	cfg  models.HistoryConfig
	cron *cron.Cron
	now  func() time.Time
}

// DefaultCleanupSchedule is used when retention is on and no schedule is set.
const DefaultCleanupSchedule = "@hourly"

// New opens the history database and creates the schema. When retention is
// configured old records are pruned on cfg.CleanupSchedule.
func New(cfg models.HistoryConfig) (*Store, error) {
	db, err := sql.Open("sqlite", dsn(cfg.DBPath))
	if err != nil {
		return nil, fmt.Errorf("open history db: %w", err)
	}

	if err := migrate(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate history db: %w", err)
	}

	s := &Store{
		db:  db,
		cfg: cfg,
		now: func() time.Time { return time.Now().UTC() },
	}

	if cfg.RetentionDays > 0 {
		schedule := cfg.CleanupSchedule
		if schedule == "" {
			schedule = DefaultCleanupSchedule
		}
		c := cron.New()
		if _, err := c.AddFunc(schedule, func() { _, _ = s.Cleanup(context.Background()) }); err != nil {
			db.Close()
			return nil, fmt.Errorf("schedule history cleanup %q: %w", schedule, err)
		}
		c.Start()
		s.cron = c
	}

	return s, nil
}

// dsn makes the driver write times as "YYYY-MM-DD HH:MM:SS[.f]+00:00" text,
// which SQLite date functions parse and which compares correctly as text.
func dsn(path string) string {
	return path + "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_time_format=sqlite"
}

func migrate(db *sql.DB) error {
	_, err := db.Exec(`CREATE TABLE IF NOT EXISTS estimates (
		id                     TEXT PRIMARY KEY,
		subscription           TEXT NOT NULL,
		model                  TEXT NOT NULL,
		requests               REAL NOT NULL,
		developers             INTEGER NOT NULL,
		budget                 REAL NOT NULL DEFAULT 0,
		total_premium_requests REAL NOT NULL,
		included_requests      INTEGER NOT NULL,
		additional_requests    REAL NOT NULL,
		additional_cost        REAL NOT NULL,
		budget_status          TEXT NOT NULL,
		source                 TEXT NOT NULL,
		created_at             DATETIME NOT NULL
	)`)
	if err != nil {
		return err
	}
	_, err = db.Exec(`CREATE INDEX IF NOT EXISTS idx_estimates_model ON estimates(model)`)
	if err != nil {
		return err
	}
	_, err = db.Exec(`CREATE INDEX IF NOT EXISTS idx_estimates_created ON estimates(created_at)`)
	return err
}

// Log inserts a record, assigning an ID and timestamp when they are unset.
// It is a no-op on a nil Store so callers can leave history disabled.
func (s *Store) Log(ctx context.Context, rec models.HistoryRecord) (models.HistoryRecord, error) {
	if s == nil || s.db == nil {
		return rec, nil
	}
	if rec.ID == "" {
		rec.ID = uuid.NewString()
	}
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = s.now()
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO estimates
		(id, subscription, model, requests, developers, budget,
		 total_premium_requests, included_requests, additional_requests,
		 additional_cost, budget_status, source, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.ID, rec.Subscription, rec.Model, rec.Requests, rec.Developers, rec.Budget,
		rec.TotalPremiumRequests, rec.IncludedRequests, rec.AdditionalRequests,
		rec.AdditionalCost, string(rec.BudgetStatus), string(rec.Source), rec.CreatedAt.UTC(),
	)
	if err != nil {
		return rec, fmt.Errorf("record estimate: %w", err)
	}
	return rec, nil
}

// Query returns records matching opts, newest first.
func (s *Store) Query(ctx context.Context, opts models.HistoryQueryOpts) ([]models.HistoryRecord, error) {
	q := `SELECT id, subscription, model, requests, developers, budget,
		total_premium_requests, included_requests, additional_requests,
		additional_cost, budget_status, source, created_at
		FROM estimates WHERE 1=1`
	var args []any

	if opts.Model != "" {
		q += " AND model = ?"
		args = append(args, opts.Model)
	}
	if opts.Subscription != "" {
		q += " AND subscription = ?"
		args = append(args, opts.Subscription)
	}
	if opts.BudgetStatus != "" {
		q += " AND budget_status = ?"
		args = append(args, string(opts.BudgetStatus))
	}
	if !opts.Since.IsZero() {
		q += " AND created_at >= ?"
		args = append(args, opts.Since.UTC())
	}

	q += " ORDER BY created_at DESC"

	limit := opts.Limit
	if limit <= 0 {
		limit = 100
	}
	q += " LIMIT ?"
	args = append(args, limit)

	rows, err := s.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("query history: %w", err)
	}
	defer rows.Close()

	var records []models.HistoryRecord
	for rows.Next() {
		var r models.HistoryRecord
		var status, source string
		if err := rows.Scan(
			&r.ID, &r.Subscription, &r.Model, &r.Requests, &r.Developers, &r.Budget,
			&r.TotalPremiumRequests, &r.IncludedRequests, &r.AdditionalRequests,
			&r.AdditionalCost, &status, &source, &r.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan history row: %w", err)
		}
		r.BudgetStatus = models.BudgetStatus(status)
		r.Source = models.EstimateSource(source)
		records = append(records, r)
	}
	return records, rows.Err()
}

// Stats returns estimate counts and summed overage cost grouped by model and day.
func (s *Store) Stats(ctx context.Context) ([]models.HistoryStat, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT model, date(created_at) AS day, count(*) AS cnt, COALESCE(SUM(additional_cost), 0)
		 FROM estimates GROUP BY model, day ORDER BY day DESC, model`)
	if err != nil {
		return nil, fmt.Errorf("history stats: %w", err)
	}
	defer rows.Close()

	var stats []models.HistoryStat
	for rows.Next() {
		var st models.HistoryStat
		var day sql.NullString
		if err := rows.Scan(&st.Model, &day, &st.Count, &st.TotalCost); err != nil {
			return nil, fmt.Errorf("scan history stat: %w", err)
		}
		st.Day = day.String
		stats = append(stats, st)
	}
	return stats, rows.Err()
}

// Cleanup deletes records older than the configured retention period.
// A retention of zero days keeps everything.
func (s *Store) Cleanup(ctx context.Context) (int64, error) {
	if s.cfg.RetentionDays <= 0 {
		return 0, nil
	}
	cutoff := s.now().AddDate(0, 0, -s.cfg.RetentionDays)
	res, err := s.db.ExecContext(ctx, `DELETE FROM estimates WHERE created_at < ?`, cutoff)
	if err != nil {
		return 0, fmt.Errorf("history cleanup: %w", err)
	}
	return res.RowsAffected()
}

// Ping checks that the database is reachable.
func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// Close stops the cleanup schedule and closes the database.
func (s *Store) Close() error {
	if s.cron != nil {
		<-s.cron.Stop().Done()
	}
	return s.db.Close()
}
