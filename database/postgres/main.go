package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"time"

	_ "github.com/lib/pq"

	"go.opentelemetry.io/otel"
	"go.uber.org/zap"

	"smartiedev/logger"
	"smartiedev/tracker"
)

type DatabaseConnectProps struct {
	Logger *logger.LogMiddleware
}

// Database is the postgres-backed tracker.Store. One row per user in goals
// (upsert on conflict), append-only rows in checkin_logs.
type Database struct {
	conn   *sql.DB
	logger *logger.LogMiddleware
}

var _ tracker.Store = (*Database)(nil)

func Connect(ctx context.Context, args DatabaseConnectProps) *Database {
	tracer := otel.Tracer("postgres/Connect")
	ctx, span := tracer.Start(ctx, "Connect")
	defer span.End()

	connectRetries := 5
	var conn *sql.DB
	var err error
	var connStr string

	logger := args.Logger.Logger(ctx)

	for connectRetries > 0 {
		conn, err, connStr = getConnection(ctx)
		if err == nil {
			logger.Info("[Postgres] Database client started")
			break
		}
		connectRetries -= 1
		sleepTime := 5
		logger.Error(
			"[Postgres] Could not connect to Postgres. Retrying after sleeping.",
			zap.Error(err),
			zap.Int("Retries Left", connectRetries),
			zap.Int("Sleep Time", sleepTime),
			zap.String("Connection String", connStr))
		time.Sleep(time.Second * time.Duration(sleepTime))
	}

	if connectRetries <= 0 {
		logger.Error("[Postgres] Failed to Connect to Postgres")
		span.RecordError(fmt.Errorf("failed to connect to Postgres"))
		os.Exit(1)
	}

	db := &Database{conn: conn, logger: args.Logger}
	if err := db.initSchema(ctx); err != nil {
		logger.Error("[Postgres] Could not initialize schema", zap.Error(err))
		span.RecordError(err)
		os.Exit(1)
	}

	return db
}

func getConnection(ctx context.Context) (*sql.DB, error, string) {
	tracer := otel.Tracer("postgres/getConnection")
	_, span := tracer.Start(ctx, "getConnection")
	defer span.End()

	host := os.Getenv("POSTGRES_DB_HOST")
	port := os.Getenv("POSTGRES_DB_PORT")
	user := os.Getenv("POSTGRES_DB_USER")
	password := os.Getenv("POSTGRES_DB_PASS")
	dbname := os.Getenv("POSTGRES_DB_NAME")

	sslMode := "disable"

	postgresqlDbInfo := fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		host, port, user, password, dbname, sslMode,
	)

	db, err := sql.Open("postgres", postgresqlDbInfo)
	if err != nil {
		span.RecordError(err)
		return nil, err, postgresqlDbInfo
	}
	err = db.Ping()
	if err != nil {
		span.RecordError(err)
		return nil, err, postgresqlDbInfo
	}

	return db, nil, ""
}

func (d *Database) initSchema(ctx context.Context) error {
	query := `
	CREATE TABLE IF NOT EXISTS goals (
		user_id TEXT PRIMARY KEY,
		goal_text TEXT NOT NULL,
		pillar_key TEXT NOT NULL,
		cadence TEXT NOT NULL,
		started DATE NOT NULL,
		updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
	);

	CREATE TABLE IF NOT EXISTS checkin_logs (
		id BIGSERIAL PRIMARY KEY,
		user_id TEXT NOT NULL,
		logged_on DATE NOT NULL,
		note TEXT NOT NULL DEFAULT ''
	);
	CREATE INDEX IF NOT EXISTS idx_checkin_logs_user_date ON checkin_logs(user_id, logged_on);
	`
	_, err := d.conn.ExecContext(ctx, query)
	return err
}

func (d *Database) SetGoal(ctx context.Context, goal tracker.Goal) error {
	tracer := otel.Tracer("postgres/SetGoal")
	ctx, span := tracer.Start(ctx, "SetGoal")
	defer span.End()

	_, err := d.conn.ExecContext(ctx, `
		INSERT INTO goals (user_id, goal_text, pillar_key, cadence, started, updated_at)
		VALUES ($1, $2, $3, $4, $5, now())
		ON CONFLICT (user_id) DO UPDATE SET
			goal_text = EXCLUDED.goal_text,
			pillar_key = EXCLUDED.pillar_key,
			cadence = EXCLUDED.cadence,
			started = EXCLUDED.started,
			updated_at = now()`,
		goal.UserID, goal.Text, goal.PillarKey, goal.Cadence, goal.Started)
	if err != nil {
		d.logger.Logger(ctx).Error("[Postgres] Could not upsert goal",
			zap.Error(err), zap.String("user_id", goal.UserID))
		span.RecordError(err)
		return fmt.Errorf("set goal: %w", err)
	}
	return nil
}

func (d *Database) GetGoal(ctx context.Context, userID string) (*tracker.Goal, error) {
	tracer := otel.Tracer("postgres/GetGoal")
	ctx, span := tracer.Start(ctx, "GetGoal")
	defer span.End()

	row := d.conn.QueryRowContext(ctx, `
		SELECT user_id, goal_text, pillar_key, cadence, started
		FROM goals WHERE user_id = $1`, userID)

	var goal tracker.Goal
	err := row.Scan(&goal.UserID, &goal.Text, &goal.PillarKey, &goal.Cadence, &goal.Started)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("get goal: %w", err)
	}
	return &goal, nil
}

func (d *Database) LogDone(ctx context.Context, entry tracker.LogEntry) error {
	tracer := otel.Tracer("postgres/LogDone")
	ctx, span := tracer.Start(ctx, "LogDone")
	defer span.End()

	date := entry.Date
	if date.IsZero() {
		date = time.Now()
	}
	_, err := d.conn.ExecContext(ctx, `
		INSERT INTO checkin_logs (user_id, logged_on, note) VALUES ($1, $2, $3)`,
		entry.UserID, date, entry.Note)
	if err != nil {
		span.RecordError(err)
		return fmt.Errorf("log done: %w", err)
	}
	return nil
}

func (d *Database) Logs(ctx context.Context, userID string, days int) ([]tracker.LogEntry, error) {
	tracer := otel.Tracer("postgres/Logs")
	ctx, span := tracer.Start(ctx, "Logs")
	defer span.End()

	rows, err := d.conn.QueryContext(ctx, `
		SELECT user_id, logged_on, note FROM checkin_logs
		WHERE user_id = $1 AND logged_on >= CURRENT_DATE - ($2 - 1) * INTERVAL '1 day'
		ORDER BY logged_on`, userID, days)
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("query logs: %w", err)
	}
	defer rows.Close()

	return scanLogs(rows)
}

func (d *Database) LastN(ctx context.Context, userID string, n int) ([]tracker.LogEntry, error) {
	tracer := otel.Tracer("postgres/LastN")
	ctx, span := tracer.Start(ctx, "LastN")
	defer span.End()

	rows, err := d.conn.QueryContext(ctx, `
		SELECT user_id, logged_on, note FROM checkin_logs
		WHERE user_id = $1 ORDER BY logged_on DESC LIMIT $2`, userID, n)
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("query last logs: %w", err)
	}
	defer rows.Close()

	return scanLogs(rows)
}

func scanLogs(rows *sql.Rows) ([]tracker.LogEntry, error) {
	var out []tracker.LogEntry
	for rows.Next() {
		var e tracker.LogEntry
		if err := rows.Scan(&e.UserID, &e.Date, &e.Note); err != nil {
			return nil, fmt.Errorf("scan log row: %w", err)
		}
		out = append(out, e)
	}
	return out, rows.Err()
}
