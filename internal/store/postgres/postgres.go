// Package postgres is a PostgreSQL backend for the learner records and the
// LLM request log, for installations that keep their data on a server.
package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/abhisek/studyquest/internal/store"
)

// PgConnection is the subset of a pgx pool the backend needs.
type PgConnection interface {
	Ping(ctx context.Context) error
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Begin(ctx context.Context) (pgx.Tx, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Store implements store.Backend on PostgreSQL.
type Store struct {
	conn  PgConnection
	close func()
}

var _ store.Backend = (*Store)(nil)

// Schema creates the tables used by the backend.
const Schema = `CREATE TABLE IF NOT EXISTS studyquest_records (
	key        TEXT PRIMARY KEY,
	data       BYTEA NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
);
CREATE TABLE IF NOT EXISTS studyquest_llm_events (
	id            SERIAL PRIMARY KEY,
	timestamp     TIMESTAMPTZ NOT NULL DEFAULT now(),
	provider      TEXT NOT NULL DEFAULT '',
	model         TEXT NOT NULL DEFAULT '',
	purpose       TEXT NOT NULL DEFAULT '',
	input_tokens  INTEGER NOT NULL DEFAULT 0,
	output_tokens INTEGER NOT NULL DEFAULT 0,
	latency_ms    BIGINT NOT NULL DEFAULT 0,
	success       BOOLEAN NOT NULL DEFAULT false,
	error_message TEXT NOT NULL DEFAULT '',
	request_body  TEXT NOT NULL DEFAULT '',
	response_body TEXT NOT NULL DEFAULT ''
);`

// Open connects to the server at dsn, checks the connection and creates
// the tables if needed.
func Open(ctx context.Context, dsn string) (*Store, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("create pool: %w", err)
	}
	s := &Store{conn: pool, close: pool.Close}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping: %w", err)
	}
	if err := s.Migrate(ctx); err != nil {
		pool.Close()
		return nil, err
	}
	return s, nil
}

// NewWithConn wraps an existing connection. The caller owns its lifetime.
func NewWithConn(conn PgConnection) *Store {
	return &Store{conn: conn}
}

// Migrate creates the tables if they do not exist.
func (s *Store) Migrate(ctx context.Context) error {
	if _, err := s.conn.Exec(ctx, Schema); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}
	return nil
}

func (s *Store) Close() error {
	if s.close != nil {
		s.close()
	}
	return nil
}

func (s *Store) Get(ctx context.Context, key string) ([]byte, error) {
	var data []byte
	err := s.conn.QueryRow(ctx, `SELECT data FROM studyquest_records WHERE key = $1;`, key).Scan(&data)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("select record %s: %w", key, err)
	}
	return data, nil
}

func (s *Store) Put(ctx context.Context, key string, value []byte) error {
	_, err := s.conn.Exec(ctx, `INSERT INTO studyquest_records (key, data, updated_at) VALUES ($1, $2, now())
ON CONFLICT (key) DO UPDATE SET data = EXCLUDED.data, updated_at = EXCLUDED.updated_at;`, key, value)
	if err != nil {
		return fmt.Errorf("upsert record %s: %w", key, err)
	}
	return nil
}

func (s *Store) Delete(ctx context.Context, key string) error {
	if _, err := s.conn.Exec(ctx, `DELETE FROM studyquest_records WHERE key = $1;`, key); err != nil {
		return fmt.Errorf("delete record %s: %w", key, err)
	}
	return nil
}

// Reset removes all records and events in one transaction.
func (s *Store) Reset(ctx context.Context) error {
	tx, err := s.conn.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin reset: %w", err)
	}
	defer tx.Rollback(ctx)

	for _, stmt := range []string{
		`DELETE FROM studyquest_records;`,
		`DELETE FROM studyquest_llm_events;`,
	} {
		if _, err := tx.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("%s: %w", stmt, err)
		}
	}
	return tx.Commit(ctx)
}

// Gateway returns the typed learner-record gateway backed by this store.
func (s *Store) Gateway() *store.Gateway {
	return store.NewGateway(s)
}

func (s *Store) EventRepo() store.EventRepo {
	return &eventRepo{conn: s.conn}
}

type eventRepo struct {
	conn PgConnection
}

const eventColumns = `id, timestamp, provider, model, purpose, input_tokens, output_tokens, latency_ms, success, error_message, request_body, response_body`

func (r *eventRepo) AppendLLMRequest(ctx context.Context, d store.LLMRequestEventData) error {
	_, err := r.conn.Exec(ctx, `INSERT INTO studyquest_llm_events (provider, model, purpose, input_tokens, output_tokens, latency_ms, success, error_message, request_body, response_body) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10);`,
		d.Provider, d.Model, d.Purpose, d.InputTokens, d.OutputTokens, d.LatencyMs,
		d.Success, d.ErrorMessage, d.RequestBody, d.ResponseBody)
	if err != nil {
		return fmt.Errorf("save LLM request event: %w", err)
	}
	return nil
}

func (r *eventRepo) QueryLLMEvents(ctx context.Context, opts store.QueryOpts) ([]store.LLMRequestEventRecord, error) {
	var (
		b    strings.Builder
		args []any
	)
	b.WriteString(`SELECT ` + eventColumns + ` FROM studyquest_llm_events`)
	if opts.Purpose != "" {
		args = append(args, opts.Purpose)
		fmt.Fprintf(&b, ` WHERE purpose = $%d`, len(args))
	}
	b.WriteString(` ORDER BY id DESC`)
	if opts.Limit > 0 {
		args = append(args, opts.Limit)
		fmt.Fprintf(&b, ` LIMIT $%d`, len(args))
	}
	b.WriteString(`;`)

	rows, err := r.conn.Query(ctx, b.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("query LLM events: %w", err)
	}
	defer rows.Close()

	var out []store.LLMRequestEventRecord
	for rows.Next() {
		e, err := scanEvent(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *e)
	}
	return out, rows.Err()
}

func (r *eventRepo) GetLLMEvent(ctx context.Context, id int) (*store.LLMRequestEventRecord, error) {
	e, err := scanEvent(r.conn.QueryRow(ctx, `SELECT `+eventColumns+` FROM studyquest_llm_events WHERE id = $1;`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	return e, err
}

func (r *eventRepo) LLMUsageByPurpose(ctx context.Context) ([]store.LLMUsage, error) {
	return r.usage(ctx, "purpose")
}

func (r *eventRepo) LLMUsageByModel(ctx context.Context) ([]store.LLMUsage, error) {
	return r.usage(ctx, "model")
}

func (r *eventRepo) usage(ctx context.Context, column string) ([]store.LLMUsage, error) {
	rows, err := r.conn.Query(ctx, `SELECT `+column+`, COUNT(*)::int, COALESCE(SUM(input_tokens), 0)::int, COALESCE(SUM(output_tokens), 0)::int, COALESCE(AVG(latency_ms), 0)::float8 FROM studyquest_llm_events GROUP BY `+column+` ORDER BY `+column+`;`)
	if err != nil {
		return nil, fmt.Errorf("query usage by %s: %w", column, err)
	}
	defer rows.Close()

	var out []store.LLMUsage
	for rows.Next() {
		var (
			u   store.LLMUsage
			key string
			avg float64
		)
		if err := rows.Scan(&key, &u.Calls, &u.InputTokens, &u.OutputTokens, &avg); err != nil {
			return nil, fmt.Errorf("scan usage: %w", err)
		}
		u.AvgLatencyMs = int64(avg)
		if column == "purpose" {
			u.Purpose = key
		} else {
			u.Model = key
		}
		out = append(out, u)
	}
	return out, rows.Err()
}

func scanEvent(row pgx.Row) (*store.LLMRequestEventRecord, error) {
	var e store.LLMRequestEventRecord
	err := row.Scan(&e.ID, &e.Timestamp, &e.Provider, &e.Model, &e.Purpose, &e.InputTokens,
		&e.OutputTokens, &e.LatencyMs, &e.Success, &e.ErrorMessage, &e.RequestBody, &e.ResponseBody)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scan LLM event: %w", err)
	}
	return &e, nil
}
