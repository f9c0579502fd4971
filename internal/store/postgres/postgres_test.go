package postgres_test

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/studyquest/internal/store"
	"github.com/abhisek/studyquest/internal/store/postgres"
	"github.com/abhisek/studyquest/internal/study"
)

var eventCols = []string{"id", "timestamp", "provider", "model", "purpose", "input_tokens",
	"output_tokens", "latency_ms", "success", "error_message", "request_body", "response_body"}

func TestMigrate(t *testing.T) {
	conn, err := pgxmock.NewPool()
	if err != nil {
		t.Fatal(err)
	}
	s := postgres.NewWithConn(conn)

	conn.ExpectExec(regexp.QuoteMeta(postgres.Schema)).WillReturnResult(pgxmock.NewResult("CREATE", 0))
	assert.NoError(t, s.Migrate(context.Background()))
	assert.NoError(t, conn.ExpectationsWereMet())
}

func TestGet(t *testing.T) {
	conn, err := pgxmock.NewPool()
	if err != nil {
		t.Fatal(err)
	}
	s := postgres.NewWithConn(conn)
	ctx := context.Background()
	query := regexp.QuoteMeta(`SELECT data FROM studyquest_records WHERE key = $1;`)

	t.Run("found", func(t *testing.T) {
		conn.ExpectQuery(query).WithArgs("user").
			WillReturnRows(pgxmock.NewRows([]string{"data"}).AddRow([]byte(`{}`)))
		got, err := s.Get(ctx, "user")
		assert.NoError(t, err)
		assert.Equal(t, []byte(`{}`), got)
	})
	t.Run("absent", func(t *testing.T) {
		conn.ExpectQuery(query).WithArgs("user").WillReturnError(pgx.ErrNoRows)
		got, err := s.Get(ctx, "user")
		assert.NoError(t, err)
		assert.Nil(t, got)
	})
	t.Run("db error", func(t *testing.T) {
		conn.ExpectQuery(query).WithArgs("user").WillReturnError(errors.New("db error"))
		_, err := s.Get(ctx, "user")
		assert.Error(t, err)
	})
}

func TestGatewaySaveUser(t *testing.T) {
	conn, err := pgxmock.NewPool()
	if err != nil {
		t.Fatal(err)
	}
	g := postgres.NewWithConn(conn).Gateway()

	query := regexp.QuoteMeta(`INSERT INTO studyquest_records (key, data, updated_at) VALUES ($1, $2, now())`)
	conn.ExpectExec(query).WithArgs(store.KeyUser, pgxmock.AnyArg()).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	err = g.SaveUser(context.Background(), &study.User{ID: "u1", XP: 50})
	assert.NoError(t, err)
	assert.NoError(t, conn.ExpectationsWereMet())
}

func TestGatewayLoadUser(t *testing.T) {
	conn, err := pgxmock.NewPool()
	if err != nil {
		t.Fatal(err)
	}
	g := postgres.NewWithConn(conn).Gateway()

	conn.ExpectQuery(regexp.QuoteMeta(`SELECT data FROM studyquest_records WHERE key = $1;`)).
		WithArgs(store.KeyUser).
		WillReturnRows(pgxmock.NewRows([]string{"data"}).
			AddRow([]byte(`{"schema":"v1.0.0","data":{"id":"u1","xp":120,"streak":4}}`)))

	u, err := g.LoadUser(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "u1", u.ID)
	assert.Equal(t, 120, u.XP)
	assert.Equal(t, 4, u.Streak)
}

func TestReset(t *testing.T) {
	conn, err := pgxmock.NewPool()
	if err != nil {
		t.Fatal(err)
	}
	s := postgres.NewWithConn(conn)

	conn.ExpectBegin()
	conn.ExpectExec(regexp.QuoteMeta(`DELETE FROM studyquest_records;`)).WillReturnResult(pgxmock.NewResult("DELETE", 2))
	conn.ExpectExec(regexp.QuoteMeta(`DELETE FROM studyquest_llm_events;`)).WillReturnResult(pgxmock.NewResult("DELETE", 5))
	conn.ExpectCommit()

	assert.NoError(t, s.Reset(context.Background()))
	assert.NoError(t, conn.ExpectationsWereMet())
}

func TestAppendLLMRequest(t *testing.T) {
	conn, err := pgxmock.NewPool()
	if err != nil {
		t.Fatal(err)
	}
	repo := postgres.NewWithConn(conn).EventRepo()
	d := store.LLMRequestEventData{
		Provider: "gemini", Model: "gemini-3-flash-preview", Purpose: "tutor",
		InputTokens: 10, OutputTokens: 5, LatencyMs: 120, Success: true,
	}

	conn.ExpectExec(regexp.QuoteMeta(`INSERT INTO studyquest_llm_events`)).
		WithArgs(d.Provider, d.Model, d.Purpose, d.InputTokens, d.OutputTokens, d.LatencyMs,
			d.Success, d.ErrorMessage, d.RequestBody, d.ResponseBody).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	assert.NoError(t, repo.AppendLLMRequest(context.Background(), d))
	assert.NoError(t, conn.ExpectationsWereMet())
}

func TestQueryLLMEvents(t *testing.T) {
	conn, err := pgxmock.NewPool()
	if err != nil {
		t.Fatal(err)
	}
	repo := postgres.NewWithConn(conn).EventRepo()
	ts := time.Date(2026, 4, 1, 9, 0, 0, 0, time.UTC)

	conn.ExpectQuery(regexp.QuoteMeta(`FROM studyquest_llm_events WHERE purpose = $1 ORDER BY id DESC LIMIT $2;`)).
		WithArgs("tutor", 5).
		WillReturnRows(pgxmock.NewRows(eventCols).
			AddRow(7, ts, "gemini", "gemini-3-flash-preview", "tutor", 10, 5, int64(120), true, "", "", ""))

	events, err := repo.QueryLLMEvents(context.Background(), store.QueryOpts{Purpose: "tutor", Limit: 5})
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, 7, events[0].ID)
	assert.Equal(t, ts, events[0].Timestamp)
	assert.True(t, events[0].Success)
}

func TestGetLLMEventMissing(t *testing.T) {
	conn, err := pgxmock.NewPool()
	if err != nil {
		t.Fatal(err)
	}
	repo := postgres.NewWithConn(conn).EventRepo()

	conn.ExpectQuery(regexp.QuoteMeta(`FROM studyquest_llm_events WHERE id = $1;`)).
		WithArgs(42).WillReturnError(pgx.ErrNoRows)

	e, err := repo.GetLLMEvent(context.Background(), 42)
	assert.NoError(t, err)
	assert.Nil(t, e)
}
