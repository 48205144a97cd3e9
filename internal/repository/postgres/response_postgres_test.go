package postgres

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"hellosrv/internal/model"
	"hellosrv/internal/repository"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
)

var recordColumns = []string{"id", "request_id", "method", "path", "status", "outcome", "delay_ms", "created_at"}

func TestResponsePostgres_Create(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("an error '%s' was not expected when opening a stub database connection", err)
	}
	defer db.Close()

	repo := NewResponsePostgres(db)
	ctx := context.Background()

	now := time.Now().UTC()
	rec := &model.ResponseRecord{
		ID:        "test-uuid",
		RequestID: "req-1",
		Method:    "GET",
		Path:      "/",
		Status:    200,
		Outcome:   model.OutcomeServed,
		DelayMs:   2000,
		CreatedAt: now,
	}

	rows := sqlmock.NewRows(recordColumns).
		AddRow(rec.ID, rec.RequestID, rec.Method, rec.Path, rec.Status, "served", rec.DelayMs, rec.CreatedAt)

	mock.ExpectQuery("INSERT INTO responses").
		WithArgs(rec.ID, rec.RequestID, rec.Method, rec.Path, rec.Status, "served", rec.DelayMs, rec.CreatedAt).
		WillReturnRows(rows)

	result, err := repo.Create(ctx, rec)

	assert.NoError(t, err)
	assert.NotNil(t, result)
	assert.Equal(t, rec.ID, result.ID)
	assert.Equal(t, model.OutcomeServed, result.Outcome)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestResponsePostgres_FindByID(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("an error '%s' was not expected when opening a stub database connection", err)
	}
	defer db.Close()

	repo := NewResponsePostgres(db)
	ctx := context.Background()

	t.Run("found", func(t *testing.T) {
		rows := sqlmock.NewRows(recordColumns).
			AddRow("test-id", "req-1", "GET", "/", 503, "cancelled", 2000, time.Now())

		mock.ExpectQuery("SELECT (.+) FROM responses WHERE id = ?").
			WithArgs("test-id").
			WillReturnRows(rows)

		rec, err := repo.FindByID(ctx, "test-id")

		assert.NoError(t, err)
		assert.NotNil(t, rec)
		assert.Equal(t, "test-id", rec.ID)
		assert.Equal(t, model.OutcomeCancelled, rec.Outcome)
	})

	t.Run("not found", func(t *testing.T) {
		mock.ExpectQuery("SELECT (.+) FROM responses WHERE id = ?").
			WithArgs("missing").
			WillReturnError(sql.ErrNoRows)

		rec, err := repo.FindByID(ctx, "missing")

		assert.ErrorIs(t, err, repository.ErrNotFound)
		assert.Nil(t, rec)
	})

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestResponsePostgres_List(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("an error '%s' was not expected when opening a stub database connection", err)
	}
	defer db.Close()

	repo := NewResponsePostgres(db)
	ctx := context.Background()

	t.Run("success", func(t *testing.T) {
		mock.ExpectQuery("SELECT COUNT\\(\\*\\) FROM responses").
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(2))

		rows := sqlmock.NewRows(recordColumns).
			AddRow("id-2", "req-2", "GET", "/", 200, "served", 2000, time.Now()).
			AddRow("id-1", "req-1", "GET", "/", 503, "rejected", 2000, time.Now().Add(-time.Second))

		mock.ExpectQuery("SELECT (.+) FROM responses\\s+ORDER BY").
			WithArgs(10, 0).
			WillReturnRows(rows)

		res, err := repo.List(ctx, repository.PageQuery{Limit: 10, Offset: 0})

		assert.NoError(t, err)
		assert.Equal(t, 2, res.Total)
		assert.Len(t, res.Items, 2)
		assert.Equal(t, "id-2", res.Items[0].ID)
	})

	t.Run("count error", func(t *testing.T) {
		mock.ExpectQuery("SELECT COUNT\\(\\*\\) FROM responses").
			WillReturnError(sql.ErrConnDone)

		res, err := repo.List(ctx, repository.PageQuery{Limit: 10})

		assert.ErrorIs(t, err, sql.ErrConnDone)
		assert.Nil(t, res)
	})

	assert.NoError(t, mock.ExpectationsWereMet())
}
