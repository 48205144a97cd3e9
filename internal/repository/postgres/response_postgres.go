package postgres

import (
	"context"
	"database/sql"
	"errors"

	"hellosrv/internal/model"
	"hellosrv/internal/repository"
)

// ResponsePostgres is a PostgreSQL implementation of repository.ResponseRepository.
// It uses database/sql with parameterized queries and contains no business logic.
type ResponsePostgres struct {
	db *sql.DB
}

// NewResponsePostgres creates a new ResponsePostgres repository.
func NewResponsePostgres(db *sql.DB) *ResponsePostgres {
	return &ResponsePostgres{db: db}
}

var _ repository.ResponseRepository = (*ResponsePostgres)(nil)

const responseColumns = `id, request_id, method, path, status, outcome, delay_ms, created_at`

type scanner interface {
	Scan(dest ...any) error
}

func scanRecord(s scanner) (*model.ResponseRecord, error) {
	var (
		r       model.ResponseRecord
		outcome string
	)
	if err := s.Scan(
		&r.ID,
		&r.RequestID,
		&r.Method,
		&r.Path,
		&r.Status,
		&outcome,
		&r.DelayMs,
		&r.CreatedAt,
	); err != nil {
		return nil, err
	}
	r.Outcome = model.Outcome(outcome)
	return &r, nil
}

// Create inserts a journal row and returns the stored record.
func (r *ResponsePostgres) Create(ctx context.Context, rec *model.ResponseRecord) (*model.ResponseRecord, error) {
	const q = `
		INSERT INTO responses (` + responseColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING ` + responseColumns
	row := r.db.QueryRowContext(ctx, q,
		rec.ID,
		rec.RequestID,
		rec.Method,
		rec.Path,
		rec.Status,
		string(rec.Outcome),
		rec.DelayMs,
		rec.CreatedAt,
	)
	return scanRecord(row)
}

// FindByID fetches a single record by its ID.
func (r *ResponsePostgres) FindByID(ctx context.Context, id string) (*model.ResponseRecord, error) {
	const q = `SELECT ` + responseColumns + ` FROM responses WHERE id = $1`
	rec, err := scanRecord(r.db.QueryRowContext(ctx, q, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return rec, nil
}

// List returns records using LIMIT/OFFSET pagination and a total count.
func (r *ResponsePostgres) List(ctx context.Context, pq repository.PageQuery) (*repository.PageResult[model.ResponseRecord], error) {
	const qCount = `SELECT COUNT(*) FROM responses`
	var total int
	if err := r.db.QueryRowContext(ctx, qCount).Scan(&total); err != nil {
		return nil, err
	}

	const qList = `SELECT ` + responseColumns + ` FROM responses
		ORDER BY created_at DESC, id DESC
		LIMIT $1 OFFSET $2`
	rows, err := r.db.QueryContext(ctx, qList, pq.Limit, pq.Offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]model.ResponseRecord, 0)
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, *rec)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return &repository.PageResult[model.ResponseRecord]{
		Items: items,
		Total: total,
	}, nil
}
