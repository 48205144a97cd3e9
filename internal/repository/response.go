package repository

import (
	"context"
	"errors"

	"hellosrv/internal/model"
)

// ErrNotFound is returned by implementations when a record does not exist.
var ErrNotFound = errors.New("record not found")

// ResponseRepository stores the response journal.
// No business logic here, strictly persistence operations.
type ResponseRepository interface {
	// Create appends a record and returns it as stored.
	Create(ctx context.Context, rec *model.ResponseRecord) (*model.ResponseRecord, error)

	// FindByID returns a record by its ID or ErrNotFound.
	FindByID(ctx context.Context, id string) (*model.ResponseRecord, error)

	// List returns records newest first together with the total count.
	List(ctx context.Context, pq PageQuery) (*PageResult[model.ResponseRecord], error)
}
