package service

import (
	"context"
	"errors"

	"hellosrv/internal/model"
	"hellosrv/internal/repository"
)

var (
	ErrIDRequired = errors.New("id is required")
	ErrNotFound   = errors.New("response record not found")
)

const (
	defaultPageLimit = 10
	maxPageLimit     = 100
)

// ResponseListResult is the service-level DTO for paginated journal records.
type ResponseListResult struct {
	Items []model.ResponseRecord `json:"data"`
	Total int                    `json:"total"`
}

// JournalService exposes the response journal.
type JournalService interface {
	// List returns records newest first using limit/offset and a total count.
	List(ctx context.Context, limit, offset int) (*ResponseListResult, error)

	// Get returns a single record by its ID.
	Get(ctx context.Context, id string) (*model.ResponseRecord, error)
}

type journalService struct {
	repo repository.ResponseRepository
}

// NewJournalService constructs a new JournalService.
func NewJournalService(repo repository.ResponseRepository) JournalService {
	return &journalService{repo: repo}
}

func (s *journalService) List(ctx context.Context, limit, offset int) (*ResponseListResult, error) {
	if limit <= 0 {
		limit = defaultPageLimit
	}
	if limit > maxPageLimit {
		limit = maxPageLimit
	}
	if offset < 0 {
		offset = 0
	}

	res, err := s.repo.List(ctx, repository.PageQuery{Limit: limit, Offset: offset})
	if err != nil {
		return nil, err
	}
	return &ResponseListResult{Items: res.Items, Total: res.Total}, nil
}

func (s *journalService) Get(ctx context.Context, id string) (*model.ResponseRecord, error) {
	if id == "" {
		return nil, ErrIDRequired
	}
	rec, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return rec, nil
}
