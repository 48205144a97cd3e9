package service

import (
	"context"
	"errors"
	"testing"

	"hellosrv/internal/model"
	"hellosrv/internal/repository"
	repoMocks "hellosrv/internal/repository/mocks"

	"github.com/stretchr/testify/assert"
)

func TestJournalService_List(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name          string
		limit, offset int
		wantQuery     repository.PageQuery
		repoErr       error
	}{
		{name: "passes through", limit: 5, offset: 2, wantQuery: repository.PageQuery{Limit: 5, Offset: 2}},
		{name: "defaults limit", limit: 0, offset: 0, wantQuery: repository.PageQuery{Limit: 10, Offset: 0}},
		{name: "caps limit", limit: 1000, offset: 0, wantQuery: repository.PageQuery{Limit: 100, Offset: 0}},
		{name: "clamps offset", limit: 10, offset: -3, wantQuery: repository.PageQuery{Limit: 10, Offset: 0}},
		{name: "repository error", limit: 10, wantQuery: repository.PageQuery{Limit: 10}, repoErr: errors.New("db error")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(repoMocks.MockResponseRepository)
			if tt.repoErr != nil {
				repo.On("List", ctx, tt.wantQuery).Return(nil, tt.repoErr)
			} else {
				repo.On("List", ctx, tt.wantQuery).Return(&repository.PageResult[model.ResponseRecord]{
					Items: []model.ResponseRecord{{ID: "a"}},
					Total: 1,
				}, nil)
			}

			res, err := NewJournalService(repo).List(ctx, tt.limit, tt.offset)
			if tt.repoErr != nil {
				assert.ErrorIs(t, err, tt.repoErr)
				assert.Nil(t, res)
			} else {
				assert.NoError(t, err)
				assert.Equal(t, 1, res.Total)
				assert.Len(t, res.Items, 1)
			}
			repo.AssertExpectations(t)
		})
	}
}

func TestJournalService_Get(t *testing.T) {
	ctx := context.Background()

	t.Run("found", func(t *testing.T) {
		repo := new(repoMocks.MockResponseRepository)
		repo.On("FindByID", ctx, "id-1").Return(&model.ResponseRecord{ID: "id-1"}, nil)

		rec, err := NewJournalService(repo).Get(ctx, "id-1")
		assert.NoError(t, err)
		assert.Equal(t, "id-1", rec.ID)
	})

	t.Run("not found", func(t *testing.T) {
		repo := new(repoMocks.MockResponseRepository)
		repo.On("FindByID", ctx, "id-2").Return(nil, repository.ErrNotFound)

		_, err := NewJournalService(repo).Get(ctx, "id-2")
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("empty id", func(t *testing.T) {
		_, err := NewJournalService(new(repoMocks.MockResponseRepository)).Get(ctx, "")
		assert.ErrorIs(t, err, ErrIDRequired)
	})

	t.Run("repository error", func(t *testing.T) {
		repo := new(repoMocks.MockResponseRepository)
		repo.On("FindByID", ctx, "id-3").Return(nil, errors.New("boom"))

		_, err := NewJournalService(repo).Get(ctx, "id-3")
		assert.EqualError(t, err, "boom")
	})
}
