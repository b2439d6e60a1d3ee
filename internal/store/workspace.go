package store

import (
	"context"

	"basegraph.app/membership/core/db/sqlc"
	"basegraph.app/membership/internal/model"
)

type workspaceStore struct {
	queries *sqlc.Queries
}

func newWorkspaceStore(queries *sqlc.Queries) WorkspaceStore {
	return &workspaceStore{queries: queries}
}

func (s *workspaceStore) GetByID(ctx context.Context, id int64) (*model.Workspace, error) {
	row, err := s.queries.GetWorkspace(ctx, id)
	if err != nil {
		return nil, mapError(err)
	}
	return toWorkspaceModel(row), nil
}

func (s *workspaceStore) GetByPublicID(ctx context.Context, publicID string) (*model.Workspace, error) {
	row, err := s.queries.GetWorkspaceByPublicID(ctx, publicID)
	if err != nil {
		return nil, mapError(err)
	}
	return toWorkspaceModel(row), nil
}

func toWorkspaceModel(row sqlc.Workspace) *model.Workspace {
	return &model.Workspace{
		ID:        row.ID,
		PublicID:  row.PublicID,
		Name:      row.Name,
		Slug:      row.Slug,
		CreatedAt: row.CreatedAt.Time,
		UpdatedAt: row.UpdatedAt.Time,
		DeletedAt: timePtr(row.DeletedAt),
	}
}
