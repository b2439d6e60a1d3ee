package store

import (
	"context"
	"errors"
	"time"

	"basegraph.app/membership/core/db/sqlc"
	"basegraph.app/membership/internal/model"
	"github.com/jackc/pgx/v5/pgtype"
)

type memberStore struct {
	queries *sqlc.Queries
}

func newMemberStore(queries *sqlc.Queries) MemberStore {
	return &memberStore{queries: queries}
}

// Create inserts a member row. A live member with the same workspace and
// email trips the partial unique index and surfaces as ErrConflict.
func (s *memberStore) Create(ctx context.Context, member *model.Member) error {
	row, err := s.queries.CreateMember(ctx, sqlc.CreateMemberParams{
		ID:          member.ID,
		PublicID:    member.PublicID,
		WorkspaceID: member.WorkspaceID,
		Email:       member.Email,
		UserID:      member.UserID,
		Role:        string(member.Role),
		Status:      string(member.Status),
		CreatedBy:   member.CreatedBy,
	})
	if err != nil {
		return mapError(err)
	}
	*member = *toMemberModel(row)
	return nil
}

func (s *memberStore) GetByID(ctx context.Context, id int64) (*model.Member, error) {
	row, err := s.queries.GetMemberByID(ctx, id)
	if err != nil {
		return nil, mapError(err)
	}
	return toMemberModel(row), nil
}

func (s *memberStore) GetByPublicID(ctx context.Context, publicID string) (*model.Member, error) {
	row, err := s.queries.GetMemberByPublicID(ctx, publicID)
	if err != nil {
		return nil, mapError(err)
	}
	return toMemberModel(row), nil
}

func (s *memberStore) GetByEmailInWorkspace(ctx context.Context, workspaceID int64, email string) (*model.Member, error) {
	row, err := s.queries.GetMemberByEmailInWorkspace(ctx, sqlc.GetMemberByEmailInWorkspaceParams{
		WorkspaceID: workspaceID,
		Email:       email,
	})
	if err != nil {
		return nil, mapError(err)
	}
	return toMemberModel(row), nil
}

func (s *memberStore) GetByUserInWorkspace(ctx context.Context, workspaceID, userID int64) (*model.Member, error) {
	row, err := s.queries.GetMemberByUserInWorkspace(ctx, sqlc.GetMemberByUserInWorkspaceParams{
		WorkspaceID: workspaceID,
		UserID:      &userID,
	})
	if err != nil {
		return nil, mapError(err)
	}
	return toMemberModel(row), nil
}

func (s *memberStore) ListByWorkspace(ctx context.Context, workspaceID int64) ([]model.Member, error) {
	rows, err := s.queries.ListMembersByWorkspace(ctx, workspaceID)
	if err != nil {
		return nil, err
	}
	return toMemberModels(rows), nil
}

func (s *memberStore) CountActive(ctx context.Context, workspaceID int64) (int64, error) {
	return s.queries.CountActiveMembers(ctx, workspaceID)
}

// SoftDelete only updates live rows. When the update matches nothing the row
// is either gone (ErrNotFound) or already deleted, in which case the existing
// record is returned unchanged.
func (s *memberStore) SoftDelete(ctx context.Context, id, deletedBy int64, deletedAt time.Time) (*model.Member, error) {
	row, err := s.queries.SoftDeleteMember(ctx, sqlc.SoftDeleteMemberParams{
		ID:        id,
		DeletedAt: pgtype.Timestamptz{Time: deletedAt, Valid: true},
		DeletedBy: &deletedBy,
	})
	if err == nil {
		return toMemberModel(row), nil
	}
	if err = mapError(err); !errors.Is(err, ErrNotFound) {
		return nil, err
	}

	existing, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !existing.IsDeleted() {
		return nil, ErrNotFound
	}
	return existing, nil
}

func (s *memberStore) Activate(ctx context.Context, id, userID int64) (*model.Member, error) {
	row, err := s.queries.ActivateMember(ctx, sqlc.ActivateMemberParams{
		ID:     id,
		UserID: &userID,
	})
	if err != nil {
		return nil, mapError(err)
	}
	return toMemberModel(row), nil
}

func toMemberModel(row sqlc.WorkspaceMember) *model.Member {
	return &model.Member{
		ID:          row.ID,
		PublicID:    row.PublicID,
		WorkspaceID: row.WorkspaceID,
		Email:       row.Email,
		UserID:      row.UserID,
		Role:        model.MemberRole(row.Role),
		Status:      model.MemberStatus(row.Status),
		CreatedBy:   row.CreatedBy,
		CreatedAt:   row.CreatedAt.Time,
		UpdatedAt:   row.UpdatedAt.Time,
		DeletedAt:   timePtr(row.DeletedAt),
		DeletedBy:   row.DeletedBy,
	}
}

func toMemberModels(rows []sqlc.WorkspaceMember) []model.Member {
	result := make([]model.Member, len(rows))
	for i, row := range rows {
		result[i] = *toMemberModel(row)
	}
	return result
}
