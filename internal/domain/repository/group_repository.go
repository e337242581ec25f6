package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"studyhub/internal/common"
	"studyhub/internal/domain/model"

	"github.com/jackc/pgx/v5/pgconn"
)

type GroupRepository interface {
	CreateGroup(ctx context.Context, tx *sql.Tx, group *model.Group) error
	FindGroupByID(ctx context.Context, id string) (*model.Group, error)
	ListGroups(ctx context.Context, limit, offset int) ([]model.Group, int, error)

	// AddMember inserts a membership; a duplicate (group, user) pair comes
	// back as ErrConflict instead of a second row.
	AddMember(ctx context.Context, tx *sql.Tx, m *model.Membership) error
	RemoveMember(ctx context.Context, groupID, userID string) error
	IsMember(ctx context.Context, groupID, userID string) (bool, error)
	IsAdmin(ctx context.Context, groupID, userID string) (bool, error)
	ListMembers(ctx context.Context, groupID string) ([]model.GroupMember, error)

	// DeleteGroupCascade removes the group and everything under it inside
	// the caller's transaction: submissions, tasks, messages, memberships.
	DeleteGroupCascade(ctx context.Context, tx *sql.Tx, groupID string) error
}

type pgGroupRepository struct {
	db *sql.DB
}

func NewPgGroupRepository(db *sql.DB) GroupRepository {
	return &pgGroupRepository{db: db}
}

func (r *pgGroupRepository) CreateGroup(ctx context.Context, tx *sql.Tx, g *model.Group) error {
	query := `INSERT INTO groups (id, name, slug, description, created_by)
	          VALUES ($1, $2, $3, $4, $5)`
	var err error
	if tx != nil {
		_, err = tx.ExecContext(ctx, query, g.ID, g.Name, g.Slug, g.Description, g.CreatedByID)
	} else {
		_, err = r.db.ExecContext(ctx, query, g.ID, g.Name, g.Slug, g.Description, g.CreatedByID)
	}
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" { // Unique constraint for slug
			return fmt.Errorf("group with this name already exists: %w", common.ErrConflict)
		}
		return fmt.Errorf("pgGroupRepository.CreateGroup: %w", err)
	}
	return nil
}

func (r *pgGroupRepository) FindGroupByID(ctx context.Context, id string) (*model.Group, error) {
	query := `
        SELECT g.id, g.name, g.slug, g.description, g.created_by, g.created_at, g.updated_at,
               (SELECT COUNT(*) FROM memberships m WHERE m.group_id = g.id) AS member_count
        FROM groups g WHERE g.id = $1`
	g := &model.Group{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&g.ID, &g.Name, &g.Slug, &g.Description, &g.CreatedByID, &g.CreatedAt, &g.UpdatedAt, &g.MemberCount,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("pgGroupRepository.FindGroupByID: %w", err)
	}
	return g, nil
}

func (r *pgGroupRepository) ListGroups(ctx context.Context, limit, offset int) ([]model.Group, int, error) {
	var total int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM groups`).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("pgGroupRepository.ListGroups count: %w", err)
	}

	query := `
        SELECT g.id, g.name, g.slug, g.description, g.created_by, g.created_at, g.updated_at,
               (SELECT COUNT(*) FROM memberships m WHERE m.group_id = g.id) AS member_count
        FROM groups g ORDER BY g.created_at DESC LIMIT $1 OFFSET $2`
	rows, err := r.db.QueryContext(ctx, query, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("pgGroupRepository.ListGroups query: %w", err)
	}
	defer rows.Close()

	groups := []model.Group{}
	for rows.Next() {
		var g model.Group
		if err := rows.Scan(&g.ID, &g.Name, &g.Slug, &g.Description, &g.CreatedByID, &g.CreatedAt, &g.UpdatedAt, &g.MemberCount); err != nil {
			return nil, 0, fmt.Errorf("pgGroupRepository.ListGroups scan: %w", err)
		}
		groups = append(groups, g)
	}
	if err = rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("pgGroupRepository.ListGroups rows.Err: %w", err)
	}
	return groups, total, nil
}

func (r *pgGroupRepository) AddMember(ctx context.Context, tx *sql.Tx, m *model.Membership) error {
	// ON CONFLICT keeps the (group_id, user_id) uniqueness race-free even if
	// two joins land at once.
	query := `INSERT INTO memberships (id, group_id, user_id, is_admin)
	          VALUES ($1, $2, $3, $4)
	          ON CONFLICT (group_id, user_id) DO NOTHING`
	var res sql.Result
	var err error
	if tx != nil {
		res, err = tx.ExecContext(ctx, query, m.ID, m.GroupID, m.UserID, m.IsAdmin)
	} else {
		res, err = r.db.ExecContext(ctx, query, m.ID, m.GroupID, m.UserID, m.IsAdmin)
	}
	if err != nil {
		return fmt.Errorf("pgGroupRepository.AddMember: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("already a member of this group: %w", common.ErrConflict)
	}
	return nil
}

func (r *pgGroupRepository) RemoveMember(ctx context.Context, groupID, userID string) error {
	res, err := r.db.ExecContext(ctx,
		`DELETE FROM memberships WHERE group_id = $1 AND user_id = $2`, groupID, userID)
	if err != nil {
		return fmt.Errorf("pgGroupRepository.RemoveMember: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return common.ErrNotFound
	}
	return nil
}

func (r *pgGroupRepository) IsMember(ctx context.Context, groupID, userID string) (bool, error) {
	var exists bool
	err := r.db.QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM memberships WHERE group_id = $1 AND user_id = $2)`,
		groupID, userID).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("pgGroupRepository.IsMember: %w", err)
	}
	return exists, nil
}

func (r *pgGroupRepository) IsAdmin(ctx context.Context, groupID, userID string) (bool, error) {
	var isAdmin bool
	err := r.db.QueryRowContext(ctx,
		`SELECT is_admin FROM memberships WHERE group_id = $1 AND user_id = $2`,
		groupID, userID).Scan(&isAdmin)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return false, nil
		}
		return false, fmt.Errorf("pgGroupRepository.IsAdmin: %w", err)
	}
	return isAdmin, nil
}

func (r *pgGroupRepository) ListMembers(ctx context.Context, groupID string) ([]model.GroupMember, error) {
	query := `
        SELECT u.id, u.username, u.display_name, m.is_admin, m.joined_at
        FROM memberships m
        JOIN users u ON m.user_id = u.id
        WHERE m.group_id = $1
        ORDER BY m.joined_at ASC`
	rows, err := r.db.QueryContext(ctx, query, groupID)
	if err != nil {
		return nil, fmt.Errorf("pgGroupRepository.ListMembers query: %w", err)
	}
	defer rows.Close()

	members := []model.GroupMember{}
	for rows.Next() {
		var m model.GroupMember
		if err := rows.Scan(&m.UserID, &m.Username, &m.DisplayName, &m.IsAdmin, &m.JoinedAt); err != nil {
			return nil, fmt.Errorf("pgGroupRepository.ListMembers scan: %w", err)
		}
		members = append(members, m)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("pgGroupRepository.ListMembers rows.Err: %w", err)
	}
	return members, nil
}

func (r *pgGroupRepository) DeleteGroupCascade(ctx context.Context, tx *sql.Tx, groupID string) error {
	// One transaction, fixed order: children first. No partial-delete states
	// survive a failure anywhere in the chain.
	statements := []string{
		`DELETE FROM submissions WHERE task_id IN (SELECT id FROM tasks WHERE group_id = $1)`,
		`DELETE FROM verification_attempts WHERE task_id IN (SELECT id FROM tasks WHERE group_id = $1)`,
		`DELETE FROM tasks WHERE group_id = $1`,
		`DELETE FROM messages WHERE group_id = $1`,
		`DELETE FROM memberships WHERE group_id = $1`,
	}
	for _, stmt := range statements {
		if _, err := tx.ExecContext(ctx, stmt, groupID); err != nil {
			return fmt.Errorf("pgGroupRepository.DeleteGroupCascade: %w", err)
		}
	}

	res, err := tx.ExecContext(ctx, `DELETE FROM groups WHERE id = $1`, groupID)
	if err != nil {
		return fmt.Errorf("pgGroupRepository.DeleteGroupCascade group: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return common.ErrNotFound
	}
	return nil
}
