package store

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/homecart/homecart/internal/model"
)

var (
	// ErrAlreadyMember is returned when adding a (user, group) pair that exists.
	ErrAlreadyMember = errors.New("user is already a member of this group")
	// ErrNotAMember is returned when removing a (user, group) pair that does not exist.
	ErrNotAMember = errors.New("user is not a member of this group")
)

type GroupStore struct {
	db *sql.DB
}

func NewGroupStore(db *sql.DB) *GroupStore {
	return &GroupStore{db: db}
}

func scanGroup(scanner interface{ Scan(...any) error }) (*model.Group, error) {
	var g model.Group
	var createdBy sql.NullInt64
	err := scanner.Scan(&g.ID, &g.Name, &g.Description, &createdBy, &g.CreatedAt, &g.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if createdBy.Valid {
		g.CreatedBy = &createdBy.Int64
	}
	return &g, nil
}

func scanMembership(scanner interface{ Scan(...any) error }) (*model.GroupMembership, error) {
	var m model.GroupMembership
	err := scanner.Scan(&m.ID, &m.GroupID, &m.UserID, &m.JoinedAt)
	if err != nil {
		return nil, err
	}
	return &m, nil
}

const groupCols = `id, name, description, created_by, created_at, updated_at`
const membershipCols = `id, group_id, user_id, joined_at`

// Create inserts a group and enrolls the creator as its first member.
// Both rows are written in one transaction so the group is never visible
// without its creator membership.
func (s *GroupStore) Create(name, description string, createdBy int64) (*model.Group, error) {
	tx, err := s.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	result, err := tx.Exec(
		`INSERT INTO groups (name, description, created_by) VALUES (?, ?, ?)`,
		name, description, createdBy,
	)
	if err != nil {
		return nil, fmt.Errorf("insert group: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("last insert id: %w", err)
	}

	if _, err := tx.Exec(
		`INSERT INTO group_memberships (group_id, user_id) VALUES (?, ?)`,
		id, createdBy,
	); err != nil {
		return nil, fmt.Errorf("enroll creator: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit: %w", err)
	}
	return s.GetByID(id)
}

func (s *GroupStore) GetByID(id int64) (*model.Group, error) {
	row := s.db.QueryRow(`SELECT `+groupCols+` FROM groups WHERE id = ?`, id)
	g, err := scanGroup(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get group: %w", err)
	}
	return g, nil
}

// GetByIDForUser returns the group only if the user is currently a member.
func (s *GroupStore) GetByIDForUser(id, userID int64) (*model.Group, error) {
	row := s.db.QueryRow(
		`SELECT g.id, g.name, g.description, g.created_by, g.created_at, g.updated_at
		 FROM groups g
		 JOIN group_memberships gm ON gm.group_id = g.id
		 WHERE g.id = ? AND gm.user_id = ?`,
		id, userID,
	)
	g, err := scanGroup(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get group for user: %w", err)
	}
	return g, nil
}

func (s *GroupStore) Update(id int64, name, description string) (*model.Group, error) {
	_, err := s.db.Exec(
		`UPDATE groups SET name = ?, description = ?, updated_at = ? WHERE id = ?`,
		name, description, time.Now().UTC(), id,
	)
	if err != nil {
		return nil, fmt.Errorf("update group: %w", err)
	}
	return s.GetByID(id)
}

// Delete removes a group along with its memberships, list, and items.
// Dependents are deleted explicitly in dependency order inside one
// transaction; the schema's ON DELETE CASCADE rules are a second net.
func (s *GroupStore) Delete(id int64) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(
		`DELETE FROM grocery_items WHERE list_id IN (SELECT id FROM grocery_lists WHERE group_id = ?)`,
		id,
	); err != nil {
		return fmt.Errorf("delete group items: %w", err)
	}
	if _, err := tx.Exec(`DELETE FROM grocery_lists WHERE group_id = ?`, id); err != nil {
		return fmt.Errorf("delete group list: %w", err)
	}
	if _, err := tx.Exec(`DELETE FROM group_memberships WHERE group_id = ?`, id); err != nil {
		return fmt.Errorf("delete group memberships: %w", err)
	}
	if _, err := tx.Exec(`DELETE FROM groups WHERE id = ?`, id); err != nil {
		return fmt.Errorf("delete group: %w", err)
	}

	return tx.Commit()
}

// AddMember enrolls a user in a group. Returns ErrAlreadyMember if the
// (user, group) pair already exists.
func (s *GroupStore) AddMember(groupID, userID int64) (*model.GroupMembership, error) {
	existing, err := s.GetMember(groupID, userID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrAlreadyMember
	}

	result, err := s.db.Exec(
		`INSERT INTO group_memberships (group_id, user_id) VALUES (?, ?)`,
		groupID, userID,
	)
	if err != nil {
		return nil, fmt.Errorf("add member: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("last insert id: %w", err)
	}
	row := s.db.QueryRow(`SELECT `+membershipCols+` FROM group_memberships WHERE id = ?`, id)
	return scanMembership(row)
}

// RemoveMember deletes a membership. Returns ErrNotAMember if none exists.
func (s *GroupStore) RemoveMember(groupID, userID int64) error {
	result, err := s.db.Exec(
		`DELETE FROM group_memberships WHERE group_id = ? AND user_id = ?`,
		groupID, userID,
	)
	if err != nil {
		return fmt.Errorf("remove member: %w", err)
	}
	count, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if count == 0 {
		return ErrNotAMember
	}
	return nil
}

func (s *GroupStore) GetMember(groupID, userID int64) (*model.GroupMembership, error) {
	row := s.db.QueryRow(
		`SELECT `+membershipCols+` FROM group_memberships WHERE group_id = ? AND user_id = ?`,
		groupID, userID,
	)
	m, err := scanMembership(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get member: %w", err)
	}
	return m, nil
}

// IsMember reports whether the user currently has a membership in the group.
func (s *GroupStore) IsMember(groupID, userID int64) (bool, error) {
	var n int
	err := s.db.QueryRow(
		`SELECT COUNT(*) FROM group_memberships WHERE group_id = ? AND user_id = ?`,
		groupID, userID,
	).Scan(&n)
	if err != nil {
		return false, fmt.Errorf("is member: %w", err)
	}
	return n > 0, nil
}

// ListMembers returns a group's memberships, newest joined first.
func (s *GroupStore) ListMembers(groupID int64) ([]model.GroupMembership, error) {
	rows, err := s.db.Query(
		`SELECT `+membershipCols+` FROM group_memberships WHERE group_id = ? ORDER BY joined_at DESC, id DESC`,
		groupID,
	)
	if err != nil {
		return nil, fmt.Errorf("list members: %w", err)
	}
	defer rows.Close()

	var members []model.GroupMembership
	for rows.Next() {
		m, err := scanMembership(rows)
		if err != nil {
			return nil, fmt.Errorf("scan membership: %w", err)
		}
		members = append(members, *m)
	}
	return members, rows.Err()
}

// ListGroupsForUser returns the groups the user belongs to, newest first.
func (s *GroupStore) ListGroupsForUser(userID int64) ([]model.Group, error) {
	rows, err := s.db.Query(
		`SELECT g.id, g.name, g.description, g.created_by, g.created_at, g.updated_at
		 FROM groups g
		 JOIN group_memberships gm ON gm.group_id = g.id
		 WHERE gm.user_id = ?
		 ORDER BY g.created_at DESC, g.id DESC`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("list groups for user: %w", err)
	}
	defer rows.Close()

	var groups []model.Group
	for rows.Next() {
		g, err := scanGroup(rows)
		if err != nil {
			return nil, fmt.Errorf("scan group: %w", err)
		}
		groups = append(groups, *g)
	}
	return groups, rows.Err()
}
