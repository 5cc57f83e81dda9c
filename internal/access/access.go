// Package access decides whether a user may touch a group-owned resource.
// Membership is resolved from the database on every check; revoking a
// membership takes effect on the next request.
package access

import (
	"database/sql"
	"errors"
	"fmt"
)

var (
	// ErrNotFound is returned when the resource id does not resolve.
	ErrNotFound = errors.New("resource not found")
	// ErrForbidden is returned when the resource exists but the user is not a
	// member of its owning group.
	ErrForbidden = errors.New("user is not a member of the owning group")
)

// Resource is one of the closed set of group-owned resource kinds. Each kind
// knows how to resolve the group that owns it.
type Resource interface {
	owningGroup(db *sql.DB) (int64, error)
}

// Group addresses a group by id. It owns itself.
type Group int64

// List addresses a grocery list by id; owned by the list's group.
type List int64

// Item addresses a grocery item by id; owned by the group of the item's list.
type Item int64

func (g Group) owningGroup(db *sql.DB) (int64, error) {
	var id int64
	err := db.QueryRow(`SELECT id FROM groups WHERE id = ?`, int64(g)).Scan(&id)
	if err == sql.ErrNoRows {
		return 0, ErrNotFound
	}
	if err != nil {
		return 0, fmt.Errorf("resolve group: %w", err)
	}
	return id, nil
}

func (l List) owningGroup(db *sql.DB) (int64, error) {
	var groupID int64
	err := db.QueryRow(`SELECT group_id FROM grocery_lists WHERE id = ?`, int64(l)).Scan(&groupID)
	if err == sql.ErrNoRows {
		return 0, ErrNotFound
	}
	if err != nil {
		return 0, fmt.Errorf("resolve list owner: %w", err)
	}
	return groupID, nil
}

func (i Item) owningGroup(db *sql.DB) (int64, error) {
	var groupID int64
	err := db.QueryRow(
		`SELECT gl.group_id FROM grocery_items gi
		 JOIN grocery_lists gl ON gl.id = gi.list_id
		 WHERE gi.id = ?`,
		int64(i),
	).Scan(&groupID)
	if err == sql.ErrNoRows {
		return 0, ErrNotFound
	}
	if err != nil {
		return 0, fmt.Errorf("resolve item owner: %w", err)
	}
	return groupID, nil
}

// Checker evaluates membership-based access over the shared database.
type Checker struct {
	db *sql.DB
}

func NewChecker(db *sql.DB) *Checker {
	return &Checker{db: db}
}

// Check returns nil if the user is currently a member of the resource's
// owning group, ErrNotFound if the resource id does not resolve, and
// ErrForbidden otherwise.
func (c *Checker) Check(userID int64, res Resource) error {
	groupID, err := res.owningGroup(c.db)
	if err != nil {
		return err
	}

	var n int
	err = c.db.QueryRow(
		`SELECT COUNT(*) FROM group_memberships WHERE group_id = ? AND user_id = ?`,
		groupID, userID,
	).Scan(&n)
	if err != nil {
		return fmt.Errorf("check membership: %w", err)
	}
	if n == 0 {
		return ErrForbidden
	}
	return nil
}

// OwningGroup resolves the id of the group owning the resource.
func (c *Checker) OwningGroup(res Resource) (int64, error) {
	return res.owningGroup(c.db)
}
