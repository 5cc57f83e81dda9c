package store

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/homecart/homecart/internal/model"
)

type GroceryListStore struct {
	db *sql.DB
}

func NewGroceryListStore(db *sql.DB) *GroceryListStore {
	return &GroceryListStore{db: db}
}

func scanList(scanner interface{ Scan(...any) error }) (*model.GroceryList, error) {
	var l model.GroceryList
	err := scanner.Scan(&l.ID, &l.GroupID, &l.Name, &l.CreatedAt, &l.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &l, nil
}

const listCols = `id, group_id, name, created_at, updated_at`

// Scope restricting list rows to groups the user belongs to.
const listScope = `group_id IN (SELECT group_id FROM group_memberships WHERE user_id = ?)`

// GetOrCreateForGroup returns the group's list, creating it with a default
// name derived from the group's name on first access. Idempotent: a second
// call returns the same row unchanged.
func (s *GroceryListStore) GetOrCreateForGroup(group *model.Group) (*model.GroceryList, error) {
	existing, err := s.GetByGroupID(group.ID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return existing, nil
	}

	result, err := s.db.Exec(
		`INSERT INTO grocery_lists (group_id, name) VALUES (?, ?)`,
		group.ID, fmt.Sprintf("%s's Grocery List", group.Name),
	)
	if err != nil {
		return nil, fmt.Errorf("insert list: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("last insert id: %w", err)
	}
	return s.GetByID(id)
}

func (s *GroceryListStore) GetByID(id int64) (*model.GroceryList, error) {
	row := s.db.QueryRow(`SELECT `+listCols+` FROM grocery_lists WHERE id = ?`, id)
	l, err := scanList(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get list: %w", err)
	}
	return l, nil
}

func (s *GroceryListStore) GetByGroupID(groupID int64) (*model.GroceryList, error) {
	row := s.db.QueryRow(`SELECT `+listCols+` FROM grocery_lists WHERE group_id = ?`, groupID)
	l, err := scanList(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get list by group: %w", err)
	}
	return l, nil
}

// GetByIDForUser returns the list only if the user is a member of its group.
func (s *GroceryListStore) GetByIDForUser(id, userID int64) (*model.GroceryList, error) {
	row := s.db.QueryRow(
		`SELECT `+listCols+` FROM grocery_lists WHERE id = ? AND `+listScope,
		id, userID,
	)
	l, err := scanList(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get list for user: %w", err)
	}
	return l, nil
}

// ListForUser returns the lists of all groups the user belongs to, most
// recently updated first.
func (s *GroceryListStore) ListForUser(userID int64) ([]model.GroceryList, error) {
	rows, err := s.db.Query(
		`SELECT `+listCols+` FROM grocery_lists WHERE `+listScope+` ORDER BY updated_at DESC, id DESC`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("list lists for user: %w", err)
	}
	defer rows.Close()

	var lists []model.GroceryList
	for rows.Next() {
		l, err := scanList(rows)
		if err != nil {
			return nil, fmt.Errorf("scan list: %w", err)
		}
		lists = append(lists, *l)
	}
	return lists, rows.Err()
}

func (s *GroceryListStore) Rename(id int64, name string) (*model.GroceryList, error) {
	_, err := s.db.Exec(
		`UPDATE grocery_lists SET name = ?, updated_at = ? WHERE id = ?`,
		name, time.Now().UTC(), id,
	)
	if err != nil {
		return nil, fmt.Errorf("rename list: %w", err)
	}
	return s.GetByID(id)
}

// Delete removes a list and its items in one transaction.
func (s *GroceryListStore) Delete(id int64) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM grocery_items WHERE list_id = ?`, id); err != nil {
		return fmt.Errorf("delete list items: %w", err)
	}
	if _, err := tx.Exec(`DELETE FROM grocery_lists WHERE id = ?`, id); err != nil {
		return fmt.Errorf("delete list: %w", err)
	}

	return tx.Commit()
}

// ListActiveItems returns the list's unpurchased items, newest created first.
func (s *GroceryListStore) ListActiveItems(listID int64) ([]model.GroceryItem, error) {
	return s.queryItems(
		`SELECT `+itemCols+` FROM grocery_items WHERE list_id = ? AND is_purchased = 0 ORDER BY created_at DESC, id DESC`,
		listID,
	)
}

// ListPurchasedItems returns the list's purchased items, most recently
// purchased first.
func (s *GroceryListStore) ListPurchasedItems(listID int64) ([]model.GroceryItem, error) {
	return s.queryItems(
		`SELECT `+itemCols+` FROM grocery_items WHERE list_id = ? AND is_purchased = 1 ORDER BY purchased_at DESC, id DESC`,
		listID,
	)
}

func (s *GroceryListStore) queryItems(query string, args ...any) ([]model.GroceryItem, error) {
	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("query items: %w", err)
	}
	defer rows.Close()

	var items []model.GroceryItem
	for rows.Next() {
		item, err := scanItem(rows)
		if err != nil {
			return nil, fmt.Errorf("scan item: %w", err)
		}
		items = append(items, *item)
	}
	return items, rows.Err()
}

// CountActive counts the list's unpurchased items. Evaluated fresh per call.
func (s *GroceryListStore) CountActive(listID int64) (int, error) {
	return s.countItems(listID, 0)
}

// CountPurchased counts the list's purchased items.
func (s *GroceryListStore) CountPurchased(listID int64) (int, error) {
	return s.countItems(listID, 1)
}

func (s *GroceryListStore) countItems(listID int64, purchased int) (int, error) {
	var count int
	err := s.db.QueryRow(
		`SELECT COUNT(*) FROM grocery_items WHERE list_id = ? AND is_purchased = ?`,
		listID, purchased,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count items: %w", err)
	}
	return count, nil
}

// ClearPurchased deletes all purchased items in one statement and returns the
// number deleted. Zero purchased items is success with count 0.
func (s *GroceryListStore) ClearPurchased(listID int64) (int64, error) {
	result, err := s.db.Exec(
		`DELETE FROM grocery_items WHERE list_id = ? AND is_purchased = 1`,
		listID,
	)
	if err != nil {
		return 0, fmt.Errorf("clear purchased: %w", err)
	}
	count, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("rows affected: %w", err)
	}
	return count, nil
}
