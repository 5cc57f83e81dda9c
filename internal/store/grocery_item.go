package store

import (
	"database/sql"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"

	"github.com/homecart/homecart/internal/model"
)

type GroceryItemStore struct {
	db *sql.DB
}

func NewGroceryItemStore(db *sql.DB) *GroceryItemStore {
	return &GroceryItemStore{db: db}
}

func scanItem(scanner interface{ Scan(...any) error }) (*model.GroceryItem, error) {
	var item model.GroceryItem
	var purchased int
	var purchasedBy, addedBy sql.NullInt64
	var purchasedAt sql.NullTime

	err := scanner.Scan(
		&item.ID, &item.ListID, &item.Name, &item.Quantity, &item.Category,
		&item.Notes, &purchased, &purchasedAt, &purchasedBy, &addedBy,
		&item.CreatedAt, &item.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	item.IsPurchased = purchased != 0
	if purchasedAt.Valid {
		item.PurchasedAt = &purchasedAt.Time
	}
	if purchasedBy.Valid {
		item.PurchasedBy = &purchasedBy.Int64
	}
	if addedBy.Valid {
		item.AddedBy = &addedBy.Int64
	}
	return &item, nil
}

const itemCols = `id, list_id, name, quantity, category, notes, is_purchased, purchased_at, purchased_by, added_by, created_at, updated_at`

// Scope restricting item rows to lists owned by groups the user belongs to.
const itemScope = `list_id IN (
	SELECT gl.id FROM grocery_lists gl
	JOIN group_memberships gm ON gm.group_id = gl.group_id
	WHERE gm.user_id = ?)`

// ItemFilter holds the optional, composable listing criteria. Nil fields are
// not applied. The filter is translated into a single bounded query.
type ItemFilter struct {
	ListID       *int64
	Category     *string
	Purchased    *bool
	NameContains string
}

// ItemChanges holds a partial field edit. Nil fields are left untouched.
type ItemChanges struct {
	Name        *string
	Quantity    *float64
	Category    *string
	Notes       *string
	IsPurchased *bool
}

func (s *GroceryItemStore) Create(listID int64, name string, quantity float64, category, notes string, addedBy int64) (*model.GroceryItem, error) {
	result, err := s.db.Exec(
		`INSERT INTO grocery_items (list_id, name, quantity, category, notes, added_by) VALUES (?, ?, ?, ?, ?, ?)`,
		listID, name, quantity, category, notes, addedBy,
	)
	if err != nil {
		return nil, fmt.Errorf("insert item: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("last insert id: %w", err)
	}
	return s.GetByID(id)
}

func (s *GroceryItemStore) GetByID(id int64) (*model.GroceryItem, error) {
	row := s.db.QueryRow(`SELECT `+itemCols+` FROM grocery_items WHERE id = ?`, id)
	item, err := scanItem(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get item: %w", err)
	}
	return item, nil
}

// GetByIDForUser returns the item only if the user is a member of the group
// owning the item's list.
func (s *GroceryItemStore) GetByIDForUser(id, userID int64) (*model.GroceryItem, error) {
	row := s.db.QueryRow(
		`SELECT `+itemCols+` FROM grocery_items WHERE id = ? AND `+itemScope,
		id, userID,
	)
	item, err := scanItem(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get item for user: %w", err)
	}
	return item, nil
}

// List returns the user's accessible items matching the filter. Default
// ordering: unpurchased items first, newest created first within each half.
func (s *GroceryItemStore) List(userID int64, filter ItemFilter) ([]model.GroceryItem, error) {
	q := sq.Select(itemCols).
		From("grocery_items").
		Where(sq.Expr(itemScope, userID)).
		OrderBy("is_purchased ASC", "created_at DESC", "id DESC")

	if filter.ListID != nil {
		q = q.Where(sq.Eq{"list_id": *filter.ListID})
	}
	if filter.Category != nil {
		q = q.Where(sq.Eq{"category": *filter.Category})
	}
	if filter.Purchased != nil {
		q = q.Where(sq.Eq{"is_purchased": boolToInt(*filter.Purchased)})
	}
	if filter.NameContains != "" {
		// SQLite LIKE is case-insensitive for ASCII.
		q = q.Where(sq.Like{"name": "%" + filter.NameContains + "%"})
	}

	query, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build item query: %w", err)
	}

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("list items: %w", err)
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

// Update applies a partial field edit. If IsPurchased is included and differs
// from the current value, moving to true stamps purchased_at/purchased_by with
// now and the acting user, and moving to false clears both. Re-sending the
// current value leaves the purchase fields untouched.
func (s *GroceryItemStore) Update(id, actingUser int64, changes ItemChanges) (*model.GroceryItem, error) {
	current, err := s.GetByID(id)
	if err != nil {
		return nil, err
	}
	if current == nil {
		return nil, nil
	}

	q := sq.Update("grocery_items").
		Set("updated_at", time.Now().UTC()).
		Where(sq.Eq{"id": id})

	if changes.Name != nil {
		q = q.Set("name", *changes.Name)
	}
	if changes.Quantity != nil {
		q = q.Set("quantity", *changes.Quantity)
	}
	if changes.Category != nil {
		q = q.Set("category", *changes.Category)
	}
	if changes.Notes != nil {
		q = q.Set("notes", *changes.Notes)
	}
	if changes.IsPurchased != nil && *changes.IsPurchased != current.IsPurchased {
		if *changes.IsPurchased {
			q = q.Set("is_purchased", 1).
				Set("purchased_at", time.Now().UTC()).
				Set("purchased_by", actingUser)
		} else {
			q = q.Set("is_purchased", 0).
				Set("purchased_at", nil).
				Set("purchased_by", nil)
		}
	}

	query, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build item update: %w", err)
	}
	if _, err := s.db.Exec(query, args...); err != nil {
		return nil, fmt.Errorf("update item: %w", err)
	}
	return s.GetByID(id)
}

// TogglePurchased flips the purchase state, stamping or clearing the purchase
// fields accordingly.
func (s *GroceryItemStore) TogglePurchased(id, actingUser int64) (*model.GroceryItem, error) {
	item, err := s.GetByID(id)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, nil
	}
	return s.setPurchased(id, actingUser, !item.IsPurchased)
}

// SetPurchased sets the purchase state to an explicit value. Setting the
// current value again is a no-op so the existing stamps are preserved.
func (s *GroceryItemStore) SetPurchased(id, actingUser int64, purchased bool) (*model.GroceryItem, error) {
	item, err := s.GetByID(id)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, nil
	}
	if item.IsPurchased == purchased {
		return item, nil
	}
	return s.setPurchased(id, actingUser, purchased)
}

func (s *GroceryItemStore) setPurchased(id, actingUser int64, purchased bool) (*model.GroceryItem, error) {
	var err error
	if purchased {
		_, err = s.db.Exec(
			`UPDATE grocery_items SET is_purchased = 1, purchased_at = ?, purchased_by = ?, updated_at = ? WHERE id = ?`,
			time.Now().UTC(), actingUser, time.Now().UTC(), id,
		)
	} else {
		_, err = s.db.Exec(
			`UPDATE grocery_items SET is_purchased = 0, purchased_at = NULL, purchased_by = NULL, updated_at = ? WHERE id = ?`,
			time.Now().UTC(), id,
		)
	}
	if err != nil {
		return nil, fmt.Errorf("set purchased: %w", err)
	}
	return s.GetByID(id)
}

func (s *GroceryItemStore) Delete(id int64) error {
	_, err := s.db.Exec(`DELETE FROM grocery_items WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete item: %w", err)
	}
	return nil
}

// BulkMarkPurchased marks all given items purchased in one statement,
// restricted to items the user can access. Ids outside the accessible set are
// silently excluded. Returns the number of rows updated.
func (s *GroceryItemStore) BulkMarkPurchased(ids []int64, actingUser int64) (int64, error) {
	now := time.Now().UTC()
	q := sq.Update("grocery_items").
		Set("is_purchased", 1).
		Set("purchased_at", now).
		Set("purchased_by", actingUser).
		Set("updated_at", now).
		Where(sq.Eq{"id": ids}).
		Where(sq.Expr(itemScope, actingUser))

	query, args, err := q.ToSql()
	if err != nil {
		return 0, fmt.Errorf("build bulk mark: %w", err)
	}
	result, err := s.db.Exec(query, args...)
	if err != nil {
		return 0, fmt.Errorf("bulk mark purchased: %w", err)
	}
	count, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("rows affected: %w", err)
	}
	return count, nil
}

// BulkDelete deletes all given items in one statement, restricted to items
// the user can access. Returns the number of rows deleted.
func (s *GroceryItemStore) BulkDelete(ids []int64, actingUser int64) (int64, error) {
	q := sq.Delete("grocery_items").
		Where(sq.Eq{"id": ids}).
		Where(sq.Expr(itemScope, actingUser))

	query, args, err := q.ToSql()
	if err != nil {
		return 0, fmt.Errorf("build bulk delete: %w", err)
	}
	result, err := s.db.Exec(query, args...)
	if err != nil {
		return 0, fmt.Errorf("bulk delete: %w", err)
	}
	count, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("rows affected: %w", err)
	}
	return count, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
