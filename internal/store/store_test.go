package store

import (
	"database/sql"
	"fmt"
	"testing"

	"github.com/homecart/homecart/internal/database"
)

func openTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := database.Open(":memory:")
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		t.Fatalf("enable foreign keys: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

var testUserSeq int

// createTestUser inserts a user with unique email/username.
func createTestUser(t *testing.T, us *UserStore, name string) int64 {
	t.Helper()
	testUserSeq++
	u, err := us.Create(
		fmt.Sprintf("%s%d@example.com", name, testUserSeq),
		fmt.Sprintf("%s%d", name, testUserSeq),
		"not-a-real-hash", name, "",
	)
	if err != nil {
		t.Fatalf("create user %s: %v", name, err)
	}
	return u.ID
}
