package store

import (
	"strings"
	"testing"
)

func TestUserCreateAndFetch(t *testing.T) {
	db := openTestDB(t)
	us := NewUserStore(db)

	u, err := us.Create("alice@example.com", "alice", "hash", "Alice", "Smith")
	if err != nil {
		t.Fatalf("create user: %v", err)
	}
	if u.ID == 0 {
		t.Error("expected non-zero ID")
	}
	if u.IsAdmin {
		t.Error("new users should not be admins")
	}

	byEmail, err := us.GetByEmail("alice@example.com")
	if err != nil {
		t.Fatalf("get by email: %v", err)
	}
	if byEmail == nil || byEmail.ID != u.ID {
		t.Errorf("get by email = %v, want user %d", byEmail, u.ID)
	}

	byUsername, err := us.GetByUsername("alice")
	if err != nil {
		t.Fatalf("get by username: %v", err)
	}
	if byUsername == nil || byUsername.ID != u.ID {
		t.Errorf("get by username = %v, want user %d", byUsername, u.ID)
	}
}

func TestUserNotFound(t *testing.T) {
	db := openTestDB(t)
	us := NewUserStore(db)

	if u, err := us.GetByID(42); err != nil || u != nil {
		t.Errorf("GetByID = (%v, %v), want (nil, nil)", u, err)
	}
	if u, err := us.GetByEmail("ghost@example.com"); err != nil || u != nil {
		t.Errorf("GetByEmail = (%v, %v), want (nil, nil)", u, err)
	}
}

func TestUserDuplicateEmail(t *testing.T) {
	db := openTestDB(t)
	us := NewUserStore(db)

	if _, err := us.Create("alice@example.com", "alice", "hash", "", ""); err != nil {
		t.Fatalf("create user: %v", err)
	}
	_, err := us.Create("alice@example.com", "alice2", "hash", "", "")
	if err == nil {
		t.Fatal("expected unique constraint error for duplicate email")
	}
	if !strings.Contains(err.Error(), "UNIQUE") && !strings.Contains(err.Error(), "unique") {
		t.Errorf("err = %v, want a unique constraint violation", err)
	}
}

func TestUserUpdate(t *testing.T) {
	db := openTestDB(t)
	us := NewUserStore(db)

	u, err := us.Create("alice@example.com", "alice", "hash", "Alice", "Smith")
	if err != nil {
		t.Fatalf("create user: %v", err)
	}

	updated, err := us.Update(u.ID, "Alicia", "Jones")
	if err != nil {
		t.Fatalf("update user: %v", err)
	}
	if updated.FirstName != "Alicia" || updated.LastName != "Jones" {
		t.Errorf("name = %q %q", updated.FirstName, updated.LastName)
	}
	if updated.Email != u.Email || updated.Username != u.Username {
		t.Error("identity fields changed on profile update")
	}
}

