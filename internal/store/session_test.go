package store

import (
	"testing"
	"time"
)

func TestSessionCreateAndLookup(t *testing.T) {
	db := openTestDB(t)
	us := NewUserStore(db)
	ss := NewSessionStore(db)
	alice := createTestUser(t, us, "alice")

	sess, err := ss.Create(alice)
	if err != nil {
		t.Fatalf("create session: %v", err)
	}
	if len(sess.Token) != 64 {
		t.Errorf("token length = %d, want 64 hex chars", len(sess.Token))
	}
	if sess.UserID != alice {
		t.Errorf("user id = %d, want %d", sess.UserID, alice)
	}
	if !sess.ExpiresAt.After(time.Now()) {
		t.Error("session should not be born expired")
	}

	got, err := ss.GetByToken(sess.Token)
	if err != nil {
		t.Fatalf("get by token: %v", err)
	}
	if got == nil || got.ID != sess.ID {
		t.Errorf("lookup returned %v, want session %d", got, sess.ID)
	}
}

func TestSessionTokensUnique(t *testing.T) {
	db := openTestDB(t)
	us := NewUserStore(db)
	ss := NewSessionStore(db)
	alice := createTestUser(t, us, "alice")

	a, err := ss.Create(alice)
	if err != nil {
		t.Fatalf("create session: %v", err)
	}
	b, err := ss.Create(alice)
	if err != nil {
		t.Fatalf("create session: %v", err)
	}
	if a.Token == b.Token {
		t.Error("two sessions received the same token")
	}
}

func TestSessionUnknownToken(t *testing.T) {
	db := openTestDB(t)
	ss := NewSessionStore(db)

	got, err := ss.GetByToken("deadbeef")
	if err != nil {
		t.Fatalf("get by token: %v", err)
	}
	if got != nil {
		t.Error("unknown token should return nil")
	}
}

func TestSessionDelete(t *testing.T) {
	db := openTestDB(t)
	us := NewUserStore(db)
	ss := NewSessionStore(db)
	alice := createTestUser(t, us, "alice")

	sess, err := ss.Create(alice)
	if err != nil {
		t.Fatalf("create session: %v", err)
	}
	if err := ss.Delete(sess.ID); err != nil {
		t.Fatalf("delete session: %v", err)
	}
	got, err := ss.GetByToken(sess.Token)
	if err != nil {
		t.Fatalf("get by token: %v", err)
	}
	if got != nil {
		t.Error("deleted session still resolves")
	}
}

func TestSessionDeleteExpired(t *testing.T) {
	db := openTestDB(t)
	us := NewUserStore(db)
	ss := NewSessionStore(db)
	alice := createTestUser(t, us, "alice")

	live, err := ss.Create(alice)
	if err != nil {
		t.Fatalf("create session: %v", err)
	}
	stale, err := ss.Create(alice)
	if err != nil {
		t.Fatalf("create session: %v", err)
	}
	past := time.Now().UTC().Add(-time.Hour)
	if _, err := db.Exec(`UPDATE sessions SET expires_at = ? WHERE id = ?`, past, stale.ID); err != nil {
		t.Fatalf("backdate session: %v", err)
	}

	if got, _ := ss.GetByToken(stale.Token); got != nil {
		t.Error("expired session should not resolve")
	}

	n, err := ss.DeleteExpired()
	if err != nil {
		t.Fatalf("delete expired: %v", err)
	}
	if n != 1 {
		t.Errorf("deleted = %d, want 1", n)
	}
	if got, _ := ss.GetByToken(live.Token); got == nil {
		t.Error("live session was swept")
	}
}
