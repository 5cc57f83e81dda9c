package store

import (
	"errors"
	"testing"
)

func setupGroupTest(t *testing.T) (*GroupStore, *UserStore) {
	t.Helper()
	db := openTestDB(t)
	return NewGroupStore(db), NewUserStore(db)
}

func TestGroupCreateEnrollsCreator(t *testing.T) {
	gs, us := setupGroupTest(t)
	alice := createTestUser(t, us, "alice")

	g, err := gs.Create("Smith Family", "the smiths", alice)
	if err != nil {
		t.Fatalf("create group: %v", err)
	}
	if g.ID == 0 {
		t.Error("expected non-zero ID")
	}
	if g.CreatedBy == nil || *g.CreatedBy != alice {
		t.Errorf("created_by = %v, want %d", g.CreatedBy, alice)
	}

	members, err := gs.ListMembers(g.ID)
	if err != nil {
		t.Fatalf("list members: %v", err)
	}
	if len(members) != 1 {
		t.Fatalf("member count = %d, want 1", len(members))
	}
	if members[0].UserID != alice {
		t.Errorf("member user = %d, want %d", members[0].UserID, alice)
	}
}

func TestGroupAddMemberDuplicate(t *testing.T) {
	gs, us := setupGroupTest(t)
	alice := createTestUser(t, us, "alice")
	bob := createTestUser(t, us, "bob")

	g, err := gs.Create("Smith Family", "", alice)
	if err != nil {
		t.Fatalf("create group: %v", err)
	}

	if _, err := gs.AddMember(g.ID, bob); err != nil {
		t.Fatalf("add member: %v", err)
	}
	if _, err := gs.AddMember(g.ID, bob); !errors.Is(err, ErrAlreadyMember) {
		t.Errorf("second add err = %v, want ErrAlreadyMember", err)
	}
	// The creator was auto-enrolled, so adding them is also a duplicate.
	if _, err := gs.AddMember(g.ID, alice); !errors.Is(err, ErrAlreadyMember) {
		t.Errorf("add creator err = %v, want ErrAlreadyMember", err)
	}
}

func TestGroupRemoveMemberNotAMember(t *testing.T) {
	gs, us := setupGroupTest(t)
	alice := createTestUser(t, us, "alice")
	bob := createTestUser(t, us, "bob")

	g, err := gs.Create("Smith Family", "", alice)
	if err != nil {
		t.Fatalf("create group: %v", err)
	}

	if err := gs.RemoveMember(g.ID, bob); !errors.Is(err, ErrNotAMember) {
		t.Errorf("remove err = %v, want ErrNotAMember", err)
	}
}

func TestGroupRemoveMember(t *testing.T) {
	gs, us := setupGroupTest(t)
	alice := createTestUser(t, us, "alice")
	bob := createTestUser(t, us, "bob")

	g, err := gs.Create("Smith Family", "", alice)
	if err != nil {
		t.Fatalf("create group: %v", err)
	}
	if _, err := gs.AddMember(g.ID, bob); err != nil {
		t.Fatalf("add member: %v", err)
	}

	if err := gs.RemoveMember(g.ID, bob); err != nil {
		t.Fatalf("remove member: %v", err)
	}

	m, err := gs.GetMember(g.ID, bob)
	if err != nil {
		t.Fatalf("get member: %v", err)
	}
	if m != nil {
		t.Error("expected nil membership after removal")
	}

	// Removing the last member does not delete the group.
	if err := gs.RemoveMember(g.ID, alice); err != nil {
		t.Fatalf("remove creator: %v", err)
	}
	group, err := gs.GetByID(g.ID)
	if err != nil {
		t.Fatalf("get group: %v", err)
	}
	if group == nil {
		t.Error("group should survive losing its last member")
	}
}

func TestGroupScopedLookup(t *testing.T) {
	gs, us := setupGroupTest(t)
	alice := createTestUser(t, us, "alice")
	bob := createTestUser(t, us, "bob")

	g, err := gs.Create("Smith Family", "", alice)
	if err != nil {
		t.Fatalf("create group: %v", err)
	}

	got, err := gs.GetByIDForUser(g.ID, alice)
	if err != nil {
		t.Fatalf("scoped get: %v", err)
	}
	if got == nil {
		t.Fatal("member should resolve the group")
	}

	got, err = gs.GetByIDForUser(g.ID, bob)
	if err != nil {
		t.Fatalf("scoped get: %v", err)
	}
	if got != nil {
		t.Error("non-member should not resolve the group")
	}
}

func TestGroupListGroupsForUser(t *testing.T) {
	gs, us := setupGroupTest(t)
	alice := createTestUser(t, us, "alice")
	bob := createTestUser(t, us, "bob")

	g1, _ := gs.Create("First", "", alice)
	g2, _ := gs.Create("Second", "", alice)
	gs.Create("Bob Only", "", bob)

	groups, err := gs.ListGroupsForUser(alice)
	if err != nil {
		t.Fatalf("list groups: %v", err)
	}
	if len(groups) != 2 {
		t.Fatalf("group count = %d, want 2", len(groups))
	}
	// Newest first.
	if groups[0].ID != g2.ID || groups[1].ID != g1.ID {
		t.Errorf("order = [%d, %d], want [%d, %d]", groups[0].ID, groups[1].ID, g2.ID, g1.ID)
	}

	none, err := gs.ListGroupsForUser(9999)
	if err != nil {
		t.Fatalf("list groups: %v", err)
	}
	if len(none) != 0 {
		t.Errorf("expected empty result for unknown user, got %d", len(none))
	}
}

func TestGroupDeleteCascades(t *testing.T) {
	db := openTestDB(t)
	gs := NewGroupStore(db)
	us := NewUserStore(db)
	ls := NewGroceryListStore(db)
	is := NewGroceryItemStore(db)

	alice := createTestUser(t, us, "alice")
	g, err := gs.Create("Smith Family", "", alice)
	if err != nil {
		t.Fatalf("create group: %v", err)
	}
	list, err := ls.GetOrCreateForGroup(g)
	if err != nil {
		t.Fatalf("create list: %v", err)
	}
	item, err := is.Create(list.ID, "Milk", 1, "dairy", "", alice)
	if err != nil {
		t.Fatalf("create item: %v", err)
	}

	if err := gs.Delete(g.ID); err != nil {
		t.Fatalf("delete group: %v", err)
	}

	if got, _ := gs.GetByID(g.ID); got != nil {
		t.Error("group still exists after delete")
	}
	if got, _ := ls.GetByID(list.ID); got != nil {
		t.Error("list still exists after group delete")
	}
	if got, _ := is.GetByID(item.ID); got != nil {
		t.Error("item still exists after group delete")
	}
	if members, _ := gs.ListMembers(g.ID); len(members) != 0 {
		t.Error("memberships still exist after group delete")
	}
}
