package store

import (
	"testing"

	"github.com/homecart/homecart/internal/model"
)

func ptr[T any](v T) *T { return &v }

func TestItemTogglePurchased(t *testing.T) {
	f := setupListTest(t)
	alice, g := f.seedGroup(t, "alice")
	list, _ := f.lists.GetOrCreateForGroup(g)

	item, err := f.items.Create(list.ID, "Milk", 2, model.CategoryDairy, "", alice)
	if err != nil {
		t.Fatalf("create item: %v", err)
	}
	if item.IsPurchased || item.PurchasedAt != nil || item.PurchasedBy != nil {
		t.Fatal("new item should start unpurchased with no stamps")
	}

	item, err = f.items.TogglePurchased(item.ID, alice)
	if err != nil {
		t.Fatalf("toggle: %v", err)
	}
	if !item.IsPurchased {
		t.Error("expected purchased after toggle")
	}
	if item.PurchasedAt == nil {
		t.Error("expected purchased_at stamp")
	}
	if item.PurchasedBy == nil || *item.PurchasedBy != alice {
		t.Errorf("purchased_by = %v, want %d", item.PurchasedBy, alice)
	}

	item, err = f.items.TogglePurchased(item.ID, alice)
	if err != nil {
		t.Fatalf("toggle back: %v", err)
	}
	if item.IsPurchased || item.PurchasedAt != nil || item.PurchasedBy != nil {
		t.Error("toggle back should clear purchase state and stamps")
	}
}

func TestItemSetPurchasedSameValueKeepsStamps(t *testing.T) {
	f := setupListTest(t)
	alice, g := f.seedGroup(t, "alice")
	bob := createTestUser(t, f.users, "bob")
	if _, err := f.group.AddMember(g.ID, bob); err != nil {
		t.Fatalf("add member: %v", err)
	}
	list, _ := f.lists.GetOrCreateForGroup(g)

	item, err := f.items.Create(list.ID, "Milk", 1, model.CategoryDairy, "", alice)
	if err != nil {
		t.Fatalf("create item: %v", err)
	}
	item, err = f.items.SetPurchased(item.ID, alice, true)
	if err != nil {
		t.Fatalf("set purchased: %v", err)
	}
	firstAt := *item.PurchasedAt
	firstBy := *item.PurchasedBy

	// A second user confirming the same state must not steal the stamp.
	item, err = f.items.SetPurchased(item.ID, bob, true)
	if err != nil {
		t.Fatalf("repeat set purchased: %v", err)
	}
	if !item.PurchasedAt.Equal(firstAt) {
		t.Errorf("purchased_at restamped: %v -> %v", firstAt, item.PurchasedAt)
	}
	if *item.PurchasedBy != firstBy {
		t.Errorf("purchased_by changed: %d -> %d", firstBy, *item.PurchasedBy)
	}
}

func TestItemUpdateSameValueKeepsStamps(t *testing.T) {
	f := setupListTest(t)
	alice, g := f.seedGroup(t, "alice")
	list, _ := f.lists.GetOrCreateForGroup(g)

	item, err := f.items.Create(list.ID, "Milk", 1, model.CategoryDairy, "", alice)
	if err != nil {
		t.Fatalf("create item: %v", err)
	}
	item, err = f.items.SetPurchased(item.ID, alice, true)
	if err != nil {
		t.Fatalf("set purchased: %v", err)
	}
	firstAt := *item.PurchasedAt

	item, err = f.items.Update(item.ID, alice, ItemChanges{
		Notes:       ptr("get the oat kind"),
		IsPurchased: ptr(true),
	})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if item.Notes != "get the oat kind" {
		t.Errorf("notes = %q", item.Notes)
	}
	if !item.PurchasedAt.Equal(firstAt) {
		t.Error("purchased_at restamped by an update that did not change the state")
	}

	item, err = f.items.Update(item.ID, alice, ItemChanges{IsPurchased: ptr(false)})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if item.IsPurchased || item.PurchasedAt != nil || item.PurchasedBy != nil {
		t.Error("moving to unpurchased should clear the stamps")
	}
}

func TestItemUpdatePartialFields(t *testing.T) {
	f := setupListTest(t)
	alice, g := f.seedGroup(t, "alice")
	list, _ := f.lists.GetOrCreateForGroup(g)

	item, err := f.items.Create(list.ID, "Milk", 1, model.CategoryDairy, "whole", alice)
	if err != nil {
		t.Fatalf("create item: %v", err)
	}

	item, err = f.items.Update(item.ID, alice, ItemChanges{
		Name:     ptr("Oat Milk"),
		Quantity: ptr(2.0),
	})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if item.Name != "Oat Milk" || item.Quantity != 2 {
		t.Errorf("got %q qty %v", item.Name, item.Quantity)
	}
	if item.Category != model.CategoryDairy || item.Notes != "whole" {
		t.Error("untouched fields changed")
	}
}

func TestItemListFilterComposition(t *testing.T) {
	f := setupListTest(t)
	alice, g := f.seedGroup(t, "alice")
	list, _ := f.lists.GetOrCreateForGroup(g)

	milk, _ := f.items.Create(list.ID, "Milk", 1, model.CategoryDairy, "", alice)
	f.items.Create(list.ID, "Almond Milk", 1, model.CategoryDairy, "", alice)
	f.items.Create(list.ID, "Bread", 1, model.CategoryBakery, "", alice)
	if _, err := f.items.SetPurchased(milk.ID, alice, true); err != nil {
		t.Fatalf("mark purchased: %v", err)
	}

	items, err := f.items.List(alice, ItemFilter{Category: ptr(model.CategoryDairy)})
	if err != nil {
		t.Fatalf("list by category: %v", err)
	}
	if len(items) != 2 {
		t.Errorf("dairy items = %d, want 2", len(items))
	}

	items, err = f.items.List(alice, ItemFilter{
		Category:  ptr(model.CategoryDairy),
		Purchased: ptr(false),
	})
	if err != nil {
		t.Fatalf("list by category+purchased: %v", err)
	}
	if len(items) != 1 || items[0].Name != "Almond Milk" {
		t.Errorf("items = %v, want [Almond Milk]", itemNames(items))
	}

	items, err = f.items.List(alice, ItemFilter{NameContains: "milk"})
	if err != nil {
		t.Fatalf("list by search: %v", err)
	}
	if len(items) != 2 {
		t.Errorf("search matches = %d, want 2", len(items))
	}

	items, err = f.items.List(alice, ItemFilter{ListID: ptr(list.ID), Purchased: ptr(true)})
	if err != nil {
		t.Fatalf("list by list+purchased: %v", err)
	}
	if len(items) != 1 || items[0].Name != "Milk" {
		t.Errorf("items = %v, want [Milk]", itemNames(items))
	}
}

func TestItemListDefaultOrdering(t *testing.T) {
	f := setupListTest(t)
	alice, g := f.seedGroup(t, "alice")
	list, _ := f.lists.GetOrCreateForGroup(g)

	first, _ := f.items.Create(list.ID, "First", 1, model.CategoryOther, "", alice)
	second, _ := f.items.Create(list.ID, "Second", 1, model.CategoryOther, "", alice)
	third, _ := f.items.Create(list.ID, "Third", 1, model.CategoryOther, "", alice)
	if _, err := f.items.SetPurchased(second.ID, alice, true); err != nil {
		t.Fatalf("mark purchased: %v", err)
	}

	items, err := f.items.List(alice, ItemFilter{})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	want := []int64{third.ID, first.ID, second.ID}
	if len(items) != 3 {
		t.Fatalf("item count = %d, want 3", len(items))
	}
	for i, id := range want {
		if items[i].ID != id {
			t.Errorf("position %d = %q, want id %d", i, items[i].Name, id)
		}
	}
}

func TestItemScopedLookup(t *testing.T) {
	f := setupListTest(t)
	alice, g := f.seedGroup(t, "alice")
	bob, _ := f.seedGroup(t, "bob")
	list, _ := f.lists.GetOrCreateForGroup(g)

	item, err := f.items.Create(list.ID, "Milk", 1, model.CategoryDairy, "", alice)
	if err != nil {
		t.Fatalf("create item: %v", err)
	}

	got, err := f.items.GetByIDForUser(item.ID, bob)
	if err != nil {
		t.Fatalf("scoped get: %v", err)
	}
	if got != nil {
		t.Error("non-member should not resolve the item")
	}

	items, err := f.items.List(bob, ItemFilter{})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(items) != 0 {
		t.Errorf("foreign items leaked: %v", itemNames(items))
	}
}

func TestItemBulkOpsScoped(t *testing.T) {
	f := setupListTest(t)
	alice, g := f.seedGroup(t, "alice")
	bob, bobGroup := f.seedGroup(t, "bob")
	aliceList, _ := f.lists.GetOrCreateForGroup(g)
	bobList, _ := f.lists.GetOrCreateForGroup(bobGroup)

	mine1, _ := f.items.Create(aliceList.ID, "Milk", 1, model.CategoryDairy, "", alice)
	mine2, _ := f.items.Create(aliceList.ID, "Bread", 1, model.CategoryBakery, "", alice)
	theirs, _ := f.items.Create(bobList.ID, "Eggs", 1, model.CategoryDairy, "", bob)

	// Inaccessible and unknown ids are silently excluded from the count.
	n, err := f.items.BulkMarkPurchased([]int64{mine1.ID, mine2.ID, theirs.ID, 9999}, alice)
	if err != nil {
		t.Fatalf("bulk mark: %v", err)
	}
	if n != 2 {
		t.Errorf("marked = %d, want 2", n)
	}

	foreign, err := f.items.GetByID(theirs.ID)
	if err != nil {
		t.Fatalf("get item: %v", err)
	}
	if foreign.IsPurchased {
		t.Error("foreign item was marked purchased")
	}
	marked, _ := f.items.GetByID(mine1.ID)
	if !marked.IsPurchased || marked.PurchasedBy == nil || *marked.PurchasedBy != alice {
		t.Error("accessible item not stamped for the acting user")
	}

	n, err = f.items.BulkDelete([]int64{mine1.ID, theirs.ID}, alice)
	if err != nil {
		t.Fatalf("bulk delete: %v", err)
	}
	if n != 1 {
		t.Errorf("deleted = %d, want 1", n)
	}
	if got, _ := f.items.GetByID(mine1.ID); got != nil {
		t.Error("accessible item survived bulk delete")
	}
	if got, _ := f.items.GetByID(theirs.ID); got == nil {
		t.Error("foreign item was deleted")
	}
}
