package sqlite

import (
	"testing"

	"github.com/taskgraph-dev/tg/internal/types"
)

func TestSetAndGetItemProperty(t *testing.T) {
	e := newTestEnv(t)
	list := e.createList("props")
	item := e.addItem(list.ID, "a", nil)

	if _, err := e.store.SetItemProperty(e.ctx, item.ID, "priority", "high"); err != nil {
		t.Fatalf("SetItemProperty: %v", err)
	}
	prop, err := e.store.GetItemProperty(e.ctx, item.ID, "priority")
	if err != nil {
		t.Fatalf("GetItemProperty: %v", err)
	}
	if prop == nil || prop.PropertyValue != "high" {
		t.Fatalf("GetItemProperty = %#v, want value high", prop)
	}
}

func TestSetItemPropertyUpsertsOnConflict(t *testing.T) {
	e := newTestEnv(t)
	list := e.createList("upsert")
	item := e.addItem(list.ID, "a", nil)

	if _, err := e.store.SetItemProperty(e.ctx, item.ID, "priority", "low"); err != nil {
		t.Fatalf("SetItemProperty: %v", err)
	}
	if _, err := e.store.SetItemProperty(e.ctx, item.ID, "priority", "high"); err != nil {
		t.Fatalf("SetItemProperty (update): %v", err)
	}
	all, err := e.store.ListItemProperties(e.ctx, item.ID)
	if err != nil {
		t.Fatalf("ListItemProperties: %v", err)
	}
	if len(all) != 1 || all[0].PropertyValue != "high" {
		t.Fatalf("expected single upserted property, got %#v", all)
	}
}

func TestDeleteItemProperty(t *testing.T) {
	e := newTestEnv(t)
	list := e.createList("delprop")
	item := e.addItem(list.ID, "a", nil)
	if _, err := e.store.SetItemProperty(e.ctx, item.ID, "priority", "low"); err != nil {
		t.Fatalf("SetItemProperty: %v", err)
	}
	deleted, err := e.store.DeleteItemProperty(e.ctx, item.ID, "priority")
	if err != nil {
		t.Fatalf("DeleteItemProperty: %v", err)
	}
	if !deleted {
		t.Fatal("expected DeleteItemProperty to report true")
	}
}

func TestFindItemsByProperty(t *testing.T) {
	e := newTestEnv(t)
	list := e.createList("find")
	a := e.addItem(list.ID, "a", nil)
	e.addItem(list.ID, "b", nil)
	if _, err := e.store.SetItemProperty(e.ctx, a.ID, "owner", "alice"); err != nil {
		t.Fatalf("SetItemProperty: %v", err)
	}

	found, err := e.store.FindItemsByProperty(e.ctx, list.ID, "owner", "alice", 0)
	if err != nil {
		t.Fatalf("FindItemsByProperty: %v", err)
	}
	if len(found) != 1 || found[0].ID != a.ID {
		t.Fatalf("FindItemsByProperty = %#v, want only item a", found)
	}
}

func TestFindSubitemsByStatusRequiresAllConditions(t *testing.T) {
	e := newTestEnv(t)
	list := e.createList("subtasks")
	root1 := e.addItem(list.ID, "root1", nil)
	root2 := e.addItem(list.ID, "root2", nil)
	built := e.addItem(list.ID, "build", &root1.ID)
	tested := e.addItem(list.ID, "test", &root1.ID)
	e.addItem(list.ID, "build", &root2.ID)

	completed := types.StatusCompleted
	if _, err := e.store.UpdateItem(e.ctx, built.ID, itemPatchStatus(completed)); err != nil {
		t.Fatalf("UpdateItem: %v", err)
	}
	if _, err := e.store.UpdateItem(e.ctx, tested.ID, itemPatchStatus(completed)); err != nil {
		t.Fatalf("UpdateItem: %v", err)
	}

	groups, err := e.store.FindSubitemsByStatus(e.ctx, list.ID, map[string]types.ItemStatus{
		"build": types.StatusCompleted,
		"test":  types.StatusCompleted,
	}, 0)
	if err != nil {
		t.Fatalf("FindSubitemsByStatus: %v", err)
	}
	if len(groups) != 1 || groups[0].Parent.ID != root1.ID {
		t.Fatalf("FindSubitemsByStatus = %#v, want only root1 (root2 has no matching test subitem)", groups)
	}
}
