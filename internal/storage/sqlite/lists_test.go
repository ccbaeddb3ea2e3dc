package sqlite

import (
	"testing"

	"github.com/taskgraph-dev/tg/internal/apperr"
	"github.com/taskgraph-dev/tg/internal/storage"
	"github.com/taskgraph-dev/tg/internal/types"
)

func TestCreateAndGetList(t *testing.T) {
	e := newTestEnv(t)
	list := e.createList("sprint-1")
	if list.ID == 0 {
		t.Fatal("expected a non-zero list id")
	}
	if list.Status != types.ListStatusActive {
		t.Errorf("new list status = %v, want active", list.Status)
	}

	byID, err := e.store.GetListByID(e.ctx, list.ID)
	if err != nil {
		t.Fatalf("GetListByID: %v", err)
	}
	if byID == nil || byID.ListKey != "sprint-1" {
		t.Fatalf("GetListByID returned %#v", byID)
	}

	byKey, err := e.store.GetListByKey(e.ctx, "sprint-1")
	if err != nil {
		t.Fatalf("GetListByKey: %v", err)
	}
	if byKey == nil || byKey.ID != list.ID {
		t.Fatalf("GetListByKey returned %#v", byKey)
	}
}

func TestCreateListDuplicateKey(t *testing.T) {
	e := newTestEnv(t)
	e.createList("dup")
	_, err := e.store.CreateList(e.ctx, "dup", "Dup", types.ListTypeSequential, nil)
	if err == nil {
		t.Fatal("expected duplicate key error")
	}
	if apperr.KindOf(err) != apperr.DuplicateKey {
		t.Errorf("KindOf() = %v, want DuplicateKey", apperr.KindOf(err))
	}
}

func TestGetListByKeyMissing(t *testing.T) {
	e := newTestEnv(t)
	list, err := e.store.GetListByKey(e.ctx, "nope")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if list != nil {
		t.Fatalf("expected nil for missing list, got %#v", list)
	}
}

func TestListAllNaturalOrder(t *testing.T) {
	e := newTestEnv(t)
	e.createList("list10")
	e.createList("list2")
	e.createList("list1")

	all, err := e.store.ListAll(e.ctx, 0)
	if err != nil {
		t.Fatalf("ListAll: %v", err)
	}
	want := []string{"list1", "list2", "list10"}
	if len(all) != len(want) {
		t.Fatalf("ListAll returned %d lists, want %d", len(all), len(want))
	}
	for i, l := range all {
		if l.ListKey != want[i] {
			t.Errorf("ListAll()[%d] = %q, want %q", i, l.ListKey, want[i])
		}
	}
}

func TestUpdateList(t *testing.T) {
	e := newTestEnv(t)
	list := e.createList("archivable")
	newTitle := "Renamed"
	archived := types.ListStatusArchived

	updated, err := e.store.UpdateList(e.ctx, list.ID, storage.ListPatch{
		Title:  &newTitle,
		Status: &archived,
	})
	if err != nil {
		t.Fatalf("UpdateList: %v", err)
	}
	if updated.Title != newTitle || updated.Status != archived {
		t.Fatalf("UpdateList() = %#v, want title %q status %q", updated, newTitle, archived)
	}
}

func TestUpdateListNotFound(t *testing.T) {
	e := newTestEnv(t)
	_, err := e.store.UpdateList(e.ctx, 99999, storage.ListPatch{})
	if apperr.KindOf(err) != apperr.NotFound {
		t.Errorf("KindOf() = %v, want NotFound", apperr.KindOf(err))
	}
}

func TestDeleteList(t *testing.T) {
	e := newTestEnv(t)
	list := e.createList("gone")
	deleted, err := e.store.DeleteList(e.ctx, list.ID)
	if err != nil {
		t.Fatalf("DeleteList: %v", err)
	}
	if !deleted {
		t.Fatal("expected DeleteList to report true")
	}
	again, err := e.store.GetListByID(e.ctx, list.ID)
	if err != nil {
		t.Fatalf("GetListByID after delete: %v", err)
	}
	if again != nil {
		t.Fatal("expected list to be gone after delete")
	}
}
