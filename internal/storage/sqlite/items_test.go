package sqlite

import (
	"testing"

	"github.com/taskgraph-dev/tg/internal/types"
)

func TestGetListItemsDFSGrouping(t *testing.T) {
	e := newTestEnv(t)
	list := e.createList("dfs")
	root2 := e.addItem(list.ID, "root2", nil)
	root1 := e.addItem(list.ID, "root1", nil)
	e.addItem(list.ID, "child-b", &root1.ID)
	e.addItem(list.ID, "child-a", &root1.ID)
	_ = root2

	items, err := e.store.GetListItems(e.ctx, list.ID, nil, 0)
	if err != nil {
		t.Fatalf("GetListItems: %v", err)
	}
	var keys []string
	for _, it := range items {
		keys = append(keys, it.ItemKey)
	}
	want := []string{"root1", "child-a", "child-b", "root2"}
	if len(keys) != len(want) {
		t.Fatalf("got %v, want %v", keys, want)
	}
	for i := range want {
		if keys[i] != want[i] {
			t.Fatalf("got %v, want %v", keys, want)
		}
	}
}

func TestGetListItemsStatusFilter(t *testing.T) {
	e := newTestEnv(t)
	list := e.createList("filtered")
	a := e.addItem(list.ID, "a", nil)
	e.addItem(list.ID, "b", nil)

	completed := types.StatusCompleted
	if _, err := e.store.UpdateItem(e.ctx, a.ID, itemPatchStatus(completed)); err != nil {
		t.Fatalf("UpdateItem: %v", err)
	}

	items, err := e.store.GetListItems(e.ctx, list.ID, &completed, 0)
	if err != nil {
		t.Fatalf("GetListItems: %v", err)
	}
	if len(items) != 1 || items[0].ItemKey != "a" {
		t.Fatalf("expected only item a, got %#v", items)
	}
}

func TestGetNextPositionIncrements(t *testing.T) {
	e := newTestEnv(t)
	list := e.createList("positions")
	pos1, err := e.store.GetNextPosition(e.ctx, list.ID, nil)
	if err != nil {
		t.Fatalf("GetNextPosition: %v", err)
	}
	e.addItem(list.ID, "first", nil)
	pos2, err := e.store.GetNextPosition(e.ctx, list.ID, nil)
	if err != nil {
		t.Fatalf("GetNextPosition: %v", err)
	}
	if pos2 != pos1+1 {
		t.Errorf("GetNextPosition after one insert = %d, want %d", pos2, pos1+1)
	}
}

func TestGetItemDepthAndPath(t *testing.T) {
	e := newTestEnv(t)
	list := e.createList("deep")
	root := e.addItem(list.ID, "root", nil)
	mid := e.addItem(list.ID, "mid", &root.ID)
	leaf := e.addItem(list.ID, "leaf", &mid.ID)

	depth, err := e.store.GetItemDepth(e.ctx, leaf.ID)
	if err != nil {
		t.Fatalf("GetItemDepth: %v", err)
	}
	if depth != 2 {
		t.Errorf("GetItemDepth(leaf) = %d, want 2", depth)
	}

	path, err := e.store.GetItemPath(e.ctx, leaf.ID)
	if err != nil {
		t.Fatalf("GetItemPath: %v", err)
	}
	if len(path) != 3 || path[0].ItemKey != "root" || path[2].ItemKey != "leaf" {
		t.Fatalf("GetItemPath = %#v, want root->mid->leaf", path)
	}
}

func TestChildrenStatusSummary(t *testing.T) {
	e := newTestEnv(t)
	list := e.createList("summary")
	root := e.addItem(list.ID, "root", nil)
	c1 := e.addItem(list.ID, "c1", &root.ID)
	e.addItem(list.ID, "c2", &root.ID)

	completed := types.StatusCompleted
	if _, err := e.store.UpdateItem(e.ctx, c1.ID, itemPatchStatus(completed)); err != nil {
		t.Fatalf("UpdateItem: %v", err)
	}

	summary, err := e.store.GetChildrenStatusSummary(e.ctx, root.ID)
	if err != nil {
		t.Fatalf("GetChildrenStatusSummary: %v", err)
	}
	if summary.Total != 2 || summary.Completed != 1 || summary.Pending != 1 {
		t.Fatalf("unexpected summary: %#v", summary)
	}
}

func TestReorderAssignsSequentialPositions(t *testing.T) {
	e := newTestEnv(t)
	list := e.createList("reorder")
	a := e.addItem(list.ID, "a", nil)
	b := e.addItem(list.ID, "b", nil)
	c := e.addItem(list.ID, "c", nil)

	if err := e.store.Reorder(e.ctx, list.ID, nil, []int64{c.ID, a.ID, b.ID}); err != nil {
		t.Fatalf("Reorder: %v", err)
	}
	got, err := e.store.GetItemByID(e.ctx, c.ID)
	if err != nil {
		t.Fatalf("GetItemByID: %v", err)
	}
	if got.Position != 1 {
		t.Errorf("reordered c.Position = %d, want 1", got.Position)
	}
}
