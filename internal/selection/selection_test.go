package selection

import (
	"context"
	"testing"

	"github.com/taskgraph-dev/tg/internal/dependency"
	"github.com/taskgraph-dev/tg/internal/storage"
	"github.com/taskgraph-dev/tg/internal/storage/sqlite"
	"github.com/taskgraph-dev/tg/internal/types"
)

func newTestStore(t *testing.T) storage.Store {
	t.Helper()
	store, err := sqlite.New(context.Background(), t.TempDir()+"/test.db", nil)
	if err != nil {
		t.Fatalf("opening test store: %v", err)
	}
	t.Cleanup(func() {
		if err := store.Close(); err != nil {
			t.Fatalf("closing test store: %v", err)
		}
	})
	return store
}

func mustCreateList(t *testing.T, store storage.Store, key string) *types.List {
	t.Helper()
	list, err := store.CreateList(context.Background(), key, key, types.ListTypeSequential, nil)
	if err != nil {
		t.Fatalf("CreateList(%q): %v", key, err)
	}
	return list
}

func mustAddItem(t *testing.T, store storage.Store, listID int64, key string, parentID *int64) *types.Item {
	t.Helper()
	ctx := context.Background()
	pos, err := store.GetNextPosition(ctx, listID, parentID)
	if err != nil {
		t.Fatalf("GetNextPosition: %v", err)
	}
	item, err := store.CreateItem(ctx, storage.ItemFields{
		ListID:       listID,
		ItemKey:      key,
		Content:      key,
		ParentItemID: parentID,
		Position:     pos,
		Status:       types.StatusPending,
	})
	if err != nil {
		t.Fatalf("CreateItem(%q): %v", key, err)
	}
	return item
}

func mustSetStatus(t *testing.T, store storage.Store, id int64, status types.ItemStatus) {
	t.Helper()
	if _, err := store.UpdateItem(context.Background(), id, storage.ItemPatch{Status: &status}); err != nil {
		t.Fatalf("UpdateItem: %v", err)
	}
}

func TestNextSmartPrefersInProgressParentsChildren(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	deps := dependency.New(store)
	e := New(store, deps)

	list := mustCreateList(t, store, "smart")
	standalone := mustAddItem(t, store, list.ID, "z-standalone", nil)
	_ = standalone
	parent := mustAddItem(t, store, list.ID, "a-parent", nil)
	mustSetStatus(t, store, parent.ID, types.StatusInProgress)
	child := mustAddItem(t, store, list.ID, "child", &parent.ID)

	next, err := e.NextSmart(ctx, list.ID)
	if err != nil {
		t.Fatalf("NextSmart: %v", err)
	}
	if next == nil || next.ID != child.ID {
		t.Fatalf("NextSmart() = %#v, want child of in-progress parent", next)
	}
}

func TestNextSmartSkipsBlockedRoot(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	deps := dependency.New(store)
	e := New(store, deps)

	list := mustCreateList(t, store, "blocked-root")
	blocker := mustAddItem(t, store, list.ID, "a-blocker", nil)
	blocked := mustAddItem(t, store, list.ID, "b-blocked", nil)
	if _, err := store.CreateItemDependency(ctx, blocked.ID, blocker.ID, types.DependencyBlocks, nil); err != nil {
		t.Fatalf("CreateItemDependency: %v", err)
	}

	next, err := e.NextSmart(ctx, list.ID)
	if err != nil {
		t.Fatalf("NextSmart: %v", err)
	}
	if next == nil || next.ID != blocker.ID {
		t.Fatalf("NextSmart() = %#v, want the unblocked blocker item", next)
	}
}

func TestNextSmartReturnsNilWhenNothingActionable(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	deps := dependency.New(store)
	e := New(store, deps)

	list := mustCreateList(t, store, "empty")
	next, err := e.NextSmart(ctx, list.ID)
	if err != nil {
		t.Fatalf("NextSmart: %v", err)
	}
	if next != nil {
		t.Fatalf("NextSmart() = %#v, want nil for an empty list", next)
	}
}

func TestNextSmartSurfacesOrphanedPending(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	deps := dependency.New(store)
	e := New(store, deps)

	list := mustCreateList(t, store, "orphans")
	parent := mustAddItem(t, store, list.ID, "parent", nil)
	orphan := mustAddItem(t, store, list.ID, "late-add", &parent.ID)
	mustSetStatus(t, store, parent.ID, types.StatusCompleted)

	next, err := e.NextSmart(ctx, list.ID)
	if err != nil {
		t.Fatalf("NextSmart: %v", err)
	}
	if next == nil || next.ID != orphan.ID {
		t.Fatalf("NextSmart() = %#v, want the orphaned pending child under a completed parent", next)
	}
}

func TestNextSimpleSkipsItemsUnderIncompleteParent(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	deps := dependency.New(store)
	e := New(store, deps)

	list := mustCreateList(t, store, "simple")
	parent := mustAddItem(t, store, list.ID, "parent", nil)
	mustAddItem(t, store, list.ID, "child", &parent.ID)
	standalone := mustAddItem(t, store, list.ID, "z-standalone", nil)

	next, err := e.NextSimple(ctx, list.ID)
	if err != nil {
		t.Fatalf("NextSimple: %v", err)
	}
	if next == nil || next.ID != parent.ID {
		t.Fatalf("NextSimple() = %#v, want the parent (first pending, no parent of its own)", next)
	}
	_ = standalone
}

func TestNextSimpleSkipsBlockedItems(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	deps := dependency.New(store)
	e := New(store, deps)

	list := mustCreateList(t, store, "simple-blocked")
	blocker := mustAddItem(t, store, list.ID, "a-blocker", nil)
	blocked := mustAddItem(t, store, list.ID, "b-blocked", nil)
	if _, err := store.CreateItemDependency(ctx, blocked.ID, blocker.ID, types.DependencyBlocks, nil); err != nil {
		t.Fatalf("CreateItemDependency: %v", err)
	}

	next, err := e.NextSimple(ctx, list.ID)
	if err != nil {
		t.Fatalf("NextSimple: %v", err)
	}
	if next == nil || next.ID != blocker.ID {
		t.Fatalf("NextSimple() = %#v, want the unblocked blocker", next)
	}
}
