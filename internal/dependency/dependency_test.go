package dependency

import (
	"context"
	"testing"

	"github.com/taskgraph-dev/tg/internal/apperr"
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

func TestAddDependencyRejectsSelfEdge(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	e := New(store)

	list := mustCreateList(t, store, "self")
	a := mustAddItem(t, store, list.ID, "a", nil)

	_, err := e.AddDependency(ctx, a.ID, a.ID, types.DependencyBlocks, nil)
	if apperr.KindOf(err) != apperr.InvalidArgument {
		t.Errorf("KindOf() = %v, want InvalidArgument", apperr.KindOf(err))
	}
}

func TestAddDependencyRejectsInvalidType(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	e := New(store)

	list := mustCreateList(t, store, "invalid-type")
	a := mustAddItem(t, store, list.ID, "a", nil)
	b := mustAddItem(t, store, list.ID, "b", nil)

	_, err := e.AddDependency(ctx, a.ID, b.ID, types.DependencyType("bogus"), nil)
	if apperr.KindOf(err) != apperr.InvalidArgument {
		t.Errorf("KindOf() = %v, want InvalidArgument", apperr.KindOf(err))
	}
}

func TestAddDependencyRejectsCycle(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	e := New(store)

	list := mustCreateList(t, store, "cycle")
	a := mustAddItem(t, store, list.ID, "a", nil)
	b := mustAddItem(t, store, list.ID, "b", nil)
	c := mustAddItem(t, store, list.ID, "c", nil)

	// a requires b, b requires c.
	if _, err := e.AddDependency(ctx, a.ID, b.ID, types.DependencyRequires, nil); err != nil {
		t.Fatalf("AddDependency(a,b): %v", err)
	}
	if _, err := e.AddDependency(ctx, b.ID, c.ID, types.DependencyRequires, nil); err != nil {
		t.Fatalf("AddDependency(b,c): %v", err)
	}

	// c requiring a would close the loop.
	_, err := e.AddDependency(ctx, c.ID, a.ID, types.DependencyRequires, nil)
	if apperr.KindOf(err) != apperr.WouldCreateCycle {
		t.Errorf("KindOf() = %v, want WouldCreateCycle", apperr.KindOf(err))
	}
}

func TestAddDependencyRelatedExemptFromCycleCheck(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	e := New(store)

	list := mustCreateList(t, store, "related")
	a := mustAddItem(t, store, list.ID, "a", nil)
	b := mustAddItem(t, store, list.ID, "b", nil)

	if _, err := e.AddDependency(ctx, a.ID, b.ID, types.DependencyRelated, nil); err != nil {
		t.Fatalf("AddDependency(a,b,related): %v", err)
	}
	// The reverse edge would be a cycle in an enforced subgraph, but
	// "related" carries no enforcement semantics so it's allowed.
	if _, err := e.AddDependency(ctx, b.ID, a.ID, types.DependencyRelated, nil); err != nil {
		t.Errorf("AddDependency(b,a,related) = %v, want nil (related is cycle-exempt)", err)
	}
}

func TestRemoveDependency(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	e := New(store)

	list := mustCreateList(t, store, "remove")
	a := mustAddItem(t, store, list.ID, "a", nil)
	b := mustAddItem(t, store, list.ID, "b", nil)
	if _, err := e.AddDependency(ctx, a.ID, b.ID, types.DependencyBlocks, nil); err != nil {
		t.Fatalf("AddDependency: %v", err)
	}

	removed, err := e.RemoveDependency(ctx, a.ID, b.ID)
	if err != nil {
		t.Fatalf("RemoveDependency: %v", err)
	}
	if !removed {
		t.Fatal("expected RemoveDependency to report true")
	}
	blocked, err := e.IsBlocked(ctx, a.ID)
	if err != nil {
		t.Fatalf("IsBlocked: %v", err)
	}
	if blocked {
		t.Error("expected a to be unblocked after removing its dependency")
	}
}

func TestBlockersAndIsBlocked(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	e := New(store)

	list := mustCreateList(t, store, "blockers")
	a := mustAddItem(t, store, list.ID, "a", nil)
	b := mustAddItem(t, store, list.ID, "b", nil)
	if _, err := e.AddDependency(ctx, a.ID, b.ID, types.DependencyBlocks, nil); err != nil {
		t.Fatalf("AddDependency: %v", err)
	}

	blocked, err := e.IsBlocked(ctx, a.ID)
	if err != nil {
		t.Fatalf("IsBlocked: %v", err)
	}
	if !blocked {
		t.Error("expected a to be blocked by incomplete b")
	}

	blockers, err := e.Blockers(ctx, a.ID)
	if err != nil {
		t.Fatalf("Blockers: %v", err)
	}
	if len(blockers) != 1 || blockers[0].ID != b.ID {
		t.Fatalf("Blockers = %#v, want [b]", blockers)
	}

	completed := types.StatusCompleted
	if _, err := store.UpdateItem(ctx, b.ID, storage.ItemPatch{Status: &completed}); err != nil {
		t.Fatalf("UpdateItem: %v", err)
	}
	blocked, err = e.IsBlocked(ctx, a.ID)
	if err != nil {
		t.Fatalf("IsBlocked (after completion): %v", err)
	}
	if blocked {
		t.Error("expected a to be unblocked once b completes")
	}
}

func TestCanStartFalseWhenBlockedOrPendingChildren(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	e := New(store)

	list := mustCreateList(t, store, "canstart")
	a := mustAddItem(t, store, list.ID, "a", nil)
	b := mustAddItem(t, store, list.ID, "b", nil)
	if _, err := e.AddDependency(ctx, a.ID, b.ID, types.DependencyBlocks, nil); err != nil {
		t.Fatalf("AddDependency: %v", err)
	}

	canStart, err := e.CanStart(ctx, a.ID)
	if err != nil {
		t.Fatalf("CanStart: %v", err)
	}
	if canStart {
		t.Error("expected CanStart to be false while blocked")
	}

	parent := mustAddItem(t, store, list.ID, "parent", nil)
	mustAddItem(t, store, list.ID, "child", &parent.ID)
	canStart, err = e.CanStart(ctx, parent.ID)
	if err != nil {
		t.Fatalf("CanStart(parent): %v", err)
	}
	if canStart {
		t.Error("expected CanStart to be false while a pending child exists")
	}
}

func TestCanCompleteRequiresAllChildrenCompleted(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	e := New(store)

	list := mustCreateList(t, store, "cancomplete")
	leaf := mustAddItem(t, store, list.ID, "leaf", nil)
	canComplete, err := e.CanComplete(ctx, leaf.ID)
	if err != nil {
		t.Fatalf("CanComplete(leaf): %v", err)
	}
	if !canComplete {
		t.Error("expected CanComplete to be vacuously true for a childless item")
	}

	parent := mustAddItem(t, store, list.ID, "parent", nil)
	child := mustAddItem(t, store, list.ID, "child", &parent.ID)
	canComplete, err = e.CanComplete(ctx, parent.ID)
	if err != nil {
		t.Fatalf("CanComplete(parent): %v", err)
	}
	if canComplete {
		t.Error("expected CanComplete to be false with an incomplete child")
	}

	completed := types.StatusCompleted
	if _, err := store.UpdateItem(ctx, child.ID, storage.ItemPatch{Status: &completed}); err != nil {
		t.Fatalf("UpdateItem: %v", err)
	}
	canComplete, err = e.CanComplete(ctx, parent.ID)
	if err != nil {
		t.Fatalf("CanComplete(parent, after): %v", err)
	}
	if !canComplete {
		t.Error("expected CanComplete to be true once all children complete")
	}
}
