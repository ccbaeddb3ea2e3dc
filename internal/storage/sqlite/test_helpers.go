package sqlite

import (
	"context"
	"testing"

	"github.com/taskgraph-dev/tg/internal/storage"
	"github.com/taskgraph-dev/tg/internal/types"
)

// newTestStore opens a fresh, isolated Store backed by a temp-file database
// and registers its cleanup with t.
func newTestStore(t *testing.T) *Store {
	t.Helper()
	path := t.TempDir() + "/test.db"
	store, err := New(context.Background(), path, nil)
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

// testEnv bundles a Store with the context its methods are called under.
type testEnv struct {
	t     *testing.T
	store *Store
	ctx   context.Context
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	return &testEnv{t: t, store: newTestStore(t), ctx: context.Background()}
}

func (e *testEnv) createList(key string) *types.List {
	e.t.Helper()
	list, err := e.store.CreateList(e.ctx, key, key, types.ListTypeSequential, nil)
	if err != nil {
		e.t.Fatalf("CreateList(%q): %v", key, err)
	}
	return list
}

func (e *testEnv) addItem(listID int64, key string, parentID *int64) *types.Item {
	e.t.Helper()
	pos, err := e.store.GetNextPosition(e.ctx, listID, parentID)
	if err != nil {
		e.t.Fatalf("GetNextPosition: %v", err)
	}
	item, err := e.store.CreateItem(e.ctx, storage.ItemFields{
		ListID:       listID,
		ItemKey:      key,
		Content:      key,
		ParentItemID: parentID,
		Position:     pos,
		Status:       types.StatusPending,
	})
	if err != nil {
		e.t.Fatalf("CreateItem(%q): %v", key, err)
	}
	return item
}

// itemPatchStatus builds a storage.ItemPatch that updates only the status.
func itemPatchStatus(status types.ItemStatus) storage.ItemPatch {
	return storage.ItemPatch{Status: &status}
}
