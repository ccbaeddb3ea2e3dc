package sqlite

import (
	"testing"

	"github.com/taskgraph-dev/tg/internal/types"
)

func TestGetStatistics(t *testing.T) {
	e := newTestEnv(t)
	list := e.createList("stats")
	a := e.addItem(list.ID, "a", nil)
	b := e.addItem(list.ID, "b", nil)
	if _, err := e.store.CreateItemDependency(e.ctx, a.ID, b.ID, types.DependencyBlocks, nil); err != nil {
		t.Fatalf("CreateItemDependency: %v", err)
	}
	if _, err := e.store.CreateTag(e.ctx, "urgent", "red"); err != nil {
		t.Fatalf("CreateTag: %v", err)
	}

	stats, err := e.store.GetStatistics(e.ctx)
	if err != nil {
		t.Fatalf("GetStatistics: %v", err)
	}
	if stats.TotalLists != 1 || stats.ActiveLists != 1 {
		t.Errorf("list counts = %d/%d, want 1/1", stats.TotalLists, stats.ActiveLists)
	}
	if stats.TotalItems != 2 {
		t.Errorf("TotalItems = %d, want 2", stats.TotalItems)
	}
	if stats.ByStatus[types.StatusPending] != 2 {
		t.Errorf("ByStatus[pending] = %d, want 2", stats.ByStatus[types.StatusPending])
	}
	if stats.BlockedItems != 1 {
		t.Errorf("BlockedItems = %d, want 1 (a is blocked by incomplete b)", stats.BlockedItems)
	}
	if stats.TotalTags != 1 {
		t.Errorf("TotalTags = %d, want 1", stats.TotalTags)
	}
}
