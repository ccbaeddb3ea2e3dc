// Package storage defines the persistence contract for the task graph
// engine. Concrete backends (internal/storage/sqlite) satisfy
// this interface; every other component depends only on it.
package storage

import (
	"context"
	"time"

	"github.com/taskgraph-dev/tg/internal/types"
)

// ListPatch carries optional field updates for UpdateList. A nil field is
// left unchanged.
type ListPatch struct {
	Title    *string
	Status   *types.ListStatus
	Metadata map[string]any
}

// ItemFields carries the fields needed to create a new Item.
type ItemFields struct {
	ListID       int64
	ItemKey      string
	Content      string
	ParentItemID *int64
	Position     int
	Status       types.ItemStatus
	Metadata     map[string]any
}

// ItemPatch carries optional field updates for UpdateItem. A nil pointer
// field, or a nil map, is left unchanged; callers that want to clear a map
// pass an empty, non-nil map.
type ItemPatch struct {
	Content          *string
	Status           *types.ItemStatus
	Position         *int
	ParentItemID     **int64 // pointer-to-pointer: non-nil outer means "set"; inner nil means "clear parent"
	CompletionStates map[string]any
	Metadata         map[string]any
	StartedAt        **time.Time
	CompletedAt      **time.Time
}

// SubitemGroup is one parent and the children of it that matched a
// find-subitems-by-status query.
type SubitemGroup struct {
	Parent           *types.Item
	MatchingSubitems []*types.Item
}

// HistoryFields carries the fields needed to append one HistoryEntry.
type HistoryFields struct {
	ItemID      *int64
	ListID      *int64
	Action      string
	OldValue    map[string]any
	NewValue    map[string]any
	UserContext string
}

// Store is the full persistence contract. All methods run in the context's
// deadline/cancellation and, when invoked via WithTx, inside the same
// transaction.
type Store interface {
	// Lists
	CreateList(ctx context.Context, listKey, title string, listType types.ListType, metadata map[string]any) (*types.List, error)
	GetListByID(ctx context.Context, id int64) (*types.List, error)
	GetListByKey(ctx context.Context, key string) (*types.List, error)
	ListAll(ctx context.Context, limit int) ([]*types.List, error)
	UpdateList(ctx context.Context, id int64, patch ListPatch) (*types.List, error)
	DeleteList(ctx context.Context, id int64) (bool, error)

	// Items
	CreateItem(ctx context.Context, fields ItemFields) (*types.Item, error)
	GetItemByID(ctx context.Context, id int64) (*types.Item, error)
	GetItemByKey(ctx context.Context, listID int64, key string) (*types.Item, error)
	GetItemByKeyAndParent(ctx context.Context, listID int64, key string, parentID *int64) (*types.Item, error)
	GetListItems(ctx context.Context, listID int64, status *types.ItemStatus, limit int) ([]*types.Item, error)
	UpdateItem(ctx context.Context, id int64, patch ItemPatch) (*types.Item, error)
	DeleteItem(ctx context.Context, id int64) (bool, error)
	GetNextPosition(ctx context.Context, listID int64, parentID *int64) (int, error)
	GetItemChildren(ctx context.Context, id int64) ([]*types.Item, error)
	GetChildrenStatusSummary(ctx context.Context, id int64) (types.ChildrenSummary, error)
	HasPendingChildren(ctx context.Context, id int64) (bool, error)
	GetRootItems(ctx context.Context, listID int64) ([]*types.Item, error)
	GetItemDepth(ctx context.Context, id int64) (int, error)
	GetItemPath(ctx context.Context, id int64) ([]*types.Item, error)
	Reorder(ctx context.Context, listID int64, parentID *int64, orderedItemIDs []int64) error

	// Properties
	SetItemProperty(ctx context.Context, itemID int64, key, value string) (*types.ItemProperty, error)
	GetItemProperty(ctx context.Context, itemID int64, key string) (*types.ItemProperty, error)
	ListItemProperties(ctx context.Context, itemID int64) ([]*types.ItemProperty, error)
	DeleteItemProperty(ctx context.Context, itemID int64, key string) (bool, error)
	SetListProperty(ctx context.Context, listID int64, key, value string) (*types.ListProperty, error)
	GetListProperty(ctx context.Context, listID int64, key string) (*types.ListProperty, error)
	ListListProperties(ctx context.Context, listID int64) ([]*types.ListProperty, error)
	DeleteListProperty(ctx context.Context, listID int64, key string) (bool, error)
	FindItemsByProperty(ctx context.Context, listID int64, key, value string, limit int) ([]*types.Item, error)
	FindSubitemsByStatus(ctx context.Context, listID int64, conditions map[string]types.ItemStatus, limit int) ([]SubitemGroup, error)

	// Tags
	CreateTag(ctx context.Context, name, color string) (*types.Tag, error)
	GetTagByName(ctx context.Context, name string) (*types.Tag, error)
	ListTags(ctx context.Context) ([]*types.Tag, error)
	DeleteTag(ctx context.Context, id int64) (bool, error)
	AddListTag(ctx context.Context, listID, tagID int64) error
	RemoveListTag(ctx context.Context, listID, tagID int64) (bool, error)
	ListTagsForList(ctx context.Context, listID int64) ([]*types.Tag, error)
	GetListsByTagsAny(ctx context.Context, names []string) ([]*types.List, error)
	GetListsByTagsAll(ctx context.Context, names []string) ([]*types.List, error)

	// Dependencies
	CreateItemDependency(ctx context.Context, dependentID, requiredID int64, depType types.DependencyType, metadata map[string]any) (*types.ItemDependency, error)
	RemoveItemDependency(ctx context.Context, dependentID, requiredID int64) (bool, error)
	GetItemDependencies(ctx context.Context, itemID int64) ([]*types.ItemDependency, error)
	GetItemDependents(ctx context.Context, itemID int64) ([]*types.ItemDependency, error)
	GetItemBlockers(ctx context.Context, id int64) ([]*types.Item, error)
	HasEnforcedPath(ctx context.Context, fromID, toID int64) (bool, error)

	// History
	RecordHistory(ctx context.Context, fields HistoryFields) (*types.HistoryEntry, error)
	GetItemHistory(ctx context.Context, itemID int64, limit int) ([]*types.HistoryEntry, error)
	GetListHistory(ctx context.Context, listID int64, limit int) ([]*types.HistoryEntry, error)

	// Statistics
	GetStatistics(ctx context.Context) (*types.Statistics, error)

	// Transactions
	WithTx(ctx context.Context, fn func(tx Store) error) error

	// Lifecycle
	Close() error
}
