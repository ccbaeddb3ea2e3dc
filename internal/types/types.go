// Package types holds the value models returned by the Manager façade. They
// are distinct from the storage package's row models: callers never see a
// raw database row, only these typed, already-decoded structures.
package types

import "time"

// ListStatus is the lifecycle state of a List.
type ListStatus string

const (
	ListStatusActive   ListStatus = "active"
	ListStatusArchived ListStatus = "archived"
)

// ListType names the ordering discipline of a list's items. Only
// "sequential" is specified; the field exists so storage need not widen
// later.
type ListType string

const (
	ListTypeSequential ListType = "sequential"
)

// ItemStatus is the multi-state completion status of an Item.
type ItemStatus string

const (
	StatusPending    ItemStatus = "pending"
	StatusInProgress ItemStatus = "in_progress"
	StatusCompleted  ItemStatus = "completed"
	StatusFailed     ItemStatus = "failed"
)

func (s ItemStatus) Valid() bool {
	switch s {
	case StatusPending, StatusInProgress, StatusCompleted, StatusFailed:
		return true
	}
	return false
}

// DependencyType names the semantics of an edge between two items.
type DependencyType string

const (
	DependencyBlocks   DependencyType = "blocks"
	DependencyRequires DependencyType = "requires"
	DependencyRelated  DependencyType = "related"
)

func (d DependencyType) Valid() bool {
	switch d {
	case DependencyBlocks, DependencyRequires, DependencyRelated:
		return true
	}
	return false
}

// Enforced reports whether the dependency type participates in blocking /
// selection semantics. "related" is storage-only: recorded and queryable,
// but never consulted by CanStart, CanComplete, or next-pending selection.
func (d DependencyType) Enforced() bool {
	return d == DependencyBlocks || d == DependencyRequires
}

// List is the value model for a named, ordered collection of items.
type List struct {
	ID        int64
	ListKey   string
	Title     string
	Status    ListStatus
	ListType  ListType
	Metadata  map[string]any
	Tags      []string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Item is the value model for a unit of work within a list.
type Item struct {
	ID               int64
	ListID           int64
	ItemKey          string
	Content          string
	Position         int
	Status           ItemStatus
	ParentItemID     *int64
	CompletionStates map[string]any
	Metadata         map[string]any
	StartedAt        *time.Time
	CompletedAt      *time.Time
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// ChildrenSummary tallies a parent's children by status, the input to
// Derive. Total == 0 means the item is a leaf.
type ChildrenSummary struct {
	Total      int
	Pending    int
	InProgress int
	Completed  int
	Failed     int
}

// Derive computes the derived status of a non-leaf item from its children.
// Callers must only invoke this when Total > 0.
func (s ChildrenSummary) Derive() ItemStatus {
	switch {
	case s.Failed > 0:
		return StatusFailed
	case s.Pending == s.Total:
		return StatusPending
	case s.Completed == s.Total:
		return StatusCompleted
	default:
		return StatusInProgress
	}
}

// ItemProperty is a key-value property attached to an Item.
type ItemProperty struct {
	ID            int64
	ItemID        int64
	PropertyKey   string
	PropertyValue string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// ListProperty is a key-value property attached to a List.
type ListProperty struct {
	ID            int64
	ListID        int64
	PropertyKey   string
	PropertyValue string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// Tag is a global, case-insensitive label drawn from a fixed 12-color palette.
type Tag struct {
	ID        int64
	Name      string
	Color     string
	CreatedAt time.Time
}

// ItemDependency is a directed edge between two items.
type ItemDependency struct {
	ID              int64
	DependentItemID int64
	RequiredItemID  int64
	DependencyType  DependencyType
	Metadata        map[string]any
	CreatedAt       time.Time
}

// HistoryEntry is one append-only audit record of a mutation.
type HistoryEntry struct {
	ID          int64
	ItemID      *int64
	ListID      *int64
	Action      string
	OldValue    map[string]any
	NewValue    map[string]any
	UserContext string
	Timestamp   time.Time
}

// Statistics is the aggregate summary backing `tg stats progress`.
type Statistics struct {
	TotalLists    int
	ActiveLists   int
	ArchivedLists int
	TotalItems    int
	ByStatus      map[ItemStatus]int
	BlockedItems  int
	TotalTags     int
}

// Palette is the fixed 12-color set tags are assigned from, in order.
var Palette = []string{
	"red", "orange", "yellow", "green", "teal", "blue",
	"indigo", "purple", "pink", "brown", "gray", "cyan",
}

var MaxTags = len(Palette)

// MaxHierarchyDepth bounds parent-chain walks.
const MaxHierarchyDepth = 10
