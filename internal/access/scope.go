// Package access implements the force-tags / filter-tags predicate. A
// Scope is resolved once, at façade construction, from the process
// configuration and never re-read on a hot path.
package access

import (
	"context"

	"github.com/taskgraph-dev/tg/internal/apperr"
	"github.com/taskgraph-dev/tg/internal/proptag"
	"github.com/taskgraph-dev/tg/internal/storage"
	"github.com/taskgraph-dev/tg/internal/types"
)

// Mode distinguishes which of FORCE_TAGS/FILTER_TAGS, if either, is active.
// Precedence rule: FORCE_TAGS, if set, overrides FILTER_TAGS entirely.
type Mode int

const (
	ModeNone Mode = iota
	ModeForce
	ModeFilter
)

// Scope is the immutable, snapshotted access-control configuration.
type Scope struct {
	Mode       Mode
	ForceTags  []string // normalized lower-case
	FilterTags []string // normalized lower-case
}

// New resolves a Scope from raw (un-normalized) FORCE_TAGS/FILTER_TAGS
// values, applying the FORCE_TAGS-overrides-FILTER_TAGS precedence rule.
func New(forceTags, filterTags []string) Scope {
	if len(forceTags) > 0 {
		return Scope{Mode: ModeForce, ForceTags: normalizeAll(forceTags)}
	}
	if len(filterTags) > 0 {
		return Scope{Mode: ModeFilter, FilterTags: normalizeAll(filterTags)}
	}
	return Scope{Mode: ModeNone}
}

func normalizeAll(names []string) []string {
	out := make([]string, len(names))
	for i, n := range names {
		out[i] = proptag.Normalize(n)
	}
	return out
}

func (s Scope) Active() bool { return s.Mode == ModeForce }

// FilterLists applies the scoped-read rule: under FORCE_TAGS, ListAll must
// return only lists that have ALL force tags; under FILTER_TAGS, ANY
// semantics; with neither active, the unfiltered list.
func (s Scope) FilterLists(ctx context.Context, store storage.Store, unfiltered []*types.List) ([]*types.List, error) {
	switch s.Mode {
	case ModeForce:
		return store.GetListsByTagsAll(ctx, s.ForceTags)
	case ModeFilter:
		return store.GetListsByTagsAny(ctx, s.FilterTags)
	default:
		return unfiltered, nil
	}
}

// CheckWrite enforces that any mutation addressing a list by key is
// preceded by an access check under FORCE_TAGS. A missing required tag is
// reported as NotFound rather than AccessDenied, so inaccessible lists
// stay hidden instead of revealing their existence.
func (s Scope) CheckWrite(ctx context.Context, store storage.Store, listID int64) error {
	if s.Mode != ModeForce {
		return nil
	}
	tags, err := store.ListTagsForList(ctx, listID)
	if err != nil {
		return err
	}
	have := map[string]bool{}
	for _, t := range tags {
		have[t.Name] = true
	}
	for _, want := range s.ForceTags {
		if !have[want] {
			return apperr.New(apperr.NotFound, "list not found or not accessible")
		}
	}
	return nil
}

// AutoTags returns the tags a newly-created list must be assigned under
// FORCE_TAGS; empty outside force-tags mode.
func (s Scope) AutoTags() []string {
	if s.Mode != ModeForce {
		return nil
	}
	return s.ForceTags
}

// GuardsTagRemoval reports whether removing tagName from a list must be
// rejected with CannotRemoveForceTag.
func (s Scope) GuardsTagRemoval(tagName string) bool {
	if s.Mode != ModeForce {
		return false
	}
	normalized := proptag.Normalize(tagName)
	for _, t := range s.ForceTags {
		if t == normalized {
			return true
		}
	}
	return false
}
