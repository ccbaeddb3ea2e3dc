// Package manager implements the Manager façade: the single
// public entry point composing storage, history, hierarchy, dependency,
// selection, and access-control into the operation contract every caller
// (CLI, HTTP adapter, tests) goes through.
package manager

import (
	"context"

	"github.com/taskgraph-dev/tg/internal/access"
	"github.com/taskgraph-dev/tg/internal/dependency"
	"github.com/taskgraph-dev/tg/internal/hierarchy"
	"github.com/taskgraph-dev/tg/internal/history"
	"github.com/taskgraph-dev/tg/internal/selection"
	"github.com/taskgraph-dev/tg/internal/storage"
)

// Manager is the façade. It holds no mutable state beyond its collaborators
// and the snapshotted access Scope (force/filter tags are resolved once
// and never re-read on a hot path).
type Manager struct {
	store storage.Store
	hist  *history.Recorder
	hier  *hierarchy.Engine
	deps  *dependency.Engine
	sel   *selection.Engine
	scope access.Scope
}

// New wires a Manager over a Store and a resolved access Scope.
func New(store storage.Store, scope access.Scope) *Manager {
	deps := dependency.New(store)
	return &Manager{
		store: store,
		hist:  history.New(store),
		hier:  hierarchy.New(store),
		deps:  deps,
		sel:   selection.New(store, deps),
		scope: scope,
	}
}

// Close releases the underlying storage handle.
func (m *Manager) Close() error { return m.store.Close() }

// withTx runs fn against a Manager bound to the transaction's Store, so
// every collaborator (history, hierarchy, dependency, selection) sees the
// same transactional view. Used by operations that must be atomic across
// more than one store call (e.g. create-then-tag, move-then-sync).
func (m *Manager) withTx(ctx context.Context, fn func(tx *Manager) error) error {
	return m.store.WithTx(ctx, func(txStore storage.Store) error {
		return fn(New(txStore, m.scope))
	})
}

func ptr[T any](v T) *T { return &v }
