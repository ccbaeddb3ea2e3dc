package httpapi

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/taskgraph-dev/tg/internal/apperr"
	"github.com/taskgraph-dev/tg/internal/manager"
)

// Server adapts a manager.Manager to plain net/http. It carries no state of
// its own beyond the façade and a logger: a thin adapter sitting on top of
// the manager façade, the same shape as a CLI command.
type Server struct {
	mgr *manager.Manager
	log *slog.Logger
}

// NewServer wraps mgr for HTTP serving. log defaults to slog.Default() when nil.
func NewServer(mgr *manager.Manager, log *slog.Logger) *Server {
	if log == nil {
		log = slog.Default()
	}
	return &Server{mgr: mgr, log: log}
}

// Handler builds the full route table. Go 1.22's ServeMux method+wildcard
// patterns replace the router library the pack doesn't carry for plain
// net/http services.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("POST /lists", s.createList)
	mux.HandleFunc("GET /lists", s.listLists)
	mux.HandleFunc("GET /lists/{list}", s.getList)
	mux.HandleFunc("PATCH /lists/{list}", s.updateList)
	mux.HandleFunc("DELETE /lists/{list}", s.deleteList)
	mux.HandleFunc("POST /lists/{list}/archive", s.archiveList)
	mux.HandleFunc("POST /lists/{list}/unarchive", s.unarchiveList)
	mux.HandleFunc("POST /lists/{list}/tags", s.linkTag)
	mux.HandleFunc("DELETE /lists/{list}/tags/{tag}", s.unlinkTag)
	mux.HandleFunc("GET /lists/{list}/export", s.exportList)
	mux.HandleFunc("GET /lists/{list}/history", s.listHistory)

	mux.HandleFunc("GET /lists/{list}/properties", s.listListProperties)
	mux.HandleFunc("PUT /lists/{list}/properties/{key}", s.setListProperty)
	mux.HandleFunc("GET /lists/{list}/properties/{key}", s.getListProperty)
	mux.HandleFunc("DELETE /lists/{list}/properties/{key}", s.deleteListProperty)

	mux.HandleFunc("GET /lists/{list}/items", s.listItems)
	mux.HandleFunc("POST /lists/{list}/items", s.addItem)
	mux.HandleFunc("POST /lists/{list}/items/reorder", s.reorderItems)
	mux.HandleFunc("GET /lists/{list}/items/{item}", s.getItem)
	mux.HandleFunc("PATCH /lists/{list}/items/{item}", s.editItem)
	mux.HandleFunc("DELETE /lists/{list}/items/{item}", s.deleteItem)
	mux.HandleFunc("POST /lists/{list}/items/{item}/status", s.setItemStatus)
	mux.HandleFunc("POST /lists/{list}/items/{item}/move", s.moveItem)
	mux.HandleFunc("GET /lists/{list}/items/{item}/history", s.itemHistory)

	mux.HandleFunc("GET /lists/{list}/items/{item}/properties", s.listItemProperties)
	mux.HandleFunc("PUT /lists/{list}/items/{item}/properties/{key}", s.setItemProperty)
	mux.HandleFunc("GET /lists/{list}/items/{item}/properties/{key}", s.getItemProperty)
	mux.HandleFunc("DELETE /lists/{list}/items/{item}/properties/{key}", s.deleteItemProperty)

	mux.HandleFunc("GET /lists/{list}/items/{item}/states", s.listCompletionStates)
	mux.HandleFunc("PUT /lists/{list}/items/{item}/states/{key}", s.setCompletionState)
	mux.HandleFunc("DELETE /lists/{list}/items/{item}/states/{key}", s.removeCompletionState)
	mux.HandleFunc("DELETE /lists/{list}/items/{item}/states", s.clearCompletionStates)

	mux.HandleFunc("GET /lists/{list}/next", s.nextPending)
	mux.HandleFunc("GET /lists/{list}/subtasks", s.findSubitemsByStatus)
	mux.HandleFunc("GET /lists/{list}/find", s.findItemsByProperty)

	mux.HandleFunc("POST /dependencies", s.addDependency)
	mux.HandleFunc("DELETE /dependencies", s.removeDependency)
	mux.HandleFunc("GET /dependencies", s.itemDependencies)
	mux.HandleFunc("GET /dependents", s.itemDependents)
	mux.HandleFunc("GET /blockers", s.blockers)
	mux.HandleFunc("GET /can-start", s.canStart)
	mux.HandleFunc("GET /can-complete", s.canComplete)

	mux.HandleFunc("GET /tags", s.listTags)
	mux.HandleFunc("POST /tags", s.createTag)
	mux.HandleFunc("DELETE /tags/{name}", s.deleteTag)

	mux.HandleFunc("POST /import", s.importList)
	mux.HandleFunc("GET /stats", s.statistics)
	mux.HandleFunc("GET /diagnostics/errors", s.diagnosticErrors)
	mux.HandleFunc("GET /healthz", s.healthz)

	return withRequestLog(s.log, mux)
}

func withRequestLog(log *slog.Logger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		log.Debug("http request", "method", r.Method, "path", r.URL.Path)
		next.ServeHTTP(w, r)
	})
}

func (s *Server) healthz(w http.ResponseWriter, r *http.Request) {
	writeData(w, http.StatusOK, map[string]string{"status": "ok"})
}

// decode reads a JSON body into v, returning an InvalidArgument apperr on
// malformed input so writeErr maps it to 400 the same way a handler-level
// validation failure would.
func decode(r *http.Request, v any) error {
	defer r.Body.Close()
	dec := json.NewDecoder(r.Body)
	if err := dec.Decode(v); err != nil {
		return apperr.New(apperr.InvalidArgument, "decoding request body: %v", err)
	}
	return nil
}

func queryInt(r *http.Request, key string, def int) int {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return def
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return def
	}
	return n
}

func writeData(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(envelope{Success: true, Data: data})
}

// writeErr maps an apperr.Kind to its HTTP status and writes the error
// envelope. Kinds the façade never returns to an HTTP caller fall back to
// 500: an unrecognized failure is treated as a server failure.
func writeErr(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch apperr.KindOf(err) {
	case apperr.NotFound:
		status = http.StatusNotFound
	case apperr.AccessDenied:
		status = http.StatusForbidden
	case apperr.InvalidArgument, apperr.DuplicateKey, apperr.WouldCreateCycle,
		apperr.HasChildren, apperr.CannotRemoveForceTag, apperr.TagLimit:
		status = http.StatusBadRequest
	case apperr.StorageFailure:
		status = http.StatusInternalServerError
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(envelope{Success: false, Error: err.Error()})
}

func reqCtx(r *http.Request) context.Context { return r.Context() }
