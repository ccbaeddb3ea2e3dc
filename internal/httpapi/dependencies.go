package httpapi

import (
	"net/http"

	"github.com/taskgraph-dev/tg/internal/manager"
	"github.com/taskgraph-dev/tg/internal/types"
)

type depRefRequest struct {
	List string `json:"list"`
	Item string `json:"item"`
}

func (r depRefRequest) toRef() manager.ItemRef {
	return manager.ItemRef{ListKey: r.List, ItemKey: r.Item}
}

func refFromQuery(r *http.Request) manager.ItemRef {
	return manager.ItemRef{ListKey: r.URL.Query().Get("list"), ItemKey: r.URL.Query().Get("item")}
}

type addDependencyRequest struct {
	Dependent depRefRequest  `json:"dependent"`
	Required  depRefRequest  `json:"required"`
	Type      string         `json:"type"`
	Metadata  map[string]any `json:"metadata"`
	Actor     string         `json:"actor"`
}

func (s *Server) addDependency(w http.ResponseWriter, r *http.Request) {
	var req addDependencyRequest
	if err := decode(r, &req); err != nil {
		writeErr(w, err)
		return
	}
	depType := types.DependencyRequires
	if req.Type != "" {
		depType = types.DependencyType(req.Type)
	}
	dep, err := s.mgr.AddDependency(reqCtx(r), req.Dependent.toRef(), req.Required.toRef(), depType, req.Metadata, req.Actor)
	if err != nil {
		writeErr(w, err)
		return
	}
	writeData(w, http.StatusCreated, dep)
}

type removeDependencyRequest struct {
	Dependent depRefRequest `json:"dependent"`
	Required  depRefRequest `json:"required"`
	Actor     string        `json:"actor"`
}

func (s *Server) removeDependency(w http.ResponseWriter, r *http.Request) {
	var req removeDependencyRequest
	if err := decode(r, &req); err != nil {
		writeErr(w, err)
		return
	}
	if _, err := s.mgr.RemoveDependency(reqCtx(r), req.Dependent.toRef(), req.Required.toRef(), req.Actor); err != nil {
		writeErr(w, err)
		return
	}
	writeData(w, http.StatusOK, map[string]bool{"removed": true})
}

func (s *Server) itemDependencies(w http.ResponseWriter, r *http.Request) {
	deps, err := s.mgr.ItemDependencies(reqCtx(r), refFromQuery(r))
	if err != nil {
		writeErr(w, err)
		return
	}
	writeData(w, http.StatusOK, deps)
}

func (s *Server) itemDependents(w http.ResponseWriter, r *http.Request) {
	deps, err := s.mgr.ItemDependents(reqCtx(r), refFromQuery(r))
	if err != nil {
		writeErr(w, err)
		return
	}
	writeData(w, http.StatusOK, deps)
}

func (s *Server) blockers(w http.ResponseWriter, r *http.Request) {
	items, err := s.mgr.Blockers(reqCtx(r), refFromQuery(r))
	if err != nil {
		writeErr(w, err)
		return
	}
	writeData(w, http.StatusOK, items)
}

func (s *Server) canStart(w http.ResponseWriter, r *http.Request) {
	ok, err := s.mgr.CanStart(reqCtx(r), refFromQuery(r))
	if err != nil {
		writeErr(w, err)
		return
	}
	writeData(w, http.StatusOK, map[string]bool{"can_start": ok})
}

func (s *Server) canComplete(w http.ResponseWriter, r *http.Request) {
	ok, err := s.mgr.CanComplete(reqCtx(r), refFromQuery(r))
	if err != nil {
		writeErr(w, err)
		return
	}
	writeData(w, http.StatusOK, map[string]bool{"can_complete": ok})
}
