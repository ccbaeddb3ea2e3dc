package httpapi

import (
	"net/http"

	"github.com/taskgraph-dev/tg/internal/manager"
	"github.com/taskgraph-dev/tg/internal/storage"
	"github.com/taskgraph-dev/tg/internal/types"
)

type createListRequest struct {
	ListKey  string         `json:"list_key"`
	Title    string         `json:"title"`
	ListType string         `json:"list_type"`
	Metadata map[string]any `json:"metadata"`
	Actor    string         `json:"actor"`
}

func (s *Server) createList(w http.ResponseWriter, r *http.Request) {
	var req createListRequest
	if err := decode(r, &req); err != nil {
		writeErr(w, err)
		return
	}
	lt := types.ListTypeSequential
	if req.ListType != "" {
		lt = types.ListType(req.ListType)
	}
	list, err := s.mgr.CreateList(reqCtx(r), req.ListKey, req.Title, lt, req.Metadata, req.Actor)
	if err != nil {
		writeErr(w, err)
		return
	}
	writeData(w, http.StatusCreated, list)
}

func (s *Server) listLists(w http.ResponseWriter, r *http.Request) {
	limit := queryInt(r, "limit", 0)
	lists, err := s.mgr.ListLists(reqCtx(r), limit)
	if err != nil {
		writeErr(w, err)
		return
	}
	writeData(w, http.StatusOK, lists)
}

func (s *Server) getList(w http.ResponseWriter, r *http.Request) {
	list, err := s.mgr.GetList(reqCtx(r), r.PathValue("list"))
	if err != nil {
		writeErr(w, err)
		return
	}
	writeData(w, http.StatusOK, list)
}

type updateListRequest struct {
	Title    *string        `json:"title"`
	Status   *string        `json:"status"`
	Metadata map[string]any `json:"metadata"`
	Actor    string         `json:"actor"`
}

func (s *Server) updateList(w http.ResponseWriter, r *http.Request) {
	var req updateListRequest
	if err := decode(r, &req); err != nil {
		writeErr(w, err)
		return
	}
	patch := storage.ListPatch{Title: req.Title, Metadata: req.Metadata}
	if req.Status != nil {
		st := types.ListStatus(*req.Status)
		patch.Status = &st
	}
	list, err := s.mgr.UpdateList(reqCtx(r), r.PathValue("list"), patch, req.Actor)
	if err != nil {
		writeErr(w, err)
		return
	}
	writeData(w, http.StatusOK, list)
}

func (s *Server) deleteList(w http.ResponseWriter, r *http.Request) {
	actor := r.URL.Query().Get("actor")
	if _, err := s.mgr.DeleteList(reqCtx(r), r.PathValue("list"), actor); err != nil {
		writeErr(w, err)
		return
	}
	writeData(w, http.StatusOK, map[string]bool{"deleted": true})
}

func (s *Server) archiveList(w http.ResponseWriter, r *http.Request) {
	actor := r.URL.Query().Get("actor")
	list, err := s.mgr.ArchiveList(reqCtx(r), r.PathValue("list"), actor)
	if err != nil {
		writeErr(w, err)
		return
	}
	writeData(w, http.StatusOK, list)
}

func (s *Server) unarchiveList(w http.ResponseWriter, r *http.Request) {
	actor := r.URL.Query().Get("actor")
	list, err := s.mgr.UnarchiveList(reqCtx(r), r.PathValue("list"), actor)
	if err != nil {
		writeErr(w, err)
		return
	}
	writeData(w, http.StatusOK, list)
}

type tagLinkRequest struct {
	Name  string `json:"name"`
	Actor string `json:"actor"`
}

func (s *Server) linkTag(w http.ResponseWriter, r *http.Request) {
	var req tagLinkRequest
	if err := decode(r, &req); err != nil {
		writeErr(w, err)
		return
	}
	tag, err := s.mgr.LinkTag(reqCtx(r), r.PathValue("list"), req.Name, req.Actor)
	if err != nil {
		writeErr(w, err)
		return
	}
	writeData(w, http.StatusOK, tag)
}

func (s *Server) unlinkTag(w http.ResponseWriter, r *http.Request) {
	actor := r.URL.Query().Get("actor")
	if _, err := s.mgr.UnlinkTag(reqCtx(r), r.PathValue("list"), r.PathValue("tag"), actor); err != nil {
		writeErr(w, err)
		return
	}
	writeData(w, http.StatusOK, map[string]bool{"unlinked": true})
}

func (s *Server) exportList(w http.ResponseWriter, r *http.Request) {
	data, err := s.mgr.ExportList(reqCtx(r), r.PathValue("list"))
	if err != nil {
		writeErr(w, err)
		return
	}
	writeData(w, http.StatusOK, data)
}

type importRequest struct {
	List  *manager.ExportedList `json:"list"`
	AsKey string                `json:"as_key"`
	Actor string                `json:"actor"`
}

func (s *Server) importList(w http.ResponseWriter, r *http.Request) {
	var req importRequest
	if err := decode(r, &req); err != nil {
		writeErr(w, err)
		return
	}
	list, err := s.mgr.ImportList(reqCtx(r), req.List, req.AsKey, req.Actor)
	if err != nil {
		writeErr(w, err)
		return
	}
	writeData(w, http.StatusCreated, list)
}

func (s *Server) listHistory(w http.ResponseWriter, r *http.Request) {
	limit := queryInt(r, "limit", 0)
	entries, err := s.mgr.ListHistory(reqCtx(r), r.PathValue("list"), limit)
	if err != nil {
		writeErr(w, err)
		return
	}
	writeData(w, http.StatusOK, entries)
}
