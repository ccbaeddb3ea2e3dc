package httpapi

import (
	"net/http"

	"github.com/taskgraph-dev/tg/internal/types"
)

func (s *Server) listItems(w http.ResponseWriter, r *http.Request) {
	limit := queryInt(r, "limit", 0)
	var status *types.ItemStatus
	if raw := r.URL.Query().Get("status"); raw != "" {
		st := types.ItemStatus(raw)
		status = &st
	}
	items, err := s.mgr.ListItems(reqCtx(r), r.PathValue("list"), status, limit)
	if err != nil {
		writeErr(w, err)
		return
	}
	writeData(w, http.StatusOK, items)
}

type addItemRequest struct {
	ItemKey   string         `json:"item_key"`
	Content   string         `json:"content"`
	ParentKey *string        `json:"parent_key"`
	Metadata  map[string]any `json:"metadata"`
	Actor     string         `json:"actor"`
}

func (s *Server) addItem(w http.ResponseWriter, r *http.Request) {
	var req addItemRequest
	if err := decode(r, &req); err != nil {
		writeErr(w, err)
		return
	}
	item, err := s.mgr.AddItem(reqCtx(r), r.PathValue("list"), req.ItemKey, req.Content, req.ParentKey, req.Metadata, req.Actor)
	if err != nil {
		writeErr(w, err)
		return
	}
	writeData(w, http.StatusCreated, item)
}

func (s *Server) getItem(w http.ResponseWriter, r *http.Request) {
	item, err := s.mgr.GetItem(reqCtx(r), r.PathValue("list"), r.PathValue("item"))
	if err != nil {
		writeErr(w, err)
		return
	}
	writeData(w, http.StatusOK, item)
}

type editItemRequest struct {
	Content string `json:"content"`
	Actor   string `json:"actor"`
}

func (s *Server) editItem(w http.ResponseWriter, r *http.Request) {
	var req editItemRequest
	if err := decode(r, &req); err != nil {
		writeErr(w, err)
		return
	}
	item, err := s.mgr.EditItemContent(reqCtx(r), r.PathValue("list"), r.PathValue("item"), req.Content, req.Actor)
	if err != nil {
		writeErr(w, err)
		return
	}
	writeData(w, http.StatusOK, item)
}

func (s *Server) deleteItem(w http.ResponseWriter, r *http.Request) {
	actor := r.URL.Query().Get("actor")
	if _, err := s.mgr.DeleteItem(reqCtx(r), r.PathValue("list"), r.PathValue("item"), actor); err != nil {
		writeErr(w, err)
		return
	}
	writeData(w, http.StatusOK, map[string]bool{"deleted": true})
}

type setStatusRequest struct {
	Status string `json:"status"`
	Actor  string `json:"actor"`
}

func (s *Server) setItemStatus(w http.ResponseWriter, r *http.Request) {
	var req setStatusRequest
	if err := decode(r, &req); err != nil {
		writeErr(w, err)
		return
	}
	item, err := s.mgr.SetItemStatus(reqCtx(r), r.PathValue("list"), r.PathValue("item"), types.ItemStatus(req.Status), req.Actor)
	if err != nil {
		writeErr(w, err)
		return
	}
	writeData(w, http.StatusOK, item)
}

type moveItemRequest struct {
	NewParentKey string `json:"new_parent_key"`
	Actor        string `json:"actor"`
}

func (s *Server) moveItem(w http.ResponseWriter, r *http.Request) {
	var req moveItemRequest
	if err := decode(r, &req); err != nil {
		writeErr(w, err)
		return
	}
	item, err := s.mgr.MoveItem(reqCtx(r), r.PathValue("list"), r.PathValue("item"), req.NewParentKey, req.Actor)
	if err != nil {
		writeErr(w, err)
		return
	}
	writeData(w, http.StatusOK, item)
}

type reorderRequest struct {
	ParentKey *string  `json:"parent_key"`
	ItemKeys  []string `json:"item_keys"`
}

func (s *Server) reorderItems(w http.ResponseWriter, r *http.Request) {
	var req reorderRequest
	if err := decode(r, &req); err != nil {
		writeErr(w, err)
		return
	}
	if err := s.mgr.Reorder(reqCtx(r), r.PathValue("list"), req.ParentKey, req.ItemKeys); err != nil {
		writeErr(w, err)
		return
	}
	writeData(w, http.StatusOK, map[string]bool{"reordered": true})
}

func (s *Server) nextPending(w http.ResponseWriter, r *http.Request) {
	simple := r.URL.Query().Get("simple") == "true"
	item, err := s.mgr.NextPending(reqCtx(r), r.PathValue("list"), simple)
	if err != nil {
		writeErr(w, err)
		return
	}
	writeData(w, http.StatusOK, item)
}

func (s *Server) itemHistory(w http.ResponseWriter, r *http.Request) {
	limit := queryInt(r, "limit", 0)
	entries, err := s.mgr.ItemHistory(reqCtx(r), r.PathValue("list"), r.PathValue("item"), limit)
	if err != nil {
		writeErr(w, err)
		return
	}
	writeData(w, http.StatusOK, entries)
}

func (s *Server) findSubitemsByStatus(w http.ResponseWriter, r *http.Request) {
	limit := queryInt(r, "limit", 0)
	conditions := map[string]types.ItemStatus{}
	for key, vals := range r.URL.Query() {
		if key == "limit" || len(vals) == 0 {
			continue
		}
		conditions[key] = types.ItemStatus(vals[0])
	}
	groups, err := s.mgr.FindSubitemsByStatus(reqCtx(r), r.PathValue("list"), conditions, limit)
	if err != nil {
		writeErr(w, err)
		return
	}
	writeData(w, http.StatusOK, groups)
}
