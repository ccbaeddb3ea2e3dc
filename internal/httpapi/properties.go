package httpapi

import "net/http"

type propertyRequest struct {
	Value string `json:"value"`
	Actor string `json:"actor"`
}

func (s *Server) listListProperties(w http.ResponseWriter, r *http.Request) {
	props, err := s.mgr.ListListProperties(reqCtx(r), r.PathValue("list"))
	if err != nil {
		writeErr(w, err)
		return
	}
	writeData(w, http.StatusOK, props)
}

func (s *Server) setListProperty(w http.ResponseWriter, r *http.Request) {
	var req propertyRequest
	if err := decode(r, &req); err != nil {
		writeErr(w, err)
		return
	}
	prop, err := s.mgr.SetListProperty(reqCtx(r), r.PathValue("list"), r.PathValue("key"), req.Value, req.Actor)
	if err != nil {
		writeErr(w, err)
		return
	}
	writeData(w, http.StatusOK, prop)
}

func (s *Server) getListProperty(w http.ResponseWriter, r *http.Request) {
	prop, err := s.mgr.GetListProperty(reqCtx(r), r.PathValue("list"), r.PathValue("key"))
	if err != nil {
		writeErr(w, err)
		return
	}
	writeData(w, http.StatusOK, prop)
}

func (s *Server) deleteListProperty(w http.ResponseWriter, r *http.Request) {
	actor := r.URL.Query().Get("actor")
	if _, err := s.mgr.DeleteListProperty(reqCtx(r), r.PathValue("list"), r.PathValue("key"), actor); err != nil {
		writeErr(w, err)
		return
	}
	writeData(w, http.StatusOK, map[string]bool{"deleted": true})
}

func (s *Server) listItemProperties(w http.ResponseWriter, r *http.Request) {
	props, err := s.mgr.ListItemProperties(reqCtx(r), r.PathValue("list"), r.PathValue("item"))
	if err != nil {
		writeErr(w, err)
		return
	}
	writeData(w, http.StatusOK, props)
}

func (s *Server) setItemProperty(w http.ResponseWriter, r *http.Request) {
	var req propertyRequest
	if err := decode(r, &req); err != nil {
		writeErr(w, err)
		return
	}
	prop, err := s.mgr.SetItemProperty(reqCtx(r), r.PathValue("list"), r.PathValue("item"), r.PathValue("key"), req.Value, req.Actor)
	if err != nil {
		writeErr(w, err)
		return
	}
	writeData(w, http.StatusOK, prop)
}

func (s *Server) getItemProperty(w http.ResponseWriter, r *http.Request) {
	prop, err := s.mgr.GetItemProperty(reqCtx(r), r.PathValue("list"), r.PathValue("item"), r.PathValue("key"))
	if err != nil {
		writeErr(w, err)
		return
	}
	writeData(w, http.StatusOK, prop)
}

func (s *Server) deleteItemProperty(w http.ResponseWriter, r *http.Request) {
	actor := r.URL.Query().Get("actor")
	if _, err := s.mgr.DeleteItemProperty(reqCtx(r), r.PathValue("list"), r.PathValue("item"), r.PathValue("key"), actor); err != nil {
		writeErr(w, err)
		return
	}
	writeData(w, http.StatusOK, map[string]bool{"deleted": true})
}

func (s *Server) findItemsByProperty(w http.ResponseWriter, r *http.Request) {
	key := r.URL.Query().Get("key")
	value := r.URL.Query().Get("value")
	limit := queryInt(r, "limit", 0)
	items, err := s.mgr.FindItemsByProperty(reqCtx(r), r.PathValue("list"), key, value, limit)
	if err != nil {
		writeErr(w, err)
		return
	}
	writeData(w, http.StatusOK, items)
}
