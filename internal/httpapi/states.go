package httpapi

import "net/http"

func (s *Server) listCompletionStates(w http.ResponseWriter, r *http.Request) {
	states, err := s.mgr.CompletionStates(reqCtx(r), r.PathValue("list"), r.PathValue("item"))
	if err != nil {
		writeErr(w, err)
		return
	}
	writeData(w, http.StatusOK, states)
}

type setStateRequest struct {
	Value any    `json:"value"`
	Actor string `json:"actor"`
}

func (s *Server) setCompletionState(w http.ResponseWriter, r *http.Request) {
	var req setStateRequest
	if err := decode(r, &req); err != nil {
		writeErr(w, err)
		return
	}
	item, err := s.mgr.SetCompletionState(reqCtx(r), r.PathValue("list"), r.PathValue("item"), r.PathValue("key"), req.Value, req.Actor)
	if err != nil {
		writeErr(w, err)
		return
	}
	writeData(w, http.StatusOK, item)
}

func (s *Server) removeCompletionState(w http.ResponseWriter, r *http.Request) {
	actor := r.URL.Query().Get("actor")
	item, err := s.mgr.RemoveCompletionState(reqCtx(r), r.PathValue("list"), r.PathValue("item"), r.PathValue("key"), actor)
	if err != nil {
		writeErr(w, err)
		return
	}
	writeData(w, http.StatusOK, item)
}

func (s *Server) clearCompletionStates(w http.ResponseWriter, r *http.Request) {
	actor := r.URL.Query().Get("actor")
	item, err := s.mgr.ClearCompletionStates(reqCtx(r), r.PathValue("list"), r.PathValue("item"), actor)
	if err != nil {
		writeErr(w, err)
		return
	}
	writeData(w, http.StatusOK, item)
}
