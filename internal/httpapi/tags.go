package httpapi

import "net/http"

type createTagRequest struct {
	Name string `json:"name"`
}

func (s *Server) createTag(w http.ResponseWriter, r *http.Request) {
	var req createTagRequest
	if err := decode(r, &req); err != nil {
		writeErr(w, err)
		return
	}
	tag, err := s.mgr.CreateTag(reqCtx(r), req.Name)
	if err != nil {
		writeErr(w, err)
		return
	}
	writeData(w, http.StatusCreated, tag)
}

func (s *Server) listTags(w http.ResponseWriter, r *http.Request) {
	tags, err := s.mgr.ListTags(reqCtx(r))
	if err != nil {
		writeErr(w, err)
		return
	}
	writeData(w, http.StatusOK, tags)
}

func (s *Server) deleteTag(w http.ResponseWriter, r *http.Request) {
	if _, err := s.mgr.DeleteTag(reqCtx(r), r.PathValue("name")); err != nil {
		writeErr(w, err)
		return
	}
	writeData(w, http.StatusOK, map[string]bool{"deleted": true})
}
