package httpapi

import "net/http"

func (s *Server) statistics(w http.ResponseWriter, r *http.Request) {
	stats, err := s.mgr.Statistics(reqCtx(r))
	if err != nil {
		writeErr(w, err)
		return
	}
	writeData(w, http.StatusOK, stats)
}

func (s *Server) diagnosticErrors(w http.ResponseWriter, r *http.Request) {
	issues, err := s.mgr.DiagnosticErrors(reqCtx(r))
	if err != nil {
		writeErr(w, err)
		return
	}
	writeData(w, http.StatusOK, issues)
}
