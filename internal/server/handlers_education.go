package server

import (
	"net/http"
	"strconv"
	"strings"
)

// handleEducationModules handles GET /api/education/modules.
func (s *Server) handleEducationModules(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}
	user := s.requireUser(w, r)
	if user == nil {
		return
	}

	modules, err := s.app.EducationService.ListModules(r.Context(), user)
	if err != nil {
		s.logger.Error().Err(err).Msg("Module listing failed")
		WriteError(w, http.StatusInternalServerError, "Failed to fetch modules")
		return
	}
	WriteJSON(w, http.StatusOK, modules)
}

// handleEducationComplete handles POST /api/education/modules/{id}/complete.
func (s *Server) handleEducationComplete(w http.ResponseWriter, r *http.Request) {
	if !strings.HasSuffix(r.URL.Path, "/complete") {
		WriteError(w, http.StatusNotFound, "Not found")
		return
	}
	if !RequireMethod(w, r, http.MethodPost) {
		return
	}
	user := s.requireUser(w, r)
	if user == nil {
		return
	}

	idStr := PathParam(r, "/api/education/modules/", "/complete")
	moduleID, err := strconv.Atoi(idStr)
	if err != nil {
		WriteError(w, http.StatusBadRequest, "Invalid module id")
		return
	}

	completion, err := s.app.EducationService.CompleteModule(r.Context(), user.ID, moduleID)
	if err != nil {
		WriteError(w, http.StatusBadRequest, err.Error())
		return
	}
	WriteJSON(w, http.StatusOK, completion)
}
