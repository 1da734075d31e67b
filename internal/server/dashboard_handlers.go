package server

import (
	"net/http"

	"github.com/hisab-io/hisab/internal/middleware"
	"github.com/hisab-io/hisab/internal/models"
)

type dashboardResponse struct {
	Success   bool             `json:"success"`
	Dashboard models.Dashboard `json:"dashboard"`
}

func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	dash, err := s.dashboard.GetDashboard(r.Context(), middleware.GetUserID(r.Context()))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, dashboardResponse{Success: true, Dashboard: dash})
}
