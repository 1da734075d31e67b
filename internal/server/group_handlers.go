package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/hisab-io/hisab/internal/middleware"
	"github.com/hisab-io/hisab/internal/models"
)

type createGroupRequest struct {
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Currency    string   `json:"currency"`
	Members     []string `json:"members"`
}

type groupResponse struct {
	Success bool          `json:"success"`
	Message string        `json:"message,omitempty"`
	Group   *models.Group `json:"group"`
}

type groupListResponse struct {
	Success bool            `json:"success"`
	Count   int             `json:"count"`
	Groups  []*models.Group `json:"groups"`
}

type balancesResponse struct {
	Success  bool                   `json:"success"`
	Balances []models.MemberBalance `json:"balances"`
}

func (s *Server) handleCreateGroup(w http.ResponseWriter, r *http.Request) {
	var req createGroupRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}

	group, err := s.groups.CreateGroup(r.Context(), middleware.GetUserID(r.Context()),
		req.Name, req.Description, req.Currency, req.Members)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, groupResponse{
		Success: true,
		Message: "Group created successfully",
		Group:   group,
	})
}

func (s *Server) handleListGroups(w http.ResponseWriter, r *http.Request) {
	groups, err := s.groups.ListMyGroups(r.Context(), middleware.GetUserID(r.Context()))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, groupListResponse{
		Success: true,
		Count:   len(groups),
		Groups:  groups,
	})
}

func (s *Server) handleGetGroup(w http.ResponseWriter, r *http.Request) {
	group, err := s.groups.GetGroup(r.Context(), middleware.GetUserID(r.Context()), chi.URLParam(r, "groupID"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, groupResponse{Success: true, Group: group})
}

func (s *Server) handleDeleteGroup(w http.ResponseWriter, r *http.Request) {
	if err := s.groups.DeleteGroup(r.Context(), middleware.GetUserID(r.Context()), chi.URLParam(r, "groupID")); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, statusResponse{Success: true, Message: "Group deleted successfully"})
}

type addMemberRequest struct {
	UserID string `json:"userId"`
}

func (s *Server) handleAddMember(w http.ResponseWriter, r *http.Request) {
	var req addMemberRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}

	group, err := s.groups.AddMember(r.Context(), middleware.GetUserID(r.Context()),
		chi.URLParam(r, "groupID"), req.UserID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, groupResponse{
		Success: true,
		Message: "Member added successfully",
		Group:   group,
	})
}

func (s *Server) handleGroupBalances(w http.ResponseWriter, r *http.Request) {
	balances, err := s.groups.GroupBalances(r.Context(), middleware.GetUserID(r.Context()), chi.URLParam(r, "groupID"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, balancesResponse{Success: true, Balances: balances})
}
