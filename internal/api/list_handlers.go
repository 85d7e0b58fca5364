// File: backend/internal/api/list_handlers.go
package api

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"

	"github.com/fntelecomllc/dialflow/backend/internal/config"
	"github.com/fntelecomllc/dialflow/backend/internal/five9"
	"github.com/gorilla/mux"
)

// --- DTOs ---

// ListSelectionRequest names the contact lists an operation inspects.
type ListSelectionRequest struct {
	Lists []string `json:"lists"`
}

// ListPairRequest carries the campaign and list names whose cross-product
// an attach or detach walks.
type ListPairRequest struct {
	Campaigns []string `json:"campaigns"`
	Lists     []string `json:"lists"`
}

// ContactListsResponse is the full cached contact-list table.
type ContactListsResponse struct {
	Lists []five9.ContactList `json:"lists"`
	Count int                 `json:"count"`
}

// ContactListsPageResponse is one page of the cached contact-list table.
type ContactListsPageResponse struct {
	Lists      []five9.ContactList `json:"lists"`
	Page       int                 `json:"page"`
	PageSize   int                 `json:"pageSize"`
	TotalItems int                 `json:"totalItems"`
	TotalPages int                 `json:"totalPages"`
}

// CandidatesResponse names the campaigns that contain any of the selected
// lists, for the detach picker.
type CandidatesResponse struct {
	Candidates []string `json:"candidates"`
	Count      int      `json:"count"`
}

// --- Handlers ---

// RefreshListsHandler fetches the contact-list table from the admin service
// and caches it on the session.
// POST /api/v1/sessions/{sessionId}/lists/refresh
func (h *APIHandler) RefreshListsHandler(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	sessionID, ok := vars["sessionId"]
	if !ok {
		respondWithError(w, http.StatusBadRequest, "Session ID is missing in URL path")
		return
	}

	sess, err := h.Sessions.Get(sessionID)
	if err != nil {
		respondWithError(w, http.StatusNotFound, fmt.Sprintf("Session with ID %s not found", sessionID))
		return
	}
	if !sess.HasCredentials() {
		respondWithError(w, http.StatusBadRequest, "Session has no credentials; set credentials first")
		return
	}

	lists, result, err := h.Admin.ListContactLists(r.Context(), sess.Credentials)
	if err != nil {
		h.respondBridgeFailure(w, sessionID, result, err)
		return
	}
	h.recordBridgeOutcome(sessionID, result)

	if err := h.Sessions.SaveContactLists(sessionID, lists); err != nil {
		respondWithError(w, http.StatusNotFound, fmt.Sprintf("Session with ID %s not found", sessionID))
		return
	}
	log.Printf("API: Refreshed %d contact lists for session %s", len(lists), sessionID)
	respondWithJSON(w, http.StatusOK, ContactListsResponse{Lists: lists, Count: len(lists)})
}

// GetListsHandler pages through the cached contact-list table.
// GET /api/v1/sessions/{sessionId}/lists?page=&pageSize=
func (h *APIHandler) GetListsHandler(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	sessionID, ok := vars["sessionId"]
	if !ok {
		respondWithError(w, http.StatusBadRequest, "Session ID is missing in URL path")
		return
	}

	sess, err := h.Sessions.Get(sessionID)
	if err != nil {
		respondWithError(w, http.StatusNotFound, fmt.Sprintf("Session with ID %s not found", sessionID))
		return
	}

	page, err := queryIntParam(r, "page", 1)
	if err != nil {
		respondWithError(w, http.StatusBadRequest, err.Error())
		return
	}
	pageSize, err := queryIntParam(r, "pageSize", config.DefaultPageSize)
	if err != nil {
		respondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	total := len(sess.ContactLists)
	totalPages := 0
	if total > 0 {
		totalPages = (total + pageSize - 1) / pageSize
	}

	items := make([]five9.ContactList, 0, pageSize)
	startIdx := (page - 1) * pageSize
	if startIdx < total {
		end := startIdx + pageSize
		if end > total {
			end = total
		}
		items = append(items, sess.ContactLists[startIdx:end]...)
	}

	respondWithJSON(w, http.StatusOK, ContactListsPageResponse{
		Lists:      items,
		Page:       page,
		PageSize:   pageSize,
		TotalItems: total,
		TotalPages: totalPages,
	})
}

// GetListCandidatesHandler reports which cached campaigns contain any of
// the selected lists. The result feeds the detach picker and is cached on
// the session.
// POST /api/v1/sessions/{sessionId}/lists/candidates
func (h *APIHandler) GetListCandidatesHandler(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	sessionID, ok := vars["sessionId"]
	if !ok {
		respondWithError(w, http.StatusBadRequest, "Session ID is missing in URL path")
		return
	}

	sess, err := h.Sessions.Get(sessionID)
	if err != nil {
		respondWithError(w, http.StatusNotFound, fmt.Sprintf("Session with ID %s not found", sessionID))
		return
	}
	if !sess.HasCredentials() {
		respondWithError(w, http.StatusBadRequest, "Session has no credentials; set credentials first")
		return
	}

	var req ListSelectionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request payload: "+err.Error())
		return
	}
	defer r.Body.Close()
	if len(req.Lists) == 0 {
		respondWithError(w, http.StatusBadRequest, "At least one list name is required")
		return
	}

	campaignNames := make([]string, 0, len(sess.Campaigns))
	for _, c := range sess.Campaigns {
		campaignNames = append(campaignNames, c.Name)
	}

	candidates, result, err := h.Admin.CampaignsWithLists(r.Context(), sess.Credentials, campaignNames, req.Lists)
	if err != nil {
		h.respondBridgeFailure(w, sessionID, result, err)
		return
	}
	h.recordBridgeOutcome(sessionID, result)

	if err := h.Sessions.SaveCandidates(sessionID, candidates); err != nil {
		respondWithError(w, http.StatusNotFound, fmt.Sprintf("Session with ID %s not found", sessionID))
		return
	}
	respondWithJSON(w, http.StatusOK, CandidatesResponse{Candidates: candidates, Count: len(candidates)})
}

// AttachListsHandler attaches every selected list to every selected
// campaign.
// POST /api/v1/sessions/{sessionId}/lists/attach
func (h *APIHandler) AttachListsHandler(w http.ResponseWriter, r *http.Request) {
	h.listPairActionHandler(w, r, "attach")
}

// DetachListsHandler removes every selected list from every selected
// campaign.
// POST /api/v1/sessions/{sessionId}/lists/detach
func (h *APIHandler) DetachListsHandler(w http.ResponseWriter, r *http.Request) {
	h.listPairActionHandler(w, r, "detach")
}

func (h *APIHandler) listPairActionHandler(w http.ResponseWriter, r *http.Request, action string) {
	vars := mux.Vars(r)
	sessionID, ok := vars["sessionId"]
	if !ok {
		respondWithError(w, http.StatusBadRequest, "Session ID is missing in URL path")
		return
	}

	sess, err := h.Sessions.Get(sessionID)
	if err != nil {
		respondWithError(w, http.StatusNotFound, fmt.Sprintf("Session with ID %s not found", sessionID))
		return
	}
	if !sess.HasCredentials() {
		respondWithError(w, http.StatusBadRequest, "Session has no credentials; set credentials first")
		return
	}

	var req ListPairRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request payload: "+err.Error())
		return
	}
	defer r.Body.Close()
	if len(req.Campaigns) == 0 {
		respondWithError(w, http.StatusBadRequest, "At least one campaign name is required")
		return
	}
	if len(req.Lists) == 0 {
		respondWithError(w, http.StatusBadRequest, "At least one list name is required")
		return
	}

	call := h.Admin.AttachLists
	if action == "detach" {
		call = h.Admin.DetachLists
	}
	summary, result, err := call(r.Context(), sess.Credentials, req.Campaigns, req.Lists)
	if err != nil {
		h.respondBridgeFailure(w, sessionID, result, err)
		return
	}
	h.recordBridgeOutcome(sessionID, result)

	log.Printf("API: List %s for session %s: %d succeeded, %d failed", action, sessionID, len(summary.Succeeded), len(summary.Failed))
	respondWithJSON(w, http.StatusOK, summary)
}
