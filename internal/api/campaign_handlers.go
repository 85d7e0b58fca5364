// File: backend/internal/api/campaign_handlers.go
package api

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"strings"

	"github.com/fntelecomllc/dialflow/backend/internal/five9"
	"github.com/gorilla/mux"
)

// --- DTOs ---

// CampaignNamesRequest names the campaigns a bulk action targets.
type CampaignNamesRequest struct {
	Names []string `json:"names"`
}

// CampaignsResponse is a view of the campaign table cached on a session.
type CampaignsResponse struct {
	Campaigns []five9.Campaign `json:"campaigns"`
	Count     int              `json:"count"`
}

// --- Handlers ---

// RefreshCampaignsHandler fetches the campaign table from the admin service
// and caches it on the session.
// POST /api/v1/sessions/{sessionId}/campaigns/refresh
func (h *APIHandler) RefreshCampaignsHandler(w http.ResponseWriter, r *http.Request) {
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

	campaigns, result, err := h.Admin.ListCampaigns(r.Context(), sess.Credentials)
	if err != nil {
		h.respondBridgeFailure(w, sessionID, result, err)
		return
	}
	h.recordBridgeOutcome(sessionID, result)

	if err := h.Sessions.SaveCampaigns(sessionID, campaigns); err != nil {
		respondWithError(w, http.StatusNotFound, fmt.Sprintf("Session with ID %s not found", sessionID))
		return
	}
	log.Printf("API: Refreshed %d campaigns for session %s", len(campaigns), sessionID)
	respondWithJSON(w, http.StatusOK, CampaignsResponse{Campaigns: campaigns, Count: len(campaigns)})
}

// GetCampaignsHandler returns the cached campaign table, optionally
// filtered by run state for the start/stop pickers.
// GET /api/v1/sessions/{sessionId}/campaigns?state=running|notrunning
func (h *APIHandler) GetCampaignsHandler(w http.ResponseWriter, r *http.Request) {
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

	stateQuery := strings.ToLower(r.URL.Query().Get("state"))
	filtered := make([]five9.Campaign, 0, len(sess.Campaigns))
	switch stateQuery {
	case "":
		filtered = append(filtered, sess.Campaigns...)
	case "running":
		for _, c := range sess.Campaigns {
			if c.State == five9.StateRunning {
				filtered = append(filtered, c)
			}
		}
	case "notrunning":
		for _, c := range sess.Campaigns {
			if c.State != five9.StateRunning {
				filtered = append(filtered, c)
			}
		}
	default:
		respondWithError(w, http.StatusBadRequest, fmt.Sprintf("Invalid state filter '%s' (use 'running' or 'notrunning')", stateQuery))
		return
	}
	respondWithJSON(w, http.StatusOK, CampaignsResponse{Campaigns: filtered, Count: len(filtered)})
}

// StartCampaignsHandler starts the named campaigns, one admin call for the
// whole batch.
// POST /api/v1/sessions/{sessionId}/campaigns/start
func (h *APIHandler) StartCampaignsHandler(w http.ResponseWriter, r *http.Request) {
	h.campaignActionHandler(w, r, "start")
}

// StopCampaignsHandler force-stops the named campaigns.
// POST /api/v1/sessions/{sessionId}/campaigns/stop
func (h *APIHandler) StopCampaignsHandler(w http.ResponseWriter, r *http.Request) {
	h.campaignActionHandler(w, r, "stop")
}

func (h *APIHandler) campaignActionHandler(w http.ResponseWriter, r *http.Request, action string) {
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

	var req CampaignNamesRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request payload: "+err.Error())
		return
	}
	defer r.Body.Close()
	if len(req.Names) == 0 {
		respondWithError(w, http.StatusBadRequest, "At least one campaign name is required")
		return
	}

	call := h.Admin.StartCampaigns
	if action == "stop" {
		call = h.Admin.StopCampaigns
	}
	summary, result, err := call(r.Context(), sess.Credentials, req.Names)
	if err != nil {
		h.respondBridgeFailure(w, sessionID, result, err)
		return
	}
	h.recordBridgeOutcome(sessionID, result)

	log.Printf("API: Campaign %s for session %s: %d succeeded, %d failed", action, sessionID, len(summary.Succeeded), len(summary.Failed))
	respondWithJSON(w, http.StatusOK, summary)
}
