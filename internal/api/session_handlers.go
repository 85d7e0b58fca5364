// File: backend/internal/api/session_handlers.go
package api

import (
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"time"

	"github.com/fntelecomllc/dialflow/backend/internal/five9"
	"github.com/fntelecomllc/dialflow/backend/internal/session"
	"github.com/gorilla/mux"
)

// --- DTOs ---

// CreateSessionRequest carries optional initial credentials for a new
// dashboard session. An empty body opens a session without credentials.
type CreateSessionRequest struct {
	Username string `json:"username,omitempty"`
	Password string `json:"password,omitempty"`
}

// SetCredentialsRequest replaces the credentials cached on a session.
type SetCredentialsRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// SessionResponse is the redacted session view. The password never leaves
// the server.
type SessionResponse struct {
	SessionID      string `json:"sessionId"`
	CreatedAt      string `json:"createdAt"`
	LastUsedAt     string `json:"lastUsedAt"`
	Username       string `json:"username,omitempty"`
	HasCredentials bool   `json:"hasCredentials"`
	CampaignCount  int    `json:"campaignCount"`
	ListCount      int    `json:"listCount"`
}

// DebugResponse carries the captured output of the session's most recent
// bridge command.
type DebugResponse struct {
	Stdout string `json:"stdout"`
	Stderr string `json:"stderr"`
}

func newSessionResponse(sess session.Session) SessionResponse {
	return SessionResponse{
		SessionID:      sess.ID,
		CreatedAt:      sess.CreatedAt.Format(time.RFC3339),
		LastUsedAt:     sess.LastUsedAt.Format(time.RFC3339),
		Username:       sess.Credentials.Username,
		HasCredentials: sess.HasCredentials(),
		CampaignCount:  len(sess.Campaigns),
		ListCount:      len(sess.ContactLists),
	}
}

// --- Handlers ---

// CreateSessionHandler opens a new dashboard session.
// POST /api/v1/sessions
func (h *APIHandler) CreateSessionHandler(w http.ResponseWriter, r *http.Request) {
	var req CreateSessionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && err != io.EOF {
		respondWithError(w, http.StatusBadRequest, "Invalid request payload: "+err.Error())
		return
	}
	defer r.Body.Close()

	if (req.Username == "") != (req.Password == "") {
		respondWithError(w, http.StatusBadRequest, "Username and password must be provided together")
		return
	}

	sess := h.Sessions.Create(five9.Credentials{Username: req.Username, Password: req.Password})
	log.Printf("API: Session %s created (credentials cached: %t)", sess.ID, sess.HasCredentials())
	respondWithJSON(w, http.StatusCreated, newSessionResponse(sess))
}

// GetSessionHandler returns the redacted view of one session.
// GET /api/v1/sessions/{sessionId}
func (h *APIHandler) GetSessionHandler(w http.ResponseWriter, r *http.Request) {
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
	respondWithJSON(w, http.StatusOK, newSessionResponse(sess))
}

// DeleteSessionHandler discards a session and everything cached on it.
// DELETE /api/v1/sessions/{sessionId}
func (h *APIHandler) DeleteSessionHandler(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	sessionID, ok := vars["sessionId"]
	if !ok {
		respondWithError(w, http.StatusBadRequest, "Session ID is missing in URL path")
		return
	}

	if err := h.Sessions.Delete(sessionID); err != nil {
		respondWithError(w, http.StatusNotFound, fmt.Sprintf("Session with ID %s not found", sessionID))
		return
	}
	log.Printf("API: Session %s deleted", sessionID)
	respondWithJSON(w, http.StatusNoContent, nil)
}

// SetCredentialsHandler replaces the credentials cached on a session.
// PUT /api/v1/sessions/{sessionId}/credentials
func (h *APIHandler) SetCredentialsHandler(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	sessionID, ok := vars["sessionId"]
	if !ok {
		respondWithError(w, http.StatusBadRequest, "Session ID is missing in URL path")
		return
	}

	var req SetCredentialsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request payload: "+err.Error())
		return
	}
	defer r.Body.Close()

	if req.Username == "" || req.Password == "" {
		respondWithError(w, http.StatusBadRequest, "Username and password are required")
		return
	}

	if err := h.Sessions.SetCredentials(sessionID, five9.Credentials{Username: req.Username, Password: req.Password}); err != nil {
		respondWithError(w, http.StatusNotFound, fmt.Sprintf("Session with ID %s not found", sessionID))
		return
	}
	log.Printf("API: Credentials updated for session %s", sessionID)

	sess, err := h.Sessions.Get(sessionID)
	if err != nil {
		respondWithError(w, http.StatusNotFound, fmt.Sprintf("Session with ID %s not found", sessionID))
		return
	}
	respondWithJSON(w, http.StatusOK, newSessionResponse(sess))
}

// ClearCredentialsHandler zeroes the cached credentials; the session and
// its cached tables survive.
// DELETE /api/v1/sessions/{sessionId}/credentials
func (h *APIHandler) ClearCredentialsHandler(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	sessionID, ok := vars["sessionId"]
	if !ok {
		respondWithError(w, http.StatusBadRequest, "Session ID is missing in URL path")
		return
	}

	if err := h.Sessions.ClearCredentials(sessionID); err != nil {
		respondWithError(w, http.StatusNotFound, fmt.Sprintf("Session with ID %s not found", sessionID))
		return
	}
	log.Printf("API: Credentials cleared for session %s", sessionID)

	sess, err := h.Sessions.Get(sessionID)
	if err != nil {
		respondWithError(w, http.StatusNotFound, fmt.Sprintf("Session with ID %s not found", sessionID))
		return
	}
	respondWithJSON(w, http.StatusOK, newSessionResponse(sess))
}

// GetSessionDebugHandler returns the raw output of the session's most
// recent bridge command for the dashboard's debug console.
// GET /api/v1/sessions/{sessionId}/debug
func (h *APIHandler) GetSessionDebugHandler(w http.ResponseWriter, r *http.Request) {
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
	respondWithJSON(w, http.StatusOK, DebugResponse{Stdout: sess.LastStdout, Stderr: sess.LastStderr})
}
