// File: backend/internal/api/handler_base.go
package api

import (
	"errors"
	"log"
	"net/http"
	"sync"

	"github.com/fntelecomllc/dialflow/backend/internal/config"
	"github.com/fntelecomllc/dialflow/backend/internal/five9"
	"github.com/fntelecomllc/dialflow/backend/internal/installer"
	"github.com/fntelecomllc/dialflow/backend/internal/session"
	"github.com/fntelecomllc/dialflow/backend/internal/shell"
)

// APIHandler holds shared dependencies for API handlers: configuration, the
// session store, the admin bridge client, and the installer job manager.
type APIHandler struct {
	Config    *config.AppConfig
	Sessions  *session.Store
	Admin     *five9.AdminClient
	Installer *installer.Manager

	configMutex sync.RWMutex // Protects AppConfig during dynamic updates (e.g., bridge or server settings)
}

// NewAPIHandler creates a new APIHandler with dependencies.
func NewAPIHandler(cfg *config.AppConfig, sessions *session.Store, admin *five9.AdminClient, installMgr *installer.Manager) *APIHandler {
	return &APIHandler{
		Config:    cfg,
		Sessions:  sessions,
		Admin:     admin,
		Installer: installMgr,
	}
}

// recordBridgeOutcome saves a bridge command's raw output on the session's
// debug console. Every executed command is recorded, pass or fail.
func (h *APIHandler) recordBridgeOutcome(sessionID string, result shell.Result) {
	if err := h.Sessions.RecordDebug(sessionID, result.Stdout, result.Stderr); err != nil {
		log.Printf("API: Recording debug output for session %s: %v", sessionID, err)
	}
}

// respondBridgeFailure maps a failed bridge call to an API response. An
// admin-service fault surfaces as 502 with the diagnostic; a command that
// never ran (launch failure) is a server error and leaves the debug console
// untouched.
func (h *APIHandler) respondBridgeFailure(w http.ResponseWriter, sessionID string, result shell.Result, err error) {
	var bridgeErr *five9.BridgeError
	if errors.As(err, &bridgeErr) {
		h.recordBridgeOutcome(sessionID, result)
		respondWithError(w, http.StatusBadGateway, bridgeErr.Diagnostic)
		return
	}
	log.Printf("API Error: Bridge command failed to execute: %v", err)
	respondWithError(w, http.StatusInternalServerError, "Failed to execute admin command: "+err.Error())
}
