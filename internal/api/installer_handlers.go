// File: backend/internal/api/installer_handlers.go
package api

import (
	"errors"
	"log"
	"net/http"

	"github.com/fntelecomllc/dialflow/backend/internal/installer"
)

// StartInstallJobHandler launches the PSFive9Admin module install as the
// single background job. The command always comes from the configured
// source URL; callers cannot submit scripts.
// POST /api/v1/installer/jobs
func (h *APIHandler) StartInstallJobHandler(w http.ResponseWriter, r *http.Request) {
	h.configMutex.RLock()
	command := installer.DefaultCommand(h.Config.Installer.SourceURL)
	h.configMutex.RUnlock()

	if err := h.Installer.Start(command); err != nil {
		if errors.Is(err, installer.ErrJobRunning) {
			respondWithError(w, http.StatusConflict, "An install job is already running")
			return
		}
		log.Printf("API Error: Failed to start install job: %v", err)
		respondWithError(w, http.StatusInternalServerError, "Failed to start install job: "+err.Error())
		return
	}
	respondWithJSON(w, http.StatusAccepted, h.Installer.Status())
}

// GetInstallStatusHandler reports the polled state of the install job slot.
// GET /api/v1/installer/status
func (h *APIHandler) GetInstallStatusHandler(w http.ResponseWriter, r *http.Request) {
	respondWithJSON(w, http.StatusOK, h.Installer.Status())
}

// CancelInstallJobHandler kills the in-flight install job.
// DELETE /api/v1/installer/jobs
func (h *APIHandler) CancelInstallJobHandler(w http.ResponseWriter, r *http.Request) {
	if !h.Installer.Cancel() {
		respondWithError(w, http.StatusNotFound, "No install job is running")
		return
	}
	respondWithJSON(w, http.StatusOK, h.Installer.Status())
}
