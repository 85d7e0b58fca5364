// File: backend/internal/api/preflight_handlers.go
package api

import (
	"net/http"

	"github.com/fntelecomllc/dialflow/backend/internal/preflight"
)

// RunPreflightHandler probes the interpreter, admin-host DNS, and install
// source reachability. The checker is rebuilt per request so bridge and
// installer setting changes take effect immediately. Results are advisory.
// GET /api/v1/preflight
func (h *APIHandler) RunPreflightHandler(w http.ResponseWriter, r *http.Request) {
	h.configMutex.RLock()
	checker := preflight.New(h.Config.Preflight, h.Config.Bridge.Executable, h.Config.Bridge.AdminHost, h.Config.Installer.SourceURL)
	h.configMutex.RUnlock()

	respondWithJSON(w, http.StatusOK, checker.Run(r.Context()))
}
