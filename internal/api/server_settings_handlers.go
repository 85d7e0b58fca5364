// File: backend/internal/api/server_settings_handlers.go
package api

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/fntelecomllc/dialflow/backend/internal/config"
)

// ServerConfigDTO exposes the non-secret server settings. The API key is
// write-through-file only and never reported.
type ServerConfigDTO struct {
	Port string `json:"port"`
}

// UpdateServerConfigRequest uses pointers to distinguish omitted fields
// from zero values.
type UpdateServerConfigRequest struct {
	Port *string `json:"port"`
}

// UpdateBridgeConfigRequest mirrors config.BridgeConfig with pointer fields
// for partial updates.
type UpdateBridgeConfigRequest struct {
	Executable       *string  `json:"executable"`
	AdminHost        *string  `json:"adminHost"`
	CommandRateLimit *float64 `json:"commandRateLimit"`
	CommandRateBurst *int     `json:"commandRateBurst"`
}

// GetServerConfigHandler retrieves current server-wide configuration.
func (h *APIHandler) GetServerConfigHandler(w http.ResponseWriter, r *http.Request) {
	h.configMutex.RLock()
	serverConfigDTO := ServerConfigDTO{Port: h.Config.Server.Port}
	h.configMutex.RUnlock()
	respondWithJSON(w, http.StatusOK, serverConfigDTO)
}

// UpdateServerConfigHandler updates server-wide configuration. A port
// change is persisted immediately and applies on the next restart.
func (h *APIHandler) UpdateServerConfigHandler(w http.ResponseWriter, r *http.Request) {
	var req UpdateServerConfigRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}
	defer r.Body.Close()

	configChanged := false
	h.configMutex.Lock()
	if req.Port != nil {
		if *req.Port != "" {
			if h.Config.Server.Port != *req.Port {
				h.Config.Server.Port = *req.Port
				configChanged = true
				log.Printf("API: Server port updated to %s; restart required to take effect.", h.Config.Server.Port)
			}
		} else {
			log.Printf("API Warning: UpdateServerConfigHandler - Empty port received. Not updating.")
		}
	}
	if configChanged {
		if err := config.Save(h.Config, h.Config.GetLoadedFromPath()); err != nil {
			h.configMutex.Unlock()
			log.Printf("API Error: UpdateServerConfigHandler - Failed to save updated server config: %v", err)
			respondWithError(w, http.StatusInternalServerError, "Failed to save server configuration")
			return
		}
	}
	serverConfigDTO := ServerConfigDTO{Port: h.Config.Server.Port}
	h.configMutex.Unlock()
	respondWithJSON(w, http.StatusOK, serverConfigDTO)
}

// GetBridgeConfigHandler retrieves the PowerShell bridge configuration.
func (h *APIHandler) GetBridgeConfigHandler(w http.ResponseWriter, r *http.Request) {
	h.configMutex.RLock()
	bridgeConfig := h.Config.Bridge
	h.configMutex.RUnlock()
	respondWithJSON(w, http.StatusOK, bridgeConfig)
}

// UpdateBridgeConfigHandler updates the bridge configuration. Executable
// and rate-limit changes apply to new bridge clients, so a restart is
// required for them to take effect; the admin host feeds preflight checks
// immediately.
func (h *APIHandler) UpdateBridgeConfigHandler(w http.ResponseWriter, r *http.Request) {
	var req UpdateBridgeConfigRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}
	defer r.Body.Close()

	if req.CommandRateLimit != nil && *req.CommandRateLimit <= 0 {
		respondWithError(w, http.StatusBadRequest, "commandRateLimit must be greater than zero")
		return
	}
	if req.CommandRateBurst != nil && *req.CommandRateBurst <= 0 {
		respondWithError(w, http.StatusBadRequest, "commandRateBurst must be greater than zero")
		return
	}

	configChanged := false
	h.configMutex.Lock()
	if req.Executable != nil && h.Config.Bridge.Executable != *req.Executable {
		h.Config.Bridge.Executable = *req.Executable
		configChanged = true
	}
	if req.AdminHost != nil && h.Config.Bridge.AdminHost != *req.AdminHost {
		h.Config.Bridge.AdminHost = *req.AdminHost
		configChanged = true
	}
	if req.CommandRateLimit != nil && h.Config.Bridge.CommandRateLimit != *req.CommandRateLimit {
		h.Config.Bridge.CommandRateLimit = *req.CommandRateLimit
		configChanged = true
	}
	if req.CommandRateBurst != nil && h.Config.Bridge.CommandRateBurst != *req.CommandRateBurst {
		h.Config.Bridge.CommandRateBurst = *req.CommandRateBurst
		configChanged = true
	}
	if configChanged {
		if err := config.Save(h.Config, h.Config.GetLoadedFromPath()); err != nil {
			h.configMutex.Unlock()
			log.Printf("API Error: UpdateBridgeConfigHandler - Failed to save updated bridge config: %v", err)
			respondWithError(w, http.StatusInternalServerError, "Failed to save bridge configuration")
			return
		}
		log.Printf("API: Updated bridge configuration; executable and rate-limit changes apply after restart.")
	}
	bridgeConfig := h.Config.Bridge
	h.configMutex.Unlock()
	respondWithJSON(w, http.StatusOK, bridgeConfig)
}

// GetLoggingConfigHandler retrieves the current logging configuration.
func (h *APIHandler) GetLoggingConfigHandler(w http.ResponseWriter, r *http.Request) {
	h.configMutex.RLock()
	loggingConfig := h.Config.Logging
	h.configMutex.RUnlock()
	respondWithJSON(w, http.StatusOK, loggingConfig)
}

// UpdateLoggingConfigHandler updates the logging configuration.
func (h *APIHandler) UpdateLoggingConfigHandler(w http.ResponseWriter, r *http.Request) {
	var reqLogging config.LoggingConfig
	if err := json.NewDecoder(r.Body).Decode(&reqLogging); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}
	defer r.Body.Close()

	h.configMutex.Lock()
	h.Config.Logging = reqLogging
	if err := config.Save(h.Config, h.Config.GetLoadedFromPath()); err != nil {
		h.configMutex.Unlock()
		log.Printf("API Error: Failed to save updated Logging config: %v", err)
		respondWithError(w, http.StatusInternalServerError, "Failed to save Logging configuration")
		return
	}
	h.configMutex.Unlock()
	log.Printf("API: Updated server Logging configuration. New level: %s", reqLogging.Level)
	respondWithJSON(w, http.StatusOK, reqLogging)
}
