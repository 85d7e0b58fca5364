// File: backend/internal/api/router.go
package api

import (
	"net/http"

	"github.com/fntelecomllc/dialflow/backend/internal/config"
	"github.com/fntelecomllc/dialflow/backend/internal/five9"
	"github.com/fntelecomllc/dialflow/backend/internal/installer"
	"github.com/fntelecomllc/dialflow/backend/internal/session"
	"github.com/gorilla/mux"
)

func NewRouter(cfg *config.AppConfig, sessions *session.Store, admin *five9.AdminClient, installMgr *installer.Manager) *mux.Router {
	router := mux.NewRouter()
	apiHandler := NewAPIHandler(cfg, sessions, admin, installMgr)

	router.Use(LoggingMiddleware)
	router.Use(CORSMiddleware)

	router.HandleFunc("/ping", apiHandler.PingHandler).Methods(http.MethodGet, http.MethodOptions)

	apiV1 := router.PathPrefix("/api/v1").Subrouter()
	apiV1.Use(APIKeyAuthMiddleware(cfg.Server.APIKey))

	// Sessions
	apiV1.HandleFunc("/sessions", apiHandler.CreateSessionHandler).Methods(http.MethodPost, http.MethodOptions)
	apiV1.HandleFunc("/sessions/{sessionId}", apiHandler.GetSessionHandler).Methods(http.MethodGet, http.MethodOptions)
	apiV1.HandleFunc("/sessions/{sessionId}", apiHandler.DeleteSessionHandler).Methods(http.MethodDelete, http.MethodOptions)
	apiV1.HandleFunc("/sessions/{sessionId}/credentials", apiHandler.SetCredentialsHandler).Methods(http.MethodPut, http.MethodOptions)
	apiV1.HandleFunc("/sessions/{sessionId}/credentials", apiHandler.ClearCredentialsHandler).Methods(http.MethodDelete, http.MethodOptions)
	apiV1.HandleFunc("/sessions/{sessionId}/debug", apiHandler.GetSessionDebugHandler).Methods(http.MethodGet, http.MethodOptions)

	// Campaigns
	apiV1.HandleFunc("/sessions/{sessionId}/campaigns/refresh", apiHandler.RefreshCampaignsHandler).Methods(http.MethodPost, http.MethodOptions)
	apiV1.HandleFunc("/sessions/{sessionId}/campaigns", apiHandler.GetCampaignsHandler).Methods(http.MethodGet, http.MethodOptions)
	apiV1.HandleFunc("/sessions/{sessionId}/campaigns/start", apiHandler.StartCampaignsHandler).Methods(http.MethodPost, http.MethodOptions)
	apiV1.HandleFunc("/sessions/{sessionId}/campaigns/stop", apiHandler.StopCampaignsHandler).Methods(http.MethodPost, http.MethodOptions)

	// Contact lists
	apiV1.HandleFunc("/sessions/{sessionId}/lists/refresh", apiHandler.RefreshListsHandler).Methods(http.MethodPost, http.MethodOptions)
	apiV1.HandleFunc("/sessions/{sessionId}/lists", apiHandler.GetListsHandler).Methods(http.MethodGet, http.MethodOptions)
	apiV1.HandleFunc("/sessions/{sessionId}/lists/candidates", apiHandler.GetListCandidatesHandler).Methods(http.MethodPost, http.MethodOptions)
	apiV1.HandleFunc("/sessions/{sessionId}/lists/attach", apiHandler.AttachListsHandler).Methods(http.MethodPost, http.MethodOptions)
	apiV1.HandleFunc("/sessions/{sessionId}/lists/detach", apiHandler.DetachListsHandler).Methods(http.MethodPost, http.MethodOptions)

	// Module installer
	apiV1.HandleFunc("/installer/jobs", apiHandler.StartInstallJobHandler).Methods(http.MethodPost, http.MethodOptions)
	apiV1.HandleFunc("/installer/jobs", apiHandler.CancelInstallJobHandler).Methods(http.MethodDelete, http.MethodOptions)
	apiV1.HandleFunc("/installer/status", apiHandler.GetInstallStatusHandler).Methods(http.MethodGet, http.MethodOptions)

	// Preflight
	apiV1.HandleFunc("/preflight", apiHandler.RunPreflightHandler).Methods(http.MethodGet, http.MethodOptions)

	// Configuration Management
	apiV1.HandleFunc("/config/server", apiHandler.GetServerConfigHandler).Methods(http.MethodGet, http.MethodOptions)
	apiV1.HandleFunc("/config/server", apiHandler.UpdateServerConfigHandler).Methods(http.MethodPut, http.MethodOptions)
	apiV1.HandleFunc("/config/bridge", apiHandler.GetBridgeConfigHandler).Methods(http.MethodGet, http.MethodOptions)
	apiV1.HandleFunc("/config/bridge", apiHandler.UpdateBridgeConfigHandler).Methods(http.MethodPut, http.MethodOptions)
	apiV1.HandleFunc("/config/logging", apiHandler.GetLoggingConfigHandler).Methods(http.MethodGet, http.MethodOptions)
	apiV1.HandleFunc("/config/logging", apiHandler.UpdateLoggingConfigHandler).Methods(http.MethodPut, http.MethodOptions)

	return router
}
