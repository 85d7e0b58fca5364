// File: backend/cmd/apiserver/main.go
package main

import (
	"log"
	"net"
	"net/http"
	"time"

	"golang.org/x/net/netutil"
	"golang.org/x/time/rate"

	"github.com/fntelecomllc/dialflow/backend/internal/api"
	"github.com/fntelecomllc/dialflow/backend/internal/config"
	"github.com/fntelecomllc/dialflow/backend/internal/five9"
	"github.com/fntelecomllc/dialflow/backend/internal/installer"
	"github.com/fntelecomllc/dialflow/backend/internal/session"
	"github.com/fntelecomllc/dialflow/backend/internal/shell"

	_ "net/http/pprof" // For profiling, if needed
)

const (
	configFilePath = "config.json"
	// maxConcurrentConns bounds accepted connections so a burst of dashboard
	// clients cannot queue more work onto the PowerShell bridge than the
	// command rate limiter can drain.
	maxConcurrentConns = 256
)

func main() {
	appConfig, err := config.Load(configFilePath)
	if err != nil {
		log.Printf("Main: Notice during config.Load: %v. Application will proceed with available/defaulted config.", err)
	}
	if appConfig == nil {
		log.Fatalf("CRITICAL: Configuration could not be loaded by config.Load, and no defaults were returned. Exiting.")
	}

	// --- API Key Configuration ---
	// config.Load already applied the DIALFLOW_API_KEY / DIALFLOW_PORT
	// environment overrides. Only an entirely absent key is patched here.
	if appConfig.Server.APIKey == "" {
		log.Printf("API Key: Empty in config.json and no ENV override. Using system default placeholder.")
		appConfig.Server.APIKey = config.DefaultSystemAPIKeyPlaceholder
	}
	if appConfig.Server.APIKey == config.DefaultSystemAPIKeyPlaceholder {
		log.Println("!!!!!!!!!!!!!!!!!!!!!!!!!!!!!!!!!!!!!!!!!!!!!!!!!!!!!!!!!!!!!!!!!!!!!!!!!!!!!!!!!!!")
		log.Println("!!! WARNING: API Key is the default system placeholder. THIS IS INSECURE.       !!!")
		log.Println("!!! Please set a unique 'server.apiKey' in 'config.json' or use               !!!")
		log.Println("!!! the 'DIALFLOW_API_KEY' environment variable for production deployments.     !!!")
		log.Println("!!!!!!!!!!!!!!!!!!!!!!!!!!!!!!!!!!!!!!!!!!!!!!!!!!!!!!!!!!!!!!!!!!!!!!!!!!!!!!!!!!!")
	}

	// --- Initialize the PowerShell bridge and its consumers ---
	runner := shell.New(appConfig.Bridge.Executable)
	log.Printf("Main: Initializing admin bridge (interpreter: %s, admin host: %s, rate: %.2f/s burst %d).",
		runner.Executable, appConfig.Bridge.AdminHost, appConfig.Bridge.CommandRateLimit, appConfig.Bridge.CommandRateBurst)
	adminClient := five9.NewAdminClient(runner, rate.Limit(appConfig.Bridge.CommandRateLimit), appConfig.Bridge.CommandRateBurst)
	sessionStore := session.NewStore()
	installManager := installer.New(appConfig.Installer.Directory, appConfig.Bridge.Executable)

	// --- Initialize Router and HTTP Server ---
	router := api.NewRouter(appConfig, sessionStore, adminClient, installManager)
	serverAddr := ":" + appConfig.Server.Port
	httpServer := &http.Server{
		Handler:      router, Addr: serverAddr,
		WriteTimeout: 30 * time.Second, ReadTimeout: 15 * time.Second, IdleTimeout: 60 * time.Second,
	}

	listener, errListen := net.Listen("tcp", serverAddr)
	if errListen != nil {
		log.Fatalf("Failed to listen on %s: %v", serverAddr, errListen)
	}
	limited := netutil.LimitListener(listener, maxConcurrentConns)

	log.Printf("Starting DialFlow API server on http://localhost%s", serverAddr)
	if appConfig.Server.APIKey != "" && appConfig.Server.APIKey != config.DefaultSystemAPIKeyPlaceholder {
		log.Printf("API Key configured (length: %d). Ensure this is adequately secured.", len(appConfig.Server.APIKey))
	} else {
		log.Printf("API Key: Using default placeholder (length: %d). THIS IS INSECURE.", len(config.DefaultSystemAPIKeyPlaceholder))
	}

	if err := httpServer.Serve(limited); err != nil && err != http.ErrServerClosed {
		log.Fatalf("HTTP server Serve failed: %v", err)
	}
}
