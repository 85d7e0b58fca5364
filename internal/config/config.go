// File: backend/internal/config/config.go
package config

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"time"
)

const (
	DefaultPort                    = "5000"
	DefaultCommandRateLimit        = 2.0
	DefaultCommandRateBurst        = 4
	DefaultQueryTimeoutSeconds     = 5
	DefaultHTTPTimeoutSeconds      = 10
	DefaultPageSize                = 10
	DefaultAdminHost               = "api.five9.com"
	DefaultInstallSourceURL        = "https://raw.githubusercontent.com/Five9DeveloperProgram/PSFive9Admin/main/installer.ps1"
	DefaultSystemAPIKeyPlaceholder = "SET_A_REAL_KEY_IN_CONFIG_OR_ENV_f5a9d1alf0w"

	// EnvAPIKey and EnvPort override the corresponding file values at load
	// time. Overrides are never written back to disk.
	EnvAPIKey = "DIALFLOW_API_KEY"
	EnvPort   = "DIALFLOW_PORT"
)

// --- Struct Definitions ---

type ServerConfig struct {
	Port   string `json:"port"`
	APIKey string `json:"apiKey"`
}

// BridgeConfig controls how admin commands are issued to the PowerShell
// bridge. An empty Executable selects the platform default interpreter.
type BridgeConfig struct {
	Executable       string  `json:"executable,omitempty"`
	AdminHost        string  `json:"adminHost"`
	CommandRateLimit float64 `json:"commandRateLimit"`
	CommandRateBurst int     `json:"commandRateBurst"`
}

// InstallerConfig locates the module installer workspace and the script
// source it bootstraps from. An empty Directory selects a path under the
// system temp directory.
type InstallerConfig struct {
	Directory string `json:"directory,omitempty"`
	SourceURL string `json:"sourceUrl"`
}

// PreflightConfig holds runtime settings for connectivity probes. The
// *Seconds fields mirror the JSON file form and are kept so a loaded
// config can be written back without loss.
type PreflightConfig struct {
	Resolvers          []string
	UseSystemResolvers bool
	QueryTimeout       time.Duration
	HTTPTimeout        time.Duration

	QueryTimeoutSeconds int
	HTTPTimeoutSeconds  int
}

type PreflightConfigJSON struct {
	Resolvers           []string `json:"resolvers"`
	UseSystemResolvers  bool     `json:"useSystemResolvers"`
	QueryTimeoutSeconds int      `json:"queryTimeoutSeconds"`
	HTTPTimeoutSeconds  int      `json:"httpTimeoutSeconds"`
}

type LoggingConfig struct {
	Level string `json:"level"`
}

type AppConfig struct {
	Server         ServerConfig
	Bridge         BridgeConfig
	Installer      InstallerConfig
	Preflight      PreflightConfig
	Logging        LoggingConfig
	loadedFromPath string
}

func (ac *AppConfig) GetLoadedFromPath() string { return ac.loadedFromPath }

// AppConfigJSON is the on-disk shape of the main config file. Durations
// are expressed as integer seconds.
type AppConfigJSON struct {
	Server    ServerConfig        `json:"server"`
	Bridge    BridgeConfig        `json:"bridge"`
	Installer InstallerConfig     `json:"installer"`
	Preflight PreflightConfigJSON `json:"preflight"`
	Logging   LoggingConfig       `json:"logging"`
}

// --- Load / Save ---

// Load reads the main config file, falling back to defaults when the file
// is missing or malformed. A missing file is written back so operators
// have a template to edit. The returned error reports the original load
// problem; the returned config is always usable.
func Load(mainConfigPath string) (*AppConfig, error) {
	if mainConfigPath == "" {
		mainConfigPath = "config.json"
		log.Printf("Config: Main config path empty, using default: %s", mainConfigPath)
	}
	log.Printf("Config: Attempting to load main config from: %s", mainConfigPath)

	appCfgJSON := DefaultAppConfigJSON()
	var originalLoadError error

	data, err := os.ReadFile(mainConfigPath)
	if err != nil {
		originalLoadError = err
		if os.IsNotExist(err) {
			log.Printf("Config: Main config file '%s' not found. Using defaults and attempting to save.", mainConfigPath)
			defaultAppCfg := ConvertJSONToAppConfig(appCfgJSON)
			defaultAppCfg.loadedFromPath = mainConfigPath
			if saveErr := Save(defaultAppCfg, mainConfigPath); saveErr != nil {
				log.Printf("Config: Failed to save default config file '%s': %v", mainConfigPath, saveErr)
			} else {
				log.Printf("Config: Saved default config to '%s'", mainConfigPath)
			}
		} else {
			log.Printf("Config: Error reading main config '%s': %v. Using defaults.", mainConfigPath, err)
		}
	} else {
		if errUnmarshal := json.Unmarshal(data, &appCfgJSON); errUnmarshal != nil {
			log.Printf("Config: Error unmarshalling main config '%s': %v. Using defaults for unparsed fields.", mainConfigPath, errUnmarshal)
			originalLoadError = errUnmarshal
		}
	}

	appConfig := ConvertJSONToAppConfig(appCfgJSON)
	appConfig.loadedFromPath = mainConfigPath

	if appConfig.Server.Port == "" {
		log.Printf("Config: Server port empty, defaulting to %s.", DefaultPort)
		appConfig.Server.Port = DefaultPort
	}

	// Environment overrides apply after the write-back above so secrets
	// supplied through the environment never land on disk.
	if v := os.Getenv(EnvAPIKey); v != "" {
		appConfig.Server.APIKey = v
		log.Printf("Config: Server API key overridden by %s environment variable.", EnvAPIKey)
	}
	if v := os.Getenv(EnvPort); v != "" {
		appConfig.Server.Port = v
		log.Printf("Config: Server port overridden by %s environment variable.", EnvPort)
	}

	return appConfig, originalLoadError
}

func Save(cfg *AppConfig, filePath string) error {
	if filePath == "" {
		return fmt.Errorf("cannot save config, file path is empty")
	}
	return SaveStructured(ConvertAppConfigToJSON(cfg), filePath)
}

func SaveStructured(cfgJSON AppConfigJSON, filePath string) error {
	if filePath == "" {
		return fmt.Errorf("cannot save structured config, file path is empty")
	}
	data, err := json.MarshalIndent(cfgJSON, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal app config to JSON: %w", err)
	}
	if err := os.WriteFile(filePath, data, 0644); err != nil {
		return fmt.Errorf("failed to write app config to file '%s': %w", filePath, err)
	}
	log.Printf("Config: Successfully saved main configuration to '%s'", filePath)
	return nil
}

// --- Conversion ---

func ConvertJSONToPreflightConfig(jsonCfg PreflightConfigJSON) PreflightConfig {
	cfg := PreflightConfig{
		Resolvers:           jsonCfg.Resolvers,
		UseSystemResolvers:  jsonCfg.UseSystemResolvers,
		QueryTimeout:        time.Duration(jsonCfg.QueryTimeoutSeconds) * time.Second,
		HTTPTimeout:         time.Duration(jsonCfg.HTTPTimeoutSeconds) * time.Second,
		QueryTimeoutSeconds: jsonCfg.QueryTimeoutSeconds,
		HTTPTimeoutSeconds:  jsonCfg.HTTPTimeoutSeconds,
	}
	if cfg.QueryTimeoutSeconds <= 0 {
		cfg.QueryTimeoutSeconds = DefaultQueryTimeoutSeconds
		cfg.QueryTimeout = time.Duration(DefaultQueryTimeoutSeconds) * time.Second
	}
	if cfg.HTTPTimeoutSeconds <= 0 {
		cfg.HTTPTimeoutSeconds = DefaultHTTPTimeoutSeconds
		cfg.HTTPTimeout = time.Duration(DefaultHTTPTimeoutSeconds) * time.Second
	}
	return cfg
}

func ConvertPreflightConfigToJSON(cfg PreflightConfig) PreflightConfigJSON {
	return PreflightConfigJSON{
		Resolvers:           cfg.Resolvers,
		UseSystemResolvers:  cfg.UseSystemResolvers,
		QueryTimeoutSeconds: cfg.QueryTimeoutSeconds,
		HTTPTimeoutSeconds:  cfg.HTTPTimeoutSeconds,
	}
}

func ConvertJSONToAppConfig(jsonCfg AppConfigJSON) *AppConfig {
	appCfg := &AppConfig{
		Server:    jsonCfg.Server,
		Bridge:    jsonCfg.Bridge,
		Installer: jsonCfg.Installer,
		Preflight: ConvertJSONToPreflightConfig(jsonCfg.Preflight),
		Logging:   jsonCfg.Logging,
	}
	if appCfg.Bridge.CommandRateLimit <= 0 {
		appCfg.Bridge.CommandRateLimit = DefaultCommandRateLimit
	}
	if appCfg.Bridge.CommandRateBurst <= 0 {
		appCfg.Bridge.CommandRateBurst = DefaultCommandRateBurst
	}
	if appCfg.Installer.SourceURL == "" {
		appCfg.Installer.SourceURL = DefaultInstallSourceURL
	}
	return appCfg
}

func ConvertAppConfigToJSON(appCfg *AppConfig) AppConfigJSON {
	return AppConfigJSON{
		Server:    appCfg.Server,
		Bridge:    appCfg.Bridge,
		Installer: appCfg.Installer,
		Preflight: ConvertPreflightConfigToJSON(appCfg.Preflight),
		Logging:   appCfg.Logging,
	}
}

// --- Defaults ---

func DefaultAppConfigJSON() AppConfigJSON {
	return AppConfigJSON{
		Server: ServerConfig{
			Port:   DefaultPort,
			APIKey: DefaultSystemAPIKeyPlaceholder,
		},
		Bridge: BridgeConfig{
			AdminHost:        DefaultAdminHost,
			CommandRateLimit: DefaultCommandRateLimit,
			CommandRateBurst: DefaultCommandRateBurst,
		},
		Installer: InstallerConfig{
			SourceURL: DefaultInstallSourceURL,
		},
		Preflight: PreflightConfigJSON{
			Resolvers:           []string{"1.1.1.1:53", "8.8.8.8:53"},
			UseSystemResolvers:  false,
			QueryTimeoutSeconds: DefaultQueryTimeoutSeconds,
			HTTPTimeoutSeconds:  DefaultHTTPTimeoutSeconds,
		},
		Logging: LoggingConfig{
			Level: "INFO",
		},
	}
}

func DefaultConfig() *AppConfig { return ConvertJSONToAppConfig(DefaultAppConfigJSON()) }
