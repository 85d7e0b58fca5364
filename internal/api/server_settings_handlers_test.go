package api

import (
	"net/http"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fntelecomllc/dialflow/backend/internal/config"
)

func TestGetServerConfigHidesAPIKey(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodGet, "/api/v1/config/server", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var dto ServerConfigDTO
	decodeBody(t, rec, &dto)
	assert.Equal(t, "5000", dto.Port)
	assert.NotContains(t, rec.Body.String(), testAPIKey)
	assert.NotContains(t, rec.Body.String(), "apiKey")
}

func TestUpdateServerConfigPersistsPort(t *testing.T) {
	env := newTestEnv(t)
	newPort := "8081"

	rec := env.do(t, http.MethodPut, "/api/v1/config/server", UpdateServerConfigRequest{Port: &newPort})
	require.Equal(t, http.StatusOK, rec.Code)

	var dto ServerConfigDTO
	decodeBody(t, rec, &dto)
	assert.Equal(t, "8081", dto.Port)

	data, err := os.ReadFile(env.configPath)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"port": "8081"`)
}

func TestUpdateServerConfigIgnoresEmptyPort(t *testing.T) {
	env := newTestEnv(t)
	empty := ""

	rec := env.do(t, http.MethodPut, "/api/v1/config/server", UpdateServerConfigRequest{Port: &empty})
	require.Equal(t, http.StatusOK, rec.Code)

	var dto ServerConfigDTO
	decodeBody(t, rec, &dto)
	assert.Equal(t, "5000", dto.Port)
}

func TestGetBridgeConfig(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodGet, "/api/v1/config/bridge", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var bridge config.BridgeConfig
	decodeBody(t, rec, &bridge)
	assert.Equal(t, config.DefaultAdminHost, bridge.AdminHost)
	assert.Equal(t, config.DefaultCommandRateLimit, bridge.CommandRateLimit)
	assert.Equal(t, config.DefaultCommandRateBurst, bridge.CommandRateBurst)
}

func TestUpdateBridgeConfigPartial(t *testing.T) {
	env := newTestEnv(t)
	host := "alt.five9.eu"

	rec := env.do(t, http.MethodPut, "/api/v1/config/bridge", UpdateBridgeConfigRequest{AdminHost: &host})
	require.Equal(t, http.StatusOK, rec.Code)

	var bridge config.BridgeConfig
	decodeBody(t, rec, &bridge)
	assert.Equal(t, "alt.five9.eu", bridge.AdminHost)

	// Untouched fields keep their values.
	assert.Equal(t, config.DefaultCommandRateLimit, bridge.CommandRateLimit)
	assert.Equal(t, config.DefaultCommandRateBurst, bridge.CommandRateBurst)

	data, err := os.ReadFile(env.configPath)
	require.NoError(t, err)
	assert.Contains(t, string(data), "alt.five9.eu")
}

func TestUpdateBridgeConfigValidatesRates(t *testing.T) {
	env := newTestEnv(t)

	zero := 0.0
	rec := env.do(t, http.MethodPut, "/api/v1/config/bridge", UpdateBridgeConfigRequest{CommandRateLimit: &zero})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, errorMessage(t, rec), "commandRateLimit")

	negBurst := -1
	rec = env.do(t, http.MethodPut, "/api/v1/config/bridge", UpdateBridgeConfigRequest{CommandRateBurst: &negBurst})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, errorMessage(t, rec), "commandRateBurst")
}

func TestLoggingConfigRoundTrip(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodGet, "/api/v1/config/logging", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var logging config.LoggingConfig
	decodeBody(t, rec, &logging)
	assert.Equal(t, "INFO", logging.Level)

	rec = env.do(t, http.MethodPut, "/api/v1/config/logging", config.LoggingConfig{Level: "DEBUG"})
	require.Equal(t, http.StatusOK, rec.Code)

	rec = env.do(t, http.MethodGet, "/api/v1/config/logging", nil)
	decodeBody(t, rec, &logging)
	assert.Equal(t, "DEBUG", logging.Level)
}
