package api

import (
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fntelecomllc/dialflow/backend/internal/five9"
	"github.com/fntelecomllc/dialflow/backend/internal/shell"
)

func TestRefreshCampaigns(t *testing.T) {
	env := newTestEnv(t)
	id := env.newSession(t, five9.Credentials{Username: "u", Password: "p"})
	env.runner.result = shell.Result{Stdout: `[{"name": "Sales", "state": 2, "type": 1}, {"name": "Support", "state": 0, "type": 0}]`}

	rec := env.do(t, http.MethodPost, "/api/v1/sessions/"+id+"/campaigns/refresh", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp CampaignsResponse
	decodeBody(t, rec, &resp)
	require.Equal(t, 2, resp.Count)
	assert.Equal(t, five9.Campaign{Name: "Sales", State: five9.StateRunning, Type: five9.TypeOutbound}, resp.Campaigns[0])
	assert.Equal(t, five9.Campaign{Name: "Support", State: five9.StateNotRunning, Type: five9.TypeInbound}, resp.Campaigns[1])

	// The table is cached on the session and the raw capture feeds debug.
	sess, err := env.sessions.Get(id)
	require.NoError(t, err)
	assert.Len(t, sess.Campaigns, 2)
	assert.Equal(t, env.runner.result.Stdout, sess.LastStdout)
}

func TestRefreshCampaignsRequiresCredentials(t *testing.T) {
	env := newTestEnv(t)
	id := env.newSession(t, five9.Credentials{})

	rec := env.do(t, http.MethodPost, "/api/v1/sessions/"+id+"/campaigns/refresh", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, errorMessage(t, rec), "credentials")
}

func TestRefreshCampaignsUnknownSession(t *testing.T) {
	env := newTestEnv(t)
	rec := env.do(t, http.MethodPost, "/api/v1/sessions/ghost/campaigns/refresh", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestRefreshCampaignsAdminFaultIsBadGateway(t *testing.T) {
	env := newTestEnv(t)
	id := env.newSession(t, five9.Credentials{Username: "u", Password: "bad"})
	env.runner.result = shell.Result{Stderr: "Connect-Five9AdminWebService : Access denied"}

	rec := env.do(t, http.MethodPost, "/api/v1/sessions/"+id+"/campaigns/refresh", nil)
	assert.Equal(t, http.StatusBadGateway, rec.Code)
	assert.Contains(t, errorMessage(t, rec), "Access denied")

	// A command that ran and faulted still lands on the debug console.
	sess, err := env.sessions.Get(id)
	require.NoError(t, err)
	assert.Equal(t, "Connect-Five9AdminWebService : Access denied", sess.LastStderr)
}

func TestRefreshCampaignsLaunchFailureIsServerError(t *testing.T) {
	env := newTestEnv(t)
	id := env.newSession(t, five9.Credentials{Username: "u", Password: "p"})
	env.runner.err = errors.New("shell: launching pwsh: executable file not found")

	rec := env.do(t, http.MethodPost, "/api/v1/sessions/"+id+"/campaigns/refresh", nil)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)

	// Nothing ran, so the debug console stays empty.
	sess, err := env.sessions.Get(id)
	require.NoError(t, err)
	assert.Empty(t, sess.LastStdout)
	assert.Empty(t, sess.LastStderr)
}

func TestGetCampaignsStateFilter(t *testing.T) {
	env := newTestEnv(t)
	id := env.newSession(t, five9.Credentials{Username: "u", Password: "p"})
	require.NoError(t, env.sessions.SaveCampaigns(id, []five9.Campaign{
		{Name: "Live", State: five9.StateRunning, Type: five9.TypeOutbound},
		{Name: "Idle", State: five9.StateNotRunning, Type: five9.TypeOutbound},
		{Name: "Winding", State: five9.StateStopping, Type: five9.TypeInbound},
	}))

	rec := env.do(t, http.MethodGet, "/api/v1/sessions/"+id+"/campaigns", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var all CampaignsResponse
	decodeBody(t, rec, &all)
	assert.Equal(t, 3, all.Count)

	rec = env.do(t, http.MethodGet, "/api/v1/sessions/"+id+"/campaigns?state=running", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var running CampaignsResponse
	decodeBody(t, rec, &running)
	require.Equal(t, 1, running.Count)
	assert.Equal(t, "Live", running.Campaigns[0].Name)

	// The not-running view includes transitional states.
	rec = env.do(t, http.MethodGet, "/api/v1/sessions/"+id+"/campaigns?state=notrunning", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var idle CampaignsResponse
	decodeBody(t, rec, &idle)
	assert.Equal(t, 2, idle.Count)

	rec = env.do(t, http.MethodGet, "/api/v1/sessions/"+id+"/campaigns?state=paused", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGetCampaignsEmptyCache(t *testing.T) {
	env := newTestEnv(t)
	id := env.newSession(t, five9.Credentials{})

	rec := env.do(t, http.MethodGet, "/api/v1/sessions/"+id+"/campaigns", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp CampaignsResponse
	decodeBody(t, rec, &resp)
	assert.Zero(t, resp.Count)
	assert.NotNil(t, resp.Campaigns)
}

func TestStartCampaignsSummarizesOutcomes(t *testing.T) {
	env := newTestEnv(t)
	id := env.newSession(t, five9.Credentials{Username: "u", Password: "p"})
	env.runner.result = shell.Result{Stdout: `[
		{"Identifier": "A", "Success": true},
		{"Identifier": "B", "Success": false, "Error": "Campaign is busy"}
	]`}

	rec := env.do(t, http.MethodPost, "/api/v1/sessions/"+id+"/campaigns/start", CampaignNamesRequest{Names: []string{"A", "B"}})
	require.Equal(t, http.StatusOK, rec.Code)

	var summary five9.ActionSummary
	decodeBody(t, rec, &summary)
	assert.Equal(t, []string{"A"}, summary.Succeeded)
	assert.Equal(t, map[string]string{"B": "Campaign is busy"}, summary.Failed)
	assert.Contains(t, env.runner.script, "Start-Five9Campaign")
	assert.Contains(t, env.runner.script, "@('A', 'B')")
}

func TestStopCampaignsForcesStop(t *testing.T) {
	env := newTestEnv(t)
	id := env.newSession(t, five9.Credentials{Username: "u", Password: "p"})
	env.runner.result = shell.Result{Stdout: `[]`}

	rec := env.do(t, http.MethodPost, "/api/v1/sessions/"+id+"/campaigns/stop", CampaignNamesRequest{Names: []string{"Sales"}})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, env.runner.script, "Stop-Five9Campaign -Force $true")
}

func TestCampaignActionRequiresNames(t *testing.T) {
	env := newTestEnv(t)
	id := env.newSession(t, five9.Credentials{Username: "u", Password: "p"})

	rec := env.do(t, http.MethodPost, "/api/v1/sessions/"+id+"/campaigns/start", CampaignNamesRequest{})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = env.do(t, http.MethodPost, "/api/v1/sessions/"+id+"/campaigns/stop", CampaignNamesRequest{})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCampaignActionRequiresCredentials(t *testing.T) {
	env := newTestEnv(t)
	id := env.newSession(t, five9.Credentials{})

	rec := env.do(t, http.MethodPost, "/api/v1/sessions/"+id+"/campaigns/start", CampaignNamesRequest{Names: []string{"A"}})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, errorMessage(t, rec), "credentials")
}
