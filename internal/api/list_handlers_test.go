package api

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fntelecomllc/dialflow/backend/internal/five9"
	"github.com/fntelecomllc/dialflow/backend/internal/shell"
)

func seedLists(t *testing.T, env *testEnv, id string, n int) {
	t.Helper()
	lists := make([]five9.ContactList, 0, n)
	for i := 0; i < n; i++ {
		lists = append(lists, five9.ContactList{Name: fmt.Sprintf("list-%02d", i), Size: i * 10})
	}
	require.NoError(t, env.sessions.SaveContactLists(id, lists))
}

func TestRefreshListsSortsByName(t *testing.T) {
	env := newTestEnv(t)
	id := env.newSession(t, five9.Credentials{Username: "u", Password: "p"})
	env.runner.result = shell.Result{Stdout: `[{"name": "zeta", "size": 12}, {"name": "alpha", "size": 4}]`}

	rec := env.do(t, http.MethodPost, "/api/v1/sessions/"+id+"/lists/refresh", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp ContactListsResponse
	decodeBody(t, rec, &resp)
	require.Equal(t, 2, resp.Count)
	assert.Equal(t, five9.ContactList{Name: "alpha", Size: 4}, resp.Lists[0])
	assert.Equal(t, five9.ContactList{Name: "zeta", Size: 12}, resp.Lists[1])
	assert.Contains(t, env.runner.script, "Get-Five9List")

	sess, err := env.sessions.Get(id)
	require.NoError(t, err)
	assert.Len(t, sess.ContactLists, 2)
}

func TestRefreshListsRequiresCredentials(t *testing.T) {
	env := newTestEnv(t)
	id := env.newSession(t, five9.Credentials{})

	rec := env.do(t, http.MethodPost, "/api/v1/sessions/"+id+"/lists/refresh", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGetListsDefaultPage(t *testing.T) {
	env := newTestEnv(t)
	id := env.newSession(t, five9.Credentials{Username: "u", Password: "p"})
	seedLists(t, env, id, 25)

	rec := env.do(t, http.MethodGet, "/api/v1/sessions/"+id+"/lists", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var page ContactListsPageResponse
	decodeBody(t, rec, &page)
	assert.Equal(t, 1, page.Page)
	assert.Equal(t, 10, page.PageSize)
	assert.Equal(t, 25, page.TotalItems)
	assert.Equal(t, 3, page.TotalPages)
	require.Len(t, page.Lists, 10)
	assert.Equal(t, "list-00", page.Lists[0].Name)
	assert.Equal(t, "list-09", page.Lists[9].Name)
}

func TestGetListsLastAndOverflowPages(t *testing.T) {
	env := newTestEnv(t)
	id := env.newSession(t, five9.Credentials{Username: "u", Password: "p"})
	seedLists(t, env, id, 25)

	rec := env.do(t, http.MethodGet, "/api/v1/sessions/"+id+"/lists?page=3", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var page ContactListsPageResponse
	decodeBody(t, rec, &page)
	require.Len(t, page.Lists, 5)
	assert.Equal(t, "list-20", page.Lists[0].Name)

	// A page past the end is a valid, empty view.
	rec = env.do(t, http.MethodGet, "/api/v1/sessions/"+id+"/lists?page=9", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	decodeBody(t, rec, &page)
	assert.Empty(t, page.Lists)
	assert.Equal(t, 25, page.TotalItems)
	assert.Equal(t, 3, page.TotalPages)
}

func TestGetListsCustomPageSize(t *testing.T) {
	env := newTestEnv(t)
	id := env.newSession(t, five9.Credentials{Username: "u", Password: "p"})
	seedLists(t, env, id, 25)

	rec := env.do(t, http.MethodGet, "/api/v1/sessions/"+id+"/lists?page=2&pageSize=7", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var page ContactListsPageResponse
	decodeBody(t, rec, &page)
	assert.Equal(t, 7, page.PageSize)
	assert.Equal(t, 4, page.TotalPages)
	require.Len(t, page.Lists, 7)
	assert.Equal(t, "list-07", page.Lists[0].Name)
}

func TestGetListsRejectsBadPaging(t *testing.T) {
	env := newTestEnv(t)
	id := env.newSession(t, five9.Credentials{Username: "u", Password: "p"})
	seedLists(t, env, id, 5)

	rec := env.do(t, http.MethodGet, "/api/v1/sessions/"+id+"/lists?page=0", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, errorMessage(t, rec), "page")

	rec = env.do(t, http.MethodGet, "/api/v1/sessions/"+id+"/lists?pageSize=abc", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = env.do(t, http.MethodGet, "/api/v1/sessions/"+id+"/lists?pageSize=-3", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGetListsEmptyCache(t *testing.T) {
	env := newTestEnv(t)
	id := env.newSession(t, five9.Credentials{})

	rec := env.do(t, http.MethodGet, "/api/v1/sessions/"+id+"/lists", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var page ContactListsPageResponse
	decodeBody(t, rec, &page)
	assert.Empty(t, page.Lists)
	assert.Zero(t, page.TotalItems)
	assert.Zero(t, page.TotalPages)
}

func TestListCandidates(t *testing.T) {
	env := newTestEnv(t)
	id := env.newSession(t, five9.Credentials{Username: "u", Password: "p"})
	require.NoError(t, env.sessions.SaveCampaigns(id, []five9.Campaign{{Name: "Alpha"}, {Name: "Beta"}}))
	env.runner.result = shell.Result{Stdout: `["Beta"]`}

	rec := env.do(t, http.MethodPost, "/api/v1/sessions/"+id+"/lists/candidates", ListSelectionRequest{Lists: []string{"L1"}})
	require.Equal(t, http.StatusOK, rec.Code)

	var resp CandidatesResponse
	decodeBody(t, rec, &resp)
	assert.Equal(t, []string{"Beta"}, resp.Candidates)
	assert.Equal(t, 1, resp.Count)

	// The sweep runs over the cached campaign table.
	assert.Contains(t, env.runner.script, "Get-Five9CampaignList")
	assert.Contains(t, env.runner.script, "@('Alpha', 'Beta')")
	assert.Contains(t, env.runner.script, "@('L1')")

	sess, err := env.sessions.Get(id)
	require.NoError(t, err)
	assert.Equal(t, []string{"Beta"}, sess.Candidates)
}

func TestListCandidatesRequiresSelection(t *testing.T) {
	env := newTestEnv(t)
	id := env.newSession(t, five9.Credentials{Username: "u", Password: "p"})

	rec := env.do(t, http.MethodPost, "/api/v1/sessions/"+id+"/lists/candidates", ListSelectionRequest{})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAttachListsWalksPairs(t *testing.T) {
	env := newTestEnv(t)
	id := env.newSession(t, five9.Credentials{Username: "u", Password: "p"})
	env.runner.result = shell.Result{Stdout: `[
		{"Identifier": "C1 -> L1", "Success": true},
		{"Identifier": "C2 -> L1", "Success": false, "Error": "List already attached"}
	]`}

	rec := env.do(t, http.MethodPost, "/api/v1/sessions/"+id+"/lists/attach", ListPairRequest{Campaigns: []string{"C1", "C2"}, Lists: []string{"L1"}})
	require.Equal(t, http.StatusOK, rec.Code)

	var summary five9.ActionSummary
	decodeBody(t, rec, &summary)
	assert.Equal(t, []string{"C1 -> L1"}, summary.Succeeded)
	assert.Equal(t, map[string]string{"C2 -> L1": "List already attached"}, summary.Failed)
	assert.Contains(t, env.runner.script, "Add-Five9CampaignList")
}

func TestDetachLists(t *testing.T) {
	env := newTestEnv(t)
	id := env.newSession(t, five9.Credentials{Username: "u", Password: "p"})
	env.runner.result = shell.Result{Stdout: `{"Identifier": "C1 -> L1", "Success": true}`}

	rec := env.do(t, http.MethodPost, "/api/v1/sessions/"+id+"/lists/detach", ListPairRequest{Campaigns: []string{"C1"}, Lists: []string{"L1"}})
	require.Equal(t, http.StatusOK, rec.Code)

	var summary five9.ActionSummary
	decodeBody(t, rec, &summary)
	assert.Equal(t, []string{"C1 -> L1"}, summary.Succeeded)
	assert.Contains(t, env.runner.script, "Remove-Five9CampaignList")
}

func TestListPairActionRequiresBothSelections(t *testing.T) {
	env := newTestEnv(t)
	id := env.newSession(t, five9.Credentials{Username: "u", Password: "p"})

	rec := env.do(t, http.MethodPost, "/api/v1/sessions/"+id+"/lists/attach", ListPairRequest{Lists: []string{"L1"}})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, errorMessage(t, rec), "campaign")

	rec = env.do(t, http.MethodPost, "/api/v1/sessions/"+id+"/lists/detach", ListPairRequest{Campaigns: []string{"C1"}})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, errorMessage(t, rec), "list")
}
