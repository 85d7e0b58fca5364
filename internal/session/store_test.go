package session

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fntelecomllc/dialflow/backend/internal/five9"
)

func TestCreateAndGet(t *testing.T) {
	store := NewStore()
	created := store.Create(five9.Credentials{Username: "ops", Password: "pw"})
	require.NotEmpty(t, created.ID)
	assert.True(t, created.HasCredentials())
	require.NotNil(t, created.Campaigns)
	require.NotNil(t, created.ContactLists)

	got, err := store.Get(created.ID)
	require.NoError(t, err)
	assert.Equal(t, created.ID, got.ID)
	assert.Equal(t, "ops", got.Credentials.Username)

	_, err = store.Get("nope")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestClearCredentialsKeepsSession(t *testing.T) {
	store := NewStore()
	sess := store.Create(five9.Credentials{Username: "ops", Password: "pw"})
	require.NoError(t, store.SaveCampaigns(sess.ID, []five9.Campaign{{Name: "A", State: five9.StateRunning}}))

	require.NoError(t, store.ClearCredentials(sess.ID))

	got, err := store.Get(sess.ID)
	require.NoError(t, err)
	assert.False(t, got.HasCredentials())
	assert.Empty(t, got.Credentials.Password)
	assert.Len(t, got.Campaigns, 1)
}

func TestDelete(t *testing.T) {
	store := NewStore()
	sess := store.Create(five9.Credentials{Username: "ops", Password: "pw"})
	assert.Equal(t, 1, store.Count())

	require.NoError(t, store.Delete(sess.ID))
	assert.Equal(t, 0, store.Count())
	assert.ErrorIs(t, store.Delete(sess.ID), ErrNotFound)
}

func TestSnapshotsDoNotAliasStoreState(t *testing.T) {
	store := NewStore()
	sess := store.Create(five9.Credentials{Username: "ops", Password: "pw"})

	snap, err := store.Get(sess.ID)
	require.NoError(t, err)
	snap.Credentials.Username = "tampered"
	snap.LastStdout = "tampered"

	got, err := store.Get(sess.ID)
	require.NoError(t, err)
	assert.Equal(t, "ops", got.Credentials.Username)
	assert.Empty(t, got.LastStdout)
}

func TestSaveTablesAndDebug(t *testing.T) {
	store := NewStore()
	sess := store.Create(five9.Credentials{Username: "ops", Password: "pw"})

	require.NoError(t, store.SaveContactLists(sess.ID, []five9.ContactList{{Name: "L", Size: 4}}))
	require.NoError(t, store.SaveCandidates(sess.ID, []string{"CampA"}))
	require.NoError(t, store.RecordDebug(sess.ID, "raw out", "raw err"))

	got, err := store.Get(sess.ID)
	require.NoError(t, err)
	assert.Equal(t, []five9.ContactList{{Name: "L", Size: 4}}, got.ContactLists)
	assert.Equal(t, []string{"CampA"}, got.Candidates)
	assert.Equal(t, "raw out", got.LastStdout)
	assert.Equal(t, "raw err", got.LastStderr)
	assert.False(t, got.LastUsedAt.Before(got.CreatedAt))

	assert.ErrorIs(t, store.RecordDebug("nope", "", ""), ErrNotFound)
}
