// File: backend/internal/session/session.go
package session

import (
	"time"

	"github.com/fntelecomllc/dialflow/backend/internal/five9"
)

// Session carries one operator's dashboard state: the credentials admin
// commands run under, the last fetched tables, and the raw captures of the
// most recent bridge call for the debug console. Everything here lives in
// process memory only and dies with the server or with an explicit delete.
type Session struct {
	ID          string
	CreatedAt   time.Time
	LastUsedAt  time.Time
	Credentials five9.Credentials

	Campaigns    []five9.Campaign
	ContactLists []five9.ContactList
	Candidates   []string

	LastStdout string
	LastStderr string
}

// HasCredentials reports whether admin commands can run for this session.
// Cleared credentials leave the session alive but inert.
func (s Session) HasCredentials() bool {
	return s.Credentials.Username != "" && s.Credentials.Password != ""
}
