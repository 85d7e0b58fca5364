// File: backend/internal/five9/models.go
package five9

// Credentials authenticate one admin session against the Five9 web service.
// They live in operator session memory only and are never persisted, echoed
// back, or logged.
type Credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// Campaign is one row of the campaign table as the dashboard consumes it.
type Campaign struct {
	Name  string `json:"name"`
	State string `json:"state"`
	Type  string `json:"type"`
}

// ContactList is one row of the contact-list table.
type ContactList struct {
	Name string `json:"name"`
	Size int    `json:"size"`
}

// Display labels for the integer state codes the admin service emits.
const (
	StateNotRunning = "Not Running"
	StateStarting   = "Starting"
	StateRunning    = "Running"
	StateStopping   = "Stopping"
)

// Display labels for the integer campaign type codes.
const (
	TypeInbound  = "Inbound"
	TypeOutbound = "Outbound"
	TypeAutoDial = "AutoDial"
)

var (
	campaignStateLabels = map[int]string{
		0: StateNotRunning,
		1: StateStarting,
		2: StateRunning,
		3: StateStopping,
	}
	campaignTypeLabels = map[int]string{
		0: TypeInbound,
		1: TypeOutbound,
		2: TypeAutoDial,
	}
)

// ActionSummary aggregates the per-item outcomes of one bulk admin action.
// Succeeded keeps first-seen order without duplicates; Failed maps an item
// identifier to its most recent error message. One item can appear in both
// when the admin service reports conflicting records for it.
type ActionSummary struct {
	Succeeded []string          `json:"succeeded"`
	Failed    map[string]string `json:"failed"`
}
