// File: backend/internal/five9/client.go
package five9

import (
	"context"
	"log"

	"golang.org/x/time/rate"

	"github.com/fntelecomllc/dialflow/backend/internal/shell"
)

// BridgeError reports a command the admin service rejected. Diagnostic is
// the trimmed stderr text the cmdlets emitted; there is no richer failure
// channel across the bridge.
type BridgeError struct {
	Diagnostic string
}

func (e *BridgeError) Error() string {
	return "five9: admin service fault: " + e.Diagnostic
}

// AdminClient marshals dashboard operations into generated PowerShell and
// pushes them through one interpreter invocation each. A token-bucket
// limiter spaces invocations so membership sweeps and refresh bursts cannot
// hammer the remote admin API.
//
// Every method also returns the raw capture so callers can feed the debug
// console regardless of outcome. Each operation is attempted exactly once;
// retry policy belongs to the operator, not the bridge.
type AdminClient struct {
	runner  shell.Runner
	limiter *rate.Limiter
}

// NewAdminClient creates a client on the given runner. limit is admin
// commands per second with the given burst.
func NewAdminClient(runner shell.Runner, limit rate.Limit, burst int) *AdminClient {
	return &AdminClient{
		runner:  runner,
		limiter: rate.NewLimiter(limit, burst),
	}
}

func (c *AdminClient) run(ctx context.Context, creds Credentials, body string) (shell.Result, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return shell.Result{}, err
	}
	result, err := c.runner.Run(ctx, loginScript(creds, body))
	if err != nil {
		return result, err
	}
	if result.Failed() {
		return result, &BridgeError{Diagnostic: result.Stderr}
	}
	return result, nil
}

// ListCampaigns fetches every campaign of every type from the domain.
func (c *AdminClient) ListCampaigns(ctx context.Context, creds Credentials) ([]Campaign, shell.Result, error) {
	result, err := c.run(ctx, creds, fetchCampaignsScript())
	if err != nil {
		return nil, result, err
	}
	campaigns := ParseCampaigns(DecodeRecords(result.Stdout))
	log.Printf("Five9: campaign fetch returned %d campaigns", len(campaigns))
	return campaigns, result, nil
}

// StartCampaigns starts each named campaign individually and summarizes the
// per-item outcomes.
func (c *AdminClient) StartCampaigns(ctx context.Context, creds Credentials, names []string) (ActionSummary, shell.Result, error) {
	return c.campaignAction(ctx, creds, startCampaignCmd, names)
}

// StopCampaigns force-stops each named campaign individually and summarizes
// the per-item outcomes.
func (c *AdminClient) StopCampaigns(ctx context.Context, creds Credentials, names []string) (ActionSummary, shell.Result, error) {
	return c.campaignAction(ctx, creds, stopCampaignCmd, names)
}

func (c *AdminClient) campaignAction(ctx context.Context, creds Credentials, actionCmd string, names []string) (ActionSummary, shell.Result, error) {
	result, err := c.run(ctx, creds, campaignActionScript(actionCmd, names))
	if err != nil {
		return ActionSummary{}, result, err
	}
	summary := ParseActionResults(DecodeRecords(result.Stdout))
	log.Printf("Five9: campaign action finished (%d succeeded, %d failed)", len(summary.Succeeded), len(summary.Failed))
	return summary, result, nil
}

// ListContactLists fetches every contact list in the domain, sorted by name.
func (c *AdminClient) ListContactLists(ctx context.Context, creds Credentials) ([]ContactList, shell.Result, error) {
	result, err := c.run(ctx, creds, fetchListsScript())
	if err != nil {
		return nil, result, err
	}
	lists := ParseContactLists(DecodeRecords(result.Stdout))
	log.Printf("Five9: list fetch returned %d contact lists", len(lists))
	return lists, result, nil
}

// AttachLists adds every selected list to every selected campaign, one
// admin call per pair, and summarizes the per-pair outcomes.
func (c *AdminClient) AttachLists(ctx context.Context, creds Credentials, campaigns, lists []string) (ActionSummary, shell.Result, error) {
	return c.listPairAction(ctx, creds, attachListCmd, campaigns, lists)
}

// DetachLists removes every selected list from every selected campaign, one
// admin call per pair, and summarizes the per-pair outcomes.
func (c *AdminClient) DetachLists(ctx context.Context, creds Credentials, campaigns, lists []string) (ActionSummary, shell.Result, error) {
	return c.listPairAction(ctx, creds, detachListCmd, campaigns, lists)
}

func (c *AdminClient) listPairAction(ctx context.Context, creds Credentials, pairCmd string, campaigns, lists []string) (ActionSummary, shell.Result, error) {
	result, err := c.run(ctx, creds, listPairActionScript(pairCmd, campaigns, lists))
	if err != nil {
		return ActionSummary{}, result, err
	}
	summary := ParseActionResults(DecodeRecords(result.Stdout))
	log.Printf("Five9: list pair action finished (%d succeeded, %d failed)", len(summary.Succeeded), len(summary.Failed))
	return summary, result, nil
}

// CampaignsWithLists reports which of the given campaigns currently contain
// any of the given lists. The sweep queries each campaign's membership on
// the remote service; results are as fresh as the admin API itself.
func (c *AdminClient) CampaignsWithLists(ctx context.Context, creds Credentials, campaigns, lists []string) ([]string, shell.Result, error) {
	result, err := c.run(ctx, creds, membershipScript(campaigns, lists))
	if err != nil {
		return nil, result, err
	}
	return DecodeNames(result.Stdout), result, nil
}
