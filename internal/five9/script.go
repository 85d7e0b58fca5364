// File: backend/internal/five9/script.go
package five9

import (
	"fmt"
	"strings"

	"github.com/fntelecomllc/dialflow/backend/internal/shell"
)

// Admin cmdlets invoked per item by the bulk actions. Stop always forces;
// an occupied campaign would otherwise refuse to halt.
const (
	startCampaignCmd = "Start-Five9Campaign"
	stopCampaignCmd  = "Stop-Five9Campaign -Force $true"
	attachListCmd    = "Add-Five9CampaignList"
	detachListCmd    = "Remove-Five9CampaignList"
)

// loginScript prefixes body with the authentication preamble. The 'Stop'
// preference makes cmdlet faults throw so the generated try/catch blocks
// observe them; a failed connect aborts the body and lands on stderr.
// Username and password pass through shell.Quote and nothing else.
func loginScript(creds Credentials, body string) string {
	var b strings.Builder
	b.WriteString("$ErrorActionPreference = 'Stop'\n")
	fmt.Fprintf(&b, "$secpasswd = ConvertTo-SecureString %s -AsPlainText -Force\n", shell.Quote(creds.Password))
	fmt.Fprintf(&b, "$creds = New-Object System.Management.Automation.PSCredential (%s, $secpasswd)\n", shell.Quote(creds.Username))
	b.WriteString("Connect-Five9AdminWebService -Credential $creds\n")
	b.WriteString(body)
	return b.String()
}

// fetchCampaignsScript aggregates every campaign type; a type the domain
// lacks fails its own fetch without aborting the others.
func fetchCampaignsScript() string {
	return `$all = @(); $types = @('Inbound', 'Outbound', 'Autodial');
foreach ($t in $types) { try { $all += Get-Five9Campaign -Type $t } catch {} };
$all | ForEach-Object { [pscustomobject]@{ Name = $_.name; State = $_.state.ToString(); Type = $_.type.ToString() } } | ConvertTo-Json`
}

// campaignActionScript runs actionCmd once per campaign, accumulating one
// result record per item so a single refusal never aborts the batch.
func campaignActionScript(actionCmd string, names []string) string {
	return fmt.Sprintf(`$campaigns = %s;
$results = @();
foreach ($c in $campaigns) {
    try {
        %s -Name $c;
        $results += [pscustomobject]@{Identifier=$c; Success=$true}
    } catch {
        $results += [pscustomobject]@{Identifier=$c; Success=$false; Error=$_.Exception.Message}
    }
};
$results | ConvertTo-Json -Depth 3`, shell.QuoteList(names), actionCmd)
}

func fetchListsScript() string {
	return "@(Get-Five9List) | ConvertTo-Json -Depth 3"
}

// listPairActionScript runs pairCmd for every campaign and list combination
// with per-pair fault isolation. Identifiers take the "campaign -> list"
// form the action summary reports.
func listPairActionScript(pairCmd string, campaigns, lists []string) string {
	return fmt.Sprintf(`$lists = %s;
$campaigns = %s;
$results = @();
foreach ($c in $campaigns) { foreach ($l in $lists) {
    try {
        %s -CampaignName $c -ListName $l;
        $results += [pscustomobject]@{Identifier="$c -> $l"; Success=$true}
    } catch {
        $results += [pscustomobject]@{Identifier="$c -> $l"; Success=$false; Error=$_.Exception.Message}
    }
} };
$results | ConvertTo-Json -Depth 3`, shell.QuoteList(lists), shell.QuoteList(campaigns), pairCmd)
}

// membershipScript reports which of the given campaigns contain any of the
// given lists. The whole sweep runs inside one interpreter invocation, one
// remote lookup per campaign; a campaign whose lookup faults is skipped.
func membershipScript(campaigns, lists []string) string {
	return fmt.Sprintf(`$allCampaigns = %s;
$listsToFind = %s;
$campaignsFound = @();
foreach ($c in $allCampaigns) {
    try {
        $campaignLists = @(Get-Five9CampaignList -Name $c);
        $listNames = $campaignLists | Select-Object -ExpandProperty listName;
        foreach($l in $listsToFind) {
            if ($l -in $listNames) {
                $campaignsFound += $c;
                break;
            }
        }
    } catch {}
};
$campaignsFound | Select-Object -Unique | ConvertTo-Json`, shell.QuoteList(campaigns), shell.QuoteList(lists))
}
