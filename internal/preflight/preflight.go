// File: backend/internal/preflight/preflight.go
package preflight

import (
	"context"
	"fmt"
	"io"
	"log"
	"net"
	"net/http"
	"net/url"
	"os/exec"
	"strings"
	"time"

	"github.com/fntelecomllc/dialflow/backend/internal/config"
	"github.com/fntelecomllc/dialflow/backend/internal/shell"
	"github.com/miekg/dns"
)

const (
	CheckInterpreter   = "interpreter"
	CheckAdminHostDNS  = "admin_host_dns"
	CheckInstallSource = "install_source_http"

	preflightUserAgent = "DialFlow-Preflight/1.0"
)

// CheckResult describes one probe. Checks are advisory; a failing result
// never blocks bridge commands or installs.
type CheckResult struct {
	Check      string   `json:"check"`
	Target     string   `json:"target"`
	OK         bool     `json:"ok"`
	Detail     string   `json:"detail,omitempty"`
	IPs        []string `json:"ips,omitempty"`
	DurationMs int64    `json:"durationMs"`
}

type Report struct {
	OK        bool          `json:"ok"`
	Timestamp string        `json:"timestamp"`
	Results   []CheckResult `json:"results"`
}

// Checker probes the external dependencies an install or bridge command
// needs: the PowerShell interpreter on PATH, DNS resolution of the admin
// host, and HTTP reachability of the installer source.
type Checker struct {
	executable   string
	adminHost    string
	sourceURL    string
	resolvers    []string
	queryTimeout time.Duration
	httpClient   *http.Client
}

func New(cfg config.PreflightConfig, executable, adminHost, sourceURL string) *Checker {
	if executable == "" {
		executable = shell.DefaultExecutable()
	}

	var resolvers []string
	if cfg.UseSystemResolvers {
		sysConfig, err := dns.ClientConfigFromFile("/etc/resolv.conf")
		if err == nil && len(sysConfig.Servers) > 0 {
			for _, serverIP := range sysConfig.Servers {
				resolvers = append(resolvers, net.JoinHostPort(serverIP, sysConfig.Port))
			}
		} else if err != nil {
			log.Printf("Preflight: Warning - Could not load system resolvers: %v", err)
		}
	}
	resolvers = append(resolvers, cfg.Resolvers...)

	return &Checker{
		executable:   executable,
		adminHost:    adminHost,
		sourceURL:    sourceURL,
		resolvers:    resolvers,
		queryTimeout: cfg.QueryTimeout,
		httpClient:   &http.Client{Timeout: cfg.HTTPTimeout},
	}
}

// Run executes every check with a configured target. Report.OK is true
// only when all executed checks passed.
func (c *Checker) Run(ctx context.Context) Report {
	report := Report{OK: true, Timestamp: time.Now().Format(time.RFC3339), Results: []CheckResult{}}

	report.Results = append(report.Results, c.checkInterpreter())
	if c.adminHost != "" {
		report.Results = append(report.Results, c.checkAdminHostDNS(ctx))
	}
	if c.sourceURL != "" {
		report.Results = append(report.Results, c.checkInstallSource(ctx))
	}

	for _, res := range report.Results {
		if !res.OK {
			report.OK = false
		}
	}
	log.Printf("Preflight: Ran %d checks, ok=%t", len(report.Results), report.OK)
	return report
}

func (c *Checker) checkInterpreter() CheckResult {
	startTime := time.Now()
	result := CheckResult{Check: CheckInterpreter, Target: c.executable}

	path, err := exec.LookPath(c.executable)
	result.DurationMs = time.Since(startTime).Milliseconds()
	if err != nil {
		result.Detail = "Interpreter not found on PATH: " + err.Error()
		return result
	}
	result.OK = true
	result.Detail = "Found at " + path
	return result
}

func (c *Checker) checkAdminHostDNS(ctx context.Context) CheckResult {
	startTime := time.Now()
	result := CheckResult{Check: CheckAdminHostDNS, Target: c.adminHost}

	if !strings.Contains(c.adminHost, ".") || strings.HasPrefix(c.adminHost, ".") || strings.HasSuffix(c.adminHost, ".") {
		result.Detail = "Invalid host format"
		result.DurationMs = time.Since(startTime).Milliseconds()
		return result
	}

	var lastErr error
	for _, resolverAddr := range c.resolverAddrs() {
		attemptCtx, cancel := context.WithTimeout(ctx, c.queryTimeout)
		ips, err := resolveHost(attemptCtx, c.adminHost, resolverAddr, c.queryTimeout)
		cancel()
		if err != nil {
			lastErr = err
			continue
		}
		result.OK = true
		result.IPs = ips
		if resolverAddr == "" {
			result.Detail = "Resolved via system resolver"
		} else {
			result.Detail = "Resolved via " + resolverAddr
		}
		result.DurationMs = time.Since(startTime).Milliseconds()
		return result
	}

	result.DurationMs = time.Since(startTime).Milliseconds()
	switch {
	case isNXDOMAIN(lastErr):
		result.Detail = "Host not found: " + lastErr.Error()
	case isTimeout(lastErr):
		result.Detail = "Query timed out: " + lastErr.Error()
	default:
		result.Detail = lastErr.Error()
	}
	return result
}

func (c *Checker) checkInstallSource(ctx context.Context) CheckResult {
	startTime := time.Now()
	result := CheckResult{Check: CheckInstallSource, Target: c.sourceURL}

	req, err := http.NewRequestWithContext(ctx, "GET", c.sourceURL, nil)
	if err != nil {
		result.Detail = "Invalid source URL: " + err.Error()
		result.DurationMs = time.Since(startTime).Milliseconds()
		return result
	}
	req.Header.Set("User-Agent", preflightUserAgent)

	resp, doErr := c.httpClient.Do(req)
	result.DurationMs = time.Since(startTime).Milliseconds()
	if doErr != nil {
		if urlErr, ok := doErr.(*url.Error); ok && urlErr.Timeout() {
			result.Detail = "Request timed out: " + doErr.Error()
		} else {
			result.Detail = doErr.Error()
		}
		return result
	}
	defer func() {
		io.Copy(io.Discard, resp.Body)
		resp.Body.Close()
	}()

	result.Detail = resp.Status
	if result.Detail == "" {
		result.Detail = fmt.Sprintf("Status %d", resp.StatusCode)
	}
	result.OK = resp.StatusCode < 400
	return result
}

// resolverAddrs returns the configured resolver list, or a single empty
// entry meaning the operating system's default resolution path.
func (c *Checker) resolverAddrs() []string {
	if len(c.resolvers) == 0 {
		return []string{""}
	}
	return c.resolvers
}

func resolveHost(ctx context.Context, host, resolverAddr string, timeout time.Duration) ([]string, error) {
	r := &net.Resolver{PreferGo: true}
	if resolverAddr != "" {
		dialer := &net.Dialer{Timeout: timeout}
		r.Dial = func(dCtx context.Context, network, address string) (net.Conn, error) {
			return dialer.DialContext(dCtx, network, resolverAddr)
		}
	}
	ipAddrs, err := r.LookupIPAddr(ctx, host)
	if err != nil {
		return nil, err
	}
	ips := make([]string, 0, len(ipAddrs))
	for _, ipAddr := range ipAddrs {
		ips = append(ips, ipAddr.IP.String())
	}
	return deduplicateIPs(ips), nil
}

func isNXDOMAIN(err error) bool {
	if err == nil {
		return false
	}
	if dnsErr, ok := err.(*net.DNSError); ok && dnsErr.IsNotFound {
		return true
	}
	lowerMsg := strings.ToLower(err.Error())
	return strings.Contains(lowerMsg, "no such host") || strings.Contains(lowerMsg, "nxdomain") || strings.Contains(lowerMsg, "name error")
}

func isTimeout(err error) bool {
	if err == nil {
		return false
	}
	if dnsErr, ok := err.(*net.DNSError); ok && dnsErr.IsTimeout {
		return true
	}
	return strings.Contains(strings.ToLower(err.Error()), "timeout") || strings.Contains(strings.ToLower(err.Error()), "context deadline exceeded")
}

func deduplicateIPs(ips []string) []string {
	seen := make(map[string]struct{}, len(ips))
	j := 0
	for _, ip := range ips {
		if _, ok := seen[ip]; ok {
			continue
		}
		seen[ip] = struct{}{}
		ips[j] = ip
		j++
	}
	return ips[:j]
}
