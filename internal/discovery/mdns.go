package discovery

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"sync"
	"time"

	"github.com/grandcat/zeroconf"
	"go.uber.org/zap"

	"github.com/muurk/archerctl/internal/logging"
)

const (
	// ServiceType is the mDNS service type browsed for router web interfaces
	ServiceType = "_http._tcp"

	// ServiceDomain is the mDNS domain (typically "local.")
	ServiceDomain = "local."

	// DefaultScanTimeout is the default timeout for router discovery
	DefaultScanTimeout = 5 * time.Second

	// DefaultPort is the default HTTP port for the web interface
	DefaultPort = 80
)

var (
	// vendorPattern matches hostnames and instance names of TP-Link routers
	vendorPattern = regexp.MustCompile(`(?i)(archer|tp-?link)`)

	// modelPattern extracts an Archer model designation (e.g., "Archer C6", "archer-ax55")
	modelPattern = regexp.MustCompile(`(?i)archer[ _-]?([a-z]{1,2}\d+[a-z0-9]*)`)
)

// Scanner handles mDNS router discovery
type Scanner struct {
	// Timeout is the maximum time to wait for advertisements
	Timeout time.Duration
}

// NewScanner creates a new mDNS scanner with default settings
func NewScanner() *Scanner {
	return &Scanner{
		Timeout: DefaultScanTimeout,
	}
}

// ScanForRouters discovers TP-Link routers on the local network
func (s *Scanner) ScanForRouters(ctx context.Context) ([]*Router, error) {
	ctx, cancel := context.WithTimeout(ctx, s.Timeout)
	defer cancel()

	entries := make(chan *zeroconf.ServiceEntry)

	var (
		mu      sync.Mutex
		routers = make([]*Router, 0)
		seen    = make(map[string]bool)
	)

	resolver, err := zeroconf.NewResolver(nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create mDNS resolver: %w", err)
	}

	go func() {
		for entry := range entries {
			router := parseServiceEntry(entry)
			if router == nil {
				continue
			}

			mu.Lock()
			if !seen[router.IP] {
				seen[router.IP] = true
				routers = append(routers, router)
				logging.Debug("Router discovered",
					zap.String("ip", router.IP),
					zap.String("hostname", router.Hostname),
					zap.String("model", router.Model),
				)
			}
			mu.Unlock()
		}
	}()

	if err := resolver.Browse(ctx, ServiceType, ServiceDomain, entries); err != nil {
		return nil, fmt.Errorf("failed to browse for mDNS services: %w", err)
	}

	<-ctx.Done()

	mu.Lock()
	defer mu.Unlock()
	return append([]*Router(nil), routers...), nil
}

// parseServiceEntry converts a zeroconf service entry to a Router.
// Returns nil if the entry does not look like a TP-Link router.
func parseServiceEntry(entry *zeroconf.ServiceEntry) *Router {
	if entry == nil {
		return nil
	}

	hostname := entry.HostName
	if !vendorPattern.MatchString(hostname) && !vendorPattern.MatchString(entry.Instance) {
		return nil
	}

	// Prefer IPv4
	var ip string
	if len(entry.AddrIPv4) > 0 {
		ip = entry.AddrIPv4[0].String()
	}
	if ip == "" && len(entry.AddrIPv6) > 0 {
		ip = entry.AddrIPv6[0].String()
	}
	if ip == "" {
		return nil
	}

	port := entry.Port
	if port == 0 {
		port = DefaultPort
	}

	// TXT records are "key=value" or a bare key
	metadata := make(map[string]string)
	for _, txt := range entry.Text {
		key, value, _ := strings.Cut(txt, "=")
		metadata[key] = value
	}

	return &Router{
		Model:        parseModel(entry.Instance, hostname, metadata["model"]),
		Instance:     entry.Instance,
		Hostname:     hostname,
		IP:           ip,
		Port:         port,
		Metadata:     metadata,
		DiscoveredAt: time.Now(),
	}
}

// parseModel returns "Archer <MODEL>" from the first candidate that names one
func parseModel(candidates ...string) string {
	for _, c := range candidates {
		if m := modelPattern.FindStringSubmatch(c); len(m) == 2 {
			return "Archer " + strings.ToUpper(m[1])
		}
	}
	return ""
}

// ScanForRouters is a convenience function to scan with a custom timeout
func ScanForRouters(ctx context.Context, timeout time.Duration) ([]*Router, error) {
	scanner := NewScanner()
	if timeout > 0 {
		scanner.Timeout = timeout
	}
	return scanner.ScanForRouters(ctx)
}
