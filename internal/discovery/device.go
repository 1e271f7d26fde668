package discovery

import (
	"fmt"
	"net"
	"strconv"
	"time"
)

// Router represents a TP-Link router found on the network
type Router struct {
	// Model is the model name parsed from the advertisement (e.g., "Archer C6"), if any
	Model string

	// Instance is the mDNS service instance name
	Instance string

	// Hostname is the mDNS hostname (e.g., "archer-c6.local.")
	Hostname string

	// IP is the router address, IPv4 preferred
	IP string

	// Port is the advertised web management port
	Port int

	// Metadata contains additional mDNS TXT record data
	Metadata map[string]string

	// DiscoveredAt is when the router was discovered
	DiscoveredAt time.Time
}

// String returns a human-readable string representation of the router
func (r *Router) String() string {
	model := r.Model
	if model == "" {
		model = "TP-Link router"
	}
	return fmt.Sprintf("%s (%s) at %s:%d", model, r.Hostname, r.IP, r.Port)
}

// Endpoint returns the web management base URL for the router.
// Port 443 implies https; default ports are omitted.
func (r *Router) Endpoint() string {
	switch r.Port {
	case 443:
		return "https://" + hostForURL(r.IP)
	case 80, 0:
		return "http://" + hostForURL(r.IP)
	default:
		return "http://" + net.JoinHostPort(r.IP, strconv.Itoa(r.Port))
	}
}

// hostForURL brackets IPv6 literals
func hostForURL(ip string) string {
	if parsed := net.ParseIP(ip); parsed != nil && parsed.To4() == nil {
		return "[" + ip + "]"
	}
	return ip
}

// GetMetadata retrieves a metadata value by key, or returns empty string if not found
func (r *Router) GetMetadata(key string) string {
	if r.Metadata == nil {
		return ""
	}
	return r.Metadata[key]
}
