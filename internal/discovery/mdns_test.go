package discovery

import (
	"net"
	"testing"
	"time"

	"github.com/grandcat/zeroconf"
)

func TestParseServiceEntry(t *testing.T) {
	tests := []struct {
		name      string
		entry     *zeroconf.ServiceEntry
		wantNil   bool
		wantModel string
		wantIP    string
		wantPort  int
	}{
		{
			name: "archer hostname",
			entry: &zeroconf.ServiceEntry{
				HostName: "Archer-C6.local.",
				Port:     80,
				AddrIPv4: []net.IP{net.ParseIP("192.168.0.1")},
			},
			wantModel: "Archer C6",
			wantIP:    "192.168.0.1",
			wantPort:  80,
		},
		{
			name: "model from instance name",
			entry: &zeroconf.ServiceEntry{
				ServiceRecord: zeroconf.ServiceRecord{Instance: "Archer AX55 Web"},
				HostName:      "router.local.",
				Port:          443,
				AddrIPv4:      []net.IP{net.ParseIP("10.0.0.1")},
			},
			wantModel: "Archer AX55",
			wantIP:    "10.0.0.1",
			wantPort:  443,
		},
		{
			name: "model from TXT record",
			entry: &zeroconf.ServiceEntry{
				HostName: "tplinkwifi.local.",
				AddrIPv4: []net.IP{net.ParseIP("192.168.0.1")},
				Text:     []string{"model=archer_a7", "path=/"},
			},
			wantModel: "Archer A7",
			wantIP:    "192.168.0.1",
			wantPort:  DefaultPort,
		},
		{
			name: "vendor without model",
			entry: &zeroconf.ServiceEntry{
				HostName: "TP-Link.local.",
				Port:     80,
				AddrIPv4: []net.IP{net.ParseIP("192.168.1.1")},
			},
			wantIP:   "192.168.1.1",
			wantPort: 80,
		},
		{
			name: "IPv6 only",
			entry: &zeroconf.ServiceEntry{
				HostName: "archer-c80.local.",
				Port:     80,
				AddrIPv6: []net.IP{net.ParseIP("fe80::1")},
			},
			wantModel: "Archer C80",
			wantIP:    "fe80::1",
			wantPort:  80,
		},
		{
			name: "unrelated device",
			entry: &zeroconf.ServiceEntry{
				HostName: "printer.local.",
				Port:     80,
				AddrIPv4: []net.IP{net.ParseIP("192.168.0.5")},
			},
			wantNil: true,
		},
		{
			name: "no address",
			entry: &zeroconf.ServiceEntry{
				HostName: "archer-c6.local.",
				Port:     80,
			},
			wantNil: true,
		},
		{
			name:    "nil entry",
			entry:   nil,
			wantNil: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := parseServiceEntry(tt.entry)

			if tt.wantNil {
				if router != nil {
					t.Errorf("parseServiceEntry() = %v, want nil", router)
				}
				return
			}

			if router == nil {
				t.Fatal("parseServiceEntry() = nil, want router")
			}
			if router.Model != tt.wantModel {
				t.Errorf("Model = %q, want %q", router.Model, tt.wantModel)
			}
			if router.IP != tt.wantIP {
				t.Errorf("IP = %v, want %v", router.IP, tt.wantIP)
			}
			if router.Port != tt.wantPort {
				t.Errorf("Port = %v, want %v", router.Port, tt.wantPort)
			}
			if router.DiscoveredAt.IsZero() {
				t.Error("DiscoveredAt should be set")
			}
		})
	}
}

func TestParseServiceEntry_Metadata(t *testing.T) {
	router := parseServiceEntry(&zeroconf.ServiceEntry{
		HostName: "archer-c6.local.",
		AddrIPv4: []net.IP{net.ParseIP("192.168.0.1")},
		Text:     []string{"path=/webpages/index.html", "secure"},
	})
	if router == nil {
		t.Fatal("parseServiceEntry() = nil")
	}

	if got := router.GetMetadata("path"); got != "/webpages/index.html" {
		t.Errorf("path = %q", got)
	}
	if _, ok := router.Metadata["secure"]; !ok {
		t.Error("bare TXT keys should be kept")
	}
}

func TestParseModel(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Archer C6", "Archer C6"},
		{"archer-ax55.local.", "Archer AX55"},
		{"ARCHER_A7", "Archer A7"},
		{"ArcherC2300", "Archer C2300"},
		{"archer", ""},
		{"tplink", ""},
	}

	for _, tt := range tests {
		if got := parseModel(tt.in); got != tt.want {
			t.Errorf("parseModel(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestNewScanner(t *testing.T) {
	scanner := NewScanner()
	if scanner.Timeout != DefaultScanTimeout {
		t.Errorf("Timeout = %v, want %v", scanner.Timeout, DefaultScanTimeout)
	}
	if DefaultScanTimeout != 5*time.Second {
		t.Errorf("DefaultScanTimeout = %v, want 5s", DefaultScanTimeout)
	}
}
