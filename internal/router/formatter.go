package router

import (
	"fmt"
	"strings"
)

// orDash renders empty values as "-"
func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

// Summary returns a one-line summary of the router status
func (s *Status) Summary() string {
	wired, _ := s.WiredDevices()
	wireless, _ := s.WirelessDevices()
	return fmt.Sprintf("WAN %s, LAN %s, %d wired / %d wireless hosts",
		orDash(s.WANIPv4()), orDash(s.LANIPv4()), len(wired), len(wireless))
}

// FormatNetwork returns a formatted string with WAN and LAN addressing
func (s *Status) FormatNetwork() string {
	var b strings.Builder

	b.WriteString("=== Network ===\n")
	b.WriteString(fmt.Sprintf("WAN Address:     %s\n", orDash(s.WANIPv4())))
	b.WriteString(fmt.Sprintf("WAN Gateway:     %s\n", orDash(s.WANGateway())))
	b.WriteString(fmt.Sprintf("WAN Connection:  %s\n", orDash(s.String(KeyWANConnType))))
	b.WriteString(fmt.Sprintf("LAN Address:     %s\n", orDash(s.LANIPv4())))
	b.WriteString(fmt.Sprintf("LAN MAC:         %s\n", orDash(s.String(KeyLANMAC))))

	return b.String()
}

// FormatWireless returns a formatted string with the configured SSIDs
func (s *Status) FormatWireless() string {
	var b strings.Builder

	b.WriteString("=== Wireless ===\n")
	b.WriteString(fmt.Sprintf("2.4 GHz SSID:    %s\n", orDash(s.String(KeyWireless2GSSID))))
	b.WriteString(fmt.Sprintf("5 GHz SSID:      %s\n", orDash(s.String(KeyWireless5GSSID))))

	return b.String()
}

// FormatSystem returns a formatted string with load figures, when reported
func (s *Status) FormatSystem() string {
	var b strings.Builder

	b.WriteString("=== System ===\n")
	b.WriteString(fmt.Sprintf("CPU Usage:       %s\n", formatUsage(s.String(KeyCPUUsage))))
	b.WriteString(fmt.Sprintf("Memory Usage:    %s\n", formatUsage(s.String(KeyMemUsage))))

	return b.String()
}

// formatUsage renders a usage figure; the firmware reports a 0-1 fraction or a percentage
func formatUsage(v string) string {
	if v == "" {
		return "-"
	}
	var f float64
	if _, err := fmt.Sscanf(v, "%g", &f); err != nil {
		return v
	}
	if f <= 1 {
		f *= 100
	}
	return fmt.Sprintf("%.0f%%", f)
}

// FormatCompact returns a compact multi-line format suitable for terminal display
func (s *Status) FormatCompact() string {
	var b strings.Builder
	wired, _ := s.WiredDevices()
	wireless, _ := s.WirelessDevices()

	b.WriteString(fmt.Sprintf("WAN:   %s (gw %s)\n", orDash(s.WANIPv4()), orDash(s.WANGateway())))
	b.WriteString(fmt.Sprintf("LAN:   %s\n", orDash(s.LANIPv4())))
	b.WriteString(fmt.Sprintf("Hosts: %d wired, %d wireless\n", len(wired), len(wireless)))

	return b.String()
}

// FormatDetailed returns a comprehensive formatted string with all known status details
func (s *Status) FormatDetailed() string {
	var b strings.Builder

	b.WriteString("\n")
	b.WriteString(s.FormatNetwork())
	b.WriteString("\n")
	b.WriteString(s.FormatWireless())
	b.WriteString("\n")
	b.WriteString(s.FormatSystem())
	b.WriteString("\n")

	devices, err := s.Devices()
	if err != nil {
		b.WriteString(fmt.Sprintf("=== Connected Hosts ===\n(unreadable: %v)\n", err))
		return b.String()
	}
	b.WriteString(FormatDeviceTable(devices))

	return b.String()
}

// FormatDeviceTable returns an aligned table of connected hosts
func FormatDeviceTable(devices []ConnectedDevice) string {
	var b strings.Builder

	b.WriteString(fmt.Sprintf("=== Connected Hosts (%d) ===\n", len(devices)))
	if len(devices) == 0 {
		b.WriteString("(none)\n")
		return b.String()
	}

	nameWidth := len("HOSTNAME")
	for _, d := range devices {
		if n := len(orDash(d.Hostname)); n > nameWidth {
			nameWidth = n
		}
	}

	format := fmt.Sprintf("%%-%ds  %%-15s  %%-17s  %%s\n", nameWidth)
	b.WriteString(fmt.Sprintf(format, "HOSTNAME", "IP ADDRESS", "MAC ADDRESS", "LINK"))
	for _, d := range devices {
		link := d.Connection
		if d.WireType != "" && d.WireType != d.Connection {
			link = fmt.Sprintf("%s (%s)", d.Connection, d.WireType)
		}
		b.WriteString(fmt.Sprintf(format, orDash(d.Hostname), orDash(d.IPAddress), orDash(d.MACAddress), link))
	}

	return b.String()
}
