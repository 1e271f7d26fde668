package router

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
)

// Status document keys read by this package
const (
	KeyWiredDevices    = "access_devices_wired"
	KeyWirelessDevices = "access_devices_wireless_host"
	KeyWANIPv4         = "wan_ipv4_ipaddr"
	KeyWANGateway      = "wan_ipv4_gateway"
	KeyWANConnType     = "wan_ipv4_conntype"
	KeyLANIPv4         = "lan_ipv4_ipaddr"
	KeyLANMAC          = "lan_macaddr"
	KeyWireless2GSSID  = "wireless_2g_ssid"
	KeyWireless5GSSID  = "wireless_5g_ssid"
	KeyCPUUsage        = "cpu_usage"
	KeyMemUsage        = "mem_usage"
)

// Connection types assigned to ConnectedDevice.Connection
const (
	ConnectionWired    = "wired"
	ConnectionWireless = "wireless"
)

// ConnectedDevice is a host listed in the router status document
type ConnectedDevice struct {
	Hostname   string `json:"hostname"`
	IPAddress  string `json:"ipaddr"`
	MACAddress string `json:"macaddr"`
	WireType   string `json:"wire_type,omitempty"` // e.g. "wired", "2.4G", "5G"
	Connection string `json:"connection"`          // ConnectionWired or ConnectionWireless
}

// Status is the full document returned by the status endpoint. The firmware returns
// far more than this package interprets, so the raw fields are kept.
type Status struct {
	fields map[string]json.RawMessage
}

// ParseStatus decodes the data payload of a status response
func ParseStatus(data []byte) (*Status, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return nil, NewUnknownDeviceError("status data is not a JSON object", err)
	}
	if fields == nil {
		return nil, NewUnknownDeviceError("status data is empty", nil)
	}
	return &Status{fields: fields}, nil
}

// Keys returns the field names of the document in sorted order
func (s *Status) Keys() []string {
	keys := make([]string, 0, len(s.fields))
	for k := range s.fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Raw returns the undecoded value of a field
func (s *Status) Raw(key string) (json.RawMessage, bool) {
	v, ok := s.fields[key]
	return v, ok
}

// String returns a scalar field as text. Numbers and booleans are rendered as
// they appear in the document; missing, null and structured fields yield "".
func (s *Status) String(key string) string {
	raw, ok := s.fields[key]
	if !ok {
		return ""
	}
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return ""
	}
	switch raw[0] {
	case '"':
		var v string
		if err := json.Unmarshal(raw, &v); err != nil {
			return ""
		}
		return v
	case '{', '[', 'n':
		return ""
	default:
		return string(raw)
	}
}

// WANIPv4 returns the WAN IPv4 address
func (s *Status) WANIPv4() string { return s.String(KeyWANIPv4) }

// WANGateway returns the WAN IPv4 gateway
func (s *Status) WANGateway() string { return s.String(KeyWANGateway) }

// LANIPv4 returns the router's LAN address
func (s *Status) LANIPv4() string { return s.String(KeyLANIPv4) }

// WiredDevices returns the wired host list in document order
func (s *Status) WiredDevices() ([]ConnectedDevice, error) {
	return s.deviceList(KeyWiredDevices, ConnectionWired)
}

// WirelessDevices returns the wireless host list in document order
func (s *Status) WirelessDevices() ([]ConnectedDevice, error) {
	return s.deviceList(KeyWirelessDevices, ConnectionWireless)
}

// Devices returns wired hosts followed by wireless hosts
func (s *Status) Devices() ([]ConnectedDevice, error) {
	wired, err := s.WiredDevices()
	if err != nil {
		return nil, err
	}
	wireless, err := s.WirelessDevices()
	if err != nil {
		return nil, err
	}
	return append(wired, wireless...), nil
}

// deviceList decodes one host list; a missing or null list is empty
func (s *Status) deviceList(key, connection string) ([]ConnectedDevice, error) {
	raw, ok := s.fields[key]
	if !ok || bytes.Equal(bytes.TrimSpace(raw), []byte("null")) {
		return []ConnectedDevice{}, nil
	}

	var devices []ConnectedDevice
	if err := json.Unmarshal(raw, &devices); err != nil {
		return nil, NewUnknownDeviceError(fmt.Sprintf("status field %s is not a host list", key), err)
	}
	for i := range devices {
		devices[i].Connection = connection
	}
	return devices, nil
}

// MarshalJSON emits the full status document
func (s *Status) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.fields)
}
