// Package discovery finds TP-Link Archer routers on the local network via mDNS.
//
// Routers that advertise their web interface under "_http._tcp" are matched
// by hostname or instance name ("archer", "tplink", "tp-link"). The model is
// parsed from the advertisement when present.
//
// # Usage Example
//
//	routers, err := discovery.ScanForRouters(ctx, 5*time.Second)
//	if err != nil {
//	    return err
//	}
//	for _, r := range routers {
//	    fmt.Printf("%s -> %s\n", r, r.Endpoint())
//	}
//
// # Network Requirements
//
//   - Multicast support on the network interface
//   - Routers on the same local segment
//   - UDP port 5353 reachable
//
// Many stock firmwares do not advertise over mDNS at all. An empty result
// does not mean no router is present.
package discovery
