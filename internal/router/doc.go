// Package router provides an authenticated session client for TP-Link Archer routers.
//
// The router's LuCI web interface accepts form-encoded POSTs and answers with a JSON
// envelope of the form {"data": ..., "errorcode": ...}. Logging in is a two-step
// exchange: fetch one-time key material, then submit the password encrypted with it.
// A successful login yields a session token (stok), embedded in later request paths,
// and a sysauth cookie. Both are required together.
//
// # Session handling
//
// A Client holds at most one session and serializes every operation on it. Data
// requests log in lazily and recover from two conditions:
//
//   - Session expired: the stale session is discarded and the client logs in again,
//     at most once per call. An expiry reported on a freshly minted session is returned.
//   - Session conflict: another user holds the web interface. A polite client returns
//     the error; an impolite one logs in again asking the router to evict the other user.
//
// At most MaxRecoveries recoveries happen per call. Reboot and Logout never log in
// and never retry: without a session they do nothing.
//
// # Errors
//
// All failures are *DeviceError values carrying an ErrorKind. Device error tokens are
// translated once, by Classify, and inspected with the IsXxx helpers:
//
//	devices, err := client.FetchDevices(ctx)
//	if router.IsCredentialsRejected(err) {
//	    // wrong password
//	}
//
// # Usage
//
//	client, err := router.NewClient("https://192.168.0.1", password, router.DefaultOptions())
//	if err != nil {
//	    return err
//	}
//	defer client.Logout(ctx)
//
//	ip, err := client.FetchWanIPAddress(ctx)
package router
