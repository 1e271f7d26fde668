// Package tui implements the interactive router dashboard behind
// 'archerctl watch'.
//
// The dashboard keeps one router session open and re-reads the status page
// on an interval, so it is the long-lived caller that exercises session
// expiry recovery. Auto refresh stops after the router rejects the
// password, since repeated failures can lock the login page.
//
// Keys:
//
//	r  refresh now
//	q  quit
package tui
