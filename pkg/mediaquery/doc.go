// Package mediaquery observes whether a CSS media query matches.
//
// An Observation subscribes to a Platform as soon as it is created and reads
// the current match state synchronously, so the first call to Matches already
// reflects the viewport. Close releases the platform subscription; events
// delivered afterwards are ignored.
//
// Basic usage:
//
//	obs := mediaquery.IsMobile(platform)
//	defer obs.Close()
//
//	ui.Hero(kit, ui.HeroProps{Block: block, Mobile: obs.Matches()})
//
// Two platforms ship with the package: Fake, which fires synthetic events in
// tests, and Bridge, which is fed by a browser over a WebSocket connection.
package mediaquery
