// Package session hosts the bridge-network side of Mattergate: the hub
// that aggregates bridged nodes, allocates their endpoints, and exposes
// pairing information, plus the periodic health reporter.
//
// The hub's Start is called exactly once, after startup enumeration has
// enrolled and discovered every device. Nodes may still be added after
// Start; devices that appear on the live feed later join the running
// session.
//
// The bridge-network wire protocol itself is out of scope here; the hub
// models the session lifecycle and node aggregation that the controller
// depends on.
package session
