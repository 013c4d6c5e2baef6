// Package storage defines the capability interfaces of the four
// persistence backends (structured, vector, graph, cache) and the
// connection manager that owns their lifecycles.
//
// The manager drives each store through a small state machine
// (disconnected, connecting, connected, failed) with a fixed-delay
// retry loop and a live probe per attempt. Stores fail independently:
// a backend that never connects degrades capability instead of
// aborting the process. Concrete stores live in subpackages.
package storage
