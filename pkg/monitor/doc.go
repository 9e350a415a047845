// Package monitor tracks the outcome of every proxied request: aggregate
// success/error tallies plus a bounded, most-recent-first log ring.
//
// The monitor is updated by the routing path after each upstream call
// completes and is read by the reporting layer. Memory stays bounded
// regardless of request volume: the ring holds a fixed number of entries
// and evicts the oldest first.
package monitor
