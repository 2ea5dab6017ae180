// Package dispatch issues logical requests against cluster instances.
//
// A submission selects the next available instance, builds the target
// URL with the cluster credentials attached, and runs the HTTP call
// on its own goroutine. The caller gets back a Handle: a
// single-assignment status cell that moves from Pending to exactly
// one of Complete or Failed, observable by non-blocking poll or
// blocking wait.
//
// Transport failures (refused connections, DNS errors, timeouts)
// demote the chosen instance and arm the failover scheduler. A
// response with a non-2xx status is still Complete; application
// errors say nothing about host health.
package dispatch
