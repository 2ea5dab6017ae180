// Package failover re-admits demoted instances after a cooldown.
//
// When the dispatcher takes an instance out of rotation, the
// scheduler arms an independent one-shot timer. On expiry it calls
// the pool's Promote; a promote that finds the instance already
// re-admitted (or demoted again) is a no-op, so timers never need to
// be cancelled.
package failover
