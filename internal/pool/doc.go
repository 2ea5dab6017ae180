// Package pool tracks which cluster instances are in rotation.
//
// Instances live in one of two sets: available instances are handed
// out round-robin via Next, disabled instances sit out until promoted
// back. Demote and Promote transfer instances between the sets by
// value, so they stay safe under concurrent use where positional
// indexes would go stale.
package pool
