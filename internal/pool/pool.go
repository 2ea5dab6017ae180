package pool

import (
	"sync"

	"github.com/angeloszaimis/influxcluster/internal/instance"
)

// Pool partitions cluster instances into an available set, served to
// dispatchers in round-robin order, and a disabled set holding
// instances that recently failed. An instance is in at most one of
// the two sets at any time.
//
// A single mutex guards both sets and the rotation cursor. Every
// structural operation runs as one critical section, so concurrent
// callers never observe an instance in both sets or advance the same
// cursor value twice.
type Pool struct {
	mutex     sync.Mutex
	available []instance.Instance
	disabled  []instance.Instance
	cursor    int
}

func New() *Pool {
	return &Pool{}
}

// Add appends an instance to the available set. Duplicates are not
// rejected; Add is meant for configuration time, and callers are
// expected to pass each endpoint once.
func (p *Pool) Add(inst instance.Instance) {
	p.mutex.Lock()
	p.available = append(p.available, inst)
	p.mutex.Unlock()
}

// Next returns the instance at the rotation cursor and advances the
// cursor, wrapping to the start of the available set. It returns
// false when no instances are available; it never blocks waiting for
// one to appear.
func (p *Pool) Next() (instance.Instance, bool) {
	p.mutex.Lock()
	defer p.mutex.Unlock()

	if len(p.available) == 0 {
		return instance.Instance{}, false
	}

	if p.cursor >= len(p.available) {
		p.cursor = 0
	}

	inst := p.available[p.cursor]
	p.cursor++
	return inst, true
}

// Demote moves an instance from available to disabled, matching by
// value. It reports whether the instance was found; demoting an
// instance that is not available (for example because a concurrent
// caller demoted it first) is a no-op.
func (p *Pool) Demote(inst instance.Instance) bool {
	p.mutex.Lock()
	defer p.mutex.Unlock()

	if !remove(&p.available, inst) {
		return false
	}
	p.disabled = append(p.disabled, inst)
	return true
}

// Promote moves an instance from disabled back to available,
// matching by value. Promoting an instance that is not disabled is a
// no-op, which makes a late failover timer for an already re-admitted
// instance harmless.
func (p *Pool) Promote(inst instance.Instance) bool {
	p.mutex.Lock()
	defer p.mutex.Unlock()

	if !remove(&p.disabled, inst) {
		return false
	}
	p.available = append(p.available, inst)
	return true
}

// Available returns a point-in-time copy of the available set.
// Later pool mutations do not show through.
func (p *Pool) Available() []instance.Instance {
	p.mutex.Lock()
	defer p.mutex.Unlock()
	return append([]instance.Instance(nil), p.available...)
}

// Disabled returns a point-in-time copy of the disabled set.
func (p *Pool) Disabled() []instance.Instance {
	p.mutex.Lock()
	defer p.mutex.Unlock()
	return append([]instance.Instance(nil), p.disabled...)
}

// Len returns the number of available instances.
func (p *Pool) Len() int {
	p.mutex.Lock()
	defer p.mutex.Unlock()
	return len(p.available)
}

// DisabledLen returns the number of disabled instances.
func (p *Pool) DisabledLen() int {
	p.mutex.Lock()
	defer p.mutex.Unlock()
	return len(p.disabled)
}

// remove deletes the first occurrence of inst from s, scanning by
// value. Scan and delete happen inside the caller's critical section;
// an index is never carried across a lock release.
func remove(s *[]instance.Instance, inst instance.Instance) bool {
	for i, candidate := range *s {
		if candidate == inst {
			*s = append((*s)[:i], (*s)[i+1:]...)
			return true
		}
	}
	return false
}
