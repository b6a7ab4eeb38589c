// Package scroll owns the host-page scroll lock as a reference-counted
// resource. The lock is process-wide, so acquire/release must stay balanced
// no matter how many times the panel opens and closes.
package scroll

import "sync"

type Lock struct {
	mu    sync.Mutex
	count int
	apply func(locked bool)
}

// NewLock creates a lock. apply is invoked with true when the count rises
// from zero and with false when it returns to zero; it may be nil.
func NewLock(apply func(locked bool)) *Lock {
	return &Lock{apply: apply}
}

func (l *Lock) Acquire() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.count++
	if l.count == 1 && l.apply != nil {
		l.apply(true)
	}
}

// Release decrements the count. Releasing an unheld lock is a no-op, so a
// double close cannot underflow and wedge the host page.
func (l *Lock) Release() {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.count == 0 {
		return
	}
	l.count--
	if l.count == 0 && l.apply != nil {
		l.apply(false)
	}
}

func (l *Lock) Held() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.count > 0
}
