package scroll

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLockTransitionsOnlyAtZeroBoundary(t *testing.T) {
	var calls []bool
	lock := NewLock(func(locked bool) { calls = append(calls, locked) })

	lock.Acquire()
	lock.Acquire()
	assert.True(t, lock.Held())

	lock.Release()
	assert.True(t, lock.Held(), "still held by the first acquirer")

	lock.Release()
	assert.False(t, lock.Held())
	assert.Equal(t, []bool{true, false}, calls)
}

func TestDoubleReleaseDoesNotUnderflow(t *testing.T) {
	var calls []bool
	lock := NewLock(func(locked bool) { calls = append(calls, locked) })

	lock.Acquire()
	lock.Release()
	lock.Release()
	lock.Release()

	lock.Acquire()
	assert.True(t, lock.Held())
	assert.Equal(t, []bool{true, false, true}, calls)
}

func TestNilApply(t *testing.T) {
	lock := NewLock(nil)
	lock.Acquire()
	lock.Release()
	assert.False(t, lock.Held())
}
