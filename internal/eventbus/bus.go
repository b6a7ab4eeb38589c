// Package eventbus carries events between the widget UI and the core service
// over buffered channels. Delivery is best effort behind a circuit breaker:
// when one side stops draining its channel the breaker opens and sends fail
// fast instead of blocking the other side.
package eventbus

import (
	"errors"
	"time"
)

type CircuitState int

const (
	CircuitClosed CircuitState = iota
	CircuitOpen
	CircuitHalfOpen
)

type circuitBreaker struct {
	maxFailures  int
	resetTimeout time.Duration
	failureCount int
	lastFailure  time.Time
	state        CircuitState
}

func newCircuitBreaker(maxFailures int, resetTimeout time.Duration) *circuitBreaker {
	return &circuitBreaker{
		maxFailures:  maxFailures,
		resetTimeout: resetTimeout,
		state:        CircuitClosed,
	}
}

func (cb *circuitBreaker) isOpen() bool {
	if cb.state == CircuitOpen && time.Since(cb.lastFailure) > cb.resetTimeout {
		cb.state = CircuitHalfOpen
	}
	return cb.state == CircuitOpen
}

func (cb *circuitBreaker) recordSuccess() {
	cb.failureCount = 0
	cb.state = CircuitClosed
}

func (cb *circuitBreaker) recordFailure() {
	cb.failureCount++
	cb.lastFailure = time.Now()
	if cb.failureCount >= cb.maxFailures {
		cb.state = CircuitOpen
	}
}

type Bus struct {
	uiToCore      chan UIEvent
	coreToUI      chan CoreEvent
	errorCallback func(BusError)
	breaker       *circuitBreaker
}

func NewBus() *Bus {
	return &Bus{
		uiToCore: make(chan UIEvent, 100),
		coreToUI: make(chan CoreEvent, 100),
		breaker:  newCircuitBreaker(5, 30*time.Second),
	}
}

func (b *Bus) SetErrorCallback(callback func(BusError)) {
	b.errorCallback = callback
}

func (b *Bus) reportError(operation string, err error) {
	b.breaker.recordFailure()
	if b.errorCallback != nil {
		b.errorCallback(BusError{
			Operation: operation,
			Err:       err,
			Timestamp: time.Now(),
		})
	}
}

func (b *Bus) SendToCore(event UIEvent) error {
	if b.breaker.isOpen() {
		err := errors.New("circuit breaker is open")
		b.reportError("SendToCore", err)
		return err
	}

	select {
	case b.uiToCore <- event:
		b.breaker.recordSuccess()
		return nil
	default:
		err := errors.New("UI to core channel is full")
		b.reportError("SendToCore", err)
		return err
	}
}

func (b *Bus) SendToUI(event CoreEvent) error {
	if b.breaker.isOpen() {
		err := errors.New("circuit breaker is open")
		b.reportError("SendToUI", err)
		return err
	}

	select {
	case b.coreToUI <- event:
		b.breaker.recordSuccess()
		return nil
	default:
		err := errors.New("core to UI channel is full")
		b.reportError("SendToUI", err)
		return err
	}
}

func (b *Bus) UIToCore() <-chan UIEvent {
	return b.uiToCore
}

func (b *Bus) CoreToUI() <-chan CoreEvent {
	return b.coreToUI
}

func (b *Bus) BreakerState() CircuitState {
	return b.breaker.state
}

func (b *Bus) Close() {
	close(b.uiToCore)
	close(b.coreToUI)
}
