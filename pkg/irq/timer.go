package irq

import (
	"errors"
	"sync"
	"time"
)

// ErrRate is returned when a timer is started without a positive frame rate
var ErrRate = errors.New("irq: frame rate must be positive")

// Timer raises a periodic interrupt. The handler runs with interrupts
// disabled: nothing else passed to Do runs at the same time.
type Timer struct {
	mu      sync.Mutex
	rate    int
	handler func()
	ticks   uint64
	done    chan struct{}
	exited  chan struct{}
}

// New creates a stopped timer calling handler rate times per second
func New(rate int, handler func()) *Timer {
	return &Timer{rate: rate, handler: handler}
}

// Start launches the interrupt goroutine. Starting a running timer does nothing.
func (t *Timer) Start() error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.rate <= 0 {
		return ErrRate
	}
	if t.done != nil {
		return nil
	}

	done := make(chan struct{})
	exited := make(chan struct{})
	t.done, t.exited = done, exited
	ticker := time.NewTicker(time.Second / time.Duration(t.rate))

	go func() {
		defer close(exited)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				t.Fire()
			case <-done:
				return
			}
		}
	}()
	return nil
}

// Stop halts the timer and waits until a running handler has returned
func (t *Timer) Stop() {
	t.mu.Lock()
	done, exited := t.done, t.exited
	t.done, t.exited = nil, nil
	t.mu.Unlock()

	if done == nil {
		return
	}
	close(done)
	<-exited
}

// SetRate changes the interrupt frequency, restarting a running timer
func (t *Timer) SetRate(rate int) error {
	running := t.Running()
	t.Stop()
	t.mu.Lock()
	t.rate = rate
	t.mu.Unlock()
	if running {
		return t.Start()
	}
	return nil
}

// Fire runs the handler once, as if the interrupt had triggered
func (t *Timer) Fire() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.ticks++
	if t.handler != nil {
		t.handler()
	}
}

// Do runs f with interrupts disabled
func (t *Timer) Do(f func()) {
	t.mu.Lock()
	defer t.mu.Unlock()
	f()
}

// Ticks returns how many interrupts have fired
func (t *Timer) Ticks() uint64 {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.ticks
}

// Running reports whether the interrupt goroutine is active
func (t *Timer) Running() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.done != nil
}
