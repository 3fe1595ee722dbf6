// internal/checkout/flow.go
package checkout

import (
	"errors"
	"sync"
	"time"

	"cookie-storefront/internal/logging"
	"cookie-storefront/internal/models"
)

type State string

const (
	StateIdle       State = "idle"
	StateProcessing State = "processing"
	StateSuccess    State = "success"
)

var (
	ErrEmptyCart  = errors.New("cart is empty")
	ErrInProgress = errors.New("checkout already in progress")
)

// CompleteFunc finalises a checkout once the simulated payment delay has
// passed. It runs on the timer goroutine.
type CompleteFunc func() (*models.Order, error)

// Status is the serialisable view of a Flow.
type Status struct {
	State State         `json:"state"`
	Order *models.Order `json:"order,omitempty"`
	Error string        `json:"error,omitempty"`
}

// Flow simulates payment: idle → processing → success, then Reset back to
// idle. No money moves; processing is a timer.
type Flow struct {
	delay time.Duration
	log   *logging.Logger

	mu      sync.Mutex
	state   State
	order   *models.Order
	lastErr error
	timer   *time.Timer
	pending sync.WaitGroup
}

func NewFlow(delay time.Duration, log *logging.Logger) *Flow {
	if log == nil {
		log = logging.Nop()
	}
	return &Flow{delay: delay, log: log, state: StateIdle}
}

// Start begins processing a cart holding itemCount units. complete is called
// after the configured delay.
func (f *Flow) Start(itemCount int, complete CompleteFunc) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.state == StateProcessing {
		return ErrInProgress
	}
	if itemCount <= 0 {
		return ErrEmptyCart
	}

	f.state = StateProcessing
	f.order = nil
	f.lastErr = nil
	f.pending.Add(1)
	f.timer = time.AfterFunc(f.delay, func() {
		defer f.pending.Done()
		f.finish(complete)
	})

	f.log.Info("Checkout processing", "items", itemCount, "delay_ms", f.delay.Milliseconds())
	return nil
}

func (f *Flow) finish(complete CompleteFunc) {
	order, err := complete()

	f.mu.Lock()
	defer f.mu.Unlock()

	f.timer = nil
	if err != nil {
		f.state = StateIdle
		f.lastErr = err
		f.log.Error("Checkout failed", "error", err.Error())
		return
	}

	f.state = StateSuccess
	f.order = order
	if order != nil {
		f.log.Info("Checkout complete", "order_id", order.ID, "total", order.Total.String())
	}
}

func (f *Flow) State() State {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.state
}

func (f *Flow) Status() Status {
	f.mu.Lock()
	defer f.mu.Unlock()

	st := Status{State: f.state, Order: f.order}
	if f.lastErr != nil {
		st.Error = f.lastErr.Error()
	}
	return st
}

// Reset returns a finished checkout to idle.
func (f *Flow) Reset() error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.state == StateProcessing {
		return ErrInProgress
	}
	f.state = StateIdle
	f.order = nil
	f.lastErr = nil
	return nil
}

// Stop cancels a pending checkout, or waits for one that is already
// completing. The cart is left as it was when the timer had not yet fired.
func (f *Flow) Stop() {
	f.mu.Lock()
	if f.timer != nil && f.timer.Stop() {
		f.timer = nil
		f.state = StateIdle
		f.pending.Done()
	}
	f.mu.Unlock()

	f.pending.Wait()
}
