package webhook

import (
	"context"
	"log/slog"
	"sync"

	"github.com/reporeferee/reporeferee/internal/event"
	"github.com/reporeferee/reporeferee/internal/lifecycle"
)

// Dispatcher runs event handling off the request path. Each delivery gets
// its own goroutine; failures are logged and swallowed so the delivery
// source always observes success and never redelivers on our account.
type Dispatcher struct {
	ctrl *lifecycle.Controller
	log  *slog.Logger

	wg sync.WaitGroup
}

// NewDispatcher creates a dispatcher around the lifecycle controller.
func NewDispatcher(ctrl *lifecycle.Controller, log *slog.Logger) *Dispatcher {
	if log == nil {
		log = slog.Default()
	}

	return &Dispatcher{
		ctrl: ctrl,
		log:  log.With("component", "dispatcher"),
	}
}

// DispatchDetection hands a detection event to the controller on its own
// goroutine.
func (d *Dispatcher) DispatchDetection(ev event.DetectionEvent) {
	d.run(ev.DeliveryID, func(ctx context.Context) error {
		return d.ctrl.HandleDetection(ctx, ev)
	})
}

// DispatchModerationClose hands a moderator close to the controller on its
// own goroutine.
func (d *Dispatcher) DispatchModerationClose(mc event.ModerationClose) {
	d.run(mc.DeliveryID, func(ctx context.Context) error {
		return d.ctrl.HandleModerationClose(ctx, mc)
	})
}

// run is the per-delivery boundary: a started task runs to completion, and
// both errors and panics stop at this frame.
func (d *Dispatcher) run(deliveryID string,
	handle func(context.Context) error) {

	d.wg.Add(1)
	go func() {
		defer d.wg.Done()
		defer func() {
			if r := recover(); r != nil {
				d.log.Error("Handler panicked",
					"delivery", deliveryID, "panic", r)
			}
		}()

		if err := handle(context.Background()); err != nil {
			d.log.Error("Delivery handling failed",
				"delivery", deliveryID, "err", err)
		}
	}()
}

// Wait blocks until every in-flight delivery has been handled. Used on
// shutdown and in tests.
func (d *Dispatcher) Wait() {
	d.wg.Wait()
}
