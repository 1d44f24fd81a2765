package app

import "context"

// pollStep is the tri-state result of a single polling probe.
type pollStep int

const (
	// stepNotYet means the target condition has not been reached; keep
	// polling.
	stepNotYet pollStep = iota

	// stepReady means the target condition was reached this tick.
	stepReady

	// stepFailed means the probe hit a fault the loop must surface.
	stepFailed
)

// probe observes the upstream once. It returns the observed value (an
// address, when relevant), the step classification, and the fault for
// stepFailed.
type probe func(ctx context.Context) (string, pollStep, error)

// poll runs fn once per tick, at most ticks times, sleeping one tick
// interval before each observation. It returns the observed value and true
// the first tick fn reports ready, false with a nil error when the tick
// budget is exhausted, and false with the fault when fn fails or the
// context is cancelled.
func (c *Controller) poll(ctx context.Context, ticks int, fn probe) (string, bool, error) {
	for i := 0; i < ticks; i++ {
		if err := c.clock.Sleep(ctx, c.tick); err != nil {
			return "", false, err
		}
		value, step, err := fn(ctx)
		switch step {
		case stepReady:
			return value, true, nil
		case stepFailed:
			return "", false, err
		}
	}
	return "", false, nil
}
