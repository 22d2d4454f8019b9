package frame

import (
	"context"
	"time"
)

// IntervalTicker delivers frames at a fixed wall-clock rate.
type IntervalTicker struct {
	t *time.Ticker
}

// NewIntervalTicker ticks fps times per second.
func NewIntervalTicker(fps int) *IntervalTicker {
	if fps <= 0 {
		fps = 60
	}
	return &IntervalTicker{t: time.NewTicker(time.Second / time.Duration(fps))}
}

// Next implements Ticker.
func (t *IntervalTicker) Next(ctx context.Context) (time.Time, error) {
	select {
	case <-ctx.Done():
		return time.Time{}, ctx.Err()
	case now := <-t.t.C:
		return now, nil
	}
}

// Stop releases the underlying ticker.
func (t *IntervalTicker) Stop() {
	t.t.Stop()
}

// FixedTicker produces timestamps a fixed interval apart without waiting,
// for batch runs. It closes after Limit frames when Limit is positive.
type FixedTicker struct {
	Interval time.Duration
	Limit    uint64

	now   time.Time
	count uint64
}

// NewFixedTicker creates a ticker starting at the zero-based clock start.
func NewFixedTicker(interval time.Duration, limit uint64) *FixedTicker {
	return &FixedTicker{Interval: interval, Limit: limit, now: time.Unix(0, 0)}
}

// Next implements Ticker.
func (t *FixedTicker) Next(ctx context.Context) (time.Time, error) {
	if err := ctx.Err(); err != nil {
		return time.Time{}, err
	}
	if t.Limit > 0 && t.count >= t.Limit {
		return time.Time{}, ErrClosed
	}
	if t.count > 0 {
		t.now = t.now.Add(t.Interval)
	}
	t.count++
	return t.now, nil
}

// RateObserver reports the frame rate once per Period of simulated time.
type RateObserver struct {
	Period time.Duration // Defaults to one second
	Report func(fps float64, frame uint64)

	frames  int
	elapsed time.Duration
}

// ObserveFrame implements Observer.
func (o *RateObserver) ObserveFrame(info Info) error {
	period := o.Period
	if period <= 0 {
		period = time.Second
	}
	o.frames++
	o.elapsed += info.Delta
	if o.elapsed < period {
		return nil
	}
	if o.Report != nil {
		o.Report(float64(o.frames)/o.elapsed.Seconds(), info.Frame)
	}
	o.frames = 0
	o.elapsed = 0
	return nil
}
