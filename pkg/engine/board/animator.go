package board

import (
	"context"
	"math"
	"sync"
	"time"
)

// Animation describes the visual phase of one rotation.
type Animation struct {
	Cells   []*Cell
	Pivot   Point
	Degrees float64
}

// Animator performs the visual phase of a rotation. Animate returns nil once
// the transition has fully played, or ctx.Err() if ctx is done first.
type Animator interface {
	Animate(ctx context.Context, a Animation) error
}

// Instant is an Animator that jumps straight to the final transforms.
type Instant struct{}

// Animate implements Animator.
func (Instant) Animate(ctx context.Context, a Animation) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	start := transformsOf(a.Cells)
	applyRotation(a, start, 1, 1)
	return nil
}

// Default animation parameters.
const (
	DefaultRotationDuration = 250 * time.Millisecond
	DefaultRotationScale    = 1.15
)

// Ticker is an Animator driven by the host's frame loop. Animate blocks the
// calling goroutine while Tick, called once per frame, advances every
// in-flight animation: the block scales up, turns around its pivot and
// scales back down. Cell transforms are only touched from Tick, so the frame
// loop can draw them without further locking.
type Ticker struct {
	duration time.Duration
	scale    float64

	mu      sync.Mutex
	flights []*flight
}

type flight struct {
	anim      Animation
	start     []Transform // captured on the first Tick
	elapsed   time.Duration
	finished  bool
	cancelled bool
	done      chan struct{}
}

// NewTicker creates a Ticker. Non-positive arguments select the defaults.
func NewTicker(duration time.Duration, peakScale float64) *Ticker {
	if duration <= 0 {
		duration = DefaultRotationDuration
	}
	if peakScale <= 0 {
		peakScale = DefaultRotationScale
	}
	return &Ticker{duration: duration, scale: peakScale}
}

// Duration returns the length of one rotation.
func (t *Ticker) Duration() time.Duration {
	return t.duration
}

// Animate implements Animator. If ctx is cancelled before Tick finishes the
// animation, the next Tick restores the cells' starting transforms.
func (t *Ticker) Animate(ctx context.Context, a Animation) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	f := &flight{anim: a, done: make(chan struct{})}
	t.mu.Lock()
	t.flights = append(t.flights, f)
	t.mu.Unlock()

	select {
	case <-f.done:
		return nil
	case <-ctx.Done():
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	if f.finished {
		return nil
	}
	f.cancelled = true
	return ctx.Err()
}

// Tick advances all in-flight animations by dt and returns how many are
// still running. Cancelled animations are put back to their start.
func (t *Ticker) Tick(dt time.Duration) int {
	t.mu.Lock()
	defer t.mu.Unlock()

	running := t.flights[:0]
	for _, f := range t.flights {
		if f.start == nil {
			f.start = transformsOf(f.anim.Cells)
		}
		if f.cancelled {
			for i, c := range f.anim.Cells {
				c.Transform = f.start[i]
			}
			continue
		}

		f.elapsed += dt
		progress := math.Min(1, float64(f.elapsed)/float64(t.duration))
		scale := 1 + (t.scale-1)*math.Sin(math.Pi*progress)
		applyRotation(f.anim, f.start, ease(progress), scale)

		if progress >= 1 {
			f.finished = true
			close(f.done)
			continue
		}
		running = append(running, f)
	}
	for i := len(running); i < len(t.flights); i++ {
		t.flights[i] = nil
	}
	t.flights = running
	return len(t.flights)
}

// Active reports whether any animation is in flight.
func (t *Ticker) Active() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	for _, f := range t.flights {
		if !f.cancelled {
			return true
		}
	}
	return false
}

// ease is a smoothstep curve.
func ease(p float64) float64 {
	return p * p * (3 - 2*p)
}

func transformsOf(cells []*Cell) []Transform {
	out := make([]Transform, len(cells))
	for i, c := range cells {
		out[i] = c.Transform
	}
	return out
}

// applyRotation places every cell at its start transform turned by
// progress*a.Degrees around the pivot and scaled away from it. Positive
// angles turn clockwise on a y-down screen.
func applyRotation(a Animation, start []Transform, progress, scale float64) {
	angle := a.Degrees * progress
	rad := angle * math.Pi / 180
	sin, cos := math.Sincos(rad)

	for i, c := range a.Cells {
		s := start[i]
		dx, dy := s.X-a.Pivot.X, s.Y-a.Pivot.Y
		c.Transform = Transform{
			X:     a.Pivot.X + (dx*cos-dy*sin)*scale,
			Y:     a.Pivot.Y + (dx*sin+dy*cos)*scale,
			Angle: s.Angle + angle,
			Scale: s.Scale * scale,
		}
	}
}
