package water

import "fmt"

// DoubleBuffer owns two simulation buffers and a cursor naming the current
// one. Step reads the current buffer, writes the other, then flips the cursor,
// so the buffer handed to readers is never the one being written.
type DoubleBuffer[T any] struct {
	bufs  [2]T
	cur   int
	steps uint64
	stage Stage[T]
}

// NewDoubleBuffer starts with initial as the current buffer and scratch as the
// write target of the first step.
func NewDoubleBuffer[T any](initial, scratch T, stage Stage[T]) *DoubleBuffer[T] {
	return &DoubleBuffer[T]{
		bufs:  [2]T{initial, scratch},
		stage: stage,
	}
}

// Step advances the simulation once and returns the new current buffer. On
// error the cursor does not move.
func (b *DoubleBuffer[T]) Step(in Inputs) (T, error) {
	next := 1 - b.cur
	if err := b.stage.Apply(b.bufs[next], b.bufs[b.cur], in.Sanitize()); err != nil {
		var zero T
		return zero, fmt.Errorf("simulation step %d: %w", b.steps+1, err)
	}
	b.cur = next
	b.steps++
	return b.bufs[b.cur], nil
}

// Current returns the result of the latest step (or the initial state).
func (b *DoubleBuffer[T]) Current() T {
	return b.bufs[b.cur]
}

// Previous returns the buffer the latest step read from. It becomes the write
// target of the next step.
func (b *DoubleBuffer[T]) Previous() T {
	return b.bufs[1-b.cur]
}

// Index returns which of the two owned buffers is current.
func (b *DoubleBuffer[T]) Index() int {
	return b.cur
}

// Buffer returns owned buffer i (0 or 1).
func (b *DoubleBuffer[T]) Buffer(i int) T {
	return b.bufs[i]
}

// Steps returns the number of completed steps.
func (b *DoubleBuffer[T]) Steps() uint64 {
	return b.steps
}
