// Package trajectory holds the pre-allocated record of a batch run.
package trajectory

import (
	"fmt"

	"github.com/san-kum/threebody/internal/dynamo"
)

// Frame is the position of each body at one recorded step.
type Frame struct {
	Step      int
	Time      float64
	Positions [3]dynamo.Vec3
}

// Buffer is a fixed-length, write-once sequence of frames indexed by step.
// It is never resized.
type Buffer struct {
	frames  []Frame
	written []bool
	count   int
}

func New(n int) (*Buffer, error) {
	if n <= 0 {
		return nil, fmt.Errorf("%w: buffer length must be positive, got %d", dynamo.ErrInvalidConfig, n)
	}
	return &Buffer{
		frames:  make([]Frame, n),
		written: make([]bool, n),
	}, nil
}

// Record stores the positions of s at index i.
func (b *Buffer) Record(i int, t float64, s dynamo.System) error {
	return b.Set(i, Frame{Step: i, Time: t, Positions: s.Positions()})
}

func (b *Buffer) Set(i int, f Frame) error {
	if i < 0 || i >= len(b.frames) {
		return fmt.Errorf("%w: %d not in [0, %d)", dynamo.ErrIndexRange, i, len(b.frames))
	}
	if b.written[i] {
		return fmt.Errorf("%w: index %d", dynamo.ErrAlreadyWritten, i)
	}
	b.frames[i] = f
	b.written[i] = true
	b.count++
	return nil
}

// At returns the frame at i and whether it has been written.
func (b *Buffer) At(i int) (Frame, bool) {
	if i < 0 || i >= len(b.frames) || !b.written[i] {
		return Frame{}, false
	}
	return b.frames[i], true
}

func (b *Buffer) Len() int       { return len(b.frames) }
func (b *Buffer) Written() int   { return b.count }
func (b *Buffer) Complete() bool { return b.count == len(b.frames) }

// Frames returns a copy of the written prefix of the buffer.
func (b *Buffer) Frames() []Frame {
	out := make([]Frame, 0, b.count)
	for i, f := range b.frames {
		if !b.written[i] {
			break
		}
		out = append(out, f)
	}
	return out
}

// Series extracts one coordinate (axis 0..2) of one body over the written prefix.
func (b *Buffer) Series(body, axis int) []float64 {
	frames := b.Frames()
	out := make([]float64, len(frames))
	for i, f := range frames {
		out[i] = f.Positions[body].Axis(axis)
	}
	return out
}

// Times returns the timestamps of the written prefix.
func (b *Buffer) Times() []float64 {
	frames := b.Frames()
	out := make([]float64, len(frames))
	for i, f := range frames {
		out[i] = f.Time
	}
	return out
}

// FromFrames rebuilds a complete buffer, e.g. from storage.
func FromFrames(frames []Frame) (*Buffer, error) {
	b, err := New(len(frames))
	if err != nil {
		return nil, err
	}
	for i, f := range frames {
		f.Step = i
		if err := b.Set(i, f); err != nil {
			return nil, err
		}
	}
	return b, nil
}
