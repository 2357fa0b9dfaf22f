package player

import (
	"sync"
	"sync/atomic"
)

// SampleBuffer is the single synchronization point between the network reader
// and the playback source: an unbounded FIFO of mono 16-bit samples with an
// approximate length counter and a one-way finished flag. Single writer
// (reader goroutine), single reader (playback source).
type SampleBuffer struct {
	mu       sync.Mutex
	samples  []int16
	head     int
	length   atomic.Int64
	finished atomic.Bool
}

// NewSampleBuffer creates a buffer pre-sized for one second of audio.
func NewSampleBuffer() *SampleBuffer {
	return &SampleBuffer{
		samples: make([]int16, 0, SampleRate),
	}
}

// Push appends one sample to the tail. Called only by the reader goroutine.
func (b *SampleBuffer) Push(s int16) {
	b.mu.Lock()
	b.samples = append(b.samples, s)
	b.mu.Unlock()
	b.length.Add(1)
}

// Pop removes and returns the head sample, or false if the buffer is
// currently empty. Called only by the playback source.
func (b *SampleBuffer) Pop() (int16, bool) {
	b.mu.Lock()
	if b.head >= len(b.samples) {
		b.mu.Unlock()
		return 0, false
	}
	s := b.samples[b.head]
	b.head++

	// Reclaim the consumed prefix once it dominates the backing slice.
	if b.head > SampleRate && b.head*2 > len(b.samples) {
		b.samples = append(b.samples[:0], b.samples[b.head:]...)
		b.head = 0
	}
	b.mu.Unlock()
	b.length.Add(-1)
	return s, true
}

// Len returns the approximate number of pending samples without taking the
// queue lock. Used for threshold decisions only.
func (b *SampleBuffer) Len() int {
	return int(b.length.Load())
}

// Finish marks the producer as done. Idempotent; never cleared. Samples
// pushed before Finish remain poppable after Finished reports true.
func (b *SampleBuffer) Finish() {
	b.finished.Store(true)
}

// Finished reports whether the producer will push no further samples.
func (b *SampleBuffer) Finished() bool {
	return b.finished.Load()
}
