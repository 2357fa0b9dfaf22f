package player

import (
	"math"
	"runtime"
)

// FadeInSamples is the fade-in window: 10ms at the operating sample rate.
// Ramping the first samples from silence eliminates the audible click a hard
// amplitude discontinuity would produce at playback start.
const FadeInSamples = 240

// streamSource feeds the speaker from the shared sample buffer. It is a lazy,
// finite, non-restartable beep.Streamer: samples are pulled one at a time in
// sync with the renderer's real-time clock.
type streamSource struct {
	buffer  *SampleBuffer
	emitted int
}

// next pulls one sample, applying the fade-in ramp while the emit cursor is
// inside the fade window. When the buffer is empty but not finished it
// yields and retries: the producer is expected to keep pace, so underrun is
// rare and brief. Returns false only when the buffer is drained and finished,
// the sole normal termination path.
func (s *streamSource) next() (int16, bool) {
	for {
		if sample, ok := s.buffer.Pop(); ok {
			if s.emitted < FadeInSamples {
				sample = int16(math.Round(float64(sample) * float64(s.emitted) / float64(FadeInSamples)))
			}
			s.emitted++
			return sample, true
		}

		if s.buffer.Finished() {
			return 0, false
		}

		runtime.Gosched()
	}
}

// Stream fills the speaker's frame batch, duplicating the mono sample into
// both channels.
func (s *streamSource) Stream(samples [][2]float64) (n int, ok bool) {
	for i := range samples {
		sample, ok := s.next()
		if !ok {
			return i, i > 0
		}
		v := float64(sample) / 32768.0
		samples[i][0] = v
		samples[i][1] = v
	}
	return len(samples), true
}

// Err always returns nil: reader-side failures are absorbed into the
// buffer's finished flag and end playback cleanly instead of surfacing here.
func (s *streamSource) Err() error {
	return nil
}
