// Package player implements the streaming playback pipeline: a network
// reader goroutine decodes PCM bytes into a shared sample buffer, a startup
// gate holds playback until enough audio is buffered, and a pull-based
// source feeds the speaker in real time.
package player

import (
	"encoding/binary"
	"fmt"
	"io"
	"math"
	"time"

	"github.com/gopxl/beep/v2"
	"github.com/gopxl/beep/v2/effects"
	"github.com/gopxl/beep/v2/speaker"
	"github.com/rs/zerolog/log"
)

const (
	// SampleRate is the daemon's fixed output rate: mono 16-bit signed
	// little-endian PCM at 24 kHz.
	SampleRate = 24000

	// DefaultMinBufferMs is the startup buffer target. 150ms is enough for
	// stable playback without perceptible latency.
	DefaultMinBufferMs = 150

	WAVHeaderSize    = 44
	NetworkReadSize  = 4096
	GatePollInterval = 500 * time.Microsecond

	// SpeakerBufferSize is the device-side buffer handed to the speaker.
	// Kept small: the startup gate, not the device buffer, absorbs jitter.
	SpeakerBufferSize = 50 * time.Millisecond

	VolumeCurveExponent = 0.5
	MinVolumeDB         = -10.0
)

// Player plays one streamed TTS response on the local audio device.
type Player struct {
	minBufferSamples int
	volumePercent    int
	speakerReady     bool

	// OnFirstAudio, when set, is called once from the reader goroutine when
	// the first network chunk arrives. Timing signal only.
	OnFirstAudio func()

	// OnPlaybackStart, when set, is called after the startup gate releases,
	// just before the source is handed to the speaker.
	OnPlaybackStart func()
}

// NewPlayer creates a player with the given startup buffer target and volume.
func NewPlayer(minBufferMs, volumePercent int) *Player {
	if minBufferMs <= 0 {
		minBufferMs = DefaultMinBufferMs
	}
	return &Player{
		minBufferSamples: SampleRate * minBufferMs / 1000,
		volumePercent:    volumePercent,
	}
}

func (p *Player) initSpeaker() error {
	if p.speakerReady {
		return nil
	}
	sr := beep.SampleRate(SampleRate)
	if err := speaker.Init(sr, sr.N(SpeakerBufferSize)); err != nil {
		return fmt.Errorf("failed to initialize audio output: %w", err)
	}
	p.speakerReady = true
	log.Debug().Msgf("Speaker initialized: %d Hz, buffer %v", SampleRate, SpeakerBufferSize)
	return nil
}

// Speak plays the stream and blocks until the audio finishes. The stream is
// a WAV byte stream: a 44-byte header (skipped without validation) followed
// by raw PCM samples.
func (p *Player) Speak(stream io.Reader) error {
	if err := p.initSpeaker(); err != nil {
		return err
	}

	if err := skipWAVHeader(stream); err != nil {
		return err
	}

	buf := NewSampleBuffer()
	go p.readStream(stream, buf)

	p.waitForBuffer(buf)
	if p.OnPlaybackStart != nil {
		p.OnPlaybackStart()
	}

	vol := &effects.Volume{
		Streamer: &streamSource{buffer: buf},
		Base:     2,
		Volume:   percentToExponent(float64(p.volumePercent)),
		Silent:   p.volumePercent == 0,
	}

	done := make(chan struct{})
	speaker.Play(beep.Seq(vol, beep.Callback(func() {
		close(done)
	})))
	<-done

	log.Debug().Msg("Playback finished")
	return nil
}

func skipWAVHeader(stream io.Reader) error {
	header := make([]byte, WAVHeaderSize)
	if _, err := io.ReadFull(stream, header); err != nil {
		return fmt.Errorf("stream ended before WAV header: %w", err)
	}
	return nil
}

// readStream pulls fixed-size chunks off the network and pushes decoded
// samples into the buffer. Chunks carry no sample-boundary alignment
// guarantee, so an odd leftover byte is held for the next chunk; a leftover
// at end of stream is an incomplete sample and is dropped. Read errors are
// not retried: the buffer is finished and already-buffered audio plays out.
func (p *Player) readStream(stream io.Reader, buf *SampleBuffer) {
	defer buf.Finish()

	chunk := make([]byte, NetworkReadSize)
	var pending byte
	hasPending := false
	first := true

	for {
		n, err := stream.Read(chunk)
		if n > 0 {
			if first {
				first = false
				log.Debug().Msg("First audio chunk received")
				if p.OnFirstAudio != nil {
					p.OnFirstAudio()
				}
			}

			data := chunk[:n]
			if hasPending {
				buf.Push(int16(uint16(pending) | uint16(data[0])<<8))
				data = data[1:]
				hasPending = false
			}
			for len(data) >= 2 {
				buf.Push(int16(binary.LittleEndian.Uint16(data)))
				data = data[2:]
			}
			if len(data) == 1 {
				pending = data[0]
				hasPending = true
			}
		}
		if err != nil {
			if err != io.EOF {
				log.Debug().Err(err).Msg("Stream read failed, ending playback early")
			}
			log.Debug().Msg("Network stream reader stopped")
			return
		}
	}
}

// waitForBuffer is the startup gate: it returns once the buffer holds the
// minimum sample count, or once the stream has already finished (inputs
// shorter than the threshold). A stalled network read delays startup
// indefinitely; there is no timeout path.
func (p *Player) waitForBuffer(buf *SampleBuffer) {
	for buf.Len() < p.minBufferSamples && !buf.Finished() {
		time.Sleep(GatePollInterval)
	}
}

// percentToExponent maps a 0-100 volume percent onto beep's exponential
// volume scale, with a square-root curve so mid-range percentages track
// perceived loudness.
func percentToExponent(p float64) float64 {
	if p <= 0 {
		return MinVolumeDB
	}
	if p >= 100 {
		return 0
	}

	normalized := p / 100.0
	adjusted := math.Pow(normalized, VolumeCurveExponent)
	return (1.0 - adjusted) * MinVolumeDB
}
