package audio

import (
	"encoding/binary"
	"fmt"
	"time"
)

// Clip is a decoded mono PCM16 audio clip.
type Clip struct {
	Samples    []int16
	SampleRate int
}

// Duration returns the clip length.
func (c *Clip) Duration() time.Duration {
	if c.SampleRate <= 0 {
		return 0
	}
	return time.Duration(float64(len(c.Samples)) / float64(c.SampleRate) * float64(time.Second))
}

// DecodeWAV parses a RIFF/WAVE container holding 16-bit PCM and returns a
// mono clip. Stereo input is downmixed by channel averaging. This covers
// the format the TTS providers return; compressed formats are rejected.
func DecodeWAV(data []byte) (*Clip, error) {
	if len(data) < 12 || string(data[0:4]) != "RIFF" || string(data[8:12]) != "WAVE" {
		return nil, fmt.Errorf("%w: missing RIFF/WAVE header", ErrInvalidFormat)
	}

	var (
		sampleRate int
		channels   int
		bitDepth   int
		pcm        []byte
	)

	// Walk the chunk list; only fmt and data matter.
	offset := 12
	for offset+8 <= len(data) {
		id := string(data[offset : offset+4])
		size := int(binary.LittleEndian.Uint32(data[offset+4 : offset+8]))
		body := offset + 8
		if body+size > len(data) {
			size = len(data) - body
		}

		switch id {
		case "fmt ":
			if size < 16 {
				return nil, fmt.Errorf("%w: short fmt chunk", ErrInvalidFormat)
			}
			format := binary.LittleEndian.Uint16(data[body : body+2])
			if format != 1 { // PCM
				return nil, fmt.Errorf("%w: compression format %d", ErrInvalidFormat, format)
			}
			channels = int(binary.LittleEndian.Uint16(data[body+2 : body+4]))
			sampleRate = int(binary.LittleEndian.Uint32(data[body+4 : body+8]))
			bitDepth = int(binary.LittleEndian.Uint16(data[body+14 : body+16]))
		case "data":
			pcm = data[body : body+size]
		}

		// Chunks are word-aligned.
		offset = body + size
		if size%2 == 1 {
			offset++
		}
	}

	if sampleRate == 0 || pcm == nil {
		return nil, fmt.Errorf("%w: missing fmt or data chunk", ErrInvalidFormat)
	}
	if bitDepth != 16 {
		return nil, fmt.Errorf("%w: bit depth %d", ErrInvalidFormat, bitDepth)
	}
	if channels < 1 || channels > 2 {
		return nil, fmt.Errorf("%w: %d channels", ErrInvalidFormat, channels)
	}

	frameSize := 2 * channels
	frames := len(pcm) / frameSize
	if frames == 0 {
		return nil, ErrEmptyClip
	}

	samples := make([]int16, frames)
	for i := 0; i < frames; i++ {
		base := i * frameSize
		if channels == 1 {
			samples[i] = int16(binary.LittleEndian.Uint16(pcm[base : base+2]))
			continue
		}
		left := int16(binary.LittleEndian.Uint16(pcm[base : base+2]))
		right := int16(binary.LittleEndian.Uint16(pcm[base+2 : base+4]))
		samples[i] = int16((int32(left) + int32(right)) / 2)
	}

	return &Clip{Samples: samples, SampleRate: sampleRate}, nil
}
