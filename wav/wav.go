// Package wav reads and writes 16-bit PCM WAV containers. It exists so the
// narration pipeline can concatenate per-utterance clips into one track
// bit-exactly, without shelling out to an audio toolchain.
package wav

import (
	"encoding/binary"
	"fmt"
	"math"
)

// Audio is decoded 16-bit PCM. Samples are interleaved when Channels > 1.
type Audio struct {
	SampleRate int
	Channels   int
	Samples    []int16
}

// Duration returns the clip length in seconds.
func (a *Audio) Duration() float64 {
	if a.SampleRate == 0 || a.Channels == 0 {
		return 0
	}
	return float64(len(a.Samples)) / float64(a.SampleRate*a.Channels)
}

// Decode parses a RIFF/WAVE payload. Only uncompressed 16-bit PCM is
// supported; the TTS collaborators all produce it.
func Decode(data []byte) (*Audio, error) {
	if len(data) < 12 || string(data[0:4]) != "RIFF" || string(data[8:12]) != "WAVE" {
		return nil, fmt.Errorf("not a RIFF/WAVE payload")
	}

	var audio Audio
	var haveFmt, haveData bool

	pos := 12
	for pos+8 <= len(data) {
		chunkID := string(data[pos : pos+4])
		chunkSize := int(binary.LittleEndian.Uint32(data[pos+4 : pos+8]))
		body := pos + 8
		if body+chunkSize > len(data) {
			return nil, fmt.Errorf("truncated %q chunk", chunkID)
		}

		switch chunkID {
		case "fmt ":
			if chunkSize < 16 {
				return nil, fmt.Errorf("fmt chunk too short: %d bytes", chunkSize)
			}
			format := binary.LittleEndian.Uint16(data[body : body+2])
			if format != 1 {
				return nil, fmt.Errorf("unsupported audio format %d (want PCM)", format)
			}
			audio.Channels = int(binary.LittleEndian.Uint16(data[body+2 : body+4]))
			audio.SampleRate = int(binary.LittleEndian.Uint32(data[body+4 : body+8]))
			bits := binary.LittleEndian.Uint16(data[body+14 : body+16])
			if bits != 16 {
				return nil, fmt.Errorf("unsupported bit depth %d (want 16)", bits)
			}
			haveFmt = true
		case "data":
			sampleCount := chunkSize / 2
			audio.Samples = make([]int16, sampleCount)
			for i := 0; i < sampleCount; i++ {
				audio.Samples[i] = int16(binary.LittleEndian.Uint16(data[body+i*2 : body+i*2+2]))
			}
			haveData = true
		}

		// Chunks are word-aligned.
		pos = body + chunkSize
		if chunkSize%2 == 1 {
			pos++
		}
	}

	if !haveFmt || !haveData {
		return nil, fmt.Errorf("missing fmt or data chunk")
	}
	if audio.Channels == 0 || audio.SampleRate == 0 {
		return nil, fmt.Errorf("invalid fmt chunk: %d channels at %d Hz", audio.Channels, audio.SampleRate)
	}

	return &audio, nil
}

// Encode writes a canonical 44-byte-header WAV file. Encoding the result of
// Decode round-trips the sample data bit-exactly.
func (a *Audio) Encode() []byte {
	dataSize := len(a.Samples) * 2
	buf := make([]byte, 44+dataSize)

	copy(buf[0:4], "RIFF")
	binary.LittleEndian.PutUint32(buf[4:8], uint32(36+dataSize))
	copy(buf[8:12], "WAVE")

	copy(buf[12:16], "fmt ")
	binary.LittleEndian.PutUint32(buf[16:20], 16)
	binary.LittleEndian.PutUint16(buf[20:22], 1) // PCM
	binary.LittleEndian.PutUint16(buf[22:24], uint16(a.Channels))
	binary.LittleEndian.PutUint32(buf[24:28], uint32(a.SampleRate))
	byteRate := a.SampleRate * a.Channels * 2
	binary.LittleEndian.PutUint32(buf[28:32], uint32(byteRate))
	binary.LittleEndian.PutUint16(buf[32:34], uint16(a.Channels*2))
	binary.LittleEndian.PutUint16(buf[34:36], 16)

	copy(buf[36:40], "data")
	binary.LittleEndian.PutUint32(buf[40:44], uint32(dataSize))
	for i, s := range a.Samples {
		binary.LittleEndian.PutUint16(buf[44+i*2:46+i*2], uint16(s))
	}

	return buf
}

// Concat joins clips back-to-back into one track. Every clip must share the
// first clip's sample rate and channel count.
func Concat(clips []*Audio) (*Audio, error) {
	if len(clips) == 0 {
		return nil, fmt.Errorf("no clips to concatenate")
	}

	out := &Audio{SampleRate: clips[0].SampleRate, Channels: clips[0].Channels}
	total := 0
	for _, c := range clips {
		if c.SampleRate != out.SampleRate || c.Channels != out.Channels {
			return nil, fmt.Errorf("clip format mismatch: %dHz/%dch vs %dHz/%dch",
				c.SampleRate, c.Channels, out.SampleRate, out.Channels)
		}
		total += len(c.Samples)
	}

	out.Samples = make([]int16, 0, total)
	for _, c := range clips {
		out.Samples = append(out.Samples, c.Samples...)
	}
	return out, nil
}

// Silence builds a silent clip of the given length, used for the
// gap-between-utterances pipeline variant.
func Silence(sampleRate, channels int, seconds float64) *Audio {
	count := int(math.Round(seconds * float64(sampleRate*channels)))
	if count < 0 {
		count = 0
	}
	return &Audio{SampleRate: sampleRate, Channels: channels, Samples: make([]int16, count)}
}

// TrimSilence strips leading and trailing samples whose amplitude stays at
// or below threshold. Used to tighten clip durations when the TTS backend
// returns no word timestamps and the utterance length is all we have.
func TrimSilence(a *Audio, threshold int16) *Audio {
	lo := 0
	for lo < len(a.Samples) && abs16(a.Samples[lo]) <= threshold {
		lo++
	}
	hi := len(a.Samples)
	for hi > lo && abs16(a.Samples[hi-1]) <= threshold {
		hi--
	}

	// Keep frame alignment for multi-channel audio.
	if a.Channels > 1 {
		lo -= lo % a.Channels
		if rem := (hi - lo) % a.Channels; rem != 0 {
			hi += a.Channels - rem
			if hi > len(a.Samples) {
				hi = len(a.Samples)
			}
		}
	}

	trimmed := make([]int16, hi-lo)
	copy(trimmed, a.Samples[lo:hi])
	return &Audio{SampleRate: a.SampleRate, Channels: a.Channels, Samples: trimmed}
}

func abs16(v int16) int16 {
	if v < 0 {
		if v == math.MinInt16 {
			return math.MaxInt16
		}
		return -v
	}
	return v
}
