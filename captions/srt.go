package captions

import (
	"fmt"
	"strings"
)

// FormatSRT renders resolved captions as SRT: sequential numbered blocks of
// index, time range, and text.
func FormatSRT(captions []Caption) string {
	var sb strings.Builder

	for i, c := range captions {
		fmt.Fprintf(&sb, "%d\n%s --> %s\n%s\n\n",
			i+1, formatSRTTime(c.Start), formatSRTTime(c.End), c.Text)
	}

	return sb.String()
}

// ChunkedFallbackWords is the chunk size used when the TTS backend supplied
// no word timestamps and caption timing has to be synthesized.
const ChunkedFallbackWords = 7

// ChunkEvenly builds coarse captions for a track with no word timestamps:
// the text is split into fixed word-count chunks and the duration is divided
// evenly among them. The result is already non-overlapping.
func ChunkEvenly(text string, duration float64, wordsPerChunk int) []Caption {
	if wordsPerChunk <= 0 {
		wordsPerChunk = ChunkedFallbackWords
	}

	words := strings.Fields(text)
	if len(words) == 0 || duration <= 0 {
		return nil
	}

	chunkCount := (len(words) + wordsPerChunk - 1) / wordsPerChunk
	perChunk := duration / float64(chunkCount)

	var captions []Caption
	for i := 0; i < chunkCount; i++ {
		lo := i * wordsPerChunk
		hi := lo + wordsPerChunk
		if hi > len(words) {
			hi = len(words)
		}
		captions = append(captions, Caption{
			Text:  strings.Join(words[lo:hi], " "),
			Start: float64(i) * perChunk,
			End:   float64(i+1) * perChunk,
		})
	}

	// Land the final end exactly on the track duration.
	captions[len(captions)-1].End = duration
	return captions
}

// formatSRTTime renders seconds as HH:MM:SS,mmm.
func formatSRTTime(seconds float64) string {
	if seconds < 0 {
		seconds = 0
	}
	ms := int(seconds*1000 + 0.5)
	h := ms / 3600000
	ms -= h * 3600000
	m := ms / 60000
	ms -= m * 60000
	s := ms / 1000
	ms -= s * 1000
	return fmt.Sprintf("%02d:%02d:%02d,%03d", h, m, s, ms)
}
