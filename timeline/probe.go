package timeline

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/tidwall/gjson"

	"scriptreel/wav"
)

// MediaDuration returns the duration in seconds of a media file. WAV files
// are decoded directly; anything else goes through ffprobe.
func MediaDuration(path string) (float64, error) {
	if strings.EqualFold(filepath.Ext(path), ".wav") {
		data, err := os.ReadFile(path)
		if err != nil {
			return 0, err
		}
		audio, err := wav.Decode(data)
		if err != nil {
			return 0, err
		}
		return audio.Duration(), nil
	}
	return ffprobeDuration(path)
}

func ffprobeDuration(path string) (float64, error) {
	cmd := exec.Command("ffprobe", "-v", "quiet", "-print_format", "json", "-show_format", path)
	output, err := cmd.Output()
	if err != nil {
		return 0, fmt.Errorf("ffprobe failed for %s: %v", path, err)
	}

	duration := gjson.GetBytes(output, "format.duration")
	if !duration.Exists() {
		return 0, fmt.Errorf("ffprobe reported no duration for %s", path)
	}
	return duration.Float(), nil
}
