// package video is for assembling frame images into a video with ffmpeg.
package video

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

// Encoder runs ffmpeg to encode numbered PNG frames.
type Encoder struct {
	// Binary is the ffmpeg executable name or path.
	Binary string
	// FrameRate is frames per second in the output.
	FrameRate int
	// Pattern is the frame file name pattern e.g., frame%06d.png
	Pattern string
}

// Name returns the video file name for a station and earthquake origin time e.g., IU_ANMO_2014-07-07T11-23-58.mp4
func Name(network, station string, origin time.Time) string {
	return fmt.Sprintf("%s_%s_%s.mp4", network, station, origin.UTC().Format("2006-01-02T15-04-05"))
}

// Args returns the ffmpeg arguments to encode the frames in dir to out.
func (e Encoder) Args(dir, out string) []string {
	return []string{
		"-y",
		"-r", strconv.Itoa(e.FrameRate),
		"-i", filepath.Join(dir, e.Pattern),
		"-pix_fmt", "yuv420p",
		out,
	}
}

// Encode encodes the frames in dir to out.  ffmpeg's stderr is included in any error.
func (e Encoder) Encode(ctx context.Context, dir, out string) error {
	if e.FrameRate < 1 {
		return fmt.Errorf("frame rate %d must be at least 1", e.FrameRate)
	}

	bin, err := exec.LookPath(e.Binary)
	if err != nil {
		return fmt.Errorf("finding %s: %w", e.Binary, err)
	}

	var stderr bytes.Buffer

	cmd := exec.CommandContext(ctx, bin, e.Args(dir, out)...)
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return fmt.Errorf("%s: %w: %s", e.Binary, err, tail(stderr.String(), 5))
	}

	return nil
}

// Clean removes the frames from dir.  It returns the number of files removed.
func (e Encoder) Clean(dir string) (int, error) {
	glob := strings.NewReplacer("%06d", "*", "%d", "*").Replace(e.Pattern)

	files, err := filepath.Glob(filepath.Join(dir, glob))
	if err != nil {
		return 0, err
	}

	for i, f := range files {
		if err := os.Remove(f); err != nil {
			return i, err
		}
	}

	return len(files), nil
}

// tail returns the last n lines of s.
func tail(s string, n int) string {
	l := strings.Split(strings.TrimSpace(s), "\n")
	if len(l) > n {
		l = l[len(l)-n:]
	}

	return strings.Join(l, "\n")
}
