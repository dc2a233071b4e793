// Package transcode runs the external ffmpeg compression and owns the
// background worker that keeps it off the request path.
package transcode

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strconv"

	"cruxlog/logger"
)

// TranscodeFunc compresses input into output. Implementations block until
// the external process exits; callers are expected to run them off the
// request path.
type TranscodeFunc func(ctx context.Context, input, output string) error

// crf is the x264 constant rate factor used for compression. Higher means
// smaller output; 30 trades visible quality for size, which is fine for
// phone-shot climbing clips.
const crf = 30

// EncodeH264 re-encodes the input clip with libx264 at the package CRF.
// No timeout is applied: a hung ffmpeg blocks only its own worker
// goroutine.
func EncodeH264(ctx context.Context, input, output string) error {
	args := []string{
		"-i", input,
		"-c:v", "libx264",
		"-crf", strconv.Itoa(crf),
		output,
	}
	cmd := exec.CommandContext(ctx, "ffmpeg", args...)

	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("ffmpeg failed: %w: %s", err, lastLine(stderr.Bytes()))
	}
	return nil
}

// LookupFFmpeg returns the default transcoder if the ffmpeg command exists,
// logging the outcome the way encoder registration does.
func LookupFFmpeg() (TranscodeFunc, bool) {
	if _, err := exec.LookPath("ffmpeg"); err != nil {
		logger.Warnf("transcoder unavailable: command 'ffmpeg' not found in PATH")
		return nil, false
	}
	logger.Debug("transcoder registered (command: ffmpeg)")
	return EncodeH264, true
}

// lastLine extracts the final non-empty stderr line, which is where ffmpeg
// puts its actual error message.
func lastLine(out []byte) string {
	lines := bytes.Split(bytes.TrimSpace(out), []byte("\n"))
	if len(lines) == 0 {
		return ""
	}
	return string(bytes.TrimSpace(lines[len(lines)-1]))
}
