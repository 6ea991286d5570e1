package player

import (
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"
)

// ErrFFmpegNotFound is returned when a file needs transcoding and ffmpeg
// is not on PATH.
var ErrFFmpegNotFound = errors.New("ffmpeg not found (required for .aac/.m4a/.m4b/.opus/.wma)")

const (
	removeAttempts = 5
	removeBackoff  = 75 * time.Millisecond
)

var (
	ffmpegLookPath = exec.LookPath
	ffmpegRun      = func(name string, args ...string) ([]byte, error) {
		cmd := exec.Command(name, args...)
		cmd.Stdin = nil
		return cmd.CombinedOutput()
	}
	mkdirTemp = os.MkdirTemp
	removeAll = os.RemoveAll
	sleep     = time.Sleep
)

// pcmArtifact is a WAV extracted by ffmpeg into its own temp dir. The dir
// belongs to the Track that decoded it.
type pcmArtifact struct {
	Dir  string
	Path string
}

// Remove deletes the artifact's dir, retrying while the OS still holds it.
func (a pcmArtifact) Remove() error {
	return removeWithRetry(a.Dir)
}

// extractPCM asks ffmpeg for the first audio stream of src as 16-bit PCM
// at its native rate and channel layout. Analysis timing depends on the
// source rate, so nothing is resampled here.
func extractPCM(src string) (pcmArtifact, error) {
	ffmpeg, err := ffmpegLookPath("ffmpeg")
	if err != nil {
		return pcmArtifact{}, ErrFFmpegNotFound
	}

	dir, err := mkdirTemp("", "specviz-pcm-*")
	if err != nil {
		return pcmArtifact{}, fmt.Errorf("creating temp dir: %w", err)
	}
	art := pcmArtifact{Dir: dir, Path: filepath.Join(dir, artifactName(src))}

	output, err := ffmpegRun(ffmpeg, extractArgs(src, art.Path)...)
	if err != nil {
		_ = art.Remove()
		err = fmt.Errorf("ffmpeg could not extract audio from %s: %w", filepath.Base(src), err)
		if msg := strings.TrimSpace(string(output)); msg != "" {
			err = fmt.Errorf("%w\n%s", err, msg)
		}
		return pcmArtifact{}, err
	}
	return art, nil
}

func extractArgs(src, dst string) []string {
	return []string{
		"-nostdin", "-hide_banner", "-loglevel", "error", "-y",
		"-i", src,
		"-map", "0:a:0", // cover art and extra tracks are ignored
		"-vn", "-sn", "-dn",
		"-c:a", "pcm_s16le",
		"-f", "wav",
		dst,
	}
}

// artifactName names the WAV after the source so log lines and temp dirs
// stay recognizable.
func artifactName(src string) string {
	stem := strings.TrimSuffix(filepath.Base(src), filepath.Ext(src))
	if stem == "" || stem == "." {
		stem = "audio"
	}
	return stem + ".wav"
}

func removeWithRetry(dir string) error {
	err := removeAll(dir)
	for attempt := 1; err != nil && attempt < removeAttempts; attempt++ {
		sleep(removeBackoff)
		err = removeAll(dir)
	}
	return err
}
