// Package audio extracts the audio track of a video file via ffmpeg.
package audio

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/nijaru/yt-shorts/config"
	"github.com/nijaru/yt-shorts/errors"
)

type Format string

const (
	FormatMP3 Format = "mp3"
	FormatM4A Format = "m4a"
)

type Extractor struct {
	ffmpegPath string
	rawDir     string
}

func NewExtractor(cfg *config.Config) *Extractor {
	return &Extractor{
		ffmpegPath: cfg.FFmpegPath,
		rawDir:     cfg.RawDir,
	}
}

// Extract writes the audio track of videoPath to outputPath and returns the
// final path. Empty outputPath defaults to <raw>/<stem>/audio.<ext>; a
// directory path gets <stem>.<ext> appended. MP3 re-encodes with libmp3lame;
// M4A tries a stream copy first and falls back to an AAC re-encode.
func (e *Extractor) Extract(ctx context.Context, videoPath, outputPath string, format Format) (string, error) {
	const op = "Extractor.Extract"

	if format != FormatMP3 && format != FormatM4A {
		return "", errors.InvalidInput(op, nil, fmt.Sprintf("format must be %q or %q, got %q", FormatMP3, FormatM4A, format))
	}
	if _, err := os.Stat(videoPath); err != nil {
		return "", errors.NotFound(op, err, fmt.Sprintf("video not found: %s", videoPath))
	}

	outPath := ResolveOutputPath(videoPath, outputPath, e.rawDir, format)
	if err := os.MkdirAll(filepath.Dir(outPath), 0o755); err != nil {
		return "", errors.Internal(op, err, "failed to create output directory")
	}

	logrus.WithFields(logrus.Fields{
		"video":  videoPath,
		"output": outPath,
		"format": format,
	}).Info("Extracting audio")

	if format == FormatMP3 {
		if err := e.run(ctx, videoPath, outPath, "libmp3lame", "-q:a", "2"); err != nil {
			return "", errors.Internal(op, err, "failed to extract audio")
		}
		return outPath, nil
	}

	// M4A sources usually carry AAC already; copy is cheap when it works.
	if err := e.run(ctx, videoPath, outPath, "copy"); err != nil {
		logrus.WithError(err).Debug("Stream copy failed, re-encoding with aac")
		if err := e.run(ctx, videoPath, outPath, "aac"); err != nil {
			return "", errors.Internal(op, err, "failed to extract audio")
		}
	}
	return outPath, nil
}

func (e *Extractor) run(ctx context.Context, videoPath, outPath, codec string, extraArgs ...string) error {
	args := []string{"-hide_banner", "-i", videoPath, "-vn", "-acodec", codec}
	args = append(args, extraArgs...)
	args = append(args, "-y", outPath)

	cmd := exec.CommandContext(ctx, e.ffmpegPath, args...)
	if output, err := cmd.CombinedOutput(); err != nil {
		return fmt.Errorf("%v, output: %s", err, output)
	}
	return nil
}

// ResolveOutputPath applies the output-path rules: empty means
// <rawDir>/<stem>/audio.<ext>; an existing directory (or an extensionless
// path that does not exist) gets <stem>.<ext> appended; a path without an
// extension gets one.
func ResolveOutputPath(videoPath, outputPath, rawDir string, format Format) string {
	ext := "." + string(format)
	stem := strings.TrimSuffix(filepath.Base(videoPath), filepath.Ext(videoPath))

	if outputPath == "" {
		return filepath.Join(rawDir, stem, "audio"+ext)
	}

	if info, err := os.Stat(outputPath); err == nil && info.IsDir() {
		return filepath.Join(outputPath, stem+ext)
	}
	if filepath.Ext(outputPath) == "" {
		if _, err := os.Stat(outputPath); os.IsNotExist(err) {
			return filepath.Join(outputPath, stem+ext)
		}
		return outputPath + ext
	}
	return outputPath
}
