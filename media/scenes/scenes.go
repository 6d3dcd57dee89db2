// Package scenes detects scene cuts in a video and splits it into per-scene
// clips. Detection and splitting both go through ffmpeg: the scene-score
// filter reports cut timestamps, and one cut invocation per scene writes the
// clips.
package scenes

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"os"
	"os/exec"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/nijaru/yt-shorts/config"
	"github.com/nijaru/yt-shorts/errors"
	"github.com/nijaru/yt-shorts/utils"
)

// Scene is one detected shot: a half-open [Start, End) range in seconds.
// Index is 1-based to match the scene_N.mp4 clip names.
type Scene struct {
	Index int
	Start float64
	End   float64
}

// Detector finds scene boundaries and writes split clips to a directory.
type Detector interface {
	DetectAndSplit(ctx context.Context, videoPath, outputDir string) ([]Scene, error)
}

// New picks a detector implementation by name. Only "ffmpeg" is supported.
func New(strategy string, cfg *config.Config) (Detector, error) {
	const op = "scenes.New"

	switch strategy {
	case "ffmpeg":
		return NewFFmpegDetector(cfg), nil
	default:
		return nil, errors.InvalidInput(op, nil, fmt.Sprintf("invalid strategy %q: use \"ffmpeg\"", strategy))
	}
}

type FFmpegDetector struct {
	ffmpegPath  string
	ffprobePath string
	rawDir      string
	threshold   float64
	verbose     bool
}

func NewFFmpegDetector(cfg *config.Config) *FFmpegDetector {
	return &FFmpegDetector{
		ffmpegPath:  cfg.FFmpegPath,
		ffprobePath: cfg.FFprobePath,
		rawDir:      cfg.RawDir,
		threshold:   cfg.SceneThreshold,
	}
}

// SetVerbose enables the cuts_timestamps.json sidecar in the output dir.
func (d *FFmpegDetector) SetVerbose(verbose bool) {
	d.verbose = verbose
}

// DetectAndSplit detects cuts in videoPath and writes scene_N.mp4 clips to
// outputDir. Empty outputDir defaults to <raw>/<safe_title>/scenes. The
// returned scenes cover the whole video from 0 to its duration.
func (d *FFmpegDetector) DetectAndSplit(ctx context.Context, videoPath, outputDir string) ([]Scene, error) {
	const op = "FFmpegDetector.DetectAndSplit"

	if _, err := os.Stat(videoPath); err != nil {
		return nil, errors.NotFound(op, err, fmt.Sprintf("video not found: %s", videoPath))
	}

	duration, err := d.probeDuration(ctx, videoPath)
	if err != nil {
		return nil, err
	}

	cuts, err := d.detectCuts(ctx, videoPath)
	if err != nil {
		return nil, err
	}
	scenesList := BuildScenes(cuts, duration)

	if outputDir == "" {
		stem := strings.TrimSuffix(filepath.Base(videoPath), filepath.Ext(videoPath))
		outputDir = filepath.Join(d.rawDir, utils.SanitizeTitle(stem), "scenes")
	}
	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return nil, errors.Internal(op, err, "failed to create output directory")
	}

	logrus.WithFields(logrus.Fields{
		"video":  videoPath,
		"scenes": len(scenesList),
		"output": outputDir,
	}).Info("Splitting scenes")

	for _, scene := range scenesList {
		outPath := filepath.Join(outputDir, fmt.Sprintf("scene_%d.mp4", scene.Index))
		if err := d.cut(ctx, videoPath, outPath, scene); err != nil {
			return nil, err
		}
	}

	if d.verbose {
		if err := writeCutsFile(outputDir, scenesList); err != nil {
			return nil, err
		}
	}
	return scenesList, nil
}

func (d *FFmpegDetector) probeDuration(ctx context.Context, videoPath string) (float64, error) {
	const op = "FFmpegDetector.probeDuration"

	cmd := exec.CommandContext(ctx, d.ffprobePath,
		"-v", "error",
		"-show_entries", "format=duration",
		"-of", "default=noprint_wrappers=1:nokey=1",
		videoPath,
	)
	output, err := cmd.Output()
	if err != nil {
		return 0, errors.Internal(op, fmt.Errorf("%v, output: %s", err, output), "failed to probe video duration")
	}

	duration, err := strconv.ParseFloat(strings.TrimSpace(string(output)), 64)
	if err != nil {
		return 0, errors.Internal(op, err, "ffprobe returned an unparsable duration")
	}
	return duration, nil
}

// detectCuts runs the scene-score filter and parses cut timestamps from the
// showinfo output on stderr.
func (d *FFmpegDetector) detectCuts(ctx context.Context, videoPath string) ([]float64, error) {
	const op = "FFmpegDetector.detectCuts"

	filter := fmt.Sprintf("select='gt(scene,%g)',showinfo", d.threshold)
	cmd := exec.CommandContext(ctx, d.ffmpegPath,
		"-hide_banner",
		"-i", videoPath,
		"-filter:v", filter,
		"-f", "null", "-",
	)
	// showinfo writes to stderr; ffmpeg exits 0 even when no cut matches.
	output, err := cmd.CombinedOutput()
	if err != nil {
		return nil, errors.Internal(op, fmt.Errorf("%v, output: %s", err, output), "scene detection failed")
	}
	return ParseShowinfo(string(output)), nil
}

func (d *FFmpegDetector) cut(ctx context.Context, videoPath, outPath string, scene Scene) error {
	const op = "FFmpegDetector.cut"

	// Re-encode to H.264+AAC: sources often carry AV1/VP9+Opus, and stream
	// copies at non-keyframe boundaries produce broken clips.
	cmd := exec.CommandContext(ctx, d.ffmpegPath,
		"-y",
		"-hide_banner",
		"-ss", formatSeconds(scene.Start),
		"-i", videoPath,
		"-t", formatSeconds(scene.End-scene.Start),
		"-c:v", "libx264",
		"-c:a", "aac",
		"-preset", "fast",
		"-crf", "23",
		outPath,
	)
	if output, err := cmd.CombinedOutput(); err != nil {
		logrus.WithError(err).WithFields(logrus.Fields{
			"scene":  scene.Index,
			"output": outPath,
		}).Error("Scene split failed")
		return errors.Internal(op, fmt.Errorf("%v, output: %s", err, output),
			fmt.Sprintf("failed to split scene %d", scene.Index))
	}
	return nil
}

var ptsTimePattern = regexp.MustCompile(`pts_time:([0-9]+(?:\.[0-9]+)?)`)

// ParseShowinfo extracts cut timestamps from ffmpeg showinfo stderr output,
// in order of appearance.
func ParseShowinfo(output string) []float64 {
	var cuts []float64
	for _, match := range ptsTimePattern.FindAllStringSubmatch(output, -1) {
		t, err := strconv.ParseFloat(match[1], 64)
		if err != nil {
			continue
		}
		cuts = append(cuts, t)
	}
	return cuts
}

// BuildScenes reconciles cut timestamps into contiguous scenes covering
// [0, duration). Cuts at or past the end, out-of-order cuts, and a leading
// cut at zero are dropped.
func BuildScenes(cuts []float64, duration float64) []Scene {
	boundaries := []float64{0}
	for _, cut := range cuts {
		last := boundaries[len(boundaries)-1]
		if cut <= last || cut >= duration {
			continue
		}
		boundaries = append(boundaries, cut)
	}
	boundaries = append(boundaries, duration)

	scenes := make([]Scene, 0, len(boundaries)-1)
	for i := 0; i < len(boundaries)-1; i++ {
		scenes = append(scenes, Scene{
			Index: i + 1,
			Start: boundaries[i],
			End:   boundaries[i+1],
		})
	}
	return scenes
}

type cutRecord struct {
	Scene        int     `json:"scene"`
	StartSeconds float64 `json:"start_seconds"`
	EndSeconds   float64 `json:"end_seconds"`
}

func writeCutsFile(outputDir string, scenesList []Scene) error {
	const op = "scenes.writeCutsFile"

	records := make([]cutRecord, len(scenesList))
	for i, scene := range scenesList {
		records[i] = cutRecord{
			Scene:        scene.Index,
			StartSeconds: roundSeconds(scene.Start),
			EndSeconds:   roundSeconds(scene.End),
		}
	}

	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return errors.Internal(op, err, "failed to encode cut timestamps")
	}
	path := filepath.Join(outputDir, "cuts_timestamps.json")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return errors.Internal(op, err, "failed to write cut timestamps")
	}
	return nil
}

func roundSeconds(s float64) float64 {
	return math.Round(s*100) / 100
}

func formatSeconds(s float64) string {
	return strconv.FormatFloat(s, 'f', 3, 64)
}
