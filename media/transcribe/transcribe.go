// Package transcribe turns extracted audio into text by shelling out to a
// whisper CLI that reports its result as JSON on stdout.
package transcribe

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"math/rand"
	"os"
	"os/exec"
	"path/filepath"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/nijaru/yt-shorts/config"
	"github.com/nijaru/yt-shorts/errors"
	"github.com/nijaru/yt-shorts/utils"
)

const (
	TaskTranscribe = "transcribe"
	TaskTranslate  = "translate"
)

// Segment is one timestamped chunk of the transcript.
type Segment struct {
	Start float64 `json:"start"`
	End   float64 `json:"end"`
	Text  string  `json:"text"`
}

// Result is the parsed whisper output.
type Result struct {
	Text     string    `json:"text"`
	Segments []Segment `json:"segments,omitempty"`
	Language string    `json:"language,omitempty"`
}

// Options control one transcription run.
type Options struct {
	// Language hints the source language ("en", "fr"); empty auto-detects.
	Language string
	// Task is "transcribe" (same language, the default) or "translate"
	// (to English).
	Task string
	// Timestamps requests a JSON transcript with per-segment times instead
	// of plain text.
	Timestamps bool
	// OutputPath overrides where the transcript is saved. Empty saves
	// transcript.txt (or .json) next to the audio file.
	OutputPath string
}

// Transcriber produces a transcript and the path it was saved to.
type Transcriber interface {
	Transcribe(ctx context.Context, audioPath string, opts Options) (*Result, string, error)
}

// New picks a transcriber by strategy name. Only "whisper" is supported.
func New(strategy string, cfg *config.Config) (Transcriber, error) {
	const op = "transcribe.New"

	switch strategy {
	case "whisper":
		return NewWhisper(cfg), nil
	default:
		return nil, errors.InvalidInput(op, nil, fmt.Sprintf("invalid strategy %q: use \"whisper\"", strategy))
	}
}

type Whisper struct {
	binPath string
	timeout time.Duration
}

func NewWhisper(cfg *config.Config) *Whisper {
	return &Whisper{
		binPath: cfg.WhisperPath,
		timeout: cfg.TranscribeTimeout,
	}
}

func (w *Whisper) Transcribe(ctx context.Context, audioPath string, opts Options) (*Result, string, error) {
	const op = "Whisper.Transcribe"

	if err := ValidateTask(opts.Task); err != nil {
		return nil, "", err
	}
	if _, err := os.Stat(audioPath); err != nil {
		return nil, "", errors.NotFound(op, err, fmt.Sprintf("audio not found: %s", audioPath))
	}

	runCtx := ctx
	if w.timeout > 0 {
		var cancel context.CancelFunc
		runCtx, cancel = context.WithTimeout(ctx, w.timeout)
		defer cancel()
	}

	logrus.WithField("audio", audioPath).Info("Starting transcription")

	output, err := w.runWithRetry(runCtx, audioPath, opts)
	if err != nil {
		return nil, "", err
	}

	result, err := ParseResult(output)
	if err != nil {
		return nil, "", errors.Internal(op, err, "whisper returned an unusable result")
	}

	savedPath, err := saveTranscript(audioPath, result, opts)
	if err != nil {
		return nil, "", err
	}

	logrus.WithFields(logrus.Fields{
		"audio":      audioPath,
		"transcript": savedPath,
	}).Info("Transcription completed")
	return result, savedPath, nil
}

func (w *Whisper) runWithRetry(ctx context.Context, audioPath string, opts Options) ([]byte, error) {
	const op = "Whisper.runWithRetry"
	const (
		maxRetries     = 3
		initialBackoff = 2 * time.Second
		maxBackoff     = 30 * time.Second
		backoffFactor  = 2.0
	)

	var (
		output []byte
		err    error
	)

	for attempt := 1; attempt <= maxRetries; attempt++ {
		output, err = w.run(ctx, audioPath, opts)
		if err == nil {
			return output, nil
		}

		logrus.WithFields(logrus.Fields{
			"attempt":    attempt,
			"maxRetries": maxRetries,
			"audio":      audioPath,
			"error":      err,
		}).Error("Transcription attempt failed")

		if attempt == maxRetries {
			break
		}

		backoff := time.Duration(float64(initialBackoff) * math.Pow(backoffFactor, float64(attempt-1)))
		if backoff > maxBackoff {
			backoff = maxBackoff
		}

		select {
		case <-time.After(backoff + time.Duration(rand.Int63n(int64(backoff/2)))):
		case <-ctx.Done():
			return nil, errors.Internal(op, ctx.Err(), "context cancelled during transcription")
		}
	}

	return nil, errors.Internal(op, err, fmt.Sprintf("transcription failed after %d attempts", maxRetries))
}

func (w *Whisper) run(ctx context.Context, audioPath string, opts Options) ([]byte, error) {
	args := BuildArgs(audioPath, opts)
	cmd := exec.CommandContext(ctx, w.binPath, args...)
	output, err := cmd.Output()
	if err != nil {
		return nil, fmt.Errorf("error executing whisper: %v, output: %s", err, output)
	}
	return output, nil
}

// BuildArgs assembles the whisper CLI invocation for one run.
func BuildArgs(audioPath string, opts Options) []string {
	task := opts.Task
	if task == "" {
		task = TaskTranscribe
	}
	args := []string{audioPath, "--task", task, "--output-format", "json"}
	if opts.Language != "" {
		args = append(args, "--language", opts.Language)
	}
	return args
}

// ValidateTask accepts "transcribe", "translate", or empty (the default).
func ValidateTask(task string) error {
	const op = "transcribe.ValidateTask"

	if task != "" && task != TaskTranscribe && task != TaskTranslate {
		return errors.InvalidInput(op, nil,
			fmt.Sprintf("task must be %q or %q, got %q", TaskTranscribe, TaskTranslate, task))
	}
	return nil
}

// ParseResult decodes the whisper JSON output and rejects empty transcripts.
func ParseResult(output []byte) (*Result, error) {
	var result Result
	if err := json.Unmarshal(output, &result); err != nil {
		return nil, fmt.Errorf("invalid JSON output: %v", err)
	}
	if result.Text == "" {
		return nil, fmt.Errorf("transcription resulted in empty text")
	}
	return &result, nil
}

// saveTranscript writes the transcript next to the audio file (or to the
// requested path): JSON with segments when timestamps were requested and
// segments exist, plain formatted text otherwise.
func saveTranscript(audioPath string, result *Result, opts Options) (string, error) {
	const op = "transcribe.saveTranscript"

	asJSON := opts.Timestamps && len(result.Segments) > 0
	outPath := ResolveOutputPath(audioPath, opts.OutputPath, asJSON)

	if err := os.MkdirAll(filepath.Dir(outPath), 0o755); err != nil {
		return "", errors.Internal(op, err, "failed to create transcript directory")
	}

	if asJSON && filepath.Ext(outPath) == ".json" {
		data, err := json.MarshalIndent(result, "", "  ")
		if err != nil {
			return "", errors.Internal(op, err, "failed to encode transcript")
		}
		if err := os.WriteFile(outPath, data, 0o644); err != nil {
			return "", errors.Internal(op, err, "failed to write transcript")
		}
		return outPath, nil
	}

	if err := os.WriteFile(outPath, []byte(utils.FormatText(result.Text)), 0o644); err != nil {
		return "", errors.Internal(op, err, "failed to write transcript")
	}
	return outPath, nil
}

// ResolveOutputPath applies the transcript naming rules: empty output means
// transcript.json (with segments) or transcript.txt next to the audio file;
// a directory gets the default name appended; an extensionless file path
// gets .txt.
func ResolveOutputPath(audioPath, outputPath string, asJSON bool) string {
	name := "transcript.txt"
	if asJSON {
		name = "transcript.json"
	}

	if outputPath == "" {
		return filepath.Join(filepath.Dir(audioPath), name)
	}
	if info, err := os.Stat(outputPath); err == nil && info.IsDir() {
		return filepath.Join(outputPath, name)
	}
	if filepath.Ext(outputPath) == "" {
		if _, err := os.Stat(outputPath); os.IsNotExist(err) {
			return filepath.Join(outputPath, name)
		}
		return outputPath + ".txt"
	}
	return outputPath
}
