// Package download fetches source videos to local disk through yt-dlp.
package download

import (
	"context"
	"fmt"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"

	"github.com/nijaru/yt-shorts/config"
	"github.com/nijaru/yt-shorts/errors"
	"github.com/nijaru/yt-shorts/utils"
	"github.com/nijaru/yt-shorts/validation"
)

// Downloader fetches one source video and returns the local file path.
type Downloader interface {
	Download(ctx context.Context, url string) (string, error)
}

// New picks a downloader for a source name. Only "youtube" is supported.
func New(source string, cfg *config.Config) (Downloader, error) {
	const op = "download.New"

	switch source {
	case "youtube":
		return NewYTDLP(cfg), nil
	default:
		return nil, errors.InvalidInput(op, nil, fmt.Sprintf("invalid source %q: use \"youtube\"", source))
	}
}

// YTDLP shells out to yt-dlp. Invocations pass through a rate limiter so a
// batch of downloads does not hammer the site.
type YTDLP struct {
	binPath string
	outDir  string
	limiter *rate.Limiter
	verbose bool
}

func NewYTDLP(cfg *config.Config) *YTDLP {
	return &YTDLP{
		binPath: cfg.YTDLPPath,
		outDir:  cfg.ExternalDir,
		limiter: rate.NewLimiter(rate.Every(cfg.RateLimitInterval), cfg.RateLimit),
	}
}

// SetVerbose enables the info-JSON sidecar next to the downloaded file.
func (d *YTDLP) SetVerbose(verbose bool) {
	d.verbose = verbose
}

// Download fetches the best video+audio rendition of url into the external
// data directory as <sanitized_title>.<ext> and returns the final path.
func (d *YTDLP) Download(ctx context.Context, url string) (string, error) {
	const op = "YTDLP.Download"

	if err := validation.ValidateYouTubeURL(url); err != nil {
		return "", err
	}
	if err := d.limiter.Wait(ctx); err != nil {
		return "", errors.Internal(op, err, "rate limiter interrupted")
	}

	title, err := d.probeTitle(ctx, url)
	if err != nil {
		return "", err
	}
	safeTitle := utils.SanitizeTitle(title)

	logrus.WithFields(logrus.Fields{
		"url":   url,
		"title": safeTitle,
	}).Info("Starting download")

	args := d.downloadArgs(url, safeTitle)
	cmd := exec.CommandContext(ctx, d.binPath, args...)
	output, err := cmd.Output()
	if err != nil {
		logrus.WithError(err).WithField("url", url).Error("Download failed")
		return "", errors.Internal(op, fmt.Errorf("%v, output: %s", err, output), "failed to download video")
	}

	path, err := extractPath(output)
	if err != nil {
		return "", errors.Internal(op, err, "yt-dlp did not report an output file")
	}

	logrus.WithField("path", path).Info("Download completed")
	return path, nil
}

func (d *YTDLP) probeTitle(ctx context.Context, url string) (string, error) {
	const op = "YTDLP.probeTitle"

	cmd := exec.CommandContext(ctx, d.binPath, "--print", "title", "--skip-download", url)
	output, err := cmd.Output()
	if err != nil {
		return "", errors.Internal(op, fmt.Errorf("%v, output: %s", err, output), "failed to probe video title")
	}
	return strings.TrimSpace(string(output)), nil
}

// downloadArgs builds the yt-dlp invocation. The final file path is printed
// to stdout via after_move:filepath so the caller never has to guess the
// extension yt-dlp picked.
func (d *YTDLP) downloadArgs(url, safeTitle string) []string {
	args := []string{
		"-f", "bestvideo+bestaudio/best",
		"-o", filepath.Join(d.outDir, safeTitle+".%(ext)s"),
		"--no-progress",
		"--no-simulate",
		"--print", "after_move:filepath",
	}
	if d.verbose {
		args = append(args, "--write-info-json")
	}
	return append(args, url)
}

// extractPath takes the last non-empty stdout line as the downloaded path.
func extractPath(output []byte) (string, error) {
	lines := strings.Split(strings.TrimSpace(string(output)), "\n")
	path := strings.TrimSpace(lines[len(lines)-1])
	if path == "" {
		return "", fmt.Errorf("empty output path")
	}
	return path, nil
}
