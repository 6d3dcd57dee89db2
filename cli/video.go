package cli

import (
	"context"
	"flag"
	"fmt"

	"github.com/nijaru/yt-shorts/config"
	"github.com/nijaru/yt-shorts/media/audio"
	"github.com/nijaru/yt-shorts/media/download"
	"github.com/nijaru/yt-shorts/media/scenes"
)

func runVideo(ctx context.Context, cfg *config.Config, args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("missing video subcommand: download, cuts, or get-audio")
	}

	switch args[0] {
	case "download":
		return videoDownload(ctx, cfg, args[1:])
	case "cuts":
		return videoCuts(ctx, cfg, args[1:])
	case "get-audio":
		return videoGetAudio(ctx, cfg, args[1:])
	default:
		return fmt.Errorf("unknown video subcommand %q", args[0])
	}
}

func videoDownload(ctx context.Context, cfg *config.Config, args []string) error {
	fs := flag.NewFlagSet("video download", flag.ContinueOnError)
	source := fs.String("source", "youtube", "video source")
	verbose := fs.Bool("v", false, "write the info JSON next to the download")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		return fmt.Errorf("usage: ytsk video download [flags] <url>")
	}

	downloader, err := download.New(*source, cfg)
	if err != nil {
		return err
	}
	if ytdlp, ok := downloader.(*download.YTDLP); ok {
		ytdlp.SetVerbose(*verbose)
	}

	runCtx, cancel := context.WithTimeout(ctx, cfg.DownloadTimeout)
	defer cancel()

	path, err := downloader.Download(runCtx, fs.Arg(0))
	if err != nil {
		return err
	}
	fmt.Println(path)
	return nil
}

func videoCuts(ctx context.Context, cfg *config.Config, args []string) error {
	fs := flag.NewFlagSet("video cuts", flag.ContinueOnError)
	output := fs.String("o", "", "output directory for split clips")
	threshold := fs.Float64("threshold", cfg.SceneThreshold, "scene-score cut threshold (0-1)")
	verbose := fs.Bool("v", false, "write cuts_timestamps.json alongside the clips")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		return fmt.Errorf("usage: ytsk video cuts [flags] <path>")
	}

	cfg.SceneThreshold = *threshold
	detector := scenes.NewFFmpegDetector(cfg)
	detector.SetVerbose(*verbose)

	detected, err := detector.DetectAndSplit(ctx, fs.Arg(0), *output)
	if err != nil {
		return err
	}
	fmt.Printf("split %d scenes\n", len(detected))
	return nil
}

func videoGetAudio(ctx context.Context, cfg *config.Config, args []string) error {
	fs := flag.NewFlagSet("video get-audio", flag.ContinueOnError)
	output := fs.String("o", "", "output file or directory")
	format := fs.String("f", "mp3", "output format: mp3 or m4a")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		return fmt.Errorf("usage: ytsk video get-audio [flags] <path>")
	}

	extractor := audio.NewExtractor(cfg)
	path, err := extractor.Extract(ctx, fs.Arg(0), *output, audio.Format(*format))
	if err != nil {
		return err
	}
	fmt.Println(path)
	return nil
}
