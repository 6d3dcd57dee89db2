package cli

import (
	"context"
	"flag"
	"fmt"

	"github.com/nijaru/yt-shorts/config"
	"github.com/nijaru/yt-shorts/media/transcribe"
)

func runAudio(ctx context.Context, cfg *config.Config, args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("missing audio subcommand: transcribe")
	}

	switch args[0] {
	case "transcribe":
		return audioTranscribe(ctx, cfg, args[1:])
	default:
		return fmt.Errorf("unknown audio subcommand %q", args[0])
	}
}

func audioTranscribe(ctx context.Context, cfg *config.Config, args []string) error {
	fs := flag.NewFlagSet("audio transcribe", flag.ContinueOnError)
	output := fs.String("o", "", "output file for the transcript")
	language := fs.String("l", "", "source language code (auto-detect if empty)")
	task := fs.String("t", transcribe.TaskTranscribe, "transcribe (same language) or translate (to English)")
	timestamps := fs.Bool("timestamps", false, "save segment-level timestamps as JSON")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		return fmt.Errorf("usage: ytsk audio transcribe [flags] <path>")
	}

	transcriber, err := transcribe.New("whisper", cfg)
	if err != nil {
		return err
	}

	_, savedPath, err := transcriber.Transcribe(ctx, fs.Arg(0), transcribe.Options{
		Language:   *language,
		Task:       *task,
		Timestamps: *timestamps,
		OutputPath: *output,
	})
	if err != nil {
		return err
	}
	fmt.Println(savedPath)
	return nil
}
