// Package cli wires the toolchain's subcommands:
//
//	ytsk video download|cuts|get-audio
//	ytsk audio transcribe
//	ytsk videos list|add
package cli

import (
	"context"
	"fmt"

	"github.com/nijaru/yt-shorts/config"
)

const usage = `Usage: ytsk <command> <subcommand> [flags] [args]

Commands:
  video download <url>     Download a video from YouTube
  video cuts <path>        Detect scene cuts and split into clips
  video get-audio <path>   Extract the audio track
  audio transcribe <path>  Transcribe audio to text
  videos list              List stored video records
  videos add <url>         Store a scraped video record
`

// Run dispatches a command line. It returns the error that should terminate
// the process; callers print it and exit non-zero.
func Run(ctx context.Context, cfg *config.Config, args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("missing command\n\n%s", usage)
	}

	switch args[0] {
	case "video":
		return runVideo(ctx, cfg, args[1:])
	case "audio":
		return runAudio(ctx, cfg, args[1:])
	case "videos":
		return runVideos(ctx, cfg, args[1:])
	case "help", "-h", "--help":
		fmt.Print(usage)
		return nil
	default:
		return fmt.Errorf("unknown command %q\n\n%s", args[0], usage)
	}
}
