package cli

import (
	"context"
	"flag"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/nijaru/yt-shorts/config"
	"github.com/nijaru/yt-shorts/models"
	"github.com/nijaru/yt-shorts/repository"
	"github.com/nijaru/yt-shorts/validation"
)

func runVideos(ctx context.Context, cfg *config.Config, args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("missing videos subcommand: list or add")
	}

	switch args[0] {
	case "list":
		return videosList(ctx, cfg, args[1:])
	case "add":
		return videosAdd(ctx, cfg, args[1:])
	default:
		return fmt.Errorf("unknown videos subcommand %q", args[0])
	}
}

func videosList(ctx context.Context, cfg *config.Config, args []string) error {
	fs := flag.NewFlagSet("videos list", flag.ContinueOnError)
	store := fs.String("store", cfg.StorePath, "storage path (.db/.sqlite/.csv/.xlsx)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	repo, err := repository.FromPath(ctx, *store)
	if err != nil {
		return err
	}

	videos, err := repo.GetAllVideos(ctx)
	if err != nil {
		return err
	}

	for _, video := range videos {
		fmt.Printf("%s\t%s\t%s\t%s\t%s\n",
			video.ID,
			video.ScrapedAt.Format(time.RFC3339),
			video.Channel,
			video.Title,
			video.URL,
		)
	}
	return nil
}

func videosAdd(ctx context.Context, cfg *config.Config, args []string) error {
	fs := flag.NewFlagSet("videos add", flag.ContinueOnError)
	store := fs.String("store", cfg.StorePath, "storage path (.db/.sqlite/.csv/.xlsx)")
	id := fs.String("id", "", "record id (generated when empty)")
	title := fs.String("title", "", "video title")
	channel := fs.String("channel", "", "channel name")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		return fmt.Errorf("usage: ytsk videos add [flags] <url>")
	}

	url := fs.Arg(0)
	if err := validation.ValidateURL(url); err != nil {
		return err
	}

	repo, err := repository.FromPath(ctx, *store)
	if err != nil {
		return err
	}

	video := models.ShortVideo{
		ID:        *id,
		URL:       url,
		Title:     *title,
		Channel:   *channel,
		ScrapedAt: time.Now().UTC(),
	}
	if video.ID == "" {
		video.ID = uuid.NewString()
	}

	if err := repo.SaveVideo(ctx, video); err != nil {
		return err
	}
	fmt.Println(video.ID)
	return nil
}
