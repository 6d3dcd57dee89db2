package models

import (
	"fmt"
	"time"

	"github.com/nijaru/yt-shorts/errors"
	"github.com/nijaru/yt-shorts/storage"
)

// ShortVideoSchema drives table and file layout for persisted shorts.
var ShortVideoSchema = storage.Schema{
	Table:    "short_videos",
	IDColumn: "id",
	Columns:  []string{"id", "url", "title", "channel", "scraped_at"},
}

// ShortVideo is a scraped short-form video record. It owns no I/O; the
// repository layer converts it to and from the generic row representation.
type ShortVideo struct {
	ID        string
	URL       string
	Title     string
	Channel   string
	ScrapedAt time.Time
}

// ToRow converts the video to its storage row. ScrapedAt is serialized as
// RFC 3339 so that FromRow round-trips exactly.
func (v ShortVideo) ToRow() storage.Row {
	return storage.Row{
		"id":         v.ID,
		"url":        v.URL,
		"title":      v.Title,
		"channel":    v.Channel,
		"scraped_at": v.ScrapedAt.Format(time.RFC3339Nano),
	}
}

// ShortVideoFromRow builds a ShortVideo from a storage row. A row missing a
// schema column or carrying an unparsable timestamp is rejected.
func ShortVideoFromRow(row storage.Row) (ShortVideo, error) {
	const op = "models.ShortVideoFromRow"

	for _, c := range ShortVideoSchema.Columns {
		if _, ok := row[c]; !ok {
			return ShortVideo{}, errors.InvalidInput(op, nil, fmt.Sprintf("row is missing column %q", c))
		}
	}

	scrapedAt, err := time.Parse(time.RFC3339Nano, row["scraped_at"])
	if err != nil {
		return ShortVideo{}, errors.InvalidInput(op, err,
			fmt.Sprintf("row %q has unparsable scraped_at %q", row["id"], row["scraped_at"]))
	}

	return ShortVideo{
		ID:        row["id"],
		URL:       row["url"],
		Title:     row["title"],
		Channel:   row["channel"],
		ScrapedAt: scrapedAt,
	}, nil
}
