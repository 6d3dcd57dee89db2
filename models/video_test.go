package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	apperrors "github.com/nijaru/yt-shorts/errors"
	"github.com/nijaru/yt-shorts/storage"
)

func TestShortVideoRowRoundTrip(t *testing.T) {
	tests := []struct {
		name  string
		video ShortVideo
	}{
		{
			name: "utc timestamp",
			video: ShortVideo{
				ID:        "v1",
				URL:       "https://x/v1",
				Title:     "Cats",
				Channel:   "ChA",
				ScrapedAt: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
			},
		},
		{
			name: "nanosecond precision",
			video: ShortVideo{
				ID:        "v2",
				URL:       "https://x/v2",
				Title:     "Dogs",
				Channel:   "ChB",
				ScrapedAt: time.Date(2024, 6, 15, 13, 37, 42, 123456789, time.UTC),
			},
		},
		{
			name: "zone offset",
			video: ShortVideo{
				ID:        "v3",
				URL:       "https://x/v3",
				Title:     "Birds",
				Channel:   "ChC",
				ScrapedAt: time.Date(2024, 3, 1, 9, 0, 0, 0, time.FixedZone("", 2*60*60)),
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ShortVideoFromRow(tt.video.ToRow())
			require.NoError(t, err)
			require.Equal(t, tt.video.ID, got.ID)
			require.Equal(t, tt.video.URL, got.URL)
			require.Equal(t, tt.video.Title, got.Title)
			require.Equal(t, tt.video.Channel, got.Channel)
			require.True(t, tt.video.ScrapedAt.Equal(got.ScrapedAt),
				"scraped_at must round-trip exactly: %v != %v", tt.video.ScrapedAt, got.ScrapedAt)
		})
	}
}

func TestShortVideoToRowColumns(t *testing.T) {
	video := ShortVideo{ID: "v1", ScrapedAt: time.Now()}
	row := video.ToRow()
	require.Len(t, row, len(ShortVideoSchema.Columns))
	for _, c := range ShortVideoSchema.Columns {
		require.Contains(t, row, c)
	}
}

func TestShortVideoFromRowMalformed(t *testing.T) {
	valid := storage.Row{
		"id":         "v1",
		"url":        "https://x/v1",
		"title":      "Cats",
		"channel":    "ChA",
		"scraped_at": "2024-01-01T00:00:00Z",
	}

	t.Run("missing column", func(t *testing.T) {
		row := storage.Row{}
		for k, v := range valid {
			row[k] = v
		}
		delete(row, "channel")

		_, err := ShortVideoFromRow(row)
		require.Error(t, err)
		require.True(t, apperrors.IsInvalidInput(err))
	})

	t.Run("unparsable timestamp", func(t *testing.T) {
		row := storage.Row{}
		for k, v := range valid {
			row[k] = v
		}
		row["scraped_at"] = "yesterday"

		_, err := ShortVideoFromRow(row)
		require.Error(t, err)
		require.True(t, apperrors.IsInvalidInput(err))
	})

	t.Run("empty timestamp", func(t *testing.T) {
		row := storage.Row{}
		for k, v := range valid {
			row[k] = v
		}
		row["scraped_at"] = ""

		_, err := ShortVideoFromRow(row)
		require.Error(t, err)
	})
}

func TestShortVideoSchemaIsValid(t *testing.T) {
	require.NoError(t, ShortVideoSchema.Validate())
}
