package repository

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	apperrors "github.com/nijaru/yt-shorts/errors"
	"github.com/nijaru/yt-shorts/models"
	"github.com/nijaru/yt-shorts/storage"
)

func TestSaveAndGetSingleVideo(t *testing.T) {
	// One backend per extension; the repository behaves identically on all.
	for _, filename := range []string{"videos.csv", "videos.db", "videos.xlsx"} {
		t.Run(filename, func(t *testing.T) {
			ctx := context.Background()
			path := filepath.Join(t.TempDir(), filename)

			repo, err := FromPath(ctx, path)
			require.NoError(t, err)

			video := models.ShortVideo{
				ID:        "v1",
				URL:       "https://x/v1",
				Title:     "Cats",
				Channel:   "ChA",
				ScrapedAt: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
			}
			require.NoError(t, repo.SaveVideo(ctx, video))

			videos, err := repo.GetAllVideos(ctx)
			require.NoError(t, err)
			require.Len(t, videos, 1)
			require.Equal(t, video.ID, videos[0].ID)
			require.Equal(t, video.URL, videos[0].URL)
			require.Equal(t, video.Title, videos[0].Title)
			require.Equal(t, video.Channel, videos[0].Channel)
			require.True(t, video.ScrapedAt.Equal(videos[0].ScrapedAt))

			// Re-saving the same id updates in place.
			video.Title = "Cats Remastered"
			require.NoError(t, repo.SaveVideo(ctx, video))

			videos, err = repo.GetAllVideos(ctx)
			require.NoError(t, err)
			require.Len(t, videos, 1)
			require.Equal(t, "Cats Remastered", videos[0].Title)
		})
	}
}

func TestSaveVideosBatch(t *testing.T) {
	ctx := context.Background()
	repo, err := FromPath(ctx, filepath.Join(t.TempDir(), "videos.csv"))
	require.NoError(t, err)

	batch := []models.ShortVideo{
		{ID: "a", URL: "https://x/a", Title: "A", Channel: "Ch", ScrapedAt: time.Now().UTC()},
		{ID: "b", URL: "https://x/b", Title: "B", Channel: "Ch", ScrapedAt: time.Now().UTC()},
	}
	require.NoError(t, repo.SaveVideos(ctx, batch))

	videos, err := repo.GetAllVideos(ctx)
	require.NoError(t, err)
	require.Len(t, videos, 2)
}

func TestFromPathUnsupportedExtension(t *testing.T) {
	_, err := FromPath(context.Background(), filepath.Join(t.TempDir(), "videos.txt"))
	require.Error(t, err)
	require.True(t, apperrors.IsInvalidInput(err))
}

func TestFromPathInitializes(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "videos.csv")

	_, err := FromPath(ctx, path)
	require.NoError(t, err)
	require.FileExists(t, path)
}

func TestFromConfig(t *testing.T) {
	ctx := context.Background()

	t.Run("with path", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "videos.csv")
		repo, err := FromConfig(ctx, map[string]string{"path": path})
		require.NoError(t, err)
		require.NotNil(t, repo)
	})

	t.Run("missing path", func(t *testing.T) {
		_, err := FromConfig(ctx, map[string]string{})
		require.Error(t, err)
		require.True(t, apperrors.IsInvalidInput(err))
	})
}

func TestGetAllVideosFailsOnMalformedRow(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "videos.csv")

	repo, err := FromPath(ctx, path)
	require.NoError(t, err)

	// Corrupt the timestamp cell behind the repository's back.
	corrupted := "id,url,title,channel,scraped_at\nv1,https://x/v1,Cats,ChA,not-a-time\n"
	require.NoError(t, os.WriteFile(path, []byte(corrupted), 0o644))

	_, err = repo.GetAllVideos(ctx)
	require.Error(t, err)
	require.True(t, apperrors.IsInvalidInput(err))
}

func TestNewPropagatesInitializeError(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "videos.csv")

	// A pre-existing file with a different header fails construction.
	require.NoError(t, os.WriteFile(path, []byte("id,rating\n"), 0o644))

	strategy, err := storage.NewStrategy(path, models.ShortVideoSchema)
	require.NoError(t, err)

	_, err = New(ctx, strategy)
	require.Error(t, err)
	require.Contains(t, err.Error(), "schema mismatch")
}
