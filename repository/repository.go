// Package repository exposes typed persistence for ShortVideo records on top
// of the generic storage layer.
package repository

import (
	"context"

	"github.com/nijaru/yt-shorts/errors"
	"github.com/nijaru/yt-shorts/models"
	"github.com/nijaru/yt-shorts/storage"
)

// VideoRepository owns exactly one storage strategy for its lifetime. The
// strategy holds no open handle between calls, so there is no teardown.
type VideoRepository struct {
	strategy storage.Strategy
}

// New wraps an initialized strategy. Construction fails with whatever
// Initialize fails with.
func New(ctx context.Context, strategy storage.Strategy) (*VideoRepository, error) {
	if err := strategy.Initialize(ctx); err != nil {
		return nil, err
	}
	return &VideoRepository{strategy: strategy}, nil
}

// FromPath resolves the storage backend from the path's extension.
func FromPath(ctx context.Context, path string) (*VideoRepository, error) {
	strategy, err := storage.NewStrategy(path, models.ShortVideoSchema)
	if err != nil {
		return nil, err
	}
	return New(ctx, strategy)
}

// FromConfig builds a repository from a configuration mapping holding at
// least a "path" key.
func FromConfig(ctx context.Context, conf map[string]string) (*VideoRepository, error) {
	const op = "repository.FromConfig"

	path, ok := conf["path"]
	if !ok || path == "" {
		return nil, errors.InvalidInput(op, nil, "storage config requires a non-empty \"path\"")
	}
	return FromPath(ctx, path)
}

// GetAllVideos returns every persisted video. A single malformed row fails
// the whole call; there is no lenient mode.
func (r *VideoRepository) GetAllVideos(ctx context.Context) ([]models.ShortVideo, error) {
	rows, err := r.strategy.GetAll(ctx)
	if err != nil {
		return nil, err
	}

	videos := make([]models.ShortVideo, 0, len(rows))
	for _, row := range rows {
		video, err := models.ShortVideoFromRow(row)
		if err != nil {
			return nil, err
		}
		videos = append(videos, video)
	}
	return videos, nil
}

// SaveVideo persists a single video.
func (r *VideoRepository) SaveVideo(ctx context.Context, video models.ShortVideo) error {
	return r.SaveVideos(ctx, []models.ShortVideo{video})
}

// SaveVideos persists videos with upsert-by-id semantics.
func (r *VideoRepository) SaveVideos(ctx context.Context, videos []models.ShortVideo) error {
	rows := make([]storage.Row, len(videos))
	for i, video := range videos {
		rows[i] = video.ToRow()
	}
	return r.strategy.SaveBatch(ctx, rows)
}
