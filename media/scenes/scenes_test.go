package scenes

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/nijaru/yt-shorts/config"
	"github.com/nijaru/yt-shorts/errors"
)

func TestNewFactory(t *testing.T) {
	cfg := &config.Config{FFmpegPath: "ffmpeg", FFprobePath: "ffprobe", SceneThreshold: 0.4}

	d, err := New("ffmpeg", cfg)
	require.NoError(t, err)
	require.IsType(t, &FFmpegDetector{}, d)

	_, err = New("opencv", cfg)
	require.Error(t, err)
	require.True(t, errors.IsInvalidInput(err))
}

func TestDetectAndSplitMissingVideo(t *testing.T) {
	d := NewFFmpegDetector(&config.Config{FFmpegPath: "ffmpeg", FFprobePath: "ffprobe", RawDir: t.TempDir()})

	_, err := d.DetectAndSplit(context.Background(), "/nonexistent/video.mp4", "")
	require.Error(t, err)
	require.True(t, errors.IsNotFound(err))
}

func TestParseShowinfo(t *testing.T) {
	output := `[Parsed_showinfo_1 @ 0x5643] n:   0 pts:  12800 pts_time:4.26667 duration_time:0.0333
[Parsed_showinfo_1 @ 0x5643] n:   1 pts:  38400 pts_time:12.8 duration_time:0.0333
frame=    2 fps=0.0 q=-0.0 size=N/A time=00:00:30.00`

	cuts := ParseShowinfo(output)
	require.Equal(t, []float64{4.26667, 12.8}, cuts)
}

func TestParseShowinfoNoCuts(t *testing.T) {
	require.Empty(t, ParseShowinfo("frame=    0 fps=0.0 size=N/A time=00:00:10.00"))
}

func TestBuildScenes(t *testing.T) {
	tests := []struct {
		name     string
		cuts     []float64
		duration float64
		want     []Scene
	}{
		{
			name:     "no cuts is one scene",
			cuts:     nil,
			duration: 30,
			want:     []Scene{{Index: 1, Start: 0, End: 30}},
		},
		{
			name:     "cuts partition the video",
			cuts:     []float64{4.5, 12.8},
			duration: 30,
			want: []Scene{
				{Index: 1, Start: 0, End: 4.5},
				{Index: 2, Start: 4.5, End: 12.8},
				{Index: 3, Start: 12.8, End: 30},
			},
		},
		{
			name:     "out of order and past-end cuts dropped",
			cuts:     []float64{10, 5, 35, 20},
			duration: 30,
			want: []Scene{
				{Index: 1, Start: 0, End: 10},
				{Index: 2, Start: 10, End: 20},
				{Index: 3, Start: 20, End: 30},
			},
		},
		{
			name:     "leading zero cut dropped",
			cuts:     []float64{0, 15},
			duration: 30,
			want: []Scene{
				{Index: 1, Start: 0, End: 15},
				{Index: 2, Start: 15, End: 30},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, BuildScenes(tt.cuts, tt.duration))
		})
	}
}
