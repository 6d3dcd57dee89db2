package config

import (
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"
)

type Config struct {
	// Data layout: downloaded sources land in ExternalDir, derived artifacts
	// (scene clips, audio, transcripts) under RawDir.
	DataDir     string `yaml:"data_dir"`
	ExternalDir string `yaml:"external_dir"`
	RawDir      string `yaml:"raw_dir"`
	LogDir      string `yaml:"log_dir"`

	// StorePath selects the storage backend by extension (.db/.csv/.xlsx).
	StorePath string `yaml:"store_path"`

	// External tool paths.
	FFmpegPath  string `yaml:"ffmpeg_path"`
	FFprobePath string `yaml:"ffprobe_path"`
	YTDLPPath   string `yaml:"ytdlp_path"`
	WhisperPath string `yaml:"whisper_path"`

	DownloadTimeout   time.Duration `yaml:"download_timeout"`
	TranscribeTimeout time.Duration `yaml:"transcribe_timeout"`

	// Download rate limiting: RateLimit calls per RateLimitInterval.
	RateLimit         int           `yaml:"rate_limit"`
	RateLimitInterval time.Duration `yaml:"rate_limit_interval"`

	// SceneThreshold is the ffmpeg scene-score cut threshold in (0, 1).
	SceneThreshold float64 `yaml:"scene_threshold"`
}

// LoadConfig builds the config from defaults, an optional YAML file
// (YTSK_CONFIG, falling back to ./ytsk.yaml), and environment overrides, in
// that order.
func LoadConfig() (*Config, error) {
	cfg := defaultConfig()

	path := GetEnv("YTSK_CONFIG", "ytsk.yaml")
	if err := loadFile(cfg, path); err != nil {
		return nil, err
	}
	applyEnv(cfg)

	if cfg.ExternalDir == "" {
		cfg.ExternalDir = filepath.Join(cfg.DataDir, "external")
	}
	if cfg.RawDir == "" {
		cfg.RawDir = filepath.Join(cfg.DataDir, "raw")
	}
	return cfg, nil
}

func defaultConfig() *Config {
	return &Config{
		DataDir:           "./data",
		LogDir:            "./logs",
		StorePath:         "./data/short_videos.db",
		FFmpegPath:        "ffmpeg",
		FFprobePath:       "ffprobe",
		YTDLPPath:         "yt-dlp",
		WhisperPath:       "whisper",
		DownloadTimeout:   15 * time.Minute,
		TranscribeTimeout: 30 * time.Minute,
		RateLimit:         5,
		RateLimitInterval: time.Second,
		SceneThreshold:    0.4,
	}
}

func loadFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return errors.Wrapf(err, "reading config file %s", path)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return errors.Wrapf(err, "parsing config file %s", path)
	}
	return nil
}

func applyEnv(cfg *Config) {
	cfg.DataDir = GetEnv("YTSK_DATA_DIR", cfg.DataDir)
	cfg.ExternalDir = GetEnv("YTSK_EXTERNAL_DIR", cfg.ExternalDir)
	cfg.RawDir = GetEnv("YTSK_RAW_DIR", cfg.RawDir)
	cfg.LogDir = GetEnv("YTSK_LOG_DIR", cfg.LogDir)
	cfg.StorePath = GetEnv("YTSK_STORE_PATH", cfg.StorePath)
	cfg.FFmpegPath = GetEnv("YTSK_FFMPEG_PATH", cfg.FFmpegPath)
	cfg.FFprobePath = GetEnv("YTSK_FFPROBE_PATH", cfg.FFprobePath)
	cfg.YTDLPPath = GetEnv("YTSK_YTDLP_PATH", cfg.YTDLPPath)
	cfg.WhisperPath = GetEnv("YTSK_WHISPER_PATH", cfg.WhisperPath)
	cfg.DownloadTimeout = getEnvAsDuration("YTSK_DOWNLOAD_TIMEOUT", cfg.DownloadTimeout)
	cfg.TranscribeTimeout = getEnvAsDuration("YTSK_TRANSCRIBE_TIMEOUT", cfg.TranscribeTimeout)
	cfg.RateLimit = getEnvAsInt("YTSK_RATE_LIMIT", cfg.RateLimit)
	cfg.RateLimitInterval = getEnvAsDuration("YTSK_RATE_LIMIT_INTERVAL", cfg.RateLimitInterval)
	cfg.SceneThreshold = getEnvAsFloat("YTSK_SCENE_THRESHOLD", cfg.SceneThreshold)
}

func GetEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value, exists := os.LookupEnv(key); exists {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
		logrus.WithFields(logrus.Fields{
			"key":          key,
			"value":        value,
			"defaultValue": defaultValue,
		}).Warn("Invalid duration, using default")
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value, exists := os.LookupEnv(key); exists {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
		logrus.WithFields(logrus.Fields{
			"key":          key,
			"value":        value,
			"defaultValue": defaultValue,
		}).Warn("Invalid integer, using default")
	}
	return defaultValue
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	if value, exists := os.LookupEnv(key); exists {
		if floatValue, err := strconv.ParseFloat(value, 64); err == nil {
			return floatValue
		}
		logrus.WithFields(logrus.Fields{
			"key":          key,
			"value":        value,
			"defaultValue": defaultValue,
		}).Warn("Invalid float, using default")
	}
	return defaultValue
}

func ValidateConfig(cfg *Config) error {
	if cfg.StorePath == "" {
		return errors.New("store path is required")
	}
	if cfg.DataDir == "" {
		return errors.New("data directory is required")
	}
	if cfg.DownloadTimeout <= 0 {
		return errors.New("download timeout must be greater than 0")
	}
	if cfg.TranscribeTimeout <= 0 {
		return errors.New("transcribe timeout must be greater than 0")
	}
	if cfg.RateLimit <= 0 {
		return errors.New("rate limit must be greater than 0")
	}
	if cfg.SceneThreshold <= 0 || cfg.SceneThreshold >= 1 {
		return errors.New("scene threshold must be between 0 and 1")
	}
	return nil
}
