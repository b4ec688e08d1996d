package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Site      SiteConfig
	Geocoder  GeocoderConfig
	Archive   ArchiveConfig
	Solver    SolverConfig
	OutputDir string
	LogPath   string
}

// SiteConfig describes the shape of the target classifieds site. It is
// the policy surface that has historically shifted between script
// versions (excluded categories in particular), so all of it can be
// overridden from a YAML file.
type SiteConfig struct {
	BaseURL            string   `yaml:"base_url"`
	DefaultRegion      string   `yaml:"default_region"`
	SearchPath         string   `yaml:"search_path"`
	PageParam          string   `yaml:"page_param"`
	ExcludedCategories []string `yaml:"excluded_categories"`
	LinkDelayMinSec    float64  `yaml:"link_delay_min_sec"`
	LinkDelayMaxSec    float64  `yaml:"link_delay_max_sec"`
	ListingJitterSec   float64  `yaml:"listing_jitter_sec"`
}

type GeocoderConfig struct {
	Endpoint    string
	UserAgent   string
	MaxAttempts int
	BaseDelay   time.Duration
}

// ArchiveConfig enables uploading the finished CSV to S3-compatible
// storage. Left empty, the run writes locally only.
type ArchiveConfig struct {
	Bucket          string
	Region          string
	Endpoint        string
	AccessKeyID     string
	SecretAccessKey string
	Prefix          string
}

func (a ArchiveConfig) Enabled() bool {
	return a.Bucket != "" && a.AccessKeyID != ""
}

type SolverConfig struct {
	Enabled  bool
	Headless bool
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		Site: SiteConfig{
			BaseURL:       "https://www.mudah.my",
			DefaultRegion: "malaysia",
			SearchPath:    "properties-for-rent",
			PageParam:     "o",
			ExcludedCategories: []string{
				"Commercial Property, For rent",
				"Land, For rent",
				"Room, For rent",
			},
			LinkDelayMinSec:  3,
			LinkDelayMaxSec:  7,
			ListingJitterSec: 2,
		},
		Geocoder: GeocoderConfig{
			Endpoint:    getEnv("GEOCODER_ENDPOINT", "https://nominatim.openstreetmap.org/search"),
			UserAgent:   getEnv("GEOCODER_USER_AGENT", "mudah_scraper/1.0"),
			MaxAttempts: getEnvInt("GEOCODER_MAX_ATTEMPTS", 4),
			BaseDelay:   2 * time.Second,
		},
		Archive: ArchiveConfig{
			Bucket:          os.Getenv("ARCHIVE_S3_BUCKET"),
			Region:          getEnv("ARCHIVE_S3_REGION", "ap-southeast-1"),
			Endpoint:        os.Getenv("ARCHIVE_S3_ENDPOINT"),
			AccessKeyID:     os.Getenv("ARCHIVE_S3_ACCESS_KEY_ID"),
			SecretAccessKey: os.Getenv("ARCHIVE_S3_SECRET_ACCESS_KEY"),
			Prefix:          getEnv("ARCHIVE_S3_PREFIX", "scraped-data"),
		},
		Solver: SolverConfig{
			Enabled:  os.Getenv("CHALLENGE_SOLVER") != "off",
			Headless: os.Getenv("CHALLENGE_SOLVER_HEADED") != "true",
		},
		OutputDir: getEnv("OUTPUT_DIR", "scraped_data"),
		LogPath:   getEnv("LOG_PATH", "scraper.log"),
	}

	if d := os.Getenv("GEOCODER_BASE_DELAY"); d != "" {
		dur, err := time.ParseDuration(d)
		if err == nil {
			cfg.Geocoder.BaseDelay = dur
		}
	}

	if err := cfg.loadSiteConfig(); err != nil {
		return nil, err
	}

	if cfg.Site.LinkDelayMaxSec < cfg.Site.LinkDelayMinSec {
		return nil, fmt.Errorf("link delay bounds inverted: min %.1f > max %.1f",
			cfg.Site.LinkDelayMinSec, cfg.Site.LinkDelayMaxSec)
	}

	return cfg, nil
}

func (c *Config) loadSiteConfig() error {
	path := getEnv("SITE_CONFIG", "config/site.yaml")
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}

	if err := yaml.Unmarshal(data, &c.Site); err != nil {
		return fmt.Errorf("parse %s: %w", path, err)
	}
	return nil
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

func getEnvInt(key string, defaultVal int) int {
	if val := os.Getenv(key); val != "" {
		if i, err := strconv.Atoi(val); err == nil {
			return i
		}
	}
	return defaultVal
}
