// SPDX-License-Identifier: MIT

// Package config loads qbraid-go configuration from the profile file under
// ~/.qbraid and from environment variables. Environment always wins over
// the file; every field has a usable default.
package config

import (
	"os"
	"path/filepath"
	"time"
)

// Environment variable names consumed by qbraid-go.
const (
	EnvAPIKey       = "QBRAID_API_KEY"
	EnvAPIURL       = "QBRAID_API_URL"
	EnvConfigFile   = "QBRAID_CONFIG"
	EnvDataDir      = "QBRAID_DATA_DIR"
	EnvAWSAccessKey = "AWS_ACCESS_KEY_ID"
	EnvAWSSecretKey = "AWS_SECRET_ACCESS_KEY"
	EnvRemoteTests  = "QBRAID_RUN_REMOTE_TESTS"
)

// DefaultAPIURL is the production qBraid platform API.
const DefaultAPIURL = "https://api.qbraid.com/api"

// Config is the resolved runtime configuration.
type Config struct {
	// Platform API
	APIKey string `yaml:"api-key"`
	APIURL string `yaml:"api-url"`

	// Braket provider
	AWSAccessKeyID     string `yaml:"aws-access-key-id"`
	AWSSecretAccessKey string `yaml:"aws-secret-access-key"`
	S3Endpoint         string `yaml:"s3-endpoint"`
	S3Bucket           string `yaml:"s3-bucket"`
	S3Folder           string `yaml:"s3-folder"`
	S3Region           string `yaml:"s3-region"`

	// Local state
	DataDir string `yaml:"data-dir"`

	// Gateway
	Listen       string   `yaml:"listen"`
	CacheBackend string   `yaml:"cache-backend"` // "memory" or "redis"
	RedisAddr    string   `yaml:"redis-addr"`
	DeviceTTL    Duration `yaml:"device-ttl"`
	PollInterval Duration `yaml:"poll-interval"`
	RateLimitRPS int      `yaml:"rate-limit-rps"`
}

// Defaults returns the built-in configuration.
func Defaults() Config {
	return Config{
		APIURL:       DefaultAPIURL,
		S3Endpoint:   "s3.amazonaws.com",
		S3Bucket:     "amazon-braket-qbraid-jobs",
		S3Folder:     "results",
		S3Region:     "us-east-1",
		DataDir:      defaultDataDir(),
		Listen:       ":8080",
		CacheBackend: "memory",
		RedisAddr:    "localhost:6379",
		DeviceTTL:    Duration(60 * time.Second),
		PollInterval: Duration(5 * time.Second),
		RateLimitRPS: 20,
	}
}

// Load resolves configuration: defaults, then the profile file, then
// environment overrides.
func Load() (Config, error) {
	cfg := Defaults()

	path := FilePath()
	if _, err := os.Stat(path); err == nil {
		fileCfg, err := LoadFile(path)
		if err != nil {
			return Config{}, err
		}
		cfg = merge(cfg, fileCfg)
	}

	cfg.APIKey = ParseString(EnvAPIKey, cfg.APIKey)
	cfg.APIURL = ParseString(EnvAPIURL, cfg.APIURL)
	cfg.AWSAccessKeyID = ParseString(EnvAWSAccessKey, cfg.AWSAccessKeyID)
	cfg.AWSSecretAccessKey = ParseString(EnvAWSSecretKey, cfg.AWSSecretAccessKey)
	cfg.S3Endpoint = ParseString("QBRAID_S3_ENDPOINT", cfg.S3Endpoint)
	cfg.S3Bucket = ParseString("QBRAID_S3_BUCKET", cfg.S3Bucket)
	cfg.S3Folder = ParseString("QBRAID_S3_FOLDER", cfg.S3Folder)
	cfg.S3Region = ParseString("QBRAID_S3_REGION", cfg.S3Region)
	cfg.DataDir = ParseString(EnvDataDir, cfg.DataDir)
	cfg.Listen = ParseString("QBRAID_LISTEN", cfg.Listen)
	cfg.CacheBackend = ParseString("QBRAID_CACHE_BACKEND", cfg.CacheBackend)
	cfg.RedisAddr = ParseString("QBRAID_REDIS_ADDR", cfg.RedisAddr)
	cfg.DeviceTTL = Duration(ParseDuration("QBRAID_DEVICE_TTL", cfg.DeviceTTL.Std()))
	cfg.PollInterval = Duration(ParseDuration("QBRAID_POLL_INTERVAL", cfg.PollInterval.Std()))
	cfg.RateLimitRPS = ParseInt("QBRAID_RATE_LIMIT_RPS", cfg.RateLimitRPS)

	return cfg, nil
}

// RemoteTestsEnabled reports whether tests that reach remote services are
// allowed to run.
func RemoteTestsEnabled() bool {
	return ParseBool(EnvRemoteTests, false)
}

// FilePath returns the profile file path, honoring QBRAID_CONFIG.
func FilePath() string {
	if p := os.Getenv(EnvConfigFile); p != "" {
		return p
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", ".qbraid", "config.yaml")
	}
	return filepath.Join(home, ".qbraid", "config.yaml")
}

func defaultDataDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", ".qbraid")
	}
	return filepath.Join(home, ".qbraid")
}

// merge overlays non-zero fields of over onto base.
func merge(base, over Config) Config {
	out := base
	if over.APIKey != "" {
		out.APIKey = over.APIKey
	}
	if over.APIURL != "" {
		out.APIURL = over.APIURL
	}
	if over.AWSAccessKeyID != "" {
		out.AWSAccessKeyID = over.AWSAccessKeyID
	}
	if over.AWSSecretAccessKey != "" {
		out.AWSSecretAccessKey = over.AWSSecretAccessKey
	}
	if over.S3Endpoint != "" {
		out.S3Endpoint = over.S3Endpoint
	}
	if over.S3Bucket != "" {
		out.S3Bucket = over.S3Bucket
	}
	if over.S3Folder != "" {
		out.S3Folder = over.S3Folder
	}
	if over.S3Region != "" {
		out.S3Region = over.S3Region
	}
	if over.DataDir != "" {
		out.DataDir = over.DataDir
	}
	if over.Listen != "" {
		out.Listen = over.Listen
	}
	if over.CacheBackend != "" {
		out.CacheBackend = over.CacheBackend
	}
	if over.RedisAddr != "" {
		out.RedisAddr = over.RedisAddr
	}
	if over.DeviceTTL != 0 {
		out.DeviceTTL = over.DeviceTTL
	}
	if over.PollInterval != 0 {
		out.PollInterval = over.PollInterval
	}
	if over.RateLimitRPS != 0 {
		out.RateLimitRPS = over.RateLimitRPS
	}
	return out
}
