package main

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the watcher configuration, loaded from YAML with environment
// overrides on top.
type Config struct {
	API struct {
		BaseURL    string `yaml:"base_url"`
		TimeoutSec int    `yaml:"timeout_sec"`
	} `yaml:"api"`
	Stream struct {
		AuctionURL string `yaml:"auction_url"`
		ChatURL    string `yaml:"chat_url"`
	} `yaml:"stream"`
	Viewer struct {
		AuctionID   int64  `yaml:"auction_id"`
		LotID       int64  `yaml:"lot_id"`
		DisplayName string `yaml:"display_name"`
	} `yaml:"viewer"`
	HeartbeatSec int `yaml:"heartbeat_sec"`
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt64(key string, defaultValue int64) int64 {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.ParseInt(value, 10, 64); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func loadConfig(path string) (*Config, error) {
	var config Config

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, &config); err != nil {
			return nil, fmt.Errorf("failed to parse config: %w", err)
		}
	}

	config.API.BaseURL = getEnv("SALEROOM_API_URL", config.API.BaseURL)
	config.API.TimeoutSec = int(getEnvAsInt64("SALEROOM_API_TIMEOUT_SEC", int64(config.API.TimeoutSec)))
	config.Stream.AuctionURL = getEnv("SALEROOM_AUCTION_WS_URL", config.Stream.AuctionURL)
	config.Stream.ChatURL = getEnv("SALEROOM_CHAT_WS_URL", config.Stream.ChatURL)
	config.Viewer.AuctionID = getEnvAsInt64("SALEROOM_AUCTION_ID", config.Viewer.AuctionID)
	config.Viewer.LotID = getEnvAsInt64("SALEROOM_LOT_ID", config.Viewer.LotID)
	config.Viewer.DisplayName = getEnv("SALEROOM_DISPLAY_NAME", config.Viewer.DisplayName)

	if config.API.BaseURL == "" {
		return nil, fmt.Errorf("api base URL is required")
	}
	if config.Stream.AuctionURL == "" || config.Stream.ChatURL == "" {
		return nil, fmt.Errorf("both stream URLs are required")
	}
	if config.Viewer.AuctionID == 0 || config.Viewer.LotID == 0 {
		return nil, fmt.Errorf("auction id and lot id are required")
	}
	if config.HeartbeatSec <= 0 {
		config.HeartbeatSec = 30
	}
	if config.API.TimeoutSec <= 0 {
		config.API.TimeoutSec = 30
	}
	return &config, nil
}

// Heartbeat returns the presence heartbeat interval.
func (c *Config) Heartbeat() time.Duration {
	return time.Duration(c.HeartbeatSec) * time.Second
}

// APITimeout returns the REST request timeout.
func (c *Config) APITimeout() time.Duration {
	return time.Duration(c.API.TimeoutSec) * time.Second
}
