package config

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/xxxsen/common/logger"
)

type Config struct {
	Port        int              `json:"port"`
	JWTSecret   string           `json:"jwt_secret"`
	CORSOrigins []string         `json:"cors_origins"`
	LogConfig   logger.LogConfig `json:"log_config"`
	Database    DatabaseConfig   `json:"database"`
	Search      SearchConfig     `json:"search"`
	AI          AIConfig         `json:"ai"`
	Events      EventsConfig     `json:"events"`
	Report      ReportConfig     `json:"report"`
	Scanner     ScannerConfig    `json:"scanner"`
}

type DatabaseConfig struct {
	DSN      string `json:"dsn"`
	Host     string `json:"host"`
	Port     int    `json:"port"`
	User     string `json:"user"`
	Password string `json:"password"`
	DBName   string `json:"db_name"`
	SSLMode  string `json:"ssl_mode"`
}

type SearchConfig struct {
	APIKey         string `json:"api_key"`
	CSEID          string `json:"cse_id"`
	TimeoutSeconds int    `json:"timeout_seconds"`
}

type AIConfig struct {
	Provider       string      `json:"provider"`
	Model          string      `json:"model"`
	EmbedModel     string      `json:"embed_model"`
	APIKey         string      `json:"api_key"`
	TimeoutSeconds int         `json:"timeout_seconds"`
	Data           interface{} `json:"data"`
}

// hasCredential reports whether an LLM credential is present, either as the
// flat ai.api_key or inside the provider-specific ai.data block.
func (c *AIConfig) hasCredential() bool {
	if strings.TrimSpace(c.APIKey) != "" {
		return true
	}
	data, ok := c.Data.(map[string]interface{})
	if !ok {
		return false
	}
	key, ok := data["api_key"].(string)
	return ok && strings.TrimSpace(key) != ""
}

type EventsConfig struct {
	TicketmasterAPIKey string `json:"ticketmaster_api_key"`
	RadiusMiles        int    `json:"radius_miles"`
	TimeoutSeconds     int    `json:"timeout_seconds"`
}

type ReportConfig struct {
	FreshnessDays int `json:"freshness_days"`
	ChunkSize     int `json:"chunk_size"`
	ChunkOverlap  int `json:"chunk_overlap"`
	TopK          int `json:"top_k"`
}

type ScannerConfig struct {
	Enable     bool     `json:"enable"`
	Subreddits []string `json:"subreddits"`
	Cron       string   `json:"cron"`
	Limit      int      `json:"limit"`
	UserAgent  string   `json:"user_agent"`
}

func Load(path string) (*Config, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open config: %w", err)
	}
	defer file.Close()

	var cfg Config
	if err := json.NewDecoder(file).Decode(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	cfg.applyDefaults()
	return &cfg, nil
}

// validate rejects a config that is missing a required credential. Startup
// must fail fast here rather than surface key errors on the first request.
func (cfg *Config) validate() error {
	if cfg.Port == 0 {
		return fmt.Errorf("port is required")
	}
	if cfg.JWTSecret == "" {
		return fmt.Errorf("jwt_secret is required")
	}
	if cfg.Database.DSN == "" && (cfg.Database.Host == "" || cfg.Database.DBName == "") {
		return fmt.Errorf("database.dsn or database.host/db_name is required")
	}
	if cfg.Search.APIKey == "" {
		return fmt.Errorf("search.api_key is required")
	}
	if cfg.Search.CSEID == "" {
		return fmt.Errorf("search.cse_id is required")
	}
	if cfg.AI.Provider == "" {
		return fmt.Errorf("ai.provider is required")
	}
	if cfg.AI.Model == "" {
		return fmt.Errorf("ai.model is required")
	}
	if !cfg.AI.hasCredential() {
		return fmt.Errorf("ai.api_key is required")
	}
	if cfg.Events.TicketmasterAPIKey == "" {
		return fmt.Errorf("events.ticketmaster_api_key is required")
	}
	return nil
}

func (cfg *Config) applyDefaults() {
	if cfg.Database.DSN == "" && cfg.Database.Port == 0 {
		cfg.Database.Port = 5432
	}
	if cfg.LogConfig.Level == "" {
		cfg.LogConfig.Level = "info"
	}
	if cfg.Search.TimeoutSeconds == 0 {
		cfg.Search.TimeoutSeconds = 15
	}
	if cfg.AI.TimeoutSeconds == 0 {
		cfg.AI.TimeoutSeconds = 60
	}
	if cfg.AI.EmbedModel == "" {
		cfg.AI.EmbedModel = "text-embedding-004"
	}
	if cfg.Events.RadiusMiles == 0 {
		cfg.Events.RadiusMiles = 15
	}
	if cfg.Events.TimeoutSeconds == 0 {
		cfg.Events.TimeoutSeconds = 15
	}
	if cfg.Report.FreshnessDays == 0 {
		cfg.Report.FreshnessDays = 7
	}
	if cfg.Report.ChunkSize == 0 {
		cfg.Report.ChunkSize = 1000
	}
	if cfg.Report.ChunkOverlap == 0 {
		cfg.Report.ChunkOverlap = 200
	}
	if cfg.Report.TopK == 0 {
		cfg.Report.TopK = 8
	}
	if cfg.Scanner.Cron == "" {
		cfg.Scanner.Cron = "*/30 * * * *"
	}
	if cfg.Scanner.Limit == 0 {
		cfg.Scanner.Limit = 10
	}
	if cfg.Scanner.UserAgent == "" {
		cfg.Scanner.UserAgent = "databridge/1.0"
	}
}
