package config

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration for the career analysis service.
type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Log       LogConfig       `mapstructure:"log"`
	Output    OutputConfig    `mapstructure:"output"`
	Database  DatabaseConfig  `mapstructure:"database"`
	Redis     RedisConfig     `mapstructure:"redis"`
	AI        AIConfig        `mapstructure:"ai"`
	Gemini    GeminiConfig    `mapstructure:"gemini"`
	Ollama    OllamaConfig    `mapstructure:"ollama"`
	VLLM      VLLMConfig      `mapstructure:"vllm"`
	OpenAI    OpenAIConfig    `mapstructure:"openai"`
	Anthropic AnthropicConfig `mapstructure:"anthropic"`
	YouTube   YouTubeConfig   `mapstructure:"youtube"`
	Supadata  SupadataConfig  `mapstructure:"supadata"`
	Tavily    TavilyConfig    `mapstructure:"tavily"`
	Pipeline  PipelineConfig  `mapstructure:"pipeline"`
	Courses   CoursesConfig   `mapstructure:"courses"`
	API       APIConfig       `mapstructure:"api"`
	Scheduler SchedulerConfig `mapstructure:"scheduler"`
}

type ServerConfig struct {
	Port int    `mapstructure:"port"`
	Env  string `mapstructure:"env"`
}

type LogConfig struct {
	Level string `mapstructure:"level"`
	File  string `mapstructure:"file"`
}

type OutputConfig struct {
	Dir    string `mapstructure:"dir"`
	PDFDir string `mapstructure:"pdf_dir"`
}

type DatabaseConfig struct {
	URL             string        `mapstructure:"url"`
	MaxOpenConns    int           `mapstructure:"max_open_conns"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
}

type RedisConfig struct {
	URL string `mapstructure:"url"`
}

type AIConfig struct {
	Provider         string        `mapstructure:"provider"`
	InferenceTimeout time.Duration `mapstructure:"inference_timeout"`
}

type GeminiConfig struct {
	APIKey string `mapstructure:"api_key"`
	Model  string `mapstructure:"model"`
}

type OllamaConfig struct {
	BaseURL string `mapstructure:"base_url"`
	Model   string `mapstructure:"model"`
}

type VLLMConfig struct {
	BaseURL string `mapstructure:"base_url"`
	Model   string `mapstructure:"model"`
}

type OpenAIConfig struct {
	APIKey string `mapstructure:"api_key"`
	Model  string `mapstructure:"model"`
}

type AnthropicConfig struct {
	APIKey string `mapstructure:"api_key"`
	Model  string `mapstructure:"model"`
}

type YouTubeConfig struct {
	APIKey  string `mapstructure:"api_key"`
	BaseURL string `mapstructure:"base_url"`
}

type SupadataConfig struct {
	APIKey  string        `mapstructure:"api_key"`
	BaseURL string        `mapstructure:"base_url"`
	Timeout time.Duration `mapstructure:"timeout"`
}

type TavilyConfig struct {
	APIKey  string        `mapstructure:"api_key"`
	BaseURL string        `mapstructure:"base_url"`
	Timeout time.Duration `mapstructure:"timeout"`
}

// PipelineConfig tunes pacing and retry behaviour of the analysis pipeline.
type PipelineConfig struct {
	MaxVideosPerSkill int           `mapstructure:"max_videos_per_skill"`
	RequestDelay      time.Duration `mapstructure:"request_delay"`
	RetryMax          int           `mapstructure:"retry_max"`
	RetryInitialDelay time.Duration `mapstructure:"retry_initial_delay"`
	PreviewChars      int           `mapstructure:"preview_chars"`
	TopModules        int           `mapstructure:"top_modules"`
}

type CoursesConfig struct {
	Sites          []string      `mapstructure:"sites"`
	ResultsPerSite int           `mapstructure:"results_per_site"`
	SiteDelay      time.Duration `mapstructure:"site_delay"`
}

type APIConfig struct {
	KeyHashes          []string `mapstructure:"key_hashes"`
	RateLimitPerMinute int      `mapstructure:"rate_limit_per_minute"`
}

type SchedulerConfig struct {
	Enabled bool     `mapstructure:"enabled"`
	Cron    string   `mapstructure:"cron"`
	Roles   []string `mapstructure:"roles"`
}

var validProviders = map[string]bool{
	"gemini":    true,
	"ollama":    true,
	"vllm":      true,
	"openai":    true,
	"anthropic": true,
}

// Load reads configuration from an optional YAML file and the environment and
// returns a validated Config. Environment variables use the upper-cased key
// with dots replaced by underscores (gemini.api_key -> GEMINI_API_KEY).
// An empty path searches ./config.yaml and ./config/config.yaml.
func Load(path string) (*Config, error) {
	cfg, err := Read(path)
	if err != nil {
		return nil, err
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Read loads and normalizes configuration without validating it, for tools
// that only need the output directories or the database URL.
func Read(path string) (*Config, error) {
	v := viper.New()
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
	}
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	cfg.normalize()
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.env", "development")

	v.SetDefault("log.level", "info")
	v.SetDefault("log.file", "")

	v.SetDefault("output.dir", "./json_outputs")
	v.SetDefault("output.pdf_dir", "")

	v.SetDefault("database.url", "")
	v.SetDefault("database.max_open_conns", 25)
	v.SetDefault("database.max_idle_conns", 5)
	v.SetDefault("database.conn_max_lifetime", 5*time.Minute)

	v.SetDefault("redis.url", "")

	v.SetDefault("ai.provider", "gemini")
	v.SetDefault("ai.inference_timeout", 60*time.Second)
	v.SetDefault("gemini.api_key", "")
	v.SetDefault("gemini.model", "gemini-1.5-flash")
	v.SetDefault("ollama.base_url", "http://localhost:11434")
	v.SetDefault("ollama.model", "llama3")
	v.SetDefault("vllm.base_url", "http://localhost:8000/v1")
	v.SetDefault("vllm.model", "")
	v.SetDefault("openai.api_key", "")
	v.SetDefault("openai.model", "gpt-4o-mini")
	v.SetDefault("anthropic.api_key", "")
	v.SetDefault("anthropic.model", "claude-sonnet-4-5-20250929")

	v.SetDefault("youtube.api_key", "")
	v.SetDefault("youtube.base_url", "")
	v.SetDefault("supadata.api_key", "")
	v.SetDefault("supadata.base_url", "https://api.supadata.ai/v1")
	v.SetDefault("supadata.timeout", 30*time.Second)
	v.SetDefault("tavily.api_key", "")
	v.SetDefault("tavily.base_url", "https://api.tavily.com")
	v.SetDefault("tavily.timeout", 30*time.Second)

	v.SetDefault("pipeline.max_videos_per_skill", 3)
	v.SetDefault("pipeline.request_delay", time.Second)
	v.SetDefault("pipeline.retry_max", 3)
	v.SetDefault("pipeline.retry_initial_delay", 5*time.Second)
	v.SetDefault("pipeline.preview_chars", 800)
	v.SetDefault("pipeline.top_modules", 5)

	v.SetDefault("courses.sites", []string{
		"https://www.coursera.org",
		"https://www.edx.org",
		"https://www.udemy.com/",
	})
	v.SetDefault("courses.results_per_site", 2)
	v.SetDefault("courses.site_delay", 2*time.Second)

	v.SetDefault("api.key_hashes", []string{})
	v.SetDefault("api.rate_limit_per_minute", 60)

	v.SetDefault("scheduler.enabled", false)
	v.SetDefault("scheduler.cron", "0 0 3 * * *")
	v.SetDefault("scheduler.roles", []string{})
}

func (c *Config) normalize() {
	if c.Output.PDFDir == "" {
		c.Output.PDFDir = c.Output.Dir
	}
	c.AI.Provider = strings.ToLower(strings.TrimSpace(c.AI.Provider))
	c.API.KeyHashes = compact(c.API.KeyHashes)
	c.Scheduler.Roles = compact(c.Scheduler.Roles)
	c.Courses.Sites = compact(c.Courses.Sites)
}

func (c *Config) validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("SERVER_PORT must be between 1 and 65535, got %d", c.Server.Port)
	}

	if c.Output.Dir == "" {
		return fmt.Errorf("OUTPUT_DIR is required")
	}

	if u := c.Database.URL; u != "" && !hasAnyPrefix(u, "postgres://", "postgresql://", "mysql://") {
		return fmt.Errorf("DATABASE_URL must start with postgres://, postgresql:// or mysql://")
	}
	if u := c.Redis.URL; u != "" && !hasAnyPrefix(u, "redis://", "rediss://") {
		return fmt.Errorf("REDIS_URL must start with redis:// or rediss://, got %q", u)
	}

	if c.AI.Provider == "" {
		return fmt.Errorf("AI_PROVIDER is required")
	}
	if !validProviders[c.AI.Provider] {
		return fmt.Errorf("AI_PROVIDER must be one of gemini, ollama, vllm, openai, anthropic; got %q", c.AI.Provider)
	}
	if c.AI.Provider == "gemini" && c.Gemini.APIKey == "" {
		return fmt.Errorf("GEMINI_API_KEY is required when AI_PROVIDER is gemini")
	}
	if c.AI.Provider == "openai" && c.OpenAI.APIKey == "" {
		return fmt.Errorf("OPENAI_API_KEY is required when AI_PROVIDER is openai")
	}
	if c.AI.Provider == "anthropic" && c.Anthropic.APIKey == "" {
		return fmt.Errorf("ANTHROPIC_API_KEY is required when AI_PROVIDER is anthropic")
	}
	if c.AI.Provider == "vllm" && c.VLLM.Model == "" {
		return fmt.Errorf("VLLM_MODEL is required when AI_PROVIDER is vllm")
	}

	if c.YouTube.APIKey == "" {
		return fmt.Errorf("YOUTUBE_API_KEY is required")
	}

	if c.Pipeline.MaxVideosPerSkill < 1 {
		return fmt.Errorf("PIPELINE_MAX_VIDEOS_PER_SKILL must be positive, got %d", c.Pipeline.MaxVideosPerSkill)
	}
	if c.Pipeline.RetryMax < 1 {
		return fmt.Errorf("PIPELINE_RETRY_MAX must be positive, got %d", c.Pipeline.RetryMax)
	}
	if c.Pipeline.PreviewChars < 1 {
		return fmt.Errorf("PIPELINE_PREVIEW_CHARS must be positive, got %d", c.Pipeline.PreviewChars)
	}
	if c.Pipeline.RequestDelay < 0 || c.Pipeline.RetryInitialDelay < 0 {
		return fmt.Errorf("pipeline delays must not be negative")
	}

	if c.Scheduler.Enabled {
		if c.Scheduler.Cron == "" {
			return fmt.Errorf("SCHEDULER_CRON is required when the scheduler is enabled")
		}
		if len(c.Scheduler.Roles) == 0 {
			return fmt.Errorf("SCHEDULER_ROLES is required when the scheduler is enabled")
		}
	}

	return nil
}

// SlogLevel maps the configured level name to a slog.Level, defaulting to info.
func (c LogConfig) SlogLevel() slog.Level {
	switch strings.ToUpper(c.Level) {
	case "DEBUG":
		return slog.LevelDebug
	case "WARN", "WARNING":
		return slog.LevelWarn
	case "ERROR":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// CoursesEnabled reports whether a web search provider is configured.
func (c *Config) CoursesEnabled() bool {
	return c.Tavily.APIKey != "" && len(c.Courses.Sites) > 0
}

// IsProduction reports whether the server runs with env=production.
func (c *Config) IsProduction() bool {
	return c.Server.Env == "production"
}

func hasAnyPrefix(s string, prefixes ...string) bool {
	for _, p := range prefixes {
		if strings.HasPrefix(s, p) {
			return true
		}
	}
	return false
}

func compact(in []string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}
