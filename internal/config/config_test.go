package config_test

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/thomthomthomas/SMART-CAREER-Singapore/internal/config"
)

// setEnv is a helper that sets environment variables for a test and restores them after.
func setEnv(t *testing.T, env map[string]string) {
	t.Helper()
	for k, v := range env {
		t.Setenv(k, v)
	}
}

// validEnv returns the minimum set of valid environment variables.
func validEnv() map[string]string {
	return map[string]string{
		"AI_PROVIDER":     "gemini",
		"GEMINI_API_KEY":  "gm-test-key",
		"YOUTUBE_API_KEY": "yt-test-key",
	}
}

func TestLoad_ValidConfig(t *testing.T) {
	setEnv(t, validEnv())

	cfg, err := config.Load("")
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "development", cfg.Server.Env)
	assert.Equal(t, "gemini", cfg.AI.Provider)
	assert.Equal(t, "gm-test-key", cfg.Gemini.APIKey)
	assert.Equal(t, "gemini-1.5-flash", cfg.Gemini.Model)
	assert.Equal(t, "yt-test-key", cfg.YouTube.APIKey)
	assert.Equal(t, "./json_outputs", cfg.Output.Dir)
	assert.Equal(t, "./json_outputs", cfg.Output.PDFDir)
	assert.Empty(t, cfg.Database.URL)
	assert.Empty(t, cfg.Redis.URL)
}

func TestLoad_PipelineDefaults(t *testing.T) {
	setEnv(t, validEnv())

	cfg, err := config.Load("")
	require.NoError(t, err)

	assert.Equal(t, 3, cfg.Pipeline.MaxVideosPerSkill)
	assert.Equal(t, time.Second, cfg.Pipeline.RequestDelay)
	assert.Equal(t, 3, cfg.Pipeline.RetryMax)
	assert.Equal(t, 5*time.Second, cfg.Pipeline.RetryInitialDelay)
	assert.Equal(t, 800, cfg.Pipeline.PreviewChars)
	assert.Equal(t, 5, cfg.Pipeline.TopModules)
	assert.Equal(t, 60*time.Second, cfg.AI.InferenceTimeout)
}

func TestLoad_CoursesDefaults(t *testing.T) {
	setEnv(t, validEnv())

	cfg, err := config.Load("")
	require.NoError(t, err)

	assert.Equal(t, []string{"https://www.coursera.org", "https://www.edx.org", "https://www.udemy.com/"}, cfg.Courses.Sites)
	assert.Equal(t, 2, cfg.Courses.ResultsPerSite)
	assert.Equal(t, 2*time.Second, cfg.Courses.SiteDelay)
	assert.False(t, cfg.CoursesEnabled())
}

func TestLoad_CoursesEnabledWithTavilyKey(t *testing.T) {
	setEnv(t, validEnv())
	t.Setenv("TAVILY_API_KEY", "tvly-test")

	cfg, err := config.Load("")
	require.NoError(t, err)
	assert.True(t, cfg.CoursesEnabled())
}

func TestLoad_CustomPortAndDurations(t *testing.T) {
	setEnv(t, validEnv())
	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("PIPELINE_REQUEST_DELAY", "250ms")
	t.Setenv("PIPELINE_RETRY_INITIAL_DELAY", "2s")

	cfg, err := config.Load("")
	require.NoError(t, err)
	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, 250*time.Millisecond, cfg.Pipeline.RequestDelay)
	assert.Equal(t, 2*time.Second, cfg.Pipeline.RetryInitialDelay)
}

func TestLoad_SeparatePDFDir(t *testing.T) {
	setEnv(t, validEnv())
	t.Setenv("OUTPUT_DIR", "/tmp/json")
	t.Setenv("OUTPUT_PDF_DIR", "/tmp/pdf")

	cfg, err := config.Load("")
	require.NoError(t, err)
	assert.Equal(t, "/tmp/json", cfg.Output.Dir)
	assert.Equal(t, "/tmp/pdf", cfg.Output.PDFDir)
}

func TestLoad_MissingYouTubeKey(t *testing.T) {
	env := validEnv()
	delete(env, "YOUTUBE_API_KEY")
	setEnv(t, env)

	_, err := config.Load("")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "YOUTUBE_API_KEY")
}

func TestRead_SkipsValidation(t *testing.T) {
	t.Setenv("YOUTUBE_API_KEY", "")
	t.Setenv("OUTPUT_DIR", "/tmp/analyses")

	cfg, err := config.Read("")
	require.NoError(t, err)
	assert.Empty(t, cfg.YouTube.APIKey)
	assert.Equal(t, "/tmp/analyses", cfg.Output.Dir)
	assert.Equal(t, "/tmp/analyses", cfg.Output.PDFDir)
}

func TestLoad_InvalidAIProvider(t *testing.T) {
	setEnv(t, validEnv())
	t.Setenv("AI_PROVIDER", "watson")

	_, err := config.Load("")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "AI_PROVIDER")
}

func TestLoad_AllValidAIProviders(t *testing.T) {
	providers := []string{"gemini", "ollama", "vllm", "openai", "anthropic"}

	for _, provider := range providers {
		t.Run(provider, func(t *testing.T) {
			env := validEnv()
			env["AI_PROVIDER"] = provider

			switch provider {
			case "openai":
				env["OPENAI_API_KEY"] = "sk-test-key"
			case "anthropic":
				env["ANTHROPIC_API_KEY"] = "sk-ant-test-key"
			case "vllm":
				env["VLLM_MODEL"] = "mistral-7b"
			}
			setEnv(t, env)

			cfg, err := config.Load("")
			require.NoError(t, err)
			assert.Equal(t, provider, cfg.AI.Provider)
		})
	}
}

func TestLoad_ProviderKeyRequirements(t *testing.T) {
	tests := []struct {
		provider string
		missing  string
	}{
		{"gemini", "GEMINI_API_KEY"},
		{"openai", "OPENAI_API_KEY"},
		{"anthropic", "ANTHROPIC_API_KEY"},
		{"vllm", "VLLM_MODEL"},
	}

	for _, tt := range tests {
		t.Run(tt.provider, func(t *testing.T) {
			t.Setenv("YOUTUBE_API_KEY", "yt-test-key")
			t.Setenv("AI_PROVIDER", tt.provider)
			t.Setenv("GEMINI_API_KEY", "")

			_, err := config.Load("")
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.missing)
		})
	}
}

func TestLoad_DatabaseURLScheme(t *testing.T) {
	for _, u := range []string{
		"postgres://u:p@localhost:5432/careers?sslmode=disable",
		"mysql://u:p@tcp(localhost:3306)/careers",
	} {
		setEnv(t, validEnv())
		t.Setenv("DATABASE_URL", u)

		cfg, err := config.Load("")
		require.NoError(t, err)
		assert.Equal(t, u, cfg.Database.URL)
	}

	setEnv(t, validEnv())
	t.Setenv("DATABASE_URL", "sqlite://careers.db")
	_, err := config.Load("")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "DATABASE_URL")
}

func TestLoad_InvalidRedisURL(t *testing.T) {
	setEnv(t, validEnv())
	t.Setenv("REDIS_URL", "localhost:6379")

	_, err := config.Load("")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "REDIS_URL")
}

func TestLoad_SchedulerRequiresRoles(t *testing.T) {
	setEnv(t, validEnv())
	t.Setenv("SCHEDULER_ENABLED", "true")

	_, err := config.Load("")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "SCHEDULER_ROLES")

	t.Setenv("SCHEDULER_ROLES", "Data Analyst:SQL|Python, Teacher:Pedagogy")
	cfg, err := config.Load("")
	require.NoError(t, err)
	assert.Equal(t, []string{"Data Analyst:SQL|Python", "Teacher:Pedagogy"}, cfg.Scheduler.Roles)
}

func TestLoad_ConfigFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	yaml := `
server:
  port: 7070
ai:
  provider: ollama
youtube:
  api_key: yt-from-file
pipeline:
  max_videos_per_skill: 5
  request_delay: 3s
`
	require.NoError(t, os.WriteFile(path, []byte(yaml), 0o644))

	cfg, err := config.Load(path)
	require.NoError(t, err)
	assert.Equal(t, 7070, cfg.Server.Port)
	assert.Equal(t, "ollama", cfg.AI.Provider)
	assert.Equal(t, "yt-from-file", cfg.YouTube.APIKey)
	assert.Equal(t, 5, cfg.Pipeline.MaxVideosPerSkill)
	assert.Equal(t, 3*time.Second, cfg.Pipeline.RequestDelay)
}

func TestLoad_EnvOverridesConfigFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("server:\n  port: 7070\n"), 0o644))

	setEnv(t, validEnv())
	t.Setenv("SERVER_PORT", "6060")

	cfg, err := config.Load(path)
	require.NoError(t, err)
	assert.Equal(t, 6060, cfg.Server.Port)
}

func TestLoad_MissingExplicitConfigFile(t *testing.T) {
	setEnv(t, validEnv())

	_, err := config.Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
}

func TestLogConfig_SlogLevel(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, config.LogConfig{Level: "debug"}.SlogLevel())
	assert.Equal(t, slog.LevelWarn, config.LogConfig{Level: "WARNING"}.SlogLevel())
	assert.Equal(t, slog.LevelError, config.LogConfig{Level: "error"}.SlogLevel())
	assert.Equal(t, slog.LevelInfo, config.LogConfig{Level: "bogus"}.SlogLevel())
}
