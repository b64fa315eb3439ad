package app

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thomthomthomas/SMART-CAREER-Singapore/internal/cache"
	"github.com/thomthomthomas/SMART-CAREER-Singapore/internal/config"
)

func offlineConfig(t *testing.T) *config.Config {
	t.Helper()
	dir := t.TempDir()
	return &config.Config{
		AI:      config.AIConfig{Provider: "ollama", InferenceTimeout: time.Second},
		Ollama:  config.OllamaConfig{BaseURL: "http://127.0.0.1:1", Model: "llama3"},
		YouTube: config.YouTubeConfig{APIKey: "test-key"},
		Output:  config.OutputConfig{Dir: dir, PDFDir: dir},
		Pipeline: config.PipelineConfig{
			MaxVideosPerSkill: 3,
			RetryMax:          1,
			PreviewChars:      800,
			TopModules:        5,
		},
	}
}

func TestBuild_Offline(t *testing.T) {
	cfg := offlineConfig(t)

	s, err := Build(context.Background(), cfg, cache.NewMemoryCache(), Options{})
	require.NoError(t, err)
	defer s.Close()

	assert.NotNil(t, s.Workflow)
	assert.False(t, s.Gateway.HasSearch())
}

func TestBuild_WithSearch(t *testing.T) {
	cfg := offlineConfig(t)
	cfg.Tavily = config.TavilyConfig{APIKey: "tvly-test", BaseURL: "http://127.0.0.1:1", Timeout: time.Second}
	cfg.Courses.Sites = []string{"https://www.coursera.org"}

	s, err := Build(context.Background(), cfg, cache.NewMemoryCache(), Options{DisableCourses: true})
	require.NoError(t, err)
	defer s.Close()

	assert.True(t, s.Gateway.HasSearch())
}

func TestBuild_UnknownProvider(t *testing.T) {
	cfg := offlineConfig(t)
	cfg.AI.Provider = "mystery"

	_, err := Build(context.Background(), cfg, cache.NewMemoryCache(), Options{})
	assert.Error(t, err)
}

func TestNewCache_MemoryWithoutURL(t *testing.T) {
	c, err := NewCache(context.Background(), config.RedisConfig{})
	require.NoError(t, err)
	defer c.Close()

	_, ok := c.(*cache.MemoryCache)
	assert.True(t, ok)
}

func TestNewCache_InvalidURL(t *testing.T) {
	_, err := NewCache(context.Background(), config.RedisConfig{URL: "redis://%zz"})
	assert.Error(t, err)
}

func TestOpenStore_Disabled(t *testing.T) {
	st, err := OpenStore(context.Background(), config.DatabaseConfig{})
	require.NoError(t, err)
	assert.Nil(t, st)
}

func TestOpenStore_UnsupportedScheme(t *testing.T) {
	_, err := OpenStore(context.Background(), config.DatabaseConfig{URL: "sqlite://x.db"})
	assert.Error(t, err)
}
