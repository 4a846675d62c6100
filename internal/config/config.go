package config

import (
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all application configuration.
type Config struct {
	Server ServerConfig
	Log    LogConfig
	CORS   CORSConfig
	Upload UploadConfig
	Stream StreamConfig
	Status StatusConfig
	Gemini BackendConfig
	Claude BackendConfig
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port            string        `mapstructure:"port"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
	Environment     string        `mapstructure:"environment"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// CORSConfig holds CORS settings.
type CORSConfig struct {
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// UploadConfig holds document upload limits.
type UploadConfig struct {
	MaxFileSizeMB int64 `mapstructure:"max_file_size_mb"`
}

// MaxBytes returns the upload limit in bytes.
func (u *UploadConfig) MaxBytes() int64 {
	return u.MaxFileSizeMB * 1024 * 1024
}

// StreamConfig controls the pacing of the progress stream. The delays are a UX
// affordance so clients can render each stage; they do not reflect real work.
type StreamConfig struct {
	StageDelay     time.Duration `mapstructure:"stage_delay"`
	ChunkDelay     time.Duration `mapstructure:"chunk_delay"`
	ChunkSize      int           `mapstructure:"chunk_size"`
	LiveGeneration bool          `mapstructure:"live_generation"`
}

// StatusConfig holds settings of the /status polling feed.
type StatusConfig struct {
	PollInterval   time.Duration `mapstructure:"poll_interval"`
	MirrorProgress bool          `mapstructure:"mirror_progress"`
}

// BackendConfig holds settings for a single language-model backend.
type BackendConfig struct {
	APIKey          string `mapstructure:"api_key"`
	DefaultModel    string `mapstructure:"default_model"`
	MaxOutputTokens int    `mapstructure:"max_output_tokens"`
	TimeoutSecs     int    `mapstructure:"timeout_secs"`

	// Vertex AI settings, only meaningful for Gemini. When VertexProject is set
	// Gemini is reached through Vertex AI with application default credentials.
	VertexProject  string `mapstructure:"vertex_project"`
	VertexLocation string `mapstructure:"vertex_location"`
}

// Timeout returns the transport timeout of the backend.
func (b *BackendConfig) Timeout() time.Duration {
	return time.Duration(b.TimeoutSecs) * time.Second
}

// UsesVertex reports whether the backend should be reached through Vertex AI.
func (b *BackendConfig) UsesVertex() bool {
	return b.VertexProject != ""
}

// Load reads configuration from environment variables with the DOCSUMMARY_ prefix.
func Load() (*Config, error) {
	v := viper.New()
	v.SetEnvPrefix("DOCSUMMARY")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Server defaults
	v.SetDefault("server.port", ":8000")
	v.SetDefault("server.read_timeout", "15s")
	v.SetDefault("server.write_timeout", "0s")
	v.SetDefault("server.shutdown_timeout", "10s")
	v.SetDefault("server.environment", "development")

	// Log defaults
	v.SetDefault("log.level", "debug")
	v.SetDefault("log.format", "console")

	// CORS defaults (localhost origins for development)
	v.SetDefault("cors.allowed_origins", "http://localhost:3000,http://127.0.0.1:3000,http://localhost:8000,http://127.0.0.1:8000")

	// Upload defaults
	v.SetDefault("upload.max_file_size_mb", 20)

	// Stream defaults
	v.SetDefault("stream.stage_delay", "500ms")
	v.SetDefault("stream.chunk_delay", "200ms")
	v.SetDefault("stream.chunk_size", 100)
	v.SetDefault("stream.live_generation", false)

	// Status defaults
	v.SetDefault("status.poll_interval", "100ms")
	v.SetDefault("status.mirror_progress", true)

	// Backend defaults
	v.SetDefault("gemini.api_key", "")
	v.SetDefault("gemini.default_model", "gemini-2.0-flash")
	v.SetDefault("gemini.max_output_tokens", 500)
	v.SetDefault("gemini.timeout_secs", 120)
	v.SetDefault("gemini.vertex_project", "")
	v.SetDefault("gemini.vertex_location", "us-central1")
	v.SetDefault("claude.api_key", "")
	v.SetDefault("claude.default_model", "claude-sonnet-4-20250514")
	v.SetDefault("claude.max_output_tokens", 500)
	v.SetDefault("claude.timeout_secs", 120)

	// Bind environment variables explicitly for nested keys. Credentials also
	// accept the unprefixed names used by the vendor tooling.
	envBindings := map[string][]string{
		"server.port":              {"DOCSUMMARY_SERVER_PORT"},
		"server.read_timeout":      {"DOCSUMMARY_SERVER_READ_TIMEOUT"},
		"server.write_timeout":     {"DOCSUMMARY_SERVER_WRITE_TIMEOUT"},
		"server.shutdown_timeout":  {"DOCSUMMARY_SERVER_SHUTDOWN_TIMEOUT"},
		"server.environment":       {"DOCSUMMARY_SERVER_ENVIRONMENT"},
		"log.level":                {"DOCSUMMARY_LOG_LEVEL"},
		"log.format":               {"DOCSUMMARY_LOG_FORMAT"},
		"cors.allowed_origins":     {"DOCSUMMARY_CORS_ALLOWED_ORIGINS"},
		"upload.max_file_size_mb":  {"DOCSUMMARY_UPLOAD_MAX_FILE_SIZE_MB"},
		"stream.stage_delay":       {"DOCSUMMARY_STREAM_STAGE_DELAY"},
		"stream.chunk_delay":       {"DOCSUMMARY_STREAM_CHUNK_DELAY"},
		"stream.chunk_size":        {"DOCSUMMARY_STREAM_CHUNK_SIZE"},
		"stream.live_generation":   {"DOCSUMMARY_STREAM_LIVE_GENERATION"},
		"status.poll_interval":     {"DOCSUMMARY_STATUS_POLL_INTERVAL"},
		"status.mirror_progress":   {"DOCSUMMARY_STATUS_MIRROR_PROGRESS"},
		"gemini.api_key":           {"DOCSUMMARY_GEMINI_API_KEY", "GEMINI_API_KEY"},
		"gemini.default_model":     {"DOCSUMMARY_GEMINI_DEFAULT_MODEL"},
		"gemini.max_output_tokens": {"DOCSUMMARY_GEMINI_MAX_OUTPUT_TOKENS"},
		"gemini.timeout_secs":      {"DOCSUMMARY_GEMINI_TIMEOUT_SECS"},
		"gemini.vertex_project":    {"DOCSUMMARY_GEMINI_VERTEX_PROJECT"},
		"gemini.vertex_location":   {"DOCSUMMARY_GEMINI_VERTEX_LOCATION"},
		"claude.api_key":           {"DOCSUMMARY_CLAUDE_API_KEY", "CLAUDE_API_KEY"},
		"claude.default_model":     {"DOCSUMMARY_CLAUDE_DEFAULT_MODEL"},
		"claude.max_output_tokens": {"DOCSUMMARY_CLAUDE_MAX_OUTPUT_TOKENS"},
		"claude.timeout_secs":      {"DOCSUMMARY_CLAUDE_TIMEOUT_SECS"},
	}
	for key, envs := range envBindings {
		_ = v.BindEnv(append([]string{key}, envs...)...)
	}

	cfg := &Config{}

	// Hosting platforms set a PORT env var. Use it if DOCSUMMARY_SERVER_PORT is not explicitly set.
	serverPort := v.GetString("server.port")
	if port := os.Getenv("PORT"); port != "" && os.Getenv("DOCSUMMARY_SERVER_PORT") == "" {
		serverPort = ":" + port
	}

	cfg.Server = ServerConfig{
		Port:            serverPort,
		ReadTimeout:     v.GetDuration("server.read_timeout"),
		WriteTimeout:    v.GetDuration("server.write_timeout"),
		ShutdownTimeout: v.GetDuration("server.shutdown_timeout"),
		Environment:     v.GetString("server.environment"),
	}
	cfg.Log = LogConfig{
		Level:  v.GetString("log.level"),
		Format: v.GetString("log.format"),
	}

	// Parse CORS allowed origins from comma-separated string
	var corsOrigins []string
	for _, o := range strings.Split(v.GetString("cors.allowed_origins"), ",") {
		o = strings.TrimSpace(o)
		if o != "" {
			corsOrigins = append(corsOrigins, o)
		}
	}
	cfg.CORS = CORSConfig{
		AllowedOrigins: corsOrigins,
	}

	cfg.Upload = UploadConfig{
		MaxFileSizeMB: v.GetInt64("upload.max_file_size_mb"),
	}

	chunkSize := v.GetInt("stream.chunk_size")
	if chunkSize <= 0 {
		chunkSize = 100
	}
	cfg.Stream = StreamConfig{
		StageDelay:     v.GetDuration("stream.stage_delay"),
		ChunkDelay:     v.GetDuration("stream.chunk_delay"),
		ChunkSize:      chunkSize,
		LiveGeneration: v.GetBool("stream.live_generation"),
	}

	pollInterval := v.GetDuration("status.poll_interval")
	if pollInterval <= 0 {
		pollInterval = 100 * time.Millisecond
	}
	cfg.Status = StatusConfig{
		PollInterval:   pollInterval,
		MirrorProgress: v.GetBool("status.mirror_progress"),
	}

	cfg.Gemini = BackendConfig{
		APIKey:          v.GetString("gemini.api_key"),
		DefaultModel:    v.GetString("gemini.default_model"),
		MaxOutputTokens: v.GetInt("gemini.max_output_tokens"),
		TimeoutSecs:     v.GetInt("gemini.timeout_secs"),
		VertexProject:   v.GetString("gemini.vertex_project"),
		VertexLocation:  v.GetString("gemini.vertex_location"),
	}
	cfg.Claude = BackendConfig{
		APIKey:          v.GetString("claude.api_key"),
		DefaultModel:    v.GetString("claude.default_model"),
		MaxOutputTokens: v.GetInt("claude.max_output_tokens"),
		TimeoutSecs:     v.GetInt("claude.timeout_secs"),
	}

	return cfg, nil
}
