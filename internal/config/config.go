package config

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/cloudwego/eino-ext/components/model/ark"
	"github.com/cloudwego/eino/components/model"
)

// Config 聚合整个服务的配置项。
type Config struct {
	Server  ServerConfig
	AI      AIConfig
	Session SessionConfig
	Log     LogConfig
}

// Load 从环境变量加载配置。
func Load() (*Config, error) {
	server, err := loadServerConfig()
	if err != nil {
		return nil, err
	}

	ai, err := loadAIConfig()
	if err != nil {
		return nil, err
	}

	session, err := loadSessionConfig()
	if err != nil {
		return nil, err
	}

	return &Config{Server: server, AI: ai, Session: session, Log: loadLogConfig()}, nil
}

// ServerConfig 描述 HTTP 服务配置。
type ServerConfig struct {
	Addr           string
	AllowedOrigins []string
}

// loadServerConfig 解析服务器监听地址与跨域白名单。
func loadServerConfig() (ServerConfig, error) {
	origins := splitList(getEnvOrDefault("CORS_ALLOWED_ORIGINS", "http://localhost:3000"))

	port := strings.TrimSpace(os.Getenv("PORT"))
	if port == "" {
		port = "3001"
	}

	if strings.Contains(port, ":") {
		// 允许用户直接传入 ":3001" 或 "127.0.0.1:3001"。
		return ServerConfig{Addr: port, AllowedOrigins: origins}, nil
	}

	if strings.Contains(port, " ") {
		return ServerConfig{}, fmt.Errorf("invalid PORT value: %q", port)
	}

	return ServerConfig{Addr: ":" + port, AllowedOrigins: origins}, nil
}

// AIConfig 描述大模型相关配置。
type AIConfig struct {
	APIKey      string
	AccessKey   string
	SecretKey   string
	Model       string
	BaseURL     string
	Region      string
	Temperature *float64
	TopP        *float64
	MaxTokens   *int
}

// SessionConfig 描述会话存储与对话引擎的策略参数。
type SessionConfig struct {
	Store             string
	DBPath            string
	TTL               time.Duration
	SweepInterval     time.Duration
	CompleteThreshold int
	HistoryViewLimit  int
	MinOpenLength     int
}

// LogConfig 描述日志级别与输出格式。
type LogConfig struct {
	Level  string
	Format string
}

// Enabled 表示是否提供了必需的密钥。
func (c AIConfig) Enabled() bool {
	return c.Model != "" && (c.APIKey != "" || (c.AccessKey != "" && c.SecretKey != ""))
}

// NewChatModel 使用配置创建一个模型实例。
func (c AIConfig) NewChatModel(ctx context.Context) (model.ChatModel, error) {
	if !c.Enabled() {
		return nil, fmt.Errorf("Ark 凭证或模型配置缺失，至少提供 ARK_API_KEY + Model 或 AK/SK 组合")
	}

	var temperature *float32
	if c.Temperature != nil {
		val := float32(*c.Temperature)
		temperature = &val
	}

	var topP *float32
	if c.TopP != nil {
		val := float32(*c.TopP)
		topP = &val
	}

	var maxTokens *int
	if c.MaxTokens != nil {
		val := *c.MaxTokens
		maxTokens = &val
	}

	cfg := &ark.ChatModelConfig{
		BaseURL:     c.BaseURL,
		Region:      c.Region,
		APIKey:      c.APIKey,
		AccessKey:   c.AccessKey,
		SecretKey:   c.SecretKey,
		Model:       c.Model,
		MaxTokens:   maxTokens,
		Temperature: temperature,
		TopP:        topP,
	}

	return ark.NewChatModel(ctx, cfg)
}

func loadAIConfig() (AIConfig, error) {
	temperature, err := parseOptionalFloatEnv("ARK_TEMPERATURE")
	if err != nil {
		return AIConfig{}, err
	}

	topP, err := parseOptionalFloatEnv("ARK_TOP_P")
	if err != nil {
		return AIConfig{}, err
	}

	maxTokens, err := parseOptionalIntEnv("ARK_MAX_TOKENS")
	if err != nil {
		return AIConfig{}, err
	}

	return AIConfig{
		APIKey:      strings.TrimSpace(os.Getenv("ARK_API_KEY")),
		AccessKey:   strings.TrimSpace(os.Getenv("ARK_ACCESS_KEY")),
		SecretKey:   strings.TrimSpace(os.Getenv("ARK_SECRET_KEY")),
		Model:       strings.TrimSpace(os.Getenv("Model")),
		BaseURL:     getEnvOrDefault("ARK_BASE_URL", "https://ark.cn-beijing.volces.com/api/v3"),
		Region:      getEnvOrDefault("ARK_REGION", "cn-beijing"),
		Temperature: temperature,
		TopP:        topP,
		MaxTokens:   maxTokens,
	}, nil
}

func loadSessionConfig() (SessionConfig, error) {
	store := strings.ToLower(getEnvOrDefault("SESSION_STORE", "memory"))
	if store != "memory" && store != "sqlite" {
		return SessionConfig{}, fmt.Errorf("invalid SESSION_STORE value %q: want memory or sqlite", store)
	}

	ttlHours, err := parsePositiveIntEnv("SESSION_TTL_HOURS", 24)
	if err != nil {
		return SessionConfig{}, err
	}

	interval := time.Hour
	if raw := strings.TrimSpace(os.Getenv("SESSION_SWEEP_INTERVAL")); raw != "" {
		interval, err = time.ParseDuration(raw)
		if err != nil {
			return SessionConfig{}, fmt.Errorf("invalid SESSION_SWEEP_INTERVAL value %q: %w", raw, err)
		}
		if interval <= 0 {
			return SessionConfig{}, fmt.Errorf("invalid SESSION_SWEEP_INTERVAL value %q: must be positive", raw)
		}
	}

	threshold, err := parsePositiveIntEnv("MODULE_COMPLETE_THRESHOLD", 5)
	if err != nil {
		return SessionConfig{}, err
	}

	historyLimit, err := parsePositiveIntEnv("HISTORY_VIEW_LIMIT", 10)
	if err != nil {
		return SessionConfig{}, err
	}

	minOpen, err := parsePositiveIntEnv("ANSWER_MIN_OPEN_LENGTH", 3)
	if err != nil {
		return SessionConfig{}, err
	}

	return SessionConfig{
		Store:             store,
		DBPath:            getEnvOrDefault("SESSION_DB_PATH", "./data/sessions.db"),
		TTL:               time.Duration(ttlHours) * time.Hour,
		SweepInterval:     interval,
		CompleteThreshold: threshold,
		HistoryViewLimit:  historyLimit,
		MinOpenLength:     minOpen,
	}, nil
}

func loadLogConfig() LogConfig {
	return LogConfig{
		Level:  getEnvOrDefault("LOG_LEVEL", "info"),
		Format: getEnvOrDefault("LOG_FORMAT", "json"),
	}
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return defaultValue
}

func parseOptionalFloatEnv(key string) (*float64, error) {
	raw, ok := os.LookupEnv(key)
	if !ok {
		return nil, nil
	}

	value := strings.TrimSpace(raw)
	if value == "" {
		return nil, nil
	}

	val, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid %s value %q: %w", key, value, err)
	}
	return &val, nil
}

func parseOptionalIntEnv(key string) (*int, error) {
	raw, ok := os.LookupEnv(key)
	if !ok {
		return nil, nil
	}

	value := strings.TrimSpace(raw)
	if value == "" {
		return nil, nil
	}

	val, err := strconv.Atoi(value)
	if err != nil {
		return nil, fmt.Errorf("invalid %s value %q: %w", key, value, err)
	}
	return &val, nil
}

func parsePositiveIntEnv(key string, defaultValue int) (int, error) {
	val, err := parseOptionalIntEnv(key)
	if err != nil {
		return 0, err
	}
	if val == nil {
		return defaultValue, nil
	}
	if *val < 1 {
		return 0, fmt.Errorf("invalid %s value %d: must be at least 1", key, *val)
	}
	return *val, nil
}

func splitList(raw string) []string {
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
