// Package config 提供配置加载功能
package config

import (
	"fmt"
	"net"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/spf13/viper"
)

// DefaultProviderName 默认 LLM 提供商
const DefaultProviderName = "gemini"

// CredentialEnv 上游模型访问凭证的环境变量名
const CredentialEnv = "GOOGLE_API_KEY"

var placeholderRe = regexp.MustCompile(`\${(\w+)(:([^}]*))?}`)

// Load 加载配置文件
// 按优先级加载：默认配置 -> 环境配置 -> 环境变量
func Load() (*Config, error) {
	dir := os.Getenv("CONFIG_DIR")
	if dir == "" {
		dir = "configs"
	}
	return LoadFrom(dir)
}

// LoadFrom 从指定目录加载配置；目录下文件均可缺省，缺省时使用内置默认值
func LoadFrom(dir string) (*Config, error) {
	v := viper.New()
	v.SetConfigType("yaml")

	// 1. 加载默认配置
	if err := loadConfigFile(v, filepath.Join(dir, "config.yaml"), true); err != nil {
		return nil, err
	}

	// 2. 加载环境特定配置
	env := os.Getenv("APP_ENV")
	if env == "" {
		env = "development"
	}
	envFile := filepath.Join(dir, fmt.Sprintf("config.%s.yaml", env))
	if err := loadConfigFile(v, envFile, true); err != nil {
		return nil, err
	}

	// 3. 绑定环境变量 (直接覆盖)
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// 设置默认值 (兜底)
	setDefaults(v)

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// loadConfigFile 读取文件，执行环境变量替换，并加载到 viper
func loadConfigFile(v *viper.Viper, path string, optional bool) error {
	content, err := os.ReadFile(path)
	if err != nil {
		if optional && os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	expanded := expandEnv(string(content))

	reader := strings.NewReader(expanded)
	if v.ConfigFileUsed() == "" {
		if err := v.ReadConfig(reader); err != nil {
			return fmt.Errorf("failed to read processed config %s: %w", path, err)
		}
		// 手动标记已加载文件，防止后续 ReadInConfig 报错
		v.SetConfigFile(path)
	} else {
		if err := v.MergeConfig(reader); err != nil {
			return fmt.Errorf("failed to merge processed config %s: %w", path, err)
		}
	}

	return nil
}

// expandEnv 替换字符串中的 ${VAR:default} 占位符
func expandEnv(s string) string {
	return placeholderRe.ReplaceAllStringFunc(s, func(match string) string {
		submatch := placeholderRe.FindStringSubmatch(match)
		key := submatch[1]
		hasDefault := submatch[2] != ""
		defVal := submatch[3]

		if val, ok := os.LookupEnv(key); ok {
			return val
		}
		if hasDefault {
			return defVal
		}
		return match
	})
}

// MustLoad 加载配置，失败时 panic
func MustLoad() *Config {
	cfg, err := Load()
	if err != nil {
		panic(fmt.Sprintf("failed to load config: %v", err))
	}
	return cfg
}

// validate 校验启动期必须成立的配置；凭证缺失不在此处报错，而是在请求时返回配置错误
func (c *Config) validate() error {
	if c.Ideas.MaxTopicLength <= 0 {
		return fmt.Errorf("ideas.max_topic_length must be positive, got %d", c.Ideas.MaxTopicLength)
	}
	if c.Ideas.MinResponseLength < 0 {
		return fmt.Errorf("ideas.min_response_length must not be negative, got %d", c.Ideas.MinResponseLength)
	}
	if _, _, err := c.LLM.ActiveProvider(); err != nil {
		return err
	}
	for _, p := range c.Security.TrustedProxies {
		if net.ParseIP(p) != nil {
			continue
		}
		if _, _, err := net.ParseCIDR(p); err != nil {
			return fmt.Errorf("security.trusted_proxies: %q is neither an IP nor a CIDR", p)
		}
	}
	return nil
}

// setDefaults 设置配置默认值
func setDefaults(v *viper.Viper) {
	// 应用默认值
	v.SetDefault("app.name", "idea-generator-api")
	v.SetDefault("app.version", "v0.0.0")
	v.SetDefault("app.env", "development")

	// HTTP 服务器默认值
	v.SetDefault("server.http.host", "0.0.0.0")
	v.SetDefault("server.http.port", 8080)
	v.SetDefault("server.http.read_timeout", "15s")
	v.SetDefault("server.http.write_timeout", "90s")
	v.SetDefault("server.http.idle_timeout", "120s")
	v.SetDefault("server.http.max_body_bytes", 64<<10)

	// Redis 默认值（限流用，可选）
	v.SetDefault("cache.redis.enabled", false)
	v.SetDefault("cache.redis.host", "localhost")
	v.SetDefault("cache.redis.port", 6379)
	v.SetDefault("cache.redis.db", 0)
	v.SetDefault("cache.redis.pool_size", 20)
	v.SetDefault("cache.redis.min_idle_conns", 2)
	v.SetDefault("cache.redis.dial_timeout", "2s")
	v.SetDefault("cache.redis.read_timeout", "1s")
	v.SetDefault("cache.redis.write_timeout", "1s")

	// LLM 默认值：Gemini 的 OpenAI 兼容端点
	v.SetDefault("llm.default_provider", DefaultProviderName)
	v.SetDefault("llm.providers."+DefaultProviderName+".api_key", os.Getenv(CredentialEnv))
	v.SetDefault("llm.providers."+DefaultProviderName+".base_url", "https://generativelanguage.googleapis.com/v1beta/openai/")
	v.SetDefault("llm.providers."+DefaultProviderName+".model", "gemini-1.5-flash")
	v.SetDefault("llm.providers."+DefaultProviderName+".max_tokens", 2048)
	v.SetDefault("llm.providers."+DefaultProviderName+".temperature", 0.8)
	v.SetDefault("llm.providers."+DefaultProviderName+".top_p", 0.95)
	v.SetDefault("llm.providers."+DefaultProviderName+".top_k", 40)
	v.SetDefault("llm.providers."+DefaultProviderName+".timeout", "60s")

	// 业务默认值
	v.SetDefault("ideas.max_topic_length", 200)
	v.SetDefault("ideas.min_response_length", 50)

	// 客户端默认值
	v.SetDefault("client.base_url", "http://localhost:8080")
	v.SetDefault("client.timeout", "90s")

	// 可观测性默认值
	v.SetDefault("observability.logging.level", "info")
	v.SetDefault("observability.logging.format", "json")
	v.SetDefault("observability.tracing.enabled", false)
	v.SetDefault("observability.tracing.endpoint", "localhost:4317")
	v.SetDefault("observability.tracing.sample_rate", 1.0)
	v.SetDefault("observability.metrics.enabled", true)
	v.SetDefault("observability.metrics.port", 0)
	v.SetDefault("observability.metrics.path", "/metrics")

	// 安全默认值
	v.SetDefault("security.trusted_proxies", []string{})
	v.SetDefault("security.rate_limit.enabled", true)
	v.SetDefault("security.rate_limit.requests", 10)
	v.SetDefault("security.rate_limit.window", "1m")
	v.SetDefault("security.cors.allowed_methods", []string{"GET", "POST", "OPTIONS"})
	v.SetDefault("security.cors.allowed_headers", []string{"Origin", "Content-Type", "X-Request-ID"})
}
