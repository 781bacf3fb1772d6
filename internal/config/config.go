package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Config 应用配置
type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Fetch    FetchConfig    `yaml:"fetch"`
	Resolver ResolverConfig `yaml:"resolver"`
	Redis    RedisConfig    `yaml:"redis"`
	Cache    CacheConfig    `yaml:"cache"`
	CORS     CORSConfig     `yaml:"cors"`
	Proxy    ProxyConfig    `yaml:"proxy"`
}

// ServerConfig 服务器配置
type ServerConfig struct {
	Port int    `yaml:"port"`
	Mode string `yaml:"mode"`
}

// FetchConfig 出站抓取配置
type FetchConfig struct {
	Timeout   int    `yaml:"timeout"`    // 单次上游请求超时(秒)
	UserAgent string `yaml:"user_agent"` // 为空时使用内置浏览器UA
}

// ResolverConfig 解析器配置
type ResolverConfig struct {
	MaxConcurrent int `yaml:"max_concurrent"` // 最大并发解析数
}

// RedisConfig Redis配置
type RedisConfig struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
	PoolSize int    `yaml:"pool_size"`
}

// CacheConfig 解析结果缓存配置
type CacheConfig struct {
	Enabled bool `yaml:"enabled"`
	TTL     int  `yaml:"ttl"` // 缓存TTL(秒)
}

// CORSConfig 跨域配置
type CORSConfig struct {
	AllowedOrigins []string `yaml:"allowed_origins"`
	AllowedMethods []string `yaml:"allowed_methods"`
	AllowedHeaders []string `yaml:"allowed_headers"`
	MaxAge         int      `yaml:"max_age"`
}

// ProxyConfig 资源代理配置
type ProxyConfig struct {
	BufferSize int `yaml:"buffer_size"` // 流式转发缓冲区(字节)
}

// LoadConfig 加载配置文件,启动时解析一次,之后只读
func LoadConfig(configPath string) (*Config, error) {
	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	// 从环境变量覆盖配置
	if port := os.Getenv("SERVER_PORT"); port != "" {
		if p, err := strconv.Atoi(port); err == nil {
			cfg.Server.Port = p
		}
	}
	if redisAddr := os.Getenv("REDIS_ADDR"); redisAddr != "" {
		cfg.Redis.Addr = redisAddr
	}
	if redisPassword := os.Getenv("REDIS_PASSWORD"); redisPassword != "" {
		cfg.Redis.Password = redisPassword
	}

	// 设置默认值
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 8080
	}
	if cfg.Fetch.Timeout == 0 {
		cfg.Fetch.Timeout = 30
	}
	if cfg.Resolver.MaxConcurrent == 0 {
		cfg.Resolver.MaxConcurrent = 10
	}
	if cfg.Cache.TTL == 0 {
		cfg.Cache.TTL = 3600
	}
	if cfg.Proxy.BufferSize == 0 {
		cfg.Proxy.BufferSize = 32 * 1024
	}

	return &cfg, nil
}

// GetTimeout 获取抓取超时时间
func (c *FetchConfig) GetTimeout() time.Duration {
	return time.Duration(c.Timeout) * time.Second
}

// GetCacheTTL 获取缓存TTL时间
func (c *CacheConfig) GetCacheTTL() time.Duration {
	return time.Duration(c.TTL) * time.Second
}
