// Package config 负责加载服务配置：默认值 → YAML 文件 → 环境变量覆盖。
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"

	"lexirank/internal/types"
)

// Config 是应用的根配置结构，聚合了所有模块的配置。
type Config struct {
	Server  ServerConfig  `yaml:"server"`
	Index   IndexConfig   `yaml:"index"`
	Storage StorageConfig `yaml:"storage"`
	Log     LogConfig     `yaml:"log"`
}

// ServerConfig 定义了HTTP服务器的相关配置。
type ServerConfig struct {
	Port         int           `yaml:"port"`
	ReadTimeout  time.Duration `yaml:"read_timeout"`
	WriteTimeout time.Duration `yaml:"write_timeout"`
}

// IndexConfig 定义了字符串索引的业务配置。
type IndexConfig struct {
	ID            string `yaml:"id"`
	Name          string `yaml:"name"`
	MaxWordLength int    `yaml:"max_word_length"`
}

// StorageConfig 定义了快照与增量日志的配置。
type StorageConfig struct {
	Enabled          bool          `yaml:"enabled"`
	DataDir          string        `yaml:"data_dir"`
	SnapshotInterval time.Duration `yaml:"snapshot_interval"`
}

// LogConfig 定义了日志记录的相关配置。
type LogConfig struct {
	Level string `yaml:"level"`
}

// Default 返回默认配置。
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Port:         8080,
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 10 * time.Second,
		},
		Index: IndexConfig{
			ID:            "default",
			Name:          "默认索引",
			MaxWordLength: 256,
		},
		Storage: StorageConfig{
			Enabled:          true,
			DataDir:          "./data",
			SnapshotInterval: 5 * time.Minute,
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// Load 加载配置。path 为空时读取 LEXIRANK_CONFIG_PATH；两者都为空则只使用默认值。
func Load(path string) (*Config, error) {
	cfg := Default()

	if path == "" {
		path = os.Getenv(types.EnvConfigPath)
	}
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() error {
	if v := os.Getenv(types.EnvServerPort); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%s: %w", types.EnvServerPort, err)
		}
		c.Server.Port = port
	}
	if v := os.Getenv(types.EnvLogLevel); v != "" {
		c.Log.Level = v
	}
	if v := os.Getenv(types.EnvDataDir); v != "" {
		c.Storage.DataDir = v
	}
	return nil
}

// Validate 校验配置取值。
func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port %d", c.Server.Port)
	}
	if c.Index.ID == "" {
		return errors.New("index id is required")
	}
	if c.Index.MaxWordLength <= 0 {
		return fmt.Errorf("invalid max_word_length %d", c.Index.MaxWordLength)
	}
	if c.Storage.Enabled && c.Storage.DataDir == "" {
		return errors.New("storage.data_dir is required when storage is enabled")
	}
	if c.Storage.SnapshotInterval < 0 {
		return fmt.Errorf("invalid snapshot_interval %v", c.Storage.SnapshotInterval)
	}
	switch c.Log.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("unknown log level %q", c.Log.Level)
	}
	return nil
}

// Addr 返回 HTTP 监听地址。
func (c *Config) Addr() string {
	return fmt.Sprintf(":%d", c.Server.Port)
}
