package config

import (
	"log"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Server     ServerConfig     `yaml:"server"`
	Database   DatabaseConfig   `yaml:"database"`
	Encryption EncryptionConfig `yaml:"encryption"`
	News       NewsConfig       `yaml:"news"`
	LLM        LLMConfig        `yaml:"llm"`
	Image      ImageConfig      `yaml:"image"`
	Twitter    TwitterConfig    `yaml:"twitter"`
}

type ServerConfig struct {
	Port string `yaml:"port"`
	Mode string `yaml:"mode"` // debug, release
}

type DatabaseConfig struct {
	Path string `yaml:"path"`
}

type EncryptionConfig struct {
	Key string `yaml:"key"` // 凭证可逆加密密钥
}

type NewsConfig struct {
	Feeds       []string `yaml:"feeds"`        // RSS订阅源
	MaxArticles int      `yaml:"max_articles"` // 单次抓取保留的候选数
}

type LLMConfig struct {
	ApiURL string `yaml:"api_url"`
	ApiKey string `yaml:"api_key"`
	Model  string `yaml:"model"`
}

type ImageConfig struct {
	ApiURL string `yaml:"api_url"`
	ApiKey string `yaml:"api_key"`
}

type TwitterConfig struct {
	ApiBaseURL    string `yaml:"api_base_url"`
	UploadBaseURL string `yaml:"upload_base_url"`
}

// Load 加载配置文件
func Load(configPath string) (*Config, error) {
	// 默认配置
	cfg := &Config{
		Server: ServerConfig{
			Port: "3000",
			Mode: "debug",
		},
		Database: DatabaseConfig{
			Path: "data/satire.db",
		},
		Encryption: EncryptionConfig{
			Key: "default-dev-key-change-in-production",
		},
		News: NewsConfig{
			Feeds: []string{
				"https://feeds.bbci.co.uk/news/world/rss.xml",
				"https://www.reutersagency.com/feed/",
			},
			MaxArticles: 5,
		},
		LLM: LLMConfig{
			ApiURL: "https://api.openai.com/v1",
			Model:  "gpt-4o-mini",
		},
		Image: ImageConfig{
			ApiURL: "https://api.openai.com/v1",
		},
		Twitter: TwitterConfig{
			ApiBaseURL:    "https://api.twitter.com",
			UploadBaseURL: "https://upload.twitter.com",
		},
	}

	// 如果配置文件存在,读取配置
	if _, err := os.Stat(configPath); err == nil {
		data, err := os.ReadFile(configPath)
		if err != nil {
			return nil, err
		}

		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, err
		}
	} else {
		log.Printf("配置文件不存在: %s, 使用默认配置", configPath)
	}

	// 环境变量覆盖配置
	if port := os.Getenv("PORT"); port != "" {
		cfg.Server.Port = port
	}

	if mode := os.Getenv("GIN_MODE"); mode != "" {
		cfg.Server.Mode = mode
	}

	if dbPath := os.Getenv("DB_PATH"); dbPath != "" {
		cfg.Database.Path = dbPath
	}

	if key := os.Getenv("ENCRYPTION_KEY"); key != "" {
		cfg.Encryption.Key = key
	}

	if apiKey := os.Getenv("LLM_API_KEY"); apiKey != "" {
		cfg.LLM.ApiKey = apiKey
	}

	if apiKey := os.Getenv("IMAGE_API_KEY"); apiKey != "" {
		cfg.Image.ApiKey = apiKey
	}

	return cfg, nil
}

// GetServerAddress 获取服务器监听地址
func (c *Config) GetServerAddress() string {
	// 如果端口是纯数字,加上冒号前缀
	if _, err := strconv.Atoi(c.Server.Port); err == nil {
		return ":" + c.Server.Port
	}
	return c.Server.Port
}
