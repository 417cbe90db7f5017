package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// DefaultPort は PORT が未設定または不正な場合に使うポート番号
const DefaultPort = 8080

// Config はアプリケーション全体の設定を保持する構造体
type Config struct {
	Server  ServerConfig  `yaml:"server"`
	Content ContentConfig `yaml:"content"`
}

// ServerConfig はTCPサーバーの設定
type ServerConfig struct {
	Host string `yaml:"host"`                           // リッスンするホスト
	Port int    `yaml:"port" validate:"min=1,max=65535"` // リッスンするポート番号

	// 1回の読み込みで受け取るリクエストの最大バイト数
	ReadBufferSize int `yaml:"read_buffer_size" validate:"min=1"`

	// タイムアウト設定（0 は無効）
	ReadTimeout  time.Duration `yaml:"read_timeout" validate:"min=0"`  // 読み込みタイムアウト
	WriteTimeout time.Duration `yaml:"write_timeout" validate:"min=0"` // 書き込みタイムアウト

	// 同時接続数の上限（0 は無制限）
	MaxConnections int `yaml:"max_connections" validate:"min=0"`
}

// ContentConfig は配信するファイルの配置
type ContentConfig struct {
	TemplatesDir string `yaml:"templates_dir" validate:"required"` // HTMLテンプレートのディレクトリ
	StaticDir    string `yaml:"static_dir" validate:"required"`    // CSS/JS/画像のディレクトリ
}

var validate = validator.New()

// Default はデフォルト値だけで構成された設定を返す
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Host:           "0.0.0.0",
			Port:           DefaultPort,
			ReadBufferSize: 1024,
		},
		Content: ContentConfig{
			TemplatesDir: "templates",
			StaticDir:    "static",
		},
	}
}

// Load は設定を読み込む
// CONFIG_FILE が設定されていればYAMLファイルを読み、その後に環境変数で上書きする
func Load() (*Config, error) {
	return LoadFile(os.Getenv("CONFIG_FILE"))
}

// LoadFile は指定されたYAMLファイルから設定を読み込む
// path が空の場合はデフォルト値と環境変数だけを使う
func LoadFile(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("設定ファイルの読み込みに失敗: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("設定ファイルの解析に失敗: %w", err)
		}
	}

	cfg.applyEnv()

	// 設定の検証
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("設定の検証に失敗: %w", err)
	}

	return cfg, nil
}

// applyEnv は環境変数の値で設定を上書きする
func (c *Config) applyEnv() {
	c.Server.Host = getEnvOrDefault("SERVER_HOST", c.Server.Host)
	c.Content.TemplatesDir = getEnvOrDefault("TEMPLATES_DIR", c.Content.TemplatesDir)
	c.Content.StaticDir = getEnvOrDefault("STATIC_DIR", c.Content.StaticDir)

	// PORT が存在するが不正な場合はファイルの値ではなくデフォルトに戻す
	if _, ok := os.LookupEnv("PORT"); ok {
		c.Server.Port = getEnvAsPortOrDefault("PORT", DefaultPort)
	}
}

// Validate は設定の妥当性を検証する
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("無効な設定: %w", err)
	}
	return nil
}

// ServerAddress はサーバーのリッスンアドレスを返す
func (c *Config) ServerAddress() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}

// getEnvOrDefault は環境変数を取得し、設定されていない場合はデフォルト値を返す
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvAsPortOrDefault は環境変数をポート番号として取得する
// 整数でない値や範囲外の値はデフォルト値として扱う
func getEnvAsPortOrDefault(key string, defaultValue int) int {
	port, err := strconv.Atoi(os.Getenv(key))
	if err != nil || port < 1 || port > 65535 {
		return defaultValue
	}
	return port
}
