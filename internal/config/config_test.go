package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

// clearEnv はテストに影響する環境変数を未設定の状態にする
func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{"PORT", "SERVER_HOST", "TEMPLATES_DIR", "STATIC_DIR", "CONFIG_FILE"} {
		t.Setenv(key, "")
		_ = os.Unsetenv(key)
	}
}

// TestConfigLoad は設定の読み込みをテストする
func TestConfigLoad(t *testing.T) {
	clearEnv(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("設定の読み込みに失敗しました: %v", err)
	}

	if cfg.Server.Host != "0.0.0.0" {
		t.Errorf("予期しないホスト: got %s, want 0.0.0.0", cfg.Server.Host)
	}
	if cfg.Server.Port != DefaultPort {
		t.Errorf("予期しないポート: got %d, want %d", cfg.Server.Port, DefaultPort)
	}
	if cfg.Server.ReadBufferSize != 1024 {
		t.Errorf("予期しないバッファサイズ: got %d, want 1024", cfg.Server.ReadBufferSize)
	}
	// タイムアウトと接続数上限はデフォルトで無効
	if cfg.Server.ReadTimeout != 0 || cfg.Server.WriteTimeout != 0 {
		t.Error("タイムアウトはデフォルトで無効であるべきです")
	}
	if cfg.Server.MaxConnections != 0 {
		t.Errorf("接続数上限はデフォルトで無制限であるべきです: got %d", cfg.Server.MaxConnections)
	}
	if cfg.Content.TemplatesDir != "templates" || cfg.Content.StaticDir != "static" {
		t.Errorf("予期しないディレクトリ: %+v", cfg.Content)
	}
}

// TestPortFromEnvironment はPORT環境変数の解釈をテストする
func TestPortFromEnvironment(t *testing.T) {
	testCases := []struct {
		name  string
		value string
		want  int
	}{
		{"正常な値", "9090", 9090},
		{"空文字", "", DefaultPort},
		{"数値でない", "abc", DefaultPort},
		{"末尾にゴミ", "80abc", DefaultPort},
		{"ゼロ", "0", DefaultPort},
		{"負の値", "-1", DefaultPort},
		{"範囲外", "70000", DefaultPort},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			clearEnv(t)
			t.Setenv("PORT", tc.value)

			cfg, err := Load()
			if err != nil {
				t.Fatalf("設定の読み込みに失敗しました: %v", err)
			}
			if cfg.Server.Port != tc.want {
				t.Errorf("ポートが一致しません: got %d, want %d", cfg.Server.Port, tc.want)
			}
		})
	}
}

// TestConfigValidation は設定の検証をテストする
func TestConfigValidation(t *testing.T) {
	testCases := []struct {
		name      string
		modify    func(*Config)
		expectErr bool
	}{
		{"正常な設定", func(c *Config) {}, false},
		{"無効なポート番号", func(c *Config) { c.Server.Port = 99999 }, true},
		{"ポート番号ゼロ", func(c *Config) { c.Server.Port = 0 }, true},
		{"バッファサイズゼロ", func(c *Config) { c.Server.ReadBufferSize = 0 }, true},
		{"負のタイムアウト", func(c *Config) { c.Server.ReadTimeout = -time.Second }, true},
		{"負の接続数上限", func(c *Config) { c.Server.MaxConnections = -1 }, true},
		{"テンプレートディレクトリなし", func(c *Config) { c.Content.TemplatesDir = "" }, true},
		{"静的ファイルディレクトリなし", func(c *Config) { c.Content.StaticDir = "" }, true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := Default()
			tc.modify(cfg)

			err := cfg.Validate()
			if tc.expectErr && err == nil {
				t.Error("エラーが期待されましたが、エラーが発生しませんでした")
			}
			if !tc.expectErr && err != nil {
				t.Errorf("予期しないエラーが発生しました: %v", err)
			}
		})
	}
}

// TestServerAddress はサーバーアドレスの生成をテストする
func TestServerAddress(t *testing.T) {
	cfg := &Config{
		Server: ServerConfig{
			Host: "192.168.1.100",
			Port: 9090,
		},
	}

	expected := "192.168.1.100:9090"
	if actual := cfg.ServerAddress(); actual != expected {
		t.Errorf("サーバーアドレスが一致しません: got %s, want %s", actual, expected)
	}
}

// TestLoadFile はYAMLファイルと環境変数の優先順位をテストする
func TestLoadFile(t *testing.T) {
	clearEnv(t)

	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `server:
  host: 127.0.0.1
  port: 9000
  read_buffer_size: 2048
  read_timeout: 5s
  max_connections: 64
content:
  templates_dir: /srv/shop/templates
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("設定ファイルの作成に失敗しました: %v", err)
	}

	t.Run("ファイルの値", func(t *testing.T) {
		cfg, err := LoadFile(path)
		if err != nil {
			t.Fatalf("設定の読み込みに失敗しました: %v", err)
		}
		if cfg.ServerAddress() != "127.0.0.1:9000" {
			t.Errorf("予期しないアドレス: %s", cfg.ServerAddress())
		}
		if cfg.Server.ReadBufferSize != 2048 {
			t.Errorf("予期しないバッファサイズ: %d", cfg.Server.ReadBufferSize)
		}
		if cfg.Server.ReadTimeout != 5*time.Second {
			t.Errorf("予期しない読み込みタイムアウト: %v", cfg.Server.ReadTimeout)
		}
		if cfg.Server.MaxConnections != 64 {
			t.Errorf("予期しない接続数上限: %d", cfg.Server.MaxConnections)
		}
		if cfg.Content.TemplatesDir != "/srv/shop/templates" {
			t.Errorf("予期しないテンプレートディレクトリ: %s", cfg.Content.TemplatesDir)
		}
		// ファイルに無い値はデフォルトのまま
		if cfg.Content.StaticDir != "static" {
			t.Errorf("予期しない静的ファイルディレクトリ: %s", cfg.Content.StaticDir)
		}
	})

	t.Run("環境変数で上書き", func(t *testing.T) {
		t.Setenv("PORT", "9100")
		t.Setenv("STATIC_DIR", "/srv/shop/static")

		cfg, err := LoadFile(path)
		if err != nil {
			t.Fatalf("設定の読み込みに失敗しました: %v", err)
		}
		if cfg.Server.Port != 9100 {
			t.Errorf("環境変数のポートが反映されていません: got %d", cfg.Server.Port)
		}
		if cfg.Content.StaticDir != "/srv/shop/static" {
			t.Errorf("環境変数のディレクトリが反映されていません: got %s", cfg.Content.StaticDir)
		}
	})

	t.Run("CONFIG_FILE経由", func(t *testing.T) {
		t.Setenv("CONFIG_FILE", path)

		cfg, err := Load()
		if err != nil {
			t.Fatalf("設定の読み込みに失敗しました: %v", err)
		}
		if cfg.Server.Port != 9000 {
			t.Errorf("設定ファイルのポートが反映されていません: got %d", cfg.Server.Port)
		}
	})
}

// TestLoadFileErrors は読み込めない設定ファイルをテストする
func TestLoadFileErrors(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()

	if _, err := LoadFile(filepath.Join(dir, "missing.yaml")); err == nil {
		t.Error("存在しないファイルでエラーが期待されました")
	}

	broken := filepath.Join(dir, "broken.yaml")
	if err := os.WriteFile(broken, []byte("server: [\n"), 0o644); err != nil {
		t.Fatalf("設定ファイルの作成に失敗しました: %v", err)
	}
	if _, err := LoadFile(broken); err == nil {
		t.Error("不正なYAMLでエラーが期待されました")
	}

	invalid := filepath.Join(dir, "invalid.yaml")
	if err := os.WriteFile(invalid, []byte("server:\n  read_buffer_size: -1\n"), 0o644); err != nil {
		t.Fatalf("設定ファイルの作成に失敗しました: %v", err)
	}
	if _, err := LoadFile(invalid); err == nil {
		t.Error("検証エラーが期待されました")
	}
}
