package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

// isolate points HOME and the working directory at empty temp dirs.
func isolate(t *testing.T) string {
	t.Helper()
	t.Setenv("HOME", t.TempDir())
	dir := t.TempDir()
	t.Chdir(dir)
	return dir
}

func writeConfig(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("failed to create dir: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}
}

func TestExpandPath(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skipf("Could not get home dir: %v", err)
	}

	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "tilde expands to home",
			input:    "~/audiobooks",
			expected: filepath.Join(home, "audiobooks"),
		},
		{
			name:     "absolute path unchanged",
			input:    "/var/lib/folderplay.db",
			expected: "/var/lib/folderplay.db",
		},
		{
			name:     "relative path unchanged",
			input:    "data/folderplay.db",
			expected: "data/folderplay.db",
		},
		{
			name:     "empty string unchanged",
			input:    "",
			expected: "",
		},
		{
			name:     "tilde only",
			input:    "~",
			expected: home,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := expandPath(tt.input)
			if result != tt.expected {
				t.Errorf("expandPath(%q) = %q, want %q", tt.input, result, tt.expected)
			}
		})
	}
}

func TestGetConfigPaths(t *testing.T) {
	paths := getConfigPaths()

	if len(paths) == 0 {
		t.Fatal("getConfigPaths() returned empty slice")
	}

	// Last path should be local config.toml
	lastPath := paths[len(paths)-1]
	if lastPath != "config.toml" {
		t.Errorf("last config path = %q, want %q", lastPath, "config.toml")
	}

	if home, err := os.UserHomeDir(); err == nil {
		expectedFirst := filepath.Join(home, ".config", "folderplay", "config.toml")
		if paths[0] != expectedFirst {
			t.Errorf("first config path = %q, want %q", paths[0], expectedFirst)
		}
	}
}

func TestLoad_NoFiles(t *testing.T) {
	isolate(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if got := cfg.GetCheckpointInterval(); got != 5*time.Second {
		t.Errorf("GetCheckpointInterval() = %v, want 5s", got)
	}
	store := cfg.GetStoreConfig()
	if store.Backend != BackendSQLite {
		t.Errorf("Backend = %q, want %q", store.Backend, BackendSQLite)
	}
	if store.Path != "" {
		t.Errorf("Path = %q, want empty", store.Path)
	}
	if store.RedisAddr != "localhost:6379" {
		t.Errorf("RedisAddr = %q, want localhost:6379", store.RedisAddr)
	}
	logCfg := cfg.GetLogConfig()
	if logCfg.Level != "info" || logCfg.MaxSizeMB != 10 {
		t.Errorf("GetLogConfig() = %+v, want info level and 10MB", logCfg)
	}
}

func TestLoad_BasicConfig(t *testing.T) {
	isolate(t)
	writeConfig(t, "config.toml", `
checkpoint_interval = "10s"
collation_language = "fr"

[store]
backend = "Bolt"
bolt_path = "/tmp/progress.bolt"

[log]
level = "debug"
file = "/tmp/folderplay.log"
max_backups = 0
`)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.GetCheckpointInterval() != 10*time.Second {
		t.Errorf("CheckpointInterval = %v, want 10s", cfg.CheckpointInterval)
	}
	if cfg.CollationLanguage != "fr" {
		t.Errorf("CollationLanguage = %q, want fr", cfg.CollationLanguage)
	}
	if cfg.Store.Backend != BackendBolt {
		t.Errorf("Backend = %q, want normalized %q", cfg.Store.Backend, BackendBolt)
	}
	if cfg.Store.BoltPath != "/tmp/progress.bolt" {
		t.Errorf("BoltPath = %q", cfg.Store.BoltPath)
	}
	logCfg := cfg.GetLogConfig()
	if logCfg.Level != "debug" || logCfg.File != "/tmp/folderplay.log" || logCfg.MaxBackups != 0 {
		t.Errorf("GetLogConfig() = %+v", logCfg)
	}
}

func TestLoad_LocalOverridesUserConfig(t *testing.T) {
	isolate(t)
	home, _ := os.UserHomeDir()
	writeConfig(t, filepath.Join(home, ".config", "folderplay", "config.toml"), `
checkpoint_interval = "30s"

[store]
backend = "redis"
redis_addr = "cache:6379"
`)
	writeConfig(t, "config.toml", `
checkpoint_interval = "2s"
`)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.CheckpointInterval != 2*time.Second {
		t.Errorf("CheckpointInterval = %v, want 2s from local file", cfg.CheckpointInterval)
	}
	store := cfg.GetStoreConfig()
	if store.Backend != BackendRedis || store.RedisAddr != "cache:6379" {
		t.Errorf("store = %+v, want redis at cache:6379 from user file", store)
	}
}

func TestLoad_PathExpansion(t *testing.T) {
	isolate(t)
	home, _ := os.UserHomeDir()
	writeConfig(t, "config.toml", `
[store]
path = "~/data/folderplay.db"

[log]
file = "~/logs/folderplay.log"
`)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if want := filepath.Join(home, "data", "folderplay.db"); cfg.Store.Path != want {
		t.Errorf("Store.Path = %q, want %q", cfg.Store.Path, want)
	}
	if want := filepath.Join(home, "logs", "folderplay.log"); cfg.Log.File != want {
		t.Errorf("Log.File = %q, want %q", cfg.Log.File, want)
	}
}

func TestLoad_InvalidToml(t *testing.T) {
	isolate(t)
	writeConfig(t, "config.toml", "invalid = [[[")

	if _, err := Load(); err == nil {
		t.Error("Load() should fail on invalid TOML")
	}
}

func TestLoad_InvalidValues(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantErr error
	}{
		{
			name:    "unknown backend",
			content: "[store]\nbackend = \"mongo\"\n",
			wantErr: ErrUnknownBackend,
		},
		{
			name:    "bad duration",
			content: "checkpoint_interval = \"soon\"\n",
		},
		{
			name:    "bad language",
			content: "collation_language = \"not a tag!\"\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			isolate(t)
			writeConfig(t, "config.toml", tt.content)

			_, err := Load()
			if err == nil {
				t.Fatal("Load() should fail")
			}
			if tt.wantErr != nil && !errors.Is(err, tt.wantErr) {
				t.Errorf("Load() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestGetStoreConfig_Defaults(t *testing.T) {
	cfg := Config{Store: StoreConfig{RedisDB: -3}}

	store := cfg.GetStoreConfig()

	if store.Backend != BackendSQLite {
		t.Errorf("Backend = %q, want sqlite", store.Backend)
	}
	if store.RedisDB != 0 {
		t.Errorf("RedisDB = %d, want 0", store.RedisDB)
	}
}

func TestGetLogConfig_InvalidValues(t *testing.T) {
	cfg := Config{Log: LogConfig{MaxSizeMB: -1, MaxBackups: -1}}

	logCfg := cfg.GetLogConfig()

	if logCfg.MaxSizeMB != 10 {
		t.Errorf("MaxSizeMB = %d, want 10", logCfg.MaxSizeMB)
	}
	if logCfg.MaxBackups != 3 {
		t.Errorf("MaxBackups = %d, want 3", logCfg.MaxBackups)
	}
}

func TestGetCheckpointInterval_NonPositive(t *testing.T) {
	cfg := Config{CheckpointInterval: -time.Second}

	if got := cfg.GetCheckpointInterval(); got != 5*time.Second {
		t.Errorf("GetCheckpointInterval() = %v, want 5s", got)
	}
}
