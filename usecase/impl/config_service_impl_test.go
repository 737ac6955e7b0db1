package impl

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/ca-srg/tzexplorer/infrastructure/config"
	"github.com/ca-srg/tzexplorer/infrastructure/repository"
)

func newTestConfigService(t *testing.T) (*ConfigServiceImpl, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.json")
	configRepo := repository.NewJSONConfigRepository(path, &mockLogger{})

	service, err := NewConfigService(configRepo, &mockLogger{})
	if err != nil {
		t.Fatalf("Failed to create config service: %v", err)
	}
	return service.(*ConfigServiceImpl), path
}

func writeConfigFile(t *testing.T, path, body string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		t.Fatalf("Failed to create config dir: %v", err)
	}
	if err := os.WriteFile(path, []byte(body), 0600); err != nil {
		t.Fatalf("Failed to write config: %v", err)
	}
}

func TestConfigServiceImpl_GetConfig(t *testing.T) {
	service, _ := newTestConfigService(t)

	cfg := service.GetConfig()
	if cfg == nil {
		t.Fatal("GetConfig returned nil")
	}

	// デフォルト値を確認
	if cfg.Explorer.PageSize != config.DefaultPageSize {
		t.Errorf("Expected page size %d, got %d", config.DefaultPageSize, cfg.Explorer.PageSize)
	}
	if cfg.Explorer.DSTStrategy != config.DSTStrategySampled {
		t.Errorf("Expected dst strategy %s, got %s", config.DSTStrategySampled, cfg.Explorer.DSTStrategy)
	}
	if cfg.ConfigSources["Explorer.PageSize"] != config.SourceDefault {
		t.Errorf("Expected default source, got %s", cfg.ConfigSources["Explorer.PageSize"])
	}
}

func TestConfigServiceImpl_LoadLayers(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.json")
	writeConfigFile(t, path, `{
  "version": 1,
  "explorer": {"page_size": 24, "dst_strategy": "rules"},
  "logging": {"level": "info"}
}`)
	t.Setenv("TZEXPLORER_DST_STRATEGY", "zone-name")

	service, err := NewConfigService(repository.NewJSONConfigRepository(path, &mockLogger{}), &mockLogger{})
	if err != nil {
		t.Fatalf("Failed to create config service: %v", err)
	}

	cfg, sources := service.GetConfigWithSources()
	if cfg.Explorer.PageSize != 24 {
		t.Errorf("Expected page size from JSON, got %d", cfg.Explorer.PageSize)
	}
	if sources["Explorer.PageSize"] != config.SourceJSONFile {
		t.Errorf("Expected json source for page size, got %s", sources["Explorer.PageSize"])
	}
	if cfg.Explorer.DSTStrategy != config.DSTStrategyZoneName {
		t.Errorf("Expected env override for dst strategy, got %s", cfg.Explorer.DSTStrategy)
	}
	if sources["Explorer.DSTStrategy"] != config.SourceEnvironment {
		t.Errorf("Expected env source for dst strategy, got %s", sources["Explorer.DSTStrategy"])
	}
	if cfg.Logging.Level != "info" {
		t.Errorf("Expected log level info, got %s", cfg.Logging.Level)
	}
	if cfg.Explorer.RefreshIntervalMs != config.DefaultRefreshIntervalMs {
		t.Errorf("Expected default refresh interval, got %d", cfg.Explorer.RefreshIntervalMs)
	}
}

func TestConfigServiceImpl_InvalidConfigFallsBackToDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	writeConfigFile(t, path, `{"explorer": {"page_size": 5000}}`)

	service, err := NewConfigService(repository.NewJSONConfigRepository(path, &mockLogger{}), &mockLogger{})
	if err != nil {
		t.Fatalf("Expected fallback instead of error: %v", err)
	}
	if got := service.GetConfig().Explorer.PageSize; got != config.DefaultPageSize {
		t.Errorf("Expected default page size after validation failure, got %d", got)
	}
}

func TestConfigServiceImpl_BrokenJSONFallsBackToDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	writeConfigFile(t, path, `{"explorer": `)

	service, err := NewConfigService(repository.NewJSONConfigRepository(path, &mockLogger{}), &mockLogger{})
	if err != nil {
		t.Fatalf("Expected fallback instead of error: %v", err)
	}
	if got := service.GetConfig().Explorer.DefaultLocale; got != "en-US" {
		t.Errorf("Expected default locale, got %s", got)
	}
}

func TestConfigServiceImpl_UpdateConfig(t *testing.T) {
	service, path := newTestConfigService(t)

	newConfig := config.DefaultConfig()
	newConfig.Explorer.PageSize = 30
	if err := service.UpdateConfig(newConfig); err != nil {
		t.Fatalf("Failed to update config: %v", err)
	}
	if service.GetConfig().Explorer.PageSize != 30 {
		t.Errorf("Expected page size 30, got %d", service.GetConfig().Explorer.PageSize)
	}
	if _, err := os.Stat(path); err != nil {
		t.Errorf("Expected config file to be written: %v", err)
	}

	// 不正な設定は拒否される
	invalid := config.DefaultConfig()
	invalid.Explorer.DSTStrategy = "moon-phase"
	if err := service.UpdateConfig(invalid); err == nil {
		t.Error("Expected error for invalid dst strategy")
	}
	if service.GetConfig().Explorer.PageSize != 30 {
		t.Error("Invalid update must not replace the current config")
	}

	if err := service.ReloadConfig(); err != nil {
		t.Fatalf("Failed to reload config: %v", err)
	}
	if service.GetConfig().Explorer.PageSize != 30 {
		t.Errorf("Expected reloaded page size 30, got %d", service.GetConfig().Explorer.PageSize)
	}
}

func TestConfigServiceImpl_CreateDefaultConfig(t *testing.T) {
	service, path := newTestConfigService(t)

	if err := service.CreateDefaultConfig(); err != nil {
		t.Fatalf("Failed to create default config: %v", err)
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("Config file not created: %v", err)
	}
	if info.Mode().Perm() != 0600 {
		t.Errorf("Expected permissions 0600, got %o", info.Mode().Perm())
	}

	// 既に存在する場合はエラー
	if err := service.CreateDefaultConfig(); err == nil {
		t.Error("Expected error when config already exists")
	}
}

func TestConfigServiceImpl_EnsureConfigExists(t *testing.T) {
	service, path := newTestConfigService(t)

	if err := service.EnsureConfigExists(); err != nil {
		t.Fatalf("EnsureConfigExists failed: %v", err)
	}
	first, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Template not written: %v", err)
	}

	// 2回目は既存ファイルを変更しない
	if err := service.EnsureConfigExists(); err != nil {
		t.Fatalf("EnsureConfigExists failed: %v", err)
	}
	second, _ := os.ReadFile(path)
	if string(first) != string(second) {
		t.Error("EnsureConfigExists rewrote an existing file")
	}
}

func TestConfigServiceImpl_ExportConfig(t *testing.T) {
	service, _ := newTestConfigService(t)
	cfg := service.GetConfig()
	cfg.Prometheus.Password = "secret"
	cfg.Logging.Promtail.Password = "loki-secret"

	exported := service.ExportConfig()

	prometheus, ok := exported["prometheus"].(map[string]interface{})
	if !ok {
		t.Fatal("prometheus section missing")
	}
	if prometheus["password"] != "****" {
		t.Errorf("Expected masked password, got %v", prometheus["password"])
	}

	logging := exported["logging"].(map[string]interface{})
	promtail := logging["promtail"].(map[string]interface{})
	if promtail["password"] != "****" {
		t.Errorf("Expected masked promtail password, got %v", promtail["password"])
	}

	explorer := exported["explorer"].(map[string]interface{})
	if explorer["page_size"] != config.DefaultPageSize {
		t.Errorf("Expected page size %d, got %v", config.DefaultPageSize, explorer["page_size"])
	}

	if _, ok := exported["_sources"].(map[string]string); !ok {
		t.Error("sources missing from export")
	}
}
