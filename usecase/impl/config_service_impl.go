package impl

import (
	"context"
	"fmt"
	"sync"

	"github.com/ca-srg/tzexplorer/domain"
	"github.com/ca-srg/tzexplorer/domain/repository"
	"github.com/ca-srg/tzexplorer/infrastructure/config"
	usecase "github.com/ca-srg/tzexplorer/usecase/interface"
)

const maskedValue = "****"

// ConfigServiceImpl は ConfigService の実装
type ConfigServiceImpl struct {
	configRepo repository.ConfigRepository
	config     *config.AppConfig
	logger     domain.Logger
	mu         sync.RWMutex
}

// NewConfigService は設定を読み込んで ConfigService を作成する
func NewConfigService(configRepo repository.ConfigRepository, logger domain.Logger) (usecase.ConfigService, error) {
	cfg, err := loadConfigWithFallback(configRepo, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	return &ConfigServiceImpl{
		configRepo: configRepo,
		config:     cfg,
		logger:     logger,
	}, nil
}

// loadConfigWithFallback loads defaults, then the JSON file, then TZEXPLORER_* variables
func loadConfigWithFallback(configRepo repository.ConfigRepository, logger domain.Logger) (*config.AppConfig, error) {
	ctx := context.Background()

	cfg := config.DefaultConfig()
	cfg.MarkDefaults()
	logger.Debug(ctx, "Loading configuration", domain.NewField("config_path", configRepo.GetConfigPath()))

	jsonConfig, err := configRepo.Load()
	if err != nil {
		// JSON読み込みエラーはデフォルト設定で継続
		logger.Warn(ctx, "Failed to load JSON configuration, using defaults",
			domain.NewField("error", err.Error()),
			domain.NewField("config_path", configRepo.GetConfigPath()))
	} else if jsonConfig != nil {
		cfg.MergeJSONConfig(jsonConfig)
		logger.Debug(ctx, "Loaded JSON configuration",
			domain.NewField("config_path", configRepo.GetConfigPath()))
	} else {
		logger.Debug(ctx, "No JSON configuration file found, using defaults",
			domain.NewField("config_path", configRepo.GetConfigPath()))
	}

	// 環境変数はJSONの値より優先される
	if err := cfg.LoadFromEnv(); err != nil {
		logger.Warn(ctx, "Failed to load environment variables, using fallback values",
			domain.NewField("error", err.Error()))
	}

	if err := cfg.Validate(); err != nil {
		// 検証エラー時はデフォルト設定で継続
		logger.Warn(ctx, "Configuration validation failed, using default values",
			domain.NewField("error", err.Error()))
		cfg = config.DefaultConfig()
		cfg.MarkDefaults()
	}

	return cfg, nil
}

// GetConfig は現在の設定を取得する
func (s *ConfigServiceImpl) GetConfig() *config.AppConfig {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.config
}

// UpdateConfig は設定を検証して保存する
func (s *ConfigServiceImpl) UpdateConfig(newConfig *config.AppConfig) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := newConfig.Validate(); err != nil {
		return domain.ErrInvalidInput("config", err.Error())
	}

	if err := s.configRepo.Save(newConfig); err != nil {
		return fmt.Errorf("failed to save config: %w", err)
	}

	s.config = newConfig
	return nil
}

// GetConfigWithSources は設定とそのソース情報を取得する
func (s *ConfigServiceImpl) GetConfigWithSources() (*config.AppConfig, config.ConfigSourceMap) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.config, s.config.ConfigSources
}

// SaveConfig は現在の設定をファイルに保存する
func (s *ConfigServiceImpl) SaveConfig() error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.configRepo.Save(s.config)
}

// ReloadConfig は設定を再読み込みする
func (s *ConfigServiceImpl) ReloadConfig() error {
	ctx := context.Background()
	s.mu.Lock()
	defer s.mu.Unlock()

	newConfig, err := loadConfigWithFallback(s.configRepo, s.logger)
	if err != nil {
		s.logger.Error(ctx, "Failed to reload configuration", domain.NewField("error", err.Error()))
		return fmt.Errorf("failed to reload config: %w", err)
	}

	s.config = newConfig
	s.logger.Info(ctx, "Configuration reloaded")
	return nil
}

// GetConfigPath は設定ファイルのパスを返す
func (s *ConfigServiceImpl) GetConfigPath() string {
	return s.configRepo.GetConfigPath()
}

// CreateDefaultConfig はデフォルト設定ファイルを作成する
func (s *ConfigServiceImpl) CreateDefaultConfig() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	exists, err := s.configRepo.Exists()
	if err != nil {
		return fmt.Errorf("failed to check config existence: %w", err)
	}
	if exists {
		return fmt.Errorf("config file already exists at %s", s.configRepo.GetConfigPath())
	}

	return s.writeTemplate()
}

// EnsureConfigExists は設定ファイルが存在しない場合にテンプレートを作成する
func (s *ConfigServiceImpl) EnsureConfigExists() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	exists, err := s.configRepo.Exists()
	if err != nil {
		return fmt.Errorf("failed to check config existence: %w", err)
	}
	if exists {
		return nil
	}

	s.logger.Info(context.Background(), "Configuration file not found, creating template",
		domain.NewField("config_path", s.configRepo.GetConfigPath()))
	return s.writeTemplate()
}

// writeTemplate は最小構成の設定を保存する。メモリ内の設定はそのまま。
func (s *ConfigServiceImpl) writeTemplate() error {
	if err := s.configRepo.Save(config.MinimalDefaultConfig()); err != nil {
		s.logger.Error(context.Background(), "Failed to create template configuration",
			domain.NewField("error", err.Error()),
			domain.NewField("config_path", s.configRepo.GetConfigPath()))
		return fmt.Errorf("failed to create template config: %w", err)
	}
	return nil
}

// ExportConfig は現在の設定を表示用に整形する（パスワードなどをマスク）
func (s *ConfigServiceImpl) ExportConfig() map[string]interface{} {
	s.mu.RLock()
	defer s.mu.RUnlock()

	exportMap := make(map[string]interface{})
	exportMap["version"] = s.config.Version

	if e := s.config.Explorer; e != nil {
		exportMap["explorer"] = map[string]interface{}{
			"page_size":           e.PageSize,
			"refresh_interval_ms": e.RefreshIntervalMs,
			"dst_strategy":        e.DSTStrategy,
			"default_locale":      e.DefaultLocale,
			"local_timezone":      e.LocalTimezone,
			"zoneinfo_dirs":       e.ZoneinfoDirs,
		}
	}

	if p := s.config.Preferences; p != nil {
		exportMap["preferences"] = map[string]interface{}{
			"database_path": p.DatabasePath,
			"disable_watch": p.DisableWatch,
		}
	}

	if p := s.config.Prometheus; p != nil {
		prometheusMap := map[string]interface{}{
			"remote_write_url": p.RemoteWriteURL,
			"username":         p.Username,
			"host_label":       p.HostLabel,
			"interval_seconds": p.IntervalSec,
			"timeout_seconds":  p.TimeoutSec,
		}
		if p.Password != "" {
			prometheusMap["password"] = maskedValue
		}
		exportMap["prometheus"] = prometheusMap
	}

	if d := s.config.Daemon; d != nil {
		exportMap["daemon"] = map[string]interface{}{
			"pid_file":             d.PidFile,
			"tray_favorites_limit": d.TrayFavoritesLimit,
		}
	}

	if l := s.config.Logging; l != nil {
		loggingMap := map[string]interface{}{
			"level": l.Level,
			"debug": l.Debug,
		}
		if l.Promtail != nil {
			promtailMap := map[string]interface{}{
				"url":                l.Promtail.URL,
				"username":           l.Promtail.Username,
				"batch_wait_seconds": l.Promtail.BatchWaitSeconds,
			}
			if l.Promtail.Password != "" {
				promtailMap["password"] = maskedValue
			}
			loggingMap["promtail"] = promtailMap
		}
		exportMap["logging"] = loggingMap
	}

	sourcesMap := make(map[string]string)
	for key, source := range s.config.ConfigSources {
		sourcesMap[key] = string(source)
	}
	exportMap["_sources"] = sourcesMap

	return exportMap
}

// LoadConfigWithFallback はエラー耐性のある設定読み込みを行う
func (s *ConfigServiceImpl) LoadConfigWithFallback() (*config.AppConfig, error) {
	return loadConfigWithFallback(s.configRepo, s.logger)
}
