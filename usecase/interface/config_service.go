package usecase

import (
	"github.com/ca-srg/tzexplorer/infrastructure/config"
)

// ConfigService は設定管理のサービスインターフェース
type ConfigService interface {
	// GetConfig は現在の設定を取得する
	GetConfig() *config.AppConfig

	// UpdateConfig は設定を検証して保存する
	UpdateConfig(newConfig *config.AppConfig) error

	// GetConfigWithSources は設定と各項目の由来 (default/json/env) を取得する
	GetConfigWithSources() (*config.AppConfig, config.ConfigSourceMap)

	// SaveConfig は現在の設定をファイルに保存する
	SaveConfig() error

	// ReloadConfig は設定を再読み込みする
	ReloadConfig() error

	// GetConfigPath は設定ファイルのパスを返す
	GetConfigPath() string

	// CreateDefaultConfig は設定ファイルが無い場合にテンプレートを作成する
	CreateDefaultConfig() error

	// ExportConfig は表示用に設定を整形する（パスワードはマスク）
	ExportConfig() map[string]interface{}

	// EnsureConfigExists は設定ファイルが無ければテンプレートを作成する
	EnsureConfigExists() error

	// LoadConfigWithFallback はエラー耐性のある設定読み込みを行う
	LoadConfigWithFallback() (*config.AppConfig, error)
}
