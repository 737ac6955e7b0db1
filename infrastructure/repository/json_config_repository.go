package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"syscall"
	"time"

	"github.com/ca-srg/tzexplorer/domain"
	"github.com/ca-srg/tzexplorer/domain/repository"
	"github.com/ca-srg/tzexplorer/infrastructure/config"
)

// maxConfigBackups は保持するバックアップの数
const maxConfigBackups = 5

// JSONConfigRepository は JSON形式で設定を管理するリポジトリ実装
type JSONConfigRepository struct {
	configDir  string
	configFile string
	logger     domain.Logger
}

// DefaultConfigPath は ~/.config/tzexplorer/config.json を返す
func DefaultConfigPath() string {
	homeDir, _ := os.UserHomeDir()
	return filepath.Join(homeDir, ".config", "tzexplorer", "config.json")
}

// NewJSONConfigRepository は新しい JSONConfigRepository を作成する。
// path が空の場合はデフォルトのパスを使用する
func NewJSONConfigRepository(path string, logger domain.Logger) repository.ConfigRepository {
	if path == "" {
		path = DefaultConfigPath()
	}
	return &JSONConfigRepository{
		configDir:  filepath.Dir(path),
		configFile: path,
		logger:     logger,
	}
}

// Exists は設定ファイルが存在するかどうかを確認する
func (r *JSONConfigRepository) Exists() (bool, error) {
	_, err := os.Stat(r.configFile)
	if err == nil {
		return true, nil
	}
	if os.IsNotExist(err) {
		return false, nil
	}
	return false, domain.ErrFileOperationWithCause("Exists", r.configFile, err)
}

// Load は設定ファイルから設定を読み込む。ファイルが無い場合は nil を返す
func (r *JSONConfigRepository) Load() (*config.AppConfig, error) {
	exists, err := r.Exists()
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, nil
	}

	if err := r.ensureSecurePermissions(r.configFile, false); err != nil {
		return nil, fmt.Errorf("config file security check failed: %w", err)
	}

	data, err := os.ReadFile(r.configFile)
	if err != nil {
		return nil, domain.ErrFileOperationWithCause("Load", r.configFile, err)
	}

	var cfg config.AppConfig
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return &cfg, nil
}

// Save は設定を一時ファイル経由でアトミックに保存する
func (r *JSONConfigRepository) Save(cfg *config.AppConfig) error {
	if cfg == nil {
		return domain.ErrInvalidInput("config", "config is nil")
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("config validation failed: %w", err)
	}
	if err := r.EnsureConfigDir(); err != nil {
		return err
	}

	exists, err := r.Exists()
	if err != nil {
		return err
	}
	if exists {
		if err := r.Backup(); err != nil {
			// バックアップ失敗は警告のみ、保存は続行
			r.logger.Warn(context.Background(), "Failed to back up config",
				domain.NewField("path", r.configFile),
				domain.NewField("error", err.Error()))
		}
	}

	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	tmpFile := r.configFile + ".tmp"
	if err := os.WriteFile(tmpFile, data, 0600); err != nil {
		return domain.ErrFileOperationWithCause("Save", tmpFile, err)
	}

	if err := os.Rename(tmpFile, r.configFile); err != nil {
		_ = os.Remove(tmpFile)
		return domain.ErrFileOperationWithCause("Save", r.configFile, err)
	}

	return r.ensureSecurePermissions(r.configFile, false)
}

// GetConfigPath は設定ファイルのパスを返す
func (r *JSONConfigRepository) GetConfigPath() string {
	return r.configFile
}

// EnsureConfigDir は設定ディレクトリが存在することを保証する
func (r *JSONConfigRepository) EnsureConfigDir() error {
	if err := os.MkdirAll(r.configDir, 0700); err != nil {
		return domain.ErrFileOperationWithCause("EnsureConfigDir", r.configDir, err)
	}
	return r.ensureSecurePermissions(r.configDir, true)
}

// Backup は現在の設定ファイルのバックアップを作成し、古いものを削除する
func (r *JSONConfigRepository) Backup() error {
	data, err := os.ReadFile(r.configFile)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to read config file for backup: %w", err)
	}

	backupFile := fmt.Sprintf("%s.backup.%s", r.configFile, time.Now().Format("20060102-150405.000000"))
	if err := os.WriteFile(backupFile, data, 0600); err != nil {
		return fmt.Errorf("failed to write backup file: %w", err)
	}

	return r.cleanupOldBackups()
}

// cleanupOldBackups は最新 maxConfigBackups 個を残して削除する
func (r *JSONConfigRepository) cleanupOldBackups() error {
	matches, err := filepath.Glob(r.configFile + ".backup.*")
	if err != nil {
		return err
	}
	if len(matches) <= maxConfigBackups {
		return nil
	}

	// タイムスタンプ付きのファイル名なので辞書順 = 古い順
	sort.Strings(matches)
	for _, old := range matches[:len(matches)-maxConfigBackups] {
		if err := os.Remove(old); err != nil {
			r.logger.Warn(context.Background(), "Failed to remove old config backup",
				domain.NewField("path", old),
				domain.NewField("error", err.Error()))
		}
	}
	return nil
}

// ensureSecurePermissions はファイルまたはディレクトリの権限を確保する
func (r *JSONConfigRepository) ensureSecurePermissions(path string, isDir bool) error {
	info, err := os.Stat(path)
	if err != nil {
		return domain.ErrFileOperationWithCause("Stat", path, err)
	}

	expectedMode := os.FileMode(0600)
	if isDir {
		expectedMode = 0700
	}

	if info.Mode().Perm() != expectedMode {
		if err := os.Chmod(path, expectedMode); err != nil {
			return domain.ErrFilePermission(path, expectedMode.String())
		}
	}

	// 所有者の確認（Unix系OSのみ）
	stat, ok := info.Sys().(*syscall.Stat_t)
	if !ok {
		return nil
	}
	if currentUID := uint32(os.Getuid()); stat.Uid != currentUID {
		return fmt.Errorf("file is not owned by current user (uid: %d, expected: %d)", stat.Uid, currentUID)
	}

	return nil
}
