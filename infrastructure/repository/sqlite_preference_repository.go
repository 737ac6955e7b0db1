package repository

import (
	"context"
	"database/sql"
	"errors"
	"os"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
	_ "github.com/mattn/go-sqlite3"

	"github.com/ca-srg/tzexplorer/domain"
	"github.com/ca-srg/tzexplorer/domain/repository"
)

const createItemTable = `CREATE TABLE IF NOT EXISTS ItemTable (
	key TEXT PRIMARY KEY,
	value TEXT NOT NULL
)`

// SQLitePreferenceRepository stores preferences in a single-table SQLite file
type SQLitePreferenceRepository struct {
	path         string
	db           *sql.DB
	logger       domain.Logger
	watchEnabled bool
}

// SQLiteOption configures a SQLitePreferenceRepository
type SQLiteOption func(*SQLitePreferenceRepository)

// WithoutWatch makes Watch return an already closed channel
func WithoutWatch() SQLiteOption {
	return func(r *SQLitePreferenceRepository) {
		r.watchEnabled = false
	}
}

// NewSQLitePreferenceRepository opens (and if needed creates) the database at path
func NewSQLitePreferenceRepository(path string, logger domain.Logger, opts ...SQLiteOption) (repository.PreferenceRepository, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return nil, domain.ErrFileOperationWithCause("CreatePreferencesDir", filepath.Dir(path), err)
	}

	// Create the file ourselves so it never exists with the driver's default mode
	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE, 0600)
	if err != nil {
		return nil, domain.ErrFileOperationWithCause("CreatePreferencesDB", path, err)
	}
	_ = f.Close()
	if err := os.Chmod(path, 0600); err != nil {
		return nil, domain.ErrFileOperationWithCause("ChmodPreferencesDB", path, err)
	}

	db, err := sql.Open("sqlite3", path+"?_busy_timeout=5000")
	if err != nil {
		return nil, domain.ErrPreference("Open", err)
	}
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(createItemTable); err != nil {
		_ = db.Close()
		return nil, domain.ErrPreference("CreateTable", err).WithDetails("path", path)
	}

	r := &SQLitePreferenceRepository{
		path:         path,
		db:           db,
		logger:       logger,
		watchEnabled: true,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r, nil
}

// Get implements repository.PreferenceRepository
func (r *SQLitePreferenceRepository) Get(key string) (string, bool, error) {
	var value string
	err := r.db.QueryRow("SELECT value FROM ItemTable WHERE key = ?", key).Scan(&value)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", false, nil
		}
		return "", false, domain.ErrPreference("Get", err).WithDetails("key", key)
	}
	return value, true, nil
}

// Set implements repository.PreferenceRepository
func (r *SQLitePreferenceRepository) Set(key, value string) error {
	_, err := r.db.Exec("INSERT OR REPLACE INTO ItemTable (key, value) VALUES (?, ?)", key, value)
	if err != nil {
		return domain.ErrPreference("Set", err).WithDetails("key", key)
	}
	return nil
}

// Delete implements repository.PreferenceRepository
func (r *SQLitePreferenceRepository) Delete(key string) error {
	if _, err := r.db.Exec("DELETE FROM ItemTable WHERE key = ?", key); err != nil {
		return domain.ErrPreference("Delete", err).WithDetails("key", key)
	}
	return nil
}

// Watch implements repository.PreferenceRepository. The database directory is
// watched because SQLite may replace the file or write through a journal.
func (r *SQLitePreferenceRepository) Watch(ctx context.Context) (<-chan struct{}, error) {
	if !r.watchEnabled {
		out := make(chan struct{})
		close(out)
		return out, nil
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, domain.ErrPreference("Watch", err)
	}
	dir := filepath.Dir(r.path)
	if err := watcher.Add(dir); err != nil {
		_ = watcher.Close()
		return nil, domain.ErrPreference("Watch", err).WithDetails("dir", dir)
	}

	base := filepath.Base(r.path)
	related := map[string]bool{
		base:              true,
		base + "-journal": true,
		base + "-wal":     true,
	}

	out := make(chan struct{}, 1)
	go func() {
		defer close(out)
		defer func() {
			_ = watcher.Close()
		}()

		for {
			select {
			case <-ctx.Done():
				return
			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				if !related[filepath.Base(event.Name)] {
					continue
				}
				if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
					continue
				}
				select {
				case out <- struct{}{}:
				default:
				}
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				r.logger.Warn(ctx, "Preference watcher error",
					domain.NewField("path", r.path),
					domain.NewField("error", err.Error()))
			}
		}
	}()

	return out, nil
}

// Close implements repository.PreferenceRepository
func (r *SQLitePreferenceRepository) Close() error {
	return r.db.Close()
}
