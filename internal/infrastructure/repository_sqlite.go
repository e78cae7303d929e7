package infrastructure

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/yourusername/ytgrab/internal/domain"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// SQLiteHistoryRepository implements HistoryRepository using SQLite
type SQLiteHistoryRepository struct {
	db *gorm.DB
}

// NewSQLiteHistoryRepository opens (and migrates) the history database at dbPath
func NewSQLiteHistoryRepository(dbPath string) (*SQLiteHistoryRepository, error) {
	if dbPath != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	db, err := gorm.Open(sqlite.Open(dbPath), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.AutoMigrate(&domain.HistoryEntry{}); err != nil {
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return &SQLiteHistoryRepository{db: db}, nil
}

// Record stores a finished download
func (r *SQLiteHistoryRepository) Record(entry *domain.HistoryEntry) error {
	return r.db.Create(entry).Error
}

// List returns the most recent entries, newest first
func (r *SQLiteHistoryRepository) List(limit int, failedOnly bool) ([]*domain.HistoryEntry, error) {
	var entries []*domain.HistoryEntry
	query := r.db.Order("created_at DESC")
	if failedOnly {
		query = query.Where("success = ?", false)
	}
	if limit > 0 {
		query = query.Limit(limit)
	}
	err := query.Find(&entries).Error
	return entries, err
}

// FindByURL returns entries for a URL, newest first
func (r *SQLiteHistoryRepository) FindByURL(url string) ([]*domain.HistoryEntry, error) {
	var entries []*domain.HistoryEntry
	err := r.db.Where("url = ?", url).Order("created_at DESC").Find(&entries).Error
	return entries, err
}

// GetStats returns aggregate counts
func (r *SQLiteHistoryRepository) GetStats() (*domain.HistoryStats, error) {
	stats := &domain.HistoryStats{}

	if err := r.db.Model(&domain.HistoryEntry{}).Count(&stats.Total).Error; err != nil {
		return nil, err
	}
	if err := r.db.Model(&domain.HistoryEntry{}).Where("success = ?", true).Count(&stats.Succeeded).Error; err != nil {
		return nil, err
	}
	stats.Failed = stats.Total - stats.Succeeded

	return stats, nil
}

// Close closes the database connection
func (r *SQLiteHistoryRepository) Close() error {
	sqlDB, err := r.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
