package draft

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

type draftRecord struct {
	Key       string `gorm:"primaryKey;size:128"`
	Payload   string
	UpdatedAt time.Time
}

func (draftRecord) TableName() string { return "checkout_drafts" }

// GormStore persists drafts in a local SQLite database for durable
// single-node deployments.
type GormStore struct {
	db *gorm.DB
}

// NewSQLiteStore opens (or creates) the database at path and migrates the
// drafts table.
func NewSQLiteStore(path string) (*GormStore, error) {
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	if err := db.AutoMigrate(&draftRecord{}); err != nil {
		return nil, fmt.Errorf("migrate drafts table: %w", err)
	}
	return &GormStore{db: db}, nil
}

func (s *GormStore) Load(ctx context.Context, key string) (Draft, bool, error) {
	var record draftRecord
	err := s.db.WithContext(ctx).First(&record, "key = ?", key).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return Draft{}, false, nil
	}
	if err != nil {
		return Draft{}, false, fmt.Errorf("load draft: %w", err)
	}
	var d Draft
	if err := json.Unmarshal([]byte(record.Payload), &d); err != nil {
		return Draft{}, false, nil
	}
	return d.Normalize(), true, nil
}

func (s *GormStore) Save(ctx context.Context, key string, d Draft) error {
	payload, err := json.Marshal(d)
	if err != nil {
		return fmt.Errorf("encode draft: %w", err)
	}
	record := draftRecord{Key: key, Payload: string(payload), UpdatedAt: time.Now()}
	err = s.db.WithContext(ctx).Save(&record).Error
	if err != nil {
		return fmt.Errorf("save draft: %w", err)
	}
	return nil
}

func (s *GormStore) Clear(ctx context.Context, key string) error {
	err := s.db.WithContext(ctx).Delete(&draftRecord{}, "key = ?", key).Error
	if err != nil {
		return fmt.Errorf("clear draft: %w", err)
	}
	return nil
}
