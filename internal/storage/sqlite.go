package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"log"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Blob is a single persisted value. One row per storage key.
type Blob struct {
	Key   string `gorm:"primaryKey;size:512"`
	Value string `gorm:"type:text"`
}

func (Blob) TableName() string {
	return "blobs"
}

// Database is a Backend persisted to an SQLite file via GORM.
type Database struct {
	db *gorm.DB
}

func NewDatabase(dbPath string) (*Database, error) {
	db, err := gorm.Open(sqlite.Open(dbPath), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := db.AutoMigrate(&Blob{}); err != nil {
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	log.Printf("Storage initialized at %s", dbPath)

	return &Database{db: db}, nil
}

func (d *Database) Close() error {
	sqlDB, err := d.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// SQLDB exposes the underlying connection for collaborators that need raw
// SQL access, such as the cookie session store.
func (d *Database) SQLDB() (*sql.DB, error) {
	return d.db.DB()
}

func (d *Database) Get(key string) (string, bool, error) {
	var blob Blob
	err := d.db.Where("key = ?", key).First(&blob).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return blob.Value, true, nil
}

func (d *Database) Set(key, value string) error {
	blob := Blob{Key: key, Value: value}
	var existing Blob
	err := d.db.Where("key = ?", key).First(&existing).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return d.db.Create(&blob).Error
	}
	if err != nil {
		return err
	}
	return d.db.Model(&Blob{}).Where("key = ?", key).Update("value", value).Error
}

func (d *Database) Remove(key string) error {
	return d.db.Where("key = ?", key).Delete(&Blob{}).Error
}
