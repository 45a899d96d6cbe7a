// Package cache persists a content-hash -> compiled-artifact record
// across veyrac invocations. Veyra is a single-file compiler with no
// incremental recompilation of semantics; this cache only ever serves
// as a skip-recompute shortcut keyed by a whole-file hash, never a
// partial rebuild.
package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	puregosqlite "github.com/glebarez/sqlite"
	"github.com/google/uuid"
	gormsqlite "gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// Entry is the GORM model for one cached compilation result, keyed by
// the sha256 of the source file's bytes. Only summaries are stored,
// never the full arena or Rocq output text: small queryable rows,
// not blobbed documents.
type Entry struct {
	ID            string `gorm:"primaryKey"`
	FileHash      string `gorm:"uniqueIndex"`
	SourcePath    string
	ArenaNodes    int
	ArenaDigest   string
	CheckOK       bool
	Diagnostics   int
	RocqEmitted   bool
	RocqDigest    string
	LastCompiled  time.Time
}

// TableName pins the table name rather than relying on GORM's
// pluralization.
func (Entry) TableName() string { return "cache_entries" }

// Store wraps the GORM handle used to read and write Entry rows.
type Store struct {
	db *gorm.DB
}

// Open connects to (and migrates) the sqlite database at dsn. When
// pureGo is set the cgo-free glebarez/sqlite dialector is used
// instead of gorm.io/driver/sqlite, for platforms without a C
// toolchain.
func Open(dsn string, debug, pureGo bool) (*Store, error) {
	if dir := filepath.Dir(dsn); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("cache: creating cache directory: %w", err)
		}
	}

	gcfg := &gorm.Config{}
	if debug {
		gcfg.Logger = gormlogger.Default.LogMode(gormlogger.Info)
	}

	var db *gorm.DB
	var err error
	if pureGo {
		db, err = gorm.Open(puregosqlite.Open(dsn), gcfg)
	} else {
		db, err = gorm.Open(gormsqlite.Open(dsn), gcfg)
	}
	if err != nil {
		return nil, fmt.Errorf("cache: opening sqlite database: %w", err)
	}

	if err := db.Exec("PRAGMA foreign_keys = ON").Error; err != nil {
		return nil, fmt.Errorf("cache: enabling foreign keys: %w", err)
	}
	if err := db.AutoMigrate(&Entry{}); err != nil {
		return nil, fmt.Errorf("cache: migrating schema: %w", err)
	}

	return &Store{db: db}, nil
}

// HashSource returns the hex sha256 digest used as the cache key.
func HashSource(src []byte) string {
	sum := sha256.Sum256(src)
	return hex.EncodeToString(sum[:])
}

// Lookup returns the cached entry for a given source hash, if any.
func (s *Store) Lookup(hash string) (*Entry, bool, error) {
	var e Entry
	res := s.db.Where("file_hash = ?", hash).First(&e)
	if res.Error != nil {
		if errors.Is(res.Error, gorm.ErrRecordNotFound) {
			return nil, false, nil
		}
		return nil, false, res.Error
	}
	return &e, true, nil
}

// Put records (or replaces) the cache entry for a source hash.
func (s *Store) Put(e *Entry) error {
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	e.LastCompiled = time.Now()

	res := s.db.Where("file_hash = ?", e.FileHash).Delete(&Entry{})
	if res.Error != nil {
		return fmt.Errorf("cache: clearing stale entry: %w", res.Error)
	}
	if err := s.db.Create(e).Error; err != nil {
		return fmt.Errorf("cache: writing entry: %w", err)
	}
	return nil
}

// Close releases the underlying sqlite connection.
func (s *Store) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
