package localstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/denovbaraka/storefront-backend/pkg/config"
	pkgerrors "github.com/denovbaraka/storefront-backend/pkg/errors"
	"github.com/denovbaraka/storefront-backend/pkg/logger"
)

// Well-known entry names. The store holds a handful of named JSON documents,
// read at startup and rewritten after every mutation.
const (
	EntryCart         = "cart"
	EntryOrders       = "orders"
	EntryProducts     = "products"
	EntryAdminSession = "admin_session"
)

// ErrNotFound is returned when no entry exists under the requested name.
var ErrNotFound = errors.New("localstore: entry not found")

// Entry is a single named JSON document.
type Entry struct {
	Name      string    `gorm:"column:name;primaryKey"`
	Value     []byte    `gorm:"column:value;not null"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

func (Entry) TableName() string { return "entries" }

// Store is the durable local fallback storage.
type Store struct {
	conn *gorm.DB
}

// Open boots the embedded database and ensures the entries table exists.
func Open(ctx context.Context, cfg config.LocalStoreConfig, logg *logger.Logger) (*Store, error) {
	if cfg.DSN == "" {
		return nil, fmt.Errorf("local store DSN is required")
	}

	silent := gormlogger.New(
		log.New(io.Discard, "", log.LstdFlags),
		gormlogger.Config{LogLevel: gormlogger.Silent},
	)

	conn, err := gorm.Open(sqlite.Open(cfg.DSN), &gorm.Config{
		Logger:                 silent,
		SkipDefaultTransaction: true,
	})
	if err != nil {
		return nil, fmt.Errorf("opening local store: %w", err)
	}

	if err := conn.WithContext(ctx).AutoMigrate(&Entry{}); err != nil {
		return nil, fmt.Errorf("migrating local store: %w", err)
	}

	if logg != nil {
		logg.Info(ctx, "local store opened")
	}

	return &Store{conn: conn}, nil
}

// Get returns the raw value stored under name, or ErrNotFound.
func (s *Store) Get(ctx context.Context, name string) ([]byte, error) {
	var entry Entry
	err := s.conn.WithContext(ctx).Where("name = ?", name).First(&entry).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return entry.Value, nil
}

// Put upserts the value stored under name.
func (s *Store) Put(ctx context.Context, name string, value []byte) error {
	entry := Entry{Name: name, Value: value}
	return s.conn.WithContext(ctx).Save(&entry).Error
}

// Delete removes the entry; absent entries are a no-op.
func (s *Store) Delete(ctx context.Context, name string) error {
	return s.conn.WithContext(ctx).Where("name = ?", name).Delete(&Entry{}).Error
}

// GetJSON unmarshals the entry into dest, or returns ErrNotFound.
func (s *Store) GetJSON(ctx context.Context, name string, dest any) error {
	raw, err := s.Get(ctx, name)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(raw, dest); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "decode local entry "+name)
	}
	return nil
}

// PutJSON marshals value and stores it under name.
func (s *Store) PutJSON(ctx context.Context, name string, value any) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "encode local entry "+name)
	}
	return s.Put(ctx, name, raw)
}

// Ping verifies the datasource is reachable.
func (s *Store) Ping(ctx context.Context) error {
	sqlDB, err := s.conn.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

// Close shuts down the pooled connections.
func (s *Store) Close() error {
	sqlDB, err := s.conn.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
