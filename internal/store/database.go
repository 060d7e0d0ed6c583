// Package store is the relational cache under the sync engine: typed
// upserts and reads over SQLite, composed into transactions by the
// mediator and decomposer write paths.
package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/ghost/mediabolt/internal/models"
	"github.com/sirupsen/logrus"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"
)

// ErrNotFound signals a point read for a row that is not cached. It is a
// distinct "missing" outcome, not a failure.
var ErrNotFound = errors.New("store: not found")

// Database wraps the gorm handle. A Database obtained from WithTx shares
// the parent's notifier but runs on the transaction connection.
type Database struct {
	db       *gorm.DB
	notifier *Notifier
	logger   *logrus.Logger
}

// Open opens (or creates) the SQLite database at path, migrates the
// schema and seeds the built-in categories.
func Open(path string, log *logrus.Logger) (*Database, error) {
	dsn := fmt.Sprintf("file:%s?_foreign_keys=on&_busy_timeout=5000", path)
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Discard,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.AutoMigrate(
		&models.Media{},
		&models.Genre{},
		&models.Keyword{},
		&models.Person{},
		&models.ProductionCompany{},
		&models.ProductionCountry{},
		&models.SpokenLanguage{},
		&models.Category{},
		&models.RemoteKey{},
		&models.MediaGenre{},
		&models.MediaKeyword{},
		&models.MediaCast{},
		&models.MediaCompany{},
		&models.MediaCountry{},
		&models.MediaLanguage{},
		&models.MediaRecommendation{},
		&models.MediaSimilar{},
		&models.MediaCategory{},
	); err != nil {
		return nil, fmt.Errorf("failed to migrate schema: %w", err)
	}

	store := &Database{db: db, notifier: NewNotifier(), logger: log}
	if err := store.seedCategories(context.Background()); err != nil {
		return nil, fmt.Errorf("failed to seed categories: %w", err)
	}
	return store, nil
}

func (d *Database) seedCategories(ctx context.Context) error {
	categories := models.DefaultCategories()
	return d.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&categories).Error
}

// Close closes the underlying connection.
func (d *Database) Close() error {
	sqlDB, err := d.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// Ping verifies the underlying connection is alive.
func (d *Database) Ping(ctx context.Context) error {
	sqlDB, err := d.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

// Notifier exposes the change broadcaster so watchers can subscribe.
func (d *Database) Notifier() *Notifier {
	return d.notifier
}

// WithTx runs fn inside one transaction. All writes issued through the
// passed Database become visible together or not at all; any error rolls
// the whole batch back.
func (d *Database) WithTx(ctx context.Context, fn func(tx *Database) error) error {
	return d.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&Database{db: tx, notifier: d.notifier, logger: d.logger})
	})
}

// GetCategory returns one category row, ErrNotFound when absent.
func (d *Database) GetCategory(ctx context.Context, id int) (*models.Category, error) {
	var category models.Category
	err := d.db.WithContext(ctx).First(&category, "category_id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &category, nil
}
