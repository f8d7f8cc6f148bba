package repositories

import (
	"fmt"
	"github.com/glebarez/sqlite"
	"github.com/go-gormigrate/gormigrate/v2"
	"github.com/maxaizer/lead-dorker/internal/domain/errs"
	"github.com/maxaizer/lead-dorker/internal/domain/models"
	"github.com/pkg/errors"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
	"os"
	"strings"
)

type DbContext struct {
	DB *gorm.DB
}

func NewDbContext(connectionString string) (*DbContext, error) {
	db, err := gorm.Open(sqlite.Open(connectionString), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Error),
	})
	if err != nil {
		return nil, err
	}

	return &DbContext{DB: db}, nil
}

// OpenExisting opens the store without creating it. A missing file is reported as errs.ErrMissingResource.
func OpenExisting(connectionString string) (*DbContext, error) {
	path := DatabaseFile(connectionString)
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, errors.Wrapf(errs.ErrMissingResource, "database file '%s' not found", path)
		}
		return nil, err
	}
	return NewDbContext(connectionString)
}

// DatabaseFile strips the "file:" scheme and query parameters from a SQLite connection string.
func DatabaseFile(connectionString string) string {
	path := strings.TrimPrefix(connectionString, "file:")
	if i := strings.Index(path, "?"); i >= 0 {
		path = path[:i]
	}
	return path
}

func (c *DbContext) Migrate() error {
	m := gormigrate.New(c.DB, gormigrate.DefaultOptions, []*gormigrate.Migration{
		{
			ID: "001_search_results",
			Migrate: func(tx *gorm.DB) error {
				return tx.AutoMigrate(&models.SearchResult{})
			},
			Rollback: func(tx *gorm.DB) error {
				return tx.Migrator().DropTable("search_results")
			},
		},
		{
			ID: "002_search_sessions",
			Migrate: func(tx *gorm.DB) error {
				return tx.AutoMigrate(&models.SearchSession{})
			},
			Rollback: func(tx *gorm.DB) error {
				return tx.Migrator().DropTable("search_sessions")
			},
		},
		{
			ID: "003_search_results_query_index",
			Migrate: func(tx *gorm.DB) error {
				return tx.Exec("CREATE INDEX IF NOT EXISTS idx_search_results_query ON search_results (query)").Error
			},
			Rollback: func(tx *gorm.DB) error {
				return tx.Exec("DROP INDEX IF EXISTS idx_search_results_query").Error
			},
		},
	})

	if err := m.Migrate(); err != nil {
		return fmt.Errorf("failed to migrate schema: %w", err)
	}
	return nil
}

func (c *DbContext) Close() error {
	db, err := c.DB.DB()
	if err != nil {
		return err
	}

	return db.Close()
}
