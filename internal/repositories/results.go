package repositories

import (
	"context"
	"github.com/maxaizer/lead-dorker/internal/domain/models"
	"gorm.io/gorm"
)

type Results struct {
	db *gorm.DB
}

func NewResultsRepository(db *gorm.DB) *Results {
	return &Results{db: db}
}

// Add inserts results in one transaction.
func (repo *Results) Add(ctx context.Context, results []models.SearchResult) error {
	if len(results) == 0 {
		return nil
	}
	return repo.db.WithContext(ctx).Create(&results).Error
}

// GetAll returns every stored result, newest first.
func (repo *Results) GetAll(ctx context.Context) ([]models.SearchResult, error) {
	var results []models.SearchResult
	if err := repo.db.WithContext(ctx).Order("created_at DESC, id DESC").Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (repo *Results) GetByQuery(ctx context.Context, query string) ([]models.SearchResult, error) {
	var results []models.SearchResult
	if err := repo.db.WithContext(ctx).Where("query = ?", query).Order("id").Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}
