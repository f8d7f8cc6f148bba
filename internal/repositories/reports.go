package repositories

import (
	"context"
	"github.com/maxaizer/lead-dorker/internal/domain/models"
	"gorm.io/gorm"
)

// Reports runs the read-only aggregate queries used by the exporter.
type Reports struct {
	db *gorm.DB
}

func NewReportsRepository(db *gorm.DB) *Reports {
	return &Reports{db: db}
}

func (repo *Reports) Summary(ctx context.Context) (models.SummaryStatistics, error) {
	var summary models.SummaryStatistics
	err := repo.db.WithContext(ctx).Model(&models.SearchResult{}).
		Select("COUNT(*) AS total_results, " +
			"COUNT(DISTINCT query) AS unique_queries, " +
			"COUNT(DISTINCT url) AS unique_urls, " +
			"AVG(score) AS avg_score, " +
			"MIN(created_at) AS first_search, " +
			"MAX(created_at) AS last_search").
		Scan(&summary).Error
	return summary, err
}

func (repo *Reports) TopQueries(ctx context.Context, limit int) ([]models.QueryStatistics, error) {
	var stats []models.QueryStatistics
	err := repo.db.WithContext(ctx).Model(&models.SearchResult{}).
		Select("query, COUNT(*) AS result_count, AVG(score) AS avg_score").
		Group("query").
		Order("result_count DESC, query").
		Limit(limit).
		Scan(&stats).Error
	return stats, err
}

// TopResults returns the highest scored results with a positive score.
func (repo *Reports) TopResults(ctx context.Context, limit int) ([]models.SearchResult, error) {
	var results []models.SearchResult
	err := repo.db.WithContext(ctx).
		Where("score > 0").
		Order("score DESC, id").
		Limit(limit).
		Find(&results).Error
	return results, err
}

func (repo *Reports) Tables(ctx context.Context) ([]models.TableInfo, error) {
	var names []string
	err := repo.db.WithContext(ctx).
		Raw("SELECT name FROM sqlite_master WHERE type = 'table' AND name NOT LIKE 'sqlite_%' ORDER BY name").
		Scan(&names).Error
	if err != nil {
		return nil, err
	}

	tables := make([]models.TableInfo, 0, len(names))
	for _, name := range names {
		var rows int64
		if err = repo.db.WithContext(ctx).Table(name).Count(&rows).Error; err != nil {
			return nil, err
		}
		tables = append(tables, models.TableInfo{Name: name, Rows: rows})
	}
	return tables, nil
}
