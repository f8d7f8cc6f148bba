package repositories

import (
	"context"
	"github.com/maxaizer/lead-dorker/internal/domain/models"
	"gorm.io/gorm"
)

type Sessions struct {
	db *gorm.DB
}

func NewSessionsRepository(db *gorm.DB) *Sessions {
	return &Sessions{db: db}
}

func (repo *Sessions) Add(ctx context.Context, session models.SearchSession) error {
	return repo.db.WithContext(ctx).Create(&session).Error
}

// GetAll returns every stored session, newest first.
func (repo *Sessions) GetAll(ctx context.Context) ([]models.SearchSession, error) {
	var sessions []models.SearchSession
	if err := repo.db.WithContext(ctx).Order("created_at DESC, id DESC").Find(&sessions).Error; err != nil {
		return nil, err
	}
	return sessions, nil
}
