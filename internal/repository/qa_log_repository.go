package repository

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"academy-qabot/internal/model"
)

type QALogRepository struct {
	db *gorm.DB
}

func NewQALogRepository(db *gorm.DB) *QALogRepository {
	return &QALogRepository{db: db}
}

func (r *QALogRepository) Create(ctx context.Context, entry *model.QALog) error {
	if err := r.db.WithContext(ctx).Create(entry).Error; err != nil {
		return fmt.Errorf("create qa log failed: %w", err)
	}
	return nil
}

// ListRecent returns the newest logs first, optionally for one category.
func (r *QALogRepository) ListRecent(ctx context.Context, category string, limit int) ([]model.QALog, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}

	q := r.db.WithContext(ctx).Order("created_at DESC").Limit(limit)
	if category != "" {
		q = q.Where("category = ?", category)
	}
	var logs []model.QALog
	if err := q.Find(&logs).Error; err != nil {
		return nil, fmt.Errorf("list qa logs failed: %w", err)
	}
	return logs, nil
}
