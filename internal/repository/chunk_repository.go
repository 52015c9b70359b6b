package repository

import (
	"context"
	"fmt"
	"regexp"

	"gorm.io/gorm"

	"academy-qabot/internal/model"
)

var metadataKeyPattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

type ChunkRepository struct {
	db *gorm.DB
}

func NewChunkRepository(db *gorm.DB) *ChunkRepository {
	return &ChunkRepository{db: db}
}

func (r *ChunkRepository) CreateBatch(ctx context.Context, records []model.ChunkRecord) error {
	if len(records) == 0 {
		return nil
	}
	if err := r.db.WithContext(ctx).CreateInBatches(&records, 100).Error; err != nil {
		return fmt.Errorf("create chunk records failed: %w", err)
	}
	return nil
}

// ListByMetadata returns rows whose metadata matches every key/value pair,
// in insertion order. search_date uses its indexed column.
func (r *ChunkRepository) ListByMetadata(ctx context.Context, filter map[string]string) ([]model.ChunkRecord, error) {
	q := r.db.WithContext(ctx).Model(&model.ChunkRecord{})
	for key, value := range filter {
		if key == model.MetaSearchDate {
			q = q.Where("search_date = ?", value)
			continue
		}
		if !metadataKeyPattern.MatchString(key) {
			return nil, fmt.Errorf("invalid metadata key %q", key)
		}
		q = q.Where("JSON_UNQUOTE(JSON_EXTRACT(metadata, ?)) = ?", "$."+key, value)
	}

	var records []model.ChunkRecord
	if err := q.Order("id ASC").Find(&records).Error; err != nil {
		return nil, fmt.Errorf("list chunk records failed: %w", err)
	}
	return records, nil
}

func (r *ChunkRepository) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := r.db.WithContext(ctx).Model(&model.ChunkRecord{}).Count(&n).Error; err != nil {
		return 0, fmt.Errorf("count chunk records failed: %w", err)
	}
	return n, nil
}
