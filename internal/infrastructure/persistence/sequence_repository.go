package persistence

import (
	"context"
	"time"

	"github.com/customs/backend/internal/domain/declaration"
	"gorm.io/gorm"
)

// GormSequenceRepository implements declaration.SequenceRepository using a
// single-row-per-key counter table. The upsert increments and reads in one
// statement, so concurrent callers serialize on the row lock and never see
// the same value twice.
type GormSequenceRepository struct {
	db *gorm.DB
}

// NewGormSequenceRepository creates a new GormSequenceRepository
func NewGormSequenceRepository(db *gorm.DB) *GormSequenceRepository {
	return &GormSequenceRepository{db: db}
}

// Increment atomically increments the counter for key and returns the new
// value. The first increment of a new key returns 1.
func (r *GormSequenceRepository) Increment(ctx context.Context, key string) (int64, error) {
	var value int64
	now := time.Now()
	err := r.db.WithContext(ctx).Raw(`
		INSERT INTO sequences (key, value, created_at, updated_at)
		VALUES (?, 1, ?, ?)
		ON CONFLICT (key) DO UPDATE SET value = sequences.value + 1, updated_at = EXCLUDED.updated_at
		RETURNING value`,
		key, now, now,
	).Scan(&value).Error
	if err != nil {
		return 0, err
	}
	return value, nil
}

// Current returns the last value handed out for key without incrementing.
// A key that was never incremented reports zero.
func (r *GormSequenceRepository) Current(ctx context.Context, key string) (int64, error) {
	var value int64
	err := r.db.WithContext(ctx).Raw(
		"SELECT COALESCE((SELECT value FROM sequences WHERE key = ?), 0)", key,
	).Scan(&value).Error
	if err != nil {
		return 0, err
	}
	return value, nil
}

// Ensure GormSequenceRepository implements declaration.SequenceRepository
var _ declaration.SequenceRepository = (*GormSequenceRepository)(nil)
