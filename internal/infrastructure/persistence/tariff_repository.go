package persistence

import (
	"context"

	"github.com/customs/backend/internal/domain/refdata"
	"github.com/customs/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormTariffRepository implements refdata.TariffRepository using GORM
type GormTariffRepository struct {
	db *gorm.DB
}

// NewGormTariffRepository creates a new GormTariffRepository
func NewGormTariffRepository(db *gorm.DB) *GormTariffRepository {
	return &GormTariffRepository{db: db}
}

// ReplaceAll swaps the entire tariff table in one transaction.
// Imports are whole-file replacements; there is no per-row merge.
func (r *GormTariffRepository) ReplaceAll(ctx context.Context, tariffs []refdata.Tariff) (int64, error) {
	var deleted int64
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Where("1 = 1").Delete(&models.TariffModel{})
		if result.Error != nil {
			return result.Error
		}
		deleted = result.RowsAffected

		if len(tariffs) == 0 {
			return nil
		}
		tariffModels := make([]models.TariffModel, len(tariffs))
		for i := range tariffs {
			tariffModels[i] = *models.TariffModelFromDomain(&tariffs[i])
		}
		return tx.CreateInBatches(&tariffModels, 500).Error
	})
	if err != nil {
		return 0, err
	}
	return deleted, nil
}

// Search returns tariff rows whose CET code or description matches the query
func (r *GormTariffRepository) Search(ctx context.Context, query string) ([]refdata.Tariff, error) {
	var tariffModels []models.TariffModel
	searchPattern := "%" + query + "%"
	if err := r.db.WithContext(ctx).
		Where("cet_code ILIKE ? OR description ILIKE ?", searchPattern, searchPattern).
		Order("cet_code ASC").
		Limit(refdata.SearchLimit).
		Find(&tariffModels).Error; err != nil {
		return nil, err
	}

	tariffs := make([]refdata.Tariff, len(tariffModels))
	for i := range tariffModels {
		tariffs[i] = *tariffModels[i].ToDomain()
	}
	return tariffs, nil
}

// Count returns the number of tariff rows
func (r *GormTariffRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.TariffModel{}).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// Ensure GormTariffRepository implements refdata.TariffRepository
var _ refdata.TariffRepository = (*GormTariffRepository)(nil)
