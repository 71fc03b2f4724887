package persistence

import (
	"context"

	"github.com/customs/backend/internal/domain/refdata"
	"github.com/customs/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormBankRepository implements refdata.BankRepository using GORM
type GormBankRepository struct {
	db *gorm.DB
}

// NewGormBankRepository creates a new GormBankRepository
func NewGormBankRepository(db *gorm.DB) *GormBankRepository {
	return &GormBankRepository{db: db}
}

// ReplaceAll swaps the entire bank table in one transaction
func (r *GormBankRepository) ReplaceAll(ctx context.Context, banks []refdata.Bank) (int64, error) {
	var deleted int64
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Where("1 = 1").Delete(&models.BankModel{})
		if result.Error != nil {
			return result.Error
		}
		deleted = result.RowsAffected

		if len(banks) == 0 {
			return nil
		}
		bankModels := make([]models.BankModel, len(banks))
		for i := range banks {
			bankModels[i] = *models.BankModelFromDomain(&banks[i])
		}
		return tx.CreateInBatches(&bankModels, 500).Error
	})
	if err != nil {
		return 0, err
	}
	return deleted, nil
}

// Search returns bank rows whose code or name matches the query
func (r *GormBankRepository) Search(ctx context.Context, query string) ([]refdata.Bank, error) {
	var bankModels []models.BankModel
	searchPattern := "%" + query + "%"
	if err := r.db.WithContext(ctx).
		Where("bank_code ILIKE ? OR bank_name ILIKE ?", searchPattern, searchPattern).
		Order("bank_name ASC").
		Limit(refdata.SearchLimit).
		Find(&bankModels).Error; err != nil {
		return nil, err
	}

	banks := make([]refdata.Bank, len(bankModels))
	for i := range bankModels {
		banks[i] = *bankModels[i].ToDomain()
	}
	return banks, nil
}

// Count returns the number of bank rows
func (r *GormBankRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.BankModel{}).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// Ensure GormBankRepository implements refdata.BankRepository
var _ refdata.BankRepository = (*GormBankRepository)(nil)
