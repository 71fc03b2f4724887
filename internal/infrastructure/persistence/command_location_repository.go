package persistence

import (
	"context"
	"errors"
	"strings"

	"github.com/customs/backend/internal/domain/location"
	"github.com/customs/backend/internal/domain/shared"
	"github.com/customs/backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormCommandLocationRepository implements location.Repository using GORM
type GormCommandLocationRepository struct {
	db *gorm.DB
}

// NewGormCommandLocationRepository creates a new GormCommandLocationRepository
func NewGormCommandLocationRepository(db *gorm.DB) *GormCommandLocationRepository {
	return &GormCommandLocationRepository{db: db}
}

// Save creates a new command location
func (r *GormCommandLocationRepository) Save(ctx context.Context, loc *location.CommandLocation) error {
	model := models.CommandLocationModelFromDomain(loc)
	if err := r.db.WithContext(ctx).Create(model).Error; err != nil {
		if isDuplicateKey(err) {
			return shared.ErrAlreadyExists
		}
		return err
	}
	return nil
}

// Update updates an existing command location
func (r *GormCommandLocationRepository) Update(ctx context.Context, loc *location.CommandLocation) error {
	model := models.CommandLocationModelFromDomain(loc)
	result := r.db.WithContext(ctx).Save(model)
	if result.Error != nil {
		if isDuplicateKey(result.Error) {
			return shared.ErrAlreadyExists
		}
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// FindByID finds a command location by ID
func (r *GormCommandLocationRepository) FindByID(ctx context.Context, id uuid.UUID) (*location.CommandLocation, error) {
	var model models.CommandLocationModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByCode finds a command location by its code
func (r *GormCommandLocationRepository) FindByCode(ctx context.Context, code string) (*location.CommandLocation, error) {
	if code == "" {
		return nil, shared.ErrNotFound
	}
	var model models.CommandLocationModel
	if err := r.db.WithContext(ctx).
		Where("code = ?", strings.ToUpper(code)).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindAll returns command locations with pagination
func (r *GormCommandLocationRepository) FindAll(ctx context.Context, filter shared.Filter) ([]location.CommandLocation, int64, error) {
	var locationModels []models.CommandLocationModel
	var total int64

	query := r.db.WithContext(ctx).Model(&models.CommandLocationModel{})
	if filter.Search != "" {
		searchPattern := "%" + filter.Search + "%"
		query = query.Where("name ILIKE ? OR code ILIKE ?", searchPattern, searchPattern)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	sortBy := ValidateSortField(filter.OrderBy, LocationSortFields, "name")
	sortOrder := ValidateSortOrder(filter.OrderDir)
	query = query.Order(sortBy + " " + sortOrder)

	if filter.Page > 0 && filter.PageSize > 0 {
		query = query.Offset((filter.Page - 1) * filter.PageSize).Limit(filter.PageSize)
	}

	if err := query.Find(&locationModels).Error; err != nil {
		return nil, 0, err
	}

	locations := make([]location.CommandLocation, len(locationModels))
	for i := range locationModels {
		locations[i] = *locationModels[i].ToDomain()
	}
	return locations, total, nil
}

// Delete removes a command location
func (r *GormCommandLocationRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&models.CommandLocationModel{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// Ensure GormCommandLocationRepository implements location.Repository
var _ location.Repository = (*GormCommandLocationRepository)(nil)
