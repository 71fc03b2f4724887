package persistence

import (
	"context"
	"errors"

	"github.com/customs/backend/internal/domain/declaration"
	"github.com/customs/backend/internal/domain/shared"
	"github.com/customs/backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormDeclarationRepository implements declaration.Repository using GORM.
// Duplicate reference numbers surface as shared.ErrReferenceConflict so the
// assessment retry loop can tell a lost race from a hard failure.
type GormDeclarationRepository struct {
	db *gorm.DB
}

// NewGormDeclarationRepository creates a new GormDeclarationRepository
func NewGormDeclarationRepository(db *gorm.DB) *GormDeclarationRepository {
	return &GormDeclarationRepository{db: db}
}

// Save creates a new declaration with its items and status history
func (r *GormDeclarationRepository) Save(ctx context.Context, d *declaration.Declaration) error {
	model := models.DeclarationModelFromDomain(d)
	if err := r.db.WithContext(ctx).Create(model).Error; err != nil {
		if isDuplicateKey(err) {
			return shared.ErrReferenceConflict
		}
		return err
	}
	return nil
}

// Update persists the declaration header atomically with its items and
// status history. Items are replaced wholesale; amendments rewrite the
// full line item set.
func (r *GormDeclarationRepository) Update(ctx context.Context, d *declaration.Declaration) error {
	model := models.DeclarationModelFromDomain(d)
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Omit("Items", "StatusHistory").Save(model)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return shared.ErrNotFound
		}

		if err := tx.Where("declaration_id = ?", model.ID).
			Delete(&models.DeclarationItemModel{}).Error; err != nil {
			return err
		}
		if len(model.Items) > 0 {
			if err := tx.Create(&model.Items).Error; err != nil {
				return err
			}
		}

		if err := tx.Where("declaration_id = ?", model.ID).
			Delete(&models.StatusChangeModel{}).Error; err != nil {
			return err
		}
		if len(model.StatusHistory) > 0 {
			if err := tx.Create(&model.StatusHistory).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		if isDuplicateKey(err) {
			return shared.ErrReferenceConflict
		}
		return err
	}
	return nil
}

// FindByID finds a declaration by ID with items and status history
func (r *GormDeclarationRepository) FindByID(ctx context.Context, id uuid.UUID) (*declaration.Declaration, error) {
	var model models.DeclarationModel
	if err := r.db.WithContext(ctx).
		Preload("Items").
		Preload("StatusHistory").
		First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByCustomsReference finds a declaration by its customs reference number
func (r *GormDeclarationRepository) FindByCustomsReference(ctx context.Context, reference string) (*declaration.Declaration, error) {
	if reference == "" {
		return nil, shared.ErrNotFound
	}
	var model models.DeclarationModel
	if err := r.db.WithContext(ctx).
		Preload("Items").
		Preload("StatusHistory").
		Where("customs_reference_number = ?", reference).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// ExistsWithReference checks whether either reference number is already taken
func (r *GormDeclarationRepository) ExistsWithReference(ctx context.Context, customsReference, assessmentSerial string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.DeclarationModel{}).
		Where("customs_reference_number = ? OR assessment_serial = ?", customsReference, assessmentSerial).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// FindAll returns declarations inside the visibility scope with pagination.
// Items are loaded for each row; list views show per-item tax totals.
func (r *GormDeclarationRepository) FindAll(ctx context.Context, scope declaration.VisibilityScope, filter shared.Filter) ([]declaration.Declaration, int64, error) {
	var declarationModels []models.DeclarationModel
	var total int64

	query := r.db.WithContext(ctx).Model(&models.DeclarationModel{})
	query = r.applyScope(query, scope)
	query = r.applyFilter(query, filter)

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	sortBy := ValidateSortField(filter.OrderBy, DeclarationSortFields, "created_at")
	sortOrder := ValidateSortOrder(filter.OrderDir)
	query = query.Order(sortBy + " " + sortOrder)

	if filter.Page > 0 && filter.PageSize > 0 {
		query = query.Offset((filter.Page - 1) * filter.PageSize).Limit(filter.PageSize)
	}

	if err := query.Preload("Items").Find(&declarationModels).Error; err != nil {
		return nil, 0, err
	}

	declarations := make([]declaration.Declaration, len(declarationModels))
	for i := range declarationModels {
		declarations[i] = *declarationModels[i].ToDomain()
	}
	return declarations, total, nil
}

// applyScope restricts the query to the caller's visibility
func (r *GormDeclarationRepository) applyScope(query *gorm.DB, scope declaration.VisibilityScope) *gorm.DB {
	if scope.CreatedBy != nil {
		query = query.Where("created_by = ?", *scope.CreatedBy)
	}
	if scope.CommandLocationID != nil {
		query = query.Where("command_location_id = ?", *scope.CommandLocationID)
	}
	return query
}

// applyFilter applies filter options to the query
func (r *GormDeclarationRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if filter.Search != "" {
		searchPattern := "%" + filter.Search + "%"
		query = query.Where(
			"customs_reference_number ILIKE ? OR assessment_serial ILIKE ? OR passport_number ILIKE ? OR representative_name ILIKE ?",
			searchPattern, searchPattern, searchPattern, searchPattern,
		)
	}
	if status, ok := filter.Filters["status"]; ok {
		query = query.Where("status = ?", status)
	}
	if locationID, ok := filter.Filters["command_location_id"]; ok {
		query = query.Where("command_location_id = ?", locationID)
	}
	if createdBy, ok := filter.Filters["created_by"]; ok {
		query = query.Where("created_by = ?", createdBy)
	}
	return query
}

// Ensure GormDeclarationRepository implements declaration.Repository
var _ declaration.Repository = (*GormDeclarationRepository)(nil)
