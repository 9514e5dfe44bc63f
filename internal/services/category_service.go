package services

import (
	"context"
	"strings"

	"gorm.io/gorm"

	"buildcost/internal/cache"
	apperrors "buildcost/internal/errors"
	"buildcost/internal/models"
	"buildcost/internal/pagination"
)

// categoryService handles custom category business logic. Predefined
// categories are fixed and never stored.
type categoryService struct {
	db    *gorm.DB
	cache cache.SnapshotCache
}

// NewCategoryService creates a new CategoryServicer.
func NewCategoryService(db *gorm.DB, snapshots cache.SnapshotCache) CategoryServicer {
	if snapshots == nil {
		snapshots = cache.Noop{}
	}
	return &categoryService{db: db, cache: snapshots}
}

// CreateCustomCategory adds a category name for the user. Names are trimmed,
// unique per user and may not repeat a predefined category.
func (s *categoryService) CreateCustomCategory(ctx context.Context, userID, name string) (*models.CustomCategory, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "category name is required")
	}
	if models.IsPredefinedCategory(name) {
		return nil, apperrors.ErrDuplicateCategory
	}

	db := s.db.WithContext(ctx)

	var count int64
	if err := db.Model(&models.CustomCategory{}).
		Where("user_id = ? AND name = ?", userID, name).
		Count(&count).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if count > 0 {
		return nil, apperrors.ErrDuplicateCategory
	}

	category := &models.CustomCategory{UserID: userID, Name: name}
	if err := db.Create(category).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	s.cache.Invalidate(ctx, userID)
	return category, nil
}

// GetCustomCategories retrieves a paginated list of the user's custom
// categories in creation order.
func (s *categoryService) GetCustomCategories(ctx context.Context, userID string, page pagination.PageRequest) (*pagination.PageResponse[models.CustomCategory], error) {
	page = page.WithDefaults(pagination.CategoryPageSize)

	query := s.db.WithContext(ctx).Model(&models.CustomCategory{}).Where("user_id = ?", userID)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var categories []models.CustomCategory
	if err := query.Session(&gorm.Session{}).
		Scopes(page.Scope).
		Order("created_at ASC").
		Find(&categories).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	return pagination.NewPageResponse(categories, page, total), nil
}

// GetAllCategories returns predefined categories followed by the user's
// custom ones.
func (s *categoryService) GetAllCategories(ctx context.Context, userID string) (*CategoryList, error) {
	custom := make([]models.CustomCategory, 0)
	if err := s.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at ASC").
		Find(&custom).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	return &CategoryList{
		Predefined: models.PredefinedCategories,
		Custom:     custom,
		All:        AllCategoryNames(custom),
	}, nil
}

// AllCategoryNames is the predefined list followed by the custom names.
func AllCategoryNames(custom []models.CustomCategory) []string {
	names := make([]string, 0, len(models.PredefinedCategories)+len(custom))
	names = append(names, models.PredefinedCategories...)
	for _, c := range custom {
		names = append(names, c.Name)
	}
	return names
}
