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

// vendorService handles vendor ("person") business logic.
type vendorService struct {
	db    *gorm.DB
	cache cache.SnapshotCache
}

// NewVendorService creates a new VendorServicer.
func NewVendorService(db *gorm.DB, snapshots cache.SnapshotCache) VendorServicer {
	if snapshots == nil {
		snapshots = cache.Noop{}
	}
	return &vendorService{db: db, cache: snapshots}
}

// CreateVendor creates a new vendor
func (s *vendorService) CreateVendor(ctx context.Context, userID, name string, vendorType models.VendorType) (*models.Vendor, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "name is required")
	}
	if !vendorType.Valid() {
		return nil, apperrors.ErrInvalidVendorType
	}

	vendor := &models.Vendor{
		UserID: userID,
		Name:   name,
		Type:   vendorType,
	}
	if err := s.db.WithContext(ctx).Create(vendor).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	s.cache.Invalidate(ctx, userID)
	return vendor, nil
}

// GetUserVendors retrieves a paginated, name-ordered list of vendors.
func (s *vendorService) GetUserVendors(ctx context.Context, userID string, page pagination.PageRequest) (*pagination.PageResponse[models.Vendor], error) {
	page = page.WithDefaults(pagination.VendorPageSize)

	query := s.db.WithContext(ctx).Model(&models.Vendor{}).Where("user_id = ?", userID)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var vendors []models.Vendor
	if err := query.Session(&gorm.Session{}).
		Scopes(page.Scope).
		Order("name ASC").
		Find(&vendors).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	return pagination.NewPageResponse(vendors, page, total), nil
}
