package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"gorm.io/gorm"

	"buildcost/internal/cache"
	apperrors "buildcost/internal/errors"
	"buildcost/internal/events"
	"buildcost/internal/logger"
	"buildcost/internal/models"
)

// expenseService handles expense CRUD. Every successful mutation drops the
// user's cached snapshot and publishes an event.
type expenseService struct {
	db        *gorm.DB
	cache     cache.SnapshotCache
	publisher events.Publisher
	now       func() time.Time
}

// NewExpenseService creates a new ExpenseServicer.
func NewExpenseService(db *gorm.DB, snapshots cache.SnapshotCache, publisher events.Publisher) ExpenseServicer {
	if snapshots == nil {
		snapshots = cache.Noop{}
	}
	if publisher == nil {
		publisher = events.Noop{}
	}
	return &expenseService{
		db:        db,
		cache:     snapshots,
		publisher: publisher,
		now:       time.Now,
	}
}

// CreateExpense records a new expense. The date defaults to today.
func (s *expenseService) CreateExpense(ctx context.Context, userID string, in ExpenseInput) (*models.Expense, error) {
	db := s.db.WithContext(ctx)

	in.Category = strings.TrimSpace(in.Category)
	if err := s.validateInput(db, userID, in); err != nil {
		return nil, err
	}

	date := models.NewDate(s.now())
	if in.Date != nil {
		date = *in.Date
	}

	expense := &models.Expense{
		UserID:      userID,
		Amount:      in.Amount,
		Category:    in.Category,
		Description: strings.TrimSpace(in.Description),
		Date:        date,
		VendorID:    in.VendorID,
	}
	if err := db.Create(expense).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	s.changed(ctx, events.ExpenseCreated, userID, expense.ID)
	return s.GetExpenseByID(ctx, userID, expense.ID)
}

// GetUserExpenses lists every expense of a user, newest date first, with the
// vendor resolved.
func (s *expenseService) GetUserExpenses(ctx context.Context, userID string) ([]models.Expense, error) {
	expenses := make([]models.Expense, 0)
	if err := s.db.WithContext(ctx).
		Preload("Vendor").
		Where("user_id = ?", userID).
		Order("date DESC, created_at DESC").
		Find(&expenses).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return expenses, nil
}

// GetExpenseByID retrieves one of the user's expenses.
func (s *expenseService) GetExpenseByID(ctx context.Context, userID, expenseID string) (*models.Expense, error) {
	var expense models.Expense
	if err := s.db.WithContext(ctx).
		Preload("Vendor").
		Where("id = ? AND user_id = ?", expenseID, userID).
		First(&expense).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrExpenseNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &expense, nil
}

// UpdateExpense replaces every editable field. A nil VendorID clears the
// person; a nil Date keeps the stored date.
func (s *expenseService) UpdateExpense(ctx context.Context, userID, expenseID string, in ExpenseInput) (*models.Expense, error) {
	db := s.db.WithContext(ctx)

	expense, err := s.GetExpenseByID(ctx, userID, expenseID)
	if err != nil {
		return nil, err
	}

	in.Category = strings.TrimSpace(in.Category)
	if err := s.validateInput(db, userID, in); err != nil {
		return nil, err
	}

	updates := map[string]interface{}{
		"amount":      in.Amount,
		"category":    in.Category,
		"description": strings.TrimSpace(in.Description),
		"vendor_id":   in.VendorID,
	}
	if in.Date != nil {
		updates["date"] = *in.Date
	}

	if err := db.Model(&models.Expense{}).
		Where("id = ? AND user_id = ?", expense.ID, userID).
		Updates(updates).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	s.changed(ctx, events.ExpenseUpdated, userID, expense.ID)
	return s.GetExpenseByID(ctx, userID, expense.ID)
}

// DeleteExpense permanently removes an expense.
func (s *expenseService) DeleteExpense(ctx context.Context, userID, expenseID string) error {
	result := s.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", expenseID, userID).
		Delete(&models.Expense{})
	if result.Error != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, result.Error)
	}
	if result.RowsAffected == 0 {
		return apperrors.ErrExpenseNotFound
	}

	s.changed(ctx, events.ExpenseDeleted, userID, expenseID)
	return nil
}

func (s *expenseService) validateInput(db *gorm.DB, userID string, in ExpenseInput) error {
	if in.Amount.IsNegative() {
		return apperrors.WithMessage(apperrors.ErrInvalidInput, "amount must not be negative")
	}
	if in.Category == "" {
		return apperrors.WithMessage(apperrors.ErrInvalidInput, "category is required")
	}

	if !models.IsPredefinedCategory(in.Category) {
		var count int64
		if err := db.Model(&models.CustomCategory{}).
			Where("user_id = ? AND name = ?", userID, in.Category).
			Count(&count).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		if count == 0 {
			return apperrors.ErrInvalidCategory
		}
	}

	if in.VendorID != nil {
		var count int64
		if err := db.Model(&models.Vendor{}).
			Where("id = ? AND user_id = ?", *in.VendorID, userID).
			Count(&count).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		if count == 0 {
			return apperrors.ErrVendorNotFound
		}
	}
	return nil
}

// changed invalidates the snapshot and publishes the event. Publish
// failures are logged; the mutation has already been committed.
func (s *expenseService) changed(ctx context.Context, typ events.Type, userID, expenseID string) {
	s.cache.Invalidate(ctx, userID)

	if err := s.publisher.Publish(ctx, events.NewExpenseEvent(typ, userID, expenseID)); err != nil {
		logger.Get().Warnw("failed to publish expense event",
			"error", err,
			"type", typ,
			"user_id", userID,
			"expense_id", expenseID,
		)
	}
}
