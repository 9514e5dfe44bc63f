package services

import (
	"context"
	"sync"
	"time"

	"buildcost/internal/analytics"
	apperrors "buildcost/internal/errors"
	"buildcost/internal/export"
	"buildcost/internal/logger"
	"buildcost/internal/models"
	"buildcost/internal/money"
)

// PDFRenderer renders the selected expenses as a PDF document.
type PDFRenderer interface {
	Render(ctx context.Context, expenses []models.Expense) ([]byte, error)
}

// exportService renders the user's filtered expenses. A user can run one
// export at a time.
type exportService struct {
	loader    SnapshotLoader
	renderer  PDFRenderer
	formatter *money.Formatter
	timeout   time.Duration

	inFlight sync.Map
}

// NewExportService creates a new ExportServicer. A zero timeout means no
// deadline beyond the caller's.
func NewExportService(loader SnapshotLoader, renderer PDFRenderer, formatter *money.Formatter, timeout time.Duration) ExportServicer {
	return &exportService{
		loader:    loader,
		renderer:  renderer,
		formatter: formatter,
		timeout:   timeout,
	}
}

// ExportCSV renders the filtered expenses. An empty selection yields the
// header row only.
func (s *exportService) ExportCSV(ctx context.Context, userID string, criteria analytics.Criteria) ([]byte, error) {
	release, err := s.acquire(userID)
	if err != nil {
		return nil, err
	}
	defer release()

	expenses, err := s.filtered(ctx, userID, criteria)
	if err != nil {
		return nil, err
	}

	data, err := export.RenderCSV(expenses)
	if err != nil {
		return nil, s.failed("csv", userID, err)
	}
	return data, nil
}

// PreviewPDF returns the rows a PDF export would contain, all included and
// alternately shaded.
func (s *exportService) PreviewPDF(ctx context.Context, userID string, criteria analytics.Criteria) ([]export.Row, error) {
	expenses, err := s.filtered(ctx, userID, criteria)
	if err != nil {
		return nil, err
	}
	return export.BuildRows(expenses, s.formatter), nil
}

// ExportPDF renders the filtered expenses minus the excluded ids.
func (s *exportService) ExportPDF(ctx context.Context, userID string, criteria analytics.Criteria, excluded []string) ([]byte, error) {
	expenses, err := s.filtered(ctx, userID, criteria)
	if err != nil {
		return nil, err
	}

	selected := export.Select(expenses, excluded)
	if len(selected) == 0 {
		return nil, apperrors.ErrNothingToExport
	}

	release, err := s.acquire(userID)
	if err != nil {
		return nil, err
	}
	defer release()

	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	data, err := s.renderer.Render(ctx, selected)
	if err != nil {
		return nil, s.failed("pdf", userID, err)
	}
	return data, nil
}

func (s *exportService) filtered(ctx context.Context, userID string, criteria analytics.Criteria) ([]models.Expense, error) {
	snap, err := s.loader.Load(ctx, userID)
	if err != nil {
		return nil, err
	}
	return analytics.Filter(snap.Expenses, criteria), nil
}

// acquire marks an export as running for userID. The returned func releases
// the mark.
func (s *exportService) acquire(userID string) (func(), error) {
	if _, busy := s.inFlight.LoadOrStore(userID, struct{}{}); busy {
		return nil, apperrors.ErrExportInProgress
	}
	return func() { s.inFlight.Delete(userID) }, nil
}

func (s *exportService) failed(format, userID string, err error) error {
	logger.Get().Errorw("export failed",
		"format", format,
		"user_id", userID,
		"error", err,
	)
	return apperrors.Wrap(apperrors.ErrExportFailed, err)
}
