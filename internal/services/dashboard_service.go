package services

import (
	"context"
	"time"

	"buildcost/internal/analytics"
)

// dashboardService runs the analytics pipeline over a user's snapshot.
type dashboardService struct {
	loader    SnapshotLoader
	suggester *analytics.Suggester
	now       func() time.Time
}

// NewDashboardService creates a new DashboardServicer.
func NewDashboardService(loader SnapshotLoader, suggester *analytics.Suggester) DashboardServicer {
	return &dashboardService{
		loader:    loader,
		suggester: suggester,
		now:       time.Now,
	}
}

// GetDashboard filters the snapshot and aggregates it. Breakdown, chart and
// trend describe the filtered rows; total spent and the month comparison
// always describe the whole record set.
func (s *dashboardService) GetDashboard(ctx context.Context, userID string, criteria analytics.Criteria) (*Dashboard, error) {
	snap, err := s.loader.Load(ctx, userID)
	if err != nil {
		return nil, err
	}

	filtered := analytics.Filter(snap.Expenses, criteria)

	rows := make([]DashboardRow, len(filtered))
	for i := range filtered {
		rows[i] = DashboardRow{Expense: filtered[i], Level: analytics.LevelFor(filtered[i].Amount)}
	}

	return &Dashboard{
		Criteria:        criteria.Raw(),
		Expenses:        rows,
		FilteredSummary: analytics.Summarize(filtered),
		TotalSpent:      analytics.Total(snap.Expenses),
		ExpenseCount:    len(snap.Expenses),
		Breakdown:       nonNil(analytics.Breakdown(filtered)),
		TopCategories:   analytics.TopCategories(filtered),
		MonthComparison: analytics.CompareMonths(snap.Expenses, s.now()),
		MonthlyTrend:    analytics.MonthlyTrend(filtered),
	}, nil
}

// Suggest matches query against the user's categories, vendors and
// expense descriptions.
func (s *dashboardService) Suggest(ctx context.Context, userID, query string) ([]analytics.Suggestion, error) {
	snap, err := s.loader.Load(ctx, userID)
	if err != nil {
		return nil, err
	}

	return s.suggester.Suggest(query, analytics.SuggestSources{
		Categories: AllCategoryNames(snap.CustomCategories),
		Vendors:    snap.Vendors,
		Expenses:   snap.Expenses,
	}), nil
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
