package services

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"buildcost/internal/analytics"
	"buildcost/internal/export"
	"buildcost/internal/models"
	"buildcost/internal/money"
	"buildcost/internal/testutil"
)

func newTestExportService(renderer PDFRenderer) ExportServicer {
	return NewExportService(staticLoader(testSnapshot()), renderer, money.NewFormatter("₹", "en-IN"), time.Second)
}

func TestExportCSV(t *testing.T) {
	svc := newTestExportService(nil)

	min := "1000"
	data, err := svc.ExportCSV(context.Background(), "u1", analytics.ParseCriteria(analytics.RawCriteria{MinAmount: min}))
	testutil.AssertNoError(t, err)

	lines := strings.Split(strings.TrimSuffix(string(data), "\n"), "\n")
	if len(lines) != 3 {
		t.Fatalf("expected header + 2 rows, got %q", data)
	}
	if lines[0] != "id,amount,category,description,date,vendor" {
		t.Errorf("unexpected header %q", lines[0])
	}
	if lines[1] != "e4,6000,labour,Masonry,2024-03-10,Ravi" {
		t.Errorf("unexpected first row %q", lines[1])
	}
}

func TestExportCSV_NoMatchesIsHeaderOnly(t *testing.T) {
	svc := newTestExportService(nil)
	search := "nothing matches this"

	data, err := svc.ExportCSV(context.Background(), "u1", analytics.Criteria{Search: &search})
	testutil.AssertNoError(t, err)
	if string(data) != "id,amount,category,description,date,vendor\n" {
		t.Errorf("expected header only, got %q", data)
	}
}

func TestPreviewPDF(t *testing.T) {
	svc := newTestExportService(nil)

	rows, err := svc.PreviewPDF(context.Background(), "u1", analytics.Criteria{})
	testutil.AssertNoError(t, err)

	if len(rows) != 4 {
		t.Fatalf("expected 4 rows, got %d", len(rows))
	}
	if rows[0].Amount != "₹6,000.00" || rows[0].Person != "Ravi (contractor)" {
		t.Errorf("unexpected first row %+v", rows[0])
	}
	for i, r := range rows {
		if !r.Included {
			t.Errorf("row %d should start included", i)
		}
		if r.Shaded != (i%2 == 1) {
			t.Errorf("row %d shading = %v", i, r.Shaded)
		}
	}
}

func TestExportPDF(t *testing.T) {
	t.Run("renders_selected_rows", func(t *testing.T) {
		var rendered []string
		svc := newTestExportService(&mockPDFRenderer{RenderFn: func(_ context.Context, expenses []models.Expense) ([]byte, error) {
			for _, e := range expenses {
				rendered = append(rendered, e.ID)
			}
			return []byte("%PDF-1.3"), nil
		}})

		data, err := svc.ExportPDF(context.Background(), "u1", analytics.Criteria{}, []string{"e3", "e1"})
		testutil.AssertNoError(t, err)

		if !bytes.HasPrefix(data, []byte("%PDF")) {
			t.Errorf("unexpected output %q", data)
		}
		if strings.Join(rendered, ",") != "e4,e2" {
			t.Errorf("expected e4,e2 to be rendered, got %v", rendered)
		}
	})

	t.Run("nothing_selected", func(t *testing.T) {
		called := false
		svc := newTestExportService(&mockPDFRenderer{RenderFn: func(context.Context, []models.Expense) ([]byte, error) {
			called = true
			return nil, nil
		}})

		_, err := svc.ExportPDF(context.Background(), "u1", analytics.Criteria{}, []string{"e1", "e2", "e3", "e4"})
		testutil.AssertAppError(t, err, "NOTHING_TO_EXPORT")
		if called {
			t.Error("renderer should not run for an empty selection")
		}
	})

	t.Run("render_failure", func(t *testing.T) {
		svc := newTestExportService(&mockPDFRenderer{RenderFn: func(context.Context, []models.Expense) ([]byte, error) {
			return nil, errors.New("font fetch failed")
		}})

		data, err := svc.ExportPDF(context.Background(), "u1", analytics.Criteria{}, nil)
		testutil.AssertAppError(t, err, "EXPORT_FAILED")
		if data != nil {
			t.Error("expected no partial output")
		}

		// The guard is released after a failure, so a retry runs.
		_, err = svc.ExportPDF(context.Background(), "u1", analytics.Criteria{}, nil)
		testutil.AssertAppError(t, err, "EXPORT_FAILED")
	})

	t.Run("deadline_applied", func(t *testing.T) {
		svc := newTestExportService(&mockPDFRenderer{RenderFn: func(ctx context.Context, _ []models.Expense) ([]byte, error) {
			if _, ok := ctx.Deadline(); !ok {
				return nil, errors.New("expected a deadline")
			}
			return []byte("%PDF"), nil
		}})

		_, err := svc.ExportPDF(context.Background(), "u1", analytics.Criteria{}, nil)
		testutil.AssertNoError(t, err)
	})
}

func TestExportPDF_SingleInFlightPerUser(t *testing.T) {
	started := make(chan struct{})
	release := make(chan struct{})
	svc := newTestExportService(&mockPDFRenderer{RenderFn: func(context.Context, []models.Expense) ([]byte, error) {
		close(started)
		<-release
		return []byte("%PDF"), nil
	}})

	done := make(chan error, 1)
	go func() {
		_, err := svc.ExportPDF(context.Background(), "u1", analytics.Criteria{}, nil)
		done <- err
	}()
	<-started

	_, err := svc.ExportPDF(context.Background(), "u1", analytics.Criteria{}, nil)
	testutil.AssertAppError(t, err, "EXPORT_IN_PROGRESS")

	_, err = svc.ExportCSV(context.Background(), "u1", analytics.Criteria{})
	testutil.AssertAppError(t, err, "EXPORT_IN_PROGRESS")

	// Another user is not blocked.
	_, err = svc.ExportCSV(context.Background(), "u2", analytics.Criteria{})
	testutil.AssertNoError(t, err)

	close(release)
	testutil.AssertNoError(t, <-done)
}

func TestNewExportService_WithRealRenderer(t *testing.T) {
	f := money.NewFormatter("₹", "en-IN")
	svc := NewExportService(staticLoader(testSnapshot()), export.NewPDFRenderer(f, "Rs.", nil), f, 0)

	data, err := svc.ExportPDF(context.Background(), "u1", analytics.Criteria{}, nil)
	testutil.AssertNoError(t, err)
	if !bytes.HasPrefix(data, []byte("%PDF")) {
		t.Error("expected a PDF document")
	}
}
