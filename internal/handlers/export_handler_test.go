package handlers

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"buildcost/internal/analytics"
	apperrors "buildcost/internal/errors"
	"buildcost/internal/export"
)

type mockExportService struct {
	exportCSVFn  func(ctx context.Context, userID string, criteria analytics.Criteria) ([]byte, error)
	previewPDFFn func(ctx context.Context, userID string, criteria analytics.Criteria) ([]export.Row, error)
	exportPDFFn  func(ctx context.Context, userID string, criteria analytics.Criteria, excluded []string) ([]byte, error)
}

func (m *mockExportService) ExportCSV(ctx context.Context, userID string, criteria analytics.Criteria) ([]byte, error) {
	if m.exportCSVFn != nil {
		return m.exportCSVFn(ctx, userID, criteria)
	}
	return []byte("id,amount,category,description,date,vendor\n"), nil
}

func (m *mockExportService) PreviewPDF(ctx context.Context, userID string, criteria analytics.Criteria) ([]export.Row, error) {
	if m.previewPDFFn != nil {
		return m.previewPDFFn(ctx, userID, criteria)
	}
	return []export.Row{}, nil
}

func (m *mockExportService) ExportPDF(ctx context.Context, userID string, criteria analytics.Criteria, excluded []string) ([]byte, error) {
	if m.exportPDFFn != nil {
		return m.exportPDFFn(ctx, userID, criteria, excluded)
	}
	return []byte("%PDF-1.3"), nil
}

func newTestExportHandler(svc *mockExportService, audit *mockAuditService) *ExportHandler {
	h := NewExportHandler(svc, audit)
	h.now = func() time.Time { return time.Date(2024, 3, 15, 10, 0, 0, 0, time.UTC) }
	return h
}

func setupExportRouter(handler *ExportHandler) *gin.Engine {
	r := gin.New()
	auth := r.Group("/", injectUserID(testUserID))
	auth.GET("/exports/csv", handler.ExportCSV)
	auth.POST("/exports/pdf/preview", handler.PreviewPDF)
	auth.POST("/exports/pdf", handler.ExportPDF)
	return r
}

func TestExportHandler_ExportCSV(t *testing.T) {
	t.Run("downloads with the default filename", func(t *testing.T) {
		var got analytics.Criteria
		svc := &mockExportService{
			exportCSVFn: func(_ context.Context, _ string, c analytics.Criteria) ([]byte, error) {
				got = c
				return []byte("id,amount\ne1,10.00\n"), nil
			},
		}
		audit := &mockAuditService{}
		r := setupExportRouter(newTestExportHandler(svc, audit))

		rec := doRequest(r, "GET", "/exports/csv?category=labour", "")

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
		if got.Category == nil || *got.Category != "labour" {
			t.Errorf("expected labour filter, got %v", got.Category)
		}
		if cd := rec.Header().Get("Content-Disposition"); cd != `attachment; filename="expenses-2024-03-15.csv"` {
			t.Errorf("unexpected Content-Disposition %q", cd)
		}
		if ct := rec.Header().Get("Content-Type"); ct != csvContentType {
			t.Errorf("unexpected Content-Type %q", ct)
		}
		if rec.Body.String() != "id,amount\ne1,10.00\n" {
			t.Errorf("unexpected body %q", rec.Body.String())
		}
		if len(audit.entries) != 1 || audit.entries[0].action != "EXPORT_CSV" {
			t.Errorf("unexpected audit entries: %+v", audit.entries)
		}
	})

	t.Run("returns 409 while another export runs", func(t *testing.T) {
		svc := &mockExportService{
			exportCSVFn: func(context.Context, string, analytics.Criteria) ([]byte, error) {
				return nil, apperrors.ErrExportInProgress
			},
		}
		r := setupExportRouter(newTestExportHandler(svc, &mockAuditService{}))

		rec := doRequest(r, "GET", "/exports/csv", "")

		if rec.Code != http.StatusConflict {
			t.Fatalf("expected 409, got %d", rec.Code)
		}
		assertErrorCode(t, parseJSON(t, rec), "EXPORT_IN_PROGRESS")
	})
}

func TestExportHandler_PreviewPDF(t *testing.T) {
	svc := &mockExportService{
		previewPDFFn: func(_ context.Context, _ string, c analytics.Criteria) ([]export.Row, error) {
			if c.VendorID == nil || *c.VendorID != "v1" {
				t.Errorf("expected vendor filter v1, got %v", c.VendorID)
			}
			return []export.Row{
				{ID: "e1", Included: true, Shaded: false},
				{ID: "e2", Included: true, Shaded: true},
			}, nil
		},
	}
	r := setupExportRouter(newTestExportHandler(svc, &mockAuditService{}))

	rec := doRequest(r, "POST", "/exports/pdf/preview", `{"criteria":{"vendor_id":"v1"}}`)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	rows := parseJSON(t, rec)["rows"].([]interface{})
	if len(rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(rows))
	}
	if rows[1].(map[string]interface{})["shaded"] != true {
		t.Error("expected second row shaded")
	}
}

func TestExportHandler_ExportPDF(t *testing.T) {
	t.Run("passes exclusions and uses the requested filename", func(t *testing.T) {
		var gotExcluded []string
		svc := &mockExportService{
			exportPDFFn: func(_ context.Context, _ string, _ analytics.Criteria, excluded []string) ([]byte, error) {
				gotExcluded = excluded
				return []byte("%PDF-1.3 body"), nil
			},
		}
		r := setupExportRouter(newTestExportHandler(svc, &mockAuditService{}))

		rec := doRequest(r, "POST", "/exports/pdf",
			`{"criteria":{},"excluded_ids":["e2","e3"],"filename":"../site report"}`)

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
		if len(gotExcluded) != 2 || gotExcluded[0] != "e2" {
			t.Errorf("unexpected exclusions %v", gotExcluded)
		}
		if cd := rec.Header().Get("Content-Disposition"); cd != `attachment; filename="site report.pdf"` {
			t.Errorf("unexpected Content-Disposition %q", cd)
		}
		if ct := rec.Header().Get("Content-Type"); ct != pdfContentType {
			t.Errorf("unexpected Content-Type %q", ct)
		}
	})

	t.Run("returns 422 when every row is excluded", func(t *testing.T) {
		svc := &mockExportService{
			exportPDFFn: func(context.Context, string, analytics.Criteria, []string) ([]byte, error) {
				return nil, apperrors.ErrNothingToExport
			},
		}
		audit := &mockAuditService{}
		r := setupExportRouter(newTestExportHandler(svc, audit))

		rec := doRequest(r, "POST", "/exports/pdf", `{"excluded_ids":["e1"]}`)

		if rec.Code != http.StatusUnprocessableEntity {
			t.Fatalf("expected 422, got %d", rec.Code)
		}
		assertErrorCode(t, parseJSON(t, rec), "NOTHING_TO_EXPORT")
		if len(audit.entries) != 0 {
			t.Errorf("expected no audit entries, got %+v", audit.entries)
		}
	})

	t.Run("returns 500 on render failure", func(t *testing.T) {
		svc := &mockExportService{
			exportPDFFn: func(context.Context, string, analytics.Criteria, []string) ([]byte, error) {
				return nil, apperrors.ErrExportFailed
			},
		}
		r := setupExportRouter(newTestExportHandler(svc, &mockAuditService{}))

		rec := doRequest(r, "POST", "/exports/pdf", `{}`)

		if rec.Code != http.StatusInternalServerError {
			t.Fatalf("expected 500, got %d", rec.Code)
		}
		assertErrorCode(t, parseJSON(t, rec), "EXPORT_FAILED")
	})
}

func TestExportHandler_filename(t *testing.T) {
	h := newTestExportHandler(&mockExportService{}, &mockAuditService{})

	tests := []struct {
		requested string
		ext       string
		want      string
	}{
		{"", "csv", "expenses-2024-03-15.csv"},
		{"   ", "pdf", "expenses-2024-03-15.pdf"},
		{"march", "csv", "march.csv"},
		{"march.CSV", "csv", "march.CSV"},
		{"march.csv", "pdf", "march.csv.pdf"},
		{"/etc/passwd", "csv", "passwd.csv"},
		{"a\"b\nc", "csv", "abc.csv"},
		{"..", "csv", "expenses-2024-03-15.csv"},
	}
	for _, tt := range tests {
		t.Run(tt.requested, func(t *testing.T) {
			if got := h.filename(tt.requested, tt.ext); got != tt.want {
				t.Errorf("filename(%q, %q) = %q, want %q", tt.requested, tt.ext, got, tt.want)
			}
		})
	}
}
