package database

import (
	"context"
	"database/sql"
	"testing"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jknair0/beforeeach"

	"pothole-service/models"
)

var (
	db   *sql.DB
	mock sqlmock.Sqlmock
)

func setUp() {
	db, mock, _ = sqlmock.New()
}

func tearDown() {
	db.Close()
}

var it = beforeeach.Create(setUp, tearDown)

func testReport() *models.Report {
	return &models.Report{
		Type:           "pothole",
		Severity:       "severe",
		Latitude:       12.9721,
		Longitude:      77.5933,
		Timestamp:      "2025-06-01T10:30:00Z",
		TrafficDensity: "high",
		Priority:       6,
	}
}

func TestSaveReport(t *testing.T) {
	it(func() {
		d := &Database{db: db}
		r := testReport()

		mock.ExpectExec(
			"INSERT INTO reports \\(type, severity, latitude, longitude, ts, traffic_density, priority\\) VALUES \\((.+)\\)").
			WithArgs(r.Type, r.Severity, r.Latitude, r.Longitude, r.Timestamp, r.TrafficDensity, r.Priority).
			WillReturnResult(sqlmock.NewResult(42, 1))

		id, err := d.SaveReport(context.Background(), r)
		if err != nil {
			t.Errorf("SaveReport returned error: %v", err)
		}
		if id != 42 {
			t.Errorf("SaveReport id = %d, want 42", id)
		}
		if r.ID != 42 {
			t.Errorf("SaveReport did not fill in report id, got %d", r.ID)
		}
		if err := mock.ExpectationsWereMet(); err != nil {
			t.Errorf("Unmet sqlmock expectations: %v", err)
		}
	})
}

func TestListReports(t *testing.T) {
	it(func() {
		d := &Database{db: db}

		columns := []string{"id", "type", "severity", "latitude", "longitude", "ts", "traffic_density", "priority"}
		mock.ExpectQuery("SELECT id, type, severity, latitude, longitude, ts, traffic_density, priority FROM reports ORDER BY priority DESC").
			WillReturnRows(sqlmock.NewRows(columns).
				AddRow(2, "pothole", "severe", 12.9721, 77.5933, "2025-06-01T10:30:00Z", "high", 6).
				AddRow(1, "pothole", "minor", 12.9000, 77.5000, "2025-06-01T09:00:00Z", "low", 2))

		reports, err := d.ListReports(context.Background())
		if err != nil {
			t.Fatalf("ListReports returned error: %v", err)
		}
		if len(reports) != 2 {
			t.Fatalf("ListReports returned %d reports, want 2", len(reports))
		}
		if reports[0].Priority < reports[1].Priority {
			t.Errorf("Reports not ordered by descending priority: %v", reports)
		}
		if reports[0].ID != 2 || reports[0].Severity != "severe" {
			t.Errorf("Unexpected first report: %+v", reports[0])
		}
	})
}

func TestListReportsEmpty(t *testing.T) {
	it(func() {
		d := &Database{db: db}

		columns := []string{"id", "type", "severity", "latitude", "longitude", "ts", "traffic_density", "priority"}
		mock.ExpectQuery("SELECT (.+) FROM reports ORDER BY priority DESC").
			WillReturnRows(sqlmock.NewRows(columns))

		reports, err := d.ListReports(context.Background())
		if err != nil {
			t.Fatalf("ListReports returned error: %v", err)
		}
		if reports == nil || len(reports) != 0 {
			t.Errorf("ListReports on empty table = %v, want empty non-nil slice", reports)
		}
	})
}

func TestClearReports(t *testing.T) {
	it(func() {
		d := &Database{db: db}

		mock.ExpectExec("DELETE FROM reports").
			WillReturnResult(sqlmock.NewResult(0, 3))

		deleted, err := d.ClearReports(context.Background())
		if err != nil {
			t.Errorf("ClearReports returned error: %v", err)
		}
		if deleted != 3 {
			t.Errorf("ClearReports deleted = %d, want 3", deleted)
		}
	})
}
