package database

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"time"

	"pothole-service/config"
	"pothole-service/models"

	_ "github.com/go-sql-driver/mysql"
)

// Database handles all database operations
type Database struct {
	db *sql.DB
}

// NewDatabase creates a new database connection
func NewDatabase(cfg *config.Config) (*Database, error) {
	dsn := fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?parseTime=true",
		cfg.DBUser, cfg.DBPassword, cfg.DBHost, cfg.DBPort, cfg.DBName)

	db, err := sql.Open("mysql", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Set connection pool settings
	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	// The database container may still be starting; retry the ping
	// with backoff before giving up.
	deadline := time.Now().Add(60 * time.Second)
	waitInterval := time.Second
	for {
		ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		pingErr := db.PingContext(ctx)
		cancel()
		if pingErr == nil {
			break
		}
		if time.Now().After(deadline) {
			return nil, fmt.Errorf("database ping timeout: %w", pingErr)
		}
		log.Printf("Database connection failed, retrying in %v: %v", waitInterval, pingErr)
		time.Sleep(waitInterval)
		waitInterval *= 2
		if waitInterval > 10*time.Second {
			waitInterval = 10 * time.Second
		}
	}

	log.Printf("Database connected successfully to %s:%s/%s", cfg.DBHost, cfg.DBPort, cfg.DBName)

	return &Database{db: db}, nil
}

// Close closes the database connection
func (d *Database) Close() error {
	return d.db.Close()
}

// EnsureReportsTable creates the reports table if it doesn't exist
func (d *Database) EnsureReportsTable(ctx context.Context) error {
	query := `
		CREATE TABLE IF NOT EXISTS reports (
			id INT NOT NULL AUTO_INCREMENT,
			type VARCHAR(100) NOT NULL,
			severity VARCHAR(50) NOT NULL,
			latitude DOUBLE NOT NULL,
			longitude DOUBLE NOT NULL,
			ts VARCHAR(100) NOT NULL,
			traffic_density VARCHAR(50) NOT NULL,
			priority INT NOT NULL,
			PRIMARY KEY (id),
			INDEX priority_index (priority)
		)
	`

	_, err := d.db.ExecContext(ctx, query)
	if err != nil {
		return fmt.Errorf("failed to create reports table: %w", err)
	}

	log.Println("Reports table ensured")
	return nil
}

// SaveReport inserts a report row and fills in its assigned id.
func (d *Database) SaveReport(ctx context.Context, r *models.Report) (int64, error) {
	result, err := d.db.ExecContext(ctx, `INSERT
		INTO reports (type, severity, latitude, longitude, ts, traffic_density, priority)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		r.Type, r.Severity, r.Latitude, r.Longitude, r.Timestamp, r.TrafficDensity, r.Priority)
	if err != nil {
		return 0, fmt.Errorf("failed to save report: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to get report id: %w", err)
	}
	r.ID = id
	return id, nil
}

// ListReports returns all reports ordered by descending priority.
func (d *Database) ListReports(ctx context.Context) ([]models.Report, error) {
	rows, err := d.db.QueryContext(ctx, `
		SELECT id, type, severity, latitude, longitude, ts, traffic_density, priority
		FROM reports
		ORDER BY priority DESC`)
	if err != nil {
		return nil, fmt.Errorf("failed to list reports: %w", err)
	}
	defer rows.Close()

	reports := make([]models.Report, 0)
	for rows.Next() {
		var r models.Report
		if err := rows.Scan(&r.ID, &r.Type, &r.Severity, &r.Latitude, &r.Longitude,
			&r.Timestamp, &r.TrafficDensity, &r.Priority); err != nil {
			return nil, fmt.Errorf("failed to scan report row: %w", err)
		}
		reports = append(reports, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed reading report rows: %w", err)
	}
	return reports, nil
}

// ClearReports deletes all reports and returns the number deleted.
func (d *Database) ClearReports(ctx context.Context) (int64, error) {
	result, err := d.db.ExecContext(ctx, `DELETE FROM reports`)
	if err != nil {
		return 0, fmt.Errorf("failed to clear reports: %w", err)
	}
	deleted, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get deleted row count: %w", err)
	}
	return deleted, nil
}
