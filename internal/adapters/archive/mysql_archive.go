package archive

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/go-sql-driver/mysql"
	"github.com/mikey/deepguard/internal/core"
	"go.uber.org/zap"
)

// MySQLArchive is a MySQL implementation of the ScanArchive interface
type MySQLArchive struct {
	db        *sql.DB
	logger    *zap.Logger
	retention time.Duration
	now       func() time.Time
	cleaner   *cleaner
}

// NewMySQLArchive connects to MySQL and ensures the archive table exists
func NewMySQLArchive(dsn string, logger *zap.Logger, retention, cleanupFreq time.Duration) (*MySQLArchive, error) {
	db, err := sql.Open("mysql", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open MySQL database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to MySQL database: %w", err)
	}

	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS scan_archive (
			id CHAR(36) PRIMARY KEY,
			text VARCHAR(512),
			sender VARCHAR(255),
			is_harassment BOOLEAN,
			severity VARCHAR(16),
			threat_level VARCHAR(16),
			risk_score INT,
			scanned_at VARCHAR(32),
			keywords TEXT,
			archived_at BIGINT,
			INDEX idx_archived_at (archived_at)
		)
	`)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create table: %w", err)
	}

	a := &MySQLArchive{
		db:        db,
		logger:    logger,
		retention: retention,
		now:       time.Now,
	}
	a.cleaner = startCleaner(cleanupFreq, logger, func() error {
		return a.Cleanup(context.Background())
	})

	return a, nil
}

// Append stores a scan record
func (a *MySQLArchive) Append(ctx context.Context, record *core.ScanRecord) error {
	row, err := newArchivedRow(record, a.now())
	if err != nil {
		return err
	}

	_, err = a.db.ExecContext(ctx, `
		INSERT INTO scan_archive
			(id, text, sender, is_harassment, severity, threat_level, risk_score, scanned_at, keywords, archived_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON DUPLICATE KEY UPDATE archived_at = VALUES(archived_at)
	`, record.ID, record.Text, record.Sender, record.IsHarassment, string(record.Severity),
		string(record.ThreatLevel), record.RiskScore, record.Timestamp, row.keywords, row.archivedAt)
	if err != nil {
		return fmt.Errorf("failed to insert archive entry: %w", err)
	}

	return nil
}

// Cleanup removes records older than the retention window
func (a *MySQLArchive) Cleanup(ctx context.Context) error {
	cutoff := a.now().Add(-a.retention).Unix()
	result, err := a.db.ExecContext(ctx, `
		DELETE FROM scan_archive
		WHERE archived_at <= ?
	`, cutoff)
	if err != nil {
		return fmt.Errorf("failed to clean up expired entries: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		a.logger.Warn("Failed to get rows affected during cleanup", zap.Error(err))
	} else {
		a.logger.Debug("Cleaned up expired archive entries", zap.Int64("expired_count", rowsAffected))
	}

	return nil
}

// Stop stops the background cleanup task and closes the database connection
func (a *MySQLArchive) Stop() {
	a.cleaner.stop()
	if err := a.db.Close(); err != nil {
		a.logger.Error("Failed to close MySQL database", zap.Error(err))
	}
}
