package archive

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/mikey/deepguard/internal/core"
	"go.uber.org/zap"
)

// SQLiteArchive is a SQLite implementation of the ScanArchive interface
type SQLiteArchive struct {
	db        *sql.DB
	logger    *zap.Logger
	retention time.Duration
	now       func() time.Time
	cleaner   *cleaner
}

// NewSQLiteArchive opens (or creates) a SQLite archive at dbPath
func NewSQLiteArchive(dbPath string, logger *zap.Logger, retention, cleanupFreq time.Duration) (*SQLiteArchive, error) {
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open SQLite database: %w", err)
	}

	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS scan_archive (
			id TEXT PRIMARY KEY,
			text TEXT,
			sender TEXT,
			is_harassment BOOLEAN,
			severity TEXT,
			threat_level TEXT,
			risk_score INTEGER,
			scanned_at TEXT,
			keywords TEXT,
			archived_at INTEGER
		)
	`)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create table: %w", err)
	}

	_, err = db.Exec(`
		CREATE INDEX IF NOT EXISTS idx_scan_archive_archived_at ON scan_archive(archived_at)
	`)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create index: %w", err)
	}

	a := &SQLiteArchive{
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
func (a *SQLiteArchive) Append(ctx context.Context, record *core.ScanRecord) error {
	row, err := newArchivedRow(record, a.now())
	if err != nil {
		return err
	}

	_, err = a.db.ExecContext(ctx, `
		INSERT OR REPLACE INTO scan_archive
			(id, text, sender, is_harassment, severity, threat_level, risk_score, scanned_at, keywords, archived_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, record.ID, record.Text, record.Sender, record.IsHarassment, string(record.Severity),
		string(record.ThreatLevel), record.RiskScore, record.Timestamp, row.keywords, row.archivedAt)
	if err != nil {
		return fmt.Errorf("failed to insert archive entry: %w", err)
	}

	return nil
}

// Count returns the number of archived records
func (a *SQLiteArchive) Count(ctx context.Context) (int, error) {
	var n int
	if err := a.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM scan_archive`).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count archive entries: %w", err)
	}
	return n, nil
}

// Cleanup removes records older than the retention window
func (a *SQLiteArchive) Cleanup(ctx context.Context) error {
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
func (a *SQLiteArchive) Stop() {
	a.cleaner.stop()
	if err := a.db.Close(); err != nil {
		a.logger.Error("Failed to close SQLite database", zap.Error(err))
	}
}
