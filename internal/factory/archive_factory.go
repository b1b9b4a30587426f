package factory

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/mikey/deepguard/internal/adapters/archive"
	"github.com/mikey/deepguard/internal/config"
	"github.com/mikey/deepguard/internal/core"
	"go.uber.org/zap"
)

// ErrUnsupportedArchive is returned for an unknown archive.type
var ErrUnsupportedArchive = errors.New("unsupported archive type")

// ArchiveFactory creates scan archives based on configuration
type ArchiveFactory struct {
	cfg    *config.Config
	logger *zap.Logger
}

// NewArchiveFactory creates a new archive factory
func NewArchiveFactory(cfg *config.Config, logger *zap.Logger) *ArchiveFactory {
	return &ArchiveFactory{
		cfg:    cfg,
		logger: logger,
	}
}

// CreateScanArchive creates a scan archive based on the configuration.
// It returns a nil archive when archiving is disabled.
func (f *ArchiveFactory) CreateScanArchive() (core.ScanArchive, error) {
	archiveCfg, err := f.cfg.GetArchive()
	if err != nil {
		return nil, fmt.Errorf("invalid archive configuration: %w", err)
	}

	logger := f.logger.With(zap.String("archive", archiveCfg.Type))

	switch archiveCfg.Type {
	case "", "none":
		return nil, nil
	case "memory":
		return archive.NewMemoryArchive(logger, archiveCfg.Retention, archiveCfg.CleanupFrequency), nil
	case "sqlite":
		if err := os.MkdirAll(filepath.Dir(archiveCfg.SQLitePath), 0755); err != nil {
			return nil, fmt.Errorf("failed to create SQLite directory: %w", err)
		}
		a, err := archive.NewSQLiteArchive(archiveCfg.SQLitePath, logger, archiveCfg.Retention, archiveCfg.CleanupFrequency)
		if err != nil {
			return nil, err
		}
		return a, nil
	case "mysql":
		a, err := archive.NewMySQLArchive(archiveCfg.MySQLDSN, logger, archiveCfg.Retention, archiveCfg.CleanupFrequency)
		if err != nil {
			return nil, err
		}
		return a, nil
	case "redis":
		a, err := archive.NewRedisArchive(archiveCfg.RedisAddress, archiveCfg.RedisKey, logger, archiveCfg.Retention, archiveCfg.CleanupFrequency)
		if err != nil {
			return nil, err
		}
		return a, nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedArchive, archiveCfg.Type)
	}
}
