package factory

import (
	"path/filepath"
	"testing"

	"github.com/mikey/deepguard/internal/adapters/archive"
	"github.com/mikey/deepguard/internal/adapters/frontend"
	"github.com/mikey/deepguard/internal/analytics"
	"github.com/mikey/deepguard/internal/classifier"
	"github.com/mikey/deepguard/internal/config"
	"github.com/mikey/deepguard/internal/core"
	"github.com/mikey/deepguard/internal/history"
	"github.com/mikey/deepguard/internal/lexicon"
	"github.com/mikey/deepguard/internal/utils"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func newConfig(settings map[string]any) *config.Config {
	v := config.NewEmptyViper()
	for k, val := range settings {
		v.Set(k, val)
	}
	return config.NewFromViper(v)
}

func TestCreateScanArchive(t *testing.T) {
	logger := zaptest.NewLogger(t)

	a, err := NewArchiveFactory(newConfig(nil), logger).CreateScanArchive()
	require.NoError(t, err)
	assert.Nil(t, a)

	a, err = NewArchiveFactory(newConfig(map[string]any{"archive.type": "memory"}), logger).CreateScanArchive()
	require.NoError(t, err)
	require.IsType(t, &archive.MemoryArchive{}, a)
	a.(*archive.MemoryArchive).Stop()

	path := filepath.Join(t.TempDir(), "nested", "archive.db")
	a, err = NewArchiveFactory(newConfig(map[string]any{
		"archive.type":        "sqlite",
		"archive.sqlite_path": path,
	}), logger).CreateScanArchive()
	require.NoError(t, err)
	require.IsType(t, &archive.SQLiteArchive{}, a)
	a.(*archive.SQLiteArchive).Stop()
}

func TestCreateScanArchiveErrors(t *testing.T) {
	logger := zaptest.NewLogger(t)

	_, err := NewArchiveFactory(newConfig(map[string]any{"archive.type": "tape"}), logger).CreateScanArchive()
	assert.ErrorIs(t, err, ErrUnsupportedArchive)

	// A failed connection must not leave a typed nil behind the interface
	a, err := NewArchiveFactory(newConfig(map[string]any{
		"archive.type":          "redis",
		"archive.redis_address": "127.0.0.1:1",
	}), logger).CreateScanArchive()
	assert.Error(t, err)
	assert.True(t, a == nil)
}

func newFrontendFactory(t *testing.T, v *viper.Viper) *FrontendFactory {
	logger := zaptest.NewLogger(t)
	lex := lexicon.Default()
	ledger := history.NewLedger(0, 0, utils.NewTextProcessor(logger))
	service := core.NewScanService(classifier.NewKeywordClassifier(lex), ledger, nil, nil, logger)
	return NewFrontendFactory(config.NewFromViper(v), logger, service, analytics.NewAggregator(ledger, lex), nil)
}

func TestCreateFrontend(t *testing.T) {
	v := config.NewEmptyViper()
	f, err := newFrontendFactory(t, v).CreateFrontend()
	require.NoError(t, err)
	assert.IsType(t, &frontend.HTTPFrontend{}, f)

	v.Set("server.frontend", "cli")
	f, err = newFrontendFactory(t, v).CreateFrontend()
	require.NoError(t, err)
	assert.IsType(t, &frontend.CliFrontend{}, f)

	v.Set("server.frontend", "smtp")
	_, err = newFrontendFactory(t, v).CreateFrontend()
	assert.ErrorIs(t, err, ErrUnsupportedFrontend)
}
