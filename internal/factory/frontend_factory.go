package factory

import (
	"errors"
	"fmt"

	"github.com/mikey/deepguard/internal/adapters/frontend"
	"github.com/mikey/deepguard/internal/analytics"
	"github.com/mikey/deepguard/internal/config"
	"github.com/mikey/deepguard/internal/core"
	"github.com/mikey/deepguard/internal/metrics"
	"github.com/mikey/deepguard/internal/ports"
	"go.uber.org/zap"
)

// ErrUnsupportedFrontend is returned for an unknown server.frontend
var ErrUnsupportedFrontend = errors.New("unsupported frontend type")

// FrontendFactory creates message frontends based on configuration
type FrontendFactory struct {
	cfg         *config.Config
	logger      *zap.Logger
	scanService *core.ScanService
	aggregator  *analytics.Aggregator
	collector   *metrics.Collector
}

// NewFrontendFactory creates a new frontend factory. collector may be nil.
func NewFrontendFactory(
	cfg *config.Config,
	logger *zap.Logger,
	scanService *core.ScanService,
	aggregator *analytics.Aggregator,
	collector *metrics.Collector,
) *FrontendFactory {
	return &FrontendFactory{
		cfg:         cfg,
		logger:      logger,
		scanService: scanService,
		aggregator:  aggregator,
		collector:   collector,
	}
}

// CreateFrontend creates a frontend based on the configuration
func (f *FrontendFactory) CreateFrontend() (ports.Frontend, error) {
	serverCfg, err := f.cfg.GetServer()
	if err != nil {
		return nil, fmt.Errorf("invalid server configuration: %w", err)
	}

	switch serverCfg.Frontend {
	case "http":
		return frontend.NewHTTPFrontend(
			f.scanService,
			f.aggregator,
			f.collector,
			f.logger,
			serverCfg,
			f.cfg.GetMetrics(),
		), nil
	case "cli":
		cli, err := frontend.NewCliFrontend(
			f.scanService,
			f.logger,
			f.cfg.GetBool("cli.verbose"),
		)
		if err != nil {
			return nil, err
		}
		return cli, nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFrontend, serverCfg.Frontend)
	}
}
