package di

import (
	"go.uber.org/dig"
	"go.uber.org/zap"

	"github.com/mikey/deepguard/internal/analytics"
	"github.com/mikey/deepguard/internal/classifier"
	"github.com/mikey/deepguard/internal/config"
	"github.com/mikey/deepguard/internal/core"
	"github.com/mikey/deepguard/internal/factory"
	"github.com/mikey/deepguard/internal/history"
	"github.com/mikey/deepguard/internal/lexicon"
	"github.com/mikey/deepguard/internal/logging"
	"github.com/mikey/deepguard/internal/metrics"
	"github.com/mikey/deepguard/internal/ports"
	"github.com/mikey/deepguard/internal/utils"
)

// BuildContainer creates and configures a dependency injection container
func BuildContainer() (*dig.Container, error) {
	container := dig.New()

	// Register configuration
	if err := container.Provide(config.New); err != nil {
		return nil, err
	}

	// Register logger
	if err := container.Provide(logging.InitLogger); err != nil {
		return nil, err
	}

	if err := provideScanning(container); err != nil {
		return nil, err
	}

	// Register metrics collector, nil when disabled
	if err := container.Provide(func(cfg *config.Config, ledger *history.Ledger) *metrics.Collector {
		metricsCfg := cfg.GetMetrics()
		if !metricsCfg.Enabled {
			return nil
		}
		c := metrics.NewCollector(metricsCfg)
		c.RegisterLedgerGauge(metricsCfg.Namespace, ledger.Len)
		return c
	}); err != nil {
		return nil, err
	}

	// Register factories
	if err := container.Provide(factory.NewArchiveFactory); err != nil {
		return nil, err
	}
	if err := container.Provide(factory.NewFrontendFactory); err != nil {
		return nil, err
	}

	// Register scan archive
	if err := container.Provide(func(f *factory.ArchiveFactory) (core.ScanArchive, error) {
		return f.CreateScanArchive()
	}); err != nil {
		return nil, err
	}

	// Register scan service
	if err := container.Provide(func(
		c core.Classifier,
		ledger *history.Ledger,
		archive core.ScanArchive,
		collector *metrics.Collector,
		logger *zap.Logger,
	) *core.ScanService {
		var observer core.ScanObserver
		if collector != nil {
			observer = collector
		}
		return core.NewScanService(c, ledger, archive, observer, logger)
	}); err != nil {
		return nil, err
	}

	// Register frontend
	if err := container.Provide(func(f *factory.FrontendFactory) (ports.Frontend, error) {
		return f.CreateFrontend()
	}); err != nil {
		return nil, err
	}

	return container, nil
}

// provideScanning registers the lexicon, classifier, ledger and aggregator
func provideScanning(container *dig.Container) error {
	if err := container.Provide(utils.NewTextProcessor); err != nil {
		return err
	}
	if err := container.Provide(lexicon.Default); err != nil {
		return err
	}
	if err := container.Provide(func(lex *lexicon.Lexicon) core.Classifier {
		return classifier.NewKeywordClassifier(lex)
	}); err != nil {
		return err
	}
	if err := container.Provide(func(cfg *config.Config, tp *utils.TextProcessor, logger *zap.Logger) *history.Ledger {
		historyCfg := cfg.GetHistory()
		logger.Info("Scan history configured",
			zap.Int("capacity", historyCfg.Capacity),
			zap.Int("preview_length", historyCfg.PreviewLength))
		return history.NewLedger(historyCfg.Capacity, historyCfg.PreviewLength, tp)
	}); err != nil {
		return err
	}
	if err := container.Provide(func(ledger *history.Ledger, lex *lexicon.Lexicon) *analytics.Aggregator {
		return analytics.NewAggregator(ledger, lex)
	}); err != nil {
		return err
	}
	return nil
}
