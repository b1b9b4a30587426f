package di

import (
	"flag"
	"os"

	"go.uber.org/dig"
	"go.uber.org/zap"

	"github.com/mikey/deepguard/internal/config"
	"github.com/mikey/deepguard/internal/core"
	"github.com/mikey/deepguard/internal/factory"
	"github.com/mikey/deepguard/internal/history"
	"github.com/mikey/deepguard/internal/logging"
	"github.com/mikey/deepguard/internal/metrics"
	"github.com/mikey/deepguard/internal/ports"
)

// CLIFlags contains all command line flags for the CLI application
type CLIFlags struct {
	// Input flags
	Text      string
	InputFile string
	Sender    string

	// Output flags
	Verbose    bool
	JSONLog    bool
	ConfigFile string
}

// ParseFlags parses command line flags and returns a CLIFlags struct
func ParseFlags() *CLIFlags {
	return ParseFlagSet(flag.CommandLine, nil)
}

// ParseFlagSet registers the CLI flags on fs and parses args.
// A nil args slice parses os.Args.
func ParseFlagSet(fs *flag.FlagSet, args []string) *CLIFlags {
	flags := &CLIFlags{}

	fs.StringVar(&flags.Text, "text", "", "Text to scan (overrides -file and stdin)")
	fs.StringVar(&flags.InputFile, "file", "", "Input text file (use stdin if not specified)")
	fs.StringVar(&flags.Sender, "sender", "", "Sender to attach to the scan")
	fs.BoolVar(&flags.Verbose, "verbose", false, "Enable verbose logging and print the scanned text")
	fs.BoolVar(&flags.JSONLog, "json-log", false, "Output logs in JSON format")
	fs.StringVar(&flags.ConfigFile, "config", "", "Path to config file")

	if args == nil {
		args = os.Args[1:]
	}
	fs.Parse(args)
	return flags
}

// BuildCLIContainer creates and configures a dependency injection container for the CLI application
func BuildCLIContainer(flags *CLIFlags) (*dig.Container, error) {
	container := dig.New()

	// Register flags
	if err := container.Provide(func() *CLIFlags { return flags }); err != nil {
		return nil, err
	}

	// Register logger
	if err := container.Provide(func(flags *CLIFlags) (*zap.Logger, error) {
		return logging.InitConsoleLogger(flags.Verbose, flags.JSONLog)
	}); err != nil {
		return nil, err
	}

	// Register configuration
	if err := container.Provide(func(flags *CLIFlags, logger *zap.Logger) (*config.Config, error) {
		return createCLIConfig(flags, logger)
	}); err != nil {
		return nil, err
	}

	if err := provideScanning(container); err != nil {
		return nil, err
	}

	// Register scan service with no archive and no metrics
	if err := container.Provide(func(
		c core.Classifier,
		ledger *history.Ledger,
		logger *zap.Logger,
	) *core.ScanService {
		return core.NewScanService(c, ledger, nil, nil, logger)
	}); err != nil {
		return nil, err
	}

	// Register frontend
	if err := container.Provide(factory.NewFrontendFactory); err != nil {
		return nil, err
	}
	if err := container.Provide(func() *metrics.Collector { return nil }); err != nil {
		return nil, err
	}
	if err := container.Provide(func(f *factory.FrontendFactory) (ports.Frontend, error) {
		return f.CreateFrontend()
	}); err != nil {
		return nil, err
	}

	return container, nil
}

// createCLIConfig loads the config file when one is given and forces the cli frontend
func createCLIConfig(flags *CLIFlags, logger *zap.Logger) (*config.Config, error) {
	v := config.NewEmptyViper()
	if flags.ConfigFile != "" {
		cfg, err := config.NewFromFile(flags.ConfigFile)
		if err != nil {
			return nil, err
		}
		logger.Info("Loaded configuration from file", zap.String("file", cfg.GetViper().ConfigFileUsed()))
		v = cfg.GetViper()
	}

	// Set some cli specific settings
	v.Set("server.frontend", "cli")
	v.Set("cli.verbose", flags.Verbose)
	v.Set("metrics.enabled", false)
	v.Set("archive.type", "none")

	return config.NewFromViper(v), nil
}
