package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/mikey/deepguard/internal/core"
	"github.com/mikey/deepguard/internal/di"
	"github.com/mikey/deepguard/internal/ports"
	"go.uber.org/zap"
)

func main() {
	flags := di.ParseFlags()

	container, err := di.BuildCLIContainer(flags)
	if err != nil {
		fmt.Printf("Failed to build dependency container: %v\n", err)
		os.Exit(1)
	}

	if err := container.Invoke(run); err != nil {
		fmt.Printf("Application error: %v\n", err)
		os.Exit(1)
	}
}

func run(flags *di.CLIFlags, logger *zap.Logger, frontend ports.Frontend) error {
	defer logger.Sync()

	text, err := readInput(flags, logger)
	if err != nil {
		return err
	}

	if _, err := frontend.ProcessMessage(context.Background(), &core.Message{
		Text:   text,
		Sender: flags.Sender,
	}); err != nil {
		return fmt.Errorf("failed to scan text: %w", err)
	}
	return nil
}

// readInput takes the text from -text, then -file, then stdin
func readInput(flags *di.CLIFlags, logger *zap.Logger) (string, error) {
	if flags.Text != "" {
		return flags.Text, nil
	}

	var reader io.Reader
	if flags.InputFile != "" {
		file, err := os.Open(flags.InputFile)
		if err != nil {
			return "", fmt.Errorf("failed to open input file %s: %w", flags.InputFile, err)
		}
		defer file.Close()
		reader = file
		logger.Info("Reading text from file", zap.String("file", flags.InputFile))
	} else {
		reader = os.Stdin
		logger.Info("Reading text from stdin")
	}

	b, err := io.ReadAll(reader)
	if err != nil {
		return "", fmt.Errorf("failed to read input: %w", err)
	}
	return string(b), nil
}
