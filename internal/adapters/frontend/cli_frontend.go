package frontend

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/mikey/deepguard/internal/core"
	"go.uber.org/zap"
)

// CliFrontend implements a command-line interface for harassment scanning
type CliFrontend struct {
	service *core.ScanService
	logger  *zap.Logger
	verbose bool
	out     io.Writer
}

// NewCliFrontend creates a new CLI frontend writing to stdout
func NewCliFrontend(service *core.ScanService, logger *zap.Logger, verbose bool) (*CliFrontend, error) {
	return &CliFrontend{
		service: service,
		logger:  logger,
		verbose: verbose,
		out:     os.Stdout,
	}, nil
}

// SetOutput redirects the report output
func (f *CliFrontend) SetOutput(w io.Writer) {
	f.out = w
}

// ProcessMessage scans a message and prints the results
func (f *CliFrontend) ProcessMessage(ctx context.Context, msg *core.Message) (*core.ScanResult, error) {
	f.logger.Debug("Processing message", zap.String("sender", msg.Sender))

	fmt.Fprintf(f.out, "\n=== Message Summary ===\n")
	if msg.Sender != "" {
		fmt.Fprintf(f.out, "Sender: %s\n", msg.Sender)
	}
	fmt.Fprintf(f.out, "Length: %d characters\n", len([]rune(msg.Text)))

	if f.verbose {
		preview := msg.Text
		if r := []rune(preview); len(r) > 500 {
			preview = string(r[:500]) + "..."
		}
		fmt.Fprintf(f.out, "\nText:\n%s\n", preview)
	}

	startTime := time.Now()
	result := f.service.Scan(ctx, msg)
	duration := time.Since(startTime)

	v := result.Verdict
	fmt.Fprintf(f.out, "\n=== Results ===\n")
	fmt.Fprintf(f.out, "Is harassment: %t\n", v.IsHarassment)
	fmt.Fprintf(f.out, "Toxic score: %.2f\n", v.ToxicScore)
	fmt.Fprintf(f.out, "Risk score: %d\n", v.RiskScore())
	fmt.Fprintf(f.out, "Confidence: %.3f\n", v.Confidence)
	fmt.Fprintf(f.out, "Severity: %s\n", v.Severity)
	fmt.Fprintf(f.out, "Threat level: %s\n", v.ThreatLevel)
	fmt.Fprintf(f.out, "Keywords: %s\n", formatKeywords(v.MatchedKeywords))
	fmt.Fprintf(f.out, "Processing time: %v\n", duration)

	return result, nil
}

// Start is a no-op for the CLI frontend
func (f *CliFrontend) Start() error {
	return nil
}

// Stop is a no-op for the CLI frontend
func (f *CliFrontend) Stop() error {
	return nil
}

func formatKeywords(keywords []string) string {
	if len(keywords) == 0 {
		return "(none)"
	}
	return strings.Join(keywords, ", ")
}
