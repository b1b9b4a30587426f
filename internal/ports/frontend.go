package ports

import (
	"context"

	"github.com/mikey/deepguard/internal/core"
)

// Frontend defines the interface for a surface that accepts messages for scanning
type Frontend interface {
	// ProcessMessage scans a message and returns the result
	ProcessMessage(ctx context.Context, msg *core.Message) (*core.ScanResult, error)

	// Start starts the frontend
	Start() error

	// Stop stops the frontend
	Stop() error
}
