// Package ingestion reads raw location samples from external sources:
// Takeout-style JSON exports and live WebSocket feeds.
package ingestion

import (
	"context"

	"location-visits/internal/domain"
)

// PointSource provides raw location samples from an external source.
type PointSource interface {
	// Points returns all raw samples the source holds. Samples may be
	// unordered; normalization enforces chronological ordering.
	Points(ctx context.Context) ([]*domain.RawLocation, error)
}

// LiveSource provides a continuous stream of raw location samples.
type LiveSource interface {
	// Subscribe returns a channel of samples. The channel is closed when
	// the context is cancelled or the source shuts down.
	Subscribe(ctx context.Context) (<-chan domain.RawLocation, error)
}
