package tasks

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/mikestefanello/backlite"
	"librismundis/internal/metadata"
)

// EnrichCoversTask runs one cover enrichment sweep over every book missing
// a cover image.
type EnrichCoversTask struct {
	Reason string `json:"reason,omitempty"`
}

// Config returns the queue configuration for cover sweeps. Only one sweep
// may run at a time; overlapping requests just queue behind it.
func (t EnrichCoversTask) Config() backlite.QueueConfig {
	return backlite.QueueConfig{
		Name:        "enrich_covers",
		MaxAttempts: 2,
		Backoff:     time.Minute,
		Timeout:     30 * time.Minute,
		Retention: &backlite.Retention{
			Duration:   24 * time.Hour,
			OnlyFailed: false,
			Data:       &backlite.RetainData{OnlyFailed: true},
		},
	}
}

// EnrichCoversProcessor creates the processor function for cover sweeps.
func EnrichCoversProcessor(enricher *metadata.Enricher) backlite.QueueProcessor[EnrichCoversTask] {
	return func(ctx context.Context, task EnrichCoversTask) error {
		if enricher == nil {
			return fmt.Errorf("enricher not configured")
		}

		result, err := enricher.EnrichCovers(ctx)
		if err != nil {
			return fmt.Errorf("cover sweep: %w", err)
		}

		log.Printf("[TASK] Cover sweep done: %d scanned, %d updated, %d skipped, %d failed",
			result.Scanned, result.Updated, result.Skipped, result.Failed)
		return nil
	}
}

// NewEnrichCoversQueue creates a backlite queue for cover sweeps.
func NewEnrichCoversQueue(enricher *metadata.Enricher) backlite.Queue {
	return backlite.NewQueue(EnrichCoversProcessor(enricher))
}
