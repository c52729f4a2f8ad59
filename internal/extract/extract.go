package extract

import (
	"context"
	"fmt"

	"github.com/desertthunder/daysync/internal/models"
)

// Fetcher retrieves the raw embed markup for a playlist ID.
//
// Implementations report network failures and non-2xx statuses as [shared.ErrTransport].
type Fetcher interface {
	FetchEmbed(ctx context.Context, embedID string) ([]byte, error)
}

// Extractor fetches embed markup and scans it into a [models.DaylistSnapshot].
type Extractor struct {
	fetcher Fetcher
	scanner *FieldScanner
}

// NewExtractor creates an Extractor. A nil scanner uses [DefaultPatterns].
func NewExtractor(fetcher Fetcher, scanner *FieldScanner) *Extractor {
	if scanner == nil {
		scanner = NewFieldScanner(DefaultPatterns())
	}
	return &Extractor{fetcher: fetcher, scanner: scanner}
}

// Extract performs one fetch and returns a fresh snapshot. Failures are not retried.
func (e *Extractor) Extract(ctx context.Context, embedID string) (models.DaylistSnapshot, error) {
	payload, err := e.fetcher.FetchEmbed(ctx, embedID)
	if err != nil {
		return models.DaylistSnapshot{}, fmt.Errorf("fetch embed %s: %w", embedID, err)
	}

	snapshot, err := e.scanner.Scan(payload, embedID)
	if err != nil {
		return models.DaylistSnapshot{}, fmt.Errorf("embed %s: %w", embedID, err)
	}

	return snapshot, nil
}
