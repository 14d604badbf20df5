package youtube

import (
	"context"
	"sync"

	"github.com/watchtally/watchtally/internal/models"
)

// FetchAll fetches metadata for every batch concurrently and flattens the
// results in batch order. Concurrency is bounded by the configured limit.
// If any single batch fails the whole stage fails with an EnrichmentError;
// there is no partial enrichment.
func (c *Client) FetchAll(ctx context.Context, batches [][]string) ([]models.VideoInfo, error) {
	if len(batches) == 0 {
		return nil, nil
	}

	results := make([][]models.VideoInfo, len(batches))
	errs := make([]error, len(batches))
	sem := make(chan struct{}, c.concurrency)

	var wg sync.WaitGroup
	for i, batch := range batches {
		wg.Add(1)
		go func(i int, ids []string) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()

			infos, err := c.FetchBatch(ctx, ids)
			if err != nil {
				errs[i] = err
				return
			}
			results[i] = infos
		}(i, batch)
	}
	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return nil, &models.EnrichmentError{Reason: "batch lookup failed", Err: err}
		}
	}

	var flattened []models.VideoInfo
	for _, infos := range results {
		flattened = append(flattened, infos...)
	}

	c.logger.WithField("count", len(flattened)).Debug("All metadata batches fetched")

	return flattened, nil
}
