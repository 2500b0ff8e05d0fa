// SPDX-License-Identifier: MIT

package braket

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/qbraid/qbraid-go/internal/api"
)

// TasksByTag finds Braket-backed jobs carrying the given tag across the
// provider's region set. Regions are queried concurrently; results are
// merged and ordered by creation time, newest first. An empty regions
// slice means all known regions.
func (p *Provider) TasksByTag(ctx context.Context, key string, values []string, regions []string) ([]api.JobDoc, error) {
	if key == "" {
		return nil, fmt.Errorf("tag key must not be empty")
	}
	if len(regions) == 0 {
		regions = Regions
	}

	var (
		mu   sync.Mutex
		docs []api.JobDoc
	)
	g, ctx := errgroup.WithContext(ctx)
	for _, region := range regions {
		g.Go(func() error {
			found, err := p.session.ListJobs(ctx, api.JobFilter{
				Provider:  ProviderName,
				Region:    region,
				TagKey:    key,
				TagValues: values,
			})
			if err != nil {
				return fmt.Errorf("region %s: %w", region, err)
			}
			mu.Lock()
			docs = append(docs, found...)
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	sort.Slice(docs, func(i, k int) bool {
		if !docs[i].CreatedAt.Equal(docs[k].CreatedAt) {
			return docs[i].CreatedAt.After(docs[k].CreatedAt)
		}
		return docs[i].QbraidJobID < docs[k].QbraidJobID
	})
	return docs, nil
}
