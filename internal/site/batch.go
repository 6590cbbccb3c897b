package site

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/jonathan/site-generator/internal/config"
)

// BatchError collects the sites of a batch that failed.
type BatchError struct {
	Failures map[string]error
}

func (e *BatchError) Error() string {
	names := make([]string, 0, len(e.Failures))
	for name, err := range e.Failures {
		names = append(names, fmt.Sprintf("%s: %v", name, err))
	}
	sort.Strings(names)
	return fmt.Sprintf("%d site(s) failed: %s", len(e.Failures), strings.Join(names, "; "))
}

// BuildAll generates several sites concurrently with at most limit builds in flight.
// Sites are independent: one failure does not stop the others. Results are
// returned in input order with nil entries for failed sites.
func (b *Builder) BuildAll(ctx context.Context, cfgs []*config.SiteConfig, limit int) ([]*Result, error) {
	if limit < 1 {
		limit = 1
	}

	results := make([]*Result, len(cfgs))
	var mu sync.Mutex
	failures := make(map[string]error)

	// Sites sharing an output directory would overwrite each other
	seen := make(map[string]bool)
	skip := make([]bool, len(cfgs))
	for i, cfg := range cfgs {
		if cfg == nil {
			continue
		}
		slug, err := Slug(cfg.Name)
		if err != nil {
			continue
		}
		if seen[slug] {
			failures[fmt.Sprintf("%s (#%d)", cfg.Name, i+1)] = fmt.Errorf("output directory %q is already used by another site in this batch", slug)
			skip[i] = true
		}
		seen[slug] = true
	}

	var g errgroup.Group
	g.SetLimit(limit)
	for i, cfg := range cfgs {
		if skip[i] {
			continue
		}
		g.Go(func() error {
			res, err := b.Build(ctx, cfg)
			if err != nil {
				name := fmt.Sprintf("#%d", i+1)
				if cfg != nil && cfg.Name != "" {
					name = cfg.Name
				}
				mu.Lock()
				failures[name] = err
				mu.Unlock()
				return nil
			}
			results[i] = res
			return nil
		})
	}
	_ = g.Wait()

	if len(failures) > 0 {
		return results, &BatchError{Failures: failures}
	}
	return results, nil
}
