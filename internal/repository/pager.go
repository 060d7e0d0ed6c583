package repository

import (
	"context"

	"github.com/ghost/mediabolt/internal/catalog"
	"github.com/ghost/mediabolt/internal/models"
)

// readFunc pages the local cache view behind a feed.
type readFunc func(ctx context.Context, limit, offset int) ([]models.Media, error)

// Pager is a forward-only cursor over one feed. Next serves from the
// local cache and lets the mediator top the cache up from the network
// when the cache runs dry. A Pager is not safe for concurrent use,
// matching the single-loader contract of the sync engine.
type Pager struct {
	mediator *catalog.Mediator
	read     readFunc
	pageSize int

	offset    int
	started   bool
	exhausted bool
}

func newPager(mediator *catalog.Mediator, read readFunc) *Pager {
	return &Pager{
		mediator: mediator,
		read:     read,
		pageSize: DefaultPageSize,
	}
}

// Label returns the feed's cursor label.
func (p *Pager) Label() string { return p.mediator.Label() }

// Next returns the next page of items. An empty page with a nil error
// means the feed is exhausted: the cache is drained and the network has
// no more pages. Network errors surface only when the cache cannot
// satisfy the page, so a flaky connection degrades to stale results
// rather than failures.
func (p *Pager) Next(ctx context.Context) ([]models.Media, error) {
	if !p.started {
		p.started = true
		action, err := p.mediator.Initialize(ctx)
		if err != nil {
			return nil, err
		}
		if action == catalog.LaunchRefresh {
			if result := p.mediator.Load(ctx, catalog.LoadRefresh); result.Err != nil {
				// Serve whatever the cache has; fail only if it is empty.
				items, readErr := p.read(ctx, p.pageSize, p.offset)
				if readErr != nil || len(items) == 0 {
					return nil, result.Err
				}
				p.exhausted = true
				p.offset += len(items)
				return items, nil
			} else if result.EndOfPagination {
				p.exhausted = true
			}
		}
	}

	items, err := p.read(ctx, p.pageSize, p.offset)
	if err != nil {
		return nil, err
	}

	// Cache ran dry before a full page: append from the network and
	// re-read, until the page fills or the feed ends.
	for len(items) < p.pageSize && !p.exhausted {
		result := p.mediator.Load(ctx, catalog.LoadAppend)
		if result.Err != nil {
			if len(items) > 0 {
				break
			}
			return nil, result.Err
		}
		if result.EndOfPagination {
			p.exhausted = true
		}
		items, err = p.read(ctx, p.pageSize, p.offset)
		if err != nil {
			return nil, err
		}
	}

	p.offset += len(items)
	return items, nil
}
