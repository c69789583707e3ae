package pipeline

import (
	"context"

	"go.uber.org/zap"

	"github.com/leadscope-jp/shop-resolver/internal/model"
)

// gatherPages runs one search query and fetches the linked pages, in
// order. A failed search yields an empty evidence set; individual fetch
// failures are dropped inside FetchAll. Evidence within a stage is
// gathered sequentially, never fanned out.
func (r *Resolver) gatherPages(ctx context.Context, query string, topN int) []model.PageDocument {
	links, err := r.search.Search(ctx, query, topN)
	if err != nil {
		zap.L().Warn("pipeline: search failed, treating as no evidence",
			zap.String("query", query), zap.Error(err))
		return nil
	}
	if len(links) == 0 {
		return nil
	}
	return r.fetch.FetchAll(ctx, links)
}
