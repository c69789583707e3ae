package pipeline

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/leadscope-jp/shop-resolver/internal/model"
	"github.com/leadscope-jp/shop-resolver/internal/schema"
)

// directRepresentative is stage 1: look for the shop's own
// representative on pages found for the shop itself. The first page
// judgment that clears the validator wins. Returns nil when nothing
// clears the bar.
func (r *Resolver) directRepresentative(ctx context.Context, rc *runContext) *model.RepresentativeCandidate {
	query := fmt.Sprintf("%s %s 代表 オーナー 店主", rc.query.Name, rc.query.Address)
	pages := r.gatherPages(ctx, query, r.cfg.DirectTopN)
	if len(pages) == 0 {
		return nil
	}

	payload := schema.RepresentativePayload{
		TargetShop: rc.query,
		Pages:      pages,
	}
	raw, err := r.oracle.Complete(ctx, schema.RepresentativeInstruction, payload)
	if err != nil {
		zap.L().Warn("pipeline: representative oracle call failed", zap.Error(err))
		return nil
	}

	resp, ok := schema.ParseRepresentative(raw)
	if !ok {
		zap.L().Warn("pipeline: representative oracle reply unparseable")
		return nil
	}

	for _, page := range resp.Pages {
		if !r.validator.Accept(page) {
			continue
		}
		return &model.RepresentativeCandidate{
			Name:       strings.TrimSpace(page.RepresentativeName),
			Title:      strings.TrimSpace(page.RepresentativeTitle),
			Company:    strings.TrimSpace(page.CompanyName),
			URL:        page.URL,
			Confidence: page.Confidence,
		}
	}
	return nil
}
