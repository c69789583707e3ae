package pipeline

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/leadscope-jp/shop-resolver/internal/schema"
)

// resolveCompanyName is stage 3: ask the oracle which company operates
// the shop. The contract's three-tier policy comes back as a tagged
// outcome; oracle failure or unparseable output reads as no match.
func (r *Resolver) resolveCompanyName(ctx context.Context, rc *runContext) schema.CompanyOutcome {
	query := fmt.Sprintf("%s %s 運営会社", rc.query.Name, rc.query.Address)
	pages := r.gatherPages(ctx, query, r.cfg.CompanyTopN)
	if len(pages) == 0 {
		return schema.CompanyOutcome{Kind: schema.CompanyNoMatch}
	}

	evidence := schema.FormatEvidence(pages)
	instruction := schema.CompanyInstruction(rc.query.Name, rc.query.Address, evidence)
	raw, err := r.oracle.Complete(ctx, instruction, evidence)
	if err != nil {
		zap.L().Warn("pipeline: company oracle call failed", zap.Error(err))
		return schema.CompanyOutcome{Kind: schema.CompanyNoMatch}
	}
	return schema.ParseCompanyName(raw, rc.query.Name)
}
