package pipeline

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/leadscope-jp/shop-resolver/internal/schema"
)

// corporateRepresentative is stage 5, also reused from stage 2 when the
// registry names a company without its representative. Returns the
// person's name, or "" when nothing survives the contract's strict
// rejection rules.
func (r *Resolver) corporateRepresentative(ctx context.Context, companyName string) string {
	if companyName == "" {
		return ""
	}

	query := fmt.Sprintf("%s 代表取締役 OR 代表者 OR 代表社員 OR 代表理事 会社概要", companyName)
	pages := r.gatherPages(ctx, query, r.cfg.CorpRepTopN)
	if len(pages) == 0 {
		return ""
	}

	evidence := schema.FormatEvidence(pages)
	instruction := schema.CorporateRepInstruction(companyName, evidence)
	raw, err := r.oracle.Complete(ctx, instruction, evidence)
	if err != nil {
		zap.L().Warn("pipeline: corporate representative oracle call failed",
			zap.String("company", companyName), zap.Error(err))
		return ""
	}
	return schema.ParseCorporateRep(raw)
}
