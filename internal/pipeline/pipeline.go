// Package pipeline implements the five-stage fallback resolution of a
// shop's controlling person and operating company. Stages run strictly
// in order; each either terminates the run with a routed result or
// falls through to the next. External failures (search, fetch, oracle,
// registry) reduce to absent evidence at the owning stage and never
// abort a run.
package pipeline

import (
	"context"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/leadscope-jp/shop-resolver/internal/config"
	"github.com/leadscope-jp/shop-resolver/internal/model"
	"github.com/leadscope-jp/shop-resolver/internal/registry"
	"github.com/leadscope-jp/shop-resolver/internal/schema"
	"github.com/leadscope-jp/shop-resolver/pkg/fetch"
	"github.com/leadscope-jp/shop-resolver/pkg/oracle"
	"github.com/leadscope-jp/shop-resolver/pkg/search"
)

// Resolver orchestrates the resolution stages for a single shop query.
type Resolver struct {
	cfg       config.PipelineConfig
	search    search.Client
	fetch     fetch.Client
	oracle    oracle.Client
	registry  registry.Client
	validator *CandidateValidator
}

// New creates a Resolver with all dependencies.
func New(
	cfg config.PipelineConfig,
	searchClient search.Client,
	fetchClient fetch.Client,
	oracleClient oracle.Client,
	registryClient registry.Client,
) *Resolver {
	return &Resolver{
		cfg:       cfg,
		search:    searchClient,
		fetch:     fetchClient,
		oracle:    oracleClient,
		registry:  registryClient,
		validator: NewCandidateValidator(cfg.ConfidenceThreshold),
	}
}

// runContext threads shop identity and evidence accumulated by earlier
// stages through the rest of the run.
type runContext struct {
	query model.ShopQuery

	// invoiceNumber survives a stage-2 registry miss and is carried
	// into whichever later route terminates the run.
	invoiceNumber string
}

// Resolve runs the full pipeline for one shop. The only error it
// returns is a boundary rejection of the query itself; every internal
// failure degrades to a less-resolved route instead.
func (r *Resolver) Resolve(ctx context.Context, query model.ShopQuery) (*model.ResolutionResult, error) {
	if err := query.Validate(); err != nil {
		return nil, eris.Wrap(err, "pipeline: invalid query")
	}

	log := zap.L().With(zap.String("shop", query.Name), zap.String("address", query.Address))
	rc := &runContext{query: query}

	// Stage 1: the shop's own representative, straight from the web.
	log.Info("pipeline: direct representative search")
	if candidate := r.directRepresentative(ctx, rc); candidate != nil {
		log.Info("pipeline: representative found on shop page",
			zap.String("representative", candidate.Name),
			zap.String("url", candidate.URL))

		// Opportunistic: grab the invoice number too while the
		// company name is at hand. Best effort, never gates the route.
		rc.invoiceNumber = r.extractInvoiceNumber(ctx, rc, candidate.Company)

		result := rc.newResult(model.RouteShopDirect)
		result.CompanyName = candidate.Company
		result.Representative = candidate.Name
		result.RepresentativeTitle = candidate.Title
		result.SourceURL = candidate.URL
		return result, nil
	}

	// Stage 2: invoice registration number, then the official registry.
	log.Info("pipeline: invoice number search")
	if result := r.resolveViaInvoice(ctx, rc, log); result != nil {
		return result, nil
	}

	// Stage 3: operating company name.
	log.Info("pipeline: company name resolution")
	outcome := r.resolveCompanyName(ctx, rc)
	switch outcome.Kind {
	case schema.CompanyNoMatch:
		log.Info("pipeline: no operating company identified")
		return rc.newResult(model.RouteNoInfo), nil
	case schema.CompanyShopNameEchoed:
		log.Info("pipeline: company name echoes the shop name")
		result := rc.newResult(model.RouteShopNameOnly)
		result.CompanyName = outcome.Name
		return result, nil
	}
	company := outcome.Name

	// Stage 4: is the resolved name a registered entity at all?
	if !IsCorporateName(company) {
		log.Info("pipeline: company name carries no legal-entity marker",
			zap.String("company", company))
		result := rc.newResult(model.RouteNonCorporateCompanyName)
		result.CompanyName = company
		return result, nil
	}

	// Stage 5: the corporation's current representative.
	log.Info("pipeline: corporate representative search", zap.String("company", company))
	rep := r.corporateRepresentative(ctx, company)
	if rep == "" {
		result := rc.newResult(model.RouteCorpWithoutRep)
		result.CompanyName = company
		return result, nil
	}

	result := rc.newResult(model.RouteCorpRepresentative)
	result.CompanyName = company
	result.Representative = rep
	return result, nil
}

func (rc *runContext) newResult(route model.Route) *model.ResolutionResult {
	return &model.ResolutionResult{
		ShopName:      rc.query.Name,
		ShopAddress:   rc.query.Address,
		InvoiceNumber: rc.invoiceNumber,
		Route:         route,
		ResolvedAt:    time.Now().UTC(),
	}
}
