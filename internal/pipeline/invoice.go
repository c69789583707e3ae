package pipeline

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/leadscope-jp/shop-resolver/internal/model"
	"github.com/leadscope-jp/shop-resolver/internal/schema"
)

// extractInvoiceNumber searches for the shop's qualified-invoice-issuer
// registration number. A known company name sharpens the query when it
// is distinct from the shop name. Returns "" when nothing lexically
// valid is found.
func (r *Resolver) extractInvoiceNumber(ctx context.Context, rc *runContext, companyName string) string {
	var parts []string
	if companyName != "" && companyName != rc.query.Name {
		parts = append(parts, companyName)
	}
	parts = append(parts, rc.query.Name, rc.query.Address,
		"適格請求書発行事業者", "インボイス", "登録番号")

	pages := r.gatherPages(ctx, strings.Join(parts, " "), r.cfg.InvoiceTopN)
	if len(pages) == 0 {
		return ""
	}

	instruction := schema.InvoiceInstruction(rc.query.Name, rc.query.Address, companyName, schema.FormatEvidence(pages))
	raw, err := r.oracle.Complete(ctx, instruction, "")
	if err != nil {
		zap.L().Warn("pipeline: invoice oracle call failed", zap.Error(err))
		return ""
	}
	return schema.ParseInvoiceNumber(raw)
}

// resolveViaInvoice is stage 2: find an invoice number, then ask the
// corporate-number registry who it belongs to. Returns nil to fall
// through to company-name resolution; a partial registry answer still
// falls through, carrying the invoice number with it.
func (r *Resolver) resolveViaInvoice(ctx context.Context, rc *runContext, log *zap.Logger) *model.ResolutionResult {
	invoice := r.extractInvoiceNumber(ctx, rc, "")
	if invoice == "" {
		log.Info("pipeline: no invoice number found")
		return nil
	}
	rc.invoiceNumber = invoice
	log.Info("pipeline: invoice number found", zap.String("invoice_number", invoice))

	record, err := r.registry.Lookup(ctx, invoice)
	if err != nil {
		log.Warn("pipeline: registry lookup failed, falling through", zap.Error(err))
		return nil
	}
	if record.CompanyName == "" {
		log.Info("pipeline: registry page had no entity name, falling through")
		return nil
	}

	// Registry names the company. Representative too, when present.
	if record.Representative != "" {
		result := rc.newResult(model.RouteInvoiceOfficial)
		result.CompanyName = record.CompanyName
		result.Representative = record.Representative
		result.SourceURL = record.SourceURL
		return result
	}

	// Company known, representative not: try the corporate
	// representative search against the registry name.
	if rep := r.corporateRepresentative(ctx, record.CompanyName); rep != "" {
		result := rc.newResult(model.RouteInvoiceCorpRepresentative)
		result.CompanyName = record.CompanyName
		result.Representative = rep
		result.SourceURL = record.SourceURL
		return result
	}

	result := rc.newResult(model.RouteInvoiceCorpOnly)
	result.CompanyName = record.CompanyName
	result.SourceURL = record.SourceURL
	return result
}
