package model

import "time"

// Route identifies which fallback stage produced the terminal result.
// The set is closed: every run ends on exactly one of these values.
type Route string

const (
	// RouteShopDirect: stage 1 found the representative on a page about
	// the shop itself.
	RouteShopDirect Route = "shop_direct"
	// RouteInvoiceOfficial: the corporate-number registry itself named
	// the representative.
	RouteInvoiceOfficial Route = "invoice_official"
	// RouteInvoiceCorpRepresentative: registry gave the company, a
	// follow-up corporate search found the representative.
	RouteInvoiceCorpRepresentative Route = "invoice_corp_representative"
	// RouteInvoiceCorpOnly: registry gave the company but no
	// representative could be found for it.
	RouteInvoiceCorpOnly Route = "invoice_corp_only"
	// RouteNoInfo: no stage produced any company-identifying evidence.
	RouteNoInfo Route = "no_info"
	// RouteShopNameOnly: the company-name stage matched the shop but
	// found no distinct operating entity.
	RouteShopNameOnly Route = "shopname_only"
	// RouteNonCorporateCompanyName: the resolved operator looks like a
	// personal trade name, not a registered entity.
	RouteNonCorporateCompanyName Route = "non_corporate_company_name"
	// RouteCorpWithoutRep: an operating entity was resolved but its
	// representative was not.
	RouteCorpWithoutRep Route = "corp_without_rep"
	// RouteCorpRepresentative: operating entity and its representative
	// both resolved from web evidence.
	RouteCorpRepresentative Route = "corp_representative"
)

// Routes lists the full closed set, in pipeline order.
var Routes = []Route{
	RouteShopDirect,
	RouteInvoiceOfficial,
	RouteInvoiceCorpRepresentative,
	RouteInvoiceCorpOnly,
	RouteNoInfo,
	RouteShopNameOnly,
	RouteNonCorporateCompanyName,
	RouteCorpWithoutRep,
	RouteCorpRepresentative,
}

// Valid reports whether r is a member of the closed route set.
func (r Route) Valid() bool {
	for _, known := range Routes {
		if r == known {
			return true
		}
	}
	return false
}

// RepresentativeCandidate is a gated stage-1 finding: the person a page
// presents as the shop's controlling figure, with the page's confidence
// score. Candidates below the acceptance threshold are discarded whole.
type RepresentativeCandidate struct {
	Name       string  `json:"name"`
	Title      string  `json:"title,omitempty"`
	Company    string  `json:"company,omitempty"`
	URL        string  `json:"url,omitempty"`
	Confidence float64 `json:"confidence"`
}

// RegistryRecord is the outcome of a corporate-number registry lookup.
// CompanyName may be empty when the page was fetched but the name field
// was not where expected; that is a partial success, distinct from a
// failed lookup.
type RegistryRecord struct {
	CompanyName        string `json:"company_name,omitempty"`
	RegistrationNumber string `json:"registration_number"`
	Representative     string `json:"representative,omitempty"`
	SourceURL          string `json:"source_url"`
}

// ResolutionResult is the terminal record of a run: best-effort
// identity with provenance. Absent fields stay empty; Route says how
// far resolution got.
type ResolutionResult struct {
	ShopName            string    `json:"shop_name"`
	ShopAddress         string    `json:"shop_address"`
	CompanyName         string    `json:"company_name,omitempty"`
	Representative      string    `json:"representative,omitempty"`
	RepresentativeTitle string    `json:"representative_title,omitempty"`
	SourceURL           string    `json:"source_url,omitempty"`
	InvoiceNumber       string    `json:"invoice_number,omitempty"`
	Route               Route     `json:"route"`
	ResolvedAt          time.Time `json:"resolved_at"`
}

// RunStatus represents the state of a recorded resolution run.
type RunStatus string

const (
	RunStatusQueued   RunStatus = "queued"
	RunStatusRunning  RunStatus = "running"
	RunStatusComplete RunStatus = "complete"
	RunStatusFailed   RunStatus = "failed"
)

// Run is the persisted audit record of one resolution run.
type Run struct {
	ID        string            `json:"id"`
	Query     ShopQuery         `json:"query"`
	Status    RunStatus         `json:"status"`
	Result    *ResolutionResult `json:"result,omitempty"`
	Error     string            `json:"error,omitempty"`
	CreatedAt time.Time         `json:"created_at"`
	UpdatedAt time.Time         `json:"updated_at"`
}
