package pdfgen

import (
	"fmt"
	"strings"

	"github.com/bobmcallan/vire-intake/internal/common"
	"github.com/bobmcallan/vire-intake/internal/models"
)

// Document is the request body of POST /generate-pdf-json/.
type Document struct {
	ClientName          string           `json:"clientname"`
	ReportTitle         string           `json:"report_title"`
	InvestmentProducts  []ProductRow     `json:"investment_products"`
	AssetAllocation     []AllocationRow  `json:"asset_allocation"`
	FixedIncomeOffering []ProductRow     `json:"fixed_income_offering,omitempty"`
	PMS                 []ProductRow     `json:"pms,omitempty"`
	AIF                 []ProductRow     `json:"aif,omitempty"`
	PrivateEquity       []ProductRow     `json:"private_equity,omitempty"`
	RiskProfile         *RiskProfileInfo `json:"risk_profile,omitempty"`
	Template            string           `json:"template"`
	BlurFunds           bool             `json:"blur_funds"`
}

// ProductRow is one product line in a document section.
type ProductRow struct {
	Name           string  `json:"name"`
	AssetClass     string  `json:"asset_class"`
	ProductType    string  `json:"product_type"`
	Allocation     float64 `json:"allocation"`
	Amount         string  `json:"amount,omitempty"`
	ExpectedReturn string  `json:"expected_return,omitempty"`
	Risk           string  `json:"risk,omitempty"`
	LockIn         string  `json:"lock_in,omitempty"`
}

// AllocationRow is one asset class line.
type AllocationRow struct {
	AssetClass string  `json:"asset_class"`
	Percentage float64 `json:"percentage"`
	Amount     string  `json:"amount"`
}

// RiskProfileInfo summarizes the risk assessment for the cover page.
type RiskProfileInfo struct {
	Score    int    `json:"score"`
	Category string `json:"category"`
}

// Section names a document product section.
type Section string

const (
	SectionInvestmentProducts Section = "investment_products"
	SectionFixedIncome        Section = "fixed_income_offering"
	SectionPMS                Section = "pms"
	SectionAIF                Section = "aif"
	SectionPrivateEquity      Section = "private_equity"
)

// sectionKeywords is checked in order; the first match wins.
var sectionKeywords = []struct {
	section  Section
	keywords []string
}{
	{SectionPMS, []string{"pms", "portfolio management"}},
	{SectionAIF, []string{"aif", "alternative"}},
	{SectionPrivateEquity, []string{"private equity", "pre-ipo", "pre ipo"}},
	{SectionFixedIncome, []string{"bond", "fixed deposit", "fd", "ncd", "debenture"}},
}

// Categorize assigns a product to a document section by keyword matching on
// its name, category and product type.
func Categorize(productType string, p models.ProductRecommendation) Section {
	haystack := " " + strings.ToLower(strings.Join([]string{p.Name, p.Category, productType}, " ")) + " "
	for _, s := range sectionKeywords {
		for _, kw := range s.keywords {
			if containsWord(haystack, kw) {
				return s.section
			}
		}
	}
	return SectionInvestmentProducts
}

// containsWord matches kw at the start of a word, so "fd" matches "fds"
// but not "hdfc".
func containsWord(haystack, kw string) bool {
	for i := 0; ; {
		j := strings.Index(haystack[i:], kw)
		if j < 0 {
			return false
		}
		start := i + j
		if start == 0 || !isWordByte(haystack[start-1]) {
			return true
		}
		i = start + 1
	}
}

func isWordByte(b byte) bool {
	return b >= 'a' && b <= 'z' || b >= '0' && b <= '9'
}

// BuildDocument assembles the render request for a proposal.
func BuildDocument(p *models.InvestmentProposal, template string, blurFunds bool) Document {
	doc := Document{
		ClientName:         p.ClientName,
		ReportTitle:        fmt.Sprintf("Investment Proposal for %s", p.ClientName),
		InvestmentProducts: []ProductRow{},
		AssetAllocation:    []AllocationRow{},
		Template:           template,
		BlurFunds:          blurFunds,
	}
	if p.RiskAssessment != nil {
		doc.RiskProfile = &RiskProfileInfo{Score: p.RiskAssessment.RiskScore, Category: p.RiskAssessment.RiskCategory}
	}

	var size float64
	if a := p.AssetAllocation; a != nil {
		size = a.PortfolioSize
		for _, class := range a.Classes() {
			pct := a.AssetClassAllocation[class]
			doc.AssetAllocation = append(doc.AssetAllocation, AllocationRow{
				AssetClass: class,
				Percentage: pct,
				Amount:     common.FormatINR(size * pct / 100),
			})
		}
	}

	for _, slot := range p.ProductRecommendations.Flatten() {
		row := ProductRow{
			Name:           slot.Product.Name,
			AssetClass:     slot.AssetClass,
			ProductType:    slot.ProductType,
			Allocation:     slot.Allocation,
			ExpectedReturn: slot.Product.ExpectedReturn,
			Risk:           slot.Product.Risk,
			LockIn:         slot.Product.LockIn,
		}
		if size > 0 {
			// The type's share is divided evenly among its products.
			n := len(p.ProductRecommendations.Recommendations[slot.AssetClass][slot.ProductType].Products)
			row.Amount = common.FormatINR(size * slot.Allocation / 100 / float64(n))
		}
		switch Categorize(slot.ProductType, slot.Product) {
		case SectionPMS:
			doc.PMS = append(doc.PMS, row)
		case SectionAIF:
			doc.AIF = append(doc.AIF, row)
		case SectionPrivateEquity:
			doc.PrivateEquity = append(doc.PrivateEquity, row)
		case SectionFixedIncome:
			doc.FixedIncomeOffering = append(doc.FixedIncomeOffering, row)
		default:
			doc.InvestmentProducts = append(doc.InvestmentProducts, row)
		}
	}
	return doc
}
