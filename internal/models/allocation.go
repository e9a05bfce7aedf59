package models

import "sort"

// Asset classes.
const (
	AssetClassEquity = "equity"
	AssetClassDebt   = "debt"
)

// Product types.
const (
	ProductLargeCap        = "Large Cap"
	ProductMidCap          = "Mid Cap"
	ProductSmallCap        = "Small Cap"
	ProductGovernmentBonds = "Government Bonds"
	ProductCorporateBonds  = "Corporate Bonds"
	ProductFixedDeposits   = "Fixed Deposits"
)

// AssetAllocation is the outcome of the third wizard step. Percentages are
// whole-portfolio percentages; product types within a class sum to the
// class percentage.
type AssetAllocation struct {
	PortfolioSize         float64                       `json:"portfolioSize"`
	AssetClassAllocation  map[string]float64            `json:"assetClassAllocation"`
	ProductTypeAllocation map[string]map[string]float64 `json:"productTypeAllocation"`
	AllocationExplanation string                        `json:"allocationExplanation,omitempty"`
}

// ClassTotal sums the asset-class percentages.
func (a *AssetAllocation) ClassTotal() float64 {
	var total float64
	for _, pct := range a.AssetClassAllocation {
		total += pct
	}
	return total
}

// ProductTypeTotal sums the product-type percentages of one class.
func (a *AssetAllocation) ProductTypeTotal(class string) float64 {
	var total float64
	for _, pct := range a.ProductTypeAllocation[class] {
		total += pct
	}
	return total
}

// Classes returns the asset classes in a stable order.
func (a *AssetAllocation) Classes() []string {
	classes := make([]string, 0, len(a.AssetClassAllocation))
	for class := range a.AssetClassAllocation {
		classes = append(classes, class)
	}
	sort.Strings(classes)
	return classes
}

// Clone returns a deep copy of the allocation.
func (a *AssetAllocation) Clone() *AssetAllocation {
	if a == nil {
		return nil
	}
	c := *a
	c.AssetClassAllocation = make(map[string]float64, len(a.AssetClassAllocation))
	for k, v := range a.AssetClassAllocation {
		c.AssetClassAllocation[k] = v
	}
	c.ProductTypeAllocation = make(map[string]map[string]float64, len(a.ProductTypeAllocation))
	for class, types := range a.ProductTypeAllocation {
		inner := make(map[string]float64, len(types))
		for k, v := range types {
			inner[k] = v
		}
		c.ProductTypeAllocation[class] = inner
	}
	return &c
}

// ManualAllocation is the standalone allocation entered on step 6.
type ManualAllocation struct {
	ClientName            string                        `json:"clientName"`
	PortfolioSize         float64                       `json:"portfolioSize"`
	RiskCategory          string                        `json:"riskCategory"`
	AssetClassAllocation  map[string]float64            `json:"assetClassAllocation"`
	ProductTypeAllocation map[string]map[string]float64 `json:"productTypeAllocation"`
	Notes                 string                        `json:"notes,omitempty"`
}

// AsAssetAllocation views the manual entry as an AssetAllocation.
func (m *ManualAllocation) AsAssetAllocation() *AssetAllocation {
	return &AssetAllocation{
		PortfolioSize:         m.PortfolioSize,
		AssetClassAllocation:  m.AssetClassAllocation,
		ProductTypeAllocation: m.ProductTypeAllocation,
		AllocationExplanation: m.Notes,
	}
}

// Clone returns a deep copy of the manual allocation.
func (m *ManualAllocation) Clone() *ManualAllocation {
	if m == nil {
		return nil
	}
	c := *m
	a := m.AsAssetAllocation().Clone()
	c.AssetClassAllocation = a.AssetClassAllocation
	c.ProductTypeAllocation = a.ProductTypeAllocation
	return &c
}
