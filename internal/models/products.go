package models

import (
	"sort"
	"strings"
)

// ProductRecommendations is the outcome of the fourth wizard step, keyed by
// asset class then product type.
type ProductRecommendations struct {
	Summary         string                                           `json:"summary"`
	Recommendations map[string]map[string]*ProductTypeRecommendation `json:"recommendations"`
}

// ProductTypeRecommendation lists products for one product type and the
// percentage of the portfolio allotted to that type.
type ProductTypeRecommendation struct {
	Products   []ProductRecommendation `json:"products"`
	Allocation float64                 `json:"allocation"`
}

// ProductRecommendation is a single recommended product.
type ProductRecommendation struct {
	Name           string  `json:"name"`
	Description    string  `json:"description,omitempty"`
	ExpectedReturn string  `json:"expectedReturn,omitempty"`
	Risk           string  `json:"risk,omitempty"`
	LockIn         string  `json:"lockIn,omitempty"`
	MinInvestment  float64 `json:"minInvestment,omitempty"`
	Category       string  `json:"category,omitempty"`
	Rating         float64 `json:"rating,omitempty"`
}

// SameProduct reports whether two product names refer to the same product.
func SameProduct(a, b string) bool {
	return strings.EqualFold(strings.TrimSpace(a), strings.TrimSpace(b))
}

// ProductCount returns the total number of products across all types.
func (r *ProductRecommendations) ProductCount() int {
	if r == nil {
		return 0
	}
	n := 0
	for _, types := range r.Recommendations {
		for _, rec := range types {
			if rec != nil {
				n += len(rec.Products)
			}
		}
	}
	return n
}

// ProductSlot is a flattened view of one product with its place in the tree.
type ProductSlot struct {
	AssetClass  string
	ProductType string
	Allocation  float64
	Product     ProductRecommendation
}

// Flatten lists every product in class/type/name order.
func (r *ProductRecommendations) Flatten() []ProductSlot {
	if r == nil {
		return nil
	}
	var out []ProductSlot
	classes := make([]string, 0, len(r.Recommendations))
	for class := range r.Recommendations {
		classes = append(classes, class)
	}
	sort.Strings(classes)
	for _, class := range classes {
		types := make([]string, 0, len(r.Recommendations[class]))
		for t := range r.Recommendations[class] {
			types = append(types, t)
		}
		sort.Strings(types)
		for _, t := range types {
			rec := r.Recommendations[class][t]
			if rec == nil {
				continue
			}
			for _, p := range rec.Products {
				out = append(out, ProductSlot{AssetClass: class, ProductType: t, Allocation: rec.Allocation, Product: p})
			}
		}
	}
	return out
}

// Clone returns a deep copy of the recommendations.
func (r *ProductRecommendations) Clone() *ProductRecommendations {
	if r == nil {
		return nil
	}
	c := &ProductRecommendations{
		Summary:         r.Summary,
		Recommendations: make(map[string]map[string]*ProductTypeRecommendation, len(r.Recommendations)),
	}
	for class, types := range r.Recommendations {
		inner := make(map[string]*ProductTypeRecommendation, len(types))
		for t, rec := range types {
			if rec == nil {
				continue
			}
			inner[t] = &ProductTypeRecommendation{
				Products:   append([]ProductRecommendation(nil), rec.Products...),
				Allocation: rec.Allocation,
			}
		}
		c.Recommendations[class] = inner
	}
	return c
}
