package wizard

import (
	"errors"
	"fmt"
	"strings"

	"github.com/bobmcallan/vire-intake/internal/models"
)

var (
	ErrNilResult          = errors.New("result must not be nil")
	ErrNoRecommendations  = errors.New("no product recommendations to edit")
	ErrDuplicateProduct   = errors.New("a product with this name already exists")
	ErrProductNotFound    = errors.New("product not found")
	ErrProductNameMissing = errors.New("product name is required")
	ErrUnknownAction      = errors.New("unknown action")
)

// Reduce applies a to s and returns the new state. s is never modified; on
// error the returned state equals s.
func Reduce(s State, a Action) (State, error) {
	next := s
	switch act := a.(type) {
	case SetClientProfile:
		if act.Profile == nil {
			return s, fmt.Errorf("client profile: %w", ErrNilResult)
		}
		next.ClientProfile = act.Profile.Clone()

	case SetRiskAssessment:
		if act.Assessment == nil {
			return s, fmt.Errorf("risk assessment: %w", ErrNilResult)
		}
		next.RiskAssessment = act.Assessment.Clone()

	case SetAssetAllocation:
		if act.Allocation == nil {
			return s, fmt.Errorf("asset allocation: %w", ErrNilResult)
		}
		next.AssetAllocation = act.Allocation.Clone()

	case EditAssetAllocation:
		if err := ValidateAllocation(act.Allocation); err != nil {
			return s, err
		}
		next.AssetAllocation = act.Allocation.Clone()

	case SetProductRecommendations:
		if act.Recommendations == nil {
			return s, fmt.Errorf("product recommendations: %w", ErrNilResult)
		}
		next.ProductRecommendations = act.Recommendations.Clone()

	case AddProduct:
		recs, err := addProduct(s, act)
		if err != nil {
			return s, err
		}
		next.ProductRecommendations = recs

	case UpdateProduct:
		recs, err := updateProduct(s, act)
		if err != nil {
			return s, err
		}
		next.ProductRecommendations = recs

	case RemoveProduct:
		recs, err := removeProduct(s, act)
		if err != nil {
			return s, err
		}
		next.ProductRecommendations = recs

	case SetInvestmentProposal:
		if act.Proposal == nil {
			return s, fmt.Errorf("investment proposal: %w", ErrNilResult)
		}
		next.InvestmentProposal = act.Proposal.Clone()

	case SetManualAllocation:
		if act.Allocation == nil {
			return s, fmt.Errorf("manual allocation: %w", ErrNilResult)
		}
		next.ManualAllocation = act.Allocation.Clone()

	case SetStep:
		if err := CheckNavigation(s, act.Step); err != nil {
			return s, err
		}
		next.CurrentStep = act.Step

	case Reset:
		next = InitialState()

	default:
		return s, fmt.Errorf("%w: %T", ErrUnknownAction, a)
	}
	return next, nil
}

func addProduct(s State, act AddProduct) (*models.ProductRecommendations, error) {
	if s.ProductRecommendations == nil {
		return nil, ErrNoRecommendations
	}
	if strings.TrimSpace(act.Product.Name) == "" {
		return nil, ErrProductNameMissing
	}
	recs := s.ProductRecommendations.Clone()
	types := recs.Recommendations[act.AssetClass]
	if types == nil {
		types = make(map[string]*models.ProductTypeRecommendation)
		recs.Recommendations[act.AssetClass] = types
	}
	rec := types[act.ProductType]
	if rec == nil {
		rec = &models.ProductTypeRecommendation{Allocation: productTypeShare(s, act.AssetClass, act.ProductType)}
		types[act.ProductType] = rec
	}
	for _, p := range rec.Products {
		if models.SameProduct(p.Name, act.Product.Name) {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateProduct, act.Product.Name)
		}
	}
	product := act.Product
	product.Name = strings.TrimSpace(product.Name)
	rec.Products = append(rec.Products, product)
	return recs, nil
}

func updateProduct(s State, act UpdateProduct) (*models.ProductRecommendations, error) {
	if s.ProductRecommendations == nil {
		return nil, ErrNoRecommendations
	}
	if strings.TrimSpace(act.Product.Name) == "" {
		return nil, ErrProductNameMissing
	}
	recs := s.ProductRecommendations.Clone()
	rec := recs.Recommendations[act.AssetClass][act.ProductType]
	if rec == nil {
		return nil, fmt.Errorf("%w: %s", ErrProductNotFound, act.Name)
	}
	idx := -1
	for i, p := range rec.Products {
		if models.SameProduct(p.Name, act.Name) {
			idx = i
		} else if models.SameProduct(p.Name, act.Product.Name) {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateProduct, act.Product.Name)
		}
	}
	if idx < 0 {
		return nil, fmt.Errorf("%w: %s", ErrProductNotFound, act.Name)
	}
	product := act.Product
	product.Name = strings.TrimSpace(product.Name)
	rec.Products[idx] = product
	return recs, nil
}

func removeProduct(s State, act RemoveProduct) (*models.ProductRecommendations, error) {
	if s.ProductRecommendations == nil {
		return nil, ErrNoRecommendations
	}
	recs := s.ProductRecommendations.Clone()
	rec := recs.Recommendations[act.AssetClass][act.ProductType]
	if rec == nil {
		return nil, fmt.Errorf("%w: %s", ErrProductNotFound, act.Name)
	}
	kept := rec.Products[:0]
	found := false
	for _, p := range rec.Products {
		if models.SameProduct(p.Name, act.Name) {
			found = true
			continue
		}
		kept = append(kept, p)
	}
	if !found {
		return nil, fmt.Errorf("%w: %s", ErrProductNotFound, act.Name)
	}
	rec.Products = kept
	return recs, nil
}

// productTypeShare looks up a product type's percentage in the current
// allocation, or 0.
func productTypeShare(s State, class, productType string) float64 {
	if s.AssetAllocation == nil {
		return 0
	}
	return s.AssetAllocation.ProductTypeAllocation[class][productType]
}
