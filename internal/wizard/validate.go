package wizard

import (
	"fmt"
	"math"

	"github.com/bobmcallan/vire-intake/internal/models"
)

const (
	// ClassTolerance is how far asset classes may sum from 100.
	ClassTolerance = 0.1
	// ProductTypeTolerance is how far a class's product types may sum from
	// the class percentage; independent rounding drifts by up to one point.
	ProductTypeTolerance = 1.0
)

// AllocationError describes why an edited allocation was refused.
type AllocationError struct {
	Reason string
}

func (e *AllocationError) Error() string {
	return "invalid allocation: " + e.Reason
}

// ValidateAllocation checks an edited allocation before it replaces the
// current one.
func ValidateAllocation(a *models.AssetAllocation) error {
	if a == nil || len(a.AssetClassAllocation) == 0 {
		return &AllocationError{Reason: "at least one asset class is required"}
	}
	for _, class := range a.Classes() {
		pct := a.AssetClassAllocation[class]
		if pct < 0 || math.IsNaN(pct) {
			return &AllocationError{Reason: fmt.Sprintf("%s percentage %.1f is negative", class, pct)}
		}
	}
	if total := a.ClassTotal(); math.Abs(total-100) > ClassTolerance {
		return &AllocationError{Reason: fmt.Sprintf("asset classes sum to %.1f%%, expected 100%%", total)}
	}
	for class, types := range a.ProductTypeAllocation {
		classPct, ok := a.AssetClassAllocation[class]
		if !ok {
			return &AllocationError{Reason: fmt.Sprintf("product types given for unknown asset class %s", class)}
		}
		if len(types) == 0 {
			continue
		}
		for productType, pct := range types {
			if pct < 0 {
				return &AllocationError{Reason: fmt.Sprintf("%s/%s percentage %.1f is negative", class, productType, pct)}
			}
		}
		if total := a.ProductTypeTotal(class); math.Abs(total-classPct) > ProductTypeTolerance {
			return &AllocationError{Reason: fmt.Sprintf(
				"%s product types sum to %.1f%%, expected %.1f%%", class, total, classPct)}
		}
	}
	if a.PortfolioSize < 0 {
		return &AllocationError{Reason: "portfolio size cannot be negative"}
	}
	return nil
}
