package intake

import (
	"bytes"
	"context"
	"fmt"

	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"github.com/bobmcallan/vire-intake/internal/models"
)

var classColors = map[string]string{
	models.AssetClassEquity: "2563eb", // blue-600
	models.AssetClassDebt:   "16a34a", // green-600
}

// AllocationChart renders the session's asset-class split as a PNG pie.
// The generated allocation is used when present, otherwise the manual one.
func (s *Service) AllocationChart(ctx context.Context, id string) ([]byte, error) {
	sess, err := s.session(ctx, id)
	if err != nil {
		return nil, err
	}
	state := sess.store.State()
	allocation := state.AssetAllocation
	if allocation == nil && state.ManualAllocation != nil {
		allocation = state.ManualAllocation.AsAssetAllocation()
	}
	if allocation == nil {
		return nil, ErrNoAllocation
	}
	return RenderAllocationChart(allocation)
}

// RenderAllocationChart draws one slice per asset class with a positive
// share.
func RenderAllocationChart(allocation *models.AssetAllocation) ([]byte, error) {
	var values []chart.Value
	for _, class := range allocation.Classes() {
		pct := allocation.AssetClassAllocation[class]
		if pct <= 0 {
			continue
		}
		style := chart.Style{}
		if hex, ok := classColors[class]; ok {
			style.FillColor = drawing.ColorFromHex(hex)
		}
		values = append(values, chart.Value{
			Label: fmt.Sprintf("%s %.0f%%", className(class), pct),
			Value: pct,
			Style: style,
		})
	}
	if len(values) == 0 {
		return nil, ErrNoAllocation
	}

	pie := chart.PieChart{
		Title:  "Asset Allocation",
		Width:  512,
		Height: 512,
		Values: values,
	}

	var buf bytes.Buffer
	if err := pie.Render(chart.PNG, &buf); err != nil {
		return nil, fmt.Errorf("chart render failed: %w", err)
	}
	return buf.Bytes(), nil
}

func className(class string) string {
	switch class {
	case models.AssetClassEquity:
		return "Equity"
	case models.AssetClassDebt:
		return "Debt"
	}
	return class
}
