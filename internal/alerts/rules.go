// Package alerts evaluates reservoir alert rules and fans matching events
// out to webhook destinations. Rendering belongs to the UI collaborator;
// this package only computes and delivers.
package alerts

import (
	"fmt"
	"sort"

	"github.com/Saisusmitha27/AquaGuard-AI-Smart-Water-Allocation-Compliance-System/internal/model"
)

// Severity orders alerts from informational to critical.
type Severity string

const (
	SeverityInfo     Severity = "info"
	SeverityWarning  Severity = "warning"
	SeverityCritical Severity = "critical"
)

// Alert is one active condition with a suggested operator action.
type Alert struct {
	Severity Severity `json:"severity"`
	Message  string   `json:"message"`
	Action   string   `json:"action"`
	Region   int      `json:"region,omitempty"`
}

// RegionState is the reservoir fill snapshot the rules evaluate.
type RegionState struct {
	ID    int
	Level float64
}

// recentWindow is how many trailing records the reduction rule inspects.
const recentWindow = 5

// reductionFactor flags requests cut to less than 1/1.5 of what was asked.
const reductionFactor = 1.5

// Evaluate applies the alert rules: CRITICAL for regions below the drought
// threshold, WARNING below the safe level, and INFO for recent allocations
// reduced far below the requested volume. Regions are reported in ID order.
func Evaluate(regions []RegionState, safeLevel, droughtThreshold float64, records []model.AllocationRecord) []Alert {
	sorted := make([]RegionState, len(regions))
	copy(sorted, regions)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].ID < sorted[j].ID })

	var out []Alert
	for _, r := range sorted {
		switch {
		case r.Level < droughtThreshold:
			out = append(out, Alert{
				Severity: SeverityCritical,
				Message:  fmt.Sprintf("Region %d in DROUGHT! Level: %.0f%%", r.ID, r.Level),
				Action:   "Impose strict conservation measures",
				Region:   r.ID,
			})
		case r.Level < safeLevel:
			out = append(out, Alert{
				Severity: SeverityWarning,
				Message:  fmt.Sprintf("Region %d below safe level: %.0f%%", r.ID, r.Level),
				Action:   "Consider voluntary conservation",
				Region:   r.ID,
			})
		}
	}

	start := len(records) - recentWindow
	if start < 0 {
		start = 0
	}
	for _, rec := range records[start:] {
		if rec.Requested > rec.Allocated*reductionFactor {
			out = append(out, Alert{
				Severity: SeverityInfo,
				Message:  fmt.Sprintf("Large reduction in Region %d", rec.Region),
				Action:   "Check infrastructure capacity",
				Region:   rec.Region,
			})
		}
	}

	return out
}
