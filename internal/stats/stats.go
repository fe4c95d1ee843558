// Package stats computes aggregate statistics over the chronological
// allocation log for the status command and the alerting rules.
package stats

import (
	"fmt"
	"sort"
	"strings"

	"github.com/Saisusmitha27/AquaGuard-AI-Smart-Water-Allocation-Compliance-System/internal/model"
)

// Summary is the aggregate view of all committed allocations.
type Summary struct {
	TotalAllocated  float64                  `json:"total_allocated"`
	AvgAllocation   float64                  `json:"avg_allocation"`
	TotalRequests   int                      `json:"total_requests"`
	ApprovalRate    float64                  `json:"approval_rate"`
	SectorBreakdown map[model.Sector]float64 `json:"sector_breakdown"`
	RegionBreakdown map[int]float64          `json:"region_breakdown"`
}

// Compute aggregates the given records. An empty log yields a zero Summary.
func Compute(records []model.AllocationRecord) Summary {
	s := Summary{
		SectorBreakdown: make(map[model.Sector]float64),
		RegionBreakdown: make(map[int]float64),
	}
	if len(records) == 0 {
		return s
	}

	approved := 0
	for _, rec := range records {
		s.TotalAllocated += rec.Allocated
		s.SectorBreakdown[rec.Sector] += rec.Allocated
		s.RegionBreakdown[rec.Region] += rec.Allocated
		if rec.Decision == model.DecisionApproved {
			approved++
		}
	}
	s.TotalRequests = len(records)
	s.AvgAllocation = s.TotalAllocated / float64(len(records))
	s.ApprovalRate = float64(approved) / float64(len(records)) * 100
	return s
}

// Format renders the summary as aligned text for the status command.
func (s Summary) Format() string {
	var b strings.Builder
	fmt.Fprintf(&b, "Total allocated:  %.0f L\n", s.TotalAllocated)
	fmt.Fprintf(&b, "Total requests:   %d\n", s.TotalRequests)
	fmt.Fprintf(&b, "Avg allocation:   %.0f L\n", s.AvgAllocation)
	fmt.Fprintf(&b, "Approval rate:    %.1f%%\n", s.ApprovalRate)

	if len(s.SectorBreakdown) > 0 {
		b.WriteString("By sector:\n")
		sectors := make([]string, 0, len(s.SectorBreakdown))
		for sec := range s.SectorBreakdown {
			sectors = append(sectors, string(sec))
		}
		sort.Strings(sectors)
		for _, sec := range sectors {
			fmt.Fprintf(&b, "  %-13s %.0f L\n", sec, s.SectorBreakdown[model.Sector(sec)])
		}
	}
	if len(s.RegionBreakdown) > 0 {
		b.WriteString("By region:\n")
		regions := make([]int, 0, len(s.RegionBreakdown))
		for r := range s.RegionBreakdown {
			regions = append(regions, r)
		}
		sort.Ints(regions)
		for _, r := range regions {
			fmt.Fprintf(&b, "  region %-6d %.0f L\n", r, s.RegionBreakdown[r])
		}
	}
	return b.String()
}
