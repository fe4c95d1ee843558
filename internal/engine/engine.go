// Package engine applies the allocation decision rules: benchmark
// computation, reservoir safety, drought policy, and capacity clamping.
package engine

import (
	"errors"
	"fmt"
	"sync"

	"github.com/Saisusmitha27/AquaGuard-AI-Smart-Water-Allocation-Compliance-System/internal/config"
	"github.com/Saisusmitha27/AquaGuard-AI-Smart-Water-Allocation-Compliance-System/internal/model"
	"github.com/Saisusmitha27/AquaGuard-AI-Smart-Water-Allocation-Compliance-System/internal/request"
	"github.com/Saisusmitha27/AquaGuard-AI-Smart-Water-Allocation-Compliance-System/internal/store"
)

// System aggregates the decision engine with the state it mutates. One
// mutex serializes the whole decide-then-write path so the duplicate gate
// and capacity reads always see committed state.
type System struct {
	mu  sync.Mutex
	cfg *config.Config
	st  *store.Store
}

// New creates a System over the given config and store.
func New(cfg *config.Config, st *store.Store) *System {
	return &System{cfg: cfg, st: st}
}

// Store exposes the state store for read-side consumers (stats, reports).
func (s *System) Store() *store.Store {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.st
}

// Config returns the current configuration.
func (s *System) Config() *config.Config {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cfg
}

// SetConfig swaps the configuration, e.g. after a hot-reload.
func (s *System) SetConfig(cfg *config.Config) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cfg = cfg
}

// Reset replaces the allocation state with a fresh table, log, and chain.
// The fresh store carries no history sink, so a reset System is
// in-memory-only: commits after Reset are never persisted. Durable history
// is untouched; clearing it is an explicit CLI action.
func (s *System) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.st = store.New(nil)
}

// Benchmark returns the policy ceiling for a sector before supply
// constraints apply. Drought mode halves every sector's benchmark.
func Benchmark(cfg *config.Config, sector model.Sector, population int, droughtMode bool) float64 {
	var benchmark float64
	switch sector {
	case model.SectorDomestic:
		benchmark = float64(population) * cfg.PerCapitaDomestic
	case model.SectorAgricultural:
		benchmark = cfg.AgriculturalBenchmark
	default:
		benchmark = cfg.IndustrialBenchmark
	}
	if droughtMode {
		benchmark /= 2
	}
	return benchmark
}

// Process runs the gate sequence for one request and, on approval or
// reduction, commits the record through the store. Gate order is a design
// contract: the benchmark clamp runs before the safety and drought gates so
// rejection messages always refer to the clamped amount.
func (s *System) Process(req request.Request, droughtMode bool) (model.AllocationRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !req.Sector.Valid() {
		return model.AllocationRecord{}, &Rejection{Code: RejectInvalidSector, Message: "Invalid sector"}
	}
	if s.st.Exists(req.Region, req.Cycle, req.Sector) {
		return model.AllocationRecord{}, &Rejection{Code: RejectDuplicate, Message: "Duplicate request"}
	}

	region := s.cfg.Region(req.Region)
	allocated := s.st.AllocatedTotal(req.Region, req.Cycle)
	available := region.TotalSupply*region.ReservoirLevel/100 - allocated

	benchmark := Benchmark(s.cfg, req.Sector, req.Population, droughtMode)

	volume := req.Volume
	if volume > benchmark {
		volume = benchmark
	}

	// Domestic use is exempt from the safety and drought gates:
	// life-critical priority.
	if region.ReservoirLevel < s.cfg.ReservoirSafeLevel && req.Sector != model.SectorDomestic {
		return model.AllocationRecord{}, &Rejection{Code: RejectReservoirUnsafe, Message: "Rejected due to reservoir safety"}
	}
	if droughtMode && req.Sector != model.SectorDomestic {
		return model.AllocationRecord{}, &Rejection{Code: RejectDrought, Message: "Rejected due to drought mode"}
	}

	if volume > available {
		volume = available
		if volume < 0 {
			volume = 0
		}
	}
	if volume <= 0 {
		return model.AllocationRecord{}, &Rejection{Code: RejectInsufficientSupply, Message: "Rejected due to insufficient supply"}
	}

	decision := model.DecisionReduced
	if volume == benchmark {
		decision = model.DecisionApproved
	}
	reason := fmt.Sprintf("Allocated %.0f liters", volume)

	return s.st.Write(req.Region, req.Cycle, req.Sector, volume, req.Volume, decision, reason)
}

// ProcessRequest is the surface exposed to the chat/UI collaborator. It
// parses the request text, runs the engine, and returns a human-readable
// message with a status in {approved, reduced, rejected, error}.
func (s *System) ProcessRequest(text string, droughtMode bool) (message, status string) {
	req, err := request.Parse(text)
	if err != nil {
		return err.Error(), model.StatusError
	}

	rec, err := s.Process(req, droughtMode)
	if err != nil {
		var rej *Rejection
		if errors.As(err, &rej) {
			return rej.Message, rej.Status()
		}
		// Fatal write failure: the allocation is not committed.
		return err.Error(), model.StatusError
	}

	return fmt.Sprintf("%s: %s", rec.Decision, rec.Reason), rec.Decision.Status()
}
