package engine

import (
	"errors"
	"sync"
	"testing"

	"github.com/Saisusmitha27/AquaGuard-AI-Smart-Water-Allocation-Compliance-System/internal/config"
	"github.com/Saisusmitha27/AquaGuard-AI-Smart-Water-Allocation-Compliance-System/internal/ledger"
	"github.com/Saisusmitha27/AquaGuard-AI-Smart-Water-Allocation-Compliance-System/internal/model"
	"github.com/Saisusmitha27/AquaGuard-AI-Smart-Water-Allocation-Compliance-System/internal/request"
	"github.com/Saisusmitha27/AquaGuard-AI-Smart-Water-Allocation-Compliance-System/internal/store"
)

type countingSink struct {
	appends int
}

func (c *countingSink) Append(model.AllocationRecord, ledger.Block) error {
	c.appends++
	return nil
}

func newTestSystem() *System {
	return New(config.Default(), store.New(nil))
}

func req(region, population int, sector model.Sector, volume float64, cycle int) request.Request {
	return request.Request{Region: region, Population: population, Sector: sector, Volume: volume, Cycle: cycle}
}

func rejectionCode(t *testing.T, err error) RejectCode {
	t.Helper()
	var rej *Rejection
	if !errors.As(err, &rej) {
		t.Fatalf("expected *Rejection, got %v", err)
	}
	return rej.Code
}

func TestDomesticRequestClampedToBenchmark(t *testing.T) {
	// Region 1: fill 90%, supply 1,000,000. Benchmark = 100 * 1500 = 150,000.
	sys := newTestSystem()
	rec, err := sys.Process(req(1, 100, model.SectorDomestic, 999999, 1), false)
	if err != nil {
		t.Fatalf("process: %v", err)
	}
	if rec.Allocated != 150000 {
		t.Fatalf("expected 150000 allocated, got %v", rec.Allocated)
	}
	if rec.Decision != model.DecisionApproved {
		t.Fatalf("expected Approved, got %s", rec.Decision)
	}
	if rec.Reason != "Allocated 150000 liters" {
		t.Fatalf("unexpected reason %q", rec.Reason)
	}
}

func TestLowReservoirRejectsNonDomestic(t *testing.T) {
	// Region 2 fill 40% is below the safe level of 80.
	sys := newTestSystem()
	_, err := sys.Process(req(2, 0, model.SectorAgricultural, 20000, 1), false)
	if code := rejectionCode(t, err); code != RejectReservoirUnsafe {
		t.Fatalf("expected reservoir rejection, got %s", code)
	}
	if sys.Store().Len() != 0 {
		t.Fatal("rejection must not write a record")
	}
}

func TestDomesticExemptFromSafetyGate(t *testing.T) {
	// Region 2: available = 500000 * 0.4 = 200000 >= benchmark 75000.
	sys := newTestSystem()
	rec, err := sys.Process(req(2, 50, model.SectorDomestic, 500000, 1), false)
	if err != nil {
		t.Fatalf("process: %v", err)
	}
	if rec.Allocated != 75000 || rec.Decision != model.DecisionApproved {
		t.Fatalf("expected 75000 Approved, got %v %s", rec.Allocated, rec.Decision)
	}
}

func TestDuplicateRequestRejected(t *testing.T) {
	sys := newTestSystem()
	if _, err := sys.Process(req(2, 50, model.SectorDomestic, 500000, 1), false); err != nil {
		t.Fatalf("first request: %v", err)
	}
	before := sys.Store().Len()

	_, err := sys.Process(req(2, 50, model.SectorDomestic, 500000, 1), false)
	if code := rejectionCode(t, err); code != RejectDuplicate {
		t.Fatalf("expected duplicate rejection, got %s", code)
	}
	// Volume and population are irrelevant to the duplicate gate.
	_, err = sys.Process(req(2, 9999, model.SectorDomestic, 1, 1), false)
	if code := rejectionCode(t, err); code != RejectDuplicate {
		t.Fatalf("expected duplicate rejection, got %s", code)
	}

	if sys.Store().Len() != before {
		t.Fatal("duplicate must leave table and ledger unchanged")
	}
	if res := sys.Store().Verify(); !res.Valid || res.Blocks != before {
		t.Fatalf("ledger changed on duplicate: %+v", res)
	}
}

func TestInvalidSectorRejected(t *testing.T) {
	sys := newTestSystem()
	_, err := sys.Process(req(1, 10, model.Sector("mining"), 100, 1), false)
	if code := rejectionCode(t, err); code != RejectInvalidSector {
		t.Fatalf("expected invalid sector, got %s", code)
	}
}

func TestDroughtModeRejectsNonDomestic(t *testing.T) {
	sys := newTestSystem()
	_, err := sys.Process(req(1, 0, model.SectorIndustrial, 1000, 1), true)
	if code := rejectionCode(t, err); code != RejectDrought {
		t.Fatalf("expected drought rejection, got %s", code)
	}
}

func TestDroughtModeHalvesDomesticBenchmark(t *testing.T) {
	// Halved benchmark is the comparison baseline: hitting it is Approved.
	sys := newTestSystem()
	rec, err := sys.Process(req(1, 100, model.SectorDomestic, 999999, 1), true)
	if err != nil {
		t.Fatalf("process: %v", err)
	}
	if rec.Allocated != 75000 {
		t.Fatalf("expected halved benchmark 75000, got %v", rec.Allocated)
	}
	if rec.Decision != model.DecisionApproved {
		t.Fatalf("expected Approved at halved benchmark, got %s", rec.Decision)
	}
}

func TestRequestBelowBenchmarkIsReduced(t *testing.T) {
	// Asking for less than the benchmark never gets amplified, and anything
	// below the benchmark is labelled Reduced.
	sys := newTestSystem()
	rec, err := sys.Process(req(1, 100, model.SectorDomestic, 1000, 1), false)
	if err != nil {
		t.Fatalf("process: %v", err)
	}
	if rec.Allocated != 1000 || rec.Decision != model.DecisionReduced {
		t.Fatalf("expected 1000 Reduced, got %v %s", rec.Allocated, rec.Decision)
	}
}

func TestCapacityClampReduces(t *testing.T) {
	cfg := config.Default()
	cfg.Regions[3] = config.RegionConfig{ReservoirLevel: 100, TotalSupply: 3000}
	sys := New(cfg, store.New(nil))

	rec, err := sys.Process(req(3, 0, model.SectorIndustrial, 5000, 1), false)
	if err != nil {
		t.Fatalf("process: %v", err)
	}
	if rec.Allocated != 3000 || rec.Decision != model.DecisionReduced {
		t.Fatalf("expected capacity clamp to 3000 Reduced, got %v %s", rec.Allocated, rec.Decision)
	}
}

func TestCapacityAccountsForPriorAllocations(t *testing.T) {
	cfg := config.Default()
	cfg.Regions[3] = config.RegionConfig{ReservoirLevel: 100, TotalSupply: 12000}
	sys := New(cfg, store.New(nil))

	if _, err := sys.Process(req(3, 0, model.SectorAgricultural, 10000, 1), false); err != nil {
		t.Fatalf("first: %v", err)
	}
	rec, err := sys.Process(req(3, 0, model.SectorIndustrial, 5000, 1), false)
	if err != nil {
		t.Fatalf("second: %v", err)
	}
	if rec.Allocated != 2000 || rec.Decision != model.DecisionReduced {
		t.Fatalf("expected remaining 2000 Reduced, got %v %s", rec.Allocated, rec.Decision)
	}

	// The cycle is now exhausted.
	_, err = sys.Process(req(3, 10, model.SectorDomestic, 1000, 1), false)
	if code := rejectionCode(t, err); code != RejectInsufficientSupply {
		t.Fatalf("expected insufficient supply, got %s", code)
	}
}

func TestUnconfiguredRegionHasZeroCapacity(t *testing.T) {
	sys := newTestSystem()
	_, err := sys.Process(req(99, 10, model.SectorDomestic, 1000, 1), false)
	if code := rejectionCode(t, err); code != RejectInsufficientSupply {
		t.Fatalf("expected insufficient supply for unconfigured region, got %s", code)
	}
}

func TestZeroPopulationDomesticRejected(t *testing.T) {
	sys := newTestSystem()
	_, err := sys.Process(req(1, 0, model.SectorDomestic, 1000, 1), false)
	if code := rejectionCode(t, err); code != RejectInsufficientSupply {
		t.Fatalf("expected zero benchmark to reject, got %s", code)
	}
}

func TestProcessRequestStatuses(t *testing.T) {
	cases := []struct {
		name       string
		text       string
		drought    bool
		wantStatus string
		wantMsg    string
	}{
		{
			name:       "approved",
			text:       "Region: 1, Population: 100, Sector: domestic, Volume: 999999, Cycle: 1",
			wantStatus: model.StatusApproved,
			wantMsg:    "Approved: Allocated 150000 liters",
		},
		{
			name:       "reduced",
			text:       "Region: 1, Population: 100, Sector: domestic, Volume: 1000, Cycle: 2",
			wantStatus: model.StatusReduced,
			wantMsg:    "Reduced: Allocated 1000 liters",
		},
		{
			name:       "rejected",
			text:       "Region: 2, Population: 0, Sector: agricultural, Volume: 20000, Cycle: 1",
			wantStatus: model.StatusRejected,
			wantMsg:    "Rejected due to reservoir safety",
		},
		{
			name:       "invalid sector",
			text:       "Region: 1, Population: 10, Sector: mining, Volume: 100, Cycle: 3",
			wantStatus: model.StatusError,
			wantMsg:    "Invalid sector",
		},
		{
			name:       "parse error",
			text:       "allocate all the water",
			wantStatus: model.StatusError,
			wantMsg:    "Invalid request format: expected 5 fields, got 1",
		},
	}

	sys := newTestSystem()
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			msg, status := sys.ProcessRequest(tc.text, tc.drought)
			if status != tc.wantStatus {
				t.Fatalf("expected status %q, got %q (%s)", tc.wantStatus, status, msg)
			}
			if msg != tc.wantMsg {
				t.Fatalf("expected message %q, got %q", tc.wantMsg, msg)
			}
		})
	}
}

func TestDuplicateStatusIsError(t *testing.T) {
	sys := newTestSystem()
	sys.ProcessRequest("Region: 1, Population: 100, Sector: domestic, Volume: 1000, Cycle: 1", false)
	msg, status := sys.ProcessRequest("Region: 1, Population: 100, Sector: domestic, Volume: 1000, Cycle: 1", false)
	if status != model.StatusError || msg != "Duplicate request" {
		t.Fatalf("expected Duplicate request/error, got %q/%q", msg, status)
	}
}

func TestConcurrentDuplicatesCommitOnce(t *testing.T) {
	sys := newTestSystem()
	r := req(1, 100, model.SectorDomestic, 1000, 1)

	var wg sync.WaitGroup
	results := make(chan error, 8)
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := sys.Process(r, false)
			results <- err
		}()
	}
	wg.Wait()
	close(results)

	var ok, dup int
	for err := range results {
		switch {
		case err == nil:
			ok++
		case rejectionCode(t, err) == RejectDuplicate:
			dup++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}
	if ok != 1 || dup != 7 {
		t.Fatalf("expected exactly one commit, got %d commits / %d duplicates", ok, dup)
	}
	if sys.Store().Len() != 1 {
		t.Fatalf("expected one record, got %d", sys.Store().Len())
	}
}

func TestResetProducesFreshState(t *testing.T) {
	sys := newTestSystem()
	sys.Process(req(1, 100, model.SectorDomestic, 1000, 1), false)
	sys.Reset()
	if sys.Store().Len() != 0 {
		t.Fatal("reset must produce an empty store")
	}
	if _, err := sys.Process(req(1, 100, model.SectorDomestic, 1000, 1), false); err != nil {
		t.Fatalf("request after reset should not be a duplicate: %v", err)
	}
}

func TestResetSystemIsInMemoryOnly(t *testing.T) {
	sink := &countingSink{}
	sys := New(config.Default(), store.New(sink))

	if _, err := sys.Process(req(1, 100, model.SectorDomestic, 1000, 1), false); err != nil {
		t.Fatalf("process: %v", err)
	}
	if sink.appends != 1 {
		t.Fatalf("expected 1 persisted commit, got %d", sink.appends)
	}

	sys.Reset()

	// Commits after Reset stay in memory; they never reach the old sink,
	// whose block indices would collide with history on rehydration.
	if _, err := sys.Process(req(1, 100, model.SectorDomestic, 1000, 1), false); err != nil {
		t.Fatalf("process after reset: %v", err)
	}
	if sink.appends != 1 {
		t.Fatalf("commit after reset leaked to the detached sink: %d appends", sink.appends)
	}
	if res := sys.Store().Verify(); !res.Valid || res.Blocks != 1 {
		t.Fatalf("fresh chain wrong after reset: %+v", res)
	}
}
