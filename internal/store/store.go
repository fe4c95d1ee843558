// Package store owns the allocation table, the chronological log, and the
// audit chain. Write is the sole mutation path; the three structures are
// never allowed to diverge: every log entry has exactly one chain block,
// in order.
package store

import (
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/Saisusmitha27/AquaGuard-AI-Smart-Water-Allocation-Compliance-System/internal/ledger"
	"github.com/Saisusmitha27/AquaGuard-AI-Smart-Water-Allocation-Compliance-System/internal/model"
)

// Key identifies one allocation slot. At most one record exists per key.
type Key struct {
	Region int
	Cycle  int
	Sector model.Sector
}

// Sink receives every committed record with its audit block, in commit
// order. A sink error aborts the commit as a fatal write failure.
type Sink interface {
	Append(rec model.AllocationRecord, blk ledger.Block) error
}

// WriteError is a fatal audit append failure. The allocation must not be
// considered committed when it is returned; there is no rollback and no
// retry.
type WriteError struct {
	Err error
}

func (e *WriteError) Error() string {
	return fmt.Sprintf("store: audit append failed: %v", e.Err)
}

func (e *WriteError) Unwrap() error {
	return e.Err
}

// Store holds the in-memory allocation state. Reads take the read lock;
// Write takes the write lock. The engine additionally serializes its whole
// decide-then-write path so the duplicate gate and capacity reads are atomic.
type Store struct {
	mu      sync.RWMutex
	table   map[Key]float64
	records []model.AllocationRecord
	chain   *ledger.Chain
	sink    Sink
	now     func() time.Time
}

// New returns an empty store. sink may be nil for a purely in-memory system.
func New(sink Sink) *Store {
	return &Store{
		table: make(map[Key]float64),
		chain: ledger.New(),
		sink:  sink,
		now:   time.Now,
	}
}

// Load rebuilds a store from persisted records and blocks, verifying the
// chain. New writes continue to flow into sink.
func Load(records []model.AllocationRecord, blocks []ledger.Block, sink Sink) (*Store, error) {
	chain, err := ledger.Load(blocks)
	if err != nil {
		return nil, err
	}
	if len(records) != chain.Len() {
		return nil, fmt.Errorf("store: %d records but %d audit blocks", len(records), chain.Len())
	}

	s := New(sink)
	s.chain = chain
	for _, rec := range records {
		k := Key{Region: rec.Region, Cycle: rec.Cycle, Sector: rec.Sector}
		if _, ok := s.table[k]; ok {
			return nil, fmt.Errorf("store: duplicate record for region %d cycle %d sector %s", rec.Region, rec.Cycle, rec.Sector)
		}
		s.table[k] = rec.Allocated
		s.records = append(s.records, rec)
	}
	return s, nil
}

// Write commits one allocation decision: table insert, log append, chain
// append, and durable history, in that order. The engine checks for
// duplicates before calling; an occupied slot here is a programming error.
func (s *Store) Write(region, cycle int, sector model.Sector, volume, requested float64, decision model.Decision, reason string) (model.AllocationRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	k := Key{Region: region, Cycle: cycle, Sector: sector}
	if _, ok := s.table[k]; ok {
		return model.AllocationRecord{}, fmt.Errorf("store: slot already allocated: region %d cycle %d sector %s", region, cycle, sector)
	}

	rec := model.AllocationRecord{
		Timestamp: float64(s.now().UnixNano()) / 1e9,
		Region:    region,
		Sector:    sector,
		Allocated: volume,
		Decision:  decision,
		Reason:    reason,
		Cycle:     cycle,
		Requested: requested,
	}

	payload, err := json.Marshal(rec)
	if err != nil {
		return model.AllocationRecord{}, &WriteError{Err: err}
	}

	s.table[k] = volume
	s.records = append(s.records, rec)
	blk := s.chain.Append(string(payload))

	if s.sink != nil {
		if err := s.sink.Append(rec, blk); err != nil {
			return model.AllocationRecord{}, &WriteError{Err: err}
		}
	}
	return rec, nil
}

// Exists reports whether a record exists for the (region, cycle, sector)
// triple.
func (s *Store) Exists(region, cycle int, sector model.Sector) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.table[Key{Region: region, Cycle: cycle, Sector: sector}]
	return ok
}

// AllocatedTotal returns the sum of committed volumes for a region and cycle.
func (s *Store) AllocatedTotal(region, cycle int) float64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var total float64
	for k, v := range s.table {
		if k.Region == region && k.Cycle == cycle {
			total += v
		}
	}
	return total
}

// Records returns a copy of the chronological log.
func (s *Store) Records() []model.AllocationRecord {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]model.AllocationRecord, len(s.records))
	copy(out, s.records)
	return out
}

// Len returns the number of committed records.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.records)
}

// Verify validates the audit chain.
func (s *Store) Verify() ledger.VerifyResult {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.chain.Verify()
}

// AuditReport returns display summaries of the audit chain.
func (s *Store) AuditReport() []ledger.BlockSummary {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.chain.Report()
}

// Blocks returns a copy of the audit chain blocks.
func (s *Store) Blocks() []ledger.Block {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.chain.Blocks()
}
