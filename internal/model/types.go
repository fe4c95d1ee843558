package model

// Sector is a water consumption category.
type Sector string

const (
	SectorDomestic     Sector = "domestic"
	SectorAgricultural Sector = "agricultural"
	SectorIndustrial   Sector = "industrial"
)

// Valid reports whether s is one of the three recognized sectors.
func (s Sector) Valid() bool {
	switch s {
	case SectorDomestic, SectorAgricultural, SectorIndustrial:
		return true
	}
	return false
}

// Decision is the allocation outcome recorded for a committed request.
type Decision string

const (
	DecisionApproved Decision = "Approved"
	DecisionReduced  Decision = "Reduced"
	DecisionRejected Decision = "Rejected"
)

// Status strings returned to the chat/UI collaborator.
const (
	StatusApproved = "approved"
	StatusReduced  = "reduced"
	StatusRejected = "rejected"
	StatusError    = "error"
)

// Status maps the decision to the external status string.
func (d Decision) Status() string {
	switch d {
	case DecisionApproved:
		return StatusApproved
	case DecisionReduced:
		return StatusReduced
	default:
		return StatusRejected
	}
}

// AllocationRecord is one committed allocation decision. Records are immutable
// once written; corrections are new records, never edits.
//
// The JSON field order is the audit chain payload contract: all fields are
// concrete types (no map[string]any) to guarantee deterministic json.Marshal
// field order for reproducible hashing. Do not reorder.
type AllocationRecord struct {
	Timestamp float64  `json:"timestamp"`
	Region    int      `json:"region"`
	Sector    Sector   `json:"sector"`
	Allocated float64  `json:"allocated"`
	Decision  Decision `json:"decision"`
	Reason    string   `json:"reason"`
	Cycle     int      `json:"cycle"`

	// Requested is the originally requested volume, kept in memory for the
	// large-reduction alert rule. Not part of the ledger payload.
	Requested float64 `json:"-"`
}
