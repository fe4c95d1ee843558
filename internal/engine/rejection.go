package engine

import "github.com/Saisusmitha27/AquaGuard-AI-Smart-Water-Allocation-Compliance-System/internal/model"

// RejectCode identifies why a request was refused.
type RejectCode string

const (
	RejectInvalidSector      RejectCode = "invalid_sector"
	RejectDuplicate          RejectCode = "duplicate_request"
	RejectReservoirUnsafe    RejectCode = "reservoir_unsafe"
	RejectDrought            RejectCode = "drought_restriction"
	RejectInsufficientSupply RejectCode = "insufficient_supply"
)

// Rejection is a terminal per-request refusal. No record and no audit block
// are written; the caller may resubmit a new request.
type Rejection struct {
	Code    RejectCode
	Message string
}

func (r *Rejection) Error() string {
	return r.Message
}

// Status maps the rejection to the external status string. Invalid input
// (unknown sector, duplicate) surfaces as "error"; policy refusals reached
// after the benchmark is known surface as "rejected".
func (r *Rejection) Status() string {
	switch r.Code {
	case RejectInvalidSector, RejectDuplicate:
		return model.StatusError
	default:
		return model.StatusRejected
	}
}
