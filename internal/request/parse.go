// Package request parses the structured allocation request text consumed
// from the chat/UI collaborator.
package request

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/Saisusmitha27/AquaGuard-AI-Smart-Water-Allocation-Compliance-System/internal/model"
)

// fieldCount is the number of comma-separated "Label: value" fields.
const fieldCount = 5

// ParseError describes a malformed request line. No partial request is
// returned alongside it.
type ParseError struct {
	Detail string
}

func (e *ParseError) Error() string {
	return "Invalid request format: " + e.Detail
}

// Request is the validated allocation request tuple.
// Sector membership is checked by the engine, not here.
type Request struct {
	Region     int
	Population int
	Sector     model.Sector
	Volume     float64
	Cycle      int
}

// Parse converts a request line of the form
//
//	Region: 1, Population: 100, Sector: domestic, Volume: 5000, Cycle: 1
//
// into a Request. Fields are positional; each must carry a "Label:" delimiter.
// The sector value is lower-cased.
func Parse(text string) (Request, error) {
	parts := strings.Split(text, ",")
	if len(parts) != fieldCount {
		return Request{}, &ParseError{Detail: fmt.Sprintf("expected %d fields, got %d", fieldCount, len(parts))}
	}

	values := make([]string, fieldCount)
	for i, part := range parts {
		_, value, ok := strings.Cut(part, ":")
		if !ok {
			return Request{}, &ParseError{Detail: fmt.Sprintf("field %d is missing a label delimiter", i+1)}
		}
		values[i] = strings.TrimSpace(value)
	}

	region, err := strconv.Atoi(values[0])
	if err != nil {
		return Request{}, &ParseError{Detail: fmt.Sprintf("region %q is not an integer", values[0])}
	}
	population, err := strconv.Atoi(values[1])
	if err != nil {
		return Request{}, &ParseError{Detail: fmt.Sprintf("population %q is not an integer", values[1])}
	}
	sector := model.Sector(strings.ToLower(values[2]))
	volume, err := strconv.ParseFloat(values[3], 64)
	if err != nil {
		return Request{}, &ParseError{Detail: fmt.Sprintf("volume %q is not a number", values[3])}
	}
	cycle, err := strconv.Atoi(values[4])
	if err != nil {
		return Request{}, &ParseError{Detail: fmt.Sprintf("cycle %q is not an integer", values[4])}
	}

	return Request{
		Region:     region,
		Population: population,
		Sector:     sector,
		Volume:     volume,
		Cycle:      cycle,
	}, nil
}
