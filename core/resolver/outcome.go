package resolver

import (
	"github.com/shopspring/decimal"

	"size-convert/core/types"
)

// Kind tags the outcome of one tier, or of one region within a tier
type Kind int

const (
	// NotFound means the tier had no data for the query, or no range contained the value
	NotFound Kind = iota
	// Matched means a label was found
	Matched
	// SourceUnavailable means the tier's data could not be read
	SourceUnavailable
)

// String returns string representation
func (k Kind) String() string {
	switch k {
	case Matched:
		return "matched"
	case NotFound:
		return "not_found"
	case SourceUnavailable:
		return "source_unavailable"
	default:
		return "unknown"
	}
}

// RegionOutcome is the result of scanning one region
type RegionOutcome struct {
	Kind  Kind
	Label string
}

// Outcome is the result of one tier. Regions is indexed like types.Regions.
type Outcome struct {
	Kind    Kind
	Regions [3]RegionOutcome
	Err     error
}

// Labels returns matched labels. Unread regions are types.Unavailable and
// scanned regions without a match are empty.
func (o Outcome) Labels() [3]string {
	var labels [3]string
	for i, r := range o.Regions {
		switch r.Kind {
		case Matched:
			labels[i] = r.Label
		case SourceUnavailable:
			labels[i] = types.Unavailable
		}
	}
	return labels
}

// combine derives a tier outcome from its region outcomes.
// Any matched region makes the tier a match; the others keep their sentinel.
func combine(regions [3]RegionOutcome, err error) Outcome {
	for _, r := range regions {
		if r.Kind == Matched {
			return Outcome{Kind: Matched, Regions: regions, Err: err}
		}
	}
	if err != nil {
		return Outcome{Kind: SourceUnavailable, Regions: regions, Err: err}
	}
	return Outcome{Kind: NotFound, Regions: regions}
}

// scan returns the first range containing v. Ranges are half-open, so
// well-formed charts never have two candidates.
func scan(ranges []types.MeasurementRange, v decimal.Decimal) RegionOutcome {
	for _, r := range ranges {
		if r.Contains(v) {
			return RegionOutcome{Kind: Matched, Label: r.Label}
		}
	}
	return RegionOutcome{Kind: NotFound}
}
