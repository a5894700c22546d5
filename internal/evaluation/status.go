package evaluation

// Status tags which of the three evaluation shapes applies
type Status string

const (
	StatusWellDefined     Status = "well-defined"
	StatusRequiresChanges Status = "requires_changes"
	StatusNotWellDefined  Status = "not-well-defined"
)

// ParseStatus returns the status for a raw value or an UnsupportedStatusError.
func ParseStatus(raw string) (Status, error) {
	switch s := Status(raw); s {
	case StatusWellDefined, StatusRequiresChanges, StatusNotWellDefined:
		return s, nil
	default:
		return "", &UnsupportedStatusError{Value: raw}
	}
}

// requirement is the emptiness rule a status imposes on one field.
type requirement int

const (
	anyLength requirement = iota
	nonEmpty
	mustBeEmpty
)

// shape lists the per-field requirements of one status.
type shape struct {
	suggestions     requirement
	recommendations requirement
	painPoints      requirement
	marketExistence requirement
	targetAudience  requirement
}

var shapes = map[Status]shape{
	StatusWellDefined: {
		suggestions:     anyLength,
		recommendations: anyLength,
		painPoints:      nonEmpty,
		marketExistence: nonEmpty,
		targetAudience:  nonEmpty,
	},
	StatusRequiresChanges: {
		suggestions:     nonEmpty,
		recommendations: nonEmpty,
		painPoints:      nonEmpty,
		marketExistence: anyLength,
		targetAudience:  nonEmpty,
	},
	StatusNotWellDefined: {
		suggestions:     nonEmpty,
		recommendations: mustBeEmpty,
		painPoints:      mustBeEmpty,
		marketExistence: mustBeEmpty,
		targetAudience:  mustBeEmpty,
	},
}

func (r requirement) check(field string, status Status, length int) error {
	switch {
	case r == nonEmpty && length == 0:
		return &ValidationError{Field: field, Status: status, Reason: "not be empty"}
	case r == mustBeEmpty && length > 0:
		return &ValidationError{Field: field, Status: status, Reason: "be empty"}
	}
	return nil
}
