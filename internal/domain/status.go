package domain

// Status classifies the outcome of a call against an external service.
type Status int

const (
	StatusOkay Status = iota
	StatusUpstreamFailure
	StatusInvalidInput
	StatusUnknownFailure
	StatusIncomplete
)

func (s Status) String() string {
	switch s {
	case StatusOkay:
		return "okay"
	case StatusUpstreamFailure:
		return "upstream_failure"
	case StatusInvalidInput:
		return "invalid_input"
	case StatusIncomplete:
		return "incomplete"
	default:
		return "unknown_failure"
	}
}

// Usable reports whether a result carrying this status may still be
// consumed. Incomplete pagination is treated as usable partial data.
func (s Status) Usable() bool {
	return s == StatusOkay || s == StatusIncomplete
}
