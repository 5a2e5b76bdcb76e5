package zerror

// Status is the transport-agnostic class of a ZError.
type Status uint8

const (
	StatusUnknown Status = iota
	StatusBadRequest
	StatusNotFound
)

func (s Status) String() string {
	switch s {
	case StatusBadRequest:
		return "BAD_REQUEST"
	case StatusNotFound:
		return "NOT_FOUND"
	default:
		return "UNKNOWN"
	}
}
