package greenops

// constError is an immutable error type for sentinel errors.
type constError string

func (e constError) Error() string { return string(e) }

var (
	// ErrInvalidUnit indicates an unrecognized mass unit.
	ErrInvalidUnit = constError("invalid mass unit")

	// ErrCalculationOverflow indicates an infinite or NaN figure.
	ErrCalculationOverflow = constError("calculation overflow")
)
