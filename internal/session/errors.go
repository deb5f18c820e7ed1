package session

// constError is an immutable error type for sentinel errors.
type constError string

func (e constError) Error() string { return string(e) }

var (
	// ErrRoleRequired is returned when leaving role selection without a role.
	ErrRoleRequired = constError("select a role before continuing")

	// ErrInvalidTransition is returned for an operation the current state
	// does not allow.
	ErrInvalidTransition = constError("invalid state transition")

	// ErrUnknownDevice is returned for a device ID not in the session.
	ErrUnknownDevice = constError("unknown device")

	// ErrUnknownSession is returned by Manager for an unknown or expired ID.
	ErrUnknownSession = constError("unknown session")
)
