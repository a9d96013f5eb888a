package domain

import "errors"

// Domain errors.
var (
	ErrLabelNotFound        = errors.New("label not found")
	ErrInvalidPosition      = errors.New("invalid position")
	ErrStoreTransaction     = errors.New("store transaction failed")
	ErrStoreUnavailable     = errors.New("store unavailable")
	ErrNotInitialized       = errors.New("task tree not initialized")
	ErrEmptyDescription     = errors.New("description cannot be empty")
	ErrInvalidStatus        = errors.New("invalid status")
	ErrInvalidPumpkinTime   = errors.New("pumpkin time must be 4 digits in 24-hour format (e.g. 0400)")
	ErrInvalidLabelEncoding = errors.New("invalid label encoding")
	ErrInvalidLabel         = errors.New("invalid label")
	ErrUnknownCommand       = errors.New("unusable input")
	ErrConfigExists         = errors.New("config file already exists")
	ErrUnsupportedFormat    = errors.New("unsupported format")
)

// IsRecoverable reports whether a session can continue after err.
// Only a lost store connection ends the session.
func IsRecoverable(err error) bool {
	return err == nil || !errors.Is(err, ErrStoreUnavailable)
}
