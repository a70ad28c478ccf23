package extract

import (
	"errors"
)

// Sentinel kinds for extraction errors.
var (
	// ErrUnreadable marks input too short or empty to be a real
	// document. It is the only error Extract returns for bad content.
	ErrUnreadable = errors.New("unreadable document text")
)
