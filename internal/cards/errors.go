package cards

import "errors"

var (
	// ErrNotFound marks an unknown set, card or deck.
	ErrNotFound = errors.New("not found")
	// ErrUnavailable marks a network or HTTP failure of a remote source.
	// Retrying is up to the caller.
	ErrUnavailable = errors.New("remote source unavailable")
	// ErrParse marks structurally corrupt input that can't be processed.
	ErrParse = errors.New("malformed input")
	// ErrStateInconsistent marks a violated ledger invariant.
	ErrStateInconsistent = errors.New("inconsistent ledger state")
)
