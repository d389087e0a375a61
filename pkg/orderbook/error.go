package orderbook

import "errors"

var (
	// Caller-misuse faults: rejected before any book state changes.
	ErrInvalidQuantity   = errors.New("order quantity must be positive")
	ErrMissingLimitPrice = errors.New("limit order requires a positive price")
	ErrDuplicateOrderID  = errors.New("order id already on the book")
	ErrUnknownStrategy   = errors.New("unknown order strategy")

	// ErrAmendNotSupported is returned by Amend unconditionally. Amend
	// semantics (keep or lose time priority) are a pending product decision;
	// callers that need it today must cancel and resubmit.
	ErrAmendNotSupported = errors.New("order amendment is not supported")

	// ErrReduceExceedsRemaining rejects a quantity reduction that would
	// drive the remainder negative.
	ErrReduceExceedsRemaining = errors.New("reduction exceeds remaining quantity")

	// ErrBookCorrupt reports an internal consistency fault (an order in the
	// index but missing from its level, or an impossible reduction observed
	// mid-match). It is surfaced to the caller, never swallowed or retried.
	ErrBookCorrupt = errors.New("order book state corrupt")
)
