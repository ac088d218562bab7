package domain

import "errors"

var (
	// Validation failures. Each aborts a single trade request and is
	// reported to the caller; none of them is fatal.
	ErrMissingSize          = errors.New("exactly one of notional or qty must be set")
	ErrUnsupportedAsset     = errors.New("asset not supported for trading")
	ErrInvalidSide          = errors.New("side must be buy or sell")
	ErrInvalidType          = errors.New("type must be market or limit")
	ErrInsufficientFunds    = errors.New("order value exceeds buying power")
	ErrMissingLimitPrice    = errors.New("limit orders require a limit price")
	ErrBracketNeedsWholeQty = errors.New("bracket legs require a whole-share qty")
	ErrBracketUnsupported   = errors.New("crypto orders do not support bracket legs")

	// Upstream failures.
	ErrQuoteUnavailable = errors.New("quote unavailable")
	ErrUpstreamRequest  = errors.New("upstream request failed")
	ErrOrderNotFound    = errors.New("order not found")
	ErrPositionNotFound = errors.New("position not found")
)
