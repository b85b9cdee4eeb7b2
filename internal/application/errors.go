package application

import "errors"

// ErrUnknownBucket is a policy rejection: the caller named a portfolio
// set that is not defined. It is reported explicitly rather than
// degraded, since it reflects caller error, not provider flakiness.
var ErrUnknownBucket = errors.New("unknown portfolio set")

// ErrBadOccasion rejects a scheduled-occasion tag other than "open" or
// "close".
var ErrBadOccasion = errors.New("unknown refresh occasion")
