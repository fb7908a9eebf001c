package sentinel

import "errors"

// Sentinel errors for infrastructure facts. Adapters return these (optionally
// wrapped) so services and transports can classify failures without parsing
// messages.
//
//   - ErrUnavailable: a collaborator is unreachable or its circuit is open
//   - ErrTimeout: a collaborator did not answer before the deadline
//   - ErrBadResponse: a collaborator answered with something we cannot decode
//   - ErrInvalidState: component used in the wrong lifecycle state
var (
	ErrUnavailable  = errors.New("unavailable")
	ErrTimeout      = errors.New("timeout")
	ErrBadResponse  = errors.New("bad response")
	ErrInvalidState = errors.New("invalid state")
)
