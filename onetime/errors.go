package onetime

import "github.com/pkg/errors"

// ErrInvalidKeyIndex is returned when a signer index falls outside the
// ring, which would otherwise panic on the out-of-bounds slice access.
// This is a Go-idiomatic bounds check, not a cryptographic failure mode:
// the spec leaves a mismatch between the signer's actual key and the ring
// entry at keyIndex unchecked (such a signature silently fails to
// verify), but an out-of-range index has no slice element to mismatch
// against at all.
var ErrInvalidKeyIndex = errors.New("onetime: key index out of range")

// ErrEmptyRing is returned when a ring of zero public keys is supplied.
var ErrEmptyRing = errors.New("onetime: ring must contain at least one public key")
