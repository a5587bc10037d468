package core

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidToken is returned when a token is structurally invalid or
	// its signature does not verify under any key the kit could obtain.
	ErrInvalidToken = errors.New("verikit: invalid token")

	// ErrKeyExpired is returned when the cached verification key set is
	// past its TTL. It wraps ErrInvalidToken so callers matching on that
	// sentinel treat both the same way.
	ErrKeyExpired = fmt.Errorf("%w: public verification key expired", ErrInvalidToken)
)
