package memory

import (
	"errors"
	"fmt"
)

// maxIDAttempts bounds the collision loop so a broken generator fails the
// transaction instead of spinning forever.
const maxIDAttempts = 64

var ErrIDGenerationExhausted = errors.New("could not generate a unique account id")

// GenerateUniqueID returns an id that is neither committed nor staged in
// this transaction.
func (t *tx) GenerateUniqueID() (string, error) {
	if t.closed.Load() {
		return "", ErrTxClosed
	}

	for range maxIDAttempts {
		id, err := t.store.newID()
		if err != nil {
			return "", fmt.Errorf("generate id: %w", err)
		}

		if id == "" {
			continue
		}

		_, taken := t.lookup(id)
		if !taken {
			return id, nil
		}
	}

	return "", fmt.Errorf("%w after %d attempts", ErrIDGenerationExhausted, maxIDAttempts)
}
