// Package key generates unique identifiers for anchor markers.
package key

import (
	"fmt"
	"io"

	"github.com/google/uuid"
)

// Length is the number of characters in an anchor key.
const Length = 8

// Generate produces an 8-character anchor key by drawing a random
// version-4 UUID from r and keeping the first eight characters of its
// canonical string form. Those characters are the hex digits of the
// UUID's first four random bytes, so keys are lowercase hex.
func Generate(r io.Reader) (string, error) {
	id, err := uuid.NewRandomFromReader(r)
	if err != nil {
		return "", fmt.Errorf("generating uuid: %w", err)
	}
	return id.String()[:Length], nil
}
