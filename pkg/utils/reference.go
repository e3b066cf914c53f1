package utils

import (
	"crypto/rand"
	"fmt"
)

// referenceAlphabet omits characters that read ambiguously on a rental
// agreement (0/O, 1/I).
const referenceAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"

// BookingReferencePrefix prefixes every customer-facing booking reference
const BookingReferencePrefix = "ALQ"

// GenerateBookingReference returns a human-readable reference like
// ALQ-7KQ2M9XH. Uniqueness is enforced by the storage layer; callers
// regenerate on collision.
func GenerateBookingReference() (string, error) {
	buf := make([]byte, 8)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("failed to generate booking reference: %w", err)
	}
	for i, b := range buf {
		buf[i] = referenceAlphabet[int(b)%len(referenceAlphabet)]
	}
	return BookingReferencePrefix + "-" + string(buf), nil
}
