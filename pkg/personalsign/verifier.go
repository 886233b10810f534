package personalsign

import (
	"errors"
	"strings"
)

const (
	// SignatureLength is r || s || v
	SignatureLength = 65

	// MinSignatureHexLength is the shortest plausible 0x-prefixed hex signature
	MinSignatureHexLength = 2 + SignatureLength*2
)

// Verifier checks EIP-191 personal_sign signatures
type Verifier interface {
	// Verify reports whether signature over message was produced by claimedAddress.
	// Malformed input, recovery failure and mismatch all return false.
	Verify(message, signature, claimedAddress string) bool
}

// Error definitions
var (
	ErrEmptyMessage        = errors.New("message is empty")
	ErrInvalidSignature    = errors.New("invalid signature")
	ErrInvalidSignatureLen = errors.New("signature must be 65 bytes")
	ErrInvalidRecoveryID   = errors.New("signature recovery id must be 0, 1, 27 or 28")
)

// NormalizeAddress trims and lower-cases a hex address
func NormalizeAddress(address string) string {
	return strings.ToLower(strings.TrimSpace(address))
}
