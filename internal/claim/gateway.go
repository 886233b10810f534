package claim

import (
	"context"
	"errors"
	"fmt"
)

// Field names reported by DuplicateFieldError
const (
	FieldEmail   = "email"
	FieldDiscord = "discord"
	FieldWallet  = "wallet"
)

// Error definitions
var (
	ErrDuplicateField   = errors.New("field already registered by another wallet")
	ErrNonceMismatch    = errors.New("nonce does not match the outstanding challenge")
	ErrConcurrentUpdate = errors.New("claim was modified concurrently")
	ErrInvalidWallet    = errors.New("invalid wallet address")
)

// DuplicateFieldError reports which unique field collided with another wallet
type DuplicateFieldError struct {
	Field string
}

func (e *DuplicateFieldError) Error() string {
	return fmt.Sprintf("duplicate %s", e.Field)
}

func (e *DuplicateFieldError) Is(target error) bool {
	return target == ErrDuplicateField
}

// FinalizeParams carries a verified registration into the store.
// ExpectedNonce, when non-empty, must equal the stored nonce; it is cleared by the write.
type FinalizeParams struct {
	Wallet        string
	Email         string
	Discord       string
	Signature     string
	ExpectedNonce string
}

// FinalizeResult reports the stored claim after FinalizeRegistration.
// Created is false when the wallet was already registered and only its signature was refreshed.
type FinalizeResult struct {
	Created bool
	Claim   Claim
}

// Gateway is the only reader and writer of claim rows
type Gateway interface {
	// GetByWallet returns nil, nil when no row exists
	GetByWallet(ctx context.Context, wallet string) (*Claim, error)

	// IssueOrTouchNonce creates the row if absent and replaces its nonce
	IssueOrTouchNonce(ctx context.Context, wallet, token string) error

	// FinalizeRegistration persists a verified registration atomically
	FinalizeRegistration(ctx context.Context, p FinalizeParams) (*FinalizeResult, error)
}

// DuplicateFieldOf returns the offending field if err is a DuplicateFieldError
func DuplicateFieldOf(err error) (string, bool) {
	var dup *DuplicateFieldError
	if errors.As(err, &dup) {
		return dup.Field, true
	}
	return "", false
}

func normalizeParams(p FinalizeParams) FinalizeParams {
	return FinalizeParams{
		Wallet:        NormalizeWallet(p.Wallet),
		Email:         NormalizeEmail(p.Email),
		Discord:       NormalizeDiscord(p.Discord),
		Signature:     p.Signature,
		ExpectedNonce: p.ExpectedNonce,
	}
}
