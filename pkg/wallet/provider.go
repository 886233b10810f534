// Package wallet models the injected wallet capability: account access,
// personal_sign, and account-change notifications.
package wallet

import (
	"context"
	"errors"

	"github.com/ethereum/go-ethereum/event"
)

const (
	// CodeUserRejected is the EIP-1193 "user rejected the request" error code
	CodeUserRejected = 4001

	// ChainBase is the Base mainnet chain id as wallet_switchEthereumChain expects it
	ChainBase = "0x2105"
)

var (
	ErrUserRejected = errors.New("user rejected the request")
	ErrNoAccounts   = errors.New("wallet returned no accounts")
)

// AccountChange is emitted when the wallet's active account changes.
// Address is empty when the wallet disconnected.
type AccountChange struct {
	Address string
}

// Provider is the request/response capability exposed by a wallet
type Provider interface {
	// RequestAccounts asks the wallet to expose its accounts (eth_requestAccounts)
	RequestAccounts(ctx context.Context) ([]string, error)

	// PersonalSign asks the wallet to sign message with address (personal_sign).
	// Blocks until the user answers; returns ErrUserRejected on cancel
	PersonalSign(ctx context.Context, message, address string) (string, error)

	// SubscribeAccounts delivers account changes to ch until the subscription is cancelled
	SubscribeAccounts(ctx context.Context, ch chan<- AccountChange) event.Subscription
}

// ChainSwitcher is implemented by wallets that can change the active network
type ChainSwitcher interface {
	// SwitchChain requests wallet_switchEthereumChain with a 0x-prefixed hex chain id
	SwitchChain(ctx context.Context, chainID string) error
}

// IsUserRejected reports whether err is a user cancellation
func IsUserRejected(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, ErrUserRejected) {
		return true
	}
	var coded interface{ ErrorCode() int }
	if errors.As(err, &coded) {
		return coded.ErrorCode() == CodeUserRejected
	}
	return false
}
