package wallet

import (
	"context"
	"crypto/ecdsa"
	"fmt"
	"strings"
	"sync"

	"github.com/ethereum/go-ethereum/accounts"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/event"
)

// KeyProvider signs with a local private key.
// Used by tests and local tooling in place of a user-facing wallet.
type KeyProvider struct {
	mu      sync.Mutex
	key     *ecdsa.PrivateKey
	feed    event.Feed
	reject  bool
	signErr error
	chainID string
}

var (
	_ Provider      = (*KeyProvider)(nil)
	_ ChainSwitcher = (*KeyProvider)(nil)
)

// NewKeyProvider wraps key
func NewKeyProvider(key *ecdsa.PrivateKey) *KeyProvider {
	return &KeyProvider{key: key}
}

// GenerateKeyProvider creates a provider with a fresh random key
func GenerateKeyProvider() (*KeyProvider, error) {
	key, err := crypto.GenerateKey()
	if err != nil {
		return nil, fmt.Errorf("generate key: %w", err)
	}
	return NewKeyProvider(key), nil
}

// Address returns the checksummed address of the current key
func (p *KeyProvider) Address() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return crypto.PubkeyToAddress(p.key.PublicKey).Hex()
}

// RejectNext makes the next PersonalSign behave as a user cancellation
func (p *KeyProvider) RejectNext() {
	p.mu.Lock()
	p.reject = true
	p.mu.Unlock()
}

// FailNext makes the next PersonalSign return err
func (p *KeyProvider) FailNext(err error) {
	p.mu.Lock()
	p.signErr = err
	p.mu.Unlock()
}

// SwitchKey replaces the active key and notifies subscribers
func (p *KeyProvider) SwitchKey(key *ecdsa.PrivateKey) {
	p.mu.Lock()
	p.key = key
	p.mu.Unlock()
	p.feed.Send(AccountChange{Address: strings.ToLower(p.Address())})
}

// Chain returns the last chain id passed to SwitchChain
func (p *KeyProvider) Chain() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.chainID
}

func (p *KeyProvider) SwitchChain(ctx context.Context, chainID string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	p.mu.Lock()
	p.chainID = chainID
	p.mu.Unlock()
	return nil
}

func (p *KeyProvider) RequestAccounts(ctx context.Context) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return []string{p.Address()}, nil
}

func (p *KeyProvider) PersonalSign(ctx context.Context, message, address string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	p.mu.Lock()
	reject, signErr, key := p.reject, p.signErr, p.key
	p.reject, p.signErr = false, nil
	p.mu.Unlock()

	if reject {
		return "", ErrUserRejected
	}
	if signErr != nil {
		return "", signErr
	}
	if !strings.EqualFold(crypto.PubkeyToAddress(key.PublicKey).Hex(), strings.TrimSpace(address)) {
		return "", fmt.Errorf("personal_sign: unknown account %s", address)
	}

	sig, err := crypto.Sign(accounts.TextHash([]byte(message)), key)
	if err != nil {
		return "", fmt.Errorf("personal_sign: %w", err)
	}
	// personal_sign returns v = 27 or 28
	sig[64] += 27
	return hexutil.Encode(sig), nil
}

func (p *KeyProvider) SubscribeAccounts(ctx context.Context, ch chan<- AccountChange) event.Subscription {
	_ = ctx
	return p.feed.Subscribe(ch)
}
