package wallet

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/event"
	"github.com/ethereum/go-ethereum/rpc"
	"go.uber.org/zap"
)

const (
	// DefaultPollInterval is how often eth_accounts is polled for account changes
	DefaultPollInterval = 2 * time.Second
)

// RPCProvider talks to a wallet over JSON-RPC
type RPCProvider struct {
	client       *rpc.Client
	pollInterval time.Duration
	logger       *zap.Logger
}

var (
	_ Provider      = (*RPCProvider)(nil)
	_ ChainSwitcher = (*RPCProvider)(nil)
)

// DialRPC connects to a wallet JSON-RPC endpoint
func DialRPC(ctx context.Context, endpoint string, logger *zap.Logger) (*RPCProvider, error) {
	client, err := rpc.DialContext(ctx, endpoint)
	if err != nil {
		return nil, fmt.Errorf("dial wallet rpc: %w", err)
	}
	return NewRPCProvider(client, DefaultPollInterval, logger), nil
}

// NewRPCProvider wraps an existing rpc client
func NewRPCProvider(client *rpc.Client, pollInterval time.Duration, logger *zap.Logger) *RPCProvider {
	if pollInterval <= 0 {
		pollInterval = DefaultPollInterval
	}
	return &RPCProvider{client: client, pollInterval: pollInterval, logger: logger}
}

// Close releases the underlying connection
func (p *RPCProvider) Close() {
	p.client.Close()
}

func (p *RPCProvider) RequestAccounts(ctx context.Context) ([]string, error) {
	var accounts []string
	if err := p.client.CallContext(ctx, &accounts, "eth_requestAccounts"); err != nil {
		if IsUserRejected(err) {
			return nil, ErrUserRejected
		}
		return nil, fmt.Errorf("eth_requestAccounts: %w", err)
	}
	if len(accounts) == 0 {
		return nil, ErrNoAccounts
	}
	return accounts, nil
}

func (p *RPCProvider) PersonalSign(ctx context.Context, message, address string) (string, error) {
	var signature string
	err := p.client.CallContext(ctx, &signature, "personal_sign", hexutil.Encode([]byte(message)), address)
	if err != nil {
		if IsUserRejected(err) {
			return "", ErrUserRejected
		}
		return "", fmt.Errorf("personal_sign: %w", err)
	}
	return signature, nil
}

func (p *RPCProvider) SwitchChain(ctx context.Context, chainID string) error {
	params := map[string]string{"chainId": chainID}
	if err := p.client.CallContext(ctx, nil, "wallet_switchEthereumChain", params); err != nil {
		if IsUserRejected(err) {
			return ErrUserRejected
		}
		return fmt.Errorf("wallet_switchEthereumChain: %w", err)
	}
	return nil
}

// SubscribeAccounts polls eth_accounts and emits an event whenever the first account changes
func (p *RPCProvider) SubscribeAccounts(ctx context.Context, ch chan<- AccountChange) event.Subscription {
	return event.NewSubscription(func(quit <-chan struct{}) error {
		ticker := time.NewTicker(p.pollInterval)
		defer ticker.Stop()

		current, err := p.currentAccount(ctx)
		if err != nil {
			return err
		}

		for {
			select {
			case <-quit:
				return nil
			case <-ctx.Done():
				return ctx.Err()
			case <-ticker.C:
				next, err := p.currentAccount(ctx)
				if err != nil {
					p.logger.Warn("failed to poll wallet accounts", zap.Error(err))
					continue
				}
				if next == current {
					continue
				}
				current = next
				select {
				case ch <- AccountChange{Address: next}:
				case <-quit:
					return nil
				case <-ctx.Done():
					return ctx.Err()
				}
			}
		}
	})
}

func (p *RPCProvider) currentAccount(ctx context.Context) (string, error) {
	var accounts []string
	if err := p.client.CallContext(ctx, &accounts, "eth_accounts"); err != nil {
		return "", fmt.Errorf("eth_accounts: %w", err)
	}
	if len(accounts) == 0 {
		return "", nil
	}
	return strings.ToLower(accounts[0]), nil
}
