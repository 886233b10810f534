package registration

import (
	"context"
	"fmt"
	"strings"

	"github.com/ahwlsqja/ts-pass-claims/internal/claim"
	"github.com/ahwlsqja/ts-pass-claims/pkg/personalsign"
	"github.com/ahwlsqja/ts-pass-claims/pkg/wallet"
	"go.uber.org/zap"
)

// Challenge is the nonce and the exact text the wallet must sign
type Challenge struct {
	Nonce   string
	Message string
}

// NonceSource issues a fresh challenge for a wallet
type NonceSource interface {
	Challenge(ctx context.Context, address string, details Details) (*Challenge, error)
}

// Submission is a signed registration ready for the authoritative registrar
type Submission struct {
	WalletAddress string `json:"wallet_address"`
	Email         string `json:"email"`
	Discord       string `json:"discord"`
	Message       string `json:"message"`
	Signature     string `json:"signature"`
}

// Receipt is the registrar's acceptance
type Receipt struct {
	AlreadyExisted bool
	Email          string
	Discord        string
}

// Registrar persists a signed registration after verifying it server-side
type Registrar interface {
	Submit(ctx context.Context, sub Submission) (*Receipt, error)
}

// Machine runs registration attempts against a wallet provider
type Machine struct {
	provider  wallet.Provider
	nonces    NonceSource
	registrar Registrar
	verifier  personalsign.Verifier
	logger    *zap.Logger
	chainID   string
}

// NewMachine creates a registration machine
func NewMachine(provider wallet.Provider, nonces NonceSource, registrar Registrar, verifier personalsign.Verifier, logger *zap.Logger) *Machine {
	return &Machine{
		provider:  provider,
		nonces:    nonces,
		registrar: registrar,
		verifier:  verifier,
		logger:    logger,
	}
}

// WithChain makes Connect ask the wallet to switch to chainID after account access.
// The switch is best effort; wallets without ChainSwitcher are left alone.
func (m *Machine) WithChain(chainID string) *Machine {
	m.chainID = chainID
	return m
}

// Connect asks the wallet for its accounts and opens a session on the first one
func (m *Machine) Connect(ctx context.Context) (Session, Outcome) {
	accounts, err := m.provider.RequestAccounts(ctx)
	if err != nil {
		if wallet.IsUserRejected(err) {
			return Session{}, rejected(KindUserCancelled, nil)
		}
		return Session{}, rejected(KindSigningFailed, fmt.Errorf("request accounts: %w", err))
	}
	if len(accounts) == 0 {
		return Session{}, rejected(KindSigningFailed, wallet.ErrNoAccounts)
	}
	m.switchChain(ctx)
	return Session{Address: accounts[0]}, Outcome{State: StateIdle}
}

func (m *Machine) switchChain(ctx context.Context) {
	switcher, ok := m.provider.(wallet.ChainSwitcher)
	if m.chainID == "" || !ok {
		return
	}
	if err := switcher.SwitchChain(ctx, m.chainID); err != nil {
		m.logger.Debug("chain switch ignored", zap.String("chain_id", m.chainID), zap.Error(err))
	}
}

// Register runs one attempt to completion. There is no timeout on the
// signature prompt beyond ctx.
func (m *Machine) Register(ctx context.Context, session Session, details Details) Outcome {
	address := claim.NormalizeWallet(session.Address)
	details.Email = claim.NormalizeEmail(details.Email)
	details.Discord = claim.NormalizeDiscord(details.Discord)
	log := m.logger.With(zap.String("address", address))

	path := []State{StateIdle}
	finish := func(out Outcome) Outcome {
		out.Path = append(path, out.State)
		return out
	}

	// 0. Local input checks
	if !claim.ValidWallet(address) {
		return finish(rejected(KindMalformedInput, claim.ErrInvalidWallet))
	}
	if !claim.ValidEmail(details.Email) {
		return finish(rejected(KindMalformedInput, fmt.Errorf("invalid email %q", details.Email)))
	}

	// 1. Idle -> NonceRequested
	challenge, err := m.nonces.Challenge(ctx, address, details)
	if err != nil {
		log.Warn("nonce request failed", zap.Error(err))
		out := outcomeOf(err)
		if out.Kind != KindMalformedInput {
			out.Kind = KindStorageUnavailable
		}
		return finish(out)
	}
	path = append(path, StateNonceRequested)

	// 2. NonceRequested -> MessageSigned
	signature, err := m.provider.PersonalSign(ctx, challenge.Message, session.Address)
	if err != nil {
		if wallet.IsUserRejected(err) {
			log.Debug("signature request cancelled")
			return finish(rejected(KindUserCancelled, nil))
		}
		log.Warn("signature request failed", zap.Error(err))
		return finish(rejected(KindSigningFailed, fmt.Errorf("personal_sign: %w", err)))
	}
	path = append(path, StateMessageSigned)

	// 3. MessageSigned -> Verified (local preflight)
	if !m.verifier.Verify(challenge.Message, signature, address) {
		log.Warn("wallet returned a signature for another account")
		return finish(rejected(KindVerificationFailed, fmt.Errorf("signature does not match %s", address)))
	}
	path = append(path, StateVerified)

	// 4. Verified -> DuplicateChecked -> Persisted, decided by the registrar
	receipt, err := m.registrar.Submit(ctx, Submission{
		WalletAddress: address,
		Email:         details.Email,
		Discord:       details.Discord,
		Message:       challenge.Message,
		Signature:     signature,
	})
	if err != nil {
		out := outcomeOf(err)
		log.Warn("registration rejected",
			zap.String("kind", string(out.Kind)),
			zap.String("field", out.Field),
			zap.Error(err),
		)
		return finish(out)
	}
	if !receipt.AlreadyExisted {
		path = append(path, StateDuplicateChecked)
	}

	log.Info("registration persisted", zap.Bool("already_existed", receipt.AlreadyExisted))
	return finish(Outcome{
		State:          StatePersisted,
		AlreadyExisted: receipt.AlreadyExisted,
		Email:          receipt.Email,
		Discord:        receipt.Discord,
	})
}

// WatchAccounts invokes reset once per account change until ctx is done or
// the subscription fails. Each attempt must be restarted after a reset.
func WatchAccounts(ctx context.Context, provider wallet.Provider, reset func(Session)) error {
	ch := make(chan wallet.AccountChange, 1)
	sub := provider.SubscribeAccounts(ctx, ch)
	defer sub.Unsubscribe()

	for {
		select {
		case change := <-ch:
			reset(Session{Address: strings.TrimSpace(change.Address)})
		case err := <-sub.Err():
			return err
		case <-ctx.Done():
			return nil
		}
	}
}
