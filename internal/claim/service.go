package claim

import (
	"context"
	stderrors "errors"
	"time"

	"github.com/ahwlsqja/ts-pass-claims/internal/common/errors"
	"github.com/ahwlsqja/ts-pass-claims/pkg/message"
	"github.com/ahwlsqja/ts-pass-claims/pkg/personalsign"
	"go.uber.org/zap"
)

// Options tunes registration policy
type Options struct {
	// RequireNonce refuses registrations whose wallet has no outstanding nonce
	RequireNonce bool
	// RetryAfter is the cooldown recommended to clients after storage failures
	RetryAfter time.Duration
}

// Service is the authoritative registration path.
// It re-verifies every submission with server-held storage credentials.
type Service struct {
	gateway  Gateway
	nonces   *NonceService
	verifier personalsign.Verifier
	builder  *message.Builder
	opts     Options
	now      func() time.Time
	logger   *zap.Logger
}

// NewService creates a new claim service
func NewService(gateway Gateway, nonces *NonceService, verifier personalsign.Verifier, builder *message.Builder, opts Options, logger *zap.Logger) *Service {
	return &Service{
		gateway:  gateway,
		nonces:   nonces,
		verifier: verifier,
		builder:  builder,
		opts:     opts,
		now:      time.Now,
		logger:   logger,
	}
}

// Submission is a signed registration as received from a client
type Submission struct {
	WalletAddress string
	Email         string
	Discord       string
	Message       string
	Signature     string
}

// Receipt is the outcome of a persisted registration
type Receipt struct {
	AlreadyExisted bool
	Email          string
	Discord        string
}

// Challenge is a freshly issued nonce with the messages built around it
type Challenge struct {
	WalletAddress         string
	Nonce                 string
	IssuedAt              time.Time
	RegistrationMessage   string
	AuthenticationMessage string
}

// IssueChallenge issues a nonce and builds both message kinds for it
func (s *Service) IssueChallenge(ctx context.Context, wallet, email, discord string) (*Challenge, error) {
	token, err := s.nonces.Issue(ctx, wallet)
	if err != nil {
		return nil, err
	}

	wallet = NormalizeWallet(wallet)
	at := s.now().UTC().Truncate(time.Second)
	fields := message.Fields{
		Wallet:  wallet,
		Nonce:   token,
		Email:   NormalizeEmail(email),
		Discord: NormalizeDiscord(discord),
	}
	return &Challenge{
		WalletAddress:         wallet,
		Nonce:                 token,
		IssuedAt:              at,
		RegistrationMessage:   s.builder.Registration(fields, at),
		AuthenticationMessage: s.builder.Authentication(fields, at),
	}, nil
}

// GetClaim returns the stored claim for wallet
func (s *Service) GetClaim(ctx context.Context, wallet string) (*Claim, error) {
	if !ValidWallet(wallet) {
		return nil, errors.InvalidInput("Invalid Ethereum address format")
	}
	c, err := s.gateway.GetByWallet(ctx, wallet)
	if err != nil {
		s.logger.Error("failed to get claim", zap.String("address", wallet), zap.Error(err))
		return nil, errors.StorageUnavailable(err, s.opts.RetryAfter)
	}
	if c == nil {
		return nil, errors.NotFound("Claim")
	}
	return c, nil
}

// Register verifies and persists a signed submission
func (s *Service) Register(ctx context.Context, sub Submission) (*Receipt, error) {
	// 1. Validate input
	if sub.WalletAddress == "" || sub.Email == "" || sub.Message == "" || sub.Signature == "" {
		return nil, errors.InvalidInput("Missing required fields: wallet_address, email, message, signature")
	}
	if !ValidWallet(sub.WalletAddress) {
		return nil, errors.InvalidInput("Invalid Ethereum address format")
	}
	wallet := NormalizeWallet(sub.WalletAddress)
	email := NormalizeEmail(sub.Email)
	discord := NormalizeDiscord(sub.Discord)
	if !ValidEmail(email) {
		return nil, errors.InvalidInput("Invalid email format.")
	}
	if !personalsign.WellFormedSignature(sub.Signature) {
		return nil, errors.InvalidInput("Invalid signature")
	}

	// 2. Verify signature (hard failure)
	if !s.verifier.Verify(sub.Message, sub.Signature, wallet) {
		s.logger.Warn("signature verification failed", zap.String("address", wallet))
		return nil, errors.VerificationFailed("Signature does not match wallet address")
	}

	// 3. Signed text must describe this submission
	signed, parseErr := message.Parse(sub.Message)
	if parseErr != nil && signed.Kind != "" {
		s.logger.Warn("signed message is malformed", zap.String("address", wallet), zap.Error(parseErr))
		return nil, errors.VerificationFailed("Signed message is malformed")
	}
	if parseErr == nil && !bindsSubmission(signed, wallet, email, discord) {
		s.logger.Warn("signed message does not match submission", zap.String("address", wallet))
		return nil, errors.VerificationFailed("Signed message does not match submitted details")
	}

	// 4. Nonce must be the outstanding one
	existing, err := s.gateway.GetByWallet(ctx, wallet)
	if err != nil {
		s.logger.Error("failed to load claim", zap.String("address", wallet), zap.Error(err))
		return nil, errors.PersistFailed(err, s.opts.RetryAfter)
	}
	expected, ok := s.expectedNonce(existing, signed.Nonce)
	if !ok {
		s.logger.Warn("nonce mismatch", zap.String("address", wallet))
		return nil, errors.NonceMismatch()
	}

	// 5. Duplicate check + persist
	res, err := s.gateway.FinalizeRegistration(ctx, FinalizeParams{
		Wallet:        wallet,
		Email:         email,
		Discord:       discord,
		Signature:     sub.Signature,
		ExpectedNonce: expected,
	})
	if err != nil {
		return nil, s.mapFinalizeError(wallet, err)
	}

	s.logger.Info("claim registered",
		zap.String("address", wallet),
		zap.Bool("already_existed", !res.Created),
	)
	return &Receipt{
		AlreadyExisted: !res.Created,
		Email:          res.Claim.EmailAddress,
		Discord:        res.Claim.DiscordHandle,
	}, nil
}

// expectedNonce decides which stored nonce the write must consume
func (s *Service) expectedNonce(existing *Claim, signedNonce string) (string, bool) {
	stored := ""
	if existing != nil {
		stored = existing.Nonce
	}
	if stored == "" {
		return "", !s.opts.RequireNonce
	}
	return stored, signedNonce == stored
}

func (s *Service) mapFinalizeError(wallet string, err error) error {
	if field, ok := DuplicateFieldOf(err); ok {
		s.logger.Info("duplicate registration field",
			zap.String("address", wallet),
			zap.String("field", field),
		)
		return errors.DuplicateField(field)
	}
	if stderrors.Is(err, ErrNonceMismatch) {
		return errors.NonceMismatch()
	}
	s.logger.Error("failed to persist registration", zap.String("address", wallet), zap.Error(err))
	return errors.PersistFailed(err, s.opts.RetryAfter)
}

func bindsSubmission(signed message.Parsed, wallet, email, discord string) bool {
	if NormalizeWallet(signed.Wallet) != wallet {
		return false
	}
	if !signed.HasDetails {
		return true
	}
	return NormalizeEmail(signed.Email) == email && NormalizeDiscord(signed.Discord) == discord
}
