package claim

import (
	"context"
	stderrors "errors"
	"time"

	"github.com/ahwlsqja/ts-pass-claims/internal/common/errors"
	"github.com/ahwlsqja/ts-pass-claims/pkg/nonce"
	"go.uber.org/zap"
)

// NonceService issues the single-use challenge token for a wallet
type NonceService struct {
	gateway    Gateway
	limiter    nonce.Limiter
	newToken   func() string
	retryAfter time.Duration
	logger     *zap.Logger
}

// NewNonceService creates a nonce service; a nil limiter disables throttling
func NewNonceService(gateway Gateway, limiter nonce.Limiter, retryAfter time.Duration, logger *zap.Logger) *NonceService {
	if limiter == nil {
		limiter = nonce.NopLimiter{}
	}
	return &NonceService{
		gateway:    gateway,
		limiter:    limiter,
		newToken:   nonce.NewToken,
		retryAfter: retryAfter,
		logger:     logger,
	}
}

// Issue stores a fresh token on the wallet's row, invalidating any earlier one
func (s *NonceService) Issue(ctx context.Context, wallet string) (string, error) {
	if !ValidWallet(wallet) {
		return "", errors.InvalidInput("Invalid Ethereum address format")
	}
	wallet = NormalizeWallet(wallet)

	wait, err := s.limiter.Acquire(ctx, wallet)
	switch {
	case stderrors.Is(err, nonce.ErrCoolingDown):
		return "", errors.Throttled(wait)
	case err != nil:
		// throttling is best-effort; the store remains the authority
		s.logger.Warn("nonce limiter unavailable", zap.String("address", wallet), zap.Error(err))
	}

	token := s.newToken()
	if err := s.gateway.IssueOrTouchNonce(ctx, wallet, token); err != nil {
		s.logger.Error("failed to issue nonce",
			zap.String("address", wallet),
			zap.Error(err),
		)
		return "", errors.StorageUnavailable(err, s.retryAfter)
	}

	s.logger.Debug("nonce issued", zap.String("address", wallet))
	return token, nil
}
