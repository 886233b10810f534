package claim

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/ahwlsqja/ts-pass-claims/internal/common/errors"
	"github.com/ahwlsqja/ts-pass-claims/pkg/message"
	"github.com/ahwlsqja/ts-pass-claims/pkg/nonce"
	"github.com/ahwlsqja/ts-pass-claims/pkg/personalsign"
	"github.com/ahwlsqja/ts-pass-claims/pkg/wallet"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fixture struct {
	gateway Gateway
	service *Service
	signer  *wallet.KeyProvider
	wallet  string
}

func newFixture(t *testing.T, gateway Gateway, opts Options) *fixture {
	t.Helper()
	signer, err := wallet.GenerateKeyProvider()
	require.NoError(t, err)

	logger := zap.NewNop()
	nonces := NewNonceService(gateway, nonce.NopLimiter{}, opts.RetryAfter, logger)
	svc := NewService(gateway, nonces, personalsign.NewEthVerifier(), message.NewBuilder(""), opts, logger)
	return &fixture{
		gateway: gateway,
		service: svc,
		signer:  signer,
		wallet:  signer.Address(),
	}
}

func strictOptions() Options {
	return Options{RequireNonce: true, RetryAfter: 2 * time.Second}
}

// signedSubmission issues a challenge and signs its registration message
func (f *fixture) signedSubmission(t *testing.T, email, discord string) Submission {
	t.Helper()
	ctx := context.Background()
	ch, err := f.service.IssueChallenge(ctx, f.wallet, email, discord)
	require.NoError(t, err)

	sig, err := f.signer.PersonalSign(ctx, ch.RegistrationMessage, f.wallet)
	require.NoError(t, err)
	return Submission{
		WalletAddress: f.wallet,
		Email:         email,
		Discord:       discord,
		Message:       ch.RegistrationMessage,
		Signature:     sig,
	}
}

func requireCode(t *testing.T, err error, code string) *errors.AppError {
	t.Helper()
	require.Error(t, err)
	appErr, ok := errors.As(err)
	require.True(t, ok, "expected *AppError, got %T: %v", err, err)
	require.Equal(t, code, appErr.Code)
	return appErr
}

func TestRegisterScenario(t *testing.T) {
	forEachGateway(t, func(t *testing.T, g Gateway) {
		ctx := context.Background()
		f := newFixture(t, g, strictOptions())

		receipt, err := f.service.Register(ctx, f.signedSubmission(t, "a@b.co", ""))
		require.NoError(t, err)
		require.Equal(t, &Receipt{AlreadyExisted: false, Email: "a@b.co", Discord: ""}, receipt)

		// second attempt with a different email keeps the first one
		receipt, err = f.service.Register(ctx, f.signedSubmission(t, "other@b.co", "x"))
		require.NoError(t, err)
		require.Equal(t, &Receipt{AlreadyExisted: true, Email: "a@b.co", Discord: ""}, receipt)

		stored, err := f.service.GetClaim(ctx, f.wallet)
		require.NoError(t, err)
		require.Equal(t, "a@b.co", stored.EmailAddress)
		require.Empty(t, stored.Nonce)
	})
}

func TestRegisterNormalizesDetails(t *testing.T) {
	forEachGateway(t, func(t *testing.T, g Gateway) {
		ctx := context.Background()
		f := newFixture(t, g, strictOptions())

		sub := f.signedSubmission(t, "  Alice@Example.COM ", " Alice#0001 ")
		receipt, err := f.service.Register(ctx, sub)
		require.NoError(t, err)
		require.Equal(t, "alice@example.com", receipt.Email)
		require.Equal(t, "Alice#0001", receipt.Discord)

		stored, err := f.gateway.GetByWallet(ctx, f.wallet)
		require.NoError(t, err)
		require.Equal(t, "alice@example.com", stored.EmailAddress)
		require.Equal(t, "Alice#0001", stored.DiscordHandle)
	})
}

func TestRegisterRejectsSupersededNonce(t *testing.T) {
	forEachGateway(t, func(t *testing.T, g Gateway) {
		ctx := context.Background()
		f := newFixture(t, g, strictOptions())

		first := f.signedSubmission(t, "a@b.co", "")
		_, err := f.service.IssueChallenge(ctx, f.wallet, "", "")
		require.NoError(t, err)

		_, err = f.service.Register(ctx, first)
		requireCode(t, err, errors.CodeNonceMismatch)

		stored, err := f.gateway.GetByWallet(ctx, f.wallet)
		require.NoError(t, err)
		require.False(t, stored.Registered())
	})
}

func TestRegisterRejectsReplay(t *testing.T) {
	forEachGateway(t, func(t *testing.T, g Gateway) {
		ctx := context.Background()
		f := newFixture(t, g, strictOptions())

		sub := f.signedSubmission(t, "a@b.co", "")
		_, err := f.service.Register(ctx, sub)
		require.NoError(t, err)

		_, err = f.service.Register(ctx, sub)
		requireCode(t, err, errors.CodeNonceMismatch)
	})
}

func TestRegisterDuplicateFields(t *testing.T) {
	forEachGateway(t, func(t *testing.T, g Gateway) {
		ctx := context.Background()
		alice := newFixture(t, g, strictOptions())
		bob := newFixture(t, g, strictOptions())

		_, err := alice.service.Register(ctx, alice.signedSubmission(t, "e@x.io", "alice"))
		require.NoError(t, err)

		_, err = bob.service.Register(ctx, bob.signedSubmission(t, "E@x.io", "bob"))
		appErr := requireCode(t, err, errors.CodeDuplicateField)
		require.Equal(t, FieldEmail, appErr.Field())
		require.Equal(t, 409, appErr.StatusCode)

		_, err = bob.service.Register(ctx, bob.signedSubmission(t, "bob@x.io", "alice"))
		appErr = requireCode(t, err, errors.CodeDuplicateField)
		require.Equal(t, FieldDiscord, appErr.Field())

		stored, err := g.GetByWallet(ctx, bob.wallet)
		require.NoError(t, err)
		require.False(t, stored.Registered())
	})
}

func TestRegisterValidation(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, NewMemoryGateway(), strictOptions())
	valid := f.signedSubmission(t, "a@b.co", "")

	cases := map[string]struct {
		mutate func(s *Submission)
		code   string
	}{
		"missing_wallet":     {func(s *Submission) { s.WalletAddress = "" }, errors.CodeInvalidInput},
		"missing_email":      {func(s *Submission) { s.Email = "" }, errors.CodeInvalidInput},
		"missing_message":    {func(s *Submission) { s.Message = "" }, errors.CodeInvalidInput},
		"missing_signature":  {func(s *Submission) { s.Signature = "" }, errors.CodeInvalidInput},
		"bad_wallet":         {func(s *Submission) { s.WalletAddress = "0x1234" }, errors.CodeInvalidInput},
		"bad_email":          {func(s *Submission) { s.Email = "not-an-email" }, errors.CodeInvalidInput},
		"short_signature":    {func(s *Submission) { s.Signature = "0xdeadbeef" }, errors.CodeInvalidInput},
		"bad_recovery_id":    {func(s *Submission) { s.Signature = s.Signature[:130] + "05" }, errors.CodeInvalidInput},
		"tampered_message":   {func(s *Submission) { s.Message += " " }, errors.CodeVerificationFailed},
		"other_wallet":       {func(s *Submission) { s.WalletAddress = walletB }, errors.CodeVerificationFailed},
		"email_not_signed":   {func(s *Submission) { s.Email = "z@b.co" }, errors.CodeVerificationFailed},
		"discord_not_signed": {func(s *Submission) { s.Discord = "mallory" }, errors.CodeVerificationFailed},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			sub := valid
			tc.mutate(&sub)
			_, err := f.service.Register(ctx, sub)
			requireCode(t, err, tc.code)
		})
	}

	_, err := f.service.Register(ctx, Submission{})
	appErr := requireCode(t, err, errors.CodeInvalidInput)
	require.Equal(t, "Missing required fields: wallet_address, email, message, signature", appErr.Message)

	// nothing above reached the store
	stored, err := f.gateway.GetByWallet(ctx, f.wallet)
	require.NoError(t, err)
	require.False(t, stored.Registered())
	require.Contains(t, valid.Message, "Nonce: "+stored.Nonce)
}

func TestRegisterWithoutNoncePolicy(t *testing.T) {
	ctx := context.Background()
	builder := message.NewBuilder("")
	at := time.Date(2026, 3, 1, 12, 30, 0, 0, time.UTC)

	sign := func(t *testing.T, f *fixture) Submission {
		msg := builder.Registration(message.Fields{Wallet: strings.ToLower(f.wallet), Email: "a@b.co"}, at)
		sig, err := f.signer.PersonalSign(ctx, msg, f.wallet)
		require.NoError(t, err)
		return Submission{WalletAddress: f.wallet, Email: "a@b.co", Message: msg, Signature: sig}
	}

	t.Run("strict", func(t *testing.T) {
		f := newFixture(t, NewMemoryGateway(), strictOptions())
		_, err := f.service.Register(ctx, sign(t, f))
		requireCode(t, err, errors.CodeNonceMismatch)
	})

	t.Run("lenient", func(t *testing.T) {
		f := newFixture(t, NewMemoryGateway(), Options{RequireNonce: false})
		receipt, err := f.service.Register(ctx, sign(t, f))
		require.NoError(t, err)
		require.False(t, receipt.AlreadyExisted)
	})
}

func TestRegisterConcurrentSameNonce(t *testing.T) {
	forEachGateway(t, func(t *testing.T, g Gateway) {
		ctx := context.Background()
		f := newFixture(t, g, strictOptions())
		sub := f.signedSubmission(t, "a@b.co", "")

		const attempts = 8
		var wg sync.WaitGroup
		receipts := make([]*Receipt, attempts)
		errs := make([]error, attempts)
		for i := 0; i < attempts; i++ {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				receipts[i], errs[i] = f.service.Register(ctx, sub)
			}(i)
		}
		wg.Wait()

		created := 0
		for i := range errs {
			if errs[i] != nil {
				require.True(t, errors.HasCode(errs[i], errors.CodeNonceMismatch), "unexpected error: %v", errs[i])
				continue
			}
			if !receipts[i].AlreadyExisted {
				created++
			}
		}
		require.Equal(t, 1, created)
	})
}

type failingGateway struct {
	Gateway
	err error
}

func (g failingGateway) GetByWallet(context.Context, string) (*Claim, error) { return nil, g.err }

func (g failingGateway) IssueOrTouchNonce(context.Context, string, string) error { return g.err }

func TestStorageFailuresCarryRetryAfter(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, failingGateway{Gateway: NewMemoryGateway(), err: context.DeadlineExceeded}, strictOptions())

	_, err := f.service.IssueChallenge(ctx, f.wallet, "", "")
	appErr := requireCode(t, err, errors.CodeStorageUnavailable)
	require.Equal(t, 2*time.Second, appErr.RetryAfter())
	require.ErrorIs(t, err, context.DeadlineExceeded)

	_, err = f.service.GetClaim(ctx, f.wallet)
	requireCode(t, err, errors.CodeStorageUnavailable)
}

func TestRegisterStorageFailureIsPersistFailed(t *testing.T) {
	ctx := context.Background()
	healthy := newFixture(t, NewMemoryGateway(), strictOptions())
	sub := healthy.signedSubmission(t, "a@b.co", "")

	logger := zap.NewNop()
	broken := failingGateway{Gateway: NewMemoryGateway(), err: context.DeadlineExceeded}
	svc := NewService(broken, NewNonceService(broken, nil, time.Second, logger),
		personalsign.NewEthVerifier(), message.NewBuilder(""), strictOptions(), logger)

	_, err := svc.Register(ctx, sub)
	appErr := requireCode(t, err, errors.CodePersistFailed)
	require.Equal(t, 2*time.Second, appErr.RetryAfter())
	require.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestRegisterRejectsMalformedTitledMessage(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, NewMemoryGateway(), strictOptions())
	_, err := f.service.IssueChallenge(ctx, f.wallet, "", "")
	require.NoError(t, err)

	submit := func(t *testing.T, msg string) error {
		sig, err := f.signer.PersonalSign(ctx, msg, f.wallet)
		require.NoError(t, err)
		_, err = f.service.Register(ctx, Submission{WalletAddress: f.wallet, Email: "a@b.co", Message: msg, Signature: sig})
		return err
	}

	t.Run("bad_timestamp", func(t *testing.T) {
		msg := "TS Pass Registration\n\nWallet: " + strings.ToLower(f.wallet) + "\nEmail: a@b.co\nIssued At: yesterday"
		requireCode(t, submit(t, msg), errors.CodeVerificationFailed)
	})

	t.Run("missing_wallet", func(t *testing.T) {
		msg := "TS Pass Registration\n\nEmail: a@b.co"
		requireCode(t, submit(t, msg), errors.CodeVerificationFailed)
	})

	t.Run("untitled_falls_through_to_nonce", func(t *testing.T) {
		requireCode(t, submit(t, "hello"), errors.CodeNonceMismatch)
	})

	stored, err := f.gateway.GetByWallet(ctx, f.wallet)
	require.NoError(t, err)
	require.False(t, stored.Registered())
}

func TestIssueChallengeThrottled(t *testing.T) {
	ctx := context.Background()
	g := NewMemoryGateway()
	logger := zap.NewNop()
	nonces := NewNonceService(g, nonce.NewMemoryLimiter(time.Minute), time.Second, logger)
	svc := NewService(g, nonces, personalsign.NewEthVerifier(), message.NewBuilder(""), strictOptions(), logger)

	_, err := svc.IssueChallenge(ctx, walletA, "", "")
	require.NoError(t, err)

	_, err = svc.IssueChallenge(ctx, walletA, "", "")
	appErr := requireCode(t, err, errors.CodeThrottled)
	require.Greater(t, appErr.RetryAfter(), time.Duration(0))

	// a different wallet has its own cooldown
	_, err = svc.IssueChallenge(ctx, walletB, "", "")
	require.NoError(t, err)
}

func TestIssueChallengeZeroCooldownNeverThrottles(t *testing.T) {
	ctx := context.Background()
	g := NewMemoryGateway()
	logger := zap.NewNop()
	nonces := NewNonceService(g, nonce.NewMemoryLimiter(0), time.Second, logger)
	svc := NewService(g, nonces, personalsign.NewEthVerifier(), message.NewBuilder(""), strictOptions(), logger)

	for i := 0; i < 3; i++ {
		_, err := svc.IssueChallenge(ctx, walletA, "", "")
		require.NoError(t, err)
	}
}

func TestIssueChallengeBuildsMessages(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, NewMemoryGateway(), strictOptions())

	ch, err := f.service.IssueChallenge(ctx, f.wallet, "A@B.co", "")
	require.NoError(t, err)
	require.Equal(t, strings.ToLower(f.wallet), ch.WalletAddress)
	require.NotEmpty(t, ch.Nonce)

	parsed, err := message.Parse(ch.RegistrationMessage)
	require.NoError(t, err)
	require.Equal(t, message.KindRegistration, parsed.Kind)
	require.Equal(t, ch.Nonce, parsed.Nonce)
	require.Equal(t, "a@b.co", parsed.Email)
	require.True(t, parsed.IssuedAt.Equal(ch.IssuedAt))

	auth, err := message.Parse(ch.AuthenticationMessage)
	require.NoError(t, err)
	require.Equal(t, message.KindAuthentication, auth.Kind)
	require.Equal(t, ch.Nonce, auth.Nonce)

	_, err = f.service.IssueChallenge(ctx, "0xnothex", "", "")
	requireCode(t, err, errors.CodeInvalidInput)
}

func TestGetClaimNotFound(t *testing.T) {
	f := newFixture(t, NewMemoryGateway(), strictOptions())
	_, err := f.service.GetClaim(context.Background(), walletA)
	requireCode(t, err, errors.CodeNotFound)
}
