package message

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

var fixedTime = time.Date(2026, 3, 1, 12, 30, 0, 0, time.UTC)

func TestRegistrationMessageIsByteExact(t *testing.T) {
	b := NewBuilder("")
	got := b.Registration(Fields{
		Wallet: "0xabc0000000000000000000000000000000000123",
		Nonce:  "n1",
		Email:  "a@b.co",
	}, fixedTime)

	want := "TS Pass Registration\n\n" +
		"I confirm that I control this wallet and want to register the details below.\n\n" +
		"Wallet: 0xabc0000000000000000000000000000000000123\n" +
		"Email: a@b.co\n" +
		"Discord: (not provided)\n" +
		"\n" +
		"This request will not trigger a blockchain transaction or cost any gas fees.\n\n" +
		"Nonce: n1\n" +
		"Issued At: 2026-03-01T12:30:00Z"
	require.Equal(t, want, got)
}

func TestAuthenticationMessageOmitsDetails(t *testing.T) {
	b := NewBuilder("Inner Circle")
	got := b.Authentication(Fields{Wallet: "0xabc", Nonce: "tok"}, fixedTime)

	require.True(t, strings.HasPrefix(got, "Inner Circle Authentication\n"))
	require.Contains(t, got, "Wallet: 0xabc\n")
	require.Contains(t, got, "Nonce: tok\n")
	require.NotContains(t, got, "Email:")
	require.NotContains(t, got, "Discord:")
}

func TestMessageWithoutNonceHasNoNonceLine(t *testing.T) {
	got := NewBuilder("").Authentication(Fields{Wallet: "0xabc"}, fixedTime)
	require.NotContains(t, got, "Nonce:")
	require.True(t, strings.HasSuffix(got, "Issued At: 2026-03-01T12:30:00Z"))
}

func TestBuildIsDeterministic(t *testing.T) {
	b := NewBuilder("")
	f := Fields{Wallet: "0xabc", Nonce: "n", Email: "e@x.io", Discord: "user#1"}
	require.Equal(t, b.Build(KindRegistration, f, fixedTime), b.Build(KindRegistration, f, fixedTime))

	local := fixedTime.In(time.FixedZone("KST", 9*60*60))
	require.Equal(t, b.Build(KindRegistration, f, fixedTime), b.Build(KindRegistration, f, local))
}

func TestParseRoundTrip(t *testing.T) {
	b := NewBuilder("")

	t.Run("registration", func(t *testing.T) {
		text := b.Registration(Fields{Wallet: "0xabc", Nonce: "n1", Email: "a@b.co"}, fixedTime)
		p, err := Parse(text)
		require.NoError(t, err)
		require.Equal(t, KindRegistration, p.Kind)
		require.Equal(t, "0xabc", p.Wallet)
		require.Equal(t, "a@b.co", p.Email)
		require.Equal(t, "", p.Discord)
		require.Equal(t, "n1", p.Nonce)
		require.True(t, p.HasDetails)
		require.True(t, p.IssuedAt.Equal(fixedTime))
	})

	t.Run("authentication", func(t *testing.T) {
		p, err := Parse(b.Authentication(Fields{Wallet: "0xabc"}, fixedTime))
		require.NoError(t, err)
		require.Equal(t, KindAuthentication, p.Kind)
		require.Empty(t, p.Nonce)
		require.False(t, p.HasDetails)
	})
}

func TestParseRejectsGarbage(t *testing.T) {
	_, err := Parse("   ")
	require.ErrorIs(t, err, ErrEmptyMessage)

	_, err = Parse("hello\nNonce: x")
	require.ErrorIs(t, err, ErrMissingWallet)

	_, err = Parse("TS Pass Registration\nWallet: 0xabc\nIssued At: yesterday")
	require.ErrorIs(t, err, ErrBadTimestamp)
}
