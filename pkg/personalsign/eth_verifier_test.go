package personalsign

import (
	"crypto/ecdsa"
	"strings"
	"testing"

	"github.com/ethereum/go-ethereum/accounts"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/stretchr/testify/require"
)

func sign(t *testing.T, key *ecdsa.PrivateKey, msg string) string {
	t.Helper()
	sig, err := crypto.Sign(accounts.TextHash([]byte(msg)), key)
	require.NoError(t, err)
	sig[64] += 27
	return hexutil.Encode(sig)
}

func newKey(t *testing.T) (*ecdsa.PrivateKey, string) {
	t.Helper()
	key, err := crypto.GenerateKey()
	require.NoError(t, err)
	return key, crypto.PubkeyToAddress(key.PublicKey).Hex()
}

func TestVerifyAcceptsValidSignature(t *testing.T) {
	key, addr := newKey(t)
	msg := "TS Pass Authentication\n\nWallet: " + addr
	sig := sign(t, key, msg)

	v := NewEthVerifier()
	require.True(t, v.Verify(msg, sig, addr))
	require.True(t, v.Verify(msg, sig, strings.ToLower(addr)))
	require.True(t, v.Verify(msg, sig, "  "+addr+"  "))
}

func TestVerifyAcceptsZeroOneRecoveryID(t *testing.T) {
	key, addr := newKey(t)
	msg := "hello"
	raw, err := crypto.Sign(accounts.TextHash([]byte(msg)), key)
	require.NoError(t, err)

	require.True(t, NewEthVerifier().Verify(msg, hexutil.Encode(raw), addr))
}

func TestVerifyRejectsTampering(t *testing.T) {
	key, addr := newKey(t)
	_, other := newKey(t)
	msg := "Nonce: n1"
	sig := sign(t, key, msg)
	v := NewEthVerifier()

	t.Run("substituted_address", func(t *testing.T) {
		require.False(t, v.Verify(msg, sig, other))
	})

	t.Run("changed_message", func(t *testing.T) {
		require.False(t, v.Verify(msg+" ", sig, addr))
	})

	t.Run("bit_flipped_signature", func(t *testing.T) {
		raw, err := hexutil.Decode(sig)
		require.NoError(t, err)
		for _, i := range []int{0, 17, 40, 63} {
			flipped := append([]byte(nil), raw...)
			flipped[i] ^= 0x01
			require.False(t, v.Verify(msg, hexutil.Encode(flipped), addr), "byte %d", i)
		}
	})
}

func TestVerifyRejectsMalformedInput(t *testing.T) {
	key, addr := newKey(t)
	sig := sign(t, key, "m")
	v := NewEthVerifier()

	cases := map[string]struct {
		message, signature, address string
	}{
		"empty_message":   {"", sig, addr},
		"empty_signature": {"m", "", addr},
		"short_signature": {"m", sig[:100], addr},
		"long_signature":  {"m", sig + "00", addr},
		"not_hex":         {"m", "0x" + strings.Repeat("zz", 65), addr},
		"bad_recovery_id": {"m", sig[:130] + "05", addr},
		"empty_address":   {"m", sig, ""},
		"bad_address":     {"m", sig, "0x1234"},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			require.NotPanics(t, func() {
				require.False(t, v.Verify(tc.message, tc.signature, tc.address))
			})
		})
	}
}

func TestDecodeSignatureWithoutPrefix(t *testing.T) {
	key, _ := newKey(t)
	sig := sign(t, key, "m")

	raw, err := DecodeSignature(strings.TrimPrefix(sig, "0x"))
	require.NoError(t, err)
	require.Len(t, raw, SignatureLength)
	require.True(t, WellFormedSignature(sig))
	require.False(t, WellFormedSignature("0xdeadbeef"))
}

func TestDecodeSignatureRejectsRecoveryID(t *testing.T) {
	key, _ := newKey(t)
	sig := sign(t, key, "m")

	for _, v := range []string{"00", "01", "1b", "1c"} {
		_, err := DecodeSignature(sig[:130] + v)
		require.NoError(t, err, "v=%s", v)
	}
	for _, v := range []string{"02", "05", "1a", "1d", "ff"} {
		_, err := DecodeSignature(sig[:130] + v)
		require.ErrorIs(t, err, ErrInvalidRecoveryID, "v=%s", v)
		require.False(t, WellFormedSignature(sig[:130]+v))
	}
}
