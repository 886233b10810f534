package personalsign

import (
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum/accounts"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/crypto"
)

// EthVerifier implements Verifier using go-ethereum signature recovery
type EthVerifier struct{}

// Compile-time interface compliance check
var _ Verifier = EthVerifier{}

// NewEthVerifier creates a new personal_sign verifier
func NewEthVerifier() EthVerifier {
	return EthVerifier{}
}

// Verify recovers the signer and compares it with claimedAddress
func (EthVerifier) Verify(message, signature, claimedAddress string) bool {
	claimed := NormalizeAddress(claimedAddress)
	if claimed == "" || !common.IsHexAddress(claimed) {
		return false
	}

	recovered, err := Recover(message, signature)
	if err != nil {
		return false
	}
	return strings.EqualFold(recovered.Hex(), claimed)
}

// Recover returns the address that produced signature over message
func Recover(message, signature string) (common.Address, error) {
	if message == "" {
		return common.Address{}, ErrEmptyMessage
	}

	sig, err := DecodeSignature(signature)
	if err != nil {
		return common.Address{}, err
	}

	// 1. EIP-191 digest: keccak256("\x19Ethereum Signed Message:\n" + len + message)
	digest := accounts.TextHash([]byte(message))

	// 2. Normalize v value (27/28 -> 0/1)
	if sig[64] >= 27 {
		sig[64] -= 27
	}
	if sig[64] > 1 {
		return common.Address{}, ErrInvalidRecoveryID
	}

	// 3. Recover public key
	pubKey, err := crypto.SigToPub(digest, sig)
	if err != nil {
		return common.Address{}, fmt.Errorf("failed to recover public key: %w", err)
	}

	return crypto.PubkeyToAddress(*pubKey), nil
}

// DecodeSignature parses a 0x-prefixed 65-byte hex signature into a fresh slice.
// The recovery id must be 0, 1, 27 or 28.
func DecodeSignature(signature string) ([]byte, error) {
	signature = strings.TrimSpace(signature)
	if !strings.HasPrefix(signature, "0x") && !strings.HasPrefix(signature, "0X") {
		signature = "0x" + signature
	}
	if len(signature) < MinSignatureHexLength {
		return nil, ErrInvalidSignatureLen
	}

	sig, err := hexutil.Decode(signature)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidSignature, err)
	}
	if len(sig) != SignatureLength {
		return nil, ErrInvalidSignatureLen
	}
	switch sig[64] {
	case 0, 1, 27, 28:
	default:
		return nil, ErrInvalidRecoveryID
	}
	return sig, nil
}

// WellFormedSignature reports whether signature decodes to 65 bytes with a valid recovery id
func WellFormedSignature(signature string) bool {
	_, err := DecodeSignature(signature)
	return err == nil
}
