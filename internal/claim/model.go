package claim

import (
	"strings"
	"time"

	"github.com/ethereum/go-ethereum/common"
)

// Claim is the single row stored per wallet
type Claim struct {
	WalletAddress string
	EmailAddress  string
	DiscordHandle string
	Signature     string
	Nonce         string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// Registered reports whether the wallet completed registration
func (c *Claim) Registered() bool {
	return c != nil && c.EmailAddress != ""
}

// NormalizeWallet trims and lower-cases a wallet address
func NormalizeWallet(address string) string {
	return strings.ToLower(strings.TrimSpace(address))
}

// NormalizeEmail trims and lower-cases an email address
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// NormalizeDiscord trims a Discord handle; case is preserved
func NormalizeDiscord(handle string) string {
	return strings.TrimSpace(handle)
}

// ValidWallet reports whether address is a 20-byte hex address
func ValidWallet(address string) bool {
	address = strings.TrimSpace(address)
	return len(address) == 42 && common.IsHexAddress(address)
}

// ValidEmail performs the minimal shape check the registration form performs
func ValidEmail(email string) bool {
	local, domain, ok := strings.Cut(email, "@")
	return ok && local != "" && domain != "" && !strings.ContainsAny(email, " \t\r\n")
}
