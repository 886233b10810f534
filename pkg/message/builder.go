package message

import (
	"strings"
	"time"
)

const (
	// DefaultAppName is used in the preamble when no application name is configured
	DefaultAppName = "TS Pass"

	// Placeholder is rendered for optional fields the user left empty
	Placeholder = "(not provided)"

	// GasDisclosure tells the signer that signing costs nothing
	GasDisclosure = "This request will not trigger a blockchain transaction or cost any gas fees."

	authenticationStatement = "Sign this message to prove you own this wallet."
	registrationStatement   = "I confirm that I control this wallet and want to register the details below."
)

// Kind identifies which message template was used
type Kind string

const (
	KindAuthentication Kind = "authentication"
	KindRegistration   Kind = "registration"
)

// Fields holds the values embedded in a challenge message
type Fields struct {
	Wallet  string
	Nonce   string
	Email   string
	Discord string
}

// Builder constructs challenge messages for a single application
type Builder struct {
	appName string
}

// NewBuilder creates a builder; an empty appName falls back to DefaultAppName
func NewBuilder(appName string) *Builder {
	appName = strings.TrimSpace(appName)
	if appName == "" {
		appName = DefaultAppName
	}
	return &Builder{appName: appName}
}

// Authentication builds the short wallet-only message
func (b *Builder) Authentication(f Fields, at time.Time) string {
	var sb strings.Builder
	sb.WriteString(b.title(KindAuthentication))
	sb.WriteString("\n\n")
	sb.WriteString(authenticationStatement)
	sb.WriteString("\n\n")
	writeLine(&sb, labelWallet, f.Wallet)
	b.writeFooter(&sb, f.Nonce, at)
	return sb.String()
}

// Registration builds the message binding wallet, email and discord together
func (b *Builder) Registration(f Fields, at time.Time) string {
	var sb strings.Builder
	sb.WriteString(b.title(KindRegistration))
	sb.WriteString("\n\n")
	sb.WriteString(registrationStatement)
	sb.WriteString("\n\n")
	writeLine(&sb, labelWallet, f.Wallet)
	writeLine(&sb, labelEmail, orPlaceholder(f.Email))
	writeLine(&sb, labelDiscord, orPlaceholder(f.Discord))
	b.writeFooter(&sb, f.Nonce, at)
	return sb.String()
}

// Build dispatches on kind
func (b *Builder) Build(kind Kind, f Fields, at time.Time) string {
	if kind == KindAuthentication {
		return b.Authentication(f, at)
	}
	return b.Registration(f, at)
}

func (b *Builder) title(kind Kind) string {
	if kind == KindAuthentication {
		return b.appName + " Authentication"
	}
	return b.appName + " Registration"
}

func (b *Builder) writeFooter(sb *strings.Builder, nonce string, at time.Time) {
	sb.WriteString("\n")
	sb.WriteString(GasDisclosure)
	sb.WriteString("\n\n")
	if nonce != "" {
		writeLine(sb, labelNonce, nonce)
	}
	sb.WriteString(labelIssuedAt)
	sb.WriteString(": ")
	sb.WriteString(FormatTimestamp(at))
}

// FormatTimestamp renders the ISO-8601 timestamp embedded in messages
func FormatTimestamp(at time.Time) string {
	return at.UTC().Format(time.RFC3339)
}

func writeLine(sb *strings.Builder, label, value string) {
	sb.WriteString(label)
	sb.WriteString(": ")
	sb.WriteString(value)
	sb.WriteString("\n")
}

func orPlaceholder(v string) string {
	v = strings.TrimSpace(v)
	if v == "" {
		return Placeholder
	}
	return v
}
