package message

import (
	"errors"
	"strings"
	"time"
)

const (
	labelWallet   = "Wallet"
	labelEmail    = "Email"
	labelDiscord  = "Discord"
	labelNonce    = "Nonce"
	labelIssuedAt = "Issued At"
)

var (
	ErrEmptyMessage  = errors.New("message is empty")
	ErrMissingWallet = errors.New("message has no wallet line")
	ErrBadTimestamp  = errors.New("message timestamp is not RFC3339")
)

// Parsed is the structured view of a signed challenge message.
// Email and Discord are empty when the message carried the placeholder.
type Parsed struct {
	Kind     Kind
	Wallet   string
	Email    string
	Discord  string
	Nonce    string
	IssuedAt time.Time
	// HasDetails is true when Email/Discord lines were present
	HasDetails bool
}

// Parse extracts the labelled lines of a message produced by Builder.
// Unknown lines are ignored so older templates still parse.
func Parse(text string) (Parsed, error) {
	var p Parsed
	if strings.TrimSpace(text) == "" {
		return p, ErrEmptyMessage
	}

	lines := strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n")
	title := strings.TrimSpace(lines[0])
	switch {
	case strings.HasSuffix(title, " Authentication"):
		p.Kind = KindAuthentication
	case strings.HasSuffix(title, " Registration"):
		p.Kind = KindRegistration
	}

	for _, line := range lines[1:] {
		label, value, ok := strings.Cut(line, ": ")
		if !ok {
			continue
		}
		value = strings.TrimSpace(value)
		switch label {
		case labelWallet:
			p.Wallet = value
		case labelEmail:
			p.HasDetails = true
			p.Email = fromPlaceholder(value)
		case labelDiscord:
			p.HasDetails = true
			p.Discord = fromPlaceholder(value)
		case labelNonce:
			p.Nonce = value
		case labelIssuedAt:
			at, err := time.Parse(time.RFC3339, value)
			if err != nil {
				return p, ErrBadTimestamp
			}
			p.IssuedAt = at
		}
	}

	if p.Wallet == "" {
		return p, ErrMissingWallet
	}
	return p, nil
}

func fromPlaceholder(v string) string {
	if v == Placeholder {
		return ""
	}
	return v
}
