package claim

import (
	"context"
	"sync"
	"time"
)

// MemoryGateway is an in-process Gateway.
// It is only safe for single-process deployments and tests.
type MemoryGateway struct {
	mu   sync.Mutex
	rows map[string]Claim
	now  func() time.Time
}

var _ Gateway = (*MemoryGateway)(nil)

func NewMemoryGateway() *MemoryGateway {
	return &MemoryGateway{
		rows: make(map[string]Claim),
		now:  time.Now,
	}
}

func (g *MemoryGateway) GetByWallet(ctx context.Context, wallet string) (*Claim, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	c, ok := g.rows[NormalizeWallet(wallet)]
	if !ok {
		return nil, nil
	}
	return &c, nil
}

func (g *MemoryGateway) IssueOrTouchNonce(ctx context.Context, wallet, token string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	wallet = NormalizeWallet(wallet)
	now := g.stamp()

	g.mu.Lock()
	defer g.mu.Unlock()
	c, ok := g.rows[wallet]
	if !ok {
		c = Claim{WalletAddress: wallet, CreatedAt: now}
	}
	c.Nonce = token
	c.UpdatedAt = now
	g.rows[wallet] = c
	return nil
}

func (g *MemoryGateway) FinalizeRegistration(ctx context.Context, p FinalizeParams) (*FinalizeResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	p = normalizeParams(p)
	now := g.stamp()

	g.mu.Lock()
	defer g.mu.Unlock()

	c, exists := g.rows[p.Wallet]
	if p.ExpectedNonce != "" && (!exists || c.Nonce != p.ExpectedNonce) {
		return nil, ErrNonceMismatch
	}

	if exists && c.EmailAddress != "" {
		c.Signature = p.Signature
		c.Nonce = ""
		c.UpdatedAt = now
		g.rows[p.Wallet] = c
		return &FinalizeResult{Created: false, Claim: c}, nil
	}

	if g.takenByOther(p.Wallet, func(o Claim) bool { return p.Email != "" && o.EmailAddress == p.Email }) {
		return nil, &DuplicateFieldError{Field: FieldEmail}
	}
	if g.takenByOther(p.Wallet, func(o Claim) bool { return p.Discord != "" && o.DiscordHandle == p.Discord }) {
		return nil, &DuplicateFieldError{Field: FieldDiscord}
	}

	if !exists {
		c = Claim{WalletAddress: p.Wallet, CreatedAt: now}
	}
	c.EmailAddress = p.Email
	c.DiscordHandle = p.Discord
	c.Signature = p.Signature
	c.Nonce = ""
	c.UpdatedAt = now
	g.rows[p.Wallet] = c
	return &FinalizeResult{Created: true, Claim: c}, nil
}

func (g *MemoryGateway) takenByOther(wallet string, match func(Claim) bool) bool {
	for w, other := range g.rows {
		if w != wallet && match(other) {
			return true
		}
	}
	return false
}

// stamp truncates to the millisecond precision the SQL store keeps
func (g *MemoryGateway) stamp() time.Time {
	return time.UnixMilli(g.now().UnixMilli())
}
