package claim

import "time"

// ============================================================================
// Request DTOs
// ============================================================================

// RegisterRequest is the signed registration submitted by the browser client.
// Required fields are checked by the service so the error text stays stable.
type RegisterRequest struct {
	WalletAddress string `json:"wallet_address" example:"0xabc0000000000000000000000000000000000123"`
	Email         string `json:"email" example:"a@b.co"`
	Discord       string `json:"discord" example:"user#1234"`
	Message       string `json:"message"`
	Signature     string `json:"signature" example:"0x5f1c...1b"`
}

// IssueNonceRequest asks for a fresh challenge.
// Email and Discord are only echoed into the registration message.
type IssueNonceRequest struct {
	WalletAddress string `json:"wallet_address" binding:"required" example:"0xabc0000000000000000000000000000000000123"`
	Email         string `json:"email,omitempty" example:"a@b.co"`
	Discord       string `json:"discord,omitempty" example:"user#1234"`
}

func (r *RegisterRequest) toSubmission() Submission {
	return Submission{
		WalletAddress: r.WalletAddress,
		Email:         r.Email,
		Discord:       r.Discord,
		Message:       r.Message,
		Signature:     r.Signature,
	}
}

// ============================================================================
// Response DTOs
// ============================================================================

// RegisterResponse is the flat success body of POST /register
type RegisterResponse struct {
	Success        bool   `json:"success" example:"true"`
	AlreadyExisted bool   `json:"alreadyExisted" example:"false"`
	Email          string `json:"email" example:"a@b.co"`
	Discord        string `json:"discord" example:""`
}

// NonceResponse carries the issued nonce and the messages to sign
type NonceResponse struct {
	WalletAddress         string    `json:"wallet_address" example:"0xabc0000000000000000000000000000000000123"`
	Nonce                 string    `json:"nonce" example:"4b1f6c1e-8a57-4d0a-9b5e-6f2b3c2a9d10"`
	IssuedAt              time.Time `json:"issued_at"`
	Message               string    `json:"message"`
	AuthenticationMessage string    `json:"authentication_message"`
}

// ClaimResponse is the public view of a claim; nonce and signature are never exposed
type ClaimResponse struct {
	WalletAddress string    `json:"wallet_address" example:"0xabc0000000000000000000000000000000000123"`
	Email         string    `json:"email,omitempty" example:"a@b.co"`
	Discord       string    `json:"discord,omitempty" example:"user#1234"`
	Registered    bool      `json:"registered" example:"true"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// ToRegisterResponse converts a receipt to the response body
func ToRegisterResponse(r *Receipt) RegisterResponse {
	return RegisterResponse{
		Success:        true,
		AlreadyExisted: r.AlreadyExisted,
		Email:          r.Email,
		Discord:        r.Discord,
	}
}

// ToNonceResponse converts a challenge to the response body
func ToNonceResponse(ch *Challenge) NonceResponse {
	return NonceResponse{
		WalletAddress:         ch.WalletAddress,
		Nonce:                 ch.Nonce,
		IssuedAt:              ch.IssuedAt,
		Message:               ch.RegistrationMessage,
		AuthenticationMessage: ch.AuthenticationMessage,
	}
}

// ToClaimResponse converts a claim to the response body
func ToClaimResponse(c *Claim) ClaimResponse {
	return ClaimResponse{
		WalletAddress: c.WalletAddress,
		Email:         c.EmailAddress,
		Discord:       c.DiscordHandle,
		Registered:    c.Registered(),
		CreatedAt:     c.CreatedAt,
		UpdatedAt:     c.UpdatedAt,
	}
}
