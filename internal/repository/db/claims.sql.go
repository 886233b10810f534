package db

import (
	"context"
	"database/sql"
)

const findOtherWalletByDiscord = `-- name: FindOtherWalletByDiscord :one
SELECT wallet_address
FROM claims
WHERE discord_handle = ? AND wallet_address <> ?
LIMIT 1
`

type FindOtherWalletByDiscordParams struct {
	DiscordHandle sql.NullString
	WalletAddress string
}

func (q *Queries) FindOtherWalletByDiscord(ctx context.Context, arg FindOtherWalletByDiscordParams) (string, error) {
	row := q.db.QueryRowContext(ctx, findOtherWalletByDiscord, arg.DiscordHandle, arg.WalletAddress)
	var wallet_address string
	err := row.Scan(&wallet_address)
	return wallet_address, err
}

const findOtherWalletByEmail = `-- name: FindOtherWalletByEmail :one
SELECT wallet_address
FROM claims
WHERE email_address = ? AND wallet_address <> ?
LIMIT 1
`

type FindOtherWalletByEmailParams struct {
	EmailAddress  sql.NullString
	WalletAddress string
}

func (q *Queries) FindOtherWalletByEmail(ctx context.Context, arg FindOtherWalletByEmailParams) (string, error) {
	row := q.db.QueryRowContext(ctx, findOtherWalletByEmail, arg.EmailAddress, arg.WalletAddress)
	var wallet_address string
	err := row.Scan(&wallet_address)
	return wallet_address, err
}

const getClaimByWallet = `-- name: GetClaimByWallet :one
SELECT wallet_address, email_address, discord_handle, signature, nonce, created_at, updated_at
FROM claims
WHERE wallet_address = ?
`

func (q *Queries) GetClaimByWallet(ctx context.Context, walletAddress string) (Claim, error) {
	row := q.db.QueryRowContext(ctx, getClaimByWallet, walletAddress)
	var i Claim
	err := row.Scan(
		&i.WalletAddress,
		&i.EmailAddress,
		&i.DiscordHandle,
		&i.Signature,
		&i.Nonce,
		&i.CreatedAt,
		&i.UpdatedAt,
	)
	return i, err
}

const insertClaimNonce = `-- name: InsertClaimNonce :exec
INSERT INTO claims (wallet_address, nonce, created_at, updated_at)
VALUES (?, ?, ?, ?)
`

type InsertClaimNonceParams struct {
	WalletAddress string
	Nonce         sql.NullString
	CreatedAt     int64
	UpdatedAt     int64
}

func (q *Queries) InsertClaimNonce(ctx context.Context, arg InsertClaimNonceParams) error {
	_, err := q.db.ExecContext(ctx, insertClaimNonce,
		arg.WalletAddress,
		arg.Nonce,
		arg.CreatedAt,
		arg.UpdatedAt,
	)
	return err
}

const insertRegisteredClaim = `-- name: InsertRegisteredClaim :exec
INSERT INTO claims (wallet_address, email_address, discord_handle, signature, nonce, created_at, updated_at)
VALUES (?, ?, ?, ?, NULL, ?, ?)
`

type InsertRegisteredClaimParams struct {
	WalletAddress string
	EmailAddress  sql.NullString
	DiscordHandle sql.NullString
	Signature     sql.NullString
	CreatedAt     int64
	UpdatedAt     int64
}

func (q *Queries) InsertRegisteredClaim(ctx context.Context, arg InsertRegisteredClaimParams) error {
	_, err := q.db.ExecContext(ctx, insertRegisteredClaim,
		arg.WalletAddress,
		arg.EmailAddress,
		arg.DiscordHandle,
		arg.Signature,
		arg.CreatedAt,
		arg.UpdatedAt,
	)
	return err
}

const refreshClaimSignature = `-- name: RefreshClaimSignature :execresult
UPDATE claims
SET signature = ?, nonce = NULL, updated_at = ?
WHERE wallet_address = ?
  AND email_address IS NOT NULL
  AND (? = '' OR nonce = ?)
`

type RefreshClaimSignatureParams struct {
	Signature     sql.NullString
	UpdatedAt     int64
	WalletAddress string
	ExpectedNonce string
}

func (q *Queries) RefreshClaimSignature(ctx context.Context, arg RefreshClaimSignatureParams) (sql.Result, error) {
	return q.db.ExecContext(ctx, refreshClaimSignature,
		arg.Signature,
		arg.UpdatedAt,
		arg.WalletAddress,
		arg.ExpectedNonce,
		arg.ExpectedNonce,
	)
}

const registerClaim = `-- name: RegisterClaim :execresult
UPDATE claims
SET email_address = ?,
    discord_handle = ?,
    signature = ?,
    nonce = NULL,
    updated_at = ?
WHERE wallet_address = ?
  AND email_address IS NULL
  AND (? = '' OR nonce = ?)
`

type RegisterClaimParams struct {
	EmailAddress  sql.NullString
	DiscordHandle sql.NullString
	Signature     sql.NullString
	UpdatedAt     int64
	WalletAddress string
	ExpectedNonce string
}

func (q *Queries) RegisterClaim(ctx context.Context, arg RegisterClaimParams) (sql.Result, error) {
	return q.db.ExecContext(ctx, registerClaim,
		arg.EmailAddress,
		arg.DiscordHandle,
		arg.Signature,
		arg.UpdatedAt,
		arg.WalletAddress,
		arg.ExpectedNonce,
		arg.ExpectedNonce,
	)
}

const updateClaimNonce = `-- name: UpdateClaimNonce :execresult
UPDATE claims
SET nonce = ?, updated_at = ?
WHERE wallet_address = ?
`

type UpdateClaimNonceParams struct {
	Nonce         sql.NullString
	UpdatedAt     int64
	WalletAddress string
}

func (q *Queries) UpdateClaimNonce(ctx context.Context, arg UpdateClaimNonceParams) (sql.Result, error) {
	return q.db.ExecContext(ctx, updateClaimNonce, arg.Nonce, arg.UpdatedAt, arg.WalletAddress)
}
