package db

import (
	"database/sql"
)

type Claim struct {
	WalletAddress string
	EmailAddress  sql.NullString
	DiscordHandle sql.NullString
	Signature     sql.NullString
	Nonce         sql.NullString
	CreatedAt     int64
	UpdatedAt     int64
}
