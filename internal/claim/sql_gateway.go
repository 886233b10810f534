package claim

import (
	"context"
	"database/sql"
	stderrors "errors"
	"fmt"
	"strings"
	"time"

	"github.com/ahwlsqja/ts-pass-claims/internal/repository/db"
	pkgdb "github.com/ahwlsqja/ts-pass-claims/pkg/db"
	"github.com/go-sql-driver/mysql"
	"go.uber.org/zap"
	msqlite "modernc.org/sqlite"
	sqlite3lib "modernc.org/sqlite/lib"
)

const (
	mysqlErrDuplicateEntry = 1062
)

// SQLGateway implements Gateway on MySQL or SQLite through sqlc queries
type SQLGateway struct {
	txRunner *pkgdb.TxRunner
	now      func() time.Time
	logger   *zap.Logger
}

var _ Gateway = (*SQLGateway)(nil)

// NewSQLGateway creates a gateway over txRunner
func NewSQLGateway(txRunner *pkgdb.TxRunner, logger *zap.Logger) *SQLGateway {
	return &SQLGateway{
		txRunner: txRunner,
		now:      time.Now,
		logger:   logger,
	}
}

func (g *SQLGateway) GetByWallet(ctx context.Context, wallet string) (*Claim, error) {
	row, err := g.txRunner.Queries().GetClaimByWallet(ctx, NormalizeWallet(wallet))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("get claim: %w", err)
	}
	c := fromRow(row)
	return &c, nil
}

// IssueOrTouchNonce updates the nonce in place, inserting the row when absent.
// An insert that loses a race on the primary key falls back to the update.
func (g *SQLGateway) IssueOrTouchNonce(ctx context.Context, wallet, token string) error {
	wallet = NormalizeWallet(wallet)
	q := g.txRunner.Queries()

	for attempt := 0; attempt < 2; attempt++ {
		now := g.now().UnixMilli()
		result, err := q.UpdateClaimNonce(ctx, db.UpdateClaimNonceParams{
			Nonce:         nullString(token),
			UpdatedAt:     now,
			WalletAddress: wallet,
		})
		if err != nil {
			return fmt.Errorf("update nonce: %w", err)
		}
		if affected, _ := result.RowsAffected(); affected > 0 {
			return nil
		}

		err = q.InsertClaimNonce(ctx, db.InsertClaimNonceParams{
			WalletAddress: wallet,
			Nonce:         nullString(token),
			CreatedAt:     now,
			UpdatedAt:     now,
		})
		if err == nil {
			return nil
		}
		if _, dup := constraintField(err); !dup {
			return fmt.Errorf("insert nonce: %w", err)
		}
		g.logger.Debug("nonce insert raced, retrying update", zap.String("address", wallet))
	}
	return ErrConcurrentUpdate
}

// FinalizeRegistration runs the existence check, uniqueness check and write in one transaction.
// The unique constraints remain the arbiter when two wallets race for one email.
func (g *SQLGateway) FinalizeRegistration(ctx context.Context, p FinalizeParams) (*FinalizeResult, error) {
	p = normalizeParams(p)

	return pkgdb.WithTxResult(ctx, g.txRunner, func(q *db.Queries) (*FinalizeResult, error) {
		now := g.now()

		// 1. Current row
		row, err := q.GetClaimByWallet(ctx, p.Wallet)
		exists := err == nil
		if err != nil && err != sql.ErrNoRows {
			return nil, fmt.Errorf("get claim: %w", err)
		}

		// 2. Nonce must still be outstanding
		if p.ExpectedNonce != "" && (!exists || !row.Nonce.Valid || row.Nonce.String != p.ExpectedNonce) {
			return nil, ErrNonceMismatch
		}

		// 3. Already registered: refresh signature only
		if exists && row.EmailAddress.Valid {
			result, err := q.RefreshClaimSignature(ctx, db.RefreshClaimSignatureParams{
				Signature:     nullString(p.Signature),
				UpdatedAt:     now.UnixMilli(),
				WalletAddress: p.Wallet,
				ExpectedNonce: p.ExpectedNonce,
			})
			if err != nil {
				return nil, fmt.Errorf("refresh signature: %w", err)
			}
			if affected, _ := result.RowsAffected(); affected == 0 {
				return nil, g.lostRace(p)
			}

			c := fromRow(row)
			c.Signature = p.Signature
			c.Nonce = ""
			c.UpdatedAt = time.UnixMilli(now.UnixMilli())
			return &FinalizeResult{Created: false, Claim: c}, nil
		}

		// 4. Uniqueness pre-check for a precise error
		if err := checkUnique(ctx, q, p); err != nil {
			return nil, err
		}

		// 5. Write
		if exists {
			result, err := q.RegisterClaim(ctx, db.RegisterClaimParams{
				EmailAddress:  nullString(p.Email),
				DiscordHandle: nullString(p.Discord),
				Signature:     nullString(p.Signature),
				UpdatedAt:     now.UnixMilli(),
				WalletAddress: p.Wallet,
				ExpectedNonce: p.ExpectedNonce,
			})
			if err != nil {
				return nil, mapWriteError(err)
			}
			if affected, _ := result.RowsAffected(); affected == 0 {
				return nil, g.lostRace(p)
			}
		} else {
			err := q.InsertRegisteredClaim(ctx, db.InsertRegisteredClaimParams{
				WalletAddress: p.Wallet,
				EmailAddress:  nullString(p.Email),
				DiscordHandle: nullString(p.Discord),
				Signature:     nullString(p.Signature),
				CreatedAt:     now.UnixMilli(),
				UpdatedAt:     now.UnixMilli(),
			})
			if err != nil {
				return nil, mapWriteError(err)
			}
			row.CreatedAt = now.UnixMilli()
		}

		c := Claim{
			WalletAddress: p.Wallet,
			EmailAddress:  p.Email,
			DiscordHandle: p.Discord,
			Signature:     p.Signature,
			CreatedAt:     time.UnixMilli(row.CreatedAt),
			UpdatedAt:     time.UnixMilli(now.UnixMilli()),
		}
		return &FinalizeResult{Created: true, Claim: c}, nil
	})
}

// lostRace classifies a guarded write that matched no row
func (g *SQLGateway) lostRace(p FinalizeParams) error {
	g.logger.Warn("registration write matched no row",
		zap.String("address", p.Wallet),
		zap.Bool("nonce_guarded", p.ExpectedNonce != ""),
	)
	if p.ExpectedNonce != "" {
		return ErrNonceMismatch
	}
	return ErrConcurrentUpdate
}

func checkUnique(ctx context.Context, q *db.Queries, p FinalizeParams) error {
	_, err := q.FindOtherWalletByEmail(ctx, db.FindOtherWalletByEmailParams{
		EmailAddress:  nullString(p.Email),
		WalletAddress: p.Wallet,
	})
	switch {
	case err == nil:
		return &DuplicateFieldError{Field: FieldEmail}
	case err != sql.ErrNoRows:
		return fmt.Errorf("check email: %w", err)
	}

	if p.Discord == "" {
		return nil
	}
	_, err = q.FindOtherWalletByDiscord(ctx, db.FindOtherWalletByDiscordParams{
		DiscordHandle: nullString(p.Discord),
		WalletAddress: p.Wallet,
	})
	switch {
	case err == nil:
		return &DuplicateFieldError{Field: FieldDiscord}
	case err != sql.ErrNoRows:
		return fmt.Errorf("check discord: %w", err)
	}
	return nil
}

// mapWriteError turns unique-constraint violations into domain errors
func mapWriteError(err error) error {
	field, ok := constraintField(err)
	if !ok {
		return fmt.Errorf("write claim: %w", err)
	}
	if field == FieldWallet {
		return ErrConcurrentUpdate
	}
	return &DuplicateFieldError{Field: field}
}

// constraintField reports whether err is a unique violation and which column it hit
func constraintField(err error) (string, bool) {
	if err == nil {
		return "", false
	}

	violation := false
	var mysqlErr *mysql.MySQLError
	var sqliteErr *msqlite.Error
	switch {
	case stderrors.As(err, &mysqlErr):
		violation = mysqlErr.Number == mysqlErrDuplicateEntry
	case stderrors.As(err, &sqliteErr):
		switch sqliteErr.Code() {
		case sqlite3lib.SQLITE_CONSTRAINT, sqlite3lib.SQLITE_CONSTRAINT_UNIQUE, sqlite3lib.SQLITE_CONSTRAINT_PRIMARYKEY:
			violation = true
		}
	default:
		msg := strings.ToLower(err.Error())
		violation = strings.Contains(msg, "duplicate entry") || strings.Contains(msg, "unique constraint failed")
	}
	if !violation {
		return "", false
	}

	// Only look at the key/column part; MySQL echoes the duplicate value before it
	msg := strings.ToLower(err.Error())
	if i := strings.LastIndex(msg, "for key"); i >= 0 {
		msg = msg[i:]
	} else if i := strings.LastIndex(msg, "failed:"); i >= 0 {
		msg = msg[i:]
	}

	switch {
	case strings.Contains(msg, "email"):
		return FieldEmail, true
	case strings.Contains(msg, "discord"):
		return FieldDiscord, true
	default:
		return FieldWallet, true
	}
}

func fromRow(row db.Claim) Claim {
	return Claim{
		WalletAddress: row.WalletAddress,
		EmailAddress:  row.EmailAddress.String,
		DiscordHandle: row.DiscordHandle.String,
		Signature:     row.Signature.String,
		Nonce:         row.Nonce.String,
		CreatedAt:     time.UnixMilli(row.CreatedAt),
		UpdatedAt:     time.UnixMilli(row.UpdatedAt),
	}
}

func nullString(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}
