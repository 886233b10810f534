package registration

import (
	"github.com/ahwlsqja/ts-pass-claims/internal/common/errors"
	"github.com/ahwlsqja/ts-pass-claims/pkg/wallet"
)

// KindOf classifies err into a rejection kind
func KindOf(err error) Kind {
	if err == nil {
		return KindNone
	}
	if wallet.IsUserRejected(err) {
		return KindUserCancelled
	}

	appErr, ok := errors.As(err)
	if !ok {
		return KindPersistFailed
	}
	switch appErr.Code {
	case errors.CodeInvalidInput, errors.CodeNotFound, errors.CodeMethodNotAllowed:
		return KindMalformedInput
	case errors.CodeVerificationFailed, errors.CodeNonceMismatch:
		return KindVerificationFailed
	case errors.CodeDuplicateField:
		return KindDuplicateField
	case errors.CodeStorageUnavailable, errors.CodeThrottled:
		return KindStorageUnavailable
	default:
		return KindPersistFailed
	}
}

// outcomeOf builds the Rejected outcome for a server or transport error
func outcomeOf(err error) Outcome {
	out := rejected(KindOf(err), err)
	if appErr, ok := errors.As(err); ok {
		out.Field = appErr.Field()
		out.RetryAfter = appErr.RetryAfter()
	}
	return out
}
