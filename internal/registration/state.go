// Package registration drives a wallet through the client side of the claim
// protocol: nonce fetch, message signing, local verification and submission.
package registration

import "time"

// State is a step of a registration attempt
type State string

const (
	StateIdle             State = "IDLE"
	StateNonceRequested   State = "NONCE_REQUESTED"
	StateMessageSigned    State = "MESSAGE_SIGNED"
	StateVerified         State = "VERIFIED"
	StateDuplicateChecked State = "DUPLICATE_CHECKED"
	StatePersisted        State = "PERSISTED"
	StateRejected         State = "REJECTED"
)

// Kind classifies a rejected attempt
type Kind string

const (
	KindNone               Kind = ""
	KindUserCancelled      Kind = "USER_CANCELLED"
	KindStorageUnavailable Kind = "STORAGE_UNAVAILABLE"
	KindSigningFailed      Kind = "SIGNING_FAILED"
	KindVerificationFailed Kind = "VERIFICATION_FAILED"
	KindDuplicateField     Kind = "DUPLICATE_FIELD"
	KindPersistFailed      Kind = "PERSIST_FAILED"
	KindMalformedInput     Kind = "MALFORMED_INPUT"
)

// Session is the connected wallet an attempt runs for
type Session struct {
	Address string
}

// Details is what the participant entered
type Details struct {
	Email   string
	Discord string
}

// Outcome is the terminal result of one attempt.
// A user cancellation is Rejected with KindUserCancelled and a nil Err.
type Outcome struct {
	State          State
	Kind           Kind
	Field          string
	AlreadyExisted bool
	Email          string
	Discord        string
	Err            error
	RetryAfter     time.Duration
	// Path lists the states visited, ending with State
	Path           []State
}

// Persisted reports whether the attempt stored or refreshed the claim
func (o Outcome) Persisted() bool {
	return o.State == StatePersisted
}

// Silent reports whether the outcome should not be surfaced as an error
func (o Outcome) Silent() bool {
	return o.Kind == KindUserCancelled
}

func rejected(kind Kind, err error) Outcome {
	return Outcome{State: StateRejected, Kind: kind, Err: err}
}
