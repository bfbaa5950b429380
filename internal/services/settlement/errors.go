package settlement

import "fmt"

// Class buckets a settlement failure by who can fix it.
type Class int

const (
	// ClassInput: the request itself is malformed; the user can correct
	// and resubmit immediately.
	ClassInput Class = iota
	// ClassEvidence: the screenshot does not prove what it must; the user
	// needs a better screenshot.
	ClassEvidence
	// ClassUpstream: OCR or network failure; the caller may retry.
	ClassUpstream
	// ClassPersistence: the store write failed; the settlement must not
	// be reported as successful.
	ClassPersistence
)

// Reason is the machine-distinguishable rejection code.
type Reason string

const (
	ReasonMissingField        Reason = "missing_field"
	ReasonInvalidBankAccount  Reason = "invalid_bank_account"
	ReasonMemberNotFound      Reason = "member_not_found"
	ReasonMissingDateEvidence Reason = "missing_date_evidence"
	ReasonStaleScreenshot     Reason = "stale_screenshot"
	ReasonIdentityNotFound    Reason = "identity_not_found"
	ReasonGuildNotFound       Reason = "guild_not_found"
	ReasonOCRFailed           Reason = "ocr_failed"
	ReasonPersistFailed       Reason = "persist_failed"
)

// Error carries the failure class, the machine reason, and a human-readable
// message. No Error ever leaves the outcome store or pool partially
// mutated; every failure happens before the single settlement transaction
// commits.
type Error struct {
	Class   Class
	Reason  Reason
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Reason, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Reason, e.Message)
}

func (e *Error) Unwrap() error { return e.Err }

func reject(class Class, reason Reason, message string) *Error {
	return &Error{Class: class, Reason: reason, Message: message}
}

func upstream(reason Reason, message string, err error) *Error {
	return &Error{Class: ClassUpstream, Reason: reason, Message: message, Err: err}
}

func persistence(message string, err error) *Error {
	return &Error{Class: ClassPersistence, Reason: ReasonPersistFailed, Message: message, Err: err}
}
