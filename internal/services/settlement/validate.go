package settlement

import (
	"regexp"
	"time"

	"guild-settlement-backend/internal/services/parsing"
)

var bankAccountRe = regexp.MustCompile(`^\d{5}$`)

// Request is the immutable input to one settlement run.
type Request struct {
	ImageURL     string
	UploaderName string
	GuildName    string
	BankAccount  string
}

// Gate runs the pre-conditions that must all hold before any settlement is
// computed. Checks run in a fixed order and stop at the first failure.
type Gate struct{}

// CheckRequest validates the payload itself, before any OCR work happens.
func (Gate) CheckRequest(req Request) *Error {
	if req.ImageURL == "" || req.UploaderName == "" || req.BankAccount == "" {
		return reject(ClassInput, ReasonMissingField, "image_url, uploader_name and bank_account are required")
	}
	if !bankAccountRe.MatchString(req.BankAccount) {
		return reject(ClassInput, ReasonInvalidBankAccount, "bank account must be exactly 5 digits")
	}
	return nil
}

// CheckEvidence validates the screenshot text: it must carry at least one
// timestamp, that timestamp must be today in the reference timezone, the
// uploader must appear in the text, and so must the guild when one was
// supplied.
func (Gate) CheckEvidence(doc Document, uploader, guild parsing.CanonicalName, today time.Time) *Error {
	if len(doc.DateLines()) == 0 {
		return reject(ClassEvidence, ReasonMissingDateEvidence, "screenshot has no timestamp line; retake it with the time visible")
	}
	if !doc.HasDateFor(today) {
		return reject(ClassEvidence, ReasonStaleScreenshot, "screenshot contains no record dated today; all kill records must be from today")
	}
	if !doc.ContainsName(uploader) {
		return reject(ClassEvidence, ReasonIdentityNotFound, "uploader name does not appear in the screenshot")
	}
	if guild != "" && !doc.ContainsName(guild) {
		return reject(ClassEvidence, ReasonGuildNotFound, "guild name does not appear in the screenshot")
	}
	return nil
}
