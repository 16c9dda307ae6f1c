package transport

import (
	"context"
	"errors"
)

var (
	// ErrNoRecipient indicates an email with an empty To list.
	ErrNoRecipient = errors.New("email must have at least one recipient")

	// ErrSendFailed indicates the transport rejected or failed a delivery.
	ErrSendFailed = errors.New("failed to deliver email")
)

// Email is a fully-prepared message ready for delivery.
type Email struct {
	From        string   // RFC 5322 from line; empty uses the transport default
	To          []string // at least one required
	CC          []string
	BCC         []string
	Subject     string
	HTML        string // HTML body
	Text        string // plain-text alternative, optional
	Attachments []Attachment
}

// Attachment is one file attached to an email.
type Attachment struct {
	Filename    string
	ContentType string // MIME type, e.g. "application/pdf"
	Content     []byte
}

// Sender delivers an email immediately.
type Sender interface {
	Send(ctx context.Context, email *Email) error
}

// DraftUploader places an email into a mailbox drafts folder instead of
// sending it, so the operator can review and send by hand.
type DraftUploader interface {
	UploadDraft(ctx context.Context, email *Email) error
}
