// Package transport defines the email delivery boundary of the pipeline.
//
// The pipeline assembles a fully-prepared Email and hands it to a Sender
// (immediate delivery) or a DraftUploader (mailbox drafts for manual
// review). Implementations live in subpackages: smtp for direct SMTP
// submission, resend for the Resend API, gmail for Gmail draft upload.
// The pipeline depends only on the interfaces here.
package transport
