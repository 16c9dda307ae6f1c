package transport

import (
	"crypto/rand"
	"encoding/base64"
	"encoding/hex"
	"fmt"
	"mime"
	"strings"
	"time"
)

// BuildMessage assembles email into an RFC 2822 message: multipart/mixed
// around a multipart/alternative body when attachments or a text part are
// present, a bare HTML part otherwise. Used by the SMTP sender and the
// Gmail draft uploader.
func BuildMessage(email *Email) ([]byte, error) {
	if len(email.To) == 0 {
		return nil, ErrNoRecipient
	}

	var msg strings.Builder
	if email.From != "" {
		fmt.Fprintf(&msg, "From: %s\r\n", email.From)
	}
	fmt.Fprintf(&msg, "To: %s\r\n", strings.Join(email.To, ", "))
	if len(email.CC) > 0 {
		fmt.Fprintf(&msg, "Cc: %s\r\n", strings.Join(email.CC, ", "))
	}
	fmt.Fprintf(&msg, "Subject: %s\r\n", encodeHeader(email.Subject))
	fmt.Fprintf(&msg, "Date: %s\r\n", time.Now().Format(time.RFC1123Z))
	msg.WriteString("MIME-Version: 1.0\r\n")

	if len(email.Attachments) > 0 {
		mixed := randomBoundary("mixed")
		fmt.Fprintf(&msg, "Content-Type: multipart/mixed; boundary=%s\r\n\r\n", mixed)
		fmt.Fprintf(&msg, "--%s\r\n", mixed)
		writeBody(&msg, email)
		for _, att := range email.Attachments {
			writeAttachment(&msg, att, mixed)
		}
		fmt.Fprintf(&msg, "--%s--\r\n", mixed)
		return []byte(msg.String()), nil
	}

	writeBody(&msg, email)
	return []byte(msg.String()), nil
}

func writeBody(msg *strings.Builder, email *Email) {
	if email.Text != "" {
		alt := randomBoundary("alt")
		fmt.Fprintf(msg, "Content-Type: multipart/alternative; boundary=%s\r\n\r\n", alt)
		fmt.Fprintf(msg, "--%s\r\n", alt)
		msg.WriteString("Content-Type: text/plain; charset=UTF-8\r\n\r\n")
		msg.WriteString(email.Text)
		fmt.Fprintf(msg, "\r\n--%s\r\n", alt)
		msg.WriteString("Content-Type: text/html; charset=UTF-8\r\n\r\n")
		msg.WriteString(email.HTML)
		fmt.Fprintf(msg, "\r\n--%s--\r\n", alt)
		return
	}
	msg.WriteString("Content-Type: text/html; charset=UTF-8\r\n\r\n")
	msg.WriteString(email.HTML)
	msg.WriteString("\r\n")
}

func writeAttachment(msg *strings.Builder, att Attachment, boundary string) {
	fmt.Fprintf(msg, "--%s\r\n", boundary)
	contentType := att.ContentType
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	fmt.Fprintf(msg, "Content-Type: %s; name=%q\r\n", contentType, att.Filename)
	msg.WriteString("Content-Transfer-Encoding: base64\r\n")
	fmt.Fprintf(msg, "Content-Disposition: attachment; filename=%q\r\n\r\n", att.Filename)

	encoded := base64.StdEncoding.EncodeToString(att.Content)
	// 76-char lines per RFC 2045.
	for len(encoded) > 76 {
		msg.WriteString(encoded[:76])
		msg.WriteString("\r\n")
		encoded = encoded[76:]
	}
	msg.WriteString(encoded)
	msg.WriteString("\r\n")
}

// encodeHeader RFC 2047-encodes a header value when it contains non-ASCII.
func encodeHeader(value string) string {
	return mime.QEncoding.Encode("utf-8", value)
}

func randomBoundary(prefix string) string {
	buf := make([]byte, 12)
	_, _ = rand.Read(buf)
	return prefix + "-" + hex.EncodeToString(buf)
}
