package transport_test

import (
	"bytes"
	"encoding/base64"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/mailmerge/pkg/transport"
)

func TestBuildMessage(t *testing.T) {
	t.Parallel()

	t.Run("plain html message", func(t *testing.T) {
		t.Parallel()
		raw, err := transport.BuildMessage(&transport.Email{
			From:    "sender@example.com",
			To:      []string{"a@b.com", "c@d.com"},
			CC:      []string{"e@f.com"},
			Subject: "Hello",
			HTML:    "<p>Hi</p>",
		})
		require.NoError(t, err)

		msg := string(raw)
		assert.Contains(t, msg, "From: sender@example.com\r\n")
		assert.Contains(t, msg, "To: a@b.com, c@d.com\r\n")
		assert.Contains(t, msg, "Cc: e@f.com\r\n")
		assert.Contains(t, msg, "Subject: Hello\r\n")
		assert.Contains(t, msg, "MIME-Version: 1.0\r\n")
		assert.Contains(t, msg, "Content-Type: text/html; charset=UTF-8\r\n\r\n<p>Hi</p>")
		// BCC recipients belong to the envelope, never the headers.
		assert.NotContains(t, msg, "Bcc")
	})

	t.Run("no recipient", func(t *testing.T) {
		t.Parallel()
		_, err := transport.BuildMessage(&transport.Email{Subject: "x", HTML: "y"})
		require.ErrorIs(t, err, transport.ErrNoRecipient)
	})

	t.Run("non-ascii subject is encoded", func(t *testing.T) {
		t.Parallel()
		raw, err := transport.BuildMessage(&transport.Email{
			To:      []string{"a@b.com"},
			Subject: "Grüße",
			HTML:    "<p>Hi</p>",
		})
		require.NoError(t, err)
		assert.Contains(t, string(raw), "Subject: =?utf-8?q?")
	})

	t.Run("text alternative", func(t *testing.T) {
		t.Parallel()
		raw, err := transport.BuildMessage(&transport.Email{
			To:      []string{"a@b.com"},
			Subject: "Hello",
			HTML:    "<p>Hi</p>",
			Text:    "Hi",
		})
		require.NoError(t, err)

		msg := string(raw)
		assert.Contains(t, msg, "Content-Type: multipart/alternative; boundary=")
		assert.Contains(t, msg, "Content-Type: text/plain; charset=UTF-8\r\n\r\nHi")
		assert.Contains(t, msg, "Content-Type: text/html; charset=UTF-8\r\n\r\n<p>Hi</p>")
	})

	t.Run("attachment part", func(t *testing.T) {
		t.Parallel()
		content := bytes.Repeat([]byte("attachment payload "), 10)
		raw, err := transport.BuildMessage(&transport.Email{
			To:      []string{"a@b.com"},
			Subject: "Hello",
			HTML:    "<p>Hi</p>",
			Attachments: []transport.Attachment{{
				Filename:    "terms.pdf",
				ContentType: "application/pdf",
				Content:     content,
			}},
		})
		require.NoError(t, err)

		msg := string(raw)
		assert.Contains(t, msg, "Content-Type: multipart/mixed; boundary=")
		assert.Contains(t, msg, `Content-Type: application/pdf; name="terms.pdf"`)
		assert.Contains(t, msg, "Content-Transfer-Encoding: base64\r\n")
		assert.Contains(t, msg, `Content-Disposition: attachment; filename="terms.pdf"`)

		// The encoded payload is wrapped to 76-char lines.
		encoded := base64.StdEncoding.EncodeToString(content)
		assert.Contains(t, msg, encoded[:76]+"\r\n")
		assert.Contains(t, strings.ReplaceAll(msg, "\r\n", ""), encoded)
	})
}

func TestLoadAttachments(t *testing.T) {
	t.Parallel()

	t.Run("reads files and infers types", func(t *testing.T) {
		t.Parallel()
		dir := t.TempDir()
		pdf := filepath.Join(dir, "terms.pdf")
		require.NoError(t, os.WriteFile(pdf, []byte("%PDF-1.4"), 0o644))
		blob := filepath.Join(dir, "data.unknownext")
		require.NoError(t, os.WriteFile(blob, []byte{0x01, 0x02}, 0o644))

		attachments, err := transport.LoadAttachments([]string{pdf, blob})
		require.NoError(t, err)
		require.Len(t, attachments, 2)
		assert.Equal(t, "terms.pdf", attachments[0].Filename)
		assert.Equal(t, "application/pdf", attachments[0].ContentType)
		assert.Equal(t, []byte("%PDF-1.4"), attachments[0].Content)
		assert.Equal(t, "application/octet-stream", attachments[1].ContentType)
	})

	t.Run("missing file is an error", func(t *testing.T) {
		t.Parallel()
		_, err := transport.LoadAttachments([]string{filepath.Join(t.TempDir(), "nope.pdf")})
		require.Error(t, err)
	})

	t.Run("no paths yields nothing", func(t *testing.T) {
		t.Parallel()
		attachments, err := transport.LoadAttachments(nil)
		require.NoError(t, err)
		assert.Nil(t, attachments)
	})
}
