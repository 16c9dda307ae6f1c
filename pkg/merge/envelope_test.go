package merge_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/mailmerge/pkg/engine"
	"github.com/dmitrymomot/mailmerge/pkg/merge"
)

func TestParseEnvelope(t *testing.T) {
	t.Parallel()

	t.Run("valid record", func(t *testing.T) {
		t.Parallel()
		env, err := merge.ParseEnvelope(engine.Record{
			"email":   "a@b.com",
			"subject": "Hi",
		})
		require.NoError(t, err)
		assert.Equal(t, []string{"a@b.com"}, env.To)
		assert.Equal(t, "Hi", env.Subject)
		assert.Empty(t, env.CC)
		assert.Empty(t, env.BCC)
	})

	t.Run("multiple space separated recipients", func(t *testing.T) {
		t.Parallel()
		env, err := merge.ParseEnvelope(engine.Record{
			"email":   "a@b.com c@d.com",
			"subject": "Hi",
			"cc":      "e@f.com",
			"bcc":     "g@h.com",
		})
		require.NoError(t, err)
		assert.Equal(t, []string{"a@b.com", "c@d.com"}, env.To)
		assert.Equal(t, []string{"e@f.com"}, env.CC)
		assert.Equal(t, []string{"g@h.com"}, env.BCC)
	})

	tests := []struct {
		name   string
		record engine.Record
	}{
		{"malformed address", engine.Record{"email": "not-an-email", "subject": "Hi"}},
		{"missing recipient", engine.Record{"subject": "Hi"}},
		{"missing subject", engine.Record{"email": "a@b.com"}},
		{"bad cc", engine.Record{"email": "a@b.com", "subject": "Hi", "cc": "nope"}},
		{"bad bcc", engine.Record{"email": "a@b.com", "subject": "Hi", "bcc": "nope"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			_, err := merge.ParseEnvelope(tt.record)
			require.ErrorIs(t, err, merge.ErrRecordInvalid)
		})
	}
}
