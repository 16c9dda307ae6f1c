package prompt_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/mailmerge/pkg/prompt"
)

func console(input string) (*prompt.Console, *bytes.Buffer) {
	var out bytes.Buffer
	return prompt.NewConsoleWith(strings.NewReader(input), &out), &out
}

func TestConsole_Select(t *testing.T) {
	t.Parallel()

	t.Run("numeric choice", func(t *testing.T) {
		t.Parallel()
		c, _ := console("2\n")
		got, err := c.Select("pick", []string{"a", "b", "c"}, "")
		require.NoError(t, err)
		assert.Equal(t, "b", got)
	})

	t.Run("enter picks default", func(t *testing.T) {
		t.Parallel()
		c, _ := console("\n")
		got, err := c.Select("pick", []string{"a", "b"}, "b")
		require.NoError(t, err)
		assert.Equal(t, "b", got)
	})

	t.Run("retries on junk", func(t *testing.T) {
		t.Parallel()
		c, out := console("nope\n99\n1\n")
		got, err := c.Select("pick", []string{"a", "b"}, "")
		require.NoError(t, err)
		assert.Equal(t, "a", got)
		assert.Contains(t, out.String(), "between 1 and 2")
	})
}

func TestConsole_MultiSelect(t *testing.T) {
	t.Parallel()

	t.Run("comma separated", func(t *testing.T) {
		t.Parallel()
		c, _ := console("1, 3\n")
		got, err := c.MultiSelect("pick", []string{"a", "b", "c"})
		require.NoError(t, err)
		assert.Equal(t, []string{"a", "c"}, got)
	})

	t.Run("empty selects nothing", func(t *testing.T) {
		t.Parallel()
		c, _ := console("\n")
		got, err := c.MultiSelect("pick", []string{"a"})
		require.NoError(t, err)
		assert.Empty(t, got)
	})
}

func TestConsole_Confirm(t *testing.T) {
	t.Parallel()

	t.Run("exact sentinel confirms", func(t *testing.T) {
		t.Parallel()
		c, _ := console("Yes, send emails\n")
		ok, err := c.Confirm("sure?", "Yes, send emails")
		require.NoError(t, err)
		assert.True(t, ok)
	})

	t.Run("anything else declines", func(t *testing.T) {
		t.Parallel()
		c, _ := console("yes\n")
		ok, err := c.Confirm("sure?", "Yes, send emails")
		require.NoError(t, err)
		assert.False(t, ok)
	})
}

func TestConsole_Input(t *testing.T) {
	t.Parallel()

	c, out := console("  spring campaign \n")
	got, err := c.Input("run name?")
	require.NoError(t, err)
	assert.Equal(t, "spring campaign", got)
	assert.Contains(t, out.String(), "run name?")
}

func TestFixed(t *testing.T) {
	t.Parallel()

	t.Run("replays answers in order", func(t *testing.T) {
		t.Parallel()
		f := &prompt.Fixed{Answers: []any{"a", []string{"x", "y"}, "typed"}}

		got, err := f.Select("q", []string{"a", "b"}, "")
		require.NoError(t, err)
		assert.Equal(t, "a", got)

		multi, err := f.MultiSelect("q", nil)
		require.NoError(t, err)
		assert.Equal(t, []string{"x", "y"}, multi)

		input, err := f.Input("q")
		require.NoError(t, err)
		assert.Equal(t, "typed", input)
	})

	t.Run("exhaustion is an error", func(t *testing.T) {
		t.Parallel()
		f := &prompt.Fixed{}
		_, err := f.Input("q")
		require.ErrorIs(t, err, prompt.ErrNoAnswers)
	})

	t.Run("confirm follows AutoConfirm", func(t *testing.T) {
		t.Parallel()
		ok, err := (&prompt.Fixed{AutoConfirm: true}).Confirm("m", "s")
		require.NoError(t, err)
		assert.True(t, ok)

		ok, err = (&prompt.Fixed{}).Confirm("m", "s")
		require.NoError(t, err)
		assert.False(t, ok)
	})
}
