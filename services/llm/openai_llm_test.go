package llm

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewOpenAIClient(t *testing.T) {
	t.Run("missing key is an error", func(t *testing.T) {
		t.Setenv("OPENAI_API_KEY", "")
		_, err := NewOpenAIClient()
		require.Error(t, err)
	})

	t.Run("defaults", func(t *testing.T) {
		t.Setenv("OPENAI_API_KEY", "sk-test")
		t.Setenv("OPENAI_MODEL", "")
		t.Setenv("SHIELDOPS_CHAT_PERSONA", "")
		c, err := NewOpenAIClient()
		require.NoError(t, err)
		assert.Equal(t, "gpt-4o-mini", c.model)
		assert.Equal(t, defaultPersona, c.persona)
	})

	t.Run("overrides", func(t *testing.T) {
		t.Setenv("OPENAI_API_KEY", "sk-test")
		t.Setenv("OPENAI_MODEL", "gpt-4o")
		t.Setenv("SHIELDOPS_CHAT_PERSONA", "You are a terse operations bot.")
		c, err := NewOpenAIClient()
		require.NoError(t, err)
		assert.Equal(t, "gpt-4o", c.model)
		assert.Equal(t, "You are a terse operations bot.", c.persona)
	})
}
