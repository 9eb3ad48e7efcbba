package questiongen

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSanitizePayload(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"plain object", `{"a":1}`, `{"a":1}`},
		{"fenced with prose", "Sure! ```json\n{\"question\":\"Q?\",\"options\":[\"A\",\"B\"],\"correctIndex\":0}\n```", `{"question":"Q?","options":["A","B"],"correctIndex":0}`},
		{"bare fence", "```\n{\"a\":1}\n```", `{"a":1}`},
		{"prose around", `Here is your question: {"a":{"b":2}} hope it helps`, `{"a":{"b":2}}`},
		{"uppercase fence", "```JSON\n{\"a\":1}```", `{"a":1}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := SanitizePayload(tt.in)

			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSanitizePayload_NoObject(t *testing.T) {
	for _, in := range []string{"", "no braces here", "} backwards {", "```json\n```"} {
		_, err := SanitizePayload(in)

		assert.True(t, errors.Is(err, ErrNoJSONObject), "Ожидалась ErrNoJSONObject для %q", in)
		assert.Equal(t, KindNoJSONObject, Classify(err))
	}
}
