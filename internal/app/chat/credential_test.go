package chat

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestResolveCredential(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		ambient string
		want    credential
	}{
		{
			name: "object with token",
			raw:  `{"token":"abc"}`,
			want: credential{kind: credToken, token: "abc"},
		},
		{
			name:    "explicit token wins over ambient",
			raw:     `{"token":"abc"}`,
			ambient: "ambient-tok",
			want:    credential{kind: credToken, token: "abc"},
		},
		{
			name: "plain email string",
			raw:  `"ada@example.com"`,
			want: credential{kind: credEmail, email: "ada@example.com"},
		},
		{
			name: "email string is trimmed",
			raw:  `"  ada@example.com  "`,
			want: credential{kind: credEmail, email: "ada@example.com"},
		},
		{
			name:    "absent payload uses ambient",
			raw:     "",
			ambient: "ambient-tok",
			want:    credential{kind: credAmbient, token: "ambient-tok"},
		},
		{
			name:    "null payload uses ambient",
			raw:     "null",
			ambient: "ambient-tok",
			want:    credential{kind: credAmbient, token: "ambient-tok"},
		},
		{
			name: "absent payload without ambient",
			raw:  "",
			want: credential{kind: credNone},
		},
		{
			name:    "object without token does not fall back",
			raw:     `{"other":"x"}`,
			ambient: "ambient-tok",
			want:    credential{kind: credNone},
		},
		{
			name: "empty string payload",
			raw:  `""`,
			want: credential{kind: credNone},
		},
		{
			name: "unusable payload type",
			raw:  `42`,
			want: credential{kind: credNone},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := resolveCredential(json.RawMessage(tt.raw), tt.ambient)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestLooseID(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want int64
	}{
		{name: "number", raw: `{"recipientId": 42}`, want: 42},
		{name: "numeric string", raw: `{"recipientId": "42"}`, want: 42},
		{name: "non-numeric string", raw: `{"recipientId": "abc"}`, want: 0},
		{name: "zero", raw: `{"recipientId": 0}`, want: 0},
		{name: "negative", raw: `{"recipientId": -3}`, want: 0},
		{name: "null", raw: `{"recipientId": null}`, want: 0},
		{name: "absent", raw: `{}`, want: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var in historyInput
			assert.NoError(t, json.Unmarshal([]byte(tt.raw), &in))
			assert.Equal(t, tt.want, int64(in.RecipientID))
		})
	}
}

func TestIsNullJSON(t *testing.T) {
	assert.True(t, isNullJSON(nil))
	assert.True(t, isNullJSON(json.RawMessage("null")))
	assert.False(t, isNullJSON(json.RawMessage(`{}`)))
	assert.False(t, isNullJSON(json.RawMessage(`0`)))
}
