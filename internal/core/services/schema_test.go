package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeJSONResponse(t *testing.T) {
	type payload struct {
		Value string `json:"value"`
	}

	tests := []struct {
		name    string
		input   string
		want    string
		wantErr bool
	}{
		{"bare object", `{"value": "ok"}`, "ok", false},
		{"fenced json", "```json\n{\"value\": \"ok\"}\n```", "ok", false},
		{"fenced without language", "```\n{\"value\": \"ok\"}\n```", "ok", false},
		{"surrounding prose", "Here is the result:\n{\"value\": \"ok\"}\nHope that helps!", "ok", false},
		{"whitespace padding", "\n\n  {\"value\": \"ok\"}  \n", "ok", false},
		{"no JSON at all", "I cannot answer that.", "", true},
		{"unbalanced braces", `{"value": "ok"`, "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var p payload
			err := decodeJSONResponse(tt.input, &p)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, p.Value)
		})
	}
}

func TestStripCodeFences(t *testing.T) {
	assert.Equal(t, `{"a": 1}`, stripCodeFences("```json\n{\"a\": 1}\n```"))
	assert.Equal(t, `{"a": 1}`, stripCodeFences("```\n{\"a\": 1}\n```"))
	assert.Equal(t, `{"a": 1}`, stripCodeFences(`{"a": 1}`))
	assert.Equal(t, "plain text", stripCodeFences("plain text"))
}
