package util

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMarshalPretty(t *testing.T) {
	t.Run("Should keep non-ASCII and HTML literally", func(t *testing.T) {
		out, err := MarshalPretty(map[string]string{"text": "Русский <b>язык</b> & ко"})
		require.NoError(t, err)
		assert.Equal(t, "{\n  \"text\": \"Русский <b>язык</b> & ко\"\n}", string(out))
	})

	t.Run("Should keep struct field order", func(t *testing.T) {
		type entry struct {
			B int `json:"b"`
			A int `json:"a"`
		}
		out, err := MarshalPretty(entry{B: 1, A: 2})
		require.NoError(t, err)
		assert.Equal(t, "{\n  \"b\": 1,\n  \"a\": 2\n}", string(out))
	})
}

func TestMarshalLiteral(t *testing.T) {
	t.Run("Should unescape unicode sequences from raw payloads", func(t *testing.T) {
		raw := json.RawMessage(`{"name":"\u0418\u0441\u0442\u043e\u0440\u0438\u044f","id":7}`)
		out, err := MarshalLiteral(map[string]any{"tasks": []json.RawMessage{raw}})
		require.NoError(t, err)
		assert.Contains(t, string(out), `"name": "История"`)
		assert.NotContains(t, string(out), `\u0418`)
	})

	t.Run("Should keep numbers exactly", func(t *testing.T) {
		out, err := MarshalLiteral(json.RawMessage(`{"big":12345678901234567890,"f":1.50}`))
		require.NoError(t, err)
		assert.Contains(t, string(out), `"big": 12345678901234567890`)
		assert.Contains(t, string(out), `"f": 1.50`)
	})

	t.Run("Should be deterministic", func(t *testing.T) {
		v := json.RawMessage(`{"b":1,"a":{"d":2,"c":3}}`)
		first, err := MarshalLiteral(v)
		require.NoError(t, err)
		second, err := MarshalLiteral(v)
		require.NoError(t, err)
		assert.Equal(t, first, second)
	})
}

func TestDecodeGeneric(t *testing.T) {
	t.Run("Should reject trailing data", func(t *testing.T) {
		_, err := DecodeGeneric([]byte(`{} {}`))
		assert.Error(t, err)
	})
	t.Run("Should reject malformed JSON", func(t *testing.T) {
		_, err := DecodeGeneric([]byte(`{"tasks": [`))
		assert.Error(t, err)
	})
}

func TestRuneLenAndTruncate(t *testing.T) {
	assert.Equal(t, 5, RuneLen("язык!"))
	assert.Equal(t, "абв", Truncate("абв", 3))
	assert.Equal(t, "аб…", Truncate("абвг", 3))
	assert.Equal(t, "", Truncate("абвг", 0))
}
