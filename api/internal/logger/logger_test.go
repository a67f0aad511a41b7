package logger

import (
	"bytes"
	"testing"

	charmlog "github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
)

func TestParseLevel(t *testing.T) {
	assert.Equal(t, charmlog.DebugLevel, ParseLevel("DEBUG"))
	assert.Equal(t, charmlog.WarnLevel, ParseLevel("warn"))
	assert.Equal(t, charmlog.ErrorLevel, ParseLevel("error"))
	assert.Equal(t, charmlog.InfoLevel, ParseLevel("verbose"))
}

func TestNew(t *testing.T) {
	t.Run("Should write JSON records with bound fields", func(t *testing.T) {
		var buf bytes.Buffer
		l := New(Config{Level: "info", JSON: true, Output: &buf}).With("run_id", "r1")
		l.Info("tasks loaded", "count", 3)
		l.Debug("hidden")
		out := buf.String()
		assert.Contains(t, out, `"msg":"tasks loaded"`)
		assert.Contains(t, out, `"run_id":"r1"`)
		assert.Contains(t, out, `"count":3`)
		assert.NotContains(t, out, "hidden")
	})

	t.Run("Should ignore everything with Nop", func(t *testing.T) {
		l := Nop().With("a", 1)
		l.Error("nothing")
		assert.NotNil(t, l)
	})
}
