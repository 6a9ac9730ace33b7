package logger

import (
	"bytes"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
)

func TestHelpersWriteAtTheirLevel(t *testing.T) {
	previous := zerolog.GlobalLevel()
	zerolog.SetGlobalLevel(zerolog.DebugLevel)
	t.Cleanup(func() {
		zerolog.SetGlobalLevel(previous)
		SetOutput(nil)
	})

	var buf bytes.Buffer
	SetOutput(&buf)

	Debug("debug %d", 1)
	Info("info %d", 2)
	Warn("warn %d", 3)
	Error("error %d", 4)

	out := buf.String()
	assert.Contains(t, out, "[debug] debug 1")
	assert.Contains(t, out, "[info] info 2")
	assert.Contains(t, out, "[warn] warn 3")
	assert.Contains(t, out, "[error] error 4")
}

func TestNilOutputSilences(t *testing.T) {
	var buf bytes.Buffer
	SetOutput(&buf)
	SetOutput(nil)

	Error("dropped")
	assert.Empty(t, buf.String())
}
