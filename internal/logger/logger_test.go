package logger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap/zapcore"
)

func TestParseLevel(t *testing.T) {
	assert.Equal(t, zapcore.DebugLevel, parseLevel("DEBUG"))
	assert.Equal(t, zapcore.WarnLevel, parseLevel("warn"))
	assert.Equal(t, zapcore.ErrorLevel, parseLevel("error"))
	assert.Equal(t, zapcore.InfoLevel, parseLevel("bogus"))
}

func TestLoggingBeforeInit(t *testing.T) {
	assert.NotPanics(t, func() {
		Info("hello", "k", 1)
		Printf("select %d\n", 1)
		Sync()
	})
}

func TestInit(t *testing.T) {
	assert.NoError(t, Init("debug", true))
	Debug("initialized", "level", "debug")
}
