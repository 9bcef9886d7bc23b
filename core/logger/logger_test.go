package logger

import (
	"testing"

	"github.com/anoideaopen/delegate/internal/config"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoggerNotSetEnv(t *testing.T) {
	l := Logger()
	assert.NotNil(t, l)
	assert.Same(t, l, Logger())
}

func TestNew(t *testing.T) {
	testCases := []struct {
		name      string
		level     string
		format    string
		wantErr   bool
		wantLevel logrus.Level
		wantJSON  bool
	}{
		{name: "json debug", level: "debug", format: "json", wantLevel: logrus.DebugLevel, wantJSON: true},
		{name: "text warning", level: "warning", format: "text", wantLevel: logrus.WarnLevel},
		{name: "empty format is text", level: "info", format: "", wantLevel: logrus.InfoLevel},
		{name: "wrong level", level: "loud", format: "text", wantErr: true},
		{name: "wrong format", level: "info", format: "wrongFormat", wantErr: true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			l, err := New(tc.level, tc.format)
			if tc.wantErr {
				require.Error(t, err)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tc.wantLevel, l.GetLevel())

			_, isJSON := l.Formatter.(*logrus.JSONFormatter)
			assert.Equal(t, tc.wantJSON, isJSON)
		})
	}
}

func TestNewWrongFormatError(t *testing.T) {
	_, err := New("info", "xml")
	require.ErrorIs(t, err, config.ErrUnknownLogFormat)
}
