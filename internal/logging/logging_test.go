package logging

import (
	"bytes"
	"encoding/json"
	"os"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func restoreLogger(t *testing.T) {
	level := logrus.GetLevel()
	formatter := logrus.StandardLogger().Formatter
	t.Cleanup(func() {
		logrus.SetLevel(level)
		logrus.SetFormatter(formatter)
		logrus.SetOutput(os.Stderr)
	})
}

func TestSetup(t *testing.T) {
	tests := []struct {
		name      string
		level     string
		format    string
		verbose   bool
		wantLevel logrus.Level
		wantErr   bool
	}{
		{name: "info text", level: "info", format: "text", wantLevel: logrus.InfoLevel},
		{name: "warning alias", level: "warning", format: "json", wantLevel: logrus.WarnLevel},
		{name: "verbose overrides level", level: "error", format: "text", verbose: true, wantLevel: logrus.DebugLevel},
		{name: "empty format means text", level: "debug", wantLevel: logrus.DebugLevel},
		{name: "bad level", level: "chatty", format: "text", wantErr: true},
		{name: "bad format", level: "info", format: "xml", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			restoreLogger(t)

			err := Setup(tt.level, tt.format, tt.verbose)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantLevel, logrus.GetLevel())
		})
	}
}

func TestJSONFormat(t *testing.T) {
	restoreLogger(t)
	require.NoError(t, Setup("info", "json", false))

	var buf bytes.Buffer
	SetOutput(&buf)
	logrus.WithField("symbol", "BTC/USDT").Info("refreshed")

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "refreshed", line["msg"])
	assert.Equal(t, "BTC/USDT", line["symbol"])
}
