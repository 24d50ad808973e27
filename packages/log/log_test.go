package log

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfigure(t *testing.T) {
	var buf bytes.Buffer
	SetOutput(&buf)
	t.Cleanup(func() {
		Configure("info", "text")
	})

	Configure("warn", "json")
	assert.Equal(t, logrus.WarnLevel, GetLogger().GetLevel())

	GetLogger().Info("hidden")
	GetLogger().WithField("executionId", "abc").Warn("shown")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "shown", entry["msg"])
	assert.Equal(t, "abc", entry["executionId"])
}

func TestConfigure_UnknownLevelKeepsCurrent(t *testing.T) {
	t.Cleanup(func() {
		Configure("info", "text")
	})

	Configure("debug", "text")
	Configure("loud", "text")

	assert.Equal(t, logrus.DebugLevel, GetLogger().GetLevel())
}
