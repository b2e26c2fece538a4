package helpers

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewLogger_ProductionWritesJSON(t *testing.T) {
	var buf bytes.Buffer
	logger := newLogger(&buf, "finance", "production")
	buf.Reset()

	LogError(logger, "store failed", errors.New("boom"), logrus.Fields{"entry_id": 3})

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "store failed", line["msg"])
	assert.Equal(t, "boom", line["error"])
	assert.Equal(t, float64(3), line["entry_id"])
	assert.Equal(t, "finance", line["app"])
	assert.Equal(t, logrus.InfoLevel, logger.GetLevel())
}

func TestNewLogger_DevelopmentIsVerboseText(t *testing.T) {
	var buf bytes.Buffer
	logger := newLogger(&buf, "finance", "development")

	assert.Equal(t, logrus.DebugLevel, logger.GetLevel())
	assert.True(t, strings.Contains(buf.String(), "logger initialized"))
}

func TestLogWarn_KeepsExplicitAppField(t *testing.T) {
	var buf bytes.Buffer
	logger := newLogger(&buf, "finance", "production")

	LogWarn(logger, "degraded", nil, logrus.Fields{"app": "worker"})

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "warning", line["level"])
	assert.Equal(t, "worker", line["app"])
	assert.NotContains(t, line, "error")
}
