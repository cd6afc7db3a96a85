package log_test

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/tessellated-io/feeband-go/log"
)

func TestLoggerRespectsLevel(t *testing.T) {
	var buf bytes.Buffer
	logger := log.NewLoggerWithWriter("warn", &buf)

	logger.Info().Msg("hidden")
	require.Empty(t, buf.String())

	logger.Warn().Msg("shown")
	require.Contains(t, buf.String(), "shown")
}

func TestLoggerUnknownLevelDefaultsToInfo(t *testing.T) {
	var buf bytes.Buffer
	logger := log.NewLoggerWithWriter("chatty", &buf)

	logger.Debug().Msg("hidden")
	require.Empty(t, buf.String())

	logger.Info().Msg("shown")
	require.Contains(t, buf.String(), "shown")
}

func TestApplyPrefix(t *testing.T) {
	var buf bytes.Buffer
	logger := log.NewLoggerWithWriter("info", &buf).ApplyPrefix(" [osmosis]").ApplyPrefix(" [uosmo]")

	logger.Info().Msg("hello")
	require.Contains(t, buf.String(), "INFO [OSMOSIS] [UOSMO]")
}
