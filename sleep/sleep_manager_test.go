package sleep_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/tessellated-io/feeband-go/sleep"
)

func TestSleepCompletes(t *testing.T) {
	require.True(t, sleep.Sleep(testContext(t), time.Millisecond))
}

func TestSleepInterrupted(t *testing.T) {
	ctx, cancel := context.WithCancel(testContext(t))
	cancel()

	start := time.Now()
	require.False(t, sleep.Sleep(ctx, time.Hour))
	require.Less(t, time.Since(start), time.Second)
}

func TestSleepInterruptedWhileWaiting(t *testing.T) {
	ctx, cancel := context.WithTimeout(testContext(t), 10*time.Millisecond)
	defer cancel()

	require.False(t, sleep.Sleep(ctx, time.Hour))
}
