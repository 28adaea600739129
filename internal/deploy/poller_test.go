package deploy

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"modx/internal/tooling/toolingtest"
)

func TestPollerQueriesUntilTerminal(t *testing.T) {
	fc := toolingtest.New()
	fc.States = []string{StateQueued, StateQueued, StateCompleted}
	rec := &sleepRecorder{}
	p := NewPoller(fc, Options{Sleep: rec.sleep})

	got, err := p.Wait(context.Background(), "1dr000000000001")
	require.NoError(t, err)

	assert.Equal(t, StateCompleted, got.State)
	assert.Len(t, fc.ToolingQueries, 3)
	assert.Equal(t, []time.Duration{time.Second, time.Second}, rec.calls)
	assert.Equal(t, "SELECT Id, State, ErrorMsg, DeployDetails FROM ContainerAsyncRequest WHERE Id = '1dr000000000001'", fc.ToolingQueries[0])
}

func TestPollerTreatsQueuedCaseInsensitively(t *testing.T) {
	fc := toolingtest.New()
	fc.States = []string{"QUEUED", "queued", StateAborted}
	rec := &sleepRecorder{}
	p := NewPoller(fc, Options{Sleep: rec.sleep, PollInterval: 250 * time.Millisecond})

	got, err := p.Wait(context.Background(), "id")
	require.NoError(t, err)
	assert.Equal(t, StateAborted, got.State)
	assert.Len(t, fc.ToolingQueries, 3)
	assert.Equal(t, []time.Duration{250 * time.Millisecond, 250 * time.Millisecond}, rec.calls)
}

func TestPollerReturnsFirstTerminalState(t *testing.T) {
	fc := toolingtest.New()
	fc.States = []string{StateError, StateCompleted}
	rec := &sleepRecorder{}
	p := NewPoller(fc, Options{Sleep: rec.sleep})

	got, err := p.Wait(context.Background(), "id")
	require.NoError(t, err)
	assert.Equal(t, StateError, got.State)
	assert.Len(t, fc.ToolingQueries, 1)
	assert.Empty(t, rec.calls)
}

func TestPollerMaxPolls(t *testing.T) {
	fc := toolingtest.New()
	fc.States = []string{StateQueued}
	rec := &sleepRecorder{}
	p := NewPoller(fc, Options{Sleep: rec.sleep, MaxPolls: 4})

	got, err := p.Wait(context.Background(), "id")
	assert.ErrorIs(t, err, ErrPollLimit)
	require.NotNil(t, got)
	assert.Equal(t, StateQueued, got.State)
	assert.Len(t, fc.ToolingQueries, 4)
	assert.Len(t, rec.calls, 3)
}

func TestPollerQueryErrorIsFatal(t *testing.T) {
	boom := errors.New("dial tcp: i/o timeout")
	fc := toolingtest.New()
	fc.ToolingErr = boom
	p := NewPoller(fc, Options{Sleep: (&sleepRecorder{}).sleep})

	_, err := p.Wait(context.Background(), "id")
	assert.ErrorIs(t, err, boom)
	assert.Len(t, fc.ToolingQueries, 1)
}

func TestPollerMissingRecord(t *testing.T) {
	p := NewPoller(toolingtest.New(), Options{})
	_, err := p.Wait(context.Background(), "id")
	assert.ErrorIs(t, err, ErrNoAsyncRecord)
}

func TestPollerHonorsCancellation(t *testing.T) {
	fc := toolingtest.New()
	fc.States = []string{StateQueued}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	p := NewPoller(fc, Options{PollInterval: time.Hour})

	_, err := p.Wait(ctx, "id")
	assert.ErrorIs(t, err, context.Canceled)
	assert.Len(t, fc.ToolingQueries, 1)
}

func TestIsQueued(t *testing.T) {
	assert.True(t, IsQueued("Queued"))
	assert.True(t, IsQueued("qUeUeD"))
	assert.False(t, IsQueued("Completed"))
	assert.False(t, IsQueued(""))
}
