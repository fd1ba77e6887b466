package utils

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBackgroundProcessManager_ShutdownStopsProcesses(t *testing.T) {
	bpm := NewBackgroundProcessManager()

	started := make(chan struct{})
	bpm.StartProcess("waiter", "blocks until cancelled", func(ctx context.Context) {
		close(started)
		<-ctx.Done()
	})
	<-started

	assert.Equal(t, 1, bpm.GetProcessCount())
	require.NoError(t, bpm.Shutdown(time.Second))
	assert.Zero(t, bpm.GetProcessCount())
}

func TestBackgroundProcessManager_ReplacesProcessWithSameName(t *testing.T) {
	bpm := NewBackgroundProcessManager()

	firstStopped := make(chan struct{})
	bpm.StartProcess("job", "first", func(ctx context.Context) {
		<-ctx.Done()
		close(firstStopped)
	})
	bpm.StartProcess("job", "second", func(ctx context.Context) {
		<-ctx.Done()
	})

	select {
	case <-firstStopped:
	case <-time.After(time.Second):
		t.Fatal("first process was not stopped")
	}

	procs := bpm.ListProcesses()
	require.Len(t, procs, 1)
	assert.Equal(t, "second", procs[0].Description)
	require.NoError(t, bpm.Shutdown(time.Second))
}

func TestBackgroundProcessManager_RecoversPanic(t *testing.T) {
	bpm := NewBackgroundProcessManager()

	bpm.StartProcess("panics", "panics right away", func(ctx context.Context) {
		panic("boom")
	})

	require.NoError(t, bpm.Shutdown(time.Second))
}
