package service

import (
	"context"
	"errors"
	"study-buddy/internal/domain"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfirmationGate_NeverRunsWithoutConfirm(t *testing.T) {
	gate := NewConfirmationGate()
	var runs int32
	gate.Open("Delete?", func(context.Context) error {
		atomic.AddInt32(&runs, 1)
		return nil
	})

	msg, open := gate.Pending()
	assert.True(t, open)
	assert.Equal(t, "Delete?", msg)

	gate.Cancel()
	assert.False(t, gate.IsOpen())
	assert.Equal(t, int32(0), atomic.LoadInt32(&runs))

	err := gate.Confirm(context.Background())
	assert.Equal(t, domain.CodeInvalidState, domain.CodeOf(err), "nothing to confirm after cancel")
	assert.Equal(t, int32(0), atomic.LoadInt32(&runs))
}

func TestConfirmationGate_ConfirmRunsOnceAndCloses(t *testing.T) {
	gate := NewConfirmationGate()
	var runs int32
	gate.Open("Delete?", func(context.Context) error {
		atomic.AddInt32(&runs, 1)
		return nil
	})

	require.NoError(t, gate.Confirm(context.Background()))
	assert.Equal(t, int32(1), atomic.LoadInt32(&runs))
	assert.False(t, gate.IsOpen())
	assert.Equal(t, OpDone, gate.State())
}

func TestConfirmationGate_OpenOverwrites(t *testing.T) {
	gate := NewConfirmationGate()
	var ran []string
	gate.Open("first", func(context.Context) error { ran = append(ran, "first"); return nil })
	gate.Open("second", func(context.Context) error { ran = append(ran, "second"); return nil })

	msg, _ := gate.Pending()
	assert.Equal(t, "second", msg)
	require.NoError(t, gate.Confirm(context.Background()))
	assert.Equal(t, []string{"second"}, ran)
}

func TestConfirmationGate_FailedActionStaysOpen(t *testing.T) {
	gate := NewConfirmationGate()
	boom := errors.New("boom")
	gate.Open("Delete?", func(context.Context) error { return boom })

	assert.ErrorIs(t, gate.Confirm(context.Background()), boom)
	assert.True(t, gate.IsOpen())
	assert.Equal(t, OpFailed, gate.State())
}

func TestConfirmationGate_ConfirmIsSingleFlight(t *testing.T) {
	gate := NewConfirmationGate()
	release := make(chan struct{})
	started := make(chan struct{})
	var runs int32
	gate.Open("Delete?", func(context.Context) error {
		atomic.AddInt32(&runs, 1)
		close(started)
		<-release
		return nil
	})

	done := make(chan error, 1)
	go func() { done <- gate.Confirm(context.Background()) }()
	<-started

	err := gate.Confirm(context.Background())
	assert.True(t, domain.IsBusy(err))

	close(release)
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("confirm did not finish")
	}
	assert.Equal(t, int32(1), atomic.LoadInt32(&runs))
}

func TestConfirmationGate_ReopenedWhileRunningStaysOpen(t *testing.T) {
	gate := NewConfirmationGate()
	gate.Open("first", func(context.Context) error {
		gate.Open("second", func(context.Context) error { return nil })
		return nil
	})

	require.NoError(t, gate.Confirm(context.Background()))
	msg, open := gate.Pending()
	assert.True(t, open)
	assert.Equal(t, "second", msg)
}
