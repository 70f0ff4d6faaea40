package jobs

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/candidatelabs/talentsync/pkg/errors"
)

// waitTerminal polls until the kind reaches a terminal state.
func waitTerminal(t *testing.T, r *Registry, kind Kind) Status {
	t.Helper()
	deadline := time.After(5 * time.Second)
	for {
		if st, ok := r.Poll(kind); ok && st.State.Terminal() {
			return st
		}
		select {
		case <-deadline:
			t.Fatalf("job %s never reached a terminal state", kind)
		case <-time.After(5 * time.Millisecond):
		}
	}
}

func TestRegistryRunsJobToDone(t *testing.T) {
	r := NewRegistry()

	err := r.Start(context.Background(), KindSyncChat, func(ctx context.Context, tr *Tracker) error {
		tr.SetStage("fetching")
		tr.SetTotal(3)
		tr.Advance(3)
		return nil
	})
	require.NoError(t, err)

	st := waitTerminal(t, r, KindSyncChat)
	assert.Equal(t, StateDone, st.State)
	assert.Equal(t, 3, st.Progress.Completed)
	assert.Equal(t, 3, st.Progress.Total)
	assert.Equal(t, "fetching", st.Progress.Stage)
	assert.Empty(t, st.Error)
	assert.False(t, st.FinishedAt.IsZero())
}

func TestRegistryRecordsFailure(t *testing.T) {
	r := NewRegistry()

	err := r.Start(context.Background(), KindEnrich, func(ctx context.Context, tr *Tracker) error {
		return errors.NewGenerationError("gemini", "enrichment failed", assert.AnError)
	})
	require.NoError(t, err)

	st := waitTerminal(t, r, KindEnrich)
	assert.Equal(t, StateError, st.State)
	assert.Contains(t, st.Error, "enrichment")
}

func TestRegistryRejectsConcurrentKind(t *testing.T) {
	r := NewRegistry()
	release := make(chan struct{})

	err := r.Start(context.Background(), KindSyncATS, func(ctx context.Context, tr *Tracker) error {
		<-release
		return nil
	})
	require.NoError(t, err)

	err = r.Start(context.Background(), KindSyncATS, func(ctx context.Context, tr *Tracker) error {
		return nil
	})
	require.Error(t, err)
	assert.True(t, errors.IsAlreadyRunning(err))

	// A different kind is unaffected.
	err = r.Start(context.Background(), KindSyncEmail, func(ctx context.Context, tr *Tracker) error {
		return nil
	})
	assert.NoError(t, err)

	close(release)
	r.Wait()

	// Once the first run finishes, the kind can start again.
	err = r.Start(context.Background(), KindSyncATS, func(ctx context.Context, tr *Tracker) error {
		return nil
	})
	assert.NoError(t, err)
	r.Wait()
}

func TestRegistryCancel(t *testing.T) {
	r := NewRegistry()
	started := make(chan struct{})

	err := r.Start(context.Background(), KindSyncCalendar, func(ctx context.Context, tr *Tracker) error {
		close(started)
		<-ctx.Done()
		return ctx.Err()
	})
	require.NoError(t, err)
	<-started

	assert.True(t, r.Cancel(KindSyncCalendar))
	st := waitTerminal(t, r, KindSyncCalendar)
	assert.Equal(t, StateError, st.State)
	assert.Contains(t, st.Error, "canceled")

	assert.False(t, r.Cancel(KindSyncCalendar), "nothing left to cancel")
}

func TestRegistryCancelMapsCleanReturn(t *testing.T) {
	r := NewRegistry()
	started := make(chan struct{})

	// A job that swallows cancellation and returns nil is still recorded
	// as canceled, not done.
	err := r.Start(context.Background(), KindGenerateCheckins, func(ctx context.Context, tr *Tracker) error {
		close(started)
		<-ctx.Done()
		return nil
	})
	require.NoError(t, err)
	<-started

	require.True(t, r.Cancel(KindGenerateCheckins))
	st := waitTerminal(t, r, KindGenerateCheckins)
	assert.Equal(t, StateError, st.State)
	assert.Contains(t, st.Error, "canceled")
}

func TestRegistryPollNeverRan(t *testing.T) {
	r := NewRegistry()
	_, ok := r.Poll(KindSyncChat)
	assert.False(t, ok)
}

func TestRegistryPollDuringRun(t *testing.T) {
	r := NewRegistry()
	advance := make(chan struct{})
	advanced := make(chan struct{})

	err := r.Start(context.Background(), KindSyncChat, func(ctx context.Context, tr *Tracker) error {
		tr.SetTotal(2)
		<-advance
		tr.Advance(1)
		close(advanced)
		<-ctx.Done()
		return nil
	})
	require.NoError(t, err)

	assert.True(t, r.Running(KindSyncChat))
	close(advance)
	<-advanced

	st, ok := r.Poll(KindSyncChat)
	require.True(t, ok)
	assert.Equal(t, StateRunning, st.State)
	assert.Equal(t, 1, st.Progress.Completed)

	r.Cancel(KindSyncChat)
	r.Wait()
	assert.False(t, r.Running(KindSyncChat))
}

func TestRegistryRejectsUnknownKind(t *testing.T) {
	r := NewRegistry()
	err := r.Start(context.Background(), Kind("SHRED_ROSTER"), func(ctx context.Context, tr *Tracker) error {
		return nil
	})
	require.Error(t, err)
	var verr *errors.ValidationError
	assert.ErrorAs(t, err, &verr)
}

func TestTrackerProgressIsMonotonic(t *testing.T) {
	exec := &execution{}
	tr := &Tracker{exec: exec}

	tr.SetTotal(5)
	tr.SetTotal(3)
	assert.Equal(t, 5, exec.snapshot().Progress.Total, "total never shrinks")

	tr.Advance(2)
	tr.Advance(-1)
	tr.Advance(0)
	assert.Equal(t, 2, exec.snapshot().Progress.Completed, "completed never decreases")
}

func TestKindIsValid(t *testing.T) {
	for _, k := range Kinds() {
		assert.True(t, k.IsValid(), k)
	}
	assert.False(t, Kind("sync_chat").IsValid(), "kinds are case-sensitive")
	assert.False(t, Kind("").IsValid())
}
