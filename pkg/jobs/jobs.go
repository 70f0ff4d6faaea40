// Package jobs runs named background jobs with pollable state. At most one
// job of each kind runs at a time; polling is side-effect-free and returns a
// snapshot, so callers can watch progress without perturbing the run.
package jobs

import (
	"context"
	"sync"
	"time"

	"github.com/candidatelabs/talentsync/pkg/errors"
	"github.com/candidatelabs/talentsync/pkg/logging"
)

// Kind names a job type. Each kind has at most one live execution.
type Kind string

const (
	// KindSyncChat refreshes candidate records from the chat source.
	KindSyncChat Kind = "SYNC_CHAT"
	// KindSyncATS refreshes candidate records from the tracker export.
	KindSyncATS Kind = "SYNC_ATS"
	// KindSyncEmail refreshes advisory email evidence.
	KindSyncEmail Kind = "SYNC_EMAIL"
	// KindSyncCalendar refreshes interview calendar evidence.
	KindSyncCalendar Kind = "SYNC_CALENDAR"
	// KindEnrich generates profile enrichment summaries.
	KindEnrich Kind = "ENRICH"
	// KindGenerateCheckins drafts per-client check-in messages.
	KindGenerateCheckins Kind = "GENERATE_CHECKINS"
)

// Kinds returns all job kinds in a stable order.
func Kinds() []Kind {
	return []Kind{
		KindSyncChat,
		KindSyncATS,
		KindSyncEmail,
		KindSyncCalendar,
		KindEnrich,
		KindGenerateCheckins,
	}
}

// IsValid reports whether k is a known job kind.
func (k Kind) IsValid() bool {
	for _, known := range Kinds() {
		if k == known {
			return true
		}
	}
	return false
}

// State is the lifecycle phase of a job execution.
type State string

const (
	// StatePending means the job is accepted but has not started work.
	StatePending State = "PENDING"
	// StateRunning means the job is executing.
	StateRunning State = "RUNNING"
	// StateDone means the job finished without error.
	StateDone State = "DONE"
	// StateError means the job finished with an error.
	StateError State = "ERROR"
)

// Terminal reports whether a state is final.
func (s State) Terminal() bool {
	return s == StateDone || s == StateError
}

// Progress is a monotonic counter pair plus a coarse stage label.
type Progress struct {
	Stage     string `json:"stage,omitempty" yaml:"stage,omitempty"`
	Completed int    `json:"completed" yaml:"completed"`
	Total     int    `json:"total" yaml:"total"`
}

// Status is a point-in-time snapshot of one execution.
type Status struct {
	Kind       Kind      `json:"kind" yaml:"kind"`
	State      State     `json:"state" yaml:"state"`
	Progress   Progress  `json:"progress" yaml:"progress"`
	Error      string    `json:"error,omitempty" yaml:"error,omitempty"`
	StartedAt  time.Time `json:"started_at" yaml:"started_at"`
	FinishedAt time.Time `json:"finished_at,omitempty" yaml:"finished_at,omitempty"`
}

// Fn is the body of a job. It reports progress through the Tracker and
// should return promptly when ctx is canceled.
type Fn func(ctx context.Context, t *Tracker) error

// execution is the live state behind one running job.
type execution struct {
	mu     sync.Mutex
	status Status
	cancel context.CancelFunc
}

func (e *execution) snapshot() Status {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.status
}

// Tracker is the progress handle passed to a job body. All methods are safe
// for concurrent use. Completed never decreases.
type Tracker struct {
	exec *execution
}

// SetTotal declares the expected number of work units.
func (t *Tracker) SetTotal(n int) {
	t.exec.mu.Lock()
	defer t.exec.mu.Unlock()
	if n > t.exec.status.Progress.Total {
		t.exec.status.Progress.Total = n
	}
}

// Advance adds n completed work units.
func (t *Tracker) Advance(n int) {
	if n <= 0 {
		return
	}
	t.exec.mu.Lock()
	defer t.exec.mu.Unlock()
	t.exec.status.Progress.Completed += n
}

// SetStage updates the coarse stage label.
func (t *Tracker) SetStage(stage string) {
	t.exec.mu.Lock()
	defer t.exec.mu.Unlock()
	t.exec.status.Progress.Stage = stage
}

// Registry starts, polls, and cancels jobs. The zero value is not usable;
// call NewRegistry.
type Registry struct {
	mu   sync.Mutex
	live map[Kind]*execution
	last map[Kind]Status
	wg   sync.WaitGroup
	now  func() time.Time
}

// NewRegistry creates an empty job registry.
func NewRegistry() *Registry {
	return &Registry{
		live: make(map[Kind]*execution),
		last: make(map[Kind]Status),
		now:  time.Now,
	}
}

// Start launches fn as a background job of the given kind. It returns
// ErrAlreadyRunning (wrapped) when an execution of that kind is still live.
// The job inherits ctx: canceling it, or calling Cancel, stops the job.
func (r *Registry) Start(ctx context.Context, kind Kind, fn Fn) error {
	if !kind.IsValid() {
		return errors.NewValidationError("kind", string(kind), "unknown job kind")
	}

	r.mu.Lock()
	if _, ok := r.live[kind]; ok {
		r.mu.Unlock()
		return errors.WrapJob(string(kind), errors.ErrAlreadyRunning)
	}

	jobCtx, cancel := context.WithCancel(ctx)
	exec := &execution{
		status: Status{
			Kind:      kind,
			State:     StatePending,
			StartedAt: r.now(),
		},
		cancel: cancel,
	}
	r.live[kind] = exec
	r.wg.Add(1)
	r.mu.Unlock()

	log := logging.FromContext(ctx).With().Str("job_kind", string(kind)).Logger()
	jobCtx = logging.WithLogger(jobCtx, &log)

	go r.run(jobCtx, kind, exec, fn)
	return nil
}

func (r *Registry) run(ctx context.Context, kind Kind, exec *execution, fn Fn) {
	defer r.wg.Done()

	exec.mu.Lock()
	exec.status.State = StateRunning
	exec.mu.Unlock()

	log := logging.FromContext(ctx)
	log.Info().Str("job_kind", string(kind)).Msg("Job started")

	err := fn(ctx, &Tracker{exec: exec})
	if err == nil && ctx.Err() != nil {
		err = errors.WrapJob(string(kind), errors.ErrCanceled)
	}

	exec.mu.Lock()
	exec.status.FinishedAt = r.now()
	if err != nil {
		exec.status.State = StateError
		exec.status.Error = err.Error()
	} else {
		exec.status.State = StateDone
	}
	final := exec.status
	exec.mu.Unlock()

	if err != nil {
		log.Error().Err(err).Str("job_kind", string(kind)).Msg("Job failed")
	} else {
		log.Info().
			Str("job_kind", string(kind)).
			Int("completed", final.Progress.Completed).
			Dur("elapsed", final.FinishedAt.Sub(final.StartedAt)).
			Msg("Job finished")
	}

	r.mu.Lock()
	delete(r.live, kind)
	r.last[kind] = final
	r.mu.Unlock()

	exec.cancel()
}

// Poll returns a snapshot of the live execution of kind, or the most recent
// finished one. The bool is false when the kind has never run.
func (r *Registry) Poll(kind Kind) (Status, bool) {
	r.mu.Lock()
	exec, live := r.live[kind]
	last, ran := r.last[kind]
	r.mu.Unlock()

	if live {
		return exec.snapshot(), true
	}
	return last, ran
}

// Running reports whether an execution of kind is currently live.
func (r *Registry) Running(kind Kind) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.live[kind]
	return ok
}

// Cancel requests cancellation of the live execution of kind. It returns
// false when nothing is running. Cancellation is best-effort: the job sees
// its context close and winds down on its own schedule.
func (r *Registry) Cancel(kind Kind) bool {
	r.mu.Lock()
	exec, ok := r.live[kind]
	r.mu.Unlock()
	if !ok {
		return false
	}
	exec.cancel()
	return true
}

// Wait blocks until every live job has finished. Meant for shutdown paths.
func (r *Registry) Wait() {
	r.wg.Wait()
}
