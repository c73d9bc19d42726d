// Package pipeline runs the fixed metadata, transcript, persist and
// diarize sequence for one video, stopping at the first failure.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/dasolkim7/speaker-diarization/internal/diarize"
	"github.com/dasolkim7/speaker-diarization/internal/transcript"
	"github.com/dasolkim7/speaker-diarization/internal/video"
	"github.com/dasolkim7/speaker-diarization/pkg/log"
)

type metadataResolver interface {
	Resolve(ctx context.Context, videoURL string) (video.VideoRef, error)
}

type transcriptStore interface {
	Save(videoID, text string) (string, error)
}

type diarizer interface {
	Diarize(ctx context.Context, provider diarize.Provider, title, transcript string) (string, error)
	Model(provider diarize.Provider) string
}

// Runner wires the step implementations together.
type Runner struct {
	resolver  metadataResolver
	acquirers map[transcript.Source]transcript.Acquirer
	store     transcriptStore
	diarizer  diarizer
	timeout   time.Duration
	group     singleflight.Group
	mu        sync.Mutex // one run at a time
}

const defaultRunTimeout = time.Hour

type Option func(*Runner)

// WithRunTimeout bounds a single run, measured from when it starts executing.
func WithRunTimeout(d time.Duration) Option {
	return func(r *Runner) {
		if d > 0 {
			r.timeout = d
		}
	}
}

func NewRunner(
	resolver metadataResolver,
	acquirers map[transcript.Source]transcript.Acquirer,
	store transcriptStore,
	d diarizer,
	opts ...Option,
) *Runner {
	r := &Runner{
		resolver:  resolver,
		acquirers: acquirers,
		store:     store,
		diarizer:  d,
		timeout:   defaultRunTimeout,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Run executes one pass. The returned report is never nil and holds what was
// produced before any failure. Step failures are *StepError; a caller whose
// ctx ends first gets ctx.Err() and an empty report.
//
// Runs execute one at a time. An identical run already in flight is joined
// instead of queued again; a joined caller only sees the final result, not
// the per-step events. The shared run does not inherit any caller's
// cancellation, only its values, and is bounded by the run timeout instead.
func (r *Runner) Run(ctx context.Context, in Input, observe Observer) (*Report, error) {
	if observe == nil {
		observe = func(Event) {}
	}
	if err := in.Validate(); err != nil {
		observe(Event{Step: StepInput, Label: StepInput.Label(), Status: StatusFailed, Payload: err.Error()})
		return &Report{Input: in}, err
	}

	out := &guardedObserver{fn: observe}
	defer out.close()

	detached := context.WithoutCancel(ctx)
	ch := r.group.DoChan(runKey(in), func() (any, error) {
		r.mu.Lock()
		defer r.mu.Unlock()
		runCtx, cancel := context.WithTimeout(detached, r.timeout)
		defer cancel()
		return r.run(runCtx, in, out.observe)
	})

	select {
	case res := <-ch:
		if res.Shared {
			log.Info("Joined an in-flight run for %s", in.URL)
		}
		report, _ := res.Val.(*Report)
		if report == nil {
			report = &Report{Input: in}
		}
		return report, res.Err
	case <-ctx.Done():
		log.Warn("Caller left before the run for %s finished: %v", in.URL, ctx.Err())
		return &Report{Input: in}, ctx.Err()
	}
}

// guardedObserver drops events once the caller that registered it returned.
type guardedObserver struct {
	mu     sync.Mutex
	fn     Observer
	closed bool
}

func (g *guardedObserver) observe(e Event) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.closed {
		return
	}
	g.fn(e)
}

func (g *guardedObserver) close() {
	g.mu.Lock()
	g.closed = true
	g.mu.Unlock()
}

func runKey(in Input) string {
	key := in.URL
	if id, err := video.ParseVideoID(in.URL); err == nil {
		key = id
	}
	return fmt.Sprintf("%s|%s|%s", key, in.Source, in.Provider)
}

func (r *Runner) run(ctx context.Context, in Input, observe Observer) (*Report, error) {
	report := &Report{Input: in}

	step := func(s Step, fn func() (any, error)) error {
		observe(Event{Step: s, Label: s.Label(), Status: StatusStarted})
		log.Info("%s started", s.Label())

		payload, err := fn()
		if err != nil {
			stepErr := asStepError(s, err)
			log.Error("%s failed for %s: %v", s.Label(), in.URL, err)
			observe(Event{Step: s, Label: s.Label(), Status: StatusFailed, Payload: stepErr.Error()})
			return stepErr
		}
		log.Info("%s done", s.Label())
		observe(Event{Step: s, Label: s.Label(), Status: StatusDone, Payload: payload})
		return nil
	}

	err := step(StepMetadata, func() (any, error) {
		ref, err := r.resolver.Resolve(ctx, in.URL)
		if err != nil {
			return nil, err
		}
		if ref.ID == "" {
			return nil, errors.New("extractor returned no video id")
		}
		report.Video = &ref
		report.UploadDate = ref.UploadDateDisplay()
		return ref, nil
	})
	if err != nil {
		return report, err
	}

	acquireStep := StepCaptions
	if in.Source == transcript.SourceLocal {
		acquireStep = StepTranscription
	}
	err = step(acquireStep, func() (any, error) {
		acquirer, ok := r.acquirers[in.Source]
		if !ok {
			return nil, fmt.Errorf("no acquirer for source %q", in.Source)
		}
		res, err := acquirer.Acquire(ctx, transcript.Request{URL: in.URL, Video: *report.Video})
		if res.Source != "" {
			report.Transcript = &res
		}
		if err != nil {
			return nil, err
		}
		return res, nil
	})
	if err != nil {
		return report, err
	}

	err = step(StepPersist, func() (any, error) {
		path, err := r.store.Save(report.Video.ID, report.Transcript.Text)
		if err != nil {
			return nil, err
		}
		report.TranscriptPath = path
		return path, nil
	})
	if err != nil {
		return report, err
	}

	report.Model = r.diarizer.Model(in.Provider)
	err = step(StepDiarize, func() (any, error) {
		out, err := r.diarizer.Diarize(ctx, in.Provider, report.Video.Title, report.Transcript.Text)
		if err != nil {
			return nil, err
		}
		report.Diarization = out
		return out, nil
	})
	if err != nil {
		return report, err
	}

	return report, nil
}

// asStepError wraps err for step. All local transcription failures share
// one step and therefore one message; the cause keeps the detail.
func asStepError(step Step, err error) *StepError {
	var stepErr *StepError
	if errors.As(err, &stepErr) {
		return stepErr
	}
	return NewStepError(step, err)
}
