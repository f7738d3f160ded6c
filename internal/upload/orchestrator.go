// Package upload drives a single file upload from the client side, trying
// each storage strategy in turn and falling back to a placeholder image.
package upload

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"jcbcommunity/internal/config"
	"jcbcommunity/internal/models"
)

type Phase string

const (
	PhaseIdle      Phase = "idle"
	PhaseUploading Phase = "uploading"
	PhaseSucceeded Phase = "succeeded"
	PhaseFailed    Phase = "failed"
)

// ProgressCap is the highest value the tick approximation reaches before completion.
const ProgressCap = 95

// State is a snapshot of one upload attempt.
type State struct {
	Phase    Phase
	Progress int
	URL      string
	Strategy string
	Warning  string
}

func (s State) Done() bool {
	return s.Phase == PhaseSucceeded || s.Phase == PhaseFailed
}

type Options struct {
	// DirectUploadBlocked skips the presigned strategy, for buckets that reject direct writes.
	DirectUploadBlocked bool
	PlaceholderURL      string
	Tick                time.Duration
	Step                int
	Logger              *zap.Logger
}

// OptionsFromConfig maps the upload section of the config.
func OptionsFromConfig(cfg config.Upload, logger *zap.Logger) Options {
	return Options{
		DirectUploadBlocked: cfg.DirectUploadBlocked,
		PlaceholderURL:      cfg.PlaceholderURL,
		Tick:                cfg.ProgressTick,
		Step:                cfg.ProgressStep,
		Logger:              logger,
	}
}

type API interface {
	PresignedAPI
	ServerAPI
}

type Orchestrator struct {
	strategies []Strategy
	opts       Options
}

// New orders the strategies presigned first, then server side. Only the
// server strategy is used when direct uploads are blocked.
func New(api API, opts Options) *Orchestrator {
	var strategies []Strategy
	if !opts.DirectUploadBlocked {
		strategies = append(strategies, PresignedStrategy{API: api})
	}
	strategies = append(strategies, ServerStrategy{API: api})
	return NewWithStrategies(opts, strategies...)
}

func NewWithStrategies(opts Options, strategies ...Strategy) *Orchestrator {
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	if opts.Tick <= 0 {
		opts.Tick = 200 * time.Millisecond
	}
	if opts.Step <= 0 {
		opts.Step = 5
	}
	return &Orchestrator{strategies: strategies, opts: opts}
}

// Upload runs the strategies in order until one succeeds. It never returns an
// error: on total failure the final state is Failed with the placeholder URL
// and a warning. onProgress, if set, is called serially with states whose
// Progress never decreases; the last call carries the returned state.
func (o *Orchestrator) Upload(ctx context.Context, file File, onProgress func(State)) State {
	rep := newReporter(onProgress)

	if err := checkFile(file); err != nil {
		return rep.finish(o.fallback(err))
	}

	rep.report(State{Phase: PhaseUploading})
	stop := o.startTicker(rep)

	var failures []string
	for _, strategy := range o.strategies {
		if ctx.Err() != nil {
			failures = append(failures, ctx.Err().Error())
			break
		}

		rep.setStrategy(strategy.Name())
		url, err := strategy.Upload(ctx, file)
		if err == nil {
			stop()
			final := State{Phase: PhaseSucceeded, Progress: 100, URL: url, Strategy: strategy.Name()}
			if len(failures) > 0 {
				final.Warning = "fell back to " + strategy.Name() + " upload: " + strings.Join(failures, "; ")
			}
			o.opts.Logger.Info("upload succeeded",
				zap.String("file", file.Name),
				zap.String("strategy", strategy.Name()))
			return rep.finish(final)
		}

		o.opts.Logger.Warn("upload strategy failed",
			zap.String("file", file.Name),
			zap.String("strategy", strategy.Name()),
			zap.Error(err))
		failures = append(failures, fmt.Sprintf("%s: %v", strategy.Name(), err))
	}

	stop()
	return rep.finish(o.fallback(fmt.Errorf("%s", strings.Join(failures, "; "))))
}

func (o *Orchestrator) fallback(cause error) State {
	o.opts.Logger.Warn("upload failed, using placeholder image", zap.Error(cause))
	return State{
		Phase:   PhaseFailed,
		URL:     o.opts.PlaceholderURL,
		Warning: "upload failed, using placeholder image: " + cause.Error(),
	}
}

// startTicker advances progress by Step every Tick until the returned stop
// func is called. stop waits for the ticker goroutine to exit.
func (o *Orchestrator) startTicker(rep *reporter) func() {
	done := make(chan struct{})
	var wg sync.WaitGroup
	wg.Add(1)

	go func() {
		defer wg.Done()
		ticker := time.NewTicker(o.opts.Tick)
		defer ticker.Stop()

		for {
			select {
			case <-done:
				return
			case <-ticker.C:
				rep.advance(o.opts.Step)
			}
		}
	}()

	var once sync.Once
	return func() {
		once.Do(func() {
			close(done)
			wg.Wait()
		})
	}
}

func checkFile(file File) error {
	if len(file.Data) == 0 {
		return fmt.Errorf("file %q is empty", file.Name)
	}
	if !models.IsAllowedImageType(file.ContentType) {
		return fmt.Errorf("content type %q is not an allowed image type", file.ContentType)
	}
	return nil
}

// reporter serializes callbacks and keeps Progress monotonic.
type reporter struct {
	mu         sync.Mutex
	state      State
	onProgress func(State)
}

func newReporter(onProgress func(State)) *reporter {
	return &reporter{state: State{Phase: PhaseIdle}, onProgress: onProgress}
}

func (r *reporter) report(s State) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.emitLocked(s)
}

func (r *reporter) setStrategy(name string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.state.Strategy = name
}

func (r *reporter) advance(step int) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.state.Phase != PhaseUploading || r.state.Progress >= ProgressCap {
		return
	}
	next := r.state
	next.Progress = min(r.state.Progress+step, ProgressCap)
	r.emitLocked(next)
}

func (r *reporter) finish(s State) State {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.emitLocked(s)
}

func (r *reporter) emitLocked(s State) State {
	if s.Progress < r.state.Progress {
		s.Progress = r.state.Progress
	}
	r.state = s
	if r.onProgress != nil {
		r.onProgress(s)
	}
	return s
}
