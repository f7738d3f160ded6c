package upload

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"jcbcommunity/internal/apperr"
	"jcbcommunity/internal/config"
	"jcbcommunity/internal/models"
)

const placeholder = "https://placehold.co/600x400?text=Image+unavailable"

var png = File{Name: "cat.png", ContentType: "image/png", Data: []byte("\x89PNG")}

type fakeStrategy struct {
	name  string
	url   string
	err   error
	calls int
	wait  <-chan struct{}
}

func (f *fakeStrategy) Name() string { return f.name }

func (f *fakeStrategy) Upload(ctx context.Context, file File) (string, error) {
	f.calls++
	if f.wait != nil {
		<-f.wait
	}
	return f.url, f.err
}

type recorder struct {
	mu     sync.Mutex
	states []State
}

func (r *recorder) record(s State) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.states = append(r.states, s)
}

func (r *recorder) all() []State {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]State(nil), r.states...)
}

func testOptions() Options {
	return Options{PlaceholderURL: placeholder, Tick: time.Hour, Step: 5, Logger: zap.NewNop()}
}

func TestUpload_FirstStrategySucceeds(t *testing.T) {
	presigned := &fakeStrategy{name: StrategyPresigned, url: "https://files/cat.png"}
	server := &fakeStrategy{name: StrategyServer, url: "https://files/other.png"}
	rec := &recorder{}

	final := NewWithStrategies(testOptions(), presigned, server).Upload(context.Background(), png, rec.record)

	assert.Equal(t, State{Phase: PhaseSucceeded, Progress: 100, URL: "https://files/cat.png", Strategy: StrategyPresigned}, final)
	assert.Equal(t, 1, presigned.calls)
	assert.Equal(t, 0, server.calls)

	states := rec.all()
	require.Len(t, states, 2)
	assert.Equal(t, State{Phase: PhaseUploading}, states[0])
	assert.Equal(t, final, states[1])
}

func TestUpload_FallsBackToServer(t *testing.T) {
	presigned := &fakeStrategy{name: StrategyPresigned, err: apperr.Upstream(errors.New("AccessDenied"), "storage rejected direct upload")}
	server := &fakeStrategy{name: StrategyServer, url: "https://files/cat.png"}

	final := NewWithStrategies(testOptions(), presigned, server).Upload(context.Background(), png, nil)

	assert.Equal(t, PhaseSucceeded, final.Phase)
	assert.Equal(t, StrategyServer, final.Strategy)
	assert.Equal(t, "https://files/cat.png", final.URL)
	assert.Contains(t, final.Warning, "fell back to server upload")
	assert.Equal(t, 1, server.calls)
}

func TestUpload_TotalFailureUsesPlaceholder(t *testing.T) {
	core, logs := observer.New(zap.WarnLevel)
	opts := testOptions()
	opts.Logger = zap.New(core)

	server := &fakeStrategy{name: StrategyServer, err: errors.New("storage write failed")}
	rec := &recorder{}

	final := NewWithStrategies(opts, server).Upload(context.Background(), png, rec.record)

	assert.Equal(t, PhaseFailed, final.Phase)
	assert.Equal(t, placeholder, final.URL)
	assert.Contains(t, final.Warning, "storage write failed")
	assert.True(t, final.Done())
	assert.Equal(t, final, rec.all()[len(rec.all())-1])
	assert.Equal(t, 1, logs.FilterMessage("upload failed, using placeholder image").Len())
}

func TestUpload_RejectsBadFileWithoutCallingStrategies(t *testing.T) {
	tests := []struct {
		name string
		file File
	}{
		{"empty", File{Name: "cat.png", ContentType: "image/png"}},
		{"not an image", File{Name: "notes.txt", ContentType: "text/plain", Data: []byte("hi")}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := &fakeStrategy{name: StrategyServer, url: "https://files/x"}

			final := NewWithStrategies(testOptions(), server).Upload(context.Background(), tt.file, nil)

			assert.Equal(t, PhaseFailed, final.Phase)
			assert.Equal(t, placeholder, final.URL)
			assert.Equal(t, 0, server.calls)
		})
	}
}

func TestUpload_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	server := &fakeStrategy{name: StrategyServer, url: "https://files/x"}
	final := NewWithStrategies(testOptions(), server).Upload(ctx, png, nil)

	assert.Equal(t, PhaseFailed, final.Phase)
	assert.Equal(t, placeholder, final.URL)
	assert.Equal(t, 0, server.calls)
}

func TestUpload_ProgressTicksToCapThenSnaps(t *testing.T) {
	release := make(chan struct{})
	reachedCap := make(chan struct{}, 1)

	opts := testOptions()
	opts.Tick = time.Millisecond
	opts.Step = 40

	rec := &recorder{}
	onProgress := func(s State) {
		rec.record(s)
		if s.Phase == PhaseUploading && s.Progress == ProgressCap {
			select {
			case reachedCap <- struct{}{}:
			default:
			}
		}
	}

	server := &fakeStrategy{name: StrategyServer, url: "https://files/cat.png", wait: release}
	done := make(chan State)
	go func() {
		done <- NewWithStrategies(opts, server).Upload(context.Background(), png, onProgress)
	}()

	select {
	case <-reachedCap:
	case <-time.After(5 * time.Second):
		t.Fatal("progress never reached the cap")
	}
	close(release)
	final := <-done

	assert.Equal(t, 100, final.Progress)

	states := rec.all()
	var progress []int
	for _, s := range states {
		progress = append(progress, s.Progress)
	}
	assert.Equal(t, []int{0, 40, 80, 95, 100}, progress)
	for i := 1; i < len(states); i++ {
		assert.GreaterOrEqual(t, states[i].Progress, states[i-1].Progress)
	}
}

func TestUpload_FailedKeepsProgress(t *testing.T) {
	r := newReporter(nil)
	r.report(State{Phase: PhaseUploading})
	r.advance(30)

	final := r.finish(State{Phase: PhaseFailed, URL: placeholder})
	assert.Equal(t, 30, final.Progress)
}

type fakeAPI struct {
	presignCalls int
	uploadCalls  int
	putErr       error
}

func (f *fakeAPI) GenerateUploadURL(ctx context.Context, fileName, contentType string) (*models.PresignedUpload, error) {
	f.presignCalls++
	return &models.PresignedUpload{PresignedURL: "https://minio/put", Key: "uploads/u/1-" + fileName}, nil
}

func (f *fakeAPI) PutPresigned(ctx context.Context, presignedURL, contentType string, data []byte) error {
	return f.putErr
}

func (f *fakeAPI) GetFileURL(ctx context.Context, key string) (string, error) {
	return "https://minio/get/" + key, nil
}

func (f *fakeAPI) UploadFile(ctx context.Context, fileName, contentType string, data []byte) (*models.UploadResult, error) {
	f.uploadCalls++
	return &models.UploadResult{Success: true, FileURL: "https://minio/server/" + fileName, Key: "uploads/u/2-" + fileName}, nil
}

func TestNew_StrategyOrder(t *testing.T) {
	t.Run("presigned first", func(t *testing.T) {
		api := &fakeAPI{}
		final := New(api, testOptions()).Upload(context.Background(), png, nil)

		assert.Equal(t, StrategyPresigned, final.Strategy)
		assert.Equal(t, "https://minio/get/uploads/u/1-cat.png", final.URL)
		assert.Equal(t, 0, api.uploadCalls)
	})

	t.Run("presigned put rejected", func(t *testing.T) {
		api := &fakeAPI{putErr: errors.New("403 AccessDenied")}
		final := New(api, testOptions()).Upload(context.Background(), png, nil)

		assert.Equal(t, StrategyServer, final.Strategy)
		assert.Equal(t, 1, api.presignCalls)
		assert.Equal(t, 1, api.uploadCalls)
	})

	t.Run("direct upload blocked", func(t *testing.T) {
		api := &fakeAPI{}
		opts := testOptions()
		opts.DirectUploadBlocked = true

		final := New(api, opts).Upload(context.Background(), png, nil)

		assert.Equal(t, StrategyServer, final.Strategy)
		assert.Equal(t, 0, api.presignCalls)
	})
}

func TestOptionsFromConfig(t *testing.T) {
	opts := OptionsFromConfig(config.Upload{
		PlaceholderURL:      placeholder,
		DirectUploadBlocked: true,
		ProgressTick:        50 * time.Millisecond,
		ProgressStep:        10,
	}, nil)

	assert.True(t, opts.DirectUploadBlocked)
	assert.Equal(t, placeholder, opts.PlaceholderURL)
	assert.Equal(t, 50*time.Millisecond, opts.Tick)
	assert.Equal(t, 10, opts.Step)
}
