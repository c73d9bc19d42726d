package main

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dasolkim7/speaker-diarization/internal/config"
)

type stubScheduler struct {
	err   error
	calls int
}

func (s *stubScheduler) Schedule(context.Context) error {
	s.calls++
	return s.err
}

type stubCron struct {
	mu     sync.Mutex
	starts int
	stops  int
}

func (c *stubCron) Start() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.starts++
}

func (c *stubCron) Stop() context.Context {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.stops++
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	return ctx
}

// stubHTTP blocks in ListenAndServe until Shutdown, unless listenErr is set.
type stubHTTP struct {
	listenErr error
	addr      chan string
	closed    chan struct{}
	once      sync.Once
}

func newStubHTTP(listenErr error) *stubHTTP {
	return &stubHTTP{listenErr: listenErr, addr: make(chan string, 1), closed: make(chan struct{})}
}

func (h *stubHTTP) ListenAndServe(addr string) error {
	h.addr <- addr
	if h.listenErr != nil {
		return h.listenErr
	}
	<-h.closed
	return http.ErrServerClosed
}

func (h *stubHTTP) Shutdown(context.Context) error {
	h.once.Do(func() { close(h.closed) })
	return nil
}

func testConfig() *config.Config {
	return &config.Config{HTTP: config.HTTPConfig{Addr: "127.0.0.1:8501", UIEnabled: true}}
}

func TestRunWithComponents_ServesUntilCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sched := &stubScheduler{}
	engine := &stubCron{}
	srv := newStubHTTP(nil)

	result := make(chan error, 1)
	go func() { result <- runWithComponents(ctx, testConfig(), sched, engine, srv) }()

	select {
	case addr := <-srv.addr:
		assert.Equal(t, "127.0.0.1:8501", addr)
	case <-time.After(2 * time.Second):
		t.Fatal("server never started listening")
	}
	cancel()

	select {
	case err := <-result:
		require.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("shutdown did not complete")
	}
	assert.Equal(t, 1, sched.calls)
	assert.Equal(t, 1, engine.starts)
	assert.Equal(t, 1, engine.stops)
}

func TestRunWithComponents_StartupFailures(t *testing.T) {
	tests := []struct {
		name       string
		schedErr   error
		listenErr  error
		wantErr    string
		wantStarts int
		wantListen bool
	}{
		{
			name:      "listen error is returned",
			listenErr: errors.New("listen tcp 127.0.0.1:8501: bind: address already in use"),
			wantErr:   "address already in use",
			// cron was running and must be stopped again
			wantStarts: 1,
			wantListen: true,
		},
		{
			name:     "schedule error stops before serving",
			schedErr: errors.New("invalid AUDIO_CLEANUP_CRON"),
			wantErr:  "AUDIO_CLEANUP_CRON",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			engine := &stubCron{}
			srv := newStubHTTP(tt.listenErr)

			err := runWithComponents(context.Background(), testConfig(), &stubScheduler{err: tt.schedErr}, engine, srv)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
			assert.Equal(t, tt.wantStarts, engine.starts)
			assert.Equal(t, tt.wantStarts, engine.stops)
			assert.Equal(t, tt.wantListen, len(srv.addr) == 1)
		})
	}
}
