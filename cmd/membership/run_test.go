package main

import (
	"context"
	"errors"
	"os"
	"syscall"
	"testing"
	"time"
)

type appStub struct {
	startErr, stopErr error
	done              chan os.Signal
	stopped           bool
}

func (a *appStub) Start(context.Context) error { return a.startErr }

func (a *appStub) Stop(context.Context) error {
	a.stopped = true
	return a.stopErr
}

func (a *appStub) Done() <-chan os.Signal { return a.done }

func TestRunStopsOnContextCancel(t *testing.T) {
	app := &appStub{done: make(chan os.Signal)}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if err := run(ctx, app); err != nil {
		t.Fatalf("run returned error: %v", err)
	}
	if !app.stopped {
		t.Fatal("expected app to be stopped")
	}
}

func TestRunStopsOnShutdownSignal(t *testing.T) {
	app := &appStub{done: make(chan os.Signal, 1)}
	app.done <- syscall.SIGTERM

	errCh := make(chan error, 1)
	go func() { errCh <- run(context.Background(), app) }()

	select {
	case err := <-errCh:
		if err != nil {
			t.Fatalf("run returned error: %v", err)
		}
	case <-time.After(time.Second):
		t.Fatal("expected run to return after shutdown signal")
	}
}

func TestRunPropagatesErrors(t *testing.T) {
	boom := errors.New("boom")

	if err := run(context.Background(), &appStub{startErr: boom}); !errors.Is(err, boom) {
		t.Fatalf("expected start error, got %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := run(ctx, &appStub{stopErr: boom, done: make(chan os.Signal)}); !errors.Is(err, boom) {
		t.Fatalf("expected stop error, got %v", err)
	}
}
