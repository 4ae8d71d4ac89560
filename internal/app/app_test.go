package app

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/fx"

	"github.com/polkiloo/membership/internal/config"
	"github.com/polkiloo/membership/internal/domain/model"
	testhelpers "github.com/polkiloo/membership/internal/test"
	"github.com/polkiloo/membership/internal/worker"
)

type listerStub struct{}

func (listerStub) ListCustomers(context.Context, bool) ([]model.Customer, error) { return nil, nil }

type adminStub struct {
	email, password string
	err             error
}

func (a *adminStub) EnsureAdmin(_ context.Context, email, password string) error {
	a.email, a.password = email, password
	return a.err
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewJSONHandler(io.Discard, nil))
}

func newTestScanner(t *testing.T, schedule string) *worker.ExpiryScanner {
	t.Helper()
	scanner, err := worker.NewExpiryScanner(listerStub{}, schedule, nil, discardLogger())
	if err != nil {
		t.Fatalf("NewExpiryScanner returned error: %v", err)
	}
	return scanner
}

func TestNewHTTPServer(t *testing.T) {
	cfg := &config.Config{RunAddress: ":9999"}
	router := gin.New()
	server := newHTTPServer(serverParams{Config: cfg, Router: router})
	if server.Addr != ":9999" {
		t.Fatalf("expected address :9999, got %q", server.Addr)
	}
	if server.Handler != router {
		t.Fatalf("expected handler to be router")
	}
}

func TestNewExpiryScannerUsesConfig(t *testing.T) {
	scanner, err := newExpiryScanner(workerParams{
		Facade: &MembershipFacade{},
		Config: &config.Config{ExpiryScanSchedule: "0 8 * * *"},
		Logger: discardLogger(),
	})
	if err != nil || scanner == nil {
		t.Fatalf("expected scanner instance, got %v %v", scanner, err)
	}

	_, err = newExpiryScanner(workerParams{
		Facade: &MembershipFacade{},
		Config: &config.Config{ExpiryScanSchedule: "every day"},
		Logger: discardLogger(),
	})
	if err == nil {
		t.Fatal("expected error for malformed schedule")
	}
}

func TestRegisterLifecycleStartStop(t *testing.T) {
	recorder := &testhelpers.LifecycleRecorder{}
	shutdowner := &testhelpers.ShutdownerStub{Called: make(chan struct{}, 1)}
	server := &http.Server{Addr: "127.0.0.1:0", Handler: http.NewServeMux()}
	scanner := newTestScanner(t, "0 8 * * *")
	admin := &adminStub{}
	cfg := &config.Config{ShutdownTimeout: 100 * time.Millisecond, AdminEmail: "root@example.com", AdminPassword: "secret"}

	registerLifecycle(lifecycleParams{
		Lifecycle:  recorder,
		Shutdowner: shutdowner,
		Logger:     discardLogger(),
		Server:     server,
		Worker:     scanner,
		Admin:      admin,
		Config:     cfg,
	})

	if len(recorder.Hooks) != 1 {
		t.Fatalf("expected one hook registered, got %d", len(recorder.Hooks))
	}

	hook := recorder.Hooks[0]
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := hook.OnStart(ctx); err != nil {
		t.Fatalf("on start failed: %v", err)
	}
	if admin.email != "root@example.com" || admin.password != "secret" {
		t.Fatalf("expected admin bootstrap with configured credentials, got %q/%q", admin.email, admin.password)
	}
	if !scanner.Scheduled() {
		t.Fatal("expected expiry scan to be scheduled")
	}

	done := make(chan struct{})
	go func() {
		defer close(done)
		_ = hook.OnStop(context.Background())
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("expected on stop to finish")
	}
	if scanner.Scheduled() {
		t.Fatal("expected expiry scan to be stopped")
	}
}

func TestRegisterLifecycleAdminBootstrapFailure(t *testing.T) {
	recorder := &testhelpers.LifecycleRecorder{}
	boom := errors.New("boom")

	registerLifecycle(lifecycleParams{
		Lifecycle:  recorder,
		Shutdowner: &testhelpers.ShutdownerStub{},
		Logger:     discardLogger(),
		Server:     &http.Server{Addr: "127.0.0.1:0"},
		Worker:     newTestScanner(t, ""),
		Admin:      &adminStub{err: boom},
		Config:     &config.Config{ShutdownTimeout: time.Second, AdminEmail: "root@example.com", AdminPassword: "x"},
	})

	if err := recorder.Start(context.Background()); !errors.Is(err, boom) {
		t.Fatalf("expected bootstrap error, got %v", err)
	}
}

func TestRegisterLifecycleShutdownOnServerError(t *testing.T) {
	recorder := &testhelpers.LifecycleRecorder{}
	shutdowner := &testhelpers.ShutdownerStub{Called: make(chan struct{}, 1)}

	registerLifecycle(lifecycleParams{
		Lifecycle:  recorder,
		Shutdowner: shutdowner,
		Logger:     discardLogger(),
		Server:     &http.Server{Addr: "bad addr"},
		Worker:     newTestScanner(t, ""),
		Admin:      &adminStub{},
		Config:     &config.Config{ShutdownTimeout: time.Second},
	})

	hook := recorder.Hooks[0]
	if err := hook.OnStart(context.Background()); err != nil {
		t.Fatalf("on start returned error: %v", err)
	}

	select {
	case <-shutdowner.Called:
	case <-time.After(time.Second):
		t.Fatal("expected shutdown to be triggered on server error")
	}

	_ = hook.OnStop(context.Background())
}

func TestLifecycleRecorderRunsHooks(t *testing.T) {
	recorder := &testhelpers.LifecycleRecorder{}
	var order []string
	recorder.Append(fx.Hook{
		OnStart: func(context.Context) error { order = append(order, "start-1"); return nil },
		OnStop:  func(context.Context) error { order = append(order, "stop-1"); return nil },
	})
	recorder.Append(fx.Hook{
		OnStart: func(context.Context) error { order = append(order, "start-2"); return nil },
		OnStop:  func(context.Context) error { order = append(order, "stop-2"); return nil },
	})

	if err := recorder.Start(context.Background()); err != nil {
		t.Fatalf("start: %v", err)
	}
	if err := recorder.Stop(context.Background()); err != nil {
		t.Fatalf("stop: %v", err)
	}
	want := []string{"start-1", "start-2", "stop-2", "stop-1"}
	if len(order) != len(want) {
		t.Fatalf("unexpected hook order %v", order)
	}
	for i := range want {
		if order[i] != want[i] {
			t.Fatalf("unexpected hook order %v", order)
		}
	}
}

func TestShutdownerStub(t *testing.T) {
	shutdowner := &testhelpers.ShutdownerStub{Called: make(chan struct{}, 1)}
	if err := shutdowner.Shutdown(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	select {
	case <-shutdowner.Called:
	default:
		t.Fatal("expected shutdown notification")
	}
}
