package lifecycle

import (
	"context"
	"errors"
	"syscall"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestShutdown_ReverseOrder(t *testing.T) {
	m := New(time.Second, nil)
	var order []string
	for _, name := range []string{"bolt", "monitor", "http"} {
		name := name
		m.Register(name, func(context.Context) error {
			order = append(order, name)
			return nil
		})
	}
	m.Register("ignored", nil)

	require.NoError(t, m.Shutdown(context.Background()))
	assert.Equal(t, []string{"http", "monitor", "bolt"}, order)
}

func TestShutdown_JoinsErrorsAndRunsEveryHook(t *testing.T) {
	m := New(time.Second, nil)
	errClose := errors.New("close failed")
	ran := 0
	m.Register("bolt", func(context.Context) error { ran++; return errClose })
	m.Register("http", func(context.Context) error { ran++; return nil })

	err := m.Shutdown(context.Background())
	assert.ErrorIs(t, err, errClose)
	assert.ErrorContains(t, err, "bolt: close failed")
	assert.Equal(t, 2, ran)
}

func TestShutdown_RunsOnce(t *testing.T) {
	m := New(time.Second, nil)
	calls := 0
	m.Register("bolt", func(context.Context) error { calls++; return nil })

	require.NoError(t, m.Shutdown(context.Background()))
	require.NoError(t, m.Shutdown(context.Background()))
	assert.Equal(t, 1, calls)
}

func TestShutdown_HookSeesDeadline(t *testing.T) {
	m := New(50*time.Millisecond, nil)
	m.Register("slow", func(ctx context.Context) error {
		<-ctx.Done()
		return ctx.Err()
	})

	assert.ErrorIs(t, m.Shutdown(context.Background()), context.DeadlineExceeded)
}

type closerFunc func() error

func (f closerFunc) Close() error { return f() }

func TestRegisterCloser(t *testing.T) {
	m := New(time.Second, nil)
	closed := false
	m.RegisterCloser("storage", closerFunc(func() error { closed = true; return nil }))
	m.RegisterCloser("nothing", nil)

	require.NoError(t, m.Shutdown(context.Background()))
	assert.True(t, closed)
}

func TestNotifyContext_Signal(t *testing.T) {
	m := New(time.Second, nil)
	ctx, cancel := m.NotifyContext(context.Background())
	defer cancel()

	require.NoError(t, syscall.Kill(syscall.Getpid(), syscall.SIGINT))

	select {
	case <-ctx.Done():
	case <-time.After(2 * time.Second):
		t.Fatal("context not canceled by SIGINT")
	}
}

func TestNotifyContext_ParentCancel(t *testing.T) {
	m := New(time.Second, nil)
	parent, cancelParent := context.WithCancel(context.Background())
	ctx, cancel := m.NotifyContext(parent)
	defer cancel()

	cancelParent()
	<-ctx.Done()
	assert.ErrorIs(t, ctx.Err(), context.Canceled)
}

func TestRun_StopsOnContextCancel(t *testing.T) {
	m := New(time.Second, nil)
	closed := false
	m.RegisterCloser("storage", closerFunc(func() error { closed = true; return nil }))

	ctx, cancel := context.WithCancel(context.Background())
	stopped := make(chan struct{})
	cancel()

	err := m.Run(ctx, "http_server",
		func() error { <-stopped; return nil },
		func(context.Context) error { close(stopped); return nil })

	require.NoError(t, err)
	assert.True(t, closed)
}

func TestRun_ServeFailure(t *testing.T) {
	m := New(time.Second, nil)
	errBind := errors.New("address in use")
	stopCalls := 0

	err := m.Run(context.Background(), "http_server",
		func() error { return errBind },
		func(context.Context) error { stopCalls++; return nil })

	assert.ErrorIs(t, err, errBind)
	assert.ErrorContains(t, err, "http_server: address in use")
	assert.Equal(t, 1, stopCalls)
}
