package xrun

import (
	"context"
	"errors"
	"os"
	"sync/atomic"
	"syscall"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGroup_Empty(t *testing.T) {
	g, _ := NewGroup(context.Background())
	assert.NoError(t, g.Wait())
}

func TestGroup_ServiceErrorCancelsOthers(t *testing.T) {
	trigger := errors.New("trigger")
	var stopped atomic.Bool

	g, ctx := NewGroup(context.Background(), WithName("test"), nil)
	g.Go(func(ctx context.Context) error {
		<-ctx.Done()
		stopped.Store(true)
		return ctx.Err()
	})
	g.GoWithName("failing", func(context.Context) error { return trigger })

	assert.ErrorIs(t, g.Wait(), trigger)
	assert.True(t, stopped.Load())
	assert.Error(t, ctx.Err())
}

func TestGroup_NilFunc(t *testing.T) {
	g, _ := NewGroup(context.Background())
	g.Go(nil)
	assert.ErrorIs(t, g.Wait(), ErrNilFunc)

	g, _ = NewGroup(context.Background())
	g.GoWithName("nil", nil)
	assert.ErrorIs(t, g.Wait(), ErrNilFunc)
}

func TestGroup_NilContext(t *testing.T) {
	var nilCtx context.Context
	g, ctx := NewGroup(nilCtx)
	require.NotNil(t, ctx)
	assert.Same(t, ctx, g.Context())
	assert.NoError(t, g.Wait())
}

func TestGroup_CancelCause(t *testing.T) {
	errDone := errors.New("stdin closed")

	tests := []struct {
		name    string
		cause   error
		service func(ctx context.Context) error
		want    error
	}{
		{"cause returned when service returns ctx.Err", errDone, func(ctx context.Context) error {
			<-ctx.Done()
			return ctx.Err()
		}, errDone},
		{"cause returned when service returns nil", errDone, func(ctx context.Context) error {
			<-ctx.Done()
			return nil
		}, errDone},
		{"nil cause filtered", nil, func(ctx context.Context) error {
			<-ctx.Done()
			return ctx.Err()
		}, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g, _ := NewGroup(context.Background())
			g.GoWithName("svc", tt.service)
			g.Cancel(tt.cause)
			err := g.Wait()
			if tt.want == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestGroup_InternalCanceledNotFiltered(t *testing.T) {
	g, _ := NewGroup(context.Background())
	g.Go(func(context.Context) error { return context.Canceled })
	assert.ErrorIs(t, g.Wait(), context.Canceled)
}

func TestGroup_ParentCanceled(t *testing.T) {
	parent, cancel := context.WithCancel(context.Background())
	g, _ := NewGroup(parent)
	g.Go(func(ctx context.Context) error {
		<-ctx.Done()
		return ctx.Err()
	})
	cancel()
	assert.NoError(t, g.Wait())
}

func TestRun_Signal(t *testing.T) {
	sigc := make(chan os.Signal, 1)
	sigc <- syscall.SIGTERM

	var served atomic.Bool
	err := run(context.Background(), []Option{WithSignals([]os.Signal{syscall.SIGUSR1})}, sigc,
		[]func(ctx context.Context) error{func(ctx context.Context) error {
			served.Store(true)
			<-ctx.Done()
			return ctx.Err()
		}})

	require.ErrorIs(t, err, ErrSignal)
	var sigErr *SignalError
	require.ErrorAs(t, err, &sigErr)
	assert.Equal(t, syscall.SIGTERM, sigErr.Signal)
	assert.Equal(t, "received signal terminated", err.Error())
	assert.True(t, served.Load())
}

func TestRun_ServicesFinish(t *testing.T) {
	errPipe := errors.New("pipe broke")
	err := Run(context.Background(), func(context.Context) error { return errPipe })
	assert.ErrorIs(t, err, errPipe)

	err = RunWithOptions(context.Background(), []Option{WithoutSignalHandler()},
		func(context.Context) error { return nil })
	assert.NoError(t, err)
}

func TestSignalError_Nil(t *testing.T) {
	err := &SignalError{}
	assert.Equal(t, "received signal <nil>", err.Error())
	assert.ErrorIs(t, err, ErrSignal)
}

func TestDefaultSignals_Copy(t *testing.T) {
	s := DefaultSignals()
	s[0] = syscall.SIGUSR2
	assert.Equal(t, syscall.SIGHUP, DefaultSignals()[0])
}

func TestTicker(t *testing.T) {
	t.Run("invalid", func(t *testing.T) {
		assert.ErrorIs(t, Ticker(0, false, func(context.Context) error { return nil })(context.Background()), ErrInvalidInterval)
		assert.ErrorIs(t, Ticker(time.Second, false, nil)(context.Background()), ErrNilFunc)
	})

	t.Run("stops on error", func(t *testing.T) {
		var n atomic.Int32
		errEnough := errors.New("enough")
		err := Ticker(time.Millisecond, true, func(context.Context) error {
			if n.Add(1) == 3 {
				return errEnough
			}
			return nil
		})(context.Background())
		assert.ErrorIs(t, err, errEnough)
		assert.Equal(t, int32(3), n.Load())
	})

	t.Run("immediate skipped on canceled ctx", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		var called atomic.Bool
		err := Ticker(time.Hour, true, func(context.Context) error {
			called.Store(true)
			return nil
		})(ctx)
		assert.ErrorIs(t, err, context.Canceled)
		assert.False(t, called.Load())
	})

	t.Run("stops on cancel", func(t *testing.T) {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
		defer cancel()
		err := Ticker(time.Hour, false, func(context.Context) error { return nil })(ctx)
		assert.ErrorIs(t, err, context.DeadlineExceeded)
	})
}
