package db

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/require"
)

// poolHooks registra qué hooks se llamaron y restaura los originales al terminar el test.
type poolHooks struct {
	capturedCtx context.Context
	capturedURL string
	pingCalled  bool
	closed      poolPinger
}

func stubPoolHooks(t *testing.T, created *pgxpool.Pool, createErr, pingErr error) *poolHooks {
	t.Helper()

	originalNewPool, originalPingPool, originalClosePool := newPool, pingPool, closePool
	t.Cleanup(func() {
		newPool, pingPool, closePool = originalNewPool, originalPingPool, originalClosePool
	})

	hooks := &poolHooks{}
	newPool = func(ctx context.Context, databaseURL string) (*pgxpool.Pool, error) {
		hooks.capturedCtx = ctx
		hooks.capturedURL = databaseURL
		return created, createErr
	}
	pingPool = func(ctx context.Context, pool poolPinger) error {
		hooks.pingCalled = true
		return pingErr
	}
	closePool = func(pool poolPinger) {
		hooks.closed = pool
	}
	return hooks
}

func TestNewPool(t *testing.T) {
	created := &pgxpool.Pool{}
	createErr := errors.New("new pool failed")
	pingErr := errors.New("ping failed")

	tests := []struct {
		name       string
		createErr  error
		pingErr    error
		wantErr    error
		wantPrefix string
		wantPing   bool
		wantClose  bool
	}{
		{
			name:       "create error skips ping",
			createErr:  createErr,
			wantErr:    createErr,
			wantPrefix: "create postgres pool",
		},
		{
			name:       "ping error closes the pool",
			pingErr:    pingErr,
			wantErr:    pingErr,
			wantPrefix: "ping postgres",
			wantPing:   true,
			wantClose:  true,
		},
		{
			name:     "success",
			wantPing: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hooks := stubPoolHooks(t, created, tt.createErr, tt.pingErr)

			pool, err := NewPool(context.Background(), "postgres://ledger@localhost/ledger")

			require.Equal(t, "postgres://ledger@localhost/ledger", hooks.capturedURL)
			require.Equal(t, tt.wantPing, hooks.pingCalled)
			require.Equal(t, tt.wantClose, hooks.closed != nil)

			deadline, ok := hooks.capturedCtx.Deadline()
			require.True(t, ok)
			require.True(t, time.Until(deadline) <= 5*time.Second)

			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				require.ErrorContains(t, err, tt.wantPrefix)
				require.Nil(t, pool)
				return
			}
			require.NoError(t, err)
			require.Same(t, created, pool)
		})
	}
}

type fakePoolPinger struct {
	pingCalled  bool
	closeCalled bool
}

func (fake *fakePoolPinger) Ping(ctx context.Context) error {
	fake.pingCalled = true
	return nil
}

func (fake *fakePoolPinger) Close() {
	fake.closeCalled = true
}

func TestDefaultPoolHooks(t *testing.T) {
	fake := &fakePoolPinger{}

	require.NoError(t, pingPool(context.Background(), fake))
	closePool(fake)

	require.True(t, fake.pingCalled)
	require.True(t, fake.closeCalled)

	pool, err := newPool(context.Background(), "postgres://localhost:notaport/ledger")
	require.Error(t, err)
	require.Nil(t, pool)
}
