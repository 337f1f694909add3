package txn_test

import (
	"context"
	"errors"
	"testing"

	"github.com/go-kratos/kratos/v2/log"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/guoxiaopeng875/txscope/pkg/txn"
	"github.com/guoxiaopeng875/txscope/pkg/txn/txnmock"
)

type scopeKey struct{}

// expectStart registers Enter and SetManaged for alias and returns the scope context.
func expectStart(conns *txnmock.MockConnections, ctx context.Context, alias string) (context.Context, []any) {
	txCtx := context.WithValue(ctx, scopeKey{}, alias)
	return txCtx, []any{
		conns.EXPECT().Enter(ctx, alias).Return(txCtx, nil),
		conns.EXPECT().SetManaged(txCtx, alias, true).Return(nil),
	}
}

func TestBound_CleanScopeNeverReachesBackend(t *testing.T) {
	ctrl := gomock.NewController(t)
	conns := txnmock.NewMockConnections(ctrl)
	ctx := context.Background()

	txCtx, calls := expectStart(conns, ctx, "default")
	calls = append(calls,
		conns.EXPECT().IsDirty(txCtx, "default").Return(false),
		conns.EXPECT().Leave(txCtx, "default").Return(nil).Times(1),
	)
	gomock.InOrder(calls...)

	err := txn.Run(ctx, txn.NewBound(conns, "", log.DefaultLogger), func(context.Context) error {
		return nil
	})
	require.NoError(t, err)
}

func TestBound_DirtyScopeCommitsOnce(t *testing.T) {
	ctrl := gomock.NewController(t)
	conns := txnmock.NewMockConnections(ctrl)
	ctx := context.Background()

	txCtx, calls := expectStart(conns, ctx, "orders")
	calls = append(calls,
		conns.EXPECT().IsDirty(txCtx, "orders").Return(true),
		conns.EXPECT().Commit(txCtx, "orders").Return(nil).Times(1),
		conns.EXPECT().Leave(txCtx, "orders").Return(nil).Times(1),
	)
	gomock.InOrder(calls...)

	var got context.Context
	err := txn.Run(ctx, txn.NewBound(conns, "orders", log.DefaultLogger), func(ctx context.Context) error {
		got = ctx
		return nil
	})
	require.NoError(t, err)
	require.Equal(t, txCtx, got)
}

func TestBound_BlockFailureRollsBack(t *testing.T) {
	ctrl := gomock.NewController(t)
	conns := txnmock.NewMockConnections(ctrl)
	ctx := context.Background()
	boom := errors.New("boom")

	txCtx, calls := expectStart(conns, ctx, "default")
	calls = append(calls,
		conns.EXPECT().IsDirty(txCtx, "default").Return(true),
		conns.EXPECT().Rollback(txCtx, "default").Return(nil).Times(1),
		conns.EXPECT().Leave(txCtx, "default").Return(nil).Times(1),
	)
	gomock.InOrder(calls...)

	err := txn.Run(ctx, txn.NewBound(conns, "default", log.DefaultLogger), func(context.Context) error {
		return boom
	})
	require.ErrorIs(t, err, boom)
}

func TestBound_CleanBlockFailureSkipsRollback(t *testing.T) {
	ctrl := gomock.NewController(t)
	conns := txnmock.NewMockConnections(ctrl)
	ctx := context.Background()
	boom := errors.New("boom")

	txCtx, calls := expectStart(conns, ctx, "default")
	calls = append(calls,
		conns.EXPECT().IsDirty(txCtx, "default").Return(false),
		conns.EXPECT().Leave(txCtx, "default").Return(nil).Times(1),
	)
	gomock.InOrder(calls...)

	err := txn.Run(ctx, txn.NewBound(conns, "", log.DefaultLogger), func(context.Context) error {
		return boom
	})
	require.ErrorIs(t, err, boom)
}

func TestBound_CommitFailureRollsBackThenPropagates(t *testing.T) {
	ctrl := gomock.NewController(t)
	conns := txnmock.NewMockConnections(ctrl)
	ctx := context.Background()
	commitErr := errors.New("deadlock")

	txCtx, calls := expectStart(conns, ctx, "default")
	calls = append(calls,
		conns.EXPECT().IsDirty(txCtx, "default").Return(true),
		conns.EXPECT().Commit(txCtx, "default").Return(commitErr),
		conns.EXPECT().Rollback(txCtx, "default").Return(nil).Times(1),
		conns.EXPECT().Leave(txCtx, "default").Return(nil).Times(1),
	)
	gomock.InOrder(calls...)

	err := txn.Run(ctx, txn.NewBound(conns, "", log.DefaultLogger), func(context.Context) error {
		return nil
	})
	require.ErrorIs(t, err, commitErr)
}

func TestBound_CommitAndRollbackFailureBothSurface(t *testing.T) {
	ctrl := gomock.NewController(t)
	conns := txnmock.NewMockConnections(ctrl)
	ctx := context.Background()
	commitErr := errors.New("deadlock")
	rbErr := errors.New("connection reset")

	txCtx, calls := expectStart(conns, ctx, "default")
	calls = append(calls,
		conns.EXPECT().IsDirty(txCtx, "default").Return(true),
		conns.EXPECT().Commit(txCtx, "default").Return(commitErr),
		conns.EXPECT().Rollback(txCtx, "default").Return(rbErr),
		conns.EXPECT().Leave(txCtx, "default").Return(nil).Times(1),
	)
	gomock.InOrder(calls...)

	err := txn.Run(ctx, txn.NewBound(conns, "", log.DefaultLogger), func(context.Context) error {
		return nil
	})
	require.ErrorIs(t, err, commitErr)
	require.ErrorIs(t, err, rbErr)
}

func TestBound_LeaveFailureSurfaces(t *testing.T) {
	ctrl := gomock.NewController(t)
	conns := txnmock.NewMockConnections(ctrl)
	ctx := context.Background()
	leaveErr := errors.New("leave failed")

	txCtx, calls := expectStart(conns, ctx, "default")
	calls = append(calls,
		conns.EXPECT().IsDirty(txCtx, "default").Return(true),
		conns.EXPECT().Commit(txCtx, "default").Return(nil),
		conns.EXPECT().Leave(txCtx, "default").Return(leaveErr).Times(1),
	)
	gomock.InOrder(calls...)

	err := txn.Run(ctx, txn.NewBound(conns, "", log.DefaultLogger), func(context.Context) error {
		return nil
	})
	require.ErrorIs(t, err, leaveErr)
}

func TestBound_SetManagedFailureLeaves(t *testing.T) {
	ctrl := gomock.NewController(t)
	conns := txnmock.NewMockConnections(ctrl)
	ctx := context.Background()
	txCtx := context.WithValue(ctx, scopeKey{}, "default")
	managedErr := errors.New("read-only connection")

	gomock.InOrder(
		conns.EXPECT().Enter(ctx, "default").Return(txCtx, nil),
		conns.EXPECT().SetManaged(txCtx, "default", true).Return(managedErr),
		conns.EXPECT().Leave(txCtx, "default").Return(nil).Times(1),
	)

	called := false
	err := txn.Run(ctx, txn.NewBound(conns, "", log.DefaultLogger), func(context.Context) error {
		called = true
		return nil
	})
	require.ErrorIs(t, err, managedErr)
	require.False(t, called)
}

func TestBound_EnterFailure(t *testing.T) {
	ctrl := gomock.NewController(t)
	conns := txnmock.NewMockConnections(ctrl)
	ctx := context.Background()

	conns.EXPECT().Enter(ctx, "default").Return(ctx, txn.ErrNested)

	err := txn.Run(ctx, txn.NewBound(conns, "", log.DefaultLogger), func(context.Context) error {
		t.Fatal("block must not run")
		return nil
	})
	require.ErrorIs(t, err, txn.ErrNested)
}

func TestBound_PanicRollsBackAndLeaves(t *testing.T) {
	ctrl := gomock.NewController(t)
	conns := txnmock.NewMockConnections(ctrl)
	ctx := context.Background()

	txCtx, calls := expectStart(conns, ctx, "default")
	calls = append(calls,
		conns.EXPECT().IsDirty(txCtx, "default").Return(true),
		conns.EXPECT().Rollback(txCtx, "default").Return(nil).Times(1),
		conns.EXPECT().Leave(txCtx, "default").Return(nil).Times(1),
	)
	gomock.InOrder(calls...)

	require.Panics(t, func() {
		_ = txn.Run(ctx, txn.NewBound(conns, "", log.DefaultLogger), func(context.Context) error {
			panic("kaboom")
		})
	})
}

func TestNewBound_DefaultAlias(t *testing.T) {
	b := txn.NewBound(nil, "", log.DefaultLogger)
	require.Equal(t, txn.DefaultAlias, b.Alias())

	b = txn.NewBound(nil, "replica", log.DefaultLogger)
	require.Equal(t, "replica", b.Alias())
}
