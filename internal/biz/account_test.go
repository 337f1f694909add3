package biz_test

import (
	"context"
	"errors"
	"testing"

	"github.com/go-kratos/kratos/v2/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/guoxiaopeng875/txscope/internal/biz"
	"github.com/guoxiaopeng875/txscope/internal/biz/bizmock"
	"github.com/guoxiaopeng875/txscope/pkg/txn"
)

// journal records how each store's transaction ended.
type journal struct {
	events []string
}

type journaledTx struct {
	name string
	j    *journal
}

func (t *journaledTx) Start(ctx context.Context) (context.Context, error) {
	t.j.events = append(t.j.events, t.name+":start")
	return ctx, nil
}

func (t *journaledTx) Commit(context.Context) error {
	t.j.events = append(t.j.events, t.name+":commit")
	return nil
}

func (t *journaledTx) Rollback(context.Context) error {
	t.j.events = append(t.j.events, t.name+":rollback")
	return nil
}

type fixture struct {
	repo    *bizmock.MockAccountRepo
	cache   *bizmock.MockBalanceCache
	events  *bizmock.MockTransferEventRepo
	journal *journal
	uc      *biz.AccountUsecase
}

func newFixture(t *testing.T) *fixture {
	ctrl := gomock.NewController(t)
	f := &fixture{
		repo:    bizmock.NewMockAccountRepo(ctrl),
		cache:   bizmock.NewMockBalanceCache(ctrl),
		events:  bizmock.NewMockTransferEventRepo(ctrl),
		journal: &journal{},
	}
	manager := func(name string) *txn.Manager {
		return txn.NewManager(&journaledTx{name: name, j: f.journal}, log.DefaultLogger)
	}
	f.uc = biz.NewAccountUsecase(f.repo, f.cache, f.events,
		manager("db"), manager("cache"), manager("mq"), log.DefaultLogger)
	return f
}

func TestAccountUsecase_Transfer(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	gomock.InOrder(
		f.repo.EXPECT().Lock(gomock.Any(), int64(1)).Return(&biz.Account{ID: 1, Balance: 100}, nil),
		f.repo.EXPECT().Lock(gomock.Any(), int64(2)).Return(&biz.Account{ID: 2, Balance: 5}, nil),
		f.repo.EXPECT().AddBalance(gomock.Any(), int64(1), int64(-40)).Return(nil),
		f.repo.EXPECT().AddBalance(gomock.Any(), int64(2), int64(40)).Return(nil),
		f.repo.EXPECT().CreateTransfer(gomock.Any(), gomock.Any()).Return(nil),
		f.events.EXPECT().PublishTransfer(gomock.Any(), gomock.Any()).Return(nil),
	)

	tr, err := f.uc.Transfer(ctx, 1, 2, 40)
	require.NoError(t, err)
	assert.NotEmpty(t, tr.ID)
	assert.Equal(t, int64(40), tr.Amount)
	assert.Equal(t, []string{"mq:start", "db:start", "db:commit", "mq:commit"}, f.journal.events)
}

func TestAccountUsecase_TransferLocksInIDOrder(t *testing.T) {
	f := newFixture(t)

	gomock.InOrder(
		f.repo.EXPECT().Lock(gomock.Any(), int64(2)).Return(&biz.Account{ID: 2, Balance: 0}, nil),
		f.repo.EXPECT().Lock(gomock.Any(), int64(9)).Return(&biz.Account{ID: 9, Balance: 10}, nil),
	)
	f.repo.EXPECT().AddBalance(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil).Times(2)
	f.repo.EXPECT().CreateTransfer(gomock.Any(), gomock.Any()).Return(nil)
	f.events.EXPECT().PublishTransfer(gomock.Any(), gomock.Any()).Return(nil)

	_, err := f.uc.Transfer(context.Background(), 9, 2, 10)
	require.NoError(t, err)
}

func TestAccountUsecase_TransferInsufficientFunds(t *testing.T) {
	f := newFixture(t)

	f.repo.EXPECT().Lock(gomock.Any(), int64(1)).Return(&biz.Account{ID: 1, Balance: 10}, nil)
	f.repo.EXPECT().Lock(gomock.Any(), int64(2)).Return(&biz.Account{ID: 2}, nil)

	_, err := f.uc.Transfer(context.Background(), 1, 2, 11)
	require.ErrorIs(t, err, biz.ErrInsufficientFunds)
	assert.Equal(t, []string{"mq:start", "db:start", "db:rollback", "mq:rollback"}, f.journal.events)
}

func TestAccountUsecase_TransferAccountNotFound(t *testing.T) {
	f := newFixture(t)

	f.repo.EXPECT().Lock(gomock.Any(), int64(1)).Return(nil, biz.ErrAccountNotFound)

	_, err := f.uc.Transfer(context.Background(), 1, 2, 1)
	require.ErrorIs(t, err, biz.ErrAccountNotFound)
	assert.Equal(t, []string{"mq:start", "db:start", "db:rollback", "mq:rollback"}, f.journal.events)
}

func TestAccountUsecase_TransferPublishFailureRollsBack(t *testing.T) {
	f := newFixture(t)
	publishErr := errors.New("broker unavailable")

	f.repo.EXPECT().Lock(gomock.Any(), gomock.Any()).Return(&biz.Account{Balance: 50}, nil).Times(2)
	f.repo.EXPECT().AddBalance(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil).Times(2)
	f.repo.EXPECT().CreateTransfer(gomock.Any(), gomock.Any()).Return(nil)
	f.events.EXPECT().PublishTransfer(gomock.Any(), gomock.Any()).Return(publishErr)

	_, err := f.uc.Transfer(context.Background(), 1, 2, 50)
	require.ErrorIs(t, err, publishErr)
	assert.Equal(t, []string{"mq:start", "db:start", "db:rollback", "mq:rollback"}, f.journal.events)
}

func TestAccountUsecase_TransferInvalid(t *testing.T) {
	tests := []struct {
		name     string
		from, to int64
		amount   int64
	}{
		{name: "zero amount", from: 1, to: 2, amount: 0},
		{name: "negative amount", from: 1, to: 2, amount: -5},
		{name: "same account", from: 3, to: 3, amount: 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			_, err := f.uc.Transfer(context.Background(), tt.from, tt.to, tt.amount)
			require.ErrorIs(t, err, biz.ErrInvalidTransfer)
			assert.Empty(t, f.journal.events)
		})
	}
}

func TestAccountUsecase_SnapshotBalances(t *testing.T) {
	f := newFixture(t)
	accounts := []*biz.Account{{ID: 1, Balance: 10}, {ID: 2, Balance: 20}}

	f.repo.EXPECT().List(gomock.Any()).Return(accounts, nil)
	f.cache.EXPECT().PutBalance(gomock.Any(), accounts[0]).Return(nil)
	f.cache.EXPECT().PutBalance(gomock.Any(), accounts[1]).Return(nil)

	n, err := f.uc.SnapshotBalances(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.Equal(t, []string{"cache:start", "cache:commit"}, f.journal.events)
}

func TestAccountUsecase_SnapshotBalancesFailure(t *testing.T) {
	f := newFixture(t)
	cacheErr := errors.New("redis down")

	f.repo.EXPECT().List(gomock.Any()).Return([]*biz.Account{{ID: 1}, {ID: 2}}, nil)
	f.cache.EXPECT().PutBalance(gomock.Any(), gomock.Any()).Return(cacheErr)

	n, err := f.uc.SnapshotBalances(context.Background())
	require.ErrorIs(t, err, cacheErr)
	assert.Zero(t, n)
	assert.Equal(t, []string{"cache:start", "cache:rollback"}, f.journal.events)
}

func TestAccountUsecase_TransferCommitted(t *testing.T) {
	f := newFixture(t)
	f.repo.EXPECT().TransferExists(gomock.Any(), "t-1").Return(true, nil)

	ok, err := f.uc.TransferCommitted(context.Background(), "t-1")
	require.NoError(t, err)
	assert.True(t, ok)
}
