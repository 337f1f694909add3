package rocketmq

import (
	"context"
	"errors"
	"testing"
	"time"

	rmq "github.com/apache/rocketmq-clients/golang/v5"
	"github.com/go-kratos/kratos/v2/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/guoxiaopeng875/txscope/internal/conf"
	"github.com/guoxiaopeng875/txscope/pkg/txn"
)

type fakeTx struct {
	committed  int
	rolledBack int
	commitErr  error
}

func (f *fakeTx) Commit() error {
	f.committed++
	return f.commitErr
}

func (f *fakeTx) RollBack() error {
	f.rolledBack++
	return nil
}

type fakeClient struct {
	sent     []*rmq.Message
	half     []*rmq.Message
	txs      []*fakeTx
	sendErr  error
	nextFail error
}

func (f *fakeClient) Send(_ context.Context, msg *rmq.Message) ([]*rmq.SendReceipt, error) {
	if f.sendErr != nil {
		return nil, f.sendErr
	}
	f.sent = append(f.sent, msg)
	return []*rmq.SendReceipt{{MessageID: "plain-1"}}, nil
}

func (f *fakeClient) SendWithTransaction(_ context.Context, msg *rmq.Message, _ rmq.Transaction) ([]*rmq.SendReceipt, error) {
	if f.sendErr != nil {
		return nil, f.sendErr
	}
	f.half = append(f.half, msg)
	return []*rmq.SendReceipt{{MessageID: "half-1", TransactionId: "tx-1"}}, nil
}

func (f *fakeClient) BeginTransaction() rmq.Transaction {
	tx := &fakeTx{commitErr: f.nextFail}
	f.txs = append(f.txs, tx)
	return tx
}

func newFakeTransactions(t *testing.T) (*Transactions, *fakeClient) {
	t.Helper()
	fc := &fakeClient{}
	p := newProducer(fc, &Config{SendTimeout: time.Second}, log.DefaultLogger)
	tr, err := NewTransactions(map[string]*Producer{"": p})
	require.NoError(t, err)
	return tr, fc
}

var transferMsg = &Message{Topic: "transfers", Body: []byte(`{"id":1}`), Keys: []string{"transfer-1"}, Tag: "completed"}

func TestTransactions_CommitPublishesHalfMessage(t *testing.T) {
	tr, fc := newFakeTransactions(t)
	bound := txn.NewBound(tr, "", log.DefaultLogger)

	err := txn.Run(context.Background(), bound, func(ctx context.Context) error {
		receipt, err := tr.Send(ctx, txn.DefaultAlias, transferMsg)
		require.NoError(t, err)
		assert.Equal(t, "tx-1", receipt.TransactionID)
		return nil
	})
	require.NoError(t, err)

	require.Len(t, fc.half, 1)
	assert.Empty(t, fc.sent)
	assert.Equal(t, "transfers", fc.half[0].Topic)
	require.Len(t, fc.txs, 1)
	assert.Equal(t, 1, fc.txs[0].committed)
	assert.Equal(t, 0, fc.txs[0].rolledBack)
}

func TestTransactions_FailureWithdrawsHalfMessage(t *testing.T) {
	tr, fc := newFakeTransactions(t)
	bound := txn.NewBound(tr, "", log.DefaultLogger)
	boom := errors.New("insufficient funds")

	err := txn.Run(context.Background(), bound, func(ctx context.Context) error {
		_, err := tr.Send(ctx, txn.DefaultAlias, transferMsg)
		require.NoError(t, err)
		return boom
	})
	require.ErrorIs(t, err, boom)

	require.Len(t, fc.txs, 1)
	assert.Equal(t, 0, fc.txs[0].committed)
	assert.Equal(t, 1, fc.txs[0].rolledBack)
}

// The v5 client logs end-transaction failures instead of returning them;
// this covers clients that do return one.
func TestTransactions_CommitFailureRollsBack(t *testing.T) {
	tr, fc := newFakeTransactions(t)
	commitErr := errors.New("broker unavailable")
	fc.nextFail = commitErr
	bound := txn.NewBound(tr, "", log.DefaultLogger)

	err := txn.Run(context.Background(), bound, func(ctx context.Context) error {
		_, err := tr.Send(ctx, txn.DefaultAlias, transferMsg)
		return err
	})
	require.ErrorIs(t, err, commitErr)
	require.Len(t, fc.txs, 1)
	assert.Equal(t, 1, fc.txs[0].committed)
	assert.Equal(t, 1, fc.txs[0].rolledBack)
}

func TestTransactions_CleanScopeNeverBeginsTransaction(t *testing.T) {
	tr, fc := newFakeTransactions(t)
	bound := txn.NewBound(tr, "", log.DefaultLogger)

	require.NoError(t, txn.Run(context.Background(), bound, func(context.Context) error {
		return nil
	}))
	assert.Empty(t, fc.txs)
}

func TestTransactions_SingleMessagePerTransaction(t *testing.T) {
	tr, _ := newFakeTransactions(t)
	ctx, err := tr.Enter(context.Background(), txn.DefaultAlias)
	require.NoError(t, err)
	require.NoError(t, tr.SetManaged(ctx, txn.DefaultAlias, true))

	_, err = tr.Send(ctx, txn.DefaultAlias, transferMsg)
	require.NoError(t, err)
	_, err = tr.Send(ctx, txn.DefaultAlias, transferMsg)
	require.ErrorIs(t, err, ErrTransactionFull)

	require.ErrorIs(t, tr.Leave(ctx, txn.DefaultAlias), ErrUncommittedMessage)
}

func TestTransactions_SendOutsideScope(t *testing.T) {
	tr, fc := newFakeTransactions(t)

	receipt, err := tr.Send(context.Background(), txn.DefaultAlias, transferMsg)
	require.NoError(t, err)
	assert.Equal(t, "plain-1", receipt.MessageID)
	assert.Len(t, fc.sent, 1)
	assert.Empty(t, fc.txs)

	_, err = tr.Send(context.Background(), "audit", transferMsg)
	require.ErrorIs(t, err, ErrUnknownAlias)
}

func TestTransactions_SendFailureKeepsScopeClean(t *testing.T) {
	tr, fc := newFakeTransactions(t)
	fc.sendErr = errors.New("timeout")

	ctx, err := tr.Enter(context.Background(), txn.DefaultAlias)
	require.NoError(t, err)
	require.NoError(t, tr.SetManaged(ctx, txn.DefaultAlias, true))

	_, err = tr.Send(ctx, txn.DefaultAlias, transferMsg)
	require.ErrorIs(t, err, fc.sendErr)
	assert.False(t, tr.IsDirty(ctx, txn.DefaultAlias))

	// the empty transaction is released on leave
	require.NoError(t, tr.Leave(ctx, txn.DefaultAlias))
	require.Len(t, fc.txs, 1)
	assert.Equal(t, 1, fc.txs[0].rolledBack)
}

func TestNewConfig(t *testing.T) {
	cfg := NewConfig(&conf.RocketMQ{
		NameServers:   "10.0.0.1:8081;10.0.0.2:8081",
		ProducerGroup: "transfers",
		AccessKey:     "ak",
		SecretKey:     "sk",
		RetryTimes:    5,
		SendTimeout:   conf.Duration{Duration: 2 * time.Second},
	})
	assert.Equal(t, "10.0.0.1:8081", cfg.Endpoint)
	assert.Equal(t, "transfers", cfg.ConsumerGroup)
	assert.Equal(t, int32(5), cfg.MaxAttempts)
	assert.Equal(t, 2*time.Second, cfg.SendTimeout)
	assert.Equal(t, "ak", cfg.Credentials.AccessKey)

	defaults := NewConfig(&conf.RocketMQ{NameServers: "127.0.0.1:8081"})
	assert.Equal(t, int32(3), defaults.MaxAttempts)
	assert.Equal(t, 3*time.Second, defaults.SendTimeout)
	assert.Equal(t, "127.0.0.1:8081", defaults.ToRMQConfig().Endpoint)
}
