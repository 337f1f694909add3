package biz

import (
	"context"
	"time"

	"github.com/go-kratos/kratos/v2/errors"
	"github.com/go-kratos/kratos/v2/log"
	"github.com/google/uuid"
)

//go:generate mockgen -source=account.go -destination=bizmock/account.go -package=bizmock

var (
	// ErrAccountNotFound is account not found.
	ErrAccountNotFound = errors.NotFound("ACCOUNT_NOT_FOUND", "account not found")
	// ErrInsufficientFunds is returned when the source balance cannot cover a transfer.
	ErrInsufficientFunds = errors.BadRequest("INSUFFICIENT_FUNDS", "insufficient funds")
	// ErrInvalidTransfer is returned for non-positive amounts and self transfers.
	ErrInvalidTransfer = errors.BadRequest("INVALID_TRANSFER", "invalid transfer")
)

// Account is an account model.
type Account struct {
	ID      int64
	Owner   string
	Balance int64
}

// Transfer moves Amount from one account to another.
type Transfer struct {
	ID        string
	From      int64
	To        int64
	Amount    int64
	CreatedAt time.Time
}

// AccountRepo is an account repo.
type AccountRepo interface {
	// Lock loads the account and locks it until the surrounding transaction ends.
	Lock(ctx context.Context, id int64) (*Account, error)
	AddBalance(ctx context.Context, id int64, delta int64) error
	CreateTransfer(ctx context.Context, t *Transfer) error
	TransferExists(ctx context.Context, id string) (bool, error)
	List(ctx context.Context) ([]*Account, error)
}

// BalanceCache mirrors balances for fast reads.
type BalanceCache interface {
	PutBalance(ctx context.Context, a *Account) error
}

// TransferEventRepo publishes completed transfers.
type TransferEventRepo interface {
	PublishTransfer(ctx context.Context, t *Transfer) error
}

// AccountUsecase is an account usecase.
type AccountUsecase struct {
	repo    AccountRepo
	cache   BalanceCache
	events  TransferEventRepo
	tx      Transaction
	cacheTx CacheTransaction
	eventTx EventTransaction
	log     *log.Helper
}

// NewAccountUsecase new an account usecase.
func NewAccountUsecase(
	repo AccountRepo,
	cache BalanceCache,
	events TransferEventRepo,
	tx Transaction,
	cacheTx CacheTransaction,
	eventTx EventTransaction,
	logger log.Logger,
) *AccountUsecase {
	return &AccountUsecase{
		repo:    repo,
		cache:   cache,
		events:  events,
		tx:      tx,
		cacheTx: cacheTx,
		eventTx: eventTx,
		log:     log.NewHelper(log.With(logger, "module", "biz/account")),
	}
}

// Transfer moves amount between two accounts. The balance updates and the
// transfer record commit together; the transfer event is only released
// once they have.
func (uc *AccountUsecase) Transfer(ctx context.Context, from, to, amount int64) (*Transfer, error) {
	if amount <= 0 || from == to {
		return nil, ErrInvalidTransfer
	}

	t := &Transfer{
		ID:        uuid.NewString(),
		From:      from,
		To:        to,
		Amount:    amount,
		CreatedAt: time.Now(),
	}

	err := uc.eventTx.InTx(ctx, func(ctx context.Context) error {
		return uc.tx.InTx(ctx, func(ctx context.Context) error {
			return uc.transfer(ctx, t)
		})
	})
	if err != nil {
		return nil, err
	}

	uc.log.WithContext(ctx).Infof("transfer %s: %d -> %d, amount=%d", t.ID, from, to, amount)
	return t, nil
}

func (uc *AccountUsecase) transfer(ctx context.Context, t *Transfer) error {
	// lock in id order so that opposite transfers cannot deadlock
	first, second := t.From, t.To
	if second < first {
		first, second = second, first
	}
	locked := make(map[int64]*Account, 2)
	for _, id := range []int64{first, second} {
		a, err := uc.repo.Lock(ctx, id)
		if err != nil {
			return err
		}
		locked[id] = a
	}

	if locked[t.From].Balance < t.Amount {
		return ErrInsufficientFunds
	}
	if err := uc.repo.AddBalance(ctx, t.From, -t.Amount); err != nil {
		return err
	}
	if err := uc.repo.AddBalance(ctx, t.To, t.Amount); err != nil {
		return err
	}
	if err := uc.repo.CreateTransfer(ctx, t); err != nil {
		return err
	}
	return uc.events.PublishTransfer(ctx, t)
}

// TransferCommitted reports whether the transfer with id was committed.
func (uc *AccountUsecase) TransferCommitted(ctx context.Context, id string) (bool, error) {
	return uc.repo.TransferExists(ctx, id)
}

// SnapshotBalances copies every balance into the cache in one cache
// transaction and returns the number of accounts written.
func (uc *AccountUsecase) SnapshotBalances(ctx context.Context) (int, error) {
	accounts, err := uc.repo.List(ctx)
	if err != nil {
		return 0, err
	}

	err = uc.cacheTx.InTx(ctx, func(ctx context.Context) error {
		for _, a := range accounts {
			if err := uc.cache.PutBalance(ctx, a); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return len(accounts), nil
}
