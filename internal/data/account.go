package data

import (
	"context"
	"errors"
	"time"

	"github.com/go-kratos/kratos/v2/log"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/guoxiaopeng875/txscope/internal/biz"
)

// AccountModel is the accounts table.
type AccountModel struct {
	ID        int64  `gorm:"primaryKey"`
	Owner     string `gorm:"size:64;not null"`
	Balance   int64  `gorm:"not null;default:0"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

// TableName implements gorm's tabler.
func (AccountModel) TableName() string { return "accounts" }

// TransferModel is the transfers table.
type TransferModel struct {
	ID            string `gorm:"primaryKey;size:36"`
	FromAccountID int64  `gorm:"index;not null"`
	ToAccountID   int64  `gorm:"index;not null"`
	Amount        int64  `gorm:"not null"`
	CreatedAt     time.Time
}

// TableName implements gorm's tabler.
func (TransferModel) TableName() string { return "transfers" }

// Models lists every table of the service, for schema tooling.
func Models() []any {
	return []any{&AccountModel{}, &TransferModel{}}
}

type accountRepo struct {
	data *Data
	log  *log.Helper
}

// NewAccountRepo .
func NewAccountRepo(data *Data, logger log.Logger) biz.AccountRepo {
	return &accountRepo{
		data: data,
		log:  log.NewHelper(log.With(logger, "module", "data/account")),
	}
}

func (r *accountRepo) Lock(ctx context.Context, id int64) (*biz.Account, error) {
	db, err := r.data.DB(ctx)
	if err != nil {
		return nil, err
	}
	var m AccountModel
	err = db.Clauses(clause.Locking{Strength: "UPDATE"}).Where("id = ?", id).Take(&m).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		r.log.WithContext(ctx).Debugf("account %d not found", id)
		return nil, biz.ErrAccountNotFound
	}
	if err != nil {
		return nil, err
	}
	return toAccount(&m), nil
}

func (r *accountRepo) AddBalance(ctx context.Context, id int64, delta int64) error {
	db, err := r.data.DB(ctx)
	if err != nil {
		return err
	}
	res := db.Model(&AccountModel{}).Where("id = ?", id).
		Update("balance", gorm.Expr("balance + ?", delta))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return biz.ErrAccountNotFound
	}
	return nil
}

func (r *accountRepo) CreateTransfer(ctx context.Context, t *biz.Transfer) error {
	db, err := r.data.DB(ctx)
	if err != nil {
		return err
	}
	return db.Create(&TransferModel{
		ID:            t.ID,
		FromAccountID: t.From,
		ToAccountID:   t.To,
		Amount:        t.Amount,
		CreatedAt:     t.CreatedAt,
	}).Error
}

func (r *accountRepo) TransferExists(ctx context.Context, id string) (bool, error) {
	db, err := r.data.DB(ctx)
	if err != nil {
		return false, err
	}
	var n int64
	if err := db.Model(&TransferModel{}).Where("id = ?", id).Count(&n).Error; err != nil {
		return false, err
	}
	return n > 0, nil
}

func (r *accountRepo) List(ctx context.Context) ([]*biz.Account, error) {
	db, err := r.data.DB(ctx)
	if err != nil {
		return nil, err
	}
	var ms []AccountModel
	if err := db.Order("id").Find(&ms).Error; err != nil {
		return nil, err
	}
	accounts := make([]*biz.Account, 0, len(ms))
	for i := range ms {
		accounts = append(accounts, toAccount(&ms[i]))
	}
	return accounts, nil
}

func toAccount(m *AccountModel) *biz.Account {
	return &biz.Account{ID: m.ID, Owner: m.Owner, Balance: m.Balance}
}
