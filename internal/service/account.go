package service

import (
	"context"
	"time"

	"github.com/go-kratos/kratos/v2/log"
	"github.com/go-kratos/kratos/v2/transport/http"

	"github.com/guoxiaopeng875/txscope/internal/biz"
)

// OperationAccountTransfer is the operation name of the transfer endpoint.
const OperationAccountTransfer = "/txscope.account.v1.Account/Transfer"

// TransferRequest is the body of POST /v1/transfers.
type TransferRequest struct {
	From   int64 `json:"from"`
	To     int64 `json:"to"`
	Amount int64 `json:"amount"`
}

// TransferReply describes a committed transfer.
type TransferReply struct {
	ID        string `json:"id"`
	From      int64  `json:"from"`
	To        int64  `json:"to"`
	Amount    int64  `json:"amount"`
	CreatedAt string `json:"created_at"`
}

// AccountService is the account service.
type AccountService struct {
	uc  *biz.AccountUsecase
	log *log.Helper
}

// NewAccountService new an account service.
func NewAccountService(uc *biz.AccountUsecase, logger log.Logger) *AccountService {
	return &AccountService{
		uc:  uc,
		log: log.NewHelper(log.With(logger, "module", "service/account")),
	}
}

// Transfer implements POST /v1/transfers.
func (s *AccountService) Transfer(ctx context.Context, req *TransferRequest) (*TransferReply, error) {
	t, err := s.uc.Transfer(ctx, req.From, req.To, req.Amount)
	if err != nil {
		return nil, err
	}
	return &TransferReply{
		ID:        t.ID,
		From:      t.From,
		To:        t.To,
		Amount:    t.Amount,
		CreatedAt: t.CreatedAt.UTC().Format(time.RFC3339),
	}, nil
}

// RegisterAccountHTTPServer mounts the account routes on s.
func RegisterAccountHTTPServer(s *http.Server, svc *AccountService) {
	r := s.Route("/")
	r.POST("/v1/transfers", accountTransferHandler(svc))
}

func accountTransferHandler(svc *AccountService) func(ctx http.Context) error {
	return func(ctx http.Context) error {
		var in TransferRequest
		if err := ctx.Bind(&in); err != nil {
			return err
		}
		http.SetOperation(ctx, OperationAccountTransfer)
		h := ctx.Middleware(func(ctx context.Context, req interface{}) (interface{}, error) {
			return svc.Transfer(ctx, req.(*TransferRequest))
		})
		out, err := h(ctx, &in)
		if err != nil {
			return err
		}
		return ctx.Result(200, out)
	}
}
