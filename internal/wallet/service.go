package wallet

import (
	"context"
	"errors"

	"github.com/btcsuite/btcd/btcutil"

	"github.com/kelsos/junction/internal/models"
)

var (
	ErrUnknownAccount     = errors.New("account is not loaded")
	ErrInvalidKey         = errors.New("account key is invalid")
	ErrWrongNetwork       = errors.New("address belongs to another network")
	ErrInvalidAmount      = errors.New("amount must be positive")
	ErrInsufficientFunds  = errors.New("insufficient funds")
	ErrInvalidProposal    = errors.New("proposal payload is invalid")
	ErrProposalNotSigned  = errors.New("proposal is not fully signed")
	ErrProposalMismatched = errors.New("proposal was built for another account")
)

// Service is everything the front-end needs from the wallet backend. Every call
// may fail and may block, so callers go through the effect scheduler.
type Service interface {
	Sync(ctx context.Context, account models.Account, maxAddresses uint32) error
	Balance(ctx context.Context, account models.Account) (btcutil.Amount, error)
	ListTransactions(ctx context.Context, account models.Account) ([]models.Transaction, error)
	DeriveAddress(ctx context.Context, account models.Account) (btcutil.Address, error)
	BuildProposal(ctx context.Context, account models.Account, to btcutil.Address, amount btcutil.Amount) (models.UnsignedProposal, error)
	// Sign returns the proposal with every signature the account could add and
	// whether that made it final.
	Sign(ctx context.Context, account models.Account, proposal models.UnsignedProposal) (models.SignedProposal, bool, error)
	Broadcast(ctx context.Context, account models.Account, proposal models.SignedProposal) (models.Txid, error)
}

// Refresh runs a sync and returns a copy of account with balance and history
// filled in. The input is left untouched.
func Refresh(ctx context.Context, svc Service, account models.Account, maxAddresses uint32) (models.Account, error) {
	if err := svc.Sync(ctx, account, maxAddresses); err != nil {
		return account, err
	}
	balance, err := svc.Balance(ctx, account)
	if err != nil {
		return account, err
	}
	txs, err := svc.ListTransactions(ctx, account)
	if err != nil {
		return account, err
	}

	updated := account.Clone()
	updated.Balance = &balance
	updated.Transactions = txs
	return updated, nil
}
