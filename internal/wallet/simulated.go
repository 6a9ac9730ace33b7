package wallet

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/btcsuite/btcd/btcutil"
	"github.com/btcsuite/btcd/btcutil/hdkeychain"
	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/google/uuid"

	"github.com/kelsos/junction/internal/logger"
	"github.com/kelsos/junction/internal/models"
)

// SimulatedOptions tunes the offline backend
type SimulatedOptions struct {
	Latency         time.Duration
	StartingBalance btcutil.Amount
	Fee             btcutil.Amount
}

// Simulated is an in-memory wallet backend. Addresses are real BIP-84
// derivations of the account key; funds and history live in a per-account
// ledger that is created on first sync.
type Simulated struct {
	opts    SimulatedOptions
	mu      sync.Mutex
	ledgers map[string]*ledger
	// next receive index per account, independent of sync
	indexes map[string]uint32
}

type ledger struct {
	balance btcutil.Amount
	txs     []models.Transaction
}

type proposalPayload struct {
	ID        string         `json:"id"`
	AccountID string         `json:"account_id"`
	To        string         `json:"to"`
	Amount    btcutil.Amount `json:"amount"`
	Fee       btcutil.Amount `json:"fee"`
	Signed    bool           `json:"signed"`
}

func NewSimulated(opts SimulatedOptions) *Simulated {
	if opts.Fee <= 0 {
		opts.Fee = 250
	}
	return &Simulated{
		opts:    opts,
		ledgers: make(map[string]*ledger),
		indexes: make(map[string]uint32),
	}
}

func (s *Simulated) wait(ctx context.Context) error {
	if s.opts.Latency <= 0 {
		return ctx.Err()
	}
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(s.opts.Latency):
		return nil
	}
}

func (s *Simulated) ledgerFor(account models.Account) (*ledger, error) {
	l, ok := s.ledgers[account.ID]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownAccount, account.Name)
	}
	return l, nil
}

func (s *Simulated) Sync(ctx context.Context, account models.Account, maxAddresses uint32) error {
	if err := s.wait(ctx); err != nil {
		return fmt.Errorf("sync interrupted: %w", err)
	}
	if _, err := accountKey(account); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.ledgers[account.ID]; ok {
		logger.Debug("Synced %s (up to %d addresses)", account.Name, maxAddresses)
		return nil
	}

	l := &ledger{}
	if s.opts.StartingBalance > 0 {
		funding := chainhash.DoubleHashH([]byte("funding:" + account.ID))
		l.balance = s.opts.StartingBalance
		l.txs = append(l.txs, models.Transaction{
			Txid:     models.Txid(funding.String()),
			Received: s.opts.StartingBalance,
		})
	}
	s.ledgers[account.ID] = l
	logger.Info("Loaded ledger for %s with balance %s", account.Name, l.balance)
	return nil
}

func (s *Simulated) Balance(ctx context.Context, account models.Account) (btcutil.Amount, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	l, err := s.ledgerFor(account)
	if err != nil {
		return 0, err
	}
	return l.balance, nil
}

func (s *Simulated) ListTransactions(ctx context.Context, account models.Account) ([]models.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	l, err := s.ledgerFor(account)
	if err != nil {
		return nil, err
	}
	txs := make([]models.Transaction, len(l.txs))
	copy(txs, l.txs)
	return txs, nil
}

func (s *Simulated) DeriveAddress(ctx context.Context, account models.Account) (btcutil.Address, error) {
	if err := s.wait(ctx); err != nil {
		return nil, fmt.Errorf("derivation interrupted: %w", err)
	}

	if _, err := accountKey(account); err != nil {
		return nil, err
	}

	s.mu.Lock()
	index := s.indexes[account.ID]
	s.indexes[account.ID] = index + 1
	s.mu.Unlock()

	return DeriveReceiveAddress(account, index)
}

func (s *Simulated) BuildProposal(ctx context.Context, account models.Account, to btcutil.Address, amount btcutil.Amount) (models.UnsignedProposal, error) {
	if err := s.wait(ctx); err != nil {
		return models.UnsignedProposal{}, fmt.Errorf("build interrupted: %w", err)
	}
	if amount <= 0 {
		return models.UnsignedProposal{}, ErrInvalidAmount
	}
	if !to.IsForNet(account.Network.Params()) {
		return models.UnsignedProposal{}, ErrWrongNetwork
	}

	s.mu.Lock()
	l, err := s.ledgerFor(account)
	if err != nil {
		s.mu.Unlock()
		return models.UnsignedProposal{}, err
	}
	balance := l.balance
	s.mu.Unlock()

	if amount+s.opts.Fee > balance {
		return models.UnsignedProposal{}, fmt.Errorf("%w: need %s, have %s",
			ErrInsufficientFunds, amount+s.opts.Fee, balance)
	}

	payload := proposalPayload{
		ID:        uuid.NewString(),
		AccountID: account.ID,
		To:        to.EncodeAddress(),
		Amount:    amount,
		Fee:       s.opts.Fee,
	}
	raw, err := json.Marshal(payload)
	if err != nil {
		return models.UnsignedProposal{}, fmt.Errorf("failed to encode proposal: %w", err)
	}
	return models.UnsignedProposal{ID: payload.ID, Payload: raw}, nil
}

func (s *Simulated) Sign(ctx context.Context, account models.Account, proposal models.UnsignedProposal) (models.SignedProposal, bool, error) {
	if err := s.wait(ctx); err != nil {
		return models.SignedProposal{}, false, fmt.Errorf("signing interrupted: %w", err)
	}
	payload, err := decodeProposal(account, proposal.Payload)
	if err != nil {
		return models.SignedProposal{}, false, err
	}

	key, err := accountKey(account)
	if err != nil {
		return models.SignedProposal{}, false, err
	}
	if !key.IsPrivate() {
		// Nothing to add; hand the proposal back so the caller sees it is not final.
		return models.SignedProposal{ID: proposal.ID, Payload: proposal.Payload}, false, nil
	}

	payload.Signed = true
	raw, err := json.Marshal(payload)
	if err != nil {
		return models.SignedProposal{}, false, fmt.Errorf("failed to encode proposal: %w", err)
	}
	return models.SignedProposal{ID: proposal.ID, Payload: raw}, true, nil
}

func (s *Simulated) Broadcast(ctx context.Context, account models.Account, proposal models.SignedProposal) (models.Txid, error) {
	if err := s.wait(ctx); err != nil {
		return "", fmt.Errorf("broadcast interrupted: %w", err)
	}
	payload, err := decodeProposal(account, proposal.Payload)
	if err != nil {
		return "", err
	}
	if !payload.Signed {
		return "", ErrProposalNotSigned
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	l, err := s.ledgerFor(account)
	if err != nil {
		return "", err
	}
	spent := payload.Amount + payload.Fee
	if spent > l.balance {
		return "", fmt.Errorf("%w: rejected by network", ErrInsufficientFunds)
	}

	txid := models.Txid(chainhash.DoubleHashH(proposal.Payload).String())
	l.balance -= spent
	l.txs = append(l.txs, models.Transaction{Txid: txid, Sent: spent})
	logger.Info("Broadcast %s from %s: %s to %s", txid, account.Name, payload.Amount, payload.To)
	return txid, nil
}

func decodeProposal(account models.Account, raw []byte) (proposalPayload, error) {
	var payload proposalPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		return payload, fmt.Errorf("%w: %v", ErrInvalidProposal, err)
	}
	if payload.AccountID != account.ID {
		return payload, ErrProposalMismatched
	}
	return payload, nil
}

// accountKey parses the account key and steps down to the BIP-84 account
// level when it is a master private key. Public keys are taken to already be
// account-level.
func accountKey(account models.Account) (*hdkeychain.ExtendedKey, error) {
	key, err := hdkeychain.NewKeyFromString(account.Key)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidKey, err)
	}
	if !key.IsForNet(account.Network.Params()) {
		return nil, fmt.Errorf("%w: key is not for %s", ErrInvalidKey, account.Network)
	}
	if key.Depth() != 0 {
		return key, nil
	}
	if !key.IsPrivate() {
		return nil, fmt.Errorf("%w: public master keys cannot derive hardened paths", ErrInvalidKey)
	}

	path := []uint32{
		hdkeychain.HardenedKeyStart + 84,
		hdkeychain.HardenedKeyStart + account.Network.CoinType(),
		hdkeychain.HardenedKeyStart,
	}
	for _, step := range path {
		key, err = key.Derive(step)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidKey, err)
		}
	}
	return key, nil
}

// DeriveReceiveAddress returns the P2WPKH address at 0/index below the
// account key.
func DeriveReceiveAddress(account models.Account, index uint32) (btcutil.Address, error) {
	key, err := accountKey(account)
	if err != nil {
		return nil, err
	}
	for _, step := range []uint32{0, index} {
		key, err = key.Derive(step)
		if err != nil {
			return nil, fmt.Errorf("failed to derive address %d: %w", index, err)
		}
	}
	pub, err := key.ECPubKey()
	if err != nil {
		return nil, fmt.Errorf("failed to derive address %d: %w", index, err)
	}
	return btcutil.NewAddressWitnessPubKeyHash(
		btcutil.Hash160(pub.SerializeCompressed()),
		account.Network.Params(),
	)
}
