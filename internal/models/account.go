package models

import (
	"fmt"

	"github.com/btcsuite/btcd/btcutil"
	"github.com/btcsuite/btcd/btcutil/hdkeychain"
	"github.com/google/uuid"
)

// Account is one wallet the user operates. Balance and Transactions are caches
// filled by a sync; nil means never loaded.
type Account struct {
	ID           string
	Name         string
	Network      Network
	Key          string
	Balance      *btcutil.Amount
	Transactions []Transaction
}

func NewAccount(name string, network Network, key string) Account {
	return Account{
		ID:      uuid.NewString(),
		Name:    name,
		Network: network,
		Key:     key,
	}
}

// Clone returns a copy that shares nothing mutable with a
func (a Account) Clone() Account {
	c := a
	if a.Balance != nil {
		balance := *a.Balance
		c.Balance = &balance
	}
	if a.Transactions != nil {
		c.Transactions = make([]Transaction, len(a.Transactions))
		copy(c.Transactions, a.Transactions)
	}
	return c
}

// WatchOnly reports whether the account only holds a public extended key.
// Keys that do not parse are not watch-only; signing rejects them anyway.
func (a Account) WatchOnly() bool {
	key, err := hdkeychain.NewKeyFromString(a.Key)
	if err != nil {
		return false
	}
	return !key.IsPrivate()
}

// Descriptor renders the BIP-84 receive descriptor for the account
func (a Account) Descriptor() string {
	if a.Key == "" {
		return ""
	}
	return fmt.Sprintf("wpkh(%s/84'/%d'/0'/0/*)", a.Key, a.Network.CoinType())
}

func (a Account) String() string {
	return fmt.Sprintf("%s (%s)", a.Name, a.Network)
}
