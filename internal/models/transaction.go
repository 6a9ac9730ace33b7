package models

import "github.com/btcsuite/btcd/btcutil"

type Txid string

type Transaction struct {
	Txid     Txid
	Received btcutil.Amount
	Sent     btcutil.Amount
}

// Delta is the net effect of the transaction on the account
func (t Transaction) Delta() btcutil.Amount {
	return t.Received - t.Sent
}

// UnsignedProposal is a transaction awaiting signatures. Only the wallet
// service that built it understands the payload.
type UnsignedProposal struct {
	ID      string
	Payload []byte
}

// SignedProposal is the output of a signing round, complete or not
type SignedProposal struct {
	ID      string
	Payload []byte
}
